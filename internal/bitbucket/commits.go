package bitbucket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListCommits lists commits, optionally scoped to a branch.
func (c *Client) ListCommits(ctx context.Context, slug, branch string, limit int) ([]Commit, error) {
	path := c.repoPath(slug, "commits")
	if branch != "" {
		path = c.repoPath(slug, "commits", branch)
	}
	return listPage[Commit](ctx, c, path, listOptions{limit: limit})
}

// GetCommit fetches one commit by hash; nil means not found.
func (c *Client) GetCommit(ctx context.Context, slug, hash string) (*Commit, error) {
	return getJSON[Commit](ctx, c, c.repoPath(slug, "commit", hash), nil)
}

// CompareCommits returns the per-file diffstat between base and head.
// A nil slice (distinct from an empty one) means the upstream could
// not resolve the revspec; callers report "could not compare" rather
// than failing.
func (c *Client) CompareCommits(ctx context.Context, slug, base, head string, limit int) ([]DiffStat, error) {
	spec := base + ".." + head
	q := url.Values{}
	q.Set("pagelen", strconv.Itoa(ClampLimit(limit, DefaultMaxPagelen)))
	raw, err := c.do(ctx, http.MethodGet, c.repoPath(slug, "diffstat", spec), nil, q)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var env page[DiffStat]
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode diffstat %s: %w", spec, err)
	}
	if env.Values == nil {
		return []DiffStat{}, nil
	}
	return env.Values, nil
}

// GetCommitDiff returns the raw unified diff for a revspec (a single
// hash or base..head); nil means not found.
func (c *Client) GetCommitDiff(ctx context.Context, slug, spec string) (*string, error) {
	return c.doText(ctx, http.MethodGet, c.repoPath(slug, "diff", spec), nil)
}

// ListCommitStatuses lists build statuses attached to a commit.
func (c *Client) ListCommitStatuses(ctx context.Context, slug, hash string, limit int) ([]CommitStatus, error) {
	return listPage[CommitStatus](ctx, c, c.repoPath(slug, "commit", hash, "statuses"), listOptions{limit: limit})
}

// ListCommitComments lists comments on a commit.
func (c *Client) ListCommitComments(ctx context.Context, slug, hash string, limit int) ([]Comment, error) {
	return listPage[Comment](ctx, c, c.repoPath(slug, "commit", hash, "comments"), listOptions{limit: limit})
}
