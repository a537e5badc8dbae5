package bitbucket

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// prListMaxPagelen is the upstream ceiling for pull request listings,
// lower than the usual 100.
const prListMaxPagelen = 50

// DefaultDestinationBranch is assumed when a pull request or source
// read names no branch.
const DefaultDestinationBranch = "main"

// ListPullRequests lists pull requests, optionally filtered by state
// (OPEN, MERGED, DECLINED, SUPERSEDED).
func (c *Client) ListPullRequests(ctx context.Context, slug, state string, limit int) ([]PullRequest, error) {
	return listPage[PullRequest](ctx, c, c.repoPath(slug, "pullrequests"), listOptions{
		limit:   limit,
		maxPage: prListMaxPagelen,
		params:  map[string]string{"state": strings.ToUpper(state)},
	})
}

// GetPullRequest fetches one pull request; nil means not found.
func (c *Client) GetPullRequest(ctx context.Context, slug string, id int) (*PullRequest, error) {
	return getJSON[PullRequest](ctx, c, c.prPath(slug, id), nil)
}

// CreatePullRequestInput describes a pull request to open. Reviewer
// strings starting with "{" are treated as user UUIDs, anything else
// as account IDs.
type CreatePullRequestInput struct {
	Title             string
	SourceBranch      string
	DestinationBranch string // defaults to main
	Description       string
	CloseSourceBranch *bool // defaults to true
	Reviewers         []string
}

// CreatePullRequest opens a pull request. An empty upstream response
// is a hard failure: the caller must know whether the mutation took
// effect.
func (c *Client) CreatePullRequest(ctx context.Context, slug string, in CreatePullRequestInput) (*PullRequest, error) {
	if in.Title == "" {
		return nil, errors.New("pull request title is required")
	}
	if in.SourceBranch == "" {
		return nil, errors.New("pull request source branch is required")
	}
	dest := in.DestinationBranch
	if dest == "" {
		dest = DefaultDestinationBranch
	}
	closeSource := true
	if in.CloseSourceBranch != nil {
		closeSource = *in.CloseSourceBranch
	}

	payload := map[string]interface{}{
		"title":               in.Title,
		"source":              map[string]interface{}{"branch": map[string]string{"name": in.SourceBranch}},
		"destination":         map[string]interface{}{"branch": map[string]string{"name": dest}},
		"close_source_branch": closeSource,
	}
	if in.Description != "" {
		payload["description"] = in.Description
	}
	if len(in.Reviewers) > 0 {
		reviewers := make([]map[string]string, 0, len(in.Reviewers))
		for _, r := range in.Reviewers {
			if strings.HasPrefix(r, "{") {
				reviewers = append(reviewers, map[string]string{"uuid": r})
			} else {
				reviewers = append(reviewers, map[string]string{"account_id": r})
			}
		}
		payload["reviewers"] = reviewers
	}

	pr, err := mutateJSON[PullRequest](ctx, c, http.MethodPost, c.repoPath(slug, "pullrequests"), payload)
	if err != nil {
		return nil, err
	}
	if pr == nil {
		return nil, fmt.Errorf("create pull request on %s returned no result", slug)
	}
	return pr, nil
}

// UpdatePullRequestInput carries the mutable pull request fields; nil
// fields are left untouched.
type UpdatePullRequestInput struct {
	Title       *string
	Description *string
}

// UpdatePullRequest edits a pull request's title and/or description.
func (c *Client) UpdatePullRequest(ctx context.Context, slug string, id int, in UpdatePullRequestInput) (*PullRequest, error) {
	payload := map[string]interface{}{}
	if in.Title != nil {
		payload["title"] = *in.Title
	}
	if in.Description != nil {
		payload["description"] = *in.Description
	}
	if len(payload) == 0 {
		return nil, errors.New("update pull request: nothing to change")
	}
	pr, err := mutateJSON[PullRequest](ctx, c, http.MethodPut, c.prPath(slug, id), payload)
	if err != nil {
		return nil, err
	}
	if pr == nil {
		return nil, fmt.Errorf("update pull request %d on %s returned no result", id, slug)
	}
	return pr, nil
}

// MergePullRequestInput controls the merge commit.
type MergePullRequestInput struct {
	Message           string
	Strategy          string // merge_commit, squash, fast_forward
	CloseSourceBranch *bool
}

// MergePullRequest merges a pull request.
func (c *Client) MergePullRequest(ctx context.Context, slug string, id int, in MergePullRequestInput) (*PullRequest, error) {
	payload := map[string]interface{}{}
	if in.Message != "" {
		payload["message"] = in.Message
	}
	if in.Strategy != "" {
		payload["merge_strategy"] = in.Strategy
	}
	if in.CloseSourceBranch != nil {
		payload["close_source_branch"] = *in.CloseSourceBranch
	}
	pr, err := mutateJSON[PullRequest](ctx, c, http.MethodPost, c.prPath(slug, id, "merge"), payload)
	if err != nil {
		return nil, err
	}
	if pr == nil {
		return nil, fmt.Errorf("merge pull request %d on %s returned no result", id, slug)
	}
	return pr, nil
}

// ApprovePullRequest records the caller's approval.
func (c *Client) ApprovePullRequest(ctx context.Context, slug string, id int) (*Participant, error) {
	p, err := mutateJSON[Participant](ctx, c, http.MethodPost, c.prPath(slug, id, "approve"), nil)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("approve pull request %d on %s returned no result", id, slug)
	}
	return p, nil
}

// UnapprovePullRequest withdraws an approval. A missing approval is
// tolerated: withdrawing twice is a no-op, not a failure.
func (c *Client) UnapprovePullRequest(ctx context.Context, slug string, id int) error {
	_, err := c.do(ctx, http.MethodDelete, c.prPath(slug, id, "approve"), nil, nil)
	return err
}

// RequestChanges marks the pull request as needing work.
func (c *Client) RequestChanges(ctx context.Context, slug string, id int) (*Participant, error) {
	p, err := mutateJSON[Participant](ctx, c, http.MethodPost, c.prPath(slug, id, "request-changes"), nil)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("request changes on pull request %d on %s returned no result", id, slug)
	}
	return p, nil
}

// RemoveChangeRequest withdraws a change request; like unapprove, an
// already-absent request is tolerated.
func (c *Client) RemoveChangeRequest(ctx context.Context, slug string, id int) error {
	_, err := c.do(ctx, http.MethodDelete, c.prPath(slug, id, "request-changes"), nil, nil)
	return err
}

// DeclinePullRequest declines a pull request.
func (c *Client) DeclinePullRequest(ctx context.Context, slug string, id int) (*PullRequest, error) {
	pr, err := mutateJSON[PullRequest](ctx, c, http.MethodPost, c.prPath(slug, id, "decline"), nil)
	if err != nil {
		return nil, err
	}
	if pr == nil {
		return nil, fmt.Errorf("decline pull request %d on %s returned no result", id, slug)
	}
	return pr, nil
}

// ListPullRequestComments lists comments on a pull request.
func (c *Client) ListPullRequestComments(ctx context.Context, slug string, id, limit int) ([]Comment, error) {
	return listPage[Comment](ctx, c, c.prPath(slug, id, "comments"), listOptions{limit: limit})
}

// InlineComment anchors a comment to a file line.
type InlineComment struct {
	Path string
	Line int
}

// AddPullRequestComment adds a comment, optionally inline.
func (c *Client) AddPullRequestComment(ctx context.Context, slug string, id int, content string, inline *InlineComment) (*Comment, error) {
	if content == "" {
		return nil, errors.New("comment content is required")
	}
	payload := map[string]interface{}{
		"content": map[string]string{"raw": content},
	}
	if inline != nil {
		payload["inline"] = map[string]interface{}{
			"path": inline.Path,
			"to":   inline.Line,
		}
	}
	comment, err := mutateJSON[Comment](ctx, c, http.MethodPost, c.prPath(slug, id, "comments"), payload)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, fmt.Errorf("add comment to pull request %d on %s returned no result", id, slug)
	}
	return comment, nil
}

// GetPullRequestDiff returns the unified diff text; nil means the
// pull request was not found.
func (c *Client) GetPullRequestDiff(ctx context.Context, slug string, id int) (*string, error) {
	return c.doText(ctx, http.MethodGet, c.prPath(slug, id, "diff"), nil)
}

// ListPullRequestCommits lists the commits on a pull request.
func (c *Client) ListPullRequestCommits(ctx context.Context, slug string, id, limit int) ([]Commit, error) {
	return listPage[Commit](ctx, c, c.prPath(slug, id, "commits"), listOptions{limit: limit})
}

func (c *Client) prPath(slug string, id int, segments ...string) string {
	parts := append([]string{"pullrequests", strconv.Itoa(id)}, segments...)
	return c.repoPath(slug, parts...)
}
