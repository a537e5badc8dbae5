package bitbucket

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ListBranches lists branches, optionally filtered by a name
// substring. The filter is sanitized before interpolation into the
// upstream query language.
func (c *Client) ListBranches(ctx context.Context, slug, nameFilter string, limit int) ([]Branch, error) {
	params := map[string]string{"sort": "-target.date"}
	if nameFilter != "" {
		params["q"] = fmt.Sprintf("name ~ %q", SanitizeSearchTerm(nameFilter))
	}
	return listPage[Branch](ctx, c, c.repoPath(slug, "refs", "branches"), listOptions{
		limit:  limit,
		params: params,
	})
}

// GetBranch fetches one branch by name; nil means not found.
func (c *Client) GetBranch(ctx context.Context, slug, name string) (*Branch, error) {
	return getJSON[Branch](ctx, c, c.repoPath(slug, "refs", "branches", name), nil)
}

// CreateBranch creates a branch pointing at the given commit hash.
func (c *Client) CreateBranch(ctx context.Context, slug, name, targetHash string) (*Branch, error) {
	if name == "" {
		return nil, errors.New("branch name is required")
	}
	if targetHash == "" {
		return nil, errors.New("branch target hash is required")
	}
	payload := map[string]interface{}{
		"name":   name,
		"target": map[string]string{"hash": targetHash},
	}
	b, err := mutateJSON[Branch](ctx, c, http.MethodPost, c.repoPath(slug, "refs", "branches"), payload)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("create branch %q on %s returned no result", name, slug)
	}
	return b, nil
}

// DeleteBranch deletes a branch. Deleting an absent branch surfaces
// as a no-op, mirroring the upstream 404 semantics for DELETE.
func (c *Client) DeleteBranch(ctx context.Context, slug, name string) error {
	_, err := c.do(ctx, http.MethodDelete, c.repoPath(slug, "refs", "branches", name), nil, nil)
	return err
}
