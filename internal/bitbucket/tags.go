package bitbucket

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ListTags lists tags, newest target first.
func (c *Client) ListTags(ctx context.Context, slug string, limit int) ([]Tag, error) {
	return listPage[Tag](ctx, c, c.repoPath(slug, "refs", "tags"), listOptions{
		limit:  limit,
		params: map[string]string{"sort": "-target.date"},
	})
}

// GetTag fetches one tag by name; nil means not found.
func (c *Client) GetTag(ctx context.Context, slug, name string) (*Tag, error) {
	return getJSON[Tag](ctx, c, c.repoPath(slug, "refs", "tags", name), nil)
}

// CreateTag creates a tag pointing at the given commit hash.
func (c *Client) CreateTag(ctx context.Context, slug, name, targetHash, message string) (*Tag, error) {
	if name == "" {
		return nil, errors.New("tag name is required")
	}
	if targetHash == "" {
		return nil, errors.New("tag target hash is required")
	}
	payload := map[string]interface{}{
		"name":   name,
		"target": map[string]string{"hash": targetHash},
	}
	if message != "" {
		payload["message"] = message
	}
	t, err := mutateJSON[Tag](ctx, c, http.MethodPost, c.repoPath(slug, "refs", "tags"), payload)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("create tag %q on %s returned no result", name, slug)
	}
	return t, nil
}

// DeleteTag deletes a tag by name.
func (c *Client) DeleteTag(ctx context.Context, slug, name string) error {
	_, err := c.do(ctx, http.MethodDelete, c.repoPath(slug, "refs", "tags", name), nil, nil)
	return err
}
