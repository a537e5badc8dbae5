package bitbucket

import (
	"context"
	"fmt"
)

// ListUserPermissions lists explicit per-user permissions on a
// repository.
func (c *Client) ListUserPermissions(ctx context.Context, slug string, limit int) ([]Permission, error) {
	return listPage[Permission](ctx, c, c.repoPath(slug, "permissions-config", "users"), listOptions{limit: limit})
}

// ListGroupPermissions lists explicit per-group permissions on a
// repository.
func (c *Client) ListGroupPermissions(ctx context.Context, slug string, limit int) ([]Permission, error) {
	return listPage[Permission](ctx, c, c.repoPath(slug, "permissions-config", "groups"), listOptions{limit: limit})
}

// GetCurrentUserPermission reports the authenticated user's effective
// permission on one repository; nil means no access (or the
// repository is invisible to the caller).
func (c *Client) GetCurrentUserPermission(ctx context.Context, slug string) (*Permission, error) {
	perms, err := listPage[Permission](ctx, c, "user/permissions/repositories", listOptions{
		limit: 1,
		params: map[string]string{
			"q": fmt.Sprintf("repository.name=%q", SanitizeSearchTerm(slug)),
		},
	})
	if err != nil {
		return nil, err
	}
	if len(perms) == 0 {
		return nil, nil
	}
	return &perms[0], nil
}
