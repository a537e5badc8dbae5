package bitbucket

import "context"

// ListProjects lists projects in the configured workspace.
func (c *Client) ListProjects(ctx context.Context, limit int) ([]Project, error) {
	return listPage[Project](ctx, c, "workspaces/"+c.workspace+"/projects", listOptions{
		limit:  limit,
		params: map[string]string{"sort": "key"},
	})
}

// GetProject fetches one project by key; nil means not found.
func (c *Client) GetProject(ctx context.Context, key string) (*Project, error) {
	return getJSON[Project](ctx, c, "workspaces/"+c.workspace+"/projects/"+key, nil)
}
