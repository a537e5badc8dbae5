package bitbucket

import "context"

// ListEnvironments lists deployment environments on a repository.
func (c *Client) ListEnvironments(ctx context.Context, slug string, limit int) ([]Environment, error) {
	return listPage[Environment](ctx, c, c.repoPath(slug, "environments"), listOptions{limit: limit})
}

// GetEnvironment fetches one environment by UUID; nil means not found.
func (c *Client) GetEnvironment(ctx context.Context, slug, envID string) (*Environment, error) {
	return getJSON[Environment](ctx, c, c.repoPath(slug, "environments", EnsureBraces(envID)), nil)
}

// ListDeployments lists deployments on a repository, newest first.
func (c *Client) ListDeployments(ctx context.Context, slug string, limit int) ([]Deployment, error) {
	return listPage[Deployment](ctx, c, c.repoPath(slug, "deployments"), listOptions{
		limit:  limit,
		params: map[string]string{"sort": "-state.started_on"},
	})
}

// GetDeployment fetches one deployment by UUID; nil means not found.
func (c *Client) GetDeployment(ctx context.Context, slug, deploymentID string) (*Deployment, error) {
	return getJSON[Deployment](ctx, c, c.repoPath(slug, "deployments", EnsureBraces(deploymentID)), nil)
}
