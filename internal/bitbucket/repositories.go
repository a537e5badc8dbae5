package bitbucket

import (
	"context"
)

// ListRepositoriesOptions filters the workspace repository listing.
type ListRepositoriesOptions struct {
	Limit      int
	Role       string // owner, admin, contributor, member
	ProjectKey string
	Query      string // raw upstream filter clause, e.g. is_private=false
	Sort       string
}

// ListRepositories lists repositories in the configured workspace.
// ProjectKey and Query compose into one filter expression joined with
// AND; the project key is sanitized before interpolation.
func (c *Client) ListRepositories(ctx context.Context, opts ListRepositoriesOptions) ([]Repository, error) {
	sort := opts.Sort
	if sort == "" {
		sort = "-updated_on"
	}
	params := map[string]string{
		"role": opts.Role,
		"sort": sort,
	}
	if q := buildRepoQuery(opts.ProjectKey, opts.Query); q != "" {
		params["q"] = q
	}
	return listPage[Repository](ctx, c, "repositories/"+c.workspace, listOptions{
		limit:  opts.Limit,
		params: params,
	})
}

// GetRepository fetches one repository by slug; nil means not found.
func (c *Client) GetRepository(ctx context.Context, slug string) (*Repository, error) {
	return getJSON[Repository](ctx, c, c.repoPath(slug), nil)
}
