package mcp

import (
	"context"

	"bitbucket-mcp/internal/bitbucket"

	mcp "github.com/fredcamaral/gomcp-sdk"
)

func (s *Server) registerRepositoryTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		"list_projects",
		"List projects in the configured Bitbucket workspace",
		mcp.ObjectSchema("Project listing parameters", map[string]interface{}{
			"limit": map[string]interface{}{
				"type":        "number",
				"description": "Maximum number of projects to return (default 10, max 100)",
			},
		}, nil),
	), mcp.ToolHandlerFunc(s.handleListProjects))

	s.mcpServer.AddTool(mcp.NewTool(
		"get_project",
		"Get details of one project by key",
		mcp.ObjectSchema("Project lookup parameters", map[string]interface{}{
			"project_key": map[string]interface{}{
				"type":        "string",
				"description": "Project key within the workspace",
			},
		}, []string{"project_key"}),
	), mcp.ToolHandlerFunc(s.handleGetProject))

	s.mcpServer.AddTool(mcp.NewTool(
		"list_repositories",
		"List repositories in the workspace, optionally filtered by role, project or a search query",
		mcp.ObjectSchema("Repository listing parameters", map[string]interface{}{
			"limit": map[string]interface{}{
				"type":        "number",
				"description": "Maximum number of repositories to return (default 10, max 100)",
			},
			"role": map[string]interface{}{
				"type":        "string",
				"description": "Filter by the caller's role",
				"enum":        []string{"owner", "admin", "contributor", "member"},
			},
			"project_key": map[string]interface{}{
				"type":        "string",
				"description": "Only repositories in this project",
			},
			"query": map[string]interface{}{
				"type":        "string",
				"description": "Bitbucket query expression, e.g. is_private=false",
			},
			"sort": map[string]interface{}{
				"type":        "string",
				"description": "Sort field, prefix with - for descending (default -updated_on)",
			},
		}, nil),
	), mcp.ToolHandlerFunc(s.handleListRepositories))

	s.mcpServer.AddTool(mcp.NewTool(
		"get_repository",
		"Get details of one repository by slug",
		mcp.ObjectSchema("Repository lookup parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
		}, []string{"repo_slug"}),
	), mcp.ToolHandlerFunc(s.handleGetRepository))
}

func (s *Server) handleListProjects(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	projects, err := s.client.ListProjects(ctx, intArg(params, "limit", defaultListLimit))
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(projects))
	for i := range projects {
		out = append(out, projectSummary(&projects[i]))
	}
	return map[string]interface{}{
		"workspace": s.client.Workspace(),
		"count":     len(out),
		"projects":  out,
	}, nil
}

func (s *Server) handleGetProject(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	key, err := requiredStringArg(params, "project_key")
	if err != nil {
		return nil, err
	}
	project, err := s.client.GetProject(ctx, key)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return notFound("Project '%s' not found", key), nil
	}
	return projectSummary(project), nil
}

func (s *Server) handleListRepositories(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	repos, err := s.client.ListRepositories(ctx, bitbucket.ListRepositoriesOptions{
		Limit:      intArg(params, "limit", defaultListLimit),
		Role:       enumArg(params, "role", []string{"owner", "admin", "contributor", "member"}, ""),
		ProjectKey: stringArg(params, "project_key"),
		Query:      stringArg(params, "query"),
		Sort:       stringArg(params, "sort"),
	})
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(repos))
	for i := range repos {
		out = append(out, s.repoSummary(&repos[i]))
	}
	return map[string]interface{}{
		"workspace":    s.client.Workspace(),
		"count":        len(out),
		"repositories": out,
	}, nil
}

func (s *Server) handleGetRepository(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	repo, err := s.client.GetRepository(ctx, slug)
	if err != nil {
		return nil, err
	}
	if repo == nil {
		return notFound("Repository '%s' not found", slug), nil
	}
	out := s.repoSummary(repo)
	setIf(out, "description", repo.Description)
	setIf(out, "fork_policy", repo.ForkPolicy)
	setIf(out, "size", repo.Size)
	setIf(out, "created_on", repo.CreatedOn)
	return out, nil
}
