package mcp

import (
	"context"

	mcp "github.com/fredcamaral/gomcp-sdk"
)

func (s *Server) registerPermissionTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		"list_repository_permissions",
		"List explicit user and group permissions on a repository",
		mcp.ObjectSchema("Permission listing parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"limit": map[string]interface{}{
				"type":        "number",
				"description": "Maximum number of entries per kind to return (default 10, max 100)",
			},
		}, []string{"repo_slug"}),
	), mcp.ToolHandlerFunc(s.handleListRepositoryPermissions))

	s.mcpServer.AddTool(mcp.NewTool(
		"get_my_permission",
		"Get the authenticated user's effective permission on a repository",
		mcp.ObjectSchema("Permission lookup parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
		}, []string{"repo_slug"}),
	), mcp.ToolHandlerFunc(s.handleGetMyPermission))
}

func (s *Server) handleListRepositoryPermissions(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	limit := intArg(params, "limit", defaultListLimit)
	users, err := s.client.ListUserPermissions(ctx, slug, limit)
	if err != nil {
		return nil, err
	}
	groups, err := s.client.ListGroupPermissions(ctx, slug, limit)
	if err != nil {
		return nil, err
	}
	userOut := make([]map[string]interface{}, 0, len(users))
	for i := range users {
		userOut = append(userOut, permissionSummary(&users[i]))
	}
	groupOut := make([]map[string]interface{}, 0, len(groups))
	for i := range groups {
		groupOut = append(groupOut, permissionSummary(&groups[i]))
	}
	return map[string]interface{}{
		"repository": slug,
		"users":      userOut,
		"groups":     groupOut,
	}, nil
}

func (s *Server) handleGetMyPermission(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	perm, err := s.client.GetCurrentUserPermission(ctx, slug)
	if err != nil {
		return nil, err
	}
	if perm == nil {
		return notFound("No permission found for repository '%s'", slug), nil
	}
	return permissionSummary(perm), nil
}
