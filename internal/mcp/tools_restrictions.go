package mcp

import (
	"context"

	"bitbucket-mcp/internal/bitbucket"

	mcp "github.com/fredcamaral/gomcp-sdk"
)

func (s *Server) registerRestrictionTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		"list_branch_restrictions",
		"List branch protection rules on a repository",
		mcp.ObjectSchema("Branch restriction listing parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"kind": map[string]interface{}{
				"type":        "string",
				"description": "Filter by rule kind, e.g. push, force, require_approvals_to_merge",
			},
			"pattern": map[string]interface{}{
				"type":        "string",
				"description": "Filter by branch pattern",
			},
			"limit": map[string]interface{}{
				"type":        "number",
				"description": "Maximum number of rules to return (default 10, max 100)",
			},
		}, []string{"repo_slug"}),
	), mcp.ToolHandlerFunc(s.handleListBranchRestrictions))

	s.mcpServer.AddTool(mcp.NewTool(
		"get_branch_restriction",
		"Get one branch protection rule by id",
		mcp.ObjectSchema("Branch restriction lookup parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"restriction_id": map[string]interface{}{
				"type":        "number",
				"description": "Branch restriction id",
			},
		}, []string{"repo_slug", "restriction_id"}),
	), mcp.ToolHandlerFunc(s.handleGetBranchRestriction))

	s.mcpServer.AddTool(mcp.NewTool(
		"create_branch_restriction",
		"Create a branch protection rule",
		mcp.ObjectSchema("Branch restriction creation parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"kind": map[string]interface{}{
				"type":        "string",
				"description": "Rule kind, e.g. push, force, delete, require_approvals_to_merge",
			},
			"pattern": map[string]interface{}{
				"type":        "string",
				"description": "Glob matched against branch names",
			},
			"users": map[string]interface{}{
				"type":        "array",
				"description": "Exempt user account ids or UUIDs",
				"items":       map[string]interface{}{"type": "string"},
			},
			"groups": map[string]interface{}{
				"type":        "array",
				"description": "Exempt workspace group slugs",
				"items":       map[string]interface{}{"type": "string"},
			},
			"value": map[string]interface{}{
				"type":        "number",
				"description": "Numeric threshold for kinds that carry one",
			},
		}, []string{"repo_slug", "kind", "pattern"}),
	), mcp.ToolHandlerFunc(s.handleCreateBranchRestriction))

	s.mcpServer.AddTool(mcp.NewTool(
		"update_branch_restriction",
		"Replace a branch protection rule by id",
		mcp.ObjectSchema("Branch restriction update parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"restriction_id": map[string]interface{}{
				"type":        "number",
				"description": "Branch restriction id",
			},
			"kind": map[string]interface{}{
				"type":        "string",
				"description": "Rule kind, e.g. push, force, delete, require_approvals_to_merge",
			},
			"pattern": map[string]interface{}{
				"type":        "string",
				"description": "Glob matched against branch names",
			},
			"users": map[string]interface{}{
				"type":        "array",
				"description": "Exempt user account ids or UUIDs",
				"items":       map[string]interface{}{"type": "string"},
			},
			"groups": map[string]interface{}{
				"type":        "array",
				"description": "Exempt workspace group slugs",
				"items":       map[string]interface{}{"type": "string"},
			},
			"value": map[string]interface{}{
				"type":        "number",
				"description": "Numeric threshold for kinds that carry one",
			},
		}, []string{"repo_slug", "restriction_id", "kind", "pattern"}),
	), mcp.ToolHandlerFunc(s.handleUpdateBranchRestriction))

	s.mcpServer.AddTool(mcp.NewTool(
		"delete_branch_restriction",
		"Delete a branch protection rule by id",
		mcp.ObjectSchema("Branch restriction deletion parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"restriction_id": map[string]interface{}{
				"type":        "number",
				"description": "Branch restriction id",
			},
		}, []string{"repo_slug", "restriction_id"}),
	), mcp.ToolHandlerFunc(s.handleDeleteBranchRestriction))
}

func (s *Server) handleListBranchRestrictions(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	restrictions, err := s.client.ListBranchRestrictions(ctx, slug, bitbucket.ListBranchRestrictionsOptions{
		Limit:   intArg(params, "limit", defaultListLimit),
		Kind:    stringArg(params, "kind"),
		Pattern: stringArg(params, "pattern"),
	})
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(restrictions))
	for i := range restrictions {
		out = append(out, restrictionSummary(&restrictions[i]))
	}
	return map[string]interface{}{
		"repository":   slug,
		"count":        len(out),
		"restrictions": out,
	}, nil
}

func (s *Server) handleGetBranchRestriction(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	id, err := requiredIntArg(params, "restriction_id")
	if err != nil {
		return nil, err
	}
	restriction, err := s.client.GetBranchRestriction(ctx, slug, id)
	if err != nil {
		return nil, err
	}
	if restriction == nil {
		return notFound("Branch restriction %d not found in repository '%s'", id, slug), nil
	}
	return restrictionSummary(restriction), nil
}

func (s *Server) handleCreateBranchRestriction(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	kind, err := requiredStringArg(params, "kind")
	if err != nil {
		return nil, err
	}
	pattern, err := requiredStringArg(params, "pattern")
	if err != nil {
		return nil, err
	}
	in := bitbucket.CreateBranchRestrictionInput{
		Kind:    kind,
		Pattern: pattern,
		Users:   stringSliceArg(params, "users"),
		Groups:  stringSliceArg(params, "groups"),
	}
	if v, ok := params["value"].(float64); ok {
		value := int(v)
		in.Value = &value
	}
	restriction, err := s.client.CreateBranchRestriction(ctx, slug, in)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"created":     true,
		"restriction": restrictionSummary(restriction),
	}, nil
}

func (s *Server) handleUpdateBranchRestriction(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	id, err := requiredIntArg(params, "restriction_id")
	if err != nil {
		return nil, err
	}
	kind, err := requiredStringArg(params, "kind")
	if err != nil {
		return nil, err
	}
	pattern, err := requiredStringArg(params, "pattern")
	if err != nil {
		return nil, err
	}
	in := bitbucket.CreateBranchRestrictionInput{
		Kind:    kind,
		Pattern: pattern,
		Users:   stringSliceArg(params, "users"),
		Groups:  stringSliceArg(params, "groups"),
	}
	if v, ok := params["value"].(float64); ok {
		value := int(v)
		in.Value = &value
	}
	restriction, err := s.client.UpdateBranchRestriction(ctx, slug, id, in)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"updated":     true,
		"restriction": restrictionSummary(restriction),
	}, nil
}

func (s *Server) handleDeleteBranchRestriction(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	id, err := requiredIntArg(params, "restriction_id")
	if err != nil {
		return nil, err
	}
	if err := s.client.DeleteBranchRestriction(ctx, slug, id); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"deleted":     true,
		"restriction": id,
	}, nil
}
