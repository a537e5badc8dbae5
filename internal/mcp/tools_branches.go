package mcp

import (
	"context"

	mcp "github.com/fredcamaral/gomcp-sdk"
)

func (s *Server) registerBranchTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		"list_branches",
		"List branches in a repository, newest commit first",
		mcp.ObjectSchema("Branch listing parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"filter": map[string]interface{}{
				"type":        "string",
				"description": "Only branches whose name contains this text",
			},
			"limit": map[string]interface{}{
				"type":        "number",
				"description": "Maximum number of branches to return (default 10, max 100)",
			},
		}, []string{"repo_slug"}),
	), mcp.ToolHandlerFunc(s.handleListBranches))

	s.mcpServer.AddTool(mcp.NewTool(
		"get_branch",
		"Get one branch and the commit it points at",
		mcp.ObjectSchema("Branch lookup parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"branch_name": map[string]interface{}{
				"type":        "string",
				"description": "Branch name",
			},
		}, []string{"repo_slug", "branch_name"}),
	), mcp.ToolHandlerFunc(s.handleGetBranch))

	s.mcpServer.AddTool(mcp.NewTool(
		"create_branch",
		"Create a branch at a target commit",
		mcp.ObjectSchema("Branch creation parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"branch_name": map[string]interface{}{
				"type":        "string",
				"description": "Name for the new branch",
			},
			"target": map[string]interface{}{
				"type":        "string",
				"description": "Commit hash or branch name the new branch starts from",
			},
		}, []string{"repo_slug", "branch_name", "target"}),
	), mcp.ToolHandlerFunc(s.handleCreateBranch))

	s.mcpServer.AddTool(mcp.NewTool(
		"delete_branch",
		"Delete a branch",
		mcp.ObjectSchema("Branch deletion parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"branch_name": map[string]interface{}{
				"type":        "string",
				"description": "Branch name to delete",
			},
		}, []string{"repo_slug", "branch_name"}),
	), mcp.ToolHandlerFunc(s.handleDeleteBranch))
}

func (s *Server) handleListBranches(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	branches, err := s.client.ListBranches(ctx, slug, stringArg(params, "filter"), intArg(params, "limit", defaultListLimit))
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(branches))
	for i := range branches {
		out = append(out, branchSummary(&branches[i]))
	}
	return map[string]interface{}{
		"repository": slug,
		"count":      len(out),
		"branches":   out,
	}, nil
}

func (s *Server) handleGetBranch(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	name, err := requiredStringArg(params, "branch_name")
	if err != nil {
		return nil, err
	}
	branch, err := s.client.GetBranch(ctx, slug, name)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return notFound("Branch '%s' not found in repository '%s'", name, slug), nil
	}
	return branchSummary(branch), nil
}

func (s *Server) handleCreateBranch(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	name, err := requiredStringArg(params, "branch_name")
	if err != nil {
		return nil, err
	}
	target, err := requiredStringArg(params, "target")
	if err != nil {
		return nil, err
	}
	branch, err := s.client.CreateBranch(ctx, slug, name, target)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"created": true,
		"branch":  branchSummary(branch),
	}, nil
}

func (s *Server) handleDeleteBranch(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	name, err := requiredStringArg(params, "branch_name")
	if err != nil {
		return nil, err
	}
	if err := s.client.DeleteBranch(ctx, slug, name); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"deleted": true,
		"branch":  name,
	}, nil
}
