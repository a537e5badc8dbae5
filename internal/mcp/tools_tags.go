package mcp

import (
	"context"

	mcp "github.com/fredcamaral/gomcp-sdk"
)

func (s *Server) registerTagTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		"list_tags",
		"List tags in a repository, newest target commit first",
		mcp.ObjectSchema("Tag listing parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"limit": map[string]interface{}{
				"type":        "number",
				"description": "Maximum number of tags to return (default 10, max 100)",
			},
		}, []string{"repo_slug"}),
	), mcp.ToolHandlerFunc(s.handleListTags))

	s.mcpServer.AddTool(mcp.NewTool(
		"get_tag",
		"Get one tag and the commit it points at",
		mcp.ObjectSchema("Tag lookup parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"tag_name": map[string]interface{}{
				"type":        "string",
				"description": "Tag name",
			},
		}, []string{"repo_slug", "tag_name"}),
	), mcp.ToolHandlerFunc(s.handleGetTag))

	s.mcpServer.AddTool(mcp.NewTool(
		"create_tag",
		"Create a tag at a target commit",
		mcp.ObjectSchema("Tag creation parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"tag_name": map[string]interface{}{
				"type":        "string",
				"description": "Name for the new tag",
			},
			"target": map[string]interface{}{
				"type":        "string",
				"description": "Commit hash the tag points at",
			},
			"message": map[string]interface{}{
				"type":        "string",
				"description": "Optional tag message",
			},
		}, []string{"repo_slug", "tag_name", "target"}),
	), mcp.ToolHandlerFunc(s.handleCreateTag))

	s.mcpServer.AddTool(mcp.NewTool(
		"delete_tag",
		"Delete a tag",
		mcp.ObjectSchema("Tag deletion parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"tag_name": map[string]interface{}{
				"type":        "string",
				"description": "Tag name to delete",
			},
		}, []string{"repo_slug", "tag_name"}),
	), mcp.ToolHandlerFunc(s.handleDeleteTag))
}

func (s *Server) handleListTags(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	tags, err := s.client.ListTags(ctx, slug, intArg(params, "limit", defaultListLimit))
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(tags))
	for i := range tags {
		out = append(out, tagSummary(&tags[i]))
	}
	return map[string]interface{}{
		"repository": slug,
		"count":      len(out),
		"tags":       out,
	}, nil
}

func (s *Server) handleGetTag(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	name, err := requiredStringArg(params, "tag_name")
	if err != nil {
		return nil, err
	}
	tag, err := s.client.GetTag(ctx, slug, name)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return notFound("Tag '%s' not found in repository '%s'", name, slug), nil
	}
	return tagSummary(tag), nil
}

func (s *Server) handleCreateTag(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	name, err := requiredStringArg(params, "tag_name")
	if err != nil {
		return nil, err
	}
	target, err := requiredStringArg(params, "target")
	if err != nil {
		return nil, err
	}
	tag, err := s.client.CreateTag(ctx, slug, name, target, stringArg(params, "message"))
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"created": true,
		"tag":     tagSummary(tag),
	}, nil
}

func (s *Server) handleDeleteTag(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	name, err := requiredStringArg(params, "tag_name")
	if err != nil {
		return nil, err
	}
	if err := s.client.DeleteTag(ctx, slug, name); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"deleted": true,
		"tag":     name,
	}, nil
}
