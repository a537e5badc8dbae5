package mcp

import (
	"context"

	mcp "github.com/fredcamaral/gomcp-sdk"
)

func (s *Server) registerSourceTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		"get_file_content",
		"Get the raw contents of a file at a ref",
		mcp.ObjectSchema("File content parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"file_path": map[string]interface{}{
				"type":        "string",
				"description": "Path of the file within the repository",
			},
			"ref": map[string]interface{}{
				"type":        "string",
				"description": "Branch, tag or commit (default main)",
			},
		}, []string{"repo_slug", "file_path"}),
	), mcp.ToolHandlerFunc(s.handleGetFileContent))

	s.mcpServer.AddTool(mcp.NewTool(
		"list_directory",
		"List the entries of a directory at a ref",
		mcp.ObjectSchema("Directory listing parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Directory path (default repository root)",
			},
			"ref": map[string]interface{}{
				"type":        "string",
				"description": "Branch, tag or commit (default main)",
			},
			"limit": map[string]interface{}{
				"type":        "number",
				"description": "Maximum number of entries to return (default 10, max 100)",
			},
		}, []string{"repo_slug"}),
	), mcp.ToolHandlerFunc(s.handleListDirectory))

	s.mcpServer.AddTool(mcp.NewTool(
		"get_file_history",
		"List the commits that touched a file, newest first",
		mcp.ObjectSchema("File history parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"file_path": map[string]interface{}{
				"type":        "string",
				"description": "Path of the file within the repository",
			},
			"ref": map[string]interface{}{
				"type":        "string",
				"description": "Branch, tag or commit to walk back from (default main)",
			},
			"limit": map[string]interface{}{
				"type":        "number",
				"description": "Maximum number of revisions to return (default 10, max 100)",
			},
		}, []string{"repo_slug", "file_path"}),
	), mcp.ToolHandlerFunc(s.handleGetFileHistory))
}

func (s *Server) handleGetFileContent(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	path, err := requiredStringArg(params, "file_path")
	if err != nil {
		return nil, err
	}
	content, err := s.client.GetFileContent(ctx, slug, path, stringArg(params, "ref"))
	if err != nil {
		return nil, err
	}
	if content == nil {
		return notFound("File '%s' not found in repository '%s'", path, slug), nil
	}
	text, truncated := capText(*content)
	return map[string]interface{}{
		"repository": slug,
		"path":       path,
		"content":    text,
		"truncated":  truncated,
	}, nil
}

func (s *Server) handleListDirectory(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	path := stringArg(params, "path")
	entries, err := s.client.ListDirectory(ctx, slug, path, stringArg(params, "ref"), intArg(params, "limit", defaultListLimit))
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(entries))
	for i := range entries {
		out = append(out, directoryEntrySummary(&entries[i]))
	}
	result := map[string]interface{}{
		"repository": slug,
		"count":      len(out),
		"entries":    out,
	}
	setIf(result, "path", path)
	return result, nil
}

func (s *Server) handleGetFileHistory(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	path, err := requiredStringArg(params, "file_path")
	if err != nil {
		return nil, err
	}
	history, err := s.client.GetFileHistory(ctx, slug, path, stringArg(params, "ref"), intArg(params, "limit", defaultListLimit))
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(history))
	for i := range history {
		entry := map[string]interface{}{"path": history[i].Path}
		if history[i].Commit != nil {
			entry["commit"] = s.commitSummary(history[i].Commit)
		}
		out = append(out, entry)
	}
	return map[string]interface{}{
		"repository": slug,
		"path":       path,
		"count":      len(out),
		"revisions":  out,
	}, nil
}
