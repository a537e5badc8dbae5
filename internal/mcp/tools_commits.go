package mcp

import (
	"context"

	mcp "github.com/fredcamaral/gomcp-sdk"
)

func (s *Server) registerCommitTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		"list_commits",
		"List commits on a repository or a specific branch, newest first",
		mcp.ObjectSchema("Commit listing parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"branch": map[string]interface{}{
				"type":        "string",
				"description": "Branch to list commits from (default: all)",
			},
			"limit": map[string]interface{}{
				"type":        "number",
				"description": "Maximum number of commits to return (default 10, max 100)",
			},
		}, []string{"repo_slug"}),
	), mcp.ToolHandlerFunc(s.handleListCommits))

	s.mcpServer.AddTool(mcp.NewTool(
		"get_commit",
		"Get one commit by hash, with full message and parents",
		mcp.ObjectSchema("Commit lookup parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"commit_hash": map[string]interface{}{
				"type":        "string",
				"description": "Commit hash, full or abbreviated",
			},
		}, []string{"repo_slug", "commit_hash"}),
	), mcp.ToolHandlerFunc(s.handleGetCommit))

	s.mcpServer.AddTool(mcp.NewTool(
		"compare_commits",
		"Compare two refs and summarize the per-file changes between them",
		mcp.ObjectSchema("Commit comparison parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"base": map[string]interface{}{
				"type":        "string",
				"description": "Base ref (branch, tag or commit hash)",
			},
			"head": map[string]interface{}{
				"type":        "string",
				"description": "Head ref (branch, tag or commit hash)",
			},
			"limit": map[string]interface{}{
				"type":        "number",
				"description": "Maximum number of changed files to return (default 10, max 100)",
			},
		}, []string{"repo_slug", "base", "head"}),
	), mcp.ToolHandlerFunc(s.handleCompareCommits))

	s.mcpServer.AddTool(mcp.NewTool(
		"get_commit_diff",
		"Get the unified diff for a commit or a base..head spec",
		mcp.ObjectSchema("Commit diff parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"spec": map[string]interface{}{
				"type":        "string",
				"description": "Commit hash or base..head revision spec",
			},
		}, []string{"repo_slug", "spec"}),
	), mcp.ToolHandlerFunc(s.handleGetCommitDiff))

	s.mcpServer.AddTool(mcp.NewTool(
		"list_commit_statuses",
		"List build statuses attached to a commit",
		mcp.ObjectSchema("Commit status listing parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"commit_hash": map[string]interface{}{
				"type":        "string",
				"description": "Commit hash, full or abbreviated",
			},
			"limit": map[string]interface{}{
				"type":        "number",
				"description": "Maximum number of statuses to return (default 10, max 100)",
			},
		}, []string{"repo_slug", "commit_hash"}),
	), mcp.ToolHandlerFunc(s.handleListCommitStatuses))

	s.mcpServer.AddTool(mcp.NewTool(
		"list_commit_comments",
		"List comments on a commit",
		mcp.ObjectSchema("Commit comment listing parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"commit_hash": map[string]interface{}{
				"type":        "string",
				"description": "Commit hash, full or abbreviated",
			},
			"limit": map[string]interface{}{
				"type":        "number",
				"description": "Maximum number of comments to return (default 10, max 100)",
			},
		}, []string{"repo_slug", "commit_hash"}),
	), mcp.ToolHandlerFunc(s.handleListCommitComments))
}

func (s *Server) handleListCommits(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	commits, err := s.client.ListCommits(ctx, slug, stringArg(params, "branch"), intArg(params, "limit", defaultListLimit))
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(commits))
	for i := range commits {
		out = append(out, s.commitSummary(&commits[i]))
	}
	result := map[string]interface{}{
		"repository": slug,
		"count":      len(out),
		"commits":    out,
	}
	setIf(result, "branch", stringArg(params, "branch"))
	return result, nil
}

func (s *Server) handleGetCommit(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	hash, err := requiredStringArg(params, "commit_hash")
	if err != nil {
		return nil, err
	}
	commit, err := s.client.GetCommit(ctx, slug, hash)
	if err != nil {
		return nil, err
	}
	if commit == nil {
		return notFound("Commit '%s' not found in repository '%s'", hash, slug), nil
	}
	return commitDetail(commit), nil
}

func (s *Server) handleCompareCommits(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	base, err := requiredStringArg(params, "base")
	if err != nil {
		return nil, err
	}
	head, err := requiredStringArg(params, "head")
	if err != nil {
		return nil, err
	}
	stats, err := s.client.CompareCommits(ctx, slug, base, head, intArg(params, "limit", defaultListLimit))
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return notFound("Comparison '%s..%s' not found in repository '%s'", base, head, slug), nil
	}
	files := make([]map[string]interface{}, 0, len(stats))
	added, removed := 0, 0
	for i := range stats {
		files = append(files, diffStatEntry(&stats[i]))
		added += stats[i].LinesAdded
		removed += stats[i].LinesRemoved
	}
	return map[string]interface{}{
		"repository":          slug,
		"base":                base,
		"head":                head,
		"file_count":          len(files),
		"total_lines_added":   added,
		"total_lines_removed": removed,
		"files":               files,
	}, nil
}

func (s *Server) handleGetCommitDiff(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	spec, err := requiredStringArg(params, "spec")
	if err != nil {
		return nil, err
	}
	diff, err := s.client.GetCommitDiff(ctx, slug, spec)
	if err != nil {
		return nil, err
	}
	if diff == nil {
		return notFound("Diff '%s' not found in repository '%s'", spec, slug), nil
	}
	text, truncated := capText(*diff)
	return map[string]interface{}{
		"repository": slug,
		"spec":       spec,
		"diff":       text,
		"truncated":  truncated,
	}, nil
}

func (s *Server) handleListCommitStatuses(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	hash, err := requiredStringArg(params, "commit_hash")
	if err != nil {
		return nil, err
	}
	statuses, err := s.client.ListCommitStatuses(ctx, slug, hash, intArg(params, "limit", defaultListLimit))
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(statuses))
	for i := range statuses {
		out = append(out, statusSummary(&statuses[i]))
	}
	return map[string]interface{}{
		"repository": slug,
		"commit":     shortHash(hash),
		"count":      len(out),
		"statuses":   out,
	}, nil
}

func (s *Server) handleListCommitComments(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	hash, err := requiredStringArg(params, "commit_hash")
	if err != nil {
		return nil, err
	}
	comments, err := s.client.ListCommitComments(ctx, slug, hash, intArg(params, "limit", defaultListLimit))
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(comments))
	for i := range comments {
		out = append(out, commentSummary(&comments[i]))
	}
	return map[string]interface{}{
		"repository": slug,
		"commit":     shortHash(hash),
		"count":      len(out),
		"comments":   out,
	}, nil
}
