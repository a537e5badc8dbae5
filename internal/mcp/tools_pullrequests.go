package mcp

import (
	"context"

	"bitbucket-mcp/internal/bitbucket"

	mcp "github.com/fredcamaral/gomcp-sdk"
)

func repoAndID(params map[string]interface{}) (string, int, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return "", 0, err
	}
	id, err := requiredIntArg(params, "pr_id")
	if err != nil {
		return "", 0, err
	}
	return slug, id, nil
}

func prParamSchema(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"repo_slug": map[string]interface{}{
			"type":        "string",
			"description": "Repository slug within the workspace",
		},
		"pr_id": map[string]interface{}{
			"type":        "number",
			"description": "Pull request id",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

func (s *Server) registerPullRequestTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		"list_pull_requests",
		"List pull requests in a repository, optionally filtered by state",
		mcp.ObjectSchema("Pull request listing parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"state": map[string]interface{}{
				"type":        "string",
				"description": "Filter by state (default OPEN)",
				"enum":        []string{"OPEN", "MERGED", "DECLINED", "SUPERSEDED"},
			},
			"limit": map[string]interface{}{
				"type":        "number",
				"description": "Maximum number of pull requests to return (default 10, max 50)",
			},
		}, []string{"repo_slug"}),
	), mcp.ToolHandlerFunc(s.handleListPullRequests))

	s.mcpServer.AddTool(mcp.NewTool(
		"get_pull_request",
		"Get details of one pull request, including reviewers and participants",
		mcp.ObjectSchema("Pull request lookup parameters", prParamSchema(nil), []string{"repo_slug", "pr_id"}),
	), mcp.ToolHandlerFunc(s.handleGetPullRequest))

	s.mcpServer.AddTool(mcp.NewTool(
		"create_pull_request",
		"Open a pull request from a source branch",
		mcp.ObjectSchema("Pull request creation parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"title": map[string]interface{}{
				"type":        "string",
				"description": "Pull request title",
			},
			"source_branch": map[string]interface{}{
				"type":        "string",
				"description": "Branch the changes come from",
			},
			"destination_branch": map[string]interface{}{
				"type":        "string",
				"description": "Branch to merge into (default main)",
			},
			"description": map[string]interface{}{
				"type":        "string",
				"description": "Pull request description",
			},
			"close_source_branch": map[string]interface{}{
				"type":        "boolean",
				"description": "Delete the source branch after merge (default true)",
			},
			"reviewers": map[string]interface{}{
				"type":        "array",
				"description": "Reviewer account ids or UUIDs",
				"items":       map[string]interface{}{"type": "string"},
			},
		}, []string{"repo_slug", "title", "source_branch"}),
	), mcp.ToolHandlerFunc(s.handleCreatePullRequest))

	s.mcpServer.AddTool(mcp.NewTool(
		"update_pull_request",
		"Edit a pull request's title or description",
		mcp.ObjectSchema("Pull request update parameters", prParamSchema(map[string]interface{}{
			"title": map[string]interface{}{
				"type":        "string",
				"description": "New title",
			},
			"description": map[string]interface{}{
				"type":        "string",
				"description": "New description",
			},
		}), []string{"repo_slug", "pr_id"}),
	), mcp.ToolHandlerFunc(s.handleUpdatePullRequest))

	s.mcpServer.AddTool(mcp.NewTool(
		"merge_pull_request",
		"Merge a pull request",
		mcp.ObjectSchema("Pull request merge parameters", prParamSchema(map[string]interface{}{
			"message": map[string]interface{}{
				"type":        "string",
				"description": "Merge commit message",
			},
			"strategy": map[string]interface{}{
				"type":        "string",
				"description": "Merge strategy",
				"enum":        []string{"merge_commit", "squash", "fast_forward"},
			},
			"close_source_branch": map[string]interface{}{
				"type":        "boolean",
				"description": "Delete the source branch after merge",
			},
		}), []string{"repo_slug", "pr_id"}),
	), mcp.ToolHandlerFunc(s.handleMergePullRequest))

	s.mcpServer.AddTool(mcp.NewTool(
		"approve_pull_request",
		"Approve a pull request as the authenticated user",
		mcp.ObjectSchema("Pull request approval parameters", prParamSchema(nil), []string{"repo_slug", "pr_id"}),
	), mcp.ToolHandlerFunc(s.handleApprovePullRequest))

	s.mcpServer.AddTool(mcp.NewTool(
		"unapprove_pull_request",
		"Withdraw the authenticated user's approval from a pull request",
		mcp.ObjectSchema("Pull request unapproval parameters", prParamSchema(nil), []string{"repo_slug", "pr_id"}),
	), mcp.ToolHandlerFunc(s.handleUnapprovePullRequest))

	s.mcpServer.AddTool(mcp.NewTool(
		"request_changes",
		"Mark a pull request as needing changes",
		mcp.ObjectSchema("Change request parameters", prParamSchema(nil), []string{"repo_slug", "pr_id"}),
	), mcp.ToolHandlerFunc(s.handleRequestChanges))

	s.mcpServer.AddTool(mcp.NewTool(
		"remove_change_request",
		"Withdraw the authenticated user's change request from a pull request",
		mcp.ObjectSchema("Change request removal parameters", prParamSchema(nil), []string{"repo_slug", "pr_id"}),
	), mcp.ToolHandlerFunc(s.handleRemoveChangeRequest))

	s.mcpServer.AddTool(mcp.NewTool(
		"decline_pull_request",
		"Decline a pull request",
		mcp.ObjectSchema("Pull request decline parameters", prParamSchema(nil), []string{"repo_slug", "pr_id"}),
	), mcp.ToolHandlerFunc(s.handleDeclinePullRequest))

	s.mcpServer.AddTool(mcp.NewTool(
		"list_pr_comments",
		"List comments on a pull request",
		mcp.ObjectSchema("Pull request comment listing parameters", prParamSchema(map[string]interface{}{
			"limit": map[string]interface{}{
				"type":        "number",
				"description": "Maximum number of comments to return (default 10, max 100)",
			},
		}), []string{"repo_slug", "pr_id"}),
	), mcp.ToolHandlerFunc(s.handleListPRComments))

	s.mcpServer.AddTool(mcp.NewTool(
		"add_pr_comment",
		"Add a comment to a pull request, optionally inline on a file line",
		mcp.ObjectSchema("Pull request comment parameters", prParamSchema(map[string]interface{}{
			"content": map[string]interface{}{
				"type":        "string",
				"description": "Comment text (markdown)",
			},
			"file_path": map[string]interface{}{
				"type":        "string",
				"description": "File to attach an inline comment to",
			},
			"line": map[string]interface{}{
				"type":        "number",
				"description": "Line number for the inline comment",
			},
		}), []string{"repo_slug", "pr_id", "content"}),
	), mcp.ToolHandlerFunc(s.handleAddPRComment))

	s.mcpServer.AddTool(mcp.NewTool(
		"get_pr_diff",
		"Get the unified diff of a pull request",
		mcp.ObjectSchema("Pull request diff parameters", prParamSchema(nil), []string{"repo_slug", "pr_id"}),
	), mcp.ToolHandlerFunc(s.handleGetPRDiff))

	s.mcpServer.AddTool(mcp.NewTool(
		"list_pr_commits",
		"List the commits on a pull request",
		mcp.ObjectSchema("Pull request commit listing parameters", prParamSchema(map[string]interface{}{
			"limit": map[string]interface{}{
				"type":        "number",
				"description": "Maximum number of commits to return (default 10, max 100)",
			},
		}), []string{"repo_slug", "pr_id"}),
	), mcp.ToolHandlerFunc(s.handleListPRCommits))
}

func (s *Server) handleListPullRequests(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	state := enumArg(params, "state", []string{"OPEN", "MERGED", "DECLINED", "SUPERSEDED"}, "OPEN")
	prs, err := s.client.ListPullRequests(ctx, slug, state, intArg(params, "limit", defaultListLimit))
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(prs))
	for i := range prs {
		out = append(out, s.prSummary(&prs[i]))
	}
	return map[string]interface{}{
		"repository":    slug,
		"state":         state,
		"count":         len(out),
		"pull_requests": out,
	}, nil
}

func (s *Server) handleGetPullRequest(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, id, err := repoAndID(params)
	if err != nil {
		return nil, err
	}
	pr, err := s.client.GetPullRequest(ctx, slug, id)
	if err != nil {
		return nil, err
	}
	if pr == nil {
		return notFound("Pull request #%d not found in repository '%s'", id, slug), nil
	}
	return s.prDetail(pr), nil
}

func (s *Server) handleCreatePullRequest(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	title, err := requiredStringArg(params, "title")
	if err != nil {
		return nil, err
	}
	source, err := requiredStringArg(params, "source_branch")
	if err != nil {
		return nil, err
	}
	pr, err := s.client.CreatePullRequest(ctx, slug, bitbucket.CreatePullRequestInput{
		Title:             title,
		SourceBranch:      source,
		DestinationBranch: stringArg(params, "destination_branch"),
		Description:       stringArg(params, "description"),
		CloseSourceBranch: optionalBoolArg(params, "close_source_branch"),
		Reviewers:         stringSliceArg(params, "reviewers"),
	})
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"created":      true,
		"pull_request": s.prDetail(pr),
	}, nil
}

func (s *Server) handleUpdatePullRequest(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, id, err := repoAndID(params)
	if err != nil {
		return nil, err
	}
	var in bitbucket.UpdatePullRequestInput
	if v, ok := params["title"].(string); ok {
		in.Title = &v
	}
	if v, ok := params["description"].(string); ok {
		in.Description = &v
	}
	pr, err := s.client.UpdatePullRequest(ctx, slug, id, in)
	if err != nil {
		return nil, err
	}
	if pr == nil {
		return notFound("Pull request #%d not found in repository '%s'", id, slug), nil
	}
	return s.prDetail(pr), nil
}

func (s *Server) handleMergePullRequest(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, id, err := repoAndID(params)
	if err != nil {
		return nil, err
	}
	pr, err := s.client.MergePullRequest(ctx, slug, id, bitbucket.MergePullRequestInput{
		Message:           stringArg(params, "message"),
		Strategy:          enumArg(params, "strategy", []string{"merge_commit", "squash", "fast_forward"}, ""),
		CloseSourceBranch: optionalBoolArg(params, "close_source_branch"),
	})
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"merged":       true,
		"pull_request": s.prDetail(pr),
	}, nil
}

func (s *Server) handleApprovePullRequest(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, id, err := repoAndID(params)
	if err != nil {
		return nil, err
	}
	participant, err := s.client.ApprovePullRequest(ctx, slug, id)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"approved": true,
		"by":       accountName(participant.User),
	}, nil
}

func (s *Server) handleUnapprovePullRequest(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, id, err := repoAndID(params)
	if err != nil {
		return nil, err
	}
	if err := s.client.UnapprovePullRequest(ctx, slug, id); err != nil {
		return nil, err
	}
	return map[string]interface{}{"approved": false}, nil
}

func (s *Server) handleRequestChanges(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, id, err := repoAndID(params)
	if err != nil {
		return nil, err
	}
	participant, err := s.client.RequestChanges(ctx, slug, id)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"changes_requested": true,
		"by":                accountName(participant.User),
	}, nil
}

func (s *Server) handleRemoveChangeRequest(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, id, err := repoAndID(params)
	if err != nil {
		return nil, err
	}
	if err := s.client.RemoveChangeRequest(ctx, slug, id); err != nil {
		return nil, err
	}
	return map[string]interface{}{"changes_requested": false}, nil
}

func (s *Server) handleDeclinePullRequest(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, id, err := repoAndID(params)
	if err != nil {
		return nil, err
	}
	pr, err := s.client.DeclinePullRequest(ctx, slug, id)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"declined":     true,
		"pull_request": s.prSummary(pr),
	}, nil
}

func (s *Server) handleListPRComments(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, id, err := repoAndID(params)
	if err != nil {
		return nil, err
	}
	comments, err := s.client.ListPullRequestComments(ctx, slug, id, intArg(params, "limit", defaultListLimit))
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(comments))
	for i := range comments {
		out = append(out, commentSummary(&comments[i]))
	}
	return map[string]interface{}{
		"repository": slug,
		"pr_id":      id,
		"count":      len(out),
		"comments":   out,
	}, nil
}

func (s *Server) handleAddPRComment(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, id, err := repoAndID(params)
	if err != nil {
		return nil, err
	}
	content, err := requiredStringArg(params, "content")
	if err != nil {
		return nil, err
	}
	var inline *bitbucket.InlineComment
	if path := stringArg(params, "file_path"); path != "" {
		inline = &bitbucket.InlineComment{
			Path: path,
			Line: intArg(params, "line", 0),
		}
	}
	comment, err := s.client.AddPullRequestComment(ctx, slug, id, content, inline)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"created": true,
		"comment": commentSummary(comment),
	}, nil
}

func (s *Server) handleGetPRDiff(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, id, err := repoAndID(params)
	if err != nil {
		return nil, err
	}
	diff, err := s.client.GetPullRequestDiff(ctx, slug, id)
	if err != nil {
		return nil, err
	}
	if diff == nil {
		return notFound("Pull request #%d not found in repository '%s'", id, slug), nil
	}
	text, truncated := capText(*diff)
	return map[string]interface{}{
		"repository": slug,
		"pr_id":      id,
		"diff":       text,
		"truncated":  truncated,
	}, nil
}

func (s *Server) handleListPRCommits(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, id, err := repoAndID(params)
	if err != nil {
		return nil, err
	}
	commits, err := s.client.ListPullRequestCommits(ctx, slug, id, intArg(params, "limit", defaultListLimit))
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(commits))
	for i := range commits {
		out = append(out, s.commitSummary(&commits[i]))
	}
	return map[string]interface{}{
		"repository": slug,
		"pr_id":      id,
		"count":      len(out),
		"commits":    out,
	}, nil
}
