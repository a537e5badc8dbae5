package mcp

import (
	"context"
	"fmt"
	"strings"

	mcp "github.com/fredcamaral/gomcp-sdk"
	"github.com/fredcamaral/gomcp-sdk/protocol"
)

// Prompts assemble live repository data into review and analysis
// briefs. The SDK's prompt content carries no role field, so role tags
// are embedded in the text.
func (s *Server) registerPrompts() {
	s.mcpServer.AddPrompt(mcp.NewPrompt(
		"review_pull_request",
		"Build a code review brief for a pull request, including its diff and discussion",
		[]protocol.PromptArgument{
			mcp.NewPromptArgument("repo_slug", "Repository slug within the workspace", true),
			mcp.NewPromptArgument("pr_id", "Pull request id", true),
		},
	), mcp.PromptHandlerFunc(s.promptReviewPullRequest))

	s.mcpServer.AddPrompt(mcp.NewPrompt(
		"diagnose_pipeline",
		"Build a failure analysis brief for a pipeline run, including its steps",
		[]protocol.PromptArgument{
			mcp.NewPromptArgument("repo_slug", "Repository slug within the workspace", true),
			mcp.NewPromptArgument("pipeline_uuid", "Pipeline UUID, braces optional", true),
		},
	), mcp.PromptHandlerFunc(s.promptDiagnosePipeline))

	s.mcpServer.AddPrompt(mcp.NewPrompt(
		"draft_release_notes",
		"Build a release notes draft from the commits between two refs",
		[]protocol.PromptArgument{
			mcp.NewPromptArgument("repo_slug", "Repository slug within the workspace", true),
			mcp.NewPromptArgument("base", "Ref of the previous release", true),
			mcp.NewPromptArgument("head", "Ref of the upcoming release (default main)", false),
		},
	), mcp.PromptHandlerFunc(s.promptDraftReleaseNotes))
}

func (s *Server) promptReviewPullRequest(ctx context.Context, args map[string]interface{}) ([]protocol.Content, error) {
	slug, err := requiredStringArg(args, "repo_slug")
	if err != nil {
		return nil, err
	}
	id, err := promptIntArg(args, "pr_id")
	if err != nil {
		return nil, err
	}

	pr, err := s.client.GetPullRequest(ctx, slug, id)
	if err != nil {
		return nil, err
	}
	if pr == nil {
		return nil, fmt.Errorf("pull request #%d not found in repository %s", id, slug)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[system] You are reviewing a pull request in the Bitbucket repository %s/%s.\n\n", s.client.Workspace(), slug)
	fmt.Fprintf(&b, "[user] Please review pull request #%d: %s\n\n", pr.ID, pr.Title)
	fmt.Fprintf(&b, "State: %s\n", pr.State)
	fmt.Fprintf(&b, "Author: %s\n", accountName(pr.Author))
	fmt.Fprintf(&b, "Branches: %s -> %s\n", endpointBranch(pr.Source), endpointBranch(pr.Destination))
	if pr.Description != "" {
		fmt.Fprintf(&b, "\nDescription:\n%s\n", pr.Description)
	}

	diff, err := s.client.GetPullRequestDiff(ctx, slug, id)
	if err != nil {
		return nil, err
	}
	if diff != nil {
		text, truncated := capText(*diff)
		fmt.Fprintf(&b, "\nDiff:\n```diff\n%s\n```\n", text)
		if truncated {
			b.WriteString("(diff truncated)\n")
		}
	}

	comments, err := s.client.ListPullRequestComments(ctx, slug, id, defaultListLimit)
	if err != nil {
		return nil, err
	}
	if len(comments) > 0 {
		b.WriteString("\nExisting discussion:\n")
		for i := range comments {
			c := &comments[i]
			if c.Content == nil || c.Deleted {
				continue
			}
			fmt.Fprintf(&b, "- %s: %s\n", accountName(c.User), firstLine(c.Content.Raw))
		}
	}

	b.WriteString("\nAssess correctness, readability and test coverage. Point at concrete lines where possible.")
	return []protocol.Content{protocol.NewContent(b.String())}, nil
}

func (s *Server) promptDiagnosePipeline(ctx context.Context, args map[string]interface{}) ([]protocol.Content, error) {
	slug, err := requiredStringArg(args, "repo_slug")
	if err != nil {
		return nil, err
	}
	uuid, err := requiredStringArg(args, "pipeline_uuid")
	if err != nil {
		return nil, err
	}

	pipeline, err := s.client.GetPipeline(ctx, slug, uuid)
	if err != nil {
		return nil, err
	}
	if pipeline == nil {
		return nil, fmt.Errorf("pipeline %s not found in repository %s", uuid, slug)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[system] You are diagnosing a CI pipeline run in the Bitbucket repository %s/%s.\n\n", s.client.Workspace(), slug)
	state, result := pipelineStateName(pipeline.State)
	fmt.Fprintf(&b, "[user] Pipeline #%d is %s", pipeline.BuildNumber, state)
	if result != "" {
		fmt.Fprintf(&b, " (%s)", result)
	}
	b.WriteString(".\n")
	if pipeline.Target != nil && pipeline.Target.RefName != "" {
		fmt.Fprintf(&b, "Ref: %s\n", pipeline.Target.RefName)
	}

	steps, err := s.client.ListPipelineSteps(ctx, slug, uuid, defaultListLimit)
	if err != nil {
		return nil, err
	}
	if len(steps) > 0 {
		b.WriteString("\nSteps:\n")
		for i := range steps {
			st := &steps[i]
			stepState, stepResult := pipelineStateName(st.State)
			fmt.Fprintf(&b, "- %s: %s", st.Name, stepState)
			if stepResult != "" {
				fmt.Fprintf(&b, " (%s)", stepResult)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\nExplain the most likely cause of any failure and suggest the next diagnostic step. Use get_pipeline_step_log to pull logs for suspect steps.")
	return []protocol.Content{protocol.NewContent(b.String())}, nil
}

func (s *Server) promptDraftReleaseNotes(ctx context.Context, args map[string]interface{}) ([]protocol.Content, error) {
	slug, err := requiredStringArg(args, "repo_slug")
	if err != nil {
		return nil, err
	}
	base, err := requiredStringArg(args, "base")
	if err != nil {
		return nil, err
	}
	head := stringArg(args, "head")
	if head == "" {
		head = "main"
	}

	stats, err := s.client.CompareCommits(ctx, slug, base, head, 50)
	if err != nil {
		return nil, err
	}
	commits, err := s.client.ListCommits(ctx, slug, head, 50)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[system] You are drafting release notes for the Bitbucket repository %s/%s.\n\n", s.client.Workspace(), slug)
	fmt.Fprintf(&b, "[user] Draft release notes for the changes between %s and %s.\n", base, head)

	if len(commits) > 0 {
		b.WriteString("\nRecent commits on the head ref:\n")
		for i := range commits {
			c := &commits[i]
			fmt.Fprintf(&b, "- %s %s\n", shortHash(c.Hash), firstLine(c.Message))
		}
	}
	if len(stats) > 0 {
		b.WriteString("\nChanged files:\n")
		for i := range stats {
			d := &stats[i]
			fmt.Fprintf(&b, "- %s (%s, +%d/-%d)\n", d.Path(), d.Status, d.LinesAdded, d.LinesRemoved)
		}
	}

	b.WriteString("\nGroup the changes into Features, Fixes and Internal. Write for users of the project, not its developers.")
	return []protocol.Content{protocol.NewContent(b.String())}, nil
}

// promptIntArg parses a prompt argument that may arrive as a JSON
// number or as a string, since prompts/get carries string arguments.
func promptIntArg(args map[string]interface{}, key string) (int, error) {
	switch v := args[key].(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case string:
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
			return 0, fmt.Errorf("%s must be a number, got %q", key, v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s argument is required and must be a number", key)
	}
}
