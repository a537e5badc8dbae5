package mcp

import (
	"context"
	"fmt"
	"strings"

	"bitbucket-mcp/internal/bitbucket"

	mcp "github.com/fredcamaral/gomcp-sdk"
	"github.com/fredcamaral/gomcp-sdk/protocol"
)

const (
	resourceScheme    = "bitbucket://"
	resourcePageLimit = 50
)

// Resources mirror the read-only tools for MCP clients that prefer
// resource URIs over tool calls. Every registered URI is served by the
// one handleResourceRead dispatcher, which renders markdown.
func (s *Server) registerResources() {
	resources := []struct {
		uri         string
		name        string
		description string
	}{
		{
			uri:         "bitbucket://workspace",
			name:        "Workspace Overview",
			description: "The configured workspace and its projects",
		},
		{
			uri:         "bitbucket://repositories",
			name:        "Repository Listing",
			description: "Repositories in the configured workspace",
		},
		{
			uri:         "bitbucket://repositories/{repo_slug}",
			name:        "Repository Detail",
			description: "One repository with its open pull requests and recent pipelines",
		},
		{
			uri:         "bitbucket://repositories/{repo_slug}/branches",
			name:        "Repository Branches",
			description: "Branches of one repository",
		},
		{
			uri:         "bitbucket://repositories/{repo_slug}/pullrequests",
			name:        "Repository Pull Requests",
			description: "Open pull requests of one repository",
		},
		{
			uri:         "bitbucket://repositories/{repo_slug}/pipelines",
			name:        "Repository Pipelines",
			description: "Recent pipeline runs of one repository",
		},
	}
	for _, res := range resources {
		resource := mcp.NewResource(res.uri, res.name, res.description, "text/markdown")
		s.mcpServer.AddResource(resource, mcp.ResourceHandlerFunc(s.handleResourceRead))
	}
}

func (s *Server) handleResourceRead(ctx context.Context, uri string) ([]protocol.Content, error) {
	if !strings.HasPrefix(uri, resourceScheme) {
		return nil, fmt.Errorf("unsupported resource URI: %s", uri)
	}
	parts := strings.Split(strings.Trim(strings.TrimPrefix(uri, resourceScheme), "/"), "/")

	var (
		text string
		err  error
	)
	switch {
	case len(parts) == 1 && parts[0] == "workspace":
		text, err = s.readWorkspaceResource(ctx)
	case parts[0] == "repositories" && len(parts) == 1:
		text, err = s.readRepositoriesResource(ctx)
	case parts[0] == "repositories" && len(parts) == 2:
		text, err = s.readRepositoryResource(ctx, parts[1])
	case parts[0] == "repositories" && len(parts) == 3:
		text, err = s.readRepositorySubResource(ctx, parts[1], parts[2])
	default:
		return nil, fmt.Errorf("unknown resource: %s", uri)
	}
	if err != nil {
		return nil, err
	}
	return []protocol.Content{protocol.NewContent(text)}, nil
}

func (s *Server) readWorkspaceResource(ctx context.Context) (string, error) {
	projects, err := s.client.ListProjects(ctx, resourcePageLimit)
	if err != nil {
		return "", err
	}
	return s.workspaceMarkdown(projects), nil
}

func (s *Server) readRepositoriesResource(ctx context.Context) (string, error) {
	repos, err := s.client.ListRepositories(ctx, bitbucket.ListRepositoriesOptions{Limit: resourcePageLimit})
	if err != nil {
		return "", err
	}
	return s.repositoriesMarkdown(repos), nil
}

func (s *Server) readRepositoryResource(ctx context.Context, slug string) (string, error) {
	repo, err := s.client.GetRepository(ctx, slug)
	if err != nil {
		return "", err
	}
	if repo == nil {
		return fmt.Sprintf("Repository '%s' not found.\n", slug), nil
	}

	prs, err := s.client.ListPullRequests(ctx, slug, "OPEN", defaultListLimit)
	if err != nil {
		return "", err
	}
	pipelines, err := s.client.ListPipelines(ctx, slug, defaultListLimit)
	if err != nil {
		return "", err
	}
	return s.repositoryMarkdown(repo, prs, pipelines), nil
}

func (s *Server) readRepositorySubResource(ctx context.Context, slug, kind string) (string, error) {
	switch kind {
	case "branches":
		branches, err := s.client.ListBranches(ctx, slug, "", resourcePageLimit)
		if err != nil {
			return "", err
		}
		return s.branchesMarkdown(slug, branches), nil
	case "pullrequests":
		prs, err := s.client.ListPullRequests(ctx, slug, "OPEN", resourcePageLimit)
		if err != nil {
			return "", err
		}
		return s.pullRequestsMarkdown(slug, prs), nil
	case "pipelines":
		pipelines, err := s.client.ListPipelines(ctx, slug, resourcePageLimit)
		if err != nil {
			return "", err
		}
		return s.pipelinesMarkdown(slug, pipelines), nil
	default:
		return "", fmt.Errorf("unknown repository resource: %s", kind)
	}
}
