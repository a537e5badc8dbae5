package mcp

import (
	"context"

	mcp "github.com/fredcamaral/gomcp-sdk"
)

func (s *Server) registerDeploymentTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		"list_environments",
		"List deployment environments on a repository",
		mcp.ObjectSchema("Environment listing parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"limit": map[string]interface{}{
				"type":        "number",
				"description": "Maximum number of environments to return (default 10, max 100)",
			},
		}, []string{"repo_slug"}),
	), mcp.ToolHandlerFunc(s.handleListEnvironments))

	s.mcpServer.AddTool(mcp.NewTool(
		"get_environment",
		"Get one deployment environment by UUID",
		mcp.ObjectSchema("Environment lookup parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"environment_uuid": map[string]interface{}{
				"type":        "string",
				"description": "Environment UUID, braces optional",
			},
		}, []string{"repo_slug", "environment_uuid"}),
	), mcp.ToolHandlerFunc(s.handleGetEnvironment))

	s.mcpServer.AddTool(mcp.NewTool(
		"list_deployments",
		"List deployments on a repository, newest first",
		mcp.ObjectSchema("Deployment listing parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"limit": map[string]interface{}{
				"type":        "number",
				"description": "Maximum number of deployments to return (default 10, max 100)",
			},
		}, []string{"repo_slug"}),
	), mcp.ToolHandlerFunc(s.handleListDeployments))

	s.mcpServer.AddTool(mcp.NewTool(
		"get_deployment",
		"Get one deployment by UUID",
		mcp.ObjectSchema("Deployment lookup parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"deployment_uuid": map[string]interface{}{
				"type":        "string",
				"description": "Deployment UUID, braces optional",
			},
		}, []string{"repo_slug", "deployment_uuid"}),
	), mcp.ToolHandlerFunc(s.handleGetDeployment))
}

func (s *Server) handleListEnvironments(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	envs, err := s.client.ListEnvironments(ctx, slug, intArg(params, "limit", defaultListLimit))
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(envs))
	for i := range envs {
		out = append(out, environmentSummary(&envs[i]))
	}
	return map[string]interface{}{
		"repository":   slug,
		"count":        len(out),
		"environments": out,
	}, nil
}

func (s *Server) handleGetEnvironment(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	uuid, err := requiredStringArg(params, "environment_uuid")
	if err != nil {
		return nil, err
	}
	env, err := s.client.GetEnvironment(ctx, slug, uuid)
	if err != nil {
		return nil, err
	}
	if env == nil {
		return notFound("Environment '%s' not found in repository '%s'", uuid, slug), nil
	}
	return environmentSummary(env), nil
}

func (s *Server) handleListDeployments(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	deployments, err := s.client.ListDeployments(ctx, slug, intArg(params, "limit", defaultListLimit))
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(deployments))
	for i := range deployments {
		out = append(out, deploymentSummary(&deployments[i]))
	}
	return map[string]interface{}{
		"repository":  slug,
		"count":       len(out),
		"deployments": out,
	}, nil
}

func (s *Server) handleGetDeployment(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	uuid, err := requiredStringArg(params, "deployment_uuid")
	if err != nil {
		return nil, err
	}
	deployment, err := s.client.GetDeployment(ctx, slug, uuid)
	if err != nil {
		return nil, err
	}
	if deployment == nil {
		return notFound("Deployment '%s' not found in repository '%s'", uuid, slug), nil
	}
	return deploymentSummary(deployment), nil
}
