package mcp

import (
	"context"

	"bitbucket-mcp/internal/bitbucket"

	mcp "github.com/fredcamaral/gomcp-sdk"
)

func (s *Server) registerPipelineTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		"list_pipelines",
		"List pipeline runs in a repository, newest first",
		mcp.ObjectSchema("Pipeline listing parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"limit": map[string]interface{}{
				"type":        "number",
				"description": "Maximum number of pipelines to return (default 10, max 100)",
			},
		}, []string{"repo_slug"}),
	), mcp.ToolHandlerFunc(s.handleListPipelines))

	s.mcpServer.AddTool(mcp.NewTool(
		"get_pipeline",
		"Get one pipeline run by UUID",
		mcp.ObjectSchema("Pipeline lookup parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"pipeline_uuid": map[string]interface{}{
				"type":        "string",
				"description": "Pipeline UUID, braces optional",
			},
		}, []string{"repo_slug", "pipeline_uuid"}),
	), mcp.ToolHandlerFunc(s.handleGetPipeline))

	s.mcpServer.AddTool(mcp.NewTool(
		"trigger_pipeline",
		"Trigger a pipeline on a branch or commit, optionally a custom pipeline with variables",
		mcp.ObjectSchema("Pipeline trigger parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"branch": map[string]interface{}{
				"type":        "string",
				"description": "Branch to run on (mutually exclusive with commit)",
			},
			"commit": map[string]interface{}{
				"type":        "string",
				"description": "Commit hash to run on (mutually exclusive with branch)",
			},
			"custom_pipeline": map[string]interface{}{
				"type":        "string",
				"description": "Name of a custom pipeline definition to run",
			},
			"variables": map[string]interface{}{
				"description": "Pipeline variables, either a key/value object or an array of {key,value,secured}",
			},
		}, []string{"repo_slug"}),
	), mcp.ToolHandlerFunc(s.handleTriggerPipeline))

	s.mcpServer.AddTool(mcp.NewTool(
		"stop_pipeline",
		"Stop a running pipeline",
		mcp.ObjectSchema("Pipeline stop parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"pipeline_uuid": map[string]interface{}{
				"type":        "string",
				"description": "Pipeline UUID, braces optional",
			},
		}, []string{"repo_slug", "pipeline_uuid"}),
	), mcp.ToolHandlerFunc(s.handleStopPipeline))

	s.mcpServer.AddTool(mcp.NewTool(
		"list_pipeline_steps",
		"List the steps of a pipeline run",
		mcp.ObjectSchema("Pipeline step listing parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"pipeline_uuid": map[string]interface{}{
				"type":        "string",
				"description": "Pipeline UUID, braces optional",
			},
			"limit": map[string]interface{}{
				"type":        "number",
				"description": "Maximum number of steps to return (default 10, max 100)",
			},
		}, []string{"repo_slug", "pipeline_uuid"}),
	), mcp.ToolHandlerFunc(s.handleListPipelineSteps))

	s.mcpServer.AddTool(mcp.NewTool(
		"get_pipeline_step_log",
		"Get the log output of one pipeline step",
		mcp.ObjectSchema("Pipeline step log parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"pipeline_uuid": map[string]interface{}{
				"type":        "string",
				"description": "Pipeline UUID, braces optional",
			},
			"step_uuid": map[string]interface{}{
				"type":        "string",
				"description": "Step UUID, braces optional",
			},
		}, []string{"repo_slug", "pipeline_uuid", "step_uuid"}),
	), mcp.ToolHandlerFunc(s.handleGetPipelineStepLog))

	s.mcpServer.AddTool(mcp.NewTool(
		"list_pipeline_variables",
		"List repository pipeline variables (secured values are never returned)",
		mcp.ObjectSchema("Pipeline variable listing parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"limit": map[string]interface{}{
				"type":        "number",
				"description": "Maximum number of variables to return (default 10, max 100)",
			},
		}, []string{"repo_slug"}),
	), mcp.ToolHandlerFunc(s.handleListPipelineVariables))

	s.mcpServer.AddTool(mcp.NewTool(
		"create_pipeline_variable",
		"Create a repository pipeline variable",
		mcp.ObjectSchema("Pipeline variable creation parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"key": map[string]interface{}{
				"type":        "string",
				"description": "Variable name",
			},
			"value": map[string]interface{}{
				"type":        "string",
				"description": "Variable value",
			},
			"secured": map[string]interface{}{
				"type":        "boolean",
				"description": "Mask the value in logs and API reads (default false)",
			},
		}, []string{"repo_slug", "key", "value"}),
	), mcp.ToolHandlerFunc(s.handleCreatePipelineVariable))

	s.mcpServer.AddTool(mcp.NewTool(
		"update_pipeline_variable",
		"Update a repository pipeline variable by UUID",
		mcp.ObjectSchema("Pipeline variable update parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"variable_uuid": map[string]interface{}{
				"type":        "string",
				"description": "Variable UUID, braces optional",
			},
			"key": map[string]interface{}{
				"type":        "string",
				"description": "New variable name",
			},
			"value": map[string]interface{}{
				"type":        "string",
				"description": "New variable value",
			},
			"secured": map[string]interface{}{
				"type":        "boolean",
				"description": "Mask the value in logs and API reads",
			},
		}, []string{"repo_slug", "variable_uuid"}),
	), mcp.ToolHandlerFunc(s.handleUpdatePipelineVariable))

	s.mcpServer.AddTool(mcp.NewTool(
		"delete_pipeline_variable",
		"Delete a repository pipeline variable by UUID",
		mcp.ObjectSchema("Pipeline variable deletion parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"variable_uuid": map[string]interface{}{
				"type":        "string",
				"description": "Variable UUID, braces optional",
			},
		}, []string{"repo_slug", "variable_uuid"}),
	), mcp.ToolHandlerFunc(s.handleDeletePipelineVariable))
}

func (s *Server) handleListPipelines(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	pipelines, err := s.client.ListPipelines(ctx, slug, intArg(params, "limit", defaultListLimit))
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(pipelines))
	for i := range pipelines {
		out = append(out, s.pipelineSummary(&pipelines[i]))
	}
	return map[string]interface{}{
		"repository": slug,
		"count":      len(out),
		"pipelines":  out,
	}, nil
}

func (s *Server) handleGetPipeline(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	uuid, err := requiredStringArg(params, "pipeline_uuid")
	if err != nil {
		return nil, err
	}
	pipeline, err := s.client.GetPipeline(ctx, slug, uuid)
	if err != nil {
		return nil, err
	}
	if pipeline == nil {
		return notFound("Pipeline '%s' not found in repository '%s'", uuid, slug), nil
	}
	return s.pipelineSummary(pipeline), nil
}

func (s *Server) handleTriggerPipeline(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	variables, err := bitbucket.NormalizePipelineVariables(params["variables"])
	if err != nil {
		return nil, err
	}
	pipeline, err := s.client.TriggerPipeline(ctx, slug, bitbucket.TriggerPipelineInput{
		Branch:         stringArg(params, "branch"),
		Commit:         stringArg(params, "commit"),
		CustomPipeline: stringArg(params, "custom_pipeline"),
		Variables:      variables,
	})
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"triggered": true,
		"pipeline":  s.pipelineSummary(pipeline),
	}, nil
}

func (s *Server) handleStopPipeline(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	uuid, err := requiredStringArg(params, "pipeline_uuid")
	if err != nil {
		return nil, err
	}
	if err := s.client.StopPipeline(ctx, slug, uuid); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"stopped":  true,
		"pipeline": bitbucket.EnsureBraces(uuid),
	}, nil
}

func (s *Server) handleListPipelineSteps(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	uuid, err := requiredStringArg(params, "pipeline_uuid")
	if err != nil {
		return nil, err
	}
	steps, err := s.client.ListPipelineSteps(ctx, slug, uuid, intArg(params, "limit", defaultListLimit))
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(steps))
	for i := range steps {
		out = append(out, stepSummary(&steps[i]))
	}
	return map[string]interface{}{
		"repository": slug,
		"pipeline":   bitbucket.EnsureBraces(uuid),
		"count":      len(out),
		"steps":      out,
	}, nil
}

func (s *Server) handleGetPipelineStepLog(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	uuid, err := requiredStringArg(params, "pipeline_uuid")
	if err != nil {
		return nil, err
	}
	stepUUID, err := requiredStringArg(params, "step_uuid")
	if err != nil {
		return nil, err
	}
	log, err := s.client.GetPipelineStepLog(ctx, slug, uuid, stepUUID)
	if err != nil {
		return nil, err
	}
	if log == nil {
		return notFound("Log for step '%s' of pipeline '%s' not found in repository '%s'", stepUUID, uuid, slug), nil
	}
	text, truncated := capText(*log)
	return map[string]interface{}{
		"repository": slug,
		"pipeline":   bitbucket.EnsureBraces(uuid),
		"step":       bitbucket.EnsureBraces(stepUUID),
		"log":        text,
		"truncated":  truncated,
	}, nil
}

func (s *Server) handleListPipelineVariables(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	variables, err := s.client.ListVariables(ctx, slug, intArg(params, "limit", defaultListLimit))
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(variables))
	for i := range variables {
		out = append(out, variableSummary(&variables[i]))
	}
	return map[string]interface{}{
		"repository": slug,
		"count":      len(out),
		"variables":  out,
	}, nil
}

func (s *Server) handleCreatePipelineVariable(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	key, err := requiredStringArg(params, "key")
	if err != nil {
		return nil, err
	}
	value, err := requiredStringArg(params, "value")
	if err != nil {
		return nil, err
	}
	variable, err := s.client.CreateVariable(ctx, slug, bitbucket.PipelineVariable{
		Key:     key,
		Value:   value,
		Secured: boolArg(params, "secured", false),
	})
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"created":  true,
		"variable": variableSummary(variable),
	}, nil
}

func (s *Server) handleUpdatePipelineVariable(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	uuid, err := requiredStringArg(params, "variable_uuid")
	if err != nil {
		return nil, err
	}
	variable, err := s.client.UpdateVariable(ctx, slug, uuid, bitbucket.PipelineVariable{
		Key:     stringArg(params, "key"),
		Value:   stringArg(params, "value"),
		Secured: boolArg(params, "secured", false),
	})
	if err != nil {
		return nil, err
	}
	if variable == nil {
		return notFound("Pipeline variable '%s' not found in repository '%s'", uuid, slug), nil
	}
	return map[string]interface{}{
		"updated":  true,
		"variable": variableSummary(variable),
	}, nil
}

func (s *Server) handleDeletePipelineVariable(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	uuid, err := requiredStringArg(params, "variable_uuid")
	if err != nil {
		return nil, err
	}
	if err := s.client.DeleteVariable(ctx, slug, uuid); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"deleted":  true,
		"variable": bitbucket.EnsureBraces(uuid),
	}, nil
}
