package mcp

import (
	"context"

	"bitbucket-mcp/internal/bitbucket"

	mcp "github.com/fredcamaral/gomcp-sdk"
)

func (s *Server) registerWebhookTools() {
	s.mcpServer.AddTool(mcp.NewTool(
		"list_webhooks",
		"List webhook subscriptions on a repository",
		mcp.ObjectSchema("Webhook listing parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"limit": map[string]interface{}{
				"type":        "number",
				"description": "Maximum number of webhooks to return (default 10, max 100)",
			},
		}, []string{"repo_slug"}),
	), mcp.ToolHandlerFunc(s.handleListWebhooks))

	s.mcpServer.AddTool(mcp.NewTool(
		"get_webhook",
		"Get one webhook subscription by UUID",
		mcp.ObjectSchema("Webhook lookup parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"webhook_uuid": map[string]interface{}{
				"type":        "string",
				"description": "Webhook UUID, braces optional",
			},
		}, []string{"repo_slug", "webhook_uuid"}),
	), mcp.ToolHandlerFunc(s.handleGetWebhook))

	s.mcpServer.AddTool(mcp.NewTool(
		"create_webhook",
		"Register a webhook subscription on a repository",
		mcp.ObjectSchema("Webhook creation parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"url": map[string]interface{}{
				"type":        "string",
				"description": "Endpoint Bitbucket delivers events to",
			},
			"events": map[string]interface{}{
				"type":        "array",
				"description": "Event keys, e.g. repo:push, pullrequest:created",
				"items":       map[string]interface{}{"type": "string"},
			},
			"description": map[string]interface{}{
				"type":        "string",
				"description": "Human-readable label",
			},
			"active": map[string]interface{}{
				"type":        "boolean",
				"description": "Whether the hook starts enabled (default true)",
			},
		}, []string{"repo_slug", "url", "events"}),
	), mcp.ToolHandlerFunc(s.handleCreateWebhook))

	s.mcpServer.AddTool(mcp.NewTool(
		"update_webhook",
		"Replace a webhook subscription by UUID",
		mcp.ObjectSchema("Webhook update parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"webhook_uuid": map[string]interface{}{
				"type":        "string",
				"description": "Webhook UUID, braces optional",
			},
			"url": map[string]interface{}{
				"type":        "string",
				"description": "Endpoint Bitbucket delivers events to",
			},
			"events": map[string]interface{}{
				"type":        "array",
				"description": "Event keys, e.g. repo:push, pullrequest:created",
				"items":       map[string]interface{}{"type": "string"},
			},
			"description": map[string]interface{}{
				"type":        "string",
				"description": "Human-readable label",
			},
			"active": map[string]interface{}{
				"type":        "boolean",
				"description": "Whether the hook is enabled",
			},
		}, []string{"repo_slug", "webhook_uuid", "url", "events"}),
	), mcp.ToolHandlerFunc(s.handleUpdateWebhook))

	s.mcpServer.AddTool(mcp.NewTool(
		"delete_webhook",
		"Delete a webhook subscription by UUID",
		mcp.ObjectSchema("Webhook deletion parameters", map[string]interface{}{
			"repo_slug": map[string]interface{}{
				"type":        "string",
				"description": "Repository slug within the workspace",
			},
			"webhook_uuid": map[string]interface{}{
				"type":        "string",
				"description": "Webhook UUID, braces optional",
			},
		}, []string{"repo_slug", "webhook_uuid"}),
	), mcp.ToolHandlerFunc(s.handleDeleteWebhook))
}

func (s *Server) handleListWebhooks(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	hooks, err := s.client.ListWebhooks(ctx, slug, intArg(params, "limit", defaultListLimit))
	if err != nil {
		return nil, err
	}
	out := make([]map[string]interface{}, 0, len(hooks))
	for i := range hooks {
		out = append(out, webhookSummary(&hooks[i]))
	}
	return map[string]interface{}{
		"repository": slug,
		"count":      len(out),
		"webhooks":   out,
	}, nil
}

func (s *Server) handleGetWebhook(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	uuid, err := requiredStringArg(params, "webhook_uuid")
	if err != nil {
		return nil, err
	}
	hook, err := s.client.GetWebhook(ctx, slug, uuid)
	if err != nil {
		return nil, err
	}
	if hook == nil {
		return notFound("Webhook '%s' not found in repository '%s'", uuid, slug), nil
	}
	return webhookSummary(hook), nil
}

func (s *Server) handleCreateWebhook(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	url, err := requiredStringArg(params, "url")
	if err != nil {
		return nil, err
	}
	hook, err := s.client.CreateWebhook(ctx, slug, bitbucket.CreateWebhookInput{
		URL:         url,
		Description: stringArg(params, "description"),
		Events:      stringSliceArg(params, "events"),
		Active:      optionalBoolArg(params, "active"),
	})
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"created": true,
		"webhook": webhookSummary(hook),
	}, nil
}

func (s *Server) handleUpdateWebhook(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	uuid, err := requiredStringArg(params, "webhook_uuid")
	if err != nil {
		return nil, err
	}
	url, err := requiredStringArg(params, "url")
	if err != nil {
		return nil, err
	}
	hook, err := s.client.UpdateWebhook(ctx, slug, uuid, bitbucket.CreateWebhookInput{
		URL:         url,
		Description: stringArg(params, "description"),
		Events:      stringSliceArg(params, "events"),
		Active:      optionalBoolArg(params, "active"),
	})
	if err != nil {
		return nil, err
	}
	if hook == nil {
		return notFound("Webhook '%s' not found in repository '%s'", uuid, slug), nil
	}
	return map[string]interface{}{
		"updated": true,
		"webhook": webhookSummary(hook),
	}, nil
}

func (s *Server) handleDeleteWebhook(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	slug, err := requiredStringArg(params, "repo_slug")
	if err != nil {
		return nil, err
	}
	uuid, err := requiredStringArg(params, "webhook_uuid")
	if err != nil {
		return nil, err
	}
	if err := s.client.DeleteWebhook(ctx, slug, uuid); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"deleted": true,
		"webhook": bitbucket.EnsureBraces(uuid),
	}, nil
}
