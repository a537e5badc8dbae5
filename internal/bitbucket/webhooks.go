package bitbucket

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ListWebhooks lists webhook subscriptions on a repository.
func (c *Client) ListWebhooks(ctx context.Context, slug string, limit int) ([]Webhook, error) {
	return listPage[Webhook](ctx, c, c.repoPath(slug, "hooks"), listOptions{limit: limit})
}

// GetWebhook fetches one webhook by UUID; nil means not found.
func (c *Client) GetWebhook(ctx context.Context, slug, hookID string) (*Webhook, error) {
	return getJSON[Webhook](ctx, c, c.repoPath(slug, "hooks", EnsureBraces(hookID)), nil)
}

// CreateWebhookInput describes a webhook subscription.
type CreateWebhookInput struct {
	URL         string
	Description string
	Events      []string
	Active      *bool // defaults to true
}

// CreateWebhook registers a webhook subscription.
func (c *Client) CreateWebhook(ctx context.Context, slug string, in CreateWebhookInput) (*Webhook, error) {
	if in.URL == "" {
		return nil, errors.New("webhook url is required")
	}
	if len(in.Events) == 0 {
		return nil, errors.New("at least one webhook event is required")
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	payload := map[string]interface{}{
		"url":    in.URL,
		"events": in.Events,
		"active": active,
	}
	if in.Description != "" {
		payload["description"] = in.Description
	}
	hook, err := mutateJSON[Webhook](ctx, c, http.MethodPost, c.repoPath(slug, "hooks"), payload)
	if err != nil {
		return nil, err
	}
	if hook == nil {
		return nil, fmt.Errorf("create webhook on %s returned no result", slug)
	}
	return hook, nil
}

// UpdateWebhook replaces a webhook subscription by UUID.
func (c *Client) UpdateWebhook(ctx context.Context, slug, hookID string, in CreateWebhookInput) (*Webhook, error) {
	if in.URL == "" {
		return nil, errors.New("webhook url is required")
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	payload := map[string]interface{}{
		"url":    in.URL,
		"events": in.Events,
		"active": active,
	}
	if in.Description != "" {
		payload["description"] = in.Description
	}
	hook, err := mutateJSON[Webhook](ctx, c, http.MethodPut, c.repoPath(slug, "hooks", EnsureBraces(hookID)), payload)
	if err != nil {
		return nil, err
	}
	if hook == nil {
		return nil, fmt.Errorf("update webhook %s on %s returned no result", hookID, slug)
	}
	return hook, nil
}

// DeleteWebhook removes a webhook subscription by UUID.
func (c *Client) DeleteWebhook(ctx context.Context, slug, hookID string) error {
	_, err := c.do(ctx, http.MethodDelete, c.repoPath(slug, "hooks", EnsureBraces(hookID)), nil, nil)
	return err
}
