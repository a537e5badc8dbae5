package bitbucket

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
)

// ListPipelines lists pipeline runs, newest first.
func (c *Client) ListPipelines(ctx context.Context, slug string, limit int) ([]Pipeline, error) {
	return listPage[Pipeline](ctx, c, c.repoPath(slug, "pipelines"), listOptions{
		limit:  limit,
		params: map[string]string{"sort": "-created_on"},
	})
}

// GetPipeline fetches one pipeline run by UUID or build number string;
// nil means not found.
func (c *Client) GetPipeline(ctx context.Context, slug, pipelineID string) (*Pipeline, error) {
	return getJSON[Pipeline](ctx, c, c.repoPath(slug, "pipelines", EnsureBraces(pipelineID)), nil)
}

// TriggerPipelineInput selects what to run. Branch and Commit are
// mutually exclusive; CustomPipeline names a custom pipeline
// definition to run against the selected target.
type TriggerPipelineInput struct {
	Branch         string
	Commit         string
	CustomPipeline string
	Variables      []PipelineVariable
}

// NormalizePipelineVariables accepts both wire forms callers use, a
// key/value map or an array of {key,value,secured} objects, and
// normalizes them to the array form. Map keys are emitted in sorted
// order so the result is stable.
func NormalizePipelineVariables(raw interface{}) ([]PipelineVariable, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		vars := make([]PipelineVariable, 0, len(keys))
		for _, k := range keys {
			vars = append(vars, PipelineVariable{Key: k, Value: fmt.Sprintf("%v", v[k])})
		}
		return vars, nil
	case []interface{}:
		vars := make([]PipelineVariable, 0, len(v))
		for i, item := range v {
			entry, ok := item.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("variable %d: expected an object, got %T", i, item)
			}
			key, _ := entry["key"].(string)
			if key == "" {
				return nil, fmt.Errorf("variable %d: key is required", i)
			}
			value, _ := entry["value"].(string)
			pv := PipelineVariable{Key: key, Value: value}
			if secured, ok := entry["secured"].(bool); ok {
				pv.Secured = secured
			}
			vars = append(vars, pv)
		}
		return vars, nil
	default:
		return nil, fmt.Errorf("variables must be an object or an array, got %T", raw)
	}
}

// TriggerPipeline starts a pipeline run. Exactly one of branch or
// commit must select the target; both set fails validation before any
// request is sent.
func (c *Client) TriggerPipeline(ctx context.Context, slug string, in TriggerPipelineInput) (*Pipeline, error) {
	if in.Branch != "" && in.Commit != "" {
		return nil, errors.New("branch and commit are mutually exclusive pipeline targets")
	}
	if in.Branch == "" && in.Commit == "" {
		return nil, errors.New("a pipeline target requires a branch or a commit")
	}

	target := map[string]interface{}{}
	if in.Branch != "" {
		target["type"] = "pipeline_ref_target"
		target["ref_type"] = "branch"
		target["ref_name"] = in.Branch
	} else {
		target["type"] = "pipeline_commit_target"
		target["commit"] = map[string]string{"type": "commit", "hash": in.Commit}
	}
	if in.CustomPipeline != "" {
		target["selector"] = map[string]string{"type": "custom", "pattern": in.CustomPipeline}
	}

	payload := map[string]interface{}{"target": target}
	if len(in.Variables) > 0 {
		payload["variables"] = in.Variables
	}

	p, err := mutateJSON[Pipeline](ctx, c, http.MethodPost, c.repoPath(slug, "pipelines"), payload)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("trigger pipeline on %s returned no result", slug)
	}
	return p, nil
}

// StopPipeline requests that a running pipeline halt. The upstream
// returns no body on success.
func (c *Client) StopPipeline(ctx context.Context, slug, pipelineID string) error {
	_, err := c.do(ctx, http.MethodPost, c.repoPath(slug, "pipelines", EnsureBraces(pipelineID), "stopPipeline"), nil, nil)
	return err
}

// ListPipelineSteps lists the steps of one pipeline run.
func (c *Client) ListPipelineSteps(ctx context.Context, slug, pipelineID string, limit int) ([]PipelineStep, error) {
	return listPage[PipelineStep](ctx, c, c.repoPath(slug, "pipelines", EnsureBraces(pipelineID), "steps"), listOptions{limit: limit})
}

// GetPipelineStepLog returns a step's raw log text; nil means the
// pipeline or step was not found (or produced no log yet).
func (c *Client) GetPipelineStepLog(ctx context.Context, slug, pipelineID, stepID string) (*string, error) {
	path := c.repoPath(slug, "pipelines", EnsureBraces(pipelineID), "steps", EnsureBraces(stepID), "log")
	return c.doText(ctx, http.MethodGet, path, nil)
}

// ListVariables lists repository-level pipeline variables. Secured
// values come back empty by upstream design.
func (c *Client) ListVariables(ctx context.Context, slug string, limit int) ([]PipelineVariable, error) {
	return listPage[PipelineVariable](ctx, c, c.repoPath(slug, "pipelines_config", "variables"), listOptions{limit: limit})
}

// CreateVariable creates a repository pipeline variable.
func (c *Client) CreateVariable(ctx context.Context, slug string, v PipelineVariable) (*PipelineVariable, error) {
	if v.Key == "" {
		return nil, errors.New("variable key is required")
	}
	out, err := mutateJSON[PipelineVariable](ctx, c, http.MethodPost, c.repoPath(slug, "pipelines_config", "variables"), v)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("create variable %q on %s returned no result", v.Key, slug)
	}
	return out, nil
}

// UpdateVariable updates a repository pipeline variable by UUID.
func (c *Client) UpdateVariable(ctx context.Context, slug, variableID string, v PipelineVariable) (*PipelineVariable, error) {
	path := c.repoPath(slug, "pipelines_config", "variables", EnsureBraces(variableID))
	out, err := mutateJSON[PipelineVariable](ctx, c, http.MethodPut, path, v)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("update variable %s on %s returned no result", variableID, slug)
	}
	return out, nil
}

// DeleteVariable deletes a repository pipeline variable by UUID.
func (c *Client) DeleteVariable(ctx context.Context, slug, variableID string) error {
	_, err := c.do(ctx, http.MethodDelete, c.repoPath(slug, "pipelines_config", "variables", EnsureBraces(variableID)), nil, nil)
	return err
}
