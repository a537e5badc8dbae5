package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fredcamaral/gomcp-sdk/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitbucket-mcp/internal/bitbucket"
	"bitbucket-mcp/internal/config"
	"bitbucket-mcp/internal/logging"
)

func testServer(t *testing.T, handler http.HandlerFunc) *Server {
	t.Helper()
	upstream := httptest.NewServer(handler)
	t.Cleanup(upstream.Close)

	cfg := &config.Config{
		Workspace:      "acme",
		Email:          "dev@acme.example",
		APIToken:       "token-123",
		TimeoutSeconds: 5,
		MaxRetries:     0,
		OutputFormat:   config.OutputFull,
	}
	client := bitbucket.NewClient(cfg, bitbucket.WithBaseURL(upstream.URL))

	srv, err := New(cfg, WithClient(client), WithLogger(logging.NewNoop()))
	require.NoError(t, err)
	return srv
}

// callTool drives a tool through the full JSON-RPC surface and decodes
// the JSON text content back into a map.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) (map[string]interface{}, *protocol.ToolCallResult) {
	t.Helper()
	resp := s.GetMCPServer().HandleRequest(context.Background(), &protocol.JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params: map[string]interface{}{
			"name":      name,
			"arguments": args,
		},
	})
	require.Nil(t, resp.Error)

	result, ok := resp.Result.(*protocol.ToolCallResult)
	require.True(t, ok, "expected a tool call result, got %T", resp.Result)
	require.NotEmpty(t, result.Content)

	if result.IsError {
		return nil, result
	}
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &decoded))
	return decoded, result
}

func TestGetRepositoryNotFoundResult(t *testing.T) {
	s := testServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	out, result := callTool(t, s, "get_repository", map[string]interface{}{"repo_slug": "missing-repo"})
	assert.False(t, result.IsError, "absence is a result, not a protocol error")
	assert.Equal(t, map[string]interface{}{
		"error": "Repository 'missing-repo' not found",
		"found": false,
	}, out)
}

func TestGetRepositoryResult(t *testing.T) {
	s := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repositories/acme/api", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"uuid": "{r1}",
			"slug": "api",
			"name": "API",
			"full_name": "acme/api",
			"is_private": true,
			"language": "go",
			"mainbranch": {"name": "main"},
			"project": {"key": "DS"}
		}`))
	})

	out, _ := callTool(t, s, "get_repository", map[string]interface{}{"repo_slug": "api"})
	assert.Equal(t, "api", out["slug"])
	assert.Equal(t, "acme/api", out["full_name"])
	assert.Equal(t, true, out["is_private"])
	assert.Equal(t, "main", out["main_branch"])
	assert.Equal(t, "DS", out["project_key"])
	assert.NotContains(t, out, "found")
}

func TestCompareCommitsReshape(t *testing.T) {
	s := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repositories/acme/api/diffstat/v1.0.0..main", r.URL.Path)
		_, _ = w.Write([]byte(`{"values":[
			{"status":"modified","lines_added":3,"lines_removed":1,"new":{"path":"main.go"},"old":{"path":"main.go"}},
			{"status":"added","lines_added":20,"lines_removed":0,"new":{"path":"util.go"}},
			{"status":"removed","lines_added":0,"lines_removed":5,"old":{"path":"legacy.go"}}
		]}`))
	})

	out, _ := callTool(t, s, "compare_commits", map[string]interface{}{
		"repo_slug": "api",
		"base":      "v1.0.0",
		"head":      "main",
	})

	assert.Equal(t, float64(3), out["file_count"])
	assert.Equal(t, float64(23), out["total_lines_added"])
	assert.Equal(t, float64(6), out["total_lines_removed"])

	files := out["files"].([]interface{})
	require.Len(t, files, 3)

	first := files[0].(map[string]interface{})
	assert.Equal(t, "main.go", first["path"])
	assert.Equal(t, "modified", first["status"])
	assert.Equal(t, float64(3), first["lines_added"])
	assert.Equal(t, float64(1), first["lines_removed"])

	last := files[2].(map[string]interface{})
	assert.Equal(t, "legacy.go", last["path"], "removed files report their old path")
}

func TestMissingRequiredParamIsToolError(t *testing.T) {
	s := testServer(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no upstream request expected")
	})

	_, result := callTool(t, s, "get_repository", map[string]interface{}{})
	require.True(t, result.IsError)
	assert.Contains(t, result.Content[0].Text, "repo_slug parameter is required")
}

func TestListPullRequestsStateFallback(t *testing.T) {
	var gotState string
	s := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotState = r.URL.Query().Get("state")
		_, _ = w.Write([]byte(`{"values":[]}`))
	})

	out, _ := callTool(t, s, "list_pull_requests", map[string]interface{}{
		"repo_slug": "api",
		"state":     "bogus",
	})
	assert.Equal(t, "OPEN", gotState, "unknown state falls back to OPEN")
	assert.Equal(t, "OPEN", out["state"])
	assert.Equal(t, float64(0), out["count"])
}

func TestListRepositoriesCompactOutput(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"values":[{
			"uuid": "{r1}",
			"slug": "api",
			"full_name": "acme/api",
			"description": "long description text",
			"created_on": "2024-01-01T00:00:00Z"
		}]}`))
	}))
	t.Cleanup(upstream.Close)

	cfg := &config.Config{
		Workspace:      "acme",
		Email:          "dev@acme.example",
		APIToken:       "token-123",
		TimeoutSeconds: 5,
		MaxRetries:     0,
		OutputFormat:   config.OutputCompact,
	}
	client := bitbucket.NewClient(cfg, bitbucket.WithBaseURL(upstream.URL))
	s, err := New(cfg, WithClient(client), WithLogger(logging.NewNoop()))
	require.NoError(t, err)

	out, _ := callTool(t, s, "list_repositories", map[string]interface{}{})
	repos := out["repositories"].([]interface{})
	require.Len(t, repos, 1)

	repo := repos[0].(map[string]interface{})
	assert.NotContains(t, repo, "description", "compact output drops descriptive fields")
	assert.NotContains(t, repo, "created_on")
	assert.Equal(t, "acme/api", repo["full_name"])
}

func TestGetPRDiffTruncation(t *testing.T) {
	big := make([]byte, maxDiffBytes+100)
	for i := range big {
		big[i] = 'a'
	}
	s := testServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(big)
	})

	out, _ := callTool(t, s, "get_pr_diff", map[string]interface{}{
		"repo_slug": "api",
		"pr_id":     7,
	})
	assert.Equal(t, true, out["truncated"])
	assert.Len(t, out["diff"].(string), maxDiffBytes)
}

func TestToolsListCoverage(t *testing.T) {
	s := testServer(t, func(w http.ResponseWriter, _ *http.Request) {})

	resp := s.GetMCPServer().HandleRequest(context.Background(), &protocol.JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/list",
	})
	require.Nil(t, resp.Error)

	result := resp.Result.(map[string]interface{})
	tools := result["tools"].([]protocol.Tool)

	names := make(map[string]bool, len(tools))
	for _, tool := range tools {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"list_projects", "list_repositories", "get_repository",
		"list_branches", "create_branch", "delete_branch",
		"list_pull_requests", "create_pull_request", "merge_pull_request",
		"approve_pull_request", "decline_pull_request", "get_pr_diff",
		"list_pipelines", "trigger_pipeline", "get_pipeline_step_log",
		"list_commits", "compare_commits", "list_tags", "create_tag",
		"list_webhooks", "create_webhook", "list_environments",
		"list_deployments", "list_branch_restrictions", "get_file_content",
		"list_directory", "list_repository_permissions",
	} {
		assert.True(t, names[want], "missing tool %s", want)
	}
	assert.GreaterOrEqual(t, len(tools), 45)
}

func TestResourceReadRepositories(t *testing.T) {
	s := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"values":[{"uuid":"{r1}","slug":"api","name":"API","full_name":"acme/api"}]}`))
	})

	contents, err := s.handleResourceRead(context.Background(), "bitbucket://repositories")
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text := contents[0].Text
	assert.Contains(t, text, "# Repositories in acme")
	assert.Contains(t, text, "| api | API |")
}

func TestResourceReadBranches(t *testing.T) {
	s := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repositories/acme/api/refs/branches", r.URL.Path)
		_, _ = w.Write([]byte(`{"values":[
			{"name":"main","target":{"hash":"abcdef1234567","date":"2025-06-01T00:00:00Z"}},
			{"name":"feature/login","target":{"hash":"1234567abcdef"}}
		]}`))
	})

	contents, err := s.handleResourceRead(context.Background(), "bitbucket://repositories/api/branches")
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text := contents[0].Text
	assert.Contains(t, text, "# Branches of api")
	assert.Contains(t, text, "| main | abcdef1 | 2025-06-01T00:00:00Z |")
	assert.Contains(t, text, "| feature/login | 1234567 |")
}

func TestResourceReadRepositoryNotFound(t *testing.T) {
	s := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	contents, err := s.handleResourceRead(context.Background(), "bitbucket://repositories/missing-repo")
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.Equal(t, "Repository 'missing-repo' not found.\n", contents[0].Text)
}

func TestResourceReadUnknownURI(t *testing.T) {
	s := testServer(t, func(w http.ResponseWriter, _ *http.Request) {})

	_, err := s.handleResourceRead(context.Background(), "bitbucket://nonsense/deep")
	require.Error(t, err)
}
