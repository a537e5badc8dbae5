package bitbucket

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePipelineVariables(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		want    []PipelineVariable
		wantErr string
	}{
		{
			name:  "nil passes through",
			input: nil,
			want:  nil,
		},
		{
			name:  "map form sorted by key",
			input: map[string]interface{}{"B_VAR": "2", "A_VAR": "1"},
			want: []PipelineVariable{
				{Key: "A_VAR", Value: "1"},
				{Key: "B_VAR", Value: "2"},
			},
		},
		{
			name:  "map form stringifies non-strings",
			input: map[string]interface{}{"COUNT": float64(3)},
			want:  []PipelineVariable{{Key: "COUNT", Value: "3"}},
		},
		{
			name: "array form preserves secured",
			input: []interface{}{
				map[string]interface{}{"key": "TOKEN", "value": "s3cret", "secured": true},
				map[string]interface{}{"key": "ENV", "value": "prod"},
			},
			want: []PipelineVariable{
				{Key: "TOKEN", Value: "s3cret", Secured: true},
				{Key: "ENV", Value: "prod"},
			},
		},
		{
			name:    "array entry missing key",
			input:   []interface{}{map[string]interface{}{"value": "x"}},
			wantErr: "key is required",
		},
		{
			name:    "array entry wrong type",
			input:   []interface{}{"not-an-object"},
			wantErr: "expected an object",
		},
		{
			name:    "unsupported type",
			input:   42,
			wantErr: "must be an object or an array",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePipelineVariables(tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTriggerPipelineBranchTarget(t *testing.T) {
	var payload map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &payload))
		_, _ = w.Write([]byte(`{"uuid":"{p1}","build_number":7}`))
	})

	p, err := c.TriggerPipeline(context.Background(), "api", TriggerPipelineInput{
		Branch:         "main",
		CustomPipeline: "deploy",
		Variables:      []PipelineVariable{{Key: "ENV", Value: "prod"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, p.BuildNumber)

	target := payload["target"].(map[string]interface{})
	assert.Equal(t, "pipeline_ref_target", target["type"])
	assert.Equal(t, "branch", target["ref_type"])
	assert.Equal(t, "main", target["ref_name"])

	selector := target["selector"].(map[string]interface{})
	assert.Equal(t, "custom", selector["type"])
	assert.Equal(t, "deploy", selector["pattern"])

	vars := payload["variables"].([]interface{})
	require.Len(t, vars, 1)
}

func TestTriggerPipelineCommitTarget(t *testing.T) {
	var payload map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &payload))
		_, _ = w.Write([]byte(`{"uuid":"{p2}"}`))
	})

	_, err := c.TriggerPipeline(context.Background(), "api", TriggerPipelineInput{Commit: "abc1234"})
	require.NoError(t, err)

	target := payload["target"].(map[string]interface{})
	assert.Equal(t, "pipeline_commit_target", target["type"])
	commit := target["commit"].(map[string]interface{})
	assert.Equal(t, "abc1234", commit["hash"])
}

func TestGetPipelineBracesOptional(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"uuid":"{p1}"}`))
	})

	_, err := c.GetPipeline(context.Background(), "api", "p1")
	require.NoError(t, err)
	assert.Equal(t, "/repositories/acme/api/pipelines/{p1}", gotPath)

	_, err = c.GetPipeline(context.Background(), "api", "{p1}")
	require.NoError(t, err)
	assert.Equal(t, "/repositories/acme/api/pipelines/{p1}", gotPath)
}

func TestCreateVariableRequiresKey(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := c.CreateVariable(context.Background(), "api", PipelineVariable{Value: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key is required")
}
