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

func TestCreatePullRequestDefaults(t *testing.T) {
	var payload map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &payload))
		_, _ = w.Write([]byte(`{"id":12,"title":"Add feature","state":"OPEN"}`))
	})

	pr, err := c.CreatePullRequest(context.Background(), "api", CreatePullRequestInput{
		Title:        "Add feature",
		SourceBranch: "feature/x",
	})
	require.NoError(t, err)
	assert.Equal(t, 12, pr.ID)

	dest := payload["destination"].(map[string]interface{})["branch"].(map[string]interface{})
	assert.Equal(t, "main", dest["name"], "destination defaults to main")
	assert.Equal(t, true, payload["close_source_branch"], "close_source_branch defaults to true")
	assert.NotContains(t, payload, "reviewers")
}

func TestCreatePullRequestReviewerForms(t *testing.T) {
	var payload map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &payload))
		_, _ = w.Write([]byte(`{"id":13}`))
	})

	_, err := c.CreatePullRequest(context.Background(), "api", CreatePullRequestInput{
		Title:        "Add feature",
		SourceBranch: "feature/x",
		Reviewers:    []string{"{uuid-1}", "acct-123"},
	})
	require.NoError(t, err)

	reviewers := payload["reviewers"].([]interface{})
	require.Len(t, reviewers, 2)
	assert.Equal(t, map[string]interface{}{"uuid": "{uuid-1}"}, reviewers[0],
		"braced reviewers are addressed by UUID")
	assert.Equal(t, map[string]interface{}{"account_id": "acct-123"}, reviewers[1],
		"bare reviewers are addressed by account id")
}

func TestCreatePullRequestValidation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no request expected")
	})

	_, err := c.CreatePullRequest(context.Background(), "api", CreatePullRequestInput{SourceBranch: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title is required")

	_, err = c.CreatePullRequest(context.Background(), "api", CreatePullRequestInput{Title: "t"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source branch is required")
}

func TestUpdatePullRequestPartialPayload(t *testing.T) {
	var payload map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &payload))
		_, _ = w.Write([]byte(`{"id":12,"title":"New title"}`))
	})

	title := "New title"
	_, err := c.UpdatePullRequest(context.Background(), "api", 12, UpdatePullRequestInput{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, "New title", payload["title"])
	assert.NotContains(t, payload, "description", "unset fields are left untouched")
}

func TestAddPullRequestCommentInline(t *testing.T) {
	var payload map[string]interface{}
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &payload))
		_, _ = w.Write([]byte(`{"id":5,"content":{"raw":"nit"}}`))
	})

	comment, err := c.AddPullRequestComment(context.Background(), "api", 12, "nit", &InlineComment{
		Path: "main.go",
		Line: 42,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, comment.ID)
	assert.Equal(t, "/repositories/acme/api/pullrequests/12/comments", gotPath)

	content := payload["content"].(map[string]interface{})
	assert.Equal(t, "nit", content["raw"])
	inline := payload["inline"].(map[string]interface{})
	assert.Equal(t, "main.go", inline["path"])
	assert.Equal(t, float64(42), inline["to"])
}

func TestUnapproveToleratesNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	err := c.UnapprovePullRequest(context.Background(), "api", 12)
	assert.NoError(t, err, "removing an absent approval is a no-op")
}
