package bitbucket

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitbucket-mcp/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Workspace:      "acme",
		Email:          "dev@acme.example",
		APIToken:       "token-123",
		TimeoutSeconds: 5,
		MaxRetries:     2,
		OutputFormat:   config.OutputFull,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(testConfig(), WithBaseURL(srv.URL))
}

func TestRequestCarriesBasicAuth(t *testing.T) {
	var gotAuth, gotAccept string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(`{"slug":"api","uuid":"{r1}"}`))
	})

	_, err := c.GetRepository(context.Background(), "api")
	require.NoError(t, err)

	expected := "Basic " + base64.StdEncoding.EncodeToString([]byte("dev@acme.example:token-123"))
	assert.Equal(t, expected, gotAuth)
	assert.Equal(t, "application/json", gotAccept)
}

func TestGetRepositoryNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	repo, err := c.GetRepository(context.Background(), "missing-repo")
	require.NoError(t, err, "a 404 is a result, not an error")
	assert.Nil(t, repo)
}

func TestListPageNotFoundYieldsEmptySlice(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	branches, err := c.ListBranches(context.Background(), "missing-repo", "", 10)
	require.NoError(t, err)
	assert.NotNil(t, branches)
	assert.Empty(t, branches)
}

func TestRateLimitRetriesWithRetryAfter(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"slug":"api","uuid":"{r1}"}`))
	})

	start := time.Now()
	repo, err := c.GetRepository(context.Background(), "api")
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.NotNil(t, repo)
	assert.Equal(t, "api", repo.Slug)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
	assert.GreaterOrEqual(t, elapsed, time.Second, "Retry-After must be honored before the retry")
}

func TestRateLimitExhaustsBudget(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Retry-After", "1")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.GetRepository(context.Background(), "api")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "rate limited after 2 retries")
	// Initial attempt plus MaxRetries retries.
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestRateLimitSleepRespectsContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.GetRepository(ctx, "api")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestServerErrorBecomesAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "boom"}}`))
	})

	_, err := c.GetRepository(context.Background(), "api")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, http.MethodGet, apiErr.Method)
	assert.Contains(t, apiErr.Message, "boom")
	assert.Contains(t, apiErr.Error(), "returned 500")
}

func TestErrorBodyTruncated(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(strings.Repeat("x", 2000)))
	})

	_, err := c.GetRepository(context.Background(), "api")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Len(t, apiErr.Message, maxErrorBody+len("..."))
	assert.True(t, strings.HasSuffix(apiErr.Message, "..."))
}

func TestListRepositoriesQueryComposition(t *testing.T) {
	var gotQuery, gotPagelen, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		gotPagelen = r.URL.Query().Get("pagelen")
		_, _ = w.Write([]byte(`{"values":[],"pagelen":10}`))
	})

	_, err := c.ListRepositories(context.Background(), ListRepositoriesOptions{
		Limit:      1000,
		ProjectKey: "DS",
		Query:      "is_private=false",
	})
	require.NoError(t, err)

	assert.Equal(t, "/repositories/acme", gotPath)
	assert.Equal(t, `project.key="DS" AND is_private=false`, gotQuery)
	assert.Equal(t, "100", gotPagelen, "limit above the page ceiling clamps to 100")
}

func TestListPullRequestsPagelenCap(t *testing.T) {
	var gotPagelen, gotState string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPagelen = r.URL.Query().Get("pagelen")
		gotState = r.URL.Query().Get("state")
		_, _ = w.Write([]byte(`{"values":[]}`))
	})

	_, err := c.ListPullRequests(context.Background(), "api", "open", 80)
	require.NoError(t, err)

	assert.Equal(t, "50", gotPagelen, "pull request listing caps at 50 per page")
	assert.Equal(t, "OPEN", gotState, "state filter is upper-cased")
}

func TestListPageNeverFollowsNext(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"values":[{"name":"main"}],"next":"https://example.invalid/page2"}`))
	})

	branches, err := c.ListBranches(context.Background(), "api", "", 10)
	require.NoError(t, err)
	assert.Len(t, branches, 1)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "single-page contract: the next link is ignored")
}

func TestCompareCommitsNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	stats, err := c.CompareCommits(context.Background(), "api", "v1.0.0", "main", 10)
	require.NoError(t, err)
	assert.Nil(t, stats, "an unknown spec yields a nil slice, distinct from an empty diff")
}

func TestCompareCommitsDecodesDiffStats(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"values":[
			{"status":"modified","lines_added":3,"lines_removed":1,"new":{"path":"main.go"},"old":{"path":"main.go"}},
			{"status":"added","lines_added":10,"lines_removed":0,"new":{"path":"util.go"}}
		]}`))
	})

	stats, err := c.CompareCommits(context.Background(), "api", "v1.0.0", "main", 10)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "/repositories/acme/api/diffstat/v1.0.0..main", gotPath)
	assert.Equal(t, "main.go", stats[0].Path())
	assert.Equal(t, "modified", stats[0].Status)
	assert.Equal(t, "util.go", stats[1].Path())
	assert.Equal(t, 10, stats[1].LinesAdded)
}

func TestGetFileContentReturnsRawText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repositories/acme/api/src/main/README.md", r.URL.Path)
		_, _ = w.Write([]byte("# Hello\n"))
	})

	content, err := c.GetFileContent(context.Background(), "api", "README.md", "")
	require.NoError(t, err)
	require.NotNil(t, content)
	assert.Equal(t, "# Hello\n", *content)
}

func TestTriggerPipelineValidation(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{"uuid":"{p1}"}`))
	})

	tests := []struct {
		name    string
		input   TriggerPipelineInput
		wantErr string
	}{
		{"neither", TriggerPipelineInput{}, "requires a branch or a commit"},
		{"both", TriggerPipelineInput{Branch: "main", Commit: "abc"}, "mutually exclusive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.TriggerPipeline(context.Background(), "api", tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
	assert.Zero(t, atomic.LoadInt32(&calls), "validation failures must not reach the network")
}
