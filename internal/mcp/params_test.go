package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntArgJSONNumbers(t *testing.T) {
	params := map[string]interface{}{"limit": float64(25)}
	assert.Equal(t, 25, intArg(params, "limit", 10))
	assert.Equal(t, 10, intArg(params, "missing", 10))
	assert.Equal(t, 10, intArg(map[string]interface{}{"limit": "25"}, "limit", 10))
}

func TestRequiredStringArg(t *testing.T) {
	v, err := requiredStringArg(map[string]interface{}{"repo_slug": "api"}, "repo_slug")
	require.NoError(t, err)
	assert.Equal(t, "api", v)

	_, err = requiredStringArg(map[string]interface{}{}, "repo_slug")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repo_slug parameter is required")

	_, err = requiredStringArg(map[string]interface{}{"repo_slug": ""}, "repo_slug")
	require.Error(t, err)
}

func TestEnumArg(t *testing.T) {
	allowed := []string{"OPEN", "MERGED", "DECLINED"}

	assert.Equal(t, "MERGED", enumArg(map[string]interface{}{"state": "merged"}, "state", allowed, "OPEN"),
		"matching is case-insensitive and returns the canonical form")
	assert.Equal(t, "OPEN", enumArg(map[string]interface{}{"state": "bogus"}, "state", allowed, "OPEN"),
		"unknown values fall back to the default")
	assert.Equal(t, "OPEN", enumArg(map[string]interface{}{}, "state", allowed, "OPEN"))
}

func TestStringSliceArg(t *testing.T) {
	params := map[string]interface{}{
		"reviewers": []interface{}{"alice", "", "bob", 42},
	}
	assert.Equal(t, []string{"alice", "bob"}, stringSliceArg(params, "reviewers"),
		"empty and non-string entries are dropped")
	assert.Nil(t, stringSliceArg(map[string]interface{}{}, "reviewers"))
}

func TestNotFoundShape(t *testing.T) {
	out := notFound("Repository '%s' not found", "missing-repo")
	assert.Equal(t, map[string]interface{}{
		"error": "Repository 'missing-repo' not found",
		"found": false,
	}, out)
}

func TestShortHash(t *testing.T) {
	assert.Equal(t, "abc1234", shortHash("abc1234def5678"))
	assert.Equal(t, "abc", shortHash("abc"))
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "fix bug", firstLine("fix bug\n\nlong body"))
	assert.Equal(t, "single", firstLine("single"))
	assert.Equal(t, "trimmed", firstLine("trimmed  \nrest"))
}

func TestCapText(t *testing.T) {
	short, truncated := capText("hello")
	assert.Equal(t, "hello", short)
	assert.False(t, truncated)

	big := make([]byte, maxDiffBytes+1)
	capped, truncated := capText(string(big))
	assert.Len(t, capped, maxDiffBytes)
	assert.True(t, truncated)
}
