package bitbucket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnsureBraces(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare uuid", "abc-123", "{abc-123}"},
		{"already braced", "{abc-123}", "{abc-123}"},
		{"empty", "", "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnsureBraces(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, EnsureBraces(got), "EnsureBraces must be idempotent")
		})
	}
}

func TestRemoveBraces(t *testing.T) {
	assert.Equal(t, "abc", RemoveBraces("{abc}"))
	assert.Equal(t, "abc", RemoveBraces("abc"))
	assert.Equal(t, "{abc", RemoveBraces("{abc"))
	assert.Equal(t, "", RemoveBraces("{}"))
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		name string
		n    int
		max  int
		want int
	}{
		{"zero floors to one", 0, 100, 1},
		{"negative floors to one", -5, 100, 1},
		{"within range", 50, 100, 50},
		{"above max clamps", 1000, 100, 100},
		{"lower endpoint cap", 60, 50, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampLimit(tt.n, tt.max))
		})
	}
}

func TestSanitizeSearchTerm(t *testing.T) {
	assert.Equal(t, "abc", SanitizeSearchTerm(`a"b\c`))
	assert.Equal(t, "plain", SanitizeSearchTerm("plain"))
	assert.Equal(t, "", SanitizeSearchTerm(`"\`))
}

func TestBuildRepoQuery(t *testing.T) {
	tests := []struct {
		name       string
		projectKey string
		query      string
		want       string
	}{
		{"both", "DS", "is_private=false", `project.key="DS" AND is_private=false`},
		{"project only", "DS", "", `project.key="DS"`},
		{"query only", "", "is_private=false", "is_private=false"},
		{"neither", "", "", ""},
		{"project key sanitized", `D"S`, "", `project.key="DS"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildRepoQuery(tt.projectKey, tt.query))
		})
	}
}

func TestRepoPath(t *testing.T) {
	assert.Equal(t, "repositories/acme/api", RepoPath("acme", "api"))
	assert.Equal(t, "repositories/acme/api/refs/branches", RepoPath("acme", "api", "refs", "branches"))
}
