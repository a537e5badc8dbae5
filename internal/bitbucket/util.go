package bitbucket

import (
	"fmt"
	"strings"
)

// EnsureBraces wraps a UUID-style identifier in braces for use as a
// URL path segment. Idempotent: already-braced input passes through.
func EnsureBraces(id string) string {
	trimmed := RemoveBraces(id)
	return "{" + trimmed + "}"
}

// RemoveBraces strips a single layer of surrounding braces if present.
func RemoveBraces(id string) string {
	if strings.HasPrefix(id, "{") && strings.HasSuffix(id, "}") && len(id) >= 2 {
		return id[1 : len(id)-1]
	}
	return id
}

// ClampLimit clamps n into [1, maxLimit].
func ClampLimit(n, maxLimit int) int {
	if n < 1 {
		return 1
	}
	if n > maxLimit {
		return maxLimit
	}
	return n
}

// SanitizeSearchTerm strips quote and backslash characters from a
// caller-supplied search term so it cannot break out of the quoted
// clause it is interpolated into.
func SanitizeSearchTerm(s string) string {
	return strings.NewReplacer(`"`, "", `\`, "").Replace(s)
}

// buildRepoQuery composes the Bitbucket repository filter expression
// from an optional project key and an optional caller-supplied clause.
func buildRepoQuery(projectKey, query string) string {
	var clauses []string
	if projectKey != "" {
		clauses = append(clauses, fmt.Sprintf("project.key=%q", SanitizeSearchTerm(projectKey)))
	}
	if query != "" {
		clauses = append(clauses, query)
	}
	return strings.Join(clauses, " AND ")
}

// RepoPath joins path segments under repositories/{workspace}/{slug}.
func RepoPath(workspace, slug string, segments ...string) string {
	parts := append([]string{"repositories", workspace, slug}, segments...)
	return strings.Join(parts, "/")
}

func (c *Client) repoPath(slug string, segments ...string) string {
	return RepoPath(c.workspace, slug, segments...)
}
