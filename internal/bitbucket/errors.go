package bitbucket

import "fmt"

// maxErrorBody bounds how much of an upstream error body is carried
// into an APIError message.
const maxErrorBody = 500

// APIError is returned for any non-2xx upstream response that is not
// a 404 (nil result) or a retryable 429. A 429 that survives the full
// retry budget surfaces as an APIError too.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bitbucket API error: %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// truncate caps s at n bytes, marking the cut.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
