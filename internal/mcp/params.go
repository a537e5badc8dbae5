package mcp

import (
	"fmt"
	"strings"
)

// Tool parameters arrive as map[string]interface{} decoded from
// JSON-RPC, so numbers are float64 and everything needs a typed
// accessor.

func stringArg(params map[string]interface{}, key string) string {
	v, _ := params[key].(string)
	return v
}

func requiredStringArg(params map[string]interface{}, key string) (string, error) {
	v, ok := params[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("%s parameter is required and must be a non-empty string", key)
	}
	return v, nil
}

func intArg(params map[string]interface{}, key string, def int) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

func requiredIntArg(params map[string]interface{}, key string) (int, error) {
	switch v := params[key].(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, fmt.Errorf("%s parameter is required and must be a number", key)
	}
}

func boolArg(params map[string]interface{}, key string, def bool) bool {
	if v, ok := params[key].(bool); ok {
		return v
	}
	return def
}

func optionalBoolArg(params map[string]interface{}, key string) *bool {
	if v, ok := params[key].(bool); ok {
		return &v
	}
	return nil
}

func stringSliceArg(params map[string]interface{}, key string) []string {
	raw, ok := params[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// enumArg maps a string argument onto one of the allowed values,
// case-insensitively, falling back to def for anything unrecognized.
func enumArg(params map[string]interface{}, key string, allowed []string, def string) string {
	v, ok := params[key].(string)
	if !ok || v == "" {
		return def
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return a
		}
	}
	return def
}

// notFound is the uniform shape adapters return for an absent
// resource. Absence is a result, never a thrown error.
func notFound(format string, args ...interface{}) map[string]interface{} {
	return map[string]interface{}{
		"error": fmt.Sprintf(format, args...),
		"found": false,
	}
}

// shortHash truncates a commit hash for display.
func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

// firstLine returns the first line of a commit message.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}

// defaultListLimit is applied when a list tool gets no limit argument.
const defaultListLimit = 10

// maxDiffBytes caps diff and log text returned to the client.
const maxDiffBytes = 50000

// capText truncates long text payloads, reporting whether it cut.
func capText(s string) (string, bool) {
	if len(s) <= maxDiffBytes {
		return s, false
	}
	return s[:maxDiffBytes], true
}
