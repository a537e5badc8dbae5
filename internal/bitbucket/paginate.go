package bitbucket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// DefaultMaxPagelen is the upstream's usual per-page ceiling. Some
// endpoints cap lower and pass their own maximum.
const DefaultMaxPagelen = 100

// page is the upstream paginated envelope for any list endpoint.
type page[T any] struct {
	Values   []T    `json:"values"`
	Page     int    `json:"page,omitempty"`
	Pagelen  int    `json:"pagelen,omitempty"`
	Size     int    `json:"size,omitempty"`
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
}

// listOptions shapes a single-page list request. Empty param values
// are stripped before encoding.
type listOptions struct {
	limit   int
	maxPage int // 0 means DefaultMaxPagelen
	params  map[string]string
}

// listPage fetches exactly one page with pagelen = min(limit, max).
// It deliberately never follows the envelope's `next` link: callers
// want a bounded preview, and whatever the server returns on one page
// is the result. A 404 yields an empty slice.
func listPage[T any](ctx context.Context, c *Client, path string, opts listOptions) ([]T, error) {
	maxPage := opts.maxPage
	if maxPage <= 0 {
		maxPage = DefaultMaxPagelen
	}
	q := url.Values{}
	q.Set("pagelen", strconv.Itoa(ClampLimit(opts.limit, maxPage)))
	for k, v := range opts.params {
		if v != "" {
			q.Set(k, v)
		}
	}

	raw, err := c.do(ctx, http.MethodGet, path, nil, q)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return []T{}, nil
	}
	var env page[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode %s envelope: %w", path, err)
	}
	if env.Values == nil {
		return []T{}, nil
	}
	return env.Values, nil
}
