// Package bitbucket implements the Bitbucket Cloud API client: an
// authenticated HTTP dispatch core with rate-limit retry and
// single-page pagination, plus one thin method per REST endpoint.
package bitbucket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"bitbucket-mcp/internal/config"
	"bitbucket-mcp/internal/logging"
	"bitbucket-mcp/internal/retry"
)

// DefaultBaseURL is the fixed Bitbucket Cloud API origin.
const DefaultBaseURL = "https://api.bitbucket.org/2.0"

// Client talks to the Bitbucket Cloud REST API. It is safe for
// concurrent use; construct it once and share it.
type Client struct {
	httpClient *http.Client
	baseURL    string
	workspace  string
	email      string
	token      string
	policy     retry.Policy
	logger     logging.Logger
}

// Option customizes a Client. Options beyond the config exist for
// tests pointing the client at a fake upstream.
type Option func(*Client)

// WithBaseURL overrides the upstream origin.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l.WithComponent("bitbucket") }
}

// NewClient builds a client from validated configuration.
func NewClient(cfg *config.Config, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		baseURL:    DefaultBaseURL,
		workspace:  cfg.Workspace,
		email:      cfg.Email,
		token:      cfg.APIToken,
		policy:     retry.DefaultPolicy(cfg.MaxRetries),
		logger:     logging.NewNoop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Workspace returns the configured workspace slug.
func (c *Client) Workspace() string { return c.workspace }

// do dispatches one JSON request. A 404 yields (nil, nil): callers
// treat a nil payload as "not found", never as an error. A 429 is
// retried within the configured budget, honoring Retry-After over the
// computed backoff. Any other non-2xx becomes an *APIError.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, query url.Values) (json.RawMessage, error) {
	data, notFound, err := c.dispatch(ctx, method, path, body, query)
	if err != nil || notFound || len(data) == 0 {
		return nil, err
	}
	return json.RawMessage(data), nil
}

// doText is the raw-body variant of do for endpoints returning
// non-JSON payloads (diffs, file contents, step logs). A nil pointer
// means not found.
func (c *Client) doText(ctx context.Context, method, path string, query url.Values) (*string, error) {
	data, notFound, err := c.dispatch(ctx, method, path, nil, query)
	if err != nil || notFound {
		return nil, err
	}
	s := string(data)
	return &s, nil
}

// dispatch is the single request loop behind every operation. The
// bool return reports upstream 404.
func (c *Client) dispatch(ctx context.Context, method, path string, body interface{}, query url.Values) ([]byte, bool, error) {
	endpoint := c.baseURL + "/" + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, false, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
	}

	requestID := uuid.New().String()
	for attempt := 0; ; attempt++ {
		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
		if err != nil {
			return nil, false, fmt.Errorf("build %s %s: %w", method, path, err)
		}
		req.SetBasicAuth(c.email, c.token)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Timeouts and connection failures are not retried.
			return nil, false, fmt.Errorf("%s %s: %w", method, path, err)
		}
		data, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, true, nil

		case resp.StatusCode == http.StatusTooManyRequests:
			if attempt >= c.policy.MaxRetries {
				return nil, false, &APIError{
					StatusCode: http.StatusTooManyRequests,
					Method:     method,
					Path:       path,
					Message:    fmt.Sprintf("rate limited after %d retries", c.policy.MaxRetries),
				}
			}
			delay := c.policy.DelayWithHint(attempt, retryAfter(resp.Header))
			c.logger.Warn("rate limited, backing off",
				"request_id", requestID,
				"path", path,
				"retry", attempt+1,
				"delay_ms", delay.Milliseconds())
			if err := retry.Sleep(ctx, delay); err != nil {
				return nil, false, fmt.Errorf("%s %s: %w", method, path, err)
			}
			continue

		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			if readErr != nil {
				return nil, false, fmt.Errorf("read %s %s response: %w", method, path, readErr)
			}
			return data, false, nil

		default:
			msg := strings.TrimSpace(string(data))
			if msg == "" {
				msg = resp.Status
			}
			return nil, false, &APIError{
				StatusCode: resp.StatusCode,
				Method:     method,
				Path:       path,
				Message:    truncate(msg, maxErrorBody),
			}
		}
	}
}

// retryAfter parses the Retry-After header as whole seconds; zero
// means absent or unparseable.
func retryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// getJSON fetches one resource. Not found decodes to (nil, nil).
func getJSON[T any](ctx context.Context, c *Client, path string, query url.Values) (*T, error) {
	raw, err := c.do(ctx, http.MethodGet, path, nil, query)
	if err != nil || raw == nil {
		return nil, err
	}
	return decode[T](path, raw)
}

// mutateJSON issues a mutating request and decodes the returned
// resource; a nil result is passed through for the caller to judge.
func mutateJSON[T any](ctx context.Context, c *Client, method, path string, body interface{}) (*T, error) {
	raw, err := c.do(ctx, method, path, body, nil)
	if err != nil || raw == nil {
		return nil, err
	}
	return decode[T](path, raw)
}

func decode[T any](path string, raw json.RawMessage) (*T, error) {
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}
	return &out, nil
}
