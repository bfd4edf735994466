package sheetdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"djp.chapter42.de/jobsproxy/internal/auth"
	"djp.chapter42.de/jobsproxy/internal/data"
	"djp.chapter42.de/jobsproxy/internal/logger"
	"go.uber.org/zap"
)

const DefaultUserAgent = "jobsproxy/1.0"

// ErrInvalidJSON is returned when a body that must be JSON is not.
var ErrInvalidJSON = errors.New("body is not valid JSON")

// StatusError reports a non-2xx response from SheetDB.
type StatusError struct {
	Op         string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("sheetdb %s: responded with %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("sheetdb %s: responded with %d: %s", e.Op, e.StatusCode, e.Body)
}

// Client talks to a SheetDB API endpoint. It holds no per-request state and
// is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	auth       auth.AuthProvider
	userAgent  string
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func WithAuthProvider(provider auth.AuthProvider) Option {
	return func(c *Client) {
		c.auth = provider
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

func NewClient(opts ...Option) *Client {
	client := &Client{
		httpClient: http.DefaultClient,
		userAgent:  DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// ListJobs fetches all rows from the sheet behind endpoint and returns the
// response body as-is.
func (c *Client) ListJobs(ctx context.Context, endpoint string) (json.RawMessage, error) {
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req, "list")
}

// CreateJobs wraps jobs in the {"data": ...} envelope and posts it to endpoint.
// jobs may be a single object or an array of objects.
func (c *Client) CreateJobs(ctx context.Context, endpoint string, jobs json.RawMessage) (json.RawMessage, error) {
	// An empty body is sent as {}, with no data key at all.
	if len(bytes.TrimSpace(jobs)) == 0 {
		jobs = nil
	} else if !json.Valid(jobs) {
		return nil, fmt.Errorf("sheetdb create: request %w", ErrInvalidJSON)
	}

	payload, err := json.Marshal(data.Envelope{Data: jobs})
	if err != nil {
		return nil, fmt.Errorf("sheetdb create: encoding envelope: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, "create")
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", method, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	if c.auth != nil {
		authHeader, err := c.auth.AuthHeader(ctx)
		if err != nil {
			return nil, fmt.Errorf("building auth header: %w", err)
		}
		req.Header.Set("Authorization", authHeader)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, op string) (json.RawMessage, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sheetdb %s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("sheetdb %s: reading body: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	if !json.Valid(body) {
		logger.Log.Debug("SheetDB returned a non-JSON body:", zap.String("op", op), zap.Int("bytes", len(body)))
		return nil, fmt.Errorf("sheetdb %s: response %w", op, ErrInvalidJSON)
	}
	return json.RawMessage(body), nil
}
