// Package remote implements ports.HostelStore against the HTTP API of another
// hostel-service instance. Calls carry the caller's bearer token, use a short
// per-call timeout and are never retried.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/hostel-management/hostel-service/internal/core/domain"
	"github.com/hostel-management/hostel-service/internal/core/ports"
)

// DefaultTimeout bounds each remote call.
const DefaultTimeout = time.Second

var _ ports.HostelStore = (*Client)(nil)

type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	cb         *gobreaker.CircuitBreaker
	observe    func(operation string, err error)
	logger     *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithBreaker routes every call through cb. Only transport failures and 5xx
// responses count against it.
func WithBreaker(cb *gobreaker.CircuitBreaker) Option {
	return func(c *Client) { c.cb = cb }
}

// WithObserver is told the outcome of every call.
func WithObserver(fn func(operation string, err error)) Option {
	return func(c *Client) { c.observe = fn }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Backend() string { return "remote" }

// Ping checks the liveness endpoint of the remote instance.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, "ping", http.MethodGet, "/health", nil, nil, nil)
}

// StatusError is a 4xx answer from the remote instance. It unwraps to the
// matching domain error.
type StatusError struct {
	StatusCode int
	Message    string
	kind       error
}

func (e *StatusError) Error() string { return e.Message }

func (e *StatusError) Unwrap() error { return e.kind }

func statusError(code int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)
	if payload.Message == "" {
		payload.Message = http.StatusText(code)
	}

	var kind error
	switch code {
	case http.StatusUnauthorized:
		kind = domain.ErrAuth
	case http.StatusForbidden:
		kind = domain.ErrForbidden
	case http.StatusNotFound:
		kind = domain.ErrNotFound
	case http.StatusConflict:
		kind = domain.ErrConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusRequestEntityTooLarge:
		kind = domain.ErrValidation
	}
	return &StatusError{StatusCode: code, Message: payload.Message, kind: kind}
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) (err error) {
	defer func() {
		if c.observe != nil {
			c.observe(op, err)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if p, ok := domain.PrincipalFrom(ctx); ok && p.Token != "" {
		req.Header.Set("Authorization", "Bearer "+p.Token)
	}

	resp, err := c.roundTrip(req)
	if err != nil {
		c.logger.Warn("remote store call failed",
			zap.String("operation", op),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return statusError(resp.StatusCode, data)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

// roundTrip sends req through the breaker. A 5xx answer is a failure for the
// breaker; anything below is handed back to the caller.
func (c *Client) roundTrip(req *http.Request) (*http.Response, error) {
	send := func() (interface{}, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("remote %s %s: %s", req.Method, req.URL.Path, resp.Status)
		}
		return resp, nil
	}

	if c.cb == nil {
		res, err := send()
		if err != nil {
			return nil, err
		}
		return res.(*http.Response), nil
	}
	res, err := c.cb.Execute(send)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("remote store unavailable: %w", err)
		}
		return nil, err
	}
	return res.(*http.Response), nil
}

func studentQuery(studentID string) url.Values {
	if studentID == "" {
		return nil
	}
	return url.Values{"userId": {studentID}}
}

func pathID(prefix, id, suffix string) string {
	return prefix + url.PathEscape(id) + suffix
}
