package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amoura-app/amoura-console/internal/session"
)

// maxErrorBody caps how much of a failure response body is read when
// looking for a server-supplied message.
const maxErrorBody = 1 << 20

// CredentialSource is what the client needs from the session layer: a fresh
// snapshot before every send, and teardown plus broadcast when the backend
// rejects the credential.
type CredentialSource interface {
	Current(ctx context.Context) session.Session
	Clear(ctx context.Context) error
	NotifyExpired()
}

// Client issues JSON requests against the backend. It never retries:
// moderation actions are not idempotent, so retry policy belongs to the
// caller.
type Client struct {
	baseURL string
	httpc   *http.Client
	creds   CredentialSource
	logger  *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying transport, mainly for tests.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithTimeout sets the transport-level timeout applied to every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpc.Timeout = d }
}

// WithLogger attaches a logger for debug-level request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New constructs a Client against baseURL using creds for bearer tokens.
func New(baseURL string, creds CredentialSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
		creds:   creds,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do performs one request. body, when non-nil, is JSON-encoded; out, when
// non-nil, receives the decoded 2xx response body. A 2xx with no body
// leaves out untouched. Every failure is returned as *Error.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			// Unencodable bodies are programmer errors, not backend ones.
			panic(fmt.Sprintf("api: encode request body for %s %s: %v", method, path, err))
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		panic(fmt.Sprintf("api: build request %s %s: %v", method, path, err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	// Re-read the credential immediately before sending so a token rotated
	// by a concurrent refresh is picked up without restarting the caller.
	if tok := c.creds.Current(ctx).AccessToken; tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Debug("request transport failure",
			slog.String("method", method),
			slog.String("path", path),
			slog.Any("error", err))
		return NewError(KindNetwork, "Network connection failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return c.decodeSuccess(resp, out)
	}
	return c.classifyFailure(ctx, method, path, resp)
}

func (c *Client) decodeSuccess(resp *http.Response, out any) error {
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewError(KindNetwork, "Network connection failed")
	}
	if len(bytes.TrimSpace(b)) == 0 {
		// 2xx with no body: success with an absent value.
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return NewError(KindProtocol, "Invalid response from server.")
	}
	return nil
}

func (c *Client) classifyFailure(ctx context.Context, method, path string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := serverMessage(body)

	switch {
	case resp.StatusCode >= 500:
		return &Error{Kind: KindNetwork, Message: "Backend service unavailable", Status: resp.StatusCode}
	case resp.StatusCode == http.StatusUnauthorized:
		// Teardown happens whether or not the caller looks at the result,
		// so a stale credential can never keep presenting as valid.
		if err := c.creds.Clear(ctx); err != nil {
			c.logger.Warn("session teardown after 401 failed", slog.Any("error", err))
		}
		c.creds.NotifyExpired()
		return &Error{Kind: KindAuth, Message: defaultMessage(KindAuth), Status: resp.StatusCode}
	case resp.StatusCode == http.StatusForbidden:
		if msg == "" {
			msg = defaultMessage(KindPermission)
		}
		return &Error{Kind: KindPermission, Message: msg, Status: resp.StatusCode}
	case resp.StatusCode == http.StatusNotFound:
		if msg == "" {
			msg = defaultMessage(KindNotFound)
		}
		return &Error{Kind: KindNotFound, Message: msg, Status: resp.StatusCode}
	default:
		if msg == "" {
			msg = fmt.Sprintf("HTTP Error: %d", resp.StatusCode)
		}
		c.logger.Debug("request rejected",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode))
		return &Error{Kind: KindServer, Message: msg, Status: resp.StatusCode}
	}
}

// serverMessage digs a human-readable message out of a failure body, which
// the backend sends as either {"message": ...} or {"error": ...}.
func serverMessage(body []byte) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

// Get issues a GET with an optional flat query parameter map.
func (c *Client) Get(ctx context.Context, path string, query map[string]string, out any) error {
	if len(query) > 0 {
		vals := url.Values{}
		for k, v := range query {
			vals.Set(k, v)
		}
		path = path + "?" + vals.Encode()
	}
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT with an optional JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Patch issues a PATCH with an optional JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}
