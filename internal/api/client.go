// Package api provides the typed REST client for the career-coach backend.
// Every request carries the opaque identity header; responses with structural
// significance are validated against JSON Schemas before decoding.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/jonathan/career-coach/schemas"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// IdentityHeader carries the opaque per-request user identity.
const IdentityHeader = "X-User-ID"

// Error represents a failed backend call.
type Error struct {
	Endpoint   string
	StatusCode int
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("api error for %s: %s: %v", e.Endpoint, e.Message, e.Cause)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("api error for %s: %s (HTTP %d)", e.Endpoint, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("api error for %s: %s", e.Endpoint, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Client is the backend API client. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger

	mu       sync.RWMutex
	identity string
	token    string
}

// NewClient creates a client for the backend at baseURL.
// A zero timeout falls back to DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// SetAuth binds the client to an identity and session token. Subsequent
// requests carry both until ClearAuth is called.
func (c *Client) SetAuth(identity, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.identity = identity
	c.token = token
}

// ClearAuth removes the bound identity and token.
func (c *Client) ClearAuth() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.identity = ""
	c.token = ""
}

// Identity returns the currently bound identity, or empty when logged out.
func (c *Client) Identity() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.identity
}

// do executes one JSON request. When schemaName is non-empty the raw response
// body is validated against the named schema before decoding into out.
func (c *Client) do(ctx context.Context, method, path string, body any, out any, schemaName string) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Endpoint: path, Message: "failed to encode request body", Cause: err}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &Error{Endpoint: path, Message: "failed to create request", Cause: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Endpoint: path, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Endpoint: path, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Endpoint:   path,
			StatusCode: resp.StatusCode,
			Message:    serverMessage(data),
		}
	}

	if out == nil {
		return nil
	}

	if schemaName != "" {
		if err := validatePayload(schemaName, data); err != nil {
			return &Error{Endpoint: path, Message: "response failed schema validation", Cause: err}
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Endpoint: path, Message: "failed to decode response", Cause: err}
	}
	return nil
}

func (c *Client) setAuthHeaders(req *http.Request) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.identity != "" {
		req.Header.Set(IdentityHeader, c.identity)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// serverMessage pulls a human-readable message out of an error body, falling
// back to a generic string when the body is not the expected JSON shape.
func serverMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return "server returned non-success status"
}

// validatePayload checks body against the named embedded schema.
func validatePayload(schemaName string, body []byte) error {
	schema, err := schemas.Read(schemaName)
	if err != nil {
		return err
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(body),
	)
	if err != nil {
		return fmt.Errorf("schema validation could not run: %w", err)
	}
	if result.Valid() {
		return nil
	}

	first := result.Errors()[0]
	field := first.Field()
	if field == "" {
		field = "(root)"
	}
	return fmt.Errorf("payload invalid at %s: %s (%d total violations)",
		field, first.Description(), len(result.Errors()))
}
