// Package knack provides the authenticated connection to the Knack REST API
// used by the Knack action services.
package knack

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

	"github.com/go-playground/validator/v10"
)

const DefaultBaseURL = "https://api.knack.com/v1"

// Connection is the transport capability the Knack actions consume.
type Connection interface {
	HTTPRequest(ctx context.Context, opts RequestOptions) (interface{}, error)
}

// RequestOptions describes a single call against the object-based API.
// Path, when set, replaces the path built from ObjectKey and RecordID.
type RequestOptions struct {
	Method    string
	ObjectKey string
	RecordID  string
	Path      string
	Data      interface{}
}

type Credentials struct {
	ApplicationID string `validate:"required"`
	APIKey        string `validate:"required"`
}

type Client struct {
	credentials Credentials
	baseURL     string
	httpClient  *http.Client
	logger      *slog.Logger
}

var _ Connection = (*Client)(nil)

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout sets the request timeout on a copy of the current HTTP client,
// leaving a client passed to WithHTTPClient untouched.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			copied := *c.httpClient
			copied.Timeout = timeout
			c.httpClient = &copied
		}
	}
}

// NewClient returns a Client for the given application. Both the application
// id and the REST API key are required.
func NewClient(credentials Credentials, logger *slog.Logger, opts ...Option) (*Client, error) {
	if err := validator.New().Struct(credentials); err != nil {
		return nil, fmt.Errorf("invalid knack credentials: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		credentials: credentials,
		baseURL:     DefaultBaseURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) HTTPRequest(ctx context.Context, opts RequestOptions) (interface{}, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	endpoint := c.baseURL + requestPath(opts)

	var body io.Reader
	if opts.Data != nil {
		payload, err := json.Marshal(opts.Data)
		if err != nil {
			return nil, fmt.Errorf("error marshaling request data: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("X-Knack-Application-Id", c.credentials.ApplicationID)
	req.Header.Set("X-Knack-REST-API-Key", c.credentials.APIKey)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("Sending Knack request",
		slog.String("method", method),
		slog.String("url", endpoint))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Knack request failed",
			slog.String("method", method),
			slog.String("url", endpoint),
			slog.Int("status", resp.StatusCode))
		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			Method:     method,
			URL:        endpoint,
			Body:       string(respBody),
		}
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil, nil
	}

	var result interface{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}
	return result, nil
}

// Object is a Knack object (table) of the application.
type Object struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// ListObjects returns the objects of the application, used to offer object
// keys to the user.
func (c *Client) ListObjects(ctx context.Context) ([]Object, error) {
	result, err := c.HTTPRequest(ctx, RequestOptions{
		Method: http.MethodGet,
		Path:   "/objects",
	})
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("error marshaling objects: %w", err)
	}
	var payload struct {
		Objects []Object `json:"objects"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("error decoding objects: %w", err)
	}
	return payload.Objects, nil
}

func requestPath(opts RequestOptions) string {
	if opts.Path != "" {
		return opts.Path
	}
	path := fmt.Sprintf("/objects/%s/records", url.PathEscape(opts.ObjectKey))
	if opts.RecordID != "" {
		path += "/" + url.PathEscape(opts.RecordID)
	}
	return path
}
