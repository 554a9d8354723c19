package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// RequestIDHeader carries a client-generated correlation ID on every call.
const RequestIDHeader = "X-Request-ID"

// Client issues single-shot JSON requests against the commerce REST API.
// It never retries; every Do call is exactly one HTTP attempt.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// ClientOptions configures SDK client construction.
type ClientOptions struct {
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// ClientOption mutates ClientOptions.
type ClientOption func(*ClientOptions)

// WithHTTPClient overrides the HTTP client used for API calls.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(opts *ClientOptions) {
		opts.HTTPClient = client
	}
}

// WithLogger attaches a structured logger for request tracing.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(opts *ClientOptions) {
		opts.Logger = &log
	}
}

// NewClient creates a client for the API rooted at baseURL
// (for example http://localhost:5000/api).
func NewClient(baseURL string, optFns ...ClientOption) *Client {
	opts := ClientOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: opts.HTTPClient,
		log:        log,
	}
}

// BaseURL returns the API root the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request describes one API call.
type Request struct {
	Method string
	// Path is relative to the base URL and must already be escaped.
	Path  string
	Query url.Values
	// Body is JSON-encoded when non-nil.
	Body any
	// Token is attached as a bearer credential when non-empty.
	Token string
}

// Response captures a completed exchange with a 2xx status.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
	RequestID  string
}

// Do performs req. Transport failures yield *TransportError and non-2xx
// responses yield *ServerError; both leave no state behind in the client.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.Must(uuid.NewV7()).String()
	httpReq.Header.Set(RequestIDHeader, requestID)

	c.log.Debug().
		Str("method", req.Method).
		Str("url", target).
		Str("request_id", requestID).
		Bool("authenticated", req.Token != "").
		Msg("sending request")

	resp, err := c.clientFor(req.Token).Do(httpReq)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: target, Err: fmt.Errorf("reading response body: %w", err)}
	}

	c.log.Debug().
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Int("bytes", len(data)).
		Msg("received response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newServerError(resp.StatusCode, resp.Status, data)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       data,
		RequestID:  requestID,
	}, nil
}

// clientFor wraps the configured transport with a static bearer token source.
func (c *Client) clientFor(token string) *http.Client {
	if token == "" {
		return c.httpClient
	}
	source := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	})
	return &http.Client{
		Transport:     &oauth2.Transport{Source: source, Base: c.httpClient.Transport},
		CheckRedirect: c.httpClient.CheckRedirect,
		Jar:           c.httpClient.Jar,
		Timeout:       c.httpClient.Timeout,
	}
}
