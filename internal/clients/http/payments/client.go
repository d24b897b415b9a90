package payments

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

	"github.com/oapi-codegen/runtime"
)

const (
	createSessionPath   = "/api/checkout_sessions"
	retrieveSessionPath = "/api/checkout_sessions/%s"
	maxBodyBytes        = 1 << 20
)

// Client talks to the payment collaborator's checkout session API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	apiKey     string
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithAPIKey sends the key as a bearer token on every request.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = strings.TrimSpace(key)
	}
}

// RequestOption configures a single call.
type RequestOption func(*requestOptions)

type requestOptions struct {
	idempotencyKey string
}

// WithIdempotencyKey sets the Idempotency-Key header for the request.
func WithIdempotencyKey(key string) RequestOption {
	return func(opts *requestOptions) {
		opts.idempotencyKey = strings.TrimSpace(key)
	}
}

// NewClient instantiates the payments client. A nil httpClient means
// http.DefaultClient's behavior with no request timeout.
func NewClient(baseURL string, httpClient *http.Client, opts ...ClientOption) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("payments base URL is required")
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse payments base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("payments base URL must be absolute: %q", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	c := &Client{baseURL: parsed, httpClient: httpClient}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// CreateCheckoutSession posts the cart items and returns the decoded session body.
// The body is returned even when it carries an embedded error indicator.
func (c *Client) CreateCheckoutSession(ctx context.Context, req CreateSessionRequest, optFns ...RequestOption) (*Session, error) {
	if c == nil || c.httpClient == nil {
		return nil, errors.New("payments client not configured")
	}
	if req.Items == nil {
		req.Items = []LineItem{}
	}
	var opts requestOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode checkout session request: %w", err)
	}
	httpReq, err := c.newRequest(ctx, http.MethodPost, createSessionPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if opts.idempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", opts.idempotencyKey)
	}
	return c.doSession(httpReq)
}

// RetrieveCheckoutSession loads a session, including its hosted page URL.
func (c *Client) RetrieveCheckoutSession(ctx context.Context, sessionID string) (*Session, error) {
	if c == nil || c.httpClient == nil {
		return nil, errors.New("payments client not configured")
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, errors.New("payment session id is required")
	}
	pathParam, err := runtime.StyleParamWithLocation("simple", false, "sessionId", runtime.ParamLocationPath, sessionID)
	if err != nil {
		return nil, fmt.Errorf("encode session id: %w", err)
	}
	httpReq, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf(retrieveSessionPath, pathParam), nil)
	if err != nil {
		return nil, err
	}
	return c.doSession(httpReq)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	target := c.baseURL.String() + path
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build payments request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return req, nil
}

func (c *Client) doSession(req *http.Request) (*Session, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call payments API: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read payments response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw, resp.Status)}
	}
	var session Session
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.New("payments API returned an empty response")
	}
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode payments response: %w", err)
	}
	return &session, nil
}

func errorMessage(raw []byte, fallback string) string {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return fallback
	}
	if msg := strings.TrimSpace(body.Message); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(body.Error); msg != "" {
		return msg
	}
	return fallback
}
