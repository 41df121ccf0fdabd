// HTTP client for the ComicAI API
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/comix/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const defaultBaseURL string = "http://127.0.0.1:5000/api"

// APIError is returned for non-2xx responses. It wraps [shared.ErrAPIRequest].
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%v (status %d): %s", shared.ErrAPIRequest, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%v: status %d", shared.ErrAPIRequest, e.StatusCode)
}

func (e *APIError) Unwrap() error { return shared.ErrAPIRequest }

// ClientOpts configures a [Client].
type ClientOpts struct {
	BaseURL string
	Timeout time.Duration
	// RequestsPerSecond paces outgoing requests. Zero disables pacing.
	RequestsPerSecond float64
	// HTTPClient is the transport used for every request, defaulting to a client with Timeout.
	HTTPClient *http.Client
	Logger     *log.Logger
}

// Client sends JSON requests to the ComicAI API and attaches the session's bearer token.
type Client struct {
	baseURL string
	base    *http.Client
	limiter *rate.Limiter
	logger  *log.Logger

	mu         sync.RWMutex
	token      string
	httpClient *http.Client
}

// NewClient creates an unauthenticated client.
func NewClient(opts ClientOpts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	c := &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		base:       opts.HTTPClient,
		logger:     opts.Logger,
		httpClient: opts.HTTPClient,
	}
	if opts.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// SetToken sets the bearer token used on subsequent requests. An empty token removes it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = token
	if token == "" {
		c.httpClient = c.base
		return
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, c.base)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	client := oauth2.NewClient(ctx, src)
	client.Timeout = c.base.Timeout
	c.httpClient = client
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Authenticated reports whether a token is set.
func (c *Client) Authenticated() bool {
	return c.Token() != ""
}

func (c *Client) client() *http.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.httpClient
}

// doRequest sends body as JSON and decodes the response into result when it is not nil.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := shared.GenerateID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client().Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request", "method", method, "endpoint", endpoint, "status", resp.StatusCode,
		"request_id", requestID, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// errorMessage extracts the message from an error body such as {"error": "..."} or {"msg": "..."}.
func errorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 64<<10))
	if err != nil || len(data) == 0 {
		return ""
	}

	var errResp struct {
		Error   string `json:"error"`
		Msg     string `json:"msg"`
		Details string `json:"details"`
		Status  string `json:"status"`
	}
	if err := json.Unmarshal(data, &errResp); err != nil {
		return strings.TrimSpace(string(data))
	}

	switch {
	case errResp.Error != "" && errResp.Details != "":
		return errResp.Error + ": " + errResp.Details
	case errResp.Error != "":
		return errResp.Error
	case errResp.Msg != "":
		return errResp.Msg
	default:
		return errResp.Status
	}
}
