// Package hosting is a narrow client for the repository hosting API.
// The pipeline only needs two write operations from the hosting system:
// publishing a release for an existing tag and opening a pull request.
// Everything else about the hosting platform is out of scope.
package hosting

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
)

// defaultTimeout bounds individual hosting API calls.
const defaultTimeout = 30 * time.Second

// Client talks to the hosting API for a single repository.
type Client struct {
	baseURL    string
	repo       string
	token      string
	httpClient *http.Client
	logger     *slog.Logger

	// Services
	Releases     ReleasesService
	PullRequests PullRequestsService
}

// APIError represents an error response from the hosting API.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

// Error returns a string representation of the APIError.
func (e *APIError) Error() string {
	return fmt.Sprintf("hosting API error (%d): %s -- %s", e.StatusCode, e.Message, string(e.Body))
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the structured logger used for request metadata.
// Secret values are never logged.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a hosting API client for the given repository.
// repo is the hosting system's repository identifier (e.g. "org/service");
// token is the API credential, supplied by the caller, never derived here.
func NewClient(baseURL, repo, token string, opts ...Option) (*Client, error) {
	if repo == "" {
		return nil, fmt.Errorf("repository identifier must be set")
	}
	if token == "" {
		return nil, fmt.Errorf("hosting API token must be set")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid hosting base URL: %w", err)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		repo:    repo,
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	// Initialize services
	c.Releases = &releasesService{client: c}
	c.PullRequests = &pullRequestsService{client: c}

	return c, nil
}

// DoRequest sends an HTTP request to the hosting API and returns the
// response body. The path is relative to the repository root (e.g.
// "/releases").
func (c *Client) DoRequest(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBytes)
	}

	fullURL := fmt.Sprintf("%s/repos/%s%s", c.baseURL, c.repo, path)
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request [%s %s]: %w", method, fullURL, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("hosting API request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed [%s %s]: %w", method, fullURL, err)
	}
	defer resp.Body.Close()

	respData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       respData,
		}
	}

	return respData, nil
}
