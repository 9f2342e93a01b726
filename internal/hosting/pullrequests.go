package hosting

import (
	"context"
	"encoding/json"
	"fmt"
)

// PullRequestsService defines the hosting pull request operations the
// pipeline uses.
type PullRequestsService interface {
	// Create opens a pull request from head into base.
	Create(ctx context.Context, payload PullRequestPayload) (PullRequest, error)
}

// PullRequestPayload is the request body for pull request creation.
type PullRequestPayload struct {
	Head  string `json:"head"`
	Base  string `json:"base"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// PullRequest is an opened pull request.
type PullRequest struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	URL    string `json:"html_url"`
}

// pullRequestsService is the concrete implementation of PullRequestsService.
type pullRequestsService struct {
	client *Client
}

// Create opens a pull request.
func (s *pullRequestsService) Create(ctx context.Context, payload PullRequestPayload) (PullRequest, error) {
	if payload.Head == "" || payload.Base == "" {
		return PullRequest{}, fmt.Errorf("pull request head and base branches must be set")
	}

	respData, err := s.client.DoRequest(ctx, "POST", "/pulls", payload)
	if err != nil {
		return PullRequest{}, fmt.Errorf("failed to open pull request %q -> %q: %w", payload.Head, payload.Base, err)
	}

	var pr PullRequest
	if err := json.Unmarshal(respData, &pr); err != nil {
		return PullRequest{}, fmt.Errorf("failed to parse pull request response: %w", err)
	}

	return pr, nil
}
