package hosting

import (
	"context"
	"encoding/json"
	"fmt"
)

// ReleasesService defines the hosting release operations the pipeline uses.
type ReleasesService interface {
	// Create publishes a release referencing an existing tag.
	Create(ctx context.Context, payload ReleasePayload) (Release, error)
}

// ReleasePayload is the request body for release creation.
type ReleasePayload struct {
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
	Notes   string `json:"body"`
}

// Release is a published release record, one-to-one with its tag.
type Release struct {
	ID      int64  `json:"id"`
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
	Notes   string `json:"body"`
	URL     string `json:"html_url"`
}

// releasesService is the concrete implementation of ReleasesService.
type releasesService struct {
	client *Client
}

// Create publishes a release for an existing tag.
func (s *releasesService) Create(ctx context.Context, payload ReleasePayload) (Release, error) {
	if payload.TagName == "" {
		return Release{}, fmt.Errorf("release tag name must be set")
	}

	respData, err := s.client.DoRequest(ctx, "POST", "/releases", payload)
	if err != nil {
		return Release{}, fmt.Errorf("failed to create release %q: %w", payload.TagName, err)
	}

	var release Release
	if err := json.Unmarshal(respData, &release); err != nil {
		return Release{}, fmt.Errorf("failed to parse release response: %w", err)
	}

	return release, nil
}
