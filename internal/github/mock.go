// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package github

import (
	"context"
	"fmt"
	"time"

	pullserrors "github.com/sirseerhq/sirseer-pulls/internal/errors"
)

// MockClient is a mock implementation of the GitHub Client interface for testing.
type MockClient struct {
	// PullRequests to return
	PullRequests []PullRequest

	// Error to return
	Error error

	// Behavior flags
	ShouldFailAuth     bool
	ShouldFailNetwork  bool
	ShouldFailNotFound bool

	// Track calls for verification
	CallCount int
	LastOwner string
	LastRepo  string
	LastOpts  FetchOptions
}

// NewMockClient creates a new mock client with default test data
func NewMockClient() *MockClient {
	return &MockClient{
		PullRequests: generateTestPRs(),
	}
}

// ListPullRequests implements the Client interface
func (m *MockClient) ListPullRequests(ctx context.Context, owner, repo string, opts FetchOptions) ([]PullRequest, error) {
	// Track the call
	m.CallCount++
	m.LastOwner = owner
	m.LastRepo = repo
	m.LastOpts = opts

	// Check for context cancellation
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	// Simulate various error conditions
	if m.ShouldFailAuth {
		return nil, fmt.Errorf("authentication failed: %w", pullserrors.ErrInvalidToken)
	}

	if m.ShouldFailNetwork {
		return nil, fmt.Errorf("network timeout: %w", pullserrors.ErrNetworkFailure)
	}

	if m.ShouldFailNotFound || (owner == "nonexistent" && repo == "repo") {
		return nil, fmt.Errorf("repository not found: %w", pullserrors.ErrRepoNotFound)
	}

	// Return configured error if set
	if m.Error != nil {
		return nil, m.Error
	}

	// Apply the state filter the way the real endpoint would
	state := opts.State
	if state == "" {
		state = StateOpen
	}
	if state == StateAll {
		return m.PullRequests, nil
	}

	filtered := make([]PullRequest, 0, len(m.PullRequests))
	for _, pr := range m.PullRequests {
		if pr.State == state {
			filtered = append(filtered, pr)
		}
	}
	return filtered, nil
}

// generateTestPRs creates sample pull request data for testing
func generateTestPRs() []PullRequest {
	now := time.Now().UTC()
	yesterday := now.Add(-24 * time.Hour)
	lastWeek := now.Add(-7 * 24 * time.Hour)

	return []PullRequest{
		{
			Number:    1234,
			Title:     "Add new feature for data processing",
			State:     StateOpen,
			CreatedAt: yesterday,
			UpdatedAt: now,
			HTMLURL:   "https://github.com/octocat/hello-world/pull/1234",
			Author:    Author{Login: "alice"},
		},
		{
			Number:    1233,
			Title:     "Fix memory leak in parser",
			State:     StateClosed,
			CreatedAt: lastWeek,
			UpdatedAt: yesterday,
			HTMLURL:   "https://github.com/octocat/hello-world/pull/1233",
			Author:    Author{Login: "bob"},
		},
		{
			Number:    1232,
			Title:     "Update documentation for v2 API",
			State:     StateOpen,
			CreatedAt: lastWeek,
			UpdatedAt: lastWeek,
			HTMLURL:   "https://github.com/octocat/hello-world/pull/1232",
			Author:    Author{Login: "carol"},
		},
	}
}
