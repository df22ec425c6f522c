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

import "time"

// PullRequest represents a GitHub pull request with essential metadata.
// The JSON tags mirror the REST API response shape, so the same struct is
// used both for decoding API pages and for persisting records in the cache.
// Records are never mutated after decoding.
type PullRequest struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	HTMLURL   string    `json:"html_url"`
	Author    Author    `json:"user"`
}

// Author represents the author of a pull request.
// Only the login name is retained; the REST API nests it under "user".
type Author struct {
	Login string `json:"login"`
}

// Pull request state filters accepted by the REST API.
const (
	StateOpen   = "open"
	StateClosed = "closed"
	StateAll    = "all"
)

// ValidState reports whether s is an accepted state filter.
func ValidState(s string) bool {
	switch s {
	case StateOpen, StateClosed, StateAll:
		return true
	}
	return false
}

// FetchOptions configures how pull requests are fetched.
type FetchOptions struct {
	// State filters pull requests by status: open, closed, or all.
	// Defaults to open if not specified.
	State string

	// PerPage controls how many PRs to request per page.
	// Defaults to 100, GitHub's maximum for this endpoint.
	PerPage int
}

// Default values for fetch operations
const (
	defaultPageSize = 100
)
