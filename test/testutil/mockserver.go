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

// Package testutil provides common test helpers for sirseer-pulls
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"
)

// PR is the wire shape served by the mock pulls endpoint.
type PR struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	HTMLURL   string    `json:"html_url"`
	User      struct {
		Login string `json:"login"`
	} `json:"user"`
}

// GeneratePRs builds count pull requests in most-recent-first order,
// alternating open and closed states when state is "all".
func GeneratePRs(count int, state string) []PR {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	prs := make([]PR, 0, count)
	for i := 0; i < count; i++ {
		pr := PR{
			Number:    count - i,
			Title:     fmt.Sprintf("Change %d", count-i),
			State:     state,
			CreatedAt: base.Add(-time.Duration(i) * 24 * time.Hour),
			UpdatedAt: base,
			HTMLURL:   fmt.Sprintf("https://github.com/octocat/hello-world/pull/%d", count-i),
		}
		if state == "all" {
			if i%2 == 0 {
				pr.State = "open"
			} else {
				pr.State = "closed"
			}
		}
		pr.User.Login = "octocat"
		prs = append(prs, pr)
	}
	return prs
}

// MockServer serves the repository pulls endpoint for tests and counts
// the requests it receives.
type MockServer struct {
	*httptest.Server
	requestCount int32
}

// RequestCount returns the number of requests served so far.
func (s *MockServer) RequestCount() int {
	return int(atomic.LoadInt32(&s.requestCount))
}

// NewPullsServer creates a mock server that serves prs from
// /repos/{owner}/{repo}/pulls, honoring the state, per_page, and page
// query parameters the way the real endpoint does.
func NewPullsServer(t *testing.T, prs []PR) *MockServer {
	t.Helper()

	mock := &MockServer{}
	mock.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&mock.requestCount, 1)

		state := r.URL.Query().Get("state")
		if state == "" {
			state = "open"
		}
		perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
		if perPage <= 0 {
			perPage = 100
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page <= 0 {
			page = 1
		}

		matching := make([]PR, 0, len(prs))
		for _, pr := range prs {
			if state == "all" || pr.State == state {
				matching = append(matching, pr)
			}
		}

		start := (page - 1) * perPage
		if start > len(matching) {
			start = len(matching)
		}
		end := start + perPage
		if end > len(matching) {
			end = len(matching)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(matching[start:end])
	}))

	t.Cleanup(mock.Server.Close)
	return mock
}

// NewErrorServer creates a mock server that always returns the specified error
func NewErrorServer(t *testing.T, statusCode int) *MockServer {
	t.Helper()

	mock := &MockServer{}
	mock.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&mock.requestCount, 1)
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(http.StatusText(statusCode)))
	}))

	t.Cleanup(mock.Server.Close)
	return mock
}

// NewRateLimitServer creates a mock server that reports an exhausted quota
// resetting at the given time.
func NewRateLimitServer(t *testing.T, reset time.Time) *MockServer {
	t.Helper()

	mock := &MockServer{}
	mock.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&mock.requestCount, 1)
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message": "API rate limit exceeded"}`))
	}))

	t.Cleanup(mock.Server.Close)
	return mock
}
