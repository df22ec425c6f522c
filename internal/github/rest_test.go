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
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	pullserrors "github.com/sirseerhq/sirseer-pulls/internal/errors"
)

func testPR(number int, state string) map[string]interface{} {
	return map[string]interface{}{
		"number":     number,
		"title":      fmt.Sprintf("PR %d", number),
		"state":      state,
		"created_at": "2024-01-15T10:30:00Z",
		"updated_at": "2024-01-16T08:00:00Z",
		"html_url":   fmt.Sprintf("https://github.com/octocat/hello-world/pull/%d", number),
		"user":       map[string]interface{}{"login": "octocat"},
	}
}

func TestListPullRequestsSuccess(t *testing.T) {
	var gotReq *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]interface{}{
			testPR(42, "open"),
			testPR(41, "open"),
		})
	}))
	defer server.Close()

	client := NewRESTClient("test-token", server.URL)
	prs, err := client.ListPullRequests(context.Background(), "octocat", "hello-world", FetchOptions{State: StateOpen})
	if err != nil {
		t.Fatalf("ListPullRequests() error = %v", err)
	}

	if len(prs) != 2 {
		t.Fatalf("got %d pull requests, want 2", len(prs))
	}
	if prs[0].Number != 42 || prs[0].Title != "PR 42" || prs[0].Author.Login != "octocat" {
		t.Errorf("unexpected first record: %+v", prs[0])
	}
	if prs[0].State != StateOpen {
		t.Errorf("State = %q, want %q", prs[0].State, StateOpen)
	}
	wantCreated := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	if !prs[0].CreatedAt.Equal(wantCreated) {
		t.Errorf("CreatedAt = %v, want %v", prs[0].CreatedAt, wantCreated)
	}

	// Request shape: path, query, and auth headers
	if gotReq.URL.Path != "/repos/octocat/hello-world/pulls" {
		t.Errorf("path = %q", gotReq.URL.Path)
	}
	q := gotReq.URL.Query()
	if q.Get("state") != "open" || q.Get("per_page") != "100" || q.Get("page") != "1" {
		t.Errorf("query = %q", gotReq.URL.RawQuery)
	}
	if got := gotReq.Header.Get("Authorization"); got != "Bearer test-token" {
		t.Errorf("Authorization = %q", got)
	}
	if got := gotReq.Header.Get("Accept"); got != "application/vnd.github.v3+json" {
		t.Errorf("Accept = %q", got)
	}
	if got := gotReq.Header.Get("User-Agent"); !strings.HasPrefix(got, "sirseer-pulls/") {
		t.Errorf("User-Agent = %q", got)
	}
}

func TestListPullRequestsPagination(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))

		var batch []interface{}
		switch page {
		case 1:
			for i := 0; i < 100; i++ {
				batch = append(batch, testPR(200-i, "open"))
			}
		case 2:
			for i := 0; i < 5; i++ {
				batch = append(batch, testPR(100-i, "open"))
			}
		default:
			t.Errorf("unexpected page %d requested", page)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(batch)
	}))
	defer server.Close()

	client := NewRESTClient("test-token", server.URL)
	prs, err := client.ListPullRequests(context.Background(), "octocat", "hello-world", FetchOptions{State: StateOpen})
	if err != nil {
		t.Fatalf("ListPullRequests() error = %v", err)
	}

	if len(prs) != 105 {
		t.Errorf("got %d pull requests, want 105", len(prs))
	}
	if requests != 2 {
		t.Errorf("made %d requests, want 2", requests)
	}
	// Returned order is API order: page 1 records precede page 2 records
	if prs[0].Number != 200 || prs[104].Number != 96 {
		t.Errorf("unexpected ordering: first=%d last=%d", prs[0].Number, prs[104].Number)
	}
}

func TestListPullRequestsErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		headers    map[string]string
		sentinel   error
	}{
		{
			name:       "unauthorized",
			statusCode: http.StatusUnauthorized,
			sentinel:   pullserrors.ErrInvalidToken,
		},
		{
			name:       "forbidden without rate limit headers",
			statusCode: http.StatusForbidden,
			sentinel:   pullserrors.ErrInvalidToken,
		},
		{
			name:       "forbidden with exhausted quota",
			statusCode: http.StatusForbidden,
			headers: map[string]string{
				"X-RateLimit-Remaining": "0",
				"X-RateLimit-Reset":     "1735732800",
			},
			sentinel: pullserrors.ErrRateLimit,
		},
		{
			name:       "too many requests",
			statusCode: http.StatusTooManyRequests,
			sentinel:   pullserrors.ErrRateLimit,
		},
		{
			name:       "not found",
			statusCode: http.StatusNotFound,
			sentinel:   pullserrors.ErrRepoNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.headers {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(`{"message": "error"}`))
			}))
			defer server.Close()

			client := NewRESTClient("test-token", server.URL)
			_, err := client.ListPullRequests(context.Background(), "octocat", "hello-world", FetchOptions{})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("error %v does not match sentinel %v", err, tt.sentinel)
			}
		})
	}
}

func TestListPullRequestsRateLimitReset(t *testing.T) {
	reset := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message": "API rate limit exceeded"}`))
	}))
	defer server.Close()

	client := NewRESTClient("test-token", server.URL)
	_, err := client.ListPullRequests(context.Background(), "octocat", "hello-world", FetchOptions{})

	var rlErr *pullserrors.RateLimitError
	if !errors.As(err, &rlErr) {
		t.Fatalf("error %v is not a *RateLimitError", err)
	}
	if !rlErr.ResetAt.Equal(reset) {
		t.Errorf("ResetAt = %v, want %v", rlErr.ResetAt, reset)
	}
}

func TestListPullRequestsMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"this is": "not an array"`))
	}))
	defer server.Close()

	client := NewRESTClient("test-token", server.URL)
	_, err := client.ListPullRequests(context.Background(), "octocat", "hello-world", FetchOptions{})
	if !errors.Is(err, pullserrors.ErrMalformedResponse) {
		t.Errorf("error %v does not match ErrMalformedResponse", err)
	}
}

func TestListPullRequestsNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Connection refused from here on

	client := NewRESTClient("test-token", server.URL)
	_, err := client.ListPullRequests(context.Background(), "octocat", "hello-world", FetchOptions{})
	if !errors.Is(err, pullserrors.ErrNetworkFailure) {
		t.Errorf("error %v does not match ErrNetworkFailure", err)
	}
}

func TestListPullRequestsContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewRESTClient("test-token", server.URL)
	_, err := client.ListPullRequests(ctx, "octocat", "hello-world", FetchOptions{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error %v does not match context.DeadlineExceeded", err)
	}
}

func TestValidState(t *testing.T) {
	tests := []struct {
		state string
		want  bool
	}{
		{"open", true},
		{"closed", true},
		{"all", true},
		{"", false},
		{"merged", false},
		{"OPEN", false},
	}

	for _, tt := range tests {
		if got := ValidState(tt.state); got != tt.want {
			t.Errorf("ValidState(%q) = %v, want %v", tt.state, got, tt.want)
		}
	}
}
