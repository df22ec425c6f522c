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

package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		want     bool
	}{
		{
			name:     "direct invalid token error",
			err:      ErrInvalidToken,
			sentinel: ErrInvalidToken,
			want:     true,
		},
		{
			name:     "wrapped invalid token error",
			err:      fmt.Errorf("failed to authenticate: %w", ErrInvalidToken),
			sentinel: ErrInvalidToken,
			want:     true,
		},
		{
			name:     "different error type",
			err:      ErrRepoNotFound,
			sentinel: ErrInvalidToken,
			want:     false,
		},
		{
			name:     "wrapped network error",
			err:      fmt.Errorf("connection failed: %w", ErrNetworkFailure),
			sentinel: ErrNetworkFailure,
			want:     true,
		},
		{
			name:     "wrapped malformed response error",
			err:      fmt.Errorf("decoding page 3: %w", ErrMalformedResponse),
			sentinel: ErrMalformedResponse,
			want:     true,
		},
		{
			name:     "nil error",
			err:      nil,
			sentinel: ErrInvalidToken,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.sentinel)
			if got != tt.want {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.sentinel, got, tt.want)
			}
		})
	}
}

func TestRateLimitError(t *testing.T) {
	reset := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	var err error = &RateLimitError{ResetAt: reset}

	if !errors.Is(err, ErrRateLimit) {
		t.Error("RateLimitError should unwrap to ErrRateLimit")
	}

	if !strings.Contains(err.Error(), "2025-06-01T12:30:00Z") {
		t.Errorf("Error() = %q, want reset time included", err.Error())
	}

	var rlErr *RateLimitError
	wrapped := fmt.Errorf("fetching pull requests: %w", err)
	if !errors.As(wrapped, &rlErr) {
		t.Fatal("errors.As should recover *RateLimitError from wrapped chain")
	}
	if !rlErr.ResetAt.Equal(reset) {
		t.Errorf("ResetAt = %v, want %v", rlErr.ResetAt, reset)
	}
}

func TestRateLimitErrorZeroReset(t *testing.T) {
	err := &RateLimitError{}
	if got := err.Error(); got != ErrRateLimit.Error() {
		t.Errorf("Error() = %q, want %q", got, ErrRateLimit.Error())
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrInvalidToken, "invalid github token"},
		{ErrRepoNotFound, "repository not found"},
		{ErrNetworkFailure, "network connection failed"},
		{ErrRateLimit, "github rate limit exceeded"},
		{ErrMalformedResponse, "malformed api response"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}
