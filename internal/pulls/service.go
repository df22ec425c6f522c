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

// Package pulls orchestrates the request/cache/output flow: it consults the
// cache store first, falls back to the GitHub API on a miss or stale entry,
// refreshes the cache, and applies date-range filtering and limit truncation
// to the selected records.
package pulls

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sirseerhq/sirseer-pulls/internal/cache"
	"github.com/sirseerhq/sirseer-pulls/internal/github"
)

// Request describes one listing operation.
type Request struct {
	Owner  string
	Repo   string
	Status string

	// Limit caps the number of returned records. Zero means no cap.
	Limit int

	// CreatedAfter / CreatedBefore bound the creation date of returned
	// records. Nil means unbounded on that side.
	CreatedAfter  *time.Time
	CreatedBefore *time.Time

	// BypassCache skips the cache lookup but still refreshes the entry
	// after a successful fetch.
	BypassCache bool
}

// Service coordinates the cache store and the API client.
// Records are cached unfiltered and untruncated, so one entry serves any
// limit or date window for its (owner, repo, status) triple.
type Service struct {
	client github.Client
	store  *cache.Store
	ttl    time.Duration
	now    func() time.Time
}

// NewService creates a Service. store may be nil, in which case every request
// goes to the API. A non-positive ttl treats every cached entry as stale.
func NewService(client github.Client, store *cache.Store, ttl time.Duration) *Service {
	return &Service{
		client: client,
		store:  store,
		ttl:    ttl,
		now:    time.Now,
	}
}

// List returns the pull requests selected by req, in the order the API
// returned them (most recently created first). API errors propagate unchanged
// when no usable cache entry exists.
func (s *Service) List(ctx context.Context, req Request) ([]github.PullRequest, error) {
	status := req.Status
	if status == "" {
		status = github.StateOpen
	}
	if !github.ValidState(status) {
		return nil, fmt.Errorf("invalid status %q: must be open, closed, or all", req.Status)
	}

	records, ok := s.lookup(ctx, req, status)
	if !ok {
		fetched, err := s.client.ListPullRequests(ctx, req.Owner, req.Repo, github.FetchOptions{State: status})
		if err != nil {
			return nil, err
		}
		records = fetched
		s.refresh(ctx, req, status, fetched)
	}

	records = filterByCreated(records, req.CreatedAfter, req.CreatedBefore)

	if req.Limit > 0 && len(records) > req.Limit {
		records = records[:req.Limit]
	}

	return records, nil
}

// lookup consults the cache and applies the staleness policy.
func (s *Service) lookup(ctx context.Context, req Request, status string) ([]github.PullRequest, bool) {
	if s.store == nil || req.BypassCache {
		return nil, false
	}

	records, fetchedAt, ok := s.store.Get(ctx, req.Owner, req.Repo, status)
	if !ok {
		return nil, false
	}

	age := s.now().Sub(fetchedAt)
	if age > s.ttl {
		log.Debug().
			Str("repo", req.Owner+"/"+req.Repo).
			Str("status", status).
			Dur("age", age).
			Msg("cache entry stale")
		return nil, false
	}

	log.Debug().
		Str("repo", req.Owner+"/"+req.Repo).
		Str("status", status).
		Int("records", len(records)).
		Msg("cache hit")
	return records, true
}

// refresh overwrites the cache entry after a successful fetch. A write
// failure is logged but never surfaces; the fetched records are still usable.
func (s *Service) refresh(ctx context.Context, req Request, status string, records []github.PullRequest) {
	if s.store == nil {
		return
	}
	if err := s.store.Put(ctx, req.Owner, req.Repo, status, records); err != nil {
		log.Warn().Err(err).
			Str("repo", req.Owner+"/"+req.Repo).
			Str("status", status).
			Msg("failed to refresh cache entry")
	}
}

// filterByCreated keeps records whose creation date falls inside the
// half-open bounds. The after bound is inclusive of the given day, the
// before bound inclusive as well, matching the CLI's date-only flags.
func filterByCreated(records []github.PullRequest, after, before *time.Time) []github.PullRequest {
	if after == nil && before == nil {
		return records
	}

	filtered := make([]github.PullRequest, 0, len(records))
	for _, pr := range records {
		if after != nil && pr.CreatedAt.Before(*after) {
			continue
		}
		if before != nil && pr.CreatedAt.After(*before) {
			continue
		}
		filtered = append(filtered, pr)
	}
	return filtered
}
