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
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	pullserrors "github.com/sirseerhq/sirseer-pulls/internal/errors"
	"github.com/sirseerhq/sirseer-pulls/pkg/version"
)

// RESTClient implements the GitHub Client interface against the REST v3 API.
// It issues authenticated GETs to the repository pulls endpoint and walks
// pages until the result set is complete. Safety features include response
// size limiting and a User-Agent header for API compliance.
type RESTClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewRESTClient creates a GitHub REST client authenticating with the given
// token. baseURL is the API root, e.g. https://api.github.com; a custom value
// supports GitHub Enterprise deployments and test servers.
func NewRESTClient(token, baseURL string) *RESTClient {
	// Connection pooling tuned for a short-lived CLI process
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		DisableCompression:  false,
		ForceAttemptHTTP2:   true,
	}

	httpClient := &http.Client{
		Transport: &authTransport{
			token: token,
			base:  transport,
		},
	}

	return &RESTClient{
		httpClient: httpClient,
		baseURL:    normalizeBaseURL(baseURL),
	}
}

// ListPullRequests fetches all pull requests matching opts.State from the
// repository, following page-number pagination until a short page signals the
// end of the result set. Records are returned in API order.
func (c *RESTClient) ListPullRequests(ctx context.Context, owner, repo string, opts FetchOptions) ([]PullRequest, error) {
	state := opts.State
	if state == "" {
		state = StateOpen
	}
	perPage := opts.PerPage
	if perPage <= 0 || perPage > defaultPageSize {
		perPage = defaultPageSize
	}

	var all []PullRequest
	for page := 1; ; page++ {
		batch, err := c.fetchPage(ctx, owner, repo, state, perPage, page)
		if err != nil {
			return nil, err
		}

		all = append(all, batch...)
		log.Debug().
			Str("repo", owner+"/"+repo).
			Int("page", page).
			Int("page_count", len(batch)).
			Int("total_so_far", len(all)).
			Msg("fetched pull request page")

		if len(batch) < perPage {
			break
		}
	}

	return all, nil
}

// fetchPage requests a single page of pull requests and decodes it.
func (c *RESTClient) fetchPage(ctx context.Context, owner, repo, state string, perPage, page int) ([]PullRequest, error) {
	endpoint := fmt.Sprintf("%s/repos/%s/%s/pulls", c.baseURL, url.PathEscape(owner), url.PathEscape(repo))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	q := req.URL.Query()
	q.Set("state", state)
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", strconv.Itoa(page))
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.mapTransportError(err)
	}
	defer resp.Body.Close()

	if err := c.mapStatusError(resp, owner, repo); err != nil {
		return nil, err
	}

	var batch []PullRequest
	if err := json.NewDecoder(resp.Body).Decode(&batch); err != nil {
		return nil, fmt.Errorf("failed to decode pull request page %d: %w", page, pullserrors.ErrMalformedResponse)
	}

	return batch, nil
}

// mapStatusError maps non-200 responses to our domain errors with actionable messages.
func (c *RESTClient) mapStatusError(resp *http.Response, owner, repo string) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil

	case http.StatusUnauthorized:
		return fmt.Errorf("GitHub API authentication failed. Please provide a valid token via --token flag or GITHUB_TOKEN environment variable: %w", pullserrors.ErrInvalidToken)

	case http.StatusForbidden, http.StatusTooManyRequests:
		// A 403 with exhausted quota headers is rate limiting, not an auth failure
		if isRateLimited(resp) {
			return fmt.Errorf("GitHub API rate limit exceeded. Please wait before retrying: %w",
				&pullserrors.RateLimitError{ResetAt: rateLimitReset(resp)})
		}
		return fmt.Errorf("GitHub API access forbidden. Please check your token's scopes: %w", pullserrors.ErrInvalidToken)

	case http.StatusNotFound:
		return fmt.Errorf("repository '%s/%s' not found. Please check the repository name and your access permissions: %w", owner, repo, pullserrors.ErrRepoNotFound)

	default:
		return fmt.Errorf("unexpected status %d from GitHub API", resp.StatusCode)
	}
}

// mapTransportError classifies request failures that never produced a response.
func (c *RESTClient) mapTransportError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("network error connecting to GitHub API. Please check your internet connection and try again: %w", pullserrors.ErrNetworkFailure)
}

// isRateLimited reports whether the response signals quota exhaustion.
func isRateLimited(resp *http.Response) bool {
	if resp.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return resp.Header.Get("X-RateLimit-Remaining") == "0"
}

// rateLimitReset parses the quota reset time from the response headers.
// Returns the zero time if the header is absent or unparseable.
func rateLimitReset(resp *http.Response) time.Time {
	raw := resp.Header.Get("X-RateLimit-Reset")
	if raw == "" {
		return time.Time{}
	}
	epoch, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(epoch, 0).UTC()
}

// normalizeBaseURL trims a trailing slash so path joining stays predictable.
func normalizeBaseURL(baseURL string) string {
	for len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	return baseURL
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	// Calculate how much we can read
	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}

// authTransport adds authentication headers and safety limits to HTTP requests
type authTransport struct {
	token string
	base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	req = req.Clone(req.Context())

	req.Header.Set("Authorization", "Bearer "+t.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "sirseer-pulls/"+version.Version)

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// Apply response size limit (10MB)
	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      10 * 1024 * 1024, // 10MB
		}
	}

	return resp, nil
}
