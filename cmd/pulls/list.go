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

package main

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-pulls/internal/cache"
	"github.com/sirseerhq/sirseer-pulls/internal/config"
	pullserrors "github.com/sirseerhq/sirseer-pulls/internal/errors"
	"github.com/sirseerhq/sirseer-pulls/internal/github"
	"github.com/sirseerhq/sirseer-pulls/internal/output"
	"github.com/sirseerhq/sirseer-pulls/internal/pulls"
)

// repoPattern validates the <owner>/<repo> argument.
var repoPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

// listOptions collects the flag values for one list invocation.
type listOptions struct {
	repoArg       string
	token         string
	status        string
	limit         int
	createdAfter  string
	createdBefore string
	format        string
	outputFile    string
	noCache       bool
	configPath    string
}

// newListCommand builds the list subcommand.
func newListCommand() *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:   "list <owner>/<repo>",
		Short: "List pull requests for a GitHub repository",
		Long: `List pull requests for a GitHub repository and output CSV (default) or JSON.

The repository must be specified in the format: <owner>/<repo>
For example: golang/go, kubernetes/kubernetes

Authentication is required via GitHub token:
  - Use --token flag to provide token directly
  - Or set GITHUB_TOKEN environment variable

Results are cached locally; an entry older than the configured TTL is
refetched. Use --no-cache to force a fetch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Create context with timeout
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			opts.repoArg = args[0]
			return runList(ctx, opts)
		},
	}

	// Define flags
	cmd.Flags().StringVar(&opts.token, "token", "", "GitHub personal access token (overrides GITHUB_TOKEN env var)")
	cmd.Flags().StringVar(&opts.status, "status", "", "Filter by status: open, closed, or all (default: open)")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Maximum number of results (0 = no limit)")
	cmd.Flags().StringVar(&opts.createdAfter, "created-after", "", "Only include PRs created on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.createdBefore, "created-before", "", "Only include PRs created on or before this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.format, "format", "", "Output format: csv or json (default: csv)")
	cmd.Flags().StringVar(&opts.outputFile, "output", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "Skip the cache lookup and fetch from the API")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Config file path")

	return cmd
}

// runList executes the list command
func runList(ctx context.Context, opts listOptions) error {
	// Parse repository argument
	owner, repo, err := parseRepository(opts.repoArg)
	if err != nil {
		return err
	}

	// Load configuration
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Resolve flags against config defaults
	status := opts.status
	if status == "" {
		status = cfg.Defaults.Status
	}
	if !github.ValidState(status) {
		return fmt.Errorf("invalid status %q: must be open, closed, or all", opts.status)
	}

	format := output.Format(opts.format)
	if format == "" {
		format = output.Format(cfg.Defaults.Format)
	}
	if !output.ValidFormat(format) {
		return fmt.Errorf("invalid format %q: must be csv or json", opts.format)
	}

	var after, before *time.Time
	if opts.createdAfter != "" {
		parsed, pErr := parseDate(opts.createdAfter)
		if pErr != nil {
			return fmt.Errorf("invalid --created-after value: %w", pErr)
		}
		after = &parsed
	}
	if opts.createdBefore != "" {
		parsed, pErr := parseDate(opts.createdBefore)
		if pErr != nil {
			return fmt.Errorf("invalid --created-before value: %w", pErr)
		}
		// Inclusive of the whole day
		endOfDay := parsed.Add(24*time.Hour - time.Nanosecond)
		before = &endOfDay
	}

	// Get GitHub token; fail before any network or cache activity
	token := getToken(opts.token, cfg.GitHub.TokenEnv)
	if token == "" {
		return fmt.Errorf("GitHub token not found. Set %s or use --token flag: %w",
			cfg.GitHub.TokenEnv, pullserrors.ErrInvalidToken)
	}

	// Open the cache store; a broken cache degrades to fetch-only
	store, err := cache.NewStore(cfg.Cache.Path)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.Cache.Path).Msg("cache unavailable; continuing without it")
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	client := github.NewRESTClient(token, cfg.GitHub.APIEndpoint)
	svc := pulls.NewService(client, store, cfg.Cache.TTL.AsDuration())

	// Show progress
	fmt.Fprintf(os.Stderr, "Fetching pull requests from %s/%s...", owner, repo)

	records, err := svc.List(ctx, pulls.Request{
		Owner:         owner,
		Repo:          repo,
		Status:        status,
		Limit:         opts.limit,
		CreatedAfter:  after,
		CreatedBefore: before,
		BypassCache:   opts.noCache,
	})

	// Clear progress line
	fmt.Fprintf(os.Stderr, "\r\033[K")
	if err != nil {
		return err
	}

	writer, err := newWriter(format, opts.outputFile)
	if err != nil {
		return err
	}
	for _, pr := range records {
		if wErr := writer.Write(pr); wErr != nil {
			_ = writer.Close()
			return fmt.Errorf("failed to write record: %w", wErr)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish output: %w", err)
	}

	if opts.outputFile != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d pull requests to %s\n", len(records), opts.outputFile)
	}
	output.Summarize(records).Fprint(os.Stderr)

	return nil
}

// newWriter selects the output writer for the format and destination.
func newWriter(format output.Format, outputFile string) (output.Writer, error) {
	switch {
	case format == output.FormatJSON && outputFile != "":
		return output.NewJSONFileWriter(outputFile)
	case format == output.FormatJSON:
		return output.NewJSONWriter(os.Stdout), nil
	case outputFile != "":
		return output.NewCSVFileWriter(outputFile)
	default:
		return output.NewCSVWriter(os.Stdout), nil
	}
}

// parseRepository parses an owner/repo string into owner and repo components
func parseRepository(repoArg string) (owner, repo string, err error) {
	if !repoPattern.MatchString(repoArg) {
		return "", "", fmt.Errorf("invalid repository format. Expected: <owner>/<repo>, got: %s", repoArg)
	}

	parts := strings.SplitN(repoArg, "/", 2)
	return parts[0], parts[1], nil
}

// parseDate parses a YYYY-MM-DD date as midnight UTC.
func parseDate(value string) (time.Time, error) {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q must be in YYYY-MM-DD format", value)
	}
	return parsed, nil
}

// getToken returns the GitHub token from flag or environment variable
func getToken(flagToken, tokenEnv string) string {
	if flagToken != "" {
		return flagToken
	}
	if tokenEnv == "" {
		tokenEnv = "GITHUB_TOKEN"
	}
	return os.Getenv(tokenEnv)
}
