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
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	pullserrors "github.com/sirseerhq/sirseer-pulls/internal/errors"
	"github.com/sirseerhq/sirseer-pulls/pkg/version"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// A .env file is optional; ignore a missing one
	_ = godotenv.Load()

	var debug bool

	rootCmd := &cobra.Command{
		Use:   "sirseer-pulls",
		Short: "List pull request metadata from GitHub repositories",
		Long: `SirSeer Pulls lists pull requests from GitHub repositories as CSV or
JSON. Fetched result sets are cached in a local SQLite database, so repeated
invocations within the freshness window return identical output without a
second network call.`,
		Version:       version.Version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newListCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(mapErrorToExitCode(err))
	}
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	// Check for specific error types
	if errors.Is(err, pullserrors.ErrInvalidToken) ||
		errors.Is(err, pullserrors.ErrRepoNotFound) ||
		errors.Is(err, pullserrors.ErrRateLimit) {
		return 2 // Authentication/authorization errors
	}

	if errors.Is(err, pullserrors.ErrNetworkFailure) {
		return 3 // Network errors
	}

	return 1 // General error
}
