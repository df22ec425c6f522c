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

// Package main implements the sirseer-pulls command-line interface.
// This tool lists pull requests from GitHub repositories as CSV or JSON,
// caching fetched result sets in a local SQLite database so repeated
// invocations within the freshness window skip the network.
//
// The CLI supports:
//   - Filtering by status (open, closed, all) and creation date range
//   - Capping the result count with --limit
//   - CSV (default) or JSON output, to stdout or a file
//   - GitHub token authentication via flag or environment variable
//   - Graceful error handling with appropriate exit codes
//
// Usage:
//
//	sirseer-pulls list <owner>/<repo> [flags]
//
// Example:
//
//	export GITHUB_TOKEN=your_token
//	sirseer-pulls list golang/go --status open --limit 50 --output prs.csv
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication/authorization error
//   - 3: Network error
package main
