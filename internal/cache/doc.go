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

// Package cache persists fetched pull request result sets in an embedded
// SQLite database so repeated invocations within the freshness window skip
// the network entirely. Each entry is keyed by a fingerprint of the
// (owner, repo, status) triple and replaced wholesale on refresh.
//
// The store only retrieves and overwrites entries; deciding whether an entry
// is still fresh is the caller's job. Read failures of any kind degrade to a
// cache miss rather than surfacing an error.
package cache
