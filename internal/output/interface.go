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

package output

import "github.com/sirseerhq/sirseer-pulls/internal/github"

// Format identifies an output serialization.
type Format string

// Supported output formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ValidFormat reports whether f names a supported format.
func ValidFormat(f Format) bool {
	return f == FormatCSV || f == FormatJSON
}

// Writer defines the interface for writing pull request records.
// Implementations serialize each record in their format; Close finishes the
// document and releases any underlying file handle.
type Writer interface {
	// Write serializes a single record to the output.
	Write(pr github.PullRequest) error

	// Close flushes buffered data, completes the document, and closes the
	// underlying writer if it owns one. It must be called exactly once.
	Close() error
}
