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

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirseerhq/sirseer-pulls/internal/github"
)

// JSONWriter serializes pull request records as an indented JSON array.
// Records are buffered and emitted as one document on Close, so the output
// is a valid array even when no records are written.
type JSONWriter struct {
	out       io.Writer
	records   []github.PullRequest
	closeFunc func() error
}

// NewJSONWriter creates a JSON writer targeting the given output.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{out: w, records: []github.PullRequest{}}
}

// NewJSONFileWriter creates a JSON writer targeting a file.
// The caller must call Close() when done.
func NewJSONFileWriter(filename string) (*JSONWriter, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &JSONWriter{
		out:       file,
		records:   []github.PullRequest{},
		closeFunc: file.Close,
	}, nil
}

// Write buffers a single record for the final document.
func (w *JSONWriter) Write(pr github.PullRequest) error {
	w.records = append(w.records, pr)
	return nil
}

// Close emits the buffered records as an indented JSON array and closes the
// underlying file, if any.
func (w *JSONWriter) Close() error {
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(w.records); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}

	if w.closeFunc != nil {
		return w.closeFunc()
	}
	return nil
}
