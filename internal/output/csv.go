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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/sirseerhq/sirseer-pulls/internal/github"
)

// csvHeader is the fixed column order of the CSV output.
var csvHeader = []string{"number", "title", "author", "status", "created_at", "url"}

// CSVWriter serializes pull request records as CSV with one header row.
// The header is emitted even for an empty result set.
type CSVWriter struct {
	w           *csv.Writer
	wroteHeader bool
	closeFunc   func() error
}

// NewCSVWriter creates a CSV writer targeting the given output.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

// NewCSVFileWriter creates a CSV writer targeting a file.
// The caller must call Close() when done.
func NewCSVFileWriter(filename string) (*CSVWriter, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &CSVWriter{
		w:         csv.NewWriter(file),
		closeFunc: file.Close,
	}, nil
}

// Write serializes a single record as one CSV row, preceded by the header
// row on first use.
func (w *CSVWriter) Write(pr github.PullRequest) error {
	if err := w.ensureHeader(); err != nil {
		return err
	}

	row := []string{
		strconv.Itoa(pr.Number),
		pr.Title,
		pr.Author.Login,
		pr.State,
		pr.CreatedAt.Format(time.RFC3339),
		pr.HTMLURL,
	}
	if err := w.w.Write(row); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// Close flushes the output and closes the underlying file, if any.
func (w *CSVWriter) Close() error {
	// A zero-record run still produces the header row
	if err := w.ensureHeader(); err != nil {
		return err
	}

	w.w.Flush()
	if err := w.w.Error(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	if w.closeFunc != nil {
		return w.closeFunc()
	}
	return nil
}

func (w *CSVWriter) ensureHeader() error {
	if w.wroteHeader {
		return nil
	}
	w.wroteHeader = true
	if err := w.w.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return nil
}
