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
	"sync"
)

// Stdout is the output path that selects standard output.
const Stdout = "-"

// Writer streams JSON records to an io.Writer or file.
// It is safe for concurrent use; records are never interleaved.
type Writer struct {
	mu        sync.Mutex
	output    io.Writer
	encoder   *json.Encoder
	count     int
	indent    string
	appendTo  bool
	closeFunc func() error
}

// Option configures a Writer.
type Option func(*Writer)

// WithIndent pretty-prints each record using the given indent string.
// An empty indent keeps the one-record-per-line format.
func WithIndent(indent string) Option {
	return func(w *Writer) {
		w.indent = indent
	}
}

// WithAppend makes NewFileWriter append to an existing file instead of
// truncating it. It has no effect on NewWriter.
func WithAppend() Option {
	return func(w *Writer) {
		w.appendTo = true
	}
}

// NewWriter creates a Writer that writes to the specified output.
func NewWriter(out io.Writer, opts ...Option) *Writer {
	w := &Writer{output: out}
	for _, opt := range opts {
		opt(w)
	}
	w.encoder = json.NewEncoder(out)
	w.encoder.SetEscapeHTML(false)
	if w.indent != "" {
		w.encoder.SetIndent("", w.indent)
	}
	return w
}

// NewFileWriter creates a Writer that truncates and writes to a file, or
// appends to it with WithAppend.
// The caller must call Close when done.
func NewFileWriter(filename string, opts ...Option) (*Writer, error) {
	probe := &Writer{}
	for _, opt := range opts {
		opt(probe)
	}

	flag := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if probe.appendTo {
		flag = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	file, err := os.OpenFile(filename, flag, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	w := NewWriter(file, opts...)
	w.closeFunc = file.Close
	return w, nil
}

// Write encodes a single record followed by a newline.
func (w *Writer) Write(record interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.encoder.Encode(record); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	w.count++
	return nil
}

// WriteAll writes records in order and stops at the first failure.
func (w *Writer) WriteAll(records []interface{}) error {
	for i, record := range records {
		if err := w.Write(record); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close closes the underlying file, if the Writer owns one.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closeFunc == nil {
		return nil
	}
	err := w.closeFunc()
	w.closeFunc = nil
	return err
}
