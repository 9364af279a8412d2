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
// Package metadata records statistics about paginated calls: how many
// pages and items were delivered, how many API calls were made, the
// range of issue or pull request numbers seen and the rate limit left
// at the end. Records are saved as JSON files so that external tools can
// audit listing history, and each record links to the previous run of
// the same call.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/sirseerhq/sirseer-rest/internal/normalize"
)

// Tracker collects statistics during a paginated call. Create one at the
// start of the call and hand it every page.
type Tracker struct {
	startTime time.Time
	runID     string
	results   RunResults
	remaining *int
}

// New creates a tracker for a run starting now.
func New() *Tracker {
	return &Tracker{
		startTime: time.Now(),
		runID:     uuid.NewString(),
	}
}

// RunID returns the identifier of the tracked run.
func (t *Tracker) RunID() string {
	return t.runID
}

// ObservePage records one page. Array data counts one item per element;
// anything else counts as a single item. Items with a numeric "number"
// field widen the first/last number range.
func (t *Tracker) ObservePage(env *normalize.Envelope) {
	t.results.APICallCount++
	t.results.Pages++

	if rl, ok := env.Meta.RateLimit(); ok {
		remaining := rl.Remaining
		t.remaining = &remaining
	}

	items, ok := env.Data.([]any)
	if !ok {
		t.observeItem(env.Data)
		return
	}
	for _, item := range items {
		t.observeItem(item)
	}
}

func (t *Tracker) observeItem(item any) {
	t.results.TotalItems++

	obj, ok := item.(map[string]any)
	if !ok {
		return
	}
	n, ok := itemNumber(obj["number"])
	if !ok {
		return
	}
	if t.results.FirstNumber == 0 || n < t.results.FirstNumber {
		t.results.FirstNumber = n
	}
	if n > t.results.LastNumber {
		t.results.LastNumber = n
	}
}

func itemNumber(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	case float64:
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}

// Results returns the statistics gathered so far.
func (t *Tracker) Results() RunResults {
	r := t.results
	r.RateLimit = t.remaining
	return r
}

// GenerateMetadata builds the record for the finished run.
func (t *Tracker) GenerateMetadata(toolVersion string, params RunParams, resumed bool, previous *RunRef) *RunMetadata {
	completedAt := time.Now()

	results := t.Results()
	results.StartedAt = t.startTime
	results.CompletedAt = completedAt
	results.Duration = completedAt.Sub(t.startTime).String()

	return &RunMetadata{
		ToolVersion: toolVersion,
		RunID:       t.runID,
		Parameters:  params,
		Results:     results,
		Resumed:     resumed,
		PreviousRun: previous,
	}
}

// SaveMetadata writes md to dir as run-metadata-{key}-{timestamp}.json
// using a temporary file and rename, and returns the final path.
func SaveMetadata(md *RunMetadata, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create metadata directory: %w", err)
	}

	name := fmt.Sprintf("run-metadata-%s-%d.json", md.Parameters.Key, md.Results.StartedAt.UnixNano())
	path := filepath.Join(dir, name)

	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return "", fmt.Errorf("failed to create metadata file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(md); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to close metadata file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to save metadata file: %w", err)
	}
	return path, nil
}

// LoadLatestMetadata returns the most recently completed run for key in
// dir, or nil if there is none.
func LoadLatestMetadata(dir, key string) (*RunMetadata, error) {
	files, err := filepath.Glob(filepath.Join(dir, "run-metadata-"+key+"-*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata files: %w", err)
	}

	var latest *RunMetadata
	for _, file := range files {
		data, readErr := os.ReadFile(file)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read metadata file: %w", readErr)
		}

		var md RunMetadata
		if err := json.Unmarshal(data, &md); err != nil {
			return nil, fmt.Errorf("failed to parse metadata %s: %w", file, err)
		}
		if md.Parameters.Key != key {
			continue
		}
		if latest == nil || md.Results.CompletedAt.After(latest.Results.CompletedAt) {
			m := md
			latest = &m
		}
	}
	return latest, nil
}

// Ref returns a reference to md for linking the next run.
func (md *RunMetadata) Ref() *RunRef {
	if md == nil {
		return nil
	}
	return &RunRef{RunID: md.RunID, CompletedAt: md.Results.CompletedAt}
}
