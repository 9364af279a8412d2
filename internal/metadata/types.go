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
// Package metadata types describe the audit record written for a
// paginated call: what was requested, how it went and how it relates to
// the previous run of the same call.
package metadata

import (
	"time"

	"github.com/sirseerhq/sirseer-rest/internal/params"
)

// RunMetadata is the complete record of one paginated call.
type RunMetadata struct {
	ToolVersion string     `json:"tool_version"`
	RunID       string     `json:"run_id"`
	Parameters  RunParams  `json:"parameters"`
	Results     RunResults `json:"results"`
	Resumed     bool       `json:"resumed"`
	PreviousRun *RunRef    `json:"previous_run,omitempty"`
}

// RunParams captures the input of the call so it can be reproduced.
type RunParams struct {
	Route   string         `json:"route"`
	Key     string         `json:"key"`
	Message params.Message `json:"message"`
	BaseURL string         `json:"base_url"`
}

// RunResults holds the statistics gathered while paging.
type RunResults struct {
	TotalItems   int       `json:"total_items"`
	Pages        int       `json:"pages"`
	FirstNumber  int       `json:"first_number,omitempty"`
	LastNumber   int       `json:"last_number,omitempty"`
	APICallCount int       `json:"api_calls_made"`
	RateLimit    *int      `json:"rate_limit_remaining,omitempty"`
	Duration     string    `json:"duration"`
	StartedAt    time.Time `json:"started_at"`
	CompletedAt  time.Time `json:"completed_at"`
}

// RunRef links a run to its predecessor.
type RunRef struct {
	RunID       string    `json:"run_id"`
	CompletedAt time.Time `json:"completed_at"`
}
