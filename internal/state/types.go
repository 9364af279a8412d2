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
package state

import (
	"time"
)

// CurrentVersion is the current checkpoint schema version.
// Increment this when making breaking changes to Checkpoint.
const CurrentVersion = 1

// Checkpoint is the persisted progress of a paginated call.
type Checkpoint struct {
	// Version indicates the schema version of this file.
	Version int `json:"version"`

	// Checksum is the SHA256 hash of the content excluding this field.
	Checksum string `json:"checksum"`

	// Route is the qualified route name, e.g. "issues.repoIssues".
	Route string `json:"route"`

	// Key identifies the route and parameters the checkpoint belongs to.
	Key string `json:"key"`

	// RunID correlates the checkpoint with the run that wrote it.
	RunID string `json:"run_id"`

	// NextURL is the next link of the last page delivered.
	NextURL string `json:"next_url"`

	// Pages and Items count what has been delivered so far.
	Pages int `json:"pages"`
	Items int `json:"items"`

	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
