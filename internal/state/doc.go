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
// Package state persists pagination checkpoints so that a long listing
// interrupted part way (network failure, rate limit beyond the wait
// budget, Ctrl-C) can resume from the last page it reached instead of
// starting over.
//
// A checkpoint is keyed by the route name and the call's parameters and
// records the next link of the last page handed to the caller. Every
// write is atomic, using a write-to-temp-and-rename pattern, and a SHA256
// checksum detects corruption on load.
//
// Example usage:
//
//	path := state.FilePath(state.DefaultDir(), state.Key("issues.repoIssues", msg))
//	cp, err := state.LoadCheckpoint(path)
//	if errors.Is(err, state.ErrNoCheckpoint) {
//	    // start from the first page
//	}
package state
