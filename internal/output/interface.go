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

// RecordWriter is implemented by sinks that accept envelopes, built requests
// and route listings from the CLI.
type RecordWriter interface {
	// Write encodes a single record and flushes it to the output.
	Write(record interface{}) error

	// Close releases the underlying output. Standard streams are left open.
	Close() error
}
