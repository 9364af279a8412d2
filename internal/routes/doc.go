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

// Package routes holds the declarative route table for the GitHub REST
// API. A route maps an operation name such as "issues.getRepoIssue" to
// an HTTP method, a URL template with :field placeholders and the
// schema of its parameters.
//
// The table is loaded once at startup and is read-only afterwards:
//
//	table, err := routes.Default()
//	if err != nil {
//	    // the embedded document is broken
//	}
//	route, err := table.Lookup("gitdata.getBlob")
//
// Custom tables can be loaded with LoadFile; they use the same YAML
// format as the embedded routes.yaml and are checked against
// routes.schema.json.
package routes
