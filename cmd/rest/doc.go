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
// Package main implements the sirseer-rest command-line interface.
// It drives the declarative GitHub REST client from a shell: every
// operation in the route table can be listed, built without sending, or
// called, with the normalized envelope written as JSON.
//
// The CLI supports:
//   - Listing the route table, optionally by group
//   - Showing the exact request a call would send
//   - Calling any route with key=value or key:=json arguments
//   - Following Link pagination with --all and streaming NDJSON
//   - Configuration from .sirseer-rest.yaml and SIRSEER_* variables
//
// Usage:
//
//	sirseer-rest routes [--group issues]
//	sirseer-rest build <route> [key=value | key:=json ...]
//	sirseer-rest call <route> [key=value | key:=json ...] [flags]
//
// Example:
//
//	export GITHUB_TOKEN=your_token
//	sirseer-rest call issues.getRepoIssue user=octocat repo=Hello-World number=1347
//	sirseer-rest call issues.repoIssues user=golang repo=go state=open --all --output issues.ndjson
//
// Exit codes:
//   - 0: Success
//   - 1: General or validation error
//   - 2: Authentication, not found or rate limit error
//   - 3: Network error
package main
