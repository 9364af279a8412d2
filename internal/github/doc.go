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

// Package github is a route-table driven client for the GitHub REST API
// v3. Every operation runs the same pipeline: the named route is looked
// up in the table, the parameter bag is validated against the route's
// parameter specs, a request is built from the URL template, the
// transport performs it and the response body is normalized into an
// envelope carrying rate limit and pagination metadata.
//
// The package includes:
//   - Client, which runs the pipeline for any route name
//   - API, one typed wrapper per route grouped by events, git data,
//     issues and pull requests
//   - Page helpers that follow the link metadata of a response
//   - MockCaller for testing code built on the wrappers
//
// Basic usage:
//
//	tr, err := transport.NewHTTP(transport.Options{Token: token})
//	if err != nil {
//	    // Handle error
//	}
//	client, err := github.New(tr)
//	if err != nil {
//	    // Handle error
//	}
//	api := github.NewAPI(client)
//	env, err := api.Issues.RepoIssues(ctx, params.Message{
//	    "user":  "golang",
//	    "repo":  "go",
//	    "state": "open",
//	})
//	if err != nil {
//	    // Handle error
//	}
//	var issues []github.Issue
//	if err := env.Decode(&issues); err != nil {
//	    // Handle error
//	}
package github
