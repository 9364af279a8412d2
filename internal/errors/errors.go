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

// Package errors defines the sentinel errors shared across sirseer-rest.
// Typed errors elsewhere in the module wrap these so callers can use
// errors.Is regardless of which layer produced the failure.
package errors

import "errors"

var (
	// ErrInvalidToken indicates GitHub authentication failed.
	// Maps to exit code 2.
	ErrInvalidToken = errors.New("invalid github token")

	// ErrNotFound indicates the requested resource does not exist or is not accessible.
	// Maps to exit code 2.
	ErrNotFound = errors.New("resource not found")

	// ErrNetworkFailure indicates a network connection problem.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrRateLimit indicates GitHub API rate limit has been exceeded.
	// Maps to exit code 2.
	ErrRateLimit = errors.New("github rate limit exceeded")
)

// Route table errors. These are programmer or configuration errors and
// are never retried.
var (
	// ErrUnknownRoute is returned when a route name is not in the table.
	ErrUnknownRoute = errors.New("unknown route")

	// ErrInvalidRouteTable is returned when a route document fails to load.
	ErrInvalidRouteTable = errors.New("invalid route table")

	// ErrForeignURL is returned when an absolute request URL, such as a
	// pagination link, names a scheme or host other than the API base.
	// Credentials are never sent to it.
	ErrForeignURL = errors.New("request url is outside the api base url")
)

// Parameter validation errors. All of them also match ErrValidation.
var (
	ErrValidation      = errors.New("parameter validation failed")
	ErrMissingField    = errors.New("missing required parameter")
	ErrPatternMismatch = errors.New("parameter does not match pattern")
	ErrInvalidValue    = errors.New("invalid parameter value")
)

var (
	// ErrParseFailure indicates the response body was not valid JSON.
	// It is an internal-server-error class failure.
	ErrParseFailure = errors.New("response is not valid json")

	// ErrNoPage is returned when a pagination link is not present in
	// a response.
	ErrNoPage = errors.New("no such page")
)
