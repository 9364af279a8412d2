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

package transport

import (
	"context"
	"net/http"
	"net/url"
)

// Request is a fully built API request.
type Request struct {
	Method string
	// Path is relative to the API base URL ("/repos/o/r/issues/1") or an
	// absolute URL, as found in pagination links.
	Path  string
	Query url.Values
	// Body is JSON encoded when non-nil.
	Body   any
	Header http.Header
}

// URL returns Path with the encoded query appended.
func (r *Request) URL() string {
	if len(r.Query) == 0 {
		return r.Path
	}
	return r.Path + "?" + r.Query.Encode()
}

// Response is the raw result of a successful round trip.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport performs API calls. Implementations own connection
// management, authentication, TLS and any retry policy; callers treat
// every returned error as terminal for that call.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// Func adapts a function to the Transport interface.
type Func func(ctx context.Context, req *Request) (*Response, error)

// Send calls f.
func (f Func) Send(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}
