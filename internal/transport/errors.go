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
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	resterrors "github.com/sirseerhq/sirseer-rest/internal/errors"
)

// HTTPError is returned for any non-2xx response. GitHub error bodies
// ({"message": ..., "documentation_url": ..., "errors": [...]}) are
// decoded when present; the raw response is kept either way.
type HTTPError struct {
	Method           string
	URL              string
	StatusCode       int
	Message          string
	DocumentationURL string
	Errors           []FieldError
	Response         *Response
}

// FieldError is one entry of a 422 response's errors array.
type FieldError struct {
	Resource string `json:"resource"`
	Field    string `json:"field"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

type errorBody struct {
	Message          string            `json:"message"`
	DocumentationURL string            `json:"documentation_url"`
	Errors           []json.RawMessage `json:"errors"`
}

func newHTTPError(method, url string, resp *Response) *HTTPError {
	e := &HTTPError{
		Method:     method,
		URL:        url,
		StatusCode: resp.StatusCode,
		Response:   resp,
	}

	var body errorBody
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		e.Message = strings.TrimSpace(string(resp.Body))
		return e
	}
	e.Message = body.Message
	e.DocumentationURL = body.DocumentationURL
	for _, raw := range body.Errors {
		var fe FieldError
		if err := json.Unmarshal(raw, &fe); err != nil {
			// Some endpoints report plain strings.
			var s string
			if json.Unmarshal(raw, &s) == nil {
				fe.Message = s
			}
		}
		e.Errors = append(e.Errors, fe)
	}
	return e
}

func (e *HTTPError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	for _, fe := range e.Errors {
		detail := fe.Message
		if detail == "" {
			detail = fe.Code
		}
		if fe.Resource == "" && fe.Field == "" {
			fmt.Fprintf(&b, "; %s", detail)
			continue
		}
		fmt.Fprintf(&b, "; %s.%s: %s", fe.Resource, fe.Field, detail)
	}
	return b.String()
}

// HTTPStatus returns the response status code.
func (e *HTTPError) HTTPStatus() int {
	return e.StatusCode
}

// Unwrap maps well-known statuses to the shared sentinel errors.
func (e *HTTPError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return resterrors.ErrInvalidToken
	case e.StatusCode == http.StatusNotFound:
		return resterrors.ErrNotFound
	case e.IsRateLimit():
		return resterrors.ErrRateLimit
	}
	return nil
}

// IsRateLimit reports whether the response is a primary or secondary
// rate limit rejection. GitHub uses 429 and 403 for these; a 403 is
// only a rate limit when the message says so or the quota is exhausted.
func (e *HTTPError) IsRateLimit() bool {
	var header http.Header
	if e.Response != nil {
		header = e.Response.Header
	}
	return isRateLimited(e.StatusCode, e.Message, header)
}

func isRateLimited(status int, message string, header http.Header) bool {
	switch status {
	case http.StatusTooManyRequests:
		return true
	case http.StatusForbidden:
		return isRateLimitMessage(message) || header.Get("X-RateLimit-Remaining") == "0"
	}
	return false
}

func isRateLimitMessage(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "abuse detection")
}
