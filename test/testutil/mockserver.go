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
// Package testutil provides common test helpers for sirseer-rest:
// httptest servers that behave like the GitHub REST API and assertions
// over NDJSON output.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// MockServer wraps an httptest.Server and counts the requests it served.
type MockServer struct {
	*httptest.Server
	requests atomic.Int32
}

// RequestCount returns the number of requests served so far.
func (m *MockServer) RequestCount() int {
	return int(m.requests.Load())
}

// NewMockServer creates a server for handler. It is closed when the test ends.
func NewMockServer(t *testing.T, handler http.HandlerFunc) *MockServer {
	t.Helper()
	m := &MockServer{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.requests.Add(1)
		handler(w, r)
	}))
	t.Cleanup(m.Close)
	return m
}

// NewJSONServer always answers 200 with body and the given headers.
func NewJSONServer(t *testing.T, body interface{}, header map[string]string) *MockServer {
	t.Helper()
	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		for k, v := range header {
			w.Header().Set(k, v)
		}
		WriteJSON(w, http.StatusOK, body)
	})
}

// NewPagedServer serves a listing of total issues, perPage at a time,
// with Link headers that point back at the server. The page is taken
// from the "page" query parameter.
func NewPagedServer(t *testing.T, total, perPage int) *MockServer {
	t.Helper()
	var m *MockServer
	m = NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			page = 1
		}
		last := (total + perPage - 1) / perPage
		if last == 0 {
			last = 1
		}

		start := (page-1)*perPage + 1
		end := start + perPage - 1
		if end > total {
			end = total
		}

		if link := LinkHeader(m.URL+r.URL.Path, page, last); link != "" {
			w.Header().Set("Link", link)
		}
		w.Header().Set("X-RateLimit-Limit", "5000")
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(5000-m.RequestCount()))
		WriteJSON(w, http.StatusOK, GenerateIssues(start, end))
	})
	return m
}

// LinkHeader renders a GitHub style Link header for page of last.
func LinkHeader(base string, page, last int) string {
	link := func(p int, rel string) string {
		return fmt.Sprintf(`<%s?page=%d>; rel="%s"`, base, p, rel)
	}

	var parts []string
	if page < last {
		parts = append(parts, link(page+1, "next"), link(last, "last"))
	}
	if page > 1 {
		parts = append(parts, link(1, "first"), link(page-1, "prev"))
	}

	return strings.Join(parts, ", ")
}

// NewRateLimitServer answers 403 with a rate limit message and
// Retry-After for the first limitedCount requests, then 200.
func NewRateLimitServer(t *testing.T, retryAfter, limitedCount int) *MockServer {
	t.Helper()
	var m *MockServer
	m = NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		if m.RequestCount() <= limitedCount {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Remaining", "0")
			WriteJSON(w, http.StatusForbidden, map[string]string{
				"message":           "API rate limit exceeded for 127.0.0.1.",
				"documentation_url": "https://docs.github.com/rest/overview/resources-in-the-rest-api#rate-limiting",
			})
			return
		}
		WriteJSON(w, http.StatusOK, GenerateIssues(1, 1)[0])
	})
	return m
}

// NewErrorServer always answers statusCode with a GitHub error body.
func NewErrorServer(t *testing.T, statusCode int) *MockServer {
	t.Helper()
	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, statusCode, map[string]string{
			"message": http.StatusText(statusCode),
		})
	})
}

// NewTransientErrorServer fails failCount times with errorCode, then
// answers 200.
func NewTransientErrorServer(t *testing.T, failCount, errorCode int) *MockServer {
	t.Helper()
	var m *MockServer
	m = NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		if m.RequestCount() <= failCount {
			w.WriteHeader(errorCode)
			_, _ = w.Write([]byte(http.StatusText(errorCode)))
			return
		}
		WriteJSON(w, http.StatusOK, GenerateIssues(1, 1)[0])
	})
	return m
}

// NewSlowServer delays every response by delay.
func NewSlowServer(t *testing.T, delay time.Duration) *MockServer {
	t.Helper()
	return NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{})
	})
}

// GenerateIssues returns issue objects numbered startNum through endNum.
func GenerateIssues(startNum, endNum int) []map[string]interface{} {
	issues := make([]map[string]interface{}, 0)

	for i := startNum; i <= endNum; i++ {
		issues = append(issues, map[string]interface{}{
			"number":     i,
			"title":      fmt.Sprintf("Issue %d", i),
			"state":      "open",
			"created_at": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i).Format(time.RFC3339),
			"user": map[string]interface{}{
				"login": fmt.Sprintf("user%d", i),
			},
		})
	}

	return issues
}

// WriteJSON writes v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// AssertRESTRequest validates the headers every API request carries.
func AssertRESTRequest(t *testing.T, r *http.Request, method, path string) {
	t.Helper()
	if r.Method != method {
		t.Errorf("Expected %s method, got: %s", method, r.Method)
	}
	if r.URL.Path != path {
		t.Errorf("Unexpected path: %s, want %s", r.URL.Path, path)
	}
	if accept := r.Header.Get("Accept"); accept != "application/vnd.github.v3+json" {
		t.Errorf("Unexpected Accept header: %s", accept)
	}
	if r.Header.Get("User-Agent") == "" {
		t.Error("Missing User-Agent header")
	}
}
