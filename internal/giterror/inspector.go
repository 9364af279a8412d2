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

package giterror

import (
	"errors"
	"net/http"
	"strings"

	resterrors "github.com/sirseerhq/sirseer-rest/internal/errors"
)

// Inspector provides methods for analyzing GitHub API errors.
type Inspector interface {
	// IsAuthError returns true if the error represents an authentication or authorization failure.
	IsAuthError(err error) bool

	// IsNotFoundError returns true if the error represents a resource not found error.
	IsNotFoundError(err error) bool

	// IsRateLimitError returns true if the error represents a rate limit error.
	IsRateLimitError(err error) bool

	// IsNetworkError returns true if the error represents a network connectivity error.
	IsNetworkError(err error) bool

	// IsRetryable returns true if repeating the same request may succeed.
	IsRetryable(err error) bool
}

// GitHubErrorInspector implements Inspector by looking at error messages.
type GitHubErrorInspector struct{}

// NewInspector creates a new GitHubErrorInspector.
func NewInspector() Inspector {
	return &GitHubErrorInspector{}
}

func containsAny(err error, needles ...string) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	for _, n := range needles {
		if strings.Contains(errStr, n) {
			return true
		}
	}
	return false
}

// IsAuthError checks if the error is an authentication or authorization error.
func (i *GitHubErrorInspector) IsAuthError(err error) bool {
	return containsAny(err, "401", "unauthorized", "bad credentials", "requires authentication", "invalid github token")
}

// IsNotFoundError checks if the error is a not found error.
func (i *GitHubErrorInspector) IsNotFoundError(err error) bool {
	return containsAny(err, "404", "not found")
}

// IsRateLimitError checks if the error is a rate limit error.
func (i *GitHubErrorInspector) IsRateLimitError(err error) bool {
	return containsAny(err, "rate limit", "429", "abuse detection")
}

// IsNetworkError checks if the error is a network connectivity error.
func (i *GitHubErrorInspector) IsNetworkError(err error) bool {
	return containsAny(err,
		"connection refused",
		"connection reset",
		"no such host",
		"timeout",
		"temporary failure",
		"dial tcp",
		"tls handshake",
		"network is unreachable",
		"unexpected eof",
	)
}

// IsRetryable reports network errors and gateway failures.
func (i *GitHubErrorInspector) IsRetryable(err error) bool {
	return i.IsNetworkError(err) || containsAny(err, "502 bad gateway", "503 service unavailable", "504 gateway timeout")
}

// ErrorChainInspector wraps a base inspector and adds support for checking
// errors in the chain using errors.Is and errors.As. Errors that carry an
// HTTP status are classified by the status alone.
type ErrorChainInspector struct {
	base Inspector
}

// NewErrorChainInspector creates a new ErrorChainInspector that checks both
// the error chain and falls back to string-based inspection.
func NewErrorChainInspector(base Inspector) Inspector {
	return &ErrorChainInspector{base: base}
}

// statusCoder is implemented by errors that originate from an HTTP response.
type statusCoder interface {
	HTTPStatus() int
}

func httpStatus(err error) (int, bool) {
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatus(), true
	}
	return 0, false
}

// IsAuthError checks the error chain first, then falls back to base inspector.
func (e *ErrorChainInspector) IsAuthError(err error) bool {
	if errors.Is(err, resterrors.ErrInvalidToken) {
		return true
	}
	var authErr interface{ IsAuthError() bool }
	if errors.As(err, &authErr) && authErr.IsAuthError() {
		return true
	}
	if code, ok := httpStatus(err); ok {
		return code == http.StatusUnauthorized ||
			(code == http.StatusForbidden && !errors.Is(err, resterrors.ErrRateLimit))
	}
	return e.base.IsAuthError(err)
}

// IsNotFoundError checks the error chain first, then falls back to base inspector.
func (e *ErrorChainInspector) IsNotFoundError(err error) bool {
	if errors.Is(err, resterrors.ErrNotFound) {
		return true
	}
	var notFoundErr interface{ IsNotFoundError() bool }
	if errors.As(err, &notFoundErr) && notFoundErr.IsNotFoundError() {
		return true
	}
	if _, ok := httpStatus(err); ok {
		return false
	}
	return e.base.IsNotFoundError(err)
}

// IsRateLimitError checks the error chain first, then falls back to base inspector.
func (e *ErrorChainInspector) IsRateLimitError(err error) bool {
	if errors.Is(err, resterrors.ErrRateLimit) {
		return true
	}
	var rateLimitErr interface{ IsRateLimitError() bool }
	if errors.As(err, &rateLimitErr) && rateLimitErr.IsRateLimitError() {
		return true
	}
	if _, ok := httpStatus(err); ok {
		return false
	}
	return e.base.IsRateLimitError(err)
}

// IsNetworkError checks the error chain first, then falls back to base inspector.
func (e *ErrorChainInspector) IsNetworkError(err error) bool {
	if errors.Is(err, resterrors.ErrNetworkFailure) {
		return true
	}
	var networkErr interface{ IsNetworkError() bool }
	if errors.As(err, &networkErr) && networkErr.IsNetworkError() {
		return true
	}
	if _, ok := httpStatus(err); ok {
		return false
	}
	return e.base.IsNetworkError(err)
}

// IsRetryable reports network failures and 502/503/504 responses.
// Validation and route errors are never retryable.
func (e *ErrorChainInspector) IsRetryable(err error) bool {
	if err == nil ||
		errors.Is(err, resterrors.ErrValidation) ||
		errors.Is(err, resterrors.ErrUnknownRoute) ||
		errors.Is(err, resterrors.ErrInvalidRouteTable) {
		return false
	}
	if code, ok := httpStatus(err); ok {
		return IsRetryableStatus(code)
	}
	return e.IsNetworkError(err) || e.base.IsRetryable(err)
}

// IsRetryableStatus reports whether an HTTP status indicates a transient
// upstream failure.
func IsRetryableStatus(code int) bool {
	switch code {
	case http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
