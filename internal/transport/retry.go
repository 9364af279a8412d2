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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/sirseerhq/sirseer-rest/internal/giterror"
)

// retryTransport adds exponential backoff retry logic for transient
// failures. Only idempotent methods are retried unless retryWrites is set.
type retryTransport struct {
	base        http.RoundTripper
	maxRetries  int
	backoff     time.Duration
	retryWrites bool
	inspector   giterror.Inspector
	log         *zap.Logger
	after       func(time.Duration) <-chan time.Time
}

func newRetryTransport(base http.RoundTripper, maxRetries int, backoff time.Duration, retryWrites bool, log *zap.Logger) *retryTransport {
	return &retryTransport{
		base:        base,
		maxRetries:  maxRetries,
		backoff:     backoff,
		retryWrites: retryWrites,
		inspector:   giterror.NewInspector(),
		log:         log,
		after:       time.After,
	}
}

// idempotent reports whether repeating method has the same effect as
// sending it once.
func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// RoundTrip implements http.RoundTripper with retry logic. When every
// attempt fails with a retryable status the last response is returned
// so the caller sees the real upstream error.
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !t.retryWrites && !idempotent(req.Method) {
		return t.base.RoundTrip(req)
	}
	backoff := t.backoff

	for attempt := 0; ; attempt++ {
		attemptReq, err := rewind(req, attempt)
		if err != nil {
			return nil, err
		}

		resp, err := t.base.RoundTrip(attemptReq)
		last := attempt >= t.maxRetries

		switch {
		case err != nil:
			if last || req.Context().Err() != nil || !t.inspector.IsRetryable(err) {
				return nil, err
			}
			t.log.Warn("retrying request after network error",
				zap.String("method", req.Method),
				zap.String("url", req.URL.String()),
				zap.Int("attempt", attempt+1),
				zap.Int("max_retries", t.maxRetries),
				zap.Duration("backoff", backoff),
				zap.Error(err))
		case giterror.IsRetryableStatus(resp.StatusCode) && !last:
			t.log.Warn("retrying request after server error",
				zap.String("method", req.Method),
				zap.String("url", req.URL.String()),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1),
				zap.Int("max_retries", t.maxRetries),
				zap.Duration("backoff", backoff))
			drain(resp)
		default:
			return resp, nil
		}

		select {
		case <-t.after(backoff):
			backoff *= 2
			if backoff > maxRetryBackoff {
				backoff = maxRetryBackoff
			}
		case <-req.Context().Done():
			return nil, req.Context().Err()
		}
	}
}

// rateLimitTransport waits out a primary or secondary rate limit and
// repeats the request once.
type rateLimitTransport struct {
	base    http.RoundTripper
	maxWait time.Duration
	log     *zap.Logger
	now     func() time.Time
	after   func(time.Duration) <-chan time.Time
}

func newRateLimitTransport(base http.RoundTripper, maxWait time.Duration, log *zap.Logger) *rateLimitTransport {
	return &rateLimitTransport{
		base:    base,
		maxWait: maxWait,
		log:     log,
		now:     time.Now,
		after:   time.After,
	}
}

// RoundTrip implements http.RoundTripper with rate limit handling.
func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusTooManyRequests {
		return resp, nil
	}

	// Buffer the body so the rate limit message can be inspected and the
	// response still handed back intact.
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))

	var eb errorBody
	_ = json.Unmarshal(body, &eb)
	if !isRateLimited(resp.StatusCode, eb.Message, resp.Header) {
		return resp, nil
	}

	wait := t.retryAfter(resp.Header)
	if t.maxWait > 0 && wait > t.maxWait {
		t.log.Warn("rate limit reset is beyond the maximum wait",
			zap.String("url", req.URL.String()),
			zap.Duration("wait", wait),
			zap.Duration("max_wait", t.maxWait))
		return resp, nil
	}

	t.log.Warn("rate limit exceeded, waiting for reset",
		zap.String("url", req.URL.String()),
		zap.Duration("wait", wait))

	select {
	case <-t.after(wait):
	case <-req.Context().Done():
		return nil, fmt.Errorf("rate limit wait canceled: %w", req.Context().Err())
	}

	retry, err := rewind(req, 1)
	if err != nil {
		return nil, err
	}
	return t.base.RoundTrip(retry)
}

// retryAfter computes the backoff from a rate-limited response. Retry-After
// (secondary limits) wins over X-RateLimit-Reset (primary limits).
func (t *rateLimitTransport) retryAfter(header http.Header) time.Duration {
	if s := header.Get("Retry-After"); s != "" {
		if seconds, err := strconv.Atoi(s); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	if s := header.Get("X-RateLimit-Reset"); s != "" {
		if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
			if d := time.Unix(unix, 0).Sub(t.now()); d > 0 {
				return d
			}
		}
	}
	return 0
}

// rewind returns a request whose body can be sent again.
func rewind(req *http.Request, attempt int) (*http.Request, error) {
	if attempt == 0 {
		return req, nil
	}
	clone := req.Clone(req.Context())
	if req.Body != nil && req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("rewinding request body: %w", err)
		}
		clone.Body = body
	}
	return clone, nil
}

func drain(resp *http.Response) {
	if resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
