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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	resterrors "github.com/sirseerhq/sirseer-rest/internal/errors"
	"github.com/sirseerhq/sirseer-rest/pkg/version"
)

const (
	// DefaultBaseURL is the public GitHub REST API.
	DefaultBaseURL = "https://api.github.com"

	// MediaType pins the v3 representation.
	MediaType = "application/vnd.github.v3+json"

	defaultMaxResponseBytes = 10 * 1024 * 1024
	defaultRetryBackoff     = time.Second
	maxRetryBackoff         = 30 * time.Second
)

// Options configures the HTTP transport. The zero value talks to
// api.github.com anonymously with no retries and no pacing.
type Options struct {
	// BaseURL is the API root, e.g. https://github.example.com/api/v3
	// for GitHub Enterprise.
	BaseURL string

	// Token is sent as a bearer token. Empty means anonymous.
	Token string

	// UserAgent overrides the default sirseer-rest/<version>.
	UserAgent string

	// Timeout bounds a single Send including retries and waits.
	Timeout time.Duration

	// MaxRetries is the number of extra attempts for network failures
	// and 502/503/504 responses.
	MaxRetries int

	// RetryBackoff is the first retry delay; it doubles per attempt.
	RetryBackoff time.Duration

	// RetryWrites extends retries to POST and PATCH. A gateway error may
	// arrive after GitHub applied the write, so a retry can repeat it.
	RetryWrites bool

	// RequestsPerSecond paces outgoing requests when positive.
	RequestsPerSecond float64
	Burst             int

	// MaxResponseBytes caps the body size read from a response.
	MaxResponseBytes int64

	// AutoWait sleeps until the rate limit window resets and repeats the
	// request once, provided the wait is at most MaxWait.
	AutoWait bool
	MaxWait  time.Duration

	// HTTPClient supplies the underlying round tripper. Defaults to a
	// pooled http.Transport.
	HTTPClient *http.Client

	Logger *zap.Logger
}

// HTTP is the production Transport backed by net/http.
type HTTP struct {
	baseURL *url.URL
	client  *http.Client
	timeout time.Duration
	log     *zap.Logger
}

// NewHTTP builds an HTTP transport. The round tripper chain is, from the
// outside in: token auth, rate limit wait, retry, headers and pacing,
// then the network.
func NewHTTP(opts Options) (*HTTP, error) {
	raw := opts.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL %q: %w", raw, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" || base.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q: must be an absolute http(s) URL", raw)
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	var rt http.RoundTripper
	if opts.HTTPClient != nil && opts.HTTPClient.Transport != nil {
		rt = opts.HTTPClient.Transport
	} else {
		rt = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			MaxConnsPerHost:     10,
			IdleConnTimeout:     90 * time.Second,
			ForceAttemptHTTP2:   true,
		}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = version.UserAgent()
	}
	maxBytes := opts.MaxResponseBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxResponseBytes
	}
	headers := &headerTransport{
		base:      rt,
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		headers.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	rt = headers

	if opts.MaxRetries > 0 {
		backoff := opts.RetryBackoff
		if backoff <= 0 {
			backoff = defaultRetryBackoff
		}
		rt = newRetryTransport(rt, opts.MaxRetries, backoff, opts.RetryWrites, log)
	}

	if opts.AutoWait {
		rt = newRateLimitTransport(rt, opts.MaxWait, log)
	}

	if opts.Token != "" {
		rt = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}),
			Base:   rt,
		}
	}

	client := &http.Client{Transport: rt}
	if opts.HTTPClient != nil {
		client.CheckRedirect = opts.HTTPClient.CheckRedirect
		client.Jar = opts.HTTPClient.Jar
	}

	return &HTTP{
		baseURL: base,
		client:  client,
		timeout: opts.Timeout,
		log:     log,
	}, nil
}

// BaseURL returns the API root requests are resolved against.
func (t *HTTP) BaseURL() string {
	return t.baseURL.String()
}

// Send performs req. Non-2xx responses are returned as *HTTPError;
// connection level failures wrap ErrNetworkFailure.
func (t *HTTP) Send(ctx context.Context, req *Request) (*Response, error) {
	target, err := t.resolve(req)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	callCtx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(callCtx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s %s: %w", req.Method, target, ctx.Err())
		}
		return nil, fmt.Errorf("%s %s: %w: %w", req.Method, target, resterrors.ErrNetworkFailure, unwrapURLError(err))
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		if ctx.Err() == nil && !errors.Is(err, errResponseTooLarge) {
			err = fmt.Errorf("%w: %w", resterrors.ErrNetworkFailure, err)
		}
		return nil, fmt.Errorf("%s %s: reading response: %w", req.Method, target, err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newHTTPError(req.Method, target, resp)
	}
	return resp, nil
}

// resolve joins the request path onto the base URL. Absolute URLs, such
// as pagination links, are used as they are provided they share the
// base URL's scheme and host; anything else would receive the token.
func (t *HTTP) resolve(req *Request) (string, error) {
	if strings.HasPrefix(req.Path, "http://") || strings.HasPrefix(req.Path, "https://") {
		u, err := url.Parse(req.Path)
		if err != nil {
			return "", fmt.Errorf("invalid request URL %q: %w", req.Path, err)
		}
		if !strings.EqualFold(u.Scheme, t.baseURL.Scheme) || !strings.EqualFold(u.Host, t.baseURL.Host) {
			return "", fmt.Errorf("%s %s: %w %s", req.Method, u.Redacted(), resterrors.ErrForeignURL, t.baseURL)
		}
		if len(req.Query) > 0 {
			q := u.Query()
			for k, vs := range req.Query {
				q[k] = vs
			}
			u.RawQuery = q.Encode()
		}
		return u.String(), nil
	}
	if !strings.HasPrefix(req.Path, "/") {
		return "", fmt.Errorf("invalid request path %q: must start with /", req.Path)
	}
	return t.baseURL.String() + req.URL(), nil
}

func unwrapURLError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}

var errResponseTooLarge = errors.New("response size exceeded limit")

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		// Only fail when there is more to read.
		var probe [1]byte
		if n, _ := lr.ReadCloser.Read(probe[:]); n == 0 {
			return 0, io.EOF
		}
		return 0, fmt.Errorf("%w of %d bytes", errResponseTooLarge, lr.limit)
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)
	return n, err
}

// headerTransport sets the standard API headers, paces requests and
// limits response sizes.
type headerTransport struct {
	base      http.RoundTripper
	userAgent string
	limiter   *rate.Limiter
	maxBytes  int64
}

// RoundTrip implements http.RoundTripper
func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	// Clone the request to avoid modifying the original
	req = req.Clone(req.Context())
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", MediaType)
	}
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      t.maxBytes,
		}
	}
	return resp, nil
}
