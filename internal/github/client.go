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

package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sirseerhq/sirseer-rest/internal/logging"
	"github.com/sirseerhq/sirseer-rest/internal/normalize"
	"github.com/sirseerhq/sirseer-rest/internal/params"
	"github.com/sirseerhq/sirseer-rest/internal/request"
	"github.com/sirseerhq/sirseer-rest/internal/routes"
	"github.com/sirseerhq/sirseer-rest/internal/transport"
)

// Caller performs a named API call. *Client implements it; MockCaller
// stands in for it in tests.
type Caller interface {
	Call(ctx context.Context, route string, msg params.Message) (*normalize.Envelope, error)
}

// Client runs every call through the same pipeline: route lookup,
// parameter validation, request building, transport and normalization.
// It is safe for concurrent use.
type Client struct {
	table     *routes.Table
	transport transport.Transport
	header    http.Header
	log       *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTable replaces the embedded default route table.
func WithTable(table *routes.Table) Option {
	return func(c *Client) {
		c.table = table
	}
}

// WithLogger sets the logger used when the call context carries none.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.header.Add(key, value)
	}
}

// New creates a Client that sends requests through t.
func New(t transport.Transport, opts ...Option) (*Client, error) {
	if t == nil {
		return nil, fmt.Errorf("github: transport is required")
	}
	c := &Client{
		transport: t,
		header:    http.Header{},
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.table == nil {
		table, err := routes.Default()
		if err != nil {
			return nil, err
		}
		c.table = table
	}
	return c, nil
}

// Table returns the route table the client dispatches on.
func (c *Client) Table() *routes.Table {
	return c.table
}

// Build validates msg for the named route and returns the request that
// Call would send, without sending it.
func (c *Client) Build(name string, msg params.Message) (*routes.Route, *transport.Request, error) {
	route, err := c.table.Lookup(name)
	if err != nil {
		return nil, nil, err
	}
	if err := params.Validate(route, msg); err != nil {
		return nil, nil, err
	}
	req, err := request.Build(route, msg)
	if err != nil {
		return nil, nil, err
	}
	return route, req, nil
}

// Call performs the named route with msg. Lookup and validation errors
// are returned before the transport is touched. Transport errors are
// returned unchanged. A response that cannot be normalized yields a
// *NormalizationError carrying the raw response.
func (c *Client) Call(ctx context.Context, name string, msg params.Message) (*normalize.Envelope, error) {
	route, req, err := c.Build(name, msg)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, route.Name, req)
}

// Result is the outcome of an asynchronous call.
type Result struct {
	Envelope *normalize.Envelope
	Err      error
}

// Go runs Call in a new goroutine. The returned channel delivers exactly
// one Result and is then closed.
func (c *Client) Go(ctx context.Context, name string, msg params.Message) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		env, err := c.Call(ctx, name, msg)
		ch <- Result{Envelope: env, Err: err}
	}()
	return ch
}

func (c *Client) send(ctx context.Context, name string, req *transport.Request) (*normalize.Envelope, error) {
	if len(c.header) > 0 {
		if req.Header == nil {
			req.Header = http.Header{}
		}
		for k, vs := range c.header {
			if req.Header.Get(k) == "" {
				req.Header[k] = append([]string(nil), vs...)
			}
		}
	}

	log := logging.FromContext(ctx, c.log).With(
		zap.String("call_id", uuid.NewString()),
		zap.String("route", name),
		zap.String("method", req.Method),
		zap.String("path", req.Path),
	)
	start := time.Now()

	resp, err := c.transport.Send(ctx, req)
	if err != nil {
		log.Warn("call failed", zap.Duration("duration", time.Since(start)), zap.Error(err))
		return nil, err
	}

	env, err := normalize.Normalize(resp.Body, resp.Header)
	if err != nil {
		log.Warn("response could not be normalized",
			zap.Int("status", resp.StatusCode),
			zap.Error(err))
		return nil, &NormalizationError{Route: name, Err: err, Response: resp}
	}

	log.Debug("call finished",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
		zap.Int("bytes", len(resp.Body)))
	return env, nil
}

// NormalizationError reports a successful round trip whose body was not
// valid JSON. It is an internal-server-error class failure.
type NormalizationError struct {
	Route    string
	Err      error
	Response *transport.Response
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("%s: normalizing response: %v", e.Route, e.Err)
}

func (e *NormalizationError) Unwrap() error {
	return e.Err
}
