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
	"sync"

	resterrors "github.com/sirseerhq/sirseer-rest/internal/errors"
	"github.com/sirseerhq/sirseer-rest/internal/normalize"
	"github.com/sirseerhq/sirseer-rest/internal/params"
)

// MockCaller is a Caller for testing code built on the API wrappers.
type MockCaller struct {
	mu sync.Mutex

	// Envelope to return. Defaults to an empty object.
	Envelope *normalize.Envelope

	// Error to return
	Error error

	// Behavior flags
	ShouldFailAuth     bool
	ShouldFailNetwork  bool
	ShouldFailNotFound bool

	// Track calls for verification
	CallCount   int
	LastRoute   string
	LastMessage params.Message
}

// NewMockCaller creates a mock caller returning an empty envelope.
func NewMockCaller() *MockCaller {
	return &MockCaller{
		Envelope: &normalize.Envelope{Data: map[string]any{}, Meta: normalize.Meta{}},
	}
}

// Call implements Caller
func (m *MockCaller) Call(ctx context.Context, route string, msg params.Message) (*normalize.Envelope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallCount++
	m.LastRoute = route
	m.LastMessage = msg

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if m.ShouldFailAuth {
		return nil, fmt.Errorf("%s: authentication failed: %w", route, resterrors.ErrInvalidToken)
	}
	if m.ShouldFailNetwork {
		return nil, fmt.Errorf("%s: network timeout: %w", route, resterrors.ErrNetworkFailure)
	}
	if m.ShouldFailNotFound {
		return nil, fmt.Errorf("%s: %w", route, resterrors.ErrNotFound)
	}
	if m.Error != nil {
		return nil, m.Error
	}
	return m.Envelope, nil
}

// MockCallerOption allows configuring the mock caller
type MockCallerOption func(*MockCaller)

// WithEnvelope sets the envelope to return
func WithEnvelope(env *normalize.Envelope) MockCallerOption {
	return func(m *MockCaller) {
		m.Envelope = env
	}
}

// WithError makes the caller return a specific error
func WithError(err error) MockCallerOption {
	return func(m *MockCaller) {
		m.Error = err
	}
}

// WithAuthFailure makes the caller simulate authentication failure
func WithAuthFailure() MockCallerOption {
	return func(m *MockCaller) {
		m.ShouldFailAuth = true
	}
}

// NewMockCallerWithOptions creates a mock caller with options
func NewMockCallerWithOptions(opts ...MockCallerOption) *MockCaller {
	mock := NewMockCaller()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}
