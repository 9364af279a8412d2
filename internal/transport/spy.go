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
	"sync"
)

// Reply is one scripted Spy outcome.
type Reply struct {
	Response *Response
	Err      error
}

// Spy is a Transport for tests. It records every request it receives
// and answers with scripted replies in order; once the script runs out
// it answers 200 with an empty JSON object.
type Spy struct {
	mu       sync.Mutex
	requests []*Request
	replies  []Reply
}

// NewSpy returns a Spy that will answer with replies in order.
func NewSpy(replies ...Reply) *Spy {
	return &Spy{replies: replies}
}

// ReplyJSON queues a response with the given status and body.
func (s *Spy) ReplyJSON(status int, body string, header http.Header) *Spy {
	if header == nil {
		header = http.Header{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, Reply{Response: &Response{
		StatusCode: status,
		Header:     header,
		Body:       []byte(body),
	}})
	return s
}

// Fail queues an error.
func (s *Spy) Fail(err error) *Spy {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, Reply{Err: err})
	return s
}

// Send implements Transport.
func (s *Spy) Send(ctx context.Context, req *Request) (*Response, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	var reply Reply
	if len(s.replies) > 0 {
		reply = s.replies[0]
		s.replies = s.replies[1:]
	} else {
		reply = Reply{Response: &Response{StatusCode: http.StatusOK, Header: http.Header{}, Body: []byte("{}")}}
	}
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return reply.Response, reply.Err
}

// Requests returns the recorded requests in arrival order.
func (s *Spy) Requests() []*Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Request(nil), s.requests...)
}

// Calls returns the number of Send invocations.
func (s *Spy) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Last returns the most recent request, or nil.
func (s *Spy) Last() *Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	return s.requests[len(s.requests)-1]
}
