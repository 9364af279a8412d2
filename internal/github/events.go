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

	"github.com/sirseerhq/sirseer-rest/internal/normalize"
	"github.com/sirseerhq/sirseer-rest/internal/params"
)

// EventsAPI covers the activity event feeds.
type EventsAPI interface {
	Get(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	GetFromRepo(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	GetFromRepoIssues(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	GetFromRepoNetwork(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	GetFromOrg(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	GetReceived(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	GetReceivedPublic(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	GetFromUser(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	GetFromUserPublic(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	GetFromUserOrg(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
}

// EventsService implements EventsAPI on top of a Caller.
type EventsService struct {
	caller Caller
}

// Get lists public events.
//
//	GET /events
func (s *EventsService) Get(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "events.get", msg)
}

// GetFromRepo lists repository events.
//
//	GET /repos/:user/:repo/events
func (s *EventsService) GetFromRepo(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "events.getFromRepo", msg)
}

// GetFromRepoIssues lists issue events for a repository.
//
//	GET /repos/:user/:repo/issues/events
func (s *EventsService) GetFromRepoIssues(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "events.getFromRepoIssues", msg)
}

// GetFromRepoNetwork lists public events for a network of repositories.
//
//	GET /networks/:user/:repo/events
func (s *EventsService) GetFromRepoNetwork(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "events.getFromRepoNetwork", msg)
}

// GetFromOrg lists public events for an organization.
//
//	GET /orgs/:org/events
func (s *EventsService) GetFromOrg(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "events.getFromOrg", msg)
}

// GetReceived lists events that a user has received.
//
//	GET /users/:user/received_events
func (s *EventsService) GetReceived(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "events.getReceived", msg)
}

// GetReceivedPublic lists public events that a user has received.
//
//	GET /users/:user/received_events/public
func (s *EventsService) GetReceivedPublic(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "events.getReceivedPublic", msg)
}

// GetFromUser lists events performed by a user.
//
//	GET /users/:user/events
func (s *EventsService) GetFromUser(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "events.getFromUser", msg)
}

// GetFromUserPublic lists public events performed by a user.
//
//	GET /users/:user/events/public
func (s *EventsService) GetFromUserPublic(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "events.getFromUserPublic", msg)
}

// GetFromUserOrg lists a user's organization dashboard events.
//
//	GET /users/:user/events/orgs/:org
func (s *EventsService) GetFromUserOrg(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "events.getFromUserOrg", msg)
}
