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

// IssuesAPI covers issues, issue comments, issue events, labels and
// milestones.
type IssuesAPI interface {
	GetAll(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	RepoIssues(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	GetRepoIssue(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	Create(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	Edit(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	GetComments(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	GetComment(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	CreateComment(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	EditComment(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	DeleteComment(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	GetEvents(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	GetRepoEvents(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	GetEvent(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	GetLabels(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	GetLabel(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	CreateLabel(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	UpdateLabel(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	GetAllMilestones(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	GetMilestone(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	CreateMilestone(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	UpdateMilestone(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	DeleteMilestone(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
}

// IssuesService implements IssuesAPI on top of a Caller.
type IssuesService struct {
	caller Caller
}

// GetAll lists issues assigned to the authenticated user.
//
//	GET /issues
func (s *IssuesService) GetAll(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "issues.getAll", msg)
}

// RepoIssues lists issues for a repository.
//
//	GET /repos/:user/:repo/issues
func (s *IssuesService) RepoIssues(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "issues.repoIssues", msg)
}

// GetRepoIssue fetches a single issue.
//
//	GET /repos/:user/:repo/issues/:number
func (s *IssuesService) GetRepoIssue(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "issues.getRepoIssue", msg)
}

// Create opens an issue.
//
//	POST /repos/:user/:repo/issues
func (s *IssuesService) Create(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "issues.create", msg)
}

// Edit edits an issue.
//
//	PATCH /repos/:user/:repo/issues/:number
func (s *IssuesService) Edit(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "issues.edit", msg)
}

// GetComments lists comments on an issue.
//
//	GET /repos/:user/:repo/issues/:number/comments
func (s *IssuesService) GetComments(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "issues.getComments", msg)
}

// GetComment fetches a single issue comment.
//
//	GET /repos/:user/:repo/issues/comments/:id
func (s *IssuesService) GetComment(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "issues.getComment", msg)
}

// CreateComment comments on an issue.
//
//	POST /repos/:user/:repo/issues/:number/comments
func (s *IssuesService) CreateComment(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "issues.createComment", msg)
}

// EditComment edits an issue comment.
//
//	PATCH /repos/:user/:repo/issues/comments/:id
func (s *IssuesService) EditComment(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "issues.editComment", msg)
}

// DeleteComment deletes an issue comment.
//
//	DELETE /repos/:user/:repo/issues/comments/:id
func (s *IssuesService) DeleteComment(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "issues.deleteComment", msg)
}

// GetEvents lists events for an issue.
//
//	GET /repos/:user/:repo/issues/:number/events
func (s *IssuesService) GetEvents(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "issues.getEvents", msg)
}

// GetRepoEvents lists issue events for a repository.
//
//	GET /repos/:user/:repo/issues/events
func (s *IssuesService) GetRepoEvents(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "issues.getRepoEvents", msg)
}

// GetEvent fetches a single issue event.
//
//	GET /repos/:user/:repo/issues/events/:id
func (s *IssuesService) GetEvent(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "issues.getEvent", msg)
}

// GetLabels lists labels for a repository.
//
//	GET /repos/:user/:repo/labels
func (s *IssuesService) GetLabels(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "issues.getLabels", msg)
}

// GetLabel fetches a single label.
//
//	GET /repos/:user/:repo/labels/:name
func (s *IssuesService) GetLabel(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "issues.getLabel", msg)
}

// CreateLabel creates a label.
//
//	POST /repos/:user/:repo/labels
func (s *IssuesService) CreateLabel(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "issues.createLabel", msg)
}

// UpdateLabel updates a label.
//
//	PATCH /repos/:user/:repo/labels/:name
func (s *IssuesService) UpdateLabel(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "issues.updateLabel", msg)
}

// GetAllMilestones lists milestones for a repository.
//
//	GET /repos/:user/:repo/milestones
func (s *IssuesService) GetAllMilestones(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "issues.getAllMilestones", msg)
}

// GetMilestone fetches a single milestone.
//
//	GET /repos/:user/:repo/milestones/:number
func (s *IssuesService) GetMilestone(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "issues.getMilestone", msg)
}

// CreateMilestone creates a milestone.
//
//	POST /repos/:user/:repo/milestones
func (s *IssuesService) CreateMilestone(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "issues.createMilestone", msg)
}

// UpdateMilestone updates a milestone.
//
//	PATCH /repos/:user/:repo/milestones/:number
func (s *IssuesService) UpdateMilestone(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "issues.updateMilestone", msg)
}

// DeleteMilestone deletes a milestone.
//
//	DELETE /repos/:user/:repo/milestones/:number
func (s *IssuesService) DeleteMilestone(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "issues.deleteMilestone", msg)
}
