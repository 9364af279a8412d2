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

// PullRequestsAPI covers pull requests and their review comments.
type PullRequestsAPI interface {
	GetAll(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	Get(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	Create(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	CreateFromIssue(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	Update(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	GetCommits(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	GetFiles(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	GetMerged(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	Merge(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	GetComments(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	GetComment(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	CreateComment(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	CreateCommentReply(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	UpdateComment(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	DeleteComment(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
}

// PullRequestsService implements PullRequestsAPI on top of a Caller.
type PullRequestsService struct {
	caller Caller
}

// GetAll lists pull requests.
//
//	GET /repos/:user/:repo/pulls
func (s *PullRequestsService) GetAll(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "pullRequests.getAll", msg)
}

// Get fetches a single pull request.
//
//	GET /repos/:user/:repo/pulls/:number
func (s *PullRequestsService) Get(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "pullRequests.get", msg)
}

// Create opens a pull request.
//
//	POST /repos/:user/:repo/pulls
func (s *PullRequestsService) Create(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "pullRequests.create", msg)
}

// CreateFromIssue turns an existing issue into a pull request.
//
//	POST /repos/:user/:repo/pulls
func (s *PullRequestsService) CreateFromIssue(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "pullRequests.createFromIssue", msg)
}

// Update updates a pull request.
//
//	PATCH /repos/:user/:repo/pulls/:number
func (s *PullRequestsService) Update(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "pullRequests.update", msg)
}

// GetCommits lists commits on a pull request.
//
//	GET /repos/:user/:repo/pulls/:number/commits
func (s *PullRequestsService) GetCommits(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "pullRequests.getCommits", msg)
}

// GetFiles lists files changed by a pull request.
//
//	GET /repos/:user/:repo/pulls/:number/files
func (s *PullRequestsService) GetFiles(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "pullRequests.getFiles", msg)
}

// GetMerged reports whether a pull request has been merged.
//
//	GET /repos/:user/:repo/pulls/:number/merge
func (s *PullRequestsService) GetMerged(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "pullRequests.getMerged", msg)
}

// Merge merges a pull request.
//
//	PUT /repos/:user/:repo/pulls/:number/merge
func (s *PullRequestsService) Merge(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "pullRequests.merge", msg)
}

// GetComments lists review comments on a pull request.
//
//	GET /repos/:user/:repo/pulls/:number/comments
func (s *PullRequestsService) GetComments(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "pullRequests.getComments", msg)
}

// GetComment fetches a single review comment.
//
//	GET /repos/:user/:repo/pulls/comments/:number
func (s *PullRequestsService) GetComment(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "pullRequests.getComment", msg)
}

// CreateComment adds a review comment.
//
//	POST /repos/:user/:repo/pulls/:number/comments
func (s *PullRequestsService) CreateComment(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "pullRequests.createComment", msg)
}

// CreateCommentReply replies to a review comment.
//
//	POST /repos/:user/:repo/pulls/:number/comments
func (s *PullRequestsService) CreateCommentReply(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "pullRequests.createCommentReply", msg)
}

// UpdateComment edits a review comment.
//
//	PATCH /repos/:user/:repo/pulls/comments/:number
func (s *PullRequestsService) UpdateComment(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "pullRequests.updateComment", msg)
}

// DeleteComment deletes a review comment.
//
//	DELETE /repos/:user/:repo/pulls/comments/:number
func (s *PullRequestsService) DeleteComment(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "pullRequests.deleteComment", msg)
}
