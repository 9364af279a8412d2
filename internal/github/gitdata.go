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

// GitDataAPI covers the low level git database: blobs, commits,
// references, tags and trees.
type GitDataAPI interface {
	GetBlob(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	CreateBlob(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	GetCommit(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	CreateCommit(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	GetReference(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	GetAllReferences(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	CreateReference(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	UpdateReference(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	GetTag(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	CreateTag(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	GetTree(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
	CreateTree(ctx context.Context, msg params.Message) (*normalize.Envelope, error)
}

// GitDataService implements GitDataAPI on top of a Caller.
type GitDataService struct {
	caller Caller
}

// GetBlob fetches a blob.
//
//	GET /repos/:user/:repo/git/blobs/:sha
func (s *GitDataService) GetBlob(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "gitdata.getBlob", msg)
}

// CreateBlob creates a blob.
//
//	POST /repos/:user/:repo/git/blobs
func (s *GitDataService) CreateBlob(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "gitdata.createBlob", msg)
}

// GetCommit fetches a git commit.
//
//	GET /repos/:user/:repo/git/commits/:sha
func (s *GitDataService) GetCommit(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "gitdata.getCommit", msg)
}

// CreateCommit creates a git commit.
//
//	POST /repos/:user/:repo/git/commits
func (s *GitDataService) CreateCommit(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "gitdata.createCommit", msg)
}

// GetReference fetches a reference.
//
//	GET /repos/:user/:repo/git/refs/:ref
func (s *GitDataService) GetReference(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "gitdata.getReference", msg)
}

// GetAllReferences lists references.
//
//	GET /repos/:user/:repo/git/refs
func (s *GitDataService) GetAllReferences(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "gitdata.getAllReferences", msg)
}

// CreateReference creates a reference.
//
//	POST /repos/:user/:repo/git/refs
func (s *GitDataService) CreateReference(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "gitdata.createReference", msg)
}

// UpdateReference moves a reference.
//
//	PATCH /repos/:user/:repo/git/refs/:ref
func (s *GitDataService) UpdateReference(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "gitdata.updateReference", msg)
}

// GetTag fetches an annotated tag.
//
//	GET /repos/:user/:repo/git/tags/:sha
func (s *GitDataService) GetTag(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "gitdata.getTag", msg)
}

// CreateTag creates an annotated tag object.
//
//	POST /repos/:user/:repo/git/tags
func (s *GitDataService) CreateTag(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "gitdata.createTag", msg)
}

// GetTree fetches a tree.
//
//	GET /repos/:user/:repo/git/trees/:sha
func (s *GitDataService) GetTree(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "gitdata.getTree", msg)
}

// CreateTree creates a tree.
//
//	POST /repos/:user/:repo/git/trees
func (s *GitDataService) CreateTree(ctx context.Context, msg params.Message) (*normalize.Envelope, error) {
	return s.caller.Call(ctx, "gitdata.createTree", msg)
}
