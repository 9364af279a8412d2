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

import "time"

// The types below cover the common resources returned by the wrapped
// endpoints. Decode an envelope into them with Envelope.Decode; fields
// not listed are ignored.

// User is the compact user object embedded in most resources.
type User struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
	Type  string `json:"type,omitempty"`
}

// Label is an issue label.
type Label struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Issue is a repository issue.
type Issue struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	Body      string     `json:"body,omitempty"`
	State     string     `json:"state"`
	User      User       `json:"user"`
	Labels    []Label    `json:"labels,omitempty"`
	Assignee  *User      `json:"assignee,omitempty"`
	Comments  int        `json:"comments"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

// PullRequest is a pull request. Head and Base name the branches.
type PullRequest struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	State     string     `json:"state"`
	User      User       `json:"user"`
	Head      Branch     `json:"head"`
	Base      Branch     `json:"base"`
	Merged    bool       `json:"merged"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	MergedAt  *time.Time `json:"merged_at,omitempty"`
}

// Branch is one side of a pull request.
type Branch struct {
	Label string `json:"label"`
	Ref   string `json:"ref"`
	SHA   string `json:"sha"`
}

// Reference is a git reference such as refs/heads/main.
type Reference struct {
	Ref    string    `json:"ref"`
	URL    string    `json:"url"`
	Object GitObject `json:"object"`
}

// GitObject is the target of a reference or tag.
type GitObject struct {
	Type string `json:"type"`
	SHA  string `json:"sha"`
	URL  string `json:"url"`
}

// Event is an activity feed entry.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Actor     User      `json:"actor"`
	Public    bool      `json:"public"`
	CreatedAt time.Time `json:"created_at"`
}
