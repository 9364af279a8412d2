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

// API groups the per-endpoint wrappers. Each field is assembled at
// construction time from a shared Caller.
//
//	api := github.NewAPI(client)
//	env, err := api.Issues.GetRepoIssue(ctx, params.Message{"user": "octocat", "repo": "hello-world", "number": 42})
type API struct {
	Events       EventsAPI
	GitData      GitDataAPI
	Issues       IssuesAPI
	PullRequests PullRequestsAPI
}

// NewAPI builds the group services on top of caller.
func NewAPI(caller Caller) *API {
	return &API{
		Events:       &EventsService{caller: caller},
		GitData:      &GitDataService{caller: caller},
		Issues:       &IssuesService{caller: caller},
		PullRequests: &PullRequestsService{caller: caller},
	}
}
