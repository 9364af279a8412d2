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

package request

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirseerhq/sirseer-rest/internal/params"
	"github.com/sirseerhq/sirseer-rest/internal/routes"
)

func defaultTable(t *testing.T) *routes.Table {
	t.Helper()
	table, err := routes.Default()
	require.NoError(t, err)
	return table
}

func lookup(t *testing.T, table *routes.Table, name string) *routes.Route {
	t.Helper()
	route, err := table.Lookup(name)
	require.NoError(t, err)
	return route
}

func TestBuild_GetRepoIssue(t *testing.T) {
	route := lookup(t, defaultTable(t), "issues.getRepoIssue")

	req, err := Build(route, params.Message{"user": "octocat", "repo": "hello-world", "number": 42})
	require.NoError(t, err)

	assert.Equal(t, "GET", req.Method)
	assert.Equal(t, "/repos/octocat/hello-world/issues/42", req.Path)
	assert.Empty(t, req.Query)
	assert.Nil(t, req.Body)
	assert.Equal(t, "/repos/octocat/hello-world/issues/42", req.URL())
}

func TestBuild_NoPlaceholdersRemain(t *testing.T) {
	table := defaultTable(t)

	for _, route := range table.Routes() {
		msg := params.Message{}
		for _, spec := range route.Params {
			if !spec.Required {
				continue
			}
			switch spec.Kind {
			case routes.KindNumber:
				msg[spec.Key] = 1
			case routes.KindBoolean:
				msg[spec.Key] = false
			case routes.KindJSON:
				msg[spec.Key] = map[string]any{}
			case routes.KindArray:
				msg[spec.Key] = []string{"a"}
			case routes.KindDate:
				msg[spec.Key] = "2024-01-01T00:00:00Z"
			default:
				msg[spec.Key] = "v-" + spec.Key
			}
		}

		req, err := Build(route, msg)
		require.NoError(t, err, route.Name)
		assert.NotContains(t, req.Path, ":", route.Name)
		for _, name := range route.Placeholders() {
			assert.NotContains(t, req.Query, name, "%s: path param %s leaked to query", route.Name, name)
			if body, ok := req.Body.(map[string]any); ok {
				assert.NotContains(t, body, name, "%s: path param %s leaked to body", route.Name, name)
			}
		}
	}
}

func TestBuild_QueryForGet(t *testing.T) {
	route := lookup(t, defaultTable(t), "issues.repoIssues")

	req, err := Build(route, params.Message{
		"user":       "octocat",
		"repo":       "hello-world",
		"state":      "open",
		"labels":     "bug,ui",
		"page":       2,
		"per_page":   "50",
		"undeclared": "dropped",
	})
	require.NoError(t, err)

	assert.Equal(t, "/repos/octocat/hello-world/issues", req.Path)
	assert.Nil(t, req.Body)
	assert.Equal(t, url.Values{
		"state":    {"open"},
		"labels":   {"bug,ui"},
		"page":     {"2"},
		"per_page": {"50"},
	}, req.Query)
	assert.Equal(t, "/repos/octocat/hello-world/issues?labels=bug%2Cui&page=2&per_page=50&state=open", req.URL())
}

func TestBuild_PerPageCapped(t *testing.T) {
	route := lookup(t, defaultTable(t), "events.get")

	req, err := Build(route, params.Message{"per_page": 500})
	require.NoError(t, err)
	assert.Equal(t, "100", req.Query.Get("per_page"))

	req, err = Build(route, params.Message{"per_page": 30})
	require.NoError(t, err)
	assert.Equal(t, "30", req.Query.Get("per_page"))
}

func TestBuild_BodyForPost(t *testing.T) {
	route := lookup(t, defaultTable(t), "issues.create")

	req, err := Build(route, params.Message{
		"user":      "octocat",
		"repo":      "hello-world",
		"title":     "Found a bug",
		"milestone": "3",
		"labels":    `["bug","ui"]`,
	})
	require.NoError(t, err)

	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "/repos/octocat/hello-world/issues", req.Path)
	assert.Empty(t, req.Query)

	data, err := json.Marshal(req.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Found a bug","milestone":3,"labels":["bug","ui"]}`, string(data))
}

func TestBuild_BooleanAndArrayBody(t *testing.T) {
	table := defaultTable(t)

	req, err := Build(lookup(t, table, "gitdata.updateReference"), params.Message{
		"user": "o", "repo": "r", "ref": "heads/feature/x", "sha": "abc123", "force": "true",
	})
	require.NoError(t, err)
	assert.Equal(t, "PATCH", req.Method)
	assert.Equal(t, "/repos/o/r/git/refs/heads/feature/x", req.Path)
	data, _ := json.Marshal(req.Body)
	assert.JSONEq(t, `{"sha":"abc123","force":true}`, string(data))

	req, err = Build(lookup(t, table, "gitdata.createCommit"), params.Message{
		"user": "o", "repo": "r", "message": "msg", "tree": "t1", "parents": "p1,p2",
	})
	require.NoError(t, err)
	data, _ = json.Marshal(req.Body)
	assert.JSONEq(t, `{"message":"msg","tree":"t1","parents":["p1","p2"]}`, string(data))
}

func TestBuild_DottedKeysNest(t *testing.T) {
	route := lookup(t, defaultTable(t), "gitdata.createTag")

	req, err := Build(route, params.Message{
		"user": "o", "repo": "r", "tag": "v1.0.0", "message": "release", "object": "abc", "type": "commit",
		"tagger.name": "Mona", "tagger.email": "mona@example.com", "tagger.date": "2024-01-02T03:04:05Z",
	})
	require.NoError(t, err)

	data, err := json.Marshal(req.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"tag": "v1.0.0",
		"message": "release",
		"object": "abc",
		"type": "commit",
		"tagger": {"name": "Mona", "email": "mona@example.com", "date": "2024-01-02T03:04:05Z"}
	}`, string(data))
}

func TestBuild_DeleteUsesQuery(t *testing.T) {
	route := lookup(t, defaultTable(t), "issues.deleteComment")

	req, err := Build(route, params.Message{"user": "o", "repo": "r", "id": 99})
	require.NoError(t, err)
	assert.Equal(t, "DELETE", req.Method)
	assert.Equal(t, "/repos/o/r/issues/comments/99", req.Path)
	assert.Nil(t, req.Body)
}

func TestBuild_PaginationStaysOnQueryForPost(t *testing.T) {
	table, err := routes.Load([]byte(`
routes:
  - name: search.run
    method: POST
    url: /search/:scope
    params:
      - key: scope
        kind: string
        required: true
      - key: q
        kind: string
      - key: page
        kind: number
      - key: per_page
        kind: number
`))
	require.NoError(t, err)

	req, err := Build(lookup(t, table, "search.run"), params.Message{"scope": "code", "q": "x", "page": 4, "per_page": 10})
	require.NoError(t, err)
	assert.Equal(t, url.Values{"page": {"4"}, "per_page": {"10"}}, req.Query)
	assert.Equal(t, map[string]any{"q": "x"}, req.Body)
}

func TestBuild_EscapesPathValues(t *testing.T) {
	route := lookup(t, defaultTable(t), "issues.getLabel")

	req, err := Build(route, params.Message{"user": "o", "repo": "r", "name": "needs review?"})
	require.NoError(t, err)
	assert.Equal(t, "/repos/o/r/labels/needs%20review%3F", req.Path)
	assert.False(t, strings.Contains(req.Path, " "))
}

func TestBuild_MissingPlaceholder(t *testing.T) {
	route := lookup(t, defaultTable(t), "issues.getRepoIssue")

	_, err := Build(route, params.Message{"user": "o", "number": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ":repo")
}
