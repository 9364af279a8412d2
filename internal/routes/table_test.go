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

package routes

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	resterrors "github.com/sirseerhq/sirseer-rest/internal/errors"
)

func TestDefaultTable(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 59, table.Len())
	assert.Equal(t, []string{"events", "gitdata", "issues", "pullRequests"}, table.Groups())
	assert.Len(t, table.Group("events"), 10)
	assert.Len(t, table.Group("gitdata"), 12)
	assert.Len(t, table.Group("issues"), 22)
	assert.Len(t, table.Group("pullRequests"), 15)
}

func TestDefaultTable_PlaceholdersHaveRequiredParams(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)

	for _, route := range table.Routes() {
		for _, name := range route.Placeholders() {
			spec, ok := route.Param(name)
			if assert.True(t, ok, "%s: placeholder %s has no param", route.Name, name) {
				assert.True(t, spec.Required, "%s: placeholder %s is optional", route.Name, name)
			}
		}
	}
}

func TestLookup(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)

	t.Run("known route", func(t *testing.T) {
		route, err := table.Lookup("issues.getRepoIssue")
		require.NoError(t, err)

		assert.Equal(t, MethodGet, route.Method)
		assert.Equal(t, "/repos/:user/:repo/issues/:number", route.Template)
		assert.Equal(t, "issues", route.Group)
		assert.Equal(t, "getRepoIssue", route.Operation)
		assert.Equal(t, []string{"user", "repo", "number"}, route.Placeholders())

		number, ok := route.Param("number")
		require.True(t, ok)
		assert.Equal(t, KindNumber, number.Kind)
		assert.True(t, number.Required)
		require.NotNil(t, number.Pattern)
		assert.Equal(t, "^[0-9]+$", number.Pattern.String())
	})

	t.Run("every listed route resolves", func(t *testing.T) {
		for _, route := range table.Routes() {
			got, err := table.Lookup(route.Name)
			require.NoError(t, err)
			assert.Same(t, route, got)
		}
	})

	t.Run("unknown route", func(t *testing.T) {
		_, err := table.Lookup("issues.doesNotExist")
		require.Error(t, err)
		assert.True(t, errors.Is(err, resterrors.ErrUnknownRoute))
		assert.Contains(t, err.Error(), "issues.doesNotExist")
	})

	t.Run("bare operation name is not a route", func(t *testing.T) {
		_, err := table.Lookup("getRepoIssue")
		assert.ErrorIs(t, err, resterrors.ErrUnknownRoute)
	})
}

func TestUseOverrides(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)

	create, err := table.Lookup("issues.createComment")
	require.NoError(t, err)
	body, ok := create.Param("body")
	require.True(t, ok)
	assert.True(t, body.Required, "override should make body required")

	edit, err := table.Lookup("issues.edit")
	require.NoError(t, err)
	title, ok := edit.Param("title")
	require.True(t, ok)
	assert.False(t, title.Required, "override should make title optional")

	ref, err := table.Lookup("gitdata.createReference")
	require.NoError(t, err)
	refSpec, ok := ref.Param("ref")
	require.True(t, ok)
	require.NotNil(t, refSpec.Pattern)
	assert.True(t, refSpec.Pattern.MatchString("refs/heads/main"))
	assert.False(t, refSpec.Pattern.MatchString("heads/main"))
}

func TestMethodHasBody(t *testing.T) {
	tests := []struct {
		method Method
		want   bool
	}{
		{MethodGet, false},
		{MethodDelete, false},
		{MethodPost, true},
		{MethodPatch, true},
		{MethodPut, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.method.HasBody())
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantMsg string
	}{
		{
			name:    "empty document",
			doc:     "",
			wantMsg: "empty",
		},
		{
			name: "unknown method",
			doc: `
routes:
  - name: a.b
    method: TRACE
    url: /x
`,
			wantMsg: "schema",
		},
		{
			name: "placeholder without param",
			doc: `
routes:
  - name: a.b
    method: GET
    url: /repos/:user
`,
			wantMsg: "placeholder :user",
		},
		{
			name: "placeholder with optional param",
			doc: `
routes:
  - name: a.b
    method: GET
    url: /repos/:user
    params:
      - key: user
        kind: string
`,
			wantMsg: "placeholder :user",
		},
		{
			name: "undefined reference",
			doc: `
routes:
  - name: a.b
    method: GET
    url: /x
    params:
      - use: nope
`,
			wantMsg: "undefined parameter reference",
		},
		{
			name: "bad pattern",
			doc: `
routes:
  - name: a.b
    method: GET
    url: /x
    params:
      - key: q
        kind: string
        pattern: "([a-z"
`,
			wantMsg: "bad pattern",
		},
		{
			name: "duplicate route",
			doc: `
routes:
  - name: a.b
    method: GET
    url: /x
  - name: a.b
    method: POST
    url: /y
`,
			wantMsg: "duplicate route",
		},
		{
			name: "unknown kind",
			doc: `
routes:
  - name: a.b
    method: GET
    url: /x
    params:
      - key: q
        kind: float
`,
			wantMsg: "schema",
		},
		{
			name: "name without group",
			doc: `
routes:
  - name: getThing
    method: GET
    url: /x
`,
			wantMsg: "schema",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, resterrors.ErrInvalidRouteTable)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routes.yaml")
	doc := `
defines:
  params:
    owner:
      kind: string
      required: true
routes:
  - name: repos.get
    method: GET
    url: /repos/:owner/:repo
    params:
      - use: owner
      - key: repo
        kind: string
        required: true
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	table, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	route, err := table.Lookup("repos.get")
	require.NoError(t, err)
	assert.Equal(t, "repos", route.Group)
	assert.Equal(t, []string{"owner", "repo"}, route.Placeholders())

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "number", KindNumber.String())
	assert.Equal(t, "date", KindDate.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}
