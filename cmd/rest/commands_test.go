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
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	resterrors "github.com/sirseerhq/sirseer-rest/internal/errors"
	"github.com/sirseerhq/sirseer-rest/test/testutil"
)

// cliResult captures one in-process run of the root command.
type cliResult struct {
	stdout string
	stderr string
	err    error
}

// isolateEnv keeps the developer's config and environment out of tests.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GITHUB_TOKEN", "test-token")
	for _, key := range []string{
		"GITHUB_API_ENDPOINT",
		"SIRSEER_TIMEOUT",
		"SIRSEER_MAX_RETRIES",
		"SIRSEER_RATE_LIMIT_AUTO_WAIT",
		"SIRSEER_LOG_LEVEL",
		"SIRSEER_ROUTES_FILE",
	} {
		t.Setenv(key, "")
	}
}

func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()
	isolateEnv(t)

	var stdout, stderr bytes.Buffer
	root := newRootCommand()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(""))

	err := root.Execute()
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestRoutesCommand(t *testing.T) {
	result := runCLI(t, "routes", "--group", "issues")
	if result.err != nil {
		t.Fatalf("routes failed: %v", result.err)
	}

	testutil.AssertContainsString(t, result.stdout, "issues.getRepoIssue")
	testutil.AssertContainsString(t, result.stdout, "/repos/:user/:repo/issues/:number")
	if strings.Contains(result.stdout, "pullRequests.") {
		t.Error("group filter leaked routes from another group")
	}
}

func TestRoutesCommand_JSON(t *testing.T) {
	result := runCLI(t, "routes", "--group", "gitdata", "--json")
	if result.err != nil {
		t.Fatalf("routes failed: %v", result.err)
	}

	lines := strings.Split(strings.TrimSpace(result.stdout), "\n")
	if len(lines) == 0 {
		t.Fatal("expected at least one route")
	}
	for i, line := range lines {
		var info routeInfo
		if err := json.Unmarshal([]byte(line), &info); err != nil {
			t.Fatalf("line %d: invalid JSON: %v", i, err)
		}
		if !strings.HasPrefix(info.Name, "gitdata.") {
			t.Errorf("line %d: unexpected route %s", i, info.Name)
		}
		if info.Method == "" || info.Template == "" {
			t.Errorf("line %d: incomplete route %+v", i, info)
		}
	}
}

func TestRoutesCommand_UnknownGroup(t *testing.T) {
	result := runCLI(t, "routes", "--group", "nope")
	testutil.AssertErrorContains(t, result.err, `unknown group "nope"`)
}

func TestBuildCommand(t *testing.T) {
	result := runCLI(t, "--api-endpoint", "https://github.example.com/api/v3",
		"build", "issues.getRepoIssue", "user=octocat", "repo=hello-world", "number:=1347")
	if result.err != nil {
		t.Fatalf("build failed: %v", result.err)
	}

	var got builtRequest
	if err := json.Unmarshal([]byte(result.stdout), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, result.stdout)
	}
	if got.Method != http.MethodGet {
		t.Errorf("method = %s, want GET", got.Method)
	}
	if want := "https://github.example.com/api/v3/repos/octocat/hello-world/issues/1347"; got.URL != want {
		t.Errorf("url = %s, want %s", got.URL, want)
	}
	if got.Body != nil {
		t.Errorf("GET must not carry a body, got %v", got.Body)
	}
}

func TestBuildCommand_ParamsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "issue.jsonc")
	testutil.WriteFile(t, path, `{
  "user": "octocat",
  "repo": "hello-world",
  // overridden on the command line
  "title": "draft",
  "labels": ["bug"],
}`)

	result := runCLI(t, "build", "issues.create", "--params-file", path, "title=Found a bug")
	if result.err != nil {
		t.Fatalf("build failed: %v", result.err)
	}

	var got struct {
		Method string                 `json:"method"`
		Body   map[string]interface{} `json:"body"`
	}
	if err := json.Unmarshal([]byte(result.stdout), &got); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if got.Method != http.MethodPost {
		t.Errorf("method = %s, want POST", got.Method)
	}
	if got.Body["title"] != "Found a bug" {
		t.Errorf("title = %v, want the command line value", got.Body["title"])
	}
	if _, ok := got.Body["user"]; ok {
		t.Error("path parameters must not appear in the body")
	}
}

func TestBuildCommand_ValidationError(t *testing.T) {
	result := runCLI(t, "build", "issues.getRepoIssue", "user=octocat", "repo=hello-world")
	if !errors.Is(result.err, resterrors.ErrMissingField) {
		t.Fatalf("expected missing field error, got %v", result.err)
	}
	if code := mapErrorToExitCode(result.err); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestBuildCommand_UnknownRoute(t *testing.T) {
	result := runCLI(t, "build", "issues.nope")
	if !errors.Is(result.err, resterrors.ErrUnknownRoute) {
		t.Fatalf("expected unknown route error, got %v", result.err)
	}
}

func TestCallCommand(t *testing.T) {
	server := testutil.NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		testutil.AssertRESTRequest(t, r, http.MethodGet, "/repos/octocat/hello-world/issues/1347")
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		w.Header().Set("X-RateLimit-Limit", "5000")
		w.Header().Set("X-RateLimit-Remaining", "4999")
		testutil.WriteJSON(w, http.StatusOK, testutil.GenerateIssues(1347, 1347)[0])
	})

	result := runCLI(t, "--api-endpoint", server.URL,
		"call", "issues.getRepoIssue", "user=octocat", "repo=hello-world", "number=1347")
	if result.err != nil {
		t.Fatalf("call failed: %v", result.err)
	}

	var env map[string]interface{}
	if err := json.Unmarshal([]byte(result.stdout), &env); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if env["title"] != "Issue 1347" {
		t.Errorf("title = %v, want Issue 1347", env["title"])
	}
	meta, ok := env["meta"].(map[string]interface{})
	if !ok {
		t.Fatalf("meta missing: %v", env)
	}
	if meta["x-ratelimit-remaining"] != "4999" {
		t.Errorf("x-ratelimit-remaining = %v, want 4999", meta["x-ratelimit-remaining"])
	}
	if !strings.Contains(result.stdout, "\n  \"") {
		t.Error("single call output should be indented")
	}
}

func TestCallCommand_Compact(t *testing.T) {
	server := testutil.NewJSONServer(t, []int{1, 2, 3}, nil)

	result := runCLI(t, "--api-endpoint", server.URL,
		"call", "events.get", "--compact")
	if result.err != nil {
		t.Fatalf("call failed: %v", result.err)
	}
	if got := strings.TrimSpace(result.stdout); got != `{"data":[1,2,3],"meta":{}}` {
		t.Errorf("output = %s", got)
	}
}

func TestCallCommand_All(t *testing.T) {
	server := testutil.NewPagedServer(t, 5, 2)
	outputFile := filepath.Join(t.TempDir(), "issues.ndjson")

	result := runCLI(t, "--api-endpoint", server.URL,
		"call", "issues.repoIssues", "user=octocat", "repo=hello-world",
		"--all", "--output", outputFile)
	if result.err != nil {
		t.Fatalf("call --all failed: %v", result.err)
	}

	records := testutil.AssertNDJSONOutput(t, outputFile, 5, "number", "title", "state")
	for i, record := range records {
		if record["number"] != float64(i+1) {
			t.Errorf("record %d: number = %v, want %d", i, record["number"], i+1)
		}
	}
	if server.RequestCount() != 3 {
		t.Errorf("requests = %d, want 3", server.RequestCount())
	}
	testutil.AssertContainsString(t, result.stderr, "Successfully fetched 5 items from 3 pages")
	if result.stdout != "" {
		t.Errorf("stdout should be empty when writing to a file, got %q", result.stdout)
	}
}

func TestCallCommand_Quiet(t *testing.T) {
	server := testutil.NewPagedServer(t, 3, 3)

	result := runCLI(t, "--api-endpoint", server.URL,
		"call", "issues.repoIssues", "user=octocat", "repo=hello-world", "--all", "-q")
	if result.err != nil {
		t.Fatalf("call failed: %v", result.err)
	}
	if result.stderr != "" {
		t.Errorf("quiet run wrote progress: %q", result.stderr)
	}
	if lines := strings.Split(strings.TrimSpace(result.stdout), "\n"); len(lines) != 3 {
		t.Errorf("expected 3 NDJSON lines, got %d", len(lines))
	}
}

func TestCallCommand_ErrorExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantCode int
	}{
		{name: "not found", status: http.StatusNotFound, wantCode: 2},
		{name: "bad credentials", status: http.StatusUnauthorized, wantCode: 2},
		{name: "unprocessable", status: http.StatusUnprocessableEntity, wantCode: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := testutil.NewErrorServer(t, tt.status)

			result := runCLI(t, "--api-endpoint", server.URL,
				"call", "issues.getRepoIssue", "user=octocat", "repo=hello-world", "number=1")
			if result.err == nil {
				t.Fatal("expected error")
			}
			if code := mapErrorToExitCode(result.err); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (err: %v)", code, tt.wantCode, result.err)
			}
		})
	}
}

func TestCallCommand_NetworkFailure(t *testing.T) {
	server := testutil.NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {})
	url := server.URL
	server.Close()

	config := filepath.Join(t.TempDir(), "config.yaml")
	testutil.WriteFile(t, config, "transport:\n  max_retries: 0\n")

	result := runCLI(t, "--config", config, "--api-endpoint", url,
		"call", "issues.getRepoIssue", "user=octocat", "repo=hello-world", "number=1")
	if !errors.Is(result.err, resterrors.ErrNetworkFailure) {
		t.Fatalf("expected network failure, got %v", result.err)
	}
	if code := mapErrorToExitCode(result.err); code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
}

func TestInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	testutil.WriteFile(t, path, "transport:\n  max_retries: 50\n")

	result := runCLI(t, "--config", path, "routes")
	testutil.AssertErrorContains(t, result.err, "transport.max_retries must be at most 10")
}

// newFlakyPagedServer serves six issues two per page and fails page 3
// while fail is set.
func newFlakyPagedServer(t *testing.T, fail *atomic.Bool) *testutil.MockServer {
	t.Helper()
	var server *testutil.MockServer
	server = testutil.NewMockServer(t, func(w http.ResponseWriter, r *http.Request) {
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil {
			page = 1
		}
		if page == 3 && fail.Load() {
			testutil.WriteJSON(w, http.StatusInternalServerError, map[string]string{"message": "Server Error"})
			return
		}
		if link := testutil.LinkHeader(server.URL+r.URL.Path, page, 3); link != "" {
			w.Header().Set("Link", link)
		}
		testutil.WriteJSON(w, http.StatusOK, testutil.GenerateIssues(page*2-1, page*2))
	})
	return server
}

func TestCallCommand_Resume(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	server := newFlakyPagedServer(t, &fail)

	dir := t.TempDir()
	stateDir := filepath.Join(dir, "state")
	outputFile := filepath.Join(dir, "issues.ndjson")
	args := []string{"--api-endpoint", server.URL,
		"call", "issues.repoIssues", "user=octocat", "repo=hello-world",
		"--all", "--resume", "--state-dir", stateDir, "--output", outputFile}

	first := runCLI(t, args...)
	if first.err == nil {
		t.Fatal("expected the first run to fail on page 3")
	}
	testutil.AssertContainsString(t, first.stderr, "Run again with --resume")
	testutil.AssertNDJSONOutput(t, outputFile, 4, "number")

	checkpoints, _ := filepath.Glob(filepath.Join(stateDir, "*.state"))
	if len(checkpoints) != 1 {
		t.Fatalf("expected one checkpoint, found %v", checkpoints)
	}

	fail.Store(false)
	before := server.RequestCount()

	second := runCLI(t, args...)
	if second.err != nil {
		t.Fatalf("resumed run failed: %v", second.err)
	}
	testutil.AssertContainsString(t, second.stderr, "Resuming issues.repoIssues at page 3 (4 items already fetched)")

	records := testutil.AssertNDJSONOutput(t, outputFile, 6, "number")
	for i, record := range records {
		if record["number"] != float64(i+1) {
			t.Errorf("record %d: number = %v, want %d", i, record["number"], i+1)
		}
	}
	if got := server.RequestCount() - before; got != 1 {
		t.Errorf("resumed run made %d requests, want 1", got)
	}

	if _, err := os.Stat(checkpoints[0]); !os.IsNotExist(err) {
		t.Error("checkpoint should be removed after a complete run")
	}
}

func TestCallCommand_Metadata(t *testing.T) {
	server := testutil.NewPagedServer(t, 5, 2)
	metadataDir := filepath.Join(t.TempDir(), "runs")
	args := []string{"--api-endpoint", server.URL,
		"call", "issues.repoIssues", "user=octocat", "repo=hello-world",
		"--all", "-q", "--metadata", metadataDir}

	for i := 0; i < 2; i++ {
		if result := runCLI(t, args...); result.err != nil {
			t.Fatalf("run %d failed: %v", i, result.err)
		}
	}

	files, _ := filepath.Glob(filepath.Join(metadataDir, "run-metadata-*.json"))
	if len(files) != 2 {
		t.Fatalf("expected 2 metadata files, found %d", len(files))
	}

	var linked int
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			t.Fatal(err)
		}
		var md struct {
			Parameters struct {
				Route string `json:"route"`
			} `json:"parameters"`
			Results struct {
				TotalItems int `json:"total_items"`
				Pages      int `json:"pages"`
				LastNumber int `json:"last_number"`
			} `json:"results"`
			PreviousRun *struct {
				RunID string `json:"run_id"`
			} `json:"previous_run"`
		}
		if err := json.Unmarshal(data, &md); err != nil {
			t.Fatalf("invalid metadata %s: %v", file, err)
		}
		if md.Parameters.Route != "issues.repoIssues" {
			t.Errorf("route = %q", md.Parameters.Route)
		}
		if md.Results.TotalItems != 5 || md.Results.Pages != 3 || md.Results.LastNumber != 5 {
			t.Errorf("results = %+v", md.Results)
		}
		if md.PreviousRun != nil {
			linked++
		}
	}
	if linked != 1 {
		t.Errorf("expected exactly one run linked to its predecessor, got %d", linked)
	}
}

func TestCallCommand_ResumeRequiresAll(t *testing.T) {
	result := runCLI(t, "call", "issues.repoIssues", "user=octocat", "repo=hello-world", "--resume")
	testutil.AssertErrorContains(t, result.err, "require --all")
}

func TestOpenWriter(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		var buf bytes.Buffer
		w, err := openWriter(&buf, "-")
		if err != nil {
			t.Fatalf("openWriter() error = %v", err)
		}
		if err := w.Write(map[string]int{"id": 1}); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		if got := buf.String(); got != "{\"id\":1}\n" {
			t.Errorf("stdout = %q", got)
		}
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.ndjson")
		w, err := openWriter(&bytes.Buffer{}, path)
		if err != nil {
			t.Fatalf("openWriter() error = %v", err)
		}
		if err := w.Write(map[string]int{"id": 2}); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		testutil.AssertNDJSONOutput(t, path, 1, "id")
	})

	t.Run("missing directory", func(t *testing.T) {
		w, err := openWriter(&bytes.Buffer{}, filepath.Join(t.TempDir(), "nope", "out.ndjson"))
		if err == nil {
			t.Fatal("expected error for missing directory")
		}
		if w != nil {
			t.Errorf("writer = %v, want nil", w)
		}
	})
}
