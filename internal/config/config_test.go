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

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Test GitHub defaults
	if cfg.GitHub.APIEndpoint != "https://api.github.com" {
		t.Errorf("APIEndpoint = %s, want https://api.github.com", cfg.GitHub.APIEndpoint)
	}
	if cfg.GitHub.TokenEnv != "GITHUB_TOKEN" {
		t.Errorf("TokenEnv = %s, want GITHUB_TOKEN", cfg.GitHub.TokenEnv)
	}

	// Test transport defaults
	if cfg.Transport.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Transport.Timeout)
	}
	if cfg.Transport.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.Transport.MaxRetries)
	}
	if cfg.Transport.MaxResponseBytes != 10*1024*1024 {
		t.Errorf("MaxResponseBytes = %d, want 10MB", cfg.Transport.MaxResponseBytes)
	}

	// Test rate limit defaults
	if !cfg.RateLimit.AutoWait {
		t.Error("AutoWait = false, want true")
	}
	if cfg.RateLimit.MaxWait != 5*time.Minute {
		t.Errorf("MaxWait = %v, want 5m", cfg.RateLimit.MaxWait)
	}

	if cfg.Log.Level != "warn" || cfg.Log.Format != "console" {
		t.Errorf("Log = %+v, want warn/console", cfg.Log)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// Write test config
	configContent := `
github:
  api_endpoint: https://github.enterprise.com/api/v3
  token_env: GITHUB_ENTERPRISE_TOKEN
  user_agent: acme-bot/1.0

transport:
  timeout: 45s
  max_retries: 5
  requests_per_second: 2.5
  burst: 4
  max_response_bytes: 1048576
  retry_writes: true

rate_limit:
  auto_wait: false
  max_wait: 2m

routes:
  file: /etc/sirseer/routes.yaml

log:
  level: debug
  format: json
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	// Verify GitHub settings
	if cfg.GitHub.APIEndpoint != "https://github.enterprise.com/api/v3" {
		t.Errorf("APIEndpoint = %s, want https://github.enterprise.com/api/v3", cfg.GitHub.APIEndpoint)
	}
	if cfg.GitHub.TokenEnv != "GITHUB_ENTERPRISE_TOKEN" {
		t.Errorf("TokenEnv = %s, want GITHUB_ENTERPRISE_TOKEN", cfg.GitHub.TokenEnv)
	}
	if cfg.GitHub.UserAgent != "acme-bot/1.0" {
		t.Errorf("UserAgent = %s, want acme-bot/1.0", cfg.GitHub.UserAgent)
	}

	// Verify transport settings
	want := TransportConfig{
		Timeout:           45 * time.Second,
		MaxRetries:        5,
		RequestsPerSecond: 2.5,
		Burst:             4,
		MaxResponseBytes:  1048576,
		RetryWrites:       true,
	}
	if cfg.Transport != want {
		t.Errorf("Transport = %+v, want %+v", cfg.Transport, want)
	}

	// Verify rate limit settings
	if cfg.RateLimit.AutoWait {
		t.Error("AutoWait = true, want false")
	}
	if cfg.RateLimit.MaxWait != 2*time.Minute {
		t.Errorf("MaxWait = %v, want 2m", cfg.RateLimit.MaxWait)
	}

	if cfg.Routes.File != "/etc/sirseer/routes.yaml" {
		t.Errorf("Routes.File = %s, want /etc/sirseer/routes.yaml", cfg.Routes.File)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v, want debug/json", cfg.Log)
	}
}

func TestLoadConfigFile_Errors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("transport:\n  timeout: soon\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(bad); err == nil {
		t.Error("expected error for unparseable duration")
	}
}

func TestLoadConfig_DiscoversHomeFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.MkdirAll(filepath.Join(home, ".sirseer"), 0o755); err != nil {
		t.Fatal(err)
	}
	content := "routes:\n  file: ~/routes.yaml\n"
	if err := os.WriteFile(filepath.Join(home, ".sirseer", "rest.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if want := filepath.Join(home, "routes.yaml"); cfg.Routes.File != want {
		t.Errorf("Routes.File = %s, want %s", cfg.Routes.File, want)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GITHUB_API_ENDPOINT", "https://custom.api.com")
	t.Setenv("SIRSEER_TIMEOUT", "90")
	t.Setenv("SIRSEER_MAX_RETRIES", "0")
	t.Setenv("SIRSEER_RATE_LIMIT_AUTO_WAIT", "false")
	t.Setenv("SIRSEER_LOG_LEVEL", "DEBUG")
	t.Setenv("SIRSEER_ROUTES_FILE", "/env/routes.yaml")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	// Verify environment overrides
	if cfg.GitHub.APIEndpoint != "https://custom.api.com" {
		t.Errorf("APIEndpoint = %s, want https://custom.api.com", cfg.GitHub.APIEndpoint)
	}
	if cfg.Transport.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v, want 90s", cfg.Transport.Timeout)
	}
	if cfg.Transport.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0", cfg.Transport.MaxRetries)
	}
	if cfg.RateLimit.AutoWait {
		t.Error("AutoWait = true, want false")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %s, want debug", cfg.Log.Level)
	}
	if cfg.Routes.File != "/env/routes.yaml" {
		t.Errorf("Routes.File = %s, want /env/routes.yaml", cfg.Routes.File)
	}
}

func TestEnvironmentOverrides_InvalidIgnored(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SIRSEER_TIMEOUT", "forever")
	t.Setenv("SIRSEER_MAX_RETRIES", "-2")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Transport.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want default 30s", cfg.Transport.Timeout)
	}
	if cfg.Transport.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want default 3", cfg.Transport.MaxRetries)
	}
}

func TestToken(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GitHub.TokenEnv = "SIRSEER_TEST_TOKEN"

	t.Setenv("SIRSEER_TEST_TOKEN", "ghp_test")
	if got := cfg.Token(); got != "ghp_test" {
		t.Errorf("Token() = %q, want ghp_test", got)
	}

	cfg.GitHub.TokenEnv = ""
	if got := cfg.Token(); got != "" {
		t.Errorf("Token() = %q, want empty", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: "",
		},
		{
			name:    "empty API endpoint",
			mutate:  func(c *Config) { c.GitHub.APIEndpoint = "" },
			wantErr: "github.api_endpoint is required",
		},
		{
			name:    "non http endpoint",
			mutate:  func(c *Config) { c.GitHub.APIEndpoint = "ftp://example.com" },
			wantErr: "github.api_endpoint must be an http(s) URL",
		},
		{
			name:    "empty token env",
			mutate:  func(c *Config) { c.GitHub.TokenEnv = "" },
			wantErr: "github.token_env is required",
		},
		{
			name:    "too many retries",
			mutate:  func(c *Config) { c.Transport.MaxRetries = 11 },
			wantErr: "transport.max_retries must be at most 10",
		},
		{
			name:    "negative rate",
			mutate:  func(c *Config) { c.Transport.RequestsPerSecond = -1 },
			wantErr: "transport.requests_per_second must be at least 0",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: "log.level must be one of [debug info warn error]",
		},
		{
			name:    "unknown log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: "log.format must be one of",
		},
		{
			name:    "empty log settings fall back to defaults",
			mutate:  func(c *Config) { c.Log = LogConfig{} },
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() error = nil, want %s", tt.wantErr)
				} else if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Validate() error = %v, want containing %s", err, tt.wantErr)
				}
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := os.Getenv("HOME")
	if home == "" {
		home = os.Getenv("USERPROFILE")
	}

	tests := []struct {
		input string
		want  string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
	}

	for _, tt := range tests {
		if got := expandPath(tt.input); got != tt.want {
			t.Errorf("expandPath(%s) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"1", true},
		{"on", true},
		{"false", false},
		{"no", false},
		{"0", false},
		{"", false},
		{"random", false},
	}

	for _, tt := range tests {
		if got := parseBool(tt.input); got != tt.want {
			t.Errorf("parseBool(%s) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseNonNegativeInt(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"50", 50, false},
		{"0", 0, false},
		{" 3 ", 3, false},
		{"-1", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := parseNonNegativeInt(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseNonNegativeInt(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseNonNegativeInt(%s) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"30", 30 * time.Second, false},
		{"1m30s", 90 * time.Second, false},
		{"250ms", 250 * time.Millisecond, false},
		{"-5s", 0, true},
		{"-5", 0, true},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		got, err := parseDuration(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseDuration(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDuration(%s) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
