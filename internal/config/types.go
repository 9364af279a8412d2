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

// Package config types define the configuration structures used throughout
// sirseer-rest. These types represent settings that can be loaded from
// YAML configuration files, environment variables, or command-line flags.
package config

import "time"

// Config represents the complete configuration for sirseer-rest.
type Config struct {
	GitHub    GitHubConfig    `yaml:"github"`
	Transport TransportConfig `yaml:"transport"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Routes    RoutesConfig    `yaml:"routes"`
	Log       LogConfig       `yaml:"log"`
}

// GitHubConfig contains GitHub-specific settings including the API
// endpoint and where to find the token. A custom endpoint points the
// client at GitHub Enterprise.
type GitHubConfig struct {
	APIEndpoint string `yaml:"api_endpoint" validate:"required,http_url"`
	TokenEnv    string `yaml:"token_env" validate:"required"`
	UserAgent   string `yaml:"user_agent"`
}

// TransportConfig controls the HTTP transport: timeouts, retries on
// transient failures, client side pacing and the response size cap.
// POST and PATCH are only retried with RetryWrites.
type TransportConfig struct {
	Timeout           time.Duration `yaml:"timeout" validate:"gte=0"`
	MaxRetries        int           `yaml:"max_retries" validate:"gte=0,lte=10"`
	RequestsPerSecond float64       `yaml:"requests_per_second" validate:"gte=0"`
	Burst             int           `yaml:"burst" validate:"gte=0"`
	MaxResponseBytes  int64         `yaml:"max_response_bytes" validate:"gte=0"`
	RetryWrites       bool          `yaml:"retry_writes"`
}

// RateLimitConfig controls rate limit handling behavior. With AutoWait
// the transport sleeps until the limit resets, as long as that is no
// more than MaxWait away; otherwise the rate limit error is returned.
type RateLimitConfig struct {
	AutoWait bool          `yaml:"auto_wait"`
	MaxWait  time.Duration `yaml:"max_wait" validate:"gte=0"`
}

// RoutesConfig points at an alternative route document. Empty means the
// embedded GitHub v3 table.
type RoutesConfig struct {
	File string `yaml:"file"`
}

// LogConfig selects the log level and encoding.
type LogConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=json console"`
}

// DefaultConfig returns a Config with sensible defaults for public
// GitHub.com usage.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIEndpoint: "https://api.github.com",
			TokenEnv:    "GITHUB_TOKEN",
		},
		Transport: TransportConfig{
			Timeout:          30 * time.Second,
			MaxRetries:       3,
			MaxResponseBytes: 10 * 1024 * 1024,
		},
		RateLimit: RateLimitConfig{
			AutoWait: true,
			MaxWait:  5 * time.Minute,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}
