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
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/sirseerhq/sirseer-rest/internal/config"
	"github.com/sirseerhq/sirseer-rest/internal/github"
	"github.com/sirseerhq/sirseer-rest/internal/logging"
	"github.com/sirseerhq/sirseer-rest/internal/routes"
	"github.com/sirseerhq/sirseer-rest/internal/transport"
)

// app is the wired client stack for one command invocation.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	table   *routes.Table
	baseURL string
	client  *github.Client
}

// newApp loads configuration, applies flag overrides and wires the
// logger, route table, transport and client.
func newApp(opts *globalOptions, stderr io.Writer) (*app, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.apiEndpoint != "" {
		cfg.GitHub.APIEndpoint = opts.apiEndpoint
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format, stderr)
	if err != nil {
		return nil, err
	}

	table, err := loadTable(cfg.Routes.File)
	if err != nil {
		return nil, err
	}

	token := opts.token
	if token == "" {
		token = cfg.Token()
	}

	tr, err := transport.NewHTTP(transport.Options{
		BaseURL:           cfg.GitHub.APIEndpoint,
		Token:             token,
		UserAgent:         cfg.GitHub.UserAgent,
		Timeout:           cfg.Transport.Timeout,
		MaxRetries:        cfg.Transport.MaxRetries,
		RetryWrites:       cfg.Transport.RetryWrites,
		RequestsPerSecond: cfg.Transport.RequestsPerSecond,
		Burst:             cfg.Transport.Burst,
		MaxResponseBytes:  cfg.Transport.MaxResponseBytes,
		AutoWait:          cfg.RateLimit.AutoWait,
		MaxWait:           cfg.RateLimit.MaxWait,
		Logger:            log,
	})
	if err != nil {
		return nil, err
	}

	client, err := github.New(tr, github.WithTable(table), github.WithLogger(log))
	if err != nil {
		return nil, err
	}

	log.Debug("client ready",
		zap.String("endpoint", tr.BaseURL()),
		zap.Int("routes", table.Len()),
		zap.Bool("authenticated", token != ""))

	return &app{
		cfg:     cfg,
		log:     log,
		table:   table,
		baseURL: tr.BaseURL(),
		client:  client,
	}, nil
}

func loadTable(path string) (*routes.Table, error) {
	if path == "" {
		return routes.Default()
	}
	table, err := routes.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load routes from %s: %w", path, err)
	}
	return table, nil
}

// context attaches the app logger to ctx.
func (a *app) context(ctx context.Context) context.Context {
	return logging.ContextWithLogger(ctx, a.log)
}

// close flushes buffered log entries.
func (a *app) close() {
	_ = a.log.Sync()
}
