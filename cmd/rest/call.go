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
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sirseerhq/sirseer-rest/internal/github"
	"github.com/sirseerhq/sirseer-rest/internal/metadata"
	"github.com/sirseerhq/sirseer-rest/internal/normalize"
	"github.com/sirseerhq/sirseer-rest/internal/output"
	"github.com/sirseerhq/sirseer-rest/internal/params"
	"github.com/sirseerhq/sirseer-rest/internal/state"
	"github.com/sirseerhq/sirseer-rest/pkg/version"
)

// callOptions holds the flags of the call command.
type callOptions struct {
	outputFile  string
	paramsFile  string
	fetchAll    bool
	compact     bool
	quiet       bool
	resume      bool
	stateDir    string
	metadataDir string
}

func newCallCommand(opts *globalOptions) *cobra.Command {
	co := &callOptions{}

	cmd := &cobra.Command{
		Use:   "call <route> [key=value | key:=json ...]",
		Short: "Call a GitHub API route and print the normalized response",
		Long: `Call the named route and print the response envelope as JSON. Object
responses carry a "meta" key with rate limit and Link header values; other
responses are wrapped as {"data": ..., "meta": ...}.

With --all the Link header is followed until the last page and each item of
every page is written as one NDJSON line. Add --resume to checkpoint after
every page so an interrupted listing continues where it stopped, and
--metadata to record a JSON summary of the run.

Authentication is read from the environment variable named by
github.token_env (GITHUB_TOKEN by default) or the --token flag.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !co.fetchAll && (co.resume || co.metadataDir != "") {
				return fmt.Errorf("--resume and --metadata require --all")
			}

			a, err := newApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			msg, err := loadMessage(cmd, co.paramsFile, args[1:])
			if err != nil {
				return err
			}
			return runCall(a.context(cmd.Context()), cmd, a, args[0], msg, co)
		},
	}

	cmd.Flags().StringVar(&co.outputFile, "output", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&co.paramsFile, "params-file", "", "Read parameters from a JSON file (\"-\" for stdin)")
	cmd.Flags().BoolVar(&co.fetchAll, "all", false, "Follow pagination and write every item as NDJSON")
	cmd.Flags().BoolVar(&co.compact, "compact", false, "Write the envelope on a single line")
	cmd.Flags().BoolVarP(&co.quiet, "quiet", "q", false, "Suppress progress messages")
	cmd.Flags().BoolVar(&co.resume, "resume", false, "Checkpoint each page and resume an interrupted --all run")
	cmd.Flags().StringVar(&co.stateDir, "state-dir", "", "Checkpoint directory (default: ~/.sirseer/state)")
	cmd.Flags().StringVar(&co.metadataDir, "metadata", "", "Write a run summary JSON file into this directory")

	return cmd
}

func runCall(ctx context.Context, cmd *cobra.Command, a *app, name string, msg params.Message, co *callOptions) error {
	progress := cmd.ErrOrStderr()
	if co.quiet {
		progress = io.Discard
	}

	if !co.fetchAll {
		var writerOpts []output.Option
		if !co.compact {
			writerOpts = append(writerOpts, output.WithIndent("  "))
		}
		writer, err := openWriter(cmd.OutOrStdout(), co.outputFile, writerOpts...)
		if err != nil {
			return err
		}
		defer writer.Close()

		env, err := a.client.Call(ctx, name, msg)
		if err != nil {
			return err
		}
		logRateLimit(a.log, env)
		return writer.Write(env)
	}

	run := &pageRun{
		app:      a,
		name:     name,
		msg:      msg,
		key:      state.Key(name, msg),
		tracker:  metadata.New(),
		progress: progress,
	}
	if co.resume {
		dir := co.stateDir
		if dir == "" {
			dir = state.DefaultDir()
		}
		run.checkpointPath = state.FilePath(dir, run.key)
		if err := run.loadCheckpoint(); err != nil {
			return err
		}
	}

	var writerOpts []output.Option
	if run.resumed != nil {
		writerOpts = append(writerOpts, output.WithAppend())
	}
	writer, err := openWriter(cmd.OutOrStdout(), co.outputFile, writerOpts...)
	if err != nil {
		return err
	}
	defer writer.Close()
	run.writer = writer

	if err := run.fetch(ctx); err != nil {
		return err
	}
	if co.metadataDir != "" {
		return run.saveMetadata(co.metadataDir)
	}
	return nil
}

func openWriter(stdout io.Writer, path string, opts ...output.Option) (output.RecordWriter, error) {
	if path == "" || path == output.Stdout {
		return output.NewWriter(stdout, opts...), nil
	}
	w, err := output.NewFileWriter(path, opts...)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// pageRun streams every page of one paginated call.
type pageRun struct {
	app      *app
	name     string
	msg      params.Message
	key      string
	writer   output.RecordWriter
	tracker  *metadata.Tracker
	progress io.Writer

	// checkpointPath is empty unless --resume is set.
	checkpointPath string
	resumed        *state.Checkpoint
}

// loadCheckpoint picks up a saved checkpoint for this call, if any.
func (r *pageRun) loadCheckpoint() error {
	cp, err := state.LoadCheckpoint(r.checkpointPath)
	if errors.Is(err, state.ErrNoCheckpoint) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot resume: %w", err)
	}
	if cp.Route != r.name || cp.Key != r.key || cp.NextURL == "" {
		r.app.log.Warn("ignoring checkpoint for a different call",
			zap.String("path", r.checkpointPath),
			zap.String("route", cp.Route))
		return nil
	}
	r.resumed = cp
	return nil
}

// fetch pages through the listing. Array pages are split into one line
// per item; any other page is written whole.
func (r *pageRun) fetch(ctx context.Context) error {
	startTime := time.Now()

	var err error
	if r.resumed != nil {
		fmt.Fprintf(r.progress, "Resuming %s at page %d (%d items already fetched)...\n",
			r.name, r.resumed.Pages+1, r.resumed.Items)
		err = r.app.client.Resume(ctx, r.resumed.NextURL, r.handlePage)
	} else {
		fmt.Fprintf(r.progress, "Fetching %s...\n", r.name)
		err = r.app.client.Pages(ctx, r.name, r.msg, r.handlePage)
	}

	fmt.Fprintf(r.progress, "\r\033[K")
	if err != nil {
		if r.checkpointPath != "" {
			fmt.Fprintf(r.progress, "Progress saved. Run again with --resume to continue.\n")
		}
		return err
	}

	if r.checkpointPath != "" {
		if err := state.DeleteCheckpoint(r.checkpointPath); err != nil {
			return err
		}
	}

	results := r.tracker.Results()
	fmt.Fprintf(r.progress, "Successfully fetched %d items from %d pages in %s\n",
		results.TotalItems, results.Pages, time.Since(startTime).Round(time.Millisecond))
	return nil
}

func (r *pageRun) handlePage(env *normalize.Envelope) error {
	r.tracker.ObservePage(env)
	logRateLimit(r.app.log, env)

	if items, ok := env.Data.([]any); ok {
		for _, item := range items {
			if err := r.writer.Write(item); err != nil {
				return fmt.Errorf("failed to write item: %w", err)
			}
		}
	} else if err := r.writer.Write(env); err != nil {
		return err
	}

	results := r.tracker.Results()
	fmt.Fprintf(r.progress, "\rPage %d | %d items", results.Pages, results.TotalItems)

	next := env.Meta.Link(github.RelNext)
	if r.checkpointPath == "" || next == "" {
		return nil
	}
	return r.saveCheckpoint(next, results)
}

func (r *pageRun) saveCheckpoint(next string, results metadata.RunResults) error {
	cp := &state.Checkpoint{
		Route:     r.name,
		Key:       r.key,
		RunID:     r.tracker.RunID(),
		NextURL:   next,
		Pages:     results.Pages,
		Items:     results.TotalItems,
		StartedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if r.resumed != nil {
		cp.Pages += r.resumed.Pages
		cp.Items += r.resumed.Items
		cp.StartedAt = r.resumed.StartedAt
	}
	if err := state.SaveCheckpoint(cp, r.checkpointPath); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

func (r *pageRun) saveMetadata(dir string) error {
	previous, err := metadata.LoadLatestMetadata(dir, r.key)
	if err != nil {
		r.app.log.Warn("ignoring unreadable run metadata", zap.Error(err))
		previous = nil
	}

	md := r.tracker.GenerateMetadata(version.Version, metadata.RunParams{
		Route:   r.name,
		Key:     r.key,
		Message: r.msg,
		BaseURL: r.app.baseURL,
	}, r.resumed != nil, previous.Ref())

	path, err := metadata.SaveMetadata(md, dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.progress, "Run metadata saved to %s\n", path)
	return nil
}

func logRateLimit(log *zap.Logger, env *normalize.Envelope) {
	rl, ok := env.Meta.RateLimit()
	if !ok {
		return
	}
	log.Debug("rate limit",
		zap.Int("limit", rl.Limit),
		zap.Int("remaining", rl.Remaining))
}
