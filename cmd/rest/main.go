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
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-rest/pkg/version"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath  string
	logLevel    string
	apiEndpoint string
	token       string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(mapErrorToExitCode(err))
	}
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "sirseer-rest",
		Short: "Call the GitHub REST API from a declarative route table",
		Long: `SirSeer REST exposes every operation of the GitHub v3 route table as a
command. Parameters are validated against the table before any request is
made, and responses are normalized into a JSON envelope carrying rate limit
and pagination metadata.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to config file (default: .sirseer-rest.yaml or ~/.sirseer/rest.yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.apiEndpoint, "api-endpoint", "", "GitHub API base URL (overrides config)")
	flags.StringVar(&opts.token, "token", "", "GitHub personal access token (overrides the configured token variable)")

	rootCmd.AddCommand(
		newRoutesCommand(opts),
		newBuildCommand(opts),
		newCallCommand(opts),
	)

	return rootCmd
}
