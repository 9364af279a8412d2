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
	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-rest/internal/output"
	"github.com/sirseerhq/sirseer-rest/internal/params"
)

// builtRequest is the JSON shape printed by the build command.
type builtRequest struct {
	Route  string              `json:"route"`
	Method string              `json:"method"`
	URL    string              `json:"url"`
	Header map[string][]string `json:"headers,omitempty"`
	Body   any                 `json:"body,omitempty"`
}

func newBuildCommand(opts *globalOptions) *cobra.Command {
	var paramsFile string

	cmd := &cobra.Command{
		Use:   "build <route> [key=value | key:=json ...]",
		Short: "Validate parameters and print the request without sending it",
		Long: `Validate the arguments against the named route and print the HTTP
request that "call" would send: method, absolute URL with query string, and
JSON body. No network request is made.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			msg, err := loadMessage(cmd, paramsFile, args[1:])
			if err != nil {
				return err
			}
			return runBuild(cmd, a, args[0], msg)
		},
	}

	cmd.Flags().StringVar(&paramsFile, "params-file", "", "Read parameters from a JSON file (\"-\" for stdin)")

	return cmd
}

func runBuild(cmd *cobra.Command, a *app, name string, msg params.Message) error {
	route, req, err := a.client.Build(name, msg)
	if err != nil {
		return err
	}

	out := builtRequest{
		Route:  route.Name,
		Method: req.Method,
		URL:    a.baseURL + req.URL(),
		Header: req.Header,
		Body:   req.Body,
	}
	return output.NewWriter(cmd.OutOrStdout(), output.WithIndent("  ")).Write(out)
}

// loadMessage merges the params file, if any, with command line
// arguments. Arguments win.
func loadMessage(cmd *cobra.Command, paramsFile string, args []string) (params.Message, error) {
	fromArgs, err := parseArgs(args)
	if err != nil {
		return nil, err
	}
	if paramsFile == "" {
		return fromArgs, nil
	}

	fromFile, err := readParamsFile(paramsFile, cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	return mergeMessages(fromFile, fromArgs), nil
}
