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
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-rest/internal/output"
	"github.com/sirseerhq/sirseer-rest/internal/routes"
)

func newRoutesCommand(opts *globalOptions) *cobra.Command {
	var (
		group   string
		asJSON  bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the operations in the route table",
		Long: `List every operation in the route table with its HTTP method and URL
template. Use --group to restrict the listing and --verbose to show the
parameters of each route.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			list := a.table.Routes()
			if group != "" {
				list = a.table.Group(group)
				if len(list) == 0 {
					return fmt.Errorf("unknown group %q. Available: %s", group, strings.Join(a.table.Groups(), ", "))
				}
			}

			if asJSON {
				w := output.NewWriter(cmd.OutOrStdout())
				for _, r := range list {
					if err := w.Write(describeRoute(r)); err != nil {
						return err
					}
				}
				return nil
			}
			return printRoutes(cmd, list, verbose)
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "Only list routes in this group (e.g. issues)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Write one JSON object per route")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show route parameters")

	return cmd
}

// routeInfo is the JSON shape of a listed route.
type routeInfo struct {
	Name     string      `json:"name"`
	Method   string      `json:"method"`
	Template string      `json:"url"`
	Params   []paramInfo `json:"params,omitempty"`
}

type paramInfo struct {
	Key         string `json:"key"`
	Type        string `json:"type"`
	Required    bool   `json:"required,omitempty"`
	Pattern     string `json:"validation,omitempty"`
	Description string `json:"description,omitempty"`
}

func describeRoute(r *routes.Route) routeInfo {
	info := routeInfo{
		Name:     r.Name,
		Method:   string(r.Method),
		Template: r.Template,
	}
	for _, p := range r.Params {
		pi := paramInfo{
			Key:         p.Key,
			Type:        p.Kind.String(),
			Required:    p.Required,
			Description: p.Description,
		}
		if p.Pattern != nil {
			pi.Pattern = p.Pattern.String()
		}
		info.Params = append(info.Params, pi)
	}
	return info
}

func printRoutes(cmd *cobra.Command, list []*routes.Route, verbose bool) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, r := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.Method, r.Template)
		if !verbose {
			continue
		}
		for _, p := range r.Params {
			req := ""
			if p.Required {
				req = " (required)"
			}
			fmt.Fprintf(tw, "\t  %s\t%s%s\n", p.Key, p.Kind, req)
		}
	}
	return tw.Flush()
}
