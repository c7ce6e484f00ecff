/*
Copyright The Launchpad Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"io"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"launchpad.sh/launchpad/cmd/launchpad/require"
	"launchpad.sh/launchpad/pkg/action"
)

var listHelp = `
This command lists the dependencies of the launch file and whether they are
present in the libraries directory. Nothing is downloaded.

If an argument is provided, it will be treated as a filter. Filters are glob
patterns matched against GROUP:ARTIFACT:VERSION, where '*' does not match
across ':' and '**' does:

	$ launchpad list 'org.slf4j:*:*'
	NAME                      	REPOSITORY                          	STATUS 	PATH
	org.slf4j:slf4j-api:2.0.9 	https://repo1.maven.org/maven2/     	present	...
`

func newListCmd(cfg *action.Configuration, out io.Writer) *cobra.Command {
	client := action.NewList(cfg)
	var outfmt string

	cmd := &cobra.Command{
		Use:     "list [FILTER]",
		Short:   "list dependencies and their local status",
		Long:    listHelp,
		Aliases: []string{"ls"},
		Args:    require.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := action.ParseOutputFormat(outfmt)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				client.Filter = args[0]
			}
			deps, err := client.Run()
			if err != nil {
				return err
			}

			var b []byte
			if format == action.Table {
				b, err = format.MarshalTable(func(tbl *uitable.Table) {
					tbl.AddRow("NAME", "REPOSITORY", "STATUS", "PATH")
					for _, d := range deps {
						tbl.AddRow(d.Name, d.Repository, d.Status, d.Path)
					}
				})
			} else {
				b, err = format.Marshal(deps)
			}
			if err != nil {
				return err
			}
			_, err = out.Write(b)
			return err
		},
	}

	cmd.Flags().StringVarP(&outfmt, "output", "o", action.Table.String(), "prints the output in the specified format. Allowed values: table, json, yaml")
	return cmd
}
