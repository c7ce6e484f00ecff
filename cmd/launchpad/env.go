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
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"launchpad.sh/launchpad/cmd/launchpad/require"
	"launchpad.sh/launchpad/pkg/action"
)

var envHelp = `
Env prints out all the environment information in use by Launchpad.
`

func newEnvCmd(out io.Writer) *cobra.Command {
	var outfmt string

	cmd := &cobra.Command{
		Use:   "env [NAME]",
		Short: "launchpad client environment information",
		Long:  envHelp,
		Args:  require.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return sortedKeys(settings.EnvVars()), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			envVars := settings.EnvVars()
			if len(args) == 1 {
				envVars = map[string]string{args[0]: envVars[args[0]]}
			}

			switch outfmt {
			case "env":
				if len(args) == 1 {
					fmt.Fprintln(out, envVars[args[0]])
					return nil
				}
				// Sorted for a constant output across calls.
				for _, k := range sortedKeys(envVars) {
					fmt.Fprintf(out, "%s=\"%s\"\n", k, envVars[k])
				}
				return nil
			case action.JSON.String(), action.YAML.String():
				b, err := action.OutputFormat(outfmt).Marshal(envVars)
				if err != nil {
					return err
				}
				_, err = out.Write(b)
				return err
			}
			return action.ErrInvalidFormatType
		},
	}

	cmd.Flags().StringVarP(&outfmt, "output", "o", "env", "prints the output in the specified format. Allowed values: env, json, yaml")
	return cmd
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
