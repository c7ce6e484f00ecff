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

	"github.com/spf13/cobra"

	"launchpad.sh/launchpad/pkg/action"
)

const launchDesc = `
This command makes sure every dependency of the launch file is in the
libraries directory, then starts the entry point on a classpath made of
those artifacts. Arguments after '--' are passed to the program:

	$ launchpad launch -- --port 8080

The program is not started when any dependency cannot be fetched. Java is
taken from $JAVA_HOME when it is set and from $PATH otherwise. The exit
status of the program becomes the exit status of launchpad.
`

func newLaunchCmd(cfg *action.Configuration, out io.Writer) *cobra.Command {
	client := action.NewLaunch(cfg)
	var verify string

	cmd := &cobra.Command{
		Use:   "launch [flags] [-- ARGS...]",
		Short: "fetch missing dependencies and start the program",
		Long:  launchDesc,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyVerify(&client.Verify, verify); err != nil {
				return err
			}
			client.Parallelism = cfg.Settings.Parallelism
			client.Stdout = out
			client.Stderr = cmd.ErrOrStderr()
			return client.Run(cmd.Context(), out, args)
		},
	}

	f := cmd.Flags()
	f.SetInterspersed(false)
	addDownloadFlags(f, client.Fetch, &verify)
	f.StringVar(&client.EntryPoint, "main", "", "class to run instead of the main of the launch file")

	return cmd
}
