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

	"launchpad.sh/launchpad/cmd/launchpad/require"
	"launchpad.sh/launchpad/pkg/action"
)

var globalUsage = `Fetch the libraries of a JVM program and launch it.

A launch file lists the Maven artifacts a program needs and the repositories
they come from. Launchpad downloads every missing artifact into a local
libraries directory, checks each download against the checksum announced by
the repository and starts the program on the resulting classpath. Artifacts
that are already on disk are used without contacting any repository.

Common actions for Launchpad:

- launchpad fetch:   download the dependencies of the launch file
- launchpad list:    show which dependencies are on disk
- launchpad launch:  download missing dependencies and start the program

Environment variables:

+-----------------------+--------------------------------------------------------------+
| Name                  | Description                                                  |
+-----------------------+--------------------------------------------------------------+
| $LAUNCHPAD_CONFIG     | set an alternative launch file                               |
| $LAUNCHPAD_LIBRARIES  | set an alternative libraries directory                       |
| $LAUNCHPAD_TIMEOUT    | set the time to wait for a single download (default 2m0s)    |
| $LAUNCHPAD_PARALLELISM| set the number of concurrent downloads (default 1)           |
| $LAUNCHPAD_DEBUG      | enable verbose output                                        |
| $XDG_CACHE_HOME       | set an alternative location for storing downloaded libraries |
| $XDG_CONFIG_HOME      | set an alternative location for the default launch file      |
| $JAVA_HOME            | select the Java runtime used to launch programs              |
+-----------------------+--------------------------------------------------------------+

Launchpad stores files based on the XDG base directory specification, so

- libraries are stored in $XDG_CACHE_HOME/launchpad/libraries
- the default launch file is $XDG_CONFIG_HOME/launchpad/launchpad.yaml
`

func newRootCmd(actionConfig *action.Configuration, out io.Writer, args []string) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:          "launchpad",
		Short:        "Fetch the libraries of a JVM program and launch it.",
		Long:         globalUsage,
		SilenceUsage: true,
		Args:         require.NoArgs,
	}
	flags := cmd.PersistentFlags()

	settings.AddFlags(flags)

	// We can safely ignore any errors that flags.Parse encounters since
	// those errors will be caught later during the call to cmd.Execution.
	// This call is required to gather configuration information prior to
	// execution.
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.Parse(args)

	cmd.AddCommand(
		newFetchCmd(actionConfig, out),
		newListCmd(actionConfig, out),
		newLaunchCmd(actionConfig, out),

		newEnvCmd(out),
		newVersionCmd(out),
	)

	return cmd, nil
}
