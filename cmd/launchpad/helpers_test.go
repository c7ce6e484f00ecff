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
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"

	"launchpad.sh/launchpad/internal/logging"
	"launchpad.sh/launchpad/internal/test"
	"launchpad.sh/launchpad/internal/test/ensure"
	"launchpad.sh/launchpad/pkg/action"
	"launchpad.sh/launchpad/pkg/cli"
	"launchpad.sh/launchpad/pkg/lppath"
)

type cmdTestCase struct {
	name      string
	cmd       string
	golden    string
	wantError bool
}

func runTestCmd(t *testing.T, tests []cmdTestCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ensure.LaunchpadHome(t)
			t.Logf("running cmd: %s", tt.cmd)
			_, out, err := executeActionCommandC(newTestConfig(), tt.cmd)
			if tt.wantError && err == nil {
				t.Errorf("expected error, got success with the following output:\n%s", out)
			}
			if !tt.wantError && err != nil {
				t.Errorf("expected no error, got: '%v'", err)
			}
			if tt.golden != "" {
				test.AssertGoldenString(t, out, tt.golden)
			}
		})
	}
}

// newTestConfig rebuilds the global settings from the current environment.
func newTestConfig() *action.Configuration {
	settings = cli.New()
	cfg := action.NewConfiguration(settings)
	cfg.SetLogger(logging.Discard().Handler())
	return cfg
}

func executeActionCommandC(cfg *action.Configuration, cmd string) (*cobra.Command, string, error) {
	return executeActionCommandStdinC(cfg, nil, cmd)
}

func executeActionCommandStdinC(cfg *action.Configuration, in io.Reader, cmd string) (*cobra.Command, string, error) {
	args, err := shellwords.Parse(cmd)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	root, err := newRootCmd(cfg, buf, args)
	if err != nil {
		return nil, "", err
	}

	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	if in != nil {
		root.SetIn(in)
	}

	c, err := root.ExecuteC()
	return c, buf.String(), err
}

// writeLaunchFile stores content as the default launch file.
func writeLaunchFile(t *testing.T, content string) {
	t.Helper()
	if err := os.WriteFile(lppath.ConfigFile(), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
