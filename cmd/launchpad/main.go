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

package main // import "launchpad.sh/launchpad/cmd/launchpad"

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	"launchpad.sh/launchpad/internal/logging"
	"launchpad.sh/launchpad/pkg/action"
	"launchpad.sh/launchpad/pkg/cli"
)

var settings = cli.New()

func warning(format string, v ...interface{}) {
	format = fmt.Sprintf("WARNING: %s\n", format)
	fmt.Fprintf(os.Stderr, format, v...)
}

func main() {
	logger := logging.NewLogger(os.Stderr, func() bool { return settings.Debug })

	actionConfig := action.NewConfiguration(settings)
	actionConfig.SetLogger(logger.Handler())

	cmd, err := newRootCmd(actionConfig, os.Stdout, os.Args[1:])
	if err != nil {
		warning("%+v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.Debug("command failed", "error", fmt.Sprintf("%+v", err))

		// a launched program that exits non-zero passes its status through
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			os.Exit(exitErr.ExitCode())
		}
		os.Exit(1)
	}
}
