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

package action

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"launchpad.sh/launchpad/pkg/launcher"
)

// Launch is the action for fetching the dependencies of a launch file and
// starting its entry point.
//
// It provides the implementation of 'launchpad launch'.
type Launch struct {
	*Fetch

	// EntryPoint overrides the main of the launch file.
	EntryPoint string
	// Stdout and Stderr receive the output of the program.
	Stdout io.Writer
	Stderr io.Writer
}

// NewLaunch creates a new Launch object with the given configuration.
func NewLaunch(cfg *Configuration) *Launch {
	return &Launch{Fetch: NewFetch(cfg)}
}

// Run fetches every dependency, then launches the entry point with args.
// Nothing is launched if a dependency is unavailable.
func (l *Launch) Run(ctx context.Context, out io.Writer, args []string) error {
	file, err := l.cfg.LoadFile()
	if err != nil {
		return err
	}

	entryPoint := l.EntryPoint
	if entryPoint == "" {
		entryPoint = file.Main
	}
	if entryPoint == "" {
		return errNoEntryPoint
	}

	if _, err := l.runFile(ctx, out, file); err != nil {
		fmt.Fprintln(out, "Failed to get dependencies!")
		return err
	}

	coords, err := file.Coordinates()
	if err != nil {
		return err
	}
	classpath, err := launcher.Classpath(l.cfg.librariesPath(file), coords)
	if err != nil {
		return err
	}

	lr, err := l.cfg.launcher(file, l.Stdout, l.Stderr)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Launching %s...\n", entryPoint)
	l.cfg.Logger().Debug("launching", "entryPoint", entryPoint, "classpath", len(classpath))
	if err := lr.Launch(ctx, classpath, entryPoint, args); err != nil {
		return errors.Wrapf(err, "failed to launch target %s", entryPoint)
	}
	return nil
}
