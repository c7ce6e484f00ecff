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

// Package launcher starts a program on a resolved classpath.
package launcher

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/pkg/errors"

	"launchpad.sh/launchpad/internal/logging"
	"launchpad.sh/launchpad/pkg/artifact"
)

// Launcher starts entryPoint with the given classpath and arguments.
type Launcher interface {
	Launch(ctx context.Context, classpath []string, entryPoint string, args []string) error
}

// JavaLauncher runs a JVM as a child process.
type JavaLauncher struct {
	// Java is the java executable. Defaults to $JAVA_HOME/bin/java, then
	// java on the PATH.
	Java string
	// JVMArgs are placed before the classpath.
	JVMArgs []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Log    *slog.Logger
}

// Command builds the command line without running it.
func (l *JavaLauncher) Command(ctx context.Context, classpath []string, entryPoint string, args []string) (*exec.Cmd, error) {
	if entryPoint == "" {
		return nil, errors.New("no entry point to launch")
	}

	argv := make([]string, 0, len(l.JVMArgs)+len(args)+3)
	argv = append(argv, l.JVMArgs...)
	if len(classpath) > 0 {
		argv = append(argv, "-cp", strings.Join(classpath, string(os.PathListSeparator)))
	}
	argv = append(argv, entryPoint)
	argv = append(argv, args...)

	cmd := exec.CommandContext(ctx, l.java(), argv...)
	cmd.Stdin = l.Stdin
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr
	return cmd, nil
}

// Launch runs the program and waits for it to exit.
func (l *JavaLauncher) Launch(ctx context.Context, classpath []string, entryPoint string, args []string) error {
	cmd, err := l.Command(ctx, classpath, entryPoint, args)
	if err != nil {
		return err
	}

	log := l.Log
	if log == nil {
		log = logging.Discard()
	}
	log.Debug("launching", "entryPoint", entryPoint, "command", cmd.String())

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running %s", cmd.Path)
	}
	return nil
}

func (l *JavaLauncher) java() string {
	if l.Java != "" {
		return l.Java
	}
	if home := os.Getenv("JAVA_HOME"); home != "" {
		return filepath.Join(home, "bin", "java")
	}
	return "java"
}

// Classpath lists the local jar of every coordinate under baseDir, in order.
func Classpath(baseDir string, coords []artifact.Coordinate) ([]string, error) {
	paths := make([]string, 0, len(coords))
	for _, c := range coords {
		p, err := securejoin.SecureJoin(baseDir, filepath.FromSlash(c.Identity().JarPath))
		if err != nil {
			return nil, errors.Wrapf(err, "could not resolve %s", c)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
