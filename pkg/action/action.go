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

// Package action implements the operations behind the launchpad commands.
package action

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"launchpad.sh/launchpad/internal/logging"
	"launchpad.sh/launchpad/internal/version"
	"launchpad.sh/launchpad/pkg/cli"
	"launchpad.sh/launchpad/pkg/config"
	"launchpad.sh/launchpad/pkg/getter"
	"launchpad.sh/launchpad/pkg/launcher"
)

// Configuration injects the dependencies that all actions share.
type Configuration struct {
	logging.LogHolder

	Settings *cli.EnvSettings

	// Getters resolves repository URL schemes. Defaults to getter.All().
	Getters getter.Providers

	// Launcher starts the program. When nil a JavaLauncher configured from
	// the launch file is used.
	Launcher launcher.Launcher
}

// NewConfiguration returns a Configuration for settings.
func NewConfiguration(settings *cli.EnvSettings) *Configuration {
	return &Configuration{Settings: settings}
}

// LoadFile loads the launch file named by the settings and checks that it
// accepts this launchpad version.
func (cfg *Configuration) LoadFile() (*config.File, error) {
	f, err := config.Load(cfg.Settings.ConfigFile)
	if err != nil {
		return nil, err
	}
	if err := f.CheckCompatibility(version.GetVersion()); err != nil {
		return nil, err
	}
	return f, nil
}

// librariesPath is where artifacts of f live. The launch file wins over
// the settings.
func (cfg *Configuration) librariesPath(f *config.File) string {
	if f == nil {
		return cfg.Settings.LibrariesPath
	}
	return f.Libraries(cfg.Settings.LibrariesPath)
}

func (cfg *Configuration) launcher(f *config.File, stdout, stderr io.Writer) (launcher.Launcher, error) {
	if cfg.Launcher != nil {
		return cfg.Launcher, nil
	}
	jvmArgs, err := f.JVMArguments()
	if err != nil {
		return nil, err
	}
	return &launcher.JavaLauncher{
		JVMArgs: jvmArgs,
		Stdin:   os.Stdin,
		Stdout:  stdout,
		Stderr:  stderr,
		Log:     cfg.Logger(),
	}, nil
}

var errNoEntryPoint = errors.New("no entry point: set main in the launch file or pass --main")
