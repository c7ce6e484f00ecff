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

/*
Package cli describes the operating environment for the launchpad CLI.

Settings come from LAUNCHPAD_* environment variables and may be overridden by
command line flags.
*/
package cli

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"launchpad.sh/launchpad/pkg/getter"
	"launchpad.sh/launchpad/pkg/lppath"
)

const defaultTimeout = getter.DefaultHTTPTimeout * time.Second

// EnvSettings describes all of the environment settings.
type EnvSettings struct {
	// Debug indicates whether or not launchpad is running in Debug mode.
	Debug bool
	// ConfigFile is the path to the launch file.
	ConfigFile string
	// LibrariesPath is the directory artifacts are stored in. A launch file
	// may name its own.
	LibrariesPath string
	// Timeout bounds each wait for a repository to connect or send data.
	Timeout time.Duration
	// Parallelism is the number of concurrent downloads.
	Parallelism int
}

// New returns settings initialised from the environment.
func New() *EnvSettings {
	return &EnvSettings{
		Debug:         envBoolOr("LAUNCHPAD_DEBUG", false),
		ConfigFile:    envOr("LAUNCHPAD_CONFIG", lppath.ConfigFile()),
		LibrariesPath: envOr("LAUNCHPAD_LIBRARIES", lppath.Libraries()),
		Timeout:       envDurationOr("LAUNCHPAD_TIMEOUT", defaultTimeout),
		Parallelism:   envIntOr("LAUNCHPAD_PARALLELISM", 1),
	}
}

// AddFlags binds flags to the given flagset.
func (s *EnvSettings) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&s.Debug, "debug", s.Debug, "enable verbose output")
	fs.StringVarP(&s.ConfigFile, "config", "c", s.ConfigFile, "path to the launch file")
	fs.StringVar(&s.LibrariesPath, "libraries", s.LibrariesPath, "directory downloaded artifacts are stored in")
	fs.DurationVar(&s.Timeout, "timeout", s.Timeout, "time to wait for a repository to connect or send more data")
	fs.IntVar(&s.Parallelism, "parallelism", s.Parallelism, "number of artifacts downloaded at the same time")
}

func envOr(name, def string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return def
}

func envBoolOr(name string, def bool) bool {
	if name == "" {
		return def
	}
	envVal := envOr(name, strconv.FormatBool(def))
	ret, err := strconv.ParseBool(envVal)
	if err != nil {
		return def
	}
	return ret
}

func envIntOr(name string, def int) int {
	if name == "" {
		return def
	}
	envVal := envOr(name, strconv.Itoa(def))
	ret, err := strconv.Atoi(envVal)
	if err != nil {
		return def
	}
	return ret
}

func envDurationOr(name string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	// bare numbers are seconds
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}

// EnvVars returns the effective settings keyed by environment variable.
func (s *EnvSettings) EnvVars() map[string]string {
	return map[string]string{
		"LAUNCHPAD_BIN":         os.Args[0],
		"LAUNCHPAD_CACHE_HOME":  lppath.CachePath(""),
		"LAUNCHPAD_CONFIG_HOME": lppath.ConfigPath(""),
		"LAUNCHPAD_DATA_HOME":   lppath.DataPath(""),
		"LAUNCHPAD_DEBUG":       fmt.Sprint(s.Debug),
		"LAUNCHPAD_CONFIG":      s.ConfigFile,
		"LAUNCHPAD_LIBRARIES":   s.LibrariesPath,
		"LAUNCHPAD_TIMEOUT":     s.Timeout.String(),
		"LAUNCHPAD_PARALLELISM": strconv.Itoa(s.Parallelism),
	}
}
