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

package lppath

import (
	"os"
	"path/filepath"

	"launchpad.sh/launchpad/pkg/lppath/xdg"
)

const (
	// CacheHomeEnvVar overrides the cache directory, which holds the
	// downloaded libraries.
	CacheHomeEnvVar = "LAUNCHPAD_CACHE_HOME"

	// ConfigHomeEnvVar overrides the config directory.
	ConfigHomeEnvVar = "LAUNCHPAD_CONFIG_HOME"

	// DataHomeEnvVar overrides the data directory.
	DataHomeEnvVar = "LAUNCHPAD_DATA_HOME"
)

// lazypath resolves base directories when a path is requested, so that
// environment changes made after start-up are honoured.
type lazypath string

// path picks the first of:
//  1. the launchpad specific variable, used as is
//  2. the XDG variable, suffixed with the application name
//  3. the platform default, suffixed with the application name
func (l lazypath) path(appEnvVar, xdgEnvVar string, defaultFn func() string, elem ...string) string {
	if base := os.Getenv(appEnvVar); base != "" {
		return filepath.Join(base, filepath.Join(elem...))
	}
	base := os.Getenv(xdgEnvVar)
	if base == "" {
		base = defaultFn()
	}
	return filepath.Join(base, string(l), filepath.Join(elem...))
}

func (l lazypath) cachePath(elem ...string) string {
	return l.path(CacheHomeEnvVar, xdg.CacheHomeEnvVar, cacheHome, elem...)
}

func (l lazypath) configPath(elem ...string) string {
	return l.path(ConfigHomeEnvVar, xdg.ConfigHomeEnvVar, configHome, elem...)
}

func (l lazypath) dataPath(elem ...string) string {
	return l.path(DataHomeEnvVar, xdg.DataHomeEnvVar, dataHome, elem...)
}
