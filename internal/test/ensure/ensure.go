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

// Package ensure prepares isolated environments for tests.
package ensure

import (
	"os"
	"testing"

	"launchpad.sh/launchpad/pkg/lppath"
	"launchpad.sh/launchpad/pkg/lppath/xdg"
)

// LaunchpadHome points every launchpad and XDG base directory at a fresh
// temporary directory for the duration of the test, and creates the
// libraries directory.
func LaunchpadHome(t *testing.T) {
	t.Helper()
	for _, v := range []string{lppath.CacheHomeEnvVar, lppath.ConfigHomeEnvVar, lppath.DataHomeEnvVar} {
		t.Setenv(v, "")
	}
	t.Setenv(xdg.CacheHomeEnvVar, t.TempDir())
	t.Setenv(xdg.ConfigHomeEnvVar, t.TempDir())
	t.Setenv(xdg.DataHomeEnvVar, t.TempDir())

	for _, p := range []string{lppath.ConfigPath(), lppath.Libraries()} {
		if err := os.MkdirAll(p, 0755); err != nil {
			t.Fatal(err)
		}
	}
}
