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

//go:build !windows

package lppath

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"launchpad.sh/launchpad/pkg/lppath/xdg"
)

func TestLaunchpadHome(t *testing.T) {
	t.Setenv(CacheHomeEnvVar, "")
	t.Setenv(ConfigHomeEnvVar, "")
	t.Setenv(DataHomeEnvVar, "")
	t.Setenv(xdg.CacheHomeEnvVar, "/cache")
	t.Setenv(xdg.ConfigHomeEnvVar, "/config")
	t.Setenv(xdg.DataHomeEnvVar, "/data")

	assert.Equal(t, "/cache/launchpad", CachePath())
	assert.Equal(t, "/config/launchpad", ConfigPath())
	assert.Equal(t, "/data/launchpad", DataPath())
	assert.Equal(t, "/config/launchpad/launchpad.yaml", ConfigFile())
	assert.Equal(t, "/cache/launchpad/libraries", Libraries())

	// environment changes are picked up when a path is requested
	t.Setenv(xdg.CacheHomeEnvVar, "/cache2")
	assert.Equal(t, "/cache2/launchpad/libraries", Libraries())

	// launchpad variables win and are not suffixed
	t.Setenv(CacheHomeEnvVar, "/opt/launchpad-cache")
	assert.Equal(t, "/opt/launchpad-cache/libraries", Libraries())
}
