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

// Package lppath computes where launchpad keeps its files.
package lppath

const lp = lazypath("launchpad")

// ConfigPath returns the path where launchpad stores configuration.
func ConfigPath(elem ...string) string {
	return lp.configPath(elem...)
}

// CachePath returns the path where launchpad stores cached objects.
func CachePath(elem ...string) string {
	return lp.cachePath(elem...)
}

// DataPath returns the path where launchpad stores data.
func DataPath(elem ...string) string {
	return lp.dataPath(elem...)
}

// ConfigFile returns the default launch file.
func ConfigFile() string { return ConfigPath("launchpad.yaml") }

// Libraries returns the default directory for downloaded artifacts.
func Libraries() string { return CachePath("libraries") }
