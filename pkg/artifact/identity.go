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

package artifact

import "strings"

// Identity holds the repository relative paths of an artifact.
//
// Paths always use forward slashes. They double as the suffix of the remote
// URL, so they must not depend on the local filesystem.
type Identity struct {
	// BasePath is group/artifact/version/artifact-version without extension.
	BasePath string
	// JarPath is BasePath plus the ".jar" extension.
	JarPath string
}

// Compute derives the Identity of a coordinate.
func Compute(c Coordinate) Identity {
	var b strings.Builder
	b.WriteString(strings.ReplaceAll(c.Group, ".", "/"))
	b.WriteByte('/')
	b.WriteString(c.Artifact)
	b.WriteByte('/')
	b.WriteString(c.Version)
	b.WriteByte('/')
	b.WriteString(c.Artifact)
	b.WriteByte('-')
	b.WriteString(c.Version)

	base := b.String()
	return Identity{
		BasePath: base,
		JarPath:  base + ".jar",
	}
}

// RemoteURL joins the repository URL and the jar path. The repository URL is
// expected to end with a slash.
func (id Identity) RemoteURL(repoURL string) string {
	return repoURL + id.JarPath
}

// FileName is the last element of the jar path.
func (id Identity) FileName() string {
	return id.JarPath[strings.LastIndexByte(id.JarPath, '/')+1:]
}
