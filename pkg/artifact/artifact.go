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
Package artifact describes artifacts hosted in a Maven-style repository.

A Coordinate names an artifact by repository, group, artifact and version. The
Identity derived from it gives the relative path under which the artifact is
stored, both on the repository server and in a local libraries directory:

	com.example:lib:1.0 -> com/example/lib/1.0/lib-1.0.jar
*/
package artifact

import (
	"net/url"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// MavenCentral is the repository used when a dependency names no repository.
const MavenCentral = "https://repo1.maven.org/maven2/"

// Coordinate identifies a single artifact in a repository.
type Coordinate struct {
	// RepositoryURL is the base URL of the repository. It ends with a slash.
	RepositoryURL string `json:"repository"`
	// Group is the dot separated group id, e.g. "com.example".
	Group string `json:"group"`
	// Artifact is the artifact id.
	Artifact string `json:"artifact"`
	// Version is the artifact version.
	Version string `json:"version"`
}

// NewCoordinate returns a Coordinate with a normalized repository URL.
func NewCoordinate(repoURL, group, artifact, version string) Coordinate {
	return Coordinate{
		RepositoryURL: NormalizeRepositoryURL(repoURL),
		Group:         strings.TrimSpace(group),
		Artifact:      strings.TrimSpace(artifact),
		Version:       strings.TrimSpace(version),
	}
}

// ParseCoordinate parses the short "group:artifact:version" form.
//
// An empty repository URL selects MavenCentral.
func ParseCoordinate(repoURL, gav string) (Coordinate, error) {
	parts := strings.Split(gav, ":")
	if len(parts) != 3 {
		return Coordinate{}, errors.Errorf("invalid artifact %q: expected the form group:artifact:version", gav)
	}
	if repoURL == "" {
		repoURL = MavenCentral
	}
	c := NewCoordinate(repoURL, parts[0], parts[1], parts[2])
	return c, c.Validate()
}

// NormalizeRepositoryURL trims surrounding space and makes sure the URL ends
// with a single slash so that artifact paths can be appended to it.
func NormalizeRepositoryURL(repoURL string) string {
	repoURL = strings.TrimSpace(repoURL)
	if repoURL == "" {
		return ""
	}
	return strings.TrimRight(repoURL, "/") + "/"
}

// String renders the coordinate as group:artifact:version.
func (c Coordinate) String() string {
	return c.Group + ":" + c.Artifact + ":" + c.Version
}

// Identity computes the storage paths for the coordinate.
func (c Coordinate) Identity() Identity {
	return Compute(c)
}

// Validate reports every problem with the coordinate at once.
func (c Coordinate) Validate() error {
	var result *multierror.Error

	if err := validateRepositoryURL(c.RepositoryURL); err != nil {
		result = multierror.Append(result, err)
	}

	if c.Group == "" {
		result = multierror.Append(result, errors.New("group is required"))
	} else if strings.ContainsAny(c.Group, `/\`) {
		result = multierror.Append(result, errors.Errorf("group %q must not contain path separators", c.Group))
	} else if strings.Contains(c.Group, "..") || strings.HasPrefix(c.Group, ".") || strings.HasSuffix(c.Group, ".") {
		result = multierror.Append(result, errors.Errorf("group %q has an empty segment", c.Group))
	}

	for _, f := range []struct{ name, value string }{
		{"artifact", c.Artifact},
		{"version", c.Version},
	} {
		switch {
		case f.value == "":
			result = multierror.Append(result, errors.Errorf("%s is required", f.name))
		case strings.ContainsAny(f.value, `/\:`):
			result = multierror.Append(result, errors.Errorf("%s %q must not contain '/', '\\' or ':'", f.name, f.value))
		case f.value == "." || f.value == "..":
			result = multierror.Append(result, errors.Errorf("%s %q is not a valid path segment", f.name, f.value))
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return errors.Wrapf(err, "invalid coordinate %s", c)
	}
	return nil
}

func validateRepositoryURL(repoURL string) error {
	if repoURL == "" {
		return errors.New("repository URL is required")
	}
	if !strings.HasSuffix(repoURL, "/") {
		return errors.Errorf("repository URL %q must end with a slash", repoURL)
	}
	u, err := url.Parse(repoURL)
	if err != nil {
		return errors.Wrapf(err, "invalid repository URL %q", repoURL)
	}
	switch u.Scheme {
	case "http", "https":
		if !govalidator.IsURL(repoURL) {
			return errors.Errorf("invalid repository URL %q", repoURL)
		}
	case "file":
		if u.Path == "" {
			return errors.Errorf("repository URL %q has no path", repoURL)
		}
	default:
		return errors.Errorf("repository URL %q has unsupported scheme %q", repoURL, u.Scheme)
	}
	return nil
}
