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
	"os"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"

	"launchpad.sh/launchpad/pkg/launcher"
)

// Dependency states reported by List.
const (
	StatusPresent = "present"
	StatusMissing = "missing"
)

// DependencyStatus is a launch file dependency and whether it is on disk.
type DependencyStatus struct {
	Name       string `json:"name"`
	Repository string `json:"repository"`
	Path       string `json:"path"`
	Status     string `json:"status"`
}

// List is the action for listing launch file dependencies.
//
// It provides the implementation of 'launchpad list'.
type List struct {
	cfg *Configuration

	// Filter is a glob matched against group:artifact:version. '*' does
	// not cross ':', '**' does.
	Filter string
}

// NewList constructs a new *List
func NewList(cfg *Configuration) *List {
	return &List{cfg: cfg}
}

// Run lists the dependencies in launch file order.
func (l *List) Run() ([]DependencyStatus, error) {
	var filter glob.Glob
	if l.Filter != "" {
		g, err := glob.Compile(l.Filter, ':')
		if err != nil {
			return nil, errors.Wrapf(err, "invalid filter %q", l.Filter)
		}
		filter = g
	}

	file, err := l.cfg.LoadFile()
	if err != nil {
		return nil, err
	}
	coords, err := file.Coordinates()
	if err != nil {
		return nil, err
	}
	paths, err := launcher.Classpath(l.cfg.librariesPath(file), coords)
	if err != nil {
		return nil, err
	}

	deps := make([]DependencyStatus, 0, len(coords))
	for i, c := range coords {
		if filter != nil && !filter.Match(c.String()) {
			continue
		}
		status := StatusMissing
		if _, err := os.Stat(paths[i]); err == nil {
			status = StatusPresent
		}
		deps = append(deps, DependencyStatus{
			Name:       c.String(),
			Repository: c.RepositoryURL,
			Path:       paths[i],
			Status:     status,
		})
	}
	return deps, nil
}
