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
Package config loads launch files.

A launch file names the program entry point and the artifacts it needs:

	apiVersion: v1
	requires: ">= 1.0.0"
	main: com.example.Main
	repositories:
	  - name: internal
	    url: https://repo.example.com/maven/
	dependencies:
	  - name: com.google.guava:guava:31.1-jre
	  - repo: internal
	    name: com.example:tool:2.3.0

YAML, JSON and TOML documents are accepted. Every document is checked against
an embedded JSON schema before it is decoded.
*/
package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/hashicorp/go-multierror"
	"github.com/mattn/go-shellwords"
	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"

	"launchpad.sh/launchpad/pkg/artifact"
	"launchpad.sh/launchpad/pkg/getter"
)

// APIVersionV1 is the only supported launch file version.
const APIVersionV1 = "v1"

// CentralRepositoryName refers to Maven Central. It may be used without
// being declared.
const CentralRepositoryName = "central"

//go:embed schema.json
var schemaJSON []byte

// Repository is an artifact repository and how to reach it.
type Repository struct {
	Name                  string `json:"name"`
	URL                   string `json:"url"`
	Username              string `json:"username,omitempty"`
	Password              string `json:"password,omitempty"`
	CertFile              string `json:"certFile,omitempty"`
	KeyFile               string `json:"keyFile,omitempty"`
	CAFile                string `json:"caFile,omitempty"`
	InsecureSkipTLSVerify bool   `json:"insecureSkipTLSVerify,omitempty"`
	PassCredentialsAll    bool   `json:"passCredentialsAll,omitempty"`
}

// GetterOptions returns the transport settings for this repository.
func (r *Repository) GetterOptions() []getter.Option {
	opts := []getter.Option{
		getter.WithURL(r.URL),
		getter.WithPassCredentialsAll(r.PassCredentialsAll),
		getter.WithInsecureSkipVerifyTLS(r.InsecureSkipTLSVerify),
	}
	if r.Username != "" || r.Password != "" {
		opts = append(opts, getter.WithBasicAuth(r.Username, r.Password))
	}
	if r.CertFile != "" || r.KeyFile != "" || r.CAFile != "" {
		opts = append(opts, getter.WithTLSClientConfig(r.CertFile, r.KeyFile, r.CAFile))
	}
	return opts
}

// Dependency is an artifact in group:artifact:version form, optionally
// bound to a repository by name or URL.
type Dependency struct {
	Repo string `json:"repo,omitempty"`
	Name string `json:"name"`
}

// File is a launch file.
type File struct {
	APIVersion string `json:"apiVersion"`
	// Requires is a semantic version constraint on launchpad itself.
	Requires string `json:"requires,omitempty"`
	// Main is the entry point handed to the launcher.
	Main string `json:"main,omitempty"`
	// LibrariesPath overrides where artifacts are stored. Relative paths
	// are resolved against the directory of the launch file.
	LibrariesPath string `json:"librariesPath,omitempty"`
	// JVMArgs is a shell quoted string of launcher arguments.
	JVMArgs      string       `json:"jvmArgs,omitempty"`
	Repositories []Repository `json:"repositories,omitempty"`
	Dependencies []Dependency `json:"dependencies"`

	dir string
}

// Load reads and validates the launch file at path. Files ending in .toml are
// decoded as TOML, everything else as YAML.
func Load(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read launch file %s", path)
	}

	format := FormatYAML
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		format = FormatTOML
	}

	f, err := Parse(b, format)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid launch file %s", path)
	}
	f.dir = filepath.Dir(path)
	return f, nil
}

// Format is the encoding of a launch file.
type Format int

const (
	// FormatYAML covers YAML and JSON.
	FormatYAML Format = iota
	// FormatTOML is TOML.
	FormatTOML
)

// Parse decodes and validates a launch file.
func Parse(data []byte, format Format) (*File, error) {
	doc, err := toJSON(data, format)
	if err != nil {
		return nil, err
	}
	if err := validateSchema(doc); err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(doc, &f); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func toJSON(data []byte, format Format) ([]byte, error) {
	if format == FormatTOML {
		var raw map[string]interface{}
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(err, "could not parse TOML")
		}
		out, err := yaml.Marshal(raw)
		if err != nil {
			return nil, err
		}
		data = out
	}
	doc, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse YAML")
	}
	return doc, nil
}

// Validate checks what the schema cannot express. Every problem is reported.
func (f *File) Validate() error {
	var result *multierror.Error

	if f.Requires != "" {
		if _, err := semver.NewConstraint(f.Requires); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "invalid requires constraint %q", f.Requires))
		}
	}

	if _, err := f.JVMArguments(); err != nil {
		result = multierror.Append(result, err)
	}

	seen := make(map[string]bool, len(f.Repositories))
	for _, r := range f.Repositories {
		if seen[r.Name] {
			result = multierror.Append(result, errors.Errorf("repository %q is declared more than once", r.Name))
		}
		seen[r.Name] = true
	}

	if _, err := f.Coordinates(); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

// CheckCompatibility reports whether launchpad version v satisfies Requires.
func (f *File) CheckCompatibility(v string) error {
	if f.Requires == "" {
		return nil
	}
	c, err := semver.NewConstraint(f.Requires)
	if err != nil {
		return errors.Wrapf(err, "invalid requires constraint %q", f.Requires)
	}
	sv, err := semver.NewVersion(v)
	if err != nil {
		return errors.Wrapf(err, "invalid launchpad version %q", v)
	}
	if !c.Check(sv) {
		return errors.Errorf("launch file requires launchpad %s, but this is %s", f.Requires, v)
	}
	return nil
}

// RepositoryFor resolves a dependency repository reference. An empty
// reference or "central" is Maven Central, a reference containing "://" is
// used as the URL, anything else must name a declared repository.
func (f *File) RepositoryFor(ref string) (*Repository, error) {
	for i := range f.Repositories {
		if f.Repositories[i].Name == ref {
			return &f.Repositories[i], nil
		}
	}
	switch {
	case ref == "" || ref == CentralRepositoryName:
		return &Repository{Name: CentralRepositoryName, URL: artifact.MavenCentral}, nil
	case strings.Contains(ref, "://"):
		return &Repository{URL: ref}, nil
	}
	return nil, errors.Errorf("no repository named %q", ref)
}

// Coordinates resolves the dependencies in file order.
func (f *File) Coordinates() ([]artifact.Coordinate, error) {
	var result *multierror.Error
	coords := make([]artifact.Coordinate, 0, len(f.Dependencies))
	for _, d := range f.Dependencies {
		repo, err := f.RepositoryFor(d.Repo)
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "dependency %s", d.Name))
			continue
		}
		c, err := artifact.ParseCoordinate(repo.URL, d.Name)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		coords = append(coords, c)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return coords, nil
}

// RepositoryOptions returns getter options for every declared repository,
// keyed by normalized repository URL.
func (f *File) RepositoryOptions() map[string][]getter.Option {
	opts := make(map[string][]getter.Option, len(f.Repositories))
	for i := range f.Repositories {
		r := &f.Repositories[i]
		opts[artifact.NormalizeRepositoryURL(r.URL)] = r.GetterOptions()
	}
	return opts
}

// JVMArguments splits JVMArgs the way a POSIX shell would.
func (f *File) JVMArguments() ([]string, error) {
	if strings.TrimSpace(f.JVMArgs) == "" {
		return nil, nil
	}
	args, err := shellwords.Parse(f.JVMArgs)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid jvmArgs %q", f.JVMArgs)
	}
	return args, nil
}

// Libraries returns the directory artifacts should be stored in, falling
// back to def when the launch file does not set one.
func (f *File) Libraries(def string) string {
	if f.LibrariesPath == "" {
		return def
	}
	if filepath.IsAbs(f.LibrariesPath) || f.dir == "" {
		return f.LibrariesPath
	}
	return filepath.Join(f.dir, f.LibrariesPath)
}
