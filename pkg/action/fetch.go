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
	"context"
	"io"

	"github.com/hashicorp/go-multierror"

	"launchpad.sh/launchpad/pkg/artifact"
	"launchpad.sh/launchpad/pkg/config"
	"launchpad.sh/launchpad/pkg/fetcher"
	"launchpad.sh/launchpad/pkg/getter"
)

// Fetch is the action for making artifacts available locally.
//
// It provides the implementation of 'launchpad fetch'.
type Fetch struct {
	cfg *Configuration

	Verify      fetcher.VerificationStrategy
	Force       bool
	Parallelism int

	// Repository is used for coordinates given as arguments. Defaults to
	// Maven Central.
	Repository            string
	Username              string
	Password              string
	PassCredentialsAll    bool
	CertFile              string
	KeyFile               string
	CaFile                string
	InsecureSkipTLSVerify bool
}

// NewFetch creates a new Fetch object with the given configuration.
func NewFetch(cfg *Configuration) *Fetch {
	return &Fetch{
		cfg:         cfg,
		Parallelism: cfg.Settings.Parallelism,
	}
}

// Run ensures the given group:artifact:version coordinates, or every
// dependency of the launch file when none are given. Progress is written to
// out.
func (f *Fetch) Run(ctx context.Context, out io.Writer, gavs []string) ([]fetcher.Result, error) {
	if len(gavs) > 0 {
		coords, err := f.parse(gavs)
		if err != nil {
			return nil, err
		}
		return f.fetcher(out, nil).EnsureAll(ctx, f.cfg.librariesPath(nil), coords)
	}

	file, err := f.cfg.LoadFile()
	if err != nil {
		return nil, err
	}
	return f.runFile(ctx, out, file)
}

func (f *Fetch) runFile(ctx context.Context, out io.Writer, file *config.File) ([]fetcher.Result, error) {
	coords, err := file.Coordinates()
	if err != nil {
		return nil, err
	}
	return f.fetcher(out, file).EnsureAll(ctx, f.cfg.librariesPath(file), coords)
}

func (f *Fetch) parse(gavs []string) ([]artifact.Coordinate, error) {
	var result *multierror.Error
	coords := make([]artifact.Coordinate, 0, len(gavs))
	for _, gav := range gavs {
		c, err := artifact.ParseCoordinate(f.Repository, gav)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		coords = append(coords, c)
	}
	return coords, result.ErrorOrNil()
}

func (f *Fetch) fetcher(out io.Writer, file *config.File) *fetcher.Fetcher {
	opts := []getter.Option{
		getter.WithTimeout(f.cfg.Settings.Timeout),
		getter.WithInsecureSkipVerifyTLS(f.InsecureSkipTLSVerify),
		getter.WithTLSClientConfig(f.CertFile, f.KeyFile, f.CaFile),
	}
	// Credentials given on the command line belong to the repository of
	// the command line coordinates.
	if file == nil && (f.Username != "" || f.Password != "") {
		repo := f.Repository
		if repo == "" {
			repo = artifact.MavenCentral
		}
		opts = append(opts,
			getter.WithURL(repo),
			getter.WithBasicAuth(f.Username, f.Password),
			getter.WithPassCredentialsAll(f.PassCredentialsAll),
		)
	}

	fe := &fetcher.Fetcher{
		Out:         out,
		Getters:     f.cfg.Getters,
		Options:     opts,
		Verify:      f.Verify,
		Force:       f.Force,
		Parallelism: f.Parallelism,
		Log:         f.cfg.Logger(),
	}
	if file != nil {
		fe.RepositoryOptions = file.RepositoryOptions()
	}
	return fe
}
