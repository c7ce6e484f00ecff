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

package getter

import (
	"context"
	"net/url"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FileGetter reads artifacts from a repository on the local filesystem,
// such as ~/.m2/repository. It never reports an ETag.
type FileGetter struct {
	opts getterOptions
}

// NewFileGetter constructs a Getter for file:// URLs.
func NewFileGetter(options ...Option) (Getter, error) {
	var g FileGetter
	for _, opt := range options {
		opt(&g.opts)
	}
	return &g, nil
}

// Get opens the file named by href.
func (g *FileGetter) Get(ctx context.Context, href string, _ ...Option) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	u, err := url.Parse(href)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse URL getting from")
	}
	if u.Scheme != "file" {
		return nil, errors.Errorf("not a file URL: %s", href)
	}

	f, err := os.Open(filepath.FromSlash(u.Path))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s", href)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if fi.IsDir() {
		f.Close()
		return nil, errors.Errorf("failed to fetch %s : is a directory", href)
	}

	return &Response{Body: f, ContentLength: fi.Size()}, nil
}
