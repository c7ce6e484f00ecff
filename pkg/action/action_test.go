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
	"crypto/md5"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"launchpad.sh/launchpad/internal/test/ensure"
	"launchpad.sh/launchpad/pkg/cli"
)

// repoServer serves every jar with its own path as content and a matching
// MD5 ETag, except paths containing "/corrupt/".
func repoServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		body := []byte(r.URL.Path)
		sum := md5.Sum(body)
		etag := hex.EncodeToString(sum[:])
		if strings.Contains(r.URL.Path, "/corrupt/") {
			etag = "deadbeef"
		}
		w.Header().Set("ETag", `"`+etag+`"`)
		w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// actionConfigFixture writes launchFile to a temporary launch file and
// returns a configuration pointing at it.
func actionConfigFixture(t *testing.T, launchFile string) *Configuration {
	t.Helper()
	ensure.LaunchpadHome(t)

	dir := t.TempDir()
	settings := cli.New()
	settings.ConfigFile = filepath.Join(dir, "launchpad.yaml")
	settings.LibrariesPath = filepath.Join(dir, "libs")
	require.NoError(t, os.WriteFile(settings.ConfigFile, []byte(launchFile), 0644))

	return NewConfiguration(settings)
}

// recordingLauncher remembers the last launch instead of starting anything.
type recordingLauncher struct {
	calls      int
	classpath  []string
	entryPoint string
	args       []string
}

func (l *recordingLauncher) Launch(_ context.Context, classpath []string, entryPoint string, args []string) error {
	l.calls++
	l.classpath, l.entryPoint, l.args = classpath, entryPoint, args
	return nil
}
