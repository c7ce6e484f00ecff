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
Package fetcher makes artifacts available on local disk.

An artifact that already exists under the base directory is trusted as is.
Missing artifacts are downloaded from their repository, hashed while they
stream to a temporary file, checked against the repository ETag and only then
moved into place. The first failure aborts the pass.
*/
package fetcher

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"launchpad.sh/launchpad/internal/fileutil"
	"launchpad.sh/launchpad/internal/logging"
	"launchpad.sh/launchpad/pkg/artifact"
	"launchpad.sh/launchpad/pkg/getter"
)

// LockFile is created in the base directory and locked for the length of a
// pass, so launchers sharing a library directory take turns.
const LockFile = ".launchpad.lock"

// Fetcher ensures artifacts exist under a base directory.
//
// The zero value is usable: it writes no progress output, uses the built-in
// getters, verifies when possible and fetches sequentially.
type Fetcher struct {
	// Out is the location to write progress messages.
	Out io.Writer
	// Getters resolves URL schemes. Defaults to getter.All().
	Getters getter.Providers
	// Options are passed to every Get call.
	Options []getter.Option
	// RepositoryOptions are passed after Options to Get calls for the
	// repository URL they are keyed by, e.g. credentials.
	RepositoryOptions map[string][]getter.Option
	// Verify indicates what verification strategy to use.
	Verify VerificationStrategy
	// Force downloads artifacts even when a local file exists.
	Force bool
	// Parallelism is the number of concurrent downloads. Values below 2
	// fetch one artifact at a time.
	Parallelism int
	// Log receives diagnostics. Nil discards them.
	Log *slog.Logger
}

// Ensure makes a single artifact available under baseDir.
func (f *Fetcher) Ensure(ctx context.Context, baseDir string, coord artifact.Coordinate) (Result, error) {
	results, err := f.EnsureAll(ctx, baseDir, []artifact.Coordinate{coord})
	if len(results) == 0 {
		return Result{Coordinate: coord, Outcome: Failed, Err: err}, err
	}
	return results[0], err
}

// EnsureAll makes every artifact in coords available under baseDir, in
// order. It stops at the first failure and returns the results gathered so
// far together with the error. The error names the failing coordinate and
// wraps the cause; see IsNetwork, IsChecksumMismatch and IsIO.
func (f *Fetcher) EnsureAll(ctx context.Context, baseDir string, coords []artifact.Coordinate) ([]Result, error) {
	var invalid error
	for _, c := range coords {
		if err := c.Validate(); err != nil {
			invalid = multierror.Append(invalid, err)
		}
	}
	if invalid != nil {
		return nil, invalid
	}

	log := f.logger().With("pass", uuid.NewString())
	log.Debug("ensuring artifacts", "count", len(coords), "dir", baseDir, "verify", f.Verify.String())

	// A fully populated directory needs neither writes nor the lock, so
	// read-only library directories keep working.
	if results, ok := f.allPresent(ctx, baseDir, coords); ok {
		log.Debug("all artifacts already present", "count", len(results))
		return results, nil
	}

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, &FetchError{Kind: KindIO, Err: errors.Wrapf(err, "could not create %s", baseDir)}
	}

	unlock, err := lockDir(ctx, baseDir)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if f.Parallelism > 1 {
		return f.ensureParallel(ctx, log, baseDir, coords)
	}

	results := make([]Result, 0, len(coords))
	for _, c := range coords {
		if err := ctx.Err(); err != nil {
			log.Debug("pass cancelled", "remaining", len(coords)-len(results))
			return results, err
		}
		r, err := f.ensure(ctx, log, baseDir, c)
		results = append(results, r)
		if err != nil {
			return results, err
		}
	}
	log.Debug("all artifacts available", "count", len(results))
	return results, nil
}

// allPresent reports AlreadyPresent results when every jar exists locally.
func (f *Fetcher) allPresent(ctx context.Context, baseDir string, coords []artifact.Coordinate) ([]Result, bool) {
	if f.Force || ctx.Err() != nil {
		return nil, false
	}
	results := make([]Result, 0, len(coords))
	for _, c := range coords {
		path, err := securejoin.SecureJoin(baseDir, filepath.FromSlash(c.Identity().JarPath))
		if err != nil {
			return nil, false
		}
		if _, err := os.Stat(path); err != nil {
			return nil, false
		}
		results = append(results, Result{Coordinate: c, Path: path, Outcome: AlreadyPresent})
	}
	return results, true
}

func (f *Fetcher) ensureParallel(ctx context.Context, log *slog.Logger, baseDir string, coords []artifact.Coordinate) ([]Result, error) {
	pf := *f
	pf.Out = &syncWriter{w: f.out()}

	results := make([]Result, len(coords))
	// Coordinates from different repositories may share a jar path. Only
	// the first one is fetched so no path has two writers.
	first := make(map[string]int, len(coords))
	dups := make(map[int]int)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.Parallelism)
	for i, c := range coords {
		jar := c.Identity().JarPath
		if j, ok := first[jar]; ok {
			dups[i] = j
			continue
		}
		first[jar] = i

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{Coordinate: c, Outcome: Failed, Err: err}
				return err
			}
			r, err := pf.ensure(gctx, log, baseDir, c)
			results[i] = r
			return err
		})
	}
	err := g.Wait()

	for i, j := range dups {
		r := results[j]
		r.Coordinate = coords[i]
		if r.Err == nil && r.Outcome != Failed {
			r.Outcome = AlreadyPresent
		}
		results[i] = r
	}
	return results, err
}

func (f *Fetcher) ensure(ctx context.Context, log *slog.Logger, baseDir string, c artifact.Coordinate) (Result, error) {
	id := c.Identity()
	res := Result{Coordinate: c, Outcome: Failed}

	path, err := securejoin.SecureJoin(baseDir, filepath.FromSlash(id.JarPath))
	if err != nil {
		res.Err = &FetchError{Kind: KindIO, Coordinate: c, Err: err}
		return res, res.Err
	}
	res.Path = path

	if !f.Force {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			log.Debug("artifact already present", "artifact", c.String(), "path", path)
			res.Outcome = AlreadyPresent
			return res, nil
		case !errors.Is(err, fs.ErrNotExist):
			res.Err = &FetchError{Kind: KindIO, Coordinate: c, Err: err}
			return res, res.Err
		}
	}

	res.Outcome, res.Err = f.fetchAndVerify(ctx, log, c, id, path)
	if res.Err != nil {
		fmt.Fprintf(f.out(), "Failed to download %s\n", id.FileName())
		log.Error("artifact unavailable", "artifact", c.String(), slog.Any("error", res.Err))
	}
	return res, res.Err
}

func (f *Fetcher) fetchAndVerify(ctx context.Context, log *slog.Logger, c artifact.Coordinate, id artifact.Identity, path string) (Outcome, error) {
	href := id.RemoteURL(c.RepositoryURL)
	name := id.FileName()

	fail := func(kind Kind, err error) (Outcome, error) {
		return Failed, &FetchError{Kind: kind, Coordinate: c, URL: href, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fail(KindIO, err)
	}

	g, err := f.getterFor(href)
	if err != nil {
		return fail(KindNetwork, err)
	}

	// One write, so parallel downloads cannot split the pair.
	fmt.Fprintf(f.out(), "Downloading %s... This can take a while.\n%s\n", name, href)
	log.Debug("downloading artifact", "artifact", c.String(), "url", href)

	start := time.Now()
	opts := append(slices.Clip(f.Options), f.RepositoryOptions[c.RepositoryURL]...)
	resp, err := g.Get(ctx, href, opts...)
	if err != nil {
		return fail(KindNetwork, err)
	}
	defer resp.Body.Close()

	body := newDigestReader(resp.Body)
	outcome := Failed
	err = fileutil.AtomicWriteFileCommit(path, body, 0644, func() error {
		if resp.ContentLength >= 0 && body.n != resp.ContentLength {
			return &FetchError{
				Kind: KindNetwork,
				Err:  errors.Errorf("download truncated: received %d of %d bytes", body.n, resp.ContentLength),
			}
		}
		var verr error
		outcome, verr = f.verify(resp.ETag(), body.Sum())
		return verr
	})
	if err != nil {
		var fe *FetchError
		switch {
		case errors.As(err, &fe):
			fe.Coordinate, fe.URL = c, href
			return Failed, fe
		case body.err != nil:
			return fail(KindNetwork, body.err)
		default:
			return fail(KindIO, err)
		}
	}

	log.Debug("artifact stored", "artifact", c.String(), "path", path,
		"bytes", body.n, "outcome", outcome.String(), "elapsed", time.Since(start))
	switch outcome {
	case DownloadedAndVerified:
		fmt.Fprintf(f.out(), "Successfully downloaded %s and verified checksum!\n", name)
	default:
		fmt.Fprintf(f.out(), "Downloaded %s (no checksum available)\n", name)
		log.Warn("artifact accepted without checksum verification", "artifact", c.String())
	}
	return outcome, nil
}

// verify compares the computed checksum with the one declared by etag.
func (f *Fetcher) verify(etag, actual string) (Outcome, error) {
	if f.Verify == VerifyNever {
		return DownloadedUnverified, nil
	}

	expected := expectedChecksum(etag)
	if expected == "" {
		if f.Verify == VerifyAlways {
			return Failed, &FetchError{
				Kind:   KindChecksumMismatch,
				Actual: actual,
				Err:    errors.Errorf("repository did not declare an MD5 checksum (ETag %q)", etag),
			}
		}
		return DownloadedUnverified, nil
	}

	if !strings.EqualFold(expected, actual) {
		return Failed, &FetchError{Kind: KindChecksumMismatch, Expected: expected, Actual: actual}
	}
	return DownloadedAndVerified, nil
}

func (f *Fetcher) getterFor(href string) (getter.Getter, error) {
	u, err := url.Parse(href)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid artifact URL %q", href)
	}
	providers := f.Getters
	if providers == nil {
		providers = getter.All()
	}
	return providers.ByScheme(u.Scheme)
}

func (f *Fetcher) out() io.Writer {
	if f.Out == nil {
		return io.Discard
	}
	return f.Out
}

func (f *Fetcher) logger() *slog.Logger {
	if f.Log == nil {
		return logging.Discard()
	}
	return f.Log
}

// lockDir takes the advisory lock of baseDir, waiting until ctx is done.
func lockDir(ctx context.Context, baseDir string) (func(), error) {
	fileLock := flock.New(filepath.Join(baseDir, LockFile))
	locked, err := fileLock.TryLockContext(ctx, 250*time.Millisecond)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, errors.Wrapf(err, "could not lock %s", baseDir)
		}
		return nil, &FetchError{Kind: KindIO, Err: errors.Wrapf(err, "could not lock %s", baseDir)}
	}
	if !locked {
		return nil, &FetchError{Kind: KindIO, Err: errors.Errorf("could not lock %s", baseDir)}
	}
	return func() { fileLock.Unlock() }, nil
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
