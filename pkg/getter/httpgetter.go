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
	"crypto/tls"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"launchpad.sh/launchpad/internal/tlsutil"
	"launchpad.sh/launchpad/internal/version"
)

// HTTPGetter is the default HTTP(/S) backend handler
type HTTPGetter struct {
	opts      getterOptions
	transport *http.Transport
	once      sync.Once
}

// Get performs a GET and returns the open response.
func (g *HTTPGetter) Get(ctx context.Context, href string, options ...Option) (*Response, error) {
	// Create a local copy of options to avoid data races when Get is called concurrently
	opts := g.opts
	for _, opt := range options {
		opt(&opts)
	}
	return g.get(ctx, href, opts)
}

func (g *HTTPGetter) get(ctx context.Context, href string, opts getterOptions) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, href, nil)
	if err != nil {
		return nil, err
	}

	// Set a launchpad specific user agent so that a repository server can
	// separate launchpad calls from other tools.
	req.Header.Set("User-Agent", version.GetUserAgent())
	if opts.userAgent != "" {
		req.Header.Set("User-Agent", opts.userAgent)
	}

	// Before setting the basic auth credentials, make sure the URL associated
	// with the basic auth is the one being fetched.
	u1, err := url.Parse(opts.url)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse getter URL")
	}
	u2, err := url.Parse(href)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse URL getting from")
	}

	// Host on URL (returned from url.Parse) contains the port if present.
	// This check ensures credentials are not passed between different
	// services on different ports.
	if opts.passCredentialsAll || (u1.Scheme == u2.Scheme && u1.Host == u2.Host) {
		if opts.username != "" && opts.password != "" {
			req.SetBasicAuth(opts.username, opts.password)
		}
	}

	client, err := g.httpClient(opts)
	if err != nil {
		return nil, err
	}

	idle := newIdleTimer(ctx, opts.timeout)
	resp, err := client.Do(req.WithContext(idle.ctx))
	if err != nil {
		idle.stop()
		if idle.expired.Load() {
			return nil, errors.Errorf("failed to fetch %s : no response within %s", href, opts.timeout)
		}
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		idle.stop()
		return nil, errors.Errorf("failed to fetch %s : %s", href, resp.Status)
	}

	return &Response{
		Body:          &idleTimeoutBody{ReadCloser: resp.Body, idle: idle},
		Header:        resp.Header,
		ContentLength: resp.ContentLength,
	}, nil
}

// idleTimer cancels a request once no progress was made for timeout. Every
// body read that returns data restarts it.
type idleTimer struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timer   *time.Timer
	timeout time.Duration
	expired atomic.Bool
}

func newIdleTimer(parent context.Context, timeout time.Duration) *idleTimer {
	t := &idleTimer{timeout: timeout}
	t.ctx, t.cancel = context.WithCancel(parent)
	if timeout > 0 {
		t.timer = time.AfterFunc(timeout, func() {
			t.expired.Store(true)
			t.cancel()
		})
	}
	return t
}

func (t *idleTimer) reset() {
	if t.timer != nil && !t.expired.Load() {
		t.timer.Reset(t.timeout)
	}
}

func (t *idleTimer) stop() {
	if t.timer != nil {
		t.timer.Stop()
	}
	t.cancel()
}

type idleTimeoutBody struct {
	io.ReadCloser
	idle *idleTimer
}

func (b *idleTimeoutBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	if err != nil && err != io.EOF && b.idle.expired.Load() {
		return n, errors.Errorf("no data received for %s", b.idle.timeout)
	}
	if n > 0 {
		b.idle.reset()
	}
	return n, err
}

func (b *idleTimeoutBody) Close() error {
	err := b.ReadCloser.Close()
	b.idle.stop()
	return err
}

// NewHTTPGetter constructs a valid http/https client as a Getter
func NewHTTPGetter(options ...Option) (Getter, error) {
	var client HTTPGetter

	for _, opt := range options {
		opt(&client.opts)
	}

	return &client, nil
}

func (g *HTTPGetter) httpClient(opts getterOptions) (*http.Client, error) {
	if opts.transport != nil {
		return &http.Client{
			Transport: opts.transport,
		}, nil
	}

	// Check if we need custom TLS configuration
	needsCustomTLS := (opts.certFile != "" && opts.keyFile != "") || opts.caFile != "" || opts.insecureSkipVerifyTLS

	if needsCustomTLS {
		// Create a new transport for custom TLS to avoid race conditions
		transport := &http.Transport{
			DisableCompression: true,
			Proxy:              http.ProxyFromEnvironment,
		}

		tlsConf, err := tlsutil.NewTLSConfig(
			tlsutil.WithInsecureSkipVerify(opts.insecureSkipVerifyTLS),
			tlsutil.WithCertKeyPairFiles(opts.certFile, opts.keyFile),
			tlsutil.WithCAFile(opts.caFile),
		)
		if err != nil {
			return nil, errors.Wrap(err, "can't create TLS config for client")
		}

		transport.TLSClientConfig = tlsConf

		return &http.Client{
			Transport: transport,
		}, nil
	}

	// Use shared transport for default case (no custom TLS)
	g.once.Do(func() {
		g.transport = &http.Transport{
			DisableCompression: true,
			Proxy:              http.ProxyFromEnvironment,
			TLSClientConfig:    &tls.Config{},
		}
	})

	return &http.Client{
		Transport: g.transport,
	}, nil
}
