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
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"launchpad.sh/launchpad/internal/version"
)

func TestHTTPGetter(t *testing.T) {
	g, err := NewHTTPGetter(WithURL("http://example.com"))
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := g.(*HTTPGetter); !ok {
		t.Fatal("Expected NewHTTPGetter to produce an *HTTPGetter")
	}

	dir := t.TempDir()
	join := filepath.Join
	ca, pub, priv := join(dir, "rootca.crt"), join(dir, "crt.pem"), join(dir, "key.pem")
	insecure := false
	timeout := time.Second * 5
	transport := &http.Transport{}

	// Test with getterOptions
	g, err = NewHTTPGetter(
		WithBasicAuth("I", "Am"),
		WithPassCredentialsAll(false),
		WithUserAgent("Groot"),
		WithTLSClientConfig(pub, priv, ca),
		WithInsecureSkipVerifyTLS(insecure),
		WithTimeout(timeout),
		WithTransport(transport),
	)
	if err != nil {
		t.Fatal(err)
	}

	hg, ok := g.(*HTTPGetter)
	if !ok {
		t.Fatal("expected NewHTTPGetter to produce an *HTTPGetter")
	}

	if hg.opts.username != "I" {
		t.Errorf("Expected NewHTTPGetter to contain %q as the username, got %q", "I", hg.opts.username)
	}

	if hg.opts.password != "Am" {
		t.Errorf("Expected NewHTTPGetter to contain %q as the password, got %q", "Am", hg.opts.password)
	}

	if hg.opts.passCredentialsAll != false {
		t.Errorf("Expected NewHTTPGetter to contain %t as PassCredentialsAll, got %t", false, hg.opts.passCredentialsAll)
	}

	if hg.opts.userAgent != "Groot" {
		t.Errorf("Expected NewHTTPGetter to contain %q as the user agent, got %q", "Groot", hg.opts.userAgent)
	}

	if hg.opts.certFile != pub {
		t.Errorf("Expected NewHTTPGetter to contain %q as the public key file, got %q", pub, hg.opts.certFile)
	}

	if hg.opts.keyFile != priv {
		t.Errorf("Expected NewHTTPGetter to contain %q as the private key file, got %q", priv, hg.opts.keyFile)
	}

	if hg.opts.caFile != ca {
		t.Errorf("Expected NewHTTPGetter to contain %q as the CA file, got %q", ca, hg.opts.caFile)
	}

	if hg.opts.insecureSkipVerifyTLS != insecure {
		t.Errorf("Expected NewHTTPGetter to contain %t as InsecureSkipVerifyTLs flag, got %t", false, hg.opts.insecureSkipVerifyTLS)
	}

	if hg.opts.timeout != timeout {
		t.Errorf("Expected NewHTTPGetter to contain %s as Timeout flag, got %s", timeout, hg.opts.timeout)
	}

	if hg.opts.transport != transport {
		t.Errorf("Expected NewHTTPGetter to contain %p as Transport, got %p", transport, hg.opts.transport)
	}
}

func readAll(t *testing.T, resp *Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestDownload(t *testing.T) {
	expect := "Call me Ishmael"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defaultUserAgent := version.GetUserAgent()
		if r.UserAgent() != defaultUserAgent {
			t.Errorf("Expected '%s', got '%s'", defaultUserAgent, r.UserAgent())
		}
		w.Header().Set("ETag", `"0123abcd"`)
		fmt.Fprint(w, expect)
	}))
	defer srv.Close()

	g, err := All().ByScheme("http")
	if err != nil {
		t.Fatal(err)
	}
	got, err := g.Get(context.Background(), srv.URL, WithURL(srv.URL))
	if err != nil {
		t.Fatal(err)
	}

	if got.ETag() != `"0123abcd"` {
		t.Errorf("Expected the raw ETag header, got %q", got.ETag())
	}
	if got.ContentLength != int64(len(expect)) {
		t.Errorf("Expected content length %d, got %d", len(expect), got.ContentLength)
	}
	if body := readAll(t, got); body != expect {
		t.Errorf("Expected %q, got %q", expect, body)
	}

	// test with http server
	const expectedUserAgent = "I am Groot"
	basicAuthSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok || username != "username" || password != "password" {
			t.Errorf("Expected request to use basic auth and for username == 'username' and password == 'password', got '%v', '%s', '%s'", ok, username, password)
		}
		if r.UserAgent() != expectedUserAgent {
			t.Errorf("Expected '%s', got '%s'", expectedUserAgent, r.UserAgent())
		}
		fmt.Fprint(w, expect)
	}))

	defer basicAuthSrv.Close()

	u, _ := url.ParseRequestURI(basicAuthSrv.URL)
	httpgetter, err := NewHTTPGetter(
		WithURL(u.String()),
		WithBasicAuth("username", "password"),
		WithPassCredentialsAll(false),
		WithUserAgent(expectedUserAgent),
	)
	if err != nil {
		t.Fatal(err)
	}
	got, err = httpgetter.Get(context.Background(), u.String())
	if err != nil {
		t.Fatal(err)
	}

	if body := readAll(t, got); body != expect {
		t.Errorf("Expected %q, got %q", expect, body)
	}

	// test with Get URL differing from withURL
	crossAuthSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if ok || username == "username" || password == "password" {
			t.Errorf("Expected request to not include but got '%v', '%s', '%s'", ok, username, password)
		}
		fmt.Fprint(w, expect)
	}))

	defer crossAuthSrv.Close()

	u, _ = url.ParseRequestURI(crossAuthSrv.URL)

	// A different host is provided for the WithURL from the one used for Get
	u2, _ := url.ParseRequestURI(crossAuthSrv.URL)
	host := strings.Split(u2.Host, ":")
	host[0] = host[0] + "a"
	u2.Host = strings.Join(host, ":")
	httpgetter, err = NewHTTPGetter(
		WithURL(u2.String()),
		WithBasicAuth("username", "password"),
		WithPassCredentialsAll(false),
	)
	if err != nil {
		t.Fatal(err)
	}
	got, err = httpgetter.Get(context.Background(), u.String())
	if err != nil {
		t.Fatal(err)
	}

	if body := readAll(t, got); body != expect {
		t.Errorf("Expected %q, got %q", expect, body)
	}
}

func TestDownloadPassCredentialsAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok || username != "username" || password != "password" {
			t.Errorf("Expected request to use basic auth, got '%v', '%s', '%s'", ok, username, password)
		}
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	g, err := NewHTTPGetter(
		WithURL("http://elsewhere.example.com/"),
		WithBasicAuth("username", "password"),
		WithPassCredentialsAll(true),
	)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := g.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	readAll(t, resp)
}

func TestDownloadNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	g, err := NewHTTPGetter()
	if err != nil {
		t.Fatal(err)
	}
	_, err = g.Get(context.Background(), srv.URL+"/com/example/lib/1.0/lib-1.0.jar")
	if err == nil {
		t.Fatal("Expected an error for a 404 response")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("Expected the status in the error, got %q", err)
	}
}

func TestDownloadTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	g, err := NewHTTPGetter(WithTimeout(50 * time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	_, err = g.Get(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("Expected the request to time out")
	}
	if !strings.Contains(err.Error(), "no response within 50ms") {
		t.Errorf("Expected a timeout error, got %q", err)
	}
}

func TestDownloadSlowBodyWithinTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		for i := 0; i < 8; i++ {
			fmt.Fprint(w, "chunk")
			w.(http.Flusher).Flush()
			time.Sleep(50 * time.Millisecond)
		}
	}))
	defer srv.Close()

	// The whole body takes longer than the timeout but never stalls.
	g, err := NewHTTPGetter(WithTimeout(250 * time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := g.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if got := readAll(t, resp); got != strings.Repeat("chunk", 8) {
		t.Errorf("Expected all chunks, got %q", got)
	}
}

func TestDownloadStalledBody(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "100")
		fmt.Fprint(w, "partial")
		w.(http.Flusher).Flush()
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	g, err := NewHTTPGetter(WithTimeout(100 * time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := g.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err == nil {
		t.Fatal("Expected a stalled body to time out")
	}
	if !strings.Contains(err.Error(), "no data received for 100ms") {
		t.Errorf("Expected an idle timeout error, got %q", err)
	}
	if string(b) != "partial" {
		t.Errorf("Expected the data received before the stall, got %q", b)
	}
}

func TestDownloadCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "never read")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g, err := NewHTTPGetter()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.Get(ctx, srv.URL); err == nil {
		t.Fatal("Expected a cancelled context to abort the request")
	}
}

func TestDownloadTLS(t *testing.T) {
	tlsSrv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "secure")
	}))
	defer tlsSrv.Close()

	ca := filepath.Join(t.TempDir(), "rootca.crt")
	data := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: tlsSrv.Certificate().Raw})
	if err := os.WriteFile(ca, data, 0644); err != nil {
		t.Fatal(err)
	}

	u, _ := url.ParseRequestURI(tlsSrv.URL)

	// Without the CA the server certificate is rejected.
	g, err := NewHTTPGetter(WithURL(u.String()))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.Get(context.Background(), u.String()); err == nil {
		t.Error("Expected an unknown authority error")
	}

	g, err = NewHTTPGetter(
		WithURL(u.String()),
		WithTLSClientConfig("", "", ca),
	)
	if err != nil {
		t.Fatal(err)
	}

	resp, err := g.Get(context.Background(), u.String())
	if err != nil {
		t.Fatal(err)
	}
	if body := readAll(t, resp); body != "secure" {
		t.Errorf("Expected %q, got %q", "secure", body)
	}

	// now test with TLS config being passed along in .Get
	g, err = NewHTTPGetter()
	if err != nil {
		t.Fatal(err)
	}
	resp, err = g.Get(context.Background(), u.String(), WithTLSClientConfig("", "", ca))
	if err != nil {
		t.Fatal(err)
	}
	readAll(t, resp)

	g, err = NewHTTPGetter(WithInsecureSkipVerifyTLS(true))
	if err != nil {
		t.Fatal(err)
	}
	resp, err = g.Get(context.Background(), u.String())
	if err != nil {
		t.Fatal(err)
	}
	readAll(t, resp)
}
