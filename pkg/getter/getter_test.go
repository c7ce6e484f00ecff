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
	"testing"
	"time"
)

func TestProvider(t *testing.T) {
	p := Provider{
		[]string{"one", "three"},
		func(_ ...Option) (Getter, error) { return nil, nil },
	}

	if !p.Provides("three") {
		t.Error("Expected provider to provide three")
	}
}

func TestProviders(t *testing.T) {
	ps := Providers{
		{[]string{"one", "three"}, func(_ ...Option) (Getter, error) { return nil, nil }},
		{[]string{"two", "four"}, func(_ ...Option) (Getter, error) { return nil, nil }},
	}

	if _, err := ps.ByScheme("one"); err != nil {
		t.Error(err)
	}
	if _, err := ps.ByScheme("four"); err != nil {
		t.Error(err)
	}

	if _, err := ps.ByScheme("five"); err == nil {
		t.Error("Did not expect handler for five")
	}
}

func TestAll(t *testing.T) {
	all := All()
	if len(all) != 2 {
		t.Errorf("expected 2 providers (http, file), got %d", len(all))
	}

	for _, scheme := range []string{"http", "https", "file"} {
		if _, err := all.ByScheme(scheme); err != nil {
			t.Errorf("expected a getter for %q: %s", scheme, err)
		}
	}
	if _, err := all.ByScheme("oci"); err == nil {
		t.Error("did not expect a getter for oci")
	}
}

func TestAllAppliesDefaultTimeout(t *testing.T) {
	g, err := All().ByScheme("https")
	if err != nil {
		t.Fatal(err)
	}
	hg := g.(*HTTPGetter)
	if hg.opts.timeout != DefaultHTTPTimeout*time.Second {
		t.Errorf("expected default timeout %s, got %s", DefaultHTTPTimeout*time.Second, hg.opts.timeout)
	}

	g, err = All(WithTimeout(time.Second)).ByScheme("https")
	if err != nil {
		t.Fatal(err)
	}
	if got := g.(*HTTPGetter).opts.timeout; got != time.Second {
		t.Errorf("expected extra options to override the default timeout, got %s", got)
	}
}
