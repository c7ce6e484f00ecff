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

package fetcher

import (
	"fmt"

	"github.com/pkg/errors"

	"launchpad.sh/launchpad/pkg/artifact"
)

// Kind classifies a FetchError.
type Kind int

const (
	// KindNetwork covers connection failures, timeouts, non-200 responses
	// and truncated bodies.
	KindNetwork Kind = iota + 1
	// KindChecksumMismatch means the downloaded bytes do not match the
	// checksum declared by the repository.
	KindChecksumMismatch
	// KindIO covers local filesystem failures.
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindChecksumMismatch:
		return "checksum mismatch"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// FetchError reports why an artifact could not be made available.
type FetchError struct {
	Kind       Kind
	Coordinate artifact.Coordinate
	// URL is the remote location, if a download was attempted.
	URL string
	// Expected and Actual are the declared and computed checksums. Expected
	// is empty when the repository declared none.
	Expected string
	Actual   string
	Err      error
}

func (e *FetchError) Error() string {
	if e.Coordinate == (artifact.Coordinate{}) && e.URL == "" {
		// not tied to an artifact, e.g. the base directory
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}

	what := e.Coordinate.String()
	if e.URL != "" {
		what = fmt.Sprintf("%s (%s)", what, e.URL)
	}

	switch e.Kind {
	case KindChecksumMismatch:
		if e.Expected == "" {
			msg := fmt.Sprintf("no checksum available for %s", what)
			if e.Err != nil {
				msg += ": " + e.Err.Error()
			}
			return msg
		}
		return fmt.Sprintf("checksum mismatch for %s: expected %s, got %s", what, e.Expected, e.Actual)
	case KindIO:
		return fmt.Sprintf("failed to store %s: %v", what, e.Err)
	default:
		return fmt.Sprintf("failed to download %s: %v", what, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func isKind(err error, k Kind) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == k
}

// IsNetwork reports whether err is a FetchError of kind KindNetwork.
func IsNetwork(err error) bool { return isKind(err, KindNetwork) }

// IsChecksumMismatch reports whether err is a FetchError of kind KindChecksumMismatch.
func IsChecksumMismatch(err error) bool { return isKind(err, KindChecksumMismatch) }

// IsIO reports whether err is a FetchError of kind KindIO.
func IsIO(err error) bool { return isKind(err, KindIO) }
