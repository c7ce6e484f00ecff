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
	"strings"

	"github.com/pkg/errors"

	"launchpad.sh/launchpad/pkg/artifact"
)

// Outcome is how a single artifact was satisfied.
type Outcome int

const (
	// AlreadyPresent means the file existed and was trusted as is.
	AlreadyPresent Outcome = iota + 1
	// DownloadedAndVerified means the file was downloaded and matched the
	// repository checksum.
	DownloadedAndVerified
	// DownloadedUnverified means the file was downloaded but no checksum
	// was available to compare against.
	DownloadedUnverified
	// Failed means the artifact is not available. See Result.Err.
	Failed
)

var outcomeNames = map[Outcome]string{
	AlreadyPresent:        "present",
	DownloadedAndVerified: "verified",
	DownloadedUnverified:  "unverified",
	Failed:                "failed",
}

func (o Outcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Result is the outcome for one coordinate of a pass.
type Result struct {
	Coordinate artifact.Coordinate `json:"coordinate"`
	// Path is the local jar location.
	Path    string  `json:"path,omitempty"`
	Outcome Outcome `json:"outcome"`
	Err     error   `json:"-"`
}

// VerificationStrategy describes how downloaded artifacts are checked
// against the checksum declared by the repository.
type VerificationStrategy int

const (
	// VerifyIfPossible compares checksums when the repository declares one
	// and accepts the file unverified otherwise.
	VerifyIfPossible VerificationStrategy = iota
	// VerifyAlways rejects artifacts that cannot be verified.
	VerifyAlways
	// VerifyNever skips the comparison.
	VerifyNever
)

var strategyNames = map[VerificationStrategy]string{
	VerifyIfPossible: "if-possible",
	VerifyAlways:     "always",
	VerifyNever:      "never",
}

func (v VerificationStrategy) String() string {
	if s, ok := strategyNames[v]; ok {
		return s
	}
	return "unknown"
}

// ParseVerificationStrategy parses the names printed by
// VerificationStrategy.String.
func ParseVerificationStrategy(s string) (VerificationStrategy, error) {
	for v, name := range strategyNames {
		if strings.EqualFold(s, name) {
			return v, nil
		}
	}
	return VerifyIfPossible, errors.Errorf("unknown verification strategy %q (expected always, if-possible or never)", s)
}
