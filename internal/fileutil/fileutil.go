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

package fileutil

import (
	"io"
	"os"
	"path/filepath"
)

// CommitFunc decides whether a fully written temporary file may replace the
// destination. Returning an error discards the temporary file.
type CommitFunc func() error

// AtomicWriteFile atomically (as atomic as os.Rename allows) writes a file to a
// disk.
func AtomicWriteFile(filename string, reader io.Reader, mode os.FileMode) error {
	return AtomicWriteFileCommit(filename, reader, mode, nil)
}

// AtomicWriteFileCommit is AtomicWriteFile with a commit check that runs after
// the content has been flushed and before the rename. On any failure the
// temporary file is removed and filename is left untouched.
//
// The temporary file is created in the destination directory so the rename
// never crosses filesystems.
func AtomicWriteFileCommit(filename string, reader io.Reader, mode os.FileMode, commit CommitFunc) (err error) {
	dir, base := filepath.Split(filename)
	if dir == "" {
		dir = "."
	}
	tempFile, err := os.CreateTemp(dir, "."+base+".*.part")
	if err != nil {
		return err
	}
	tempName := tempFile.Name()

	defer func() {
		if err != nil {
			os.Remove(tempName) // return value is ignored as we are already on error path
		}
	}()

	if _, err = io.Copy(tempFile, reader); err != nil {
		tempFile.Close() // return value is ignored as we are already on error path
		return err
	}

	if err = tempFile.Sync(); err != nil {
		tempFile.Close()
		return err
	}

	if err = tempFile.Close(); err != nil {
		return err
	}

	if commit != nil {
		if err = commit(); err != nil {
			return err
		}
	}

	if err = os.Chmod(tempName, mode); err != nil {
		return err
	}

	return os.Rename(tempName, filename)
}
