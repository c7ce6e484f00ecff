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
	"crypto/md5"
	"encoding/hex"
	"hash"
	"io"
	"strings"
)

// digestReader hashes everything read through it. A read error other than
// io.EOF is kept so a failed copy can be blamed on the source.
type digestReader struct {
	r   io.Reader
	h   hash.Hash
	n   int64
	err error
}

func newDigestReader(r io.Reader) *digestReader {
	return &digestReader{r: r, h: md5.New()}
}

func (d *digestReader) Read(p []byte) (int, error) {
	n, err := d.r.Read(p)
	if n > 0 {
		d.h.Write(p[:n])
		d.n += int64(n)
	}
	if err != nil && err != io.EOF {
		d.err = err
	}
	return n, err
}

// Sum returns the lowercase hex MD5 of the bytes read so far.
func (d *digestReader) Sum() string {
	return hex.EncodeToString(d.h.Sum(nil))
}

const (
	weakETagPrefix = "W/"
	// Some repository managers put a SHA1 reference in the ETag instead of
	// the MD5 of the content.
	sha1ETagMarker = "{SHA1{"
)

// expectedChecksum extracts the MD5 declared by an ETag header. It returns
// an empty string when the header is absent or is not a content hash.
func expectedChecksum(etag string) string {
	etag = strings.TrimSpace(etag)
	if strings.HasPrefix(etag, weakETagPrefix) {
		return ""
	}
	if len(etag) >= 2 && etag[0] == '"' && etag[len(etag)-1] == '"' {
		etag = etag[1 : len(etag)-1]
	}
	if strings.HasPrefix(etag, sha1ETagMarker) {
		return ""
	}
	return etag
}
