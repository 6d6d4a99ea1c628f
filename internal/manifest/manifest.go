/*
 * rico2 - Datafile manifest loader.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package manifest loads the ordered list of datafile paths a session
// operates against.
package manifest

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ManifestError wraps a failure to read the manifest file.
type ManifestError struct {
	Path string
	Err  error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("manifest %s: %v", e.Path, e.Err)
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}

// Manifest is the ordered, 1-based file_id -> path table.
type Manifest struct {
	paths []string // paths[0] is file_id 1.
}

// Load reads path as a UTF-8 text file, one filesystem path per line.
// Blank lines and lines whose first non-blank character is '#' are
// skipped; everything else becomes the next entry in file_id order.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ManifestError{Path: path, Err: err}
	}
	defer f.Close()

	m := &Manifest{}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m.paths = append(m.paths, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, &ManifestError{Path: path, Err: err}
	}

	return m, nil
}

// Len returns the number of datafiles in the manifest.
func (m *Manifest) Len() int {
	return len(m.paths)
}

// Path returns the filesystem path for the given 1-based file_id, and
// whether that file_id is present in the manifest.
func (m *Manifest) Path(fileID int) (string, bool) {
	if fileID < 1 || fileID > len(m.paths) {
		return "", false
	}
	return m.paths[fileID-1], true
}

// All returns the manifest entries as a slice, indexed from file_id 1 at
// index 0, for callers that enumerate the whole table (e.g. the startup
// file listing).
func (m *Manifest) All() []string {
	out := make([]string, len(m.paths))
	copy(out, m.paths)
	return out
}
