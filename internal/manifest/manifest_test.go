/*
 * rico2 - Manifest loader tests.
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

package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.txt")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadOrdersByLine(t *testing.T) {
	path := writeManifest(t, "/data/system01.dbf\n/data/users01.dbf\n\n# a comment\n/data/sysaux01.dbf\n")

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", m.Len())
	}

	p, ok := m.Path(1)
	if !ok || p != "/data/system01.dbf" {
		t.Errorf("Path(1) = %q, %v", p, ok)
	}
	p, ok = m.Path(3)
	if !ok || p != "/data/sysaux01.dbf" {
		t.Errorf("Path(3) = %q, %v", p, ok)
	}
}

func TestPathOutOfRange(t *testing.T) {
	path := writeManifest(t, "/data/system01.dbf\n")
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, ok := m.Path(0); ok {
		t.Error("Path(0) should not be present")
	}
	if _, ok := m.Path(2); ok {
		t.Error("Path(2) should not be present")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.txt"))
	if err == nil {
		t.Fatal("expected error for missing manifest file")
	}
	var merr *ManifestError
	if !asManifestError(err, &merr) {
		t.Fatalf("expected *ManifestError, got %T: %v", err, err)
	}
}

func asManifestError(err error, target **ManifestError) bool {
	me, ok := err.(*ManifestError)
	if !ok {
		return false
	}
	*target = me
	return true
}
