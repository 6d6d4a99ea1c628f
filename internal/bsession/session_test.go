/*
 * rico2 - Session state and mutation tests.
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

package bsession

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ora600pl/rico2/internal/manifest"
)

const testBlockSize = 64

func writeTestFile(t *testing.T, blocks int) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test01.dbf")

	data := make([]byte, blocks*testBlockSize)
	for b := 0; b < blocks; b++ {
		data[b*testBlockSize] = byte(b + 1) // distinguish blocks by their type byte
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func newTestSession(t *testing.T, blocks int) (*Session, string) {
	t.Helper()
	path := writeTestFile(t, blocks)

	mpath := filepath.Join(filepath.Dir(path), "manifest.txt")
	if err := os.WriteFile(mpath, []byte(path+"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile(manifest) error = %v", err)
	}
	m, err := manifest.Load(mpath)
	if err != nil {
		t.Fatalf("manifest.Load() error = %v", err)
	}

	return New(m, testBlockSize), path
}

func TestDBARoundTrip(t *testing.T) {
	dba := DBA(3, 42)
	if SplitDBA(dba) != 42 {
		t.Errorf("SplitDBA(%d) = %d, want 42", dba, SplitDBA(dba))
	}
}

func TestGetBlockLoadsAndAnalyzes(t *testing.T) {
	s, _ := newTestSession(t, 3)

	if err := s.GetBlock(1, 1); err != nil {
		t.Fatalf("GetBlock() error = %v", err)
	}
	if len(s.BlockData()) != testBlockSize {
		t.Fatalf("BlockData() len = %d, want %d", len(s.BlockData()), testBlockSize)
	}
	if s.Descriptor() == nil {
		t.Fatal("expected a descriptor after GetBlock")
	}
	if s.Descriptor().Desc.DBA != DBA(1, 1) {
		t.Errorf("descriptor DBA = %d, want %d", s.Descriptor().Desc.DBA, DBA(1, 1))
	}
}

func TestGetBlockUnknownFileID(t *testing.T) {
	s, _ := newTestSession(t, 1)
	if err := s.GetBlock(9, 0); err == nil {
		t.Fatal("expected error for unknown file_id")
	}
}

func TestModifyPreservesLength(t *testing.T) {
	s, _ := newTestSession(t, 1)
	if err := s.GetBlock(1, 0); err != nil {
		t.Fatalf("GetBlock() error = %v", err)
	}

	before := len(s.BlockData())
	if err := s.Modify(4, []byte{0xaa, 0xbb}); err != nil {
		t.Fatalf("Modify() error = %v", err)
	}
	if len(s.BlockData()) != before {
		t.Fatalf("block length changed: %d -> %d", before, len(s.BlockData()))
	}
	if s.BlockData()[4] != 0xaa || s.BlockData()[5] != 0xbb {
		t.Errorf("modify did not take effect: %x", s.BlockData()[4:6])
	}
}

func TestModifyRejectsOverrun(t *testing.T) {
	s, _ := newTestSession(t, 1)
	if err := s.GetBlock(1, 0); err != nil {
		t.Fatalf("GetBlock() error = %v", err)
	}
	if err := s.Modify(testBlockSize-1, []byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for modify past end of block")
	}
}

func TestChecksumMasksChkvalAndIsStable(t *testing.T) {
	s, _ := newTestSession(t, 1)
	if err := s.GetBlock(1, 0); err != nil {
		t.Fatalf("GetBlock() error = %v", err)
	}

	// Seed a nonzero chkval; the computed checksum must be identical either
	// way since the field is masked before folding.
	s.BlockData()[16] = 0x11
	s.BlockData()[17] = 0x22
	sum1, err := s.Checksum(false)
	if err != nil {
		t.Fatalf("Checksum() error = %v", err)
	}

	s.BlockData()[16] = 0x00
	s.BlockData()[17] = 0x00
	sum2, err := s.Checksum(false)
	if err != nil {
		t.Fatalf("Checksum() error = %v", err)
	}

	if sum1 != sum2 {
		t.Errorf("checksum depends on chkval field: %x vs %x", sum1, sum2)
	}
}

func TestChecksumApplyWritesBack(t *testing.T) {
	s, _ := newTestSession(t, 1)
	if err := s.GetBlock(1, 0); err != nil {
		t.Fatalf("GetBlock() error = %v", err)
	}

	sum, err := s.Checksum(true)
	if err != nil {
		t.Fatalf("Checksum() error = %v", err)
	}

	got := uint16(s.BlockData()[16]) | uint16(s.BlockData()[17])<<8
	if got != sum {
		t.Errorf("stored chkval = %x, want %x", got, sum)
	}
}

func TestSaveRequiresEditMode(t *testing.T) {
	s, _ := newTestSession(t, 1)
	if err := s.GetBlock(1, 0); err != nil {
		t.Fatalf("GetBlock() error = %v", err)
	}
	if err := s.Save(); err != ErrNotInEditMode {
		t.Fatalf("Save() error = %v, want ErrNotInEditMode", err)
	}
}

func TestSaveAndRevertRoundTrip(t *testing.T) {
	s, path := newTestSession(t, 2)
	if err := s.GetBlock(1, 1); err != nil {
		t.Fatalf("GetBlock() error = %v", err)
	}

	original := append([]byte(nil), s.BlockData()...)

	s.SetModeEdit()
	if err := s.Modify(0, []byte{0xff}); err != nil {
		t.Fatalf("Modify() error = %v", err)
	}
	if err := s.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	on, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if on[testBlockSize] != 0xff {
		t.Fatalf("saved byte = %x, want 0xff", on[testBlockSize])
	}

	if err := s.Revert(); err != nil {
		t.Fatalf("Revert() error = %v", err)
	}

	on, err = os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if on[testBlockSize] != original[0] {
		t.Fatalf("reverted byte = %x, want %x", on[testBlockSize], original[0])
	}
}

func TestRevertWithoutSaveFails(t *testing.T) {
	s, _ := newTestSession(t, 1)
	if err := s.GetBlock(1, 0); err != nil {
		t.Fatalf("GetBlock() error = %v", err)
	}
	if err := s.Revert(); err != ErrNoBackup {
		t.Fatalf("Revert() error = %v, want ErrNoBackup", err)
	}
}
