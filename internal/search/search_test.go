/*
 * rico2 - Search tests.
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

package search

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

const blockSize = 64

// writeBlocks lays out blockTypes starting at on-disk block 1; block 0 is
// the file header and is never scanned by a whole-file search, so it is
// written here as an inert placeholder block. Indices in objd/needleAt are
// relative to blockTypes (i.e. block i on disk is blockTypes[i], at disk
// block id i+1).
func writeBlocks(t *testing.T, blockTypes []uint8, objd []uint32, needleAt map[int]int, needle []byte) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test01.dbf")

	data := make([]byte, (len(blockTypes)+1)*blockSize)
	for i, bt := range blockTypes {
		base := (i + 1) * blockSize
		data[base] = bt
		if bt == 6 {
			binary.LittleEndian.PutUint32(data[base+24:base+28], objd[i])
		}
		if at, ok := needleAt[i]; ok {
			copy(data[base+at:], needle)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestSingleBlockSearchFindsAllOccurrences(t *testing.T) {
	needle := []byte("ABC")
	path := writeBlocks(t, []uint8{6}, []uint32{100}, map[int]int{0: 30}, needle)

	matches, err := Run(Request{Path: path, BlockSize: blockSize, BlockID: 1, ObjD: -1, Needle: needle})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("len(matches) = %d, want 1", len(matches))
	}
	if matches[0].Offset != 30 {
		t.Errorf("offset = %d, want 30", matches[0].Offset)
	}
}

func TestWholeFileModeAFiltersByObjd(t *testing.T) {
	needle := []byte("XYZ")
	path := writeBlocks(t,
		[]uint8{6, 6, 6},
		[]uint32{10, 20, 10},
		map[int]int{0: 40, 1: 40, 2: 40},
		needle)

	matches, err := Run(Request{Path: path, BlockSize: blockSize, BlockID: -1, ObjD: 10, Needle: needle})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("len(matches) = %d, want 2", len(matches))
	}
	for _, m := range matches {
		if m.BlockID != 1 && m.BlockID != 3 {
			t.Errorf("unexpected block %d matched with objd filter 10", m.BlockID)
		}
	}
}

func TestWholeFileModeANoFilterMatchesEverywhere(t *testing.T) {
	needle := []byte("XYZ")
	path := writeBlocks(t,
		[]uint8{6, 6},
		[]uint32{10, 20},
		map[int]int{0: 40, 1: 40},
		needle)

	matches, err := Run(Request{Path: path, BlockSize: blockSize, BlockID: -1, ObjD: -1, Needle: needle})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("len(matches) = %d, want 2", len(matches))
	}
}

func TestWholeFileModeBListsBlocksByObjd(t *testing.T) {
	path := writeBlocks(t,
		[]uint8{6, 6, 32},
		[]uint32{5, 5, 0},
		nil, nil)

	matches, err := Run(Request{Path: path, BlockSize: blockSize, BlockID: -1, ObjD: 5, Needle: nil})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("len(matches) = %d, want 2", len(matches))
	}
	for _, m := range matches {
		if m.Offset != -1 {
			t.Errorf("mode B match should carry Offset -1, got %d", m.Offset)
		}
	}
}

func TestWholeFileModeBRequiresObjdFilter(t *testing.T) {
	path := writeBlocks(t, []uint8{6}, []uint32{5}, nil, nil)

	matches, err := Run(Request{Path: path, BlockSize: blockSize, BlockID: -1, ObjD: -1, Needle: nil})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("len(matches) = %d, want 0 when neither needle nor objd filter given", len(matches))
	}
}

func TestUnmappedBlockTypeNeverMatchesObjdFilter(t *testing.T) {
	path := writeBlocks(t, []uint8{99}, nil, nil, nil)

	matches, err := Run(Request{Path: path, BlockSize: blockSize, BlockID: -1, ObjD: 0, Needle: nil})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("len(matches) = %d, want 0 for an unmapped block type", len(matches))
	}
}
