/*
 * rico2 - Block content and object-ID search.
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

// Package search implements single-block and whole-file scanning for a
// byte needle and/or a per-block object-ID filter.
package search

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/ora600pl/rico2/internal/block"
)

// Match is one located needle occurrence, or (when needle is absent) one
// block whose object-ID matched the filter.
type Match struct {
	BlockID   uint32
	Offset    int // -1 when this Match represents a whole-block objd hit.
	BlockType uint8
}

// Request bundles search parameters. ObjD == -1 means "no object-ID
// filter"; BlockID == -1 means "scan every block of the file".
type Request struct {
	Path      string
	BlockSize int
	BlockID   int64
	ObjD      int64
	Needle    []byte
}

// Run executes Request and returns every match, in block order, then
// within a block in ascending offset order.
func Run(req Request) ([]Match, error) {
	if req.BlockID >= 0 {
		return searchSingleBlock(req)
	}
	return searchWholeFile(req)
}

func searchSingleBlock(req Request) ([]Match, error) {
	f, err := os.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer f.Close()

	buf := make([]byte, req.BlockSize)
	off := req.BlockID * int64(req.BlockSize)
	if _, err := f.Seek(off, io.SeekStart); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	var matches []Match
	if len(req.Needle) > 0 {
		for _, at := range findAll(buf, req.Needle) {
			matches = append(matches, Match{BlockID: uint32(req.BlockID), Offset: at, BlockType: buf[0]})
		}
	}

	return matches, nil
}

func searchWholeFile(req Request) ([]Match, error) {
	f, err := os.Open(req.Path)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	totalBlocks := info.Size() / int64(req.BlockSize)

	var matches []Match
	buf := make([]byte, req.BlockSize)

	// Block 0 is the file header, not a data block; the scan starts at
	// block 1.
	if totalBlocks > 0 {
		if _, err := f.Seek(int64(req.BlockSize), io.SeekStart); err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}
	}

	for bid := int64(1); bid < totalBlocks; bid++ {
		if _, err := io.ReadFull(f, buf); err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}

		blockType := buf[0]
		objdAtBlock := int64(0)
		objdMapped := false
		if off, ok := block.ObjdOffset[blockType]; ok && off+4 <= len(buf) {
			objdAtBlock = int64(binary.LittleEndian.Uint32(buf[off : off+4]))
			objdMapped = true
		}

		// A block type with no known OBJD location can never satisfy an
		// active objd filter, even a filter of 0.
		switch {
		case len(req.Needle) > 0:
			// Mode A: needle present, objd filter optional.
			if req.ObjD != -1 && (!objdMapped || objdAtBlock != req.ObjD) {
				continue
			}
			for _, at := range findAll(buf, req.Needle) {
				matches = append(matches, Match{BlockID: uint32(bid), Offset: at, BlockType: blockType})
			}
		default:
			// Mode B: needle absent, objd filter required.
			if req.ObjD == -1 {
				continue
			}
			if objdMapped && objdAtBlock == req.ObjD {
				matches = append(matches, Match{BlockID: uint32(bid), Offset: -1, BlockType: blockType})
			}
		}
	}

	return matches, nil
}

// findAll returns every offset at which needle occurs in buf, including
// overlapping occurrences.
func findAll(buf, needle []byte) []int {
	var offsets []int
	start := 0
	for {
		idx := bytes.Index(buf[start:], needle)
		if idx < 0 {
			break
		}
		at := start + idx
		offsets = append(offsets, at)
		start = at + 1
	}
	return offsets
}
