/*
 * rico2 - Block file I/O primitives.
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

// Package bsession holds the live editing session: the current block, its
// descriptor, and the read/write/mutate operations a console drives.
package bsession

import (
	"fmt"
	"io"
	"os"
)

// IoError wraps a file I/O failure for a given path and block.
type IoError struct {
	Path    string
	BlockID uint32
	Err     error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("block io %s (block %d): %v", e.Path, e.BlockID, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}

// readBlock seeks to blockID*blockSize in the file at path and reads exactly
// blockSize bytes.
func readBlock(path string, blockID uint32, blockSize int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IoError{Path: path, BlockID: blockID, Err: err}
	}
	defer f.Close()

	buf := make([]byte, blockSize)
	off := int64(blockID) * int64(blockSize)
	if _, err := f.Seek(off, io.SeekStart); err != nil {
		return nil, &IoError{Path: path, BlockID: blockID, Err: err}
	}
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, &IoError{Path: path, BlockID: blockID, Err: err}
	}
	return buf, nil
}

// writeBlock opens path read+write, reads back the pre-image of the target
// block (for the caller's backup buffer), then writes data at the same
// offset. data must be exactly blockSize bytes.
func writeBlock(path string, blockID uint32, blockSize int, data []byte) (preImage []byte, err error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, &IoError{Path: path, BlockID: blockID, Err: err}
	}
	defer f.Close()

	off := int64(blockID) * int64(blockSize)

	pre := make([]byte, blockSize)
	if _, err := f.Seek(off, io.SeekStart); err != nil {
		return nil, &IoError{Path: path, BlockID: blockID, Err: err}
	}
	if _, err := io.ReadFull(f, pre); err != nil {
		return nil, &IoError{Path: path, BlockID: blockID, Err: err}
	}

	if _, err := f.Seek(off, io.SeekStart); err != nil {
		return nil, &IoError{Path: path, BlockID: blockID, Err: err}
	}
	if _, err := f.Write(data); err != nil {
		return nil, &IoError{Path: path, BlockID: blockID, Err: err}
	}

	return pre, nil
}
