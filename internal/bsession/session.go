/*
 * rico2 - Session state: current block, offset, and edit mode.
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
	"errors"
	"fmt"
	"log/slog"

	"github.com/ora600pl/rico2/internal/block"
	"github.com/ora600pl/rico2/internal/manifest"
)

// MaxBlock is the number of blocks addressable within a single file_id's
// portion of a DBA.
const MaxBlock = 4_194_304

// DBA packs a file_id and block_id into a single synthetic address.
func DBA(fileID int, blockID uint32) uint32 {
	return uint32(fileID)*MaxBlock + blockID
}

// SplitDBA recovers the block_id portion of a DBA.
func SplitDBA(dba uint32) uint32 {
	return dba & (MaxBlock - 1)
}

// Session holds the one mutable block a console operates on at a time.
type Session struct {
	files *manifest.Manifest

	blockSize int

	fileID      int
	blockID     uint32
	currentPath string

	blockData       []byte
	blockDataBackup []byte

	desc       *block.Analysis
	offset     int
	editMode   bool
	manualOff  int
	currentRow int // Index into desc.KDBR of the row selected by "p kdbr idx"; -1 if none.
}

// New creates a session bound to the given manifest with the given initial
// block size.
func New(files *manifest.Manifest, blockSize int) *Session {
	return &Session{files: files, blockSize: blockSize, currentRow: -1}
}

// SetCurrentRow records which row directory entry is "current" for
// subsequent "x /r" and "p *kdbr" commands.
func (s *Session) SetCurrentRow(idx int) {
	s.currentRow = idx
}

// CurrentRow returns the index set by SetCurrentRow, or -1 if none.
func (s *Session) CurrentRow() int {
	return s.currentRow
}

// SetBlockSize updates block_size for subsequent reads; it does not
// reinterpret the block already loaded into the session.
func (s *Session) SetBlockSize(bs int) {
	slog.Debug("Command set blocksize", "blocksize", bs)
	s.blockSize = bs
}

// BlockSize returns the session's current block size.
func (s *Session) BlockSize() int {
	return s.blockSize
}

// SetManualOffset overrides the automatic offset_mod computation; it takes
// effect starting with the next GetBlock call.
func (s *Session) SetManualOffset(off int) {
	s.manualOff = off
}

// SetOffset sets current_offset. Bounds checking is the caller's
// responsibility.
func (s *Session) SetOffset(o int) {
	s.offset = o
}

// Offset returns current_offset.
func (s *Session) Offset() int {
	return s.offset
}

// SetModeEdit flips edit_mode to true, required before Save will succeed.
func (s *Session) SetModeEdit() {
	s.editMode = true
}

// EditMode reports whether the session is in edit mode.
func (s *Session) EditMode() bool {
	return s.editMode
}

// Descriptor returns the current block's analysis, or nil if no block has
// been loaded yet.
func (s *Session) Descriptor() *block.Analysis {
	return s.desc
}

// BlockData returns the in-memory current block buffer.
func (s *Session) BlockData() []byte {
	return s.blockData
}

// GetBlock clears the previous block's derived state, reads block_id from
// file_id through the manifest, and computes a fresh descriptor.
func (s *Session) GetBlock(fileID int, blockID uint32) error {
	path, ok := s.files.Path(fileID)
	if !ok {
		return fmt.Errorf("file_id %d not present in manifest", fileID)
	}

	data, err := readBlock(path, blockID, s.blockSize)
	if err != nil {
		return err
	}

	s.fileID = fileID
	s.blockID = blockID
	s.currentPath = path
	s.blockData = data
	s.blockDataBackup = nil
	s.offset = 0
	s.currentRow = -1

	desc, err := block.Analyze(data, fileID, path, DBA(fileID, blockID), s.manualOff)
	if err != nil {
		return err
	}
	s.desc = desc

	slog.Debug("Command set dba", "dba", desc.Desc.DBA, "file", path, "block", blockID)

	return nil
}

// Path resolves a 1-based file_id to its manifest path.
func (s *Session) Path(fileID int) (string, bool) {
	return s.files.Path(fileID)
}

// ErrNoBlockLoaded is returned by operations that require a block to
// already be loaded into the session.
var ErrNoBlockLoaded = errors.New("no block loaded")
