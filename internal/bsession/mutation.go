/*
 * rico2 - Block mutation, checksum, save, and revert.
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
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNotInEditMode is returned by Save when the session has not called
// SetModeEdit.
var ErrNotInEditMode = errors.New("session is not in edit mode")

// ErrNoBackup is returned by Revert when no save has produced a backup
// image yet.
var ErrNoBackup = errors.New("no backup image to revert to")

// Modify replaces block_data[offset : offset+len(b)] with b in place,
// preserving the block's total length. It refuses to write past the end
// of the block.
func (s *Session) Modify(offset int, b []byte) error {
	if s.blockData == nil {
		return ErrNoBlockLoaded
	}
	if offset < 0 || offset+len(b) > len(s.blockData) {
		return fmt.Errorf("modify: %d bytes at offset %d exceeds block size %d", len(b), offset, len(s.blockData))
	}
	copy(s.blockData[offset:offset+len(b)], b)
	slog.Debug("Command modify", "dba", DBA(s.fileID, s.blockID), "offset", offset, "bytes", len(b))
	return nil
}

// Checksum computes the XOR-fold checksum of the current block with the
// chkval slot (bytes 16-17) masked to zero. When apply is true the computed
// checksum is written back into block_data at offset 16.
func (s *Session) Checksum(apply bool) (uint16, error) {
	if s.blockData == nil {
		return 0, ErrNoBlockLoaded
	}
	if len(s.blockData)%8 != 0 {
		return 0, fmt.Errorf("checksum: block size %d is not a multiple of 8", len(s.blockData))
	}

	masked := make([]byte, len(s.blockData))
	copy(masked, s.blockData)
	masked[16] = 0
	masked[17] = 0

	var acc uint64
	for i := 0; i < len(masked); i += 8 {
		acc ^= binary.LittleEndian.Uint64(masked[i : i+8])
	}
	acc ^= acc >> 32
	acc ^= acc >> 16

	sum := uint16(acc & 0xffff)

	if apply {
		binary.LittleEndian.PutUint16(s.blockData[16:18], sum)
		slog.Debug("Command sum apply", "dba", DBA(s.fileID, s.blockID), "chkval", sum)
	}

	return sum, nil
}

// Save requires edit_mode, writes block_data to the current file/block, and
// captures the pre-save on-disk content into the backup buffer so Revert
// can undo it.
func (s *Session) Save() error {
	if !s.editMode {
		return ErrNotInEditMode
	}
	if s.blockData == nil {
		return ErrNoBlockLoaded
	}

	pre, err := writeBlock(s.currentPath, s.blockID, len(s.blockData), s.blockData)
	if err != nil {
		return err
	}
	s.blockDataBackup = pre

	slog.Info("Command save", "dba", DBA(s.fileID, s.blockID), "file", s.currentPath, "block", s.blockID)

	return nil
}

// Revert ("dupa") writes block_data_backup back to the current block's
// file. The target file is resolved from the session's current descriptor
// (current_block_desc.FileID), not a caller-supplied binding, so a stale
// file_id captured before a later get_block can never cause a revert to
// land in the wrong file.
func (s *Session) Revert() error {
	if s.blockDataBackup == nil {
		return ErrNoBackup
	}
	if s.desc == nil {
		return ErrNoBlockLoaded
	}

	path, ok := s.files.Path(s.desc.Desc.FileID)
	if !ok {
		return fmt.Errorf("revert: file_id %d not present in manifest", s.desc.Desc.FileID)
	}

	if _, err := writeBlock(path, s.blockID, len(s.blockDataBackup), s.blockDataBackup); err != nil {
		return err
	}

	copy(s.blockData, s.blockDataBackup)

	slog.Info("Command dupa", "file", path, "block", s.blockID)

	return nil
}
