/*
 * rico2 - Block analyzer: row directory and per-row column parsing.
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

package block

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// Block type/subtype constants the analyzer recognizes.
const (
	TypeData = 6

	SubtypeTableCluster = 1
	SubtypeIndex        = 2
)

// NullSentinel is the literal hex marker stored for a NULL column, matching
// the forensic display convention for a NULL column.
const NullSentinel = "*NULL*"

// Row flag values. FlagHead and FlagCont carry column data; FlagHead and
// FlagHeadCounted both count toward ACTUAL_ROWS.
const (
	FlagHead        = 0x2C
	FlagCont        = 0x3C
	FlagHeadCounted = 0x6C
)

var blockTypeNames = map[uint8]string{
	6:  "DATA",
	32: "FIRST LEVEL BITMAP BLOCK",
	33: "SECOND LEVEL BITMAP BLOCK",
	34: "THIRD LEVEL BITMAP BLOCK",
	35: "PAGETABLE SEGMENT HEADER",
}

var blockSubtypeNames = map[uint8]string{
	1: "Table/Cluster",
	2: "INDEX",
}

// TypeName returns the human-readable label for a block type byte, or
// "OTHER" if unrecognized.
func TypeName(t uint8) string {
	if n, ok := blockTypeNames[t]; ok {
		return n
	}
	return "OTHER"
}

// SubtypeName returns the human-readable label for a block subtype byte.
func SubtypeName(t uint8) string {
	if n, ok := blockSubtypeNames[t]; ok {
		return n
	}
	return "OTHER"
}

// ObjdOffset maps a block type to the byte offset of its embedded OBJD
// field, used by search's per-block object-id filter.
var ObjdOffset = map[uint8]int{
	6:  24,
	32: 192,
	33: 104,
	34: 192,
	35: 272,
}

// Column is one decoded column slot within a row: its declared length, its
// absolute byte offset in the block, and its raw hex (or the NullSentinel
// literal for a NULL column).
type Column struct {
	Len    int
	Offset int
	Hex    string
}

// Row is one row-directory entry together with its header fields and, when
// parsed, its column data.
type Row struct {
	DirOffset int // Offset of this row's u16 entry in the kdbr array.
	Pointer   int // Raw kdbr pointer value.
	Offset    int // Resolved absolute row offset ("abs").

	HasHeader bool // False if the row offset could not be read at all.
	Flag      uint8
	Lock      uint8

	ColumnsParsed bool
	NCols         int
	ColumnData    []Column
}

// Descriptor is the current-block descriptor a console "p" command prints.
type Descriptor struct {
	DBA      uint32
	FileID   int
	FileName string

	BlockType    uint8
	BlockSubtype uint8

	ITLs         int
	DeclaredRows int
	ActualRows   int
	NTab         int
	FirstKDBR    int
}

// Analysis is everything the analyzer derives from one raw block.
type Analysis struct {
	Desc      Descriptor
	OffsetMod int

	KDBR []Row // Only populated for DATA-table blocks.

	MinRowData int // -1 if no rows were resolved.
	MaxRowData int
}

// IsDataTable reports whether this block is a parsed row-bearing DATA block.
func (a *Analysis) IsDataTable() bool {
	return a.Desc.BlockType == TypeData && a.Desc.BlockSubtype == SubtypeTableCluster
}

// Analyze decomposes a raw block of exactly blockSize bytes. manualOffset,
// when nonzero, overrides the automatically computed offset_mod, matching
// "set manualoffset" taking effect at block-load time.
func Analyze(raw []byte, fileID int, fileName string, dba uint32, manualOffset int) (*Analysis, error) {
	if len(raw) < 21 {
		return nil, fmt.Errorf("block too small to analyze: %d bytes", len(raw))
	}

	a := &Analysis{MinRowData: -1, MaxRowData: -1}
	a.Desc.DBA = dba
	a.Desc.FileID = fileID
	a.Desc.FileName = fileName
	a.Desc.BlockType = raw[0]
	a.Desc.BlockSubtype = raw[20]

	if a.Desc.BlockType != TypeData {
		return a, nil
	}

	if len(raw) < 37 {
		return nil, fmt.Errorf("DATA block too small for KTBBH: %d bytes", len(raw))
	}
	itls := int(raw[36])
	a.Desc.ITLs = itls

	a.OffsetMod = manualOffset
	endOfKTBBH := 20 + 24 + 24*itls
	if manualOffset == 0 && len(raw) >= endOfKTBBH+8 {
		flag0 := binary.LittleEndian.Uint32(raw[endOfKTBBH : endOfKTBBH+4])
		flag1 := binary.LittleEndian.Uint32(raw[endOfKTBBH+4 : endOfKTBBH+8])
		switch {
		case flag0 == 0 && flag1 == 0:
			a.OffsetMod = 0
		case flag0 == 0 && flag1 > 0:
			a.OffsetMod = -4
		default:
			a.OffsetMod = -8
		}
	}

	if a.Desc.BlockSubtype == SubtypeTableCluster {
		parseRowDirectory(raw, a)
	}

	return a, nil
}

// parseRowDirectory runs the row-directory pass described in section 4.3.
func parseRowDirectory(raw []byte, a *Analysis) {
	itls := a.Desc.ITLs

	ntabOffset := 53 + 24*itls + a.OffsetMod
	declaredRowsOffset := 54 + 24*itls + a.OffsetMod

	ntab := 0
	if ntabOffset >= 0 && ntabOffset < len(raw) {
		ntab = int(raw[ntabOffset])
	}
	declaredRows := 0
	if declaredRowsOffset >= 0 && declaredRowsOffset < len(raw) {
		declaredRows = int(raw[declaredRowsOffset])
	}
	a.Desc.NTab = ntab
	a.Desc.DeclaredRows = declaredRows

	firstKDBR := 70 + 24*itls + 4*(ntab-1) + a.OffsetMod
	a.Desc.FirstKDBR = firstKDBR

	if declaredRows == 0 {
		return
	}

	actualRows := 0
	rowPointerOffset := firstKDBR

	for i := 0; i < declaredRows; i++ {
		row := Row{DirOffset: rowPointerOffset}

		if rowPointerOffset < 0 || rowPointerOffset+2 > len(raw) {
			a.KDBR = append(a.KDBR, row)
			rowPointerOffset += 2
			continue
		}

		rp := int(binary.LittleEndian.Uint16(raw[rowPointerOffset : rowPointerOffset+2]))
		row.Pointer = rp
		abs := rp + 100 + 24*(itls-2) + a.OffsetMod
		row.Offset = abs

		if abs < a.MinRowData || a.MinRowData == -1 {
			a.MinRowData = abs
		}
		if abs > a.MaxRowData {
			a.MaxRowData = abs
		}

		if abs < 0 || abs+2 > len(raw) {
			a.KDBR = append(a.KDBR, row)
			rowPointerOffset += 2
			continue
		}

		row.HasHeader = true
		row.Flag = raw[abs]
		row.Lock = raw[abs+1]

		if row.Flag == FlagHead || row.Flag == FlagHeadCounted {
			actualRows++
		}

		if row.Flag == FlagHead || row.Flag == FlagCont {
			parseColumns(raw, &row, abs+2, a)
		}

		a.KDBR = append(a.KDBR, row)
		rowPointerOffset += 2
	}

	a.Desc.ActualRows = actualRows
}

// parseColumns decodes the per-row ncols/column-length sequence starting at
// rowPos. Any read past the end of raw aborts parsing for this row only;
// the row keeps its header fields and no column data, as required by the
// "failure swallowing" behavior in the design notes.
func parseColumns(raw []byte, row *Row, rowPos int, a *Analysis) {
	complete := false
	defer func() {
		if r := recover(); r != nil {
			// A malformed row ran past the buffer; keep header-only fields.
		}
		if !complete {
			row.ColumnsParsed = false
			row.NCols = 0
			row.ColumnData = nil
		}
	}()

	ncols, rowPos, ok := readLenEscalated(raw, rowPos, 254)
	if !ok {
		return
	}
	row.NCols = ncols
	row.ColumnsParsed = true
	row.ColumnData = make([]Column, 0, ncols)

	for i := 0; i < ncols; i++ {
		colOffset := rowPos
		if rowPos >= len(raw) {
			return
		}
		clen := int(raw[rowPos])
		rowPos++

		var colHex string
		switch {
		case clen == 255:
			colHex = NullSentinel
			clen = 0
		default:
			if clen == 254 {
				if rowPos+2 > len(raw) {
					return
				}
				clen = int(binary.LittleEndian.Uint16(raw[rowPos : rowPos+2]))
				rowPos += 2
			}
			if rowPos+clen > len(raw) {
				return
			}
			colHex = hex.EncodeToString(raw[rowPos : rowPos+clen])
		}

		row.ColumnData = append(row.ColumnData, Column{Len: clen, Offset: colOffset, Hex: colHex})
		rowPos += clen

		if rowPos > a.MaxRowData {
			a.MaxRowData = rowPos
		}
	}
	complete = true
}

// readLenEscalated reads a u8 length at pos, escalating to a following u16
// when the byte equals sentinel (254 for ncols). It returns the updated
// read position.
func readLenEscalated(raw []byte, pos int, sentinel byte) (int, int, bool) {
	if pos >= len(raw) {
		return 0, pos, false
	}
	v := int(raw[pos])
	pos++
	if v == int(sentinel) {
		if pos+2 > len(raw) {
			return 0, pos, false
		}
		v = int(binary.LittleEndian.Uint16(raw[pos : pos+2]))
		pos += 2
	}
	return v, pos, true
}
