/*
 * rico2 - Fixed block header readers (KCBH, KTBBH, ITL).
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

// Package block decomposes a raw Oracle datafile block into its typed
// headers, row directory, and per-row column data.
package block

import "encoding/binary"

// KCBH is the 20-byte cache header at offset 0 of every block.
type KCBH struct {
	Type    uint8
	Frmt    uint8
	Spare1  uint8
	Spare2  uint8
	Rdba    uint32
	Bas     uint32
	Wrp     uint16
	Seq     uint8
	Flg     uint8
	Chkval  uint16
	Spare3  uint16
}

// ReadKCBH unpacks the 20-byte KCBH record from raw. Callers must supply a
// slice of at least 20 bytes.
func ReadKCBH(raw []byte) KCBH {
	return KCBH{
		Type:   raw[0],
		Frmt:   raw[1],
		Spare1: raw[2],
		Spare2: raw[3],
		Rdba:   binary.LittleEndian.Uint32(raw[4:8]),
		Bas:    binary.LittleEndian.Uint32(raw[8:12]),
		Wrp:    binary.LittleEndian.Uint16(raw[12:14]),
		Seq:    raw[14],
		Flg:    raw[15],
		Chkval: binary.LittleEndian.Uint16(raw[16:18]),
		Spare3: binary.LittleEndian.Uint16(raw[18:20]),
	}
}

// KTBBH is the fixed 24-byte prefix of the transaction header starting at
// offset 20. The variable-length ITL array follows immediately after.
// Ktbbhict sits at relative offset 16 (absolute block offset 36), matching
// the layout the row-directory pass reads directly off raw[36].
type KTBBH struct {
	Ktbbhtyp uint8
	Ktbbhsid uint32 // ktbbhsg1 / ktbbhod1 union.
	Ktbbhod1 uint32
	Ktbbhod2 uint32
	Kscnwrp  uint16
	Ktbbhict uint8 // Number of ITL entries (N), absolute offset 36.
	Ktbbhflg uint8
	Ktbbhfsl uint8
	Ktbbhfnx uint32
}

// ReadKTBBH unpacks the 24-byte KTBBH prefix from raw, which must start at
// the transaction header (block offset 20).
func ReadKTBBH(raw []byte) KTBBH {
	return KTBBH{
		Ktbbhtyp: raw[0],
		Ktbbhsid: binary.LittleEndian.Uint32(raw[1:5]),
		Ktbbhod1: binary.LittleEndian.Uint32(raw[5:9]),
		Ktbbhod2: binary.LittleEndian.Uint32(raw[9:13]),
		Kscnwrp:  binary.LittleEndian.Uint16(raw[13:15]),
		Ktbbhict: raw[16],
		Ktbbhflg: raw[17],
		Ktbbhfsl: raw[18],
		Ktbbhfnx: binary.LittleEndian.Uint32(raw[19:23]),
	}
}

// ITLEntry is one 24-byte interested-transaction-list slot.
type ITLEntry struct {
	Usn     uint16
	Slt     uint16
	Sqn     uint32
	UbaDba  uint32
	UbaSeq  uint16
	UbaRec  uint8
	Flag    uint16
	FscWrp  uint16
	BaseSCN uint32
}

// ITLSize is the fixed on-disk size of one ITL entry.
const ITLSize = 24

// ReadITL unpacks one 24-byte ITL entry from raw.
func ReadITL(raw []byte) ITLEntry {
	return ITLEntry{
		Usn:     binary.LittleEndian.Uint16(raw[0:2]),
		Slt:     binary.LittleEndian.Uint16(raw[2:4]),
		Sqn:     binary.LittleEndian.Uint32(raw[4:8]),
		UbaDba:  binary.LittleEndian.Uint32(raw[8:12]),
		UbaSeq:  binary.LittleEndian.Uint16(raw[12:14]),
		UbaRec:  raw[14],
		Flag:    binary.LittleEndian.Uint16(raw[15:17]),
		FscWrp:  binary.LittleEndian.Uint16(raw[17:19]),
		BaseSCN: binary.LittleEndian.Uint32(raw[19:23]),
	}
}
