/*
 * rico2 - Header and row-directory print rendering.
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

package parser

import (
	"fmt"
	"strings"

	"github.com/ora600pl/rico2/internal/block"
	"github.com/ora600pl/rico2/internal/hexfmt"
)

func printKCBH(raw []byte) string {
	h := block.ReadKCBH(raw)
	var out strings.Builder
	fmt.Fprintf(&out, "kcbh.type:   %d (%s)\n", h.Type, block.TypeName(h.Type))
	fmt.Fprintf(&out, "kcbh.frmt:   %d\n", h.Frmt)
	fmt.Fprintf(&out, "kcbh.rdba:   0x%08x\n", h.Rdba)
	fmt.Fprintf(&out, "kcbh.bas:    0x%08x\n", h.Bas)
	fmt.Fprintf(&out, "kcbh.wrp:    %d\n", h.Wrp)
	fmt.Fprintf(&out, "kcbh.seq:    %d\n", h.Seq)
	fmt.Fprintf(&out, "kcbh.flg:    0x%02x\n", h.Flg)
	fmt.Fprintf(&out, "kcbh.chkval: 0x%04x\n", h.Chkval)
	return out.String()
}

func printKTBBH(raw []byte, desc *block.Analysis) string {
	if len(raw) < 20+24 {
		return "ktbbh: block too small\n"
	}
	h := block.ReadKTBBH(raw[20:])

	var out strings.Builder
	fmt.Fprintf(&out, "ktbbh.ktbbhtyp: %d\n", h.Ktbbhtyp)
	fmt.Fprintf(&out, "ktbbh.ktbbhsid: 0x%08x\n", h.Ktbbhsid)
	fmt.Fprintf(&out, "ktbbh.ktbbhod1: 0x%08x\n", h.Ktbbhod1)
	fmt.Fprintf(&out, "ktbbh.ktbbhod2: 0x%08x\n", h.Ktbbhod2)
	fmt.Fprintf(&out, "ktbbh.kscnwrp:  %d\n", h.Kscnwrp)
	fmt.Fprintf(&out, "ktbbh.ktbbhict: %d\n", h.Ktbbhict)
	fmt.Fprintf(&out, "ktbbh.ktbbhflg: 0x%02x\n", h.Ktbbhflg)
	fmt.Fprintf(&out, "ktbbh.ktbbhfsl: %d\n", h.Ktbbhfsl)
	fmt.Fprintf(&out, "ktbbh.ktbbhfnx: 0x%08x\n", h.Ktbbhfnx)

	itls := desc.Desc.ITLs
	for i := 0; i < itls; i++ {
		start := 20 + 24 + 24*i
		end := start + block.ITLSize
		if end > len(raw) {
			break
		}
		itl := block.ReadITL(raw[start:end])
		fmt.Fprintf(&out, "itl[%d]: usn=%d slt=%d sqn=0x%08x uba_dba=0x%08x flag=0x%04x\n",
			i, itl.Usn, itl.Slt, itl.Sqn, itl.UbaDba, itl.Flag)
	}

	return out.String()
}

func printAllKDBR(desc *block.Analysis) string {
	var out strings.Builder
	fmt.Fprintf(&out, "ntab: %d  declared_rows: %d  actual_rows: %d\n",
		desc.Desc.NTab, desc.Desc.DeclaredRows, desc.Desc.ActualRows)

	if len(desc.KDBR) > 0 {
		pointers := make([]uint16, len(desc.KDBR))
		for i, row := range desc.KDBR {
			pointers[i] = uint16(row.Pointer)
		}
		fmt.Fprintf(&out, "pointers @%d: ", desc.Desc.FirstKDBR)
		hexfmt.FormatHalf(&out, true, pointers)
		out.WriteByte('\n')
	}

	for i, row := range desc.KDBR {
		out.WriteString(kdbrLine(i, row))
	}
	return out.String()
}

func printOneKDBR(desc *block.Analysis, idx int) string {
	return kdbrLine(idx, desc.KDBR[idx])
}

func kdbrLine(idx int, row block.Row) string {
	if !row.HasHeader {
		return fmt.Sprintf("kdbr[%d]: pointer=0x%04x (unresolved)\n", idx, row.Pointer)
	}
	return fmt.Sprintf("kdbr[%d]: pointer=0x%04x offset=%d flag=0x%02x lock=0x%02x ncols=%d\n",
		idx, row.Pointer, row.Offset, row.Flag, row.Lock, row.NCols)
}

func printRowColumns(desc *block.Analysis, idx int) string {
	row := desc.KDBR[idx]
	if !row.ColumnsParsed {
		return fmt.Sprintf("kdbr[%d]: no parsed columns\n", idx)
	}
	var out strings.Builder
	for i, col := range row.ColumnData {
		fmt.Fprintf(&out, "col%d: len=%d offset=%d value=%s\n", i, col.Len, col.Offset, col.Hex)
	}
	return out.String()
}
