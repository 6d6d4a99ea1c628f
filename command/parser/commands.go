/*
 * rico2 - Command verb handlers.
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
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ora600pl/rico2/internal/block"
	"github.com/ora600pl/rico2/internal/bsession"
	"github.com/ora600pl/rico2/internal/decode"
	"github.com/ora600pl/rico2/internal/hexfmt"
	"github.com/ora600pl/rico2/internal/search"
)

// cmdSet handles "set blocksize N", "set dba F,B", "set offset N",
// "set manualoffset N", and "set mode edit".
func cmdSet(line *cmdLine, sess *bsession.Session) (string, error) {
	what := strings.ToLower(line.getWord())
	switch what {
	case "blocksize":
		n, err := line.getInt()
		if err != nil {
			return "", fmt.Errorf("%w: blocksize requires a number", ErrUsage)
		}
		sess.SetBlockSize(n)
		return "", nil

	case "dba":
		arg := line.getWord()
		parts := strings.SplitN(arg, ",", 2)
		if len(parts) != 2 {
			return "", fmt.Errorf("%w: dba requires F,B", ErrUsage)
		}
		fileID, err1 := strconv.Atoi(parts[0])
		blockID, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			return "", fmt.Errorf("%w: dba requires numeric F,B", ErrUsage)
		}
		if err := sess.GetBlock(fileID, uint32(blockID)); err != nil {
			return "", err
		}
		return "", nil

	case "offset":
		n, err := line.getInt()
		if err != nil {
			return "", fmt.Errorf("%w: offset requires a number", ErrUsage)
		}
		sess.SetOffset(n)
		return "", nil

	case "manualoffset":
		n, err := line.getInt()
		if err != nil {
			return "", fmt.Errorf("%w: manualoffset requires a number", ErrUsage)
		}
		sess.SetManualOffset(n)
		return "", nil

	case "mode":
		mode := strings.ToLower(line.getWord())
		if mode != "edit" {
			return "", fmt.Errorf("%w: only \"set mode edit\" is supported", ErrUsage)
		}
		sess.SetModeEdit()
		return "", nil
	}

	return "", fmt.Errorf("%w: unknown set target %q", ErrUsage, what)
}

// cmdPrint handles "p kcbh", "p ktbbh", "p kdbr [idx]", "p *kdbr[idx]".
func cmdPrint(line *cmdLine, sess *bsession.Session) (string, error) {
	target := strings.ToLower(line.getWord())
	desc := sess.Descriptor()
	if desc == nil {
		return "", bsession.ErrNoBlockLoaded
	}
	raw := sess.BlockData()

	switch {
	case target == "kcbh":
		return printKCBH(raw), nil

	case target == "ktbbh":
		return printKTBBH(raw, desc), nil

	case target == "kdbr":
		rest := strings.TrimSpace(line.rest())
		if rest == "" {
			return printAllKDBR(desc), nil
		}
		idx, err := strconv.Atoi(rest)
		if err != nil {
			return "", fmt.Errorf("%w: kdbr index must be numeric", ErrUsage)
		}
		if idx < 0 || idx >= len(desc.KDBR) {
			return "", fmt.Errorf("kdbr index %d out of range (0..%d)", idx, len(desc.KDBR)-1)
		}
		sess.SetCurrentRow(idx)
		return printOneKDBR(desc, idx), nil

	case strings.HasPrefix(target, "*kdbr"):
		idx, ok := parseBracketIndex(target, "*kdbr")
		if !ok {
			idx = sess.CurrentRow()
		}
		if idx < 0 || idx >= len(desc.KDBR) {
			return "", fmt.Errorf("kdbr index %d out of range", idx)
		}
		sess.SetCurrentRow(idx)
		return printRowColumns(desc, idx), nil
	}

	return "", fmt.Errorf("%w: unknown print target %q", ErrUsage, target)
}

// parseBracketIndex parses a "NAME[idx]" token, returning (idx, true) if a
// bracketed index was present.
func parseBracketIndex(token, name string) (int, bool) {
	rest := strings.TrimPrefix(token, name)
	rest = strings.TrimPrefix(rest, "[")
	rest = strings.TrimSuffix(rest, "]")
	if rest == "" {
		return 0, false
	}
	idx, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return idx, true
}

// cmdExamine handles "x /rTYPES": re-decode the current row's columns
// using an explicit letter-encoded type sequence (e.g. "nnct").
func cmdExamine(line *cmdLine, sess *bsession.Session) (string, error) {
	arg := line.getWord()
	if !strings.HasPrefix(arg, "/r") {
		return "", fmt.Errorf("%w: x requires /rTYPES", ErrUsage)
	}
	types := arg[2:]

	desc := sess.Descriptor()
	if desc == nil {
		return "", bsession.ErrNoBlockLoaded
	}
	idx := sess.CurrentRow()
	if idx < 0 || idx >= len(desc.KDBR) {
		return "", errors.New("no current row selected (use \"p kdbr idx\" first)")
	}

	row := desc.KDBR[idx]
	if !row.ColumnsParsed {
		return "", errors.New("current row has no parsed columns")
	}

	// A type string shorter than the column count leaves the remaining
	// columns undecoded rather than failing the whole command.
	var out strings.Builder
	for i, col := range row.ColumnData {
		fmt.Fprintf(&out, "col%d: ", i)
		if i >= len(types) || col.Hex == block.NullSentinel {
			if col.Hex == block.NullSentinel {
				out.WriteString(block.NullSentinel)
			}
			out.WriteByte('\n')
			continue
		}
		ov, err := decode.New(col.Hex, types[i], "")
		if err != nil {
			fmt.Fprintf(&out, "<decode error: %v>\n", err)
			continue
		}
		out.WriteString(ov.ValueString)
		out.WriteByte('\n')
	}
	return out.String(), nil
}

// cmdMap handles "map": the block-level structural extents.
func cmdMap(_ *cmdLine, sess *bsession.Session) (string, error) {
	desc := sess.Descriptor()
	if desc == nil {
		return "", bsession.ErrNoBlockLoaded
	}

	var out strings.Builder
	fmt.Fprintf(&out, "block type: %s (%d)\n", block.TypeName(desc.Desc.BlockType), desc.Desc.BlockType)

	headerEnd := 20 + 24*desc.Desc.ITLs
	fmt.Fprintf(&out, "header:  0..%d\n", headerEnd)

	if !desc.IsDataTable() {
		return out.String(), nil
	}

	fmt.Fprintf(&out, "subtype: %s (%d)\n", block.SubtypeName(desc.Desc.BlockSubtype), desc.Desc.BlockSubtype)
	kdbrEnd := desc.Desc.FirstKDBR + 2*desc.Desc.DeclaredRows
	fmt.Fprintf(&out, "kdbr:    %d..%d\n", desc.Desc.FirstKDBR, kdbrEnd)
	fmt.Fprintf(&out, "rowdata: %d..%d\n", desc.MinRowData, desc.MaxRowData)

	return out.String(), nil
}

// cmdDump handles "d": 16-bytes-per-line hex dump starting at current
// offset.
func cmdDump(_ *cmdLine, sess *bsession.Session) (string, error) {
	raw := sess.BlockData()
	if raw == nil {
		return "", bsession.ErrNoBlockLoaded
	}
	off := sess.Offset()
	if off < 0 || off > len(raw) {
		return "", fmt.Errorf("current offset %d out of range", off)
	}
	return hexfmt.Dump(raw[off:], off), nil
}

// cmdSum handles "sum [apply]".
func cmdSum(line *cmdLine, sess *bsession.Session) (string, error) {
	apply := strings.ToLower(strings.TrimSpace(line.rest())) == "apply"
	sum, err := sess.Checksum(apply)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("checksum: %04x\n", sum), nil
}

// cmdModify handles "modify -s BYTES" or "modify -h HEX".
func cmdModify(line *cmdLine, sess *bsession.Session) (string, error) {
	flag := line.getWord()
	var data []byte
	switch flag {
	case "-s":
		data = []byte(line.rest())
	case "-h":
		raw, err := hex.DecodeString(strings.TrimSpace(line.rest()))
		if err != nil {
			return "", fmt.Errorf("%w: invalid hex argument", ErrUsage)
		}
		data = raw
	default:
		return "", fmt.Errorf("%w: modify requires -s or -h", ErrUsage)
	}

	if err := sess.Modify(sess.Offset(), data); err != nil {
		return "", err
	}
	return fmt.Sprintf("modified %d bytes at offset %d: %s\n", len(data), sess.Offset(), hexfmt.Bytes(data)), nil
}

// cmdFind handles "find [-f F] [-o OBJD] [-b B] [-s S | -h H]". With -f
// absent the search targets the loaded block's file, and with -b also
// absent it narrows to the loaded block itself; an explicit -f without -b
// scans that whole file.
func cmdFind(line *cmdLine, sess *bsession.Session) (string, error) {
	fileID := -1
	objd := int64(-1)
	blockID := int64(-1)
	var needle []byte
	haveString := false
	haveHex := false

	for {
		flag := line.getWord()
		if flag == "" {
			break
		}
		switch flag {
		case "-f":
			n, err := line.getInt()
			if err != nil {
				return "", fmt.Errorf("%w: -f requires a file id", ErrUsage)
			}
			fileID = n
		case "-o":
			n, err := line.getInt()
			if err != nil {
				return "", fmt.Errorf("%w: -o requires a number", ErrUsage)
			}
			objd = int64(n)
		case "-b":
			n, err := line.getInt()
			if err != nil {
				return "", fmt.Errorf("%w: -b requires a block id", ErrUsage)
			}
			blockID = int64(n)
		case "-s":
			if haveHex {
				return "", fmt.Errorf("%w: -s and -h are mutually exclusive", ErrUsage)
			}
			needle = []byte(line.getWord())
			haveString = true
		case "-h":
			if haveString {
				return "", fmt.Errorf("%w: -s and -h are mutually exclusive", ErrUsage)
			}
			raw, err := hex.DecodeString(line.getWord())
			if err != nil {
				return "", fmt.Errorf("%w: invalid hex needle", ErrUsage)
			}
			needle = raw
			haveHex = true
		default:
			return "", fmt.Errorf("%w: unknown find flag %q", ErrUsage, flag)
		}
	}

	if fileID == -1 {
		desc := sess.Descriptor()
		if desc == nil {
			return "", bsession.ErrNoBlockLoaded
		}
		fileID = desc.Desc.FileID
		if blockID == -1 {
			blockID = int64(bsession.SplitDBA(desc.Desc.DBA))
		}
	}
	path, ok := sess.Path(fileID)
	if !ok {
		return "", fmt.Errorf("file_id %d not present in manifest", fileID)
	}

	matches, err := search.Run(search.Request{
		Path:      path,
		BlockSize: sess.BlockSize(),
		BlockID:   blockID,
		ObjD:      objd,
		Needle:    needle,
	})
	if err != nil {
		return "", err
	}

	var out strings.Builder
	for _, m := range matches {
		if m.Offset >= 0 {
			fmt.Fprintf(&out, "block %d offset %d (type %s)\n", m.BlockID, m.Offset, block.TypeName(m.BlockType))
		} else {
			fmt.Fprintf(&out, "block %d (type %s)\n", m.BlockID, block.TypeName(m.BlockType))
		}
	}
	return out.String(), nil
}

// cmdSelect handles "select colN=T:VALUE": a linear scan of the current
// block's rows matching a decoded column value.
func cmdSelect(line *cmdLine, sess *bsession.Session) (string, error) {
	desc := sess.Descriptor()
	if desc == nil {
		return "", bsession.ErrNoBlockLoaded
	}

	// The value may contain spaces ("select col0=c:dupa blada"), so the
	// whole remainder of the line is the argument.
	arg := line.rest()
	eq := strings.SplitN(arg, "=", 2)
	if len(eq) != 2 || !strings.HasPrefix(eq[0], "col") {
		return "", fmt.Errorf("%w: select requires colN=T:VALUE", ErrUsage)
	}
	colNum, err := strconv.Atoi(strings.TrimPrefix(eq[0], "col"))
	if err != nil {
		return "", fmt.Errorf("%w: invalid column number", ErrUsage)
	}
	tv := strings.SplitN(eq[1], ":", 2)
	if len(tv) != 2 || len(tv[0]) != 1 {
		return "", fmt.Errorf("%w: expected T:VALUE", ErrUsage)
	}
	typeTag := tv[0][0]
	want := tv[1]

	var out strings.Builder
	for i, row := range desc.KDBR {
		if !row.ColumnsParsed || colNum >= len(row.ColumnData) {
			continue
		}
		col := row.ColumnData[colNum]
		if col.Hex == block.NullSentinel {
			continue
		}
		ov, err := decode.New(col.Hex, typeTag, "")
		if err != nil {
			continue
		}
		if ov.ValueString == want {
			fmt.Fprintf(&out, "row %d matches\n", i)
		}
	}
	return out.String(), nil
}

// cmdSave handles "save".
func cmdSave(_ *cmdLine, sess *bsession.Session) (string, error) {
	return "", sess.Save()
}

// cmdDupa handles "dupa": revert to the backup image.
func cmdDupa(_ *cmdLine, sess *bsession.Session) (string, error) {
	return "", sess.Revert()
}
