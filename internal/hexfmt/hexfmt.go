/*
 * rico2 - Fixed-width hex/ASCII formatting helpers.
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

// Package hexfmt renders raw bytes as fixed-width hex groups and
// printable-ASCII gutters for the console's hex dump, row-directory
// pointer listing, and modify echo.
package hexfmt

import (
	"fmt"
	"strings"
)

var hexMap = "0123456789ABCDEF"

// FormatBytes appends the hex digits of data to str, one pair per byte,
// optionally separated by a space.
func FormatBytes(str *strings.Builder, space bool, data []byte) {
	for _, by := range data {
		str.WriteByte(hexMap[(by>>4)&0xf])
		str.WriteByte(hexMap[by&0xf])
		if space {
			str.WriteByte(' ')
		}
	}
}

// FormatHalf appends each u16 in half as 4 hex digits.
func FormatHalf(str *strings.Builder, space bool, half []uint16) {
	for _, word := range half {
		shift := 12
		for range 4 {
			str.WriteByte(hexMap[(word>>shift)&0xf])
			shift -= 4
		}
		if space {
			str.WriteByte(' ')
		}
	}
	if !space {
		str.WriteByte(' ')
	}
}

// Bytes renders data as a single hex string with no separators.
func Bytes(data []byte) string {
	var b strings.Builder
	FormatBytes(&b, false, data)
	return b.String()
}

// asciiGutter renders data as printable ASCII, substituting '.' for any
// non-printable byte.
func asciiGutter(data []byte) string {
	var b strings.Builder
	for _, by := range data {
		if by >= 0x20 && by < 0x7f {
			b.WriteByte(by)
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}

// Dump renders data as a classic 16-bytes-per-line hex/ASCII listing, with
// each line's offset relative to baseOffset.
func Dump(data []byte, baseOffset int) string {
	var out strings.Builder
	for i := 0; i < len(data); i += 16 {
		end := i + 16
		if end > len(data) {
			end = len(data)
		}
		row := data[i:end]

		fmt.Fprintf(&out, "%06x  ", baseOffset+i)

		var hexPart strings.Builder
		FormatBytes(&hexPart, true, row)
		fmt.Fprintf(&out, "%-48s  %s\n", hexPart.String(), asciiGutter(row))
	}
	return out.String()
}
