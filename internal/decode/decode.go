/*
 * rico2 - Oracle on-disk value decoders.
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

// Package decode turns the raw bytes of an Oracle block column into the
// printable strings a forensic block editor shows: DATE, NUMBER, and CHAR.
package decode

import (
	"encoding/hex"
	"fmt"
)

// Type tags accepted by New, matching the letter codes used by the
// "x /r..." and "select" command syntax.
const (
	TypeDate = 't'
	TypeNum  = 'n'
	TypeChar = 'c'
)

// DecodeError reports a malformed column value: bad hex, a DATE shorter
// than 7 bytes, an undecodable NUMBER encoding, or a CHAR codepage decode
// failure. An unknown character set name is not an error: CHAR then
// returns the raw bytes unchanged.
type DecodeError struct {
	Type string // Kind of value being decoded.
	Msg  string // Detail.
}

func (e *DecodeError) Error() string {
	return "decode " + e.Type + ": " + e.Msg
}

func newDecodeError(kind, msg string) error {
	return &DecodeError{Type: kind, Msg: msg}
}

// OracleValue holds a decoded column value ready for console display.
type OracleValue struct {
	ValueString string // Printable rendering.
	RawHex      string // The hex the value was decoded from.
}

// New decodes hexString under the rules for typeTag ('t' DATE, 'n' NUMBER,
// 'c' CHAR) and returns the printable value. characterSet is only consulted
// for CHAR and may be empty to mean "no charset, return raw bytes."
func New(hexString string, typeTag byte, characterSet string) (*OracleValue, error) {
	raw, err := hex.DecodeString(hexString)
	if err != nil {
		return nil, newDecodeError(string(typeTag), "invalid hex: "+err.Error())
	}

	var str string
	switch typeTag {
	case TypeDate:
		str, err = decodeDate(raw)
	case TypeNum:
		str, err = decodeNumber(raw)
	case TypeChar:
		str, err = decodeChar(raw, characterSet)
	default:
		return nil, newDecodeError(string(typeTag), fmt.Sprintf("unsupported type tag: %q", typeTag))
	}
	if err != nil {
		return nil, err
	}

	return &OracleValue{ValueString: str, RawHex: hexString}, nil
}
