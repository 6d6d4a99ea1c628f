/*
 * rico2 - Oracle CHAR/VARCHAR decoder.
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

package decode

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// charsets maps an Oracle-style characterset name to the 8-bit codepage
// that decodes it. Only single-byte Western codepages are supported; an
// unrecognized name falls back to raw passthrough, matching the original
// tool's "no characterset given" behavior.
var charsets = map[string]*charmap.Charmap{
	"WE8ISO8859P1":  charmap.ISO8859_1,
	"WE8ISO8859P15": charmap.ISO8859_15,
	"WE8MSWIN1252":  charmap.Windows1252,
	"US7ASCII":      nil,
}

// decodeChar returns raw verbatim when characterSet is empty or unknown;
// otherwise it decodes raw through the named 8-bit codepage.
func decodeChar(raw []byte, characterSet string) (string, error) {
	if characterSet == "" {
		return string(raw), nil
	}

	cm, ok := charsets[strings.ToUpper(characterSet)]
	if !ok || cm == nil {
		return string(raw), nil
	}

	decoded, err := cm.NewDecoder().Bytes(raw)
	if err != nil {
		return "", newDecodeError("char", "characterset "+characterSet+": "+err.Error())
	}

	return string(decoded), nil
}
