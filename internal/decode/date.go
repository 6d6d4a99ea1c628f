/*
 * rico2 - Oracle DATE decoder.
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

import "fmt"

// decodeDate decodes the 7-byte biased Oracle DATE encoding into
// "CCYY-MM-DD:hh:mm:ss". No calendar validation is performed: a corrupt
// block produces a syntactically valid but nonsensical date, which is the
// point of a forensic tool.
func decodeDate(raw []byte) (string, error) {
	if len(raw) < 7 {
		return "", newDecodeError("date", fmt.Sprintf("need 7 bytes, got %d", len(raw)))
	}

	century := int(raw[0]) - 100
	year := int(raw[1]) - 100
	month := int(raw[2])
	day := int(raw[3])
	hour := int(raw[4]) - 1
	minute := int(raw[5]) - 1
	second := int(raw[6]) - 1

	return fmt.Sprintf("%02d%02d-%02d-%02d:%02d:%02d:%02d", century, year, month, day, hour, minute, second), nil
}
