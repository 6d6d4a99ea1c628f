/*
 * rico2 - Oracle NUMBER decoder.
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
	"fmt"
	"math/big"
	"strings"
)

// decodeNumber decodes Oracle's proprietary base-100 excess-1 mantissa/
// exponent NUMBER encoding. Binary floating point cannot represent this
// exactly for the full 38 significant digit range, so the mantissa is
// formed as a decimal digit string and scaled with math/big.
func decodeNumber(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", newDecodeError("number", "empty value")
	}

	if len(raw) == 1 && raw[0] == 0x80 {
		return "0", nil
	}

	negative := raw[len(raw)-1] == 102

	var expPot int
	var mantissa strings.Builder

	if !negative {
		expPot = (int(raw[0])-193)*2 + 2
		mantissa.WriteString("0.")
		for i := 1; i < len(raw); i++ {
			mantissa.WriteString(fmt.Sprintf("%02d", int(raw[i])-1))
		}
	} else {
		if len(raw) < 2 {
			return "", newDecodeError("number", "negative value missing mantissa bytes")
		}
		expPot = (62-int(raw[0]))*2 + 2
		mantissa.WriteString("-0.")
		for i := 1; i < len(raw)-1; i++ {
			mantissa.WriteString(fmt.Sprintf("%02d", 101-int(raw[i])))
		}
	}

	fVal, ok := new(big.Rat).SetString(mantissa.String())
	if !ok {
		return "", newDecodeError("number", "malformed mantissa: "+mantissa.String())
	}

	absExp := expPot
	if absExp < 0 {
		absExp = -absExp
	}
	tenPow := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(absExp)), nil)

	var powVal *big.Rat
	if expPot < 0 {
		powVal = new(big.Rat).SetFrac(big.NewInt(1), tenPow)
	} else {
		powVal = new(big.Rat).SetInt(tenPow)
	}

	fVal.Mul(fVal, powVal)

	return formatRat(fVal), nil
}

// formatRat renders a big.Rat as a fixed-point decimal string, stripping
// trailing fractional zeros and a bare trailing decimal point, matching the
// display convention for Oracle NUMBER values.
func formatRat(r *big.Rat) string {
	sign := ""
	if r.Sign() < 0 {
		sign = "-"
		r = new(big.Rat).Abs(r)
	}

	// FloatString with generous precision, then trim; NUMBER's value is
	// always an exact terminating decimal (mantissa digits scaled by a
	// power of ten), so any precision beyond the true digit count just
	// yields trailing zeros that get stripped below.
	str := r.FloatString(256)
	str = strings.TrimRight(str, "0")
	str = strings.TrimRight(str, ".")
	if str == "" {
		str = "0"
	}

	return sign + str
}
