package decode

/*
 * rico2 - Oracle value decoder tests.
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

import (
	"math/big"
	"testing"
)

func TestDecodeNumberScenarios(t *testing.T) {
	cases := []struct {
		name string
		hex  string
		want string
	}{
		{"positive", "c102", "1"},
		{"negative", "3e6466", "-1"},
		{"zero", "80", "0"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ov, err := New(c.hex, TypeNum, "")
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if ov.ValueString != c.want {
				t.Errorf("got %q, want %q", ov.ValueString, c.want)
			}
		})
	}
}

func TestDecodeDateScenario(t *testing.T) {
	ov, err := New("786f0c1f0b0d1e", TypeDate, "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	want := "2011-12-31:10:12:29"
	if ov.ValueString != want {
		t.Errorf("got %q, want %q", ov.ValueString, want)
	}
}

func TestDecodeDateTooShort(t *testing.T) {
	if _, err := New("786f0c", TypeDate, ""); err == nil {
		t.Fatal("expected error for short DATE value")
	}
}

func TestDecodeCharNoCharset(t *testing.T) {
	ov, err := New("68656c6c6f", TypeChar, "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if ov.ValueString != "hello" {
		t.Errorf("got %q, want %q", ov.ValueString, "hello")
	}
}

func TestDecodeCharUnknownCharset(t *testing.T) {
	ov, err := New("68656c6c6f", TypeChar, "KLINGON_STANDARD")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if ov.ValueString != "hello" {
		t.Errorf("got %q, want %q", ov.ValueString, "hello")
	}
}

func TestDecodeInvalidHex(t *testing.T) {
	if _, err := New("xyz", TypeNum, ""); err == nil {
		t.Fatal("expected error for invalid hex")
	}
}

// encodeNumber is a reference encoder used only by the round-trip test; it
// produces the base-100 mantissa/exponent encoding decodeNumber expects.
func encodeNumber(t *testing.T, val *big.Int) []byte {
	t.Helper()

	if val.Sign() == 0 {
		return []byte{0x80}
	}

	neg := val.Sign() < 0
	abs := new(big.Int).Abs(val)

	digits := abs.String()
	if len(digits)%2 != 0 {
		digits = "0" + digits
	}

	pairs := len(digits) / 2
	// 0.<pairs digit groups> * 10^(2*pairs) reproduces the integer formed
	// by those digit groups exactly, so expPot = 2*pairs and byte0 solves
	// the decoder's expPot formula for that value.

	raw := make([]byte, 0, pairs+2)
	if !neg {
		raw = append(raw, byte(192+pairs))
		for i := 0; i < pairs; i++ {
			d := int(digits[2*i]-'0')*10 + int(digits[2*i+1]-'0')
			raw = append(raw, byte(d+1))
		}
	} else {
		raw = append(raw, byte(63-pairs))
		for i := 0; i < pairs; i++ {
			d := int(digits[2*i]-'0')*10 + int(digits[2*i+1]-'0')
			raw = append(raw, byte(101-d))
		}
		raw = append(raw, 102)
	}

	return raw
}

func TestDecodeNumberRoundTrip(t *testing.T) {
	values := []int64{1, -1, 100, -100, 12345, -98765, 900000, 1}

	for _, v := range values {
		want := big.NewInt(v)
		raw := encodeNumber(t, want)
		ov, err := New(hexEncode(raw), TypeNum, "")
		if err != nil {
			t.Fatalf("New(%d) error = %v", v, err)
		}

		got, ok := new(big.Int).SetString(ov.ValueString, 10)
		if !ok {
			t.Fatalf("could not parse decoded value %q", ov.ValueString)
		}
		if got.Cmp(want) != 0 {
			t.Errorf("round trip %d: got %s, want %s", v, got, want)
		}
	}
}

func hexEncode(b []byte) string {
	const hexDigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, by := range b {
		out[2*i] = hexDigits[by>>4]
		out[2*i+1] = hexDigits[by&0xf]
	}
	return string(out)
}
