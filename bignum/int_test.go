// Copyright (c) 2020-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bignum

import (
	"bytes"
	"encoding/hex"
	"errors"
	"math/big"
	"testing"

	"github.com/ModChain/hdcrypto"
	"pgregory.net/rapid"
)

// hexToBytes converts the passed hex string into bytes and will panic if there
// is an error.  This is only provided for the hard-coded constants so errors in
// the source code can be detected. It will only (and must only) be called with
// hard-coded values.
func hexToBytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("invalid hex in source file: " + s)
	}
	return b
}

// mustInt converts the passed big-endian hex string into an Int and panics on
// error.
func mustInt(s string) Int {
	v, err := FromHex(s)
	if err != nil {
		panic("invalid hex in source file: " + s)
	}
	return v
}

// toBig converts an Int to a math/big integer for cross checking.
func toBig(x *Int) *big.Int {
	b := x.Bytes()
	return new(big.Int).SetBytes(b[:])
}

// fromBig converts a non-negative math/big integer below 2^256 to an Int.
func fromBig(v *big.Int) Int {
	var x Int
	x.SetByteSlice(v.Bytes())
	return x
}

// TestIntBytesRoundTrip ensures that setting an integer from bytes and
// serializing it back produces the original big-endian encoding.
func TestIntBytesRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{{
		name: "zero",
		in:   "0000000000000000000000000000000000000000000000000000000000000000",
	}, {
		name: "one",
		in:   "0000000000000000000000000000000000000000000000000000000000000001",
	}, {
		name: "word boundaries",
		in:   "00000000000000010000000000000001000000000000000100000000ffffffff",
	}, {
		name: "secp256k1 prime",
		in:   "fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f",
	}, {
		name: "all ones",
		in:   "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
	}}

	for _, test := range tests {
		var b32 [32]byte
		copy(b32[:], hexToBytes(test.in))

		var x Int
		x.SetBytes(&b32)
		got := x.Bytes()
		if !bytes.Equal(got[:], b32[:]) {
			t.Errorf("%s: mismatched bytes -- got %x, want %x", test.name,
				got, b32)
			continue
		}
		if x.String() != test.in {
			t.Errorf("%s: mismatched string -- got %s, want %s", test.name,
				x.String(), test.in)
		}
	}
}

// TestIntSetByteSlice ensures short slices are zero extended and long slices
// are truncated with the truncation reported.
func TestIntSetByteSlice(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		want      string
		truncated bool
	}{{
		name: "empty",
		in:   "",
		want: "0000000000000000000000000000000000000000000000000000000000000000",
	}, {
		name: "short",
		in:   "0102",
		want: "0000000000000000000000000000000000000000000000000000000000000102",
	}, {
		name: "33 bytes leading zero",
		in:   "00ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
		want: "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
	}, {
		name:      "33 bytes leading one",
		in:        "010000000000000000000000000000000000000000000000000000000000000002",
		want:      "0000000000000000000000000000000000000000000000000000000000000002",
		truncated: true,
	}}

	for _, test := range tests {
		var x Int
		truncated := x.SetByteSlice(hexToBytes(test.in))
		if truncated != test.truncated {
			t.Errorf("%s: unexpected truncation flag -- got %v, want %v",
				test.name, truncated, test.truncated)
			continue
		}
		if x.String() != test.want {
			t.Errorf("%s: got: %s want: %s", test.name, x.String(), test.want)
		}
	}
}

// TestIntQueries ensures the read-only queries report the expected results.
func TestIntQueries(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		isZero    bool
		isOdd     bool
		bitLen    int
		digits    int
		decimal   string
		nibble63  uint
		nibbleLow uint
	}{{
		name:    "zero",
		in:      "0",
		isZero:  true,
		bitLen:  0,
		digits:  1,
		decimal: "0",
	}, {
		name:      "one",
		in:        "1",
		isOdd:     true,
		bitLen:    1,
		digits:    1,
		decimal:   "1",
		nibbleLow: 1,
	}, {
		name:      "1000",
		in:        "3e8",
		bitLen:    10,
		digits:    4,
		decimal:   "1000",
		nibbleLow: 8,
	}, {
		name:      "2^64",
		in:        "10000000000000000",
		bitLen:    65,
		digits:    20,
		decimal:   "18446744073709551616",
		nibbleLow: 0,
	}, {
		name:      "all ones",
		in:        "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
		isOdd:     true,
		bitLen:    256,
		digits:    78,
		decimal:   "115792089237316195423570985008687907853269984665640564039457584007913129639935",
		nibble63:  0xf,
		nibbleLow: 0xf,
	}}

	for _, test := range tests {
		x := mustInt(test.in)
		if x.IsZero() != test.isZero {
			t.Errorf("%s: IsZero got %v", test.name, x.IsZero())
		}
		if x.IsOdd() != test.isOdd || x.IsEven() == test.isOdd {
			t.Errorf("%s: IsOdd got %v, IsEven got %v", test.name, x.IsOdd(),
				x.IsEven())
		}
		if x.BitLen() != test.bitLen {
			t.Errorf("%s: BitLen got %d, want %d", test.name, x.BitLen(),
				test.bitLen)
		}
		if x.DigitCount() != test.digits {
			t.Errorf("%s: DigitCount got %d, want %d", test.name,
				x.DigitCount(), test.digits)
		}
		if x.Decimal() != test.decimal {
			t.Errorf("%s: Decimal got %s, want %s", test.name, x.Decimal(),
				test.decimal)
		}
		if x.Nibble(63) != test.nibble63 || x.Nibble(0) != test.nibbleLow {
			t.Errorf("%s: unexpected nibbles %x %x", test.name, x.Nibble(63),
				x.Nibble(0))
		}
	}
}

// TestIntCmp ensures comparisons across word boundaries are correct.
func TestIntCmp(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"0", "0", 0},
		{"1", "0", 1},
		{"0", "1", -1},
		{"10000000000000000", "ffffffffffffffff", 1},
		{"ffffffffffffffff", "10000000000000000", -1},
		{"8000000000000000000000000000000000000000000000000000000000000000",
			"7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", 1},
	}

	for i, test := range tests {
		a, b := mustInt(test.a), mustInt(test.b)
		if got := a.Cmp(&b); got != test.want {
			t.Errorf("#%d: got: %d want: %d", i, got, test.want)
		}
		if a.Equals(&b) != (test.want == 0) {
			t.Errorf("#%d: unexpected Equals result", i)
		}
	}
}

// TestIntZero ensures wiping an integer clears every word.
func TestIntZero(t *testing.T) {
	x := mustInt("ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")
	x.Zero()
	if !x.IsZero() {
		t.Fatalf("integer not wiped: %s", x)
	}
}

// TestSignedDigits4 ensures the signed radix-16 recoding of odd integers is
// made of odd digits in [-15, 15] which sum back to the original value.
func TestSignedDigits4(t *testing.T) {
	check := func(t *rapid.T, x Int) {
		digits := x.SignedDigits4()
		sum := new(big.Int)
		for i := 63; i >= 0; i-- {
			d := digits[i]
			if d%2 == 0 || d > 15 || d < -15 {
				t.Fatalf("digit %d out of range: %d", i, d)
			}
			sum.Lsh(sum, 4)
			sum.Add(sum, big.NewInt(int64(d)))
		}
		if sum.Cmp(toBig(&x)) != 0 {
			t.Fatalf("got: %x want: %s", sum, x)
		}
	}

	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "x")
		var x Int
		x.SetByteSlice(raw)
		x[0] |= 1
		if x[3] == ^uint64(0) && x[2] == ^uint64(0) && x[1] == ^uint64(0) &&
			x[0] > ^uint64(0)-16 {

			t.Skip("too close to 2^256")
		}
		check(t, x)
	})

	rapid.Check(t, func(t *rapid.T) {
		check(t, Int{1})
		check(t, mustInt(secp256k1N))
	})
}

// TestFromHex ensures hex strings decode into the expected integers and that
// malformed or oversized input is rejected with ErrInvalidHexInt.
func TestFromHex(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Int
		err  error
	}{
		{name: "odd length", in: "abc", want: Int{0xabc}},
		{name: "empty", in: "", want: Int{}},
		{
			name: "max value",
			in:   "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
			want: Int{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)},
		},
		{
			name: "leading zero bytes beyond 256 bits",
			in:   "0000ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
			want: Int{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)},
		},
		{name: "not hex", in: "0g", err: hdcrypto.ErrInvalidHexInt},
		{
			name: "too large",
			in:   "01" + "0000000000000000000000000000000000000000000000000000000000000000",
			err:  hdcrypto.ErrInvalidHexInt,
		},
	}

	for _, test := range tests {
		got, err := FromHex(test.in)
		if !errors.Is(err, test.err) {
			t.Errorf("%s: mismatched error -- got: %v, want: %v", test.name,
				err, test.err)
			continue
		}
		var kerr hdcrypto.Error
		if test.err != nil && !errors.As(err, &kerr) {
			t.Errorf("%s: error is not an hdcrypto.Error: %T", test.name, err)
			continue
		}
		if test.err == nil && got != test.want {
			t.Errorf("%s: got: %v want: %v", test.name, got, test.want)
		}
	}
}
