// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bignum

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/bits"

	"github.com/ModChain/hdcrypto"
)

// Elliptic curve operations over the curves supported by this module require
// working with integers that are exactly 256 bits wide, both modulo the field
// prime of a curve and modulo the order of its group.  Since the size is known
// up front, this package implements specialized fixed-precision arithmetic
// instead of relying on an arbitrary-precision package such as math/big.  That
// keeps every value on the stack, avoids allocations and makes it possible to
// wipe secret values once they are no longer needed.
//
// The representation chosen is 4 uint64 words in base 2^64 since the
// intermediate results of multiplications can be handled with math/bits.Mul64
// and the carries with math/bits.Add64 and math/bits.Sub64, all of which are
// compiled to single instructions on 64-bit platforms.

// Int is an unsigned 256-bit integer.
//
// An Int by itself has no notion of a modulus.  Modular arithmetic is
// performed through a Modulus which guarantees that every value it produces is
// in canonical form, that is, strictly less than the modulus.
type Int [4]uint64

// The integer is represented as 4 64-bit words in base 2^64 with the least
// significant word first:
//
//	 -------------------------------------------------------------
//	|       n[3]      |       n[2]      |     n[1]     |   n[0]   |
//	| 64 bits         | 64 bits         | 64 bits      | 64 bits  |
//	| Mult: 2^(64*3)  | Mult: 2^(64*2)  | Mult: 2^64   | Mult: 1  |
//	 -------------------------------------------------------------

// SetUint64 sets the integer to the passed value and returns it to allow
// chaining.
func (x *Int) SetUint64(v uint64) *Int {
	*x = Int{v}
	return x
}

// SetBytes interprets the provided array as a 256-bit big-endian unsigned
// integer and sets the integer to it.
//
// The integer is returned to support chaining.
func (x *Int) SetBytes(b *[32]byte) *Int {
	x[3] = binary.BigEndian.Uint64(b[0:8])
	x[2] = binary.BigEndian.Uint64(b[8:16])
	x[1] = binary.BigEndian.Uint64(b[16:24])
	x[0] = binary.BigEndian.Uint64(b[24:32])
	return x
}

// SetByteSlice interprets the provided slice as a big-endian unsigned integer,
// packs it into a 256-bit integer and sets the integer to the result.  Slices
// longer than 32 bytes are truncated to their least significant 32 bytes.
//
// The returned bool is true when the truncation discarded non-zero bytes.
func (x *Int) SetByteSlice(b []byte) bool {
	var truncated bool
	if len(b) > 32 {
		for _, v := range b[:len(b)-32] {
			if v != 0 {
				truncated = true
			}
		}
		b = b[len(b)-32:]
	}

	var b32 [32]byte
	copy(b32[32-len(b):], b)
	x.SetBytes(&b32)
	zeroArray32(&b32)
	return truncated
}

// FromHex decodes a big-endian hex string of at most 64 digits into an Int.
func FromHex(s string) (Int, error) {
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		str := fmt.Sprintf("malformed hex integer: %v", err)
		return Int{}, hdcrypto.MakeError(hdcrypto.ErrInvalidHexInt, str)
	}
	var x Int
	if x.SetByteSlice(b) {
		return Int{}, hdcrypto.MakeError(hdcrypto.ErrInvalidHexInt,
			"hex value does not fit in 256 bits")
	}
	return x, nil
}

// PutBytes packs the integer into the passed 32-byte array in big-endian
// order.
func (x *Int) PutBytes(b *[32]byte) {
	binary.BigEndian.PutUint64(b[0:8], x[3])
	binary.BigEndian.PutUint64(b[8:16], x[2])
	binary.BigEndian.PutUint64(b[16:24], x[1])
	binary.BigEndian.PutUint64(b[24:32], x[0])
}

// Bytes returns the integer as a 32-byte big-endian array.
func (x *Int) Bytes() [32]byte {
	var b [32]byte
	x.PutBytes(&b)
	return b
}

// Zero sets the integer to zero.  It is used to wipe secret values.
func (x *Int) Zero() {
	*x = Int{}
}

// IsZero returns whether or not the integer is equal to zero.
func (x *Int) IsZero() bool {
	return x[0]|x[1]|x[2]|x[3] == 0
}

// IsOdd returns whether or not the integer is odd.
func (x *Int) IsOdd() bool {
	return x[0]&1 == 1
}

// IsEven returns whether or not the integer is even.
func (x *Int) IsEven() bool {
	return x[0]&1 == 0
}

// Equals returns whether or not the two integers are the same.
func (x *Int) Equals(y *Int) bool {
	return (x[0]^y[0])|(x[1]^y[1])|(x[2]^y[2])|(x[3]^y[3]) == 0
}

// Cmp compares x and y and returns -1 when x < y, 0 when x == y and +1 when
// x > y.
func (x *Int) Cmp(y *Int) int {
	for i := 3; i >= 0; i-- {
		switch {
		case x[i] < y[i]:
			return -1
		case x[i] > y[i]:
			return 1
		}
	}
	return 0
}

// BitLen returns the number of bits required to represent the integer.  Zero
// has a bit length of zero.
func (x *Int) BitLen() int {
	for i := 3; i >= 0; i-- {
		if x[i] != 0 {
			return i*64 + bits.Len64(x[i])
		}
	}
	return 0
}

// Bit returns the value of the bit at position i where bit 0 is the least
// significant one.
func (x *Int) Bit(i int) uint {
	return uint(x[i/64]>>(uint(i)%64)) & 1
}

// Nibble returns the 4-bit window at position i (0..63) where window 0 holds
// the least significant bits.
func (x *Int) Nibble(i int) uint {
	return uint(x[i/16]>>(uint(i%16)*4)) & 0xf
}

// DigitCount returns the number of decimal digits needed to print the
// integer.  Zero has a single digit.
func (x *Int) DigitCount() int {
	if x.IsZero() {
		return 1
	}

	var n int
	t := *x
	for !t.IsZero() {
		t.divMod64(&t, 10)
		n++
	}
	return n
}

// Decimal returns the integer printed in base 10 without any decoration.
func (x *Int) Decimal() string {
	return string(x.appendDecimal(nil))
}

// String returns the integer as a 64 digit big-endian hex string.
func (x Int) String() string {
	b := x.Bytes()
	return hex.EncodeToString(b[:])
}

// appendDecimal appends the decimal digits of the integer to dst.
func (x *Int) appendDecimal(dst []byte) []byte {
	if x.IsZero() {
		return append(dst, '0')
	}

	// 78 digits are enough for any 256-bit value.
	var buf [78]byte
	i := len(buf)
	t := *x
	for !t.IsZero() {
		r := t.divMod64(&t, 10)
		i--
		buf[i] = byte('0' + r)
	}
	return append(dst, buf[i:]...)
}

// SignedDigits4 recodes an odd integer into 64 signed odd radix-16 digits d[i]
// in [-15, 15] such that x = sum(d[i] * 16^i).  Every digit being odd and
// non-zero means a table of the 8 odd multiples 1, 3, ..., 15 per window is
// enough for fixed-base scalar multiplication.
//
// The integer must be odd and less than 2^256 - 16.
func (x *Int) SignedDigits4() [64]int8 {
	var digits [64]int8
	t := *x
	for i := 0; i < 63; i++ {
		// t is odd, so t mod 32 - 16 is odd as well and t minus it is an
		// odd multiple of 16.
		w := int64(t[0]&0x1f) - 16
		digits[i] = int8(w)
		if w < 0 {
			t.add(&t, &Int{uint64(-w)})
		} else {
			t.sub(&t, &Int{uint64(w)})
		}
		t[0] = t[0]>>4 | t[1]<<60
		t[1] = t[1]>>4 | t[2]<<60
		t[2] = t[2]>>4 | t[3]<<60
		t[3] >>= 4
	}
	digits[63] = int8(t[0])
	t.Zero()
	return digits
}

// add sets z = x + y and returns the carry out of the most significant word.
func (z *Int) add(x, y *Int) uint64 {
	var c uint64
	z[0], c = bits.Add64(x[0], y[0], 0)
	z[1], c = bits.Add64(x[1], y[1], c)
	z[2], c = bits.Add64(x[2], y[2], c)
	z[3], c = bits.Add64(x[3], y[3], c)
	return c
}

// sub sets z = x - y and returns the borrow out of the most significant word.
func (z *Int) sub(x, y *Int) uint64 {
	var b uint64
	z[0], b = bits.Sub64(x[0], y[0], 0)
	z[1], b = bits.Sub64(x[1], y[1], b)
	z[2], b = bits.Sub64(x[2], y[2], b)
	z[3], b = bits.Sub64(x[3], y[3], b)
	return b
}

// divMod64 sets z = x / d and returns x mod d.
func (z *Int) divMod64(x *Int, d uint64) uint64 {
	var r uint64
	for i := 3; i >= 0; i-- {
		z[i], r = bits.Div64(r, x[i], d)
	}
	return r
}

// selectInt sets z to a when mask is all ones and to b when mask is zero
// without branching on the mask.
func selectInt(z, a, b *Int, mask uint64) {
	z[0] = (a[0] & mask) | (b[0] &^ mask)
	z[1] = (a[1] & mask) | (b[1] &^ mask)
	z[2] = (a[2] & mask) | (b[2] &^ mask)
	z[3] = (a[3] & mask) | (b[3] &^ mask)
}

func zeroArray32(b *[32]byte) {
	*b = [32]byte{}
}
