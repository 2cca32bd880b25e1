// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecc

import (
	"github.com/ModChain/hdcrypto/bignum"
)

// precomputed returns the fixed-base table of the curve, building it on first
// use.  Entry [i][j] holds (2j+1) * 16^i * G, the odd multiples of G for every
// 4-bit window of a scalar.
func (c *Curve) precomputed() *[64][8]Point {
	c.tableOnce.Do(func() {
		table := new([64][8]Point)
		base := c.G
		for i := 0; i < 64; i++ {
			twice := c.Double(&base)
			table[i][0] = base
			for j := 1; j < 8; j++ {
				table[i][j] = c.Add(&table[i][j-1], &twice)
			}
			if i == 63 {
				break
			}
			for k := 0; k < 4; k++ {
				base = c.Double(&base)
			}
		}
		c.table = table
	})
	return c.table
}

// ScalarBaseMult returns k*G.
//
// The scalar is reduced modulo the group order first, so k = 0 and k = N both
// give the point at infinity.  Odd scalars are recoded into 64 signed odd
// digits and evaluated with one table lookup and one addition per window.  An
// even scalar k is handled as -((N-k)*G) since N-k is odd.
func (c *Curve) ScalarBaseMult(k *bignum.Int) Point {
	var a bignum.Int
	c.N.Reduce(&a, k)
	if a.IsZero() {
		return Point{}
	}

	negate := a.IsEven()
	if negate {
		c.N.Neg(&a, &a)
	}
	digits := a.SignedDigits4()
	a.Zero()

	table := c.precomputed()
	var result, q Point
	for i := 0; i < 64; i++ {
		d := digits[i]
		if d < 0 {
			q = c.Negate(&table[i][(-d-1)/2])
		} else {
			q = table[i][(d-1)/2]
		}
		result = c.Add(&result, &q)
	}
	digits = [64]int8{}

	if negate {
		result = c.Negate(&result)
	}
	return result
}

// ScalarMult returns k*p using double-and-add from the most significant bit.
//
// The scalar is reduced modulo the group order, which is valid for every
// point on the supported curves since their cofactor is 1.
func (c *Curve) ScalarMult(k *bignum.Int, p *Point) Point {
	var a bignum.Int
	c.N.Reduce(&a, k)

	var result Point
	for i := a.BitLen() - 1; i >= 0; i-- {
		result = c.Double(&result)
		if a.Bit(i) == 1 {
			result = c.Add(&result, p)
		}
	}
	a.Zero()
	return result
}
