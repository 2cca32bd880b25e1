// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecc

import (
	"github.com/ModChain/hdcrypto/bignum"
)

// Point is a point on a curve in affine coordinates.
//
// The point at infinity is represented as (0, 0), which is not a solution of
// the curve equation for any of the supported curves since b != 0.  The zero
// value of a Point is therefore the point at infinity.
type Point struct {
	X bignum.Int
	Y bignum.Int
}

// IsInfinity returns whether the point is the point at infinity.
func (p *Point) IsInfinity() bool {
	return p.X.IsZero() && p.Y.IsZero()
}

// SetInfinity sets the point to the point at infinity.
func (p *Point) SetInfinity() {
	p.X.Zero()
	p.Y.Zero()
}

// Equals returns whether the two points are the same.
func (p *Point) Equals(q *Point) bool {
	return p.X.Equals(&q.X) && p.Y.Equals(&q.Y)
}

// IsOnCurve returns whether the point satisfies the curve equation with both
// coordinates in canonical form.  The point at infinity is not on the curve.
func (c *Curve) IsOnCurve(p *Point) bool {
	if p.IsInfinity() || !c.P.IsCanonical(&p.X) || !c.P.IsCanonical(&p.Y) {
		return false
	}

	// y^2 = x^3 + ax + b
	var lhs, rhs bignum.Int
	c.P.Sqr(&lhs, &p.Y)
	c.rhs(&rhs, &p.X)
	return lhs.Equals(&rhs)
}

// rhs sets z = x^3 + ax + b.
func (c *Curve) rhs(z, x *bignum.Int) {
	var ax bignum.Int
	c.P.Mul(&ax, &c.A, x)
	c.P.Sqr(z, x)
	c.P.Mul(z, z, x)
	c.P.Add(z, z, &ax)
	c.P.Add(z, z, &c.B)
}

// Negate returns -p.  The negation of the point at infinity is itself.
func (c *Curve) Negate(p *Point) Point {
	if p.IsInfinity() {
		return Point{}
	}
	r := Point{X: p.X}
	c.P.Neg(&r.Y, &p.Y)
	return r
}

// Add returns p + q.
//
// Both points must be on the curve or the point at infinity.  Adding a point
// to its negation gives the point at infinity and adding a point to itself is
// handled as a doubling.
func (c *Curve) Add(p, q *Point) Point {
	if p.IsInfinity() {
		return *q
	}
	if q.IsInfinity() {
		return *p
	}
	if p.X.Equals(&q.X) {
		if p.Y.Equals(&q.Y) {
			return c.Double(p)
		}
		// Same x and different y means q = -p.
		return Point{}
	}

	// lambda = (y2 - y1) / (x2 - x1)
	var num, den, lambda bignum.Int
	c.P.Sub(&num, &q.Y, &p.Y)
	c.P.Sub(&den, &q.X, &p.X)
	if err := c.P.Inverse(&den, &den); err != nil {
		// Unreachable since x1 != x2.
		return Point{}
	}
	c.P.Mul(&lambda, &num, &den)
	return c.chord(p, &q.X, &lambda)
}

// Double returns 2p.  Doubling the point at infinity or a point with y = 0
// gives the point at infinity.
func (c *Curve) Double(p *Point) Point {
	if p.IsInfinity() || p.Y.IsZero() {
		return Point{}
	}

	// lambda = (3x^2 + a) / 2y
	var xx, num, den, lambda bignum.Int
	c.P.Sqr(&xx, &p.X)
	c.P.Add(&num, &xx, &xx)
	c.P.Add(&num, &num, &xx)
	c.P.Add(&num, &num, &c.A)
	c.P.Add(&den, &p.Y, &p.Y)
	if err := c.P.Inverse(&den, &den); err != nil {
		return Point{}
	}
	c.P.Mul(&lambda, &num, &den)
	return c.chord(p, &p.X, &lambda)
}

// chord finishes an addition or doubling given the slope of the line through
// p and the second point with x coordinate x2:
//
//	x3 = lambda^2 - x1 - x2
//	y3 = lambda(x1 - x3) - y1
func (c *Curve) chord(p *Point, x2, lambda *bignum.Int) Point {
	var r Point
	var t bignum.Int
	c.P.Sqr(&r.X, lambda)
	c.P.Sub(&r.X, &r.X, &p.X)
	c.P.Sub(&r.X, &r.X, x2)
	c.P.Sub(&t, &p.X, &r.X)
	c.P.Mul(&r.Y, lambda, &t)
	c.P.Sub(&r.Y, &r.Y, &p.Y)
	return r
}
