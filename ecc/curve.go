// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecc

import (
	"fmt"
	"sync"

	"github.com/ModChain/hdcrypto"
	"github.com/ModChain/hdcrypto/bignum"
)

// Names of the supported short Weierstrass curves.
const (
	NameSecp256k1 = "secp256k1"
	NameNIST256P1 = "nist256p1"
)

// Curve holds the parameters of a short Weierstrass curve y^2 = x^3 + ax + b
// over the prime field P with a generator G of prime order N.
//
// Curves are created once per process and are read-only afterwards, so a
// *Curve may be shared freely between goroutines.
type Curve struct {
	Name string
	P    *bignum.Modulus
	N    *bignum.Modulus
	A    bignum.Int
	B    bignum.Int
	G    Point

	tableOnce sync.Once
	table     *[64][8]Point
}

// curveParams are the hex encoded domain parameters of a curve.
type curveParams struct {
	name       string
	p, n, a, b string
	gx, gy     string
}

var (
	secp256k1Params = curveParams{
		name: NameSecp256k1,
		p:    "fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f",
		n:    "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141",
		a:    "0",
		b:    "7",
		gx:   "79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
		gy:   "483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8",
	}

	nist256p1Params = curveParams{
		name: NameNIST256P1,
		p:    "ffffffff00000001000000000000000000000000ffffffffffffffffffffffff",
		n:    "ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551",
		a:    "ffffffff00000001000000000000000000000000fffffffffffffffffffffffc",
		b:    "5ac635d8aa3a93e7b3ebbd55769886bc651d06b0cc53b0f63bce3c3e27d2604b",
		gx:   "6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296",
		gy:   "4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5",
	}
)

var (
	secp256k1Once  sync.Once
	secp256k1Curve *Curve

	nist256p1Once  sync.Once
	nist256p1Curve *Curve
)

// Secp256k1 returns the secp256k1 curve used by Bitcoin.
func Secp256k1() *Curve {
	secp256k1Once.Do(func() {
		secp256k1Curve = newCurve(&secp256k1Params)
	})
	return secp256k1Curve
}

// NIST256P1 returns the NIST P-256 curve, also known as secp256r1 and
// prime256v1.
func NIST256P1() *Curve {
	nist256p1Once.Do(func() {
		nist256p1Curve = newCurve(&nist256p1Params)
	})
	return nist256p1Curve
}

// ByName returns the Weierstrass curve with the given name.
func ByName(name string) (*Curve, error) {
	switch name {
	case NameSecp256k1:
		return Secp256k1(), nil
	case NameNIST256P1:
		return NIST256P1(), nil
	}
	str := fmt.Sprintf("unknown weierstrass curve %q", name)
	return nil, hdcrypto.MakeError(hdcrypto.ErrUnknownCurve, str)
}

// newCurve builds a curve from hard-coded parameters and panics when they are
// malformed since that can only be a programming error.
func newCurve(params *curveParams) *Curve {
	mustHex := func(s string) bignum.Int {
		v, err := bignum.FromHex(s)
		if err != nil {
			panic(fmt.Sprintf("invalid %s parameter %q: %v", params.name, s, err))
		}
		return v
	}

	c := &Curve{
		Name: params.name,
		P:    bignum.MustModulus(params.p),
		N:    bignum.MustModulus(params.n),
		A:    mustHex(params.a),
		B:    mustHex(params.b),
		G:    Point{X: mustHex(params.gx), Y: mustHex(params.gy)},
	}
	if !c.IsOnCurve(&c.G) {
		panic(fmt.Sprintf("generator of %s is not on the curve", params.name))
	}
	return c
}

// IsValidScalar returns whether the 32-byte big-endian value is a valid
// private key for the curve, that is 0 < k < N.
func (c *Curve) IsValidScalar(k *[32]byte) bool {
	var v bignum.Int
	v.SetBytes(k)
	valid := !v.IsZero() && c.N.IsCanonical(&v)
	v.Zero()
	return valid
}

// String returns the curve name.
func (c *Curve) String() string {
	return c.Name
}
