// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bignum

import (
	"math/bits"

	"github.com/ModChain/hdcrypto"
)

// References:
//   [HAC]: Handbook of Applied Cryptography Menezes, van Oorschot, Vanstone.
//     http://cacr.uwaterloo.ca/hac/
//
//   [KOC96]: Analyzing and Comparing Montgomery Multiplication Algorithms,
//     Koc, Acar, Kaliski.

// Modulus is a reduction context for arithmetic modulo an odd 256-bit value,
// typically the field prime or the group order of a curve.  Each curve holds
// one Modulus for its prime and one for its order, and values belonging to one
// context must be explicitly reduced with Reduce before being used with the
// other.
//
// Every method expects its inputs in canonical form (less than the modulus)
// unless documented otherwise and always produces canonical output.  The
// output parameter may alias any of the inputs.
//
// Multiplication is implemented with Montgomery's method using the coarsely
// integrated operand scanning variant [KOC96] which works for any odd modulus,
// so the same code serves secp256k1 and nist256p1 primes and orders alike.  A
// Modulus is immutable after creation and safe for concurrent use.
type Modulus struct {
	m Int

	// inv is -m^-1 mod 2^64.
	inv uint64

	// one is R mod m and r2 is R^2 mod m where R = 2^256.
	one Int
	r2  Int

	// invExp is m-2 used for inversion via Fermat's little theorem.
	invExp Int

	// sqrtExp is (m+1)/4 and only set when m = 3 mod 4.
	sqrtExp Int
	hasSqrt bool
}

// NewModulus creates a reduction context for the passed odd modulus which must
// be greater than one.
func NewModulus(m *Int) (*Modulus, error) {
	if m.IsEven() || m.Cmp(&Int{1}) <= 0 {
		return nil, hdcrypto.MakeError(hdcrypto.ErrNotInvertible,
			"modulus must be odd and greater than one")
	}

	mod := &Modulus{m: *m, inv: negInverse64(m[0])}

	// R mod m is obtained by doubling one 256 times and R^2 mod m by
	// doubling another 256 times.
	r := Int{1}
	for i := 0; i < 256; i++ {
		mod.Add(&r, &r, &r)
	}
	mod.one = r
	for i := 0; i < 256; i++ {
		mod.Add(&r, &r, &r)
	}
	mod.r2 = r

	mod.invExp.sub(m, &Int{2})

	if m[0]&3 == 3 {
		// (m+1)/4 = floor(m/4) + 1 when m = 3 mod 4 which avoids
		// overflowing for m close to 2^256.
		q := *m
		q[0] = q[0]>>2 | q[1]<<62
		q[1] = q[1]>>2 | q[2]<<62
		q[2] = q[2]>>2 | q[3]<<62
		q[3] >>= 2
		q.add(&q, &Int{1})
		mod.sqrtExp = q
		mod.hasSqrt = true
	}

	return mod, nil
}

// MustModulus creates a reduction context from a big-endian hex string and
// panics on failure.  It is only intended for hard-coded curve constants.
func MustModulus(s string) *Modulus {
	v, err := FromHex(s)
	if err != nil {
		panic("invalid hex in source file: " + s)
	}
	m, err := NewModulus(&v)
	if err != nil {
		panic("invalid modulus in source file: " + s)
	}
	return m
}

// negInverse64 returns -m0^-1 mod 2^64 for an odd m0 using Newton iteration.
// The initial guess m0 is correct to 3 bits and every step doubles the number
// of correct bits.
func negInverse64(m0 uint64) uint64 {
	x := m0
	for i := 0; i < 5; i++ {
		x *= 2 - m0*x
	}
	return -x
}

// Value returns the modulus itself.
func (m *Modulus) Value() Int {
	return m.m
}

// IsCanonical returns whether x is strictly less than the modulus.
func (m *Modulus) IsCanonical(x *Int) bool {
	return x.Cmp(&m.m) < 0
}

// Reduce sets z = x mod m for any 256-bit x, canonical or not.
func (m *Modulus) Reduce(z, x *Int) *Int {
	// x * R^2 * R^-1 = x * R, then x * R * 1 * R^-1 = x.
	var t Int
	m.montMul(&t, x, &m.r2)
	m.montMul(z, &t, &Int{1})
	return z
}

// Add sets z = x + y mod m.
func (m *Modulus) Add(z, x, y *Int) *Int {
	var t, u Int
	carry := t.add(x, y)
	borrow := u.sub(&t, &m.m)

	// The subtracted value is the correct one when the addition overflowed
	// or when the sum was at least the modulus.
	mask := -(carry | (borrow ^ 1))
	selectInt(z, &u, &t, mask)
	return z
}

// Sub sets z = x - y mod m.
func (m *Modulus) Sub(z, x, y *Int) *Int {
	var t, u Int
	borrow := t.sub(x, y)
	u.add(&t, &m.m)
	selectInt(z, &u, &t, -borrow)
	return z
}

// Neg sets z = -x mod m.
func (m *Modulus) Neg(z, x *Int) *Int {
	return m.Sub(z, &Int{}, x)
}

// Mul sets z = x * y mod m.
func (m *Modulus) Mul(z, x, y *Int) *Int {
	// x * y * R^-1 followed by a multiplication with R^2 * R^-1 = R undoes
	// the Montgomery factor.
	var t Int
	m.montMul(&t, x, y)
	m.montMul(z, &t, &m.r2)
	return z
}

// Sqr sets z = x^2 mod m.
func (m *Modulus) Sqr(z, x *Int) *Int {
	return m.Mul(z, x, x)
}

// Exp sets z = x^e mod m.  The exponent is processed with a plain left to right
// binary method and must therefore not be secret.  Secret bases are fine.
func (m *Modulus) Exp(z, x, e *Int) *Int {
	var base, acc Int
	m.montMul(&base, x, &m.r2)
	acc = m.one
	for i := e.BitLen() - 1; i >= 0; i-- {
		m.montMul(&acc, &acc, &acc)
		if e.Bit(i) == 1 {
			m.montMul(&acc, &acc, &base)
		}
	}
	m.montMul(z, &acc, &Int{1})
	base.Zero()
	acc.Zero()
	return z
}

// Inverse sets z = x^-1 mod m using Fermat's little theorem, so the modulus
// must be prime.  ErrNotInvertible is returned, and z left untouched, when x is
// congruent to zero.
func (m *Modulus) Inverse(z, x *Int) error {
	var t Int
	m.Reduce(&t, x)
	if t.IsZero() {
		return hdcrypto.MakeError(hdcrypto.ErrNotInvertible,
			"zero has no multiplicative inverse")
	}
	m.Exp(z, &t, &m.invExp)
	return nil
}

// Sqrt sets z to a square root of x mod m.  The modulus must be a prime that
// is congruent to 3 mod 4 which allows computing the root as x^((m+1)/4).  The
// other root is m - z and callers pick the one they need.
//
// ErrNoSquareRoot is returned, and z left untouched, when x is not a quadratic
// residue.
func (m *Modulus) Sqrt(z, x *Int) error {
	if !m.hasSqrt {
		return hdcrypto.MakeError(hdcrypto.ErrSqrtUnsupported,
			"square roots are only supported for moduli congruent to 3 mod 4")
	}

	var r, check Int
	m.Exp(&r, x, &m.sqrtExp)
	m.Sqr(&check, &r)
	if !check.Equals(x) {
		return hdcrypto.MakeError(hdcrypto.ErrNoSquareRoot,
			"value is not a quadratic residue")
	}
	*z = r
	return nil
}

// montMul sets z = x * y * R^-1 mod m.  The result is canonical provided
// x * y < m * R which holds whenever one operand is canonical.
func (m *Modulus) montMul(z, x, y *Int) {
	var t [6]uint64
	for i := 0; i < 4; i++ {
		// t += x * y[i]
		var c, cc uint64
		for j := 0; j < 4; j++ {
			hi, lo := bits.Mul64(x[j], y[i])
			lo, cc = bits.Add64(lo, t[j], 0)
			hi += cc
			lo, cc = bits.Add64(lo, c, 0)
			hi += cc
			t[j] = lo
			c = hi
		}
		t[4], cc = bits.Add64(t[4], c, 0)
		t[5] = cc

		// t = (t + u*m) / 2^64 where u is chosen so the low word
		// vanishes.
		u := t[0] * m.inv
		hi, lo := bits.Mul64(u, m.m[0])
		_, cc = bits.Add64(lo, t[0], 0)
		c = hi + cc
		for j := 1; j < 4; j++ {
			hi, lo = bits.Mul64(u, m.m[j])
			lo, cc = bits.Add64(lo, t[j], 0)
			hi += cc
			lo, cc = bits.Add64(lo, c, 0)
			hi += cc
			t[j-1] = lo
			c = hi
		}
		t[3], cc = bits.Add64(t[4], c, 0)
		t[4] = t[5] + cc
	}

	// t < 2m at this point, so a single conditional subtraction yields the
	// canonical result.
	r := Int{t[0], t[1], t[2], t[3]}
	var s Int
	borrow := s.sub(&r, &m.m)
	mask := -(t[4] | (borrow ^ 1))
	selectInt(z, &s, &r, mask)
}
