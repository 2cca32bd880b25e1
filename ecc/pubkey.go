// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecc

import (
	"fmt"

	"github.com/ModChain/hdcrypto"
	"github.com/ModChain/hdcrypto/bignum"
)

// These constants define the lengths of serialized public keys.
const (
	PubKeyBytesLenCompressed   = 33
	PubKeyBytesLenUncompressed = 65
)

const (
	// PubKeyFormatCompressed is the identifier prefix byte for a public key
	// whose Y coordinate is even when serialized in the compressed format.
	PubKeyFormatCompressed byte = 0x02

	// PubKeyFormatCompressedOdd is the prefix byte for a compressed key with
	// an odd Y coordinate.
	PubKeyFormatCompressedOdd byte = 0x03

	// PubKeyFormatUncompressed is the identifier prefix byte for a public key
	// when serialized according in the uncompressed format.
	PubKeyFormatUncompressed byte = 0x04
)

func makeError(kind hdcrypto.ErrorKind, desc string) error {
	return hdcrypto.MakeError(kind, desc)
}

// DecompressY returns the Y coordinate of the point with the given X
// coordinate and the requested parity.
//
// ErrInvalidPublicKeyEncoding is returned when x is not in the field or when
// no point with that X coordinate exists.
func (c *Curve) DecompressY(x *bignum.Int, odd bool) (bignum.Int, error) {
	var y bignum.Int
	if !c.P.IsCanonical(x) {
		str := "invalid public key: x >= field prime"
		return y, makeError(hdcrypto.ErrInvalidPublicKeyEncoding, str)
	}

	var rhs bignum.Int
	c.rhs(&rhs, x)
	if err := c.P.Sqrt(&y, &rhs); err != nil {
		str := fmt.Sprintf("invalid public key: x coordinate %s is not on "+
			"the %s curve", x, c.Name)
		return y, makeError(hdcrypto.ErrInvalidPublicKeyEncoding, str)
	}
	if y.IsOdd() != odd {
		c.P.Neg(&y, &y)
	}
	return y, nil
}

// DecompressPoint parses a 33-byte compressed point.
func (c *Curve) DecompressPoint(b []byte) (Point, error) {
	if len(b) != PubKeyBytesLenCompressed {
		str := fmt.Sprintf("malformed public key: invalid length: %d",
			len(b))
		return Point{}, makeError(hdcrypto.ErrInvalidPublicKeyEncoding, str)
	}

	var odd bool
	switch b[0] {
	case PubKeyFormatCompressed:
	case PubKeyFormatCompressedOdd:
		odd = true
	default:
		str := fmt.Sprintf("invalid public key: unsupported format: %x",
			b[0])
		return Point{}, makeError(hdcrypto.ErrInvalidPublicKeyEncoding, str)
	}

	var p Point
	p.X.SetByteSlice(b[1:])
	y, err := c.DecompressY(&p.X, odd)
	if err != nil {
		return Point{}, err
	}
	p.Y = y
	return p, nil
}

// ParsePubKey parses a public key in either the compressed (33 bytes) or the
// uncompressed (65 bytes) format and ensures it is a point on the curve.
func (c *Curve) ParsePubKey(b []byte) (Point, error) {
	switch len(b) {
	case PubKeyBytesLenCompressed:
		return c.DecompressPoint(b)

	case PubKeyBytesLenUncompressed:
		if b[0] != PubKeyFormatUncompressed {
			str := fmt.Sprintf("invalid public key: unsupported format: %x",
				b[0])
			return Point{}, makeError(hdcrypto.ErrInvalidPublicKeyEncoding, str)
		}
		var p Point
		p.X.SetByteSlice(b[1:33])
		p.Y.SetByteSlice(b[33:65])
		if !c.IsOnCurve(&p) {
			str := "invalid public key: point is not on the curve"
			return Point{}, makeError(hdcrypto.ErrInvalidPublicKeyEncoding, str)
		}
		return p, nil
	}

	str := fmt.Sprintf("malformed public key: invalid length: %d", len(b))
	return Point{}, makeError(hdcrypto.ErrInvalidPublicKeyEncoding, str)
}

// SerializeCompressed serializes a point in the 33-byte compressed format.
// The point at infinity has no encoding and serializes to all zeros.
func SerializeCompressed(p *Point) [PubKeyBytesLenCompressed]byte {
	var b [PubKeyBytesLenCompressed]byte
	if p.IsInfinity() {
		return b
	}
	b[0] = PubKeyFormatCompressed
	if p.Y.IsOdd() {
		b[0] = PubKeyFormatCompressedOdd
	}
	x := p.X.Bytes()
	copy(b[1:], x[:])
	return b
}

// SerializeUncompressed serializes a point in the 65-byte uncompressed format.
// The point at infinity serializes to all zeros.
func SerializeUncompressed(p *Point) [PubKeyBytesLenUncompressed]byte {
	var b [PubKeyBytesLenUncompressed]byte
	if p.IsInfinity() {
		return b
	}
	b[0] = PubKeyFormatUncompressed
	x, y := p.X.Bytes(), p.Y.Bytes()
	copy(b[1:33], x[:])
	copy(b[33:], y[:])
	return b
}
