// Copyright (c) 2020-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hdcrypto

// ErrorKind identifies a kind of error.  It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrInvalidSeedDerivedKey is returned when the left half of an
	// HMAC-SHA512 output is zero or not less than the group order, both when
	// creating a master node from a seed and when deriving a child.
	ErrInvalidSeedDerivedKey = ErrorKind("ErrInvalidSeedDerivedKey")

	// ErrMissingPrivateKey is returned when a private or hardened derivation
	// is attempted on a node that only holds a public key.
	ErrMissingPrivateKey = ErrorKind("ErrMissingPrivateKey")

	// ErrInvalidIndexForPublicDerivation is returned when a hardened index is
	// requested through public derivation.
	ErrInvalidIndexForPublicDerivation = ErrorKind("ErrInvalidIndexForPublicDerivation")

	// ErrUnsupportedDerivation is returned when the curve of a node does not
	// support the requested kind of derivation, for example non-hardened
	// derivation on ed25519.
	ErrUnsupportedDerivation = ErrorKind("ErrUnsupportedDerivation")

	// ErrMaxDepthExceeded is returned when deriving a child from a node that
	// is already at the maximum depth of 255.
	ErrMaxDepthExceeded = ErrorKind("ErrMaxDepthExceeded")

	// ErrUnknownCurve is returned when a curve name is not supported.
	ErrUnknownCurve = ErrorKind("ErrUnknownCurve")

	// ErrInvalidPath is returned when a textual derivation path can't be
	// parsed.
	ErrInvalidPath = ErrorKind("ErrInvalidPath")

	// ErrSerializationBufferTooSmall is returned when the buffer provided to
	// hold an extended key string is too small.
	ErrSerializationBufferTooSmall = ErrorKind("ErrSerializationBufferTooSmall")

	// ErrBase58Decode is returned when an extended key string contains
	// characters outside of the base58 alphabet.
	ErrBase58Decode = ErrorKind("ErrBase58Decode")

	// ErrDeserializationChecksumMismatch is returned when the checksum of a
	// decoded extended key does not match its payload.
	ErrDeserializationChecksumMismatch = ErrorKind("ErrDeserializationChecksumMismatch")

	// ErrDeserializationVersionMismatch is returned when the version prefix of
	// a decoded extended key is not the requested one.
	ErrDeserializationVersionMismatch = ErrorKind("ErrDeserializationVersionMismatch")

	// ErrDeserializationLengthMismatch is returned when a decoded extended
	// key is not exactly 82 bytes.
	ErrDeserializationLengthMismatch = ErrorKind("ErrDeserializationLengthMismatch")

	// ErrInvalidPrivateKey is returned when private key material is zero, not
	// less than the group order, or not prefixed by a zero byte inside an
	// extended key.
	ErrInvalidPrivateKey = ErrorKind("ErrInvalidPrivateKey")

	// ErrInvalidPublicKeyEncoding is returned when a public key has an
	// invalid length or format byte, or does not describe a point on the
	// curve.
	ErrInvalidPublicKeyEncoding = ErrorKind("ErrInvalidPublicKeyEncoding")

	// ErrPointAtInfinity is returned when an operation produces the point at
	// infinity where a valid public key is required.
	ErrPointAtInfinity = ErrorKind("ErrPointAtInfinity")

	// ErrNotInvertible is returned when attempting to invert a value that is
	// congruent to zero.
	ErrNotInvertible = ErrorKind("ErrNotInvertible")

	// ErrNoSquareRoot is returned when a value is not a quadratic residue.
	ErrNoSquareRoot = ErrorKind("ErrNoSquareRoot")

	// ErrSqrtUnsupported is returned when a square root is requested modulo
	// a value that is not congruent to 3 mod 4.
	ErrSqrtUnsupported = ErrorKind("ErrSqrtUnsupported")

	// ErrInvalidFormatBufferTooSmall is returned when the buffer provided to
	// hold a formatted number is too small.
	ErrInvalidFormatBufferTooSmall = ErrorKind("ErrInvalidFormatBufferTooSmall")

	// ErrInvalidHexInt is returned when a hex string is malformed or does
	// not fit in 256 bits.
	ErrInvalidHexInt = ErrorKind("ErrInvalidHexInt")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to big number arithmetic, curve
// operations, key derivation or extended key serialization.  It has full
// support for errors.Is and errors.As, so the caller can ascertain the
// specific reason for the error by checking the underlying error.
type Error struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// MakeError creates an Error given a set of arguments.
func MakeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
