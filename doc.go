// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2015-2022 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package hdcrypto implements the cryptographic primitives needed by a hardware
wallet to manage hierarchical deterministic keys in pure Go.

The functionality is split across the following sub packages:

  - bignum: fixed-width 256-bit unsigned integers together with modular
    arithmetic contexts for curve primes and group orders, and locale-aware
    decimal formatting for amount display
  - ecc: short Weierstrass curve parameters (secp256k1 and nist256p1), affine
    point addition and doubling, fixed-base scalar multiplication driven by a
    precomputed 64x8 table, generic double-and-add scalar multiplication,
    point compression and decompression
  - ecckd: BIP0032 and SLIP-0010 child key derivation on top of the curve
    engine for secp256k1, nist256p1, ed25519 and curve25519, a cache for
    repeated path derivation and the extended key serialization format
    (xprv/xpub)

This package itself only defines the error taxonomy shared by every sub
package.  All errors returned by the sub packages are of type Error and wrap an
ErrorKind so callers can use errors.Is to determine the reason for a failure:

	node, err := ecckd.FromSeed(seed, ecckd.Secp256k1Name)
	if errors.Is(err, hdcrypto.ErrInvalidSeedDerivedKey) {
		// Pick another seed.
	}

None of the operations perform I/O or block.  Curve parameters and their
precomputed tables are created once on first use and are safe for concurrent
use by any number of goroutines.  Derivation never mutates the parent node, so
independent derivation paths may proceed in parallel on the same parent.
*/
package hdcrypto
