// Copyright (c) 2015 The btcsuite developers
// Copyright (c) 2015-2023 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ecckd

import "github.com/ModChain/hdcrypto"

// SharedKey performs an elliptic curve Diffie-Hellman exchange between the
// private key of the node and the peer public key.
//
// On Weierstrass curves the peer key may be compressed or uncompressed and
// the result is the 65-byte uncompressed encoding of the shared point.  On
// curve25519 the peer key is 0x00 followed by its 32-byte u-coordinate and the
// result is 0x04 followed by the 32-byte shared secret.
func (n *HDNode) SharedKey(peer []byte) ([]byte, error) {
	if !n.hasPrivate {
		str := "ecdh requires a private key"
		return nil, makeError(hdcrypto.ErrMissingPrivateKey, str)
	}
	return n.curve.sharedKey(&n.PrivateKey, peer)
}
