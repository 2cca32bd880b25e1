package ecckd

import (
	"crypto/sha512"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/ModChain/hdcrypto"
	"github.com/ModChain/hdcrypto/bignum"
	"github.com/ModChain/hdcrypto/ecc"
	"golang.org/x/crypto/curve25519"
)

// Names of the curves a node can be derived on.
const (
	Secp256k1Name  = ecc.NameSecp256k1
	NIST256P1Name  = ecc.NameNIST256P1
	ED25519Name    = "ed25519"
	Curve25519Name = "curve25519"
)

// Curve is the key arithmetic of one named curve.  It is selected once when a
// node is created and carried by every node derived from it.
//
// The set of implementations is closed: secp256k1 and nist256p1 follow
// BIP0032, ed25519 and curve25519 follow SLIP-0010 and only allow hardened
// private derivation.
type Curve interface {
	// Name returns the name the curve is selected by.
	Name() string

	// SeedKey returns the HMAC-SHA512 key used to create master nodes.
	SeedKey() []byte

	// HardenedOnly reports whether only hardened private derivation is
	// defined for the curve.
	HardenedOnly() bool

	checkMasterKey(il *[32]byte) error
	checkPrivateKey(k *[32]byte) error
	checkPublicKey(pub *[33]byte) error
	publicKey(priv *[32]byte) ([33]byte, error)
	childPrivateKey(il, parent *[32]byte) ([32]byte, error)
	childPublicKey(il *[32]byte, parent *[33]byte) ([33]byte, error)
	sharedKey(priv *[32]byte, peer []byte) ([]byte, error)
}

// CurveByName returns the curve with the given name.
func CurveByName(name string) (Curve, error) {
	switch name {
	case Secp256k1Name:
		return &weierstrass{curve: ecc.Secp256k1(), seedKey: "Bitcoin seed"}, nil
	case NIST256P1Name:
		return &weierstrass{curve: ecc.NIST256P1(), seedKey: "Nist256p1 seed"}, nil
	case ED25519Name:
		return ed25519Curve{}, nil
	case Curve25519Name:
		return x25519Curve{}, nil
	}

	str := fmt.Sprintf("unknown curve %q", name)
	return nil, makeError(hdcrypto.ErrUnknownCurve, str)
}

// weierstrass implements BIP0032 arithmetic on a short Weierstrass curve.
type weierstrass struct {
	curve   *ecc.Curve
	seedKey string
}

func (w *weierstrass) Name() string       { return w.curve.Name }
func (w *weierstrass) SeedKey() []byte    { return []byte(w.seedKey) }
func (w *weierstrass) HardenedOnly() bool { return false }

func (w *weierstrass) checkMasterKey(il *[32]byte) error {
	if !w.curve.IsValidScalar(il) {
		str := "seed derived key is zero or not below the group order"
		return makeError(hdcrypto.ErrInvalidSeedDerivedKey, str)
	}
	return nil
}

func (w *weierstrass) checkPrivateKey(k *[32]byte) error {
	if !w.curve.IsValidScalar(k) {
		str := "private key is zero or not below the group order"
		return makeError(hdcrypto.ErrInvalidPrivateKey, str)
	}
	return nil
}

func (w *weierstrass) checkPublicKey(pub *[33]byte) error {
	_, err := w.curve.DecompressPoint(pub[:])
	return err
}

func (w *weierstrass) publicKey(priv *[32]byte) ([33]byte, error) {
	if err := w.checkPrivateKey(priv); err != nil {
		return [33]byte{}, err
	}

	var k bignum.Int
	k.SetBytes(priv)
	p := w.curve.ScalarBaseMult(&k)
	k.Zero()
	return ecc.SerializeCompressed(&p), nil
}

// childPrivateKey returns (IL + parent) mod N.
func (w *weierstrass) childPrivateKey(il, parent *[32]byte) ([32]byte, error) {
	var a, b bignum.Int
	a.SetBytes(il)
	defer a.Zero()
	if !w.curve.N.IsCanonical(&a) {
		str := "derived key is not below the group order"
		return [32]byte{}, makeError(hdcrypto.ErrInvalidSeedDerivedKey, str)
	}

	b.SetBytes(parent)
	defer b.Zero()
	w.curve.N.Add(&a, &a, &b)
	if a.IsZero() {
		str := "derived private key is zero"
		return [32]byte{}, makeError(hdcrypto.ErrInvalidSeedDerivedKey, str)
	}
	return a.Bytes(), nil
}

// childPublicKey returns IL*G + parent.
func (w *weierstrass) childPublicKey(il *[32]byte, parent *[33]byte) ([33]byte, error) {
	var a bignum.Int
	a.SetBytes(il)
	if !w.curve.N.IsCanonical(&a) {
		str := "derived key is not below the group order"
		return [33]byte{}, makeError(hdcrypto.ErrInvalidSeedDerivedKey, str)
	}

	p, err := w.curve.DecompressPoint(parent[:])
	if err != nil {
		return [33]byte{}, err
	}
	q := w.curve.ScalarBaseMult(&a)
	q = w.curve.Add(&q, &p)
	if q.IsInfinity() {
		str := "derived public key is the point at infinity"
		return [33]byte{}, makeError(hdcrypto.ErrInvalidSeedDerivedKey, str)
	}
	return ecc.SerializeCompressed(&q), nil
}

// sharedKey returns the uncompressed encoding of priv*peer.
func (w *weierstrass) sharedKey(priv *[32]byte, peer []byte) ([]byte, error) {
	p, err := w.curve.ParsePubKey(peer)
	if err != nil {
		return nil, err
	}

	var k bignum.Int
	k.SetBytes(priv)
	defer k.Zero()
	q := w.curve.ScalarMult(&k, &p)
	if q.IsInfinity() {
		str := "shared point is the point at infinity"
		return nil, makeError(hdcrypto.ErrPointAtInfinity, str)
	}
	b := ecc.SerializeUncompressed(&q)
	return b[:], nil
}

// ed25519Curve implements SLIP-0010 derivation for Ed25519 keys.  The public
// key is 0x00 followed by the encoded point A of RFC 8032.
type ed25519Curve struct{}

func (ed25519Curve) Name() string       { return ED25519Name }
func (ed25519Curve) SeedKey() []byte    { return []byte("ed25519 seed") }
func (ed25519Curve) HardenedOnly() bool { return true }

func (ed25519Curve) checkMasterKey(*[32]byte) error  { return nil }
func (ed25519Curve) checkPrivateKey(*[32]byte) error { return nil }

func (ed25519Curve) checkPublicKey(pub *[33]byte) error {
	return checkPrefixedKey(pub)
}

func (ed25519Curve) publicKey(priv *[32]byte) ([33]byte, error) {
	h := sha512.Sum512(priv[:])
	defer func() { h = [64]byte{} }()

	s, err := edwards25519.NewScalar().SetBytesWithClamping(h[:32])
	if err != nil {
		return [33]byte{}, err
	}
	a := new(edwards25519.Point).ScalarBaseMult(s)

	var pub [33]byte
	copy(pub[1:], a.Bytes())
	return pub, nil
}

func (ed25519Curve) childPrivateKey(il, _ *[32]byte) ([32]byte, error) {
	return *il, nil
}

func (ed25519Curve) childPublicKey(*[32]byte, *[33]byte) ([33]byte, error) {
	return [33]byte{}, errPublicDerivation(ED25519Name)
}

func (ed25519Curve) sharedKey(*[32]byte, []byte) ([]byte, error) {
	str := "ecdh is not supported on ed25519"
	return nil, makeError(hdcrypto.ErrUnsupportedDerivation, str)
}

// x25519Curve implements SLIP-0010 derivation for Curve25519 keys.  The
// public key is 0x00 followed by the X25519 function of the private key and
// the base point.
type x25519Curve struct{}

func (x25519Curve) Name() string       { return Curve25519Name }
func (x25519Curve) SeedKey() []byte    { return []byte("curve25519 seed") }
func (x25519Curve) HardenedOnly() bool { return true }

func (x25519Curve) checkMasterKey(*[32]byte) error  { return nil }
func (x25519Curve) checkPrivateKey(*[32]byte) error { return nil }

func (x25519Curve) checkPublicKey(pub *[33]byte) error {
	return checkPrefixedKey(pub)
}

func (x25519Curve) publicKey(priv *[32]byte) ([33]byte, error) {
	u, err := curve25519.X25519(priv[:], curve25519.Basepoint)
	if err != nil {
		return [33]byte{}, err
	}

	var pub [33]byte
	copy(pub[1:], u)
	return pub, nil
}

func (x25519Curve) childPrivateKey(il, _ *[32]byte) ([32]byte, error) {
	return *il, nil
}

func (x25519Curve) childPublicKey(*[32]byte, *[33]byte) ([33]byte, error) {
	return [33]byte{}, errPublicDerivation(Curve25519Name)
}

// sharedKey returns 0x04 followed by X25519(priv, peer).
func (x25519Curve) sharedKey(priv *[32]byte, peer []byte) ([]byte, error) {
	if len(peer) != 33 || peer[0] != 0x00 {
		str := fmt.Sprintf("malformed curve25519 public key of length %d",
			len(peer))
		return nil, makeError(hdcrypto.ErrInvalidPublicKeyEncoding, str)
	}

	u, err := curve25519.X25519(priv[:], peer[1:])
	if err != nil {
		str := fmt.Sprintf("invalid curve25519 peer key: %v", err)
		return nil, makeError(hdcrypto.ErrPointAtInfinity, str)
	}
	return append([]byte{0x04}, u...), nil
}

// checkPrefixedKey ensures a 25519 public key carries the 0x00 prefix byte.
func checkPrefixedKey(pub *[33]byte) error {
	if pub[0] != 0x00 {
		str := fmt.Sprintf("invalid public key prefix %#02x", pub[0])
		return makeError(hdcrypto.ErrInvalidPublicKeyEncoding, str)
	}
	return nil
}

func errPublicDerivation(curve string) error {
	str := fmt.Sprintf("public derivation is not defined on %s", curve)
	return makeError(hdcrypto.ErrUnsupportedDerivation, str)
}
