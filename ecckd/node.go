package ecckd

import (
	"encoding/binary"
	"fmt"

	"github.com/ModChain/hdcrypto"
)

const (
	// HardenedKeyStart is the index at which a hardened key starts.  Each
	// extended key has 2^31 normal child keys and 2^31 hardened child keys.
	// Thus the range for normal child keys is [0, 2^31 - 1] and the range
	// for hardened child keys is [2^31, 2^32 - 1].
	HardenedKeyStart = 0x80000000 // 2^31

	// MaxDepth is the depth of the deepest node that can be serialized.
	// Nodes at this depth have no children.
	MaxDepth = 0xff
)

// HDNode is a node in a hierarchical deterministic key tree.
//
// A node always holds a chain code.  A private node also holds a private key
// and may hold its compressed public key once it has been computed, while a
// public node holds only the public key and has an all-zero private key.
//
// Derivation never mutates a node: every CKD method returns a new node and
// leaves the receiver untouched, so distinct goroutines may derive from the
// same parent concurrently.  FillPublicKey and Zero are the only methods that
// modify the receiver.
type HDNode struct {
	Depth      uint8
	ChildNum   uint32 // ser32(i) for the index this node was derived at, 0 for the master node
	ChainCode  [32]byte
	PrivateKey [32]byte
	PublicKey  [33]byte // serP(K), valid only once HasPublicKey returns true

	curve      Curve
	hasPrivate bool
	hasPublic  bool
}

// FromSeed returns the master node for the given seed on the named curve.
//
// ErrInvalidSeedDerivedKey is returned when the seed produces an unusable key,
// which happens with a probability lower than 1 in 2^127.  No other seed is
// tried in that case.
func FromSeed(seed []byte, curveName string) (*HDNode, error) {
	curve, err := CurveByName(curveName)
	if err != nil {
		return nil, err
	}

	il, ir := hmacCKD(curve.SeedKey(), seed)
	defer zero32(&il)
	if err := curve.checkMasterKey(&il); err != nil {
		log.Debugf("Rejected %s master key derived from seed", curveName)
		return nil, err
	}

	n := &HDNode{
		ChainCode:  ir,
		PrivateKey: il,
		curve:      curve,
		hasPrivate: true,
	}
	if err := n.FillPublicKey(); err != nil {
		return nil, err
	}
	return n, nil
}

// NewPrivateNode creates a node from its private key material.
func NewPrivateNode(curveName string, depth uint8, childNum uint32,
	chainCode, privateKey []byte) (*HDNode, error) {

	curve, err := CurveByName(curveName)
	if err != nil {
		return nil, err
	}
	if len(chainCode) != 32 {
		str := fmt.Sprintf("chain code must be 32 bytes, got %d",
			len(chainCode))
		return nil, makeError(hdcrypto.ErrDeserializationLengthMismatch, str)
	}
	if len(privateKey) != 32 {
		str := fmt.Sprintf("private key must be 32 bytes, got %d",
			len(privateKey))
		return nil, makeError(hdcrypto.ErrInvalidPrivateKey, str)
	}

	n := &HDNode{
		Depth:      depth,
		ChildNum:   childNum,
		curve:      curve,
		hasPrivate: true,
	}
	copy(n.ChainCode[:], chainCode)
	copy(n.PrivateKey[:], privateKey)
	if err := curve.checkPrivateKey(&n.PrivateKey); err != nil {
		n.Zero()
		return nil, err
	}
	return n, nil
}

// NewPublicNode creates a node from a compressed public key.  Only the format
// byte of the key is checked here, the point itself is validated when it is
// first used for derivation.
func NewPublicNode(curveName string, depth uint8, childNum uint32,
	chainCode, publicKey []byte) (*HDNode, error) {

	curve, err := CurveByName(curveName)
	if err != nil {
		return nil, err
	}
	if len(chainCode) != 32 {
		str := fmt.Sprintf("chain code must be 32 bytes, got %d",
			len(chainCode))
		return nil, makeError(hdcrypto.ErrDeserializationLengthMismatch, str)
	}
	if len(publicKey) != 33 {
		str := fmt.Sprintf("public key must be 33 bytes, got %d",
			len(publicKey))
		return nil, makeError(hdcrypto.ErrInvalidPublicKeyEncoding, str)
	}

	n := &HDNode{
		Depth:     depth,
		ChildNum:  childNum,
		curve:     curve,
		hasPublic: true,
	}
	copy(n.ChainCode[:], chainCode)
	copy(n.PublicKey[:], publicKey)
	if err := checkPublicKeyFormat(curve, &n.PublicKey); err != nil {
		return nil, err
	}
	return n, nil
}

// checkPublicKeyFormat checks the format byte of a public key for the curve.
func checkPublicKeyFormat(curve Curve, pub *[33]byte) error {
	if curve.HardenedOnly() {
		return curve.checkPublicKey(pub)
	}
	if pub[0] != 0x02 && pub[0] != 0x03 {
		str := fmt.Sprintf("invalid public key prefix %#02x", pub[0])
		return makeError(hdcrypto.ErrInvalidPublicKeyEncoding, str)
	}
	return nil
}

// Curve returns the curve of the node.
func (n *HDNode) Curve() Curve {
	return n.curve
}

// IsPrivate returns whether the node holds a private key.
func (n *HDNode) IsPrivate() bool {
	return n.hasPrivate
}

// HasPublicKey returns whether PublicKey holds the public key of the node.
func (n *HDNode) HasPublicKey() bool {
	return n.hasPublic
}

// FillPublicKey computes the public key of a private node and stores it in
// PublicKey.  It does nothing when the public key is already known.
func (n *HDNode) FillPublicKey() error {
	if n.hasPublic {
		return nil
	}
	pub, err := n.pubKey()
	if err != nil {
		return err
	}
	n.PublicKey = pub
	n.hasPublic = true
	return nil
}

// pubKey returns the public key of the node, computing it without storing it
// when it is not known yet.
func (n *HDNode) pubKey() ([33]byte, error) {
	if n.hasPublic {
		return n.PublicKey, nil
	}
	if !n.hasPrivate {
		str := "node holds neither a private nor a public key"
		return [33]byte{}, makeError(hdcrypto.ErrMissingPrivateKey, str)
	}
	return n.curve.publicKey(&n.PrivateKey)
}

// Fingerprint returns the first 4 bytes of RIPEMD160(SHA256(public key)) as a
// big-endian integer.  Children record it to identify their parent.  Zero is
// returned when the public key can't be computed.
func (n *HDNode) Fingerprint() uint32 {
	pub, err := n.pubKey()
	if err != nil {
		return 0
	}
	return fingerprintOf(&pub)
}

// PrivateCKD derives the child private node at index i.  Indices starting at
// HardenedKeyStart produce hardened children.
//
// Normal derivation computes I = HMAC-SHA512(chain code, serP(K) || ser32(i))
// and hardened derivation I = HMAC-SHA512(chain code, 0x00 || ser256(k) ||
// ser32(i)).  The child chain code is IR and the child private key is
// (IL + k) mod n on Weierstrass curves and IL itself on the 25519 curves,
// which only allow hardened derivation.
//
// The public key of the child is not computed, see FillPublicKey.
func (n *HDNode) PrivateCKD(i uint32) (*HDNode, error) {
	if n.Depth == MaxDepth {
		return nil, makeError(hdcrypto.ErrMaxDepthExceeded,
			"cannot derive a child from a node at depth 255")
	}
	if !n.hasPrivate {
		str := "private derivation requires a private key"
		return nil, makeError(hdcrypto.ErrMissingPrivateKey, str)
	}

	isChildHardened := i >= HardenedKeyStart
	if !isChildHardened && n.curve.HardenedOnly() {
		str := fmt.Sprintf("non-hardened derivation is not defined on %s",
			n.curve.Name())
		return nil, makeError(hdcrypto.ErrUnsupportedDerivation, str)
	}

	var data [37]byte
	if isChildHardened {
		// 0x00 || ser256(parentKey) || ser32(i)
		copy(data[1:], n.PrivateKey[:])
	} else {
		// serP(parentPubKey) || ser32(i)
		pub, err := n.pubKey()
		if err != nil {
			return nil, err
		}
		copy(data[:], pub[:])
	}
	binary.BigEndian.PutUint32(data[33:], i)

	il, ir := hmacCKD(n.ChainCode[:], data[:])
	data = [37]byte{}
	defer zero32(&il)

	key, err := n.curve.childPrivateKey(&il, &n.PrivateKey)
	if err != nil {
		log.Debugf("Rejected %s child %d at depth %d: %v", n.curve.Name(),
			i, n.Depth+1, err)
		return nil, err
	}

	return &HDNode{
		Depth:      n.Depth + 1,
		ChildNum:   i,
		ChainCode:  ir,
		PrivateKey: key,
		curve:      n.curve,
		hasPrivate: true,
	}, nil
}

// PrivateCKDPrime derives the hardened child private node at index
// i + HardenedKeyStart.
func (n *HDNode) PrivateCKDPrime(i uint32) (*HDNode, error) {
	return n.PrivateCKD(i | HardenedKeyStart)
}

// PublicCKD derives the child public node at the non-hardened index i using
// only the public key of the node.  The child public key is IL*G + K and its
// private key is all zeros.
func (n *HDNode) PublicCKD(i uint32) (*HDNode, error) {
	if n.Depth == MaxDepth {
		return nil, makeError(hdcrypto.ErrMaxDepthExceeded,
			"cannot derive a child from a node at depth 255")
	}
	if i >= HardenedKeyStart {
		str := fmt.Sprintf("index %d is hardened", i)
		return nil, makeError(hdcrypto.ErrInvalidIndexForPublicDerivation, str)
	}
	if !n.hasPublic && !n.hasPrivate {
		str := "node holds neither a private nor a public key"
		return nil, makeError(hdcrypto.ErrMissingPrivateKey, str)
	}
	if n.curve.HardenedOnly() {
		return nil, errPublicDerivation(n.curve.Name())
	}

	pub, err := n.pubKey()
	if err != nil {
		return nil, err
	}

	var data [37]byte
	copy(data[:], pub[:])
	binary.BigEndian.PutUint32(data[33:], i)

	il, ir := hmacCKD(n.ChainCode[:], data[:])
	childPub, err := n.curve.childPublicKey(&il, &pub)
	if err != nil {
		log.Debugf("Rejected %s public child %d at depth %d: %v",
			n.curve.Name(), i, n.Depth+1, err)
		return nil, err
	}

	return &HDNode{
		Depth:     n.Depth + 1,
		ChildNum:  i,
		ChainCode: ir,
		PublicKey: childPub,
		curve:     n.curve,
		hasPublic: true,
	}, nil
}

// Child derives the child at index i, privately when the node holds a private
// key and publicly otherwise.
//
// There are four CKD (child key derivation) scenarios:
// 1) Private node -> Hardened child private node
// 2) Private node -> Non-hardened child private node
// 3) Public node -> Non-hardened child public node
// 4) Public node -> Hardened child public node (INVALID!)
func (n *HDNode) Child(i uint32) (*HDNode, error) {
	if n.hasPrivate {
		// Case #1 or #2.
		return n.PrivateCKD(i)
	}
	// Case #3, case #4 is rejected by PublicCKD.
	return n.PublicCKD(i)
}

// Derive returns the node at the given path relative to this node by deriving
// one child per index.
func (n *HDNode) Derive(path []uint32) (*HDNode, error) {
	node := n
	for _, i := range path {
		child, err := node.Child(i)
		if node != n {
			node.Zero()
		}
		if err != nil {
			return nil, err
		}
		node = child
	}
	if node == n {
		return n.Clone(), nil
	}
	return node, nil
}

// Neuter returns the public node with the same position in the tree.  The
// receiver is left untouched.
func (n *HDNode) Neuter() (*HDNode, error) {
	pub, err := n.pubKey()
	if err != nil {
		return nil, err
	}
	return &HDNode{
		Depth:     n.Depth,
		ChildNum:  n.ChildNum,
		ChainCode: n.ChainCode,
		PublicKey: pub,
		curve:     n.curve,
		hasPublic: true,
	}, nil
}

// Clone returns a deep copy of the node.
func (n *HDNode) Clone() *HDNode {
	c := *n
	return &c
}

// Zero wipes the private key and chain code of the node.  The node must not be
// used for derivation afterwards.
func (n *HDNode) Zero() {
	zero32(&n.PrivateKey)
	zero32(&n.ChainCode)
	n.hasPrivate = false
}
