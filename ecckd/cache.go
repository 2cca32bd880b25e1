package ecckd

import (
	"encoding/binary"
	"errors"

	"github.com/ModChain/hdcrypto"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightninglabs/neutrino/cache"
	"github.com/lightninglabs/neutrino/cache/lru"
)

// DefaultDeriveCacheSize is the default number of parent nodes remembered by
// a DeriveCache.
const DefaultDeriveCacheSize = 64

// deriveKey identifies a node by the root it was derived from and the path
// leading to it.
type deriveKey struct {
	root   chainhash.Hash
	prefix string
}

// cachedNode is a derived node stored in the cache.
type cachedNode struct {
	node HDNode
}

// Size returns the "size" of an entry.
func (c *cachedNode) Size() (uint64, error) {
	return 1, nil
}

// DeriveCache speeds up deriving many paths that share everything but their
// last index, such as consecutive addresses of one account, by remembering
// the parent node of every derived path.
//
// The result of Derive is identical to deriving the path one step at a time
// with HDNode.Derive.  A DeriveCache is safe for concurrent use.  It keeps
// private keys in memory until the entries are evicted.
type DeriveCache struct {
	nodes *lru.Cache[deriveKey, *cachedNode]
}

// NewDeriveCache returns a cache holding at most capacity parent nodes.
func NewDeriveCache(capacity uint64) *DeriveCache {
	return &DeriveCache{
		nodes: lru.NewCache[deriveKey, *cachedNode](capacity),
	}
}

// rootID returns a digest identifying the root node of a derivation.
func rootID(root *HDNode) chainhash.Hash {
	var b [1 + 1 + 4 + 32 + 33 + 32]byte
	b[0] = root.Depth
	if root.hasPrivate {
		b[1] = 1
	}
	binary.BigEndian.PutUint32(b[2:6], root.ChildNum)
	copy(b[6:38], root.ChainCode[:])
	if root.hasPrivate {
		copy(b[38:70], root.PrivateKey[:])
	} else {
		copy(b[38:71], root.PublicKey[:])
	}
	copy(b[71:], []byte(root.curve.Name()))

	id := chainhash.HashH(b[:])
	b = [len(b)]byte{}
	return id
}

// encodePath returns the compact encoding of a path used in cache keys.
func encodePath(path []uint32) string {
	b := make([]byte, 4*len(path))
	for i, index := range path {
		binary.BigEndian.PutUint32(b[4*i:], index)
	}
	return string(b)
}

// Derive returns the node at path relative to root together with the
// fingerprint of its parent.  For an empty path the result is a copy of root
// and the fingerprint is zero.
func (c *DeriveCache) Derive(root *HDNode, path []uint32) (*HDNode, uint32,
	error) {

	if !root.hasPrivate && !root.hasPublic {
		str := "root holds neither a private nor a public key"
		return nil, 0, makeError(hdcrypto.ErrMissingPrivateKey, str)
	}
	if len(path) == 0 {
		return root.Clone(), 0, nil
	}

	parentPath := path[:len(path)-1]
	key := deriveKey{
		root:   rootID(root),
		prefix: encodePath(parentPath),
	}

	var parent *HDNode
	entry, err := c.nodes.Get(key)
	switch {
	case err == nil:
		log.Tracef("Derive cache hit for %v",
			newLogClosure(func() string { return FormatPath(parentPath) }))
		parent = &entry.node

	case errors.Is(err, cache.ErrElementNotFound):
		log.Tracef("Derive cache miss for %v",
			newLogClosure(func() string { return FormatPath(parentPath) }))

		parent, err = root.Derive(parentPath)
		if err != nil {
			return nil, 0, err
		}
		// The public key is needed for the fingerprint and for every
		// non-hardened child, so compute it once for the cached copy.
		if err := parent.FillPublicKey(); err != nil {
			return nil, 0, err
		}
		if _, err := c.nodes.Put(key, &cachedNode{node: *parent}); err != nil {
			return nil, 0, err
		}

	default:
		return nil, 0, err
	}

	child, err := parent.Child(path[len(path)-1])
	if err != nil {
		return nil, 0, err
	}
	return child, parent.Fingerprint(), nil
}

// Len returns the number of parent nodes currently cached.
func (c *DeriveCache) Len() int {
	return c.nodes.Len()
}
