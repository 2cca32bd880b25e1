package ecckd

import "encoding/binary"

// KeyVersion is the 4-byte prefix of a serialized extended key which
// identifies the network and whether the key is private or public.
type KeyVersion uint32

const (
	BitcoinMainnetPublic  KeyVersion = 0x0488b21e // xpub
	BitcoinMainnetPrivate KeyVersion = 0x0488ade4 // xprv
	BitcoinTestnetPublic  KeyVersion = 0x043587cf // tpub
	BitcoinTestnetPrivate KeyVersion = 0x04358394 // tprv
)

// IsPrivate returns true if the version is a known private key version.
func (kv KeyVersion) IsPrivate() bool {
	switch kv {
	case BitcoinMainnetPrivate, BitcoinTestnetPrivate:
		return true
	}
	return false
}

// ToPublic returns the public version of the same network.  Unknown versions
// are returned unchanged.
func (kv KeyVersion) ToPublic() KeyVersion {
	switch kv {
	case BitcoinMainnetPrivate:
		return BitcoinMainnetPublic
	case BitcoinTestnetPrivate:
		return BitcoinTestnetPublic
	}
	return kv
}

// Bytes returns the big-endian encoding of the version.
func (kv KeyVersion) Bytes() [4]byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(kv))
	return b
}
