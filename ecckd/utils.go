package ecckd

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/ModChain/hdcrypto"
	"golang.org/x/crypto/ripemd160"
)

func makeError(kind hdcrypto.ErrorKind, desc string) error {
	return hdcrypto.MakeError(kind, desc)
}

// hash160 returns RIPEMD160(SHA256(in)).
func hash160(in []byte) []byte {
	a := sha256.Sum256(in)
	rmd := ripemd160.New()
	rmd.Write(a[:])
	return rmd.Sum(nil)
}

// fingerprintOf returns the first 4 bytes of the hash160 of a public key as a
// big-endian integer.
func fingerprintOf(pub *[33]byte) uint32 {
	return binary.BigEndian.Uint32(hash160(pub[:])[:4])
}

func zero32(b *[32]byte) {
	*b = [32]byte{}
}
