package ecckd

import (
	"crypto/hmac"
	"crypto/sha512"
)

// hmacCKD returns the two halves of HMAC-SHA512(key, data).  IL is the key
// material of the derived node and IR its chain code.
//
// See: https://github.com/bitcoin/bips/blob/master/bip-0032.mediawiki
func hmacCKD(key, data []byte) (il, ir [32]byte) {
	mac := hmac.New(sha512.New, key)
	mac.Write(data)
	var sum [64]byte
	mac.Sum(sum[:0])

	copy(il[:], sum[:32]) // IL
	copy(ir[:], sum[32:]) // IR
	sum = [64]byte{}
	return
}
