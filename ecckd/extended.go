package ecckd

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/ModChain/hdcrypto"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	// serializedKeyLen is the length of a serialized extended key without
	// its checksum.
	serializedKeyLen = 4 + 1 + 4 + 4 + 32 + 33 // 78 bytes

	// extendedKeyLen is the length of a serialized extended key including
	// its checksum.
	extendedKeyLen = serializedKeyLen + 4

	// MaxExtendedKeyStringLen is the longest base58 encoding of an extended
	// key.  Buffers of this size always fit a serialized key.
	MaxExtendedKeyStringLen = 112
)

// marshal encodes the node in the standard binary format.
//
// The serialized format is:
//
//	version (4) || depth (1) || parent fingerprint (4) ||
//	child num (4) || chain code (32) || key data (33) || checksum (4)
//
// where key data is 0x00 || ser256(k) for private keys and serP(K) for public
// keys.
func (n *HDNode) marshal(fingerprint uint32, version KeyVersion,
	private bool) ([extendedKeyLen]byte, error) {

	var b [extendedKeyLen]byte
	binary.BigEndian.PutUint32(b[0:4], uint32(version))
	b[4] = n.Depth
	binary.BigEndian.PutUint32(b[5:9], fingerprint)
	binary.BigEndian.PutUint32(b[9:13], n.ChildNum)
	copy(b[13:45], n.ChainCode[:])

	if private {
		if !n.hasPrivate {
			str := "cannot serialize a public node as a private key"
			return b, makeError(hdcrypto.ErrMissingPrivateKey, str)
		}
		copy(b[46:78], n.PrivateKey[:])
	} else {
		pub, err := n.pubKey()
		if err != nil {
			return b, err
		}
		copy(b[45:78], pub[:])
	}

	checkSum := chainhash.DoubleHashB(b[:serializedKeyLen])
	copy(b[serializedKeyLen:], checkSum[:4])
	return b, nil
}

func (n *HDNode) serialize(fingerprint uint32, version KeyVersion,
	private bool) (string, error) {

	b, err := n.marshal(fingerprint, version, private)
	if err != nil {
		return "", err
	}
	str := base58.Encode(b[:])
	b = [extendedKeyLen]byte{}
	return str, nil
}

func (n *HDNode) serializeTo(fingerprint uint32, version KeyVersion,
	private bool, buf []byte) (int, error) {

	str, err := n.serialize(fingerprint, version, private)
	if err != nil {
		return 0, err
	}
	if len(str) > len(buf) {
		desc := fmt.Sprintf("extended key needs %d bytes, buffer holds %d",
			len(str), len(buf))
		return 0, makeError(hdcrypto.ErrSerializationBufferTooSmall, desc)
	}
	return copy(buf, str), nil
}

// SerializePrivate returns the Base58Check encoding of the private extended
// key of the node.  The fingerprint is the one of the parent node, zero for a
// master node.
func (n *HDNode) SerializePrivate(fingerprint uint32,
	version KeyVersion) (string, error) {

	return n.serialize(fingerprint, version, true)
}

// SerializePublic returns the Base58Check encoding of the public extended key
// of the node.
func (n *HDNode) SerializePublic(fingerprint uint32,
	version KeyVersion) (string, error) {

	return n.serialize(fingerprint, version, false)
}

// SerializePrivateTo writes the private extended key into buf and returns the
// number of bytes written.  Nothing is written when buf is too small.
func (n *HDNode) SerializePrivateTo(fingerprint uint32, version KeyVersion,
	buf []byte) (int, error) {

	return n.serializeTo(fingerprint, version, true, buf)
}

// SerializePublicTo writes the public extended key into buf and returns the
// number of bytes written.  Nothing is written when buf is too small.
func (n *HDNode) SerializePublicTo(fingerprint uint32, version KeyVersion,
	buf []byte) (int, error) {

	return n.serializeTo(fingerprint, version, false, buf)
}

// decodeExtendedKey decodes the Base58Check text and checks its framing.
func decodeExtendedKey(str string) ([]byte, error) {
	data := base58.Decode(str)
	if len(data) == 0 {
		str := "extended key is empty or not valid base58"
		return nil, makeError(hdcrypto.ErrBase58Decode, str)
	}
	if len(data) != extendedKeyLen {
		str := fmt.Sprintf("extended key is %d bytes, expected %d",
			len(data), extendedKeyLen)
		return nil, makeError(hdcrypto.ErrDeserializationLengthMismatch, str)
	}

	// Split the payload and checksum up and ensure the checksum matches.
	payload := data[:serializedKeyLen]
	checkSum := data[serializedKeyLen:]
	expectedCheckSum := chainhash.DoubleHashB(payload)[:4]
	if !bytes.Equal(checkSum, expectedCheckSum) {
		return nil, makeError(hdcrypto.ErrDeserializationChecksumMismatch,
			"bad extended key checksum")
	}
	return data, nil
}

// unmarshal builds a node from a decoded extended key.
func unmarshal(data []byte, curveName string, private bool) (*HDNode,
	uint32, error) {

	curve, err := CurveByName(curveName)
	if err != nil {
		return nil, 0, err
	}

	n := &HDNode{
		Depth:    data[4],
		ChildNum: binary.BigEndian.Uint32(data[9:13]),
		curve:    curve,
	}
	fingerprint := binary.BigEndian.Uint32(data[5:9])
	copy(n.ChainCode[:], data[13:45])
	keyData := data[45:78]

	if private {
		// The key data is a private key if it starts with 0x00.
		if keyData[0] != 0x00 {
			str := fmt.Sprintf("private key data starts with %#02x",
				keyData[0])
			return nil, 0, makeError(hdcrypto.ErrInvalidPrivateKey, str)
		}
		copy(n.PrivateKey[:], keyData[1:])
		if err := curve.checkPrivateKey(&n.PrivateKey); err != nil {
			n.Zero()
			return nil, 0, err
		}
		n.hasPrivate = true
		return n, fingerprint, nil
	}

	copy(n.PublicKey[:], keyData)
	if err := checkPublicKeyFormat(curve, &n.PublicKey); err != nil {
		return nil, 0, err
	}
	// Ensure the public key is actually on the curve.
	if err := curve.checkPublicKey(&n.PublicKey); err != nil {
		return nil, 0, err
	}
	n.hasPublic = true
	return n, fingerprint, nil
}

func deserialize(str string, version KeyVersion, curveName string,
	private bool) (*HDNode, uint32, error) {

	data, err := decodeExtendedKey(str)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		for i := range data {
			data[i] = 0
		}
	}()

	got := KeyVersion(binary.BigEndian.Uint32(data[:4]))
	if got != version {
		str := fmt.Sprintf("extended key version %#08x, expected %#08x",
			uint32(got), uint32(version))
		return nil, 0, makeError(hdcrypto.ErrDeserializationVersionMismatch, str)
	}
	return unmarshal(data, curveName, private)
}

// DeserializePrivate decodes a private extended key with the given version
// into a node on the named curve.  The fingerprint of the parent is returned
// along with the node.
func DeserializePrivate(str string, version KeyVersion,
	curveName string) (*HDNode, uint32, error) {

	return deserialize(str, version, curveName, true)
}

// DeserializePublic decodes a public extended key with the given version into
// a node on the named curve.  The private key of the node is all zeros.
//
// Unlike the other fields the public key is not taken on trust: it is
// decompressed once, which costs a modular square root, and rejected with
// ErrInvalidPublicKeyEncoding when it is not a point on the curve.  Use
// NewPublicNode to defer that check to the first derivation.
func DeserializePublic(str string, version KeyVersion,
	curveName string) (*HDNode, uint32, error) {

	return deserialize(str, version, curveName, false)
}

// ParseExtendedKey decodes an extended key carrying any of the known Bitcoin
// versions, private or public, and returns the node, the parent fingerprint
// and the version found.
func ParseExtendedKey(str string, curveName string) (*HDNode, uint32,
	KeyVersion, error) {

	data, err := decodeExtendedKey(str)
	if err != nil {
		return nil, 0, 0, err
	}

	version := KeyVersion(binary.BigEndian.Uint32(data[:4]))
	switch version {
	case BitcoinMainnetPrivate, BitcoinTestnetPrivate,
		BitcoinMainnetPublic, BitcoinTestnetPublic:
	default:
		str := fmt.Sprintf("unknown extended key version %#08x",
			uint32(version))
		return nil, 0, 0, makeError(hdcrypto.ErrDeserializationVersionMismatch, str)
	}

	n, fingerprint, err := unmarshal(data, curveName, version.IsPrivate())
	if err != nil {
		return nil, 0, 0, err
	}
	return n, fingerprint, version, nil
}
