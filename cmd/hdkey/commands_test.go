package main

import (
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/ModChain/hdcrypto/ecckd"
	"github.com/stretchr/testify/require"
)

func TestNewExtendedKey(t *testing.T) {
	seed, err := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	require.NoError(t, err)
	master, err := ecckd.FromSeed(seed, defaultCurve)
	require.NoError(t, err)

	privVersion, pubVersion := keyVersions(false)
	key, err := newExtendedKey(master, 0, privVersion, pubVersion)
	require.NoError(t, err)
	require.Equal(t, "00000000", key.Parent)
	require.Equal(t, "xprv9s21ZrQH143K3QTDL4LXw2F7HEK3wJUD2nW2nRk4stbPy6cq3jPPqjiChkVvvNKmPGJxWUtg6LnF5kejMRNNU3TGtRBeJgk33yuGBxrMPHi",
		key.Private)
	require.Equal(t, "xpub661MyMwAqRbcFtXgS5sYJABqqG9YLmC4Q1Rdap9gSE8NqtwybGhePY2gZ29ESFjqJoCu1Rupje8YtGqsefD265TMg7usUDFdp6W1EGMcet8",
		key.Public)

	pub, err := master.Neuter()
	require.NoError(t, err)
	key, err = newExtendedKey(pub, 0, privVersion, pubVersion)
	require.NoError(t, err)
	require.Empty(t, key.Private)

	privVersion, pubVersion = keyVersions(true)
	require.Equal(t, ecckd.BitcoinTestnetPrivate, privVersion)
	require.Equal(t, ecckd.BitcoinTestnetPublic, pubVersion)
}

// TestDeriveExtendedKeyRoot ensures deriving the empty path from a non-master
// key gives back the key it was parsed from.
func TestDeriveExtendedKeyRoot(t *testing.T) {
	const child = "xpub6H1LXWLaKsWFhvm6RVpEL9P4KfRZSW7abD2ttkWP3SSQvnyA8FSVqNTEcYFgJS2UaFcxupHiYkro49S8yGasTvXEYBVPamhGW6cFJodrTHy"

	root, fingerprint, version, err := ecckd.ParseExtendedKey(child,
		defaultCurve)
	require.NoError(t, err)
	require.NotZero(t, fingerprint)

	cache := ecckd.NewDeriveCache(ecckd.DefaultDeriveCacheSize)
	path, err := ecckd.ParsePath("m")
	require.NoError(t, err)
	key, err := deriveExtendedKey(cache, root, fingerprint, path, version,
		version.ToPublic())
	require.NoError(t, err)
	require.Equal(t, child, key.Public)
	require.Equal(t, "m", key.Path)
	require.Equal(t, "d880d7d8", key.Parent)

	// Children record root as their parent instead.
	path, err = ecckd.ParsePath("m/0")
	require.NoError(t, err)
	key, err = deriveExtendedKey(cache, root, fingerprint, path, version,
		version.ToPublic())
	require.NoError(t, err)
	require.Equal(t, fmt.Sprintf("%08x", root.Fingerprint()), key.Parent)
}
