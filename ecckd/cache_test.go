package ecckd

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/btcsuite/btclog"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestDeriveCacheEquivalence ensures that deriving through the cache gives
// the same nodes and parent fingerprints as deriving step by step.
func TestDeriveCacheEquivalence(t *testing.T) {
	seed := hexToBytes("000102030405060708090a0b0c0d0e0f")
	c := NewDeriveCache(8)

	rapid.Check(t, func(t *rapid.T) {
		curve := rapid.SampledFrom([]string{
			Secp256k1Name, NIST256P1Name,
		}).Draw(t, "curve")
		path := rapid.SliceOfN(rapid.SampledFrom([]uint32{
			0, 1, 2, HardenedKeyStart, HardenedKeyStart + 1,
		}), 0, 9).Draw(t, "path")

		root, err := FromSeed(seed, curve)
		if err != nil {
			t.Fatalf("FromSeed: %v", err)
		}

		want, err := root.Derive(path)
		if err != nil {
			t.Fatalf("Derive: %v", err)
		}
		var wantFP uint32
		if len(path) > 0 {
			parent, err := root.Derive(path[:len(path)-1])
			if err != nil {
				t.Fatalf("Derive parent: %v", err)
			}
			wantFP = parent.Fingerprint()
		}

		// Derive twice so the second lookup is served from the cache.
		for i := 0; i < 2; i++ {
			got, fp, err := c.Derive(root, path)
			if err != nil {
				t.Fatalf("cache Derive: %v", err)
			}
			if fp != wantFP {
				t.Fatalf("fingerprint %08x, want %08x", fp, wantFP)
			}
			if got.Depth != want.Depth || got.ChildNum != want.ChildNum ||
				got.ChainCode != want.ChainCode ||
				got.PrivateKey != want.PrivateKey {

				t.Fatalf("cached node mismatch for %s", FormatPath(path))
			}
		}
	})
}

// TestDeriveCachePublicRoot ensures a public root derives public children
// through the cache and that hardened steps fail.
func TestDeriveCachePublicRoot(t *testing.T) {
	master, err := FromSeed(hexToBytes("000102030405060708090a0b0c0d0e0f"),
		Secp256k1Name)
	require.NoError(t, err)
	account, err := master.Derive([]uint32{HardenedKeyStart, 1})
	require.NoError(t, err)
	root, err := account.Neuter()
	require.NoError(t, err)

	c := NewDeriveCache(DefaultDeriveCacheSize)
	for i := uint32(0); i < 4; i++ {
		path := []uint32{0, i}
		got, fp, err := c.Derive(root, path)
		require.NoError(t, err)
		require.False(t, got.IsPrivate())

		want, err := account.Derive(path)
		require.NoError(t, err)
		require.NoError(t, want.FillPublicKey())
		require.Equal(t, want.PublicKey, got.PublicKey)
		require.Equal(t, want.ChainCode, got.ChainCode)

		parent, err := root.PublicCKD(0)
		require.NoError(t, err)
		require.Equal(t, parent.Fingerprint(), fp)
	}

	// Every path shares the parent m/0 of the public root.
	require.Equal(t, 1, c.Len())

	_, _, err = c.Derive(root, []uint32{0, HardenedKeyStart})
	require.Error(t, err)

	// The private and public roots are distinct cache entries.
	_, _, err = c.Derive(account, []uint32{0, 0})
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	got, fp, err := c.Derive(root, nil)
	require.NoError(t, err)
	require.Zero(t, fp)
	require.Equal(t, root, got)
	require.NotSame(t, root, got)
}

// TestDeriveCacheEviction ensures the cache never holds more parents than its
// capacity.
func TestDeriveCacheEviction(t *testing.T) {
	master, err := FromSeed(hexToBytes("000102030405060708090a0b0c0d0e0f"),
		NIST256P1Name)
	require.NoError(t, err)

	c := NewDeriveCache(2)
	for i := uint32(0); i < 5; i++ {
		_, _, err := c.Derive(master, []uint32{i, 0})
		require.NoError(t, err)
	}
	require.Equal(t, 2, c.Len())
}

// TestDeriveCacheConcurrent ensures concurrent lookups on a shared cache agree
// with sequential derivation.
func TestDeriveCacheConcurrent(t *testing.T) {
	master, err := FromSeed(hexToBytes("000102030405060708090a0b0c0d0e0f"),
		Secp256k1Name)
	require.NoError(t, err)

	const numAddrs = 16
	want := make([]*HDNode, numAddrs)
	for i := range want {
		want[i], err = master.Derive([]uint32{HardenedKeyStart, 0, uint32(i)})
		require.NoError(t, err)
	}

	c := NewDeriveCache(DefaultDeriveCacheSize)
	got := make([]*HDNode, numAddrs)
	var wg sync.WaitGroup
	for i := 0; i < numAddrs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			node, _, err := c.Derive(master,
				[]uint32{HardenedKeyStart, 0, uint32(i)})
			if err == nil {
				got[i] = node
			}
		}(i)
	}
	wg.Wait()

	for i := range want {
		require.NotNil(t, got[i])
		require.Equal(t, want[i].PrivateKey, got[i].PrivateKey)
		require.Equal(t, want[i].ChainCode, got[i].ChainCode)
	}
}

// TestDeriveCacheLogging ensures cache hits and misses are traced.
func TestDeriveCacheLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := btclog.NewBackend(&buf).Logger("HDKD")
	logger.SetLevel(btclog.LevelTrace)
	UseLogger(logger)
	defer DisableLog()

	master, err := FromSeed(hexToBytes("000102030405060708090a0b0c0d0e0f"),
		Secp256k1Name)
	require.NoError(t, err)

	c := NewDeriveCache(DefaultDeriveCacheSize)
	for i := uint32(0); i < 2; i++ {
		_, _, err := c.Derive(master, []uint32{HardenedKeyStart, i})
		require.NoError(t, err)
	}

	out := buf.String()
	require.Equal(t, 1, strings.Count(out, "Derive cache miss for m/0'"))
	require.Equal(t, 1, strings.Count(out, "Derive cache hit for m/0'"))
}
