package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ModChain/hdcrypto/bignum"
	"github.com/ModChain/hdcrypto/ecckd"
	"github.com/tyler-smith/go-bip39"
	"github.com/urfave/cli"
	"golang.org/x/sync/errgroup"
)

var curveFlag = cli.StringFlag{
	Name: "curve",
	Usage: "The curve the key belongs to: secp256k1, nist256p1, " +
		"ed25519 or curve25519.",
	Value: defaultCurve,
}

// extendedKey is the printable form of a node.
type extendedKey struct {
	Path     string `json:"path,omitempty"`
	Depth    uint8  `json:"depth"`
	ChildNum uint32 `json:"child_num"`
	Parent   string `json:"parent_fingerprint"`
	Private  string `json:"xprv,omitempty"`
	Public   string `json:"xpub"`
}

// keyVersions returns the private and public versions of the network.
func keyVersions(testnet bool) (ecckd.KeyVersion, ecckd.KeyVersion) {
	if testnet {
		return ecckd.BitcoinTestnetPrivate, ecckd.BitcoinTestnetPublic
	}
	return ecckd.BitcoinMainnetPrivate, ecckd.BitcoinMainnetPublic
}

func newExtendedKey(node *ecckd.HDNode, fingerprint uint32,
	privVersion, pubVersion ecckd.KeyVersion) (*extendedKey, error) {

	key := &extendedKey{
		Depth:    node.Depth,
		ChildNum: node.ChildNum,
		Parent:   fmt.Sprintf("%08x", fingerprint),
	}

	var err error
	if node.IsPrivate() {
		key.Private, err = node.SerializePrivate(fingerprint, privVersion)
		if err != nil {
			return nil, err
		}
	}
	key.Public, err = node.SerializePublic(fingerprint, pubVersion)
	if err != nil {
		return nil, err
	}
	return key, nil
}

var masterCommand = cli.Command{
	Name:      "master",
	Usage:     "Create a master key from a seed or a mnemonic.",
	ArgsUsage: "[--seed=] [--mnemonic=]",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "seed",
			Usage: "The hex encoded seed, 16 to 64 bytes.",
		},
		cli.StringFlag{
			Name:  "mnemonic",
			Usage: "A BIP0039 mnemonic used to generate the seed.",
		},
		cli.StringFlag{
			Name:  "passphrase",
			Usage: "The optional BIP0039 passphrase of the mnemonic.",
		},
		curveFlag,
		cli.BoolFlag{
			Name:  "testnet",
			Usage: "Encode the keys with the testnet versions.",
		},
	},
	Action: master,
}

func master(ctx *cli.Context) error {
	var (
		seed []byte
		err  error
	)
	switch {
	case ctx.IsSet("seed") && ctx.IsSet("mnemonic"):
		return errors.New("only one of --seed and --mnemonic may be set")

	case ctx.IsSet("seed"):
		seed, err = hex.DecodeString(ctx.String("seed"))
		if err != nil {
			return fmt.Errorf("unable to decode seed: %w", err)
		}

	case ctx.IsSet("mnemonic"):
		seed, err = bip39.NewSeedWithErrorChecking(
			ctx.String("mnemonic"), ctx.String("passphrase"),
		)
		if err != nil {
			return fmt.Errorf("invalid mnemonic: %w", err)
		}

	default:
		_ = cli.ShowCommandHelp(ctx, "master")
		return nil
	}

	if len(seed) < 16 || len(seed) > 64 {
		return fmt.Errorf("seed must be 16 to 64 bytes, got %d", len(seed))
	}

	node, err := ecckd.FromSeed(seed, ctx.String("curve"))
	if err != nil {
		return err
	}
	defer node.Zero()

	privVersion, pubVersion := keyVersions(ctx.Bool("testnet"))
	key, err := newExtendedKey(node, 0, privVersion, pubVersion)
	if err != nil {
		return err
	}
	key.Path = ecckd.FormatPath(nil)
	printJSON(key)
	return nil
}

var deriveCommand = cli.Command{
	Name:      "derive",
	Usage:     "Derive child keys of an extended key.",
	ArgsUsage: "key --path=m/0 [--path=m/1 ...]",
	Description: `
	Derive the keys at one or more paths relative to the given extended
	key.  Paths are derived concurrently and share the derivation of their
	common parents.

	hdkey derive xprv... --path "m/44'/0'/0'/0/0" --path "m/44'/0'/0'/0/1"
	`,
	Flags: []cli.Flag{
		cli.StringSliceFlag{
			Name:  "path",
			Usage: "A derivation path, may be given multiple times.",
		},
		curveFlag,
		cli.Uint64Flag{
			Name:  "cache_size",
			Usage: "The number of parent keys kept while deriving.",
			Value: ecckd.DefaultDeriveCacheSize,
		},
		cli.IntFlag{
			Name:  "workers",
			Usage: "The maximum number of paths derived at once.",
			Value: 4,
		},
	},
	Action: derive,
}

func derive(ctx *cli.Context) error {
	if ctx.NArg() != 1 || len(ctx.StringSlice("path")) == 0 {
		_ = cli.ShowCommandHelp(ctx, "derive")
		return nil
	}

	root, rootFingerprint, version, err := ecckd.ParseExtendedKey(
		ctx.Args().First(), ctx.String("curve"),
	)
	if err != nil {
		return err
	}
	defer root.Zero()
	privVersion, pubVersion := version, version.ToPublic()

	paths := ctx.StringSlice("path")
	indices := make([][]uint32, len(paths))
	for i, path := range paths {
		indices[i], err = ecckd.ParsePath(path)
		if err != nil {
			return err
		}
	}

	cache := ecckd.NewDeriveCache(ctx.Uint64("cache_size"))
	keys := make([]*extendedKey, len(paths))

	var g errgroup.Group
	g.SetLimit(ctx.Int("workers"))
	for i := range indices {
		i := i
		g.Go(func() error {
			key, err := deriveExtendedKey(cache, root, rootFingerprint,
				indices[i], privVersion, pubVersion)
			if err != nil {
				return fmt.Errorf("%s: %w", paths[i], err)
			}
			keys[i] = key
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	printJSON(keys)
	return nil
}

// deriveExtendedKey derives the key at path relative to root.  The
// fingerprint of the parent of root is needed when path is empty.
func deriveExtendedKey(cache *ecckd.DeriveCache, root *ecckd.HDNode,
	rootFingerprint uint32, path []uint32, privVersion,
	pubVersion ecckd.KeyVersion) (*extendedKey, error) {

	node, fingerprint, err := cache.Derive(root, path)
	if err != nil {
		return nil, err
	}
	defer node.Zero()

	// The empty path is the root itself, whose parent is only known from
	// the parsed key.
	if len(path) == 0 {
		fingerprint = rootFingerprint
	}

	key, err := newExtendedKey(node, fingerprint, privVersion, pubVersion)
	if err != nil {
		return nil, err
	}
	key.Path = ecckd.FormatPath(path)
	return key, nil
}

var neuterCommand = cli.Command{
	Name:      "neuter",
	Usage:     "Print the public extended key of a private extended key.",
	ArgsUsage: "xprv",
	Flags:     []cli.Flag{curveFlag},
	Action:    neuter,
}

func neuter(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		_ = cli.ShowCommandHelp(ctx, "neuter")
		return nil
	}

	node, fingerprint, version, err := ecckd.ParseExtendedKey(
		ctx.Args().First(), ctx.String("curve"),
	)
	if err != nil {
		return err
	}
	defer node.Zero()

	pub, err := node.Neuter()
	if err != nil {
		return err
	}
	str, err := pub.SerializePublic(fingerprint, version.ToPublic())
	if err != nil {
		return err
	}
	fmt.Println(str)
	return nil
}

var inspectCommand = cli.Command{
	Name:      "inspect",
	Usage:     "Decode an extended key and print its fields.",
	ArgsUsage: "key",
	Flags:     []cli.Flag{curveFlag},
	Action:    inspect,
}

func inspect(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		_ = cli.ShowCommandHelp(ctx, "inspect")
		return nil
	}

	node, fingerprint, version, err := ecckd.ParseExtendedKey(
		ctx.Args().First(), ctx.String("curve"),
	)
	if err != nil {
		return err
	}
	defer node.Zero()

	if err := node.FillPublicKey(); err != nil {
		return err
	}

	printJSON(struct {
		Version     string `json:"version"`
		Private     bool   `json:"private"`
		Depth       uint8  `json:"depth"`
		Parent      string `json:"parent_fingerprint"`
		Fingerprint string `json:"fingerprint"`
		Child       string `json:"child"`
		ChainCode   string `json:"chain_code"`
		PublicKey   string `json:"public_key"`
	}{
		Version:     fmt.Sprintf("%08x", uint32(version)),
		Private:     node.IsPrivate(),
		Depth:       node.Depth,
		Parent:      fmt.Sprintf("%08x", fingerprint),
		Fingerprint: fmt.Sprintf("%08x", node.Fingerprint()),
		Child:       strings.TrimPrefix(ecckd.FormatPath([]uint32{node.ChildNum}), "m/"),
		ChainCode:   hex.EncodeToString(node.ChainCode[:]),
		PublicKey:   hex.EncodeToString(node.PublicKey[:]),
	})
	return nil
}

var formatCommand = cli.Command{
	Name:      "format",
	Usage:     "Format a 256-bit hex integer as a decimal amount.",
	ArgsUsage: "hex",
	Flags: []cli.Flag{
		cli.UintFlag{
			Name:  "decimals",
			Usage: "The number of fractional digits.",
		},
		cli.BoolFlag{
			Name:  "fixed",
			Usage: "Always print every fractional digit.",
		},
		cli.BoolFlag{
			Name:  "trailing_zeros",
			Usage: "Keep the trailing zeros of the fractional part.",
		},
		cli.StringFlag{
			Name:  "prefix",
			Usage: "Text printed before the number.",
		},
		cli.StringFlag{
			Name:  "suffix",
			Usage: "Text printed after the number.",
		},
		cli.StringFlag{
			Name:  "thousands",
			Usage: "A single character separating groups of digits.",
		},
	},
	Action: format,
}

func format(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		_ = cli.ShowCommandHelp(ctx, "format")
		return nil
	}

	x, err := bignum.FromHex(ctx.Args().First())
	if err != nil {
		return err
	}

	opts := &bignum.FormatOptions{
		Prefix:        ctx.String("prefix"),
		Suffix:        ctx.String("suffix"),
		Decimals:      ctx.Uint("decimals"),
		FixedPoint:    ctx.Bool("fixed"),
		TrailingZeros: ctx.Bool("trailing_zeros"),
	}
	switch sep := ctx.String("thousands"); len(sep) {
	case 0:
	case 1:
		opts.ThousandsSep = sep[0]
	default:
		return fmt.Errorf("thousands separator must be one byte, got %q",
			sep)
	}

	str, err := x.FormatString(opts)
	if err != nil {
		return err
	}
	fmt.Println(str)
	return nil
}
