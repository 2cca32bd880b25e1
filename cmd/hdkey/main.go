package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ModChain/hdcrypto/ecckd"
	"github.com/btcsuite/btclog"
	"github.com/urfave/cli"
)

const defaultCurve = ecckd.Secp256k1Name

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[hdkey] %v\n", err)
	os.Exit(1)
}

func printJSON(resp interface{}) {
	b, err := json.MarshalIndent(resp, "", "    ")
	if err != nil {
		fatal(err)
	}
	fmt.Printf("%s\n", b)
}

// setupLogging routes the derivation logs to stderr at the requested level.
func setupLogging(ctx *cli.Context) error {
	level, ok := btclog.LevelFromString(ctx.GlobalString("debuglevel"))
	if !ok {
		return fmt.Errorf("invalid debug level %q",
			ctx.GlobalString("debuglevel"))
	}

	logger := btclog.NewBackend(os.Stderr).Logger("HDKD")
	logger.SetLevel(level)
	ecckd.UseLogger(logger)
	return nil
}

func main() {
	app := cli.NewApp()
	app.Name = "hdkey"
	app.Usage = "derive and inspect hierarchical deterministic keys"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "debuglevel",
			Value: "off",
			Usage: "Logging level for the derivation code " +
				"{trace, debug, info, warn, error, critical, off}.",
		},
	}
	app.Before = setupLogging
	app.Commands = []cli.Command{
		masterCommand,
		deriveCommand,
		neuterCommand,
		inspectCommand,
		formatCommand,
	}

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}
