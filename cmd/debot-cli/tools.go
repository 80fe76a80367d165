package main

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"github.com/ever-guild/debot-harness/browser"
	"github.com/ever-guild/debot-harness/manifest"
)

func sign(cCtx *cli.Context) error {
	if cCtx.NArg() != 1 {
		return cli.Exit("sign takes exactly one message", 1)
	}
	message := []byte(cCtx.Args().First())
	if cCtx.Bool(HexFlag) {
		var err error
		message, err = hexutil.Decode(string(message))
		if err != nil {
			return fmt.Errorf("message is not 0x prefixed hex: %w", err)
		}
	}

	keys := browser.KeyPair{
		Public: cCtx.String(PublicKeyFlag),
		Secret: cCtx.String(SecretKeyFlag),
	}
	res, err := browser.SignWithKeys(keys, message)
	if err != nil {
		return err
	}
	return printJSON(cCtx, res)
}

func keygen(cCtx *cli.Context) error {
	keys, err := browser.GenerateKeyPair()
	if err != nil {
		return err
	}
	return printJSON(cCtx, keys)
}

func validateManifests(cCtx *cli.Context) error {
	if cCtx.NArg() == 0 {
		return cli.Exit("no manifest files given", 1)
	}
	var errs error
	for _, path := range cCtx.Args().Slice() {
		if _, err := manifest.Load(path); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		fmt.Fprintf(cCtx.App.Writer, "%s: ok\n", path)
	}
	return errs
}

func printJSON(cCtx *cli.Context, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cCtx.App.Writer, string(data))
	return err
}
