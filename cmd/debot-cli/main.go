package main

import (
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ever-guild/debot-harness/params"
)

const (
	ConfigFlag         = "config"
	NetworkFlag        = "network"
	EndpointFlag       = "endpoint"
	ProjectIDFlag      = "project-id"
	TestDebotFlag      = "test-debot"
	SendDebotFlag      = "send-debot"
	WalletFlag         = "wallet"
	PublicKeyFlag      = "public-key"
	SecretKeyFlag      = "secret-key"
	ScenariosFlag      = "scenarios"
	TestManifestFlag   = "test-manifest"
	SendManifestFlag   = "send-manifest"
	TransportFlag      = "transport"
	RPCURLFlag         = "rpc-url"
	MetricsPortFlag    = "metrics-port"
	RepeatFlag         = "repeat"
	ParallelFlag       = "parallel"
	InitLogFlag        = "init-log"
	LogLevelFlag       = "log-level"
	LogFileFlag        = "log-file"
	PortFlag           = "port"
	HostFlag           = "host"
	AllowedOriginsFlag = "allowed-origins"
	HexFlag            = "hex"
	OutputFlag         = "output"
)

// Flags keep parse state, so every command gets its own instances.

func logFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  LogLevelFlag,
			Usage: "Log level: ERROR, WARN, INFO or DEBUG",
			Value: "INFO",
		},
		&cli.StringFlag{
			Name:  LogFileFlag,
			Usage: "Also write JSON logs to this file, rotated by size",
		},
	}
}

func debotFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  TestDebotFlag,
			Usage: "Address of the invoke-test DeBot",
			Value: params.DefaultTestDebotAddress,
		},
		&cli.StringFlag{
			Name:  SendDebotFlag,
			Usage: "Address of the send DeBot",
			Value: params.DefaultSendDebotAddress,
		},
		&cli.IntFlag{
			Name:  MetricsPortFlag,
			Usage: "Serve prometheus metrics on this port, 0 disables",
		},
	}
}

func runFlags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    ConfigFlag,
			Aliases: []string{"c"},
			Usage:   "JSON config file, comments allowed",
		},
		&cli.StringFlag{
			Name:  NetworkFlag,
			Usage: "Network name or url",
			Value: params.DefaultNetwork,
		},
		&cli.StringFlag{
			Name:  EndpointFlag,
			Usage: "Endpoint passed to the browser, overrides --network and --project-id",
		},
		&cli.StringFlag{
			Name:  ProjectIDFlag,
			Usage: "Evercloud project id",
			Value: params.DefaultProjectID,
		},
		&cli.StringFlag{
			Name:  WalletFlag,
			Usage: "User wallet address",
			Value: params.DefaultWallet,
		},
		&cli.StringFlag{
			Name:  PublicKeyFlag,
			Usage: "Hex ed25519 public key of the wallet",
		},
		&cli.StringFlag{
			Name:  SecretKeyFlag,
			Usage: "Hex ed25519 secret seed of the wallet",
		},
		&cli.StringSliceFlag{
			Name:    ScenariosFlag,
			Aliases: []string{"s"},
			Usage:   "Scenarios to run: single, repeat, parallel, signing (default: all)",
		},
		&cli.StringFlag{
			Name:  TestManifestFlag,
			Usage: "Manifest file replacing the built-in invoke-test manifest",
		},
		&cli.StringFlag{
			Name:  SendManifestFlag,
			Usage: "Manifest file replacing the built-in send manifest",
		},
		&cli.StringFlag{
			Name:  TransportFlag,
			Usage: "Browser to drive: memory or rpc",
			Value: params.TransportMemory,
		},
		&cli.StringFlag{
			Name:  RPCURLFlag,
			Usage: "Debot host url for the rpc transport (http or ws)",
		},
		&cli.IntFlag{
			Name:  RepeatFlag,
			Usage: "Runs per session in the repeat scenario",
			Value: params.DefaultRepeatCount,
		},
		&cli.IntFlag{
			Name:  ParallelFlag,
			Usage: "Sessions created by the parallel scenario",
			Value: params.DefaultParallelSessions,
		},
		&cli.StringFlag{
			Name:    OutputFlag,
			Aliases: []string{"o"},
			Usage:   "Where scenario lines go: stdout, zap (the log and its file) or both",
			Value:   params.OutputStdout,
		},
		&cli.BoolFlag{
			Name:  InitLogFlag,
			Usage: "Turn on the browser's own log before the first scenario",
		},
	}
	flags = append(flags, debotFlags()...)
	return append(flags, logFlags()...)
}

func serveFlags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:  HostFlag,
			Usage: "Listen address",
			Value: "127.0.0.1",
		},
		&cli.IntFlag{
			Name:    PortFlag,
			Aliases: []string{"p"},
			Usage:   "Listen port",
			Value:   8545,
		},
		&cli.StringSliceFlag{
			Name:  AllowedOriginsFlag,
			Usage: "Allowed websocket origins",
			Value: cli.NewStringSlice("*"),
		},
	}
	flags = append(flags, debotFlags()...)
	return append(flags, logFlags()...)
}

func signFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  PublicKeyFlag,
			Usage: "Hex ed25519 public key",
			Value: params.DefaultKeyPair.Public,
		},
		&cli.StringFlag{
			Name:  SecretKeyFlag,
			Usage: "Hex ed25519 secret seed",
			Value: params.DefaultKeyPair.Secret,
		},
		&cli.BoolFlag{
			Name:  HexFlag,
			Usage: "Message is hex encoded",
		},
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "debot-cli",
		Usage:     "Drive a DeBot browser through scripted scenarios",
		Version:   params.Version,
		Writer:    out,
		ErrWriter: os.Stderr,
		Commands: []*cli.Command{
			{
				Name:    "run",
				Aliases: []string{"r"},
				Usage:   "Run the scenarios and print what happened",
				Flags:   runFlags(),
				Action:  run,
			},
			{
				Name:   "serve",
				Usage:  "Serve the offline browser over JSON-RPC (http and websocket)",
				Flags:  serveFlags(),
				Action: serve,
			},
			{
				Name:      "sign",
				Usage:     "Sign a message with an ed25519 key pair",
				ArgsUsage: "<message>",
				Flags:     signFlags(),
				Action:    sign,
			},
			{
				Name:   "keygen",
				Usage:  "Generate an ed25519 key pair",
				Action: keygen,
			},
			{
				Name:  "manifest",
				Usage: "Manifest tools",
				Subcommands: []*cli.Command{
					{
						Name:      "validate",
						Usage:     "Check manifest files against the schema",
						ArgsUsage: "<file>...",
						Action:    validateManifests,
					},
				},
			},
		},
	}
}

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		rawLogger, logErr := zap.NewDevelopment()
		if logErr != nil {
			os.Exit(1)
		}
		rawLogger.Sugar().Fatal(err)
	}
}
