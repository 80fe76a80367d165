package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ever-guild/debot-harness/browser"
	"github.com/ever-guild/debot-harness/logutils"
	"github.com/ever-guild/debot-harness/metrics"
	"github.com/ever-guild/debot-harness/params"
)

const metricsStopTimeout = 5 * time.Second

// configFromFlags loads --config, or the defaults, and applies the flags
// given on the command line on top. The result is not validated.
func configFromFlags(cCtx *cli.Context) (*params.Config, error) {
	config := params.NewConfig()
	if path := cCtx.String(ConfigFlag); path != "" {
		var err error
		config, err = params.LoadConfigFromFile(path)
		if err != nil {
			return nil, err
		}
	}

	setString := func(flag string, dst *string) {
		if cCtx.IsSet(flag) {
			*dst = cCtx.String(flag)
		}
	}
	setInt := func(flag string, dst *int) {
		if cCtx.IsSet(flag) {
			*dst = cCtx.Int(flag)
		}
	}

	setString(NetworkFlag, &config.Network)
	setString(EndpointFlag, &config.Endpoint)
	setString(ProjectIDFlag, &config.ProjectID)
	setString(TestDebotFlag, &config.TestDebotAddress)
	setString(SendDebotFlag, &config.SendDebotAddress)
	setString(WalletFlag, &config.Wallet)
	setString(TestManifestFlag, &config.TestManifestFile)
	setString(SendManifestFlag, &config.SendManifestFile)
	setString(TransportFlag, &config.Transport)
	setString(RPCURLFlag, &config.RPCURL)
	setString(OutputFlag, &config.Output)
	setString(LogLevelFlag, &config.LogSettings.Level)
	setString(LogFileFlag, &config.LogSettings.File)
	setInt(MetricsPortFlag, &config.MetricsPort)
	setInt(RepeatFlag, &config.RepeatCount)
	setInt(ParallelFlag, &config.ParallelSessions)

	if cCtx.IsSet(ScenariosFlag) {
		config.Scenarios = nil
		for _, s := range cCtx.StringSlice(ScenariosFlag) {
			for _, name := range strings.Split(s, ",") {
				if name = strings.TrimSpace(name); name != "" {
					config.Scenarios = append(config.Scenarios, name)
				}
			}
		}
	}
	if cCtx.IsSet(InitLogFlag) {
		config.CollaboratorLog = cCtx.Bool(InitLogFlag)
	}

	if cCtx.IsSet(SecretKeyFlag) {
		keys, err := browser.KeyPairFromSecret(cCtx.String(SecretKeyFlag))
		if err != nil {
			return nil, err
		}
		config.KeyPair = keys
	}
	setString(PublicKeyFlag, &config.KeyPair.Public)

	return config, nil
}

// logSettingsFromFlags is used by commands that take no config file.
func logSettingsFromFlags(cCtx *cli.Context) logutils.LogSettings {
	settings := logutils.DefaultLogSettings()
	settings.Level = cCtx.String(LogLevelFlag)
	settings.File = cCtx.String(LogFileFlag)
	return settings
}

func flagsUsed(cCtx *cli.Context) string {
	var sb strings.Builder
	for _, flag := range cCtx.Command.Flags {
		if flag != nil && len(flag.Names()) > 0 {
			fName := flag.Names()[0]
			if fName == SecretKeyFlag {
				continue
			}
			fmt.Fprintf(&sb, "\t-%s %v\n", fName, cCtx.Value(fName))
		}
	}
	return sb.String()
}

// instrument wraps b with call metrics and serves them on port. The
// returned func stops the metrics server.
func instrument(b browser.Browser, port int, logger *zap.Logger) (browser.Browser, func() error, error) {
	if port == 0 {
		return b, func() error { return nil }, nil
	}
	registry := prom.NewRegistry()
	m, err := metrics.NewBrowserMetrics(registry)
	if err != nil {
		return nil, nil, err
	}
	server := metrics.NewMetricsServer(port, registry, logger)
	if err := server.Listen(); err != nil {
		return nil, nil, err
	}
	logger.Info("metrics server started", zap.Int("port", port))

	stop := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), metricsStopTimeout)
		defer cancel()
		return server.Stop(ctx)
	}
	return metrics.InstrumentBrowser(b, m), stop, nil
}

// syncLogger flushes logger. Syncing a terminal or a pipe fails with
// EINVAL or ENOTTY, which is not worth reporting.
func syncLogger(logger *zap.Logger) error {
	err := logger.Sync()
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return err
}

// closeAll runs every closer and combines their errors into err.
func closeAll(err *error, closers ...func() error) {
	for _, c := range closers {
		*err = multierr.Append(*err, c())
	}
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
