package main

import (
	"context"
	"io"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ever-guild/debot-harness/browser"
	"github.com/ever-guild/debot-harness/browser/sim"
	"github.com/ever-guild/debot-harness/logutils"
	"github.com/ever-guild/debot-harness/params"
	"github.com/ever-guild/debot-harness/rpc"
	"github.com/ever-guild/debot-harness/scenario"
)

func run(cCtx *cli.Context) (err error) {
	config, err := configFromFlags(cCtx)
	if err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return err
	}

	logger, err := logutils.NewLogger(config.LogSettings)
	if err != nil {
		return err
	}
	defer closeAll(&err, func() error { return syncLogger(logger) })
	logger.Sugar().Infof("Running %v command, with:\n%v", cCtx.Command.Name, flagsUsed(cCtx))

	settings, err := scenario.SettingsFromConfig(config)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cCtx.Context)
	defer cancel()

	b, closeBrowser, err := newBrowser(ctx, config, logger)
	if err != nil {
		return err
	}
	b, stopMetrics, err := instrument(b, config.MetricsPort, logger)
	if err != nil {
		return closeOnError(closeBrowser, err)
	}
	defer closeAll(&err, stopMetrics, closeBrowser)

	runner := scenario.NewRunner(b, settings, newAppender(config.Output, cCtx.App.Writer, logger), logger)
	return runner.Run(ctx)
}

// newBrowser returns the browser selected by config.Transport and a func
// releasing it.
func newBrowser(ctx context.Context, config *params.Config, logger *zap.Logger) (browser.Browser, func() error, error) {
	switch config.Transport {
	case params.TransportRPC:
		client, err := rpc.Dial(ctx, config.RPCURL, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("connected to debot host", zap.String("url", config.RPCURL))
		return client, client.Close, nil
	default:
		s := sim.NewWithBuiltins(logger, config.TestDebotAddress, config.SendDebotAddress)
		return s, func() error { return nil }, nil
	}
}

// newAppender builds the surface scenario lines are written to.
func newAppender(output string, w io.Writer, logger *zap.Logger) logutils.Appender {
	switch output {
	case params.OutputZap:
		return logutils.NewZapAppender(logger.Named("output"))
	case params.OutputBoth:
		return logutils.MultiAppender{
			logutils.NewWriterAppender(w),
			logutils.NewZapAppender(logger.Named("output")),
		}
	default:
		return logutils.NewWriterAppender(w)
	}
}

func closeOnError(closer func() error, err error) error {
	closeAll(&err, closer)
	return err
}
