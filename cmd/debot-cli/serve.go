package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ever-guild/debot-harness/browser/sim"
	"github.com/ever-guild/debot-harness/logutils"
	"github.com/ever-guild/debot-harness/params"
	"github.com/ever-guild/debot-harness/services/debot"
)

const shutdownTimeout = 5 * time.Second

func serve(cCtx *cli.Context) (err error) {
	testDebot := cCtx.String(TestDebotFlag)
	sendDebot := cCtx.String(SendDebotFlag)
	validate, err := params.NewValidator()
	if err != nil {
		return err
	}
	if err := validate.Var(testDebot, "tonaddr"); err != nil {
		return cli.Exit("invalid --"+TestDebotFlag+": "+testDebot, 1)
	}
	if err := validate.Var(sendDebot, "tonaddr"); err != nil {
		return cli.Exit("invalid --"+SendDebotFlag+": "+sendDebot, 1)
	}

	logger, err := logutils.NewLogger(logSettingsFromFlags(cCtx))
	if err != nil {
		return err
	}
	logger.Sugar().Infof("Running %v command, with:\n%v", cCtx.Command.Name, flagsUsed(cCtx))

	b, stopMetrics, err := instrument(sim.NewWithBuiltins(logger, testDebot, sendDebot), cCtx.Int(MetricsPortFlag), logger)
	if err != nil {
		return err
	}
	defer closeAll(&err, stopMetrics)

	server, err := debot.New(b, logger).NewServer()
	if err != nil {
		return err
	}
	defer server.Stop()

	addr := net.JoinHostPort(cCtx.String(HostFlag), strconv.Itoa(cCtx.Int(PortFlag)))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Handler:           debot.Handler(server, cCtx.StringSlice(AllowedOriginsFlag)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	served := make(chan error, 1)
	go func() {
		served <- httpServer.Serve(listener)
	}()
	logger.Info("debot host started", zap.String("addr", listener.Addr().String()))

	ctx, cancel := signalContext(cCtx.Context)
	defer cancel()

	select {
	case <-ctx.Done():
	case err := <-served:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	logger.Info("Exiting")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	return httpServer.Shutdown(shutdownCtx)
}
