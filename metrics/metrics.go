package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves /health and /metrics over HTTP.
type Server struct {
	server *http.Server
	logger *zap.Logger
}

func NewMetricsServer(port int, g prom.Gatherer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := Server{logger: logger.Named("metrics")}
	mux := http.NewServeMux()
	mux.Handle("/health", p.healthHandler())
	mux.Handle("/metrics", Handler(g))
	p.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		ReadHeaderTimeout: 5 * time.Second,
		Handler:           mux,
	}
	return &p
}

func (p *Server) healthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := w.Write([]byte("OK"))
		if err != nil {
			p.logger.Error("health handler error", zap.Error(err))
		}
	})
}

func Handler(g prom.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Listen binds the port and serves in the background. Binding errors are
// returned, later serving errors are logged.
func (p *Server) Listen() error {
	l, err := net.Listen("tcp", p.server.Addr)
	if err != nil {
		return err
	}
	go func() {
		if err := p.Serve(l); err != nil {
			p.logger.Error("metrics server failed", zap.Error(err))
			return
		}
		p.logger.Info("metrics server stopped")
	}()
	return nil
}

// Serve serves on l until Stop is called.
func (p *Server) Serve(l net.Listener) error {
	err := p.server.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop shuts the server down gracefully.
func (p *Server) Stop(ctx context.Context) error {
	return p.server.Shutdown(ctx)
}
