// Package debot serves a browser.Browser over JSON-RPC under the "debot"
// namespace.
package debot

import (
	"net/http"
	"strings"

	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"github.com/ever-guild/debot-harness/browser"
)

// Namespace of the RPC methods.
const Namespace = "debot"

// Service exposes a browser to remote callers.
type Service struct {
	browser browser.Browser
	relay   *signingRelay
	logger  *zap.Logger
	api     *API
}

// New returns a new Service.
func New(b browser.Browser, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		browser: b,
		relay:   newSigningRelay(DefaultSigningTimeout),
		logger:  logger.Named("debot"),
	}
	s.api = NewAPI(s)
	return s
}

// APIs returns a list of new APIs.
func (s *Service) APIs() []gethrpc.API {
	return []gethrpc.API{
		{
			Namespace: Namespace,
			Service:   s.api,
		},
	}
}

// NewServer registers the service APIs on a fresh RPC server.
func (s *Service) NewServer() (*gethrpc.Server, error) {
	server := gethrpc.NewServer()
	for _, api := range s.APIs() {
		if err := server.RegisterName(api.Namespace, api.Service); err != nil {
			server.Stop()
			return nil, err
		}
	}
	return server, nil
}

// Handler serves websocket upgrades and falls back to plain HTTP. Signing
// boxes need the websocket side.
func Handler(server *gethrpc.Server, allowedOrigins []string) http.Handler {
	ws := server.WebsocketHandler(allowedOrigins)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isWebsocket(r) {
			ws.ServeHTTP(w, r)
			return
		}
		server.ServeHTTP(w, r)
	})
}

func isWebsocket(r *http.Request) bool {
	return headerContains(r.Header, "Connection", "upgrade") && headerContains(r.Header, "Upgrade", "websocket")
}

func headerContains(h http.Header, key, value string) bool {
	for _, v := range h.Values(key) {
		for _, part := range strings.Split(v, ",") {
			if strings.EqualFold(strings.TrimSpace(part), value) {
				return true
			}
		}
	}
	return false
}
