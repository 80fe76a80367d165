package debot

import (
	"context"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"github.com/ever-guild/debot-harness/browser"
	debotErrors "github.com/ever-guild/debot-harness/errors"
	"github.com/ever-guild/debot-harness/manifest"
)

func NewAPI(s *Service) *API {
	return &API{s: s}
}

// API is class with methods available over RPC.
type API struct {
	s *Service
}

func (api *API) InitLog() error {
	return wireError(api.s.browser.InitLog())
}

func (api *API) Sign(keys browser.KeyPair, unsigned hexutil.Bytes) (*browser.SignResult, error) {
	res, err := api.s.browser.Sign(keys, unsigned)
	return res, wireError(err)
}

// RunDebotBrowser runs a manifest in a throwaway session. Signing boxes
// cannot be passed here since they need a session to be attached to.
func (api *API) RunDebotBrowser(ctx context.Context, endpoint, wallet, pubkey string, m *manifest.Manifest) (json.RawMessage, error) {
	res, err := api.s.browser.RunDebotBrowser(ctx, endpoint, wallet, pubkey, nil, m)
	return res, wireError(err)
}

func (api *API) CreateBrowser(ctx context.Context, endpoint, debotAddr, wallet, pubkey string) (hexutil.Uint64, error) {
	h, err := api.s.browser.CreateBrowser(ctx, endpoint, debotAddr, wallet, pubkey)
	if err != nil {
		return 0, wireError(err)
	}
	api.s.logger.Debug("browser created", zap.Stringer("handle", h))
	return hexutil.Uint64(h), nil
}

func (api *API) RunBrowser(ctx context.Context, h hexutil.Uint64, m *manifest.Manifest) (json.RawMessage, error) {
	res, err := api.s.browser.RunBrowser(ctx, browser.Handle(h), m)
	return res, wireError(err)
}

// RegisterSigningBox registers a box whose key is held by the caller. The
// caller has to subscribe to SigningRequests for the returned handle and
// answer every request with SigningResult.
func (api *API) RegisterSigningBox(ctx context.Context, h hexutil.Uint64, publicKey string) (browser.SigningBoxHandle, error) {
	box := api.s.relay.newBox(publicKey)
	sbox, err := api.s.browser.RegisterSigningBox(ctx, browser.Handle(h), box)
	if err != nil {
		return 0, wireError(err)
	}
	api.s.relay.attach(browser.Handle(h), sbox, box)
	return sbox, nil
}

func (api *API) UpdateUserSettings(ctx context.Context, h hexutil.Uint64, settings browser.UserSettings) error {
	return wireError(api.s.browser.UpdateUserSettings(ctx, browser.Handle(h), settings))
}

func (api *API) CloseSigningBox(ctx context.Context, h hexutil.Uint64, sbox browser.SigningBoxHandle) error {
	if err := api.s.browser.CloseSigningBox(ctx, browser.Handle(h), sbox); err != nil {
		return wireError(err)
	}
	api.s.relay.detach(browser.Handle(h), sbox)
	return nil
}

func (api *API) DestroyBrowser(ctx context.Context, h hexutil.Uint64) error {
	if err := api.s.browser.DestroyBrowser(ctx, browser.Handle(h)); err != nil {
		return wireError(err)
	}
	api.s.relay.detachSession(browser.Handle(h))
	return nil
}

// SigningRequests streams the sign requests of one remote signing box. The
// subscription ends when the box is closed or its session destroyed.
func (api *API) SigningRequests(ctx context.Context, h hexutil.Uint64, sbox browser.SigningBoxHandle) (*gethrpc.Subscription, error) {
	notifier, supported := gethrpc.NotifierFromContext(ctx)
	if !supported {
		return nil, gethrpc.ErrNotificationsUnsupported
	}
	box, err := api.s.relay.box(browser.Handle(h), sbox)
	if err != nil {
		return nil, wireError(err)
	}

	rpcSub := notifier.CreateSubscription()
	go func() {
		for {
			select {
			case req := <-box.requests:
				if err := notifier.Notify(rpcSub.ID, req); err != nil {
					api.s.logger.Warn("failed to forward signing request", zap.String("id", req.ID), zap.Error(err))
					_ = api.s.relay.resolve(req.ID, signingResult{err: debotErrors.New(debotErrors.ErrorCodeSigningFailed, err.Error())})
				}
			case <-box.closed:
				return
			case <-rpcSub.Err():
				return
			}
		}
	}()
	return rpcSub, nil
}

// SigningResult answers a signing request. A non-empty errMsg fails it.
func (api *API) SigningResult(id string, signature string, errMsg string) error {
	res := signingResult{signature: signature}
	if errMsg != "" {
		res.err = debotErrors.New(debotErrors.ErrorCodeSigningFailed, errMsg)
	}
	return wireError(api.s.relay.resolve(id, res))
}

// wireError makes sure the error reaching the client carries a code.
func wireError(err error) error {
	return debotErrors.CreateErrorResponseFromError(err)
}
