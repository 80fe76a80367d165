package rpc

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ever-guild/debot-harness/browser"
	debotErrors "github.com/ever-guild/debot-harness/errors"
	"github.com/ever-guild/debot-harness/manifest"
	"github.com/ever-guild/debot-harness/services/debot"
)

const (
	// DefaultDialTimeout bounds the retries of Dial.
	DefaultDialTimeout = 30 * time.Second
)

type boxKey struct {
	handle browser.Handle
	sbox   browser.SigningBoxHandle
}

// boxServer answers the sign requests of one registered signing box.
type boxServer struct {
	sub  *gethrpc.ClientSubscription
	done chan struct{}
}

// Client is a browser.Browser backed by a remote debot host.
//
// Signing boxes stay local: the host forwards sign requests through a
// subscription and the client posts the signatures back. That needs a
// websocket, IPC or in-process connection.
type Client struct {
	rpc    *gethrpc.Client
	logger *zap.Logger

	boxesMx sync.Mutex
	boxes   map[boxKey]*boxServer
}

var _ browser.Browser = (*Client)(nil)

// DialOption tunes the retry policy of Dial.
type DialOption func(*backoff.ExponentialBackOff)

// Dial connects to a debot host, retrying with exponential backoff until
// DefaultDialTimeout or ctx expire.
func Dial(ctx context.Context, url string, logger *zap.Logger, opts ...DialOption) (*Client, error) {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = DefaultDialTimeout
	for _, opt := range opts {
		opt(b)
	}

	var c *gethrpc.Client
	err := backoff.RetryNotify(func() error {
		var err error
		c, err = gethrpc.DialContext(ctx, url)
		return err
	}, backoff.WithContext(b, ctx), func(err error, next time.Duration) {
		if logger != nil {
			logger.Warn("dial failed", zap.String("url", url), zap.Error(err), zap.Duration("retryIn", next))
		}
	})
	if err != nil {
		return nil, err
	}
	return NewClient(c, logger), nil
}

// NewClient wraps an established connection.
func NewClient(c *gethrpc.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		rpc:    c,
		logger: logger.Named("rpc"),
		boxes:  make(map[boxKey]*boxServer),
	}
}

// CallContext performs a call in the debot namespace and decodes host
// errors back into error responses.
func (c *Client) CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	err := c.rpc.CallContext(ctx, result, debot.Namespace+"_"+method, args...)
	return debotErrors.DecodeErrorResponse(err)
}

func (c *Client) InitLog() error {
	return c.CallContext(context.Background(), nil, "initLog")
}

func (c *Client) Sign(keys browser.KeyPair, unsigned []byte) (*browser.SignResult, error) {
	var res browser.SignResult
	if err := c.CallContext(context.Background(), &res, "sign", keys, hexutil.Bytes(unsigned)); err != nil {
		return nil, err
	}
	return &res, nil
}

// RunDebotBrowser cannot carry a signing box: the host needs a session to
// route sign requests through.
func (c *Client) RunDebotBrowser(ctx context.Context, endpoint, wallet, pubkey string, box browser.SigningBox, m *manifest.Manifest) (browser.Result, error) {
	if box != nil {
		return nil, debotErrors.New(debotErrors.ErrorCodeUnsupported, "signing boxes need a session over rpc, use CreateBrowser")
	}
	var res json.RawMessage
	if err := c.CallContext(ctx, &res, "runDebotBrowser", endpoint, wallet, pubkey, m); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) CreateBrowser(ctx context.Context, endpoint, debotAddr, wallet, pubkey string) (browser.Handle, error) {
	var h hexutil.Uint64
	if err := c.CallContext(ctx, &h, "createBrowser", endpoint, debotAddr, wallet, pubkey); err != nil {
		return 0, err
	}
	return browser.Handle(h), nil
}

func (c *Client) RunBrowser(ctx context.Context, h browser.Handle, m *manifest.Manifest) (browser.Result, error) {
	var res json.RawMessage
	if err := c.CallContext(ctx, &res, "runBrowser", hexutil.Uint64(h), m); err != nil {
		return nil, err
	}
	return res, nil
}

// RegisterSigningBox registers box with the host and starts answering its
// sign requests.
func (c *Client) RegisterSigningBox(ctx context.Context, h browser.Handle, box browser.SigningBox) (browser.SigningBoxHandle, error) {
	publicKey, err := box.PublicKey(ctx)
	if err != nil {
		return 0, err
	}
	var sbox browser.SigningBoxHandle
	if err := c.CallContext(ctx, &sbox, "registerSigningBox", hexutil.Uint64(h), publicKey); err != nil {
		return 0, err
	}

	requests := make(chan debot.SigningRequest)
	sub, err := c.rpc.Subscribe(ctx, debot.Namespace, requests, "signingRequests", hexutil.Uint64(h), sbox)
	if err != nil {
		// the host would otherwise keep a box nobody answers for
		closeErr := c.CallContext(ctx, nil, "closeSigningBox", hexutil.Uint64(h), sbox)
		return 0, multierr.Append(debotErrors.DecodeErrorResponse(err), closeErr)
	}
	server := &boxServer{sub: sub, done: make(chan struct{})}
	c.boxesMx.Lock()
	c.boxes[boxKey{h, sbox}] = server
	c.boxesMx.Unlock()

	go c.serveSigning(box, requests, server)
	return sbox, nil
}

func (c *Client) serveSigning(box browser.SigningBox, requests <-chan debot.SigningRequest, server *boxServer) {
	defer close(server.done)
	for {
		select {
		case req := <-requests:
			signature, err := box.Sign(context.Background(), req.Unsigned)
			errMsg := ""
			if err != nil {
				errMsg = err.Error()
			}
			if err := c.CallContext(context.Background(), nil, "signingResult", req.ID, signature, errMsg); err != nil {
				c.logger.Warn("failed to post signature", zap.String("id", req.ID), zap.Error(err))
			}
		case err := <-server.sub.Err():
			if err != nil {
				c.logger.Warn("signing subscription dropped", zap.Error(err))
			}
			return
		}
	}
}

func (c *Client) stopSigning(match func(boxKey) bool) {
	c.boxesMx.Lock()
	var servers []*boxServer
	for key, server := range c.boxes {
		if match(key) {
			servers = append(servers, server)
			delete(c.boxes, key)
		}
	}
	c.boxesMx.Unlock()

	for _, server := range servers {
		server.sub.Unsubscribe()
		<-server.done
	}
}

func (c *Client) UpdateUserSettings(ctx context.Context, h browser.Handle, s browser.UserSettings) error {
	return c.CallContext(ctx, nil, "updateUserSettings", hexutil.Uint64(h), s)
}

func (c *Client) CloseSigningBox(ctx context.Context, h browser.Handle, sbox browser.SigningBoxHandle) error {
	if err := c.CallContext(ctx, nil, "closeSigningBox", hexutil.Uint64(h), sbox); err != nil {
		return err
	}
	c.stopSigning(func(key boxKey) bool { return key == boxKey{h, sbox} })
	return nil
}

func (c *Client) DestroyBrowser(ctx context.Context, h browser.Handle) error {
	if err := c.CallContext(ctx, nil, "destroyBrowser", hexutil.Uint64(h)); err != nil {
		return err
	}
	c.stopSigning(func(key boxKey) bool { return key.handle == h })
	return nil
}

// Close stops every signing box server and closes the connection.
func (c *Client) Close() error {
	c.stopSigning(func(boxKey) bool { return true })
	c.rpc.Close()
	return nil
}
