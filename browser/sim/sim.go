// Package sim is an offline DeBot browser. Sessions, signing boxes and the
// manifest chain behave like the real collaborator, while the DeBots are Go
// functions registered by address.
package sim

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ever-guild/debot-harness/browser"
	debotErrors "github.com/ever-guild/debot-harness/errors"
	"github.com/ever-guild/debot-harness/manifest"
	"github.com/ever-guild/debot-harness/params"
)

type session struct {
	mu        sync.Mutex
	endpoints []string
	debotAddr string
	debot     *Debot
	settings  browser.UserSettings
	boxes     map[browser.SigningBoxHandle]browser.SigningBox
}

// Simulator implements browser.Browser in memory.
type Simulator struct {
	logger     *zap.Logger
	logEnabled atomic.Bool

	debotsMu sync.RWMutex
	debots   map[string]*Debot

	sessions *table
	boxSeq   uint32
}

var _ browser.Browser = (*Simulator)(nil)

// New returns a simulator without DeBots. logger is used once InitLog is
// called.
func New(logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{
		logger:   logger.Named("sim"),
		debots:   make(map[string]*Debot),
		sessions: newTable(),
	}
}

// NewWithBuiltins returns a simulator serving the invoke-test DeBot at
// testAddr and the send DeBot at sendAddr.
func NewWithBuiltins(logger *zap.Logger, testAddr, sendAddr string) *Simulator {
	s := New(logger)
	s.Register(testAddr, InvokeTestDebot())
	s.Register(sendAddr, SendDebot())
	return s
}

// Register deploys d at address, replacing what was there.
func (s *Simulator) Register(address string, d *Debot) {
	s.debotsMu.Lock()
	defer s.debotsMu.Unlock()
	s.debots[address] = d
}

func (s *Simulator) fetchDebot(address string) (*Debot, error) {
	s.debotsMu.RLock()
	defer s.debotsMu.RUnlock()
	d, ok := s.debots[address]
	if !ok {
		return nil, debotErrors.New(debotErrors.ErrorCodeDebotNotFound, fmt.Sprintf("debot not found: %s", address))
	}
	return d, nil
}

// Sessions is the number of live sessions.
func (s *Simulator) Sessions() int {
	return s.sessions.len()
}

func (s *Simulator) log() *zap.Logger {
	if s.logEnabled.Load() {
		return s.logger
	}
	return zap.NewNop()
}

// InitLog enables logging. Calling it again is a no-op.
func (s *Simulator) InitLog() error {
	if s.logEnabled.CompareAndSwap(false, true) {
		s.logger.Info("logging enabled")
	}
	return nil
}

func (s *Simulator) Sign(keys browser.KeyPair, unsigned []byte) (*browser.SignResult, error) {
	return browser.SignWithKeys(keys, unsigned)
}

func (s *Simulator) CreateBrowser(ctx context.Context, endpoint, debotAddr, wallet, pubkey string) (browser.Handle, error) {
	if endpoint == "" {
		return 0, debotErrors.ErrInvalidEndpoint
	}
	endpoints := params.ResolveEndpoints(endpoint)
	s.log().Info("client created", zap.Strings("endpoints", endpoints))

	d, err := s.fetchDebot(debotAddr)
	if err != nil {
		return 0, err
	}
	h, err := s.sessions.insert(&session{
		endpoints: endpoints,
		debotAddr: debotAddr,
		debot:     d,
		settings:  browser.UserSettings{Wallet: wallet, PubKey: pubkey},
		boxes:     make(map[browser.SigningBoxHandle]browser.SigningBox),
	})
	if err != nil {
		return 0, err
	}
	s.log().Info("browser created", zap.Stringer("handle", h), zap.String("debot", debotAddr))
	return h, nil
}

func (s *Simulator) DestroyBrowser(ctx context.Context, h browser.Handle) error {
	if err := s.sessions.remove(h); err != nil {
		return err
	}
	s.log().Info("browser destroyed", zap.Stringer("handle", h))
	return nil
}

func (s *Simulator) RegisterSigningBox(ctx context.Context, h browser.Handle, box browser.SigningBox) (browser.SigningBoxHandle, error) {
	if box == nil {
		return 0, debotErrors.New(debotErrors.ErrorCodeInvalidSigningBox, "signing box is nil")
	}
	sess, err := s.sessions.get(h)
	if err != nil {
		return 0, err
	}
	sbox := browser.SigningBoxHandle(atomic.AddUint32(&s.boxSeq, 1))

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.boxes[sbox] = box
	s.log().Info("signing box registered", zap.Stringer("handle", h), zap.Uint32("sbox", uint32(sbox)))
	return sbox, nil
}

func (s *Simulator) CloseSigningBox(ctx context.Context, h browser.Handle, sbox browser.SigningBoxHandle) error {
	sess, err := s.sessions.get(h)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if _, ok := sess.boxes[sbox]; !ok {
		return debotErrors.ErrInvalidSigningBox
	}
	delete(sess.boxes, sbox)
	return nil
}

// UpdateUserSettings replaces all three settings at once.
func (s *Simulator) UpdateUserSettings(ctx context.Context, h browser.Handle, settings browser.UserSettings) error {
	sess, err := s.sessions.get(h)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.settings = settings
	return nil
}

// RunBrowser runs m against the session's DeBot. The manifest's
// debotAddress is ignored: a session is bound to the DeBot it was created
// for.
func (s *Simulator) RunBrowser(ctx context.Context, h browser.Handle, m *manifest.Manifest) (browser.Result, error) {
	if m == nil {
		return nil, debotErrors.New(debotErrors.ErrorCodeInterfaceCallFailed, "manifest is nil")
	}
	sess, err := s.sessions.get(h)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.run(ctx, h, sess, m)
}

func (s *Simulator) run(ctx context.Context, h browser.Handle, sess *session, m *manifest.Manifest) (browser.Result, error) {
	logger := s.log().With(zap.Stringer("handle", h), zap.String("method", m.InitMethod))
	if m.InitMsg != "" {
		return nil, debotErrors.New(debotErrors.ErrorCodeUnsupported, "initMsg is not supported by the simulator")
	}

	inv := &Invocation{
		Method:   m.InitMethod,
		Args:     m.InitArgs,
		proc:     NewChainProcessor(m),
		settings: sess.settings,
		box: func(sbox browser.SigningBoxHandle) (browser.SigningBox, error) {
			box, ok := sess.boxes[sbox]
			if !ok {
				return nil, debotErrors.ErrInvalidSigningBox
			}
			return box, nil
		},
		logger: logger,
	}

	var payload json.RawMessage
	if m.InitMethod != "start" {
		fn, ok := sess.debot.Functions[m.InitMethod]
		if !ok {
			return nil, debotErrors.New(debotErrors.ErrorCodeInterfaceCallFailed, fmt.Sprintf("%s has no function %s", sess.debot.Name, m.InitMethod))
		}
		var err error
		payload, err = fn(ctx, inv)
		if err != nil {
			logger.Warn("run failed", zap.Error(err))
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger.Info("run completed", zap.Int("unusedLinks", inv.proc.Remaining()))
	return exitArg(m, payload)
}

// exitArg shapes the DeBot's exit payload. Without an abi in the manifest
// the payload cannot be decoded and is returned as an opaque message.
func exitArg(m *manifest.Manifest, payload json.RawMessage) (browser.Result, error) {
	if payload == nil {
		return browser.Result("null"), nil
	}
	if len(m.Abi) > 0 {
		return browser.Result(payload), nil
	}
	return json.Marshal(map[string]string{"message": base64.StdEncoding.EncodeToString(payload)})
}

// RunDebotBrowser runs m in a throwaway session. A given box is registered
// in that session and its handle written into every SigningBox chain link.
func (s *Simulator) RunDebotBrowser(ctx context.Context, endpoint, wallet, pubkey string, box browser.SigningBox, m *manifest.Manifest) (browser.Result, error) {
	if m == nil {
		return nil, debotErrors.New(debotErrors.ErrorCodeInterfaceCallFailed, "manifest is nil")
	}
	m = m.Clone()
	h, err := s.CreateBrowser(ctx, endpoint, m.DebotAddress, wallet, pubkey)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = s.DestroyBrowser(ctx, h)
	}()

	if box != nil {
		s.log().Info("signing box provided", zap.Stringer("handle", h))
		sbox, err := s.RegisterSigningBox(ctx, h, box)
		if err != nil {
			return nil, err
		}
		for i := range m.Chain {
			if m.Chain[i].Type == manifest.LinkSigningBox {
				m.Chain[i].Handle = uint32(sbox)
			}
		}
	}
	return s.RunBrowser(ctx, h, m)
}
