package debot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"

	"github.com/ever-guild/debot-harness/browser"
	debotErrors "github.com/ever-guild/debot-harness/errors"
)

// DefaultSigningTimeout bounds how long a DeBot waits for the remote side
// to sign.
const DefaultSigningTimeout = time.Minute

// SigningRequest is pushed to the owner of a signing box.
type SigningRequest struct {
	ID       string        `json:"id"`
	Unsigned hexutil.Bytes `json:"unsigned"`
}

type signingResult struct {
	signature string
	err       error
}

type boxKey struct {
	handle browser.Handle
	sbox   browser.SigningBoxHandle
}

// remoteBox is a signing box whose key lives on the client. Sign requests
// are queued until a subscriber picks them up.
type remoteBox struct {
	relay     *signingRelay
	publicKey string
	requests  chan SigningRequest
	closed    chan struct{}
	closeOnce sync.Once
}

func (b *remoteBox) PublicKey(ctx context.Context) (string, error) {
	return b.publicKey, nil
}

func (b *remoteBox) Sign(ctx context.Context, unsigned []byte) (string, error) {
	return b.relay.sign(ctx, b, unsigned)
}

func (b *remoteBox) close() {
	b.closeOnce.Do(func() { close(b.closed) })
}

// signingRelay matches sign requests of remote boxes with the results the
// client posts back.
type signingRelay struct {
	timeout time.Duration

	mu      sync.Mutex
	boxes   map[boxKey]*remoteBox
	pending map[string]chan signingResult
}

func newSigningRelay(timeout time.Duration) *signingRelay {
	return &signingRelay{
		timeout: timeout,
		boxes:   make(map[boxKey]*remoteBox),
		pending: make(map[string]chan signingResult),
	}
}

func (r *signingRelay) newBox(publicKey string) *remoteBox {
	return &remoteBox{
		relay:     r,
		publicKey: publicKey,
		requests:  make(chan SigningRequest),
		closed:    make(chan struct{}),
	}
}

func (r *signingRelay) attach(h browser.Handle, sbox browser.SigningBoxHandle, box *remoteBox) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.boxes[boxKey{h, sbox}] = box
}

func (r *signingRelay) box(h browser.Handle, sbox browser.SigningBoxHandle) (*remoteBox, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	box, ok := r.boxes[boxKey{h, sbox}]
	if !ok {
		return nil, debotErrors.ErrInvalidSigningBox
	}
	return box, nil
}

func (r *signingRelay) detach(h browser.Handle, sbox browser.SigningBoxHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if box, ok := r.boxes[boxKey{h, sbox}]; ok {
		box.close()
		delete(r.boxes, boxKey{h, sbox})
	}
}

// detachSession closes every box registered in session h.
func (r *signingRelay) detachSession(h browser.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, box := range r.boxes {
		if key.handle == h {
			box.close()
			delete(r.boxes, key)
		}
	}
}

func (r *signingRelay) sign(ctx context.Context, box *remoteBox, unsigned []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req := SigningRequest{ID: uuid.NewString(), Unsigned: unsigned}
	result := make(chan signingResult, 1)
	r.mu.Lock()
	r.pending[req.ID] = result
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		delete(r.pending, req.ID)
		r.mu.Unlock()
	}()

	select {
	case box.requests <- req:
	case <-box.closed:
		return "", debotErrors.ErrInvalidSigningBox
	case <-ctx.Done():
		return "", debotErrors.New(debotErrors.ErrorCodeSigningFailed, fmt.Sprintf("no signer: %v", ctx.Err()))
	}

	select {
	case res := <-result:
		return res.signature, res.err
	case <-box.closed:
		return "", debotErrors.ErrInvalidSigningBox
	case <-ctx.Done():
		return "", debotErrors.New(debotErrors.ErrorCodeSigningFailed, fmt.Sprintf("signing request %s: %v", req.ID, ctx.Err()))
	}
}

func (r *signingRelay) resolve(id string, res signingResult) error {
	r.mu.Lock()
	ch, ok := r.pending[id]
	delete(r.pending, id)
	r.mu.Unlock()
	if !ok {
		return debotErrors.New(debotErrors.ErrorCodeSigningFailed, fmt.Sprintf("unknown signing request %s", id))
	}
	ch <- res
	return nil
}
