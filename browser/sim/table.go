package sim

import (
	"crypto/rand"
	"encoding/binary"
	"sync"

	"github.com/ever-guild/debot-harness/browser"
	debotErrors "github.com/ever-guild/debot-harness/errors"
)

// table keeps live sessions under random non-zero handles.
type table struct {
	mu       sync.RWMutex
	sessions map[browser.Handle]*session
}

func newTable() *table {
	return &table{sessions: make(map[browser.Handle]*session)}
}

func (t *table) insert(s *session) (browser.Handle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for {
		h, err := generateHandle()
		if err != nil {
			return 0, err
		}
		if _, taken := t.sessions[h]; h == 0 || taken {
			continue
		}
		t.sessions[h] = s
		return h, nil
	}
}

func (t *table) get(h browser.Handle) (*session, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.sessions[h]
	if !ok {
		return nil, debotErrors.ErrInvalidHandle
	}
	return s, nil
}

func (t *table) remove(h browser.Handle) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.sessions[h]; !ok {
		return debotErrors.ErrInvalidHandle
	}
	delete(t.sessions, h)
	return nil
}

func (t *table) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sessions)
}

func generateHandle() (browser.Handle, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, err
	}
	return browser.Handle(binary.LittleEndian.Uint64(b[:])), nil
}
