// Package browser defines the boundary to the DeBot browser collaborator:
// the capability set the harness drives and the types that cross it.
package browser

import (
	"context"

	"github.com/ever-guild/debot-harness/manifest"
)

//go:generate mockgen -package=mockbrowser -destination=mock/browser_mock.go . Browser,SigningBox

// Browser is the collaborator that runs DeBots. Implementations own the
// session table; callers treat handles as opaque.
type Browser interface {
	// InitLog turns on the collaborator's own logging.
	InitLog() error

	// Sign signs unsigned with keys.
	Sign(keys KeyPair, unsigned []byte) (*SignResult, error)

	// RunDebotBrowser creates a session, runs m once and destroys the
	// session. box may be nil.
	RunDebotBrowser(ctx context.Context, endpoint, wallet, pubkey string, box SigningBox, m *manifest.Manifest) (Result, error)

	// CreateBrowser starts a session for the DeBot at debotAddr. wallet and
	// pubkey may be empty.
	CreateBrowser(ctx context.Context, endpoint, debotAddr, wallet, pubkey string) (Handle, error)

	// RunBrowser runs m in an existing session.
	RunBrowser(ctx context.Context, h Handle, m *manifest.Manifest) (Result, error)

	// RegisterSigningBox makes box available to the session.
	RegisterSigningBox(ctx context.Context, h Handle, box SigningBox) (SigningBoxHandle, error)

	// UpdateUserSettings replaces the session's user settings.
	UpdateUserSettings(ctx context.Context, h Handle, s UserSettings) error

	// CloseSigningBox removes a signing box registered in the session.
	CloseSigningBox(ctx context.Context, h Handle, sbox SigningBoxHandle) error

	// DestroyBrowser ends the session.
	DestroyBrowser(ctx context.Context, h Handle) error
}

// SigningBox supplies a public key and signs on behalf of the user without
// handing the secret to the collaborator.
type SigningBox interface {
	// PublicKey returns the hex encoded public key.
	PublicKey(ctx context.Context) (string, error)
	// Sign returns the hex encoded signature of unsigned.
	Sign(ctx context.Context, unsigned []byte) (string, error)
}
