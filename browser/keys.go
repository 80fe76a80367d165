package browser

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	debotErrors "github.com/ever-guild/debot-harness/errors"
)

// GenerateKeyPair creates a random ed25519 signing key pair.
func GenerateKeyPair() (KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{
		Public: hex.EncodeToString(pub),
		Secret: hex.EncodeToString(priv.Seed()),
	}, nil
}

// PrivateKey expands the secret seed. When Public is set it must match the
// key derived from the seed.
func (k KeyPair) PrivateKey() (ed25519.PrivateKey, error) {
	seed, err := hex.DecodeString(k.Secret)
	if err != nil || len(seed) != ed25519.SeedSize {
		return nil, debotErrors.New(debotErrors.ErrorCodeInvalidKeyPair, "secret must be 32 hex encoded bytes")
	}
	priv := ed25519.NewKeyFromSeed(seed)
	if k.Public != "" {
		pub, err := hex.DecodeString(k.Public)
		if err != nil || !bytes.Equal(pub, priv.Public().(ed25519.PublicKey)) {
			return nil, debotErrors.New(debotErrors.ErrorCodeInvalidKeyPair, "public key does not match secret")
		}
	}
	return priv, nil
}

// KeyPairFromSecret derives the public half from a hex secret seed.
func KeyPairFromSecret(secret string) (KeyPair, error) {
	priv, err := KeyPair{Secret: secret}.PrivateKey()
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{
		Public: hex.EncodeToString(priv.Public().(ed25519.PublicKey)),
		Secret: secret,
	}, nil
}

// SignWithKeys signs unsigned with keys.
func SignWithKeys(keys KeyPair, unsigned []byte) (*SignResult, error) {
	priv, err := keys.PrivateKey()
	if err != nil {
		return nil, err
	}
	sig := ed25519.Sign(priv, unsigned)
	signed := make([]byte, 0, len(sig)+len(unsigned))
	signed = append(signed, sig...)
	signed = append(signed, unsigned...)
	return &SignResult{
		Signed:    base64.StdEncoding.EncodeToString(signed),
		Signature: hex.EncodeToString(sig),
	}, nil
}

// VerifySignature checks a hex signature of msg against a hex public key.
func VerifySignature(publicKey string, msg []byte, signature string) error {
	pub, err := hex.DecodeString(publicKey)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return debotErrors.New(debotErrors.ErrorCodeSigningFailed, fmt.Sprintf("invalid public key %q", publicKey))
	}
	sig, err := hex.DecodeString(signature)
	if err != nil {
		return debotErrors.New(debotErrors.ErrorCodeSigningFailed, "signature is not hex encoded")
	}
	if !ed25519.Verify(pub, msg, sig) {
		return debotErrors.New(debotErrors.ErrorCodeSigningFailed, "signature verification failed")
	}
	return nil
}

// Signer is the part of Browser a KeyPairSigningBox needs.
type Signer interface {
	Sign(keys KeyPair, unsigned []byte) (*SignResult, error)
}

// KeyPairSigningBox is a SigningBox holding a key pair locally and
// delegating the signature itself to a Signer.
type KeyPairSigningBox struct {
	Signer Signer
	Keys   KeyPair
}

// NewKeyPairSigningBox returns a signing box for keys.
func NewKeyPairSigningBox(signer Signer, keys KeyPair) *KeyPairSigningBox {
	return &KeyPairSigningBox{Signer: signer, Keys: keys}
}

func (b *KeyPairSigningBox) PublicKey(ctx context.Context) (string, error) {
	return b.Keys.Public, nil
}

func (b *KeyPairSigningBox) Sign(ctx context.Context, unsigned []byte) (string, error) {
	res, err := b.Signer.Sign(b.Keys, unsigned)
	if err != nil {
		return "", err
	}
	return res.Signature, nil
}
