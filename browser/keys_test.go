package browser

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	debotErrors "github.com/ever-guild/debot-harness/errors"
)

var testKeys = KeyPair{
	Public: "9f7fd3df9d72b133fe155c087928c4f9da423076cc20c9f5386614b462e49811",
	Secret: "607a90aedb5df02a0f712572f0b5aa5d9342e5f3f2c0794df43f4a2a9688aef3",
}

const helloSignature = "e86e394f039d445bb8a56790c76402470534ffdb54617ad99d5110c9883b6e93" +
	"366cad8a95b3f62de01d6262a41c0ea70c2b75290033eac4b6cb4831e302fb0f"

func TestSignWithKeys(t *testing.T) {
	res, err := SignWithKeys(testKeys, []byte("hello"))
	require.NoError(t, err)
	require.Equal(t, helloSignature, res.Signature)
	require.Equal(t, "6G45TwOdRFu4pWeQx2QCRwU0/9tUYXrZnVEQyYg7bpM2bK2KlbP2LeAdYmKkHA6nDCt1KQAz6sS2y0gx4wL7D2hlbGxv", res.Signed)

	require.NoError(t, VerifySignature(testKeys.Public, []byte("hello"), res.Signature))
	err = VerifySignature(testKeys.Public, []byte("hello!"), res.Signature)
	require.True(t, errors.Is(err, debotErrors.New(debotErrors.ErrorCodeSigningFailed, "")))
}

func TestSignRejectsMismatchedKeys(t *testing.T) {
	other, err := GenerateKeyPair()
	require.NoError(t, err)

	_, err = SignWithKeys(KeyPair{Public: other.Public, Secret: testKeys.Secret}, []byte("x"))
	require.Error(t, err)
	require.Contains(t, err.Error(), string(debotErrors.ErrorCodeInvalidKeyPair))

	_, err = SignWithKeys(KeyPair{Secret: "abcd"}, []byte("x"))
	require.Error(t, err)

	// public key is optional
	_, err = SignWithKeys(KeyPair{Secret: testKeys.Secret}, []byte("x"))
	require.NoError(t, err)
}

func TestGenerateKeyPair(t *testing.T) {
	keys, err := GenerateKeyPair()
	require.NoError(t, err)
	require.Len(t, keys.Public, 64)
	require.Len(t, keys.Secret, 64)

	res, err := SignWithKeys(keys, []byte("payload"))
	require.NoError(t, err)
	require.NoError(t, VerifySignature(keys.Public, []byte("payload"), res.Signature))
}

func TestKeyPairFromSecret(t *testing.T) {
	keys, err := KeyPairFromSecret(testKeys.Secret)
	require.NoError(t, err)
	require.Equal(t, testKeys, keys)

	_, err = KeyPairFromSecret("zz")
	require.Error(t, err)
}

type signerFunc func(keys KeyPair, unsigned []byte) (*SignResult, error)

func (f signerFunc) Sign(keys KeyPair, unsigned []byte) (*SignResult, error) {
	return f(keys, unsigned)
}

func TestKeyPairSigningBox(t *testing.T) {
	var gotKeys KeyPair
	var gotUnsigned []byte
	box := NewKeyPairSigningBox(signerFunc(func(keys KeyPair, unsigned []byte) (*SignResult, error) {
		gotKeys = keys
		gotUnsigned = unsigned
		return &SignResult{Signature: "cafe"}, nil
	}), testKeys)

	pub, err := box.PublicKey(context.Background())
	require.NoError(t, err)
	require.Equal(t, testKeys.Public, pub)

	sig, err := box.Sign(context.Background(), []byte{1, 2})
	require.NoError(t, err)
	require.Equal(t, "cafe", sig)
	require.Equal(t, testKeys, gotKeys)
	require.Equal(t, []byte{1, 2}, gotUnsigned)

	failing := NewKeyPairSigningBox(signerFunc(func(KeyPair, []byte) (*SignResult, error) {
		return nil, errors.New("no keys")
	}), testKeys)
	_, err = failing.Sign(context.Background(), nil)
	require.EqualError(t, err, "no keys")
}

func TestHandleString(t *testing.T) {
	require.Equal(t, "ff", Handle(255).String())
}
