package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorResponseJSON(t *testing.T) {
	err := New(ErrorCodeInvalidHandle, "invalid handle")
	require.Equal(t, `{"code":"INVALID_HANDLE","details":"invalid handle"}`, err.Error())
}

func TestErrorResponseIsMatchesByCode(t *testing.T) {
	err := New(ErrorCodeInvalidHandle, "handle 42 is gone")
	require.True(t, errors.Is(err, ErrInvalidHandle))
	require.False(t, errors.Is(err, ErrDebotNotFound))

	wrapped := fmt.Errorf("run browser: %w", err)
	require.True(t, errors.Is(wrapped, ErrInvalidHandle))
}

func TestCreateErrorResponseFromError(t *testing.T) {
	require.Nil(t, CreateErrorResponseFromError(nil))

	resp := CreateErrorResponseFromError(errors.New("boom"))
	require.Equal(t, `{"code":"0","details":"boom"}`, resp.Error())

	wrapped := fmt.Errorf("step: %w", ErrUnsupported)
	require.Same(t, ErrUnsupported, CreateErrorResponseFromError(wrapped))
}

func TestDecodeErrorResponse(t *testing.T) {
	decoded := DecodeErrorResponse(errors.New(ErrInvalidSigningBox.Error()))
	require.True(t, errors.Is(decoded, ErrInvalidSigningBox))

	plain := errors.New("connection refused")
	require.Equal(t, plain, DecodeErrorResponse(plain))
	require.Nil(t, DecodeErrorResponse(nil))
}
