package browser

import (
	"encoding/json"
	"strconv"
)

// Handle references a browser session.
type Handle uint64

// String renders the handle in hex, the way the collaborator prints it.
func (h Handle) String() string {
	return strconv.FormatUint(uint64(h), 16)
}

// SigningBoxHandle references a registered signing box. Zero means none.
type SigningBoxHandle uint32

// KeyPair is an ed25519 key pair: hex public key and hex 32-byte secret seed.
type KeyPair struct {
	Public string `json:"public" validate:"required,hexkey"`
	Secret string `json:"secret" validate:"required,hexkey"`
}

// UserSettings are read by the DeBot's UserInfo interface.
type UserSettings struct {
	Wallet     string           `json:"wallet,omitempty"`
	PubKey     string           `json:"pubkey,omitempty"`
	SigningBox SigningBoxHandle `json:"signing_box,omitempty"`
}

// SignResult is the outcome of Sign.
type SignResult struct {
	// Signed is base64 of signature followed by the unsigned data.
	Signed string `json:"signed"`
	// Signature is hex encoded.
	Signature string `json:"signature"`
}

// Result is the exit argument of a run, raw JSON. It is null when the DeBot
// did not report one.
type Result = json.RawMessage
