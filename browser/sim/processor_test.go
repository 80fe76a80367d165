package sim

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ever-guild/debot-harness/browser"
	"github.com/ever-guild/debot-harness/manifest"
)

func input(iface, method, params string, mandatory bool) manifest.ChainLink {
	return manifest.ChainLink{Type: manifest.LinkInput, Interface: iface, Method: method, Params: json.RawMessage(params), Mandatory: mandatory}
}

func TestNextInputSkipsOptionalLinks(t *testing.T) {
	p := NewChainProcessor(&manifest.Manifest{Quiet: true, Chain: []manifest.ChainLink{
		input("aa", "get", `{"value":1}`, false),
		input("bb", "get", `{"value":2}`, false),
	}})

	params, err := p.NextInput("bb", "get")
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":2}`, string(params))
	assert.Equal(t, 0, p.Remaining())

	_, err = p.NextInput("bb", "get")
	assert.ErrorIs(t, err, ErrNoMoreChainlinks)
}

func TestNextInputErrors(t *testing.T) {
	testCases := []struct {
		name string
		m    *manifest.Manifest
		err  error
	}{
		{
			name: "mandatory link for another interface",
			m:    &manifest.Manifest{Chain: []manifest.ChainLink{input("aa", "get", `{}`, true)}},
			err:  ErrUnexpectedInterface,
		},
		{
			name: "method mismatch",
			m:    &manifest.Manifest{Chain: []manifest.ChainLink{input("bb", "set", `{}`, false)}},
			err:  ErrUnexpectedMethod,
		},
		{
			name: "wrong link kind",
			m:    &manifest.Manifest{Chain: []manifest.ChainLink{{Type: manifest.LinkSigningBox, Handle: 1}}},
			err:  ErrUnexpectedChainLinkKind,
		},
		{
			name: "interactive run out of links",
			m:    &manifest.Manifest{Quiet: false},
			err:  ErrInterfaceCallNeeded,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewChainProcessor(tc.m).NextInput("bb", "get")
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestNextSigningBox(t *testing.T) {
	p := NewChainProcessor(&manifest.Manifest{Quiet: true, Chain: []manifest.ChainLink{
		{Type: manifest.LinkSigningBox, Handle: 7},
		{Type: manifest.LinkOnchainCall, Approve: true},
	}})
	h, err := p.NextSigningBox()
	require.NoError(t, err)
	assert.Equal(t, browser.SigningBoxHandle(7), h)

	_, err = p.NextSigningBox()
	assert.ErrorIs(t, err, ErrUnexpectedChainLinkKind)
}

func TestNextApprove(t *testing.T) {
	testCases := []struct {
		name     string
		m        *manifest.Manifest
		approved bool
		err      error
	}{
		{
			name:     "onchain call link",
			m:        &manifest.Manifest{Chain: []manifest.ChainLink{{Type: manifest.LinkOnchainCall, Approve: true}}},
			approved: true,
		},
		{
			name: "link wins over autoApprove",
			m: &manifest.Manifest{
				AutoApprove: []manifest.ApproveKind{manifest.ApproveOnChainCall},
				Chain:       []manifest.ChainLink{{Type: manifest.LinkOnchainCall, Approve: false}},
			},
			approved: false,
		},
		{
			name:     "listed in autoApprove",
			m:        &manifest.Manifest{AutoApprove: []manifest.ApproveKind{manifest.ApproveOnChainCall}},
			approved: true,
		},
		{
			name:     "empty autoApprove declines even interactively",
			m:        &manifest.Manifest{AutoApprove: []manifest.ApproveKind{}},
			approved: false,
		},
		{
			name:     "quiet without autoApprove declines",
			m:        &manifest.Manifest{Quiet: true},
			approved: false,
		},
		{
			name: "interactive without autoApprove fails",
			m:    &manifest.Manifest{},
			err:  ErrInteractiveApproveNeeded,
		},
		{
			name: "wrong link kind",
			m:    &manifest.Manifest{Chain: []manifest.ChainLink{input("aa", "get", `{}`, false)}},
			err:  ErrUnexpectedChainLinkKind,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			approved, err := NewChainProcessor(tc.m).NextApprove(manifest.ApproveOnChainCall)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.approved, approved)
		})
	}
}
