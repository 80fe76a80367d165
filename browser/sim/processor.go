package sim

import (
	"encoding/json"
	"errors"

	"github.com/ever-guild/debot-harness/browser"
	"github.com/ever-guild/debot-harness/manifest"
)

var (
	ErrInterfaceCallNeeded      = errors.New("interface call needs user input")
	ErrNoMoreChainlinks         = errors.New("no more chain links")
	ErrUnexpectedChainLinkKind  = errors.New("unexpected chain link kind")
	ErrUnexpectedInterface      = errors.New("unexpected interface")
	ErrUnexpectedMethod         = errors.New("unexpected method")
	ErrInteractiveApproveNeeded = errors.New("interactive approve needed")
)

// ChainProcessor answers the prompts of one run from the manifest chain,
// consuming links in order.
type ChainProcessor struct {
	m     *manifest.Manifest
	chain []manifest.ChainLink
}

func NewChainProcessor(m *manifest.Manifest) *ChainProcessor {
	return &ChainProcessor{m: m, chain: m.Chain}
}

// Interactive is true for manifests that are not quiet. An interactive run
// running out of links would have to ask the user.
func (p *ChainProcessor) Interactive() bool {
	return !p.m.Quiet
}

// Remaining is the number of unconsumed links.
func (p *ChainProcessor) Remaining() int {
	return len(p.chain)
}

func (p *ChainProcessor) next() (manifest.ChainLink, bool) {
	if len(p.chain) == 0 {
		return manifest.ChainLink{}, false
	}
	link := p.chain[0]
	p.chain = p.chain[1:]
	return link, true
}

func (p *ChainProcessor) exhausted() error {
	if p.Interactive() {
		return ErrInterfaceCallNeeded
	}
	return ErrNoMoreChainlinks
}

// NextInput returns the params of the next Input link for iface.method.
// Non-mandatory links for other interfaces are skipped.
func (p *ChainProcessor) NextInput(iface, method string) (json.RawMessage, error) {
	for {
		link, ok := p.next()
		if !ok {
			return nil, p.exhausted()
		}
		if link.Type != manifest.LinkInput {
			return nil, ErrUnexpectedChainLinkKind
		}
		if link.Interface != iface {
			if link.Mandatory {
				return nil, ErrUnexpectedInterface
			}
			continue
		}
		if link.Method != method {
			return nil, ErrUnexpectedMethod
		}
		return link.Params, nil
	}
}

// NextSigningBox returns the handle of the next SigningBox link.
func (p *ChainProcessor) NextSigningBox() (browser.SigningBoxHandle, error) {
	link, ok := p.next()
	if !ok {
		return 0, p.exhausted()
	}
	if link.Type != manifest.LinkSigningBox {
		return 0, ErrUnexpectedChainLinkKind
	}
	return browser.SigningBoxHandle(link.Handle), nil
}

// NextApprove decides on an activity of the given kind. With no links left
// the autoApprove list decides; without that list a quiet run declines and
// an interactive one fails.
func (p *ChainProcessor) NextApprove(kind manifest.ApproveKind) (bool, error) {
	link, ok := p.next()
	if !ok {
		if approved, listed := p.m.AutoApproves(kind); listed {
			return approved, nil
		}
		if p.Interactive() {
			return false, ErrInteractiveApproveNeeded
		}
		return false, nil
	}
	if link.Type != manifest.LinkOnchainCall {
		return false, ErrUnexpectedChainLinkKind
	}
	return link.Approve, nil
}
