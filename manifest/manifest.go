package manifest

import (
	"encoding/json"
	"fmt"
)

// ApproveKind names an activity the browser may approve without asking.
type ApproveKind string

const (
	ApproveOnChainCall    ApproveKind = "ApproveOnChainCall"
	ApproveNetworkAccess  ApproveKind = "ApproveNetworkAccess"
	ApproveMessageSigning ApproveKind = "ApproveMessageSigning"
)

// LinkType is the discriminator of a ChainLink.
type LinkType string

const (
	LinkInput       LinkType = "Input"
	LinkSigningBox  LinkType = "SigningBox"
	LinkOnchainCall LinkType = "OnchainCall"
)

// Manifest describes one scripted DeBot interaction.
type Manifest struct {
	Version      int             `json:"version"`
	DebotAddress string          `json:"debotAddress"`
	InitMethod   string          `json:"initMethod"`
	InitArgs     json.RawMessage `json:"initArgs,omitempty"`
	InitMsg      string          `json:"initMsg,omitempty"`
	Abi          json.RawMessage `json:"abi,omitempty"`
	Quiet        bool            `json:"quiet"`
	// AutoApprove is nil when the manifest has no autoApprove list at all,
	// which is not the same as an empty list.
	AutoApprove []ApproveKind `json:"autoApprove"`
	Chain       []ChainLink   `json:"chain,omitempty"`
}

// ChainLink is one pre-scripted answer to a prompt raised during a run.
// Which fields are meaningful depends on Type.
type ChainLink struct {
	Type LinkType

	// Input
	Interface string
	Method    string
	Params    json.RawMessage
	Mandatory bool

	// SigningBox
	Handle uint32

	// OnchainCall
	Approve bool
	Iflq    string
	Ifeq    string
}

type inputLink struct {
	Type      LinkType        `json:"type"`
	Interface string          `json:"interface"`
	Method    string          `json:"method"`
	Params    json.RawMessage `json:"params,omitempty"`
	Mandatory bool            `json:"mandatory,omitempty"`
}

type signingBoxLink struct {
	Type   LinkType `json:"type"`
	Handle uint32   `json:"handle"`
}

type onchainCallLink struct {
	Type    LinkType `json:"type"`
	Approve bool     `json:"approve"`
	Iflq    string   `json:"iflq,omitempty"`
	Ifeq    string   `json:"ifeq,omitempty"`
}

// MarshalJSON encodes only the fields of the link's variant.
func (l ChainLink) MarshalJSON() ([]byte, error) {
	switch l.Type {
	case LinkInput:
		return json.Marshal(inputLink{l.Type, l.Interface, l.Method, l.Params, l.Mandatory})
	case LinkSigningBox:
		return json.Marshal(signingBoxLink{l.Type, l.Handle})
	case LinkOnchainCall:
		return json.Marshal(onchainCallLink{l.Type, l.Approve, l.Iflq, l.Ifeq})
	}
	return nil, fmt.Errorf("unknown chain link type %q", l.Type)
}

// UnmarshalJSON decodes a link, rejecting unknown variants.
func (l *ChainLink) UnmarshalJSON(data []byte) error {
	var head struct {
		Type LinkType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	switch head.Type {
	case LinkInput:
		var v inputLink
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*l = ChainLink{Type: v.Type, Interface: v.Interface, Method: v.Method, Params: v.Params, Mandatory: v.Mandatory}
	case LinkSigningBox:
		var v signingBoxLink
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*l = ChainLink{Type: v.Type, Handle: v.Handle}
	case LinkOnchainCall:
		var v onchainCallLink
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*l = ChainLink{Type: v.Type, Approve: v.Approve, Iflq: v.Iflq, Ifeq: v.Ifeq}
	default:
		return fmt.Errorf("unknown chain link type %q", head.Type)
	}
	return nil
}

// Clone returns a deep copy of the manifest.
func (m *Manifest) Clone() *Manifest {
	c := *m
	c.InitArgs = cloneRaw(m.InitArgs)
	c.Abi = cloneRaw(m.Abi)
	if m.AutoApprove != nil {
		c.AutoApprove = append([]ApproveKind{}, m.AutoApprove...)
	}
	if m.Chain != nil {
		c.Chain = make([]ChainLink, len(m.Chain))
		for i, link := range m.Chain {
			link.Params = cloneRaw(link.Params)
			c.Chain[i] = link
		}
	}
	return &c
}

// InitArg returns the raw value of a named init argument.
func (m *Manifest) InitArg(name string) (json.RawMessage, bool) {
	if len(m.InitArgs) == 0 {
		return nil, false
	}
	var args map[string]json.RawMessage
	if err := json.Unmarshal(m.InitArgs, &args); err != nil {
		return nil, false
	}
	v, ok := args[name]
	return v, ok
}

// SetInitArg sets a named init argument, creating initArgs if needed.
func (m *Manifest) SetInitArg(name string, value interface{}) error {
	args := map[string]json.RawMessage{}
	if len(m.InitArgs) > 0 && string(m.InitArgs) != "null" {
		if err := json.Unmarshal(m.InitArgs, &args); err != nil {
			return fmt.Errorf("initArgs is not an object: %w", err)
		}
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	args[name] = raw
	encoded, err := json.Marshal(args)
	if err != nil {
		return err
	}
	m.InitArgs = encoded
	return nil
}

// AutoApproves reports whether kind is listed in autoApprove. The second
// result is false when the manifest has no autoApprove list.
func (m *Manifest) AutoApproves(kind ApproveKind) (approved bool, listed bool) {
	if m.AutoApprove == nil {
		return false, false
	}
	for _, k := range m.AutoApprove {
		if k == kind {
			return true, true
		}
	}
	return false, true
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	return append(json.RawMessage{}, raw...)
}
