package manifest

import (
	_ "embed"
)

var (
	//go:embed assets/default.json
	defaultJSON []byte

	//go:embed assets/send.json
	sendJSON []byte
)

// Default returns the invoke-test manifest targeting debotAddr, with arg6
// set to the user's public key.
func Default(debotAddr, pubkey string) (*Manifest, error) {
	m, err := Parse(defaultJSON)
	if err != nil {
		return nil, err
	}
	m.DebotAddress = debotAddr
	if err := m.SetInitArg("arg6", pubkey); err != nil {
		return nil, err
	}
	return m, nil
}

// Send returns the send manifest: debotAddr transfers to itself.
func Send(debotAddr string) (*Manifest, error) {
	m, err := Parse(sendJSON)
	if err != nil {
		return nil, err
	}
	m.DebotAddress = debotAddr
	if err := m.SetInitArg("dest", debotAddr); err != nil {
		return nil, err
	}
	return m, nil
}
