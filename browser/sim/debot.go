package sim

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/ever-guild/debot-harness/browser"
	debotErrors "github.com/ever-guild/debot-harness/errors"
	"github.com/ever-guild/debot-harness/manifest"
)

// Function is a DeBot entry point. It returns the payload the DeBot sends
// back to the browser when it exits, or nil when it does not report one.
type Function func(ctx context.Context, inv *Invocation) (json.RawMessage, error)

// Debot is a simulated DeBot: a named set of entry points.
type Debot struct {
	Name      string
	Functions map[string]Function
}

// Invocation is what a running DeBot sees of the browser.
type Invocation struct {
	Method string
	Args   json.RawMessage

	proc     *ChainProcessor
	settings browser.UserSettings
	box      func(browser.SigningBoxHandle) (browser.SigningBox, error)
	logger   *zap.Logger
}

// Input asks iface.method and returns the answer's params.
func (inv *Invocation) Input(iface, method string) (json.RawMessage, error) {
	params, err := inv.proc.NextInput(iface, method)
	if err != nil {
		return nil, debotErrors.New(debotErrors.ErrorCodeInterfaceCallFailed, fmt.Sprintf("%s.%s: %v", iface, method, err))
	}
	inv.logger.Debug("input answered", zap.String("interface", iface), zap.String("method", method))
	return params, nil
}

// UserInfo returns the settings the session had when the run started.
func (inv *Invocation) UserInfo() browser.UserSettings {
	return inv.settings
}

// Approve asks the user to approve an activity.
func (inv *Invocation) Approve(kind manifest.ApproveKind) (bool, error) {
	approved, err := inv.proc.NextApprove(kind)
	if err != nil {
		return false, debotErrors.New(debotErrors.ErrorCodeInterfaceCallFailed, fmt.Sprintf("approve %s: %v", kind, err))
	}
	inv.logger.Debug("activity approval", zap.String("kind", string(kind)), zap.Bool("approved", approved))
	return approved, nil
}

// SigningBox returns the box from the user settings, or asks for one
// through the chain when the settings have none.
func (inv *Invocation) SigningBox() (browser.SigningBox, error) {
	handle := inv.settings.SigningBox
	if handle == 0 {
		var err error
		handle, err = inv.proc.NextSigningBox()
		if err != nil {
			return nil, debotErrors.New(debotErrors.ErrorCodeInterfaceCallFailed, fmt.Sprintf("signing box input: %v", err))
		}
	}
	return inv.box(handle)
}

func decodeArgs(inv *Invocation, dst interface{}) error {
	if len(inv.Args) == 0 {
		return debotErrors.New(debotErrors.ErrorCodeInterfaceCallFailed, inv.Method+": init args are missing")
	}
	if err := json.Unmarshal(inv.Args, dst); err != nil {
		return debotErrors.New(debotErrors.ErrorCodeInterfaceCallFailed, fmt.Sprintf("%s: invalid init args: %v", inv.Method, err))
	}
	return nil
}
