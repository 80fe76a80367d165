package sim

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"github.com/ever-guild/debot-harness/browser"
	debotErrors "github.com/ever-guild/debot-harness/errors"
	"github.com/ever-guild/debot-harness/manifest"
)

// Interface ids of the input interfaces the invoke-test DeBot uses.
const (
	AmountInputID  = "a1d347099e29c1624c8890619daf207bde18e92df5220a54bcc6d858309ece84"
	TerminalID     = "8796536366ee21852db56dccb60bc564598b618c865fc50c8b1ab740bba128e3"
	ConfirmInputID = "16653eaf34c921467120f2685d425ff963db5cbb5aa676a62a2e33bfc3f6828a"
	MenuID         = "ac1a4d3ecea232e49783df4a23a81823cdca3205dc58cd20c4db259c25605b48"
	AddressInputID = "d7ed1bd8e6230871116f4522e58df0a93c5520c56f4ade23ef3d8919a984653b"
)

// InvokeTestDebot asks five questions and reports, in status, the number of
// the first answer that does not match its init argument (0 when all do).
// ret1 echoes arg7.
func InvokeTestDebot() *Debot {
	return &Debot{
		Name:      "InvokeTest",
		Functions: map[string]Function{"invokeTest": invokeTest},
	}
}

type invokeTestArgs struct {
	Arg1 string          `json:"arg1"`
	Arg2 string          `json:"arg2"`
	Arg3 bool            `json:"arg3"`
	Arg4 int             `json:"arg4"`
	Arg5 string          `json:"arg5"`
	Arg6 string          `json:"arg6"`
	Arg7 json.RawMessage `json:"arg7"`
}

func invokeTest(ctx context.Context, inv *Invocation) (json.RawMessage, error) {
	var args invokeTestArgs
	if err := decodeArgs(inv, &args); err != nil {
		return nil, err
	}

	var (
		amount, text, address string
		confirmed             bool
		index                 int
	)
	questions := []struct {
		iface, method, field string
		dst                  interface{}
	}{
		{AmountInputID, "get", "value", &amount},
		{TerminalID, "input", "value", &text},
		{ConfirmInputID, "get", "value", &confirmed},
		{MenuID, "select", "index", &index},
		{AddressInputID, "get", "value", &address},
	}
	for _, q := range questions {
		params, err := inv.Input(q.iface, q.method)
		if err != nil {
			return nil, err
		}
		if err := answerField(params, q.field, q.dst); err != nil {
			return nil, debotErrors.New(debotErrors.ErrorCodeInterfaceCallFailed, fmt.Sprintf("%s.%s: %v", q.iface, q.method, err))
		}
	}

	status := 0
	checks := []bool{
		amount == args.Arg1,
		text == args.Arg2,
		confirmed == args.Arg3,
		index == args.Arg4,
		address == args.Arg5,
		inv.UserInfo().PubKey == "" || inv.UserInfo().PubKey == args.Arg6,
	}
	for i, ok := range checks {
		if !ok {
			status = i + 1
			break
		}
	}
	inv.logger.Debug("invoke test completed", zap.Int("status", status))

	ret1 := args.Arg7
	if len(ret1) == 0 {
		ret1 = json.RawMessage(`{}`)
	}
	return json.Marshal(struct {
		Status string          `json:"status"`
		Ret1   json.RawMessage `json:"ret1"`
	}{strconv.Itoa(status), ret1})
}

func answerField(params json.RawMessage, field string, dst interface{}) error {
	var answer map[string]json.RawMessage
	if err := json.Unmarshal(params, &answer); err != nil {
		return fmt.Errorf("answer is not an object: %w", err)
	}
	raw, ok := answer[field]
	if !ok {
		return fmt.Errorf("answer has no %q", field)
	}
	return json.Unmarshal(raw, dst)
}

// SendDebot transfers tokens from the user's wallet. It takes the signing
// box first, then asks to approve the transfer as an on-chain call.
func SendDebot() *Debot {
	return &Debot{
		Name:      "Send",
		Functions: map[string]Function{"invokeSend": invokeSend},
	}
}

type sendArgs struct {
	Dest   string      `json:"dest"`
	Amount json.Number `json:"amount"`
	Bounce bool        `json:"bounce"`
}

type sendResult struct {
	Succeed  bool `json:"succeed"`
	SdkError int  `json:"sdkError"`
	ExitCode int  `json:"exitCode"`
}

func invokeSend(ctx context.Context, inv *Invocation) (json.RawMessage, error) {
	var args sendArgs
	if err := decodeArgs(inv, &args); err != nil {
		return nil, err
	}
	settings := inv.UserInfo()
	if settings.Wallet == "" {
		return nil, debotErrors.New(debotErrors.ErrorCodeInterfaceCallFailed, "user wallet is not set")
	}

	box, err := inv.SigningBox()
	if err != nil {
		return nil, err
	}
	approved, err := inv.Approve(manifest.ApproveOnChainCall)
	if err != nil {
		return nil, err
	}
	if !approved {
		return json.Marshal(sendResult{})
	}

	pubkey, err := box.PublicKey(ctx)
	if err != nil {
		return nil, debotErrors.New(debotErrors.ErrorCodeSigningFailed, err.Error())
	}
	if err := matchUserKey(settings.PubKey, pubkey); err != nil {
		return nil, err
	}

	unsigned, err := json.Marshal(struct {
		Src    string      `json:"src"`
		Dst    string      `json:"dst"`
		Amount json.Number `json:"amount"`
		Bounce bool        `json:"bounce"`
	}{settings.Wallet, args.Dest, args.Amount, args.Bounce})
	if err != nil {
		return nil, err
	}
	signature, err := box.Sign(ctx, unsigned)
	if err != nil {
		return nil, debotErrors.New(debotErrors.ErrorCodeSigningFailed, err.Error())
	}
	if err := browser.VerifySignature(pubkey, unsigned, signature); err != nil {
		return nil, err
	}
	inv.logger.Debug("transfer signed", zap.String("dst", args.Dest), zap.String("amount", args.Amount.String()))
	return json.Marshal(sendResult{Succeed: true})
}

// matchUserKey checks the signing box key against the 0x prefixed key from
// the user settings, when there is one.
func matchUserKey(userKey, boxKey string) error {
	if userKey == "" {
		return nil
	}
	user, err := hexutil.Decode(userKey)
	if err != nil {
		return debotErrors.New(debotErrors.ErrorCodeSigningFailed, fmt.Sprintf("user public key: %v", err))
	}
	box, err := hex.DecodeString(boxKey)
	if err != nil || !bytes.Equal(user, box) {
		return debotErrors.New(debotErrors.ErrorCodeSigningFailed, "signing box key does not match user public key")
	}
	return nil
}
