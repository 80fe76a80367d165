package scenario

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ever-guild/debot-harness/browser"
	mockbrowser "github.com/ever-guild/debot-harness/browser/mock"
	"github.com/ever-guild/debot-harness/logutils"
	"github.com/ever-guild/debot-harness/params"
)

const (
	endpoint = "https://devnet.evercloud.dev/" + params.DefaultProjectID + "/graphql"
	wallet   = params.DefaultWallet
	pubkey   = "0x" + "9f7fd3df9d72b133fe155c087928c4f9da423076cc20c9f5386614b462e49811"
)

var okResult = browser.Result(`{"ok":true}`)

func TestRunnerTestSuite(t *testing.T) {
	suite.Run(t, new(RunnerTestSuite))
}

type RunnerTestSuite struct {
	suite.Suite

	ctrl     *gomock.Controller
	browser  *mockbrowser.MockBrowser
	out      *logutils.MemoryAppender
	logs     *observer.ObservedLogs
	settings Settings
}

func (s *RunnerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.browser = mockbrowser.NewMockBrowser(s.ctrl)
	s.out = &logutils.MemoryAppender{}

	config := params.NewConfig()
	s.Require().NoError(config.Validate())
	var err error
	s.settings, err = SettingsFromConfig(config)
	s.Require().NoError(err)
}

func (s *RunnerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *RunnerTestSuite) runner() *Runner {
	core, logs := observer.New(zap.DebugLevel)
	s.logs = logs
	return NewRunner(s.browser, s.settings, s.out, zap.New(core))
}

func (s *RunnerTestSuite) TestSettingsFromConfig() {
	s.Equal("devnet", s.settings.Network)
	s.Equal(endpoint, s.settings.Endpoint)
	s.Equal(pubkey, s.settings.PubKey)
	s.Equal(params.DefaultTestDebotAddress, s.settings.TestManifest.DebotAddress)

	arg6, ok := s.settings.TestManifest.InitArg("arg6")
	s.Require().True(ok)
	s.JSONEq(`"`+pubkey+`"`, string(arg6))

	dest, ok := s.settings.SendManifest.InitArg("dest")
	s.Require().True(ok)
	s.JSONEq(`"`+params.DefaultSendDebotAddress+`"`, string(dest))
}

func (s *RunnerTestSuite) TestSettingsUseManifestFiles() {
	config := params.NewConfig()
	config.TestManifestFile = filepath.Join("..", "manifest", "testdata", "commented.jsonc")
	settings, err := SettingsFromConfig(config)
	s.Require().NoError(err)
	s.False(settings.TestManifest.Quiet)
	s.Len(settings.TestManifest.Chain, 3)

	config.SendManifestFile = filepath.Join("..", "manifest", "testdata", "bad_link.json")
	_, err = SettingsFromConfig(config)
	s.Error(err)
}

func (s *RunnerTestSuite) TestRunAllScenarios() {
	b := s.browser.EXPECT()
	sendBox := gomock.AssignableToTypeOf(&browser.KeyPairSigningBox{})
	gomock.InOrder(
		b.InitLog().Return(nil),

		b.RunDebotBrowser(gomock.Any(), endpoint, wallet, pubkey, nil, s.settings.TestManifest).
			Return(browser.Result(`{"status":"0"}`), nil),

		b.CreateBrowser(gomock.Any(), endpoint, params.DefaultTestDebotAddress, wallet, pubkey).Return(browser.Handle(0x10), nil),
		b.RunBrowser(gomock.Any(), browser.Handle(0x10), s.settings.TestManifest).Return(okResult, nil).Times(3),
		b.DestroyBrowser(gomock.Any(), browser.Handle(0x10)).Return(nil),

		b.CreateBrowser(gomock.Any(), endpoint, params.DefaultTestDebotAddress, wallet, pubkey).Return(browser.Handle(0x21), nil).Times(3),

		b.CreateBrowser(gomock.Any(), endpoint, params.DefaultSendDebotAddress, "", "").Return(browser.Handle(0x40), nil),
		b.RegisterSigningBox(gomock.Any(), browser.Handle(0x40), sendBox).Return(browser.SigningBoxHandle(1), nil),
		b.UpdateUserSettings(gomock.Any(), browser.Handle(0x40), browser.UserSettings{
			Wallet:     wallet,
			PubKey:     pubkey,
			SigningBox: 1,
		}).Return(nil),
		b.RunBrowser(gomock.Any(), browser.Handle(0x40), s.settings.SendManifest).
			Return(browser.Result(`{"succeed": true, "sdkError": 0, "exitCode": 0}`), nil),
		b.CloseSigningBox(gomock.Any(), browser.Handle(0x40), browser.SigningBoxHandle(1)).Return(nil),
		b.DestroyBrowser(gomock.Any(), browser.Handle(0x40)).Return(nil),
	)

	s.settings.InitLog = true
	s.Require().NoError(s.runner().Run(context.Background()))

	s.Equal([]string{
		"NETWORK=devnet",
		"DEBOT=" + params.DefaultTestDebotAddress,
		"Test 1. run_debot_browser",
		"Result:",
		`{"status":"0"}`,
		"Test 1. Completed",
		"Test 2. Create, run, destroy browser (3 calls)",
		`{"ok":true}`,
		"Test 2. Completed",
		"Test 3. Create 3 browsers in parallel",
		"handle1 = 21 handle2 = 21 handle3 = 21",
		"Test 3. Completed",
		"Test 4. Create, register box, update settings, run, destroy",
		`Result: {"succeed":true,"sdkError":0,"exitCode":0}`,
		"Test 4. Completed",
	}, s.out.Lines())

	phases := s.logs.FilterMessage("phase completed").All()
	s.Require().Len(phases, 4)
	for i, phase := range []string{"Test 1", "Test 2", "Test 3", "Test 4"} {
		s.Equal(phase, phases[i].ContextMap()["phase"])
	}
}

func (s *RunnerTestSuite) TestRepeatedRunWithStub() {
	b := s.browser.EXPECT()
	gomock.InOrder(
		b.CreateBrowser(gomock.Any(), endpoint, params.DefaultTestDebotAddress, wallet, pubkey).Return(browser.Handle(7), nil),
		b.RunBrowser(gomock.Any(), browser.Handle(7), s.settings.TestManifest).Return(okResult, nil).Times(3),
		b.DestroyBrowser(gomock.Any(), browser.Handle(7)).Return(nil),
	)

	s.settings.Scenarios = []string{params.ScenarioRepeat}
	s.Require().NoError(s.runner().Run(context.Background()))
	s.Equal(`{"ok":true}`, s.out.Lines()[3])
}

func (s *RunnerTestSuite) TestRepeatCountIsHonoured() {
	b := s.browser.EXPECT()
	gomock.InOrder(
		b.CreateBrowser(gomock.Any(), endpoint, params.DefaultTestDebotAddress, wallet, pubkey).Return(browser.Handle(7), nil),
		b.RunBrowser(gomock.Any(), browser.Handle(7), gomock.Any()).Return(okResult, nil).Times(5),
		b.DestroyBrowser(gomock.Any(), browser.Handle(7)).Return(nil),
	)

	s.settings.RepeatCount = 5
	res, err := s.runner().RepeatedRun(context.Background())
	s.Require().NoError(err)
	s.Equal(okResult, res)
}

func (s *RunnerTestSuite) TestFailedRunStopsEverything() {
	failure := errors.New("boom")
	b := s.browser.EXPECT()
	gomock.InOrder(
		b.RunDebotBrowser(gomock.Any(), endpoint, wallet, pubkey, nil, gomock.Any()).Return(okResult, nil),
		b.CreateBrowser(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(browser.Handle(7), nil),
		b.RunBrowser(gomock.Any(), browser.Handle(7), gomock.Any()).Return(okResult, nil),
		b.RunBrowser(gomock.Any(), browser.Handle(7), gomock.Any()).Return(nil, failure),
	)
	// no third run, no destroy, no later scenario

	err := s.runner().Run(context.Background())
	s.Require().Error(err)
	s.ErrorIs(err, failure)
	s.Equal(failure, pkgerrors.Cause(err))
	s.Contains(err.Error(), "scenario repeat")
	s.Contains(err.Error(), "run_browser #2")
	s.NotContains(s.out.Lines(), "Test 2. Completed")
	s.Equal(1, s.logs.FilterMessage("scenario failed").Len())
}

func (s *RunnerTestSuite) TestFailedInitLogStopsBeforeScenarios() {
	s.browser.EXPECT().InitLog().Return(errors.New("logger already set"))

	s.settings.InitLog = true
	err := s.runner().Run(context.Background())
	s.Require().Error(err)
	s.Contains(err.Error(), "init_log")
	s.Len(s.out.Lines(), 2)
}

func (s *RunnerTestSuite) TestSigningBoxOrderAndAbort() {
	failure := errors.New("settings rejected")
	b := s.browser.EXPECT()
	gomock.InOrder(
		b.CreateBrowser(gomock.Any(), endpoint, params.DefaultSendDebotAddress, "", "").Return(browser.Handle(9), nil),
		b.RegisterSigningBox(gomock.Any(), browser.Handle(9), gomock.Any()).Return(browser.SigningBoxHandle(3), nil),
		b.UpdateUserSettings(gomock.Any(), browser.Handle(9), gomock.Any()).Return(failure),
	)

	s.settings.Scenarios = []string{params.ScenarioSigning}
	err := s.runner().Run(context.Background())
	s.ErrorIs(err, failure)
	s.Contains(err.Error(), "update_user_settings")
}

func (s *RunnerTestSuite) TestSigningBoxDelegatesToBrowserSign() {
	var box browser.SigningBox
	b := s.browser.EXPECT()
	gomock.InOrder(
		b.CreateBrowser(gomock.Any(), endpoint, params.DefaultSendDebotAddress, "", "").Return(browser.Handle(9), nil),
		b.RegisterSigningBox(gomock.Any(), browser.Handle(9), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ browser.Handle, sb browser.SigningBox) (browser.SigningBoxHandle, error) {
				box = sb
				return 3, nil
			}),
		b.UpdateUserSettings(gomock.Any(), browser.Handle(9), gomock.Any()).Return(nil),
		b.RunBrowser(gomock.Any(), browser.Handle(9), gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ browser.Handle, _ interface{}) (browser.Result, error) {
				pub, err := box.PublicKey(ctx)
				if err != nil {
					return nil, err
				}
				sig, err := box.Sign(ctx, []byte("hello"))
				if err != nil {
					return nil, err
				}
				return json.Marshal(map[string]string{"pub": pub, "sig": sig})
			}),
		b.Sign(params.DefaultKeyPair, []byte("hello")).Return(&browser.SignResult{Signed: "c2ln", Signature: "abcd"}, nil),
		b.CloseSigningBox(gomock.Any(), browser.Handle(9), browser.SigningBoxHandle(3)).Return(nil),
		b.DestroyBrowser(gomock.Any(), browser.Handle(9)).Return(nil),
	)

	res, err := s.runner().SigningBox(context.Background())
	s.Require().NoError(err)
	s.JSONEq(`{"pub":"`+params.DefaultKeyPair.Public+`","sig":"abcd"}`, string(res))
}

func (s *RunnerTestSuite) TestParallelCreateFailure() {
	failure := errors.New("network down")
	s.browser.EXPECT().CreateBrowser(gomock.Any(), endpoint, params.DefaultTestDebotAddress, wallet, pubkey).
		Return(browser.Handle(1), nil).Times(2)
	s.browser.EXPECT().CreateBrowser(gomock.Any(), endpoint, params.DefaultTestDebotAddress, wallet, pubkey).
		Return(browser.Handle(0), failure)

	s.settings.Scenarios = []string{params.ScenarioParallel, params.ScenarioSigning}
	err := s.runner().Run(context.Background())
	s.ErrorIs(err, failure)
	s.NotContains(s.out.Lines(), "Test 3. Completed")
}

func TestParallelCreateIssuesWithoutWaiting(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	b := mockbrowser.NewMockBrowser(ctrl)

	const n = 4
	var inFlight sync.WaitGroup
	inFlight.Add(n)
	var seq browser.Handle
	var seqMx sync.Mutex
	b.EXPECT().CreateBrowser(gomock.Any(), "net.ton.dev", params.DefaultTestDebotAddress, "", "").
		DoAndReturn(func(context.Context, string, string, string, string) (browser.Handle, error) {
			inFlight.Done()
			// every call has to be issued before any of them returns
			inFlight.Wait()
			seqMx.Lock()
			defer seqMx.Unlock()
			seq++
			return seq, nil
		}).Times(n)

	r := NewRunner(b, Settings{Endpoint: "net.ton.dev", TestDebot: params.DefaultTestDebotAddress, ParallelSessions: n}, &logutils.MemoryAppender{}, nil)
	handles, err := r.ParallelCreate(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []browser.Handle{1, 2, 3, 4}, handles)
}

func TestFanOutKeepsIssuanceOrder(t *testing.T) {
	const n = 5
	handles, err := fanOut(context.Background(), n, func(ctx context.Context, i int) (browser.Handle, error) {
		// the first issued call finishes last
		time.Sleep(time.Duration(n-i) * 10 * time.Millisecond)
		return browser.Handle(100 + i), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []browser.Handle{100, 101, 102, 103, 104}, handles)
}

func TestFanOutReturnsFirstError(t *testing.T) {
	failure := errors.New("fail")
	_, err := fanOut(context.Background(), 3, func(ctx context.Context, i int) (browser.Handle, error) {
		if i == 1 {
			return 0, failure
		}
		return browser.Handle(i + 1), nil
	})
	assert.ErrorIs(t, err, failure)
}
