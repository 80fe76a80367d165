// Package scenario drives a DeBot browser through the scripted scenarios
// and reports what happened to an appender.
package scenario

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ever-guild/debot-harness/browser"
	"github.com/ever-guild/debot-harness/logutils"
	"github.com/ever-guild/debot-harness/params"
)

// Runner runs scenarios one after another. The first failing call stops
// the run.
type Runner struct {
	browser  browser.Browser
	settings Settings
	out      logutils.Appender
	logger   *zap.Logger
}

func NewRunner(b browser.Browser, s Settings, out logutils.Appender, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		browser:  b,
		settings: s,
		out:      out,
		logger:   logger.Named("scenario"),
	}
}

// Run prints the header and runs every enabled scenario in order.
func (r *Runner) Run(ctx context.Context) error {
	r.out.Append("NETWORK=" + r.settings.Network)
	r.out.Append("DEBOT=" + r.settings.TestDebot)

	if r.settings.InitLog {
		if err := r.browser.InitLog(); err != nil {
			return errors.Wrap(err, "init_log")
		}
	}

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{params.ScenarioSingle, r.singleShot},
		{params.ScenarioRepeat, r.repeatedRun},
		{params.ScenarioParallel, r.parallelCreate},
		{params.ScenarioSigning, r.signingBox},
	}
	for _, step := range steps {
		if !r.settings.enabled(step.name) {
			continue
		}
		if err := step.run(ctx); err != nil {
			r.logger.Error("scenario failed", zap.String("scenario", step.name), zap.Error(err))
			return errors.Wrapf(err, "scenario %s", step.name)
		}
	}
	return nil
}

// time logs how long a named phase took, like console.time/timeEnd.
func (r *Runner) time(phase string) func() {
	start := time.Now()
	return func() {
		r.logger.Info("phase completed", zap.String("phase", phase), zap.Duration("elapsed", time.Since(start)))
	}
}

func (r *Runner) singleShot(ctx context.Context) error {
	r.out.Append("Test 1. run_debot_browser")
	_, err := r.SingleShot(ctx)
	if err != nil {
		return err
	}
	r.out.Append("Test 1. Completed")
	return nil
}

// SingleShot runs the test manifest with run_debot_browser.
func (r *Runner) SingleShot(ctx context.Context) (browser.Result, error) {
	done := r.time("Test 1")
	res, err := r.browser.RunDebotBrowser(ctx, r.settings.Endpoint, r.settings.Wallet, r.settings.PubKey, nil, r.settings.TestManifest)
	if err != nil {
		return nil, errors.Wrap(err, "run_debot_browser")
	}
	done()
	r.out.Append("Result:")
	r.out.Append(resultText(res))
	return res, nil
}

func (r *Runner) repeatedRun(ctx context.Context) error {
	r.out.Append(fmt.Sprintf("Test 2. Create, run, destroy browser (%d calls)", r.settings.RepeatCount))
	_, err := r.RepeatedRun(ctx)
	if err != nil {
		return err
	}
	r.out.Append("Test 2. Completed")
	return nil
}

// RepeatedRun creates one session, runs the test manifest RepeatCount
// times in it and destroys it. It returns the last result.
func (r *Runner) RepeatedRun(ctx context.Context) (browser.Result, error) {
	h, err := r.browser.CreateBrowser(ctx, r.settings.Endpoint, r.settings.TestDebot, r.settings.Wallet, r.settings.PubKey)
	if err != nil {
		return nil, errors.Wrap(err, "create_browser")
	}

	done := r.time("Test 2")
	var res browser.Result
	for i := 0; i < r.settings.RepeatCount; i++ {
		res, err = r.browser.RunBrowser(ctx, h, r.settings.TestManifest)
		if err != nil {
			return nil, errors.Wrapf(err, "run_browser #%d", i+1)
		}
	}
	done()
	r.logger.Debug("run_browser result", zap.ByteString("result", res))
	r.out.Append(compactJSON(res))

	if err := r.browser.DestroyBrowser(ctx, h); err != nil {
		return nil, errors.Wrap(err, "destroy_browser")
	}
	return res, nil
}

func (r *Runner) parallelCreate(ctx context.Context) error {
	r.out.Append(fmt.Sprintf("Test 3. Create %d browsers in parallel", r.settings.ParallelSessions))
	if _, err := r.ParallelCreate(ctx); err != nil {
		return err
	}
	r.out.Append("Test 3. Completed")
	return nil
}

// ParallelCreate issues ParallelSessions create calls at once and returns
// the handles in the order the calls were issued. The sessions are left
// open.
func (r *Runner) ParallelCreate(ctx context.Context) ([]browser.Handle, error) {
	done := r.time("Test 3")
	handles, err := fanOut(ctx, r.settings.ParallelSessions, func(ctx context.Context, i int) (browser.Handle, error) {
		h, err := r.browser.CreateBrowser(ctx, r.settings.Endpoint, r.settings.TestDebot, r.settings.Wallet, r.settings.PubKey)
		return h, errors.Wrapf(err, "create_browser #%d", i+1)
	})
	if err != nil {
		return nil, err
	}

	names := make([]string, len(handles))
	for i, h := range handles {
		names[i] = fmt.Sprintf("handle%d = %s", i+1, h)
	}
	r.out.Append(strings.Join(names, " "))
	done()
	return handles, nil
}

// fanOut calls fn for 0..n-1 concurrently and stores every result at its
// index, whatever order the calls finish in.
func fanOut(ctx context.Context, n int, fn func(context.Context, int) (browser.Handle, error)) ([]browser.Handle, error) {
	handles := make([]browser.Handle, n)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			h, err := fn(ctx, i)
			if err != nil {
				return err
			}
			handles[i] = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return handles, nil
}

func (r *Runner) signingBox(ctx context.Context) error {
	r.out.Append("Test 4. Create, register box, update settings, run, destroy")
	res, err := r.SigningBox(ctx)
	if err != nil {
		return err
	}
	r.out.Append("Result: " + compactJSON(res))
	r.out.Append("Test 4. Completed")
	return nil
}

// SigningBox runs the send manifest in a session whose user settings point
// at a signing box backed by the configured key pair.
func (r *Runner) SigningBox(ctx context.Context) (browser.Result, error) {
	done := r.time("Test 4")
	h, err := r.browser.CreateBrowser(ctx, r.settings.Endpoint, r.settings.SendDebot, "", "")
	if err != nil {
		return nil, errors.Wrap(err, "create_browser")
	}

	box := browser.NewKeyPairSigningBox(r.browser, r.settings.KeyPair)
	sbox, err := r.browser.RegisterSigningBox(ctx, h, box)
	if err != nil {
		return nil, errors.Wrap(err, "register_signing_box")
	}

	err = r.browser.UpdateUserSettings(ctx, h, browser.UserSettings{
		Wallet:     r.settings.Wallet,
		PubKey:     r.settings.PubKey,
		SigningBox: sbox,
	})
	if err != nil {
		return nil, errors.Wrap(err, "update_user_settings")
	}

	res, err := r.browser.RunBrowser(ctx, h, r.settings.SendManifest)
	if err != nil {
		return nil, errors.Wrap(err, "run_browser")
	}
	r.logger.Debug("run_browser result", zap.ByteString("result", res))

	if err := r.browser.CloseSigningBox(ctx, h, sbox); err != nil {
		return nil, errors.Wrap(err, "close_signing_box")
	}
	if err := r.browser.DestroyBrowser(ctx, h); err != nil {
		return nil, errors.Wrap(err, "destroy_browser")
	}
	done()
	return res, nil
}

func resultText(res browser.Result) string {
	if len(res) == 0 {
		return "null"
	}
	return string(res)
}

func compactJSON(res browser.Result) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, res); err != nil {
		return resultText(res)
	}
	return buf.String()
}
