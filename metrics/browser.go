package metrics

import (
	"context"
	"errors"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/ever-guild/debot-harness/browser"
	debotErrors "github.com/ever-guild/debot-harness/errors"
	"github.com/ever-guild/debot-harness/manifest"
)

const statusOK = "ok"

// BrowserMetrics holds the collectors InstrumentBrowser reports to.
type BrowserMetrics struct {
	calls    *prom.CounterVec
	duration *prom.HistogramVec
	sessions prom.Gauge
}

// NewBrowserMetrics creates the collectors and registers them with reg.
func NewBrowserMetrics(reg prom.Registerer) (*BrowserMetrics, error) {
	m := &BrowserMetrics{
		calls: prom.NewCounterVec(prom.CounterOpts{
			Name: "debot_browser_calls_total",
			Help: "Calls to the DeBot browser by method and result code.",
		}, []string{"method", "status"}),
		duration: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "debot_browser_call_duration_seconds",
			Help:    "Latency of DeBot browser calls.",
			Buckets: prom.ExponentialBuckets(0.001, 4, 10),
		}, []string{"method"}),
		sessions: prom.NewGauge(prom.GaugeOpts{
			Name: "debot_browser_sessions",
			Help: "Sessions created and not destroyed yet.",
		}),
	}
	for _, c := range []prom.Collector{m.calls, m.duration, m.sessions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *BrowserMetrics) observe(method string, start time.Time, err error) {
	m.duration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	m.calls.WithLabelValues(method, status(err)).Inc()
}

func status(err error) string {
	if err == nil {
		return statusOK
	}
	var resp *debotErrors.ErrorResponse
	if !errors.As(err, &resp) || resp.Code == debotErrors.ErrorCodeUnknown {
		return "unknown"
	}
	return string(resp.Code)
}

// InstrumentBrowser wraps b so that every call is counted and timed.
func InstrumentBrowser(b browser.Browser, m *BrowserMetrics) browser.Browser {
	return &instrumentedBrowser{next: b, m: m}
}

type instrumentedBrowser struct {
	next browser.Browser
	m    *BrowserMetrics
}

func (b *instrumentedBrowser) InitLog() error {
	start := time.Now()
	err := b.next.InitLog()
	b.m.observe("init_log", start, err)
	return err
}

func (b *instrumentedBrowser) Sign(keys browser.KeyPair, unsigned []byte) (*browser.SignResult, error) {
	start := time.Now()
	res, err := b.next.Sign(keys, unsigned)
	b.m.observe("sign", start, err)
	return res, err
}

func (b *instrumentedBrowser) RunDebotBrowser(ctx context.Context, endpoint, wallet, pubkey string, box browser.SigningBox, m *manifest.Manifest) (browser.Result, error) {
	start := time.Now()
	res, err := b.next.RunDebotBrowser(ctx, endpoint, wallet, pubkey, box, m)
	b.m.observe("run_debot_browser", start, err)
	return res, err
}

func (b *instrumentedBrowser) CreateBrowser(ctx context.Context, endpoint, debotAddr, wallet, pubkey string) (browser.Handle, error) {
	start := time.Now()
	h, err := b.next.CreateBrowser(ctx, endpoint, debotAddr, wallet, pubkey)
	b.m.observe("create_browser", start, err)
	if err == nil {
		b.m.sessions.Inc()
	}
	return h, err
}

func (b *instrumentedBrowser) RunBrowser(ctx context.Context, h browser.Handle, m *manifest.Manifest) (browser.Result, error) {
	start := time.Now()
	res, err := b.next.RunBrowser(ctx, h, m)
	b.m.observe("run_browser", start, err)
	return res, err
}

func (b *instrumentedBrowser) RegisterSigningBox(ctx context.Context, h browser.Handle, box browser.SigningBox) (browser.SigningBoxHandle, error) {
	start := time.Now()
	sbox, err := b.next.RegisterSigningBox(ctx, h, box)
	b.m.observe("register_signing_box", start, err)
	return sbox, err
}

func (b *instrumentedBrowser) UpdateUserSettings(ctx context.Context, h browser.Handle, s browser.UserSettings) error {
	start := time.Now()
	err := b.next.UpdateUserSettings(ctx, h, s)
	b.m.observe("update_user_settings", start, err)
	return err
}

func (b *instrumentedBrowser) CloseSigningBox(ctx context.Context, h browser.Handle, sbox browser.SigningBoxHandle) error {
	start := time.Now()
	err := b.next.CloseSigningBox(ctx, h, sbox)
	b.m.observe("close_signing_box", start, err)
	return err
}

func (b *instrumentedBrowser) DestroyBrowser(ctx context.Context, h browser.Handle) error {
	start := time.Now()
	err := b.next.DestroyBrowser(ctx, h)
	b.m.observe("destroy_browser", start, err)
	if err == nil {
		b.m.sessions.Dec()
	}
	return err
}
