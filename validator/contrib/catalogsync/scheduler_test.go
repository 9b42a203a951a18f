package catalogsync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/BigKAA/redpen-go/validator"
)

type staticSource struct{}

func (staticSource) Snapshot(lang string) validator.Snapshot {
	return validator.Snapshot{
		Lang:        lang,
		GeneratedAt: time.Now().UTC(),
		Validators:  []validator.ValidatorConfiguration{{Name: "SentenceLength"}},
	}
}

// mockPublisher records snapshots; failing makes Publish return an error.
type mockPublisher struct {
	name    string
	failing atomic.Bool
	calls   atomic.Int64

	mu    sync.Mutex
	langs []string
}

func (m *mockPublisher) Name() string { return m.name }

func (m *mockPublisher) Publish(_ context.Context, snap validator.Snapshot) error {
	m.calls.Add(1)
	if m.failing.Load() {
		return errors.New("broker unavailable")
	}
	m.mu.Lock()
	m.langs = append(m.langs, snap.Lang)
	m.mu.Unlock()
	return nil
}

type panicPublisher struct{}

func (panicPublisher) Name() string { return "panic" }

func (panicPublisher) Publish(context.Context, validator.Snapshot) error {
	panic("test panic")
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewScheduler_Validation(t *testing.T) {
	pub := &mockPublisher{name: "a"}

	tests := []struct {
		name string
		pubs []Publisher
		opts []Option
	}{
		{name: "no publishers"},
		{name: "duplicate names", pubs: []Publisher{pub, &mockPublisher{name: "a"}}},
		{name: "zero interval", pubs: []Publisher{pub}, opts: []Option{WithInterval(0)}},
		{name: "zero timeout", pubs: []Publisher{pub}, opts: []Option{WithTimeout(0)}},
		{name: "zero threshold", pubs: []Publisher{pub}, opts: []Option{WithFailureThreshold(0)}},
		{name: "no languages", pubs: []Publisher{pub}, opts: []Option{WithLanguages()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewScheduler(staticSource{}, tt.pubs, tt.opts...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestScheduler_PublishOnce(t *testing.T) {
	pub := &mockPublisher{name: "kafka"}
	s, err := NewScheduler(staticSource{}, []Publisher{pub},
		WithLanguages("en", "ja"),
		WithLogger(quietLogger()),
	)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	if err := s.PublishOnce(context.Background()); err != nil {
		t.Fatalf("PublishOnce: %v", err)
	}
	if strings.Join(pub.langs, ",") != "en,ja" {
		t.Errorf("published languages = %v, expected [en ja]", pub.langs)
	}
	if up, ok := s.Health()["kafka"]; !ok || !up {
		t.Errorf("Health() = %v, expected kafka up", s.Health())
	}
}

func TestScheduler_FailureThreshold(t *testing.T) {
	pub := &mockPublisher{name: "amqp"}
	reg := prometheus.NewRegistry()
	s, err := NewScheduler(staticSource{}, []Publisher{pub},
		WithFailureThreshold(2),
		WithLogger(quietLogger()),
		WithRegisterer(reg),
	)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	ctx := context.Background()

	_ = s.PublishOnce(ctx)
	pub.failing.Store(true)

	if err := s.PublishOnce(ctx); err == nil {
		t.Fatal("expected publish error")
	}
	if !s.Health()["amqp"] {
		t.Error("one failure below threshold must keep the publisher up")
	}

	_ = s.PublishOnce(ctx)
	if s.Health()["amqp"] {
		t.Error("publisher should be down after reaching the threshold")
	}
	if got := testutil.ToFloat64(s.metrics.up.WithLabelValues("amqp")); got != 0 {
		t.Errorf("publisher_up = %v, expected 0", got)
	}
	if got := testutil.ToFloat64(s.metrics.published.WithLabelValues("amqp", "error")); got != 2 {
		t.Errorf("error count = %v, expected 2", got)
	}

	pub.failing.Store(false)
	_ = s.PublishOnce(ctx)
	if !s.Health()["amqp"] {
		t.Error("publisher should recover after a successful round")
	}
}

func TestScheduler_FirstRoundFailure(t *testing.T) {
	pub := &mockPublisher{name: "kafka"}
	pub.failing.Store(true)
	s, err := NewScheduler(staticSource{}, []Publisher{pub}, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	_ = s.PublishOnce(context.Background())
	if up, ok := s.Health()["kafka"]; !ok || up {
		t.Errorf("Health() = %v, expected kafka down after failed first round", s.Health())
	}
}

func TestScheduler_StartStop(t *testing.T) {
	pub := &mockPublisher{name: "kafka"}
	s, err := NewScheduler(staticSource{}, []Publisher{pub},
		WithInterval(50*time.Millisecond),
		WithLogger(quietLogger()),
	)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start: expected ErrAlreadyStarted, got %v", err)
	}

	time.Sleep(180 * time.Millisecond)
	s.Stop()
	s.Stop()

	calls := pub.calls.Load()
	if calls < 2 {
		t.Errorf("expected at least 2 publish rounds, got %d", calls)
	}

	time.Sleep(100 * time.Millisecond)
	if pub.calls.Load() != calls {
		t.Error("publisher called after Stop")
	}
}

func TestScheduler_PanicRecovery(t *testing.T) {
	s, err := NewScheduler(staticSource{}, []Publisher{panicPublisher{}}, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	err = s.PublishOnce(context.Background())
	if err == nil || !strings.Contains(err.Error(), "panic in publisher") {
		t.Errorf("expected recovered panic, got %v", err)
	}
}

func TestScheduler_StopBeforeStart(t *testing.T) {
	s, err := NewScheduler(staticSource{}, []Publisher{&mockPublisher{name: "x"}})
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	s.Stop()
}

func TestScheduler_FactorySource(t *testing.T) {
	f, err := validator.NewFactory(
		validator.WithCatalog(validator.NewCatalog()),
		validator.WithLogger(quietLogger()),
	)
	if err != nil {
		t.Fatalf("NewFactory: %v", err)
	}
	pub := &mockPublisher{name: "kafka"}
	s, err := NewScheduler(f, []Publisher{pub}, WithLanguages("ja"), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	if err := s.PublishOnce(context.Background()); err != nil {
		t.Fatalf("PublishOnce: %v", err)
	}
	if len(pub.langs) != 1 || pub.langs[0] != "ja" {
		t.Errorf("published %v", pub.langs)
	}
}
