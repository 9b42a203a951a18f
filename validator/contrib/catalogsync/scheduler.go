// Package catalogsync periodically publishes validator catalog snapshots.
//
// Each publisher runs in its own goroutine: one publish round right after
// Start, then one per interval. A publisher is reported down after
// FailureThreshold consecutive failed rounds and up again after the first
// successful one.
package catalogsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/BigKAA/redpen-go/validator"
)

// Sentinel errors for the scheduler.
var (
	ErrAlreadyStarted = errors.New("scheduler already started")
	ErrNoPublishers   = errors.New("no publishers")
)

// Defaults.
const (
	DefaultInterval         = 5 * time.Minute
	DefaultTimeout          = 10 * time.Second
	DefaultFailureThreshold = 3
)

// Publisher delivers a snapshot somewhere. kafkapub.Publisher and
// amqppub.Publisher implement it.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, snap validator.Snapshot) error
}

// Source produces snapshots; *validator.Factory implements it.
type Source interface {
	Snapshot(lang string) validator.Snapshot
}

type publisherState struct {
	mu                  sync.Mutex
	up                  *bool // nil until the first round completes
	consecutiveFailures int
}

// Scheduler publishes snapshots for a fixed set of languages.
type Scheduler struct {
	source     Source
	publishers []Publisher
	cfg        config
	metrics    *metrics

	states  map[string]*publisherState
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	stopped bool
	mu      sync.Mutex
}

// Option configures a Scheduler.
type Option func(*config) error

type config struct {
	interval         time.Duration
	timeout          time.Duration
	failureThreshold int
	langs            []string
	logger           *slog.Logger
	registerer       prometheus.Registerer
}

// WithInterval sets the time between publish rounds.
func WithInterval(d time.Duration) Option {
	return func(c *config) error {
		if d <= 0 {
			return fmt.Errorf("interval must be positive, got %s", d)
		}
		c.interval = d
		return nil
	}
}

// WithTimeout bounds a single Publish call.
func WithTimeout(d time.Duration) Option {
	return func(c *config) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", d)
		}
		c.timeout = d
		return nil
	}
}

// WithFailureThreshold sets how many failed rounds mark a publisher down.
func WithFailureThreshold(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return fmt.Errorf("failure threshold must be at least 1, got %d", n)
		}
		c.failureThreshold = n
		return nil
	}
}

// WithLanguages sets the languages published each round.
func WithLanguages(langs ...string) Option {
	return func(c *config) error {
		if len(langs) == 0 {
			return errors.New("at least one language is required")
		}
		c.langs = append([]string(nil), langs...)
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) error {
		c.logger = l
		return nil
	}
}

// WithRegisterer enables publish metrics on r.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(c *config) error {
		c.registerer = r
		return nil
	}
}

// NewScheduler creates a scheduler publishing snapshots of source.
func NewScheduler(source Source, publishers []Publisher, opts ...Option) (*Scheduler, error) {
	if len(publishers) == 0 {
		return nil, ErrNoPublishers
	}

	cfg := config{
		interval:         DefaultInterval,
		timeout:          DefaultTimeout,
		failureThreshold: DefaultFailureThreshold,
		langs:            []string{validator.DefaultLang},
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, fmt.Errorf("catalogsync: %w", err)
		}
	}

	s := &Scheduler{
		source:     source,
		publishers: publishers,
		cfg:        cfg,
		states:     make(map[string]*publisherState, len(publishers)),
	}
	if cfg.registerer != nil {
		m, err := newMetrics(cfg.registerer)
		if err != nil {
			return nil, fmt.Errorf("catalogsync: %w", err)
		}
		s.metrics = m
	}
	for _, p := range publishers {
		if _, dup := s.states[p.Name()]; dup {
			return nil, fmt.Errorf("catalogsync: duplicate publisher %q", p.Name())
		}
		s.states[p.Name()] = &publisherState{}
	}
	return s, nil
}

// Start launches one publish loop per publisher.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	for _, p := range s.publishers {
		s.wg.Add(1)
		go s.runLoop(ctx, p, s.states[p.Name()])
	}
	return nil
}

// Stop cancels all loops and waits for them. Repeated calls are no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped || !s.started {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
}

// Health reports whether each publisher is up. Publishers that have not
// completed a round yet are omitted.
func (s *Scheduler) Health() map[string]bool {
	result := make(map[string]bool, len(s.states))
	for name, st := range s.states {
		st.mu.Lock()
		if st.up != nil {
			result[name] = *st.up
		}
		st.mu.Unlock()
	}
	return result
}

// PublishOnce runs a single round for every publisher synchronously and
// returns the joined errors.
func (s *Scheduler) PublishOnce(ctx context.Context) error {
	var errs []error
	for _, p := range s.publishers {
		if err := s.round(ctx, p, s.states[p.Name()]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Scheduler) runLoop(ctx context.Context, p Publisher, st *publisherState) {
	defer s.wg.Done()

	_ = s.round(ctx, p, st)

	ticker := time.NewTicker(s.cfg.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.round(ctx, p, st)
		}
	}
}

// round publishes every configured language through p and updates its state.
func (s *Scheduler) round(ctx context.Context, p Publisher, st *publisherState) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var errs []error
	for _, lang := range s.cfg.langs {
		snap := s.source.Snapshot(lang)

		pubCtx, cancel := context.WithTimeout(ctx, s.cfg.timeout)
		start := time.Now()
		err := s.safePublish(pubCtx, p, snap)
		cancel()
		s.metrics.observe(p.Name(), time.Since(start), err)

		if err != nil {
			s.cfg.logger.LogAttrs(ctx, slog.LevelWarn, "catalogsync: publish failed",
				slog.String("publisher", p.Name()),
				slog.String("lang", lang),
				slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("%s/%s: %w", p.Name(), lang, err))
		}
	}
	err := errors.Join(errs...)
	s.updateState(ctx, p.Name(), st, err == nil)
	return err
}

func (s *Scheduler) updateState(ctx context.Context, name string, st *publisherState, ok bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if ok {
		st.consecutiveFailures = 0
		if st.up != nil && !*st.up {
			s.cfg.logger.LogAttrs(ctx, slog.LevelInfo, "catalogsync: publisher recovered",
				slog.String("publisher", name))
		}
		up := true
		st.up = &up
		s.metrics.setUp(name, true)
		return
	}

	st.consecutiveFailures++
	if st.up == nil || (*st.up && st.consecutiveFailures >= s.cfg.failureThreshold) {
		if st.up != nil {
			s.cfg.logger.LogAttrs(ctx, slog.LevelError, "catalogsync: publisher down",
				slog.String("publisher", name),
				slog.Int("consecutive_failures", st.consecutiveFailures))
		}
		up := false
		st.up = &up
		s.metrics.setUp(name, false)
	}
}

// safePublish calls p.Publish with panic recovery.
func (s *Scheduler) safePublish(ctx context.Context, p Publisher, snap validator.Snapshot) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in publisher: %v", r)
			s.cfg.logger.Error("catalogsync: panic in publisher",
				"publisher", p.Name(),
				"panic", r,
			)
		}
	}()
	return p.Publish(ctx, snap)
}
