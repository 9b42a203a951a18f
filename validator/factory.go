package validator

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Factory resolves validator names and produces configured instances.
type Factory struct {
	registry *Registry
	logger   *slog.Logger
	metrics  *MetricsExporter
}

// NewFactory creates a Factory from functional options.
// Discovery is deferred until the first lookup.
func NewFactory(opts ...Option) (*Factory, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		if err := o(&cfg); err != nil {
			return nil, fmt.Errorf("validator: %w", err)
		}
	}

	var metrics *MetricsExporter
	if cfg.registerer != nil {
		m, err := NewMetricsExporter(cfg.registerer)
		if err != nil {
			return nil, fmt.Errorf("validator: metrics: %w", err)
		}
		metrics = m
	}

	return &Factory{
		registry: newRegistry(&cfg, metrics),
		logger:   cfg.logger,
		metrics:  metrics,
	}, nil
}

// Registry returns the registry backing f.
func (f *Factory) Registry() *Registry {
	return f.registry
}

// Discover populates the registry now instead of on first lookup.
func (f *Factory) Discover() {
	f.registry.discover()
}

// GetInstance returns a new instance of the named validator configured with
// defaults only and the default global configuration.
func (f *Factory) GetInstance(name string) (Validator, error) {
	vc := NewValidatorConfiguration(name)
	global := DefaultConfiguration()
	global.Validators = []ValidatorConfiguration{vc}
	return f.GetInstanceWithConfig(vc, global)
}

// GetInstanceWithConfig resolves cfg.Name, builds a new instance and calls
// PreInit on it. Resolution and construction errors are *NoSuchValidatorError
// and *ConstructionError; PreInit errors are returned unchanged.
func (f *Factory) GetInstanceWithConfig(cfg ValidatorConfiguration, global Configuration) (Validator, error) {
	t, path, err := f.registry.resolve(cfg.Name)
	if err != nil {
		f.observeFailure(err)
		return nil, err
	}

	v, err := construct(t)
	if err != nil {
		f.metrics.ObserveFailure(reasonConstruction)
		return nil, err
	}

	if err := v.PreInit(cfg.Clone(), global.Clone()); err != nil {
		f.metrics.ObserveFailure(reasonConfig)
		return nil, err
	}

	f.metrics.ObserveInstance(cfg.Name, path)
	return v, nil
}

func (f *Factory) observeFailure(err error) {
	switch {
	case errors.Is(err, ErrNoSuchValidator):
		f.metrics.ObserveFailure(reasonNoSuchValidator)
	case errors.Is(err, ErrConstruction):
		f.metrics.ObserveFailure(reasonConstruction)
	}
}

// Instantiate builds every validator configured in cfg, in order.
// It stops at the first failure and reports which validator caused it.
func (f *Factory) Instantiate(cfg Configuration) ([]Validator, error) {
	result := make([]Validator, 0, len(cfg.Validators))
	for i, vc := range cfg.Validators {
		v, err := f.GetInstanceWithConfig(vc, cfg)
		if err != nil {
			return nil, fmt.Errorf("validator %d (%s): %w", i, vc.Name, err)
		}
		result = append(result, v)
	}
	return result, nil
}

// Configurations lists the default configuration of every registered
// validator applicable to lang.
func (f *Factory) Configurations(lang string) []ValidatorConfiguration {
	return f.registry.Configurations(lang)
}

var (
	defaultOnce    sync.Once
	defaultFactory *Factory
)

// Default returns the process-wide factory backed by the default catalog.
// It is created on first call; its registry is populated on first lookup.
func Default() *Factory {
	defaultOnce.Do(func() {
		f, err := NewFactory()
		if err != nil {
			// NewFactory without options has no failure path.
			panic(err)
		}
		defaultFactory = f
	})
	return defaultFactory
}

// GetInstance returns a new instance of the named validator from the default factory.
func GetInstance(name string) (Validator, error) {
	return Default().GetInstance(name)
}

// GetInstanceWithConfig builds a configured validator from the default factory.
func GetInstanceWithConfig(cfg ValidatorConfiguration, global Configuration) (Validator, error) {
	return Default().GetInstanceWithConfig(cfg, global)
}

// Configurations lists default configurations from the default factory.
func Configurations(lang string) []ValidatorConfiguration {
	return Default().Configurations(lang)
}
