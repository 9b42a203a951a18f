package validator

import (
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Factory.
type Option func(*config) error

// config is the internal Factory configuration.
type config struct {
	catalog    *Catalog
	root       string
	namespaces []string
	logger     *slog.Logger
	registerer prometheus.Registerer
}

func defaultConfig() config {
	namespaces := make([]string, len(FallbackNamespaces))
	copy(namespaces, FallbackNamespaces)
	return config{
		catalog:    defaultCatalog,
		root:       Namespace,
		namespaces: namespaces,
		logger:     slog.Default(),
	}
}

// WithCatalog sets the catalog scanned by discovery and the fallback loader.
// Defaults to the process-wide catalog filled by Declare.
func WithCatalog(c *Catalog) Option {
	return func(cfg *config) error {
		if c == nil {
			return errors.New("nil catalog")
		}
		cfg.catalog = c
		return nil
	}
}

// WithRootNamespace sets the namespace tree scanned at discovery.
func WithRootNamespace(root string) Option {
	return func(cfg *config) error {
		if root == "" {
			return errors.New("empty root namespace")
		}
		cfg.root = root
		return nil
	}
}

// WithFallbackNamespaces replaces the ordered fallback search list.
func WithFallbackNamespaces(namespaces ...string) Option {
	return func(cfg *config) error {
		cfg.namespaces = append([]string(nil), namespaces...)
		return nil
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) error {
		if l != nil {
			cfg.logger = l
		}
		return nil
	}
}

// WithRegisterer enables Prometheus metrics registered with r.
// Without it the factory records no metrics.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(cfg *config) error {
		cfg.registerer = r
		return nil
	}
}
