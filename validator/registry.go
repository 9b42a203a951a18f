package validator

import (
	"log/slog"
	"sync"
)

// Resolution paths reported in metrics.
const (
	pathRegistry = "registry"
	pathFallback = "fallback"
)

// registryEntry holds the resolved type and its prototype.
// The prototype is used for listing only and never leaves the registry.
type registryEntry struct {
	typ       Type
	prototype Validator
}

// Registry maps canonical validator names to prototypes.
// It is populated from the catalog on first use and grows when the fallback
// loader resolves a name discovery did not see. It is safe for concurrent use.
type Registry struct {
	catalog    *Catalog
	root       string
	namespaces []string
	logger     *slog.Logger
	metrics    *MetricsExporter

	discoverOnce sync.Once

	mu      sync.RWMutex
	entries map[string]registryEntry
	order   []string // first-registration order of names
}

func newRegistry(cfg *config, metrics *MetricsExporter) *Registry {
	return &Registry{
		catalog:    cfg.catalog,
		root:       cfg.root,
		namespaces: cfg.namespaces,
		logger:     cfg.logger,
		metrics:    metrics,
		entries:    make(map[string]registryEntry),
	}
}

// discover registers every concrete type under the root namespace.
// It runs once; every read path calls it first.
func (r *Registry) discover() {
	r.discoverOnce.Do(func() {
		types := r.catalog.Under(r.root)

		r.mu.Lock()
		defer r.mu.Unlock()
		for _, t := range types {
			r.tryRegisterLocked(t)
		}
		r.logger.Debug("validator: discovery finished",
			"root", r.root,
			"declared", len(types),
			"registered", len(r.entries),
		)
	})
}

// Register adds t to the registry on a best-effort basis, overwriting any
// entry with the same canonical name. It reports whether t was registered;
// types that cannot be constructed are skipped silently.
func (r *Registry) Register(t Type) bool {
	r.discover()

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tryRegisterLocked(t)
}

func (r *Registry) tryRegisterLocked(t Type) bool {
	if err := r.registerLocked(t); err != nil {
		r.logger.Debug("validator: skipping type",
			"type", t.QualifiedName(),
			"error", err.Error(),
		)
		return false
	}
	return true
}

// registerLocked constructs the prototype of t and stores it under its
// canonical name. r.mu must be held for writing.
func (r *Registry) registerLocked(t Type) error {
	proto, err := construct(t)
	if err != nil {
		return err
	}

	name := CanonicalName(t.Name)
	if prev, ok := r.entries[name]; ok {
		if prev.typ.QualifiedName() != t.QualifiedName() {
			r.logger.Warn("validator: name collision, later type shadows earlier",
				"validator", name,
				"shadowed", prev.typ.QualifiedName(),
				"type", t.QualifiedName(),
			)
		}
	} else {
		r.order = append(r.order, name)
	}
	r.entries[name] = registryEntry{typ: t, prototype: proto}
	r.metrics.SetRegistrySize(len(r.entries))
	return nil
}

// resolve returns the type registered under name, falling back to the
// namespace search on a miss. The returned path is pathRegistry or pathFallback.
func (r *Registry) resolve(name string) (Type, string, error) {
	r.discover()

	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()
	if ok {
		return e.typ, pathRegistry, nil
	}

	// Check, load and register as one unit.
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[name]; ok {
		return e.typ, pathRegistry, nil
	}
	t, err := r.loadFallbackLocked(name)
	if err != nil {
		return Type{}, pathFallback, err
	}
	return t, pathFallback, nil
}

// Lookup returns the type registered under name without trying the fallback.
func (r *Registry) Lookup(name string) (Type, bool) {
	r.discover()

	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e.typ, ok
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.discover()

	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	r.discover()

	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Configurations lists the default configuration of every registered
// validator applicable to lang: those supporting no specific language and
// those listing lang explicitly. Property values are stringified with ToStrings.
func (r *Registry) Configurations(lang string) []ValidatorConfiguration {
	r.discover()

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]ValidatorConfiguration, 0, len(r.order))
	for _, name := range r.order {
		proto := r.entries[name].prototype
		if !supportsLanguage(proto, lang) {
			continue
		}
		result = append(result, ValidatorConfiguration{
			Name:       name,
			Properties: ToStrings(proto.Properties()),
		})
	}
	return result
}

func supportsLanguage(v Validator, lang string) bool {
	langs := v.SupportedLanguages()
	if len(langs) == 0 {
		return true
	}
	for _, l := range langs {
		if l == lang {
			return true
		}
	}
	return false
}
