package validator

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Namespaces of the built-in validator packages.
const (
	Namespace         = "validator"
	SentenceNamespace = Namespace + ".sentence"
	SectionNamespace  = Namespace + ".section"
)

var (
	errAbstractType = errors.New("type is abstract or has no constructor")
	errNilInstance  = errors.New("constructor returned nil")
)

// Constructor builds a new, unconfigured validator instance.
type Constructor func() (Validator, error)

// Type describes a validator implementation: where it lives, what it is
// called and how to build it without arguments.
type Type struct {
	Namespace string
	Name      string // Go type name, e.g. "SentenceLengthValidator"
	New       Constructor

	abstract bool
}

// Provide describes the validator type T declared in namespace.
// The type name is taken from T itself, so the registry name derived from it
// always matches NameOf applied to an instance built by ctor.
// An interface T or a nil ctor yields an abstract Type that is never registered.
func Provide[T Validator](namespace string, ctor func() (T, error)) Type {
	rt := reflect.TypeFor[T]()
	t := Type{
		Namespace: namespace,
		Name:      typeNameOf(rt),
		abstract:  rt.Kind() == reflect.Interface,
	}
	if ctor != nil {
		t.New = func() (Validator, error) {
			v, err := ctor()
			if err != nil {
				return nil, err
			}
			return v, nil
		}
	}
	return t
}

// QualifiedName returns "<namespace>.<name>".
func (t Type) QualifiedName() string {
	return qualify(t.Namespace, t.Name)
}

// Abstract reports whether the type cannot be default-constructed.
func (t Type) Abstract() bool {
	return t.abstract || t.New == nil
}

// construct builds an instance of t. Constructor panics are converted to errors.
func construct(t Type) (v Validator, err error) {
	if t.Abstract() {
		return nil, &ConstructionError{Type: t.QualifiedName(), Cause: errAbstractType}
	}
	defer func() {
		if r := recover(); r != nil {
			v = nil
			err = &ConstructionError{Type: t.QualifiedName(), Cause: panicError{value: r}}
		}
	}()

	v, err = t.New()
	if err != nil {
		return nil, &ConstructionError{Type: t.QualifiedName(), Cause: err}
	}
	if isNil(v) {
		return nil, &ConstructionError{Type: t.QualifiedName(), Cause: errNilInstance}
	}
	return v, nil
}

type panicError struct {
	value any
}

func (e panicError) Error() string {
	return "panic in constructor: " + stringify(e.value)
}

func isNil(v Validator) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// Catalog is the table of every declared validator type, keyed by qualified name.
// It stands in for runtime type introspection: packages declare their types
// from init() and the registry scans the catalog instead of the binary.
// It is safe for concurrent use.
type Catalog struct {
	mu    sync.RWMutex
	types map[string]Type
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{types: make(map[string]Type)}
}

// Declare adds t to the catalog, replacing a previous declaration with the
// same qualified name.
func (c *Catalog) Declare(t Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.types[t.QualifiedName()] = t
}

// Lookup finds a type by qualified name.
func (c *Catalog) Lookup(qualifiedName string) (Type, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.types[qualifiedName]
	return t, ok
}

// Under returns the types declared in root or any namespace nested below it,
// sorted by qualified name.
func (c *Catalog) Under(root string) []Type {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]Type, 0, len(c.types))
	for _, t := range c.types {
		if t.Namespace == root || strings.HasPrefix(t.Namespace, root+".") {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].QualifiedName() < result[j].QualifiedName()
	})
	return result
}

// Len returns the number of declared types.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.types)
}

var defaultCatalog = NewCatalog()

// Declare adds t to the process-wide catalog used by the default factory.
// Called from init() of validator packages.
func Declare(t Type) {
	defaultCatalog.Declare(t)
}

// DefaultCatalog returns the process-wide catalog.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}
