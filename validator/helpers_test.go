package validator

import (
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// MaxLengthValidator applies to every language.
type MaxLengthValidator struct {
	Base
}

func newMaxLength() (*MaxLengthValidator, error) {
	return &MaxLengthValidator{Base: NewBase(map[string]any{"maxLength": 80})}, nil
}

// KeywordValidator applies to English only.
type KeywordValidator struct {
	Base
}

func newKeyword() (*KeywordValidator, error) {
	return &KeywordValidator{Base: NewBase(map[string]any{"keywords": []string{"a", "b", "c"}}, "en")}, nil
}

// JapaneseOnlyValidator applies to Japanese only.
type JapaneseOnlyValidator struct {
	Base
}

func newJapaneseOnly() (*JapaneseOnlyValidator, error) {
	return &JapaneseOnlyValidator{Base: NewBase(map[string]any{"strict": true}, "ja")}, nil
}

// BrokenValidator never constructs.
type BrokenValidator struct {
	Base
}

func newBroken() (*BrokenValidator, error) {
	return nil, errors.New("missing dictionary")
}

// PanickyValidator panics in its constructor.
type PanickyValidator struct {
	Base
}

func newPanicky() (*PanickyValidator, error) {
	panic("boom")
}

// AbstractValidator is an interface and therefore never registered.
type AbstractValidator interface {
	Validator
	Abstract()
}

// OriginValidator remembers which declaration built it.
type OriginValidator struct {
	Base
	origin string
}

func originType(namespace string) Type {
	return Provide(namespace, func() (*OriginValidator, error) {
		return &OriginValidator{Base: NewBase(nil), origin: namespace}, nil
	})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestCatalog declares the common test validators in the root namespace.
func newTestCatalog() *Catalog {
	c := NewCatalog()
	c.Declare(Provide(Namespace, newMaxLength))
	c.Declare(Provide(Namespace, newKeyword))
	c.Declare(Provide(SentenceNamespace, newJapaneseOnly))
	c.Declare(Provide(Namespace, newBroken))
	c.Declare(Provide(SectionNamespace, newPanicky))
	c.Declare(Provide[AbstractValidator](Namespace, nil))
	return c
}

func newTestFactory(t *testing.T, c *Catalog, opts ...Option) (*Factory, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	all := append([]Option{
		WithCatalog(c),
		WithLogger(discardLogger()),
		WithRegisterer(reg),
	}, opts...)
	f, err := NewFactory(all...)
	if err != nil {
		t.Fatalf("failed to create factory: %v", err)
	}
	return f, reg
}

// flakyType constructs successfully n times and fails afterwards.
func flakyType(n int32) Type {
	var calls atomic.Int32
	return Provide(Namespace, func() (*MaxLengthValidator, error) {
		if calls.Add(1) > n {
			return nil, errors.New("resource exhausted")
		}
		return newMaxLength()
	})
}
