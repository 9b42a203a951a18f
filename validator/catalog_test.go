package validator

import (
	"errors"
	"testing"
)

func TestCatalog_Under(t *testing.T) {
	c := newTestCatalog()
	c.Declare(originType("validatorx"))

	types := c.Under(Namespace)
	if len(types) != 6 {
		t.Fatalf("Under(%q) returned %d types, expected 6", Namespace, len(types))
	}
	for i := 1; i < len(types); i++ {
		if types[i-1].QualifiedName() >= types[i].QualifiedName() {
			t.Errorf("types not sorted: %q before %q", types[i-1].QualifiedName(), types[i].QualifiedName())
		}
	}

	if got := c.Under(SectionNamespace); len(got) != 1 || got[0].Name != "PanickyValidator" {
		t.Errorf("Under(%q) = %v", SectionNamespace, got)
	}
}

func TestCatalog_DeclareReplaces(t *testing.T) {
	c := NewCatalog()
	c.Declare(originType(Namespace))
	c.Declare(originType(Namespace))
	if c.Len() != 1 {
		t.Errorf("Len() = %d, expected 1", c.Len())
	}
	if _, ok := c.Lookup("validator.OriginValidator"); !ok {
		t.Error("expected lookup by qualified name to succeed")
	}
}

func TestConstruct_NilInstance(t *testing.T) {
	typ := Provide(Namespace, func() (*MaxLengthValidator, error) { return nil, nil })

	_, err := construct(typ)
	if !errors.Is(err, errNilInstance) {
		t.Errorf("expected errNilInstance, got %v", err)
	}
	if !errors.Is(err, ErrConstruction) {
		t.Errorf("expected ErrConstruction, got %v", err)
	}
}
