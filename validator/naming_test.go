package validator

import "testing"

func TestCanonicalName(t *testing.T) {
	tests := []struct {
		typeName string
		expected string
	}{
		{"SentenceLengthValidator", "SentenceLength"},
		{"Validator", ""},
		{"Spelling", "Spelling"},
		{"ValidatorOfValidator", "ValidatorOf"},
	}
	for _, tt := range tests {
		if got := CanonicalName(tt.typeName); got != tt.expected {
			t.Errorf("CanonicalName(%q) = %q, expected %q", tt.typeName, got, tt.expected)
		}
	}
}

func TestTypeName_ReversesCanonicalName(t *testing.T) {
	for _, name := range []string{"SentenceLength", "Spelling", "ValidatorOf"} {
		if got := CanonicalName(TypeName(name)); got != name {
			t.Errorf("CanonicalName(TypeName(%q)) = %q", name, got)
		}
	}
}

func TestNameOf(t *testing.T) {
	v, _ := newMaxLength()
	if got := NameOf(v); got != "MaxLength" {
		t.Errorf("NameOf = %q, expected MaxLength", got)
	}
	if got := NameOf(nil); got != "" {
		t.Errorf("NameOf(nil) = %q, expected empty", got)
	}
}

func TestProvide_TypeName(t *testing.T) {
	typ := Provide(SentenceNamespace, newMaxLength)
	if typ.Name != "MaxLengthValidator" {
		t.Errorf("Name = %q, expected MaxLengthValidator", typ.Name)
	}
	if typ.QualifiedName() != "validator.sentence.MaxLengthValidator" {
		t.Errorf("QualifiedName = %q", typ.QualifiedName())
	}
	if typ.Abstract() {
		t.Error("concrete type reported abstract")
	}
	if !Provide[AbstractValidator](Namespace, nil).Abstract() {
		t.Error("interface type must be abstract")
	}
}
