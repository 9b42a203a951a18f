package validator

import (
	"reflect"
	"strings"
)

// Suffix is the trailing token stripped from a type name to form the
// canonical validator name, and appended back when searching for a type.
const Suffix = "Validator"

// FallbackNamespaces lists, in priority order, the namespaces searched for a
// validator that is not in the registry.
var FallbackNamespaces = []string{Namespace, SentenceNamespace, SectionNamespace}

// CanonicalName derives the registry name from a type name:
// "SentenceLengthValidator" becomes "SentenceLength".
func CanonicalName(typeName string) string {
	return strings.TrimSuffix(typeName, Suffix)
}

// TypeName is the reverse of CanonicalName.
func TypeName(name string) string {
	return name + Suffix
}

// NameOf returns the canonical name of v's concrete type.
func NameOf(v Validator) string {
	if v == nil {
		return ""
	}
	return CanonicalName(typeNameOf(reflect.TypeOf(v)))
}

func typeNameOf(rt reflect.Type) string {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	return rt.Name()
}

func qualify(namespace, typeName string) string {
	if namespace == "" {
		return typeName
	}
	return namespace + "." + typeName
}

// loadFallbackLocked searches the fallback namespaces for <name>Validator.
// The first hit is registered and returned. r.mu must be held for writing.
func (r *Registry) loadFallbackLocked(name string) (Type, error) {
	if name == "" {
		return Type{}, &NoSuchValidatorError{Name: name}
	}
	typeName := TypeName(name)
	for _, ns := range r.namespaces {
		t, ok := r.catalog.Lookup(qualify(ns, typeName))
		if !ok {
			continue
		}
		if err := r.registerLocked(t); err != nil {
			return Type{}, err
		}
		r.logger.Debug("validator: loaded from fallback namespace",
			"validator", name,
			"namespace", ns,
		)
		return t, nil
	}
	return Type{}, &NoSuchValidatorError{Name: name}
}
