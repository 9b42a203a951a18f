package validator

import (
	"fmt"
	"reflect"
	"strconv"
)

// Base implements Validator for embedding. It keeps the declared defaults and
// languages and, after PreInit, the bound configuration. Typed accessors
// return the override when one is set and the default otherwise.
//
// Validators that derive state from their configuration override PreInit
// and call Base.PreInit first.
type Base struct {
	defaults  map[string]any
	languages []string

	config ValidatorConfiguration
	global Configuration
}

// NewBase creates a Base with the given property defaults.
// No languages means the validator applies to every language.
func NewBase(defaults map[string]any, languages ...string) Base {
	return Base{
		defaults:  defaults,
		languages: languages,
	}
}

// SupportedLanguages implements Validator.
func (b *Base) SupportedLanguages() []string {
	langs := make([]string, len(b.languages))
	copy(langs, b.languages)
	return langs
}

// Properties implements Validator. The returned map is a copy.
func (b *Base) Properties() map[string]any {
	props := make(map[string]any, len(b.defaults))
	for k, v := range b.defaults {
		if s, ok := v.([]string); ok {
			c := make([]string, len(s))
			copy(c, s)
			v = c
		}
		props[k] = v
	}
	return props
}

// PreInit implements Validator. It binds copies of cfg and global and checks
// that every override parses as the type of its default.
func (b *Base) PreInit(cfg ValidatorConfiguration, global Configuration) error {
	b.config = cfg.Clone()
	b.global = global.Clone()

	for name, raw := range b.config.Properties {
		def, ok := b.defaults[name]
		if !ok {
			continue
		}
		if err := checkValue(def, raw); err != nil {
			return &ConfigError{Validator: cfg.Name, Property: name, Value: raw, Cause: err}
		}
	}
	return nil
}

func checkValue(def any, raw string) error {
	var err error
	switch def.(type) {
	case int, int8, int16, int32, int64:
		_, err = strconv.ParseInt(raw, 10, 64)
	case uint, uint8, uint16, uint32, uint64:
		_, err = strconv.ParseUint(raw, 10, 64)
	case float32, float64:
		_, err = strconv.ParseFloat(raw, 64)
	case bool:
		_, err = strconv.ParseBool(raw)
	}
	if numErr, ok := err.(*strconv.NumError); ok {
		return numErr.Err
	}
	return err
}

// Config returns the configuration bound by PreInit.
func (b *Base) Config() ValidatorConfiguration {
	return b.config
}

// Global returns the global configuration bound by PreInit.
func (b *Base) Global() Configuration {
	return b.global
}

// Lang returns the active language of the bound global configuration.
func (b *Base) Lang() string {
	return b.global.Language()
}

// String returns the property as a string.
func (b *Base) String(name string) string {
	if raw, ok := b.config.Property(name); ok {
		return raw
	}
	return stringify(b.defaults[name])
}

// Int returns the property as an int. PreInit has already rejected
// overrides that do not parse.
func (b *Base) Int(name string) int {
	if raw, ok := b.config.Property(name); ok {
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	}
	switch v := b.defaults[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Float returns the property as a float64.
func (b *Base) Float(name string) float64 {
	if raw, ok := b.config.Property(name); ok {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	}
	switch v := b.defaults[name].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	}
	return 0
}

// Bool returns the property as a bool.
func (b *Base) Bool(name string) bool {
	if raw, ok := b.config.Property(name); ok {
		if v, err := strconv.ParseBool(raw); err == nil {
			return v
		}
	}
	v, _ := b.defaults[name].(bool)
	return v
}

// Strings returns a list-valued property. Overrides are split on ListSeparator.
func (b *Base) Strings(name string) []string {
	if raw, ok := b.config.Property(name); ok {
		return splitList(raw)
	}
	def := b.defaults[name]
	if def == nil {
		return nil
	}
	rv := reflect.ValueOf(def)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return splitList(stringify(def))
	}
	result := make([]string, rv.Len())
	for i := range result {
		result[i] = fmt.Sprint(rv.Index(i).Interface())
	}
	return result
}
