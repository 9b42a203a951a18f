// Package hclconfig loads a validator Configuration from HCL (or HCL-flavoured JSON).
//
//	lang = "ja"
//
//	validator "SentenceLength" {
//	  properties = { max_len = 100 }
//	}
//
//	validator "InvalidWord" {
//	  properties = { list = ["foo", "bar"] }
//	}
//
// Property values are converted to strings the same way validator.ToStrings
// converts defaults: lists are comma-joined, numbers use decimal notation.
package hclconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/zclconf/go-cty/cty"

	"github.com/BigKAA/redpen-go/validator"
)

// file is the decoded layout of a configuration file.
type file struct {
	Lang       string  `hcl:"lang,optional"`
	Validators []block `hcl:"validator,block"`
}

type block struct {
	Name       string    `hcl:"name,label"`
	Properties cty.Value `hcl:"properties,optional"`
}

// Load reads and parses the configuration file at path.
// The syntax is chosen by extension: ".hcl" or ".json".
func Load(path string) (validator.Configuration, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return validator.Configuration{}, fmt.Errorf("hclconfig: %w", err)
	}
	return Parse(path, src)
}

// Parse decodes src. filename is used for diagnostics and to pick the syntax.
func Parse(filename string, src []byte) (validator.Configuration, error) {
	var f file
	if err := hclsimple.Decode(filename, src, nil, &f); err != nil {
		return validator.Configuration{}, fmt.Errorf("hclconfig: %w", err)
	}

	cfg := validator.Configuration{
		Lang:       f.Lang,
		Validators: make([]validator.ValidatorConfiguration, 0, len(f.Validators)),
	}
	seen := make(map[string]bool, len(f.Validators))
	for _, b := range f.Validators {
		if seen[b.Name] {
			return validator.Configuration{}, fmt.Errorf("hclconfig: %s: duplicate validator %q", filename, b.Name)
		}
		seen[b.Name] = true

		props, err := properties(b.Properties)
		if err != nil {
			return validator.Configuration{}, fmt.Errorf("hclconfig: %s: validator %q: %w", filename, b.Name, err)
		}
		cfg.Validators = append(cfg.Validators, validator.ValidatorConfiguration{
			Name:       b.Name,
			Properties: props,
		})
	}
	return cfg, nil
}

func properties(v cty.Value) (map[string]string, error) {
	if v.IsNull() {
		return nil, nil
	}
	ty := v.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("properties must be an object, got %s", ty.FriendlyName())
	}

	result := make(map[string]string)
	for it := v.ElementIterator(); it.Next(); {
		k, ev := it.Element()
		s, err := stringify(ev)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", k.AsString(), err)
		}
		result[k.AsString()] = s
	}
	return result, nil
}

func stringify(v cty.Value) (string, error) {
	if v.IsNull() {
		return "", nil
	}
	if !v.IsWhollyKnown() {
		return "", fmt.Errorf("value is not known")
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Number:
		return v.AsBigFloat().Text('f', -1), nil
	case ty == cty.Bool:
		if v.True() {
			return "true", nil
		}
		return "false", nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		parts := make([]string, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			s, err := stringify(ev)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, validator.ListSeparator), nil
	}
	return "", fmt.Errorf("unsupported value type %s", ty.FriendlyName())
}
