// Package yamlconfig loads a validator Configuration from YAML:
//
//	lang: ja
//	validators:
//	  - name: SentenceLength
//	    properties:
//	      max_len: 100
//	  - name: InvalidWord
//	    properties:
//	      list: [foo, bar]
//
// Property values are stringified with validator.ToStrings.
package yamlconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/BigKAA/redpen-go/validator"
)

type file struct {
	Lang       string  `yaml:"lang"`
	Validators []entry `yaml:"validators"`
}

type entry struct {
	Name       string         `yaml:"name"`
	Properties map[string]any `yaml:"properties"`
}

// Load reads and parses the YAML file at path.
func Load(path string) (validator.Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return validator.Configuration{}, fmt.Errorf("yamlconfig: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML document. Unknown fields are rejected.
func Parse(data []byte) (validator.Configuration, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return validator.Configuration{}, fmt.Errorf("yamlconfig: parse: %w", err)
	}

	cfg := validator.Configuration{
		Lang:       f.Lang,
		Validators: make([]validator.ValidatorConfiguration, 0, len(f.Validators)),
	}
	seen := make(map[string]bool, len(f.Validators))
	for i, e := range f.Validators {
		if e.Name == "" {
			return validator.Configuration{}, fmt.Errorf("yamlconfig: validator %d: name is required", i)
		}
		if seen[e.Name] {
			return validator.Configuration{}, fmt.Errorf("yamlconfig: duplicate validator %q", e.Name)
		}
		seen[e.Name] = true

		for k, v := range e.Properties {
			if _, nested := v.(map[string]any); nested {
				return validator.Configuration{}, fmt.Errorf("yamlconfig: validator %q: property %q: nested maps are not supported", e.Name, k)
			}
		}

		vc := validator.ValidatorConfiguration{Name: e.Name}
		if len(e.Properties) > 0 {
			vc.Properties = validator.ToStrings(e.Properties)
		}
		cfg.Validators = append(cfg.Validators, vc)
	}
	return cfg, nil
}
