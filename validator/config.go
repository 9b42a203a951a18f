package validator

// DefaultLang is the language used when a caller supplies no global configuration.
const DefaultLang = "en"

// ValidatorConfiguration identifies a validator by canonical name and carries
// its property overrides.
type ValidatorConfiguration struct {
	Name       string            `json:"name"`
	Properties map[string]string `json:"properties,omitempty"`
}

// NewValidatorConfiguration creates a configuration without overrides.
func NewValidatorConfiguration(name string) ValidatorConfiguration {
	return ValidatorConfiguration{Name: name}
}

// Property returns the override for name, if set.
func (c ValidatorConfiguration) Property(name string) (string, bool) {
	v, ok := c.Properties[name]
	return v, ok
}

// WithProperty returns a copy of c with name set to value.
func (c ValidatorConfiguration) WithProperty(name, value string) ValidatorConfiguration {
	out := c.Clone()
	if out.Properties == nil {
		out.Properties = make(map[string]string)
	}
	out.Properties[name] = value
	return out
}

// Clone returns a deep copy of c.
func (c ValidatorConfiguration) Clone() ValidatorConfiguration {
	out := ValidatorConfiguration{Name: c.Name}
	if c.Properties != nil {
		out.Properties = make(map[string]string, len(c.Properties))
		for k, v := range c.Properties {
			out.Properties[k] = v
		}
	}
	return out
}

// Configuration holds process-wide settings shared by all validators of a run.
type Configuration struct {
	Lang       string                   `json:"lang"`
	Validators []ValidatorConfiguration `json:"validators,omitempty"`
}

// DefaultConfiguration returns an empty configuration for DefaultLang.
func DefaultConfiguration() Configuration {
	return Configuration{Lang: DefaultLang}
}

// Language returns the active language, falling back to DefaultLang.
func (c Configuration) Language() string {
	if c.Lang == "" {
		return DefaultLang
	}
	return c.Lang
}

// Validator returns the configuration of the named validator, if present.
func (c Configuration) Validator(name string) (ValidatorConfiguration, bool) {
	for _, vc := range c.Validators {
		if vc.Name == name {
			return vc, true
		}
	}
	return ValidatorConfiguration{}, false
}

// Clone returns a deep copy of c.
func (c Configuration) Clone() Configuration {
	out := Configuration{Lang: c.Lang}
	if c.Validators != nil {
		out.Validators = make([]ValidatorConfiguration, len(c.Validators))
		for i, vc := range c.Validators {
			out.Validators[i] = vc.Clone()
		}
	}
	return out
}
