// Package validator provides the registry and factory for pluggable text validators.
//
// Validator types are declared in a process-wide catalog, usually from the
// init() function of the package that implements them. To use the built-in
// validators, import them all at once:
//
//	import _ "github.com/BigKAA/redpen-go/validator/checks"
//
// Or import only the namespaces you need:
//
//	import _ "github.com/BigKAA/redpen-go/validator/sentence"
//	import _ "github.com/BigKAA/redpen-go/validator/section"
//
// The registry is populated on first use by scanning the catalog for every
// concrete type under the root namespace. Each GetInstance call returns a fresh
// instance configured through PreInit; registry prototypes are never handed out.
package validator

// Validator is the contract every pluggable validator implements.
// Implementations must be constructible without arguments through the
// constructor passed to Provide.
type Validator interface {
	// SupportedLanguages returns the language codes the validator applies to.
	// An empty result means the validator applies to every language.
	SupportedLanguages() []string

	// Properties returns the configurable properties and their defaults.
	// Values are scalars or slices of scalars.
	Properties() map[string]any

	// PreInit binds configuration overrides onto a freshly constructed instance.
	// It is called exactly once, before any other use of the instance.
	PreInit(cfg ValidatorConfiguration, global Configuration) error
}

// SentenceChecker is implemented by validators that inspect a single sentence.
// It returns one message per problem found; nil means the sentence passed.
type SentenceChecker interface {
	CheckSentence(text string) []string
}
