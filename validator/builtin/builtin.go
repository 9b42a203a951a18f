// Package builtin provides validators declared in the root validator namespace.
//
// Import this package to declare its validators:
//
//	import _ "github.com/BigKAA/redpen-go/validator/builtin"
package builtin

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/BigKAA/redpen-go/validator"
)

func init() {
	validator.Declare(validator.Provide(validator.Namespace, NewSpelling))
	validator.Declare(validator.Provide(validator.Namespace, NewDoubledWord))
}

// words splits text into lower-cased words.
func words(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	for i, f := range fields {
		fields[i] = strings.ToLower(f)
	}
	return fields
}

// SpellingValidator reports words missing from the configured dictionary.
// With an empty dictionary it reports nothing.
type SpellingValidator struct {
	validator.Base
	dict map[string]struct{}
}

// NewSpelling creates an unconfigured SpellingValidator.
func NewSpelling() (*SpellingValidator, error) {
	return &SpellingValidator{
		Base: validator.NewBase(map[string]any{
			"list":       []string{},
			"min_length": 3,
		}, "en"),
	}, nil
}

// PreInit binds the configuration and loads the dictionary.
func (v *SpellingValidator) PreInit(cfg validator.ValidatorConfiguration, global validator.Configuration) error {
	if err := v.Base.PreInit(cfg, global); err != nil {
		return err
	}
	list := v.Strings("list")
	v.dict = make(map[string]struct{}, len(list))
	for _, w := range list {
		v.dict[strings.ToLower(w)] = struct{}{}
	}
	return nil
}

// CheckSentence implements validator.SentenceChecker.
func (v *SpellingValidator) CheckSentence(text string) []string {
	if len(v.dict) == 0 {
		return nil
	}
	minLen := v.Int("min_length")
	var problems []string
	for _, w := range words(text) {
		if len([]rune(w)) < minLen {
			continue
		}
		if _, ok := v.dict[w]; !ok {
			problems = append(problems, fmt.Sprintf("unknown word %q", w))
		}
	}
	return problems
}

// DoubledWordValidator reports words used more than once in a sentence.
// Words in the skip list are ignored.
type DoubledWordValidator struct {
	validator.Base
	skip map[string]struct{}
}

// NewDoubledWord creates an unconfigured DoubledWordValidator.
func NewDoubledWord() (*DoubledWordValidator, error) {
	return &DoubledWordValidator{
		Base: validator.NewBase(map[string]any{
			"list": []string{"a", "an", "the", "of", "to", "in", "and"},
		}),
	}, nil
}

// PreInit binds the configuration and builds the skip set.
func (v *DoubledWordValidator) PreInit(cfg validator.ValidatorConfiguration, global validator.Configuration) error {
	if err := v.Base.PreInit(cfg, global); err != nil {
		return err
	}
	list := v.Strings("list")
	v.skip = make(map[string]struct{}, len(list))
	for _, w := range list {
		v.skip[strings.ToLower(w)] = struct{}{}
	}
	return nil
}

// CheckSentence implements validator.SentenceChecker.
func (v *DoubledWordValidator) CheckSentence(text string) []string {
	seen := make(map[string]bool)
	var problems []string
	for _, w := range words(text) {
		if _, ok := v.skip[w]; ok {
			continue
		}
		if seen[w] {
			problems = append(problems, fmt.Sprintf("word %q is repeated", w))
			continue
		}
		seen[w] = true
	}
	return problems
}
