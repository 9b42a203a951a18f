// Package sentence provides sentence-level validators.
//
// Import this package to declare its validators:
//
//	import _ "github.com/BigKAA/redpen-go/validator/sentence"
package sentence

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/BigKAA/redpen-go/validator"
)

func init() {
	validator.Declare(validator.Provide(validator.SentenceNamespace, NewSentenceLength))
	validator.Declare(validator.Provide(validator.SentenceNamespace, NewCommaNumber))
	validator.Declare(validator.Provide(validator.SentenceNamespace, NewInvalidWord))
	validator.Declare(validator.Provide(validator.SentenceNamespace, NewJapaneseStyle))
}

// SentenceLengthValidator reports sentences longer than max_len characters.
type SentenceLengthValidator struct {
	validator.Base
	maxLen int
}

// NewSentenceLength creates an unconfigured SentenceLengthValidator.
func NewSentenceLength() (*SentenceLengthValidator, error) {
	return &SentenceLengthValidator{
		Base: validator.NewBase(map[string]any{"max_len": 120}),
	}, nil
}

// PreInit binds the configuration and reads max_len.
func (v *SentenceLengthValidator) PreInit(cfg validator.ValidatorConfiguration, global validator.Configuration) error {
	if err := v.Base.PreInit(cfg, global); err != nil {
		return err
	}
	v.maxLen = v.Int("max_len")
	if v.maxLen <= 0 {
		return &validator.ConfigError{
			Validator: cfg.Name,
			Property:  "max_len",
			Value:     v.String("max_len"),
			Cause:     errors.New("must be positive"),
		}
	}
	return nil
}

// CheckSentence implements validator.SentenceChecker.
func (v *SentenceLengthValidator) CheckSentence(text string) []string {
	if n := utf8.RuneCountInString(text); n > v.maxLen {
		return []string{fmt.Sprintf("sentence is %d characters long, maximum is %d", n, v.maxLen)}
	}
	return nil
}

// CommaNumberValidator reports sentences with more than max_num commas.
type CommaNumberValidator struct {
	validator.Base
	maxNum int
}

// NewCommaNumber creates an unconfigured CommaNumberValidator.
func NewCommaNumber() (*CommaNumberValidator, error) {
	return &CommaNumberValidator{
		Base: validator.NewBase(map[string]any{"max_num": 3}),
	}, nil
}

// PreInit binds the configuration and reads max_num.
func (v *CommaNumberValidator) PreInit(cfg validator.ValidatorConfiguration, global validator.Configuration) error {
	if err := v.Base.PreInit(cfg, global); err != nil {
		return err
	}
	v.maxNum = v.Int("max_num")
	return nil
}

// CheckSentence implements validator.SentenceChecker.
func (v *CommaNumberValidator) CheckSentence(text string) []string {
	comma := ","
	if v.Lang() == "ja" {
		comma = "、"
	}
	if n := strings.Count(text, comma); n > v.maxNum {
		return []string{fmt.Sprintf("sentence has %d commas, maximum is %d", n, v.maxNum)}
	}
	return nil
}

// InvalidWordValidator reports words from the configured list.
type InvalidWordValidator struct {
	validator.Base
	words map[string]struct{}
}

// NewInvalidWord creates an unconfigured InvalidWordValidator.
func NewInvalidWord() (*InvalidWordValidator, error) {
	return &InvalidWordValidator{
		Base: validator.NewBase(map[string]any{"list": []string{}}, "en"),
	}, nil
}

// PreInit binds the configuration and builds the word set.
func (v *InvalidWordValidator) PreInit(cfg validator.ValidatorConfiguration, global validator.Configuration) error {
	if err := v.Base.PreInit(cfg, global); err != nil {
		return err
	}
	list := v.Strings("list")
	v.words = make(map[string]struct{}, len(list))
	for _, w := range list {
		v.words[strings.ToLower(w)] = struct{}{}
	}
	return nil
}

// CheckSentence implements validator.SentenceChecker.
func (v *InvalidWordValidator) CheckSentence(text string) []string {
	var problems []string
	for _, w := range strings.Fields(text) {
		w = strings.ToLower(strings.Trim(w, ".,;:!?\"'()"))
		if _, ok := v.words[w]; ok {
			problems = append(problems, fmt.Sprintf("found invalid word %q", w))
		}
	}
	return problems
}

// JapaneseStyleValidator reports mixed polite and plain sentence endings.
type JapaneseStyleValidator struct {
	validator.Base
	polite bool
}

// NewJapaneseStyle creates an unconfigured JapaneseStyleValidator.
func NewJapaneseStyle() (*JapaneseStyleValidator, error) {
	return &JapaneseStyleValidator{
		Base: validator.NewBase(map[string]any{"form": "desu-masu"}, "ja"),
	}, nil
}

// PreInit binds the configuration and reads the expected form.
func (v *JapaneseStyleValidator) PreInit(cfg validator.ValidatorConfiguration, global validator.Configuration) error {
	if err := v.Base.PreInit(cfg, global); err != nil {
		return err
	}
	switch form := v.String("form"); form {
	case "desu-masu":
		v.polite = true
	case "dearu":
		v.polite = false
	default:
		return &validator.ConfigError{
			Validator: cfg.Name,
			Property:  "form",
			Value:     form,
			Cause:     errors.New("expected desu-masu or dearu"),
		}
	}
	return nil
}

// CheckSentence implements validator.SentenceChecker.
func (v *JapaneseStyleValidator) CheckSentence(text string) []string {
	s := strings.TrimRight(text, "。 ")
	polite := strings.HasSuffix(s, "です") || strings.HasSuffix(s, "ます")
	plain := strings.HasSuffix(s, "だ") || strings.HasSuffix(s, "である")
	switch {
	case v.polite && plain:
		return []string{"plain ending in desu-masu style text"}
	case !v.polite && polite:
		return []string{"polite ending in dearu style text"}
	}
	return nil
}
