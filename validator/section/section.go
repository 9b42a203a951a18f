// Package section provides section-level validators.
//
// Import this package to declare its validators:
//
//	import _ "github.com/BigKAA/redpen-go/validator/section"
package section

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/BigKAA/redpen-go/validator"
)

func init() {
	validator.Declare(validator.Provide(validator.SectionNamespace, NewSectionLength))
	validator.Declare(validator.Provide(validator.SectionNamespace, NewParagraphNumber))
}

// SectionLengthValidator reports sections longer than max_num characters.
// Sentences passed to CheckSentence accumulate until Reset is called.
type SectionLengthValidator struct {
	validator.Base
	maxNum int
	length int
}

// NewSectionLength creates an unconfigured SectionLengthValidator.
func NewSectionLength() (*SectionLengthValidator, error) {
	return &SectionLengthValidator{
		Base: validator.NewBase(map[string]any{"max_num": 1000}),
	}, nil
}

// PreInit binds the configuration and reads max_num.
func (v *SectionLengthValidator) PreInit(cfg validator.ValidatorConfiguration, global validator.Configuration) error {
	if err := v.Base.PreInit(cfg, global); err != nil {
		return err
	}
	v.maxNum = v.Int("max_num")
	return nil
}

// CheckSentence implements validator.SentenceChecker. It reports once, on
// the sentence that pushes the section over the limit.
func (v *SectionLengthValidator) CheckSentence(text string) []string {
	before := v.length
	v.length += utf8.RuneCountInString(text)
	if before <= v.maxNum && v.length > v.maxNum {
		return []string{fmt.Sprintf("section exceeds %d characters", v.maxNum)}
	}
	return nil
}

// Reset starts a new section.
func (v *SectionLengthValidator) Reset() {
	v.length = 0
}

// ParagraphNumberValidator reports sections with more than max_num paragraphs.
// Paragraphs are separated by blank lines.
type ParagraphNumberValidator struct {
	validator.Base
	maxNum int
}

// NewParagraphNumber creates an unconfigured ParagraphNumberValidator.
func NewParagraphNumber() (*ParagraphNumberValidator, error) {
	return &ParagraphNumberValidator{
		Base: validator.NewBase(map[string]any{"max_num": 5}),
	}, nil
}

// PreInit binds the configuration and reads max_num.
func (v *ParagraphNumberValidator) PreInit(cfg validator.ValidatorConfiguration, global validator.Configuration) error {
	if err := v.Base.PreInit(cfg, global); err != nil {
		return err
	}
	v.maxNum = v.Int("max_num")
	return nil
}

// CheckSection counts the paragraphs of a whole section.
func (v *ParagraphNumberValidator) CheckSection(text string) []string {
	n := 0
	for _, p := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	if n > v.maxNum {
		return []string{fmt.Sprintf("section has %d paragraphs, maximum is %d", n, v.maxNum)}
	}
	return nil
}
