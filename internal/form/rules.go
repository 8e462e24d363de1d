package form

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Kind identifies which rule a field value violates.
type Kind string

const (
	KindRequired  Kind = "required"
	KindMinLength Kind = "minlength"
	KindMaxLength Kind = "maxlength"
	KindPattern   Kind = "pattern"
	// KindDuplicate is only ever set from a backend response.
	KindDuplicate Kind = "duplicate"
)

// Rule is one predicate of a field together with the failure it reports.
type Rule struct {
	Kind    Kind
	Message string
	passes  func(value string) bool
}

// Passes reports whether value satisfies the rule.
func (r Rule) Passes(value string) bool {
	return r.passes == nil || r.passes(value)
}

// RuleSet is evaluated in declaration order; the first failing rule wins.
type RuleSet []Rule

// FirstFailure returns the first rule value violates.
func (rs RuleSet) FirstFailure(value string) (Rule, bool) {
	for _, rule := range rs {
		if !rule.Passes(value) {
			return rule, true
		}
	}
	return Rule{}, false
}

// RuleBuilder produces rules backed by a validator instance. Length and pattern rules accept the
// empty string so optional fields only fail once a value is supplied.
type RuleBuilder struct {
	validate *validator.Validate
}

// NewRuleBuilder wraps validate, creating one when nil.
func NewRuleBuilder(validate *validator.Validate) *RuleBuilder {
	if validate == nil {
		validate = validator.New()
	}
	return &RuleBuilder{validate: validate}
}

// Required rejects the empty string.
func (b *RuleBuilder) Required(message string) Rule {
	return b.tagRule(KindRequired, message, "required")
}

// MinLength rejects values shorter than n characters.
func (b *RuleBuilder) MinLength(n int, message string) Rule {
	return b.tagRule(KindMinLength, message, fmt.Sprintf("omitempty,min=%d", n))
}

// MaxLength rejects values longer than n characters.
func (b *RuleBuilder) MaxLength(n int, message string) Rule {
	return b.tagRule(KindMaxLength, message, fmt.Sprintf("omitempty,max=%d", n))
}

// Pattern registers re under tag and rejects values that do not match it.
func (b *RuleBuilder) Pattern(tag string, re *regexp.Regexp, message string) (Rule, error) {
	err := b.validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	})
	if err != nil {
		return Rule{}, fmt.Errorf("register %s validation: %w", tag, err)
	}
	return b.tagRule(KindPattern, message, "omitempty,"+tag), nil
}

func (b *RuleBuilder) tagRule(kind Kind, message, tag string) Rule {
	return Rule{
		Kind:    kind,
		Message: message,
		passes: func(value string) bool {
			return b.validate.Var(value, tag) == nil
		},
	}
}
