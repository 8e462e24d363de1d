package form

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Field names of the user form.
const (
	FieldUsername   = "username"
	FieldEmail      = "email"
	FieldFirstName  = "firstName"
	FieldLastName   = "lastName"
	FieldDepartment = "department"
)

// EmailPattern requires a lowercase domain and a 2-4 letter TLD.
const EmailPattern = `^[a-zA-Z0-9._-]+@[a-z0-9-]+\.[a-z]{2,4}$`

const emailTag = "user_email"

// Limits bounds the length rules of the catalog.
type Limits struct {
	MinUsernameLength int
	MinNameLength     int
	MaxInputLength    int
}

// DefaultLimits returns the limits used when nothing is configured.
func DefaultLimits() Limits {
	return Limits{MinUsernameLength: 3, MinNameLength: 1, MaxInputLength: 15}
}

// FieldSpec is the rule set of one form field.
type FieldSpec struct {
	Name  string
	Rules RuleSet
	// DuplicateMessage is empty for fields the backend cannot report as duplicates.
	DuplicateMessage string
}

// Catalog holds the field specs in display order. It is read-only once built and shared by
// every form.
type Catalog struct {
	fields []FieldSpec
	index  map[string]int
}

// NewUserCatalog builds the rules of the user form.
func NewUserCatalog(validate *validator.Validate, limits Limits) (*Catalog, error) {
	def := DefaultLimits()
	if limits.MinUsernameLength <= 0 {
		limits.MinUsernameLength = def.MinUsernameLength
	}
	if limits.MinNameLength <= 0 {
		limits.MinNameLength = def.MinNameLength
	}
	if limits.MaxInputLength <= 0 {
		limits.MaxInputLength = def.MaxInputLength
	}

	b := NewRuleBuilder(validate)
	emailRule, err := b.Pattern(emailTag, regexp.MustCompile(EmailPattern), "Email is not a valid email address.")
	if err != nil {
		return nil, err
	}

	maxLen := limits.MaxInputLength
	fields := []FieldSpec{
		{
			Name: FieldUsername,
			Rules: RuleSet{
				b.Required("Username is required."),
				b.MinLength(limits.MinUsernameLength, fmt.Sprintf("Username needs to be at least %d characters long.", limits.MinUsernameLength)),
				b.MaxLength(maxLen, fmt.Sprintf("Username can only be %d characters long.", maxLen)),
			},
			DuplicateMessage: "Username is already in use.",
		},
		{
			Name: FieldEmail,
			Rules: RuleSet{
				b.Required("Email is required."),
				emailRule,
			},
			DuplicateMessage: "Email is already in use.",
		},
		nameSpec(b, FieldFirstName, "First name", limits.MinNameLength, maxLen, true),
		nameSpec(b, FieldLastName, "Last name", limits.MinNameLength, maxLen, true),
		nameSpec(b, FieldDepartment, "Department", limits.MinNameLength, maxLen, false),
	}

	c := &Catalog{fields: fields, index: make(map[string]int, len(fields))}
	for i, f := range fields {
		c.index[f.Name] = i
	}
	return c, nil
}

func nameSpec(b *RuleBuilder, name, label string, minLen, maxLen int, required bool) FieldSpec {
	var rules RuleSet
	if required {
		rules = append(rules, b.Required(label+" is required."))
	}
	rules = append(rules,
		b.MinLength(minLen, fmt.Sprintf("%s needs to be at least %d characters long.", label, minLen)),
		b.MaxLength(maxLen, fmt.Sprintf("%s can only be %d characters long.", label, maxLen)),
	)
	return FieldSpec{Name: name, Rules: rules}
}

// Fields returns the specs in display order.
func (c *Catalog) Fields() []FieldSpec {
	return c.fields
}

// Field looks a spec up by name.
func (c *Catalog) Field(name string) (FieldSpec, bool) {
	i, ok := c.index[name]
	if !ok {
		return FieldSpec{}, false
	}
	return c.fields[i], true
}

// Message returns the text for kind on field, or "" when the field has no such rule.
func (s FieldSpec) Message(kind Kind) string {
	if kind == KindDuplicate {
		return s.DuplicateMessage
	}
	for _, r := range s.Rules {
		if r.Kind == kind {
			return r.Message
		}
	}
	return ""
}
