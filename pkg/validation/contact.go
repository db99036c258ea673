package validation

import (
	"strconv"
	"strings"

	"portfolio-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

// FieldRule describes the constraints of one contact form field.
// The same rules drive server validation and the schema served to the browser.
type FieldRule struct {
	Field      string `json:"field"`
	Label      string `json:"label"`
	Required   bool   `json:"required"`
	MinLength  int    `json:"min_length,omitempty"`
	MaxLength  int    `json:"max_length,omitempty"`
	Format     string `json:"format,omitempty"`
	SingleLine bool   `json:"single_line,omitempty"`
	Message    string `json:"message"`
}

// ContactRules are the constraints every contact submission must satisfy
var ContactRules = []FieldRule{
	{Field: "name", Label: "Name", Required: true, MinLength: 2, MaxLength: 100, SingleLine: true},
	{Field: "email", Label: "Email", Required: true, MaxLength: 254, Format: "email"},
	{Field: "subject", Label: "Subject", Required: true, MinLength: 5, MaxLength: 200, SingleLine: true},
	{Field: "message", Label: "Message", Required: true, MinLength: 10, MaxLength: 5000},
}

func init() {
	for i := range ContactRules {
		ContactRules[i].Message = ContactRules[i].hint()
	}
}

// hint is the message shown next to the field before any input is checked
func (r FieldRule) hint() string {
	switch {
	case r.Format == "email":
		return "Please enter a valid email address."
	case r.MinLength > 0:
		return r.Label + " must be at least " + strconv.Itoa(r.MinLength) + " characters."
	default:
		return r.Label + " is required."
	}
}

// Tag renders the rule as a go-playground/validator tag
func (r FieldRule) Tag() string {
	var parts []string
	if r.Format != "" {
		parts = append(parts, r.Format)
	}
	if r.MinLength > 0 {
		parts = append(parts, "min="+strconv.Itoa(r.MinLength))
	}
	if r.MaxLength > 0 {
		parts = append(parts, "max="+strconv.Itoa(r.MaxLength))
	}
	if r.SingleLine {
		parts = append(parts, "single_line")
	}
	return strings.Join(parts, ",")
}

// Validator checks raw contact payloads against ContactRules. It holds no
// per-call state and is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
	rules    []FieldRule
}

func NewValidator() *Validator {
	v := validator.New()
	RegisterValidators(v)
	return &Validator{validate: v, rules: ContactRules}
}

// Schema returns a copy of the rules for clients
func (v *Validator) Schema() []FieldRule {
	out := make([]FieldRule, len(v.rules))
	copy(out, v.rules)
	return out
}

// Validate turns an untyped payload into a ContactSubmission or returns a
// *domain.ValidationError listing the first failing rule of every bad field.
func (v *Validator) Validate(raw map[string]any) (domain.ContactSubmission, error) {
	values := make(map[string]string, len(v.rules))
	fields := make(map[string]string)

	for _, rule := range v.rules {
		value, present := raw[rule.Field]
		if !present || value == nil {
			if rule.Required {
				fields[rule.Field] = requiredMessage(rule)
			}
			continue
		}

		s, ok := value.(string)
		if !ok {
			fields[rule.Field] = typeMessage(rule)
			continue
		}
		if s == "" && rule.Required {
			fields[rule.Field] = requiredMessage(rule)
			continue
		}

		if tag := rule.Tag(); tag != "" {
			if err := v.validate.Var(s, tag); err != nil {
				fields[rule.Field] = formatError(rule, err)
				continue
			}
		}
		values[rule.Field] = s
	}

	if len(fields) > 0 {
		return domain.ContactSubmission{}, &domain.ValidationError{Fields: fields}
	}

	return domain.ContactSubmission{
		Name:    values["name"],
		Email:   values["email"],
		Subject: values["subject"],
		Message: values["message"],
	}, nil
}
