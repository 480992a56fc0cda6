// Package validation holds the form field rules shared by every page.
package validation

import (
	"sort"
	"strings"

	"github.com/dmitrymomot/saaskit/pkg/validator"
)

const (
	namePattern  = `^[A-ZА-ЯЁ][A-Za-zА-Яа-яЁё-]*$`
	loginPattern = `^[A-Za-z0-9_-]+$`
	digitsOnly   = `^\d+$`
)

// Rule is a set of validator checks sharing one user-facing message.
type Rule struct {
	checks  func(field, value string) []validator.Rule
	Message string
}

// Check runs every check of the rule and returns the failures, or nil.
func (r Rule) Check(field, value string) error {
	return validator.Apply(r.checks(field, value)...)
}

// Valid reports whether value passes the rule.
func (r Rule) Valid(value string) bool { return r.Check("", value) == nil }

var nameRule = Rule{
	checks: func(f, v string) []validator.Rule {
		return []validator.Rule{
			validator.MatchesRegex(f, v, namePattern, "capitalized name"),
		}
	},
	Message: "Capitalized first letter, letters or hyphen only, no spaces or digits",
}

var passwordRule = Rule{
	checks: func(f, v string) []validator.Rule {
		return []validator.Rule{
			validator.MinLenString(f, v, 8),
			validator.MaxLenString(f, v, 40),
			validator.PasswordUppercase(f, v),
			validator.PasswordDigit(f, v),
		}
	},
	Message: "8 to 40 characters with at least one capital letter and one digit",
}

var rules = map[string]Rule{
	"first_name":  nameRule,
	"second_name": nameRule,
	"display_name": {
		checks: func(f, v string) []validator.Rule {
			return []validator.Rule{validator.RequiredString(f, v)}
		},
		Message: "Display name must not be empty",
	},
	"login": {
		checks: func(f, v string) []validator.Rule {
			return []validator.Rule{
				validator.MinLenString(f, v, 3),
				validator.MaxLenString(f, v, 20),
				validator.MatchesRegex(f, v, loginPattern, "latin login"),
				validator.DoesNotMatchRegex(f, v, digitsOnly, "digits only"),
			}
		},
		Message: "3 to 20 latin letters, digits, _ or -, not digits only",
	},
	"email": {
		checks: func(f, v string) []validator.Rule {
			return []validator.Rule{
				validator.ValidEmail(f, v),
				validator.ASCIIOnly(f, v),
			}
		},
		Message: "Invalid email format",
	},
	"password":          passwordRule,
	"oldPassword":       passwordRule,
	"newPassword":       passwordRule,
	"newPasswordRepeat": passwordRule,
	"phone": {
		checks: func(f, v string) []validator.Rule {
			digits := strings.TrimPrefix(v, "+")
			return []validator.Rule{
				validator.ValidPhone(f, v),
				validator.ValidNumericString(f, digits),
				validator.MinLenString(f, digits, 10),
				validator.MaxLenString(f, digits, 15),
			}
		},
		Message: "10 to 15 digits, optionally starting with +",
	},
	"message": {
		checks: func(f, v string) []validator.Rule {
			return []validator.Rule{
				validator.RequiredString(f, v),
				validator.DoesNotMatchRegex(f, v, `^\n`, "leading line break"),
			}
		},
		Message: "Message must not be empty",
	},
}

// Field validates value against the rule registered for name. It returns the
// error message, or "" when the value is valid, empty, or has no rule.
func Field(name, value string) string {
	rule, ok := rules[name]
	if !ok || value == "" {
		return ""
	}
	if err := rule.Check(name, value); err != nil {
		return rule.Message
	}
	return ""
}

// Form validates every field of values and returns the failing ones.
func Form(values map[string]string) map[string]string {
	errs := make(map[string]string)
	for name, value := range values {
		if msg := Field(name, value); msg != "" {
			errs[name] = msg
		}
	}
	return errs
}

// Fields returns the names that have a rule, sorted.
func Fields() []string {
	out := make([]string, 0, len(rules))
	for name := range rules {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
