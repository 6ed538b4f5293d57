package wizard

import (
	"strings"
	"unicode/utf8"
)

// SpecialChars is the symbol set accepted by the special-character rule.
const SpecialChars = `!@#$%^&*(),.?":{}|<>`

// MinPasswordLen is counted in characters.
const MinPasswordLen = 8

// Requirements is the live strength report for a candidate password.
type Requirements struct {
	MinLength    bool
	HasUppercase bool
	HasLowercase bool
	HasNumber    bool
	HasSpecial   bool
}

// Evaluate checks pwd against every rule.
func Evaluate(pwd string) Requirements {
	r := Requirements{MinLength: utf8.RuneCountInString(pwd) >= MinPasswordLen}
	for _, c := range pwd {
		switch {
		case c >= 'A' && c <= 'Z':
			r.HasUppercase = true
		case c >= 'a' && c <= 'z':
			r.HasLowercase = true
		case c >= '0' && c <= '9':
			r.HasNumber = true
		case strings.ContainsRune(SpecialChars, c):
			r.HasSpecial = true
		}
	}
	return r
}

// AllMet reports whether the password may be submitted.
func (r Requirements) AllMet() bool {
	return r.MinLength && r.HasUppercase && r.HasLowercase && r.HasNumber && r.HasSpecial
}

// Rule is one labelled line of the requirement checklist.
type Rule struct {
	Label string
	Met   bool
}

// Rules lists the requirements in display order.
func (r Requirements) Rules() []Rule {
	return []Rule{
		{"At least 8 characters", r.MinLength},
		{"One uppercase letter", r.HasUppercase},
		{"One lowercase letter", r.HasLowercase},
		{"One number", r.HasNumber},
		{"One special character", r.HasSpecial},
	}
}
