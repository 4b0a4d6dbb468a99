package validator

import "regexp"

// Pragmatic address check; full RFC 5322 validation is not worth the
// complexity for a signup form.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidEmail checks that value is a plausible email address.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool { return emailRegex.MatchString(value) },
		Error: ValidationError{Field: field, Message: "must be a valid email address"},
	}
}
