package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Required checks that value is not blank.
func Required(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: ValidationError{Field: field, Message: "is required"},
	}
}

// MinLen checks that value has at least n characters.
func MinLen(field, value string, n int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) >= n },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at least %d characters", n)},
	}
}

// MaxLen checks that value has at most n characters.
func MaxLen(field, value string, n int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= n },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters", n)},
	}
}
