package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pencraft/pencraft/pkg/sanitizer"
)

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "USER@Example.COM", "user@example.com"},
		{"trims whitespace", "  user@example.com  ", "user@example.com"},
		{"collapses dots in local part", "first..last@example.com", "first.last@example.com"},
		{"strips edge dots in local part", ".user.@example.com", "user@example.com"},
		{"domain dots untouched", "user@sub..example.com", "user@sub..example.com"},
		{"no at-sign passes through", "not-an-email", "not-an-email"},
		{"double at-sign passes through", "a@b@c", "a@b@c"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sanitizer.NormalizeEmail(tt.input))
		})
	}
}

func TestTrimSpace(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Jamie Rivera", sanitizer.TrimSpace("  Jamie Rivera\n"))
	assert.Equal(t, "", sanitizer.TrimSpace("   "))
}
