package slug_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pencraft/pencraft/pkg/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple title", "Hello World", "hello-world"},
		{"punctuation collapses", "Go: The Good Parts!", "go-the-good-parts"},
		{"diacritics normalize", "Caffè Latté", "caffe-latte"},
		{"leading and trailing noise", "  --Hello--  ", "hello"},
		{"numbers pass through", "Top 10 Tips", "top-10-tips"},
		{"already clean", "already-clean", "already-clean"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, slug.Make(tt.input))
		})
	}
}

func TestMake_MaxLength(t *testing.T) {
	t.Parallel()

	got := slug.Make("a very long title that keeps going and going", slug.MaxLength(10))
	assert.LessOrEqual(t, len(got), 10)
	assert.False(t, strings.HasSuffix(got, "-"))
}

func TestMake_Separator(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hello_world", slug.Make("Hello World", slug.Separator("_")))
}

func TestMake_WithSuffix(t *testing.T) {
	t.Parallel()

	first := slug.Make("Same Title", slug.WithSuffix(6))
	second := slug.Make("Same Title", slug.WithSuffix(6))

	require.True(t, strings.HasPrefix(first, "same-title-"))
	assert.Len(t, first, len("same-title-")+6)
	assert.NotEqual(t, first, second)
}

func TestMake_SuffixOnlyForEmptyInput(t *testing.T) {
	t.Parallel()

	got := slug.Make("!!!", slug.WithSuffix(8))
	assert.Len(t, got, 8)
}
