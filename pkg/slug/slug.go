package slug

import (
	"crypto/rand"
	"math/big"
	"strings"
	"unicode"
)

// Option configures slug generation.
type Option func(*config)

type config struct {
	maxLength    int
	separator    string
	suffixLength int
}

func defaultConfig() *config {
	return &config{separator: "-"}
}

// MaxLength caps the slug at n runes.
func MaxLength(n int) Option {
	return func(c *config) { c.maxLength = n }
}

// Separator replaces the default "-" separator.
func Separator(s string) Option {
	return func(c *config) { c.separator = s }
}

// WithSuffix appends a random alphanumeric suffix of the given length to
// reduce collisions between posts with identical titles.
func WithSuffix(length int) Option {
	return func(c *config) { c.suffixLength = length }
}

// Make converts a string into a lowercase URL-safe slug: letters and digits
// pass through, common diacritics are normalized to ASCII, and every other
// run of characters collapses into a single separator.
func Make(s string, opts ...Option) string {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	var b strings.Builder
	b.Grow(len(s))

	lastWasSep := true // avoid a leading separator
	runeCount := 0

	for _, r := range s {
		if cfg.maxLength > 0 && runeCount >= cfg.maxLength {
			break
		}

		r = unicode.ToLower(r)

		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastWasSep = false
			runeCount++
			continue
		}

		if normalized, ok := diacriticMap[r]; ok {
			b.WriteRune(normalized)
			lastWasSep = false
			runeCount++
			continue
		}

		if !lastWasSep {
			if cfg.maxLength > 0 && runeCount+len(cfg.separator) > cfg.maxLength {
				break
			}
			b.WriteString(cfg.separator)
			lastWasSep = true
			runeCount += len([]rune(cfg.separator))
		}
	}

	result := strings.TrimSuffix(b.String(), cfg.separator)

	if cfg.suffixLength > 0 {
		suffix := randomSuffix(cfg.suffixLength)
		if result != "" {
			result = result + cfg.separator + suffix
		} else {
			result = suffix
		}
	}

	return result
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomSuffix(length int) string {
	var b strings.Builder
	b.Grow(length)
	max := big.NewInt(int64(len(suffixAlphabet)))
	for range length {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the platform is broken; fall back to 'a'
			b.WriteByte('a')
			continue
		}
		b.WriteByte(suffixAlphabet[n.Int64()])
	}
	return b.String()
}

// diacriticMap maps common Latin diacritics to lowercase ASCII equivalents.
var diacriticMap = map[rune]rune{
	'à': 'a', 'á': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a', 'å': 'a', 'ā': 'a', 'ă': 'a', 'ą': 'a',
	'ç': 'c', 'ć': 'c', 'č': 'c',
	'đ': 'd', 'ď': 'd',
	'è': 'e', 'é': 'e', 'ê': 'e', 'ë': 'e', 'ē': 'e', 'ė': 'e', 'ę': 'e', 'ě': 'e',
	'ì': 'i', 'í': 'i', 'î': 'i', 'ï': 'i', 'ī': 'i', 'į': 'i',
	'ł': 'l',
	'ñ': 'n', 'ń': 'n', 'ň': 'n',
	'ò': 'o', 'ó': 'o', 'ô': 'o', 'õ': 'o', 'ö': 'o', 'ø': 'o', 'ō': 'o',
	'ř': 'r',
	'ś': 's', 'š': 's', 'ș': 's',
	'ť': 't', 'ț': 't',
	'ù': 'u', 'ú': 'u', 'û': 'u', 'ü': 'u', 'ū': 'u', 'ů': 'u', 'ų': 'u',
	'ý': 'y', 'ÿ': 'y',
	'ź': 'z', 'ž': 'z', 'ż': 'z',
}
