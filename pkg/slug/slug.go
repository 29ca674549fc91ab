package slug

import (
	"crypto/rand"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Option func(*config)

type config struct {
	maxLength    int
	separator    string
	suffixLength int
}

// MaxLength limits the result to n runes, suffix included. Zero means no limit.
func MaxLength(n int) Option {
	return func(c *config) {
		c.maxLength = n
	}
}

func Separator(s string) Option {
	return func(c *config) {
		c.separator = s
	}
}

// WithSuffix appends a random lowercase alphanumeric suffix of the given length.
func WithSuffix(length int) Option {
	return func(c *config) {
		c.suffixLength = length
	}
}

// letters that survive NFD decomposition unchanged
var transliterations = map[rune]string{
	'ł': "l", 'Ł': "l",
	'đ': "d", 'Đ': "d",
	'ø': "o", 'Ø': "o",
	'ß': "ss",
	'æ': "ae", 'Æ': "ae",
	'œ': "oe", 'Œ': "oe",
	'þ': "th", 'Þ': "th",
}

var validPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Valid reports whether s is already a canonical slug with the default separator.
func Valid(s string) bool {
	return validPattern.MatchString(s)
}

// Make turns s into a lowercase ASCII slug. Diacritics are stripped through
// Unicode decomposition; any other non-alphanumeric run becomes one separator.
func Make(s string, opts ...Option) string {
	cfg := &config{separator: "-"}
	for _, opt := range opts {
		opt(cfg)
	}

	folded, _, err := transform.String(transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	), s)
	if err != nil {
		folded = s
	}

	limit := cfg.maxLength
	if cfg.suffixLength > 0 && limit > 0 {
		limit -= cfg.suffixLength + len(cfg.separator)
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingSep := false
	emit := func(str string) bool {
		if pendingSep && b.Len() > 0 {
			if limit > 0 && b.Len()+len(cfg.separator)+len(str) > limit {
				return false
			}
			b.WriteString(cfg.separator)
		}
		pendingSep = false
		if limit > 0 && b.Len()+len(str) > limit {
			return false
		}
		b.WriteString(str)
		return true
	}

	for _, r := range folded {
		r = unicode.ToLower(r)
		var ok bool
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			ok = emit(string(r))
		case transliterations[r] != "":
			ok = emit(transliterations[r])
		default:
			pendingSep = true
			ok = true
		}
		if !ok {
			break
		}
	}

	result := b.String()
	if cfg.suffixLength <= 0 {
		return result
	}

	suffixLen := cfg.suffixLength
	if cfg.maxLength > 0 && suffixLen > cfg.maxLength {
		suffixLen = cfg.maxLength
	}
	suffix := generateSuffix(suffixLen)
	if result == "" || (cfg.maxLength > 0 && limit <= 0) {
		return suffix
	}
	return result + cfg.separator + suffix
}

// generateSuffix creates a random lowercase alphanumeric suffix of the specified length.
func generateSuffix(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	if length <= 0 {
		return ""
	}

	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		for i := range b {
			b[i] = charset[i%len(charset)]
		}
		return string(b)
	}
	for i := range b {
		b[i] = charset[int(b[i])%len(charset)]
	}
	return string(b)
}
