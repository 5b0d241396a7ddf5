package slug

import (
	"strings"
	"unicode"
)

// Make converts a title into a URL slug: lowercased ASCII letters and digits
// with single hyphens between words. Everything else is dropped.
func Make(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	prevHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) && r < 128, unicode.IsDigit(r) && r < 128:
			b.WriteRune(r)
			prevHyphen = false
		case r == ' ', r == '-', r == '_', r == '/':
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}
