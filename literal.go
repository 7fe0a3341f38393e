package ferret

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// escapeLiteral rewrites a plain search string into a pattern that matches it
// literally. Every ASCII rune that is not a word character gets a backslash
// prefix, so "a.b" matches the three characters a, dot, b rather than
// "a, any char, b". Non-ASCII runes are left alone: they are never regex
// metacharacters, and RE2 rejects escapes of non-ASCII runes.
func escapeLiteral(s string) string {
	if !strings.ContainsFunc(s, func(r rune) bool { return !isWordChar(r) }) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) * 2)
	for _, r := range s {
		if !isWordChar(r) && r < utf8.RuneSelf {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isWordChar returns true if r is a word character (letter, digit, or underscore).
func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
