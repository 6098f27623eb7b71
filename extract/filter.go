package extract

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// bareIdentRe matches code tokens: letters, digits, underscore and '$' with
// no separating space ("tableId", "$id").
var bareIdentRe = regexp.MustCompile(`^[A-Za-z0-9_$]+$`)

// IsTranslatable is the sole gate against translating code tokens that merely
// resemble comments. It rejects fragments under 2 characters, bare
// identifiers, and anything with no letter and no CJK character (which also
// covers pure whitespace/punctuation runs like "---").
func IsTranslatable(s string) bool {
	if utf8.RuneCountInString(s) < 2 {
		return false
	}
	if bareIdentRe.MatchString(s) {
		return false
	}
	return hasLetterOrCJK(s)
}

func hasLetterOrCJK(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
		if isCJK(r) {
			return true
		}
	}
	return false
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}
