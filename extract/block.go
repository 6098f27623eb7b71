package extract

import (
	"regexp"
	"strings"

	"github.com/glotmark/glotmark"
)

// Block dialects are scanned regardless of language identifier: C-style,
// HTML/XML, and both triple-quoted flavors treated as documentation strings.
var blockPatterns = []struct {
	re     *regexp.Regexp
	cstyle bool // strip the leading '*' continuation marker per line
}{
	{regexp.MustCompile(`(?s)/\*(.*?)\*/`), true},
	{regexp.MustCompile(`(?s)<!--(.*?)-->`), false},
	{regexp.MustCompile(`(?s)"""(.*?)"""`), false},
	{regexp.MustCompile(`(?s)'''(.*?)'''`), false},
}

// scanBlocks extracts per-line fragments from every block comment. Each
// retained line is anchored to the offset at the end of its source line, so
// the decoration renders after the line rather than inside it.
func scanBlocks(text string, docLines []docLine) []glotmark.CommentFragment {
	var fragments []glotmark.CommentFragment
	for _, pattern := range blockPatterns {
		for _, m := range pattern.re.FindAllStringSubmatchIndex(text, -1) {
			interior := text[m[2]:m[3]]
			for _, line := range splitLines(interior, m[2]) {
				cleaned := cleanBlockLine(line.content, pattern.cstyle)
				if cleaned == "" {
					continue
				}
				if !IsTranslatable(cleaned) {
					continue
				}
				anchor := line.end
				number := lineNumberAt(docLines, anchor)
				fragments = append(fragments, glotmark.CommentFragment{
					Range: glotmark.Range{
						Start:     anchor,
						End:       anchor,
						StartLine: number,
						EndLine:   number,
					},
					Text: cleaned,
				})
			}
		}
	}
	return fragments
}

// cleanBlockLine strips continuation markers and doc-tag syntax from one
// block-comment line, returning the natural-language content or "".
func cleanBlockLine(content string, cstyle bool) string {
	line := strings.TrimSpace(content)
	if cstyle {
		line = strings.TrimSpace(strings.TrimPrefix(line, "*"))
	}
	if line == "" {
		return ""
	}
	if strings.HasPrefix(line, "@") {
		desc, ok := docTagDescription(line)
		if !ok {
			return ""
		}
		line = desc
	}
	return stripMarkup(line)
}

// docTagDescription isolates the trailing natural-language description of a
// documentation tag line ("@param {string} name The display name" keeps only
// "The display name"). Bracket/dollar/angle-wrapped tokens are syntax; a
// plain identifier right after them is taken as the variable name only when
// real description text (multi-word or non-ASCII) follows it. This is a
// best-effort heuristic with known misses on ambiguous tokens.
func docTagDescription(line string) (string, bool) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return "", false
	}
	rest := tokens[1:] // drop the @tag itself

	for len(rest) > 0 && isWrappedToken(rest[0]) {
		rest = rest[1:]
	}

	if len(rest) > 0 && isPlainIdentifier(rest[0]) {
		trailing := rest[1:]
		if len(trailing) >= 2 || hasNonASCII(strings.Join(trailing, " ")) {
			rest = trailing
		} else {
			// A bare type/name token with nothing descriptive after it.
			return "", false
		}
	}

	if len(rest) == 0 {
		return "", false
	}
	return strings.Join(rest, " "), true
}

// isWrappedToken reports whether a token is type/reference syntax rather
// than prose: {Type}, [optional], <T>, $var.
func isWrappedToken(token string) bool {
	if token == "" {
		return false
	}
	switch token[0] {
	case '{', '[', '<', '$':
		return true
	}
	return false
}

var plainIdentRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$.]*$`)

func isPlainIdentifier(token string) bool {
	return plainIdentRe.MatchString(token)
}

func hasNonASCII(s string) bool {
	for _, r := range s {
		if r > 127 {
			return true
		}
	}
	return false
}
