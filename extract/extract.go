// Package extract scans document text for translatable comment fragments.
//
// A single-line dialect is selected by the host's language identifier; block
// dialects (C-style, HTML, triple-quoted) are scanned unconditionally. Every
// candidate passes a validity filter so code tokens that merely look like
// comments are never sent for translation.
package extract

import (
	"fmt"
	"sort"
	"strings"

	"github.com/glotmark/glotmark"
)

// dialect is the single-line comment family for a language identifier.
type dialect int

const (
	dialectSlash dialect = iota // //-style, end of line
	dialectHash                 // #-style, only when # begins the line
	dialectDash                 // --- style, end of line
)

// lineDialects maps language identifiers to their single-line dialect.
// Unrecognized identifiers fall back to the conservative //-style.
var lineDialects = map[string]dialect{
	// C family, web and systems languages
	"c": dialectSlash, "cpp": dialectSlash, "csharp": dialectSlash,
	"java": dialectSlash, "javascript": dialectSlash, "typescript": dialectSlash,
	"javascriptreact": dialectSlash, "typescriptreact": dialectSlash,
	"go": dialectSlash, "rust": dialectSlash, "swift": dialectSlash,
	"kotlin": dialectSlash, "scala": dialectSlash, "php": dialectSlash,
	"dart": dialectSlash, "objective-c": dialectSlash, "groovy": dialectSlash,
	"json": dialectSlash, "jsonc": dialectSlash,
	"css": dialectSlash, "scss": dialectSlash, "less": dialectSlash,

	// Hash languages: only a line-leading # counts, to avoid string
	// literals that merely contain one.
	"python": dialectHash, "ruby": dialectHash, "perl": dialectHash,
	"shellscript": dialectHash, "bash": dialectHash, "sh": dialectHash,
	"yaml": dialectHash, "toml": dialectHash, "ini": dialectHash,
	"makefile": dialectHash, "dockerfile": dialectHash,
	"r": dialectHash, "elixir": dialectHash, "powershell": dialectHash,

	// Dash languages
	"sql": dialectDash, "lua": dialectDash, "haskell": dialectDash,
	"elm": dialectDash, "ada": dialectDash,
}

func dialectFor(languageID string) dialect {
	if d, ok := lineDialects[strings.ToLower(languageID)]; ok {
		return d
	}
	return dialectSlash
}

// Scanner extracts comment fragments from document text. It is stateless:
// identical inputs always yield identical output.
type Scanner struct{}

// New creates a Scanner.
func New() *Scanner {
	return &Scanner{}
}

// Extract returns the document's translatable comment fragments in document
// order.
func (s *Scanner) Extract(text, languageID string) (fragments []glotmark.CommentFragment, err error) {
	// The regex tables are validated at init; a panic here is a scanner bug
	// and aborts only the current pass.
	defer func() {
		if r := recover(); r != nil {
			fragments = nil
			err = &glotmark.ExtractError{
				Message:    fmt.Sprintf("scan panic: %v", r),
				LanguageID: languageID,
			}
		}
	}()

	lines := splitLines(text, 0)

	fragments = append(fragments, scanLineComments(lines, dialectFor(languageID))...)
	fragments = append(fragments, scanBlocks(text, lines)...)

	sort.SliceStable(fragments, func(i, j int) bool {
		return fragments[i].Range.Start < fragments[j].Range.Start
	})

	return fragments, nil
}

// docLine is one physical line: content span excludes the terminator, whose
// length (0, 1 or 2 bytes) keeps subsequent offsets correct.
type docLine struct {
	content string
	start   int // byte offset of the first content byte
	end     int // byte offset just past the content, before the terminator
	termLen int
	number  int // 0-based document line number of the line's start
}

// splitLines splits text into physical lines with absolute offsets.
// base shifts offsets when text is a slice of a larger document; number is
// left at -1 in that case and resolved by the caller.
func splitLines(text string, base int) []docLine {
	var lines []docLine
	start := 0
	number := 0
	for start <= len(text) {
		rel := strings.IndexByte(text[start:], '\n')
		if rel < 0 {
			if start < len(text) || start == 0 {
				lines = append(lines, docLine{
					content: text[start:],
					start:   base + start,
					end:     base + len(text),
					termLen: 0,
					number:  number,
				})
			}
			break
		}
		end := start + rel
		termLen := 1
		if end > start && text[end-1] == '\r' {
			end--
			termLen = 2
		}
		lines = append(lines, docLine{
			content: text[start:end],
			start:   base + start,
			end:     base + end,
			termLen: termLen,
			number:  number,
		})
		start = start + rel + 1
		number++
	}
	return lines
}

// lineNumberAt resolves a byte offset to a document line number.
func lineNumberAt(lines []docLine, offset int) int {
	n := sort.Search(len(lines), func(i int) bool {
		return lines[i].start+len(lines[i].content)+lines[i].termLen > offset
	})
	if n >= len(lines) {
		if len(lines) == 0 {
			return 0
		}
		return lines[len(lines)-1].number
	}
	return lines[n].number
}

// scanLineComments finds single-line comments per the selected dialect.
func scanLineComments(lines []docLine, d dialect) []glotmark.CommentFragment {
	var fragments []glotmark.CommentFragment
	for _, line := range lines {
		var markerIdx, markerLen int
		switch d {
		case dialectHash:
			trimmed := strings.TrimLeft(line.content, " \t")
			if !strings.HasPrefix(trimmed, "#") {
				continue
			}
			markerIdx = len(line.content) - len(trimmed)
			markerLen = 1
		case dialectDash:
			markerIdx = strings.Index(line.content, "--")
			markerLen = 2
		default:
			markerIdx = strings.Index(line.content, "//")
			markerLen = 2
		}
		if markerIdx < 0 {
			continue
		}

		cleaned := strings.TrimSpace(line.content[markerIdx+markerLen:])
		if !IsTranslatable(cleaned) {
			continue
		}

		fragments = append(fragments, glotmark.CommentFragment{
			Range: glotmark.Range{
				Start:     line.start + markerIdx,
				End:       line.end,
				StartLine: line.number,
				EndLine:   line.number,
			},
			Text: cleaned,
		})
	}
	return fragments
}
