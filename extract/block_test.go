package extract

import (
	"strings"
	"testing"
)

func TestExtract_CStyleBlock(t *testing.T) {
	s := New()
	text := "/*\n * Initializes the session state\n * and restores saved tabs.\n */\nfunc setup() {}\n"

	frags, err := s.Extract(text, "go")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	texts := fragmentTexts(frags)
	if len(texts) != 2 {
		t.Fatalf("Expected 2 fragments, got %d: %v", len(texts), texts)
	}
	if texts[0] != "Initializes the session state" {
		t.Errorf("Leading '*' should be stripped, got %q", texts[0])
	}
	if texts[1] != "and restores saved tabs." {
		t.Errorf("Expected second block line, got %q", texts[1])
	}
}

func TestExtract_BlockLinesAnchorAtLineEnd(t *testing.T) {
	s := New()
	text := "/* Parses the config file */\nx = 1\n"

	frags, err := s.Extract(text, "c")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(frags) != 1 {
		t.Fatalf("Expected 1 fragment, got %d", len(frags))
	}
	f := frags[0]
	if f.Range.Start != f.Range.End {
		t.Errorf("Block fragment should be a zero-width anchor, got %d-%d", f.Range.Start, f.Range.End)
	}
	if want := strings.Index(text, "\n"); f.Range.Start != want {
		t.Errorf("Expected anchor at end of line (%d), got %d", want, f.Range.Start)
	}
	if f.Range.StartLine != 0 {
		t.Errorf("Expected line 0, got %d", f.Range.StartLine)
	}
}

func TestExtract_HTMLComment(t *testing.T) {
	s := New()
	text := "<div>\n<!-- Renders the login banner -->\n</div>\n"

	frags, err := s.Extract(text, "html")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	texts := fragmentTexts(frags)
	if len(texts) != 1 || texts[0] != "Renders the login banner" {
		t.Fatalf("Expected HTML comment text, got %v", texts)
	}
}

func TestExtract_TripleQuoted(t *testing.T) {
	s := New()
	text := "def load():\n    \"\"\"Reads the manifest from disk.\"\"\"\n    pass\n'''Cleans up temp files.'''\n"

	frags, err := s.Extract(text, "python")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	texts := fragmentTexts(frags)
	if len(texts) != 2 {
		t.Fatalf("Expected 2 fragments, got %d: %v", len(texts), texts)
	}
	if texts[0] != "Reads the manifest from disk." {
		t.Errorf("Expected docstring text, got %q", texts[0])
	}
	if texts[1] != "Cleans up temp files." {
		t.Errorf("Expected single-quoted docstring text, got %q", texts[1])
	}
}

func TestCleanBlockLine_DocTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"tag with typed param", "@param {string} name The user's display name", "The user's display name"},
		{"bare tag dropped", "@return void", ""},
		{"tag only", "@deprecated", ""},
		{"tag with dollar token only", "@see $httpProvider", ""},
		{"tag with untyped param", "@param userId The user's unique identifier", "The user's unique identifier"},
		{"tag with non-ascii description", "@param {number} idx 対象の行番号", "対象の行番号"},
		{"plain prose untouched", "Loads the user profile", "Loads the user profile"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cleanBlockLine(tt.input, true)
			if got != tt.want {
				t.Errorf("cleanBlockLine(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanBlockLine_MarkupStripped(t *testing.T) {
	got := cleanBlockLine("* Returns the <b>current</b> value", true)
	if got != "Returns the current value" {
		t.Errorf("Expected markup stripped, got %q", got)
	}

	got = cleanBlockLine("Use <code>fetchAll</code> for bulk reads", false)
	if got != "Use for bulk reads" {
		t.Errorf("Expected code contents dropped, got %q", got)
	}
}
