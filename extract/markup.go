package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// tagRe detects real markup in a doc line before paying for a parse.
var tagRe = regexp.MustCompile(`</?[A-Za-z][^>]*>`)

// codeTags are elements whose content is code, not prose, and is dropped
// rather than translated.
var codeTags = map[string]bool{
	"code":   true,
	"pre":    true,
	"tt":     true,
	"kbd":    true,
	"samp":   true,
	"script": true,
	"style":  true,
}

// stripMarkup reduces embedded markup in a doc-comment line (Javadoc and
// JSDoc routinely contain <p>, <code>, <a>) to its prose text. Lines without
// markup pass through untouched; a parse failure leaves the line as-is.
func stripMarkup(line string) string {
	if !strings.Contains(line, "<") || !tagRe.MatchString(line) {
		return line
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(line))
	if err != nil {
		return line
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && codeTags[strings.ToLower(n.Data)] {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
