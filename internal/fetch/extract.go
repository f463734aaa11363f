// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// boilerplate lists elements whose text never counts as page content.
const boilerplate = "script, style, noscript, iframe, svg, template, nav, header, footer, aside, form, button"

// contentRoots are tried in order; the first match with text wins.
var contentRoots = []string{"article", "main", "[role=main]", "#content", ".content", "body"}

// blockElements get a paragraph break after their text.
var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "main": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"pre": true, "blockquote": true, "ul": true, "ol": true, "table": true,
	"tr": true, "dl": true, "figure": true, "details": true,
}

// Readability extracts the main readable text of an HTML page.
type Readability struct{}

// Extract parses page as HTML, strips boilerplate, and returns the text of
// the most specific content container. It reports false when the page has
// no text left.
func (Readability) Extract(page string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", false
	}
	doc.Find(boilerplate).Remove()

	for _, sel := range contentRoots {
		root := doc.Find(sel).First()
		if root.Length() == 0 {
			continue
		}
		var b strings.Builder
		writeText(root, &b)
		if text := cleanWhitespace(b.String()); text != "" {
			return text, true
		}
	}
	return "", false
}

// writeText appends the visible text under s, breaking lines at block
// boundaries.
func writeText(s *goquery.Selection, b *strings.Builder) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		name := goquery.NodeName(c)
		if name == "#text" {
			b.WriteString(collapseSpaces(c.Get(0).Data))
			return
		}
		if name == "br" {
			b.WriteString("\n")
			return
		}
		writeText(c, b)
		switch {
		case blockElements[name]:
			b.WriteString("\n\n")
		case name == "li" || name == "dt" || name == "dd":
			b.WriteString("\n")
		}
	})
}

// collapseSpaces turns every whitespace run in a text node, newlines
// included, into a single space.
func collapseSpaces(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !space {
				b.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

// cleanWhitespace collapses runs of spaces within lines and keeps at most
// one blank line between paragraphs.
func cleanWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	cleaned := make([]string, 0, len(lines))
	prevEmpty := true
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if prevEmpty {
				continue
			}
			prevEmpty = true
		} else {
			prevEmpty = false
		}
		cleaned = append(cleaned, line)
	}
	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}
