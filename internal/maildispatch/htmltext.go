// README: Plain-text body derivation from HTML.
package maildispatch

import (
	"html"
	"strings"
)

// htmlToText strips tags and unescapes entities so every HTML email has a
// readable text alternative. Block-closing tags and <br> become newlines;
// runs of whitespace collapse.
func htmlToText(s string) string {
	var b strings.Builder
	inTag := false
	tagStart := 0
	for i, r := range s {
		switch {
		case r == '<':
			inTag = true
			tagStart = i + 1
		case r == '>' && inTag:
			inTag = false
			tag := strings.ToLower(strings.TrimSpace(s[tagStart:i]))
			if isLineBreakTag(tag) {
				b.WriteByte('\n')
			}
		case !inTag:
			b.WriteRune(r)
		}
	}

	text := html.UnescapeString(b.String())
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if fields := strings.Fields(line); len(fields) > 0 {
			lines = append(lines, strings.Join(fields, " "))
		}
	}
	return strings.Join(lines, "\n")
}

func isLineBreakTag(tag string) bool {
	if strings.HasPrefix(tag, "br") {
		return true
	}
	for _, closing := range []string{"/p", "/div", "/tr", "/table", "/h1", "/h2", "/h3", "/li"} {
		if tag == closing {
			return true
		}
	}
	return false
}
