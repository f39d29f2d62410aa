// Package render formats stored merchant copy for display. Settings
// hold raw text; these helpers turn it into presentable paragraphs the
// way storefront themes expect.
package render

import "strings"

// Paragraphs splits raw text into display paragraphs on blank lines.
// Single newlines inside a paragraph are preserved as spaces.
func Paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var out []string
	for _, block := range strings.Split(text, "\n\n") {
		lines := strings.Split(block, "\n")
		for i, line := range lines {
			lines[i] = strings.TrimSpace(line)
		}
		paragraph := strings.TrimSpace(strings.Join(lines, " "))
		if paragraph == "" {
			continue
		}
		out = append(out, paragraph)
	}
	return out
}

var texturizer = strings.NewReplacer(
	"---", "—",
	"--", "–",
	"...", "…",
	"(c)", "©",
	"(r)", "®",
	"(tm)", "™",
)

// Texturize applies typographic substitutions to merchant copy:
// dashes, ellipses, symbol shorthands, and quote styling.
func Texturize(text string) string {
	text = texturizer.Replace(text)
	return smartQuotes(text)
}

func smartQuotes(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	prevBoundary := true
	for _, r := range text {
		switch r {
		case '"':
			if prevBoundary {
				b.WriteRune('“')
			} else {
				b.WriteRune('”')
			}
		case '\'':
			if prevBoundary {
				b.WriteRune('‘')
			} else {
				b.WriteRune('’')
			}
		default:
			b.WriteRune(r)
		}
		prevBoundary = r == ' ' || r == '\n' || r == '\t' || r == '(' || r == '[' || r == '{'
	}
	return b.String()
}

// Instructions prepares stored instruction text for display: texturize
// first, then split into paragraphs.
func Instructions(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return Paragraphs(Texturize(text))
}
