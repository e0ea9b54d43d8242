// Package sanitize strips markup from user-supplied text before it is stored.
// Repositories assume their input already went through this package.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes every tag and attribute. The policy is read-only after
// construction and safe for concurrent use; never mutate it later.
var strict = func() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return p
}()

// Text cleans multi-line content such as a note body: tags are stripped,
// entities unescaped, runs of spaces collapsed per line, and the result
// trimmed. Line breaks are kept.
//
//	"<p>Hello <b>world</b></p>" -> "Hello world"
//	"# Heading\n**bold**"        -> "# Heading\n**bold**"
func Text(s string) string {
	cleaned := strip(s)

	lines := strings.Split(cleaned, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// Line cleans single-line values such as titles and names: like Text, but
// every whitespace run, newlines included, becomes one space.
func Line(s string) string {
	return strings.Join(strings.Fields(strip(s)), " ")
}

func strip(s string) string {
	out := html.UnescapeString(strict.Sanitize(s))
	out = strings.ReplaceAll(out, "\r\n", "\n")
	return strings.ReplaceAll(out, "\u00a0", " ")
}
