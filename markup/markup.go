// Package markup renders the small amount of inline emphasis that text
// models put into otherwise plain block content.
package markup

import (
	"context"
	"html"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

var (
	reBold       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reItalic     = regexp.MustCompile(`\*([^*]+)\*`)
	reInlineCode = regexp.MustCompile("`([^`]+)`")
)

// Inline returns a templ.Component that writes s as escaped HTML with
// **bold**, *italic* and `code` applied.
func Inline(s string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, FormatInline(s))
		return err
	})
}

// FormatInline escapes s and applies inline emphasis.
func FormatInline(s string) string {
	escaped := html.EscapeString(s)
	// Code spans are swapped out first so emphasis never applies inside them.
	var code []string
	escaped = reInlineCode.ReplaceAllStringFunc(escaped, func(m string) string {
		match := reInlineCode.FindStringSubmatch(m)
		placeholder := "\x00IC" + strconv.Itoa(len(code)) + "\x00"
		code = append(code, "<code>"+match[1]+"</code>")
		return placeholder
	})
	escaped = reBold.ReplaceAllString(escaped, "<strong>$1</strong>")
	escaped = reItalic.ReplaceAllString(escaped, "<em>$1</em>")
	for i, c := range code {
		escaped = strings.Replace(escaped, "\x00IC"+strconv.Itoa(i)+"\x00", c, 1)
	}
	return escaped
}
