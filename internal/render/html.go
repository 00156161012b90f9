package render

import (
	"regexp"
	"strings"
)

// ListStyle selects how "- item" lines are emitted by HTML.
type ListStyle int

const (
	// ListGlyph prefixes the item with a bullet glyph.
	ListGlyph ListStyle = iota
	// ListTag wraps the item in an <li> element. No <ul> is synthesized.
	ListTag
)

// HTMLOptions configures the HTML formatter.
type HTMLOptions struct {
	ListStyle ListStyle
}

// DefaultHTMLOptions returns the options used by HTML.
func DefaultHTMLOptions() HTMLOptions {
	return HTMLOptions{ListStyle: ListGlyph}
}

// WithListStyle returns HTMLOptions with the specified list style.
func (o HTMLOptions) WithListStyle(style ListStyle) HTMLOptions {
	o.ListStyle = style
	return o
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

var (
	fencedCodeRe = regexp.MustCompile("(?s)```(.*?)```")
	inlineCodeRe = regexp.MustCompile("`([^`]+)`")
	boldRe       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe     = regexp.MustCompile(`\*([^*\n]+)\*`)
	headingRe    = regexp.MustCompile(`(?m)^### (.*)$`)
	bulletRe     = regexp.MustCompile(`(?m)^[ \t]*- (.*)$`)
	preBlockRe   = regexp.MustCompile(`(?s)<pre><code>.*?</code></pre>`)
)

// Escape replaces the five HTML-reserved characters with entities.
func Escape(s string) string {
	return escaper.Replace(s)
}

// HTML converts raw message text into an HTML fragment that is safe to
// insert into a page. Reserved characters are escaped before any markup is
// introduced, so every tag in the result comes from the formatter itself.
func HTML(raw string) string {
	return HTMLWithOptions(raw, DefaultHTMLOptions())
}

// HTMLWithOptions is HTML with explicit formatter options.
//
// The substitutions run in a fixed order and never recurse. Later passes are
// not suppressed inside code regions, so "**x**" inside a fenced block still
// turns bold; only backticks are protected there. Newlines inside fenced blocks are kept as-is; all others become
// <br>.
func HTMLWithOptions(raw string, opts HTMLOptions) string {
	if raw == "" {
		return ""
	}

	out := Escape(raw)
	out = fencedCodeRe.ReplaceAllStringFunc(out, fenceBlock)
	out = inlineCodeRe.ReplaceAllString(out, "<code>$1</code>")
	out = boldRe.ReplaceAllString(out, "<b>$1</b>")
	out = italicRe.ReplaceAllString(out, "<i>$1</i>")
	out = headingRe.ReplaceAllString(out, "<h3>$1</h3>")

	switch opts.ListStyle {
	case ListTag:
		out = bulletRe.ReplaceAllString(out, "<li>$1</li>")
	default:
		out = bulletRe.ReplaceAllString(out, "• $1")
	}

	return breakLines(out)
}

// fenceBlock wraps a ```body``` match. Backticks in the body are emitted as
// &#96; so the inline code pass cannot pair them up.
func fenceBlock(match string) string {
	body := match[3 : len(match)-3]
	return "<pre><code>" + strings.ReplaceAll(body, "`", "&#96;") + "</code></pre>"
}

// breakLines turns newlines into <br> outside of <pre> blocks.
func breakLines(s string) string {
	blocks := preBlockRe.FindAllStringIndex(s, -1)
	if len(blocks) == 0 {
		return strings.ReplaceAll(s, "\n", "<br>")
	}

	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, loc := range blocks {
		b.WriteString(strings.ReplaceAll(s[last:loc[0]], "\n", "<br>"))
		b.WriteString(s[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(strings.ReplaceAll(s[last:], "\n", "<br>"))
	return b.String()
}
