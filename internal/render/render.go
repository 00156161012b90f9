package render

import "strings"

// Markdown renders a bot reply with glamour for terminal display.
func Markdown(content string, opts Options) (string, error) {
	opts = opts.normalized()

	r, err := renderers.acquire(opts)
	if err != nil {
		return "", err
	}
	defer renderers.release(opts, r)

	return r.Render(content)
}

// Terminal is Markdown without the error: content is returned unchanged when
// glamour cannot render it. Trailing newlines are trimmed.
func Terminal(content string, opts Options) string {
	out, err := Markdown(content, opts)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}

// MarkdownWithWidth renders content with the default options wrapped at width.
func MarkdownWithWidth(content string, width int) (string, error) {
	return Markdown(content, DefaultOptions().WithWidth(width))
}
