// Package render turns chat text into display markup: safe HTML fragments
// for the web widget and styled terminal output for the CLI.
package render

// Styles lists the glamour styles selectable by name.
var Styles = []string{"dark", "light", "dracula", "tokyo-night", "pink", "ascii", "notty"}

// minWidth keeps glamour from wrapping every word onto its own line.
const minWidth = 20

// Options configures terminal rendering of a bot reply.
type Options struct {
	Width            int
	Style            string // style name from Styles, or a path to a JSON style file
	EnableEmoji      bool   // :rocket: becomes the emoji
	PreserveNewLines bool
}

// DefaultOptions returns the options used when the config sets nothing.
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
	}
}

// WithWidth returns a copy of o wrapping at width columns.
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns a copy of o using style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

// WithEmoji returns a copy of o with emoji shortcodes on or off.
func (o Options) WithEmoji(enabled bool) Options {
	o.EnableEmoji = enabled
	return o
}

// WithPreserveNewLines returns a copy of o with single newlines kept or folded.
func (o Options) WithPreserveNewLines(enabled bool) Options {
	o.PreserveNewLines = enabled
	return o
}

// normalized clamps the width and fills an empty style so equal renderings
// share one pool.
func (o Options) normalized() Options {
	if o.Width < minWidth {
		o.Width = minWidth
	}
	if o.Style == "" {
		o.Style = DefaultOptions().Style
	}
	return o
}

// NextStyle returns the style after current in Styles, wrapping around.
// Unknown styles restart at the first entry.
func NextStyle(current string) string {
	for i, s := range Styles {
		if s == current {
			return Styles[(i+1)%len(Styles)]
		}
	}
	return Styles[0]
}
