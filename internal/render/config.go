package render

import (
	"os"

	"github.com/noteship/noteship/internal/config"
)

// LoadOptionsFromConfig builds terminal options from the user configuration.
// GLAMOUR_STYLE takes precedence over the configured style.
func LoadOptionsFromConfig(cfg config.Config) Options {
	opts := DefaultOptions()

	md := cfg.Markdown
	if md.Style != "" {
		opts.Style = md.Style
	}
	if md.Width > 0 {
		opts.Width = md.Width
	}
	opts.EnableEmoji = md.EnableEmoji
	opts.PreserveNewLines = md.PreserveNewLines

	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}

	return opts
}

// HTMLOptionsFromConfig builds HTML formatter options from the user configuration.
func HTMLOptionsFromConfig(cfg config.Config) HTMLOptions {
	opts := DefaultHTMLOptions()
	if cfg.Markdown.ListItems == config.ListItemsTag {
		opts = opts.WithListStyle(ListTag)
	}
	return opts
}
