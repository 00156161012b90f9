package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noteship/noteship/internal/render"
)

var (
	renderFileFlag string
	listTagsFlag   bool
	terminalFlag   bool
)

var renderCmd = &cobra.Command{
	Use:   "render [text]",
	Short: "Format text as an HTML fragment",
	Long: `Escape text and apply the chat widget's inline formatting:
bold, italic, inline and fenced code, "### " headings, "- " bullets and
line breaks. The result is safe to insert into a page.

Examples:
  noteship render "**Key** points"
  noteship render -f reply.md
  cat reply.md | noteship render --list-tags
  noteship render --terminal -f reply.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(cmd, args, renderFileFlag)
		if err != nil {
			return err
		}

		if terminalFlag {
			out, err := render.MarkdownWithWidth(text, getTerminalWidth(cmd.OutOrStdout()))
			if err != nil {
				return fmt.Errorf("terminal render failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(out, "\n"))
			return nil
		}

		opts := render.DefaultHTMLOptions()
		if cfg, err := loadConfig(); err == nil {
			opts = render.HTMLOptionsFromConfig(cfg)
		}
		if listTagsFlag {
			opts = opts.WithListStyle(render.ListTag)
		}

		out := render.HTMLWithOptions(strings.TrimRight(text, "\n"), opts)
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderFileFlag, "file", "f", "", "Read text from file")
	renderCmd.Flags().BoolVar(&listTagsFlag, "list-tags", false, "Render bullets as <li> items")
	renderCmd.Flags().BoolVarP(&terminalFlag, "terminal", "t", false, "Render markdown for the terminal instead of HTML")
}
