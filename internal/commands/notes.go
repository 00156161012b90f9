package commands

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/noteship/noteship/internal/models"
	"github.com/noteship/noteship/internal/tui"
)

var notesCmd = &cobra.Command{
	Use:   "notes <topic>",
	Short: "Generate revision notes for a topic",
	Long: `Ask the backend for a structured revision sheet on a topic.

The topic may be given as several words:
  noteship notes the French Revolution`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNotes(cmd, strings.Join(args, " "))
	},
}

func init() {
	addOutputFlags(notesCmd)
}

func runNotes(cmd *cobra.Command, topic string) error {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return fmt.Errorf("topic cannot be empty")
	}
	if utf8.RuneCountInString(topic) > models.MaxTopicLength {
		return fmt.Errorf("topic too long (max %d chars)", models.MaxTopicLength)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := deps.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout(cfg))
	defer cancel()

	decorate := decorated(cmd)
	var spin *spinner
	if decorate {
		spin = newSpinner(cmd.ErrOrStderr(), "Writing notes on "+topic)
		spin.start()
	}

	resp, err := client.Notes(ctx, topic)
	if err != nil {
		if decorate {
			spin.stopWithError()
			fmt.Fprintln(cmd.ErrOrStderr(), tui.FormatError(err))
		}
		return fmt.Errorf("notes failed: %w", err)
	}
	if decorate {
		spin.stopWithSuccess("Done")
	}

	return writeReply(cmd, cfg, reply{label: "📝 " + topic, text: resp.Reply, html: resp.HTML}, decorate)
}
