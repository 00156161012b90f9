package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/noteship/noteship/internal/render"
	"github.com/noteship/noteship/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session with the NoteShip backend.

Each message is sent on its own; the backend keeps no conversation state.
Type 'exit', 'quit', or press Esc or Ctrl+C to end the session.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

func runChat(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := deps.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	// A failed check is reported but not fatal; the chat shows errors inline
	spin := newSpinner(cmd.ErrOrStderr(), "Connecting to NoteShip")
	spin.start()
	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	_, err = client.Health(ctx)
	cancel()
	if err != nil {
		spin.stopWithError()
		fmt.Fprintln(cmd.ErrOrStderr(), tui.FormatError(err))
	} else {
		spin.stopWithSuccess("Connected to " + cfg.Endpoint)
	}

	return deps.TUI.RunChat(client, cfg.Endpoint,
		tui.WithRenderOptions(render.LoadOptionsFromConfig(cfg)),
		tui.WithRequestTimeout(requestTimeout(cfg)),
	)
}
