package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/noteship/noteship/internal/ai"
	"github.com/noteship/noteship/internal/config"
	"github.com/noteship/noteship/internal/logging"
	"github.com/noteship/noteship/internal/server"
)

var (
	hostFlag string
	portFlag int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chat backend and widget",
	Long: `Run the NoteShip backend. It serves the chat widget at /, relays
POST /chat and POST /notes to the hosted model, and formats text on
POST /render.

The model service key is read from BYTEZ_API_KEY and the model from
MODEL_ID. Without a key the backend still starts and answers model
requests with 503.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if hostFlag != "" {
			cfg.Server.Host = hostFlag
		}
		if portFlag > 0 {
			cfg.Server.Port = portFlag
		}

		logger := logging.Setup(cfg.LogLevel, cmd.ErrOrStderr())

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runServe(ctx, cfg, logger, cmd.OutOrStdout())
	},
}

func init() {
	serveCmd.Flags().StringVar(&hostFlag, "host", "", "Listen host (default from config)")
	serveCmd.Flags().IntVarP(&portFlag, "port", "p", 0, "Listen port (default from config)")
}

// runServe starts the backend and blocks until ctx is done
func runServe(ctx context.Context, cfg config.Config, logger zerolog.Logger, out io.Writer) error {
	client, err := ai.NewClientFromConfig(cfg.Model, ai.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	if fields, err := logging.Fields(cfg); err == nil {
		logger.Debug().Fields(logging.Redact(fields)).Msg("effective configuration")
	}
	if !client.Configured() {
		logger.Warn().Msg("BYTEZ_API_KEY is not set; model requests will fail with 503")
	}

	srv := server.New(cfg, client, server.WithLogger(logger))
	if err := srv.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintf(out, "NoteShip backend listening on http://%s\n", srv.Addr())

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	logger.Info().Msg("noteship backend stopped")
	return nil
}
