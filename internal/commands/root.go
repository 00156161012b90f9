// Package commands provides CLI commands for noteship.
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noteship/noteship/internal/config"
)

var (
	// Global flags
	endpointFlag string
	configFlag   string
	logLevelFlag string

	// Input and output flags shared by the query commands
	fileFlag   string
	outputFlag string
	htmlFlag   bool
	rawFlag    bool
	copyFlag   bool

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// deps is swapped in tests
var deps = NewDependencies()

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "noteship [message]",
	Short: "Study assistant chat and revision notes",
	Long: `noteship is a study assistant. It runs the chat backend that relays
questions to a hosted language model, serves the chat widget, and talks
to that backend from the terminal.

Examples:
  noteship serve                        Start the backend and widget
  noteship chat                         Start interactive chat
  noteship "Explain photosynthesis"     Send a single message
  noteship notes "French Revolution"    Generate revision notes
  noteship -f question.md               Read the message from a file
  cat question.md | noteship            Read the message from stdin
  noteship "Quiz me" --html             Print the reply as an HTML fragment
  echo "**bold**" | noteship render     Format text as the widget would`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Fprintf(cmd.OutOrStdout(), "noteship %s (built %s)\n", Version, BuildTime)
			return nil
		}

		message, err := readInput(cmd, args, fileFlag)
		if err != nil {
			return err
		}
		if message == "" {
			return cmd.Help()
		}
		return runQuery(cmd, message)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&endpointFlag, "endpoint", "e", "", "Chat backend URL (default from config)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to the config file")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read the message from file")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")
	addOutputFlags(rootCmd)

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(notesCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// addOutputFlags registers the reply output flags on cmd
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save the reply to file")
	cmd.Flags().BoolVar(&htmlFlag, "html", false, "Print the reply as an HTML fragment")
	cmd.Flags().BoolVar(&rawFlag, "raw", false, "Print the raw reply text")
	cmd.Flags().BoolVar(&copyFlag, "copy", false, "Copy the reply to the clipboard")
}

// configPath returns the config file in use
func configPath() (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	return config.GetConfigPath()
}

// loadConfig loads the config file and applies the global flag overrides
func loadConfig() (config.Config, error) {
	path, err := configPath()
	if err != nil {
		return config.DefaultConfig(), err
	}

	cfg, err := config.LoadConfigFrom(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	if endpointFlag != "" {
		cfg.Endpoint = strings.TrimRight(endpointFlag, "/")
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// readInput returns the text from file, the positional arguments or piped
// stdin, in that order. It returns "" when there is no input.
func readInput(cmd *cobra.Command, args []string, file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), nil
	}

	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	in := cmd.InOrStdin()
	if !hasPipedInput(in) {
		return "", nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

// hasPipedInput reports whether in is something other than an interactive terminal
func hasPipedInput(in io.Reader) bool {
	f, ok := in.(*os.File)
	if !ok {
		return in != nil
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
