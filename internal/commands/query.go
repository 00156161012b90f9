package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/noteship/noteship/internal/config"
	"github.com/noteship/noteship/internal/render"
	"github.com/noteship/noteship/internal/tui"
)

// writeClipboard is replaced in tests
var writeClipboard = clipboard.WriteAll

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"),
	lipgloss.Color("#feca57"),
	lipgloss.Color("#48dbfb"),
	lipgloss.Color("#ff9ff3"),
	lipgloss.Color("#54a0ff"),
	lipgloss.Color("#00d2d3"),
	lipgloss.Color("#1dd1a1"),
}

var (
	colorText     = lipgloss.Color("#c0caf5")
	colorTextMute = lipgloss.Color("#3b4261")
	colorSuccess  = lipgloss.Color("#9ece6a")
	colorPrimary  = lipgloss.Color("#7aa2f7")
	colorWarning  = lipgloss.Color("#f7768e")
)

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
)

// spinner handles the animated loading indicator
type spinner struct {
	w       io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

// newSpinner creates a new animated spinner drawing on w
func newSpinner(w io.Writer, message string) *spinner {
	return &spinner{
		w:       w,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.w, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.w, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

	spinColor := gradientColors[s.frame%len(gradientColors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[s.frame%len(chars)])

	var dots strings.Builder
	numDots := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(dotColor).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(colorText).Render(s.message)
	fmt.Fprintf(s.w, "\r\033[K%s %s %s", spinnerChar, msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	checkmark := lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("✓")
	fmt.Fprintf(s.w, "%s %s\n", checkmark, successStyle.Render(message))
}

// stopWithError stops the spinner and shows error
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}

// reply is what the query commands print
type reply struct {
	label string
	text  string
	html  string
}

// runQuery sends a single message to the chat endpoint and prints the reply
func runQuery(cmd *cobra.Command, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return fmt.Errorf("message cannot be empty")
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
		spin = newSpinner(cmd.ErrOrStderr(), "Thinking")
		spin.start()
	}

	resp, err := client.Chat(ctx, message)
	if err != nil {
		if decorate {
			spin.stopWithError()
			fmt.Fprintln(cmd.ErrOrStderr(), tui.FormatError(err))
		}
		return fmt.Errorf("chat failed: %w", err)
	}
	if decorate {
		spin.stopWithSuccess("Done")
	}

	return writeReply(cmd, cfg, reply{label: "⛵ NoteShip", text: resp.Reply, html: resp.HTML}, decorate)
}

// decorated reports whether output goes to a terminal and no plain mode was requested
func decorated(cmd *cobra.Command) bool {
	if rawFlag || htmlFlag {
		return false
	}
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writeReply prints r in the requested form and copies it when asked
func writeReply(cmd *cobra.Command, cfg config.Config, r reply, decorate bool) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	if copyFlag || cfg.CopyToClipboard {
		if err := writeClipboard(r.text); err != nil {
			fmt.Fprintln(errOut, warningStyle.Render(fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
		} else if decorate {
			fmt.Fprintln(errOut, successStyle.Render("✓ Copied to clipboard"))
		}
	}

	body := r.text
	if htmlFlag {
		body = r.html
	}

	if outputFlag != "" {
		if err := os.WriteFile(outputFlag, []byte(body), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if decorate {
			fmt.Fprintln(errOut, successStyle.Render(fmt.Sprintf("✓ Reply saved to %s", outputFlag)))
		}
		return nil
	}

	if !decorate {
		fmt.Fprint(out, body)
		if !strings.HasSuffix(body, "\n") {
			fmt.Fprintln(out)
		}
		return nil
	}

	bubbleWidth := getTerminalWidth(out) - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	fmt.Fprintln(out, assistantLabelStyle.Render(r.label))
	rendered := render.Terminal(r.text, render.LoadOptionsFromConfig(cfg).WithWidth(contentWidth))
	fmt.Fprintln(out, assistantBubbleStyle.Width(bubbleWidth).Render(rendered))
	return nil
}

// getTerminalWidth returns the width of w when it is a terminal, or 80
func getTerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 80
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
