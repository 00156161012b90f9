// Package tui provides the terminal chat widget for noteship.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/noteship/noteship/internal/errors"
)

// Sea palette shared with the widget stylesheet
var (
	colorBorder    = lipgloss.Color("#2c4a63")
	colorPrimary   = lipgloss.Color("#4fb3d9") // bot, titles
	colorSecondary = lipgloss.Color("#7bd389") // user
	colorAccent    = lipgloss.Color("#f2c14e") // chips, notices
	colorError     = lipgloss.Color("#ef6f6c")
	colorText      = lipgloss.Color("#e3eef5")
	colorTextDim   = lipgloss.Color("#a7bccb")
	colorTextMute  = lipgloss.Color("#5d7385")
)

// Gradient colors for the typing indicator
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#4fb3d9"),
	lipgloss.Color("#3a8fb7"),
	lipgloss.Color("#2a6f97"),
	lipgloss.Color("#61c9a8"),
}

var (
	headerStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorTextMute).
			Italic(true)

	messagesAreaStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorBorder).
				Padding(0, 1)

	userLabelStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true).
			MarginLeft(4)

	userBubbleStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorSecondary).
			Padding(0, 1).
			MarginLeft(4)

	botLabelStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	botBubbleStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Foreground(colorText).
			Padding(0, 1).
			MarginRight(4)

	errorBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorError).
				Foreground(colorError).
				Padding(0, 1).
				MarginRight(4)

	inputPanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	inputLabelStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	chipStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Padding(0, 1)

	chipActiveStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorTextMute)

	statusKeyStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Bold(true)

	statusDescStyle = lipgloss.NewStyle().
			Foreground(colorTextMute)

	noticeStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Italic(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Align(lipgloss.Center)

	welcomeTitleStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true).
				Align(lipgloss.Center)

	loadingStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)
)

// FormatError returns a styled error message with a hint for the error kind.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	errStyle := lipgloss.NewStyle().Foreground(colorError)
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errStyle.Render(fmt.Sprintf("✗ %v", err)))

	switch {
	case errors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: is the backend running? Start it with 'noteship serve' or pass --endpoint"))
	case errors.IsTimeoutError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: the request timed out. Try again"))
	case errors.GetHTTPStatus(err) == 503:
		sb.WriteString(dimStyle.Render("\n  Hint: the backend could not reach the model. Check BYTEZ_API_KEY on the server"))
	case errors.GetHTTPStatus(err) == 429:
		sb.WriteString(dimStyle.Render("\n  Hint: too many requests. Wait a moment"))
	}

	return sb.String()
}

// PrintError prints a styled error message to stderr.
func PrintError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, FormatError(err))
}
