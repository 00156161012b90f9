package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/noteship/noteship/internal/config"
	"github.com/noteship/noteship/internal/render"
)

// Menu item indices for the main view
const (
	menuStyle = iota
	menuListItems
	menuCopyToClipboard
	menuEmoji
	menuExit
	menuItemCount
)

// feedbackClearMsg is sent to clear feedback messages
type feedbackClearMsg struct{}

var (
	configPanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorBorder).
				Padding(1, 2)

	configMenuItemStyle = lipgloss.NewStyle().
				Foreground(colorText).
				PaddingLeft(2)

	configMenuSelectedStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)

	configValueStyle    = lipgloss.NewStyle().Foreground(colorTextDim)
	configEnabledStyle  = lipgloss.NewStyle().Foreground(colorSecondary)
	configDisabledStyle = lipgloss.NewStyle().Foreground(colorError)
	configPathStyle     = lipgloss.NewStyle().Foreground(colorTextMute).Italic(true)
	configFeedbackStyle = lipgloss.NewStyle().Foreground(colorTextDim).Italic(true).MarginTop(1)
)

// ConfigModel is the interactive settings editor. Every change is saved
// immediately.
type ConfigModel struct {
	config     config.Config
	configPath string
	save       func(path string, cfg config.Config) error

	cursor          int
	feedback        string
	feedbackTimeout time.Duration

	width int
	ready bool
}

// NewConfigModel creates a settings editor for the file at path
func NewConfigModel(cfg config.Config, path string) ConfigModel {
	return ConfigModel{
		config:          cfg,
		configPath:      path,
		save:            config.SaveConfig,
		feedbackTimeout: 2 * time.Second,
	}
}

// Config returns the edited configuration
func (m ConfigModel) Config() config.Config {
	return m.config
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

// clearFeedback returns a command that clears the feedback message after a delay
func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit

		case "up", "k":
			m.cursor--
			if m.cursor < 0 {
				m.cursor = menuItemCount - 1
			}

		case "down", "j":
			m.cursor++
			if m.cursor >= menuItemCount {
				m.cursor = 0
			}

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	var what string
	switch m.cursor {
	case menuStyle:
		m.config.Markdown.Style = render.NextStyle(m.config.Markdown.Style)
		what = "Markdown style set to " + m.config.Markdown.Style
	case menuListItems:
		if m.config.Markdown.ListItems == config.ListItemsTag {
			m.config.Markdown.ListItems = config.ListItemsGlyph
		} else {
			m.config.Markdown.ListItems = config.ListItemsTag
		}
		what = "List items set to " + m.config.Markdown.ListItems
	case menuCopyToClipboard:
		m.config.CopyToClipboard = !m.config.CopyToClipboard
		what = "Copy to clipboard " + enabledWord(m.config.CopyToClipboard)
	case menuEmoji:
		m.config.Markdown.EnableEmoji = !m.config.Markdown.EnableEmoji
		what = "Emoji " + enabledWord(m.config.Markdown.EnableEmoji)
	case menuExit:
		return m, tea.Quit
	}

	if err := m.save(m.configPath, m.config); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
	} else {
		m.feedback = what
	}
	return m, clearFeedback(m.feedbackTimeout)
}

func enabledWord(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}

// View renders the settings editor
func (m ConfigModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Loading...")
	}

	width := m.width - 4
	if width < 40 {
		width = 40
	}

	items := []struct {
		label string
		value string
	}{
		{"Markdown style", configValueStyle.Render(m.config.Markdown.Style)},
		{"List items", configValueStyle.Render(m.listItems())},
		{"Copy to clipboard", m.renderBoolValue(m.config.CopyToClipboard)},
		{"Emoji", m.renderBoolValue(m.config.Markdown.EnableEmoji)},
		{"Exit", ""},
	}

	var menu strings.Builder
	for i, item := range items {
		line := item.label
		if item.value != "" {
			line = fmt.Sprintf("%-20s %s", item.label, item.value)
		}
		if i == m.cursor {
			menu.WriteString(configMenuSelectedStyle.Render("> " + line))
		} else {
			menu.WriteString(configMenuItemStyle.Render(line))
		}
		menu.WriteString("\n")
	}

	sections := []string{
		titleStyle.Render("⛵ NoteShip settings"),
		configPathStyle.Render(m.configPath),
		configPanelStyle.Width(width).Render(strings.TrimRight(menu.String(), "\n")),
	}
	if m.feedback != "" {
		sections = append(sections, configFeedbackStyle.Render("✓ "+m.feedback))
	}
	sections = append(sections, statusBarStyle.Render("↑↓ Navigate  │  Enter Toggle  │  Esc Quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ConfigModel) listItems() string {
	if m.config.Markdown.ListItems == "" {
		return config.ListItemsGlyph
	}
	return m.config.Markdown.ListItems
}

func (m ConfigModel) renderBoolValue(value bool) string {
	if value {
		return configEnabledStyle.Render("enabled")
	}
	return configDisabledStyle.Render("disabled")
}

// RunConfig starts the settings editor
func RunConfig(cfg config.Config, path string) error {
	p := tea.NewProgram(NewConfigModel(cfg, path), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
