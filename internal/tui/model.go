package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/noteship/noteship/internal/api"
	"github.com/noteship/noteship/internal/models"
	"github.com/noteship/noteship/internal/render"
)

// MaxInputLines is the height the input grows to before it scrolls
const MaxInputLines = 6

// writeClipboard is replaced in tests
var writeClipboard = clipboard.WriteAll

type animationTickMsg time.Time

type (
	replyMsg struct {
		exchange *api.Exchange
		err      error
	}
	copiedMsg struct {
		err error
	}
)

// Model represents the chat widget state
type Model struct {
	session     *api.Session
	endpoint    string
	suggestions []string
	chip        int // index of the suggestion in the input, -1 for none
	renderOpts  render.Options
	timeout     time.Duration

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	awaiting       bool
	ready          bool
	notice         string
	animationFrame int

	// Dimensions
	width  int
	height int
}

// Option configures the chat model
type Option func(*Model)

// WithRenderOptions sets the markdown options for bot replies
func WithRenderOptions(opts render.Options) Option {
	return func(m *Model) {
		m.renderOpts = opts
	}
}

// WithSuggestions replaces the suggestion chips
func WithSuggestions(s []string) Option {
	return func(m *Model) {
		m.suggestions = s
	}
}

// WithRequestTimeout bounds each chat request
func WithRequestTimeout(d time.Duration) Option {
	return func(m *Model) {
		m.timeout = d
	}
}

// NewChatModel creates a new chat TUI model
func NewChatModel(client api.ChatClientInterface, endpoint string, opts ...Option) Model {
	ta := textarea.New()
	ta.Placeholder = "Type your question..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(1)
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextMute)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	m := Model{
		session:     api.NewSession(client),
		endpoint:    endpoint,
		suggestions: models.DefaultSuggestions(),
		chip:        -1,
		renderOpts:  render.DefaultOptions(),
		timeout:     60 * time.Second,
		textarea:    ta,
		spinner:     s,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*120, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentWidth := m.contentWidth()

		if !m.ready {
			m.viewport = viewport.New(contentWidth, m.viewportHeight())
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = m.viewportHeight()
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.updateViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			if m.awaiting {
				return m, nil
			}
			return m.submit()

		case "tab":
			if !m.awaiting && len(m.suggestions) > 0 && m.inputIsChipOrEmpty() {
				m.chip = (m.chip + 1) % len(m.suggestions)
				m.textarea.SetValue(m.suggestions[m.chip])
				m.resizeInput()
			}
			return m, nil

		case "ctrl+y":
			text := m.session.LastBotText()
			if text == "" {
				m.notice = "Nothing to copy yet"
				return m, nil
			}
			return m, copyCmd(text)

		case "ctrl+l":
			if !m.awaiting {
				m.session.Reset()
				m.notice = ""
				m.updateViewport()
			}
			return m, nil
		}

	case replyMsg:
		m.awaiting = false
		m.notice = ""
		if msg.err != nil {
			m.notice = msg.err.Error()
		}
		m.textarea.Focus()
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, textarea.Blink

	case copiedMsg:
		if msg.err != nil {
			m.notice = "Copy failed: " + msg.err.Error()
		} else {
			m.notice = "Copied last reply to clipboard"
		}

	case spinner.TickMsg:
		if m.awaiting {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.awaiting {
			m.animationFrame++
			m.updateViewport()
			cmds = append(cmds, animationTick())
		}
	}

	// Input is disabled while awaiting; only key presses reach the textarea
	if !m.awaiting {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
			m.resizeInput()
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit starts a request for the current input
func (m Model) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textarea.Value())
	if input == "exit" || input == "quit" || input == "/exit" || input == "/quit" {
		return m, tea.Quit
	}

	msg, err := m.session.Begin(input)
	if err != nil {
		if errors.Is(err, api.ErrEmptyMessage) {
			return m, nil
		}
		m.notice = err.Error()
		return m, nil
	}

	m.textarea.Reset()
	m.textarea.Blur()
	m.chip = -1
	m.awaiting = true
	m.notice = ""
	m.animationFrame = 0
	m.resizeInput()
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		m.sendMessage(msg),
		m.spinner.Tick,
		animationTick(),
	)
}

// sendMessage creates a command that finishes the pending request
func (m Model) sendMessage(msg string) tea.Cmd {
	session := m.session
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		ex, err := session.Finish(ctx, msg)
		return replyMsg{exchange: ex, err: err}
	}
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: writeClipboard(text)}
	}
}

func (m Model) inputIsChipOrEmpty() bool {
	v := m.textarea.Value()
	if strings.TrimSpace(v) == "" {
		return true
	}
	return m.chip >= 0 && m.chip < len(m.suggestions) && v == m.suggestions[m.chip]
}

// resizeInput grows the textarea with its content up to MaxInputLines
func (m *Model) resizeInput() {
	lines := m.textarea.LineCount()
	if lines < 1 {
		lines = 1
	}
	if lines > MaxInputLines {
		lines = MaxInputLines
	}
	if lines != m.textarea.Height() {
		m.textarea.SetHeight(lines)
		if m.ready {
			m.viewport.Height = m.viewportHeight()
		}
	}
}

func (m Model) contentWidth() int {
	w := m.width - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) viewportHeight() int {
	headerHeight := 3
	chipsHeight := 1
	inputHeight := m.textarea.Height() + 3
	statusHeight := 1
	borders := 2

	h := m.height - headerHeight - chipsHeight - inputHeight - statusHeight - borders
	if h < 5 {
		h = 5
	}
	return h
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.contentWidth()
	var sections []string

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("⛵ NoteShip"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.endpoint),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(header))

	var messages string
	if len(m.session.Messages()) == 0 {
		messages = m.renderWelcome()
	} else {
		messages = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messages))

	sections = append(sections, m.renderChips())

	label := inputLabelStyle.Render("You")
	if m.awaiting {
		label = hintStyle.Render("Waiting for reply...")
	}
	input := lipgloss.JoinVertical(lipgloss.Left, label, m.textarea.View())
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(input))

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		welcomeTitleStyle.Width(width).Render("Welcome to NoteShip"),
		"",
		welcomeStyle.Width(width).Render("Ask a study question, or press Tab for a suggestion"),
	)

	top := (m.viewport.Height - lipgloss.Height(content)) / 2
	if top < 0 {
		top = 0
	}
	return strings.Repeat("\n", top) + content
}

func (m Model) renderChips() string {
	chips := make([]string, 0, len(m.suggestions))
	for i, s := range m.suggestions {
		if i == m.chip {
			chips = append(chips, chipActiveStyle.Render("["+s+"]"))
		} else {
			chips = append(chips, chipStyle.Render("["+s+"]"))
		}
	}
	return lipgloss.NewStyle().MaxWidth(m.contentWidth()).Render(strings.Join(chips, ""))
}

// renderTyping renders the typing indicator shown while awaiting
func (m Model) renderTyping() string {
	frame := m.animationFrame
	var dots strings.Builder
	for i := 0; i < 3; i++ {
		if i == frame%3 {
			c := gradientColors[frame%len(gradientColors)]
			dots.WriteString(lipgloss.NewStyle().Foreground(c).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}
	return fmt.Sprintf("%s %s %s", m.spinner.View(), hintStyle.Render("NoteShip is typing"), dots.String())
}

func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Alt+Enter", "Newline"},
		{"Tab", "Suggest"},
		{"Ctrl+Y", "Copy"},
		{"Esc", "Quit"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}
	bar := strings.Join(items, "  │  ")
	if m.notice != "" {
		bar = noticeStyle.Render(m.notice) + "  │  " + bar
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}

	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}

	for i, msg := range m.session.Messages() {
		if i > 0 {
			content.WriteString("\n")
		}
		content.WriteString(m.renderMessage(msg, bubbleWidth))
		content.WriteString("\n")
	}

	if m.awaiting {
		content.WriteString("\n")
		content.WriteString(botLabelStyle.Render("⛵ NoteShip"))
		content.WriteString("\n")
		content.WriteString(m.renderTyping())
	}

	m.viewport.SetContent(content.String())
}

func (m Model) renderMessage(msg models.Message, width int) string {
	if msg.IsUser() {
		return userLabelStyle.Render("● You") + "\n" + userBubbleStyle.Width(width).Render(msg.Text)
	}

	label := botLabelStyle.Render("⛵ NoteShip")
	if strings.HasPrefix(msg.Text, api.ErrorPrefix) {
		return label + "\n" + errorBubbleStyle.Width(width).Render(msg.Text)
	}

	rendered := render.Terminal(msg.Text, m.renderOpts.WithWidth(width-4))
	return label + "\n" + botBubbleStyle.Width(width).Render(rendered)
}

// Messages returns the chat log
func (m Model) Messages() []models.Message {
	return m.session.Messages()
}

// Awaiting reports whether a reply is pending
func (m Model) Awaiting() bool {
	return m.awaiting
}

// RunChat starts the chat TUI
func RunChat(client api.ChatClientInterface, endpoint string, opts ...Option) error {
	m := NewChatModel(client, endpoint, opts...)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
