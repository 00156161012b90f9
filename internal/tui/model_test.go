package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/noteship/noteship/internal/api"
	"github.com/noteship/noteship/internal/models"
)

func newReadyModel(t *testing.T, client api.ChatClientInterface) Model {
	t.Helper()
	m := NewChatModel(client, "http://127.0.0.1:5000")
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func press(m Model, key tea.KeyMsg) (Model, tea.Cmd) {
	updated, cmd := m.Update(key)
	return updated.(Model), cmd
}

func TestNewChatModel(t *testing.T) {
	m := NewChatModel(api.NewMockChatClient("hi"), "http://localhost:5000")

	if m.chip != -1 {
		t.Errorf("chip = %d, want -1", m.chip)
	}
	if len(m.suggestions) != len(models.DefaultSuggestions()) {
		t.Errorf("suggestions = %d, want %d", len(m.suggestions), len(models.DefaultSuggestions()))
	}
	if m.Awaiting() {
		t.Error("new model should not be awaiting")
	}
	if m.View() != loadingStyle.Render("  Initializing...") {
		t.Error("View before the first WindowSizeMsg should show the loading text")
	}
}

func TestModel_WindowSize(t *testing.T) {
	m := newReadyModel(t, api.NewMockChatClient("hi"))

	if !m.ready {
		t.Fatal("model should be ready after WindowSizeMsg")
	}
	if m.width != 100 || m.height != 40 {
		t.Errorf("size = %dx%d, want 100x40", m.width, m.height)
	}
	if !strings.Contains(m.View(), "Welcome to NoteShip") {
		t.Error("empty session should show the welcome screen")
	}
}

func TestModel_SubmitAndReply(t *testing.T) {
	client := api.NewMockChatClient("**Photosynthesis** turns light into sugar")
	m := newReadyModel(t, client)
	m.textarea.SetValue("  Explain photosynthesis  ")

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("submit should return a command")
	}
	if !m.Awaiting() {
		t.Fatal("model should be awaiting after submit")
	}
	if m.textarea.Value() != "" {
		t.Errorf("input = %q, want cleared", m.textarea.Value())
	}
	msgs := m.Messages()
	if len(msgs) != 1 || msgs[0].Text != "Explain photosynthesis" || !msgs[0].IsUser() {
		t.Fatalf("messages = %+v, want one trimmed user entry", msgs)
	}

	// Enter while awaiting is ignored
	m.textarea.SetValue("second")
	m, cmd = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("enter while awaiting should be a no-op")
	}

	reply := m.sendMessage("Explain photosynthesis")()
	updated, _ := m.Update(reply)
	m = updated.(Model)

	if m.Awaiting() {
		t.Error("model should stop awaiting after the reply")
	}
	if client.Calls() != 1 {
		t.Errorf("Chat called %d times, want 1", client.Calls())
	}
	msgs = m.Messages()
	if len(msgs) != 2 || !msgs[1].IsBot() {
		t.Fatalf("messages = %+v, want user then bot", msgs)
	}
	if !strings.Contains(m.viewport.View(), "Photosynthesis") {
		t.Error("bot reply should be rendered in the viewport")
	}
}

func TestModel_EmptyInputIgnored(t *testing.T) {
	client := api.NewMockChatClient("hi")
	m := newReadyModel(t, client)
	m.textarea.SetValue("   \n  ")

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("blank input should not start a request")
	}
	if m.Awaiting() || len(m.Messages()) != 0 {
		t.Error("blank input should not change the session")
	}
}

func TestModel_QuitWords(t *testing.T) {
	for _, word := range []string{"exit", "quit", "/exit", "/quit"} {
		t.Run(word, func(t *testing.T) {
			m := newReadyModel(t, api.NewMockChatClient("hi"))
			m.textarea.SetValue(word)

			_, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
			if cmd == nil {
				t.Fatal("expected quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Errorf("%q should quit", word)
			}
		})
	}
}

func TestModel_ErrorReply(t *testing.T) {
	client := &api.MockChatClient{ChatErr: errors.New("Error 503: AI service unavailable")}
	m := newReadyModel(t, client)
	m.textarea.SetValue("hello")

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	updated, _ := m.Update(m.sendMessage("hello")())
	m = updated.(Model)

	msgs := m.Messages()
	if len(msgs) != 2 {
		t.Fatalf("messages = %d, want 2", len(msgs))
	}
	if msgs[1].Text != api.ErrorPrefix+"Error 503: AI service unavailable" {
		t.Errorf("bot entry = %q", msgs[1].Text)
	}
	if !strings.Contains(m.viewport.View(), "AI service unavailable") {
		t.Error("error entry should be rendered")
	}
}

func TestModel_TabCyclesSuggestions(t *testing.T) {
	m := newReadyModel(t, api.NewMockChatClient("hi"))
	suggestions := models.DefaultSuggestions()

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.textarea.Value() != suggestions[0] {
		t.Errorf("input = %q, want %q", m.textarea.Value(), suggestions[0])
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.textarea.Value() != suggestions[1] {
		t.Errorf("input = %q, want %q", m.textarea.Value(), suggestions[1])
	}

	for range suggestions[1:] {
		m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	}
	if m.chip != 0 {
		t.Errorf("chip = %d, want wrap to 0", m.chip)
	}

	// Typed text is never replaced
	m.textarea.SetValue("my own question")
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.textarea.Value() != "my own question" {
		t.Errorf("tab replaced typed input: %q", m.textarea.Value())
	}
}

func TestModel_CopyLastReply(t *testing.T) {
	var copied string
	orig := writeClipboard
	writeClipboard = func(text string) error {
		copied = text
		return nil
	}
	t.Cleanup(func() { writeClipboard = orig })

	m := newReadyModel(t, api.NewMockChatClient("### Notes"))

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlY})
	if cmd != nil {
		t.Error("copy with no reply should not run a command")
	}
	if m.notice != "Nothing to copy yet" {
		t.Errorf("notice = %q", m.notice)
	}

	m.textarea.SetValue("notes please")
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	updated, _ := m.Update(m.sendMessage("notes please")())
	m = updated.(Model)

	m, cmd = press(m, tea.KeyMsg{Type: tea.KeyCtrlY})
	if cmd == nil {
		t.Fatal("expected copy command")
	}
	updated, _ = m.Update(cmd())
	m = updated.(Model)

	if copied != "### Notes" {
		t.Errorf("clipboard = %q, want raw markdown", copied)
	}
	if m.notice != "Copied last reply to clipboard" {
		t.Errorf("notice = %q", m.notice)
	}
}

func TestModel_CopyFailure(t *testing.T) {
	m := newReadyModel(t, api.NewMockChatClient("hi"))
	updated, _ := m.Update(copiedMsg{err: errors.New("no clipboard utility")})
	m = updated.(Model)

	if m.notice != "Copy failed: no clipboard utility" {
		t.Errorf("notice = %q", m.notice)
	}
	if !strings.Contains(m.View(), "Copy failed") {
		t.Error("notice should appear in the status bar")
	}
}

func TestModel_StrayReplyIsIgnored(t *testing.T) {
	client := api.NewMockChatClient("hi")
	m := newReadyModel(t, client)

	updated, _ := m.Update(m.sendMessage("nobody asked")())
	m = updated.(Model)

	if client.ChatCalls != 0 {
		t.Errorf("ChatCalls = %d, want 0", client.ChatCalls)
	}
	if len(m.Messages()) != 0 {
		t.Errorf("messages = %d, want 0", len(m.Messages()))
	}
	if m.notice != api.ErrNotAwaiting.Error() {
		t.Errorf("notice = %q", m.notice)
	}
}

func TestModel_ResetClearsSession(t *testing.T) {
	m := newReadyModel(t, api.NewMockChatClient("hi"))
	m.textarea.SetValue("hello")
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	updated, _ := m.Update(m.sendMessage("hello")())
	m = updated.(Model)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if len(m.Messages()) != 0 {
		t.Errorf("messages = %d after reset, want 0", len(m.Messages()))
	}
}

func TestModel_InputGrowsToMaxLines(t *testing.T) {
	m := newReadyModel(t, api.NewMockChatClient("hi"))

	m.textarea.SetValue("one\ntwo\nthree")
	m.resizeInput()
	if h := m.textarea.Height(); h != 3 {
		t.Errorf("height = %d, want 3", h)
	}

	m.textarea.SetValue(strings.Repeat("line\n", 12))
	m.resizeInput()
	if h := m.textarea.Height(); h != MaxInputLines {
		t.Errorf("height = %d, want %d", h, MaxInputLines)
	}

	m.textarea.Reset()
	m.resizeInput()
	if h := m.textarea.Height(); h != 1 {
		t.Errorf("height = %d after reset, want 1", h)
	}
}

func TestModel_TypingIgnoredWhileAwaiting(t *testing.T) {
	m := newReadyModel(t, api.NewMockChatClient("hi"))
	m.textarea.SetValue("hello")
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if m.textarea.Value() != "" {
		t.Errorf("input = %q, want unchanged while awaiting", m.textarea.Value())
	}
	if !strings.Contains(m.View(), "Waiting for reply") {
		t.Error("input label should show the waiting state")
	}
}

func TestModel_EscQuits(t *testing.T) {
	m := newReadyModel(t, api.NewMockChatClient("hi"))
	_, cmd := press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("esc should quit")
	}
}
