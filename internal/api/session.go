package api

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/noteship/noteship/internal/models"
)

// ErrorPrefix marks a bot entry that reports a failed request
const ErrorPrefix = "⚠️ "

var (
	// ErrEmptyMessage is returned for input that is blank after trimming
	ErrEmptyMessage = errors.New("message is empty")
	// ErrBusy is returned while a previous message is still awaiting a reply
	ErrBusy = errors.New("a reply is still pending")
	// ErrNotAwaiting is returned by Finish without a matching Begin
	ErrNotAwaiting = errors.New("no message is awaiting a reply")
)

// Exchange is one user message and the bot entry produced for it
type Exchange struct {
	User models.Message
	Bot  models.Message
	// Err is the request failure shown inline in Bot, if any
	Err error
}

// Session holds the state of one chat widget: the message log and whether
// a reply is pending. At most one request is in flight at a time.
type Session struct {
	client ChatClientInterface

	mu       sync.Mutex
	awaiting bool
	messages []models.Message
}

// NewSession creates an empty session using client
func NewSession(client ChatClientInterface) *Session {
	return &Session{client: client}
}

// Submit sends text and records both entries. A failed request is not an
// error here; it becomes an inline bot entry and is reported in Exchange.Err.
func (s *Session) Submit(ctx context.Context, text string) (*Exchange, error) {
	msg, err := s.Begin(text)
	if err != nil {
		return nil, err
	}
	return s.Finish(ctx, msg)
}

// Begin validates text, records the user entry and marks the session as
// awaiting. It returns the trimmed message to pass to Finish.
func (s *Session) Begin(text string) (string, error) {
	msg := strings.TrimSpace(text)
	if msg == "" {
		return "", ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.awaiting {
		return "", ErrBusy
	}
	s.awaiting = true
	s.messages = append(s.messages, models.NewUserMessage(msg))
	return msg, nil
}

// Finish issues the single request for msg claimed by Begin and records the
// bot entry. It always clears the awaiting state. Without a pending Begin it
// sends nothing and returns ErrNotAwaiting.
func (s *Session) Finish(ctx context.Context, msg string) (*Exchange, error) {
	if !s.Awaiting() {
		return nil, ErrNotAwaiting
	}

	reply, err := s.client.Chat(ctx, msg)

	var bot models.Message
	switch {
	case err != nil:
		bot = models.NewBotMessage(ErrorPrefix + err.Error())
	case reply == nil:
		err = errors.New("empty reply")
		bot = models.NewBotMessage(ErrorPrefix + err.Error())
	default:
		bot = models.NewBotMessage(reply.Reply)
	}

	s.mu.Lock()
	s.messages = append(s.messages, bot)
	s.awaiting = false
	s.mu.Unlock()

	return &Exchange{
		User: models.NewUserMessage(msg),
		Bot:  bot,
		Err:  err,
	}, nil
}

// Awaiting reports whether a reply is pending
func (s *Session) Awaiting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.awaiting
}

// Messages returns a copy of the message log
func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// LastBotText returns the text of the most recent bot entry that is not an
// error, or "".
func (s *Session) LastBotText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		m := s.messages[i]
		if m.IsBot() && !strings.HasPrefix(m.Text, ErrorPrefix) {
			return m.Text
		}
	}
	return ""
}

// Reset clears the log. It does not interrupt a pending request.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}
