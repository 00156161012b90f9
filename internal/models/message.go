package models

import "github.com/noteship/noteship/internal/render"

// Sender identifies who wrote a chat message
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one entry of the chat log
type Message struct {
	Text   string
	Sender Sender
}

// NewUserMessage creates a message authored by the user
func NewUserMessage(text string) Message {
	return Message{Text: text, Sender: SenderUser}
}

// NewBotMessage creates a message authored by the assistant
func NewBotMessage(text string) Message {
	return Message{Text: text, Sender: SenderBot}
}

// IsUser reports whether the user wrote the message
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

// IsBot reports whether the assistant wrote the message
func (m Message) IsBot() bool {
	return m.Sender == SenderBot
}

// HTML returns the message body as a safe HTML fragment.
func (m Message) HTML() string {
	return render.HTML(m.Text)
}
