package api

import (
	"context"
	"errors"
	"testing"

	"github.com/noteship/noteship/internal/models"
)

func TestMockChatClient(t *testing.T) {
	m := NewMockChatClient("pong")

	reply, err := m.Chat(context.Background(), "ping")
	if err != nil {
		t.Fatalf("Chat() error: %v", err)
	}
	if reply.Reply != "pong" {
		t.Errorf("Reply = %q, want pong", reply.Reply)
	}
	if m.LastMessage != "ping" || m.Calls() != 1 {
		t.Errorf("call not recorded: %q %d", m.LastMessage, m.Calls())
	}

	h, err := m.Health(context.Background())
	if err != nil || h.Message != models.HealthMessage {
		t.Errorf("Health() = %v, %v", h, err)
	}

	m.NotesErr = errors.New("nope")
	if _, err := m.Notes(context.Background(), "atoms"); err == nil {
		t.Error("Notes() should return NotesErr")
	}
	if m.LastTopic != "atoms" || m.NotesCalls != 1 {
		t.Errorf("notes call not recorded")
	}
}
