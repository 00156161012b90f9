package api

import (
	"context"
	"sync"

	"github.com/noteship/noteship/internal/models"
)

// MockChatClient is a mock implementation of ChatClientInterface for testing
type MockChatClient struct {
	mu sync.Mutex

	// Mock return values
	ChatReply   *models.ChatReply
	ChatErr     error
	NotesReply  *models.NotesReply
	NotesErr    error
	HealthReply *models.HealthReply
	HealthErr   error

	// ChatFunc overrides ChatReply/ChatErr when set
	ChatFunc func(ctx context.Context, message string) (*models.ChatReply, error)

	// Call counters/recorders
	ChatCalls   int
	NotesCalls  int
	HealthCalls int
	LastMessage string
	LastTopic   string
}

// Ensure MockChatClient implements ChatClientInterface
var _ ChatClientInterface = (*MockChatClient)(nil)

func (m *MockChatClient) Chat(ctx context.Context, message string) (*models.ChatReply, error) {
	m.mu.Lock()
	m.ChatCalls++
	m.LastMessage = message
	fn := m.ChatFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, message)
	}
	return m.ChatReply, m.ChatErr
}

func (m *MockChatClient) Notes(ctx context.Context, topic string) (*models.NotesReply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NotesCalls++
	m.LastTopic = topic
	return m.NotesReply, m.NotesErr
}

func (m *MockChatClient) Health(ctx context.Context) (*models.HealthReply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HealthCalls++
	return m.HealthReply, m.HealthErr
}

// Calls returns the number of Chat calls so far
func (m *MockChatClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ChatCalls
}

// NewMockChatClient returns a mock that answers every message with reply
func NewMockChatClient(reply string) *MockChatClient {
	return &MockChatClient{
		ChatReply: &models.ChatReply{
			Status: models.StatusSuccess,
			Reply:  reply,
		},
		HealthReply: &models.HealthReply{
			Status:  models.StatusSuccess,
			Message: models.HealthMessage,
		},
	}
}
