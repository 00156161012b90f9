package api

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/noteship/noteship/internal/errors"
	"github.com/noteship/noteship/internal/models"
)

func TestSession_Submit(t *testing.T) {
	mock := NewMockChatClient("Hello there")
	s := NewSession(mock)

	ex, err := s.Submit(context.Background(), "  hi  ")
	require.NoError(t, err)
	require.NoError(t, ex.Err)

	assert.Equal(t, "hi", mock.LastMessage, "input should be trimmed")
	assert.Equal(t, models.NewUserMessage("hi"), ex.User)
	assert.Equal(t, models.NewBotMessage("Hello there"), ex.Bot)
	assert.Equal(t, []models.Message{ex.User, ex.Bot}, s.Messages())
	assert.False(t, s.Awaiting())
	assert.Equal(t, "Hello there", s.LastBotText())
}

func TestSession_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t"} {
		mock := NewMockChatClient("x")
		s := NewSession(mock)

		_, err := s.Submit(context.Background(), in)
		assert.ErrorIs(t, err, ErrEmptyMessage)
		assert.Zero(t, mock.Calls(), "no request for %q", in)
		assert.Empty(t, s.Messages())
	}
}

func TestSession_FailureBecomesInlineEntry(t *testing.T) {
	mock := &MockChatClient{ChatErr: apierrors.NewAPIError(500, "/chat", "boom")}
	s := NewSession(mock)

	ex, err := s.Submit(context.Background(), "hi")
	require.NoError(t, err)
	require.Error(t, ex.Err)

	assert.Equal(t, "⚠️ Error 500: boom", ex.Bot.Text)
	assert.True(t, ex.Bot.IsBot())
	assert.Len(t, s.Messages(), 2)
	assert.False(t, s.Awaiting(), "awaiting must clear after a failure")
	assert.Equal(t, "", s.LastBotText(), "error entries are not copy targets")
}

func TestSession_NilReply(t *testing.T) {
	s := NewSession(&MockChatClient{})

	ex, err := s.Submit(context.Background(), "hi")
	require.NoError(t, err)
	assert.Error(t, ex.Err)
	assert.Equal(t, "⚠️ empty reply", ex.Bot.Text)
}

func TestSession_BusyWhileAwaiting(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	mock := &MockChatClient{
		ChatFunc: func(ctx context.Context, message string) (*models.ChatReply, error) {
			close(entered)
			<-release
			return &models.ChatReply{Reply: "done"}, nil
		},
	}
	s := NewSession(mock)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = s.Submit(context.Background(), "first")
	}()

	<-entered
	assert.True(t, s.Awaiting())

	_, err := s.Submit(context.Background(), "second")
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	wg.Wait()

	assert.False(t, s.Awaiting())
	assert.Equal(t, 1, mock.Calls(), "exactly one request per accepted submission")
	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Text)
	assert.Equal(t, "done", msgs[1].Text)
}

func TestSession_BeginFinish(t *testing.T) {
	s := NewSession(NewMockChatClient("ok"))

	msg, err := s.Begin(" q ")
	require.NoError(t, err)
	assert.Equal(t, "q", msg)
	assert.True(t, s.Awaiting())
	assert.Len(t, s.Messages(), 1)

	_, err = s.Begin("again")
	assert.ErrorIs(t, err, ErrBusy)

	ex, err := s.Finish(context.Background(), msg)
	require.NoError(t, err)
	assert.Equal(t, "ok", ex.Bot.Text)
	assert.False(t, s.Awaiting())
}

func TestSession_FinishWithoutBegin(t *testing.T) {
	mock := NewMockChatClient("ok")
	s := NewSession(mock)

	ex, err := s.Finish(context.Background(), "stray")
	assert.ErrorIs(t, err, ErrNotAwaiting)
	assert.Nil(t, ex)
	assert.Empty(t, s.Messages())
	assert.False(t, s.Awaiting())
	assert.Zero(t, mock.ChatCalls)

	_, err = s.Submit(context.Background(), "hi")
	require.NoError(t, err)
	_, err = s.Finish(context.Background(), "again")
	assert.ErrorIs(t, err, ErrNotAwaiting)
	assert.Len(t, s.Messages(), 2)
}

func TestSession_MessagesIsCopy(t *testing.T) {
	s := NewSession(NewMockChatClient("ok"))
	_, _ = s.Submit(context.Background(), "hi")

	msgs := s.Messages()
	msgs[0].Text = "changed"
	assert.Equal(t, "hi", s.Messages()[0].Text)
}

func TestSession_Reset(t *testing.T) {
	s := NewSession(NewMockChatClient("ok"))
	_, _ = s.Submit(context.Background(), "hi")

	s.Reset()
	assert.Empty(t, s.Messages())
	assert.Equal(t, "", s.LastBotText())
}

func TestSession_LastBotTextSkipsErrors(t *testing.T) {
	mock := NewMockChatClient("good answer")
	s := NewSession(mock)
	_, _ = s.Submit(context.Background(), "one")

	mock.ChatErr = errors.New("down")
	mock.ChatReply = nil
	_, _ = s.Submit(context.Background(), "two")

	assert.Equal(t, "good answer", s.LastBotText())
}
