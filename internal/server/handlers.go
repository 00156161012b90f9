package server

import (
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/noteship/noteship/internal/ai"
	apierrors "github.com/noteship/noteship/internal/errors"
	"github.com/noteship/noteship/internal/logging"
	"github.com/noteship/noteship/internal/models"
	"github.com/noteship/noteship/internal/render"
)

//go:embed web
var webFS embed.FS

// Error messages returned to clients
const (
	msgMissingMessage = "Missing 'message' field"
	msgEmptyMessage   = "Message cannot be empty"
	msgMissingTopic   = "Missing 'topic' field"
	msgTopicNotString = "Topic must be a string"
	msgTopicEmpty     = "Topic cannot be empty"
	msgTopicTooLong   = "Topic too long (max 120 chars)"
	msgMissingText    = "Missing 'text' field"
	msgUnavailable    = "AI service unavailable"
	msgBodyTooLarge   = "Request body too large"
)

func (s *Server) handleIndex() http.Handler {
	page, err := webFS.ReadFile("web/index.html")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err != nil {
			writeError(w, http.StatusInternalServerError, "widget not available")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	})
}

func (s *Server) handleStatic() http.Handler {
	sub, err := fs.Sub(webFS, "web")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServerFS(sub))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthReply{
		Status:  models.StatusSuccess,
		Message: models.HealthMessage,
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	fields, ok := decodeBody(w, r, "message", msgMissingMessage)
	if !ok {
		return
	}

	message, err := chatMessage(fields)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	reply, err := s.replier.Complete(r.Context(), s.chatPrompt(), message)
	if err != nil {
		s.modelFailure(w, r, err, "chat", logging.Truncate(message, 200))
		return
	}

	writeJSON(w, http.StatusOK, models.ChatReply{
		Status: models.StatusSuccess,
		Query:  message,
		Reply:  reply,
		HTML:   render.HTMLWithOptions(reply, s.htmlOpts),
	})
}

func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	fields, ok := decodeBody(w, r, "topic", msgMissingTopic)
	if !ok {
		return
	}

	topic, err := notesTopic(fields)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	reply, err := s.replier.Complete(r.Context(), s.notesPrompt(), ai.NotesPrompt(topic))
	if err != nil {
		s.modelFailure(w, r, err, "notes", topic)
		return
	}

	writeJSON(w, http.StatusOK, models.NotesReply{
		Status: models.StatusSuccess,
		Topic:  topic,
		Reply:  reply,
		HTML:   render.HTMLWithOptions(reply, s.htmlOpts),
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	fields, ok := decodeBody(w, r, "text", msgMissingText)
	if !ok {
		return
	}

	text, err := renderText(fields)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.RenderReply{HTML: render.HTMLWithOptions(text, s.htmlOpts)})
}

// chatMessage extracts the trimmed, non-empty message field.
func chatMessage(fields map[string]json.RawMessage) (string, error) {
	var message string
	raw, ok := fields["message"]
	if !ok || json.Unmarshal(raw, &message) != nil {
		return "", apierrors.NewValidationError("message", msgMissingMessage)
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return "", apierrors.NewValidationError("message", msgEmptyMessage)
	}
	return message, nil
}

// notesTopic extracts the trimmed topic, at most models.MaxTopicLength runes.
func notesTopic(fields map[string]json.RawMessage) (string, error) {
	raw, ok := fields["topic"]
	if !ok {
		return "", apierrors.NewValidationError("topic", msgMissingTopic)
	}
	var topic string
	if string(raw) == "null" || json.Unmarshal(raw, &topic) != nil {
		return "", apierrors.NewValidationError("topic", msgTopicNotString)
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", apierrors.NewValidationError("topic", msgTopicEmpty)
	}
	if utf8.RuneCountInString(topic) > models.MaxTopicLength {
		return "", apierrors.NewValidationError("topic", msgTopicTooLong)
	}
	return topic, nil
}

func renderText(fields map[string]json.RawMessage) (string, error) {
	var text string
	raw, ok := fields["text"]
	if !ok || json.Unmarshal(raw, &text) != nil {
		return "", apierrors.NewValidationError("text", msgMissingText)
	}
	return text, nil
}

func (s *Server) chatPrompt() string {
	if s.cfg.Prompts.Chat != "" {
		return s.cfg.Prompts.Chat
	}
	return ai.ChatSystemPrompt
}

func (s *Server) notesPrompt() string {
	if s.cfg.Prompts.Notes != "" {
		return s.cfg.Prompts.Notes
	}
	return ai.NotesSystemPrompt
}

// modelFailure logs err and answers 503. A missing API key is reported as
// such; everything else is hidden behind a generic message.
func (s *Server) modelFailure(w http.ResponseWriter, r *http.Request, err error, route, subject string) {
	s.logger.Error().
		Err(err).
		Str("route", route).
		Str("subject", subject).
		Str("request_id", RequestIDFrom(r.Context())).
		Msg("model call failed")

	if errors.Is(err, apierrors.ErrNotConfigured) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeError(w, http.StatusServiceUnavailable, msgUnavailable)
}

// decodeBody reads a JSON object body. On failure it writes the response
// and returns false: 413 for an oversized body, otherwise a validation error
// for field carrying missing.
func decodeBody(w http.ResponseWriter, r *http.Request, field, missing string) (map[string]json.RawMessage, bool) {
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return nil, false
		}
		writeRequestError(w, apierrors.NewValidationError(field, missing))
		return nil, false
	}
	if fields == nil {
		writeRequestError(w, apierrors.NewValidationError(field, missing))
		return nil, false
	}
	return fields, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.NewErrorReply(message))
}

// writeRequestError answers 400 for a rejected field and 500 otherwise.
func writeRequestError(w http.ResponseWriter, err error) {
	if apierrors.IsValidationError(err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
