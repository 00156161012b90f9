package models

// ChatRequest is the body of POST /chat
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatReply is the body returned by POST /chat
type ChatReply struct {
	Status  string `json:"status"`
	Query   string `json:"query,omitempty"`
	Reply   string `json:"reply,omitempty"`
	Message string `json:"message,omitempty"` // error detail when Status is "error"
	HTML    string `json:"html,omitempty"`
}

// OK reports whether the reply carries an answer. A missing status is
// treated as success.
func (r *ChatReply) OK() bool {
	return r.Status == "" || r.Status == StatusSuccess
}

// NotesRequest is the body of POST /notes
type NotesRequest struct {
	Topic string `json:"topic"`
}

// NotesReply is the body returned by POST /notes
type NotesReply struct {
	Status  string `json:"status"`
	Topic   string `json:"topic,omitempty"`
	Reply   string `json:"reply,omitempty"`
	Message string `json:"message,omitempty"`
	HTML    string `json:"html,omitempty"`
}

// OK reports whether the reply carries revision notes.
func (r *NotesReply) OK() bool {
	return r.Status == "" || r.Status == StatusSuccess
}

// RenderRequest is the body of POST /render
type RenderRequest struct {
	Text string `json:"text"`
}

// RenderReply is the body returned by POST /render
type RenderReply struct {
	HTML string `json:"html"`
}

// HealthReply is the body returned by GET /health
type HealthReply struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ErrorReply is the body of every non-2xx backend response
type ErrorReply struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NewErrorReply creates an ErrorReply with status "error"
func NewErrorReply(message string) ErrorReply {
	return ErrorReply{Status: StatusError, Message: message}
}
