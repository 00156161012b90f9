// Package models contains the wire and display types shared by the noteship
// client, backend and terminal widget.
package models

// Reply status values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Backend routes
const (
	PathHealth = "/health"
	PathChat   = "/chat"
	PathNotes  = "/notes"
	PathRender = "/render"
)

// MaxTopicLength is the longest topic /notes accepts, in characters.
const MaxTopicLength = 120

// HealthMessage is reported by a running backend.
const HealthMessage = "NOTESHIP backend running successfully."

// DefaultSuggestions returns the prompts offered as suggestion chips.
func DefaultSuggestions() []string {
	return []string{
		"Explain photosynthesis simply",
		"Make revision notes on the French Revolution",
		"Quiz me on derivatives",
		"Summarize Newton's laws of motion",
	}
}
