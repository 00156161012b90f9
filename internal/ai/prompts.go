package ai

import "fmt"

// Default system prompts
const (
	ChatSystemPrompt  = "You are NOTESHIP, a helpful study assistant."
	NotesSystemPrompt = "Act as an expert academic tutor. Your goal is to create structured, high-quality revision notes."
)

const notesTemplate = `Create a revision sheet for the topic: %q.

Follow this strict structure:
1. **Definition/Core Concept** – concise (2–3 sentences)
2. **Key Formulas/Dates**
3. **Key Points** – 5–7 bullet points
4. **Common Mistakes**
5. **Real-world Example**

Return clean Markdown.`

// NotesPrompt builds the revision sheet request for topic.
func NotesPrompt(topic string) string {
	return fmt.Sprintf(notesTemplate, topic)
}
