// Package logging configures the zerolog logger used by the backend and CLI.
package logging

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// MaxValueLength is the longest string value logged before truncation.
const MaxValueLength = 1000

// SensitiveKeys are redacted by Redact when a field name contains one of them.
var SensitiveKeys = []string{
	"password", "passwd",
	"token", "secret",
	"api_key", "apikey", "api-key",
	"authorization", "auth",
	"credential", "cookie",
}

// ParseLevel normalizes a level name. Unknown names fall back to info.
func ParseLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}

// Setup builds a logger writing to w. Terminals get the console writer,
// everything else gets JSON lines.
func Setup(level string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	out := w
	if isTerminal(w) {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	return zerolog.New(out).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// Nop returns a disabled logger.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// IsSensitive reports whether a field name looks like it holds a secret.
func IsSensitive(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range SensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// Redact returns a copy of fields with secrets masked and long strings
// truncated. Nested objects are redacted the same way.
func Redact(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}

	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if IsSensitive(k) {
			out[k] = "[REDACTED]"
			continue
		}
		switch val := v.(type) {
		case string:
			out[k] = Truncate(val, MaxValueLength)
		case map[string]any:
			out[k] = Redact(val)
		default:
			out[k] = v
		}
	}
	return out
}

// Fields converts a JSON-tagged value into a field map for Redact.
func Fields(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// Truncate shortens s to at most n bytes for logging without splitting a
// UTF-8 sequence.
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "...[truncated]"
}
