package render

import (
	"strings"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.Width != 80 {
		t.Errorf("expected Width=80, got %d", opts.Width)
	}
	if opts.Style != "dark" {
		t.Errorf("expected Style='dark', got %s", opts.Style)
	}
	if !opts.EnableEmoji {
		t.Error("expected EnableEmoji=true")
	}
	if !opts.PreserveNewLines {
		t.Error("expected PreserveNewLines=true")
	}
}

func TestOptionsChaining(t *testing.T) {
	opts := DefaultOptions().
		WithWidth(100).
		WithStyle("light").
		WithEmoji(false).
		WithPreserveNewLines(false)

	if opts.Width != 100 {
		t.Errorf("expected Width=100, got %d", opts.Width)
	}
	if opts.Style != "light" {
		t.Errorf("expected Style='light', got %s", opts.Style)
	}
	if opts.EnableEmoji {
		t.Error("expected EnableEmoji=false")
	}
	if opts.PreserveNewLines {
		t.Error("expected PreserveNewLines=false")
	}
}

func TestMarkdown(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		width    int
		contains string
	}{
		{name: "heading", input: "### Photosynthesis", width: 80, contains: "Photosynthesis"},
		{name: "bold", input: "This is **bold** text", width: 80, contains: "bold"},
		{name: "code_block", input: "```\nE = mc^2\n```", width: 80, contains: "mc^2"},
		{name: "bullets", input: "- atoms\n- molecules", width: 80, contains: "molecules"},
		{name: "narrow_width", input: "### Long heading that should wrap", width: 20, contains: "Long"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts := DefaultOptions().WithStyle("notty").WithWidth(tc.width)
			output, err := Markdown(tc.input, opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(output, tc.contains) {
				t.Errorf("output should contain %q, got: %s", tc.contains, output)
			}
		})
	}
}

func TestMarkdownEmoji(t *testing.T) {
	input := "Well done :rocket:"

	output, err := Markdown(input, DefaultOptions().WithStyle("notty"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(output, ":rocket:") {
		t.Errorf("emoji should have been converted, got: %s", output)
	}

	output, err = Markdown(input, DefaultOptions().WithStyle("notty").WithEmoji(false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, ":rocket:") {
		t.Errorf("emoji should NOT have been converted, got: %s", output)
	}
}

func TestMarkdownWithWidth(t *testing.T) {
	para := strings.Repeat("the mitochondria is the powerhouse of the cell ", 6)

	narrow, err := MarkdownWithWidth(para, 30)
	if err != nil {
		t.Fatalf("MarkdownWithWidth(30) error: %v", err)
	}
	wide, err := MarkdownWithWidth(para, 120)
	if err != nil {
		t.Fatalf("MarkdownWithWidth(120) error: %v", err)
	}
	if strings.Count(narrow, "\n") <= strings.Count(wide, "\n") {
		t.Errorf("narrow output should wrap onto more lines than wide output")
	}
	if !strings.Contains(wide, "powerhouse") {
		t.Errorf("output lost its text: %q", wide)
	}

	if _, err := MarkdownWithWidth("# Tiny", 0); err != nil {
		t.Errorf("MarkdownWithWidth(0) should clamp the width, got %v", err)
	}
}

func TestNextStyle(t *testing.T) {
	if got := NextStyle(Styles[0]); got != Styles[1] {
		t.Errorf("NextStyle(%q) = %q, want %q", Styles[0], got, Styles[1])
	}
	if got := NextStyle(Styles[len(Styles)-1]); got != Styles[0] {
		t.Errorf("NextStyle(last) = %q, want wrap to %q", got, Styles[0])
	}
	if got := NextStyle("custom.json"); got != Styles[0] {
		t.Errorf("NextStyle(unknown) = %q, want %q", got, Styles[0])
	}
}

func TestEveryStyleRenders(t *testing.T) {
	for _, style := range Styles {
		if _, err := Markdown("**ok**", DefaultOptions().WithStyle(style)); err != nil {
			t.Errorf("style %q: %v", style, err)
		}
	}
}

func TestMarkdownInvalidStyle(t *testing.T) {
	_, err := Markdown("# Test", DefaultOptions().WithStyle("nonexistent_style_path"))
	if err == nil {
		t.Error("expected error for invalid style path")
	}
}

func TestTerminalFallsBackToRawText(t *testing.T) {
	got := Terminal("plain *reply*", DefaultOptions().WithStyle("nonexistent_style_path"))
	if got != "plain *reply*" {
		t.Errorf("Terminal() = %q, want raw content", got)
	}
}

func TestTerminalTrimsTrailingNewlines(t *testing.T) {
	got := Terminal("hello", DefaultOptions().WithStyle("notty"))
	if strings.HasSuffix(got, "\n") {
		t.Errorf("Terminal() should trim trailing newlines, got %q", got)
	}
	if !strings.Contains(got, "hello") {
		t.Errorf("Terminal() = %q, want it to contain hello", got)
	}
}
