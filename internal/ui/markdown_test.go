package ui

import (
	"strings"
	"testing"
)

func TestRenderMarkdownNormalizesTrailingNewline(t *testing.T) {
	t.Parallel()

	out, err := RenderMarkdown("# Heading\n\nSome *text*.\n\n\n", 80)
	if err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Fatalf("expected rendered markdown to end with newline, got %q", out)
	}
	if strings.HasSuffix(out, "\n\n") {
		t.Fatalf("expected single trailing newline, got %q", out)
	}
	if !strings.Contains(out, "Heading") {
		t.Fatalf("expected heading text in output, got %q", out)
	}
}

func TestRenderMarkdownDefaultsWidthWhenNonPositive(t *testing.T) {
	t.Parallel()

	out, err := RenderMarkdown("hello", 0)
	if err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}
	if strings.TrimSpace(out) == "" {
		t.Fatalf("expected non-empty rendered output")
	}
}

func TestBodyMarkdownStyleUsesAccentForHeadings(t *testing.T) {
	origAccentColor := accentColor
	t.Cleanup(func() { accentColor = origAccentColor })

	accentColor = "39"
	style := bodyMarkdownStyle()
	if style.Heading.Color == nil || *style.Heading.Color != "39" {
		t.Fatalf("expected heading color 39, got %v", style.Heading.Color)
	}

	accentColor = ""
	style = bodyMarkdownStyle()
	if style.Heading.Color != nil {
		t.Fatalf("expected no heading color without accent")
	}
}
