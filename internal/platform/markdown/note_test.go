package markdown_test

import (
	"strings"
	"testing"

	"efforts/internal/platform/markdown"
)

func TestRenderAndSplit(t *testing.T) {
	t.Parallel()
	rendered, err := markdown.Render(map[string]any{"date": "2026-03-07", "sessions": 2}, "# Report\n")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(rendered, "---\n") {
		t.Fatalf("missing frontmatter: %q", rendered)
	}
	meta, body, err := markdown.Split(rendered)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if meta["date"] != "2026-03-07" || meta["sessions"] != 2 {
		t.Fatalf("unexpected meta %+v", meta)
	}
	if body != "\n# Report\n" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestSplitWithoutFrontmatterAndBroken(t *testing.T) {
	t.Parallel()
	meta, body, err := markdown.Split("plain")
	if err != nil || len(meta) != 0 || body != "plain" {
		t.Fatalf("plain content should pass through: %v %v %q", err, meta, body)
	}
	if _, _, err := markdown.Split("---\nkey: v\nno close"); err == nil {
		t.Fatalf("expected missing separator error")
	}
}

func TestReplaceBlock(t *testing.T) {
	t.Parallel()
	const start, end = "<!-- a -->", "<!-- b -->"
	first := markdown.ReplaceBlock("", start, end, "one")
	if first != start+"\none\n"+end+"\n" {
		t.Fatalf("unexpected first block %q", first)
	}
	withNotes := "my notes\n" + first
	second := markdown.ReplaceBlock(withNotes, start, end, "two")
	if !strings.HasPrefix(second, "my notes\n") || !strings.Contains(second, "\ntwo\n") || strings.Contains(second, "one") {
		t.Fatalf("block not replaced in place: %q", second)
	}
	appended := markdown.ReplaceBlock("notes", start, end, "x")
	if appended != "notes\n\n"+start+"\nx\n"+end+"\n" {
		t.Fatalf("unexpected appended block %q", appended)
	}
}
