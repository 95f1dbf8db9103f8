package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const separator = "---\n"

// Split separates YAML frontmatter from the note body. Content without
// frontmatter yields an empty map and the content unchanged.
func Split(content string) (map[string]any, string, error) {
	if !strings.HasPrefix(content, separator) {
		return map[string]any{}, content, nil
	}
	rest := strings.TrimPrefix(content, separator)
	idx := strings.Index(rest, "\n"+separator)
	if idx < 0 {
		return nil, "", fmt.Errorf("invalid frontmatter: missing closing separator")
	}
	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(rest[:idx]), &meta); err != nil {
		return nil, "", fmt.Errorf("unmarshal frontmatter: %w", err)
	}
	return meta, rest[idx+1+len(separator):], nil
}

// Render writes meta as YAML frontmatter followed by body.
func Render(meta map[string]any, body string) (string, error) {
	raw, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(separator)
	buf.Write(raw)
	buf.WriteString(separator)
	if !strings.HasPrefix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString(body)
	return buf.String(), nil
}

// ReplaceBlock swaps the text between start and end markers for generated,
// appending a new block when the markers are absent. Text outside the markers
// is left alone so hand-written notes survive regeneration.
func ReplaceBlock(body, start, end, generated string) string {
	block := start + "\n" + generated + "\n" + end
	i := strings.Index(body, start)
	j := strings.Index(body, end)
	if i >= 0 && j > i {
		return body[:i] + block + body[j+len(end):]
	}
	switch {
	case strings.TrimSpace(body) == "":
		return block + "\n"
	case strings.HasSuffix(body, "\n"):
		return body + "\n" + block + "\n"
	default:
		return body + "\n\n" + block + "\n"
	}
}
