package parser

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter holds the YAML block at the top of a markdown document.
type Frontmatter struct {
	Title string `yaml:"title"`

	// EndLine is the line of the closing '---' (1-indexed).
	EndLine int `yaml:"-"`
}

// FrontmatterBounds returns the opening and closing frontmatter line indices.
// It only detects frontmatter when the first line is '---'.
// If frontmatter is present but unclosed, endLine is -1.
func FrontmatterBounds(lines []string) (startLine int, endLine int, ok bool) {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return 0, -1, false
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return 0, i, true
		}
	}

	return 0, -1, true
}

// ParseFrontmatter parses YAML frontmatter from markdown content.
// Returns nil if no closed frontmatter block is found.
func ParseFrontmatter(content string) (*Frontmatter, error) {
	lines := strings.Split(content, "\n")

	_, endLine, ok := FrontmatterBounds(lines)
	if !ok || endLine == -1 {
		return nil, nil
	}

	fm := &Frontmatter{}
	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:endLine], "\n")), fm); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter as YAML: %w", err)
	}
	fm.Title = strings.TrimSpace(fm.Title)
	fm.EndLine = endLine + 1
	return fm, nil
}

// StripFrontmatter returns content without its frontmatter block, or content
// unchanged when there is none.
func StripFrontmatter(content string) string {
	lines := strings.Split(content, "\n")
	_, endLine, ok := FrontmatterBounds(lines)
	if !ok || endLine == -1 {
		return content
	}
	return strings.Join(lines[endLine+1:], "\n")
}

// DocumentTitle picks a title for a markdown document: the frontmatter
// title when set, otherwise the shallowest heading of the body. Malformed
// frontmatter is treated as absent.
func DocumentTitle(content string) string {
	if fm, err := ParseFrontmatter(content); err == nil && fm != nil && fm.Title != "" {
		return fm.Title
	}
	return Title(StripFrontmatter(content))
}
