package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/aidanlsb/quill/internal/note"
)

// ColumnDef defines a column in a NotesTable.
type ColumnDef struct {
	Name       string
	WidthRatio float64 // proportion of the flexible width; 0 means fixed
	MinWidth   int
	MaxWidth   int // 0 = no limit
	Style      lipgloss.Style
}

// NotesLayout returns the column layout used by list, open and show:
// [id, title, tags, body]. Styles are read at call time so the configured
// accent applies.
func NotesLayout() []ColumnDef {
	return []ColumnDef{
		{Name: "id", MinWidth: 16, MaxWidth: 16, Style: Accent},
		{Name: "title", WidthRatio: 0.40, MinWidth: 16, MaxWidth: 60, Style: lipgloss.NewStyle()},
		{Name: "tags", WidthRatio: 0.20, MinWidth: 8, MaxWidth: 30, Style: Muted},
		{Name: "body", WidthRatio: 0.40, MinWidth: 16, Style: lipgloss.NewStyle()},
	}
}

const (
	columnPadding = 2
	leftMargin    = 2
)

// NotesTable renders notes as an aligned, borderless table.
type NotesTable struct {
	display *DisplayContext
	columns []ColumnDef
	notes   []note.Note
}

// NewNotesTable creates a table for the given display context.
func NewNotesTable(display *DisplayContext) *NotesTable {
	if display == nil {
		display = NewDisplayContext()
	}
	return &NotesTable{display: display, columns: NotesLayout()}
}

// Add appends notes to the table.
func (t *NotesTable) Add(notes ...note.Note) {
	t.notes = append(t.notes, notes...)
}

// calculateWidths computes column widths based on terminal size and column
// definitions.
func (t *NotesTable) calculateWidths() []int {
	widths := make([]int, len(t.columns))

	var totalRatio float64
	var fixedWidth int
	for i, col := range t.columns {
		if col.WidthRatio == 0 {
			widths[i] = col.MinWidth
			fixedWidth += widths[i]
		} else {
			totalRatio += col.WidthRatio
		}
	}

	totalPadding := (len(t.columns) - 1) * columnPadding
	available := t.display.AvailableWidth(leftMargin) - fixedWidth - totalPadding
	if available < 0 {
		available = 0
	}

	for i, col := range t.columns {
		if col.WidthRatio == 0 {
			continue
		}
		width := int(float64(available) * col.WidthRatio / totalRatio)
		if width < col.MinWidth {
			width = col.MinWidth
		}
		if col.MaxWidth > 0 && width > col.MaxWidth {
			width = col.MaxWidth
		}
		widths[i] = width
	}
	return widths
}

// Render generates the table output. It returns "" when there are no notes.
func (t *NotesTable) Render() string {
	if len(t.notes) == 0 {
		return ""
	}

	widths := t.calculateWidths()
	lines := make([]string, 0, len(t.notes))
	for _, n := range t.notes {
		cells := []string{
			n.ID.String(),
			TruncateWithEllipsis(n.Title, widths[1]),
			TruncateWithEllipsis(note.JoinTags(n.Tags), widths[2]),
			TruncateLeft(n.Body, widths[3]),
		}
		rendered := make([]string, len(cells))
		for col, cell := range cells {
			rendered[col] = t.cellStyle(col, widths).Render(cell)
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}
	return strings.Join(lines, "\n")
}

// cellStyle pads every column but the last to its width. Cells are already
// truncated, so nothing wraps and each note stays on one line.
func (t *NotesTable) cellStyle(col int, widths []int) lipgloss.Style {
	style := t.columns[col].Style
	if col == len(t.columns)-1 {
		return style
	}
	// lipgloss counts padding inside the width.
	return style.Width(widths[col] + columnPadding).PaddingRight(columnPadding)
}

// TruncateWithEllipsis truncates s to maxLen cells, adding an ellipsis if
// needed. It tries to break at word boundaries.
func TruncateWithEllipsis(s string, maxLen int) string {
	if runewidth.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return runewidth.Truncate(s, maxLen, "")
	}

	truncated := runewidth.Truncate(s, maxLen-3, "")
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > len(truncated)/2 {
		truncated = truncated[:lastSpace]
	}
	return truncated + "..."
}

// TruncateLeft keeps the tail of s, which is the informative end of a path.
func TruncateLeft(s string, maxLen int) string {
	if runewidth.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return runewidth.TruncateLeft(s, runewidth.StringWidth(s)-maxLen, "")
	}
	return runewidth.TruncateLeft(s, runewidth.StringWidth(s)-maxLen+3, "...")
}
