package format

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/cristianoliveira/casewatch/internal/colors"
)

// Column is one column of a table over items of type T.
type Column[T any] struct {
	// Name is the column name displayed in the header.
	Name string
	// Width is the column width in characters.
	Width int
	// Alignment is the text alignment (left, right, center).
	Alignment string
	// Extract returns the cell text for an item.
	Extract func(T) string
}

// Table writes items as aligned columns.
type Table[T any] struct {
	Columns     []Column[T]
	ShowHeaders bool
	HeaderColor string
}

// NewTable creates a table with headers.
func NewTable[T any](columns ...Column[T]) *Table[T] {
	return &Table[T]{Columns: columns, ShowHeaders: true, HeaderColor: colors.Blue}
}

// Write writes the header, a separator and one row per item.
func (t *Table[T]) Write(w io.Writer, items []T) error {
	if t.ShowHeaders {
		if err := t.writeLine(w, t.HeaderColor, func(c Column[T]) string {
			return formatString(c.Name, c.Width, "left")
		}); err != nil {
			return err
		}
		if err := t.writeLine(w, t.HeaderColor, func(c Column[T]) string {
			return strings.Repeat("-", c.Width)
		}); err != nil {
			return err
		}
	}
	for _, item := range items {
		if err := t.writeLine(w, "", func(c Column[T]) string {
			return formatString(c.Extract(item), c.Width, c.Alignment)
		}); err != nil {
			return err
		}
	}
	return nil
}

// WriteCompact writes one line per item with cells separated by two spaces
// and no padding.
func (t *Table[T]) WriteCompact(w io.Writer, items []T) error {
	for _, item := range items {
		cells := make([]string, 0, len(t.Columns))
		for _, c := range t.Columns {
			cells = append(cells, c.Extract(item))
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, "  ")); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table[T]) writeLine(w io.Writer, color string, cell func(Column[T]) string) error {
	parts := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		parts = append(parts, cell(c))
	}
	line := strings.TrimRight(strings.Join(parts, "  "), " ")
	if color != "" {
		line = color + line + colors.Reset
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

// formatString pads or truncates s to width, counting runes.
func formatString(s string, width int, alignment string) string {
	n := utf8.RuneCountInString(s)
	if n > width {
		return truncate(s, width)
	}

	switch alignment {
	case "right":
		return strings.Repeat(" ", width-n) + s
	case "center":
		left := (width - n) / 2
		right := width - n - left
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
	default: // left
		return s + strings.Repeat(" ", width-n)
	}
}

// truncate shortens s to width runes, ending in "..." when there is room.
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width < 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
