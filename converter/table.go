package converter

// table.go: Markdown rendering of a table, offered as a text preview to
// clients that cannot display the PDF itself.

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Cortexa-LLC/mcp/src/tablepdf/layout"
)

const minColWidth = 3 // minimum separator width for a valid Markdown table (---)

// MarkdownPreview renders the header and up to maxRows body rows of table as
// a GitHub-Flavored Markdown table. maxRows <= 0 renders every row.
func MarkdownPreview(table layout.Table, maxRows int) string {
	if table.Empty() || table.Columns() == 0 {
		return ""
	}

	body := table.Rows
	truncated := 0
	if maxRows > 0 && len(body) > maxRows {
		truncated = len(body) - maxRows
		body = body[:maxRows]
	}

	rows := make([][]string, 0, len(body)+1)
	rows = append(rows, table.Header)
	rows = append(rows, body...)

	out := renderMarkdownTable(rows, table.Columns())
	if truncated > 0 {
		out += fmt.Sprintf("\n_%d more rows not shown_\n", truncated)
	}
	return out
}

// renderMarkdownTable converts rows into a Markdown table of exactly cols
// columns. The first row is the header. Each column is padded to the width
// of its widest cell (minimum minColWidth).
func renderMarkdownTable(rows [][]string, cols int) string {
	widths := make([]int, cols)
	for i := range widths {
		widths[i] = minColWidth
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			if w := utf8.RuneCountInString(escapeCell(row[i])); w > widths[i] {
				widths[i] = w
			}
		}
	}

	cell := func(row []string, col int) string {
		if col < len(row) {
			return escapeCell(row[col])
		}
		return ""
	}
	pad := func(s string, w int) string {
		if n := utf8.RuneCountInString(s); n < w {
			return s + strings.Repeat(" ", w-n)
		}
		return s
	}

	var sb strings.Builder
	writeRow := func(row []string) {
		sb.WriteString("|")
		for i := 0; i < cols; i++ {
			sb.WriteString(" " + pad(cell(row, i), widths[i]) + " |")
		}
		sb.WriteByte('\n')
	}

	writeRow(rows[0])

	sb.WriteString("|")
	for i := 0; i < cols; i++ {
		sb.WriteString(" " + strings.Repeat("-", widths[i]) + " |")
	}
	sb.WriteByte('\n')

	for _, row := range rows[1:] {
		writeRow(row)
	}

	return sb.String()
}

// escapeCell keeps a cell on one line and stops | from breaking the
// Markdown table syntax.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
