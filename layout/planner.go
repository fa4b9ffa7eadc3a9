// Package layout decides how a table of strings is placed on a page: which
// orientation to use and how wide each column should be.
package layout

import "unicode/utf8"

const (
	// LandscapeColumnThreshold is the column count above which pages are
	// turned to landscape.
	LandscapeColumnThreshold = 6
	// CharWidthMM approximates the printed width of one character.
	CharWidthMM = 2.5
	// MaxColumnWidthMM caps the natural width of any column.
	MaxColumnWidthMM = 40.0
	// MarginAllowanceMM is subtracted from the page width to get the room
	// available to the table.
	MarginAllowanceMM = 20.0
)

// Table is a header row followed by data rows. Rows may be shorter than the
// header; missing cells are empty.
type Table struct {
	Header []string
	Rows   [][]string
}

// NewTable splits raw rows into header and body. The slices are copied so
// later changes to rows do not leak into the table.
func NewTable(rows [][]string) (Table, error) {
	if len(rows) == 0 {
		return Table{}, ErrEmptyTable
	}
	t := Table{Header: append(make([]string, 0, len(rows[0])), rows[0]...)}
	if len(rows) > 1 {
		t.Rows = make([][]string, len(rows)-1)
		for i, r := range rows[1:] {
			t.Rows[i] = append([]string(nil), r...)
		}
	}
	return t, nil
}

// Columns is the header's column count.
func (t Table) Columns() int { return len(t.Header) }

// Empty reports whether the table has no header row at all. Tables built
// by NewTable are never empty.
func (t Table) Empty() bool { return t.Header == nil }

// Cell returns the value at row/col of the body, or "" for a missing cell.
func (t Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// Plan computes the page geometry and one column width per header column for
// table on a page of the given nominal size. It is a pure function.
func Plan(table Table, size PageSize) (Geometry, []float64, error) {
	if table.Empty() {
		return Geometry{}, nil, ErrEmptyTable
	}

	geom := Orient(size, table.Columns())
	widths := NaturalWidths(table)
	return geom, FitWidths(widths, geom.AvailableWidth()), nil
}

// Orient applies the column-count orientation rule to a nominal size.
func Orient(size PageSize, columns int) Geometry {
	if columns > LandscapeColumnThreshold {
		return Geometry{Width: size.Height, Height: size.Width, Orientation: Landscape}
	}
	return Geometry{Width: size.Width, Height: size.Height, Orientation: Portrait}
}

// NaturalWidths estimates each column's width from its longest cell,
// capped at MaxColumnWidthMM.
func NaturalWidths(table Table) []float64 {
	widths := make([]float64, table.Columns())
	for col, label := range table.Header {
		longest := utf8.RuneCountInString(label)
		for row := range table.Rows {
			if n := utf8.RuneCountInString(table.Cell(row, col)); n > longest {
				longest = n
			}
		}
		widths[col] = min(float64(longest)*CharWidthMM, MaxColumnWidthMM)
	}
	return widths
}

// FitWidths scales every width by the same ratio when their sum exceeds
// available. Widths that already fit are returned unchanged. The input slice
// is not modified.
func FitWidths(widths []float64, available float64) []float64 {
	out := append([]float64(nil), widths...)
	var total float64
	for _, w := range out {
		total += w
	}
	if total <= available {
		return out
	}
	scale := available / total
	for i := range out {
		out[i] *= scale
	}
	return out
}
