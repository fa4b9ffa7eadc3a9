package converter

// render.go: table to PDF via github.com/go-pdf/fpdf.
//
// Cells are drawn manually rather than with fpdf's automatic page breaks so
// the header can repeat on every page and so rows that can never fit are
// reported as a LayoutOverflowError instead of being clipped.

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/Cortexa-LLC/mcp/src/tablepdf/layout"
)

const (
	mmPerPt = 25.4 / 72
	// lineHeightFactor matches the leading most table renderers use for
	// single-spaced cell text.
	lineHeightFactor = 1.15
)

// RGB is an 8-bit colour.
type RGB struct{ R, G, B int }

// Style holds the presentation parameters handed to the renderer.
type Style struct {
	Title         string
	TitleFontSize float64 // pt
	TitleY        float64 // mm, baseline of the title
	TableTop      float64 // mm, first page
	Margin        float64 // mm, left edge and top/bottom of continuation pages
	FontFamily    string
	FontSize      float64 // pt
	CellPadding   float64 // mm
	HeaderFill    RGB
	HeaderText    RGB
	BodyText      RGB
	StripeFill    RGB
}

// DefaultStyle is the house style: 8pt Helvetica, 1mm padding, blue header
// with white text and lightly striped body rows.
func DefaultStyle() Style {
	return Style{
		TitleFontSize: 16,
		TitleY:        15,
		TableTop:      25,
		Margin:        10,
		FontFamily:    "Helvetica",
		FontSize:      8,
		CellPadding:   1,
		HeaderFill:    RGB{52, 152, 219},
		HeaderText:    RGB{255, 255, 255},
		BodyText:      RGB{80, 80, 80},
		StripeFill:    RGB{245, 245, 245},
	}
}

func (s Style) lineHeight() float64 {
	return s.FontSize * mmPerPt * lineHeightFactor
}

// RenderPDF draws table on pages of the given geometry using one width per
// column. Content that cannot be placed yields a *LayoutOverflowError.
func RenderPDF(table layout.Table, geom layout.Geometry, widths []float64, style Style) ([]byte, error) {
	if len(widths) != table.Columns() {
		return nil, fmt.Errorf("render pdf: %d widths for %d columns", len(widths), table.Columns())
	}

	initType := &fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: geom.Width, Ht: geom.Height},
	}
	if geom.Orientation == layout.Landscape {
		// fpdf swaps the sides back for landscape documents.
		initType.OrientationStr = "L"
		initType.Size = fpdf.SizeType{Wd: geom.Height, Ht: geom.Width}
	}
	pdf := fpdf.NewCustom(initType)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(style.Margin, style.Margin, style.Margin)
	pdf.SetCellMargin(0)
	pdf.SetCreator("tablepdf", true)
	if style.Title != "" {
		pdf.SetTitle(style.Title, true)
	}

	r := &tableRenderer{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		table:  table,
		geom:   geom,
		widths: widths,
		style:  style,
	}
	if err := r.render(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type tableRenderer struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	table  layout.Table
	geom   layout.Geometry
	widths []float64
	style  Style

	y    float64
	page int
}

// cellLines is one row already wrapped to its column widths.
type cellLines [][]string

func (r *tableRenderer) render() error {
	s := r.style
	for col, w := range r.widths {
		if w-2*s.CellPadding <= 0 {
			return &LayoutOverflowError{Reason: fmt.Sprintf("column is %.2fmm wide, leaving no room inside its padding", w), Column: col, Row: -1}
		}
	}

	r.pdf.SetFont(s.FontFamily, "B", s.FontSize)
	header := r.wrapRow(r.table.Header)
	headerH := r.rowHeight(header)

	bottom := r.geom.Height - s.Margin
	if s.TableTop+headerH > bottom {
		return &LayoutOverflowError{Reason: "the header row does not fit on the page", Column: -1, Row: -1}
	}

	r.newPage()
	r.y = s.TableTop
	r.drawHeader(header)

	for i, row := range r.table.Rows {
		r.pdf.SetFont(s.FontFamily, "", s.FontSize)
		lines := r.wrapRow(padRow(row, r.table.Columns()))
		h := r.rowHeight(lines)
		if r.y+h > bottom {
			if i == 0 {
				// Breaking here would leave the header alone on the first page.
				return &LayoutOverflowError{Reason: "the first row does not fit below the title and header", Column: -1, Row: 0}
			}
			if s.Margin+headerH+h > bottom {
				return &LayoutOverflowError{Reason: "a row is taller than the page", Column: -1, Row: i}
			}
			r.newPage()
			r.y = s.Margin
			r.drawHeader(header)
		}
		r.drawBody(lines, h, i)
	}
	return r.pdf.Error()
}

func (r *tableRenderer) newPage() {
	r.pdf.AddPage()
	r.page++
	if r.page == 1 && r.style.Title != "" {
		r.pdf.SetFont(r.style.FontFamily, "B", r.style.TitleFontSize)
		r.pdf.SetTextColor(0, 0, 0)
		title := r.tr(r.style.Title)
		x := (r.geom.Width - r.pdf.GetStringWidth(title)) / 2
		r.pdf.Text(max(x, r.style.Margin), r.style.TitleY, title)
	}
}

func (r *tableRenderer) drawHeader(lines cellLines) {
	s := r.style
	r.pdf.SetFont(s.FontFamily, "B", s.FontSize)
	r.pdf.SetFillColor(s.HeaderFill.R, s.HeaderFill.G, s.HeaderFill.B)
	r.pdf.SetTextColor(s.HeaderText.R, s.HeaderText.G, s.HeaderText.B)
	r.drawRow(lines, r.rowHeight(lines), true)
}

func (r *tableRenderer) drawBody(lines cellLines, h float64, index int) {
	s := r.style
	r.pdf.SetFont(s.FontFamily, "", s.FontSize)
	r.pdf.SetFillColor(s.StripeFill.R, s.StripeFill.G, s.StripeFill.B)
	r.pdf.SetTextColor(s.BodyText.R, s.BodyText.G, s.BodyText.B)
	r.drawRow(lines, h, index%2 == 1)
}

func (r *tableRenderer) drawRow(lines cellLines, h float64, fill bool) {
	s := r.style
	lh := s.lineHeight()
	x := s.Margin
	for col, cell := range lines {
		w := r.widths[col]
		if fill {
			r.pdf.Rect(x, r.y, w, h, "F")
		}
		for i, line := range cell {
			r.pdf.SetXY(x+s.CellPadding, r.y+s.CellPadding+float64(i)*lh)
			r.pdf.CellFormat(w-2*s.CellPadding, lh, line, "", 0, "L", false, 0, "")
		}
		x += w
	}
	r.y += h
}

// wrapRow wraps every cell of row to its column.
func (r *tableRenderer) wrapRow(row []string) cellLines {
	out := make(cellLines, len(row))
	for col, v := range row {
		out[col] = wrapText(r.pdf.GetStringWidth, r.tr(v), r.widths[col]-2*r.style.CellPadding)
	}
	return out
}

func (r *tableRenderer) rowHeight(lines cellLines) float64 {
	n := 1
	for _, cell := range lines {
		n = max(n, len(cell))
	}
	return float64(n)*r.style.lineHeight() + 2*r.style.CellPadding
}

func padRow(row []string, n int) []string {
	if len(row) >= n {
		return row[:n]
	}
	out := make([]string, n)
	copy(out, row)
	return out
}

// wrapText breaks s into lines no wider than width as measured by measure.
// Words are kept whole when they fit on a line of their own and split
// byte by byte otherwise; a single character wider than width still gets a
// line to itself. s must already be in the font's single-byte encoding.
func wrapText(measure func(string) float64, s string, width float64) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		cur := ""
		for _, word := range words {
			candidate := word
			if cur != "" {
				candidate = cur + " " + word
			}
			if measure(candidate) <= width {
				cur = candidate
				continue
			}
			if cur != "" {
				lines = append(lines, cur)
				cur = ""
			}
			if measure(word) <= width {
				cur = word
				continue
			}
			for i := 0; i < len(word); i++ {
				next := cur + word[i:i+1]
				if cur == "" || measure(next) <= width {
					cur = next
					continue
				}
				lines = append(lines, cur)
				cur = word[i : i+1]
			}
		}
		lines = append(lines, cur)
	}
	return lines
}
