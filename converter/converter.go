package converter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Cortexa-LLC/mcp/src/tablepdf/config"
	"github.com/Cortexa-LLC/mcp/src/tablepdf/layout"
)

// Document is the result of one layout + render pass.
type Document struct {
	Geometry layout.Geometry
	Widths   []float64
	PDF      []byte
	Preview  *Preview
}

// Converter reads spreadsheets and turns tables into PDF documents.
type Converter struct {
	cfg   *config.Config
	style Style
}

// NewConverter creates a Converter with the default style.
func NewConverter(cfg *config.Config) *Converter {
	return &Converter{cfg: cfg, style: DefaultStyle()}
}

// Config returns the configuration the converter was built with.
func (c *Converter) Config() *config.Config { return c.cfg }

// ReadFile loads the first sheet of a local spreadsheet.
func (c *Converter) ReadFile(ctx context.Context, filePath string) (layout.Table, error) {
	name, data, err := c.ReadSource(ctx, filePath)
	if err != nil {
		return layout.Table{}, err
	}
	return c.ReadBytes(ctx, name, data)
}

// ReadSource checks a local spreadsheet against the size limit and the
// supported formats and returns its base name and bytes.
func (c *Converter) ReadSource(ctx context.Context, filePath string) (string, []byte, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	info, err := os.Stat(filePath)
	if err != nil {
		return "", nil, fmt.Errorf("file not found: %s", filePath)
	}
	if info.Size() > c.cfg.MaxFileSizeBytes {
		return "", nil, fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), c.cfg.MaxFileSizeBytes)
	}
	if !CanConvert(filePath) {
		return "", nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", nil, fmt.Errorf("read file: %w", err)
	}
	return filepath.Base(filePath), data, nil
}

// ReadBytes loads the first sheet of an in-memory spreadsheet. name selects
// the format by extension.
func (c *Converter) ReadBytes(ctx context.Context, name string, data []byte) (layout.Table, error) {
	if err := ctx.Err(); err != nil {
		return layout.Table{}, err
	}
	if int64(len(data)) > c.cfg.MaxFileSizeBytes {
		return layout.Table{}, fmt.Errorf("file too large: %d bytes (max %d)", len(data), c.cfg.MaxFileSizeBytes)
	}
	table, err := ReadTableBytes(name, data)
	if err != nil {
		return layout.Table{}, newConversionError(name, "read", err)
	}
	return table, nil
}

// Generate plans the layout of table on a page of the given nominal size,
// renders it and previews the result. title heads the first page.
func (c *Converter) Generate(ctx context.Context, table layout.Table, size layout.PageSize, title string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	geom, widths, err := layout.Plan(table, size)
	if err != nil {
		return nil, newConversionError(title, "layout", err)
	}

	style := c.style
	style.Title = title
	data, err := RenderPDF(table, geom, widths, style)
	if err != nil {
		return nil, newConversionError(title, "render", err)
	}

	preview, err := PreviewPDF(data)
	if err != nil {
		return nil, newConversionError(title, "preview", err)
	}

	return &Document{Geometry: geom, Widths: widths, PDF: data, Preview: preview}, nil
}

// ConvertFile reads filePath and generates its document in one call.
func (c *Converter) ConvertFile(ctx context.Context, filePath string, size layout.PageSize) (*Document, error) {
	table, err := c.ReadFile(ctx, filePath)
	if err != nil {
		return nil, err
	}
	return c.Generate(ctx, table, size, DocumentTitle(filePath))
}

// DocumentTitle is the heading printed on the first page: the file name
// without directory or extension.
func DocumentTitle(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DownloadName is the file name offered for the generated PDF. By default
// ".pdf" is appended to the full original name ("data.xlsx.pdf"); with
// stripExt the spreadsheet extension is replaced instead ("data.pdf").
func DownloadName(original string, stripExt bool) string {
	base := filepath.Base(original)
	if stripExt {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return base + ".pdf"
}

// GetConversionInfo returns a Markdown summary of supported formats, page
// sizes and configuration.
func (c *Converter) GetConversionInfo(_ context.Context) string {
	sizes := make([]string, 0, 4)
	for _, name := range layout.SizeNames() {
		if s, ok := layout.Preset(name); ok {
			sizes = append(sizes, s.String())
		} else {
			sizes = append(sizes, fmt.Sprintf("%s (width and height above %g mm)", name, layout.MinCustomDimensionMM))
		}
	}

	return fmt.Sprintf(`# Spreadsheet to PDF Conversion Info

## Input Formats (first sheet only)
%s

## Page Sizes
%s

Tables with more than %d columns are laid out in landscape.

## Configuration
- Max file size: %d MB
- Default page size: %s
- Output directory: %s
- Strip spreadsheet extension from PDF name: %t`,
		"- "+strings.Join(SupportedFormats(), "\n- "),
		"- "+strings.Join(sizes, "\n- "),
		layout.LandscapeColumnThreshold,
		c.cfg.MaxFileSizeMB(),
		c.cfg.PageSize,
		c.cfg.OutputDir,
		c.cfg.StripExtension,
	)
}
