package converter

// pdf.go: preview of a generated document via github.com/ledongthuc/pdf.
//
// The preview reports what a viewer would show: how many pages there are,
// each page's size and the plain text drawn on it. Annotations are not read.

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PagePreview describes one rendered page.
type PagePreview struct {
	Number int
	Width  float64 // mm
	Height float64 // mm
	Text   string
}

// Preview summarises a generated PDF.
type Preview struct {
	NumPages int
	Pages    []PagePreview
}

// PreviewPDF loads a PDF from memory and reports its pages. The reader
// panics on some malformed objects; those panics are returned as errors.
func PreviewPDF(data []byte) (preview *Preview, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			preview, err = nil, fmt.Errorf("read pdf: %v", rec)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	numPages := r.NumPage()
	fonts := make(map[string]*pdf.Font)
	preview = &Preview{NumPages: numPages}

	for i := 1; i <= numPages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := p.Font(name)
				fonts[name] = &f
			}
		}

		text, err := p.GetPlainText(fonts)
		if err != nil {
			return nil, fmt.Errorf("read pdf page %d: %w", i, err)
		}
		w, h := mediaBox(p.V)
		preview.Pages = append(preview.Pages, PagePreview{
			Number: i,
			Width:  w,
			Height: h,
			Text:   strings.TrimSpace(text),
		})
	}

	return preview, nil
}

// mediaBox returns the page size in millimetres, following the inherited
// /MediaBox up the page tree. Zero when none is found.
func mediaBox(v pdf.Value) (float64, float64) {
	for depth := 0; !v.IsNull() && depth < 32; depth++ {
		box := v.Key("MediaBox")
		if box.Kind() == pdf.Array && box.Len() == 4 {
			w := box.Index(2).Float64() - box.Index(0).Float64()
			h := box.Index(3).Float64() - box.Index(1).Float64()
			return w * mmPerPt, h * mmPerPt
		}
		v = v.Key("Parent")
	}
	return 0, 0
}
