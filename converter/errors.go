package converter

import (
	"errors"
	"fmt"
)

// ErrEmptyInput indicates the spreadsheet parsed to zero rows.
var ErrEmptyInput = errors.New("no data found in the spreadsheet")

// ErrUnsupportedFormat indicates the input extension is not handled.
var ErrUnsupportedFormat = errors.New("unsupported format")

// LayoutOverflowError reports content that cannot be placed within the
// page geometry, even after the column widths were scaled to fit.
type LayoutOverflowError struct {
	// Reason describes what did not fit.
	Reason string
	// Column is the 0-based column index involved, or -1.
	Column int
	// Row is the 0-based body row index involved, or -1 for the header or
	// when no single row is to blame.
	Row int
}

func (e *LayoutOverflowError) Error() string {
	loc := ""
	switch {
	case e.Row >= 0 && e.Column >= 0:
		loc = fmt.Sprintf(" (row %d, column %d)", e.Row+1, e.Column+1)
	case e.Row >= 0:
		loc = fmt.Sprintf(" (row %d)", e.Row+1)
	case e.Column >= 0:
		loc = fmt.Sprintf(" (column %d)", e.Column+1)
	}
	return fmt.Sprintf("PDF generation failed: %s%s; consider increasing the page width or height", e.Reason, loc)
}

// ConversionError wraps a failure with the file and pipeline stage it
// happened in.
type ConversionError struct {
	File  string
	Stage string // "read", "layout", "render", "preview"
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.File, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

func newConversionError(file, stage string, err error) *ConversionError {
	return &ConversionError{File: file, Stage: stage, Err: err}
}
