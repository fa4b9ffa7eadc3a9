package converter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Cortexa-LLC/mcp/src/tablepdf/layout"
)

// inputExts are the spreadsheet formats accepted as input.
var inputExts = map[string]readFn{
	".xlsx": readXLSX,
	".xlsm": readXLSX,
	".xltx": readXLSX,
	".xltm": readXLSX,
	".csv":  readCSV,
}

// readFn turns raw file bytes into rows of cell strings, header first.
type readFn func(data []byte) ([][]string, error)

// CanConvert returns true when the file extension is a supported input.
func CanConvert(name string) bool {
	_, ok := inputExts[strings.ToLower(filepath.Ext(name))]
	return ok
}

// SupportedFormats returns supported extensions without the leading dot.
func SupportedFormats() []string {
	out := make([]string, 0, len(inputExts))
	for ext := range inputExts {
		out = append(out, strings.TrimPrefix(ext, "."))
	}
	sort.Strings(out)
	return out
}

// ReadTableBytes parses the first sheet of the named spreadsheet. The name
// only selects the format. Zero rows yields ErrEmptyInput.
func ReadTableBytes(name string, data []byte) (layout.Table, error) {
	ext := strings.ToLower(filepath.Ext(name))
	read, ok := inputExts[ext]
	if !ok {
		return layout.Table{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	rows, err := read(data)
	if err != nil {
		return layout.Table{}, err
	}
	rows = trimLeadingBlankRows(rows)
	if len(rows) == 0 {
		return layout.Table{}, ErrEmptyInput
	}
	return layout.NewTable(rows)
}

// trimLeadingBlankRows drops rows before the first one holding any value,
// so the header is the first used row of the sheet.
func trimLeadingBlankRows(rows [][]string) [][]string {
	for len(rows) > 0 && blankRow(rows[0]) {
		rows = rows[1:]
	}
	return rows
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// --- csv ---------------------------------------------------------------------

func readCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return records, nil
}
