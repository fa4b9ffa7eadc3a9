package converter

// xlsx.go: first-sheet reader backed by the excelize library. Cells come
// back as their formatted display strings; excelize drops trailing empty
// cells, so rows may be shorter than the header.

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}
