package converter

// Shared test helpers for the converter package.

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/Cortexa-LLC/mcp/src/tablepdf/config"
	"github.com/Cortexa-LLC/mcp/src/tablepdf/layout"
)

// ---- assertion helpers -----------------------------------------------------

func assertNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func assertErr(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
}

func assertContains(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Errorf("expected output to contain %q\ngot: %s", want, got)
	}
}

func assertNear(t *testing.T, what string, got, want, tol float64) {
	t.Helper()
	if got < want-tol || got > want+tol {
		t.Errorf("%s = %.3f, want %.3f ± %.3f", what, got, want, tol)
	}
}

// ---- fixtures --------------------------------------------------------------

func newTestConverter() *Converter {
	return NewConverter(config.Default())
}

func mustTable(t *testing.T, rows [][]string) layout.Table {
	t.Helper()
	tbl, err := layout.NewTable(rows)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return tbl
}

func mustPreset(t *testing.T, name string) layout.PageSize {
	t.Helper()
	s, ok := layout.Preset(name)
	if !ok {
		t.Fatalf("preset %q missing", name)
	}
	return s
}

// writeTempFile writes content to a temp file with the given name and returns
// its path. The file is cleaned up automatically when the test ends.
func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writeTempFile: %v", err)
	}
	return path
}

// makeXLSX builds a minimal .xlsx file with one sheet and returns its path.
func makeXLSX(t *testing.T, sheet string, rows [][]string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	// Rename the default sheet first so SetCellValue writes to the right name.
	if sheet != "Sheet1" {
		f.SetSheetName("Sheet1", sheet)
	}

	for r, row := range rows {
		for c, val := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			f.SetCellValue(sheet, cell, val)
		}
	}

	path := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("makeXLSX SaveAs: %v", err)
	}
	return path
}

// readFile returns the bytes at path or fails the test.
func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}
