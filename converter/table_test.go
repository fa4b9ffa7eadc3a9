package converter

import (
	"strings"
	"testing"

	"github.com/Cortexa-LLC/mcp/src/tablepdf/layout"
)

func TestMarkdownPreview_Basic(t *testing.T) {
	out := MarkdownPreview(mustTable(t, [][]string{
		{"Name", "Age"},
		{"Alice", "30"},
	}), 0)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3\n%s", len(lines), out)
	}
	assertContains(t, lines[0], "Name")
	assertContains(t, lines[1], "---")
	assertContains(t, lines[2], "Alice")
}

func TestMarkdownPreview_Truncates(t *testing.T) {
	rows := [][]string{{"N"}}
	for i := 0; i < 10; i++ {
		rows = append(rows, []string{"v"})
	}
	out := MarkdownPreview(mustTable(t, rows), 3)
	assertContains(t, out, "7 more rows not shown")
	if got := strings.Count(out, "| v"); got != 3 {
		t.Errorf("body rows = %d, want 3", got)
	}
}

func TestMarkdownPreview_PadsRaggedRows(t *testing.T) {
	out := MarkdownPreview(mustTable(t, [][]string{{"A", "B", "C"}, {"1"}}), 0)
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if got := strings.Count(line, "|"); got != 4 {
			t.Errorf("line %q has %d pipes, want 4", line, got)
		}
	}
}

func TestMarkdownPreview_EscapesPipesAndNewlines(t *testing.T) {
	out := MarkdownPreview(mustTable(t, [][]string{{"Formula"}, {"a|b\nc"}}), 0)
	assertContains(t, out, `a\|b c`)
}

func TestMarkdownPreview_EmptyTable(t *testing.T) {
	if out := MarkdownPreview(layout.Table{}, 0); out != "" {
		t.Errorf("MarkdownPreview(empty) = %q", out)
	}
}
