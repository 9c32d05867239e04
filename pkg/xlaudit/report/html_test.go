package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

func TestWriteHTMLTree(t *testing.T) {
	dir := t.TempDir()
	if err := WriteHTML(testAnalysis(), dir); err != nil {
		t.Fatalf("WriteHTML failed: %v", err)
	}

	expected := []string{
		"index.html",
		"styles.css",
		filepath.Join("sheets", "summary.html"),
		filepath.Join("sheets", "raw-data.html"),
		filepath.Join("workbook", "vba.html"),
		filepath.Join("workbook", "power-query.html"),
		filepath.Join("workbook", "named-ranges.html"),
	}
	for _, name := range expected {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Expected %s to exist: %v", name, err)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "workbook", "connections.html")); err == nil {
		t.Error("Expected no connections page without connections")
	}
}

func TestWriteHTMLIndex(t *testing.T) {
	dir := t.TempDir()
	if err := WriteHTML(testAnalysis(), dir); err != nil {
		t.Fatalf("WriteHTML failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "index.html"))
	if err != nil {
		t.Fatalf("Failed to read index.html: %v", err)
	}
	content := string(data)

	for _, want := range []string{
		"<h1>budget.xlsm</h1>",
		"macro-enabled",
		`href="sheets/summary.html"`,
		`href="sheets/raw-data.html"`,
		`href="workbook/vba.html"`,
		"VBA Modules (1)",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("Expected index.html to contain %q", want)
		}
	}
}

func TestWriteHTMLSheetPage(t *testing.T) {
	dir := t.TempDir()
	if err := WriteHTML(testAnalysis(), dir); err != nil {
		t.Fatalf("WriteHTML failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "sheets", "summary.html"))
	if err != nil {
		t.Fatalf("Failed to read sheet page: %v", err)
	}
	content := string(data)

	for _, want := range []string{
		`<a href="../index.html">`,
		"<h1>Summary</h1>",
		"Formulas (2)",
		"<code>=SUM(&#39;Raw Data&#39;!C:C)</code>",
		"Error Cells (1)",
		"#DIV/0!",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("Expected sheet page to contain %q", want)
		}
	}
}

func TestWriteHTMLEscapesContent(t *testing.T) {
	a := testAnalysis()
	a.Formulas = append(a.Formulas, models.FormulaInfo{
		Location:     models.CellReference{Sheet: "Summary", Cell: "C1"},
		Formula:      `=IF(A1<5,"a","b")`,
		FormulaClean: `=IF(A1<5,"a","b")`,
		Category:     models.CategoryLogical,
	})

	dir := t.TempDir()
	if err := WriteHTML(a, dir); err != nil {
		t.Fatalf("WriteHTML failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "sheets", "summary.html"))
	if err != nil {
		t.Fatalf("Failed to read sheet page: %v", err)
	}
	content := string(data)

	if strings.Contains(content, `A1<5`) {
		t.Error("Expected < in formula to be escaped")
	}
	if !strings.Contains(content, "A1&lt;5") {
		t.Error("Expected escaped formula text")
	}
}

func TestWriteHTMLVBAPage(t *testing.T) {
	dir := t.TempDir()
	if err := WriteHTML(testAnalysis(), dir); err != nil {
		t.Fatalf("WriteHTML failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "workbook", "vba.html"))
	if err != nil {
		t.Fatalf("Failed to read vba.html: %v", err)
	}
	content := string(data)

	if !strings.Contains(content, `<section id="module1">`) {
		t.Error("Expected section anchor for Module1")
	}
	if !strings.Contains(content, "Sub Refresh()") {
		t.Error("Expected module code on the page")
	}
}
