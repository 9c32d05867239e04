package report

import (
	"strings"
	"testing"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		name     string
		expected string
	}{
		{"Sheet1", "Sheet1"},
		{"Q1/Q2 Report", "Q1_Q2 Report"},
		{`a<b>c:d"e`, "a_b_c_d_e"},
		{"data|plan?", "data_plan_"},
	}
	for _, c := range cases {
		if got := sanitizeFilename(c.name); got != c.expected {
			t.Errorf("sanitizeFilename(%q): expected %q, got %q", c.name, c.expected, got)
		}
	}

	long := strings.Repeat("x", 150)
	if got := sanitizeFilename(long); len(got) != 100 {
		t.Errorf("Expected 100 characters, got %d", len(got))
	}
}

func TestFormatSize(t *testing.T) {
	cases := []struct {
		size     int64
		expected string
	}{
		{512, "512.0 B"},
		{2048, "2.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}
	for _, c := range cases {
		if got := formatSize(c.size); got != c.expected {
			t.Errorf("formatSize(%d): expected %q, got %q", c.size, c.expected, got)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("Expected %q, got %q", "short", got)
	}
	got := truncate("abcdefghij", 8)
	if got != "abcdefgh..." {
		t.Errorf("Expected %q, got %q", "abcdefgh...", got)
	}
}

func TestSheetFromRange(t *testing.T) {
	cases := []struct {
		rangeStr string
		expected string
	}{
		{"Sheet1!A1:B5", "Sheet1"},
		{"'My Sheet'!C3", "My Sheet"},
		{"A1:B5", "Fallback"},
		{"", "Fallback"},
	}
	for _, c := range cases {
		if got := sheetFromRange(c.rangeStr, "Fallback"); got != c.expected {
			t.Errorf("sheetFromRange(%q): expected %q, got %q", c.rangeStr, c.expected, got)
		}
	}
}

func TestSlug(t *testing.T) {
	cases := []struct {
		name     string
		expected string
	}{
		{"Sheet1", "sheet1"},
		{"My Sheet", "my-sheet"},
		{"Q1/Q2", "q1q2"},
		{"データ", "sheet"},
	}
	for _, c := range cases {
		if got := slug(c.name); got != c.expected {
			t.Errorf("slug(%q): expected %q, got %q", c.name, c.expected, got)
		}
	}
}

func TestBuildCrossRef(t *testing.T) {
	a := &models.WorkbookAnalysis{
		Sheets: []models.SheetInfo{
			{Name: "Sheet1", Index: 0},
			{Name: "Data", Index: 1},
		},
		Formulas: []models.FormulaInfo{
			{Location: models.CellReference{Sheet: "Sheet1", Cell: "A1"}, FormulaClean: "=SUM(B:B)"},
			{Location: models.CellReference{Sheet: "Data", Cell: "C2"}, FormulaClean: "=1+1"},
			{Location: models.CellReference{Sheet: "Sheet1", Cell: "A2"}, FormulaClean: "=NOW()"},
		},
		Charts: []models.ChartInfo{
			{Sheet: "Data", Name: "Chart 1", ChartType: "bar"},
		},
		ConditionalFormats: []models.ConditionalFormatInfo{
			{Range: "Data!A1:A10", RuleType: models.CFCellIs},
			{Range: "B1:B10", RuleType: models.CFColorScale},
		},
	}

	refs := buildCrossRef(a)

	if len(refs.formulas["Sheet1"]) != 2 {
		t.Errorf("Expected 2 formulas for Sheet1, got %d", len(refs.formulas["Sheet1"]))
	}
	if len(refs.formulas["Data"]) != 1 {
		t.Errorf("Expected 1 formula for Data, got %d", len(refs.formulas["Data"]))
	}
	if len(refs.charts["Data"]) != 1 {
		t.Errorf("Expected 1 chart for Data, got %d", len(refs.charts["Data"]))
	}
	if len(refs.condFormats["Data"]) != 1 {
		t.Errorf("Expected sheet-qualified rule on Data, got %d", len(refs.condFormats["Data"]))
	}
	// Unqualified range falls back to the first sheet.
	if len(refs.condFormats["Sheet1"]) != 1 {
		t.Errorf("Expected unqualified rule on Sheet1, got %d", len(refs.condFormats["Sheet1"]))
	}
}

func TestLinkVBAByControlMacro(t *testing.T) {
	a := &models.WorkbookAnalysis{
		Sheets: []models.SheetInfo{{Name: "Dashboard"}},
		Controls: []models.ControlInfo{
			{Sheet: "Dashboard", Name: "Button 1", Macro: "Module1.RunReport"},
		},
		VBAModules: []models.VBAModuleInfo{
			{Name: "Module1", Procedures: []string{"RunReport", "Helper"}},
			{Name: "Module2", Procedures: []string{"Unrelated"}},
		},
	}

	refs := buildCrossRef(a)

	modules := refs.sheetVBA["Dashboard"]
	if len(modules) != 1 {
		t.Fatalf("Expected 1 linked module, got %d", len(modules))
	}
	if modules[0] != "Module1" {
		t.Errorf("Expected Module1, got %s", modules[0])
	}
}
