package extract

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func saveTestWorkbook(t *testing.T, f *excelize.File) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	return tmpFile
}

func TestOpenArchive(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	f.NewSheet("Data")
	f.NewSheet("Hidden")
	f.SetSheetVisible("Hidden", false)

	a, err := OpenArchive(saveTestWorkbook(t, f))
	if err != nil {
		t.Fatalf("OpenArchive failed: %v", err)
	}
	defer a.Close()

	names := a.SheetNames()
	if len(names) != 3 {
		t.Fatalf("Expected 3 sheets, got %v", names)
	}
	if names[0] != "Sheet1" || names[1] != "Data" || names[2] != "Hidden" {
		t.Errorf("Sheet order = %v", names)
	}

	part := a.SheetPart("Data")
	if !strings.HasPrefix(part, "xl/worksheets/") {
		t.Errorf("SheetPart(Data) = %q", part)
	}
	if !a.Has(part) {
		t.Errorf("Part %q not found in container", part)
	}
	if a.SheetPart("NoSuchSheet") != "" {
		t.Error("Unknown sheet should resolve to empty part path")
	}

	if state := a.SheetState("Hidden"); state != "hidden" {
		t.Errorf("SheetState(Hidden) = %q, expected hidden", state)
	}
	if state := a.SheetState("Sheet1"); state != "" {
		t.Errorf("SheetState(Sheet1) = %q, expected empty", state)
	}

	// Absent parts read as nil without error.
	data, err := a.Read("xl/nonexistent.xml")
	if err != nil {
		t.Errorf("Read of absent part returned error: %v", err)
	}
	if data != nil {
		t.Errorf("Read of absent part returned data: %q", data)
	}

	wb, err := a.Read("xl/workbook.xml")
	if err != nil || wb == nil {
		t.Fatalf("Read(workbook.xml) = %v, %v", wb, err)
	}
}

func TestResolvePartPath(t *testing.T) {
	tests := []struct {
		target   string
		baseDir  string
		expected string
	}{
		{"worksheets/sheet1.xml", "xl", "xl/worksheets/sheet1.xml"},
		{"../drawings/drawing1.xml", "xl/worksheets", "xl/drawings/drawing1.xml"},
		{"/xl/tables/table1.xml", "xl/worksheets", "xl/tables/table1.xml"},
	}

	for _, tt := range tests {
		if got := resolvePartPath(tt.target, tt.baseDir); got != tt.expected {
			t.Errorf("resolvePartPath(%q, %q) = %q, expected %q",
				tt.target, tt.baseDir, got, tt.expected)
		}
	}
}
