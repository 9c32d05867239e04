package xlaudit

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

func saveWorkbook(t *testing.T, f *excelize.File) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	return tmpFile
}

func TestAnalyzeInputValidation(t *testing.T) {
	if _, err := Analyze("/no/such/file.xlsx", DefaultOptions()); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Missing file: err = %v, expected ErrFileNotFound", err)
	}

	tmpFile := filepath.Join(t.TempDir(), "data.csv")
	f := excelize.NewFile()
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	if err := os.WriteFile(tmpFile, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	if _, err := Analyze(tmpFile, DefaultOptions()); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Wrong extension: err = %v, expected ErrUnsupportedFormat", err)
	}
}

func TestAnalyzeEmptyWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	result, err := Analyze(saveWorkbook(t, f), DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(result.Sheets) != 1 {
		t.Fatalf("Expected 1 sheet, got %d", len(result.Sheets))
	}
	if result.Sheets[0].Visibility != models.VisibilityVisible {
		t.Errorf("Sheet visibility = %v", result.Sheets[0].Visibility)
	}
	if len(result.Formulas) != 0 || len(result.NamedRanges) != 0 {
		t.Errorf("Empty workbook produced formulas=%d named=%d",
			len(result.Formulas), len(result.NamedRanges))
	}
	if len(result.Errors) != 0 {
		t.Errorf("Empty workbook produced extractor errors: %+v", result.Errors)
	}
	if result.IsMacroEnabled {
		t.Error("xlsx should not be macro enabled")
	}
}

func TestAnalyzeSimpleFormula(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetCellValue("Sheet1", "A1", 10)
	f.SetCellValue("Sheet1", "A2", 20)
	f.SetCellFormula("Sheet1", "A3", "=A1+A2")

	result, err := Analyze(saveWorkbook(t, f), DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(result.Formulas) != 1 {
		t.Fatalf("Expected 1 formula, got %d", len(result.Formulas))
	}
	formula := result.Formulas[0]
	if formula.Location.Cell != "A3" {
		t.Errorf("Formula cell = %q, expected A3", formula.Location.Cell)
	}
	if formula.Category != models.CategorySimple {
		t.Errorf("Formula category = %v, expected simple", formula.Category)
	}
	if formula.FormulaClean != formula.Formula {
		t.Errorf("Clean %q differs from raw %q with no prefixes present",
			formula.FormulaClean, formula.Formula)
	}
}

func TestAnalyzeLambdaNamedRange(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetDefinedName(&excelize.DefinedName{
		Name:     "Double",
		RefersTo: "LAMBDA(x,x*2)",
	})

	result, err := Analyze(saveWorkbook(t, f), DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(result.NamedRanges) != 1 {
		t.Fatalf("Expected 1 named range, got %d", len(result.NamedRanges))
	}
	if !result.NamedRanges[0].IsLambda {
		t.Error("Named range should be detected as LAMBDA")
	}
}

func TestAnalyzeErrorCell(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetCellValue("Sheet1", "B2", "#DIV/0!")

	result, err := Analyze(saveWorkbook(t, f), DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(result.ErrorCells) != 1 {
		t.Fatalf("Expected 1 error cell, got %d", len(result.ErrorCells))
	}
	if result.ErrorCells[0].ErrorType != models.ErrorDiv {
		t.Errorf("ErrorType = %v, expected %v", result.ErrorCells[0].ErrorType, models.ErrorDiv)
	}
}

func TestAnalyzeVisibilityMapping(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	f.NewSheet("HiddenSheet")
	f.SetSheetVisible("HiddenSheet", false)

	result, err := Analyze(saveWorkbook(t, f), DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	byName := make(map[string]models.SheetVisibility)
	for _, sheet := range result.Sheets {
		byName[sheet.Name] = sheet.Visibility
	}
	if byName["Sheet1"] != models.VisibilityVisible {
		t.Errorf("Sheet1 visibility = %v", byName["Sheet1"])
	}
	if byName["HiddenSheet"] != models.VisibilityHidden {
		t.Errorf("HiddenSheet visibility = %v", byName["HiddenSheet"])
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetCellValue("Sheet1", "A1", "value")
	f.SetCellFormula("Sheet1", "A2", "=SUM(B1:B5)")
	f.SetCellFormula("Sheet1", "A3", "=NOW()")
	path := saveWorkbook(t, f)

	first, err := Analyze(path, DefaultOptions())
	if err != nil {
		t.Fatalf("First analyze failed: %v", err)
	}
	second, err := Analyze(path, DefaultOptions())
	if err != nil {
		t.Fatalf("Second analyze failed: %v", err)
	}

	if !reflect.DeepEqual(first.Formulas, second.Formulas) {
		t.Error("Formula records differ between runs")
	}
	if !reflect.DeepEqual(first.Sheets, second.Sheets) {
		t.Error("Sheet records differ between runs")
	}
}

func TestAnalyzeOptions(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetCellFormula("Sheet1", "A1", "=1+1")
	f.SetCellFormula("Sheet1", "A2", "=2+2")
	f.SetCellFormula("Sheet1", "A3", "=3+3")
	path := saveWorkbook(t, f)

	opts := DefaultOptions()
	opts.Formulas = false
	result, err := Analyze(path, opts)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(result.Formulas) != 0 {
		t.Errorf("Formulas extracted with Formulas=false: %d", len(result.Formulas))
	}

	opts = DefaultOptions()
	opts.MaxFormulas = 2
	result, err = Analyze(path, opts)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if len(result.Formulas) != 2 {
		t.Errorf("Expected 2 formulas under cap, got %d", len(result.Formulas))
	}
	if len(result.Warnings) == 0 {
		t.Error("Formula cap should record a warning")
	}
}

func TestAnalyzeSkipSheets(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	f.NewSheet("Scratch")
	f.SetCellFormula("Sheet1", "A1", "=1+1")
	f.SetCellFormula("Scratch", "A1", "=2+2")

	opts := DefaultOptions()
	opts.SkipSheets = []string{"Scratch"}
	result, err := Analyze(saveWorkbook(t, f), opts)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(result.Sheets) != 2 {
		t.Errorf("Sheet list should stay complete, got %d", len(result.Sheets))
	}
	if len(result.Formulas) != 1 {
		t.Fatalf("Expected 1 formula after skip, got %d", len(result.Formulas))
	}
	if result.Formulas[0].Location.Sheet != "Sheet1" {
		t.Errorf("Kept formula from %q", result.Formulas[0].Location.Sheet)
	}
}
