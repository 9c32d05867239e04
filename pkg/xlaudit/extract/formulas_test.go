package extract

import (
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

func TestExtractFormulas(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	f.SetCellValue(sheetName, "A1", 10)
	f.SetCellValue(sheetName, "A2", 20)
	f.SetCellFormula(sheetName, "A3", "=A1+A2")
	f.SetCellFormula(sheetName, "B1", "=SUM(A1:A3)")

	path := saveTestWorkbook(t, f)
	a, err := OpenArchive(path)
	if err != nil {
		t.Fatalf("OpenArchive failed: %v", err)
	}
	defer a.Close()

	formulas, truncated, err := ExtractFormulas(a, 0)
	if err != nil {
		t.Fatalf("ExtractFormulas failed: %v", err)
	}
	if truncated {
		t.Error("Extraction should not truncate without a limit")
	}
	if len(formulas) != 2 {
		t.Fatalf("Expected 2 formulas, got %d: %+v", len(formulas), formulas)
	}

	byCell := make(map[string]models.FormulaInfo)
	for _, formula := range formulas {
		byCell[formula.Location.Cell] = formula
	}

	a3, ok := byCell["A3"]
	if !ok {
		t.Fatal("A3 formula not extracted")
	}
	if a3.Category != models.CategorySimple {
		t.Errorf("A3 category = %v, expected simple", a3.Category)
	}
	if a3.Location.Sheet != sheetName || a3.Location.Row != 3 || a3.Location.Col != 1 {
		t.Errorf("A3 location = %+v", a3.Location)
	}

	b1, ok := byCell["B1"]
	if !ok {
		t.Fatal("B1 formula not extracted")
	}
	if b1.Category != models.CategoryAggregate {
		t.Errorf("B1 category = %v, expected aggregate", b1.Category)
	}
}

func TestExtractFormulasLimit(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	for row := 1; row <= 5; row++ {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		f.SetCellFormula("Sheet1", cell, "=1+1")
	}

	a, err := OpenArchive(saveTestWorkbook(t, f))
	if err != nil {
		t.Fatalf("OpenArchive failed: %v", err)
	}
	defer a.Close()

	formulas, truncated, err := ExtractFormulas(a, 3)
	if err != nil {
		t.Fatalf("ExtractFormulas failed: %v", err)
	}
	if !truncated {
		t.Error("Extraction should report truncation at the limit")
	}
	if len(formulas) != 3 {
		t.Errorf("Expected 3 formulas, got %d", len(formulas))
	}
}

func TestExtractNamedRanges(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetDefinedName(&excelize.DefinedName{
		Name:     "SalesData",
		RefersTo: "Sheet1!$A$1:$B$10",
		Comment:  "monthly sales",
	})
	f.SetDefinedName(&excelize.DefinedName{
		Name:     "Double",
		RefersTo: "_xlfn.LAMBDA(_xlpm.x,_xlpm.x*2)",
	})
	f.SetDefinedName(&excelize.DefinedName{
		Name:     "LocalName",
		RefersTo: "Sheet1!$C$1",
		Scope:    "Sheet1",
	})

	a, err := OpenArchive(saveTestWorkbook(t, f))
	if err != nil {
		t.Fatalf("OpenArchive failed: %v", err)
	}
	defer a.Close()

	names, err := ExtractNamedRanges(a)
	if err != nil {
		t.Fatalf("ExtractNamedRanges failed: %v", err)
	}
	if len(names) != 3 {
		t.Fatalf("Expected 3 named ranges, got %d: %+v", len(names), names)
	}

	byName := make(map[string]models.NamedRangeInfo)
	for _, name := range names {
		byName[name.Name] = name
	}

	if byName["SalesData"].Comment != "monthly sales" {
		t.Errorf("SalesData comment = %q", byName["SalesData"].Comment)
	}
	if byName["SalesData"].Scope != "" {
		t.Errorf("SalesData scope = %q, expected workbook scope", byName["SalesData"].Scope)
	}
	if !byName["Double"].IsLambda {
		t.Error("Double should be detected as a LAMBDA definition")
	}
	if byName["LocalName"].Scope != "Sheet1" {
		t.Errorf("LocalName scope = %q, expected Sheet1", byName["LocalName"].Scope)
	}
}

func TestIsLambdaDefinition(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"LAMBDA(x,x*2)", true},
		{"_xlfn.LAMBDA(_xlpm.x,_xlpm.x+1)", true},
		{"Sheet1!$A$1:$B$10", false},
		{"SUM(Sheet1!$A$1)", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isLambdaDefinition(tt.value); got != tt.expected {
			t.Errorf("isLambdaDefinition(%q) = %v, expected %v", tt.value, got, tt.expected)
		}
	}
}
