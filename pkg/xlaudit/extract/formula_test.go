package extract

import (
	"testing"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

func TestCleanFormula(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"=_xlfn.XLOOKUP(A1,B:B,C:C)", "=XLOOKUP(A1,B:B,C:C)"},
		{"=_xlfn.LAMBDA(_xlpm.x,_xlpm.x*2)(A1)", "=LAMBDA(x,x*2)(A1)"},
		{"=_XLFN.UNIQUE(A1:A10)", "=UNIQUE(A1:A10)"},
		{"=SUM(ANCHORARRAY(B2))", "=SUM(B2#)"},
		{"=SUM(A1:A10)", "=SUM(A1:A10)"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CleanFormula(tt.input); got != tt.expected {
			t.Errorf("CleanFormula(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}

	// Cleaning an already clean formula changes nothing.
	cleaned := CleanFormula("=XLOOKUP(A1,B:B,C:C)")
	if CleanFormula(cleaned) != cleaned {
		t.Errorf("CleanFormula not stable on cleaned input: %q", CleanFormula(cleaned))
	}
}

func TestClassifyFormula(t *testing.T) {
	tests := []struct {
		formula  string
		expected models.FormulaCategory
	}{
		{"=A1+A2", models.CategorySimple},
		{"=A1*1.1", models.CategorySimple},
		{"=VLOOKUP(A1,B:C,2,FALSE)", models.CategoryLookup},
		{"=INDEX(B:B,MATCH(A1,A:A,0))", models.CategoryLookup},
		{"=SUM(A1:A10)", models.CategoryAggregate},
		{"=COUNTIFS(A:A,\">0\",B:B,\"<10\")", models.CategoryAggregate},
		{"=TODAY()", models.CategoryVolatile},
		{"=IFERROR(A1/B1,0)", models.CategoryErrorHandling},
		{"=TEXTJOIN(\",\",TRUE,A1:A5)", models.CategoryText},
		{"=EOMONTH(A1,0)", models.CategoryDateTime},
		{"=IF(A1>0,\"yes\",\"no\")", models.CategoryLogical},
		{"=PMT(0.05/12,360,100000)", models.CategoryFinancial},
		{"=ROUND(A1,2)", models.CategoryMath},
		{"=FILTER(A:A,B:B>0)", models.CategoryDynamicArray},
		{"=SORT(UNIQUE(A1:A100))", models.CategoryDynamicArray},
		{"=LAMBDA(x,x*2)(A1)", models.CategoryLambda},
		{"{=SUM(A1:A10*B1:B10)}", models.CategoryArrayLegacy},
		{"='[Budget.xlsx]Sheet1'!A1", models.CategoryExternal},
	}

	for _, tt := range tests {
		if got := ClassifyFormula(tt.formula); got != tt.expected {
			t.Errorf("ClassifyFormula(%q) = %v, expected %v", tt.formula, got, tt.expected)
		}
	}
}

func TestClassifyFormulaPriority(t *testing.T) {
	// LAMBDA wins over every other family it also touches.
	if got := ClassifyFormula("=LAMBDA(x,SUM(x))(A1:A10)"); got != models.CategoryLambda {
		t.Errorf("LAMBDA with SUM classified as %v", got)
	}
	// Dynamic array wins over aggregate.
	if got := ClassifyFormula("=SUM(FILTER(A:A,B:B>0))"); got != models.CategoryDynamicArray {
		t.Errorf("FILTER with SUM classified as %v", got)
	}
	// Lookup wins over aggregate.
	if got := ClassifyFormula("=SUM(INDEX(A:C,1,0))"); got != models.CategoryLookup {
		t.Errorf("INDEX with SUM classified as %v", got)
	}
	// Legacy array marker wins once no dynamic array function is present.
	if got := ClassifyFormula("{=MAX(A1:A10-B1:B10)}"); got != models.CategoryArrayLegacy {
		t.Errorf("CSE formula classified as %v", got)
	}
}

func TestExternalWorkbookRefs(t *testing.T) {
	tests := []struct {
		formula  string
		expected []string
	}{
		{"='[Budget.xlsx]Sheet1'!A1", []string{"Budget.xlsx"}},
		{"=[Data.xlsm]Raw!B2+[Data.xlsm]Raw!B3", []string{"Data.xlsm"}},
		{"=[a.xlsx]S!A1+[b.xlsb]S!A1", []string{"a.xlsx", "b.xlsb"}},
		{"=SUM(A1:A10)", nil},
		{"=INDEX(Table1[Amount],1)", nil},
	}

	for _, tt := range tests {
		got := ExternalWorkbookRefs(tt.formula)
		if len(got) != len(tt.expected) {
			t.Errorf("ExternalWorkbookRefs(%q) = %v, expected %v", tt.formula, got, tt.expected)
			continue
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("ExternalWorkbookRefs(%q)[%d] = %q, expected %q", tt.formula, i, got[i], tt.expected[i])
			}
		}
	}
}
