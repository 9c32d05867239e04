package extract

import (
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

func TestMatchErrorValue(t *testing.T) {
	tests := []struct {
		input    string
		expected models.ErrorType
		ok       bool
	}{
		{"#REF!", models.ErrorRef, true},
		{"#NAME?", models.ErrorName, true},
		{"#VALUE!", models.ErrorValue, true},
		{"#DIV/0!", models.ErrorDiv, true},
		{"#N/A", models.ErrorNA, true},
		{"#SPILL!", models.ErrorSpill, true},
		{"  #num!  ", models.ErrorNum, true},
		{"#REF! (deleted)", models.ErrorRef, true},
		{"#Hashtag", "", false},
		{"plain text", "", false},
	}

	for _, tt := range tests {
		got, ok := matchErrorValue(tt.input)
		if ok != tt.ok || got != tt.expected {
			t.Errorf("matchErrorValue(%q) = (%v, %v), expected (%v, %v)",
				tt.input, got, ok, tt.expected, tt.ok)
		}
	}
}

func TestExtractErrorCells(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	f.SetCellValue(sheetName, "A1", "#DIV/0!")
	f.SetCellValue(sheetName, "B2", "#N/A")
	f.SetCellValue(sheetName, "C3", "normal value")
	f.SetCellValue(sheetName, "D4", 42)

	errorCells, err := ExtractErrorCells(f)
	if err != nil {
		t.Fatalf("ExtractErrorCells failed: %v", err)
	}

	if len(errorCells) != 2 {
		t.Fatalf("Expected 2 error cells, got %d", len(errorCells))
	}

	if errorCells[0].Location.Cell != "A1" || errorCells[0].ErrorType != models.ErrorDiv {
		t.Errorf("errorCells[0] = %+v", errorCells[0])
	}
	if errorCells[1].Location.Cell != "B2" || errorCells[1].ErrorType != models.ErrorNA {
		t.Errorf("errorCells[1] = %+v", errorCells[1])
	}
	if errorCells[1].Location.Row != 2 || errorCells[1].Location.Col != 2 {
		t.Errorf("errorCells[1].Location = %+v", errorCells[1].Location)
	}
}
