package extract

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

// errorValueMap maps cell text to an error type.
var errorValueMap = map[string]models.ErrorType{
	"#REF!":         models.ErrorRef,
	"#NAME?":        models.ErrorName,
	"#VALUE!":       models.ErrorValue,
	"#DIV/0!":       models.ErrorDiv,
	"#NULL!":        models.ErrorNull,
	"#NUM!":         models.ErrorNum,
	"#N/A":          models.ErrorNA,
	"#CALC!":        models.ErrorCalc,
	"#SPILL!":       models.ErrorSpill,
	"#GETTING_DATA": models.ErrorGettingData,
}

// ExtractErrorCells scans every sheet for cells carrying an Excel error
// value, whether from a failed formula or entered as a literal.
func ExtractErrorCells(f *excelize.File) ([]models.ErrorCellInfo, error) {
	var errorCells []models.ErrorCellInfo

	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		for rowIdx, row := range rows {
			for colIdx, value := range row {
				if value == "" || value[0] != '#' {
					continue
				}
				errorType, ok := matchErrorValue(value)
				if !ok {
					continue
				}

				cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
				if err != nil {
					continue
				}

				info := models.ErrorCellInfo{
					Location: models.CellReference{
						Sheet: sheetName,
						Cell:  cellName,
						Row:   rowIdx + 1,
						Col:   colIdx + 1,
					},
					ErrorType: errorType,
				}
				if formula, err := f.GetCellFormula(sheetName, cellName); err == nil && formula != "" {
					info.Formula = "=" + formula
				}
				errorCells = append(errorCells, info)
			}
		}
	}

	return errorCells, nil
}

// matchErrorValue resolves cell text to an error type, exact match first and
// substring second for values carrying extra text.
func matchErrorValue(value string) (models.ErrorType, bool) {
	upper := strings.ToUpper(strings.TrimSpace(value))
	if errorType, ok := errorValueMap[upper]; ok {
		return errorType, true
	}
	for key, errorType := range errorValueMap {
		if strings.Contains(upper, key) {
			return errorType, true
		}
	}
	return "", false
}
