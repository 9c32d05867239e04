package extract

import (
	"github.com/xuri/excelize/v2"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

// ExtractDataValidations extracts data validation rules from every sheet.
func ExtractDataValidations(f *excelize.File) ([]models.DataValidationInfo, error) {
	var validations []models.DataValidationInfo

	for _, sheetName := range f.GetSheetList() {
		dvs, err := f.GetDataValidations(sheetName)
		if err != nil {
			continue
		}
		for _, dv := range dvs {
			if dv == nil {
				continue
			}
			validations = append(validations, buildValidationInfo(sheetName, dv))
		}
	}

	return validations, nil
}

func buildValidationInfo(sheetName string, dv *excelize.DataValidation) models.DataValidationInfo {
	rangeStr := dv.Sqref
	if rangeStr != "" {
		rangeStr = "'" + sheetName + "'!" + rangeStr
	} else {
		rangeStr = sheetName
	}

	dvType := dv.Type
	if dvType == "" {
		dvType = "any"
	}

	info := models.DataValidationInfo{
		Range:      rangeStr,
		Type:       dvType,
		Operator:   dv.Operator,
		Formula1:   dv.Formula1,
		Formula2:   dv.Formula2,
		AllowBlank: dv.AllowBlank,
		// The showDropDown attribute is inverted in the file format: set
		// means the in-cell dropdown is suppressed.
		ShowDropdown:     !dv.ShowDropDown,
		ShowInputMessage: dv.ShowInputMessage,
		ShowErrorMessage: dv.ShowErrorMessage,
	}
	if dv.PromptTitle != nil {
		info.InputTitle = *dv.PromptTitle
	}
	if dv.Prompt != nil {
		info.InputMessage = *dv.Prompt
	}
	if dv.ErrorTitle != nil {
		info.ErrorTitle = *dv.ErrorTitle
	}
	if dv.Error != nil {
		info.ErrorMessage = *dv.Error
	}
	if dv.ErrorStyle != nil {
		info.ErrorStyle = *dv.ErrorStyle
	}
	return info
}
