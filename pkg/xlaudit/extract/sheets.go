package extract

import (
	"encoding/xml"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

// ExtractSheets extracts metadata for every worksheet: visibility, used
// range, and the feature flags used for report navigation.
func ExtractSheets(f *excelize.File, a *Archive) ([]models.SheetInfo, error) {
	var sheets []models.SheetInfo

	for idx, sheetName := range f.GetSheetList() {
		info := models.SheetInfo{
			Name:       sheetName,
			Index:      idx,
			Visibility: sheetVisibility(a.SheetState(sheetName)),
		}

		if dim, err := f.GetSheetDimension(sheetName); err == nil && dim != "" && dim != "A1:A1" {
			info.UsedRange = dim
			info.RowCount, info.ColCount = dimensionSize(dim)
			info.HasData = info.RowCount > 0 && info.ColCount > 0
		}

		if merged, err := f.GetMergeCells(sheetName); err == nil && len(merged) > 0 {
			info.HasMergedCells = true
			for _, m := range merged {
				info.MergedCellRanges = append(info.MergedCellRanges, m.GetStartAxis()+":"+m.GetEndAxis())
			}
		}

		if comments, err := f.GetComments(sheetName); err == nil && len(comments) > 0 {
			info.HasComments = true
		}
		if validations, err := f.GetDataValidations(sheetName); err == nil && len(validations) > 0 {
			info.HasDataValidation = true
		}
		if pivots, err := f.GetPivotTables(sheetName); err == nil && len(pivots) > 0 {
			info.HasPivots = true
		}
		if tables, err := f.GetTables(sheetName); err == nil && len(tables) > 0 {
			info.HasTables = true
		}

		fillSheetPartFlags(a, sheetName, &info)

		sheets = append(sheets, info)
	}

	return sheets, nil
}

// sheetVisibility maps the workbook.xml state attribute to a visibility
// value. Anything other than hidden or veryHidden counts as visible.
func sheetVisibility(state string) models.SheetVisibility {
	switch state {
	case "hidden":
		return models.VisibilityHidden
	case "veryHidden":
		return models.VisibilityVeryHidden
	default:
		return models.VisibilityVisible
	}
}

// dimensionSize returns the row and column span of a dimension ref like
// "A1:F20".
func dimensionSize(dim string) (rows, cols int) {
	parts := strings.Split(dim, ":")
	if len(parts) == 1 {
		if _, _, err := excelize.CellNameToCoordinates(parts[0]); err == nil {
			return 1, 1
		}
		return 0, 0
	}
	c1, r1, err1 := excelize.CellNameToCoordinates(parts[0])
	c2, r2, err2 := excelize.CellNameToCoordinates(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0
	}
	return r2 - r1 + 1, c2 - c1 + 1
}

// fillSheetPartFlags sets the flags that need a pass over the raw worksheet
// part: formulas, hyperlinks, conditional formatting, chart anchors, and tab
// color.
func fillSheetPartFlags(a *Archive, sheetName string, info *models.SheetInfo) {
	part := a.SheetPart(sheetName)
	if part == "" {
		return
	}
	data, err := a.Read(part)
	if err != nil || data == nil {
		return
	}

	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "f":
			info.HasFormulas = true
		case "hyperlink":
			info.HasHyperlinks = true
		case "conditionalFormatting":
			info.HasConditionalFormatting = true
		case "tabColor":
			if rgb := attrValue(se, "rgb"); rgb != "" {
				info.TabColor = "#" + rgb
			} else if theme := attrValue(se, "theme"); theme != "" {
				info.TabColor = "theme:" + theme
			}
		}
	}

	for _, rel := range a.SheetRels(sheetName) {
		if strings.Contains(strings.ToLower(rel.Type), "drawing") {
			drawingPath := resolvePartPath(rel.Target, "xl/worksheets")
			if drawingHasChart(a, drawingPath) {
				info.HasCharts = true
			}
		}
	}
}

// drawingHasChart reports whether a drawing part references a chart.
func drawingHasChart(a *Archive, drawingPath string) bool {
	for _, rel := range a.partRels(drawingPath) {
		if strings.Contains(strings.ToLower(rel.Type), "chart") {
			return true
		}
	}
	return false
}
