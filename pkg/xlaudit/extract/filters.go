package extract

import (
	"encoding/xml"
	"strings"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

// ExtractAutoFilters extracts AutoFilter settings from every sheet.
func ExtractAutoFilters(a *Archive) ([]models.AutoFilterInfo, error) {
	var filters []models.AutoFilterInfo

	for _, sheetName := range a.SheetNames() {
		part := a.SheetPart(sheetName)
		if part == "" {
			continue
		}
		data, err := a.Read(part)
		if err != nil || data == nil {
			continue
		}
		if info, ok := parseAutoFilter(data, sheetName); ok {
			filters = append(filters, info)
		}
	}

	return filters, nil
}

// parseAutoFilter reads the autoFilter element of a worksheet part. Table
// parts carry their own autoFilter elements; only the sheet-level one is
// read here.
func parseAutoFilter(data []byte, sheetName string) (models.AutoFilterInfo, bool) {
	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "autoFilter" {
			continue
		}

		info := models.AutoFilterInfo{
			Sheet: sheetName,
			Range: attrValue(se, "ref"),
		}
		info.ColumnFilters = parseFilterColumns(decoder)
		return info, info.Range != ""
	}
	return models.AutoFilterInfo{}, false
}

// parseFilterColumns reads filterColumn children of an autoFilter element.
func parseFilterColumns(decoder *xml.Decoder) map[int]models.ColumnFilter {
	columns := make(map[int]models.ColumnFilter)

	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "filterColumn" {
				colID := atoiDefault(attrValue(t, "colId"), 0)
				if filter, ok := parseFilterColumn(decoder); ok {
					columns[colID] = filter
				}
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	if len(columns) == 0 {
		return nil
	}
	return columns
}

// parseFilterColumn reads one filterColumn element into its typed variant.
func parseFilterColumn(decoder *xml.Decoder) (models.ColumnFilter, bool) {
	var filter models.ColumnFilter

	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "filters":
				filter.Kind = "values"
				if attrValue(t, "blank") == "1" {
					filter.IncludeBlank = true
				}
			case "filter":
				if val := attrValue(t, "val"); val != "" {
					filter.Values = append(filter.Values, val)
				}
			case "customFilters":
				filter.Kind = "custom"
				filter.And = attrValue(t, "and") == "1"
			case "customFilter":
				filter.Criteria = append(filter.Criteria, models.CustomFilterCriterion{
					Operator: attrValue(t, "operator"),
					Value:    attrValue(t, "val"),
				})
			case "top10":
				filter.Kind = "top10"
				filter.Top = attrValue(t, "top") != "0"
				filter.Percent = attrValue(t, "percent") == "1"
				filter.Value = attrValue(t, "val")
				if filter.Value == "" {
					filter.Value = "10"
				}
			case "dynamicFilter":
				filter.Kind = "dynamic"
				filter.Value = attrValue(t, "type")
			case "colorFilter":
				filter.Kind = "color"
				filter.Color = attrValue(t, "dxfId")
			}
		case xml.EndElement:
			depth--
		}
	}

	return filter, filter.Kind != ""
}
