package extract

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

// ExtractNamedRanges extracts all defined names from workbook.xml, including
// LAMBDA function definitions stored as names.
func ExtractNamedRanges(a *Archive) ([]models.NamedRangeInfo, error) {
	data, err := a.Read("xl/workbook.xml")
	if err != nil || data == nil {
		return nil, err
	}

	sheetNames := a.SheetNames()
	var names []models.NamedRangeInfo

	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "definedName" {
			continue
		}

		info := models.NamedRangeInfo{
			Name:    attrValue(se, "name"),
			Comment: attrValue(se, "comment"),
			Hidden:  attrValue(se, "hidden") == "1" || attrValue(se, "hidden") == "true",
		}
		if localID := attrValue(se, "localSheetId"); localID != "" {
			if idx, err := strconv.Atoi(localID); err == nil && idx >= 0 && idx < len(sheetNames) {
				info.Scope = sheetNames[idx]
			}
		}

		value := readElementText(decoder)
		info.IsLambda = isLambdaDefinition(value)
		info.Value = CleanFormula(value)

		if info.Name != "" {
			names = append(names, info)
		}
	}

	return names, nil
}

// isLambdaDefinition reports whether a defined name value is a LAMBDA
// function definition, with or without internal prefixes.
func isLambdaDefinition(value string) bool {
	upper := strings.ToUpper(value)
	return strings.Contains(upper, "LAMBDA(") ||
		strings.Contains(upper, "_XLFN.LAMBDA(") ||
		strings.Contains(upper, "_XLPM.LAMBDA(")
}
