package extract

import (
	"encoding/xml"
	"strings"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

// ExtractTables extracts structured table (ListObject) definitions by
// following each sheet's table part relationships.
func ExtractTables(a *Archive) ([]models.TableInfo, error) {
	var tables []models.TableInfo

	for _, sheetName := range a.SheetNames() {
		for _, rel := range a.SheetRels(sheetName) {
			if !strings.HasSuffix(strings.ToLower(rel.Type), "/table") {
				continue
			}
			partPath := resolvePartPath(rel.Target, "xl/worksheets")
			data, err := a.Read(partPath)
			if err != nil || data == nil {
				continue
			}
			if info, ok := parseTablePart(data, sheetName); ok {
				tables = append(tables, info)
			}
		}
	}

	return tables, nil
}

// parseTablePart reads one table part.
func parseTablePart(data []byte, sheetName string) (models.TableInfo, bool) {
	info := models.TableInfo{Sheet: sheetName, HasHeaderRow: true}

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
		case "table":
			info.Name = attrValue(se, "name")
			info.DisplayName = attrValue(se, "displayName")
			info.Range = attrValue(se, "ref")
			if attrValue(se, "totalsRowCount") != "" && attrValue(se, "totalsRowCount") != "0" {
				info.HasTotalsRow = true
			}
			// headerRowCount="0" marks a headerless table; absent means one
			// header row.
			if attrValue(se, "headerRowCount") == "0" {
				info.HasHeaderRow = false
			}
		case "tableColumn":
			if name := attrValue(se, "name"); name != "" {
				info.Columns = append(info.Columns, name)
			}
		case "tableStyleInfo":
			info.StyleName = attrValue(se, "name")
		}
	}

	if info.DisplayName == "" {
		info.DisplayName = info.Name
	}
	return info, info.Name != "" || info.Range != ""
}
