package extract

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

// paperSizeNames maps pageSetup paperSize codes to names for the common
// sizes. Anything else is reported as Custom.
var paperSizeNames = map[int]string{
	1:  "Letter (8.5 x 11 in)",
	2:  "Letter Small (8.5 x 11 in)",
	3:  "Tabloid (11 x 17 in)",
	4:  "Ledger (17 x 11 in)",
	5:  "Legal (8.5 x 14 in)",
	6:  "Statement (5.5 x 8.5 in)",
	7:  "Executive (7.25 x 10.5 in)",
	8:  "A3 (297 x 420 mm)",
	9:  "A4 (210 x 297 mm)",
	10: "A4 Small (210 x 297 mm)",
	11: "A5 (148 x 210 mm)",
}

// ExtractPrintSettings extracts print settings for every sheet. Sheets with
// nothing beyond defaults are omitted.
func ExtractPrintSettings(a *Archive) ([]models.PrintSettingsInfo, error) {
	printAreas, printTitles := printDefinedNames(a)

	var settings []models.PrintSettingsInfo
	for _, sheetName := range a.SheetNames() {
		info := models.PrintSettingsInfo{
			Sheet:       sheetName,
			Orientation: "portrait",
			PrintArea:   printAreas[sheetName],
		}
		if titles := printTitles[sheetName]; titles != "" {
			info.PrintTitlesRows, info.PrintTitlesCols = splitPrintTitles(titles)
		}

		if part := a.SheetPart(sheetName); part != "" {
			if data, err := a.Read(part); err == nil && data != nil {
				fillPageSetup(data, &info)
			}
		}

		if info.PrintArea != "" || info.PrintTitlesRows != "" || info.PrintTitlesCols != "" ||
			len(info.PageBreaksRow) > 0 || len(info.PageBreaksCol) > 0 || info.FitToPage {
			settings = append(settings, info)
		}
	}

	return settings, nil
}

// printDefinedNames collects the built-in _xlnm.Print_Area and
// _xlnm.Print_Titles names per sheet.
func printDefinedNames(a *Archive) (areas, titles map[string]string) {
	areas = make(map[string]string)
	titles = make(map[string]string)

	data, err := a.Read("xl/workbook.xml")
	if err != nil || data == nil {
		return areas, titles
	}
	sheetNames := a.SheetNames()

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
		name := attrValue(se, "name")
		localID := atoiDefault(attrValue(se, "localSheetId"), -1)
		value := readElementText(decoder)
		if localID < 0 || localID >= len(sheetNames) {
			continue
		}
		switch name {
		case "_xlnm.Print_Area":
			areas[sheetNames[localID]] = value
		case "_xlnm.Print_Titles":
			titles[sheetNames[localID]] = value
		}
	}
	return areas, titles
}

// splitPrintTitles separates a Print_Titles value into its row and column
// components, e.g. "'Sheet1'!$1:$2,'Sheet1'!$A:$B".
func splitPrintTitles(value string) (rows, cols string) {
	for _, part := range strings.Split(value, ",") {
		ref := part
		if idx := strings.LastIndex(ref, "!"); idx >= 0 {
			ref = ref[idx+1:]
		}
		trimmed := strings.ReplaceAll(ref, "$", "")
		if trimmed == "" {
			continue
		}
		if trimmed[0] >= '0' && trimmed[0] <= '9' {
			rows = part
		} else {
			cols = part
		}
	}
	return rows, cols
}

// fillPageSetup reads pageSetup, fit-to-page, and manual breaks from a
// worksheet part.
func fillPageSetup(data []byte, info *models.PrintSettingsInfo) {
	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	var inRowBreaks, inColBreaks bool

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pageSetup":
				if o := attrValue(t, "orientation"); o != "" {
					info.Orientation = o
				}
				if ps := atoiDefault(attrValue(t, "paperSize"), 0); ps > 0 {
					if name, ok := paperSizeNames[ps]; ok {
						info.PaperSize = name
					} else {
						info.PaperSize = fmt.Sprintf("Custom (%d)", ps)
					}
				}
				if info.FitToPage {
					info.FitToWidth = atoiDefault(attrValue(t, "fitToWidth"), 1)
					info.FitToHeight = atoiDefault(attrValue(t, "fitToHeight"), 1)
				}
			case "pageSetUpPr":
				if attrValue(t, "fitToPage") == "1" {
					info.FitToPage = true
				}
			case "rowBreaks":
				inRowBreaks = true
			case "colBreaks":
				inColBreaks = true
			case "brk":
				id := atoiDefault(attrValue(t, "id"), 0)
				if inRowBreaks {
					info.PageBreaksRow = append(info.PageBreaksRow, id)
				} else if inColBreaks {
					info.PageBreaksCol = append(info.PageBreaksCol, id)
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "rowBreaks":
				inRowBreaks = false
			case "colBreaks":
				inColBreaks = false
			}
		}
	}
}
