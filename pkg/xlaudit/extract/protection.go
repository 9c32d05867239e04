package extract

import (
	"encoding/xml"
	"strings"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

// ExtractProtection extracts workbook and sheet protection settings.
func ExtractProtection(a *Archive) (*models.ProtectionInfo, error) {
	info := &models.ProtectionInfo{
		Sheets: make(map[string]models.SheetProtection),
	}

	if data, err := a.Read("xl/workbook.xml"); err == nil && data != nil {
		fillWorkbookProtection(data, info)
	}

	for _, sheetName := range a.SheetNames() {
		part := a.SheetPart(sheetName)
		if part == "" {
			info.Sheets[sheetName] = models.SheetProtection{}
			continue
		}
		data, err := a.Read(part)
		if err != nil || data == nil {
			info.Sheets[sheetName] = models.SheetProtection{}
			continue
		}
		info.Sheets[sheetName] = parseSheetProtection(data)
	}

	return info, nil
}

// fillWorkbookProtection reads the workbookProtection element.
func fillWorkbookProtection(data []byte, info *models.ProtectionInfo) {
	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "workbookProtection" {
			continue
		}
		info.WorkbookProtected = true
		info.WorkbookStructure = boolAttr(se, "lockStructure", false)
		info.WorkbookWindows = boolAttr(se, "lockWindows", false)
		return
	}
}

// parseSheetProtection reads the sheetProtection element of a worksheet
// part. Flag defaults follow the file format: format, insert, delete, sort,
// AutoFilter, and pivot actions are blocked unless the attribute clears
// them; selection, objects, and scenarios are allowed unless set.
func parseSheetProtection(data []byte) models.SheetProtection {
	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "sheetProtection" {
			continue
		}
		if !boolAttr(se, "sheet", false) {
			return models.SheetProtection{}
		}
		hasPassword := attrValue(se, "password") != "" || attrValue(se, "hashValue") != ""
		return models.SheetProtection{
			Protected:           true,
			PasswordProtected:   hasPassword,
			SelectLockedCells:   boolAttr(se, "selectLockedCells", false),
			SelectUnlockedCells: boolAttr(se, "selectUnlockedCells", false),
			FormatCells:         boolAttr(se, "formatCells", true),
			FormatColumns:       boolAttr(se, "formatColumns", true),
			FormatRows:          boolAttr(se, "formatRows", true),
			InsertColumns:       boolAttr(se, "insertColumns", true),
			InsertRows:          boolAttr(se, "insertRows", true),
			InsertHyperlinks:    boolAttr(se, "insertHyperlinks", true),
			DeleteColumns:       boolAttr(se, "deleteColumns", true),
			DeleteRows:          boolAttr(se, "deleteRows", true),
			Sort:                boolAttr(se, "sort", true),
			AutoFilter:          boolAttr(se, "autoFilter", true),
			PivotTables:         boolAttr(se, "pivotTables", true),
			Objects:             boolAttr(se, "objects", false),
			Scenarios:           boolAttr(se, "scenarios", false),
		}
	}
	return models.SheetProtection{}
}

// boolAttr reads a boolean attribute with a schema default.
func boolAttr(se xml.StartElement, name string, def bool) bool {
	switch attrValue(se, name) {
	case "1", "true":
		return true
	case "0", "false":
		return false
	default:
		return def
	}
}
