package extract

import (
	"encoding/xml"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

// ExtractFormulas extracts every formula cell in the workbook, classified and
// cleaned. When limit is positive and the workbook holds more formulas, the
// result is cut off and truncated is true.
//
// Shared formulas are recorded at their master cell only; follower cells
// carry no formula text in the file and are skipped.
func ExtractFormulas(a *Archive, limit int) (formulas []models.FormulaInfo, truncated bool, err error) {
	for _, sheetName := range a.SheetNames() {
		part := a.SheetPart(sheetName)
		if part == "" {
			continue
		}
		data, err := a.Read(part)
		if err != nil || data == nil {
			continue
		}

		for _, fc := range parseFormulaCells(data) {
			if limit > 0 && len(formulas) >= limit {
				return formulas, true, nil
			}
			info, ok := buildFormulaInfo(sheetName, fc)
			if !ok {
				continue
			}
			formulas = append(formulas, info)
		}
	}
	return formulas, false, nil
}

// formulaCell is one <c> element carrying an <f> child.
type formulaCell struct {
	ref     string
	text    string
	ftype   string // t attribute of <f>: "array", "shared", "dataTable"
	spill   string // ref attribute of <f> for array formulas
	value   string // cached <v> content
	isError bool   // cell t="e"
}

// parseFormulaCells walks a worksheet part and collects formula cells.
func parseFormulaCells(data []byte) []formulaCell {
	var cells []formulaCell

	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "c" {
			continue
		}

		cell := formulaCell{
			ref:     attrValue(se, "r"),
			isError: attrValue(se, "t") == "e",
		}
		hasFormula := false

		depth := 1
		for depth > 0 {
			inner, err := decoder.Token()
			if err != nil {
				break
			}
			switch t := inner.(type) {
			case xml.StartElement:
				depth++
				switch t.Name.Local {
				case "f":
					hasFormula = true
					cell.ftype = attrValue(t, "t")
					cell.spill = attrValue(t, "ref")
					cell.text = readElementText(decoder)
					depth--
				case "v":
					cell.value = readElementText(decoder)
					depth--
				}
			case xml.EndElement:
				depth--
			}
		}

		if hasFormula {
			cells = append(cells, cell)
		}
	}

	return cells
}

// buildFormulaInfo turns a parsed formula cell into a FormulaInfo record.
func buildFormulaInfo(sheetName string, fc formulaCell) (models.FormulaInfo, bool) {
	// Follower cells of a shared formula have an empty <f> body.
	if strings.TrimSpace(fc.text) == "" {
		return models.FormulaInfo{}, false
	}

	raw := "=" + fc.text
	if fc.ftype == "array" && fc.spill == "" {
		raw = "{=" + fc.text + "}"
	}

	cleaned := CleanFormula(raw)
	externalRefs := ExternalWorkbookRefs(raw)

	col, row, err := excelize.CellNameToCoordinates(fc.ref)
	if err != nil {
		return models.FormulaInfo{}, false
	}

	info := models.FormulaInfo{
		Location: models.CellReference{
			Sheet: sheetName,
			Cell:  fc.ref,
			Row:   row,
			Col:   col,
		},
		Formula:            raw,
		FormulaClean:       cleaned,
		Category:           ClassifyFormula(cleaned),
		ResultValue:        fc.value,
		IsArrayFormula:     fc.ftype == "array",
		ReferencesExternal: len(externalRefs) > 0,
		ExternalRefs:       externalRefs,
	}
	if fc.spill != "" && fc.spill != fc.ref {
		info.SpillRange = fc.spill
	}
	return info, true
}
