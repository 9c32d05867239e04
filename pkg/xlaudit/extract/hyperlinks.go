package extract

import (
	"encoding/xml"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

var externalLinkPrefixes = []string{"http://", "https://", "ftp://", "mailto:", "file://"}

// ExtractHyperlinks extracts hyperlinks from every sheet. External targets
// live in the worksheet relationships; location links (other sheets) carry
// their target inline.
func ExtractHyperlinks(f *excelize.File, a *Archive) ([]models.HyperlinkInfo, error) {
	var hyperlinks []models.HyperlinkInfo

	for _, sheetName := range a.SheetNames() {
		part := a.SheetPart(sheetName)
		if part == "" {
			continue
		}
		data, err := a.Read(part)
		if err != nil || data == nil {
			continue
		}

		relTargets := make(map[string]string)
		for _, rel := range a.SheetRels(sheetName) {
			if strings.Contains(strings.ToLower(rel.Type), "hyperlink") {
				relTargets[rel.ID] = rel.Target
			}
		}

		decoder := xml.NewDecoder(strings.NewReader(string(data)))
		for {
			token, err := decoder.Token()
			if err != nil {
				break
			}
			se, ok := token.(xml.StartElement)
			if !ok || se.Name.Local != "hyperlink" {
				continue
			}

			ref := attrValue(se, "ref")
			col, row, err := excelize.CellNameToCoordinates(ref)
			if err != nil {
				continue
			}

			target := relTargets[relIDAttr(se)]
			if target == "" {
				// Location links reference a place in this workbook.
				target = attrValue(se, "location")
			}

			displayText, _ := f.GetCellValue(sheetName, ref)

			hyperlinks = append(hyperlinks, models.HyperlinkInfo{
				Location:    models.CellReference{Sheet: sheetName, Cell: ref, Row: row, Col: col},
				Target:      target,
				DisplayText: displayText,
				Tooltip:     attrValue(se, "tooltip"),
				IsExternal:  isExternalLink(target),
			})
		}
	}

	return hyperlinks, nil
}

// relIDAttr returns the r:id attribute of an element.
func relIDAttr(se xml.StartElement) string {
	for _, attr := range se.Attr {
		if attr.Name.Local == "id" {
			return attr.Value
		}
	}
	return ""
}

// isExternalLink reports whether a hyperlink target points outside the
// workbook.
func isExternalLink(target string) bool {
	lower := strings.ToLower(target)
	for _, prefix := range externalLinkPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
