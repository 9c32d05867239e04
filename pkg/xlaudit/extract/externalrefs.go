package extract

import (
	"regexp"
	"strings"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

// Pattern: [WorkbookName.xlsx]SheetName!Range
var externalRefDetail = regexp.MustCompile(`(?i)\[([^\]]+\.xls[xmb]?)\](?:'?([^'!\[\]]+)'?)?!?(\$?[A-Z]+\$?\d+(?::\$?[A-Z]+\$?\d+)?)?`)

// ExtractExternalRefs collects references to other workbooks, from formulas
// and from the xl/externalLinks parts. One record is kept per distinct
// workbook and sheet pair; a reference whose cell shows #REF! is marked
// broken.
func ExtractExternalRefs(a *Archive, formulas []models.FormulaInfo, errorCells []models.ErrorCellInfo) []models.ExternalRefInfo {
	refErrors := make(map[string]bool)
	for _, ec := range errorCells {
		if ec.ErrorType == models.ErrorRef {
			refErrors[ec.Location.Address()] = true
		}
	}

	seen := make(map[string]bool)
	var refs []models.ExternalRefInfo

	for _, formula := range formulas {
		if !formula.ReferencesExternal {
			continue
		}
		for _, m := range externalRefDetail.FindAllStringSubmatch(formula.Formula, -1) {
			key := m[1] + "|" + m[2]
			if seen[key] {
				continue
			}
			seen[key] = true
			refs = append(refs, models.ExternalRefInfo{
				SourceCell:     formula.Location,
				TargetWorkbook: m[1],
				TargetSheet:    m[2],
				TargetRange:    m[3],
				IsBroken:       refErrors[formula.Location.Address()],
			})
		}
	}

	refs = append(refs, externalLinkParts(a, seen)...)
	return refs
}

// externalLinkParts reads linked workbook names from xl/externalLinks.
func externalLinkParts(a *Archive, seen map[string]bool) []models.ExternalRefInfo {
	var refs []models.ExternalRefInfo

	for _, partPath := range a.List("xl/externalLinks/externalLink") {
		if !strings.HasSuffix(partPath, ".xml") {
			continue
		}
		for _, rel := range a.partRels(partPath) {
			if !strings.Contains(strings.ToLower(rel.Type), "externallinkpath") {
				continue
			}
			target := rel.Target
			filename := target
			if idx := strings.LastIndex(target, "/"); idx >= 0 {
				filename = target[idx+1:]
			}
			if filename == "" || seen[filename+"|"] {
				continue
			}
			seen[filename+"|"] = true
			refs = append(refs, models.ExternalRefInfo{
				TargetWorkbook: filename,
				IsBroken:       !strings.Contains(strings.ToLower(target), "file:///"),
			})
		}
	}

	return refs
}
