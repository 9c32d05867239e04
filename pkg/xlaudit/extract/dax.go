package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

var cubeFunctions = []string{
	"CUBEVALUE(", "CUBEMEMBER(", "CUBESET(", "CUBERANKEDMEMBER(",
	"CUBEKPIMEMBER(", "CUBEMEMBERPROPERTY(", "CUBESETCOUNT(",
}

// DetectDAX looks for signs of a Data Model or DAX measures in the workbook.
// Detection is indirect: the model itself is an opaque binary part, so the
// check relies on the model part being present, OLAP connections into the
// workbook data model, CUBE functions in formulas, and measure records in
// pivot cache definitions.
func DetectDAX(a *Archive, formulas []models.FormulaInfo, connections []models.DataConnectionInfo) (bool, string) {
	var signals []string

	if len(a.List("xl/model/")) > 0 {
		signals = append(signals, "data model part present")
	}

	for _, conn := range connections {
		nameLower := strings.ToLower(conn.Name)
		if strings.Contains(nameLower, "powerpivot") || strings.Contains(nameLower, "thisworkbookdatamodel") {
			signals = append(signals, fmt.Sprintf("data model connection %q", conn.Name))
			break
		}
		if conn.ConnectionType == "OLEDB" && strings.Contains(strings.ToLower(conn.ConnectionString), "data model") {
			signals = append(signals, fmt.Sprintf("data model connection %q", conn.Name))
			break
		}
	}

	cubeCount := 0
	for _, formula := range formulas {
		upper := strings.ToUpper(formula.FormulaClean)
		for _, fn := range cubeFunctions {
			if strings.Contains(upper, fn) {
				cubeCount++
				break
			}
		}
	}
	if cubeCount > 0 {
		signals = append(signals, fmt.Sprintf("%d CUBE function formulas", cubeCount))
	}

	if hasPivotCacheMeasures(a) {
		signals = append(signals, "measures in pivot cache definitions")
	}

	if len(signals) == 0 {
		return false, ""
	}
	return true, "Detected: " + strings.Join(signals, "; ")
}

// hasPivotCacheMeasures scans pivot cache definition parts for measure or
// calculated member records.
func hasPivotCacheMeasures(a *Archive) bool {
	for _, name := range a.List("xl/pivotCache/") {
		if !strings.Contains(name, "pivotCacheDefinition") {
			continue
		}
		data, err := a.Read(name)
		if err != nil || data == nil {
			continue
		}
		if bytes.Contains(data, []byte("<measure ")) ||
			bytes.Contains(data, []byte("<calculatedMember ")) ||
			bytes.Contains(data, []byte("<calculatedMembers")) {
			return true
		}
	}
	return false
}
