package extract

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

// ExtractPivotTables extracts pivot table definitions from every sheet,
// resolving field names through the pivot cache where possible.
func ExtractPivotTables(a *Archive) ([]models.PivotTableInfo, error) {
	caches := loadPivotCaches(a)

	var pivots []models.PivotTableInfo
	for _, sheetName := range a.SheetNames() {
		for _, rel := range a.SheetRels(sheetName) {
			if !strings.Contains(strings.ToLower(rel.Type), "pivottable") {
				continue
			}
			partPath := resolvePartPath(rel.Target, "xl/worksheets")
			data, err := a.Read(partPath)
			if err != nil || data == nil {
				continue
			}
			if info, ok := parsePivotTable(data, sheetName, caches); ok {
				pivots = append(pivots, info)
			}
		}
	}

	return pivots, nil
}

// pivotCache holds the source and field names of one pivot cache definition.
type pivotCache struct {
	sourceRange      string
	sourceConnection string
	fieldNames       []string
}

// loadPivotCaches reads all pivotCacheDefinition parts keyed by the cache
// number in the part file name, which matches the cacheId the workbook
// assigns.
func loadPivotCaches(a *Archive) map[string]pivotCache {
	caches := make(map[string]pivotCache)

	for _, partPath := range a.List("xl/pivotCache/pivotCacheDefinition") {
		if !strings.HasSuffix(partPath, ".xml") {
			continue
		}
		data, err := a.Read(partPath)
		if err != nil || data == nil {
			continue
		}

		num := strings.TrimSuffix(strings.TrimPrefix(partPath, "xl/pivotCache/pivotCacheDefinition"), ".xml")
		var cache pivotCache

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
			case "worksheetSource":
				ref := attrValue(se, "ref")
				sheet := attrValue(se, "sheet")
				if sheet != "" && ref != "" {
					cache.sourceRange = "'" + sheet + "'!" + ref
				} else if ref != "" {
					cache.sourceRange = ref
				} else if name := attrValue(se, "name"); name != "" {
					cache.sourceRange = name
				}
			case "cacheSource":
				if cid := attrValue(se, "connectionId"); cid != "" {
					cache.sourceConnection = cid
				}
			case "cacheField":
				cache.fieldNames = append(cache.fieldNames, attrValue(se, "name"))
			}
		}

		caches[num] = cache
	}

	return caches
}

// parsePivotTable reads one pivotTableDefinition part.
func parsePivotTable(data []byte, sheetName string, caches map[string]pivotCache) (models.PivotTableInfo, bool) {
	info := models.PivotTableInfo{Sheet: sheetName}
	var cacheID string

	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	var inRowFields, inColFields bool
	fieldName := func(cache pivotCache, idx int) string {
		if idx >= 0 && idx < len(cache.fieldNames) && cache.fieldNames[idx] != "" {
			return cache.fieldNames[idx]
		}
		return fmt.Sprintf("Field %d", idx)
	}
	var cache pivotCache

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pivotTableDefinition":
				info.Name = attrValue(t, "name")
				cacheID = attrValue(t, "cacheId")
				info.CacheID = atoiDefault(cacheID, 0)
				cache = caches[cacheID]
				info.SourceRange = cache.sourceRange
				info.SourceConnection = cache.sourceConnection
			case "location":
				info.Location = attrValue(t, "ref")
			case "rowFields":
				inRowFields = true
			case "colFields":
				inColFields = true
			case "field":
				idx := atoiDefault(attrValue(t, "x"), -1)
				if idx < 0 {
					// Data-field placeholder axis entries use x="-2".
					continue
				}
				if inRowFields {
					info.RowFields = append(info.RowFields, fieldName(cache, idx))
				} else if inColFields {
					info.ColumnFields = append(info.ColumnFields, fieldName(cache, idx))
				}
			case "dataField":
				name := attrValue(t, "name")
				if name == "" {
					name = fieldName(cache, atoiDefault(attrValue(t, "fld"), -1))
				}
				info.DataFields = append(info.DataFields, name)
			case "pageField":
				idx := atoiDefault(attrValue(t, "fld"), -1)
				info.FilterFields = append(info.FilterFields, fieldName(cache, idx))
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "rowFields":
				inRowFields = false
			case "colFields":
				inColFields = false
			}
		}
	}

	if info.Name == "" {
		info.Name = "PivotTable"
	}
	return info, info.Location != "" || len(info.DataFields) > 0 || len(info.RowFields) > 0
}
