// Package extract pulls structured facts out of Excel workbooks. Extractors
// read through the excelize object model where it exposes a feature and fall
// back to the raw OOXML parts for everything it does not.
package extract

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"sort"
	"strings"
)

// Archive wraps the OOXML zip container of a workbook and resolves sheet
// names to worksheet part paths through workbook.xml and its relationships.
type Archive struct {
	reader *zip.ReadCloser

	// sheet name -> part path, e.g. "xl/worksheets/sheet1.xml"
	sheetParts map[string]string
	// sheet name -> state attribute ("", "hidden", "veryHidden")
	sheetStates map[string]string
	// sheet names in workbook order
	sheetOrder []string
}

type relationship struct {
	ID     string
	Type   string
	Target string
}

// OpenArchive opens the workbook file as a zip container and indexes its
// worksheet parts.
func OpenArchive(path string) (*Archive, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}

	a := &Archive{
		reader:      r,
		sheetParts:  make(map[string]string),
		sheetStates: make(map[string]string),
	}
	a.indexSheets()
	return a, nil
}

// Close releases the underlying zip reader.
func (a *Archive) Close() error {
	return a.reader.Close()
}

// Read returns the content of the named part, or nil if the part is absent.
func (a *Archive) Read(name string) ([]byte, error) {
	for _, f := range a.reader.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, nil
}

// Has reports whether the named part exists in the container.
func (a *Archive) Has(name string) bool {
	for _, f := range a.reader.File {
		if f.Name == name {
			return true
		}
	}
	return false
}

// List returns all part names under the given prefix, sorted.
func (a *Archive) List(prefix string) []string {
	var names []string
	for _, f := range a.reader.File {
		if strings.HasPrefix(f.Name, prefix) {
			names = append(names, f.Name)
		}
	}
	sort.Strings(names)
	return names
}

// SheetNames returns all sheet names in workbook order.
func (a *Archive) SheetNames() []string {
	return a.sheetOrder
}

// SheetPart returns the worksheet part path for a sheet name, or "" if the
// sheet is unknown.
func (a *Archive) SheetPart(sheetName string) string {
	return a.sheetParts[sheetName]
}

// SheetState returns the raw state attribute of a sheet from workbook.xml:
// "" for visible, "hidden", or "veryHidden".
func (a *Archive) SheetState(sheetName string) string {
	return a.sheetStates[sheetName]
}

// SheetRels returns the parsed relationships of a worksheet part.
func (a *Archive) SheetRels(sheetName string) []relationship {
	part := a.sheetParts[sheetName]
	if part == "" {
		return nil
	}
	return a.partRels(part)
}

// partRels returns the parsed relationships of any part.
func (a *Archive) partRels(partPath string) []relationship {
	idx := strings.LastIndex(partPath, "/")
	if idx < 0 {
		return nil
	}
	relsPath := partPath[:idx] + "/_rels/" + partPath[idx+1:] + ".rels"
	data, err := a.Read(relsPath)
	if err != nil || data == nil {
		return nil
	}
	return parseRelationships(data)
}

// indexSheets builds the sheet name to part path map from workbook.xml and
// workbook.xml.rels.
func (a *Archive) indexSheets() {
	wbXML, err := a.Read("xl/workbook.xml")
	if err != nil || wbXML == nil {
		return
	}

	type sheetEntry struct {
		name  string
		rID   string
		state string
	}
	var sheets []sheetEntry

	decoder := xml.NewDecoder(strings.NewReader(string(wbXML)))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "sheet" {
			var entry sheetEntry
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "name":
					entry.name = attr.Value
				case "id":
					entry.rID = attr.Value
				case "state":
					entry.state = attr.Value
				}
			}
			if entry.name != "" {
				sheets = append(sheets, entry)
			}
		}
	}

	relsXML, err := a.Read("xl/_rels/workbook.xml.rels")
	if err != nil || relsXML == nil {
		return
	}
	targets := make(map[string]string)
	for _, rel := range parseRelationships(relsXML) {
		targets[rel.ID] = rel.Target
	}

	for _, entry := range sheets {
		a.sheetOrder = append(a.sheetOrder, entry.name)
		a.sheetStates[entry.name] = entry.state
		if target, ok := targets[entry.rID]; ok {
			a.sheetParts[entry.name] = resolvePartPath(target, "xl")
		}
	}
}

// parseRelationships parses a .rels part into relationship entries.
func parseRelationships(data []byte) []relationship {
	var rels []relationship
	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			var rel relationship
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "Id":
					rel.ID = attr.Value
				case "Type":
					rel.Type = attr.Value
				case "Target":
					rel.Target = attr.Value
				}
			}
			rels = append(rels, rel)
		}
	}
	return rels
}

// resolvePartPath resolves a relationship target against a base directory.
func resolvePartPath(target, baseDir string) string {
	if strings.HasPrefix(target, "../") {
		clean := target
		for strings.HasPrefix(clean, "../") {
			clean = strings.TrimPrefix(clean, "../")
		}
		return "xl/" + clean
	}
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return baseDir + "/" + target
}

// attrValue returns the value of the named attribute on a start element,
// or "" if absent.
func attrValue(se xml.StartElement, name string) string {
	for _, attr := range se.Attr {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}

// readElementText collects the character data inside the current element.
func readElementText(decoder *xml.Decoder) string {
	var text string
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return text
		}
		switch t := token.(type) {
		case xml.CharData:
			text += string(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return text
}

// skipElement advances the decoder past the current element.
func skipElement(decoder *xml.Decoder) {
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return
		}
		switch token.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
}
