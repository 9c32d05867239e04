package extract

import (
	"encoding/xml"
	"strings"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

// connectionTypeNames maps the connection type attribute of
// xl/connections.xml to a readable name.
var connectionTypeNames = map[string]string{
	"1": "ODBC",
	"2": "DAO",
	"3": "File",
	"4": "Web Query",
	"5": "OLEDB",
	"6": "Text",
	"7": "ADO",
	"8": "DSP",
}

// commandTypeNames maps the dbPr commandType attribute to a readable name.
var commandTypeNames = map[string]string{
	"1": "SQL",
	"2": "Table",
	"3": "Default",
	"4": "DAX",
	"5": "Cube",
}

// daxKeywords flag a command text as a DAX query.
var daxKeywords = []string{"EVALUATE", "SUMMARIZE", "CALCULATE", "FILTER(", "ALL(", "VALUES(", "RELATED("}

// ExtractConnections extracts external data connections from
// xl/connections.xml.
func ExtractConnections(a *Archive) ([]models.DataConnectionInfo, error) {
	data, err := a.Read("xl/connections.xml")
	if err != nil || data == nil {
		return nil, err
	}

	var connections []models.DataConnectionInfo

	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "connection" {
			continue
		}
		connections = append(connections, parseConnection(decoder, se))
	}

	return connections, nil
}

// parseConnection reads one connection element and its provider-specific
// child (dbPr, webPr, textPr, or olapPr).
func parseConnection(decoder *xml.Decoder, se xml.StartElement) models.DataConnectionInfo {
	info := models.DataConnectionInfo{
		Name:        attrValue(se, "name"),
		Description: attrValue(se, "description"),
	}
	if info.Name == "" {
		info.Name = "Unknown"
	}

	typeAttr := attrValue(se, "type")
	if name, ok := connectionTypeNames[typeAttr]; ok {
		info.ConnectionType = name
	} else if typeAttr != "" {
		info.ConnectionType = "Type " + typeAttr
	} else {
		info.ConnectionType = "Unknown"
	}

	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "dbPr":
				info.ConnectionString = attrValue(t, "connection")
				info.CommandText = attrValue(t, "command")
				if ct := attrValue(t, "commandType"); ct != "" {
					if name, ok := commandTypeNames[ct]; ok {
						info.CommandType = name
					} else {
						info.CommandType = ct
					}
				}
			case "webPr":
				info.ConnectionType = "Web Query"
				info.ConnectionString = attrValue(t, "url")
			case "textPr":
				info.ConnectionType = "Text File"
				info.ConnectionString = attrValue(t, "sourceFile")
			case "olapPr":
				info.ConnectionType = "OLAP/Power Pivot"
			}
		case xml.EndElement:
			depth--
		}
	}

	if info.CommandText != "" {
		// Escaped line endings survive in the command attribute.
		cleaned := strings.ReplaceAll(info.CommandText, "_x000d_", "")
		cleaned = strings.ReplaceAll(cleaned, "_x000a_", "\n")
		info.CommandText = cleaned

		if info.CommandType == "" && looksLikeDAX(cleaned) {
			info.CommandType = "DAX"
		}
	}

	return info
}

// looksLikeDAX reports whether a command text contains DAX keywords.
func looksLikeDAX(command string) bool {
	upper := strings.ToUpper(command)
	for _, kw := range daxKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}
