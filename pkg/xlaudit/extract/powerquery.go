package extract

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"io"
	"regexp"
	"strings"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

var (
	sectionHeaderExpr = regexp.MustCompile(`(?m)^section\s+\w+\s*;\s*`)
	sharedQueryExpr   = regexp.MustCompile(`(?s)shared\s+(#"[^"]+"|\w+)\s*=\s*(.+?);\s*(?:shared\s|$)`)
	zipSignature      = []byte("PK\x03\x04")
)

// ExtractPowerQueries extracts Power Query (M) definitions embedded in the
// workbook. Query sources live in a DataMashup custom XML part: base64 text
// wrapping a binary header and a zip archive that carries the M section
// document.
func ExtractPowerQueries(a *Archive) ([]models.PowerQueryInfo, error) {
	var queries []models.PowerQueryInfo

	for _, name := range a.List("customXml/") {
		if !strings.HasSuffix(name, ".xml") || strings.Contains(name, "/_rels/") {
			continue
		}
		data, err := a.Read(name)
		if err != nil || data == nil {
			continue
		}
		if !bytes.Contains(data, []byte("DataMashup")) {
			continue
		}
		mashup, err := decodeDataMashup(data)
		if err != nil || mashup == nil {
			continue
		}
		section, err := mashupSectionDocument(mashup)
		if err != nil || section == "" {
			continue
		}
		queries = append(queries, parseSectionDocument(section)...)
	}

	return queries, nil
}

// decodeDataMashup pulls the base64 payload out of a DataMashup part.
func decodeDataMashup(data []byte) ([]byte, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "DataMashup" {
			continue
		}
		text := readElementText(decoder)
		return base64.StdEncoding.DecodeString(strings.TrimSpace(text))
	}
}

// mashupSectionDocument locates the embedded zip inside the mashup binary and
// returns the concatenated M documents it contains.
func mashupSectionDocument(mashup []byte) (string, error) {
	start := bytes.Index(mashup, zipSignature)
	if start < 0 {
		return "", nil
	}
	archive := mashup[start:]

	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, file := range reader.File {
		if !strings.HasSuffix(file.Name, ".m") {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			continue
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		b.Write(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// parseSectionDocument splits an M section document into its shared queries.
// Matching is by the shared keyword, so query bodies that themselves contain
// a semicolon followed by a shared declaration would split early.
func parseSectionDocument(section string) []models.PowerQueryInfo {
	body := sectionHeaderExpr.ReplaceAllString(section, "")

	var queries []models.PowerQueryInfo
	remaining := body
	for {
		m := sharedQueryExpr.FindStringSubmatchIndex(remaining)
		if m == nil {
			break
		}
		name := remaining[m[2]:m[3]]
		formula := strings.TrimSpace(remaining[m[4]:m[5]])
		name = strings.TrimSuffix(strings.TrimPrefix(name, `#"`), `"`)

		queries = append(queries, models.PowerQueryInfo{
			Name:        name,
			Formula:     formula,
			LoadEnabled: true,
			ResultType:  classifyQueryResult(formula),
		})

		// The trailing shared keyword of the match starts the next query.
		next := m[5]
		if idx := strings.Index(remaining[m[5]:], "shared"); idx >= 0 {
			next = m[5] + idx
		} else {
			break
		}
		remaining = remaining[next:]
	}
	return queries
}

// classifyQueryResult guesses what a query produces from its final expression.
func classifyQueryResult(formula string) string {
	lower := strings.ToLower(formula)
	switch {
	case strings.Contains(lower, "table.") || strings.Contains(lower, "#table"):
		return "table"
	case strings.Contains(lower, "list.") || strings.Contains(lower, "{"):
		return "list"
	case strings.Contains(lower, "record.") || strings.Contains(lower, "[") && strings.Contains(lower, "="):
		return "record"
	default:
		return "value"
	}
}
