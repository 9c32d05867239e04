package extract

import (
	"bytes"
	"encoding/binary"
	"io"
	"regexp"
	"strings"

	"github.com/richardlehane/mscfb"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

// dir stream record IDs from the VBA project binary.
const (
	recProjectName      = 0x0004
	recProjectVersion   = 0x0009
	recModuleName       = 0x0019
	recModuleStreamName = 0x001A
	recModuleOffset     = 0x0031
	recModuleProcedural = 0x0021
	recModuleDocument   = 0x0022
)

var (
	subFunctionExpr = regexp.MustCompile(`(?mi)^\s*(?:Public\s+|Private\s+|Friend\s+)?(?:Static\s+)?(?:Sub|Function)\s+(\w+)`)
	propertyExpr    = regexp.MustCompile(`(?mi)^\s*(?:Public\s+|Private\s+|Friend\s+)?Property\s+(?:Get|Let|Set)\s+(\w+)`)
	classCodeExprs  = []*regexp.Regexp{
		regexp.MustCompile(`(?mi)^\s*Private\s+Type\s+`),
		regexp.MustCompile(`(?mi)^\s*Implements\s+`),
		regexp.MustCompile(`(?i)Property\s+(Get|Let|Set)\s+`),
	}
)

// vbaModuleEntry is one module declaration from the dir stream.
type vbaModuleEntry struct {
	name       string
	streamName string
	offset     uint32
	document   bool
}

// ExtractVBA extracts VBA modules from the project binary of a macro-enabled
// workbook. The binary is an OLE compound file; the dir stream lists module
// stream names and source offsets, and module sources are stored in
// compressed containers.
func ExtractVBA(a *Archive) ([]models.VBAModuleInfo, string, error) {
	data, err := a.Read("xl/vbaProject.bin")
	if err != nil || data == nil {
		return nil, "", err
	}

	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return nil, "", err
	}

	streams := make(map[string][]byte)
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		content, readErr := io.ReadAll(entry)
		if readErr != nil {
			continue
		}
		path := strings.ToLower(strings.Join(append(entry.Path, entry.Name), "/"))
		streams[path] = content
	}

	dirStream, ok := streams["vba/dir"]
	if !ok {
		return nil, "", nil
	}
	dirData, err := decompressContainer(dirStream)
	if err != nil {
		return nil, "", err
	}

	projectName, entries := parseDirStream(dirData)

	var modules []models.VBAModuleInfo
	for _, entry := range entries {
		stream, ok := streams["vba/"+strings.ToLower(entry.streamName)]
		if !ok || int(entry.offset) >= len(stream) {
			continue
		}
		source, err := decompressContainer(stream[entry.offset:])
		if err != nil {
			continue
		}
		code := decodeModuleSource(source)

		modules = append(modules, models.VBAModuleInfo{
			Name:       entry.name,
			ModuleType: moduleType(entry, code),
			Code:       code,
			LineCount:  countSourceLines(code),
			Procedures: extractProcedures(code),
		})
	}

	return modules, projectName, nil
}

// parseDirStream walks the decompressed dir stream records and collects the
// project name and module entries.
func parseDirStream(data []byte) (string, []vbaModuleEntry) {
	var projectName string
	var entries []vbaModuleEntry
	var current *vbaModuleEntry

	pos := 0
	for pos+6 <= len(data) {
		id := binary.LittleEndian.Uint16(data[pos : pos+2])
		size := int(binary.LittleEndian.Uint32(data[pos+2 : pos+6]))
		pos += 6

		// The version record's size field does not cover its payload.
		if id == recProjectVersion {
			size = 6
		}
		if pos+size > len(data) {
			break
		}
		payload := data[pos : pos+size]
		pos += size

		switch id {
		case recProjectName:
			projectName = string(payload)
		case recModuleName:
			if current != nil {
				entries = append(entries, *current)
			}
			current = &vbaModuleEntry{name: string(payload)}
		case recModuleStreamName:
			if current != nil {
				current.streamName = string(payload)
			}
		case recModuleOffset:
			if current != nil && len(payload) >= 4 {
				current.offset = binary.LittleEndian.Uint32(payload)
			}
		case recModuleDocument:
			if current != nil {
				current.document = true
			}
		}
	}
	if current != nil {
		entries = append(entries, *current)
	}

	return projectName, entries
}

// decodeModuleSource converts module source bytes to a string. Sources are
// stored in a single byte code page; bytes above ASCII map straight to the
// matching code points.
func decodeModuleSource(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		b.WriteRune(rune(c))
	}
	return b.String()
}

// moduleType resolves the kind of a module from its name, dir record, and
// source patterns.
func moduleType(entry vbaModuleEntry, code string) string {
	nameLower := strings.ToLower(entry.name)

	if strings.Contains(nameLower, "thisworkbook") {
		return "ThisWorkbook"
	}
	if entry.document || strings.HasPrefix(nameLower, "sheet") {
		return "Sheet"
	}
	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(code)), "VERSION 1.0 CLASS") {
		return "Class"
	}
	for _, expr := range classCodeExprs {
		if expr.MatchString(code) {
			return "Class"
		}
	}
	return "Standard"
}

// extractProcedures lists the Sub, Function, and Property names defined in a
// module, in order of first appearance.
func extractProcedures(code string) []string {
	seen := make(map[string]bool)
	var procedures []string

	for _, expr := range []*regexp.Regexp{subFunctionExpr, propertyExpr} {
		for _, m := range expr.FindAllStringSubmatch(code, -1) {
			name := m[1]
			if !seen[name] {
				seen[name] = true
				procedures = append(procedures, name)
			}
		}
	}
	return procedures
}

// countSourceLines counts non-empty source lines.
func countSourceLines(code string) int {
	count := 0
	for _, line := range strings.Split(code, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}
