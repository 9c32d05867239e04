package extract

import (
	"encoding/binary"
	"testing"
)

func dirRecord(id uint16, payload []byte) []byte {
	record := make([]byte, 6+len(payload))
	binary.LittleEndian.PutUint16(record[0:2], id)
	binary.LittleEndian.PutUint32(record[2:6], uint32(len(payload)))
	copy(record[6:], payload)
	return record
}

func TestParseDirStream(t *testing.T) {
	var data []byte
	data = append(data, dirRecord(recProjectName, []byte("VBAProject"))...)

	// The version record size field stays fixed regardless of its payload.
	version := make([]byte, 6)
	binary.LittleEndian.PutUint16(version[0:2], recProjectVersion)
	binary.LittleEndian.PutUint32(version[2:6], 0x04)
	data = append(data, version...)
	data = append(data, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}...)

	data = append(data, dirRecord(recModuleName, []byte("Module1"))...)
	data = append(data, dirRecord(recModuleStreamName, []byte("Module1"))...)
	offset := make([]byte, 4)
	binary.LittleEndian.PutUint32(offset, 1234)
	data = append(data, dirRecord(recModuleOffset, offset)...)
	data = append(data, dirRecord(recModuleProcedural, nil)...)

	data = append(data, dirRecord(recModuleName, []byte("Sheet1"))...)
	data = append(data, dirRecord(recModuleStreamName, []byte("Sheet1"))...)
	data = append(data, dirRecord(recModuleDocument, nil)...)

	projectName, entries := parseDirStream(data)

	if projectName != "VBAProject" {
		t.Errorf("projectName = %q, expected VBAProject", projectName)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 module entries, got %d", len(entries))
	}
	if entries[0].name != "Module1" || entries[0].streamName != "Module1" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if entries[0].offset != 1234 {
		t.Errorf("entries[0].offset = %d, expected 1234", entries[0].offset)
	}
	if entries[0].document {
		t.Error("entries[0] should not be a document module")
	}
	if !entries[1].document {
		t.Error("entries[1] should be a document module")
	}
}

func TestModuleType(t *testing.T) {
	tests := []struct {
		entry    vbaModuleEntry
		code     string
		expected string
	}{
		{vbaModuleEntry{name: "ThisWorkbook", document: true}, "", "ThisWorkbook"},
		{vbaModuleEntry{name: "Sheet1", document: true}, "", "Sheet"},
		{vbaModuleEntry{name: "Tabelle1", document: true}, "", "Sheet"},
		{vbaModuleEntry{name: "Module1"}, "Sub Main()\nEnd Sub", "Standard"},
		{vbaModuleEntry{name: "Logger"}, "VERSION 1.0 CLASS\nBEGIN\nEND", "Class"},
		{vbaModuleEntry{name: "Config"}, "Property Get Name() As String\nEnd Property", "Class"},
		{vbaModuleEntry{name: "Impl"}, "Implements ILogger\n", "Class"},
	}

	for _, tt := range tests {
		if got := moduleType(tt.entry, tt.code); got != tt.expected {
			t.Errorf("moduleType(%q) = %q, expected %q", tt.entry.name, got, tt.expected)
		}
	}
}

func TestExtractProcedures(t *testing.T) {
	code := `Option Explicit

Public Sub ProcessData()
End Sub

Private Function Validate(row As Long) As Boolean
End Function

Friend Sub Helper()
End Sub

Property Get Count() As Long
End Property

' Sub CommentedOut()
Dim x As Long
`

	procedures := extractProcedures(code)
	expected := []string{"ProcessData", "Validate", "Helper", "Count"}

	if len(procedures) != len(expected) {
		t.Fatalf("Expected %d procedures, got %d: %v", len(expected), len(procedures), procedures)
	}
	for i, name := range expected {
		if procedures[i] != name {
			t.Errorf("procedures[%d] = %q, expected %q", i, procedures[i], name)
		}
	}
}

func TestCountSourceLines(t *testing.T) {
	code := "Option Explicit\n\nSub A()\nEnd Sub\n\n"
	if got := countSourceLines(code); got != 3 {
		t.Errorf("countSourceLines = %d, expected 3", got)
	}
	if got := countSourceLines(""); got != 0 {
		t.Errorf("countSourceLines(empty) = %d, expected 0", got)
	}
}
