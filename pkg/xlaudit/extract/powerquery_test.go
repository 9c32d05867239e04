package extract

import (
	"testing"
)

func TestParseSectionDocument(t *testing.T) {
	section := `section Section1;

shared Sales = let
    Source = Excel.CurrentWorkbook(){[Name="SalesTable"]}[Content],
    Typed = Table.TransformColumnTypes(Source,{{"Amount", type number}})
in
    Typed;

shared #"Regions Lookup" = let
    Source = Csv.Document(File.Contents("C:\data\regions.csv"))
in
    Source;
`

	queries := parseSectionDocument(section)
	if len(queries) != 2 {
		t.Fatalf("Expected 2 queries, got %d", len(queries))
	}

	if queries[0].Name != "Sales" {
		t.Errorf("queries[0].Name = %q", queries[0].Name)
	}
	if queries[0].ResultType != "table" {
		t.Errorf("queries[0].ResultType = %q, expected table", queries[0].ResultType)
	}

	// Quoted identifiers lose their #"..." wrapper.
	if queries[1].Name != "Regions Lookup" {
		t.Errorf("queries[1].Name = %q", queries[1].Name)
	}
}

func TestParseSectionDocumentSingleQuery(t *testing.T) {
	section := `section Section1;
shared Query1 = 1 + 1;
`
	queries := parseSectionDocument(section)
	if len(queries) != 1 {
		t.Fatalf("Expected 1 query, got %d", len(queries))
	}
	if queries[0].Name != "Query1" {
		t.Errorf("queries[0].Name = %q", queries[0].Name)
	}
	if queries[0].Formula != "1 + 1" {
		t.Errorf("queries[0].Formula = %q", queries[0].Formula)
	}
}

func TestClassifyQueryResult(t *testing.T) {
	tests := []struct {
		formula  string
		expected string
	}{
		{`Table.FromRows({})`, "table"},
		{`#table({"A"},{{1}})`, "table"},
		{`List.Numbers(1, 10)`, "list"},
		{`{1, 2, 3}`, "list"},
		{`[Name = "x", Value = 1]`, "record"},
		{`42`, "value"},
	}

	for _, tt := range tests {
		if got := classifyQueryResult(tt.formula); got != tt.expected {
			t.Errorf("classifyQueryResult(%q) = %q, expected %q", tt.formula, got, tt.expected)
		}
	}
}
