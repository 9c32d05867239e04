package extract

import (
	"testing"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

func TestParseConditionalFormats(t *testing.T) {
	data := []byte(`<?xml version="1.0"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <sheetData/>
  <conditionalFormatting sqref="A1:A10">
    <cfRule type="cellIs" priority="1" operator="greaterThan" stopIfTrue="1">
      <formula>100</formula>
    </cfRule>
  </conditionalFormatting>
  <conditionalFormatting sqref="B1:B10">
    <cfRule type="colorScale" priority="2">
      <colorScale>
        <cfvo type="min"/>
        <cfvo type="percentile" val="50"/>
        <cfvo type="max"/>
      </colorScale>
    </cfRule>
    <cfRule type="top10" priority="3" rank="5" percent="1"/>
  </conditionalFormatting>
  <conditionalFormatting sqref="C1:C10">
    <cfRule type="aboveAverage" priority="4" aboveAverage="0"/>
    <cfRule type="containsText" priority="5" text="error">
      <formula>NOT(ISERROR(SEARCH("error",C1)))</formula>
    </cfRule>
  </conditionalFormatting>
</worksheet>`)

	rules := parseConditionalFormats(data)
	if len(rules) != 5 {
		t.Fatalf("Expected 5 rules, got %d", len(rules))
	}

	if rules[0].RuleType != models.CFCellIs {
		t.Errorf("rules[0].RuleType = %v, expected cell_is", rules[0].RuleType)
	}
	if rules[0].Range != "A1:A10" {
		t.Errorf("rules[0].Range = %q", rules[0].Range)
	}
	if !rules[0].StopIfTrue {
		t.Error("rules[0].StopIfTrue should be true")
	}
	if rules[0].Description != "Cell is greaterThan 100" {
		t.Errorf("rules[0].Description = %q", rules[0].Description)
	}

	if rules[1].RuleType != models.CFColorScale {
		t.Errorf("rules[1].RuleType = %v", rules[1].RuleType)
	}
	if len(rules[1].Values) != 3 {
		t.Errorf("rules[1].Values = %v, expected 3 thresholds", rules[1].Values)
	}

	if rules[2].RuleType != models.CFTopBottom {
		t.Errorf("rules[2].RuleType = %v", rules[2].RuleType)
	}
	if rules[2].Description != "Top 5%" {
		t.Errorf("rules[2].Description = %q", rules[2].Description)
	}

	if rules[3].Description != "Below average" {
		t.Errorf("rules[3].Description = %q", rules[3].Description)
	}

	if rules[4].RuleType != models.CFTextContains {
		t.Errorf("rules[4].RuleType = %v", rules[4].RuleType)
	}
	if rules[4].Description != "Text contains: error" {
		t.Errorf("rules[4].Description = %q", rules[4].Description)
	}
}

func TestParseConditionalFormatsUnknownType(t *testing.T) {
	data := []byte(`<worksheet>
  <conditionalFormatting sqref="A1">
    <cfRule type="somethingNew" priority="1">
      <formula>$A$1&gt;0</formula>
    </cfRule>
  </conditionalFormatting>
</worksheet>`)

	rules := parseConditionalFormats(data)
	if len(rules) != 1 {
		t.Fatalf("Expected 1 rule, got %d", len(rules))
	}
	if rules[0].RuleType != models.CFFormula {
		t.Errorf("Unknown type should fall back to formula, got %v", rules[0].RuleType)
	}
	if rules[0].Formula != "$A$1>0" {
		t.Errorf("rules[0].Formula = %q", rules[0].Formula)
	}
}

func TestDescribeCFRuleTopBottom(t *testing.T) {
	tests := []struct {
		rule     cfRule
		expected string
	}{
		{cfRule{rank: 10}, "Top 10"},
		{cfRule{rank: 10, bottom: true}, "Bottom 10"},
		{cfRule{rank: 20, percent: true}, "Top 20%"},
		{cfRule{rank: 5, bottom: true, percent: true}, "Bottom 5%"},
	}

	for _, tt := range tests {
		if got := describeCFRule(models.CFTopBottom, tt.rule, ""); got != tt.expected {
			t.Errorf("describeCFRule(top10, %+v) = %q, expected %q", tt.rule, got, tt.expected)
		}
	}
}

func TestDescribeCFRuleAboveAverage(t *testing.T) {
	tests := []struct {
		rule     cfRule
		expected string
	}{
		{cfRule{aboveAvg: true}, "Above average"},
		{cfRule{aboveAvg: false}, "Below average"},
		{cfRule{aboveAvg: true, stdDev: 2}, "Above 2 std dev from average"},
	}

	for _, tt := range tests {
		if got := describeCFRule(models.CFAboveAverage, tt.rule, ""); got != tt.expected {
			t.Errorf("describeCFRule(aboveAverage, %+v) = %q, expected %q", tt.rule, got, tt.expected)
		}
	}
}
