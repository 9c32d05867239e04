package extract

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

// cfTypeMap maps the cfRule type attribute to a rule type. Unknown types
// fall back to CFFormula.
var cfTypeMap = map[string]models.CFRuleType{
	"colorScale":        models.CFColorScale,
	"dataBar":           models.CFDataBar,
	"iconSet":           models.CFIconSet,
	"cellIs":            models.CFCellIs,
	"expression":        models.CFFormula,
	"top10":             models.CFTopBottom,
	"aboveAverage":      models.CFAboveAverage,
	"duplicateValues":   models.CFDuplicate,
	"uniqueValues":      models.CFUnique,
	"containsText":      models.CFTextContains,
	"timePeriod":        models.CFDateOccurring,
	"containsBlanks":    models.CFBlank,
	"notContainsBlanks": models.CFNotBlank,
	"containsErrors":    models.CFError,
	"notContainsErrors": models.CFNotError,
}

// ExtractConditionalFormats extracts conditional formatting rules from every
// sheet in the workbook.
func ExtractConditionalFormats(a *Archive) ([]models.ConditionalFormatInfo, error) {
	var rules []models.ConditionalFormatInfo

	for _, sheetName := range a.SheetNames() {
		part := a.SheetPart(sheetName)
		if part == "" {
			continue
		}
		data, err := a.Read(part)
		if err != nil || data == nil {
			continue
		}
		rules = append(rules, parseConditionalFormats(data)...)
	}

	return rules, nil
}

// cfRule is a parsed cfRule element with the attributes a description needs.
type cfRule struct {
	ruleType   string
	priority   int
	operator   string
	stopIfTrue bool
	text       string
	timePeriod string
	rank       int
	bottom     bool
	percent    bool
	aboveAvg   bool
	stdDev     int
	iconStyle  string
	formulas   []string
	thresholds []string // cfvo type:val pairs
}

// parseConditionalFormats walks a worksheet part for conditionalFormatting
// blocks.
func parseConditionalFormats(data []byte) []models.ConditionalFormatInfo {
	var rules []models.ConditionalFormatInfo

	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "conditionalFormatting" {
			continue
		}

		sqref := attrValue(se, "sqref")
		depth := 1
		for depth > 0 {
			inner, err := decoder.Token()
			if err != nil {
				break
			}
			switch t := inner.(type) {
			case xml.StartElement:
				depth++
				if t.Name.Local == "cfRule" {
					rule := parseCFRule(decoder, t)
					rules = append(rules, buildCFInfo(sqref, rule))
					depth--
				}
			case xml.EndElement:
				depth--
			}
		}
	}

	return rules
}

// parseCFRule reads one cfRule element including its nested formulas and
// threshold objects.
func parseCFRule(decoder *xml.Decoder, se xml.StartElement) cfRule {
	rule := cfRule{
		ruleType:   attrValue(se, "type"),
		priority:   atoiDefault(attrValue(se, "priority"), 0),
		operator:   attrValue(se, "operator"),
		stopIfTrue: attrValue(se, "stopIfTrue") == "1",
		text:       attrValue(se, "text"),
		timePeriod: attrValue(se, "timePeriod"),
		rank:       atoiDefault(attrValue(se, "rank"), 10),
		bottom:     attrValue(se, "bottom") == "1",
		percent:    attrValue(se, "percent") == "1",
		aboveAvg:   attrValue(se, "aboveAverage") != "0",
		stdDev:     atoiDefault(attrValue(se, "stdDev"), 0),
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
			case "formula":
				rule.formulas = append(rule.formulas, readElementText(decoder))
				depth--
			case "cfvo":
				cfvoType := attrValue(t, "type")
				cfvoVal := attrValue(t, "val")
				if cfvoVal != "" {
					rule.thresholds = append(rule.thresholds, cfvoType+":"+cfvoVal)
				} else {
					rule.thresholds = append(rule.thresholds, cfvoType)
				}
			case "iconSet":
				if style := attrValue(t, "iconSet"); style != "" {
					rule.iconStyle = style
				}
			}
		case xml.EndElement:
			depth--
		}
	}

	return rule
}

// buildCFInfo turns a parsed rule into its record, with a human-readable
// description.
func buildCFInfo(sqref string, rule cfRule) models.ConditionalFormatInfo {
	ruleType, ok := cfTypeMap[rule.ruleType]
	if !ok {
		ruleType = models.CFFormula
	}

	info := models.ConditionalFormatInfo{
		Range:      sqref,
		RuleType:   ruleType,
		Priority:   rule.priority,
		Operator:   rule.operator,
		StopIfTrue: rule.stopIfTrue,
	}
	if len(rule.formulas) > 0 {
		info.Formula = CleanFormula(rule.formulas[0])
		info.Values = append(info.Values, rule.formulas...)
	}
	info.Values = append(info.Values, rule.thresholds...)
	info.Description = describeCFRule(ruleType, rule, info.Formula)
	return info
}

// describeCFRule renders a short summary of a rule for reports.
func describeCFRule(ruleType models.CFRuleType, rule cfRule, formula string) string {
	switch ruleType {
	case models.CFColorScale:
		return "Color scale (gradient coloring based on values)"
	case models.CFDataBar:
		return "Data bar (in-cell bar chart)"
	case models.CFIconSet:
		style := rule.iconStyle
		if style == "" {
			style = "default"
		}
		return fmt.Sprintf("Icon set (%s)", style)
	case models.CFCellIs:
		return strings.TrimSpace(fmt.Sprintf("Cell is %s %s", rule.operator, formula))
	case models.CFFormula:
		if formula == "" {
			return "Formula: custom"
		}
		return "Formula: " + formula
	case models.CFTopBottom:
		direction := "Top"
		if rule.bottom {
			direction = "Bottom"
		}
		unit := ""
		if rule.percent {
			unit = "%"
		}
		return fmt.Sprintf("%s %d%s", direction, rule.rank, unit)
	case models.CFAboveAverage:
		desc := "Above"
		if !rule.aboveAvg {
			desc = "Below"
		}
		if rule.stdDev > 0 {
			return fmt.Sprintf("%s %d std dev from average", desc, rule.stdDev)
		}
		return desc + " average"
	case models.CFDuplicate:
		return "Duplicate values"
	case models.CFUnique:
		return "Unique values"
	case models.CFTextContains:
		return "Text contains: " + rule.text
	case models.CFDateOccurring:
		return "Date occurring: " + rule.timePeriod
	case models.CFBlank:
		return "Cell is blank"
	case models.CFNotBlank:
		return "Cell is not blank"
	case models.CFError:
		return "Cell contains error"
	case models.CFNotError:
		return "Cell does not contain error"
	}
	return string(ruleType)
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return def
		}
		n = n*10 + int(c-'0')
	}
	return n
}
