package models

// ConditionalFormatInfo describes a conditional formatting rule.
type ConditionalFormatInfo struct {
	// Range is the cell range the rule applies to.
	Range string `json:"range"`
	// RuleType is the kind of rule.
	RuleType CFRuleType `json:"rule_type"`
	// Priority is the rule evaluation priority (lower wins).
	Priority int `json:"priority"`
	// Formula is the rule formula, if the rule carries one.
	Formula string `json:"formula,omitempty"`
	// Operator is the comparison operator for cellIs rules.
	Operator string `json:"operator,omitempty"`
	// Values lists threshold values for scale, bar, and icon rules.
	Values []string `json:"values,omitempty"`
	// StopIfTrue stops evaluation of lower-priority rules on match.
	StopIfTrue bool `json:"stop_if_true,omitempty"`
	// Description is a human-readable summary of the rule.
	Description string `json:"description"`
}

// DataValidationInfo describes a data validation rule.
type DataValidationInfo struct {
	// Range is the cell range the validation applies to.
	Range string `json:"range"`
	// Type is the validation type (list, whole, decimal, date, time, textLength, custom).
	Type string `json:"type"`
	// Operator is the comparison operator, if any.
	Operator string `json:"operator,omitempty"`
	// Formula1 is the first validation argument.
	Formula1 string `json:"formula1,omitempty"`
	// Formula2 is the second validation argument, if the operator takes two.
	Formula2 string `json:"formula2,omitempty"`
	// AllowBlank permits empty cells.
	AllowBlank bool `json:"allow_blank"`
	// ShowDropdown shows the in-cell dropdown for list validations.
	ShowDropdown bool `json:"show_dropdown"`
	// ShowInputMessage shows a prompt when the cell is selected.
	ShowInputMessage bool `json:"show_input_message,omitempty"`
	// InputTitle is the prompt title.
	InputTitle string `json:"input_title,omitempty"`
	// InputMessage is the prompt body.
	InputMessage string `json:"input_message,omitempty"`
	// ShowErrorMessage shows an alert on invalid entry.
	ShowErrorMessage bool `json:"show_error_message,omitempty"`
	// ErrorTitle is the alert title.
	ErrorTitle string `json:"error_title,omitempty"`
	// ErrorMessage is the alert body.
	ErrorMessage string `json:"error_message,omitempty"`
	// ErrorStyle is the alert style (stop, warning, information).
	ErrorStyle string `json:"error_style,omitempty"`
}

// PivotTableInfo describes a pivot table.
type PivotTableInfo struct {
	// Name is the pivot table name.
	Name string `json:"name"`
	// Sheet is the worksheet the pivot table lives on.
	Sheet string `json:"sheet"`
	// Location is the target cell range of the pivot table.
	Location string `json:"location"`
	// SourceRange is the source data range, if range-backed.
	SourceRange string `json:"source_range,omitempty"`
	// SourceConnection is the source connection name, if connection-backed.
	SourceConnection string `json:"source_connection,omitempty"`
	// RowFields lists the row axis field names.
	RowFields []string `json:"row_fields,omitempty"`
	// ColumnFields lists the column axis field names.
	ColumnFields []string `json:"column_fields,omitempty"`
	// DataFields lists the values area field names.
	DataFields []string `json:"data_fields,omitempty"`
	// FilterFields lists the report filter field names.
	FilterFields []string `json:"filter_fields,omitempty"`
	// CacheID is the pivot cache identifier, if known.
	CacheID int `json:"cache_id,omitempty"`
}

// ChartInfo describes a chart.
type ChartInfo struct {
	// Name is the chart object name.
	Name string `json:"name"`
	// Sheet is the worksheet the chart is anchored on.
	Sheet string `json:"sheet"`
	// ChartType is the human-readable chart type name.
	ChartType string `json:"chart_type"`
	// Title is the chart title, if set.
	Title string `json:"title,omitempty"`
	// DataRange is the plotted data range, if resolvable.
	DataRange string `json:"data_range,omitempty"`
	// Position is the anchor cell of the chart, if known.
	Position string `json:"position,omitempty"`
}

// TableInfo describes a structured table (ListObject).
type TableInfo struct {
	// Name is the internal table name.
	Name string `json:"name"`
	// Sheet is the worksheet the table lives on.
	Sheet string `json:"sheet"`
	// Range is the table cell range.
	Range string `json:"range"`
	// DisplayName is the user-visible table name.
	DisplayName string `json:"display_name"`
	// Columns lists the table column names.
	Columns []string `json:"columns,omitempty"`
	// HasTotalsRow indicates a totals row is shown.
	HasTotalsRow bool `json:"has_totals_row,omitempty"`
	// HasHeaderRow indicates a header row is shown.
	HasHeaderRow bool `json:"has_header_row"`
	// StyleName is the applied table style, if any.
	StyleName string `json:"style_name,omitempty"`
}

// CustomFilterCriterion is a single operator/value pair in a custom filter.
type CustomFilterCriterion struct {
	// Operator is the comparison operator, e.g. "greaterThan".
	Operator string `json:"operator,omitempty"`
	// Value is the comparison value.
	Value string `json:"value,omitempty"`
}

// ColumnFilter describes the filter applied to one AutoFilter column.
type ColumnFilter struct {
	// Kind is the filter kind (values, custom, top10, dynamic, color).
	Kind string `json:"kind"`
	// Values lists the selected values for a values filter.
	Values []string `json:"values,omitempty"`
	// IncludeBlank indicates blanks are included in a values filter.
	IncludeBlank bool `json:"include_blank,omitempty"`
	// And indicates criteria of a custom filter are combined with AND.
	And bool `json:"and,omitempty"`
	// Criteria lists the operator/value pairs of a custom filter.
	Criteria []CustomFilterCriterion `json:"criteria,omitempty"`
	// Top indicates a top10 filter selects from the top rather than the bottom.
	Top bool `json:"top,omitempty"`
	// Percent indicates a top10 filter value is a percentage.
	Percent bool `json:"percent,omitempty"`
	// Value is the top10 rank or the dynamic filter type.
	Value string `json:"value,omitempty"`
	// Color is the cell or font color of a color filter.
	Color string `json:"color,omitempty"`
}

// AutoFilterInfo describes the AutoFilter settings of one sheet.
type AutoFilterInfo struct {
	// Sheet is the worksheet name.
	Sheet string `json:"sheet"`
	// Range is the filtered cell range.
	Range string `json:"range"`
	// ColumnFilters maps 0-based column offset to the active filter.
	ColumnFilters map[int]ColumnFilter `json:"column_filters,omitempty"`
}

// ControlInfo describes a form control or interactive shape.
type ControlInfo struct {
	// Name is the control name.
	Name string `json:"name"`
	// Sheet is the worksheet the control lives on.
	Sheet string `json:"sheet"`
	// ControlType is the control kind, e.g. Button or CheckBox.
	ControlType string `json:"control_type"`
	// Position is the anchor cell, if known.
	Position string `json:"position,omitempty"`
	// LinkedCell is the cell the control value is bound to, if any.
	LinkedCell string `json:"linked_cell,omitempty"`
	// Macro is the macro assigned to the control, if any.
	Macro string `json:"macro,omitempty"`
	// Text is the control caption, if any.
	Text string `json:"text,omitempty"`
}
