package models

import "fmt"

// CellReference identifies a single cell location within a workbook.
type CellReference struct {
	// Sheet is the worksheet name.
	Sheet string `json:"sheet"`
	// Cell is the A1-style cell coordinate.
	Cell string `json:"cell"`
	// Row is the 1-based row number.
	Row int `json:"row"`
	// Col is the 1-based column number.
	Col int `json:"col"`
}

// Address returns the fully qualified cell address, e.g. "'Sheet1'!A1".
func (r CellReference) Address() string {
	return fmt.Sprintf("'%s'!%s", r.Sheet, r.Cell)
}

// SheetInfo describes a worksheet and the feature flags used for report navigation.
type SheetInfo struct {
	// Name is the worksheet name.
	Name string `json:"name"`
	// Index is the 0-based position in the workbook.
	Index int `json:"index"`
	// Visibility is the sheet visibility state.
	Visibility SheetVisibility `json:"visibility"`
	// UsedRange is the dimension of the used cell area, e.g. "A1:F20".
	UsedRange string `json:"used_range,omitempty"`
	// RowCount is the number of rows in the used range.
	RowCount int `json:"row_count"`
	// ColCount is the number of columns in the used range.
	ColCount int `json:"col_count"`
	// HasData indicates at least one non-empty cell.
	HasData bool `json:"has_data"`
	// HasFormulas indicates at least one formula cell.
	HasFormulas bool `json:"has_formulas"`
	// HasCharts indicates at least one chart anchored on the sheet.
	HasCharts bool `json:"has_charts"`
	// HasPivots indicates at least one pivot table on the sheet.
	HasPivots bool `json:"has_pivots"`
	// HasTables indicates at least one structured table on the sheet.
	HasTables bool `json:"has_tables"`
	// HasComments indicates at least one cell comment or note.
	HasComments bool `json:"has_comments"`
	// HasConditionalFormatting indicates at least one conditional formatting rule.
	HasConditionalFormatting bool `json:"has_conditional_formatting"`
	// HasDataValidation indicates at least one data validation rule.
	HasDataValidation bool `json:"has_data_validation"`
	// HasHyperlinks indicates at least one hyperlink.
	HasHyperlinks bool `json:"has_hyperlinks"`
	// HasMergedCells indicates at least one merged cell range.
	HasMergedCells bool `json:"has_merged_cells"`
	// MergedCellRanges lists the merged ranges on the sheet.
	MergedCellRanges []string `json:"merged_cell_ranges,omitempty"`
	// TabColor is the sheet tab color as an RGB hex string, if set.
	TabColor string `json:"tab_color,omitempty"`
}
