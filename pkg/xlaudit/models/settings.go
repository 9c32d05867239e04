package models

// SheetProtection describes the protection state of one worksheet.
// Action flags are true when the action is blocked for locked cells.
type SheetProtection struct {
	// Protected indicates sheet protection is enabled.
	Protected bool `json:"protected"`
	// PasswordProtected indicates a password hash is stored.
	PasswordProtected bool `json:"password_protected,omitempty"`
	// SelectLockedCells blocks selecting locked cells.
	SelectLockedCells bool `json:"select_locked_cells,omitempty"`
	// SelectUnlockedCells blocks selecting unlocked cells.
	SelectUnlockedCells bool `json:"select_unlocked_cells,omitempty"`
	// FormatCells blocks formatting cells.
	FormatCells bool `json:"format_cells,omitempty"`
	// FormatColumns blocks formatting columns.
	FormatColumns bool `json:"format_columns,omitempty"`
	// FormatRows blocks formatting rows.
	FormatRows bool `json:"format_rows,omitempty"`
	// InsertColumns blocks inserting columns.
	InsertColumns bool `json:"insert_columns,omitempty"`
	// InsertRows blocks inserting rows.
	InsertRows bool `json:"insert_rows,omitempty"`
	// InsertHyperlinks blocks inserting hyperlinks.
	InsertHyperlinks bool `json:"insert_hyperlinks,omitempty"`
	// DeleteColumns blocks deleting columns.
	DeleteColumns bool `json:"delete_columns,omitempty"`
	// DeleteRows blocks deleting rows.
	DeleteRows bool `json:"delete_rows,omitempty"`
	// Sort blocks sorting.
	Sort bool `json:"sort,omitempty"`
	// AutoFilter blocks using AutoFilter.
	AutoFilter bool `json:"auto_filter,omitempty"`
	// PivotTables blocks using pivot tables.
	PivotTables bool `json:"pivot_tables,omitempty"`
	// Objects blocks editing objects.
	Objects bool `json:"objects,omitempty"`
	// Scenarios blocks editing scenarios.
	Scenarios bool `json:"scenarios,omitempty"`
}

// ProtectionInfo describes workbook and sheet protection settings.
type ProtectionInfo struct {
	// WorkbookProtected indicates workbook-level protection is present.
	WorkbookProtected bool `json:"workbook_protected"`
	// WorkbookStructure indicates the sheet structure is locked.
	WorkbookStructure bool `json:"workbook_structure,omitempty"`
	// WorkbookWindows indicates window layout is locked.
	WorkbookWindows bool `json:"workbook_windows,omitempty"`
	// Sheets maps sheet name to its protection state.
	Sheets map[string]SheetProtection `json:"sheets,omitempty"`
}

// PrintSettingsInfo describes print settings for one worksheet.
type PrintSettingsInfo struct {
	// Sheet is the worksheet name.
	Sheet string `json:"sheet"`
	// PrintArea is the defined print area, if any.
	PrintArea string `json:"print_area,omitempty"`
	// PrintTitlesRows is the repeated title rows range, if any.
	PrintTitlesRows string `json:"print_titles_rows,omitempty"`
	// PrintTitlesCols is the repeated title columns range, if any.
	PrintTitlesCols string `json:"print_titles_cols,omitempty"`
	// PageBreaksRow lists manual horizontal page break row numbers.
	PageBreaksRow []int `json:"page_breaks_row,omitempty"`
	// PageBreaksCol lists manual vertical page break column numbers.
	PageBreaksCol []int `json:"page_breaks_col,omitempty"`
	// Orientation is the page orientation (portrait or landscape).
	Orientation string `json:"orientation"`
	// PaperSize is the paper size name, if set.
	PaperSize string `json:"paper_size,omitempty"`
	// FitToPage indicates fit-to-page scaling is enabled.
	FitToPage bool `json:"fit_to_page,omitempty"`
	// FitToWidth is the fit-to-page width in pages, if set.
	FitToWidth int `json:"fit_to_width,omitempty"`
	// FitToHeight is the fit-to-page height in pages, if set.
	FitToHeight int `json:"fit_to_height,omitempty"`
}
