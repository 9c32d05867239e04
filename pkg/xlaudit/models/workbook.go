package models

// ScreenshotInfo describes a captured sheet screenshot.
type ScreenshotInfo struct {
	// Sheet is the worksheet name.
	Sheet string `json:"sheet"`
	// Path is the image file path on disk.
	Path string `json:"path"`
	// Width is the image width in pixels.
	Width int `json:"width,omitempty"`
	// Height is the image height in pixels.
	Height int `json:"height,omitempty"`
	// CapturedAt is the capture timestamp in RFC 3339 form.
	CapturedAt string `json:"captured_at,omitempty"`
}

// WorkbookAnalysis is the aggregate result of analyzing one workbook.
type WorkbookAnalysis struct {
	// FilePath is the absolute path of the analyzed file.
	FilePath string `json:"file_path"`
	// FileName is the file name without directory.
	FileName string `json:"file_name"`
	// FileSize is the file size in bytes.
	FileSize int64 `json:"file_size"`
	// IsMacroEnabled indicates a macro-enabled file format.
	IsMacroEnabled bool `json:"is_macro_enabled"`

	// Creator is the document creator from the core properties, if set.
	Creator string `json:"creator,omitempty"`
	// LastModifiedBy is the last modifying author, if set.
	LastModifiedBy string `json:"last_modified_by,omitempty"`
	// Created is the document creation timestamp, if set.
	Created string `json:"created,omitempty"`
	// Modified is the last modification timestamp, if set.
	Modified string `json:"modified,omitempty"`

	// Sheets lists all worksheets in workbook order.
	Sheets []SheetInfo `json:"sheets"`

	// Formulas lists all extracted formula cells.
	Formulas []FormulaInfo `json:"formulas,omitempty"`
	// NamedRanges lists all defined names.
	NamedRanges []NamedRangeInfo `json:"named_ranges,omitempty"`

	// ConditionalFormats lists all conditional formatting rules.
	ConditionalFormats []ConditionalFormatInfo `json:"conditional_formats,omitempty"`
	// DataValidations lists all data validation rules.
	DataValidations []DataValidationInfo `json:"data_validations,omitempty"`
	// PivotTables lists all pivot tables.
	PivotTables []PivotTableInfo `json:"pivot_tables,omitempty"`
	// Charts lists all charts.
	Charts []ChartInfo `json:"charts,omitempty"`
	// Tables lists all structured tables.
	Tables []TableInfo `json:"tables,omitempty"`
	// AutoFilters lists AutoFilter settings per sheet.
	AutoFilters []AutoFilterInfo `json:"auto_filters,omitempty"`
	// Controls lists form controls and interactive shapes.
	Controls []ControlInfo `json:"controls,omitempty"`
	// Connections lists external data connections.
	Connections []DataConnectionInfo `json:"connections,omitempty"`
	// Comments lists cell comments and notes.
	Comments []CommentInfo `json:"comments,omitempty"`
	// Hyperlinks lists cell hyperlinks.
	Hyperlinks []HyperlinkInfo `json:"hyperlinks,omitempty"`
	// Protection holds workbook and sheet protection settings.
	Protection *ProtectionInfo `json:"protection,omitempty"`
	// PrintSettings lists print settings per sheet.
	PrintSettings []PrintSettingsInfo `json:"print_settings,omitempty"`

	// VBAModules lists VBA modules from the project binary.
	VBAModules []VBAModuleInfo `json:"vba_modules,omitempty"`
	// VBAProjectName is the VBA project name, if present.
	VBAProjectName string `json:"vba_project_name,omitempty"`

	// PowerQueries lists Power Query definitions.
	PowerQueries []PowerQueryInfo `json:"power_queries,omitempty"`

	// ErrorCells lists cells holding Excel error values.
	ErrorCells []ErrorCellInfo `json:"error_cells,omitempty"`
	// ExternalRefs lists references to other workbooks.
	ExternalRefs []ExternalRefInfo `json:"external_refs,omitempty"`

	// Screenshots lists captured sheet screenshots.
	Screenshots []ScreenshotInfo `json:"screenshots,omitempty"`

	// HasDAX indicates the workbook appears to use the data model or DAX.
	HasDAX bool `json:"has_dax,omitempty"`
	// DAXDetectionNote explains what DAX signal was found.
	DAXDetectionNote string `json:"dax_detection_note,omitempty"`

	// Errors lists extractor-level failures.
	Errors []ExtractionError `json:"errors,omitempty"`
	// Warnings lists partial-success notices.
	Warnings []ExtractionWarning `json:"warnings,omitempty"`
}
