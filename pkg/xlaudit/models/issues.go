package models

// ErrorCellInfo describes a cell whose value is an Excel error.
type ErrorCellInfo struct {
	// Location is the cell containing the error.
	Location CellReference `json:"location"`
	// ErrorType is the error value.
	ErrorType ErrorType `json:"error_type"`
	// Formula is the cell formula, if the error came from one.
	Formula string `json:"formula,omitempty"`
}

// ExternalRefInfo describes a reference to another workbook.
type ExternalRefInfo struct {
	// SourceCell is the cell holding the reference.
	SourceCell CellReference `json:"source_cell"`
	// TargetWorkbook is the referenced workbook name or path.
	TargetWorkbook string `json:"target_workbook"`
	// TargetSheet is the referenced sheet, if identifiable.
	TargetSheet string `json:"target_sheet,omitempty"`
	// TargetRange is the referenced range, if identifiable.
	TargetRange string `json:"target_range,omitempty"`
	// IsBroken indicates the reference currently resolves to an error.
	IsBroken bool `json:"is_broken,omitempty"`
}

// ExtractionError records a failed extractor.
type ExtractionError struct {
	// Extractor is the name of the extractor that failed.
	Extractor string `json:"extractor"`
	// Message is the failure summary.
	Message string `json:"message"`
	// Details carries additional context, if any.
	Details string `json:"details,omitempty"`
}

// ExtractionWarning records a partial-success notice from an extractor.
type ExtractionWarning struct {
	// Extractor is the name of the extractor that warned.
	Extractor string `json:"extractor"`
	// Message is the warning summary.
	Message string `json:"message"`
	// Details carries additional context, if any.
	Details string `json:"details,omitempty"`
}
