// Package xlaudit analyzes Excel workbooks and extracts structured facts
// about their contents.
package xlaudit

import "go.uber.org/zap"

// Options configures which categories get extracted. Use DefaultOptions and
// switch off what you do not need; the zero value extracts nothing beyond
// sheets and named ranges.
type Options struct {
	// Formulas extracts formula cells.
	Formulas bool
	// VBA extracts VBA modules from macro-enabled files.
	VBA bool
	// PowerQuery extracts Power Query definitions.
	PowerQuery bool
	// Charts extracts chart information.
	Charts bool
	// Pivots extracts pivot tables.
	Pivots bool
	// ConditionalFormats extracts conditional formatting rules.
	ConditionalFormats bool
	// DataValidations extracts data validation rules.
	DataValidations bool
	// Comments extracts cell comments and notes.
	Comments bool
	// Hyperlinks extracts cell hyperlinks.
	Hyperlinks bool
	// Controls extracts form controls and interactive shapes.
	Controls bool
	// Connections extracts external data connections.
	Connections bool
	// Protection extracts workbook and sheet protection settings.
	Protection bool
	// PrintSettings extracts print settings.
	PrintSettings bool
	// Errors detects error cells and external references.
	Errors bool

	// IncludeFormulaValues keeps cached formula results in the output.
	IncludeFormulaValues bool
	// MaxFormulas caps the number of extracted formulas. Zero means unlimited;
	// hitting the cap records a warning.
	MaxFormulas int
	// SkipSheets lists sheet names whose cell-level facts are dropped.
	SkipSheets []string

	// Logger receives progress and failure logs. Nil disables logging.
	Logger *zap.Logger
}

// DefaultOptions returns options with every category enabled.
func DefaultOptions() Options {
	return Options{
		Formulas:           true,
		VBA:                true,
		PowerQuery:         true,
		Charts:             true,
		Pivots:             true,
		ConditionalFormats: true,
		DataValidations:    true,
		Comments:           true,
		Hyperlinks:         true,
		Controls:           true,
		Connections:        true,
		Protection:         true,
		PrintSettings:      true,
		Errors:             true,
	}
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}
