package xlaudit

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/okdsh/xlaudit/pkg/xlaudit/extract"
	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

// Analyze opens an Excel workbook and runs every extractor enabled in opts.
// Extractor failures never abort the run: they are recorded on the result and
// the remaining extractors still execute. Only input-level problems (missing
// file, wrong extension, unreadable container) return an error.
func Analyze(path string, opts Options) (*models.WorkbookAnalysis, error) {
	log := opts.logger()

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if err := validateExtension(path); err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	result := &models.WorkbookAnalysis{
		FilePath:       absPath,
		FileName:       filepath.Base(path),
		FileSize:       stat.Size(),
		IsMacroEnabled: isMacroEnabled(path),
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer f.Close()

	a, err := extract.OpenArchive(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer a.Close()

	fillDocProps(f, result)
	runExtractors(f, a, result, opts, log)

	if len(opts.SkipSheets) > 0 {
		dropSkippedSheets(result, opts.SkipSheets)
	}
	if !opts.IncludeFormulaValues {
		for i := range result.Formulas {
			result.Formulas[i].ResultValue = ""
		}
	}

	log.Info("analysis complete",
		zap.String("file", result.FileName),
		zap.Int("sheets", len(result.Sheets)),
		zap.Int("formulas", len(result.Formulas)),
		zap.Int("errors", len(result.Errors)))

	return result, nil
}

// runExtractors sequences the extractors. Sheets and named ranges always run
// first since later extractors and the reports key off them.
func runExtractors(f *excelize.File, a *extract.Archive, result *models.WorkbookAnalysis, opts Options, log *zap.Logger) {
	record := func(extractor string, err error) bool {
		if err == nil {
			return false
		}
		log.Warn("extractor failed", zap.String("extractor", extractor), zap.Error(err))
		result.Errors = append(result.Errors, models.ExtractionError{
			Extractor: extractor,
			Message:   err.Error(),
		})
		return true
	}

	var err error

	result.Sheets, err = extract.ExtractSheets(f, a)
	record("sheets", err)

	result.NamedRanges, err = extract.ExtractNamedRanges(a)
	record("named_ranges", err)

	if opts.Formulas {
		formulas, truncated, err := extract.ExtractFormulas(a, opts.MaxFormulas)
		if !record("formulas", err) {
			result.Formulas = formulas
			if truncated {
				result.Warnings = append(result.Warnings, models.ExtractionWarning{
					Extractor: "formulas",
					Message:   fmt.Sprintf("Limited to %d formulas", opts.MaxFormulas),
				})
			}
		}
	}

	if opts.ConditionalFormats {
		result.ConditionalFormats, err = extract.ExtractConditionalFormats(a)
		record("conditional_formats", err)
	}
	if opts.DataValidations {
		result.DataValidations, err = extract.ExtractDataValidations(f)
		record("data_validations", err)
	}
	if opts.Pivots {
		result.PivotTables, err = extract.ExtractPivotTables(a)
		record("pivot_tables", err)
	}
	if opts.Charts {
		result.Charts, err = extract.ExtractCharts(a)
		record("charts", err)
	}

	result.Tables, err = extract.ExtractTables(a)
	record("tables", err)

	result.AutoFilters, err = extract.ExtractAutoFilters(a)
	record("filters", err)

	if opts.VBA && result.IsMacroEnabled {
		modules, projectName, err := extract.ExtractVBA(a)
		if !record("vba", err) {
			result.VBAModules = modules
			result.VBAProjectName = projectName
		}
	}

	if opts.PowerQuery {
		result.PowerQueries, err = extract.ExtractPowerQueries(a)
		record("power_query", err)
	}
	if opts.Controls {
		result.Controls, err = extract.ExtractControls(a)
		record("controls", err)
	}
	if opts.Connections {
		result.Connections, err = extract.ExtractConnections(a)
		record("connections", err)
	}
	if opts.Comments {
		result.Comments, err = extract.ExtractComments(f, a)
		record("comments", err)
	}
	if opts.Hyperlinks {
		result.Hyperlinks, err = extract.ExtractHyperlinks(f, a)
		record("hyperlinks", err)
	}
	if opts.Protection {
		result.Protection, err = extract.ExtractProtection(a)
		record("protection", err)
	}
	if opts.PrintSettings {
		result.PrintSettings, err = extract.ExtractPrintSettings(a)
		record("print_settings", err)
	}

	if opts.Errors {
		errorCells, err := extract.ExtractErrorCells(f)
		if !record("errors", err) {
			result.ErrorCells = errorCells
			result.ExternalRefs = extract.ExtractExternalRefs(a, result.Formulas, errorCells)
		}
	}

	result.HasDAX, result.DAXDetectionNote = extract.DetectDAX(a, result.Formulas, result.Connections)
	if result.HasDAX {
		result.Warnings = append(result.Warnings, models.ExtractionWarning{
			Extractor: "dax_detection",
			Message:   "Data model or DAX detected; expressions are not extractable",
			Details:   result.DAXDetectionNote,
		})
	}
}

// fillDocProps copies core document properties onto the result.
func fillDocProps(f *excelize.File, result *models.WorkbookAnalysis) {
	props, err := f.GetDocProps()
	if err != nil || props == nil {
		return
	}
	result.Creator = props.Creator
	result.LastModifiedBy = props.LastModifiedBy
	result.Created = normalizeDocTime(props.Created)
	result.Modified = normalizeDocTime(props.Modified)
}

func normalizeDocTime(value string) string {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC().Format(time.RFC3339)
	}
	return value
}

// dropSkippedSheets removes cell-level facts belonging to skipped sheets.
// The sheet list itself stays complete so reports can still show the sheet.
func dropSkippedSheets(result *models.WorkbookAnalysis, skipSheets []string) {
	skip := make(map[string]bool, len(skipSheets))
	for _, name := range skipSheets {
		skip[name] = true
	}

	result.Formulas = keepSheet(result.Formulas, skip, func(f models.FormulaInfo) string { return f.Location.Sheet })
	result.ErrorCells = keepSheet(result.ErrorCells, skip, func(e models.ErrorCellInfo) string { return e.Location.Sheet })
	result.Comments = keepSheet(result.Comments, skip, func(c models.CommentInfo) string { return c.Location.Sheet })
	result.Hyperlinks = keepSheet(result.Hyperlinks, skip, func(h models.HyperlinkInfo) string { return h.Location.Sheet })
}

func keepSheet[T any](items []T, skip map[string]bool, sheetOf func(T) string) []T {
	if len(items) == 0 {
		return items
	}
	kept := items[:0]
	for _, item := range items {
		if !skip[sheetOf(item)] {
			kept = append(kept, item)
		}
	}
	return kept
}
