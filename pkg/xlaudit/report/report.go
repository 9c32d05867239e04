// Package report renders workbook analysis results into Markdown and HTML
// file trees.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

// crossRef buckets facts by sheet name so pages render without rescanning
// the full analysis per sheet.
type crossRef struct {
	formulas    map[string][]models.FormulaInfo
	charts      map[string][]models.ChartInfo
	pivots      map[string][]models.PivotTableInfo
	tables      map[string][]models.TableInfo
	condFormats map[string][]models.ConditionalFormatInfo
	validations map[string][]models.DataValidationInfo
	comments    map[string][]models.CommentInfo
	hyperlinks  map[string][]models.HyperlinkInfo
	errorCells  map[string][]models.ErrorCellInfo
	controls    map[string][]models.ControlInfo
	screenshots map[string][]models.ScreenshotInfo

	// sheet name -> VBA modules whose procedures the sheet's formulas or
	// controls reference
	sheetVBA map[string][]string
}

func buildCrossRef(a *models.WorkbookAnalysis) *crossRef {
	x := &crossRef{
		formulas:    make(map[string][]models.FormulaInfo),
		charts:      make(map[string][]models.ChartInfo),
		pivots:      make(map[string][]models.PivotTableInfo),
		tables:      make(map[string][]models.TableInfo),
		condFormats: make(map[string][]models.ConditionalFormatInfo),
		validations: make(map[string][]models.DataValidationInfo),
		comments:    make(map[string][]models.CommentInfo),
		hyperlinks:  make(map[string][]models.HyperlinkInfo),
		errorCells:  make(map[string][]models.ErrorCellInfo),
		controls:    make(map[string][]models.ControlInfo),
		screenshots: make(map[string][]models.ScreenshotInfo),
		sheetVBA:    make(map[string][]string),
	}

	defaultSheet := ""
	if len(a.Sheets) > 0 {
		defaultSheet = a.Sheets[0].Name
	}

	for _, f := range a.Formulas {
		x.formulas[f.Location.Sheet] = append(x.formulas[f.Location.Sheet], f)
	}
	for _, c := range a.Charts {
		x.charts[c.Sheet] = append(x.charts[c.Sheet], c)
	}
	for _, p := range a.PivotTables {
		x.pivots[p.Sheet] = append(x.pivots[p.Sheet], p)
	}
	for _, t := range a.Tables {
		x.tables[t.Sheet] = append(x.tables[t.Sheet], t)
	}
	for _, cf := range a.ConditionalFormats {
		sheet := sheetFromRange(cf.Range, defaultSheet)
		x.condFormats[sheet] = append(x.condFormats[sheet], cf)
	}
	for _, dv := range a.DataValidations {
		sheet := sheetFromRange(dv.Range, defaultSheet)
		x.validations[sheet] = append(x.validations[sheet], dv)
	}
	for _, c := range a.Comments {
		x.comments[c.Location.Sheet] = append(x.comments[c.Location.Sheet], c)
	}
	for _, h := range a.Hyperlinks {
		x.hyperlinks[h.Location.Sheet] = append(x.hyperlinks[h.Location.Sheet], h)
	}
	for _, e := range a.ErrorCells {
		x.errorCells[e.Location.Sheet] = append(x.errorCells[e.Location.Sheet], e)
	}
	for _, c := range a.Controls {
		x.controls[c.Sheet] = append(x.controls[c.Sheet], c)
	}
	for _, s := range a.Screenshots {
		x.screenshots[s.Sheet] = append(x.screenshots[s.Sheet], s)
	}

	x.linkVBA(a)
	return x
}

// linkVBA connects sheets to the VBA modules their controls invoke.
func (x *crossRef) linkVBA(a *models.WorkbookAnalysis) {
	if len(a.VBAModules) == 0 {
		return
	}

	procModule := make(map[string]string)
	for _, m := range a.VBAModules {
		for _, proc := range m.Procedures {
			procModule[strings.ToLower(proc)] = m.Name
		}
	}

	seen := make(map[string]map[string]bool)
	add := func(sheet, module string) {
		if seen[sheet] == nil {
			seen[sheet] = make(map[string]bool)
		}
		if !seen[sheet][module] {
			seen[sheet][module] = true
			x.sheetVBA[sheet] = append(x.sheetVBA[sheet], module)
		}
	}

	for _, ctrl := range a.Controls {
		if ctrl.Macro == "" {
			continue
		}
		parts := strings.Split(ctrl.Macro, ".")
		name := strings.ToLower(parts[len(parts)-1])
		if module, ok := procModule[name]; ok {
			add(ctrl.Sheet, module)
		}
	}
}

// sheetFromRange pulls the sheet name out of a range like "Sheet1!A1:B2" or
// "'My Sheet'!A1". Ranges without a sheet part use the default.
func sheetFromRange(rangeStr, defaultSheet string) string {
	idx := strings.Index(rangeStr, "!")
	if idx < 0 {
		return defaultSheet
	}
	return strings.Trim(rangeStr[:idx], "'\"")
}

// sanitizeFilename replaces characters invalid on common filesystems and
// caps the length.
func sanitizeFilename(name string) string {
	replaced := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		}
		return r
	}, name)
	if len(replaced) > 100 {
		replaced = replaced[:100]
	}
	return replaced
}

// formatSize renders a byte count in human-readable form.
func formatSize(size int64) string {
	value := float64(size)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if value < 1024 {
			return fmt.Sprintf("%.1f %s", value, unit)
		}
		value /= 1024
	}
	return fmt.Sprintf("%.1f TB", value)
}

// truncate shortens a string for table display.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func writeFile(outputDir, relativePath, content string) error {
	path := filepath.Join(outputDir, relativePath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
