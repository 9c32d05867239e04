package report

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

// WriteMarkdown renders the analysis into a Markdown tree under outputDir:
// README.md, summary.md, sheets/, formulas/, features/, issues/, and vba/,
// power_query/, screenshots/ when those categories are present.
func WriteMarkdown(a *models.WorkbookAnalysis, outputDir string) error {
	b := &markdownBuilder{analysis: a, dir: outputDir, refs: buildCrossRef(a)}
	return b.build()
}

type markdownBuilder struct {
	analysis *models.WorkbookAnalysis
	dir      string
	refs     *crossRef
}

func (b *markdownBuilder) build() error {
	steps := []func() error{
		b.writeReadme,
		b.writeSummary,
		b.writeSheets,
		b.writeFormulas,
		b.writeFeatures,
		b.writeIssues,
		b.writeVBA,
		b.writePowerQuery,
		b.writeScreenshots,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (b *markdownBuilder) writeReadme() error {
	a := b.analysis
	var s strings.Builder

	fmt.Fprintf(&s, "# %s Analysis\n\n", a.FileName)
	s.WriteString("This directory contains a comprehensive analysis of the Excel workbook.\n\n")
	s.WriteString("## Quick Navigation\n\n")
	s.WriteString("- [Summary](summary.md) - Key facts and statistics\n")
	s.WriteString("- [Sheets](sheets/_index.md) - All worksheets\n")
	s.WriteString("- [Formulas](formulas/_index.md) - Formula analysis\n")
	s.WriteString("- [Features](features/) - Conditional formatting, validations, etc.\n")
	s.WriteString("- [Issues](issues/) - Errors and external references\n")
	if len(a.VBAModules) > 0 {
		s.WriteString("- [VBA](vba/_index.md) - VBA macro code\n")
	}
	if len(a.PowerQueries) > 0 {
		s.WriteString("- [Power Query](power_query/_index.md) - M code\n")
	}
	if len(a.Screenshots) > 0 {
		s.WriteString("- [Screenshots](screenshots/_index.md) - Visual captures\n")
	}

	s.WriteString("\n## File Info\n\n")
	s.WriteString("| Property | Value |\n|----------|-------|\n")
	fmt.Fprintf(&s, "| File Name | %s |\n", a.FileName)
	fmt.Fprintf(&s, "| File Size | %s |\n", formatSize(a.FileSize))
	fmt.Fprintf(&s, "| Macro Enabled | %s |\n", yesNo(a.IsMacroEnabled))
	fmt.Fprintf(&s, "| Sheet Count | %d |\n", len(a.Sheets))
	fmt.Fprintf(&s, "| Formula Count | %d |\n", len(a.Formulas))
	if a.Creator != "" {
		fmt.Fprintf(&s, "| Creator | %s |\n", a.Creator)
	}
	if a.Modified != "" {
		fmt.Fprintf(&s, "| Last Modified | %s |\n", a.Modified)
	}

	return writeFile(b.dir, "README.md", s.String())
}

func (b *markdownBuilder) writeSummary() error {
	a := b.analysis
	var s strings.Builder

	visible, hidden, veryHidden := 0, 0, 0
	for _, sheet := range a.Sheets {
		switch sheet.Visibility {
		case models.VisibilityHidden:
			hidden++
		case models.VisibilityVeryHidden:
			veryHidden++
		default:
			visible++
		}
	}
	lambdas := 0
	for _, n := range a.NamedRanges {
		if n.IsLambda {
			lambdas++
		}
	}

	fmt.Fprintf(&s, "# Summary: %s\n\n## At a Glance\n\n", a.FileName)
	fmt.Fprintf(&s, "- **%d sheets** (%d visible, %d hidden, %d very hidden)\n",
		len(a.Sheets), visible, hidden, veryHidden)
	fmt.Fprintf(&s, "- **%d formulas** across all sheets\n", len(a.Formulas))
	fmt.Fprintf(&s, "- **%d named ranges** (%d LAMBDA functions)\n", len(a.NamedRanges), lambdas)
	fmt.Fprintf(&s, "- **%d structured tables**\n", len(a.Tables))
	fmt.Fprintf(&s, "- **%d pivot tables**\n", len(a.PivotTables))
	fmt.Fprintf(&s, "- **%d charts**\n", len(a.Charts))

	s.WriteString("\n## Features Present\n\n")
	var features []string
	if len(a.ConditionalFormats) > 0 {
		features = append(features, fmt.Sprintf("- Conditional Formatting (%d rules)", len(a.ConditionalFormats)))
	}
	if len(a.DataValidations) > 0 {
		features = append(features, fmt.Sprintf("- Data Validations (%d rules)", len(a.DataValidations)))
	}
	if len(a.VBAModules) > 0 {
		features = append(features, fmt.Sprintf("- VBA Macros (%d modules)", len(a.VBAModules)))
	}
	if len(a.PowerQueries) > 0 {
		features = append(features, fmt.Sprintf("- Power Query (%d queries)", len(a.PowerQueries)))
	}
	if a.HasDAX {
		note := a.DAXDetectionNote
		if note == "" {
			note = "detected"
		}
		features = append(features, fmt.Sprintf("- Power Pivot/DAX (%s)", note))
	}
	if len(a.Comments) > 0 {
		features = append(features, fmt.Sprintf("- Comments (%d total)", len(a.Comments)))
	}
	if len(a.Hyperlinks) > 0 {
		features = append(features, fmt.Sprintf("- Hyperlinks (%d total)", len(a.Hyperlinks)))
	}
	if len(a.Controls) > 0 {
		features = append(features, fmt.Sprintf("- Form Controls (%d total)", len(a.Controls)))
	}
	if len(a.Connections) > 0 {
		features = append(features, fmt.Sprintf("- Data Connections (%d total)", len(a.Connections)))
	}
	if len(features) == 0 {
		features = append(features, "- No advanced features detected")
	}
	s.WriteString(strings.Join(features, "\n"))

	s.WriteString("\n\n## Formula Categories\n\n")
	counts := make(map[models.FormulaCategory]int)
	for _, f := range a.Formulas {
		counts[f.Category]++
	}
	if len(counts) == 0 {
		s.WriteString("- No formulas found\n")
	} else {
		type catCount struct {
			category models.FormulaCategory
			count    int
		}
		var ordered []catCount
		for category, count := range counts {
			ordered = append(ordered, catCount{category, count})
		}
		sort.Slice(ordered, func(i, j int) bool {
			if ordered[i].count != ordered[j].count {
				return ordered[i].count > ordered[j].count
			}
			return ordered[i].category < ordered[j].category
		})
		for _, c := range ordered {
			fmt.Fprintf(&s, "- %s: %d\n", c.category, c.count)
		}
	}

	s.WriteString("\n## Issues\n\n")
	if len(a.ErrorCells) > 0 {
		fmt.Fprintf(&s, "- **%d error cells** (see issues/errors.md)\n", len(a.ErrorCells))
	}
	if len(a.ExternalRefs) > 0 {
		fmt.Fprintf(&s, "- **%d external references** (see issues/external_refs.md)\n", len(a.ExternalRefs))
	}
	if len(a.ErrorCells) == 0 && len(a.ExternalRefs) == 0 {
		s.WriteString("- No issues detected\n")
	}

	if len(a.Warnings) > 0 {
		s.WriteString("\n## Extraction Warnings\n\n")
		for _, w := range a.Warnings {
			fmt.Fprintf(&s, "- %s: %s\n", w.Extractor, w.Message)
		}
	}

	return writeFile(b.dir, "summary.md", s.String())
}

func (b *markdownBuilder) writeSheets() error {
	var s strings.Builder
	s.WriteString("# Sheets\n\n")
	s.WriteString("| # | Name | Visibility | Rows | Cols | Features |\n")
	s.WriteString("|---|------|------------|------|------|----------|\n")

	for _, sheet := range b.analysis.Sheets {
		var features []string
		if sheet.HasFormulas {
			features = append(features, "formulas")
		}
		if sheet.HasCharts {
			features = append(features, "charts")
		}
		if sheet.HasPivots {
			features = append(features, "pivots")
		}
		if sheet.HasTables {
			features = append(features, "tables")
		}
		if sheet.HasConditionalFormatting {
			features = append(features, "CF")
		}
		if sheet.HasDataValidation {
			features = append(features, "DV")
		}
		if sheet.HasComments {
			features = append(features, "comments")
		}
		featureText := "-"
		if len(features) > 0 {
			featureText = strings.Join(features, ", ")
		}
		fmt.Fprintf(&s, "| %d | [%s](%s.md) | %s | %d | %d | %s |\n",
			sheet.Index+1, sheet.Name, sanitizeFilename(sheet.Name),
			sheet.Visibility, sheet.RowCount, sheet.ColCount, featureText)
	}

	if err := writeFile(b.dir, filepath.Join("sheets", "_index.md"), s.String()); err != nil {
		return err
	}

	for _, sheet := range b.analysis.Sheets {
		if err := b.writeSheetDetail(sheet); err != nil {
			return err
		}
	}
	return nil
}

func (b *markdownBuilder) writeSheetDetail(sheet models.SheetInfo) error {
	var s strings.Builder

	fmt.Fprintf(&s, "# Sheet: %s\n\n## Overview\n\n", sheet.Name)
	s.WriteString("| Property | Value |\n|----------|-------|\n")
	fmt.Fprintf(&s, "| Index | %d |\n", sheet.Index+1)
	fmt.Fprintf(&s, "| Visibility | %s |\n", sheet.Visibility)
	usedRange := sheet.UsedRange
	if usedRange == "" {
		usedRange = "Empty"
	}
	fmt.Fprintf(&s, "| Used Range | %s |\n", usedRange)
	fmt.Fprintf(&s, "| Rows | %d |\n", sheet.RowCount)
	fmt.Fprintf(&s, "| Columns | %d |\n", sheet.ColCount)
	if sheet.TabColor != "" {
		fmt.Fprintf(&s, "| Tab Color | %s |\n", sheet.TabColor)
	}

	if len(sheet.MergedCellRanges) > 0 {
		fmt.Fprintf(&s, "\n## Merged Cells (%d)\n\n", len(sheet.MergedCellRanges))
		for i, r := range sheet.MergedCellRanges {
			if i == 20 {
				fmt.Fprintf(&s, "\n*...and %d more*\n", len(sheet.MergedCellRanges)-20)
				break
			}
			fmt.Fprintf(&s, "- %s\n", r)
		}
	}

	if formulas := b.refs.formulas[sheet.Name]; len(formulas) > 0 {
		fmt.Fprintf(&s, "\n## Formulas (%d)\n\n", len(formulas))
		s.WriteString("| Cell | Category | Formula |\n|------|----------|--------|\n")
		for i, f := range formulas {
			if i == 50 {
				fmt.Fprintf(&s, "\n*...and %d more formulas*\n", len(formulas)-50)
				break
			}
			fmt.Fprintf(&s, "| %s | %s | `%s` |\n",
				f.Location.Cell, f.Category, truncate(f.FormulaClean, 60))
		}
	}

	if tables := b.refs.tables[sheet.Name]; len(tables) > 0 {
		fmt.Fprintf(&s, "\n## Tables (%d)\n\n", len(tables))
		for _, t := range tables {
			fmt.Fprintf(&s, "### %s\n- Range: %s\n", t.DisplayName, t.Range)
			if len(t.Columns) > 0 {
				fmt.Fprintf(&s, "- Columns: %s\n", strings.Join(t.Columns, ", "))
			}
			if t.StyleName != "" {
				fmt.Fprintf(&s, "- Style: %s\n", t.StyleName)
			}
			s.WriteString("\n")
		}
	}

	if pivots := b.refs.pivots[sheet.Name]; len(pivots) > 0 {
		fmt.Fprintf(&s, "\n## Pivot Tables (%d)\n\n", len(pivots))
		for _, p := range pivots {
			fmt.Fprintf(&s, "### %s\n- Location: %s\n", p.Name, p.Location)
			if len(p.RowFields) > 0 {
				fmt.Fprintf(&s, "- Row Fields: %s\n", strings.Join(p.RowFields, ", "))
			}
			if len(p.ColumnFields) > 0 {
				fmt.Fprintf(&s, "- Column Fields: %s\n", strings.Join(p.ColumnFields, ", "))
			}
			if len(p.DataFields) > 0 {
				fmt.Fprintf(&s, "- Data Fields: %s\n", strings.Join(p.DataFields, ", "))
			}
			s.WriteString("\n")
		}
	}

	if charts := b.refs.charts[sheet.Name]; len(charts) > 0 {
		fmt.Fprintf(&s, "\n## Charts (%d)\n\n", len(charts))
		for _, c := range charts {
			fmt.Fprintf(&s, "- **%s**: %s", c.Name, c.ChartType)
			if c.Title != "" {
				fmt.Fprintf(&s, " (%q)", c.Title)
			}
			s.WriteString("\n")
		}
	}

	name := filepath.Join("sheets", sanitizeFilename(sheet.Name)+".md")
	return writeFile(b.dir, name, s.String())
}

func (b *markdownBuilder) writeFormulas() error {
	a := b.analysis
	var s strings.Builder
	s.WriteString("# Formulas\n\n## By Category\n\n")

	counts := make(map[models.FormulaCategory]int)
	for _, f := range a.Formulas {
		counts[f.Category]++
	}
	var categories []models.FormulaCategory
	for category := range counts {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
	for _, category := range categories {
		fmt.Fprintf(&s, "- **%s**: %d\n", category, counts[category])
	}

	var lambdas, regular []models.NamedRangeInfo
	for _, n := range a.NamedRanges {
		if n.IsLambda {
			lambdas = append(lambdas, n)
		} else {
			regular = append(regular, n)
		}
	}
	if len(lambdas) > 0 {
		fmt.Fprintf(&s, "\n## LAMBDA Functions (%d)\n\n", len(lambdas))
		for _, n := range lambdas {
			fmt.Fprintf(&s, "### %s\n\n```\n%s\n```\n\n", n.Name, n.Value)
		}
	}
	if len(regular) > 0 {
		fmt.Fprintf(&s, "\n## Named Ranges (%d)\n\n", len(regular))
		s.WriteString("| Name | Value | Scope |\n|------|-------|-------|\n")
		for _, n := range regular {
			scope := n.Scope
			if scope == "" {
				scope = "Global"
			}
			fmt.Fprintf(&s, "| %s | `%s` | %s |\n", n.Name, truncate(n.Value, 40), scope)
		}
	}

	var notable []models.FormulaInfo
	for _, f := range a.Formulas {
		if f.Category == models.CategoryDynamicArray || f.Category == models.CategoryLambda {
			notable = append(notable, f)
		}
	}
	if len(notable) > 0 {
		fmt.Fprintf(&s, "\n## Complex Formulas (%d)\n\n", len(notable))
		for i, f := range notable {
			if i == 30 {
				break
			}
			fmt.Fprintf(&s, "### %s\n\n**Category**: %s\n\n```excel\n%s\n```\n\n",
				f.Location.Address(), f.Category, f.FormulaClean)
		}
	}

	return writeFile(b.dir, filepath.Join("formulas", "_index.md"), s.String())
}

func (b *markdownBuilder) writeFeatures() error {
	a := b.analysis

	if len(a.ConditionalFormats) > 0 {
		var s strings.Builder
		fmt.Fprintf(&s, "# Conditional Formatting\n\nTotal rules: %d\n\n", len(a.ConditionalFormats))
		for _, cf := range a.ConditionalFormats {
			fmt.Fprintf(&s, "## %s\n\n- Type: %s\n- Description: %s\n", cf.Range, cf.RuleType, cf.Description)
			if cf.Formula != "" {
				fmt.Fprintf(&s, "- Formula: `%s`\n", cf.Formula)
			}
			s.WriteString("\n")
		}
		if err := writeFile(b.dir, filepath.Join("features", "conditional_formatting.md"), s.String()); err != nil {
			return err
		}
	}

	if len(a.DataValidations) > 0 {
		var s strings.Builder
		fmt.Fprintf(&s, "# Data Validations\n\nTotal rules: %d\n\n", len(a.DataValidations))
		for _, dv := range a.DataValidations {
			fmt.Fprintf(&s, "## %s\n\n- Type: %s\n", dv.Range, dv.Type)
			if dv.Formula1 != "" {
				fmt.Fprintf(&s, "- Formula/List: `%s`\n", dv.Formula1)
			}
			if dv.InputMessage != "" {
				fmt.Fprintf(&s, "- Input Message: %s\n", dv.InputMessage)
			}
			if dv.ErrorMessage != "" {
				fmt.Fprintf(&s, "- Error Message: %s\n", dv.ErrorMessage)
			}
			s.WriteString("\n")
		}
		if err := writeFile(b.dir, filepath.Join("features", "data_validations.md"), s.String()); err != nil {
			return err
		}
	}

	if len(a.Tables) > 0 {
		var s strings.Builder
		fmt.Fprintf(&s, "# Structured Tables\n\nTotal tables: %d\n\n", len(a.Tables))
		for _, t := range a.Tables {
			fmt.Fprintf(&s, "## %s\n\n- Sheet: %s\n- Range: %s\n- Columns: %d\n", t.DisplayName, t.Sheet, t.Range, len(t.Columns))
			if len(t.Columns) > 0 {
				fmt.Fprintf(&s, "  - %s\n", strings.Join(t.Columns, ", "))
			}
			s.WriteString("\n")
		}
		if err := writeFile(b.dir, filepath.Join("features", "tables.md"), s.String()); err != nil {
			return err
		}
	}

	if len(a.Charts) > 0 {
		var s strings.Builder
		fmt.Fprintf(&s, "# Charts\n\nTotal charts: %d\n\n", len(a.Charts))
		for _, c := range a.Charts {
			fmt.Fprintf(&s, "## %s\n\n- Sheet: %s\n- Type: %s\n", c.Name, c.Sheet, c.ChartType)
			if c.Title != "" {
				fmt.Fprintf(&s, "- Title: %s\n", c.Title)
			}
			if c.DataRange != "" {
				fmt.Fprintf(&s, "- Data: %s\n", c.DataRange)
			}
			s.WriteString("\n")
		}
		if err := writeFile(b.dir, filepath.Join("features", "charts.md"), s.String()); err != nil {
			return err
		}
	}

	if len(a.PivotTables) > 0 {
		var s strings.Builder
		fmt.Fprintf(&s, "# Pivot Tables\n\nTotal pivot tables: %d\n\n", len(a.PivotTables))
		for _, p := range a.PivotTables {
			fmt.Fprintf(&s, "## %s\n\n- Sheet: %s\n- Location: %s\n", p.Name, p.Sheet, p.Location)
			if len(p.RowFields) > 0 {
				fmt.Fprintf(&s, "- Row Fields: %s\n", strings.Join(p.RowFields, ", "))
			}
			if len(p.ColumnFields) > 0 {
				fmt.Fprintf(&s, "- Column Fields: %s\n", strings.Join(p.ColumnFields, ", "))
			}
			if len(p.DataFields) > 0 {
				fmt.Fprintf(&s, "- Data Fields: %s\n", strings.Join(p.DataFields, ", "))
			}
			if len(p.FilterFields) > 0 {
				fmt.Fprintf(&s, "- Filter Fields: %s\n", strings.Join(p.FilterFields, ", "))
			}
			s.WriteString("\n")
		}
		if err := writeFile(b.dir, filepath.Join("features", "pivot_tables.md"), s.String()); err != nil {
			return err
		}
	}

	if len(a.Comments) > 0 {
		var s strings.Builder
		fmt.Fprintf(&s, "# Comments\n\nTotal comments: %d\n\n", len(a.Comments))
		for _, c := range a.Comments {
			fmt.Fprintf(&s, "## %s\n\n", c.Location.Address())
			if c.Author != "" {
				fmt.Fprintf(&s, "**Author**: %s\n\n", c.Author)
			}
			fmt.Fprintf(&s, "%s\n\n", c.Text)
			if len(c.Replies) > 0 {
				fmt.Fprintf(&s, "### Replies (%d)\n\n", len(c.Replies))
				for _, r := range c.Replies {
					author := r.Author
					if author == "" {
						author = "Unknown"
					}
					fmt.Fprintf(&s, "- **%s**: %s\n", author, r.Text)
				}
				s.WriteString("\n")
			}
		}
		if err := writeFile(b.dir, filepath.Join("features", "comments.md"), s.String()); err != nil {
			return err
		}
	}

	if len(a.Hyperlinks) > 0 {
		var s strings.Builder
		fmt.Fprintf(&s, "# Hyperlinks\n\nTotal hyperlinks: %d\n\n", len(a.Hyperlinks))
		s.WriteString("| Location | Target | Display Text |\n|----------|--------|-------------|\n")
		for _, h := range a.Hyperlinks {
			display := h.DisplayText
			if display == "" {
				display = "-"
			}
			fmt.Fprintf(&s, "| %s | %s | %s |\n", h.Location.Address(), truncate(h.Target, 50), display)
		}
		if err := writeFile(b.dir, filepath.Join("features", "hyperlinks.md"), s.String()); err != nil {
			return err
		}
	}

	if len(a.Controls) > 0 {
		var s strings.Builder
		fmt.Fprintf(&s, "# Form Controls\n\nTotal controls: %d\n\n", len(a.Controls))
		for _, c := range a.Controls {
			fmt.Fprintf(&s, "## %s\n\n- Type: %s\n- Sheet: %s\n", c.Name, c.ControlType, c.Sheet)
			if c.LinkedCell != "" {
				fmt.Fprintf(&s, "- Linked Cell: %s\n", c.LinkedCell)
			}
			if c.Macro != "" {
				fmt.Fprintf(&s, "- Macro: %s\n", c.Macro)
			}
			s.WriteString("\n")
		}
		if err := writeFile(b.dir, filepath.Join("features", "controls.md"), s.String()); err != nil {
			return err
		}
	}

	if len(a.Connections) > 0 {
		var s strings.Builder
		fmt.Fprintf(&s, "# Data Connections\n\nTotal connections: %d\n\n", len(a.Connections))
		for _, c := range a.Connections {
			fmt.Fprintf(&s, "## %s\n\n- Type: %s\n", c.Name, c.ConnectionType)
			if c.ConnectionString != "" {
				fmt.Fprintf(&s, "- Connection: `%s`\n", c.ConnectionString)
			}
			if c.CommandText != "" {
				fmt.Fprintf(&s, "- Command: `%s`\n", c.CommandText)
			}
			s.WriteString("\n")
		}
		if err := writeFile(b.dir, filepath.Join("features", "connections.md"), s.String()); err != nil {
			return err
		}
	}

	if p := a.Protection; p != nil {
		var s strings.Builder
		s.WriteString("# Protection Settings\n\n## Workbook Level\n\n")
		fmt.Fprintf(&s, "- Protected: %s\n", yesNo(p.WorkbookProtected))
		if p.WorkbookProtected {
			fmt.Fprintf(&s, "- Structure: %s\n", protectedText(p.WorkbookStructure))
			fmt.Fprintf(&s, "- Windows: %s\n", protectedText(p.WorkbookWindows))
		}
		s.WriteString("\n## Sheet Level\n\n")
		var sheetNames []string
		for name := range p.Sheets {
			sheetNames = append(sheetNames, name)
		}
		sort.Strings(sheetNames)
		for _, name := range sheetNames {
			details := p.Sheets[name]
			fmt.Fprintf(&s, "### %s\n\n- Protected: %s\n", name, yesNo(details.Protected))
			if details.Protected {
				fmt.Fprintf(&s, "- Password Protected: %s\n", yesNo(details.PasswordProtected))
			}
			s.WriteString("\n")
		}
		if err := writeFile(b.dir, filepath.Join("features", "protection.md"), s.String()); err != nil {
			return err
		}
	}

	if len(a.PrintSettings) > 0 {
		var s strings.Builder
		fmt.Fprintf(&s, "# Print Settings\n\nSheets with non-default settings: %d\n\n", len(a.PrintSettings))
		for _, ps := range a.PrintSettings {
			fmt.Fprintf(&s, "## %s\n\n- Orientation: %s\n", ps.Sheet, ps.Orientation)
			if ps.PrintArea != "" {
				fmt.Fprintf(&s, "- Print Area: %s\n", ps.PrintArea)
			}
			if ps.PrintTitlesRows != "" {
				fmt.Fprintf(&s, "- Title Rows: %s\n", ps.PrintTitlesRows)
			}
			if ps.PrintTitlesCols != "" {
				fmt.Fprintf(&s, "- Title Columns: %s\n", ps.PrintTitlesCols)
			}
			if ps.PaperSize != "" {
				fmt.Fprintf(&s, "- Paper Size: %s\n", ps.PaperSize)
			}
			if ps.FitToPage {
				fmt.Fprintf(&s, "- Fit To Page: %d wide x %d tall\n", ps.FitToWidth, ps.FitToHeight)
			}
			s.WriteString("\n")
		}
		if err := writeFile(b.dir, filepath.Join("features", "print_settings.md"), s.String()); err != nil {
			return err
		}
	}

	return nil
}

func (b *markdownBuilder) writeIssues() error {
	a := b.analysis

	if len(a.ErrorCells) > 0 {
		var s strings.Builder
		fmt.Fprintf(&s, "# Error Cells\n\nTotal errors: %d\n\n", len(a.ErrorCells))

		byType := make(map[models.ErrorType][]models.ErrorCellInfo)
		var order []models.ErrorType
		for _, e := range a.ErrorCells {
			if _, ok := byType[e.ErrorType]; !ok {
				order = append(order, e.ErrorType)
			}
			byType[e.ErrorType] = append(byType[e.ErrorType], e)
		}

		for _, errorType := range order {
			cells := byType[errorType]
			fmt.Fprintf(&s, "## %s (%d)\n\n", errorType, len(cells))
			s.WriteString("| Location | Formula |\n|----------|--------|\n")
			for i, e := range cells {
				if i == 20 {
					fmt.Fprintf(&s, "\n*...and %d more*\n", len(cells)-20)
					break
				}
				formula := e.Formula
				if formula == "" {
					formula = "-"
				}
				fmt.Fprintf(&s, "| %s | `%s` |\n", e.Location.Address(), formula)
			}
			s.WriteString("\n")
		}
		if err := writeFile(b.dir, filepath.Join("issues", "errors.md"), s.String()); err != nil {
			return err
		}
	}

	if len(a.ExternalRefs) > 0 {
		var s strings.Builder
		fmt.Fprintf(&s, "# External References\n\nTotal external references: %d\n\n", len(a.ExternalRefs))

		byWorkbook := make(map[string][]models.ExternalRefInfo)
		var order []string
		for _, ref := range a.ExternalRefs {
			if _, ok := byWorkbook[ref.TargetWorkbook]; !ok {
				order = append(order, ref.TargetWorkbook)
			}
			byWorkbook[ref.TargetWorkbook] = append(byWorkbook[ref.TargetWorkbook], ref)
		}

		for _, workbook := range order {
			refs := byWorkbook[workbook]
			status := ""
			for _, ref := range refs {
				if ref.IsBroken {
					status = " (BROKEN)"
					break
				}
			}
			fmt.Fprintf(&s, "## %s%s\n\n", workbook, status)
			for i, ref := range refs {
				if i == 10 {
					fmt.Fprintf(&s, "\n*...and %d more references*\n", len(refs)-10)
					break
				}
				if ref.SourceCell.Cell == "" {
					continue
				}
				fmt.Fprintf(&s, "- %s", ref.SourceCell.Address())
				if ref.TargetSheet != "" {
					fmt.Fprintf(&s, " -> %s", ref.TargetSheet)
				}
				if ref.TargetRange != "" {
					fmt.Fprintf(&s, "!%s", ref.TargetRange)
				}
				s.WriteString("\n")
			}
			s.WriteString("\n")
		}
		if err := writeFile(b.dir, filepath.Join("issues", "external_refs.md"), s.String()); err != nil {
			return err
		}
	}

	return nil
}

func (b *markdownBuilder) writeVBA() error {
	a := b.analysis
	if len(a.VBAModules) == 0 {
		return nil
	}

	var s strings.Builder
	s.WriteString("# VBA Modules\n\n")
	if a.VBAProjectName != "" {
		fmt.Fprintf(&s, "Project: %s\n\n", a.VBAProjectName)
	}
	fmt.Fprintf(&s, "Total modules: %d\n\n", len(a.VBAModules))
	s.WriteString("| Module | Type | Lines | Procedures |\n|--------|------|-------|------------|\n")
	for _, m := range a.VBAModules {
		procs := strings.Join(m.Procedures, ", ")
		if len(m.Procedures) > 5 {
			procs = strings.Join(m.Procedures[:5], ", ")
			procs += fmt.Sprintf(" (+%d more)", len(m.Procedures)-5)
		}
		fmt.Fprintf(&s, "| [%s](%s.md) | %s | %d | %s |\n",
			m.Name, sanitizeFilename(m.Name), m.ModuleType, m.LineCount, procs)
	}
	if err := writeFile(b.dir, filepath.Join("vba", "_index.md"), s.String()); err != nil {
		return err
	}

	for _, m := range a.VBAModules {
		var d strings.Builder
		fmt.Fprintf(&d, "# %s\n\n**Type**: %s\n\n**Lines**: %d\n\n", m.Name, m.ModuleType, m.LineCount)
		if len(m.Procedures) > 0 {
			d.WriteString("## Procedures\n\n")
			for _, p := range m.Procedures {
				fmt.Fprintf(&d, "- %s\n", p)
			}
			d.WriteString("\n")
		}
		fmt.Fprintf(&d, "## Code\n\n```vb\n%s\n```\n", m.Code)
		name := filepath.Join("vba", sanitizeFilename(m.Name)+".md")
		if err := writeFile(b.dir, name, d.String()); err != nil {
			return err
		}
	}
	return nil
}

func (b *markdownBuilder) writePowerQuery() error {
	a := b.analysis
	if len(a.PowerQueries) == 0 {
		return nil
	}

	var s strings.Builder
	fmt.Fprintf(&s, "# Power Query\n\nTotal queries: %d\n\n", len(a.PowerQueries))
	s.WriteString("| Query | Description |\n|-------|-------------|\n")
	for _, q := range a.PowerQueries {
		desc := q.Description
		if desc == "" {
			desc = "-"
		}
		fmt.Fprintf(&s, "| [%s](%s.md) | %s |\n", q.Name, sanitizeFilename(q.Name), desc)
	}
	if err := writeFile(b.dir, filepath.Join("power_query", "_index.md"), s.String()); err != nil {
		return err
	}

	for _, q := range a.PowerQueries {
		var d strings.Builder
		fmt.Fprintf(&d, "# %s\n\n", q.Name)
		if q.Description != "" {
			fmt.Fprintf(&d, "%s\n\n", q.Description)
		}
		fmt.Fprintf(&d, "## M Code\n\n```powerquery\n%s\n```\n", q.Formula)
		name := filepath.Join("power_query", sanitizeFilename(q.Name)+".md")
		if err := writeFile(b.dir, name, d.String()); err != nil {
			return err
		}
	}
	return nil
}

func (b *markdownBuilder) writeScreenshots() error {
	a := b.analysis
	if len(a.Screenshots) == 0 {
		return nil
	}

	var s strings.Builder
	fmt.Fprintf(&s, "# Screenshots\n\nTotal screenshots: %d\n\n", len(a.Screenshots))
	for _, shot := range a.Screenshots {
		fmt.Fprintf(&s, "## %s\n\n![%s](%s)\n\n", shot.Sheet, shot.Sheet, filepath.Base(shot.Path))
		if shot.CapturedAt != "" {
			fmt.Fprintf(&s, "*Captured: %s*\n\n", shot.CapturedAt)
		}
	}
	return writeFile(b.dir, filepath.Join("screenshots", "_index.md"), s.String())
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func protectedText(v bool) string {
	if v {
		return "Protected"
	}
	return "Not protected"
}
