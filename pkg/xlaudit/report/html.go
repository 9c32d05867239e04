package report

import (
	"fmt"
	"html"
	"path/filepath"
	"strings"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

// WriteHTML renders the analysis into an HTML tree under outputDir:
// index.html plus a styles.css, one page per sheet under sheets/, and
// workbook-level pages under workbook/ for VBA, Power Query, connections
// and named ranges when those categories are present.
func WriteHTML(a *models.WorkbookAnalysis, outputDir string) error {
	b := &htmlBuilder{analysis: a, dir: outputDir, refs: buildCrossRef(a)}
	return b.build()
}

type htmlBuilder struct {
	analysis *models.WorkbookAnalysis
	dir      string
	refs     *crossRef
}

func (b *htmlBuilder) build() error {
	if err := writeFile(b.dir, "styles.css", stylesCSS); err != nil {
		return err
	}
	if err := b.writeIndex(); err != nil {
		return err
	}
	for _, sheet := range b.analysis.Sheets {
		if err := b.writeSheetPage(sheet); err != nil {
			return err
		}
	}
	return b.writeWorkbookPages()
}

func esc(s string) string { return html.EscapeString(s) }

func pageHeader(title, cssPath string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<link rel="stylesheet" href="%s">
</head>
<body>
`, esc(title), cssPath)
}

const pageFooter = "</body>\n</html>\n"

func (b *htmlBuilder) writeIndex() error {
	a := b.analysis
	var s strings.Builder

	s.WriteString(pageHeader(a.FileName+" - Workbook Analysis", "styles.css"))
	fmt.Fprintf(&s, "<header>\n<h1>%s</h1>\n", esc(a.FileName))
	fmt.Fprintf(&s, "<p class=\"subtitle\">%s", formatSize(a.FileSize))
	if a.IsMacroEnabled {
		s.WriteString(" &middot; macro-enabled")
	}
	if a.Modified != "" {
		fmt.Fprintf(&s, " &middot; modified %s", esc(a.Modified))
	}
	s.WriteString("</p>\n</header>\n")

	s.WriteString("<section class=\"stats\">\n")
	stats := []struct {
		label string
		count int
	}{
		{"Sheets", len(a.Sheets)},
		{"Formulas", len(a.Formulas)},
		{"Named Ranges", len(a.NamedRanges)},
		{"Tables", len(a.Tables)},
		{"Charts", len(a.Charts)},
		{"Pivot Tables", len(a.PivotTables)},
		{"Error Cells", len(a.ErrorCells)},
	}
	for _, stat := range stats {
		fmt.Fprintf(&s, "<div class=\"stat\"><span class=\"stat-value\">%d</span><span class=\"stat-label\">%s</span></div>\n",
			stat.count, stat.label)
	}
	s.WriteString("</section>\n")

	var nav []string
	if len(a.VBAModules) > 0 {
		nav = append(nav, fmt.Sprintf("<a href=\"workbook/vba.html\">VBA Modules (%d)</a>", len(a.VBAModules)))
	}
	if len(a.PowerQueries) > 0 {
		nav = append(nav, fmt.Sprintf("<a href=\"workbook/power-query.html\">Power Query (%d)</a>", len(a.PowerQueries)))
	}
	if len(a.Connections) > 0 {
		nav = append(nav, fmt.Sprintf("<a href=\"workbook/connections.html\">Connections (%d)</a>", len(a.Connections)))
	}
	if len(a.NamedRanges) > 0 {
		nav = append(nav, fmt.Sprintf("<a href=\"workbook/named-ranges.html\">Named Ranges (%d)</a>", len(a.NamedRanges)))
	}
	if len(nav) > 0 {
		s.WriteString("<nav class=\"workbook-nav\">\n" + strings.Join(nav, "\n") + "\n</nav>\n")
	}

	if a.HasDAX {
		note := a.DAXDetectionNote
		if note == "" {
			note = "Data model detected"
		}
		fmt.Fprintf(&s, "<div class=\"notice\">Power Pivot/DAX: %s. DAX expressions are not extractable from the file format.</div>\n", esc(note))
	}

	s.WriteString("<h2>Sheets</h2>\n<section class=\"sheet-cards\">\n")
	for _, sheet := range a.Sheets {
		fmt.Fprintf(&s, "<a class=\"sheet-card%s\" href=\"sheets/%s.html\">\n",
			visibilityClass(sheet.Visibility), slug(sheet.Name))
		fmt.Fprintf(&s, "<h3>%s</h3>\n", esc(sheet.Name))
		fmt.Fprintf(&s, "<p>%d rows &times; %d cols</p>\n", sheet.RowCount, sheet.ColCount)
		if sheet.Visibility != models.VisibilityVisible {
			fmt.Fprintf(&s, "<span class=\"badge badge-hidden\">%s</span>\n", esc(string(sheet.Visibility)))
		}
		for _, badge := range sheetBadges(sheet, b.refs) {
			fmt.Fprintf(&s, "<span class=\"badge\">%s</span>\n", esc(badge))
		}
		s.WriteString("</a>\n")
	}
	s.WriteString("</section>\n")

	if len(a.Errors) > 0 || len(a.Warnings) > 0 {
		s.WriteString("<h2>Extraction Notes</h2>\n<ul class=\"notes\">\n")
		for _, e := range a.Errors {
			fmt.Fprintf(&s, "<li class=\"note-error\">%s: %s</li>\n", esc(e.Extractor), esc(e.Message))
		}
		for _, w := range a.Warnings {
			fmt.Fprintf(&s, "<li class=\"note-warning\">%s: %s</li>\n", esc(w.Extractor), esc(w.Message))
		}
		s.WriteString("</ul>\n")
	}

	s.WriteString(pageFooter)
	return writeFile(b.dir, "index.html", s.String())
}

func sheetBadges(sheet models.SheetInfo, refs *crossRef) []string {
	var badges []string
	if n := len(refs.formulas[sheet.Name]); n > 0 {
		badges = append(badges, fmt.Sprintf("%d formulas", n))
	}
	if sheet.HasCharts {
		badges = append(badges, "charts")
	}
	if sheet.HasPivots {
		badges = append(badges, "pivots")
	}
	if sheet.HasTables {
		badges = append(badges, "tables")
	}
	if sheet.HasConditionalFormatting {
		badges = append(badges, "cond. formatting")
	}
	if sheet.HasDataValidation {
		badges = append(badges, "validation")
	}
	if sheet.HasComments {
		badges = append(badges, "comments")
	}
	if n := len(refs.errorCells[sheet.Name]); n > 0 {
		badges = append(badges, fmt.Sprintf("%d errors", n))
	}
	if len(refs.sheetVBA[sheet.Name]) > 0 {
		badges = append(badges, "VBA")
	}
	return badges
}

func visibilityClass(v models.SheetVisibility) string {
	switch v {
	case models.VisibilityHidden:
		return " sheet-hidden"
	case models.VisibilityVeryHidden:
		return " sheet-very-hidden"
	}
	return ""
}

func (b *htmlBuilder) writeSheetPage(sheet models.SheetInfo) error {
	var s strings.Builder
	s.WriteString(pageHeader(sheet.Name, "../styles.css"))
	s.WriteString("<nav class=\"breadcrumb\"><a href=\"../index.html\">&larr; Workbook</a></nav>\n")
	fmt.Fprintf(&s, "<h1>%s</h1>\n", esc(sheet.Name))

	s.WriteString("<table class=\"props\">\n")
	fmt.Fprintf(&s, "<tr><th>Visibility</th><td>%s</td></tr>\n", esc(string(sheet.Visibility)))
	usedRange := sheet.UsedRange
	if usedRange == "" {
		usedRange = "Empty"
	}
	fmt.Fprintf(&s, "<tr><th>Used Range</th><td>%s</td></tr>\n", esc(usedRange))
	fmt.Fprintf(&s, "<tr><th>Dimensions</th><td>%d rows &times; %d columns</td></tr>\n", sheet.RowCount, sheet.ColCount)
	if sheet.TabColor != "" {
		fmt.Fprintf(&s, "<tr><th>Tab Color</th><td><span class=\"swatch\" style=\"background:#%s\"></span> #%s</td></tr>\n",
			esc(sheet.TabColor), esc(sheet.TabColor))
	}
	s.WriteString("</table>\n")

	if shots := b.refs.screenshots[sheet.Name]; len(shots) > 0 {
		s.WriteString("<h2>Screenshot</h2>\n")
		for _, shot := range shots {
			fmt.Fprintf(&s, "<img class=\"screenshot\" src=\"../screenshots/%s\" alt=\"%s\">\n",
				esc(filepath.Base(shot.Path)), esc(sheet.Name))
		}
	}

	if formulas := b.refs.formulas[sheet.Name]; len(formulas) > 0 {
		fmt.Fprintf(&s, "<h2>Formulas (%d)</h2>\n<table>\n<tr><th>Cell</th><th>Category</th><th>Formula</th></tr>\n", len(formulas))
		for _, f := range formulas {
			fmt.Fprintf(&s, "<tr><td>%s</td><td>%s</td><td><code>%s</code></td></tr>\n",
				esc(f.Location.Cell), esc(string(f.Category)), esc(f.FormulaClean))
		}
		s.WriteString("</table>\n")
	}

	if tables := b.refs.tables[sheet.Name]; len(tables) > 0 {
		fmt.Fprintf(&s, "<h2>Tables (%d)</h2>\n", len(tables))
		for _, t := range tables {
			fmt.Fprintf(&s, "<h3>%s</h3>\n<p>Range %s", esc(t.DisplayName), esc(t.Range))
			if len(t.Columns) > 0 {
				fmt.Fprintf(&s, " &middot; columns: %s", esc(strings.Join(t.Columns, ", ")))
			}
			s.WriteString("</p>\n")
		}
	}

	if pivots := b.refs.pivots[sheet.Name]; len(pivots) > 0 {
		fmt.Fprintf(&s, "<h2>Pivot Tables (%d)</h2>\n", len(pivots))
		for _, p := range pivots {
			fmt.Fprintf(&s, "<h3>%s</h3>\n<dl>\n<dt>Location</dt><dd>%s</dd>\n", esc(p.Name), esc(p.Location))
			if len(p.RowFields) > 0 {
				fmt.Fprintf(&s, "<dt>Rows</dt><dd>%s</dd>\n", esc(strings.Join(p.RowFields, ", ")))
			}
			if len(p.ColumnFields) > 0 {
				fmt.Fprintf(&s, "<dt>Columns</dt><dd>%s</dd>\n", esc(strings.Join(p.ColumnFields, ", ")))
			}
			if len(p.DataFields) > 0 {
				fmt.Fprintf(&s, "<dt>Values</dt><dd>%s</dd>\n", esc(strings.Join(p.DataFields, ", ")))
			}
			if len(p.FilterFields) > 0 {
				fmt.Fprintf(&s, "<dt>Filters</dt><dd>%s</dd>\n", esc(strings.Join(p.FilterFields, ", ")))
			}
			s.WriteString("</dl>\n")
		}
	}

	if charts := b.refs.charts[sheet.Name]; len(charts) > 0 {
		fmt.Fprintf(&s, "<h2>Charts (%d)</h2>\n<ul>\n", len(charts))
		for _, c := range charts {
			fmt.Fprintf(&s, "<li><strong>%s</strong>: %s", esc(c.Name), esc(c.ChartType))
			if c.Title != "" {
				fmt.Fprintf(&s, " &mdash; %s", esc(c.Title))
			}
			s.WriteString("</li>\n")
		}
		s.WriteString("</ul>\n")
	}

	if rules := b.refs.condFormats[sheet.Name]; len(rules) > 0 {
		fmt.Fprintf(&s, "<h2>Conditional Formatting (%d)</h2>\n<table>\n<tr><th>Range</th><th>Type</th><th>Rule</th></tr>\n", len(rules))
		for _, r := range rules {
			fmt.Fprintf(&s, "<tr><td>%s</td><td>%s</td><td>%s</td></tr>\n",
				esc(r.Range), esc(string(r.RuleType)), esc(r.Description))
		}
		s.WriteString("</table>\n")
	}

	if validations := b.refs.validations[sheet.Name]; len(validations) > 0 {
		fmt.Fprintf(&s, "<h2>Data Validations (%d)</h2>\n<table>\n<tr><th>Range</th><th>Type</th><th>Criteria</th></tr>\n", len(validations))
		for _, v := range validations {
			fmt.Fprintf(&s, "<tr><td>%s</td><td>%s</td><td><code>%s</code></td></tr>\n",
				esc(v.Range), esc(v.Type), esc(v.Formula1))
		}
		s.WriteString("</table>\n")
	}

	if comments := b.refs.comments[sheet.Name]; len(comments) > 0 {
		fmt.Fprintf(&s, "<h2>Comments (%d)</h2>\n", len(comments))
		for _, c := range comments {
			fmt.Fprintf(&s, "<div class=\"comment\">\n<p class=\"comment-meta\">%s", esc(c.Location.Cell))
			if c.Author != "" {
				fmt.Fprintf(&s, " &middot; %s", esc(c.Author))
			}
			fmt.Fprintf(&s, "</p>\n<p>%s</p>\n", esc(c.Text))
			for _, r := range c.Replies {
				fmt.Fprintf(&s, "<p class=\"comment-reply\">%s: %s</p>\n", esc(r.Author), esc(r.Text))
			}
			s.WriteString("</div>\n")
		}
	}

	if links := b.refs.hyperlinks[sheet.Name]; len(links) > 0 {
		fmt.Fprintf(&s, "<h2>Hyperlinks (%d)</h2>\n<table>\n<tr><th>Cell</th><th>Target</th></tr>\n", len(links))
		for _, h := range links {
			fmt.Fprintf(&s, "<tr><td>%s</td><td>%s</td></tr>\n", esc(h.Location.Cell), esc(h.Target))
		}
		s.WriteString("</table>\n")
	}

	if controls := b.refs.controls[sheet.Name]; len(controls) > 0 {
		fmt.Fprintf(&s, "<h2>Form Controls (%d)</h2>\n<table>\n<tr><th>Name</th><th>Type</th><th>Linked Cell</th><th>Macro</th></tr>\n", len(controls))
		for _, c := range controls {
			fmt.Fprintf(&s, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
				esc(c.Name), esc(c.ControlType), esc(c.LinkedCell), esc(c.Macro))
		}
		s.WriteString("</table>\n")
	}

	if cells := b.refs.errorCells[sheet.Name]; len(cells) > 0 {
		fmt.Fprintf(&s, "<h2>Error Cells (%d)</h2>\n<table>\n<tr><th>Cell</th><th>Error</th><th>Formula</th></tr>\n", len(cells))
		for _, e := range cells {
			fmt.Fprintf(&s, "<tr><td>%s</td><td class=\"error\">%s</td><td><code>%s</code></td></tr>\n",
				esc(e.Location.Cell), esc(string(e.ErrorType)), esc(e.Formula))
		}
		s.WriteString("</table>\n")
	}

	if modules := b.refs.sheetVBA[sheet.Name]; len(modules) > 0 {
		s.WriteString("<h2>Related VBA</h2>\n<ul>\n")
		for _, m := range modules {
			fmt.Fprintf(&s, "<li><a href=\"../workbook/vba.html#%s\">%s</a></li>\n", slug(m), esc(m))
		}
		s.WriteString("</ul>\n")
	}

	s.WriteString(pageFooter)
	name := filepath.Join("sheets", slug(sheet.Name)+".html")
	return writeFile(b.dir, name, s.String())
}

func (b *htmlBuilder) writeWorkbookPages() error {
	a := b.analysis

	if len(a.VBAModules) > 0 {
		var s strings.Builder
		s.WriteString(pageHeader("VBA Modules", "../styles.css"))
		s.WriteString("<nav class=\"breadcrumb\"><a href=\"../index.html\">&larr; Workbook</a></nav>\n")
		s.WriteString("<h1>VBA Modules</h1>\n")
		if a.VBAProjectName != "" {
			fmt.Fprintf(&s, "<p>Project: %s</p>\n", esc(a.VBAProjectName))
		}
		for _, m := range a.VBAModules {
			fmt.Fprintf(&s, "<section id=\"%s\">\n<h2>%s <span class=\"badge\">%s</span></h2>\n",
				slug(m.Name), esc(m.Name), esc(m.ModuleType))
			if len(m.Procedures) > 0 {
				fmt.Fprintf(&s, "<p>Procedures: %s</p>\n", esc(strings.Join(m.Procedures, ", ")))
			}
			fmt.Fprintf(&s, "<pre><code>%s</code></pre>\n</section>\n", esc(m.Code))
		}
		s.WriteString(pageFooter)
		if err := writeFile(b.dir, filepath.Join("workbook", "vba.html"), s.String()); err != nil {
			return err
		}
	}

	if len(a.PowerQueries) > 0 {
		var s strings.Builder
		s.WriteString(pageHeader("Power Query", "../styles.css"))
		s.WriteString("<nav class=\"breadcrumb\"><a href=\"../index.html\">&larr; Workbook</a></nav>\n")
		s.WriteString("<h1>Power Query</h1>\n")
		for _, q := range a.PowerQueries {
			fmt.Fprintf(&s, "<section id=\"%s\">\n<h2>%s</h2>\n", slug(q.Name), esc(q.Name))
			if q.Description != "" {
				fmt.Fprintf(&s, "<p>%s</p>\n", esc(q.Description))
			}
			if q.ResultType != "" {
				fmt.Fprintf(&s, "<p>Result: %s</p>\n", esc(q.ResultType))
			}
			fmt.Fprintf(&s, "<pre><code>%s</code></pre>\n</section>\n", esc(q.Formula))
		}
		s.WriteString(pageFooter)
		if err := writeFile(b.dir, filepath.Join("workbook", "power-query.html"), s.String()); err != nil {
			return err
		}
	}

	if len(a.Connections) > 0 {
		var s strings.Builder
		s.WriteString(pageHeader("Data Connections", "../styles.css"))
		s.WriteString("<nav class=\"breadcrumb\"><a href=\"../index.html\">&larr; Workbook</a></nav>\n")
		s.WriteString("<h1>Data Connections</h1>\n")
		for _, c := range a.Connections {
			fmt.Fprintf(&s, "<section>\n<h2>%s <span class=\"badge\">%s</span></h2>\n", esc(c.Name), esc(c.ConnectionType))
			if c.Description != "" {
				fmt.Fprintf(&s, "<p>%s</p>\n", esc(c.Description))
			}
			if c.ConnectionString != "" {
				fmt.Fprintf(&s, "<p>Connection string:</p>\n<pre><code>%s</code></pre>\n", esc(c.ConnectionString))
			}
			if c.CommandText != "" {
				fmt.Fprintf(&s, "<p>Command:</p>\n<pre><code>%s</code></pre>\n", esc(c.CommandText))
			}
			s.WriteString("</section>\n")
		}
		s.WriteString(pageFooter)
		if err := writeFile(b.dir, filepath.Join("workbook", "connections.html"), s.String()); err != nil {
			return err
		}
	}

	if len(a.NamedRanges) > 0 {
		var s strings.Builder
		s.WriteString(pageHeader("Named Ranges", "../styles.css"))
		s.WriteString("<nav class=\"breadcrumb\"><a href=\"../index.html\">&larr; Workbook</a></nav>\n")
		s.WriteString("<h1>Named Ranges</h1>\n<table>\n<tr><th>Name</th><th>Value</th><th>Scope</th></tr>\n")
		for _, n := range a.NamedRanges {
			scope := n.Scope
			if scope == "" {
				scope = "Global"
			}
			name := esc(n.Name)
			if n.IsLambda {
				name += " <span class=\"badge\">LAMBDA</span>"
			}
			fmt.Fprintf(&s, "<tr><td>%s</td><td><code>%s</code></td><td>%s</td></tr>\n",
				name, esc(n.Value), esc(scope))
		}
		s.WriteString("</table>\n")
		s.WriteString(pageFooter)
		if err := writeFile(b.dir, filepath.Join("workbook", "named-ranges.html"), s.String()); err != nil {
			return err
		}
	}

	return nil
}

// slug derives a URL and anchor safe name from a sheet or module name.
func slug(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r == ' ':
			return '-'
		}
		return -1
	}, name)
	if mapped == "" {
		return "sheet"
	}
	return mapped
}

const stylesCSS = `* { box-sizing: border-box; }
body {
  font-family: -apple-system, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
  margin: 0 auto;
  max-width: 1100px;
  padding: 1.5rem;
  color: #1a1a2e;
  background: #fafafa;
  line-height: 1.5;
}
header h1 { margin-bottom: 0.25rem; }
.subtitle { color: #666; margin-top: 0; }
.stats { display: flex; flex-wrap: wrap; gap: 0.75rem; margin: 1rem 0; }
.stat {
  background: #fff;
  border: 1px solid #e0e0e0;
  border-radius: 8px;
  padding: 0.75rem 1.25rem;
  text-align: center;
}
.stat-value { display: block; font-size: 1.5rem; font-weight: 700; }
.stat-label { display: block; font-size: 0.8rem; color: #666; }
.workbook-nav { display: flex; flex-wrap: wrap; gap: 1rem; margin: 1rem 0; }
.workbook-nav a {
  background: #2d6cdf;
  color: #fff;
  border-radius: 6px;
  padding: 0.5rem 1rem;
  text-decoration: none;
}
.notice {
  background: #fff8e1;
  border: 1px solid #f0d070;
  border-radius: 6px;
  padding: 0.75rem 1rem;
  margin: 1rem 0;
}
.sheet-cards {
  display: grid;
  grid-template-columns: repeat(auto-fill, minmax(240px, 1fr));
  gap: 1rem;
}
.sheet-card {
  background: #fff;
  border: 1px solid #e0e0e0;
  border-radius: 8px;
  padding: 1rem;
  text-decoration: none;
  color: inherit;
}
.sheet-card:hover { border-color: #2d6cdf; }
.sheet-card h3 { margin: 0 0 0.25rem; }
.sheet-card p { margin: 0 0 0.5rem; color: #666; font-size: 0.85rem; }
.sheet-hidden, .sheet-very-hidden { opacity: 0.65; }
.badge {
  display: inline-block;
  background: #eef2fb;
  color: #2d4a8a;
  border-radius: 10px;
  font-size: 0.72rem;
  padding: 0.1rem 0.55rem;
  margin: 0 0.25rem 0.25rem 0;
}
.badge-hidden { background: #fbeeee; color: #8a2d2d; }
.breadcrumb { margin-bottom: 1rem; }
.breadcrumb a { color: #2d6cdf; text-decoration: none; }
table { border-collapse: collapse; width: 100%; margin: 0.5rem 0 1.5rem; background: #fff; }
th, td { border: 1px solid #e0e0e0; padding: 0.4rem 0.7rem; text-align: left; font-size: 0.9rem; }
th { background: #f4f6fa; }
table.props { width: auto; }
table.props th { width: 10rem; }
code {
  font-family: "SF Mono", Consolas, Menlo, monospace;
  font-size: 0.85em;
  background: #f4f4f6;
  border-radius: 3px;
  padding: 0.05rem 0.3rem;
}
pre {
  background: #1e1e2e;
  color: #e6e6ef;
  border-radius: 8px;
  padding: 1rem;
  overflow-x: auto;
}
pre code { background: none; color: inherit; padding: 0; }
.error { color: #b02a2a; font-weight: 600; }
.comment { background: #fff; border: 1px solid #e0e0e0; border-radius: 6px; padding: 0.6rem 1rem; margin: 0.5rem 0; }
.comment-meta { color: #666; font-size: 0.8rem; margin: 0 0 0.25rem; }
.comment-reply { margin: 0.25rem 0 0 1rem; color: #444; font-size: 0.9rem; }
.screenshot { max-width: 100%; border: 1px solid #e0e0e0; border-radius: 6px; }
.swatch {
  display: inline-block;
  width: 0.9rem;
  height: 0.9rem;
  border: 1px solid #ccc;
  border-radius: 3px;
  vertical-align: middle;
}
.notes li { margin: 0.25rem 0; }
.note-error { color: #b02a2a; }
.note-warning { color: #9a6b00; }
`
