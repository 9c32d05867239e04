package extract

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

// chartTypeNames maps the plot area element of a chart part to a readable
// type name. Unknown plot types keep their element name.
var chartTypeNames = map[string]string{
	"areaChart":      "Area Chart",
	"area3DChart":    "3D Area Chart",
	"barChart":       "Bar Chart",
	"bar3DChart":     "3D Bar Chart",
	"bubbleChart":    "Bubble Chart",
	"doughnutChart":  "Doughnut Chart",
	"lineChart":      "Line Chart",
	"line3DChart":    "3D Line Chart",
	"pieChart":       "Pie Chart",
	"pie3DChart":     "3D Pie Chart",
	"ofPieChart":     "Projected Pie Chart",
	"radarChart":     "Radar Chart",
	"scatterChart":   "Scatter Chart",
	"stockChart":     "Stock Chart",
	"surfaceChart":   "Surface Chart",
	"surface3DChart": "3D Surface Chart",
}

// ExtractCharts extracts chart definitions by following each sheet's drawing
// part to its chart parts.
func ExtractCharts(a *Archive) ([]models.ChartInfo, error) {
	var charts []models.ChartInfo

	for _, sheetName := range a.SheetNames() {
		for _, rel := range a.SheetRels(sheetName) {
			if !strings.Contains(strings.ToLower(rel.Type), "drawing") {
				continue
			}
			drawingPath := resolvePartPath(rel.Target, "xl/worksheets")
			charts = append(charts, extractDrawingCharts(a, drawingPath, sheetName)...)
		}
	}

	return charts, nil
}

// chartAnchor is a chart reference inside a drawing with its anchor cell.
type chartAnchor struct {
	relID string
	col   int
	row   int
}

// extractDrawingCharts resolves chart anchors in one drawing part.
func extractDrawingCharts(a *Archive, drawingPath, sheetName string) []models.ChartInfo {
	data, err := a.Read(drawingPath)
	if err != nil || data == nil {
		return nil
	}

	relTargets := make(map[string]string)
	for _, rel := range a.partRels(drawingPath) {
		if strings.Contains(strings.ToLower(rel.Type), "chart") {
			relTargets[rel.ID] = resolvePartPath(rel.Target, "xl/drawings")
		}
	}
	if len(relTargets) == 0 {
		return nil
	}

	var charts []models.ChartInfo
	for i, anchor := range parseChartAnchors(data) {
		chartPath, ok := relTargets[anchor.relID]
		if !ok {
			continue
		}
		chartData, err := a.Read(chartPath)
		if err != nil || chartData == nil {
			continue
		}

		info := parseChartPart(chartData)
		info.Sheet = sheetName
		info.Position = fmt.Sprintf("Col %d, Row %d", anchor.col, anchor.row)
		if info.Name == "" {
			info.Name = fmt.Sprintf("Chart %d", i+1)
		}
		charts = append(charts, info)
	}

	return charts
}

// parseChartAnchors collects chart relationship IDs and their anchor cells
// from a drawing part.
func parseChartAnchors(data []byte) []chartAnchor {
	var anchors []chartAnchor

	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	var current chartAnchor
	var inFrom bool

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "twoCellAnchor", "oneCellAnchor", "absoluteAnchor":
				current = chartAnchor{}
			case "from":
				inFrom = true
			case "col":
				if inFrom {
					current.col = atoiDefault(readElementText(decoder), 0)
				}
			case "row":
				if inFrom {
					current.row = atoiDefault(readElementText(decoder), 0)
				}
			case "chart":
				for _, attr := range t.Attr {
					if attr.Name.Local == "id" {
						current.relID = attr.Value
					}
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "from":
				inFrom = false
			case "twoCellAnchor", "oneCellAnchor", "absoluteAnchor":
				if current.relID != "" {
					anchors = append(anchors, current)
				}
			}
		}
	}

	return anchors
}

// parseChartPart reads the chart type, title, and first series range from a
// chart part.
func parseChartPart(data []byte) models.ChartInfo {
	info := models.ChartInfo{ChartType: "Chart"}

	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	var inTitle, inPlotArea, inVal bool
	var titleText string

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "title":
				inTitle = true
			case "t":
				if inTitle {
					titleText += readElementText(decoder)
				}
			case "plotArea":
				inPlotArea = true
			case "val":
				inVal = true
			case "f":
				if inVal && info.DataRange == "" {
					info.DataRange = readElementText(decoder)
				}
			default:
				if inPlotArea {
					if name, ok := chartTypeNames[t.Name.Local]; ok {
						info.ChartType = name
					}
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "title":
				inTitle = false
			case "plotArea":
				inPlotArea = false
			case "val":
				inVal = false
			}
		}
	}

	titleText = strings.TrimSpace(titleText)
	if titleText != "" {
		info.Title = titleText
		info.Name = titleText
	}
	return info
}
