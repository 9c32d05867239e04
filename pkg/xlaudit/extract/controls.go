package extract

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

// vmlObjectTypes maps VML ClientData ObjectType values to control type
// names. Unknown types keep the raw value.
var vmlObjectTypes = map[string]string{
	"Button":   "Button",
	"Checkbox": "CheckBox",
	"CheckBox": "CheckBox",
	"Drop":     "ComboBox",
	"Edit":     "EditBox",
	"GBox":     "GroupBox",
	"Label":    "Label",
	"List":     "ListBox",
	"Radio":    "OptionButton",
	"Scroll":   "ScrollBar",
	"Spin":     "SpinButton",
	"Note":     "Comment",
}

// ExtractControls extracts shapes, pictures, and form controls. Plain shapes
// come from the drawing parts; form controls live in the legacy VML drawings.
func ExtractControls(a *Archive) ([]models.ControlInfo, error) {
	var controls []models.ControlInfo

	for _, sheetName := range a.SheetNames() {
		for _, rel := range a.SheetRels(sheetName) {
			relType := strings.ToLower(rel.Type)
			switch {
			case strings.Contains(relType, "vmldrawing"):
				partPath := resolvePartPath(rel.Target, "xl/worksheets")
				if data, err := a.Read(partPath); err == nil && data != nil {
					controls = append(controls, parseVMLControls(data, sheetName)...)
				}
			case strings.Contains(relType, "drawing"):
				partPath := resolvePartPath(rel.Target, "xl/worksheets")
				if data, err := a.Read(partPath); err == nil && data != nil {
					controls = append(controls, parseDrawingShapes(data, sheetName)...)
				}
			}
		}
	}

	return controls, nil
}

// parseDrawingShapes collects shape and picture elements from a drawing
// part. Chart frames are handled by the chart extractor.
func parseDrawingShapes(data []byte, sheetName string) []models.ControlInfo {
	var controls []models.ControlInfo

	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	var anchorCol, anchorRow int
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
				anchorCol, anchorRow = 0, 0
			case "from":
				inFrom = true
			case "col":
				if inFrom {
					anchorCol = atoiDefault(readElementText(decoder), 0)
				}
			case "row":
				if inFrom {
					anchorRow = atoiDefault(readElementText(decoder), 0)
				}
			case "sp":
				if info, ok := parseDrawingShape(decoder, sheetName, "Shape"); ok {
					info.Position = fmt.Sprintf("Col %d, Row %d", anchorCol, anchorRow)
					controls = append(controls, info)
				}
			case "pic":
				if info, ok := parseDrawingShape(decoder, sheetName, "Picture"); ok {
					info.Position = fmt.Sprintf("Col %d, Row %d", anchorCol, anchorRow)
					controls = append(controls, info)
				}
			}
		case xml.EndElement:
			if t.Name.Local == "from" {
				inFrom = false
			}
		}
	}

	return controls
}

// parseDrawingShape reads one sp or pic element.
func parseDrawingShape(decoder *xml.Decoder, sheetName, controlType string) (models.ControlInfo, bool) {
	info := models.ControlInfo{Sheet: sheetName, ControlType: controlType, Name: controlType}
	var texts []string

	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "cNvPr":
				if name := attrValue(t, "name"); name != "" {
					info.Name = name
				}
			case "t":
				texts = append(texts, readElementText(decoder))
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	if len(texts) > 0 {
		info.Text = strings.Join(texts, " ")
	}
	return info, true
}

// parseVMLControls collects form controls from a legacy VML drawing. Each
// control is a shape whose ClientData carries an ObjectType plus optional
// linked cell and macro bindings.
func parseVMLControls(data []byte, sheetName string) []models.ControlInfo {
	var controls []models.ControlInfo

	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	decoder.Strict = false

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "shape" {
			continue
		}

		if info, ok := parseVMLShape(decoder, sheetName); ok {
			info.Name = fmt.Sprintf("%s %d", info.ControlType, len(controls)+1)
			controls = append(controls, info)
		}
	}

	return controls
}

// parseVMLShape reads one VML shape element looking for ClientData.
func parseVMLShape(decoder *xml.Decoder, sheetName string) (models.ControlInfo, bool) {
	info := models.ControlInfo{Sheet: sheetName}
	var texts []string

	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "ClientData":
				objectType := attrValue(t, "ObjectType")
				if mapped, ok := vmlObjectTypes[objectType]; ok {
					info.ControlType = mapped
				} else {
					info.ControlType = objectType
				}
			case "FmlaLink":
				info.LinkedCell = strings.TrimSpace(readElementText(decoder))
				depth--
			case "FmlaMacro":
				info.Macro = strings.TrimSpace(readElementText(decoder))
				depth--
			case "TextBox":
				texts = append(texts, strings.TrimSpace(readElementText(decoder)))
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	if len(texts) > 0 {
		info.Text = strings.TrimSpace(strings.Join(texts, " "))
	}
	// Comment anchors in VML are note placeholders, not controls.
	return info, info.ControlType != "" && info.ControlType != "Comment"
}
