package extract

import (
	"encoding/xml"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/okdsh/xlaudit/pkg/xlaudit/models"
)

// ExtractComments extracts classic cell notes and modern threaded comments.
func ExtractComments(f *excelize.File, a *Archive) ([]models.CommentInfo, error) {
	var comments []models.CommentInfo

	for _, sheetName := range f.GetSheetList() {
		sheetComments, err := f.GetComments(sheetName)
		if err != nil {
			continue
		}
		for _, c := range sheetComments {
			col, row, err := excelize.CellNameToCoordinates(c.Cell)
			if err != nil {
				continue
			}
			text := c.Text
			if text == "" {
				for _, run := range c.Paragraph {
					text += run.Text
				}
			}
			comments = append(comments, models.CommentInfo{
				Location: models.CellReference{Sheet: sheetName, Cell: c.Cell, Row: row, Col: col},
				Author:   c.Author,
				Text:     text,
			})
		}
	}

	comments = append(comments, extractThreadedComments(a)...)
	return comments, nil
}

// extractThreadedComments reads xl/threadedComments parts, resolving authors
// through xl/persons/person.xml and grouping replies under their root
// comment.
func extractThreadedComments(a *Archive) []models.CommentInfo {
	persons := loadPersons(a)

	var comments []models.CommentInfo
	for _, sheetName := range a.SheetNames() {
		for _, rel := range a.SheetRels(sheetName) {
			if !strings.Contains(strings.ToLower(rel.Type), "threadedcomment") {
				continue
			}
			partPath := resolvePartPath(rel.Target, "xl/worksheets")
			data, err := a.Read(partPath)
			if err != nil || data == nil {
				continue
			}
			comments = append(comments, parseThreadedComments(data, sheetName, persons)...)
		}
	}
	return comments
}

// loadPersons maps person IDs to display names from xl/persons/person.xml.
func loadPersons(a *Archive) map[string]string {
	persons := make(map[string]string)
	data, err := a.Read("xl/persons/person.xml")
	if err != nil || data == nil {
		return persons
	}

	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "person" {
			id := attrValue(se, "id")
			name := attrValue(se, "displayName")
			if id != "" && name != "" {
				persons[id] = name
			}
		}
	}
	return persons
}

// parseThreadedComments reads one threadedComment part. Root comments carry
// no parentId; replies are attached to the root for their cell.
func parseThreadedComments(data []byte, sheetName string, persons map[string]string) []models.CommentInfo {
	type thread struct {
		root    *models.CommentInfo
		replies []models.CommentInfo
	}
	threads := make(map[string]*thread)
	var order []string

	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "threadedComment" {
			continue
		}

		ref := attrValue(se, "ref")
		parentID := attrValue(se, "parentId")
		personID := attrValue(se, "personId")

		author := persons[personID]
		if author == "" && personID != "" {
			author = "User " + personID
		}

		var text string
		depth := 1
		for depth > 0 {
			inner, err := decoder.Token()
			if err != nil {
				break
			}
			switch t := inner.(type) {
			case xml.StartElement:
				depth++
				if t.Name.Local == "text" {
					text = readElementText(decoder)
					depth--
				}
			case xml.EndElement:
				depth--
			}
		}

		col, row, err := excelize.CellNameToCoordinates(ref)
		if err != nil {
			continue
		}
		comment := models.CommentInfo{
			Location:   models.CellReference{Sheet: sheetName, Cell: ref, Row: row, Col: col},
			Author:     author,
			Text:       text,
			IsThreaded: true,
		}

		t, ok := threads[ref]
		if !ok {
			t = &thread{}
			threads[ref] = t
			order = append(order, ref)
		}
		if parentID == "" {
			t.root = &comment
		} else {
			t.replies = append(t.replies, comment)
		}
	}

	var comments []models.CommentInfo
	for _, ref := range order {
		t := threads[ref]
		if t.root == nil {
			if len(t.replies) == 0 {
				continue
			}
			t.root = &t.replies[0]
			t.replies = t.replies[1:]
		}
		t.root.Replies = t.replies
		comments = append(comments, *t.root)
	}
	return comments
}
