package models

// CommentInfo describes a cell comment, note, or threaded comment.
type CommentInfo struct {
	// Location is the commented cell.
	Location CellReference `json:"location"`
	// Author is the comment author, if recorded.
	Author string `json:"author,omitempty"`
	// Text is the comment body.
	Text string `json:"text"`
	// IsThreaded indicates a modern threaded comment rather than a legacy note.
	IsThreaded bool `json:"is_threaded,omitempty"`
	// Replies lists threaded replies in order.
	Replies []CommentInfo `json:"replies,omitempty"`
}

// HyperlinkInfo describes a cell hyperlink.
type HyperlinkInfo struct {
	// Location is the linking cell.
	Location CellReference `json:"location"`
	// Target is the link target URL or reference.
	Target string `json:"target"`
	// DisplayText is the visible cell text, if any.
	DisplayText string `json:"display_text,omitempty"`
	// Tooltip is the hover tooltip, if any.
	Tooltip string `json:"tooltip,omitempty"`
	// IsExternal indicates the target is outside the workbook.
	IsExternal bool `json:"is_external,omitempty"`
}
