package atomcss

// Issue represents a single lint finding in golangci-lint format
type Issue struct {
	FromLinter  string     `json:"FromLinter"`  // "atomcss"
	Text        string     `json:"Text"`        // "style prop \"bg\" has a runtime value and stays in the source"
	Severity    string     `json:"Severity"`    // "", "warning", "error"
	SourceLines []string   `json:"SourceLines"` // Lines of code with issue
	Pos         IssuePos   `json:"Pos"`         // File location
	LineRange   *LineRange `json:"LineRange"`   // Optional range
	Prop        string     `json:"Prop,omitempty"`
}

// IssuePos specifies the exact location of an issue
type IssuePos struct {
	Filename string `json:"Filename"` // "src/components/card.tsx"
	Line     int    `json:"Line"`     // 35
	Column   int    `json:"Column"`   // 15 (1-based)
}

// LineRange specifies a range of lines
type LineRange struct {
	From int `json:"From"`
	To   int `json:"To"`
}

// IssueSeverity constants
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = ""
)

// LinterName is reported as FromLinter on every issue.
const LinterName = "atomcss"
