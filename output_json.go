package atomcss

import (
	"encoding/json"
	"io"
	"time"
)

// JSONOutput represents the structured JSON export schema
type JSONOutput struct {
	Version   string      `json:"version"`
	Timestamp string      `json:"timestamp"`
	Summary   JSONSummary `json:"summary"`
	Props     []JSONProp  `json:"props"`
	Issues    []JSONIssue `json:"issues"`
}

// JSONSummary contains high-level issue counts
type JSONSummary struct {
	TotalIssues    int `json:"total_issues"`
	Errors         int `json:"errors"`
	Warnings       int `json:"warnings"`
	Truncated      int `json:"truncated"`
	FilesScanned   int `json:"files_scanned"`
	FilesWithStyle int `json:"files_with_style"`
}

// JSONProp counts the issues of one style prop
type JSONProp struct {
	Prop  string `json:"prop"`
	Count int    `json:"count"`
}

// JSONIssue represents a single lint issue
type JSONIssue struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Linter   string `json:"linter"`
	Prop     string `json:"prop,omitempty"`
	Source   string `json:"source,omitempty"` // Optional source line
}

// WriteJSON writes the lint result as JSON
func WriteJSON(w io.Writer, result *LintResult) error {
	output := buildJSONOutput(result, time.Now())
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// buildJSONOutput converts LintResult to JSONOutput
func buildJSONOutput(result *LintResult, now time.Time) JSONOutput {
	jsonIssues := make([]JSONIssue, len(result.Issues))
	for i, issue := range result.Issues {
		source := ""
		if len(issue.SourceLines) > 0 {
			source = issue.SourceLines[0]
		}
		jsonIssues[i] = JSONIssue{
			File:     issue.Pos.Filename,
			Line:     issue.Pos.Line,
			Column:   issue.Pos.Column,
			Severity: issue.Severity,
			Message:  issue.Text,
			Linter:   issue.FromLinter,
			Prop:     issue.Prop,
			Source:   source,
		}
	}

	counts := sortedPropCounts(result.PropCounts)
	props := make([]JSONProp, len(counts))
	for i, pc := range counts {
		props[i] = JSONProp{Prop: pc.prop, Count: pc.count}
	}

	return JSONOutput{
		Version:   "1.0",
		Timestamp: now.Format(time.RFC3339),
		Summary: JSONSummary{
			TotalIssues:    len(result.Issues) + result.TruncatedCount,
			Errors:         result.ErrorCount,
			Warnings:       result.WarningCount,
			Truncated:      result.TruncatedCount,
			FilesScanned:   result.FilesScanned,
			FilesWithStyle: result.FilesWithStyle,
		},
		Props:  props,
		Issues: jsonIssues,
	}
}
