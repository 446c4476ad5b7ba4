package atomcss

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLintResult() *LintResult {
	return &LintResult{
		FilesScanned:   10,
		FilesWithStyle: 4,
		ErrorCount:     1,
		WarningCount:   1,
		PropCounts:     map[string]int{"bg": 1},
		Issues: []Issue{
			{
				FromLinter:  LinterName,
				Text:        `style prop "bg" could not be extracted`,
				Severity:    SeverityWarning,
				SourceLines: []string{`<Box bg={() => "red"} />`},
				Pos:         IssuePos{Filename: "a.tsx", Line: 10, Column: 6},
				Prop:        "bg",
			},
			{
				FromLinter: LinterName,
				Text:       "syntax error",
				Severity:   SeverityError,
				Pos:        IssuePos{Filename: "b.tsx", Line: 3, Column: 1},
			},
		},
	}
}

func TestDetermineOutputFormat(t *testing.T) {
	tests := []struct {
		name       string
		formatFlag string
		quiet      bool
		expected   OutputFormat
	}{
		{
			name:     "explicit quiet flag",
			quiet:    true,
			expected: OutputIssues,
		},
		{
			name:       "explicit issues format",
			formatFlag: "issues",
			expected:   OutputIssues,
		},
		{
			name:       "explicit summary format",
			formatFlag: "summary",
			expected:   OutputSummary,
		},
		{
			name:       "explicit full format",
			formatFlag: "full",
			expected:   OutputFull,
		},
		{
			name:       "explicit json format",
			formatFlag: "json",
			expected:   OutputJSON,
		},
		{
			name:       "unknown format falls back to issues",
			formatFlag: "xml",
			expected:   OutputIssues,
		},
		{
			name:     "default format is issues",
			expected: OutputIssues,
		},
		{
			name:       "quiet overrides format flag",
			formatFlag: "full",
			quiet:      true,
			expected:   OutputIssues,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetermineOutputFormat(tt.formatFlag, tt.quiet))
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleLintResult()))

	var output JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))

	assert.Equal(t, "1.0", output.Version)
	assert.NotEmpty(t, output.Timestamp)
	assert.Equal(t, JSONSummary{TotalIssues: 2, Errors: 1, Warnings: 1, FilesScanned: 10, FilesWithStyle: 4}, output.Summary)
	assert.Equal(t, []JSONProp{{Prop: "bg", Count: 1}}, output.Props)

	require.Len(t, output.Issues, 2)
	assert.Equal(t, JSONIssue{
		File:     "a.tsx",
		Line:     10,
		Column:   6,
		Severity: SeverityWarning,
		Message:  `style prop "bg" could not be extracted`,
		Linter:   LinterName,
		Prop:     "bg",
		Source:   `<Box bg={() => "red"} />`,
	}, output.Issues[0])
	assert.Empty(t, output.Issues[1].Source)
}

func TestBuildJSONOutputTimestamp(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	output := buildJSONOutput(&LintResult{TruncatedCount: 3}, now)

	assert.Equal(t, "2026-01-02T03:04:05Z", output.Timestamp)
	assert.Equal(t, 3, output.Summary.TotalIssues)
	assert.Equal(t, 3, output.Summary.Truncated)
	assert.Empty(t, output.Issues)
}

func TestWriteOutput_AllFormats(t *testing.T) {
	tests := []struct {
		format   OutputFormat
		contains []string
		excludes []string
	}{
		{
			format:   OutputIssues,
			contains: []string{"a.tsx:10:6:", "2 issues (1 error, 1 warning):", "* bg: 1"},
			excludes: []string{"atomcss Statistics"},
		},
		{
			format:   OutputSummary,
			contains: []string{"atomcss Statistics", "Files Scanned:      10", "Props Left In Source"},
			excludes: []string{"a.tsx:10:6:"},
		},
		{
			format:   OutputFull,
			contains: []string{"a.tsx:10:6:", "atomcss Statistics"},
		},
		{
			format:   OutputJSON,
			contains: []string{`"total_issues": 2`, `"file": "a.tsx"`},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			WriteOutput(&buf, sampleLintResult(), tt.format, LintConfig{PrintIssuedLines: true, PrintLinterName: true})
			out := buf.String()
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}
