package atomcss

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/atomcss/internal/css"
	"github.com/yacobolo/atomcss/internal/extractor"
)

func TestLint(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.tsx":      boxApp(`bg={() => "red"}`),
		"broken.tsx": boxImport + "export const App = () => <Box p={1} ;",
		"ok.tsx":     boxApp("p={1}"),
		"plain.ts":   "export const x = 1;\n",
	})

	result, err := Lint(context.Background(), LintConfig{Config: Config{Root: root}})
	require.NoError(t, err)

	assert.Equal(t, 4, result.FilesScanned)
	assert.Equal(t, 2, result.FilesWithStyle)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Equal(t, 1, result.WarningCount)
	assert.Equal(t, map[string]int{"bg": 1}, result.PropCounts)
	assert.Equal(t, map[css.PropertyCategory]int{css.CategoryVisual: 1}, result.CategoryCounts)

	require.Len(t, result.Issues, 2)
	warn := result.Issues[0]
	assert.Equal(t, LinterName, warn.FromLinter)
	assert.Equal(t, SeverityWarning, warn.Severity)
	assert.Equal(t, `style prop "bg" could not be extracted`, warn.Text)
	assert.Equal(t, IssuePos{Filename: "a.tsx", Line: 2, Column: 31}, warn.Pos)
	assert.Equal(t, []string{`export const App = () => <Box bg={() => "red"} />;`}, warn.SourceLines)

	syntax := result.Issues[1]
	assert.Equal(t, "broken.tsx", syntax.Pos.Filename)
	assert.Equal(t, SeverityError, syntax.Severity)
	assert.Equal(t, "syntax error", syntax.Text)
	assert.Positive(t, syntax.Pos.Line)
}

func TestLintMaxIssues(t *testing.T) {
	root := t.TempDir()
	files := make(map[string]string)
	for i := 0; i < 5; i++ {
		files[fmt.Sprintf("f%d.tsx", i)] = boxApp(`bg={() => "red"}`)
	}
	writeTree(t, root, files)

	result, err := Lint(context.Background(), LintConfig{Config: Config{Root: root}, MaxIssues: 2})
	require.NoError(t, err)

	require.Len(t, result.Issues, 2)
	assert.Equal(t, 3, result.TruncatedCount)
	assert.Equal(t, 5, result.WarningCount)
	assert.Equal(t, "f0.tsx", result.Issues[0].Pos.Filename)
}

func TestLimitIssues(t *testing.T) {
	issues := []Issue{
		{Text: "a"}, {Text: "a"}, {Text: "a"}, {Text: "b"}, {Text: "c"},
	}

	tests := []struct {
		name          string
		config        LintConfig
		wantTexts     []string
		wantTruncated int
	}{
		{"unlimited", LintConfig{}, []string{"a", "a", "a", "b", "c"}, 0},
		{"max issues", LintConfig{MaxIssues: 2}, []string{"a", "a"}, 3},
		{"max same issues", LintConfig{MaxSameIssues: 1}, []string{"a", "b", "c"}, 2},
		{"both", LintConfig{MaxIssues: 2, MaxSameIssues: 1}, []string{"a", "b"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := limitIssues(append([]Issue(nil), issues...), tt.config)
			texts := make([]string, len(got))
			for i, is := range got {
				texts[i] = is.Text
			}
			assert.Equal(t, tt.wantTexts, texts)
			assert.Equal(t, tt.wantTruncated, truncated)
		})
	}
}

func TestParseIssuePosition(t *testing.T) {
	lines := []string{"one", "two", "three"}
	is := parseIssue("x.tsx", fmt.Errorf("%w: x.tsx:3:5", extractor.ErrParse), lines)

	assert.Equal(t, "syntax error", is.Text)
	assert.Equal(t, IssuePos{Filename: "x.tsx", Line: 3, Column: 5}, is.Pos)
	assert.Equal(t, []string{"three"}, is.SourceLines)
}
