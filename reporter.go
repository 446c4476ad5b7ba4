package atomcss

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/yacobolo/atomcss/internal/css"
)

// Reporter handles formatting and outputting lint and build results
type Reporter struct {
	w               io.Writer
	useColors       bool
	printLines      bool
	printLinterName bool
}

// NewReporter creates a new reporter with the given configuration
func NewReporter(w io.Writer, config LintConfig) *Reporter {
	return &Reporter{
		w:               w,
		useColors:       shouldUseColors(config.UseColors),
		printLines:      config.PrintIssuedLines,
		printLinterName: config.PrintLinterName,
	}
}

// shouldUseColors determines if colors should be enabled
func shouldUseColors(force bool) bool {
	// Explicit flag wins
	if force {
		return true
	}

	// FORCE_COLOR is honored by most CI systems
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	// GitHub Actions supports colors
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}

	// Auto-detect TTY
	if fileInfo, err := os.Stdout.Stat(); err == nil && (fileInfo.Mode()&os.ModeCharDevice) != 0 {
		return true
	}

	return false
}

// PrintIssues outputs issues in golangci-lint format
func (r *Reporter) PrintIssues(issues []Issue) {
	sortIssues(issues)
	for _, issue := range issues {
		r.printIssue(issue)
	}
}

// printIssue formats a single issue in golangci-lint style
func (r *Reporter) printIssue(issue Issue) {
	// Format: file:line:col: message (linter)
	location := fmt.Sprintf("%s:%d:%d:", issue.Pos.Filename, issue.Pos.Line, issue.Pos.Column)

	linterSuffix := ""
	if r.printLinterName {
		linterSuffix = fmt.Sprintf(" (%s)", issue.FromLinter)
	}

	text := issue.Text
	if issue.Severity == SeverityError {
		text = RenderStyle(StyleRed, text, r.useColors)
	}
	fmt.Fprintf(r.w, "%s %s%s\n",
		RenderStyle(StyleCyan, location, r.useColors),
		text,
		RenderStyle(StyleGray, linterSuffix, r.useColors))

	if r.printLines && len(issue.SourceLines) > 0 {
		for _, line := range issue.SourceLines {
			fmt.Fprintf(r.w, "\t%s\n", line)
		}

		caret := r.buildCaretIndicator(issue.SourceLines[0], issue.Pos.Column)
		fmt.Fprintf(r.w, "\t%s\n", RenderStyle(StyleYellow, caret, r.useColors))
	}
}

// buildCaretIndicator creates the "^" indicator aligned with the column.
// Tabs in the prefix are kept so the caret lines up in any tab width.
func (r *Reporter) buildCaretIndicator(sourceLine string, column int) string {
	if column <= 0 {
		return "^"
	}

	prefixLen := column - 1
	if prefixLen > len(sourceLine) {
		prefixLen = len(sourceLine)
	}

	var padding strings.Builder
	for _, ch := range sourceLine[:prefixLen] {
		if ch == '\t' {
			padding.WriteRune('\t')
		} else {
			padding.WriteRune(' ')
		}
	}

	return padding.String() + "^"
}

// PrintSummary outputs the issue count summary
func (r *Reporter) PrintSummary(result LintResult) {
	totalIssues := len(result.Issues) + result.TruncatedCount
	truncated := result.TruncatedCount
	errors, warnings := result.ErrorCount, result.WarningCount

	fmt.Fprintln(r.w, "")

	if errors > 0 && warnings > 0 {
		if truncated > 0 {
			fmt.Fprintf(r.w, "%s (%s, %s; %s truncated):\n",
				pluralizeCount(totalIssues, "issue", "issues"),
				pluralizeCount(errors, "error", "errors"),
				pluralizeCount(warnings, "warning", "warnings"),
				pluralizeCount(truncated, "issue", "issues"))
		} else {
			fmt.Fprintf(r.w, "%s (%s, %s):\n",
				pluralizeCount(totalIssues, "issue", "issues"),
				pluralizeCount(errors, "error", "errors"),
				pluralizeCount(warnings, "warning", "warnings"))
		}
	} else {
		if truncated > 0 {
			fmt.Fprintf(r.w, "%s (%s truncated):\n",
				pluralizeCount(totalIssues, "issue", "issues"),
				pluralizeCount(truncated, "issue", "issues"))
		} else {
			fmt.Fprintf(r.w, "%s:\n", pluralizeCount(totalIssues, "issue", "issues"))
		}
	}

	for _, pc := range sortedPropCounts(result.PropCounts) {
		fmt.Fprintf(r.w, "* %s: %d\n", pc.prop, pc.count)
	}

	if totalIssues > 0 {
		fmt.Fprintln(r.w, "")
		fmt.Fprintln(r.w, RenderStyle(StyleGray, "Hint: Run with --output-format full to see statistics", r.useColors))
	}
}

// PrintStatistics outputs lint statistics
func (r *Reporter) PrintStatistics(result LintResult) {
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "atomcss Statistics", r.useColors))
	fmt.Fprintln(r.w, "------------------")

	fmt.Fprintf(r.w, "Files Scanned:      %d\n", result.FilesScanned)
	fmt.Fprintf(r.w, "Files With Styles:  %d\n", result.FilesWithStyle)
	fmt.Fprintf(r.w, "Syntax Errors:      %d\n", result.ErrorCount)
	fmt.Fprintf(r.w, "Un-extracted Props: %d\n", result.WarningCount)

	if len(result.CategoryCounts) > 0 {
		fmt.Fprintln(r.w, "")
		fmt.Fprintln(r.w, RenderStyle(StyleCyan, "By Category", r.useColors))
		fmt.Fprintln(r.w, "-----------")
		for _, cat := range categoryOrder {
			if n := result.CategoryCounts[cat]; n > 0 {
				fmt.Fprintf(r.w, "  %-16s %d\n", cat, n)
			}
		}
	}

	counts := sortedPropCounts(result.PropCounts)
	if len(counts) == 0 {
		return
	}
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Props Left In Source", r.useColors))
	fmt.Fprintln(r.w, "--------------------")
	for i, pc := range counts {
		if i >= 10 {
			fmt.Fprintf(r.w, "  ... and %d more\n", len(counts)-10)
			break
		}
		fmt.Fprintf(r.w, "  %-16s %d\n", pc.prop, pc.count)
	}
}

// PrintBuildResult outputs what a build extracted and wrote
func (r *Reporter) PrintBuildResult(result *BuildResult) {
	fmt.Fprintf(r.w, "%s %s, %s extracted, %s written\n",
		RenderStyle(StyleGreen, "Built", r.useColors),
		pluralizeCount(result.FilesScanned, "file", "files"),
		pluralizeCount(result.FilesExtracted, "file", "files"),
		pluralizeCount(len(result.Sheets), "stylesheet", "stylesheets"))
	if result.CacheHits > 0 {
		fmt.Fprintln(r.w, RenderStyle(StyleGray, fmt.Sprintf("  %d unchanged (cached)", result.CacheHits), r.useColors))
	}
	for _, fr := range result.Files {
		if fr.Err != nil {
			fmt.Fprintf(r.w, "  %s %s\n", RenderStyle(StyleRed, "failed", r.useColors), fr.Err)
		}
	}
}

var categoryOrder = []css.PropertyCategory{
	css.CategoryLayout,
	css.CategoryVisual,
	css.CategoryTypography,
	css.CategoryEffects,
	css.CategoryCustom,
	css.CategoryInternal,
}

type propCount struct {
	prop  string
	count int
}

// sortedPropCounts orders props by count, most frequent first
func sortedPropCounts(counts map[string]int) []propCount {
	ret := make([]propCount, 0, len(counts))
	for p, c := range counts {
		ret = append(ret, propCount{prop: p, count: c})
	}
	sort.Slice(ret, func(i, j int) bool {
		if ret[i].count != ret[j].count {
			return ret[i].count > ret[j].count
		}
		return ret[i].prop < ret[j].prop
	})
	return ret
}

// pluralizeCount returns a formatted string with count and singular/plural form
func pluralizeCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
