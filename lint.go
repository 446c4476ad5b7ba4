package atomcss

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yacobolo/atomcss/internal/css"
	"github.com/yacobolo/atomcss/internal/extractor"
)

// parseErrorPos finds the "file:line:col" suffix of parse errors.
var parseErrorPos = regexp.MustCompile(`:(\d+):(\d+)$`)

// Lint extracts every source file without writing anything and reports the
// style inputs that stay in the source, plus files that fail to parse.
func Lint(ctx context.Context, config LintConfig) (*LintResult, error) {
	cfg := config.Config.withDefaults()
	files, _, err := ScanFiles(cfg)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	// Names are irrelevant here; one numbering serves every worker.
	cctx := css.NewContext()
	opts := cfg.extractorOptions()
	perFile := make([][]Issue, len(files))
	styled := make([]bool, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, f := range files {
		g.Go(func() error {
			data, err := os.ReadFile(filepath.Join(cfg.Root, filepath.FromSlash(f)))
			if err != nil {
				return fmt.Errorf("read %s: %w", f, err)
			}
			code := string(data)
			lines := strings.Split(code, "\n")

			out, err := extractor.ExtractContext(gctx, cctx, f, code, opts)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				perFile[i] = []Issue{parseIssue(f, err, lines)}
				return nil
			}
			styled[i] = len(out.Styles) > 0 || len(out.Issues) > 0
			for _, is := range out.Issues {
				perFile[i] = append(perFile[i], Issue{
					FromLinter:  LinterName,
					Text:        is.Message,
					Severity:    SeverityWarning,
					SourceLines: sourceLine(lines, is.Line),
					Pos:         IssuePos{Filename: f, Line: is.Line, Column: is.Column},
					Prop:        is.Prop,
				})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &LintResult{
		FilesScanned:   len(files),
		PropCounts:     make(map[string]int),
		CategoryCounts: make(map[css.PropertyCategory]int),
	}
	for i := range files {
		if styled[i] {
			result.FilesWithStyle++
		}
		result.Issues = append(result.Issues, perFile[i]...)
	}
	sortIssues(result.Issues)

	for _, is := range result.Issues {
		switch is.Severity {
		case SeverityError:
			result.ErrorCount++
		case SeverityWarning:
			result.WarningCount++
		}
		if is.Prop != "" {
			result.PropCounts[is.Prop]++
			result.CategoryCounts[propCategory(is.Prop)]++
		}
	}

	result.Issues, result.TruncatedCount = limitIssues(result.Issues, config)
	return result, nil
}

// limitIssues applies max-issues and max-same-issues constraints
func limitIssues(issues []Issue, config LintConfig) ([]Issue, int) {
	originalCount := len(issues)

	// Apply max-same-issues (deduplication by message text)
	if config.MaxSameIssues > 0 {
		issues = deduplicateSameIssues(issues, config.MaxSameIssues)
	}

	if config.MaxIssues > 0 && len(issues) > config.MaxIssues {
		issues = issues[:config.MaxIssues]
	}

	return issues, originalCount - len(issues)
}

// deduplicateSameIssues limits how many times the same message appears
func deduplicateSameIssues(issues []Issue, maxSame int) []Issue {
	messageCounts := make(map[string]int)
	var filtered []Issue

	for _, issue := range issues {
		if messageCounts[issue.Text] < maxSame {
			filtered = append(filtered, issue)
			messageCounts[issue.Text]++
		}
	}

	return filtered
}

// parseIssue reports a file the extractor could not read.
func parseIssue(file string, err error, lines []string) Issue {
	is := Issue{
		FromLinter: LinterName,
		Text:       err.Error(),
		Severity:   SeverityError,
		Pos:        IssuePos{Filename: file, Line: 1, Column: 1},
	}
	if errors.Is(err, extractor.ErrParse) {
		is.Text = "syntax error"
		if m := parseErrorPos.FindStringSubmatch(err.Error()); m != nil {
			is.Pos.Line, _ = strconv.Atoi(m[1])
			is.Pos.Column, _ = strconv.Atoi(m[2])
		}
	}
	is.SourceLines = sourceLine(lines, is.Pos.Line)
	return is
}

// propCategory groups a style prop by the first CSS property it sets.
func propCategory(prop string) css.PropertyCategory {
	return css.CategorizeProperty(css.ExpandProperty(prop)[0])
}

func sourceLine(lines []string, line int) []string {
	if line < 1 || line > len(lines) {
		return nil
	}
	return []string{strings.TrimRight(lines[line-1], "\r")}
}

// sortIssues orders issues by file, then line, then column
func sortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Pos.Filename != issues[j].Pos.Filename {
			return issues[i].Pos.Filename < issues[j].Pos.Filename
		}
		if issues[i].Pos.Line != issues[j].Pos.Line {
			return issues[i].Pos.Line < issues[j].Pos.Line
		}
		return issues[i].Pos.Column < issues[j].Pos.Column
	})
}
