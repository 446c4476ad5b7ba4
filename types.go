package atomcss

import (
	"path/filepath"
	"runtime"

	"go.uber.org/zap"

	"github.com/yacobolo/atomcss/internal/css"
	"github.com/yacobolo/atomcss/internal/extractor"
	"github.com/yacobolo/atomcss/internal/sheet"
)

// DefaultInclude matches every source extension the extractor parses.
var DefaultInclude = []string{"**/*.{js,jsx,mjs,cjs,ts,tsx,mts,cts}"}

// DefaultCacheSize is the number of extracted files kept between builds.
const DefaultCacheSize = 4096

// Config holds build configuration
type Config struct {
	Root          string            // "src" (directory scanned for sources)
	Include       []string          // ["**/*.tsx"] (globs relative to Root)
	Exclude       []string          // ["**/*.test.tsx"] (globs relative to Root)
	OutDir        string            // "dist" (rewritten sources mirror Root here)
	CSSOutDir     string            // "dist/css" (stylesheets; default OutDir/css)
	StateFile     string            // "dist/atomcss.json" (class numbering kept across runs)
	Package       string            // "@atomcss/react"
	CSSDir        string            // "@atomcss/react/css" (import prefix of stylesheets)
	SingleCSS     bool              // Put every style in one stylesheet
	Prefix        string            // Prepended to every generated name
	Debug         bool              // Readable class names
	Tailwind      bool              // Compile utility classes in className strings
	ImportAliases map[string]string // {"@emotion/styled": "styled"}
	Breakpoints   []int             // Min-width per responsive level in pixels
	Workers       int               // Parallel extractions (default: GOMAXPROCS)
	CacheSize     int               // Extracted files kept between builds
	Logger        *zap.Logger       // Nil logs nothing
}

func (c Config) withDefaults() Config {
	if c.Root == "" {
		c.Root = "."
	}
	if len(c.Include) == 0 {
		c.Include = DefaultInclude
	}
	if c.CSSOutDir == "" && c.OutDir != "" {
		c.CSSOutDir = filepath.Join(c.OutDir, "css")
	}
	if len(c.Breakpoints) == 0 {
		c.Breakpoints = sheet.DefaultBreakpoints
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.CacheSize <= 0 {
		c.CacheSize = DefaultCacheSize
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// extractorOptions maps the build configuration onto one extraction.
func (c Config) extractorOptions() extractor.Options {
	return extractor.Options{
		Package:       c.Package,
		CSSDir:        c.CSSDir,
		SingleCSS:     c.SingleCSS,
		ImportAliases: c.ImportAliases,
		Tailwind:      c.Tailwind,
		MaxLevel:      len(c.Breakpoints),
	}
}

// FileResult describes one extracted source file
type FileResult struct {
	Path    string            // Slash-separated, relative to Root
	CSSFile string            // Stylesheet the file imports; "" when nothing was extracted
	Styles  int               // Distinct style values extracted
	Changed bool              // Rewritten code differs from the source
	Cached  bool              // Reused from an earlier build
	Issues  []extractor.Issue // Style inputs left in the source
	Output  *extractor.Output
	Err     error
}

// BuildResult contains build stats
type BuildResult struct {
	Files          []FileResult      // Sorted by Path
	Sheets         map[string]string // Stylesheet name -> CSS text
	FilesScanned   int
	FilesExtracted int // Files with at least one extracted style
	FilesWritten   int
	CacheHits      int
}

// LintConfig holds linter configuration
type LintConfig struct {
	Config
	Strict           bool // Exit 1 on any issue (CI mode)
	MaxIssues        int  // Max issues to report (0=unlimited)
	MaxSameIssues    int  // Max repeated issues to report (0=unlimited)
	PrintIssuedLines bool // Show source lines with issues
	PrintLinterName  bool // Show (atomcss) suffix
	UseColors        bool // Force color output
}

// LintResult contains lint findings
type LintResult struct {
	Issues         []Issue
	FilesScanned   int
	FilesWithStyle int // Files importing the style package
	ErrorCount     int
	WarningCount   int
	TruncatedCount int
	PropCounts     map[string]int // Un-extracted props by name
	CategoryCounts map[css.PropertyCategory]int
}

// OutputFormat represents the linter output format
type OutputFormat string

const (
	// OutputIssues shows only errors/warnings in golangci-lint format (CI-friendly)
	OutputIssues OutputFormat = "issues"
	// OutputSummary shows statistics only
	OutputSummary OutputFormat = "summary"
	// OutputFull shows issues + statistics
	OutputFull OutputFormat = "full"
	// OutputJSON exports structured data in JSON format (tooling integration)
	OutputJSON OutputFormat = "json"
)
