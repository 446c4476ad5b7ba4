package atomcss

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/yacobolo/atomcss/internal/extractor"
)

// ScanStats tracks file scanning statistics
type ScanStats struct {
	FilesDiscovered int // Total files found by glob patterns
	FilesScanned    int // Files actually scanned (after filtering)
	FilesSkipped    int // Files skipped due to filtering
}

// skippedDirs are never scanned nor watched.
var skippedDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
}

// gitignore caching, one matcher per root
var (
	gitIgnoreMu    sync.Mutex
	gitIgnoreCache = make(map[string]*ignore.GitIgnore)
)

// loadGitIgnore loads the .gitignore of root once (thread-safe)
// Gracefully degrades if .gitignore doesn't exist
func loadGitIgnore(root string) *ignore.GitIgnore {
	gitIgnoreMu.Lock()
	defer gitIgnoreMu.Unlock()

	if gi, ok := gitIgnoreCache[root]; ok {
		return gi
	}
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		// No .gitignore is fine
		gi = nil
	}
	gitIgnoreCache[root] = gi
	return gi
}

// isGenerated reports declaration files and bundles that never hold
// style props.
func isGenerated(rel string) bool {
	base := path.Base(rel)
	return strings.HasSuffix(base, ".d.ts") ||
		strings.HasSuffix(base, ".min.js") ||
		strings.Contains(base, ".bundle.")
}

// scanner filters the files of one root.
type scanner struct {
	root    string
	outDirs []string // Slash-separated output directories relative to root
	exclude []string
	gi      *ignore.GitIgnore
}

func newScanner(cfg Config) *scanner {
	s := &scanner{
		root:    cfg.Root,
		exclude: cfg.Exclude,
		gi:      loadGitIgnore(cfg.Root),
	}
	for _, dir := range []string{cfg.OutDir, cfg.CSSOutDir} {
		if dir == "" {
			continue
		}
		if rel, ok := relativeTo(cfg.Root, dir); ok {
			s.outDirs = append(s.outDirs, rel)
		}
	}
	return s
}

// relativeTo returns dir relative to root when dir lies inside it.
func relativeTo(root, dir string) (string, bool) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", false
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absRoot, absDir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// skipDir reports directories that must not be descended into.
func (s *scanner) skipDir(rel string) bool {
	if rel == "." {
		return false
	}
	if skippedDirs[path.Base(rel)] {
		return true
	}
	for _, out := range s.outDirs {
		if out == "." {
			continue
		}
		if rel == out || strings.HasPrefix(rel, out+"/") {
			return true
		}
	}
	return s.gi != nil && s.gi.MatchesPath(rel+"/")
}

// shouldSkipFile determines if a file should be excluded from scanning
// Returns true if the file should be skipped, false otherwise
//
// Layers, cheapest first: extension, generated names, skipped directories,
// exclude globs, gitignore.
func (s *scanner) shouldSkipFile(rel string) bool {
	if !extractor.SupportsFile(rel) {
		return true
	}
	if isGenerated(rel) {
		return true
	}
	for dir := path.Dir(rel); dir != "." && dir != "/"; dir = path.Dir(dir) {
		if s.skipDir(dir) {
			return true
		}
	}
	for _, pattern := range s.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return s.gi != nil && s.gi.MatchesPath(rel)
}

// ScanFiles expands the include globs of cfg below cfg.Root and returns the
// matching source files, slash-separated relative to the root and sorted.
func ScanFiles(cfg Config) ([]string, ScanStats, error) {
	cfg = cfg.withDefaults()
	s := newScanner(cfg)
	fsys := os.DirFS(cfg.Root)

	var files []string
	seen := make(map[string]bool)
	stats := ScanStats{}

	for _, pattern := range cfg.Include {
		matches, err := doublestar.Glob(fsys, filepath.ToSlash(pattern), doublestar.WithFilesOnly())
		if err != nil {
			return nil, stats, err
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true
			stats.FilesDiscovered++

			if s.shouldSkipFile(match) {
				stats.FilesSkipped++
				continue
			}
			files = append(files, match)
			stats.FilesScanned++
		}
	}

	sort.Strings(files)
	return files, stats, nil
}
