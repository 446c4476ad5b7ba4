package atomcss

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates files below root, keyed by slash-separated paths.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func TestScanFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/a.tsx":               "",
		"src/b.ts":                "",
		"src/a.test.tsx":          "",
		"src/types.d.ts":          "",
		"src/theme.css.ts":        "",
		"node_modules/x/index.js": "",
		"dist/out.js":             "",
		"ignored/skip.tsx":        "",
		"README.md":               "",
		".gitignore":              "ignored\n",
	})

	files, stats, err := ScanFiles(Config{
		Root:    root,
		OutDir:  filepath.Join(root, "dist"),
		Exclude: []string{"**/*.test.tsx"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"src/a.tsx", "src/b.ts", "src/theme.css.ts"}, files)
	assert.Equal(t, 8, stats.FilesDiscovered)
	assert.Equal(t, 3, stats.FilesScanned)
	assert.Equal(t, 5, stats.FilesSkipped)
}

func TestScanFilesIncludePatterns(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"app/page.tsx":  "",
		"app/util.ts":   "",
		"lib/index.tsx": "",
	})

	tests := []struct {
		name    string
		include []string
		want    []string
	}{
		{"default", nil, []string{"app/page.tsx", "app/util.ts", "lib/index.tsx"}},
		{"tsx only", []string{"**/*.tsx"}, []string{"app/page.tsx", "lib/index.tsx"}},
		{"overlapping globs", []string{"app/*", "**/*.tsx"}, []string{"app/page.tsx", "app/util.ts", "lib/index.tsx"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, _, err := ScanFiles(Config{Root: root, Include: tt.include})
			require.NoError(t, err)
			assert.Equal(t, tt.want, files)
		})
	}
}

func TestShouldSkipFile(t *testing.T) {
	s := &scanner{root: ".", outDirs: []string{"build"}, exclude: []string{"**/*.stories.tsx"}}

	tests := []struct {
		rel  string
		want bool
	}{
		{"src/app.tsx", false},
		{"src/app.jsx", false},
		{"src/app.css", true},
		{"src/app.d.ts", true},
		{"vendor/lib.min.js", true},
		{"node_modules/react/index.js", true},
		{"build/app.tsx", true},
		{"src/build/app.tsx", false},
		{"src/button.stories.tsx", true},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.want, s.shouldSkipFile(tt.rel))
		})
	}
}

func TestRelativeTo(t *testing.T) {
	root := t.TempDir()

	rel, ok := relativeTo(root, filepath.Join(root, "dist", "css"))
	require.True(t, ok)
	assert.Equal(t, "dist/css", rel)

	_, ok = relativeTo(root, filepath.Dir(root))
	assert.False(t, ok)
}
