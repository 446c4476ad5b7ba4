package atomcss

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchRebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "src")
	out := filepath.Join(dir, "dist")
	writeTree(t, root, map[string]string{"a.tsx": boxApp("p={1}")})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	builds := make(chan *BuildResult, 8)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, Config{Root: root, OutDir: out}, WatchOptions{
			Debounce: 20 * time.Millisecond,
			OnBuild: func(r *BuildResult, err error) {
				if err == nil {
					builds <- r
				}
			},
		})
	}()

	next := func() *BuildResult {
		t.Helper()
		select {
		case r := <-builds:
			return r
		case <-time.After(10 * time.Second):
			require.FailNow(t, "no build")
			return nil
		}
	}

	first := next()
	assert.Equal(t, 1, first.FilesScanned)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "nested", "b.tsx"), []byte(boxApp("m={1}")), 0o644))

	var second *BuildResult
	for second == nil || second.FilesScanned < 2 {
		second = next()
	}
	assert.Equal(t, 1, second.CacheHits)
	assert.FileExists(t, filepath.Join(out, "nested", "b.tsx"))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		require.FailNow(t, "watch did not stop")
	}
}

func TestWatchIgnoresOutputs(t *testing.T) {
	root := t.TempDir()
	s := newScanner(Config{Root: root, OutDir: filepath.Join(root, "dist")}.withDefaults())

	assert.True(t, s.shouldSkipFile("dist/a.tsx"))
	assert.True(t, s.shouldSkipFile("dist/css/atomcss-0.css"))
	assert.False(t, s.shouldSkipFile("a.tsx"))
}
