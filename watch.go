package atomcss

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long Watch waits for more changes before
// rebuilding.
const DefaultDebounce = 100 * time.Millisecond

// WatchOptions tunes Watch.
type WatchOptions struct {
	Debounce time.Duration
	// OnBuild receives the result of every build, the initial one
	// included.
	OnBuild func(*BuildResult, error)
}

// Watch builds cfg, then rebuilds whenever a source file below cfg.Root
// changes, until ctx is done. Rebuilds reuse the numbering and the cache of
// earlier builds, so only changed files are extracted again.
func Watch(ctx context.Context, cfg Config, opts WatchOptions) error {
	cfg = cfg.withDefaults()
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	log := cfg.Logger.Named("watch")

	b, err := NewBuilder(cfg)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	s := newScanner(cfg)
	if err := addTree(watcher, cfg.Root, s); err != nil {
		return fmt.Errorf("watch %s: %w", cfg.Root, err)
	}

	rebuild := func() {
		result, err := b.Build(ctx)
		if err != nil && ctx.Err() != nil {
			return
		}
		if opts.OnBuild != nil {
			opts.OnBuild(result, err)
		}
	}
	rebuild()
	log.Info("watching", zap.String("root", cfg.Root))

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending int
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !s.relevant(event, watcher, log) {
				continue
			}
			pending++
			if timer == nil {
				timer = time.NewTimer(opts.Debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(opts.Debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			log.Debug("rebuilding", zap.Int("changes", pending))
			pending = 0
			rebuild()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", zap.Error(err))
		}
	}
}

// relevant reports whether event should trigger a rebuild. New directories
// are added to the watcher.
func (s *scanner) relevant(event fsnotify.Event, watcher *fsnotify.Watcher, log *zap.Logger) bool {
	rel, err := filepath.Rel(s.root, event.Name)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if s.skipDir(rel) {
				return false
			}
			if err := addTree(watcher, event.Name, s); err != nil {
				log.Warn("watch new directory", zap.String("dir", rel), zap.Error(err))
			}
			// Files created together with the directory are picked up by
			// the rebuild.
			return true
		}
	}

	return !s.shouldSkipFile(rel)
}

// addTree watches dir and every scanned directory below it.
func addTree(watcher *fsnotify.Watcher, dir string, s *scanner) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return nil
		}
		if s.skipDir(filepath.ToSlash(rel)) {
			return filepath.SkipDir
		}
		return watcher.Add(p)
	})
}
