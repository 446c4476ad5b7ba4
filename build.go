package atomcss

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yacobolo/atomcss/internal/css"
	"github.com/yacobolo/atomcss/internal/extractor"
	"github.com/yacobolo/atomcss/internal/sheet"
)

// Builder runs builds sharing one class numbering. Names handed out by a
// Builder never change for its lifetime, so unchanged files are served
// from its cache on later builds.
type Builder struct {
	cfg   Config
	log   *zap.Logger
	cctx  *css.Context
	cache *lru.Cache[string, *extractor.Output]

	mu      sync.Mutex
	written map[string]bool // Rewritten sources of the previous build
}

// NewBuilder returns a Builder for cfg. When cfg.StateFile exists, the
// numbering saved there is restored.
func NewBuilder(cfg Config) (*Builder, error) {
	cfg = cfg.withDefaults()
	cache, err := lru.New[string, *extractor.Output](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	cctx := css.NewContext()
	if cfg.StateFile != "" {
		data, err := os.ReadFile(cfg.StateFile)
		switch {
		case err == nil:
			if err := cctx.UnmarshalJSON(data); err != nil {
				return nil, fmt.Errorf("load state %s: %w", cfg.StateFile, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("load state %s: %w", cfg.StateFile, err)
		}
	}
	cctx.SetPrefix(cfg.Prefix)
	cctx.SetDebug(cfg.Debug)

	return &Builder{
		cfg:     cfg,
		log:     cfg.Logger.Named("build"),
		cctx:    cctx,
		cache:   cache,
		written: make(map[string]bool),
	}, nil
}

// Context returns the class numbering of the builder.
func (b *Builder) Context() *css.Context {
	return b.cctx
}

// Build extracts every source file of cfg and writes the results.
func Build(ctx context.Context, cfg Config) (*BuildResult, error) {
	b, err := NewBuilder(cfg)
	if err != nil {
		return nil, err
	}
	return b.Build(ctx)
}

// source is one file read for extraction.
type source struct {
	path string
	code string
	key  string // Cache key: path and content hash
}

// Build scans, extracts and writes. A file failing to extract is reported
// in the aggregated error and in its FileResult; the others are still
// written.
func (b *Builder) Build(ctx context.Context) (*BuildResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	files, stats, err := ScanFiles(b.cfg)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	b.log.Debug("scanned sources",
		zap.Int("discovered", stats.FilesDiscovered),
		zap.Int("scanned", stats.FilesScanned),
		zap.Int("skipped", stats.FilesSkipped))

	result := &BuildResult{FilesScanned: len(files), Files: make([]FileResult, len(files))}
	sources := make([]source, len(files))
	for i, f := range files {
		data, err := os.ReadFile(filepath.Join(b.cfg.Root, filepath.FromSlash(f)))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		sum := sha256.Sum256(data)
		sources[i] = source{path: f, code: string(data), key: f + "\x00" + hex.EncodeToString(sum[:])}
		result.Files[i].Path = f
	}

	// File numbers follow the sorted file list.
	for _, f := range files {
		b.cctx.FileNumber(f)
	}

	var misses []int
	for i, src := range sources {
		if out, ok := b.cache.Get(src.key); ok {
			result.Files[i].Output = out
			result.Files[i].Cached = true
			result.CacheHits++
			continue
		}
		misses = append(misses, i)
	}

	if err := b.allocate(ctx, sources, misses); err != nil {
		return nil, err
	}
	if err := b.extract(ctx, sources, misses, result.Files); err != nil {
		return nil, err
	}

	var buildErr error
	for i := range result.Files {
		fr := &result.Files[i]
		if fr.Err != nil {
			buildErr = multierr.Append(buildErr, fmt.Errorf("%s: %w", fr.Path, fr.Err))
			continue
		}
		out := fr.Output
		fr.CSSFile = out.CSSFile
		fr.Styles = len(out.SortedStyles())
		fr.Changed = out.Code != sources[i].code
		fr.Issues = out.Issues
		if len(out.Styles) > 0 {
			result.FilesExtracted++
		}
	}

	result.Sheets = b.render(result.Files)
	if err := b.write(result, sources); err != nil {
		return result, multierr.Append(buildErr, err)
	}

	b.log.Info("build finished",
		zap.Int("files", result.FilesScanned),
		zap.Int("extracted", result.FilesExtracted),
		zap.Int("written", result.FilesWritten),
		zap.Int("sheets", len(result.Sheets)),
		zap.Int("cached", result.CacheHits))
	return result, buildErr
}

// allocate is the first extraction pass. Each worker extracts a contiguous
// run of the sorted files into a private copy of the numbering; the copies
// are then merged in file order, which numbers every new name exactly as a
// sequential pass would. Outputs are discarded.
func (b *Builder) allocate(ctx context.Context, sources []source, misses []int) error {
	if len(misses) == 0 {
		return nil
	}
	chunks := chunk(misses, b.cfg.Workers)
	base := b.cctx.State()
	locals := make([]*css.Context, len(chunks))
	opts := b.cfg.extractorOptions()

	g, gctx := errgroup.WithContext(ctx)
	for w, idx := range chunks {
		local := css.NewContext()
		if err := local.Restore(base); err != nil {
			return fmt.Errorf("copy context: %w", err)
		}
		locals[w] = local
		g.Go(func() error {
			for _, i := range idx {
				if err := gctx.Err(); err != nil {
					return err
				}
				// Failures surface in the second pass.
				_, _ = extractor.ExtractContext(gctx, local, sources[i].path, sources[i].code, opts)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	b.cctx.Merge(locals...)
	return nil
}

// extract is the second pass: every name already exists, so outputs do not
// depend on scheduling.
func (b *Builder) extract(ctx context.Context, sources []source, misses []int, files []FileResult) error {
	opts := b.cfg.extractorOptions()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Workers)
	for _, i := range misses {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src := sources[i]
			out, err := extractor.ExtractContext(gctx, b.cctx, src.path, src.code, opts)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				b.log.Warn("extraction failed", zap.String("file", src.path), zap.Error(err))
				files[i].Err = err
				return nil
			}
			b.log.Debug("extracted", zap.String("file", src.path), zap.Int("styles", len(out.Styles)))
			files[i].Output = out
			b.cache.Add(src.key, out)
			return nil
		})
	}
	return g.Wait()
}

// chunk splits idx into at most n contiguous runs of near-equal length.
func chunk(idx []int, n int) [][]int {
	if n > len(idx) {
		n = len(idx)
	}
	if n <= 0 {
		return nil
	}
	chunks := make([][]int, 0, n)
	size, rest := len(idx)/n, len(idx)%n
	start := 0
	for w := 0; w < n; w++ {
		end := start + size
		if w < rest {
			end++
		}
		chunks = append(chunks, idx[start:end])
		start = end
	}
	return chunks
}

// render builds every stylesheet of the extracted files.
func (b *Builder) render(files []FileResult) map[string]string {
	sh := sheet.New(b.cctx, sheet.WithBreakpoints(b.cfg.Breakpoints))
	for _, fr := range files {
		if fr.Err != nil || fr.Output == nil || len(fr.Output.Styles) == 0 {
			continue
		}
		target := fr.Path
		if b.cfg.SingleCSS {
			target = sheet.Shared
		}
		sh.Add(target, fr.Output.SortedStyles()...)
	}

	sheets := make(map[string]string)
	for _, f := range sh.Files() {
		name := extractor.SharedCSSFile
		if f != sheet.Shared {
			name = extractor.CSSFileName(b.cctx.FileNumber(f))
		}
		sheets[name] = sh.Render(f)
	}
	return sheets
}

// write stores rewritten sources, stylesheets and the numbering state.
// Nothing is written without an OutDir.
func (b *Builder) write(result *BuildResult, sources []source) error {
	var err error
	if b.cfg.OutDir != "" {
		current := make(map[string]bool, len(result.Files))
		for i, fr := range result.Files {
			if fr.Err != nil {
				continue
			}
			current[fr.Path] = true
			code := sources[i].code
			if fr.Changed {
				code = fr.Output.Code
			}
			dst := filepath.Join(b.cfg.OutDir, filepath.FromSlash(fr.Path))
			if e := writeFile(dst, code); e != nil {
				err = multierr.Append(err, e)
				continue
			}
			result.FilesWritten++
		}
		for p := range b.written {
			if current[p] {
				continue
			}
			if e := os.Remove(filepath.Join(b.cfg.OutDir, filepath.FromSlash(p))); e != nil && !errors.Is(e, os.ErrNotExist) {
				err = multierr.Append(err, fmt.Errorf("remove stale output: %w", e))
			}
		}
		b.written = current

		for name, text := range result.Sheets {
			err = multierr.Append(err, writeFile(filepath.Join(b.cfg.CSSOutDir, name), text))
		}
	}

	if b.cfg.StateFile != "" {
		data, e := b.cctx.MarshalJSON()
		if e != nil {
			return multierr.Append(err, fmt.Errorf("encode state: %w", e))
		}
		err = multierr.Append(err, writeFile(b.cfg.StateFile, string(data)))
	}
	return err
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
