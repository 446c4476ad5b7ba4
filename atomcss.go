// Package atomcss compiles CSS-in-JS style props of JavaScript and
// TypeScript sources into atomic CSS at build time.
//
// Style props on the components of the configured package are replaced by
// short generated class names, and the declarations are written to
// stylesheets the rewritten sources import.
//
// # Building
//
// Extract every source file below a directory:
//
//	result, err := atomcss.Build(ctx, atomcss.Config{
//		Root:    "src",
//		OutDir:  "dist",
//		Include: []string{"**/*.{ts,tsx}"},
//	})
//
// Builds are deterministic: the same sources always produce the same class
// names, however many workers extract them.
//
// # Linting
//
// Report style props that stay in the source because they cannot be
// resolved at build time:
//
//	result, err := atomcss.Lint(ctx, atomcss.LintConfig{Config: cfg})
//
// # Watching
//
// Watch rebuilds incrementally when sources change, reusing the class
// numbering of earlier builds.
//
// # CLI Tool
//
//	go install github.com/yacobolo/atomcss/cmd/atomcss@latest
package atomcss
