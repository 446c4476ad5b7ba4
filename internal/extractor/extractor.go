// Package extractor compiles style props, css() calls and styled components
// of JS/TS sources into atomic classes and rewrites the sources to use them.
package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/yacobolo/atomcss/internal/css"
	"github.com/yacobolo/atomcss/internal/vanilla"
)

// Default option values.
const (
	DefaultPackage = "@atomcss/react"
	DefaultCSSDir  = "@atomcss/react/css"
	// SharedCSSFile holds the styles of every file in single-css mode and
	// the base styles in split mode.
	SharedCSSFile = "atomcss.css"
)

// Options configures one extraction.
type Options struct {
	// Package is the import source of the style components.
	Package string
	// CSSDir is the import path prefix of generated stylesheets.
	CSSDir string
	// SingleCSS puts every style in one shared sheet.
	SingleCSS bool
	// ImportAliases maps other packages to Package. The value names the
	// export a default import binds ("styled" for "@emotion/styled"); ""
	// keeps the local name.
	ImportAliases map[string]string
	// Tailwind compiles utility classes in className strings.
	Tailwind bool
	// MaxLevel is the number of responsive levels.
	MaxLevel int
	// Executor evaluates vanilla-extract style files; nil uses the static
	// evaluator.
	Executor vanilla.Executor
}

func (o Options) withDefaults() Options {
	if o.Package == "" {
		o.Package = DefaultPackage
	}
	if o.CSSDir == "" {
		o.CSSDir = DefaultCSSDir
	}
	if o.MaxLevel <= 0 {
		o.MaxLevel = DefaultMaxLevel
	}
	return o
}

// Output is the result of extracting one file.
type Output struct {
	// Styles are the extracted values in source order.
	Styles []StyleValue
	// Code is the rewritten source.
	Code string
	// CSSFile is the sheet the file's styles belong to; "" when nothing
	// was extracted.
	CSSFile string
	// Issues lists style inputs left in the source.
	Issues []Issue
}

// CSSFileName returns the sheet name of file number n; n < 0 is the shared
// sheet.
func CSSFileName(n int) string {
	if n < 0 {
		return SharedCSSFile
	}
	return fmt.Sprintf("atomcss-%d.css", n)
}

// Extract compiles the styles of one source file.
func Extract(cctx *css.Context, filename, code string, opts Options) (*Output, error) {
	return ExtractContext(context.Background(), cctx, filename, code, opts)
}

// ExtractContext is Extract with a context bounding the parse.
func ExtractContext(ctx context.Context, cctx *css.Context, filename, code string, opts Options) (*Output, error) {
	opts = opts.withDefaults()
	if _, err := languageFor(filename); err != nil {
		return nil, err
	}
	if vanilla.IsStyleFile(filename) {
		return extractVanilla(ctx, cctx, filename, code, opts)
	}
	if !mentionsPackage(code, opts) {
		return &Output{Code: code}, nil
	}

	src := []byte(code)
	tree, err := parseSource(ctx, filename, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	root := tree.RootNode()

	doc := NewDocument(src)
	v := &visitor{
		doc:     doc,
		src:     src,
		jsx:     allowsJSX(filename),
		opts:    opts,
		imports: collectImports(root, doc, opts.Package, opts.ImportAliases),
		styles:  newStyleExtractor(doc, filename, opts.MaxLevel),
		nm:      namerFor(cctx, filename, opts),
	}
	if v.imports.empty() && !opts.Tailwind {
		return &Output{Code: code}, nil
	}
	v.walk(root)

	out := &Output{Styles: v.values, Issues: v.issues}
	var header []string
	if v.createElement {
		header = append(header, `import { createElement } from "react";`)
	}
	if len(v.values) > 0 {
		files := cssImports(cctx, filename, v.values, opts)
		out.CSSFile = files[len(files)-1]
		for _, f := range files {
			header = append(header, fmt.Sprintf("import %s;", jsString(opts.CSSDir+"/"+f)))
		}
	}
	if len(header) > 0 {
		doc.Insert(importInsertPos(root, src), strings.Join(header, "\n")+"\n")
	}
	out.Code = doc.String()
	return out, nil
}

// mentionsPackage is a cheap pre-check that skips files which cannot hold
// styles.
func mentionsPackage(code string, opts Options) bool {
	if opts.Tailwind || strings.Contains(code, opts.Package) {
		return true
	}
	for source := range opts.ImportAliases {
		if strings.Contains(code, source) {
			return true
		}
	}
	return false
}

func namerFor(cctx *css.Context, filename string, opts Options) Namer {
	if opts.SingleCSS {
		return Namer{Context: cctx}
	}
	return Namer{Context: cctx, Filename: filename}
}

// cssImports lists the sheets a file needs, its own sheet last.
func cssImports(cctx *css.Context, filename string, values []StyleValue, opts Options) []string {
	if opts.SingleCSS {
		return []string{SharedCSSFile}
	}
	own := CSSFileName(cctx.FileNumber(filename))
	for _, v := range values {
		if usesSharedSheet(v) {
			return []string{SharedCSSFile, own}
		}
	}
	return []string{own}
}

// usesSharedSheet reports values allocated in the shared bucket.
func usesSharedSheet(v StyleValue) bool {
	switch s := v.(type) {
	case StaticStyle:
		return s.StyleOrder != nil && *s.StyleOrder == 0
	case DynamicStyle:
		return s.StyleOrder != nil && *s.StyleOrder == 0
	}
	return false
}

// vanillaNames allocates createVar and keyframes names of a style file.
type vanillaNames struct {
	nm   Namer
	file int
}

func (n vanillaNames) VarName(local string) string {
	return n.nm.Context.VariableName(fmt.Sprintf("v%d-%s", n.file, local), 0, nil)
}

func (n vanillaNames) KeyframesName(local string) string {
	return n.nm.Context.KeyframesName(local, n.nm.Filename)
}

// extractVanilla evaluates a vanilla-extract style file and replaces it with
// a module exporting the allocated class names.
func extractVanilla(ctx context.Context, cctx *css.Context, filename, code string, opts Options) (*Output, error) {
	nm := namerFor(cctx, filename, opts)
	exec := opts.Executor
	if exec == nil {
		exec = vanilla.NewEvaluator(vanillaNames{nm: nm, file: cctx.FileNumber(filename)})
	}
	collected, err := exec.Execute(ctx, filename, []byte(code))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	r := &vanillaRenderer{ctx: ctx, filename: filename, nm: nm, maxLevel: opts.MaxLevel, classes: make(map[string]string)}
	var lines []string
	for _, g := range collected.GlobalStyles {
		sel := css.Global(g.Selector, nm.Filename)
		props, err := r.props(string(g.JSON), &sel)
		if err != nil {
			return nil, err
		}
		r.values = append(r.values, CollectStyleValues(props)...)
	}
	for _, name := range collected.Order {
		line, err := r.binding(collected, name)
		if err != nil {
			return nil, err
		}
		if line != "" {
			lines = append(lines, line)
		}
	}

	out := &Output{Styles: r.values}
	var header []string
	if len(r.values) > 0 {
		files := cssImports(cctx, filename, r.values, opts)
		out.CSSFile = files[len(files)-1]
		for _, f := range files {
			header = append(header, fmt.Sprintf("import %s;", jsString(opts.CSSDir+"/"+f)))
		}
	}
	out.Code = strings.Join(append(header, lines...), "\n") + "\n"
	return out, nil
}

type vanillaRenderer struct {
	ctx      context.Context
	filename string
	nm       Namer
	maxLevel int
	classes  map[string]string
	values   []StyleValue
}

func declare(exported bool, name, value string) string {
	if exported {
		return fmt.Sprintf("export const %s = %s;", name, value)
	}
	return fmt.Sprintf("const %s = %s;", name, value)
}

func (r *vanillaRenderer) binding(c *vanilla.CollectedStyles, name string) (string, error) {
	if e, ok := c.Styles[name]; ok {
		if len(e.Variants) == 0 {
			cls, err := r.classList(string(e.JSON), e.Bases)
			if err != nil {
				return "", err
			}
			r.classes[name] = cls
			return declare(e.Exported, name, jsString(cls)), nil
		}
		parts := make([]string, 0, len(e.Variants))
		for _, variant := range e.Variants {
			cls, err := r.classList(string(variant.JSON), variant.Bases)
			if err != nil {
				return "", err
			}
			parts = append(parts, jsString(variant.Key)+": "+jsString(cls))
		}
		return declare(e.Exported, name, "{ "+strings.Join(parts, ", ")+" }"), nil
	}
	if k, ok := c.Keyframes[name]; ok {
		kf := KeyframesStyle{Name: k.Name, File: r.nm.Filename}
		for _, f := range k.Frames {
			props, err := r.props(string(f.JSON), nil)
			if err != nil {
				return "", err
			}
			step, ok := keyframeStep(f.Offset, extracted(props...))
			if !ok {
				return "", fmt.Errorf("%w: %s: keyframes %s", ErrParse, r.filename, name)
			}
			kf.Steps = append(kf.Steps, step)
		}
		r.values = append(r.values, kf)
		return declare(k.Exported, name, jsString(k.Name)), nil
	}
	if v, ok := c.Vars[name]; ok {
		return declare(v.Exported, name, jsString("var("+v.Name+")")), nil
	}
	if k, ok := c.Consts[name]; ok {
		return declare(k.Exported, name, string(k.JSON)), nil
	}
	return "", nil
}

// classList compiles a style object and prepends the classes of the
// composed styles.
func (r *vanillaRenderer) classList(obj string, bases []string) (string, error) {
	props, err := r.props(obj, nil)
	if err != nil {
		return "", err
	}
	r.values = append(r.values, CollectStyleValues(props)...)
	lit, _ := stringLiteral(GenClassNameExpression(props, r.nm))

	var list []string
	for _, b := range bases {
		list = append(list, r.classes[b])
	}
	list = append(list, lit)
	return joinClassList(strings.Join(list, " "), ""), nil
}

// props feeds a JSON style object through the object-literal extractor.
func (r *vanillaRenderer) props(obj string, sel *css.StyleSelector) ([]StyleProp, error) {
	code := "(" + obj + ");"
	src := []byte(code)
	tree, err := parseSource(r.ctx, "style.js", src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.filename, err)
	}
	defer tree.Close()

	stmt := tree.RootNode().NamedChild(0)
	if stmt == nil {
		return nil, fmt.Errorf("%w: %s: empty style", ErrParse, r.filename)
	}
	node := unwrap(stmt.NamedChild(0))
	e := newStyleExtractor(NewDocument(src), r.filename, r.maxLevel)
	var res ExtractResult
	if sel == nil {
		res = e.extract("", node, 0, nil)
	} else {
		res = e.extractStyle(node, 0, sel, false)
	}
	if res.Kind == Maintain {
		return nil, fmt.Errorf("%w: %s: style object could not be extracted", ErrParse, r.filename)
	}
	if hasDynamic(res.Styles) {
		return nil, fmt.Errorf("%w: %s: style object holds runtime values", ErrParse, r.filename)
	}
	return res.Styles, nil
}

// SortedStyles returns the values of out sorted and deduplicated.
func (out *Output) SortedStyles() []StyleValue {
	return SortStyleValues(append([]StyleValue(nil), out.Styles...))
}
