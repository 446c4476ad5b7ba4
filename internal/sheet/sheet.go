// Package sheet renders extracted styles into CSS stylesheets.
package sheet

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/yacobolo/atomcss/internal/css"
	"github.com/yacobolo/atomcss/internal/extractor"
)

// DefaultBreakpoints are the min-width of each responsive level in pixels.
// Level 0 has no media query.
var DefaultBreakpoints = []int{0, 480, 768, 992, 1280}

// Shared names the bucket of styles common to every file: base styles and,
// in single-css mode, everything.
const Shared = ""

// Sheet collects the styles of many files. It is safe for concurrent use.
type Sheet struct {
	mu          sync.Mutex
	ctx         *css.Context
	breakpoints []int
	buckets     map[string]*bucket
}

type bucket struct {
	seen    map[string]bool
	entries []entry
}

// entry remembers the file a value was extracted from, which picks the
// class name bucket at render time.
type entry struct {
	file  string
	value extractor.StyleValue
}

// Option configures a Sheet.
type Option func(*Sheet)

// WithBreakpoints replaces the responsive breakpoints.
func WithBreakpoints(bp []int) Option {
	return func(s *Sheet) {
		if len(bp) > 0 {
			s.breakpoints = bp
		}
	}
}

// New returns an empty sheet naming classes through ctx. ctx must be the
// context the styles were extracted with.
func New(ctx *css.Context, opts ...Option) *Sheet {
	s := &Sheet{
		ctx:         ctx,
		breakpoints: DefaultBreakpoints,
		buckets:     make(map[string]*bucket),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add records values extracted from filename. Pass Shared as filename in
// single-css mode. Base styles always go to the shared bucket.
func (s *Sheet) Add(filename string, values ...extractor.StyleValue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range values {
		target := filename
		if isBase(v) {
			target = Shared
		}
		b, ok := s.buckets[target]
		if !ok {
			b = &bucket{seen: make(map[string]bool)}
			s.buckets[target] = b
		}
		key := target + "\x00" + extractor.StyleValueKey(v)
		if b.seen[key] {
			continue
		}
		b.seen[key] = true
		b.entries = append(b.entries, entry{file: filename, value: v})
	}
}

// Remove drops the styles recorded for filename, used when a file is
// extracted again. Shared styles are kept.
func (s *Sheet) Remove(filename string) {
	if filename == Shared {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, filename)
}

// Files lists the buckets holding styles, Shared first.
func (s *Sheet) Files() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	files := make([]string, 0, len(s.buckets))
	for f := range s.buckets {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

func isBase(v extractor.StyleValue) bool {
	switch s := v.(type) {
	case extractor.StaticStyle:
		return s.StyleOrder != nil && *s.StyleOrder == 0
	case extractor.DynamicStyle:
		return s.StyleOrder != nil && *s.StyleOrder == 0
	}
	return false
}

// rule is one rendered declaration with its sort keys.
type rule struct {
	basic    bool
	order    int
	level    uint8
	selector *css.StyleSelector
	property string
	value    string
	class    string
}

// Render returns the stylesheet of filename: class rules sorted by base
// flag, style order, level, selector and property, then global rules,
// keyframes and raw CSS blocks in the order they were added.
func (s *Sheet) Render(filename string) string {
	s.mu.Lock()
	var entries []entry
	if b, ok := s.buckets[filename]; ok {
		entries = append(entries, b.entries...)
	}
	s.mu.Unlock()

	var (
		rules     []rule
		globals   []rule
		keyframes []extractor.KeyframesStyle
		raw       []extractor.CSSStyle
	)
	for _, e := range entries {
		nm := extractor.Namer{Context: s.ctx, Filename: e.file}
		switch x := e.value.(type) {
		case extractor.StaticStyle:
			r := rule{basic: x.Basic, order: styleOrder(x.StyleOrder), level: x.Level, selector: x.Selector, property: x.Property, value: x.Value}
			if x.Selector != nil && x.Selector.Kind == css.KindGlobal {
				globals = append(globals, r)
				continue
			}
			r.class, _ = nm.ClassName(x)
			rules = append(rules, r)
		case extractor.DynamicStyle:
			r := rule{order: styleOrder(x.StyleOrder), level: x.Level, selector: x.Selector, property: x.Property}
			r.value = "var(" + nm.VariableName(x) + ")"
			r.class, _ = nm.ClassName(x)
			rules = append(rules, r)
		case extractor.KeyframesStyle:
			keyframes = append(keyframes, x)
		case extractor.CSSStyle:
			raw = append(raw, x)
		}
	}

	sort.SliceStable(rules, func(i, j int) bool { return compareRules(rules[i], rules[j]) < 0 })

	var out strings.Builder
	for _, r := range rules {
		out.WriteString(s.renderRule(r))
		out.WriteByte('\n')
	}
	for _, r := range globals {
		out.WriteString(s.renderRule(r))
		out.WriteByte('\n')
	}
	for _, k := range keyframes {
		out.WriteString(renderKeyframes(k))
		out.WriteByte('\n')
	}
	for _, c := range raw {
		out.WriteString(c.CSS)
		out.WriteByte('\n')
	}
	return out.String()
}

func styleOrder(o *uint8) int {
	if o == nil {
		return 255
	}
	return int(*o)
}

func compareRules(a, b rule) int {
	if a.basic != b.basic {
		if a.basic {
			return -1
		}
		return 1
	}
	if a.order != b.order {
		return a.order - b.order
	}
	if a.level != b.level {
		return int(a.level) - int(b.level)
	}
	if c := css.CompareOptional(a.selector, b.selector); c != 0 {
		return c
	}
	if c := strings.Compare(a.property, b.property); c != 0 {
		return c
	}
	return strings.Compare(a.value, b.value)
}

func (s *Sheet) renderRule(r rule) string {
	body := "{" + r.property + ":" + r.value + "}"
	text := selectorText(r.selector, r.class) + body
	if r.selector != nil && r.selector.Kind == css.KindAt {
		text = fmt.Sprintf("@%s %s{%s}", r.selector.At, r.selector.Query, text)
	}
	if r.level > 0 {
		text = fmt.Sprintf("@media (min-width:%dpx){%s}", s.breakpoint(r.level), text)
	}
	return text
}

func (s *Sheet) breakpoint(level uint8) int {
	if int(level) < len(s.breakpoints) {
		return s.breakpoints[level]
	}
	return s.breakpoints[len(s.breakpoints)-1]
}

// selectorText resolves the "&" anchor of sel to the class.
func selectorText(sel *css.StyleSelector, class string) string {
	anchor := "." + class
	if sel == nil {
		return anchor
	}
	switch sel.Kind {
	case css.KindGlobal:
		return sel.Value
	case css.KindAt:
		if sel.Value == "" {
			return anchor
		}
	}
	return strings.ReplaceAll(sel.Value, "&", anchor)
}

func renderKeyframes(k extractor.KeyframesStyle) string {
	var b strings.Builder
	b.WriteString("@keyframes ")
	b.WriteString(k.Name)
	b.WriteString("{")
	for _, step := range k.Steps {
		b.WriteString(step.Offset)
		b.WriteString("{")
		for i, d := range step.Styles {
			if i > 0 {
				b.WriteString(";")
			}
			b.WriteString(d.Property)
			b.WriteString(":")
			b.WriteString(d.Value)
		}
		b.WriteString("}")
	}
	b.WriteString("}")
	return b.String()
}
