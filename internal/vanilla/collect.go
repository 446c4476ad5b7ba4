// Package vanilla collects the styles declared by vanilla-extract style
// files (.css.ts, .css.js) without running them. Only the statically
// analyzable subset is supported: literal objects, earlier constants,
// template literals and arithmetic over them.
package vanilla

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/yacobolo/atomcss/internal/css"
)

// Package is the import source of the vanilla-extract API.
const Package = "@vanilla-extract/css"

var (
	// ErrUnsupported is returned for expressions outside the analyzable
	// subset.
	ErrUnsupported = errors.New("unsupported expression")
	// ErrSyntax is returned when the file does not parse.
	ErrSyntax = errors.New("syntax error")
)

// IsStyleFile reports whether filename is a vanilla-extract style file.
func IsStyleFile(filename string) bool {
	base := strings.ToLower(filepath.Base(filename))
	for _, ext := range []string{".css.ts", ".css.js", ".css.mts", ".css.mjs"} {
		if strings.HasSuffix(base, ext) {
			return true
		}
	}
	return false
}

// Variant is one key of a styleVariants() call.
type Variant struct {
	Key   string
	JSON  json.RawMessage
	Bases []string
}

// StyleEntry is a style() or styleVariants() binding. JSON holds the style
// object; Bases lists composed styles in order.
type StyleEntry struct {
	JSON     json.RawMessage
	Bases    []string
	Variants []Variant
	Exported bool
}

// GlobalStyle is a globalStyle() call.
type GlobalStyle struct {
	Selector string
	JSON     json.RawMessage
}

// Frame is one offset of a keyframes() call.
type Frame struct {
	Offset string
	JSON   json.RawMessage
}

// KeyframesEntry is a keyframes() binding with its allocated name.
type KeyframesEntry struct {
	Name     string
	Frames   []Frame
	Exported bool
}

// VarEntry is a createVar() binding.
type VarEntry struct {
	Name     string
	Exported bool
}

// ConstEntry is any other top-level constant, re-emitted as JSON.
type ConstEntry struct {
	JSON     json.RawMessage
	Exported bool
}

// CollectedStyles is everything a style file declares. Order lists the
// bindings in declaration order.
type CollectedStyles struct {
	Styles       map[string]StyleEntry
	GlobalStyles []GlobalStyle
	Keyframes    map[string]KeyframesEntry
	Vars         map[string]VarEntry
	Consts       map[string]ConstEntry
	Order        []string
}

func newCollectedStyles() *CollectedStyles {
	return &CollectedStyles{
		Styles:    make(map[string]StyleEntry),
		Keyframes: make(map[string]KeyframesEntry),
		Vars:      make(map[string]VarEntry),
		Consts:    make(map[string]ConstEntry),
	}
}

// Executor produces the collected styles of a style file. Evaluator is the
// built-in static implementation; a real script engine can be plugged in
// instead.
type Executor interface {
	Execute(ctx context.Context, filename string, src []byte) (*CollectedStyles, error)
}

// Names allocates the CSS identifiers a style file declares.
type Names interface {
	VarName(local string) string
	KeyframesName(local string) string
}

// Evaluator statically evaluates style files.
type Evaluator struct {
	names Names
}

// NewEvaluator returns an Evaluator allocating identifiers through names.
func NewEvaluator(names Names) *Evaluator {
	return &Evaluator{names: names}
}

// Execute implements Executor.
func (e *Evaluator) Execute(ctx context.Context, filename string, src []byte) (*CollectedStyles, error) {
	lang := typescript.GetLanguage()
	if strings.HasSuffix(filename, ".js") || strings.HasSuffix(filename, ".mjs") {
		lang = javascript.GetLanguage()
	}
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSyntax, filename, err)
	}
	defer tree.Close()
	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("%w: %s", ErrSyntax, filename)
	}

	s := &scope{
		src:      src,
		filename: filename,
		names:    e.names,
		env:      make(map[string]any),
		api:      make(map[string]string),
		out:      newCollectedStyles(),
	}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		if err := s.statement(root.NamedChild(i)); err != nil {
			return nil, err
		}
	}
	return s.out, nil
}

// scope is the evaluation state of one file.
type scope struct {
	src      []byte
	filename string
	names    Names
	env      map[string]any
	// api maps local identifiers to vanilla-extract functions.
	api map[string]string
	out *CollectedStyles
}

func (s *scope) unsupported(n *sitter.Node) error {
	p := n.StartPoint()
	return fmt.Errorf("%w: %s:%d:%d: %s", ErrUnsupported, s.filename, p.Row+1, p.Column+1, n.Type())
}

func (s *scope) statement(n *sitter.Node) error {
	switch n.Type() {
	case "import_statement":
		s.importStatement(n)
	case "lexical_declaration", "variable_declaration":
		return s.declaration(n, false)
	case "export_statement":
		decl := n.ChildByFieldName("declaration")
		if decl == nil {
			return nil
		}
		switch decl.Type() {
		case "lexical_declaration", "variable_declaration":
			return s.declaration(decl, true)
		}
	case "expression_statement":
		expr := unwrap(n.NamedChild(0))
		if expr != nil && expr.Type() == "call_expression" {
			_, err := s.call(expr, "")
			return err
		}
	}
	return nil
}

func (s *scope) importStatement(n *sitter.Node) {
	source := n.ChildByFieldName("source")
	if source == nil || unquote(source.Content(s.src)) != Package {
		return
	}
	var walk func(c *sitter.Node)
	walk = func(c *sitter.Node) {
		if c.Type() == "import_specifier" {
			name := c.ChildByFieldName("name")
			if name == nil {
				return
			}
			local := name.Content(s.src)
			if alias := c.ChildByFieldName("alias"); alias != nil {
				local = alias.Content(s.src)
			}
			s.api[local] = name.Content(s.src)
			return
		}
		for i := 0; i < int(c.NamedChildCount()); i++ {
			walk(c.NamedChild(i))
		}
	}
	walk(n)
}

func (s *scope) declaration(n *sitter.Node, exported bool) error {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		d := n.NamedChild(i)
		if d.Type() != "variable_declarator" {
			continue
		}
		name := d.ChildByFieldName("name")
		value := d.ChildByFieldName("value")
		if name == nil || value == nil || name.Type() != "identifier" {
			continue
		}
		if err := s.bind(name.Content(s.src), unwrap(value), exported); err != nil {
			return err
		}
	}
	return nil
}

func (s *scope) bind(local string, value *sitter.Node, exported bool) error {
	if value.Type() == "call_expression" {
		if fn := s.apiName(value); fn != "" && fn != "fallbackVar" {
			v, err := s.call(value, local)
			if err != nil {
				return err
			}
			s.env[local] = v
			s.out.Order = append(s.out.Order, local)
			s.markExported(fn, local, exported)
			return nil
		}
	}
	v, err := s.eval(value)
	if err != nil {
		return err
	}
	s.env[local] = v
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", s.filename, local, err)
	}
	s.out.Consts[local] = ConstEntry{JSON: raw, Exported: exported}
	s.out.Order = append(s.out.Order, local)
	return nil
}

func (s *scope) markExported(fn, local string, exported bool) {
	switch fn {
	case "style", "styleVariants":
		e := s.out.Styles[local]
		e.Exported = exported
		s.out.Styles[local] = e
	case "keyframes":
		e := s.out.Keyframes[local]
		e.Exported = exported
		s.out.Keyframes[local] = e
	case "createVar":
		e := s.out.Vars[local]
		e.Exported = exported
		s.out.Vars[local] = e
	}
}

func (s *scope) apiName(call *sitter.Node) string {
	fn := call.ChildByFieldName("function")
	if fn == nil || fn.Type() != "identifier" {
		return ""
	}
	return s.api[fn.Content(s.src)]
}

func (s *scope) arguments(call *sitter.Node) []*sitter.Node {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	var out []*sitter.Node
	for i := 0; i < int(args.NamedChildCount()); i++ {
		if c := args.NamedChild(i); c.Type() != "comment" {
			out = append(out, c)
		}
	}
	return out
}

// call evaluates a vanilla-extract API call bound to local.
func (s *scope) call(n *sitter.Node, local string) (any, error) {
	fn := s.apiName(n)
	args := s.arguments(n)
	switch fn {
	case "style":
		if len(args) < 1 || local == "" {
			return nil, s.unsupported(n)
		}
		obj, bases, err := s.composition(args[0])
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(obj)
		if err != nil {
			return nil, err
		}
		s.out.Styles[local] = StyleEntry{JSON: raw, Bases: bases}
		return StyleRef{Name: local}, nil
	case "styleVariants":
		if len(args) < 1 || local == "" {
			return nil, s.unsupported(n)
		}
		return s.styleVariants(local, args[0])
	case "globalStyle":
		if len(args) != 2 {
			return nil, s.unsupported(n)
		}
		sel, err := s.eval(unwrap(args[0]))
		if err != nil {
			return nil, err
		}
		selector, ok := toString(sel)
		if !ok {
			return nil, s.unsupported(args[0])
		}
		obj, err := s.styleObject(args[1])
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(obj)
		if err != nil {
			return nil, err
		}
		s.out.GlobalStyles = append(s.out.GlobalStyles, GlobalStyle{Selector: selector, JSON: raw})
		return nil, nil
	case "keyframes":
		if len(args) != 1 || local == "" {
			return nil, s.unsupported(n)
		}
		obj, err := s.styleObject(args[0])
		if err != nil {
			return nil, err
		}
		entry := KeyframesEntry{Name: s.names.KeyframesName(local)}
		for _, offset := range obj.Keys() {
			v, _ := obj.Get(offset)
			raw, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			entry.Frames = append(entry.Frames, Frame{Offset: offset, JSON: raw})
		}
		s.out.Keyframes[local] = entry
		return entry.Name, nil
	case "createVar":
		if local == "" {
			return nil, s.unsupported(n)
		}
		ref := VarRef{Name: s.names.VarName(local)}
		s.out.Vars[local] = VarEntry{Name: ref.Name}
		return ref, nil
	case "fallbackVar":
		var parts []string
		for _, a := range args {
			v, err := s.eval(unwrap(a))
			if err != nil {
				return nil, err
			}
			str, ok := toString(v)
			if !ok {
				return nil, s.unsupported(a)
			}
			parts = append(parts, str)
		}
		return fallbackVar(parts), nil
	}
	return nil, s.unsupported(n)
}

// fallbackVar nests var() references: var(--a, var(--b, 10px)).
func fallbackVar(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	out := parts[len(parts)-1]
	for i := len(parts) - 2; i >= 0; i-- {
		p := parts[i]
		if strings.HasPrefix(p, "var(") && strings.HasSuffix(p, ")") {
			out = p[:len(p)-1] + ", " + out + ")"
		}
	}
	return out
}

// composition evaluates a style() argument: an object, or an array of
// earlier styles and objects.
func (s *scope) composition(n *sitter.Node) (*Object, []string, error) {
	n = unwrap(n)
	if n.Type() != "array" {
		obj, err := s.styleObject(n)
		return obj, nil, err
	}
	merged := NewObject()
	var bases []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := unwrap(n.NamedChild(i))
		if c.Type() == "comment" {
			continue
		}
		if c.Type() == "identifier" {
			if ref, ok := s.env[c.Content(s.src)].(StyleRef); ok {
				bases = append(bases, ref.Name)
				continue
			}
		}
		obj, err := s.styleObject(c)
		if err != nil {
			return nil, nil, err
		}
		for _, k := range obj.Keys() {
			v, _ := obj.Get(k)
			merged.Set(k, v)
		}
	}
	return merged, bases, nil
}

func (s *scope) styleVariants(local string, n *sitter.Node) (any, error) {
	n = unwrap(n)
	if n.Type() != "object" {
		return nil, s.unsupported(n)
	}
	var entry StyleEntry
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}
		if c.Type() != "pair" {
			return nil, s.unsupported(c)
		}
		key, err := s.key(c.ChildByFieldName("key"))
		if err != nil {
			return nil, err
		}
		obj, bases, err := s.composition(c.ChildByFieldName("value"))
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(obj)
		if err != nil {
			return nil, err
		}
		entry.Variants = append(entry.Variants, Variant{Key: key, JSON: raw, Bases: bases})
	}
	s.out.Styles[local] = entry
	return StyleRef{Name: local}, nil
}

// styleObject evaluates n as a style object; numbers become pixel values
// for their property.
func (s *scope) styleObject(n *sitter.Node) (*Object, error) {
	v, err := s.eval(unwrap(n))
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*Object)
	if !ok {
		return nil, s.unsupported(n)
	}
	return pixelize(obj), nil
}

func pixelize(obj *Object) *Object {
	out := NewObject()
	for _, k := range obj.Keys() {
		v, _ := obj.Get(k)
		out.Set(k, pixelValue(k, v))
	}
	return out
}

func pixelValue(key string, v any) any {
	switch x := v.(type) {
	case float64:
		property := key
		if !strings.HasPrefix(key, "--") {
			property = css.ToKebabCase(key)
		}
		return css.ConvertPixels(property, formatNumber(x))
	case *Object:
		return pixelize(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = pixelValue(key, e)
		}
		return out
	}
	return v
}

// key resolves an object key, including computed keys naming a createVar
// binding.
func (s *scope) key(n *sitter.Node) (string, error) {
	if n == nil {
		return "", errors.New("missing key")
	}
	switch n.Type() {
	case "property_identifier", "identifier":
		return n.Content(s.src), nil
	case "string":
		return unquote(n.Content(s.src)), nil
	case "number":
		return n.Content(s.src), nil
	case "computed_property_name":
		inner := unwrap(n.NamedChild(0))
		if inner == nil {
			return "", s.unsupported(n)
		}
		v, err := s.eval(inner)
		if err != nil {
			return "", err
		}
		switch x := v.(type) {
		case VarRef:
			return x.Name, nil
		case string:
			return x, nil
		case float64:
			return formatNumber(x), nil
		}
	}
	return "", s.unsupported(n)
}

// eval evaluates the analyzable expression subset.
func (s *scope) eval(n *sitter.Node) (any, error) {
	n = unwrap(n)
	if n == nil {
		return nil, errors.New("missing expression")
	}
	switch n.Type() {
	case "string":
		return unquote(n.Content(s.src)), nil
	case "number":
		f, err := strconv.ParseFloat(n.Content(s.src), 64)
		if err != nil {
			return nil, s.unsupported(n)
		}
		return f, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null", "undefined":
		return nil, nil
	case "identifier":
		v, ok := s.env[n.Content(s.src)]
		if !ok {
			return nil, s.unsupported(n)
		}
		return v, nil
	case "template_string":
		return s.template(n)
	case "object":
		return s.object(n)
	case "array":
		var out []any
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			if c.Type() == "comment" {
				continue
			}
			v, err := s.eval(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case "unary_expression":
		op := n.ChildByFieldName("operator")
		v, err := s.eval(n.ChildByFieldName("argument"))
		if err != nil {
			return nil, err
		}
		if f, ok := v.(float64); ok && op != nil && op.Type() == "-" {
			return -f, nil
		}
	case "binary_expression":
		return s.binary(n)
	case "member_expression":
		v, err := s.eval(n.ChildByFieldName("object"))
		if err != nil {
			return nil, err
		}
		obj, ok := v.(*Object)
		prop := n.ChildByFieldName("property")
		if !ok || prop == nil {
			return nil, s.unsupported(n)
		}
		if x, ok := obj.Get(prop.Content(s.src)); ok {
			return x, nil
		}
	case "call_expression":
		if s.apiName(n) != "" {
			return s.call(n, "")
		}
	}
	return nil, s.unsupported(n)
}

func (s *scope) object(n *sitter.Node) (*Object, error) {
	obj := NewObject()
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "comment":
		case "pair":
			k, err := s.key(c.ChildByFieldName("key"))
			if err != nil {
				return nil, err
			}
			v, err := s.eval(c.ChildByFieldName("value"))
			if err != nil {
				return nil, err
			}
			obj.Set(k, v)
		case "shorthand_property_identifier":
			v, ok := s.env[c.Content(s.src)]
			if !ok {
				return nil, s.unsupported(c)
			}
			obj.Set(c.Content(s.src), v)
		case "spread_element":
			v, err := s.eval(c.NamedChild(0))
			if err != nil {
				return nil, err
			}
			src, ok := v.(*Object)
			if !ok {
				return nil, s.unsupported(c)
			}
			for _, k := range src.Keys() {
				x, _ := src.Get(k)
				obj.Set(k, x)
			}
		default:
			return nil, s.unsupported(c)
		}
	}
	return obj, nil
}

func (s *scope) template(n *sitter.Node) (string, error) {
	var b strings.Builder
	pos := int(n.StartByte()) + 1
	end := int(n.EndByte()) - 1
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() != "template_substitution" {
			continue
		}
		b.Write(s.src[pos:int(c.StartByte())])
		v, err := s.eval(c.NamedChild(0))
		if err != nil {
			return "", err
		}
		str, ok := toString(v)
		if !ok {
			return "", s.unsupported(c)
		}
		b.WriteString(str)
		pos = int(c.EndByte())
	}
	if pos < end {
		b.Write(s.src[pos:end])
	}
	return b.String(), nil
}

func (s *scope) binary(n *sitter.Node) (any, error) {
	left, err := s.eval(n.ChildByFieldName("left"))
	if err != nil {
		return nil, err
	}
	right, err := s.eval(n.ChildByFieldName("right"))
	if err != nil {
		return nil, err
	}
	op := n.ChildByFieldName("operator")
	if op == nil {
		return nil, s.unsupported(n)
	}
	lf, lok := left.(float64)
	rf, rok := right.(float64)
	if lok && rok {
		switch op.Type() {
		case "+":
			return lf + rf, nil
		case "-":
			return lf - rf, nil
		case "*":
			return lf * rf, nil
		case "/":
			if rf != 0 {
				return lf / rf, nil
			}
		}
		return nil, s.unsupported(n)
	}
	if op.Type() == "+" {
		ls, lok := toString(left)
		rs, rok := toString(right)
		if lok && rok {
			return ls + rs, nil
		}
	}
	return nil, s.unsupported(n)
}

// unwrap strips parentheses and TypeScript-only wrappers.
func unwrap(n *sitter.Node) *sitter.Node {
	for n != nil {
		switch n.Type() {
		case "parenthesized_expression", "as_expression", "satisfies_expression", "non_null_expression":
			n = n.NamedChild(0)
		default:
			return n
		}
	}
	return n
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		body := s[1 : len(s)-1]
		if !strings.Contains(body, "\\") {
			return body
		}
		if v, err := strconv.Unquote(`"` + strings.ReplaceAll(body, `\'`, `'`) + `"`); err == nil {
			return v
		}
		return body
	}
	return s
}
