package extractor

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/yacobolo/atomcss/internal/css"
	"github.com/yacobolo/atomcss/internal/tailwind"
)

// Issue is a style input left in the source because it could not be
// compiled.
type Issue struct {
	Line    int
	Column  int
	Prop    string
	Message string
}

// visitor rewrites one file.
type visitor struct {
	doc     *Document
	src     []byte
	jsx     bool
	opts    Options
	imports importSet
	styles  *styleExtractor
	nm      Namer

	values        []StyleValue
	issues        []Issue
	createElement bool
}

func (v *visitor) text(n *sitter.Node) string {
	return v.doc.Slice(int(n.StartByte()), int(n.EndByte()))
}

func (v *visitor) issue(n *sitter.Node, prop, format string, args ...any) {
	line, col := position(n)
	v.issues = append(v.issues, Issue{Line: line, Column: col, Prop: prop, Message: fmt.Sprintf(format, args...)})
}

func (v *visitor) collect(props []StyleProp) {
	v.values = append(v.values, CollectStyleValues(props)...)
}

// walk visits children before their parent so rewrites of inner nodes are
// visible to outer ones.
func (v *visitor) walk(n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		v.walk(n.NamedChild(i))
	}
	switch n.Type() {
	case "jsx_element":
		open := n.ChildByFieldName("open_tag")
		if open == nil {
			open = n.NamedChild(0)
		}
		closing := n.ChildByFieldName("close_tag")
		if closing == nil {
			if last := n.NamedChild(int(n.NamedChildCount()) - 1); last != nil && last.Type() == "jsx_closing_element" {
				closing = last
			}
		}
		if open != nil && open.Type() == "jsx_opening_element" {
			v.visitElement(open, closing, false)
		}
	case "jsx_self_closing_element":
		v.visitElement(n, nil, true)
	case "call_expression":
		v.visitCall(n)
	}
}

// attributes lists the attributes of an opening element.
func attributes(open *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for _, c := range namedChildren(open) {
		switch c.Type() {
		case "jsx_attribute", "jsx_expression":
			out = append(out, c)
		}
	}
	return out
}

func (v *visitor) visitElement(open, closing *sitter.Node, selfClosing bool) {
	nameNode := open.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	exported, imported := v.imports.resolve(nameNode.Content(v.src))
	comp, isComponent := lookupComponent(exported)
	if !imported || !isComponent {
		if v.opts.Tailwind {
			v.tailwindElement(open)
		}
		return
	}

	var (
		kept      []string
		props     []StyleProp
		className string
		style     string
		order     *uint8
		styleVars StyleObject
		tag       = comp.tag
	)
	for _, attr := range attributes(open) {
		if attr.Type() != "jsx_attribute" {
			kept = append(kept, v.text(attr))
			continue
		}
		name := jsxAttributeName(attr, v.src)
		value := jsxAttributeValue(attr)
		switch {
		case name == "className" || name == "class":
			className = v.attrExpr(value)
			if v.opts.Tailwind {
				if lit, ok := stringLiteral(className); ok {
					tw, rest := v.tailwindClasses(lit)
					props = append(props, tw...)
					className = ""
					if rest != "" {
						className = jsString(rest)
					}
				}
			}
		case name == "style":
			style = v.attrExpr(value)
		case name == "as":
			t, ok := v.styles.tagOverride(value)
			if !ok {
				v.issue(attr, name, "tag override could not be resolved")
				return
			}
			tag = t.Name
		case name == "styleOrder":
			o, ok := v.styleOrder(value)
			if !ok {
				v.issue(attr, name, "styleOrder must be a number literal")
				kept = append(kept, v.text(attr))
				continue
			}
			order = o
		case name == "styleVars":
			if value != nil {
				styleVars = styleVarsObject(value, v.src, v.text)
			}
		case name == "props":
			if value != nil {
				kept = append(kept, "{..."+wrapOperand(v.text(value))+"}")
			}
		case css.IsStyleProp(name) && value != nil:
			r := v.styles.extract(name, value, 0, nil)
			switch r.Kind {
			case Maintain:
				v.issue(attr, name, "style prop %q could not be extracted", name)
				kept = append(kept, v.text(attr))
			case ExtractStyle:
				props = append(props, r.Styles...)
			}
		default:
			kept = append(kept, v.text(attr))
		}
	}

	if order != nil {
		props = mapProps(props, func(s StyleValue) StyleValue { return withOrder(s, order) })
	}
	all := append(comp.basicProps(), props...)
	v.collect(all)

	classExpr := MergeClassName(className, GenClassNameExpression(all, v.nm))
	styleObj := GenStyleObject(all, v.nm)
	styleObj.Spreads = append(styleObj.Spreads, styleVars.Spreads...)
	styleObj.Entries = sortedEntries(append(styleObj.Entries, styleVars.Entries...))
	styleObj = MergeStyle(style, styleObj)

	attrs := kept
	if classExpr != "" {
		attrs = append(attrs, jsxAttribute("className", classExpr))
	}
	if !styleObj.Empty() {
		attrs = append(attrs, "style={"+styleObj.String()+"}")
	}

	var b strings.Builder
	b.WriteString("<")
	b.WriteString(tag)
	for _, a := range attrs {
		b.WriteString(" ")
		b.WriteString(a)
	}
	if selfClosing {
		b.WriteString(" />")
	} else {
		b.WriteString(">")
	}
	v.doc.Replace(int(open.StartByte()), int(open.EndByte()), b.String())

	if closing != nil {
		if name := closing.ChildByFieldName("name"); name != nil {
			v.doc.Replace(int(name.StartByte()), int(name.EndByte()), tag)
		}
	}
}

// attrExpr returns an attribute value as a JS expression.
func (v *visitor) attrExpr(value *sitter.Node) string {
	if value == nil {
		return ""
	}
	return v.text(value)
}

func (v *visitor) styleOrder(value *sitter.Node) (*uint8, bool) {
	value = unwrap(value)
	if value == nil {
		return nil, false
	}
	if value.Type() == "string" {
		s, _ := stringValue(value, v.src)
		return parseStyleOrder(s)
	}
	if !isNumberLiteral(value) {
		return nil, false
	}
	return parseStyleOrder(value.Content(v.src))
}

// jsxAttribute renders name=value, using a plain string attribute when the
// expression is a simple string literal.
func jsxAttribute(name, expr string) string {
	if lit, ok := stringLiteral(expr); ok && !strings.ContainsAny(lit, "\"\\{}") && strings.HasPrefix(expr, `"`) {
		return name + "=" + jsString(lit)
	}
	return name + "={" + expr + "}"
}

// tailwindClasses splits a class list into compiled utility styles and the
// classes kept verbatim.
func (v *visitor) tailwindClasses(list string) ([]StyleProp, string) {
	var (
		props []StyleProp
		rest  []string
	)
	for _, token := range strings.Fields(list) {
		u, ok := tailwind.UtilityClassToStyle(token)
		if !ok {
			rest = append(rest, token)
			continue
		}
		var sel *css.StyleSelector
		for _, variant := range u.Variants {
			s := css.Nest(sel, css.SelectorFrom(variant))
			sel = &s
		}
		for _, property := range css.ExpandProperty(u.Property) {
			props = append(props, StaticProp{Value: StaticStyle{
				Property: property,
				Value:    css.OptimizeValue(u.Value),
				Level:    u.Level,
				Selector: sel,
			}})
		}
	}
	return props, strings.Join(rest, " ")
}

// tailwindElement compiles the utility classes of a plain element.
func (v *visitor) tailwindElement(open *sitter.Node) {
	for _, attr := range attributes(open) {
		if attr.Type() != "jsx_attribute" {
			continue
		}
		name := jsxAttributeName(attr, v.src)
		if name != "className" && name != "class" {
			continue
		}
		value := jsxAttributeValue(attr)
		if value == nil {
			return
		}
		lit, ok := stringLiteral(v.text(value))
		if !ok {
			return
		}
		props, rest := v.tailwindClasses(lit)
		if len(props) == 0 {
			return
		}
		v.collect(props)
		expr := GenClassNameExpression(props, v.nm)
		if rest != "" {
			expr = MergeClassName(jsString(rest), expr)
		}
		v.doc.Replace(int(attr.StartByte()), int(attr.EndByte()), jsxAttribute(name, expr))
		return
	}
}

// callArguments lists the arguments of a call, including the template of
// a tagged template.
func callArguments(n *sitter.Node) []*sitter.Node {
	args := n.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	if args.Type() == "template_string" {
		return []*sitter.Node{args}
	}
	return namedChildren(args)
}

func isTaggedTemplate(n *sitter.Node) bool {
	args := n.ChildByFieldName("arguments")
	return args != nil && args.Type() == "template_string"
}

func (v *visitor) visitCall(n *sitter.Node) {
	fn := unwrap(n.ChildByFieldName("function"))
	if fn == nil {
		return
	}
	switch fn.Type() {
	case "identifier":
		exported, ok := v.imports.resolve(fn.Content(v.src))
		if !ok {
			return
		}
		switch exported {
		case "css":
			v.cssCall(n)
		case "globalCss":
			v.globalCssCall(n)
		case "keyframes":
			v.keyframesCall(n)
		}
	case "member_expression":
		if exported, ok := v.imports.resolve(fn.Content(v.src)); ok {
			switch exported {
			case "css":
				v.cssCall(n)
			case "globalCss":
				v.globalCssCall(n)
			case "keyframes":
				v.keyframesCall(n)
			}
			return
		}
		obj, prop := fn.ChildByFieldName("object"), fn.ChildByFieldName("property")
		if obj == nil || prop == nil {
			return
		}
		if exported, ok := v.imports.resolve(obj.Content(v.src)); ok && exported == "styled" {
			v.styledCall(n, styledTarget{name: prop.Content(v.src)})
		}
	case "call_expression":
		inner := unwrap(fn.ChildByFieldName("function"))
		if inner == nil {
			return
		}
		exported, ok := v.imports.resolve(inner.Content(v.src))
		if !ok || exported != "styled" {
			return
		}
		args := callArguments(fn)
		if len(args) != 1 {
			return
		}
		target, ok := v.styledTargetOf(args[0])
		if !ok {
			v.issue(fn, "styled", "styled target could not be resolved")
			return
		}
		v.styledCall(n, target)
	}
}

// cssCall replaces css(...) with its class list. Calls with runtime values
// are kept.
func (v *visitor) cssCall(n *sitter.Node) {
	var (
		props []StyleProp
		order *uint8
	)
	for _, arg := range callArguments(n) {
		r := v.styles.extract("", arg, 0, nil)
		switch r.Kind {
		case Maintain:
			v.issue(arg, "css", "css() argument could not be extracted")
			return
		case ExtractStyle:
			props = append(props, r.Styles...)
			if r.StyleOrder != nil {
				order = r.StyleOrder
			}
		}
	}
	if order != nil {
		props = mapProps(props, func(s StyleValue) StyleValue { return withOrder(s, order) })
	}
	if hasDynamic(props) {
		v.issue(n, "css", "css() cannot bind runtime values")
		return
	}
	v.collect(props)
	expr := GenClassNameExpression(props, v.nm)
	if expr == "" {
		expr = `""`
	}
	v.doc.Replace(int(n.StartByte()), int(n.EndByte()), expr)
}

// globalCssCall collects global rules and drops the call.
func (v *visitor) globalCssCall(n *sitter.Node) {
	var (
		props []StyleProp
		raw   []StyleValue
	)
	for _, arg := range callArguments(n) {
		arg = unwrap(arg)
		switch arg.Type() {
		case "string":
			s, _ := stringValue(arg, v.src)
			raw = append(raw, CSSStyle{CSS: strings.TrimSpace(s), File: v.nm.Filename})
		case "template_string":
			chunks, subs := templateChunks(arg, v.src)
			if len(subs) != 0 {
				v.issue(arg, "globalCss", "globalCss template cannot hold runtime values")
				return
			}
			raw = append(raw, CSSStyle{CSS: strings.TrimSpace(chunks[0]), File: v.nm.Filename})
		case "object":
			for _, c := range namedChildren(arg) {
				if c.Type() != "pair" {
					v.issue(c, "globalCss", "globalCss keys must be literal selectors")
					return
				}
				key, ok := propertyKey(c.ChildByFieldName("key"), v.src)
				if !ok {
					v.issue(c, "globalCss", "globalCss keys must be literal selectors")
					return
				}
				sel := css.Global(key, v.nm.Filename)
				r := v.styles.extractStyle(c.ChildByFieldName("value"), 0, &sel, false)
				if r.Kind == Maintain {
					v.issue(c, key, "global style could not be extracted")
					return
				}
				props = append(props, r.Styles...)
			}
		default:
			v.issue(arg, "globalCss", "globalCss argument could not be extracted")
			return
		}
	}
	if hasDynamic(props) {
		v.issue(n, "globalCss", "globalCss cannot bind runtime values")
		return
	}
	v.collect(props)
	v.values = append(v.values, raw...)

	if parent := n.Parent(); parent != nil && parent.Type() == "expression_statement" {
		v.doc.Remove(int(parent.StartByte()), int(parent.EndByte()))
		return
	}
	v.doc.Replace(int(n.StartByte()), int(n.EndByte()), "void 0")
}

// keyframesCall replaces keyframes({...}) with the allocated animation
// name.
func (v *visitor) keyframesCall(n *sitter.Node) {
	args := callArguments(n)
	if len(args) != 1 || unwrap(args[0]).Type() != "object" {
		v.issue(n, "keyframes", "keyframes() takes one object literal")
		return
	}
	var steps []KeyframeStep
	for _, c := range namedChildren(unwrap(args[0])) {
		if c.Type() != "pair" {
			v.issue(c, "keyframes", "keyframes offsets must be literal keys")
			return
		}
		offset, ok := propertyKey(c.ChildByFieldName("key"), v.src)
		if !ok {
			v.issue(c, "keyframes", "keyframes offsets must be literal keys")
			return
		}
		r := v.styles.extractStyle(c.ChildByFieldName("value"), 0, nil, false)
		step, ok := keyframeStep(offset, r)
		if !ok {
			v.issue(c, offset, "keyframes step could not be extracted")
			return
		}
		steps = append(steps, step)
	}
	kf := KeyframesStyle{Steps: steps, File: v.nm.Filename}
	kf.Name = v.nm.Context.KeyframesName(KeyframesKey(steps), v.nm.Filename)
	v.values = append(v.values, kf)
	v.doc.Replace(int(n.StartByte()), int(n.EndByte()), jsString(kf.Name))
}

// keyframeStep accepts only unconditional static declarations.
func keyframeStep(offset string, r ExtractResult) (KeyframeStep, bool) {
	step := KeyframeStep{Offset: offset}
	switch r.Kind {
	case Maintain:
		return step, false
	case Remove:
		return step, true
	}
	var walk func(p StyleProp) bool
	walk = func(p StyleProp) bool {
		switch x := p.(type) {
		case StaticProp:
			s, ok := x.Value.(StaticStyle)
			if !ok || s.Selector != nil || s.Level != 0 {
				return false
			}
			step.Styles = append(step.Styles, s)
			return true
		case ResponsiveProp:
			for _, c := range x.Props {
				if !walk(c) {
					return false
				}
			}
			return true
		}
		return false
	}
	for _, p := range r.Styles {
		if !walk(p) {
			return step, false
		}
	}
	return step, true
}

// KeyframesKey renders the canonical text of keyframe steps, the identity
// under which keyframes names are allocated.
func KeyframesKey(steps []KeyframeStep) string {
	var b strings.Builder
	for _, s := range steps {
		b.WriteString(s.Offset)
		b.WriteString("{")
		for i, d := range s.Styles {
			if i > 0 {
				b.WriteString(";")
			}
			b.WriteString(d.Property)
			b.WriteString(":")
			b.WriteString(d.Value)
		}
		b.WriteString("}")
	}
	return b.String()
}
