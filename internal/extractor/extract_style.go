package extractor

import (
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/yacobolo/atomcss/internal/css"
)

// ignoredIdentifiers are dropped when used as a style value.
var ignoredIdentifiers = map[string]bool{
	"undefined": true,
	"NaN":       true,
	"Infinity":  true,
}

// DefaultMaxLevel is the number of responsive levels (breakpoints).
const DefaultMaxLevel = 5

// styleExtractor classifies style expressions of one file.
type styleExtractor struct {
	src      []byte
	doc      *Document
	file     string
	maxLevel int
}

func newStyleExtractor(doc *Document, file string, maxLevel int) *styleExtractor {
	if maxLevel <= 0 {
		maxLevel = DefaultMaxLevel
	}
	return &styleExtractor{src: doc.Source(), doc: doc, file: file, maxLevel: maxLevel}
}

// text returns the current source of n, including rewrites of its
// children.
func (e *styleExtractor) text(n *sitter.Node) string {
	return e.doc.Slice(int(n.StartByte()), int(n.EndByte()))
}

// rewrittenString reports a node already replaced by a string literal,
// such as a keyframes() call.
func (e *styleExtractor) rewrittenString(n *sitter.Node) (string, bool) {
	r, ok := e.doc.Replacement(int(n.StartByte()), int(n.EndByte()))
	if !ok || len(r) < 2 || (r[0] != '"' && r[0] != '\'') || r[len(r)-1] != r[0] {
		return "", false
	}
	return unquote(r), true
}

// extract classifies n. name is the style prop name; "" means n is a
// whole style object or CSS block. level is the responsive level and sel
// the active selector.
func (e *styleExtractor) extract(name string, n *sitter.Node, level uint8, sel *css.StyleSelector) ExtractResult {
	n = unwrap(n)
	if n == nil {
		return remove()
	}
	if name == "" {
		return e.extractStyle(n, level, sel, true)
	}

	switch {
	case name == "selectors":
		return e.extractSelectors(n, level, sel)
	case isAtRuleProp(name):
		return e.extractAtRuleProp(name, n, level, sel)
	case strings.HasPrefix(name, "@"):
		kind, query, ok := parseAtRuleKey(name)
		if !ok {
			return maintain()
		}
		s := css.Nest(sel, css.At(kind, query, ""))
		return e.extractStyle(n, level, &s, false)
	case strings.HasPrefix(name, "_"):
		s := css.Nest(sel, css.SelectorFrom(name[1:]))
		return e.extractStyle(n, level, &s, false)
	case strings.HasPrefix(name, ":"), strings.HasPrefix(name, "&"), strings.HasPrefix(name, "["):
		s := css.Nest(sel, nestedSelector(name))
		return e.extractStyle(n, level, &s, false)
	}
	return e.extractValue(name, n, level, sel)
}

func isAtRuleProp(name string) bool {
	switch name {
	case "_media", "_supports", "_container", "@media", "@supports", "@container":
		return true
	}
	return false
}

// parseAtRuleKey splits "@media (min-width: 10px)" into kind and query.
func parseAtRuleKey(key string) (css.AtRuleKind, string, bool) {
	word, query, _ := strings.Cut(key, " ")
	kind, ok := css.ParseAtRuleKind(word)
	if !ok {
		return 0, "", false
	}
	return kind, strings.TrimSpace(query), true
}

// extractStyle handles n as a style object, a CSS block or a structure of
// them. top enables the as/styleOrder/styleVars/props side channels.
func (e *styleExtractor) extractStyle(n *sitter.Node, level uint8, sel *css.StyleSelector, top bool) ExtractResult {
	n = unwrap(n)
	if n == nil {
		return remove()
	}
	switch n.Type() {
	case "object":
		return e.extractObject(n, level, sel, top)
	case "string":
		v, _ := stringValue(n, e.src)
		return e.extractBlock(v, nil, level, sel)
	case "template_string":
		return e.extractTemplateBlock(n, level, sel)
	case "null", "undefined", "false":
		return remove()
	case "identifier":
		if ignoredIdentifiers[n.Content(e.src)] {
			return remove()
		}
		return maintain()
	case "array":
		if level != 0 {
			return maintain()
		}
		var props []StyleProp
		for _, el := range arrayElements(n) {
			if el.spread || el.index >= e.maxLevel {
				return maintain()
			}
			r := e.extractStyle(el.node, uint8(el.index), sel, false)
			switch r.Kind {
			case Maintain:
				return maintain()
			case ExtractStyle:
				props = append(props, r.Styles...)
			}
		}
		if len(props) == 0 {
			return remove()
		}
		return extracted(ResponsiveProp{Props: props})
	case "ternary_expression":
		cons, alt := n.ChildByFieldName("consequence"), n.ChildByFieldName("alternative")
		if e.text(cons) == e.text(alt) {
			return e.extractStyle(cons, level, sel, false)
		}
		return conditional(e.text(n.ChildByFieldName("condition")),
			e.extractStyle(cons, level, sel, false),
			e.extractStyle(alt, level, sel, false))
	case "binary_expression":
		left, right := n.ChildByFieldName("left"), n.ChildByFieldName("right")
		switch binaryOperator(n) {
		case "&&":
			return conditional(e.text(left), e.extractStyle(right, level, sel, false), remove())
		case "||":
			return conditional(e.text(left), remove(), e.extractStyle(right, level, sel, false))
		}
	}
	return maintain()
}

// extractObject walks the keys of a style object.
func (e *styleExtractor) extractObject(n *sitter.Node, level uint8, sel *css.StyleSelector, top bool) ExtractResult {
	res := ExtractResult{Kind: ExtractStyle}
	for _, c := range namedChildren(n) {
		var (
			key   string
			value *sitter.Node
		)
		switch c.Type() {
		case "pair":
			k, ok := propertyKey(c.ChildByFieldName("key"), e.src)
			if !ok {
				return maintain()
			}
			key, value = k, c.ChildByFieldName("value")
		case "shorthand_property_identifier":
			key, value = c.Content(e.src), c
		default:
			return maintain()
		}

		if top {
			if handled, ok := e.sideChannel(&res, key, value); handled {
				if !ok {
					return maintain()
				}
				continue
			}
		}

		r := e.extract(key, value, level, sel)
		switch r.Kind {
		case Maintain:
			return maintain()
		case ExtractStyle:
			res.Styles = append(res.Styles, r.Styles...)
		}
	}
	if !top && len(res.Styles) == 0 {
		return remove()
	}
	return res
}

// sideChannel reads the non-style keys of a top-level style object.
func (e *styleExtractor) sideChannel(res *ExtractResult, key string, value *sitter.Node) (handled, ok bool) {
	value = unwrap(value)
	switch key {
	case "as":
		tag, ok := e.tagOverride(value)
		res.Tag = tag
		return true, ok
	case "styleOrder":
		if !isNumberLiteral(value) {
			return true, false
		}
		order, ok := parseStyleOrder(value.Content(e.src))
		res.StyleOrder = order
		return true, ok
	case "styleVars":
		res.StyleVars = e.text(value)
		return true, true
	case "props":
		res.Props = e.text(value)
		return true, true
	}
	return false, true
}

// tagOverride reads an "as" value: a string tag or a component reference.
func (e *styleExtractor) tagOverride(n *sitter.Node) (*TagOverride, bool) {
	n = unwrap(n)
	if n == nil {
		return nil, false
	}
	switch n.Type() {
	case "string":
		v, _ := stringValue(n, e.src)
		return &TagOverride{Name: v}, v != ""
	case "identifier", "member_expression":
		return &TagOverride{Name: e.text(n), Expression: true}, true
	case "template_string":
		chunks, subs := templateChunks(n, e.src)
		if len(subs) == 0 {
			return &TagOverride{Name: chunks[0]}, chunks[0] != ""
		}
	}
	return nil, false
}

// extractSelectors handles the "selectors" prop: every key is a comma
// separated list of selector fragments.
func (e *styleExtractor) extractSelectors(n *sitter.Node, level uint8, sel *css.StyleSelector) ExtractResult {
	if n.Type() != "object" {
		return maintain()
	}
	var props []StyleProp
	for _, c := range namedChildren(n) {
		if c.Type() != "pair" {
			return maintain()
		}
		key, ok := propertyKey(c.ChildByFieldName("key"), e.src)
		if !ok {
			return maintain()
		}
		for _, frag := range strings.Split(key, ",") {
			frag = strings.TrimSpace(frag)
			if frag == "" {
				continue
			}
			var s css.StyleSelector
			if strings.Contains(frag, "&") {
				s = css.Nest(sel, css.Selector(frag))
			} else {
				s = css.Nest(sel, css.SelectorFrom(strings.TrimPrefix(frag, "_")))
			}
			r := e.extractStyle(c.ChildByFieldName("value"), level, &s, false)
			switch r.Kind {
			case Maintain:
				return maintain()
			case ExtractStyle:
				props = append(props, r.Styles...)
			}
		}
	}
	return extracted(props...)
}

// extractAtRuleProp handles _media/_supports/_container, whose keys are
// queries.
func (e *styleExtractor) extractAtRuleProp(name string, n *sitter.Node, level uint8, sel *css.StyleSelector) ExtractResult {
	kind, _ := css.ParseAtRuleKind(name)
	if n.Type() != "object" {
		return maintain()
	}
	var props []StyleProp
	for _, c := range namedChildren(n) {
		if c.Type() != "pair" {
			return maintain()
		}
		query, ok := propertyKey(c.ChildByFieldName("key"), e.src)
		if !ok {
			return maintain()
		}
		s := css.Nest(sel, css.At(kind, strings.TrimSpace(query), ""))
		r := e.extractStyle(c.ChildByFieldName("value"), level, &s, false)
		switch r.Kind {
		case Maintain:
			return maintain()
		case ExtractStyle:
			props = append(props, r.Styles...)
		}
	}
	return extracted(props...)
}

// extractBlock splits CSS text into declarations.
func (e *styleExtractor) extractBlock(text string, subs map[string]string, level uint8, sel *css.StyleSelector) ExtractResult {
	props, err := cssBlock{subs: subs}.split(text, level, sel)
	if err != nil {
		return maintain()
	}
	return extracted(props...)
}

func (e *styleExtractor) extractTemplateBlock(n *sitter.Node, level uint8, sel *css.StyleSelector) ExtractResult {
	chunks, subs := templateChunks(n, e.src)
	if len(subs) == 0 {
		return e.extractBlock(chunks[0], nil, level, sel)
	}
	var b strings.Builder
	placeholders := make(map[string]string, len(subs))
	for i, sub := range subs {
		b.WriteString(chunks[i])
		if sub == nil {
			return maintain()
		}
		ph := placeholder(i)
		placeholders[ph] = e.text(sub)
		b.WriteString(ph)
	}
	b.WriteString(chunks[len(chunks)-1])
	return e.extractBlock(b.String(), placeholders, level, sel)
}

// extractValue handles n as the value of the style prop name.
func (e *styleExtractor) extractValue(name string, n *sitter.Node, level uint8, sel *css.StyleSelector) ExtractResult {
	if v, ok := e.rewrittenString(n); ok {
		return e.staticLeaf(name, v, false, level, sel)
	}

	switch n.Type() {
	case "string":
		v, _ := stringValue(n, e.src)
		return e.staticLeaf(name, v, false, level, sel)
	case "number":
		return e.staticLeaf(name, n.Content(e.src), true, level, sel)
	case "true", "false":
		return e.staticLeaf(name, n.Type(), false, level, sel)
	case "null", "undefined":
		return remove()
	case "identifier", "shorthand_property_identifier":
		if ignoredIdentifiers[n.Content(e.src)] {
			return remove()
		}
		return e.dynamicLeaf(name, n, level, sel)
	case "template_string":
		chunks, subs := templateChunks(n, e.src)
		if len(subs) == 0 {
			return e.staticLeaf(name, chunks[0], false, level, sel)
		}
		return e.dynamicLeaf(name, n, level, sel)
	case "unary_expression":
		arg := unwrap(n.ChildByFieldName("argument"))
		if op := n.ChildByFieldName("operator"); op != nil && op.Type() == "-" && isNumberLiteral(arg) {
			return e.staticLeaf(name, "-"+arg.Content(e.src), true, level, sel)
		}
		return e.dynamicLeaf(name, n, level, sel)
	case "array":
		return e.extractResponsive(name, n, level, sel)
	case "ternary_expression":
		cons, alt := n.ChildByFieldName("consequence"), n.ChildByFieldName("alternative")
		if e.text(cons) == e.text(alt) {
			return e.extract(name, cons, level, sel)
		}
		return conditional(e.text(n.ChildByFieldName("condition")),
			e.extract(name, cons, level, sel),
			e.extract(name, alt, level, sel))
	case "binary_expression":
		return e.extractLogical(name, n, level, sel)
	case "subscript_expression":
		return e.extractSubscript(name, n, level, sel)
	case "object", "arrow_function", "function_expression", "function", "generator_function",
		"jsx_element", "jsx_self_closing_element", "jsx_fragment", "class", "assignment_expression":
		return maintain()
	}
	return e.dynamicLeaf(name, n, level, sel)
}

// extractLogical handles &&, || and ??. Other operators compute a value
// at runtime.
func (e *styleExtractor) extractLogical(name string, n *sitter.Node, level uint8, sel *css.StyleSelector) ExtractResult {
	left, right := n.ChildByFieldName("left"), n.ChildByFieldName("right")
	cond := e.text(left)
	switch binaryOperator(n) {
	case "&&":
		return conditional(cond, e.extract(name, right, level, sel), remove())
	case "||":
		return conditional(cond, remove(), e.extract(name, right, level, sel))
	case "??":
		guard := fmt.Sprintf("(%s !== null && %s !== undefined)", cond, cond)
		return conditional(guard, e.extract(name, left, level, sel), e.extract(name, right, level, sel))
	}
	return e.dynamicLeaf(name, n, level, sel)
}

// conditional combines extracted branches. An unanalyzable branch keeps
// the whole expression; two empty branches remove it.
func conditional(cond string, cons, alt ExtractResult) ExtractResult {
	if cons.Kind == Maintain || alt.Kind == Maintain {
		return maintain()
	}
	c, a := cons.group(), alt.group()
	if c == nil && a == nil {
		return remove()
	}
	return extracted(ConditionalProp{Condition: cond, Consequent: c, Alternate: a})
}

// arrayElement is one element of an array literal with its index; holes
// advance the index.
type arrayElement struct {
	node   *sitter.Node
	index  int
	spread bool
}

func arrayElements(n *sitter.Node) []arrayElement {
	var out []arrayElement
	idx := 0
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "[", "]", "comment":
			continue
		case ",":
			idx++
			continue
		case "spread_element":
			out = append(out, arrayElement{node: firstNamedExpression(c), index: idx, spread: true})
			continue
		}
		out = append(out, arrayElement{node: c, index: idx})
	}
	return out
}

// extractResponsive maps array index i to responsive level i. A trailing
// spread fills the remaining levels from the spread array at runtime.
func (e *styleExtractor) extractResponsive(name string, n *sitter.Node, level uint8, sel *css.StyleSelector) ExtractResult {
	if level != 0 {
		return maintain()
	}
	elements := arrayElements(n)
	var props []StyleProp
	for i, el := range elements {
		if el.spread {
			if i != len(elements)-1 || el.node == nil {
				return maintain()
			}
			rest := e.text(el.node)
			for l := el.index; l < e.maxLevel; l++ {
				props = append(props, e.dynamicProps(name, fmt.Sprintf("(%s)[%d]", rest, l-el.index), uint8(l), sel)...)
			}
			continue
		}
		if el.index >= e.maxLevel {
			continue
		}
		r := e.extract(name, el.node, uint8(el.index), sel)
		switch r.Kind {
		case Maintain:
			return maintain()
		case ExtractStyle:
			props = append(props, r.Styles...)
		}
	}
	if len(props) == 0 {
		return remove()
	}
	return extracted(ResponsiveProp{Props: props})
}

// extractSubscript handles computed access into an array or object
// literal.
func (e *styleExtractor) extractSubscript(name string, n *sitter.Node, level uint8, sel *css.StyleSelector) ExtractResult {
	obj := unwrap(n.ChildByFieldName("object"))
	idx := unwrap(n.ChildByFieldName("index"))
	if obj == nil || idx == nil {
		return maintain()
	}
	switch obj.Type() {
	case "array":
		return e.extractArrayMember(name, obj, idx, level, sel)
	case "object":
		return e.extractObjectMember(name, obj, idx, level, sel)
	}
	return e.dynamicLeaf(name, n, level, sel)
}

func (e *styleExtractor) extractArrayMember(name string, arr, idx *sitter.Node, level uint8, sel *css.StyleSelector) ExtractResult {
	elements := arrayElements(arr)
	if isNumberLiteral(idx) {
		k, err := strconv.Atoi(idx.Content(e.src))
		if err != nil {
			return e.dynamicLeaf(name, idx.Parent(), level, sel)
		}
		for _, el := range elements {
			if el.spread {
				if k >= el.index {
					return e.extractDynamicText(name, fmt.Sprintf("(%s)[%d]", e.text(el.node), k-el.index), level, sel)
				}
				break
			}
			if el.index == k {
				return e.extract(name, el.node, level, sel)
			}
		}
		return remove()
	}

	expr := e.text(idx)
	m := MemberProp{Expression: expr}
	for _, el := range elements {
		if el.spread {
			if el.node == nil {
				return maintain()
			}
			ident := fmt.Sprintf("(%s)[%s - %d]", e.text(el.node), expr, el.index)
			m.Entries = append(m.Entries, MemberEntry{Key: etcKey, Prop: groupProps(e.dynamicProps(name, ident, level, sel))})
			break
		}
		r := e.extract(name, el.node, level, sel)
		switch r.Kind {
		case Maintain:
			return maintain()
		case ExtractStyle:
			m.Entries = append(m.Entries, MemberEntry{Key: strconv.Itoa(el.index), Prop: r.group()})
		}
	}
	if len(m.Entries) == 0 {
		return remove()
	}
	return extracted(m)
}

func (e *styleExtractor) extractObjectMember(name string, obj, idx *sitter.Node, level uint8, sel *css.StyleSelector) ExtractResult {
	staticKey, isStatic := "", false
	switch idx.Type() {
	case "string":
		staticKey, isStatic = stringValue(idx, e.src)
	case "number":
		staticKey, isStatic = idx.Content(e.src), true
	}

	children := namedChildren(obj)
	lastSpread := -1
	for i, c := range children {
		if c.Type() == "spread_element" {
			lastSpread = i
		}
	}
	// Keys before the last spread may be overwritten by it, so only the
	// keys after it are known. The rest is read from the object at runtime.
	var rest string
	switch {
	case lastSpread == 0:
		spread := firstNamedExpression(children[0])
		if spread == nil {
			return maintain()
		}
		rest = e.text(spread)
	case lastSpread > 0:
		rest = e.text(obj)
	}

	expr := e.text(idx)
	m := MemberProp{Expression: expr}
	seen := make(map[string]bool)
	for _, c := range children[lastSpread+1:] {
		var (
			key   string
			value *sitter.Node
		)
		switch c.Type() {
		case "pair":
			k, ok := propertyKey(c.ChildByFieldName("key"), e.src)
			if !ok {
				return maintain()
			}
			key, value = k, c.ChildByFieldName("value")
		case "shorthand_property_identifier":
			key, value = c.Content(e.src), c
		default:
			return maintain()
		}

		if isStatic {
			if key == staticKey {
				return e.extract(name, value, level, sel)
			}
			continue
		}
		if seen[key] {
			// later keys win in object literals
			for i := range m.Entries {
				if m.Entries[i].Key == key {
					m.Entries = append(m.Entries[:i], m.Entries[i+1:]...)
					break
				}
			}
		}
		seen[key] = true
		r := e.extract(name, value, level, sel)
		switch r.Kind {
		case Maintain:
			return maintain()
		case ExtractStyle:
			m.Entries = append(m.Entries, MemberEntry{Key: key, Prop: r.group()})
		}
	}

	if rest != "" {
		ident := fmt.Sprintf("(%s)[%s]", rest, expr)
		if isStatic {
			return e.extractDynamicText(name, ident, level, sel)
		}
		m.Entries = append(m.Entries, MemberEntry{Key: etcKey, Prop: groupProps(e.dynamicProps(name, ident, level, sel))})
	}
	if isStatic || len(m.Entries) == 0 {
		return remove()
	}
	return extracted(m)
}

// staticLeaf builds the statics of a literal value. numeric literals get
// unit conversion per property.
func (e *styleExtractor) staticLeaf(name, value string, numeric bool, level uint8, sel *css.StyleSelector) ExtractResult {
	if name == "typography" {
		if value == "" {
			return remove()
		}
		return extracted(StaticProp{Value: TypographyStyle{Name: value}})
	}
	if enum, ok := css.EnumProperty(name); ok {
		decls, ok := enum[value]
		if !ok {
			return maintain()
		}
		props := make([]StyleProp, 0, len(decls))
		for _, d := range decls {
			props = append(props, StaticProp{Value: StaticStyle{
				Property: d.Property,
				Value:    css.OptimizeValue(d.Value),
				Level:    level,
				Selector: sel,
			}})
		}
		return extracted(props...)
	}

	var props []StyleProp
	for _, property := range css.ExpandProperty(name) {
		v := value
		if numeric {
			v = css.ConvertNumber(property, v)
		} else {
			v = css.ConvertString(v)
		}
		v = css.OptimizeValue(v)
		if v == "" {
			continue
		}
		props = append(props, StaticProp{Value: StaticStyle{
			Property: property,
			Value:    v,
			Level:    level,
			Selector: sel,
		}})
	}
	return extracted(props...)
}

// dynamicLeaf binds the runtime value of n.
func (e *styleExtractor) dynamicLeaf(name string, n *sitter.Node, level uint8, sel *css.StyleSelector) ExtractResult {
	return e.extractDynamicText(name, e.text(n), level, sel)
}

func (e *styleExtractor) extractDynamicText(name, expr string, level uint8, sel *css.StyleSelector) ExtractResult {
	if name == "typography" {
		return extracted(ExpressionProp{Expression: typographyExpression(expr)})
	}
	if enum, ok := css.EnumProperty(name); ok {
		m := MemberProp{Expression: expr}
		for _, key := range css.EnumKeys(name) {
			var props []StyleProp
			for _, d := range enum[key] {
				props = append(props, StaticProp{Value: StaticStyle{Property: d.Property, Value: css.OptimizeValue(d.Value), Level: level, Selector: sel}})
			}
			m.Entries = append(m.Entries, MemberEntry{Key: key, Prop: groupProps(props)})
		}
		return extracted(m)
	}
	return extracted(e.dynamicProps(name, expr, level, sel)...)
}

func (e *styleExtractor) dynamicProps(name, expr string, level uint8, sel *css.StyleSelector) []StyleProp {
	properties := css.ExpandProperty(name)
	props := make([]StyleProp, 0, len(properties))
	for _, property := range properties {
		props = append(props, StaticProp{Value: DynamicStyle{
			Property:   property,
			Level:      level,
			Selector:   sel,
			Identifier: expr,
		}})
	}
	return props
}

// typographyExpression builds the class reference of a runtime typography
// value: `typo-${expr}`.
func typographyExpression(expr string) string {
	if strings.HasPrefix(expr, "`") && strings.HasSuffix(expr, "`") && len(expr) >= 2 {
		return "`typo-" + expr[1:len(expr)-1] + "`"
	}
	return "`typo-${" + expr + "}`"
}

func groupProps(props []StyleProp) StyleProp {
	switch len(props) {
	case 0:
		return nil
	case 1:
		return props[0]
	}
	return ResponsiveProp{Props: props}
}
