package extractor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yacobolo/atomcss/internal/css"
)

// dynamicValue stands for the variable of a dynamic style in class keys.
// The variable itself is a function of property, level and selector, which
// the key already holds.
const dynamicValue = "\x00var"

// Namer allocates the names of one file. Filename is the allocation
// bucket, "" when every style goes to the shared sheet.
type Namer struct {
	Context  *css.Context
	Filename string
}

// ClassName returns the class of a leaf style, false for values that have
// no class (raw CSS, keyframes).
func (nm Namer) ClassName(v StyleValue) (string, bool) {
	switch s := v.(type) {
	case StaticStyle:
		return nm.Context.ClassName(s.Property, s.Level, s.Value, s.Selector, s.StyleOrder, nm.Filename), true
	case DynamicStyle:
		// The variable is allocated first so it takes its number before
		// the class when both land in the shared bucket.
		value := "var(" + nm.VariableName(s) + ")"
		if !nm.Context.Debug() {
			// Keys must not depend on allocated numbers, or contexts
			// filled apart would disagree after a merge.
			value = dynamicValue
		}
		return nm.Context.ClassName(s.Property, s.Level, value, s.Selector, s.StyleOrder, nm.Filename), true
	case TypographyStyle:
		return "typo-" + s.Name, true
	}
	return "", false
}

// VariableName returns the CSS variable carrying a dynamic value.
func (nm Namer) VariableName(s DynamicStyle) string {
	return nm.Context.VariableName(s.Property, s.Level, s.Selector)
}

// classFragment is a piece of a class list: a literal or a JS expression.
type classFragment struct {
	literal string
	expr    string
}

func (f classFragment) isLiteral() bool { return f.expr == "" }

// js renders the fragment as a JS expression.
func (f classFragment) js() string {
	if f.isLiteral() {
		return jsString(f.literal)
	}
	return f.expr
}

// GenClassNameExpression renders props as a JS expression evaluating to the
// class list, "" when props produce no class. Later props win over earlier
// unconditional props on the same property, level and selector.
func GenClassNameExpression(props []StyleProp, nm Namer) string {
	var frags []classFragment
	for _, p := range dedupLeaves(props) {
		if f, ok := nm.fragment(p); ok {
			frags = append(frags, f)
		}
	}
	return joinFragments(frags)
}

// leafKey identifies the declaration slot of an unconditional leaf.
func leafKey(v StyleValue) (string, bool) {
	switch s := v.(type) {
	case StaticStyle:
		return fmt.Sprintf("%s|%d|%s|%d", s.Property, s.Level, css.SelectorString(s.Selector), optionalOrder(s.StyleOrder)), true
	case DynamicStyle:
		return fmt.Sprintf("%s|%d|%s|%d", s.Property, s.Level, css.SelectorString(s.Selector), optionalOrder(s.StyleOrder)), true
	}
	return "", false
}

// dedupLeaves flattens unconditional groups and drops leaves shadowed by a
// later leaf on the same slot. The order of the survivors is kept.
func dedupLeaves(props []StyleProp) []StyleProp {
	var flat []StyleProp
	var walk func(p StyleProp)
	walk = func(p StyleProp) {
		if r, ok := p.(ResponsiveProp); ok {
			for _, c := range r.Props {
				walk(c)
			}
			return
		}
		flat = append(flat, p)
	}
	for _, p := range props {
		walk(p)
	}

	seen := make(map[string]bool)
	keep := make([]bool, len(flat))
	for i := len(flat) - 1; i >= 0; i-- {
		keep[i] = true
		sp, ok := flat[i].(StaticProp)
		if !ok {
			continue
		}
		key, ok := leafKey(sp.Value)
		if !ok {
			continue
		}
		if seen[key] {
			keep[i] = false
			continue
		}
		seen[key] = true
	}
	out := flat[:0]
	for i, p := range flat {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

func (nm Namer) fragment(p StyleProp) (classFragment, bool) {
	switch x := p.(type) {
	case StaticProp:
		name, ok := nm.ClassName(x.Value)
		return classFragment{literal: name}, ok
	case ResponsiveProp:
		var frags []classFragment
		for _, c := range x.Props {
			if f, ok := nm.fragment(c); ok {
				frags = append(frags, f)
			}
		}
		if len(frags) == 0 {
			return classFragment{}, false
		}
		joined := joinFragments(frags)
		if lit, ok := stringLiteral(joined); ok {
			return classFragment{literal: lit}, true
		}
		return classFragment{expr: joined}, true
	case ConditionalProp:
		cons := nm.branch(x.Consequent)
		alt := nm.branch(x.Alternate)
		if cons.isLiteral() && alt.isLiteral() && cons.literal == alt.literal {
			return cons, cons.literal != ""
		}
		return classFragment{expr: fmt.Sprintf("%s ? %s : %s", wrapCondition(x.Condition), wrapOperand(cons.js()), wrapOperand(alt.js()))}, true
	case ExpressionProp:
		return classFragment{expr: x.Expression}, x.Expression != ""
	case MemberProp:
		return nm.memberFragment(x)
	}
	return classFragment{}, false
}

func (nm Namer) branch(p StyleProp) classFragment {
	if p == nil {
		return classFragment{}
	}
	f, ok := nm.fragment(p)
	if !ok {
		return classFragment{}
	}
	return f
}

func (nm Namer) memberFragment(m MemberProp) (classFragment, bool) {
	var (
		parts    []string
		fallback = `""`
	)
	for _, e := range m.Entries {
		f := nm.branch(e.Prop)
		if e.Key == etcKey {
			fallback = wrapOperand(f.js())
			continue
		}
		parts = append(parts, jsString(e.Key)+": "+f.js())
	}
	if len(parts) == 0 {
		return classFragment{expr: fallback}, fallback != `""`
	}
	return classFragment{expr: fmt.Sprintf("({ %s })[%s] ?? %s", strings.Join(parts, ", "), m.Expression, fallback)}, true
}

// joinFragments merges adjacent literals and renders a string literal or a
// template literal.
func joinFragments(frags []classFragment) string {
	var merged []classFragment
	for _, f := range frags {
		if f.isLiteral() {
			if f.literal == "" {
				continue
			}
			if n := len(merged); n > 0 && merged[n-1].isLiteral() {
				merged[n-1].literal = joinClassList(merged[n-1].literal, f.literal)
				continue
			}
		}
		merged = append(merged, f)
	}
	switch {
	case len(merged) == 0:
		return ""
	case len(merged) == 1 && merged[0].isLiteral():
		return jsString(merged[0].literal)
	case len(merged) == 1:
		return merged[0].expr
	}
	parts := make([]string, len(merged))
	for i, f := range merged {
		if f.isLiteral() {
			parts[i] = escapeTemplate(f.literal)
		} else {
			parts[i] = "${" + f.expr + "}"
		}
	}
	return "`" + strings.Join(parts, " ") + "`"
}

// joinClassList joins two class lists dropping repeated classes.
func joinClassList(a, b string) string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range append(strings.Fields(a), strings.Fields(b)...) {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return strings.Join(out, " ")
}

// MergeClassName merges generated classes into an existing className
// expression. Two string literals are joined; anything else is joined at
// runtime.
func MergeClassName(existing, generated string) string {
	switch {
	case strings.TrimSpace(generated) == "":
		return existing
	case strings.TrimSpace(existing) == "":
		return generated
	}
	a, aok := stringLiteral(generated)
	b, bok := stringLiteral(existing)
	if aok && bok {
		return jsString(strings.TrimSpace(joinClassList(a, b)))
	}
	return fmt.Sprintf(`[%s, %s].filter(Boolean).join(" ")`, generated, existing)
}

// jsString quotes s as a double quoted JS string.
func jsString(s string) string {
	return strconv.Quote(s)
}

// stringLiteral decodes a quoted JS string or a template literal without
// substitutions.
func stringLiteral(expr string) (string, bool) {
	expr = strings.TrimSpace(expr)
	if len(expr) < 2 {
		return "", false
	}
	switch q := expr[0]; q {
	case '"', '\'':
		body := expr[1 : len(expr)-1]
		if expr[len(expr)-1] != q {
			return "", false
		}
		for i := 0; i < len(body); i++ {
			switch body[i] {
			case '\\':
				i++
			case q:
				return "", false
			}
		}
		return unquote(expr), true
	case '`':
		body := expr[1 : len(expr)-1]
		if expr[len(expr)-1] != '`' || strings.Contains(body, "${") || strings.Contains(body, "`") || strings.Contains(body, "\\") {
			return "", false
		}
		return body, true
	}
	return "", false
}

// wrapCondition parenthesizes a condition unless it is a simple operand.
func wrapCondition(cond string) string {
	if isSimpleOperand(cond) {
		return cond
	}
	return "(" + cond + ")"
}

// wrapOperand parenthesizes expressions used as a ternary branch.
func wrapOperand(expr string) string {
	if isSimpleOperand(expr) {
		return expr
	}
	if _, ok := stringLiteral(expr); ok {
		return expr
	}
	return "(" + expr + ")"
}

func isSimpleOperand(expr string) bool {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return false
	}
	if strings.HasPrefix(expr, "(") && strings.HasSuffix(expr, ")") && balancedParens(expr[1:len(expr)-1]) {
		return true
	}
	for _, r := range expr {
		switch {
		case r == '_' || r == '$' || r == '.':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

func balancedParens(s string) bool {
	depth := 0
	for _, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}
