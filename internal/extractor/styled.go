package extractor

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// styledTarget is what a styled component renders: an intrinsic tag name
// or a component expression.
type styledTarget struct {
	name      string
	component bool
}

// styledTargetOf reads the argument of styled(...).
func (v *visitor) styledTargetOf(n *sitter.Node) (styledTarget, bool) {
	n = unwrap(n)
	switch n.Type() {
	case "string":
		s, _ := stringValue(n, v.src)
		return styledTarget{name: s}, s != ""
	case "identifier", "member_expression":
		return styledTarget{name: v.text(n), component: true}, true
	}
	return styledTarget{}, false
}

// styledArguments extracts the styles of a styled factory call. Template
// substitutions that are functions are called with the component props.
func (v *visitor) styledArguments(n *sitter.Node) (ExtractResult, bool) {
	if isTaggedTemplate(n) {
		tpl := n.ChildByFieldName("arguments")
		chunks, subs := templateChunks(tpl, v.src)
		var b strings.Builder
		placeholders := make(map[string]string, len(subs))
		for i, sub := range subs {
			b.WriteString(chunks[i])
			if sub == nil {
				return ExtractResult{}, false
			}
			ph := placeholder(i)
			expr := v.text(sub)
			switch unwrap(sub).Type() {
			case "arrow_function", "function_expression", "function":
				expr = fmt.Sprintf("(%s)(props)", expr)
			}
			placeholders[ph] = expr
			b.WriteString(ph)
		}
		b.WriteString(chunks[len(chunks)-1])
		r := v.styles.extractBlock(b.String(), placeholders, 0, nil)
		return r, r.Kind != Maintain
	}

	res := ExtractResult{Kind: ExtractStyle}
	for _, arg := range callArguments(n) {
		r := v.styles.extract("", arg, 0, nil)
		switch r.Kind {
		case Maintain:
			return r, false
		case ExtractStyle:
			res.Styles = append(res.Styles, r.Styles...)
			if r.StyleOrder != nil {
				res.StyleOrder = r.StyleOrder
			}
		}
	}
	return res, true
}

// styledCall replaces a styled factory call with a component that renders
// target with the extracted classes.
func (v *visitor) styledCall(n *sitter.Node, target styledTarget) {
	r, ok := v.styledArguments(n)
	if !ok {
		v.issue(n, "styled", "styled component styles could not be extracted")
		return
	}
	props := r.Styles
	if r.StyleOrder != nil {
		props = mapProps(props, func(s StyleValue) StyleValue { return withOrder(s, r.StyleOrder) })
	}
	v.collect(props)

	className := MergeClassName("props.className", GenClassNameExpression(props, v.nm))
	style := GenStyleObject(props, v.nm)
	if !style.Empty() {
		style = MergeStyle("props.style", style)
	}

	var out string
	if v.jsx {
		out = styledJSX(target, className, style)
	} else {
		v.createElement = true
		out = styledCreateElement(target, className, style)
	}
	v.doc.Replace(int(n.StartByte()), int(n.EndByte()), out)
}

func styledJSX(target styledTarget, className string, style StyleObject) string {
	var b strings.Builder
	b.WriteString("((props) => <")
	b.WriteString(target.name)
	b.WriteString(" {...props} className={")
	b.WriteString(className)
	b.WriteString("}")
	if !style.Empty() {
		b.WriteString(" style={")
		b.WriteString(style.String())
		b.WriteString("}")
	}
	b.WriteString(" />)")
	return b.String()
}

func styledCreateElement(target styledTarget, className string, style StyleObject) string {
	tag := jsString(target.name)
	if target.component {
		tag = target.name
	}
	fields := []string{"...props", "className: " + className}
	if !style.Empty() {
		fields = append(fields, "style: "+style.String())
	}
	return fmt.Sprintf("((props) => createElement(%s, { %s }))", tag, strings.Join(fields, ", "))
}
