package extractor

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	cssparse "github.com/tdewolff/parse/v2/css"

	"github.com/yacobolo/atomcss/internal/css"
)

// placeholderPrefix marks template substitutions inside CSS text.
const placeholderPrefix = "__atomcss_"

func placeholder(i int) string {
	return fmt.Sprintf("%s%d__", placeholderPrefix, i)
}

// cssBlock splits raw CSS text such as
//
//	color: red; &:hover { color: blue } @media (min-width: 480px) { ... }
//
// into style props. subs maps placeholders to the source text of template
// substitutions; declarations using them become dynamic.
type cssBlock struct {
	subs map[string]string
}

func (b cssBlock) split(text string, level uint8, sel *css.StyleSelector) ([]StyleProp, error) {
	var (
		props []StyleProp
		flat  strings.Builder
	)
	segStart := 0
	depth := 0
	open := -1
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '"', '\'':
			end := strings.IndexByte(text[i+1:], c)
			if end < 0 {
				return nil, fmt.Errorf("unterminated string in css block")
			}
			i += end + 1
		case '/':
			if i+1 < len(text) && text[i+1] == '*' {
				end := strings.Index(text[i+2:], "*/")
				if end < 0 {
					return nil, fmt.Errorf("unterminated comment in css block")
				}
				i += end + 3
			}
		case '{':
			if depth == 0 {
				open = i
			}
			depth++
		case '}':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced braces in css block")
			}
			if depth == 0 {
				prelude := strings.TrimSpace(text[segStart:open])
				nested, err := b.nest(prelude, sel)
				if err != nil {
					return nil, err
				}
				for _, s := range nested {
					inner, err := b.split(text[open+1:i], level, &s)
					if err != nil {
						return nil, err
					}
					props = append(props, inner...)
				}
				segStart = i + 1
			}
		case ';':
			if depth == 0 {
				flat.WriteString(text[segStart : i+1])
				segStart = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced braces in css block")
	}
	flat.WriteString(text[segStart:])

	decls, err := b.declarations(flat.String(), level, sel)
	if err != nil {
		return nil, err
	}
	return append(decls, props...), nil
}

// nest resolves a nested rule prelude against the active selector.
func (b cssBlock) nest(prelude string, sel *css.StyleSelector) ([]css.StyleSelector, error) {
	if strings.Contains(prelude, placeholderPrefix) {
		return nil, fmt.Errorf("dynamic selector %q", prelude)
	}
	if strings.HasPrefix(prelude, "@") {
		name, query, _ := strings.Cut(prelude, " ")
		kind, ok := css.ParseAtRuleKind(name)
		if !ok {
			return nil, fmt.Errorf("unsupported at-rule %s", name)
		}
		return []css.StyleSelector{css.Nest(sel, css.At(kind, strings.TrimSpace(query), ""))}, nil
	}
	var out []css.StyleSelector
	for _, frag := range strings.Split(prelude, ",") {
		frag = strings.TrimSpace(frag)
		if frag == "" {
			continue
		}
		out = append(out, css.Nest(sel, nestedSelector(frag)))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty selector in css block")
	}
	return out, nil
}

// nestedSelector anchors a nested CSS selector on "&".
func nestedSelector(frag string) css.StyleSelector {
	switch {
	case strings.Contains(frag, "&"):
		return css.Selector(frag)
	case strings.HasPrefix(frag, ":"), strings.HasPrefix(frag, "["):
		return css.Selector("&" + frag)
	}
	return css.Selector("& " + frag)
}

func (b cssBlock) declarations(text string, level uint8, sel *css.StyleSelector) ([]StyleProp, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	p := cssparse.NewParser(parse.NewInputString(text), true)
	var props []StyleProp
	for {
		gt, _, data := p.Next()
		switch gt {
		case cssparse.ErrorGrammar:
			if err := p.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("css block: %w", err)
			}
			return props, nil
		case cssparse.DeclarationGrammar, cssparse.CustomPropertyGrammar:
			property := strings.TrimSpace(string(data))
			if !strings.HasPrefix(property, "--") {
				property = css.ToKebabCase(property)
			}
			value := joinTokens(p.Values())
			if value == "" {
				continue
			}
			props = append(props, b.declaration(property, value, level, sel))
		}
	}
}

func (b cssBlock) declaration(property, value string, level uint8, sel *css.StyleSelector) StyleProp {
	if !strings.Contains(value, placeholderPrefix) {
		return StaticProp{Value: StaticStyle{
			Property: property,
			Value:    css.OptimizeValue(css.ConvertString(value)),
			Level:    level,
			Selector: sel,
		}}
	}
	if expr, ok := b.subs[value]; ok {
		return StaticProp{Value: DynamicStyle{Property: property, Level: level, Selector: sel, Identifier: expr}}
	}
	tpl := escapeTemplate(value)
	for ph, expr := range b.subs {
		tpl = strings.ReplaceAll(tpl, ph, "${"+expr+"}")
	}
	return StaticProp{Value: DynamicStyle{Property: property, Level: level, Selector: sel, Identifier: "`" + tpl + "`"}}
}

func joinTokens(tokens []cssparse.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		if t.TokenType == cssparse.WhitespaceToken {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			continue
		}
		sb.Write(t.Data)
	}
	return strings.TrimSpace(sb.String())
}

// escapeTemplate escapes text for use inside a template literal.
func escapeTemplate(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "`", "\\`")
	return strings.ReplaceAll(s, "${", "\\${")
}
