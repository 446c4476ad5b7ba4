package css

import (
	"fmt"
	"strconv"
	"strings"
)

// NameKind selects what Allocate names.
type NameKind uint8

const (
	KindClassName NameKind = iota
	KindVariableName
	KindKeyframesName
)

func (k NameKind) String() string {
	switch k {
	case KindVariableName:
		return "variable"
	case KindKeyframesName:
		return "keyframes"
	default:
		return "class"
	}
}

// NameRequest carries the inputs of one allocation. Value is only used for
// class names; for keyframes Property holds the keyframes key.
type NameRequest struct {
	Property   string
	Level      uint8
	Value      string
	Selector   *StyleSelector
	StyleOrder *uint8
	Filename   string
}

// defaultStyleOrder stands in for an absent style order in style keys.
const defaultStyleOrder = 255

// Allocate returns the name for req.
func (c *Context) Allocate(kind NameKind, req NameRequest) string {
	switch kind {
	case KindVariableName:
		return c.VariableName(req.Property, req.Level, req.Selector)
	case KindKeyframesName:
		return c.KeyframesName(req.Property, req.Filename)
	default:
		return c.ClassName(req.Property, req.Level, req.Value, req.Selector, req.StyleOrder, req.Filename)
	}
}

// ClassName returns the atomic class of one declaration. Equal inputs give
// equal names for the lifetime of the context; a styleOrder of 0 shares the
// class across every file.
func (c *Context) ClassName(property string, level uint8, value string, selector *StyleSelector, styleOrder *uint8, filename string) string {
	order := defaultStyleOrder
	if styleOrder != nil {
		order = int(*styleOrder)
	}
	if order == 0 {
		filename = ""
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.debug {
		name := c.prefix + strings.Join([]string{
			property,
			strconv.Itoa(int(level)),
			EncodeSelector(OptimizeValue(value)),
			encodeOptionalSelector(selector),
			strconv.Itoa(order),
		}, "-")
		if filename != "" {
			name += "-" + strconv.Itoa(c.fileNumber(filename))
		}
		return name
	}

	key := fmt.Sprintf("%s-%d-%s-%s-%d", property, level, OptimizeValue(value), SelectorString(selector), order)
	n := c.lookup(filename, key)
	if filename == "" {
		return c.prefix + ToBase(n)
	}
	return c.prefix + ToBase(c.fileNumber(filename)) + "-" + ToBase(n)
}

// VariableName returns the CSS custom property carrying a dynamic value.
// Variables always live in the shared bucket.
func (c *Context) VariableName(property string, level uint8, selector *StyleSelector) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.debug {
		return "--" + c.prefix + strings.Join([]string{
			property,
			strconv.Itoa(int(level)),
			encodeOptionalSelector(selector),
		}, "-")
	}
	key := fmt.Sprintf("--%s-%d-%s", property, level, SelectorString(selector))
	return "--" + c.prefix + ToBase(c.lookup("", key))
}

// KeyframesName returns the animation name of the keyframes keyed by key.
func (c *Context) KeyframesName(key, filename string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var file string
	if filename != "" {
		file = ToBase(c.fileNumber(filename)) + "-"
	}
	if c.debug {
		return c.prefix + "k-" + file + EncodeSelector(key)
	}
	return c.prefix + "k-" + file + ToBase(c.lookup(filename, "@keyframes "+key))
}

func encodeOptionalSelector(s *StyleSelector) string {
	if s == nil {
		return ""
	}
	return EncodeSelector(SelectorString(s))
}

var selectorEscapes = map[rune]string{
	':':  "_c_",
	'(':  "_lp_",
	')':  "_rp_",
	' ':  "_s_",
	'&':  "_a_",
	'[':  "_lb_",
	']':  "_rb_",
	'=':  "_eq_",
	'>':  "_gt_",
	'~':  "_t_",
	'+':  "_p_",
	'*':  "_st_",
	'.':  "_d_",
	',':  "_cm_",
	'#':  "_h_",
	'"':  "_q_",
	'\'': "_sq_",
	'%':  "_pc_",
	'/':  "_sl_",
	'@':  "_at_",
}

// EncodeSelector escapes every character outside [A-Za-z0-9_-] so the
// result is usable inside a class name.
func EncodeSelector(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			if esc, ok := selectorEscapes[r]; ok {
				b.WriteString(esc)
			} else {
				fmt.Fprintf(&b, "_u%04x_", r)
			}
		}
	}
	return b.String()
}
