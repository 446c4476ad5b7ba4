package extractor

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/yacobolo/atomcss/internal/css"
)

// StyleValue is one extracted declaration. Implementations:
// StaticStyle, DynamicStyle, TypographyStyle, CSSStyle and KeyframesStyle.
type StyleValue interface {
	styleValue()
}

// StaticStyle is a declaration whose value is known at build time. Value
// is always the output of css.OptimizeValue.
type StaticStyle struct {
	Property   string
	Value      string
	Level      uint8
	Selector   *css.StyleSelector
	Basic      bool
	StyleOrder *uint8
}

// DynamicStyle binds a property to a runtime expression through a CSS
// variable. Identifier is the verbatim source text of the expression.
type DynamicStyle struct {
	Property   string
	Level      uint8
	Selector   *css.StyleSelector
	Identifier string
	StyleOrder *uint8
}

// TypographyStyle references a theme typography class.
type TypographyStyle struct {
	Name string
}

// CSSStyle is a raw stylesheet block emitted verbatim.
type CSSStyle struct {
	CSS  string
	File string
}

// KeyframeStep is one offset of a keyframes rule.
type KeyframeStep struct {
	Offset string
	Styles []StaticStyle
}

// KeyframesStyle is an @keyframes rule with an allocated name.
type KeyframesStyle struct {
	Name  string
	Steps []KeyframeStep
	File  string
}

func (StaticStyle) styleValue()     {}
func (DynamicStyle) styleValue()    {}
func (TypographyStyle) styleValue() {}
func (CSSStyle) styleValue()        {}
func (KeyframesStyle) styleValue()  {}

// withOrder returns v with its style order replaced when it has none.
func withOrder(v StyleValue, order *uint8) StyleValue {
	if order == nil {
		return v
	}
	switch s := v.(type) {
	case StaticStyle:
		if s.StyleOrder == nil {
			o := *order
			s.StyleOrder = &o
		}
		return s
	case DynamicStyle:
		if s.StyleOrder == nil {
			o := *order
			s.StyleOrder = &o
		}
		return s
	}
	return v
}

func optionalOrder(o *uint8) int {
	if o == nil {
		return 255
	}
	return int(*o)
}

// StyleValueKey renders a value-based identity of v, used for dedup.
func StyleValueKey(v StyleValue) string {
	switch s := v.(type) {
	case StaticStyle:
		return fmt.Sprintf("s|%s|%d|%s|%s|%t|%d", s.Property, s.Level, s.Value, css.SelectorString(s.Selector), s.Basic, optionalOrder(s.StyleOrder))
	case DynamicStyle:
		return fmt.Sprintf("d|%s|%d|%s|%s|%d", s.Property, s.Level, s.Identifier, css.SelectorString(s.Selector), optionalOrder(s.StyleOrder))
	case TypographyStyle:
		return "t|" + s.Name
	case CSSStyle:
		return "c|" + s.CSS
	case KeyframesStyle:
		return "k|" + s.Name
	}
	return ""
}

func styleValueRank(v StyleValue) int {
	switch v.(type) {
	case StaticStyle:
		return 0
	case DynamicStyle:
		return 1
	case TypographyStyle:
		return 2
	case KeyframesStyle:
		return 3
	default:
		return 4
	}
}

// CompareStyleValues orders values by kind, then property, level,
// selector and value.
func CompareStyleValues(a, b StyleValue) int {
	if ra, rb := styleValueRank(a), styleValueRank(b); ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	switch x := a.(type) {
	case StaticStyle:
		y := b.(StaticStyle)
		if x.Basic != y.Basic {
			if x.Basic {
				return -1
			}
			return 1
		}
		if c := compareDecl(x.Property, x.Level, x.Selector, y.Property, y.Level, y.Selector); c != 0 {
			return c
		}
		return strings.Compare(x.Value, y.Value)
	case DynamicStyle:
		y := b.(DynamicStyle)
		if c := compareDecl(x.Property, x.Level, x.Selector, y.Property, y.Level, y.Selector); c != 0 {
			return c
		}
		return strings.Compare(x.Identifier, y.Identifier)
	}
	return strings.Compare(StyleValueKey(a), StyleValueKey(b))
}

func compareDecl(ap string, al uint8, as *css.StyleSelector, bp string, bl uint8, bs *css.StyleSelector) int {
	if c := strings.Compare(ap, bp); c != 0 {
		return c
	}
	if al != bl {
		if al < bl {
			return -1
		}
		return 1
	}
	return css.CompareOptional(as, bs)
}

// SortStyleValues sorts and dedups values in place.
func SortStyleValues(values []StyleValue) []StyleValue {
	sort.SliceStable(values, func(i, j int) bool { return CompareStyleValues(values[i], values[j]) < 0 })
	out := values[:0]
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		k := StyleValueKey(v)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	return out
}

// StyleProp is a node of the extracted style tree. Implementations:
// StaticProp, ResponsiveProp, ConditionalProp, ExpressionProp and
// MemberProp.
type StyleProp interface {
	styleProp()
}

// StaticProp is a leaf holding one StaticStyle or DynamicStyle (or a
// typography reference).
type StaticProp struct {
	Value StyleValue
}

// ResponsiveProp groups props; entries carry their own responsive level.
type ResponsiveProp struct {
	Props []StyleProp
}

// ConditionalProp selects between two branches at runtime. At least one
// branch is non-nil.
type ConditionalProp struct {
	Condition  string
	Consequent StyleProp
	Alternate  StyleProp
}

// ExpressionProp is a runtime class expression, such as a typography
// template, with the styles it may reference.
type ExpressionProp struct {
	Styles     []StyleValue
	Expression string
}

// MemberEntry is one key of a MemberProp.
type MemberEntry struct {
	Key  string
	Prop StyleProp
}

// etcKey is the MemberProp fallback entry used when no literal key matches.
const etcKey = "etc"

// MemberProp indexes a literal array or object with a runtime key.
// Entry keys are unique.
type MemberProp struct {
	Expression string
	Entries    []MemberEntry
}

func (StaticProp) styleProp()      {}
func (ResponsiveProp) styleProp()  {}
func (ConditionalProp) styleProp() {}
func (ExpressionProp) styleProp()  {}
func (MemberProp) styleProp()      {}

// Entry returns the prop stored under key.
func (m MemberProp) Entry(key string) (StyleProp, bool) {
	for _, e := range m.Entries {
		if e.Key == key {
			return e.Prop, true
		}
	}
	return nil, false
}

// CollectStyleValues flattens the leaves of props in declaration order.
func CollectStyleValues(props []StyleProp) []StyleValue {
	var out []StyleValue
	var walk func(p StyleProp)
	walk = func(p StyleProp) {
		switch x := p.(type) {
		case StaticProp:
			out = append(out, x.Value)
		case ResponsiveProp:
			for _, c := range x.Props {
				walk(c)
			}
		case ConditionalProp:
			if x.Consequent != nil {
				walk(x.Consequent)
			}
			if x.Alternate != nil {
				walk(x.Alternate)
			}
		case ExpressionProp:
			out = append(out, x.Styles...)
		case MemberProp:
			for _, e := range x.Entries {
				walk(e.Prop)
			}
		}
	}
	for _, p := range props {
		walk(p)
	}
	return out
}

// hasDynamic reports whether any leaf needs a runtime value.
func hasDynamic(props []StyleProp) bool {
	for _, v := range CollectStyleValues(props) {
		if _, ok := v.(DynamicStyle); ok {
			return true
		}
	}
	return false
}

// mapProps applies fn to every StyleValue leaf.
func mapProps(props []StyleProp, fn func(StyleValue) StyleValue) []StyleProp {
	out := make([]StyleProp, len(props))
	for i, p := range props {
		out[i] = mapProp(p, fn)
	}
	return out
}

func mapProp(p StyleProp, fn func(StyleValue) StyleValue) StyleProp {
	switch x := p.(type) {
	case StaticProp:
		return StaticProp{Value: fn(x.Value)}
	case ResponsiveProp:
		return ResponsiveProp{Props: mapProps(x.Props, fn)}
	case ConditionalProp:
		if x.Consequent != nil {
			x.Consequent = mapProp(x.Consequent, fn)
		}
		if x.Alternate != nil {
			x.Alternate = mapProp(x.Alternate, fn)
		}
		return x
	case ExpressionProp:
		styles := make([]StyleValue, len(x.Styles))
		for i, s := range x.Styles {
			styles[i] = fn(s)
		}
		x.Styles = styles
		return x
	case MemberProp:
		entries := make([]MemberEntry, len(x.Entries))
		for i, e := range x.Entries {
			entries[i] = MemberEntry{Key: e.Key, Prop: mapProp(e.Prop, fn)}
		}
		x.Entries = entries
		return x
	}
	return p
}

// ResultKind is the outcome of one extraction step.
type ResultKind uint8

const (
	// ExtractStyle: the expression was compiled into Styles.
	ExtractStyle ResultKind = iota
	// Maintain: the expression is left untouched.
	Maintain
	// Remove: the expression carries no style and is dropped.
	Remove
)

func (k ResultKind) String() string {
	switch k {
	case Maintain:
		return "maintain"
	case Remove:
		return "remove"
	default:
		return "extract"
	}
}

// TagOverride is an "as" prop: a literal tag name or a component
// expression.
type TagOverride struct {
	Name       string
	Expression bool
}

// ExtractResult is returned by every recursive extraction call. Tag and
// the side channels are only set for top-level style objects.
type ExtractResult struct {
	Kind       ResultKind
	Styles     []StyleProp
	Tag        *TagOverride
	StyleOrder *uint8
	StyleVars  string
	Props      string
}

func maintain() ExtractResult { return ExtractResult{Kind: Maintain} }
func remove() ExtractResult   { return ExtractResult{Kind: Remove} }

func extracted(props ...StyleProp) ExtractResult {
	if len(props) == 0 {
		return remove()
	}
	return ExtractResult{Kind: ExtractStyle, Styles: props}
}

// group folds the styles of r into a single prop, nil when empty.
func (r ExtractResult) group() StyleProp {
	switch len(r.Styles) {
	case 0:
		return nil
	case 1:
		return r.Styles[0]
	}
	return ResponsiveProp{Props: r.Styles}
}

func uint8Ptr(v uint8) *uint8 { return &v }

func parseStyleOrder(text string) (*uint8, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(text), 10, 8)
	if err != nil {
		return nil, false
	}
	return uint8Ptr(uint8(n)), true
}
