package css

import (
	"strings"
)

// SelectorKind discriminates the StyleSelector variants. The numeric order
// is the top-level sort order: Global < Selector < At.
type SelectorKind uint8

const (
	KindGlobal SelectorKind = iota
	KindSelector
	KindAt
)

// AtRuleKind is the at-rule wrapping an At selector.
type AtRuleKind uint8

const (
	AtMedia AtRuleKind = iota
	AtSupports
	AtContainer
)

func (k AtRuleKind) String() string {
	switch k {
	case AtSupports:
		return "supports"
	case AtContainer:
		return "container"
	default:
		return "media"
	}
}

// ParseAtRuleKind maps "media", "supports" and "container" (with or
// without a leading @ or _) to an AtRuleKind.
func ParseAtRuleKind(name string) (AtRuleKind, bool) {
	switch strings.TrimLeft(name, "@_") {
	case "media":
		return AtMedia, true
	case "supports":
		return AtSupports, true
	case "container":
		return AtContainer, true
	}
	return AtMedia, false
}

// StyleSelector scopes a declaration. It is a value type; every
// combination returns a new selector.
//
//   - KindSelector: Value is a selector containing the "&" anchor.
//   - KindAt: At/Query describe the at-rule, Value is an optional nested
//     selector ("" when absent).
//   - KindGlobal: Value is a resolved selector, File is the origin file.
type StyleSelector struct {
	Kind  SelectorKind
	Value string
	At    AtRuleKind
	Query string
	File  string
}

// Selector returns a plain "&" anchored selector.
func Selector(value string) StyleSelector {
	return StyleSelector{Kind: KindSelector, Value: value}
}

// Media returns an @media selector with an optional nested selector.
func Media(query, nested string) StyleSelector {
	return StyleSelector{Kind: KindAt, At: AtMedia, Query: query, Value: nested}
}

// At returns an at-rule selector of the given kind.
func At(kind AtRuleKind, query, nested string) StyleSelector {
	return StyleSelector{Kind: KindAt, At: kind, Query: query, Value: nested}
}

// Global returns a selector emitted verbatim, remembering the file that
// declared it.
func Global(selector, file string) StyleSelector {
	return StyleSelector{Kind: KindGlobal, Value: selector, File: file}
}

func (s StyleSelector) String() string {
	switch s.Kind {
	case KindAt:
		ret := "@" + s.At.String() + " " + s.Query
		if s.Value != "" {
			ret += " " + s.Value
		}
		return ret
	default:
		return s.Value
	}
}

// Equal reports whether two selectors render the same rule. The origin file
// of global selectors is ignored.
func (s StyleSelector) Equal(o StyleSelector) bool {
	return Compare(s, o) == 0
}

// SelectorSeparator picks the combinator placed between a selector and a
// pseudo token: "::" for pseudo-elements, "" when the token starts with a
// combinator or bracket, ":" otherwise.
func SelectorSeparator(token string) string {
	if token == "" {
		return ""
	}
	switch token[0] {
	case ':', '[', ' ', '>', '+', '~', '.', '#', '&', '*':
		return ""
	}
	name := token
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	if pseudoElements[name] {
		return "::"
	}
	return ":"
}

var pseudoElements = map[string]bool{
	"after":                   true,
	"backdrop":                true,
	"before":                  true,
	"cue":                     true,
	"cue-region":              true,
	"details-content":         true,
	"file-selector-button":    true,
	"first-letter":            true,
	"first-line":              true,
	"grammar-error":           true,
	"highlight":               true,
	"marker":                  true,
	"part":                    true,
	"placeholder":             true,
	"selection":               true,
	"slotted":                 true,
	"spelling-error":          true,
	"target-text":             true,
	"view-transition":         true,
	"view-transition-group":   true,
	"view-transition-image":   true,
	"view-transition-new":     true,
	"view-transition-old":     true,
	"-webkit-scrollbar":       true,
	"-webkit-scrollbar-thumb": true,
	"-webkit-scrollbar-track": true,
}

// SelectorFrom builds a selector from a style prop name without its
// leading underscore: "hover" -> "&:hover", "groupHover" ->
// "*[role=group]:hover &", "themeDark" -> ":root[data-theme=dark] &",
// "print" -> @media print. Names containing "&" pass through verbatim.
func SelectorFrom(name string) StyleSelector {
	switch {
	case strings.Contains(name, "&"):
		return Selector(name)
	case name == "print":
		return Media("print", "")
	case strings.HasPrefix(name, "group") && len(name) > len("group"):
		post := ToKebabCase(lowerFirst(name[len("group"):]))
		return Selector("*[role=group]" + SelectorSeparator(post) + post + " &")
	case strings.HasPrefix(name, "peer") && len(name) > len("peer"):
		post := ToKebabCase(lowerFirst(name[len("peer"):]))
		return Selector("*[role=peer]" + SelectorSeparator(post) + post + " ~ &")
	case strings.HasPrefix(name, "theme") && len(name) > len("theme"):
		return Selector(":root[data-theme=" + lowerFirst(name[len("theme"):]) + "] &")
	}
	post := ToKebabCase(name)
	return Selector("&" + SelectorSeparator(post) + post)
}

// SelectorFromPair builds SelectorFrom(parent) and appends child to it,
// e.g. ("themeDark", "placeholder") -> ":root[data-theme=dark] &::placeholder".
func SelectorFromPair(parent, child string) StyleSelector {
	return SelectorFrom(parent).Combine(child)
}

// Combine kebab-cases name and appends it as a pseudo token. Global
// selectors keep their origin file; at-rules append to their nested
// selector.
func (s StyleSelector) Combine(name string) StyleSelector {
	post := ToKebabCase(name)
	sep := SelectorSeparator(post)
	switch s.Kind {
	case KindAt:
		nested := s.Value
		if nested == "" {
			nested = "&"
		}
		s.Value = nested + sep + post
	default:
		s.Value = s.Value + sep + post
	}
	return s
}

// Nest scopes child inside parent. The "&" anchor of child is replaced by
// the parent's selector so that conventions such as group/theme compose
// with pseudo classes. A nil parent returns child unchanged.
func Nest(parent *StyleSelector, child StyleSelector) StyleSelector {
	if parent == nil {
		return child
	}
	p := *parent
	switch p.Kind {
	case KindAt:
		switch child.Kind {
		case KindAt:
			if child.At == p.At && p.At == AtMedia {
				child.Query = p.Query + " and " + child.Query
			}
			if p.Value != "" {
				if child.Value == "" {
					child.Value = p.Value
				} else {
					child.Value = strings.ReplaceAll(child.Value, "&", p.Value)
				}
			}
			return child
		case KindGlobal:
			p.Value = child.Value
			return p
		default:
			anchor := p.Value
			if anchor == "" {
				anchor = "&"
			}
			p.Value = strings.ReplaceAll(child.Value, "&", anchor)
			return p
		}
	case KindGlobal:
		switch child.Kind {
		case KindAt:
			nested := child.Value
			if nested == "" {
				nested = "&"
			}
			child.Value = strings.ReplaceAll(nested, "&", p.Value)
			child.File = p.File
			return child
		default:
			p.Value = strings.ReplaceAll(child.Value, "&", p.Value)
			return p
		}
	default:
		switch child.Kind {
		case KindAt:
			if child.Value == "" {
				child.Value = p.Value
			} else {
				child.Value = strings.ReplaceAll(child.Value, "&", p.Value)
			}
			return child
		case KindGlobal:
			return child
		default:
			p.Value = strings.ReplaceAll(child.Value, "&", p.Value)
			return p
		}
	}
}

// selectorOrder is the precedence of the pseudo class following the only
// "&" of a selector.
var selectorOrder = map[string]int{
	"hover":         0,
	"focus-visible": 1,
	"focus":         2,
	"active":        3,
	"selected":      4,
	"disabled":      5,
}

const unknownSelectorOrder = 99

func pseudoOrder(selector string) int {
	if strings.Count(selector, "&") != 1 {
		return unknownSelectorOrder
	}
	_, post, _ := strings.Cut(selector, "&")
	return pseudoTokenOrder(post)
}

func pseudoTokenOrder(post string) int {
	post = strings.TrimPrefix(post, "::")
	post = strings.TrimPrefix(post, ":")
	if order, ok := selectorOrder[post]; ok {
		return order
	}
	return unknownSelectorOrder
}

// Compare is the total order of selectors used to group and stabilize
// output: Global < Selector < At. Plain selectors order by pseudo-class
// precedence, then text.
func Compare(a, b StyleSelector) int {
	if a.Kind != b.Kind {
		if a.Kind < b.Kind {
			return -1
		}
		return 1
	}
	switch a.Kind {
	case KindSelector:
		if c := compareInt(pseudoOrder(a.Value), pseudoOrder(b.Value)); c != 0 {
			return c
		}
		return strings.Compare(a.Value, b.Value)
	case KindAt:
		if c := compareInt(int(a.At), int(b.At)); c != 0 {
			return c
		}
		if c := strings.Compare(a.Query, b.Query); c != 0 {
			return c
		}
		return strings.Compare(a.Value, b.Value)
	default:
		if a.Value == b.Value {
			return 0
		}
		_, ap, aok := strings.Cut(a.Value, ":")
		_, bp, bok := strings.Cut(b.Value, ":")
		if aok && bok {
			if c := compareInt(pseudoTokenOrder(ap), pseudoTokenOrder(bp)); c != 0 {
				return c
			}
		}
		return strings.Compare(a.Value, b.Value)
	}
}

// CompareOptional orders optional selectors with "no selector" first.
func CompareOptional(a, b *StyleSelector) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return Compare(*a, *b)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// SelectorString renders an optional selector, "" for none.
func SelectorString(s *StyleSelector) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(s.String())
}
