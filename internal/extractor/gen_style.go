package extractor

import (
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// StyleEntry is one key of a generated inline style object.
type StyleEntry struct {
	Key   string
	Value string
}

// StyleObject is the inline style of a rewritten element: spreads of
// existing style expressions followed by CSS variable entries.
type StyleObject struct {
	Spreads []string
	Entries []StyleEntry
}

// Empty reports an object with nothing to render.
func (o StyleObject) Empty() bool {
	return len(o.Spreads) == 0 && len(o.Entries) == 0
}

// String renders the object literal. A lone spread renders as the spread
// expression itself.
func (o StyleObject) String() string {
	if len(o.Entries) == 0 && len(o.Spreads) == 1 {
		return o.Spreads[0]
	}
	parts := make([]string, 0, len(o.Spreads)+len(o.Entries))
	for _, s := range o.Spreads {
		parts = append(parts, "..."+s)
	}
	for _, e := range o.Entries {
		parts = append(parts, jsString(e.Key)+": "+e.Value)
	}
	if len(parts) == 0 {
		return "{}"
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// GenStyleObject builds the CSS variable bindings of the dynamic leaves in
// props. Later bindings of a variable win.
func GenStyleObject(props []StyleProp, nm Namer) StyleObject {
	var entries []StyleEntry
	for _, p := range props {
		entries = append(entries, nm.styleEntries(p)...)
	}
	return StyleObject{Entries: sortedEntries(entries)}
}

// sortedEntries keeps the last value of every key and emits the keys in
// reverse sorted order.
func sortedEntries(entries []StyleEntry) []StyleEntry {
	out := lastWins(entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key > out[j].Key })
	return out
}

// lastWins keeps the last value of every key, in first-seen key order.
func lastWins(entries []StyleEntry) []StyleEntry {
	index := make(map[string]int, len(entries))
	var out []StyleEntry
	for _, e := range entries {
		if i, ok := index[e.Key]; ok {
			out[i].Value = e.Value
			continue
		}
		index[e.Key] = len(out)
		out = append(out, e)
	}
	return out
}

func (nm Namer) styleEntries(p StyleProp) []StyleEntry {
	switch x := p.(type) {
	case StaticProp:
		if d, ok := x.Value.(DynamicStyle); ok {
			return []StyleEntry{{Key: nm.VariableName(d), Value: d.Identifier}}
		}
	case ResponsiveProp:
		var out []StyleEntry
		for _, c := range x.Props {
			out = append(out, nm.styleEntries(c)...)
		}
		return lastWins(out)
	case ConditionalProp:
		return nm.conditionalEntries(x)
	case MemberProp:
		return nm.memberEntries(x)
	}
	return nil
}

func (nm Namer) branchEntries(p StyleProp) []StyleEntry {
	if p == nil {
		return nil
	}
	return lastWins(nm.styleEntries(p))
}

// conditionalEntries binds every variable of either branch. A variable
// missing from one branch is undefined there.
func (nm Namer) conditionalEntries(c ConditionalProp) []StyleEntry {
	cons := nm.branchEntries(c.Consequent)
	alt := nm.branchEntries(c.Alternate)
	altValues := make(map[string]string, len(alt))
	for _, e := range alt {
		altValues[e.Key] = e.Value
	}
	cond := wrapCondition(c.Condition)

	var out []StyleEntry
	seen := make(map[string]bool)
	for _, e := range cons {
		seen[e.Key] = true
		a, ok := altValues[e.Key]
		if !ok {
			a = "undefined"
		}
		if a == e.Value {
			out = append(out, e)
			continue
		}
		out = append(out, StyleEntry{Key: e.Key, Value: fmt.Sprintf("%s ? %s : %s", cond, wrapOperand(e.Value), wrapOperand(a))})
	}
	for _, e := range alt {
		if seen[e.Key] {
			continue
		}
		out = append(out, StyleEntry{Key: e.Key, Value: fmt.Sprintf("%s ? undefined : %s", cond, wrapOperand(e.Value))})
	}
	return out
}

// memberEntries binds variables through the same runtime lookup as the
// class list.
func (nm Namer) memberEntries(m MemberProp) []StyleEntry {
	type column struct {
		key    string
		values []string
		etc    string
	}
	var columns []*column
	byKey := make(map[string]*column)
	columnFor := func(key string) *column {
		c, ok := byKey[key]
		if !ok {
			c = &column{key: key}
			byKey[key] = c
			columns = append(columns, c)
		}
		return c
	}

	for _, e := range m.Entries {
		for _, se := range nm.branchEntries(e.Prop) {
			c := columnFor(se.Key)
			if e.Key == etcKey {
				c.etc = se.Value
				continue
			}
			c.values = append(c.values, jsString(e.Key)+": "+se.Value)
		}
	}

	out := make([]StyleEntry, 0, len(columns))
	for _, c := range columns {
		switch {
		case len(c.values) == 0:
			out = append(out, StyleEntry{Key: c.key, Value: c.etc})
		case c.etc == "":
			out = append(out, StyleEntry{Key: c.key, Value: fmt.Sprintf("({ %s })[%s]", strings.Join(c.values, ", "), m.Expression)})
		default:
			out = append(out, StyleEntry{Key: c.key, Value: fmt.Sprintf("({ %s })[%s] ?? %s", strings.Join(c.values, ", "), m.Expression, wrapOperand(c.etc))})
		}
	}
	return out
}

// MergeStyle spreads an existing style expression before the generated
// entries.
func MergeStyle(existing string, generated StyleObject) StyleObject {
	existing = strings.TrimSpace(existing)
	if existing == "" {
		return generated
	}
	return StyleObject{
		Spreads: append([]string{existing}, generated.Spreads...),
		Entries: generated.Entries,
	}
}

// styleVarsObject converts a styleVars value into style entries. Keys of an
// object literal gain the "--" prefix; any other expression is converted
// at runtime.
func styleVarsObject(n *sitter.Node, src []byte, text func(*sitter.Node) string) StyleObject {
	n = unwrap(n)
	if n == nil {
		return StyleObject{}
	}
	if n.Type() == "object" {
		var out StyleObject
		for _, c := range namedChildren(n) {
			switch c.Type() {
			case "pair":
				key, ok := propertyKey(c.ChildByFieldName("key"), src)
				if !ok {
					return runtimeStyleVars(text(n))
				}
				out.Entries = append(out.Entries, StyleEntry{Key: variableKey(key), Value: text(c.ChildByFieldName("value"))})
			case "shorthand_property_identifier":
				name := c.Content(src)
				out.Entries = append(out.Entries, StyleEntry{Key: variableKey(name), Value: name})
			default:
				return runtimeStyleVars(text(n))
			}
		}
		return out
	}
	return runtimeStyleVars(text(n))
}

func variableKey(key string) string {
	if strings.HasPrefix(key, "--") {
		return key
	}
	return "--" + key
}

func runtimeStyleVars(expr string) StyleObject {
	return StyleObject{Spreads: []string{fmt.Sprintf(
		`Object.fromEntries(Object.entries(%s ?? {}).map(([k, v]) => [k.startsWith("--") ? k : "--" + k, v]))`, expr)}}
}
