package vanilla

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Object is a JS object literal with its key order kept.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Set stores v under k. A key set again keeps its first position, as in
// JS.
func (o *Object) Set(k string, v any) {
	if _, ok := o.values[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.values[k] = v
}

// Get returns the value under k.
func (o *Object) Get(k string) (any, bool) {
	v, ok := o.values[k]
	return v, ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	return append([]string(nil), o.keys...)
}

// Len returns the number of keys.
func (o *Object) Len() int { return len(o.keys) }

// MarshalJSON writes the keys in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		val, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// VarRef is the result of createVar(): a CSS custom property.
type VarRef struct {
	Name string
}

// String renders the reference as a CSS value.
func (v VarRef) String() string { return "var(" + v.Name + ")" }

// MarshalJSON renders the reference as a CSS value.
func (v VarRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// StyleRef is a binding produced by style(); used in composition arrays.
type StyleRef struct {
	Name string
}

// toString converts a primitive to its string form in template literals
// and concatenation.
func toString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return formatNumber(x), true
	case bool:
		return strconv.FormatBool(x), true
	case VarRef:
		return x.String(), true
	}
	return "", false
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
