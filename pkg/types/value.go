// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind discriminates the variants of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

// String returns the schema-facing name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Value is a tagged variant holding slide content: string, number, bool,
// list of Value, or map of string to Value. Maps remember key insertion
// order so that walks over content are deterministic.
// Implements: prd001-document R2.2.
type Value struct {
	Kind Kind

	Str  string
	Num  float64
	Bool bool

	List []Value

	// Keys preserves the source order of Map. Map lookups go through
	// Field; iteration goes through Keys.
	Keys []string
	Map  map[string]Value
}

// StringValue wraps a string.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// NumberValue wraps a number.
func NumberValue(n float64) Value { return Value{Kind: KindNumber, Num: n} }

// BoolValue wraps a bool.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// ListValue wraps a list.
func ListValue(items ...Value) Value { return Value{Kind: KindList, List: items} }

// MapValue builds a map value from alternating key, value pairs, preserving
// the given order.
func MapValue(pairs ...any) Value {
	v := Value{Kind: KindMap, Map: make(map[string]Value)}
	for i := 0; i+1 < len(pairs); i += 2 {
		k := pairs[i].(string)
		v.Keys = append(v.Keys, k)
		v.Map[k] = pairs[i+1].(Value)
	}
	return v
}

// Field returns the value stored under key in a map value.
func (v Value) Field(key string) (Value, bool) {
	if v.Kind != KindMap {
		return Value{}, false
	}
	f, ok := v.Map[key]
	return f, ok
}

// FieldString returns the string stored under key, or "" when the key is
// absent or not a string.
func (v Value) FieldString(key string) string {
	f, ok := v.Field(key)
	if !ok || f.Kind != KindString {
		return ""
	}
	return f.Str
}

// FieldBool returns the bool stored under key, or false when the key is
// absent or not a bool.
func (v Value) FieldBool(key string) bool {
	f, ok := v.Field(key)
	if !ok || f.Kind != KindBool {
		return false
	}
	return f.Bool
}

// WithField returns a copy of a map value with key set to val. Non-map
// values are returned unchanged.
func (v Value) WithField(key string, val Value) Value {
	if v.Kind != KindMap {
		return v
	}
	out := Value{Kind: KindMap, Map: make(map[string]Value, len(v.Map)+1)}
	out.Keys = append(out.Keys, v.Keys...)
	for k, f := range v.Map {
		out.Map[k] = f
	}
	if _, exists := out.Map[key]; !exists {
		out.Keys = append(out.Keys, key)
	}
	out.Map[key] = val
	return out
}

// WalkStrings visits every string leaf of v in source order, calling fn with
// the field path (e.g. "items[2].text") and the string.
func (v Value) WalkStrings(fn func(path, s string)) {
	v.walkStrings("", fn)
}

func (v Value) walkStrings(path string, fn func(path, s string)) {
	switch v.Kind {
	case KindString:
		fn(path, v.Str)
	case KindList:
		for i, item := range v.List {
			item.walkStrings(path+"["+strconv.Itoa(i)+"]", fn)
		}
	case KindMap:
		for _, k := range v.Keys {
			child := path
			if child != "" {
				child += "."
			}
			v.Map[k].walkStrings(child+k, fn)
		}
	}
}

// MapStrings returns a copy of v with every string leaf replaced by
// fn(path, s). Non-string leaves are shared structurally.
func (v Value) MapStrings(fn func(path, s string) string) Value {
	return v.mapStrings("", fn)
}

func (v Value) mapStrings(path string, fn func(path, s string) string) Value {
	switch v.Kind {
	case KindString:
		return StringValue(fn(path, v.Str))
	case KindList:
		out := Value{Kind: KindList, List: make([]Value, len(v.List))}
		for i, item := range v.List {
			out.List[i] = item.mapStrings(path+"["+strconv.Itoa(i)+"]", fn)
		}
		return out
	case KindMap:
		out := Value{Kind: KindMap, Keys: v.Keys, Map: make(map[string]Value, len(v.Map))}
		for _, k := range v.Keys {
			child := path
			if child != "" {
				child += "."
			}
			out.Map[k] = v.Map[k].mapStrings(child+k, fn)
		}
		return out
	default:
		return v
	}
}

// ToAny converts the value into plain Go values (string, float64, bool,
// []any, map[string]any) for template evaluation.
func (v Value) ToAny() any {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return v.Num
	case KindBool:
		return v.Bool
	case KindList:
		out := make([]any, len(v.List))
		for i, item := range v.List {
			out[i] = item.ToAny()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.Map))
		for _, k := range v.Keys {
			out[k] = v.Map[k].ToAny()
		}
		return out
	default:
		return nil
	}
}

// FromAny converts plain Go values into a Value. Map keys are sorted so the
// result is deterministic regardless of Go map iteration order.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Value{}
	case string:
		return StringValue(t)
	case bool:
		return BoolValue(t)
	case int:
		return NumberValue(float64(t))
	case int64:
		return NumberValue(float64(t))
	case float64:
		return NumberValue(t)
	case []any:
		out := Value{Kind: KindList, List: make([]Value, len(t))}
		for i, item := range t {
			out.List[i] = FromAny(item)
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := Value{Kind: KindMap, Keys: keys, Map: make(map[string]Value, len(t))}
		for _, k := range keys {
			out.Map[k] = FromAny(t[k])
		}
		return out
	default:
		return StringValue(fmt.Sprint(t))
	}
}

// GoString renders a compact debug form, useful in test failure messages.
func (v Value) GoString() string {
	var b strings.Builder
	v.debug(&b)
	return b.String()
}

func (v Value) debug(b *strings.Builder) {
	switch v.Kind {
	case KindNull:
		b.WriteString("null")
	case KindString:
		fmt.Fprintf(b, "%q", v.Str)
	case KindNumber:
		fmt.Fprintf(b, "%g", v.Num)
	case KindBool:
		fmt.Fprintf(b, "%t", v.Bool)
	case KindList:
		b.WriteByte('[')
		for i, item := range v.List {
			if i > 0 {
				b.WriteString(", ")
			}
			item.debug(b)
		}
		b.WriteByte(']')
	case KindMap:
		b.WriteByte('{')
		for i, k := range v.Keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%s: ", k)
			v.Map[k].debug(b)
		}
		b.WriteByte('}')
	}
}
