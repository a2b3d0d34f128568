// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"reflect"
	"testing"
)

func TestWalkStringsOrderAndPaths(t *testing.T) {
	v := MapValue(
		"title", StringValue("Heading"),
		"items", ListValue(
			StringValue("first"),
			MapValue("text", StringValue("nested")),
		),
		"count", NumberValue(3),
	)

	var paths, values []string
	v.WalkStrings(func(path, s string) {
		paths = append(paths, path)
		values = append(values, s)
	})

	wantPaths := []string{"title", "items[0]", "items[1].text"}
	wantValues := []string{"Heading", "first", "nested"}
	if !reflect.DeepEqual(paths, wantPaths) {
		t.Errorf("paths = %v, want %v", paths, wantPaths)
	}
	if !reflect.DeepEqual(values, wantValues) {
		t.Errorf("values = %v, want %v", values, wantValues)
	}
}

func TestMapStringsLeavesOriginalUntouched(t *testing.T) {
	orig := MapValue("text", StringValue("abc"))
	mapped := orig.MapStrings(func(_, s string) string { return s + "!" })

	if got := orig.FieldString("text"); got != "abc" {
		t.Errorf("original mutated: %q", got)
	}
	if got := mapped.FieldString("text"); got != "abc!" {
		t.Errorf("mapped = %q, want %q", got, "abc!")
	}
}

func TestWithField(t *testing.T) {
	orig := MapValue("a", StringValue("1"))

	updated := orig.WithField("b", StringValue("2"))
	if _, ok := orig.Field("b"); ok {
		t.Error("original gained field b")
	}
	if got := updated.FieldString("b"); got != "2" {
		t.Errorf("updated b = %q, want %q", got, "2")
	}

	replaced := updated.WithField("a", StringValue("9"))
	if got := replaced.FieldString("a"); got != "9" {
		t.Errorf("replaced a = %q, want %q", got, "9")
	}
	if len(replaced.Keys) != 2 {
		t.Errorf("replace added a key: %v", replaced.Keys)
	}
}

func TestToAny(t *testing.T) {
	v := MapValue(
		"s", StringValue("x"),
		"n", NumberValue(2),
		"b", BoolValue(true),
		"l", ListValue(StringValue("a")),
	)

	got := v.ToAny()
	want := map[string]any{
		"s": "x",
		"n": 2.0,
		"b": true,
		"l": []any{"a"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ToAny = %#v, want %#v", got, want)
	}
}

func TestFromAnyRoundTrip(t *testing.T) {
	in := map[string]any{
		"title": "x",
		"items": []any{"a", "b"},
		"flag":  true,
		"n":     2.5,
	}
	v := FromAny(in)
	if !reflect.DeepEqual(v.ToAny(), in) {
		t.Errorf("round trip = %#v, want %#v", v.ToAny(), in)
	}
}
