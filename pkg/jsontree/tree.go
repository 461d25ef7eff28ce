// Package jsontree provides loose traversal over decoded JSON documents.
//
// TikTok's embedded state is a multi-megabyte tree whose shape shifts
// between platform versions, so lookups work over a small sum type of
// {object, array, scalar, absent}. Missing keys produce an absent Value
// instead of an error, which keeps the common "field not present" case
// out of the error path.
package jsontree

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Kind identifies what a Value holds.
type Kind int

const (
	Absent Kind = iota
	Null
	Object
	Array
	String
	Number
	Bool
)

// Value wraps one node of a decoded JSON document.
type Value struct {
	kind Kind
	raw  interface{}
}

// Parse decodes data into a Value. Numbers are kept as json.Number so
// large 64-bit counters survive without float rounding.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return Value{}, err
	}
	return wrap(raw), nil
}

func wrap(raw interface{}) Value {
	switch raw.(type) {
	case nil:
		return Value{kind: Null}
	case map[string]interface{}:
		return Value{kind: Object, raw: raw}
	case []interface{}:
		return Value{kind: Array, raw: raw}
	case string:
		return Value{kind: String, raw: raw}
	case json.Number, float64:
		return Value{kind: Number, raw: raw}
	case bool:
		return Value{kind: Bool, raw: raw}
	default:
		return Value{kind: Absent}
	}
}

// Kind returns the node kind.
func (v Value) Kind() Kind { return v.kind }

// Exists reports whether the value is present (including JSON null).
func (v Value) Exists() bool { return v.kind != Absent }

// IsObject reports whether the value is a JSON object.
func (v Value) IsObject() bool { return v.kind == Object }

// IsArray reports whether the value is a JSON array.
func (v Value) IsArray() bool { return v.kind == Array }

// Get returns the member of an object by key, or an absent Value.
func (v Value) Get(key string) Value {
	obj, ok := v.raw.(map[string]interface{})
	if !ok {
		return Value{}
	}
	raw, ok := obj[key]
	if !ok {
		return Value{}
	}
	return wrap(raw)
}

// Index returns the i-th element of an array, or an absent Value.
func (v Value) Index(i int) Value {
	arr, ok := v.raw.([]interface{})
	if !ok || i < 0 || i >= len(arr) {
		return Value{}
	}
	return wrap(arr[i])
}

// Path walks a sequence of object keys, returning absent as soon as a
// step is missing.
func (v Value) Path(keys ...string) Value {
	cur := v
	for _, k := range keys {
		cur = cur.Get(k)
		if !cur.Exists() {
			return Value{}
		}
	}
	return cur
}

// Len returns the element count for arrays and member count for objects.
func (v Value) Len() int {
	switch raw := v.raw.(type) {
	case []interface{}:
		return len(raw)
	case map[string]interface{}:
		return len(raw)
	}
	return 0
}

// Keys returns the member names of an object in unspecified order.
func (v Value) Keys() []string {
	obj, ok := v.raw.(map[string]interface{})
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	return keys
}

// Values returns the members of an object in unspecified order.
func (v Value) Values() []Value {
	obj, ok := v.raw.(map[string]interface{})
	if !ok {
		return nil
	}
	vals := make([]Value, 0, len(obj))
	for _, raw := range obj {
		vals = append(vals, wrap(raw))
	}
	return vals
}

// Elements returns the elements of an array in order.
func (v Value) Elements() []Value {
	arr, ok := v.raw.([]interface{})
	if !ok {
		return nil
	}
	vals := make([]Value, 0, len(arr))
	for _, raw := range arr {
		vals = append(vals, wrap(raw))
	}
	return vals
}

// String returns the string form of the value and whether it was a string.
func (v Value) String() (string, bool) {
	s, ok := v.raw.(string)
	return s, ok
}

// StringOr returns the string value or def when absent or non-string.
func (v Value) StringOr(def string) string {
	if s, ok := v.raw.(string); ok {
		return s
	}
	return def
}

// Int64 coerces the value to an int64. Numeric strings are accepted,
// with commas and surrounding whitespace stripped, matching how the
// platform sometimes serializes counters. Returns false for anything
// else, including floats with fractional parts that still parse (those
// are truncated and accepted).
func (v Value) Int64() (int64, bool) {
	switch raw := v.raw.(type) {
	case json.Number:
		if n, err := raw.Int64(); err == nil {
			return n, true
		}
		if f, err := raw.Float64(); err == nil {
			return int64(f), true
		}
		return 0, false
	case float64:
		return int64(raw), true
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
		if s == "" {
			return 0, false
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
		return 0, false
	default:
		return 0, false
	}
}
