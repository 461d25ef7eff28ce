package jsontree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, data string) Value {
	t.Helper()
	v, err := Parse([]byte(data))
	require.NoError(t, err)
	return v
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte(`{"truncated`))
	assert.Error(t, err)
}

func TestGetMissingKeyIsAbsent(t *testing.T) {
	v := mustParse(t, `{"a": 1}`)

	missing := v.Get("nope")
	assert.False(t, missing.Exists())
	assert.Equal(t, Absent, missing.Kind())

	// Chained lookups off an absent value stay absent, never panic.
	assert.False(t, missing.Get("deeper").Get("still").Exists())
}

func TestNullIsPresentButNotObject(t *testing.T) {
	v := mustParse(t, `{"a": null}`)
	a := v.Get("a")
	assert.True(t, a.Exists())
	assert.Equal(t, Null, a.Kind())
	assert.False(t, a.IsObject())
}

func TestPath(t *testing.T) {
	v := mustParse(t, `{"a": {"b": {"c": "deep"}}}`)

	assert.Equal(t, "deep", v.Path("a", "b", "c").StringOr(""))
	assert.False(t, v.Path("a", "x", "c").Exists())
	assert.False(t, v.Path("a", "b", "c", "d").Exists())
}

func TestIndex(t *testing.T) {
	v := mustParse(t, `{"list": [10, 20, 30]}`)
	list := v.Get("list")

	require.True(t, list.IsArray())
	assert.Equal(t, 3, list.Len())

	n, ok := list.Index(1).Int64()
	require.True(t, ok)
	assert.Equal(t, int64(20), n)

	assert.False(t, list.Index(-1).Exists())
	assert.False(t, list.Index(3).Exists())
	assert.False(t, v.Get("list").Index(0).Index(0).Exists())
}

func TestKeysAndElements(t *testing.T) {
	v := mustParse(t, `{"obj": {"x": 1, "y": 2}, "arr": ["a", "b"]}`)

	keys := v.Get("obj").Keys()
	assert.ElementsMatch(t, []string{"x", "y"}, keys)

	elems := v.Get("arr").Elements()
	require.Len(t, elems, 2)
	assert.Equal(t, "a", elems[0].StringOr(""))
	assert.Equal(t, "b", elems[1].StringOr(""))

	// Non-containers yield nothing.
	assert.Nil(t, v.Get("arr").Keys())
	assert.Nil(t, v.Get("obj").Elements())
}

func TestStringOr(t *testing.T) {
	v := mustParse(t, `{"s": "hello", "n": 5}`)

	assert.Equal(t, "hello", v.Get("s").StringOr("fallback"))
	assert.Equal(t, "fallback", v.Get("n").StringOr("fallback"))
	assert.Equal(t, "fallback", v.Get("missing").StringOr("fallback"))
}

func TestInt64(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want int64
		ok   bool
	}{
		{"integer", `{"v": 42}`, 42, true},
		{"large integer exact", `{"v": 9007199254740993}`, 9007199254740993, true},
		{"float truncates", `{"v": 3.9}`, 3, true},
		{"numeric string", `{"v": "12345"}`, 12345, true},
		{"string with commas", `{"v": "1,234,567"}`, 1234567, true},
		{"string with whitespace", `{"v": "  77 "}`, 77, true},
		{"non-numeric string", `{"v": "lots"}`, 0, false},
		{"empty string", `{"v": ""}`, 0, false},
		{"bool", `{"v": true}`, 0, false},
		{"null", `{"v": null}`, 0, false},
		{"absent", `{}`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := mustParse(t, tt.doc).Get("v").Int64()
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, n)
			}
		})
	}
}

func TestZeroValueIsSafe(t *testing.T) {
	var v Value
	assert.False(t, v.Exists())
	assert.False(t, v.Get("a").Exists())
	assert.False(t, v.Index(0).Exists())
	assert.Equal(t, 0, v.Len())
	_, ok := v.Int64()
	assert.False(t, ok)
}
