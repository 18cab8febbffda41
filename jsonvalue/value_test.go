package jsonvalue_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/pushjson/jsonparser/jsonvalue"
)

// asString is a tiny cmp-friendly projection of a Value tree, since Value's
// fields are unexported and String() is explicitly not valid JSON.
func asString(t *testing.T, v *jsonvalue.Value) string {
	t.Helper()
	return v.String()
}

func TestParseScalars(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"null", "null", "null"},
		{"true", "  true\n", "true"},
		{"false", "false", "false"},
		{"integer", "42", "42"},
		{"negative", "-17", "-17"},
		{"float", "3.25", "3.25"},
		{"exponent", "1e3", "1000"},
		{"empty string", `""`, `""`},
		{"escaped string", `"he\tllo"`, `"he\tllo"`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v, err := jsonvalue.ParseString(c.in)
			require.NoError(t, err)
			got := asString(t, v)
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Errorf("ParseString(%q) mismatch (-want +got):\n%s", c.in, diff)
			}
		})
	}
}

func TestParseContainers(t *testing.T) {
	v, err := jsonvalue.ParseString(`[1,2,3]`)
	require.NoError(t, err)

	arr, err := v.AsArray()
	require.NoError(t, err)
	require.Len(t, arr, 3)

	for i, want := range []int64{1, 2, 3} {
		got, err := arr[i].AsInteger()
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestParseEmptyContainers(t *testing.T) {
	v, err := jsonvalue.ParseString(`{}`)
	require.NoError(t, err)
	m, err := v.AsObject()
	require.NoError(t, err)
	require.Empty(t, m)

	v, err = jsonvalue.ParseString(`[]`)
	require.NoError(t, err)
	a, err := v.AsArray()
	require.NoError(t, err)
	require.Empty(t, a)
}

func TestParseObjectMembers(t *testing.T) {
	v, err := jsonvalue.ParseString(`{"a":"","b":null}`)
	require.NoError(t, err)

	m, err := v.AsObject()
	require.NoError(t, err)

	a, err := m["a"].AsString()
	require.NoError(t, err)
	require.Equal(t, "", a)

	require.Equal(t, jsonvalue.Null, m["b"].Type())
}

func TestParseRejectsTrailingComma(t *testing.T) {
	_, err := jsonvalue.ParseString(`[1,]`)
	require.Error(t, err)
}

func TestParseRejectsComment(t *testing.T) {
	_, err := jsonvalue.ParseString(`/* comment */ null`)
	require.Error(t, err)
}

func TestAsXxxTypeMismatch(t *testing.T) {
	v, err := jsonvalue.ParseString(`"hi"`)
	require.NoError(t, err)

	_, err = v.AsInteger()
	require.ErrorIs(t, err, jsonvalue.ErrType)
}
