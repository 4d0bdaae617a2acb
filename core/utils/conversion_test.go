package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToInt(t *testing.T) {
	tests := []struct {
		in   any
		want int
	}{
		{42, 42},
		{int64(7), 7},
		{float64(3.9), 3},
		{" 25 ", 25},
		{[]byte("11"), 11},
		{"", 0},
		{"abc", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToInt(tt.in), "ToInt(%#v)", tt.in)
	}
}

func TestToBool(t *testing.T) {
	for _, in := range []any{true, 1, "1", "true", "TRUE", "yes", "on", []byte("true")} {
		assert.True(t, ToBool(in), "ToBool(%#v)", in)
	}
	for _, in := range []any{false, 0, 2, "", "no", "off", nil} {
		assert.False(t, ToBool(in), "ToBool(%#v)", in)
	}
}

func TestKeyString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"sku-1", "sku-1"},
		{float64(12), "12"},
		{float64(-3), "-3"},
		{float64(1.5), "1.5"},
		{json.Number("12"), "12"},
		{json.Number("12.0"), "12"},
		{json.Number("1.50"), "1.5"},
		{json.Number("1e3"), "1000"},
		{json.Number("1234567890123456789"), "1234567890123456789"},
		{"1", `"1"`},
		{"12.0", `"12.0"`},
		{"true", `"true"`},
		{`"a"`, `"\"a\""`},
		{"", `""`},
		{true, "true"},
		{nil, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KeyString(tt.in), "KeyString(%#v)", tt.in)
	}
}

func TestKeyString_LargeIntegersStayDistinct(t *testing.T) {
	a := KeyString(json.Number("1234567890123456789"))
	b := KeyString(json.Number("1234567890123456788"))
	assert.NotEqual(t, a, b)
}

func TestKeyString_StringAndNumberStayDistinct(t *testing.T) {
	assert.NotEqual(t, KeyString("1"), KeyString(json.Number("1")))
	assert.NotEqual(t, KeyString("true"), KeyString(true))
	assert.NotEqual(t, KeyString(`"1"`), KeyString("1"))
}
