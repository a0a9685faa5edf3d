package scan

import (
	"net/url"
	"reflect"
	"testing"
)

func TestDecodeQuery(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		want    []Param
	}{
		{
			name:    "empty string",
			encoded: "",
			want:    nil,
		},
		{
			name:    "single pair",
			encoded: "mode=checkid_setup",
			want:    []Param{{Name: "mode", Values: []string{"checkid_setup"}}},
		},
		{
			name:    "encounter order preserved",
			encoded: "b=2&a=1&c=3",
			want: []Param{
				{Name: "b", Values: []string{"2"}},
				{Name: "a", Values: []string{"1"}},
				{Name: "c", Values: []string{"3"}},
			},
		},
		{
			name:    "repeated name accumulates values in order",
			encoded: "a=1&b=2&a=3",
			want: []Param{
				{Name: "a", Values: []string{"1", "3"}},
				{Name: "b", Values: []string{"2"}},
			},
		},
		{
			name:    "percent and plus decoding",
			encoded: "redirect_uri=http%3A%2F%2Flocalhost%2Fcb&scope=openid+email",
			want: []Param{
				{Name: "redirect_uri", Values: []string{"http://localhost/cb"}},
				{Name: "scope", Values: []string{"openid email"}},
			},
		},
		{
			name:    "pair without equals dropped",
			encoded: "justakey&a=1",
			want:    []Param{{Name: "a", Values: []string{"1"}}},
		},
		{
			name:    "empty name dropped",
			encoded: "=orphan&a=1",
			want:    []Param{{Name: "a", Values: []string{"1"}}},
		},
		{
			name:    "empty value kept",
			encoded: "a=",
			want:    []Param{{Name: "a", Values: []string{""}}},
		},
		{
			name:    "malformed percent escape skips only that pair",
			encoded: "bad=%zz&good=1",
			want:    []Param{{Name: "good", Values: []string{"1"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeQuery(tt.encoded)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DecodeQuery(%q) = %v, want %v", tt.encoded, got, tt.want)
			}
		})
	}
}

// Decoding must invert standard URL-query encoding, multi-values included.
func TestDecodeQueryInvertsEncoding(t *testing.T) {
	encoded := url.Values{
		"a":   {"1", "2"},
		"key": {"value with spaces & symbols =%"},
	}.Encode()

	got := DecodeQuery(encoded)
	want := []Param{
		{Name: "a", Values: []string{"1", "2"}},
		{Name: "key", Values: []string{"value with spaces & symbols =%"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeQuery(%q) = %v, want %v", encoded, got, want)
	}
}

func TestFlatten(t *testing.T) {
	params := DecodeQuery("a=1&a=2&b=3")
	got := Flatten(params)
	want := []FlatParam{
		{Name: "a", Value: "1"},
		{Name: "b", Value: "3"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Flatten = %v, want %v", got, want)
	}
}
