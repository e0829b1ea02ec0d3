package npy

import (
	"errors"
	"maps"
	"testing"
)

func TestParseMetadata(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		text string
		want map[string]string
	}{
		{
			name: "numpy layout",
			text: "{'descr': '<f4', 'fortran_order': False, 'shape': (100, 1), }          \n",
			want: map[string]string{"descr": "'<f4'", "fortran_order": "False", "shape": "(100, 1)"},
		},
		{
			name: "one dimensional tuple",
			text: "{'descr': '<f4', 'fortran_order': True, 'shape': (100,), }",
			want: map[string]string{"descr": "'<f4'", "fortran_order": "True", "shape": "(100,)"},
		},
		{
			name: "no trailing comma",
			text: "{'shape': (2, 3), 'descr': '>f4', 'fortran_order': False}",
			want: map[string]string{"descr": "'>f4'", "fortran_order": "False", "shape": "(2, 3)"},
		},
		{
			name: "tight spacing",
			text: "{'descr':'|u1','fortran_order':False,'shape':(4,)}",
			want: map[string]string{"descr": "'|u1'", "fortran_order": "False", "shape": "(4,)"},
		},
		{
			name: "quoted value keeps separators",
			text: "{'note': 'a, b: {c}', 'n': 1, }",
			want: map[string]string{"note": "'a, b: {c}'", "n": "1"},
		},
		{
			name: "key with punctuation",
			text: "{'a:b,(c)': 7}",
			want: map[string]string{"a:b,(c)": "7"},
		},
		{
			name: "nested tuple",
			text: "{'shape': ((1, 2), 3), }",
			want: map[string]string{"shape": "((1, 2), 3)"},
		},
		{
			name: "leading whitespace",
			text: "  \n{'x': True, }",
			want: map[string]string{"x": "True"},
		},
		{
			name: "empty dict",
			text: "{}",
			want: map[string]string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseMetadata(tt.text)
			if err != nil {
				t.Fatalf("ParseMetadata: %v", err)
			}
			if !maps.Equal(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseMetadataErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"no brace", "'descr': '<f4'"},
		{"garbage before brace", "x{'a': 1}"},
		{"unquoted key", "{descr: '<f4'}"},
		{"missing colon", "{'descr' '<f4'}"},
		{"missing value", "{'descr': , 'shape': (1,)}"},
		{"unterminated string", "{'descr': '<f4"},
		{"unterminated tuple", "{'shape': (1, 2"},
		{"unterminated dict", "{'descr': '<f4', "},
		{"junk after string", "{'descr': '<f4' x}"},
		{"duplicate key", "{'a': 1, 'a': 2}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseMetadata(tt.text)
			if !errors.Is(err, ErrHeaderParse) {
				t.Fatalf("expected ErrHeaderParse, got %v", err)
			}
		})
	}
}

func TestParseStateString(t *testing.T) {
	t.Parallel()
	if got := storeValueParens.String(); got != "StoreValueParens" {
		t.Fatalf("got %q", got)
	}
	if got := parseState(200).String(); got != "state(200)" {
		t.Fatalf("got %q", got)
	}
}
