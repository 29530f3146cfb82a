package models

import (
	"reflect"
	"testing"
)

func TestNormalizeTagName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "lowercase passthrough", raw: "golang", want: "golang"},
		{name: "mixed case", raw: "GoLang", want: "golang"},
		{name: "surrounding whitespace", raw: "  machine learning  ", want: "machine learning"},
		{name: "only whitespace", raw: "   ", want: ""},
		{name: "empty", raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTagName(tt.raw)
			if got != tt.want {
				t.Errorf("NormalizeTagName(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeTagNames(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want []string
	}{
		{
			name: "dedupes case variants",
			raw:  []string{"Go", "go", "GO"},
			want: []string{"go"},
		},
		{
			name: "drops empties and keeps order",
			raw:  []string{"", "  ", "b", "a", "b"},
			want: []string{"b", "a"},
		},
		{
			name: "nil input",
			raw:  nil,
			want: nil,
		},
		{
			name: "all unusable",
			raw:  []string{"", "   "},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTagNames(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeTagNames(%v) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
