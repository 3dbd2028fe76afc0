package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToString(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"Nil", nil, ""},
		{"String", "hello", "hello"},
		{"Bytes", []byte("abc"), "abc"},
		{"IntegralFloat", float64(5), "5"},
		{"LargeIntegralFloat", float64(1730000000000), "1730000000000"},
		{"FractionalFloat", 5.5, "5.5"},
		{"Float32", float32(7), "7"},
		{"Int", 42, "42"},
		{"Bool", true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToString(tt.input))
		})
	}
}

func TestToInt(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  int
	}{
		{"Int", 42, 42},
		{"Int64", int64(42), 42},
		{"Float64", float64(42.9), 42},
		{"String", "42", 42},
		{"InvalidString", "abc", 0},
		{"Bytes", []byte("17"), 17},
		{"Uint", uint(3), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToInt(tt.input))
		})
	}
}
