package pathval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	doc := map[string]any{
		"id":   float64(5),
		"name": "Downtown Store",
		"Column1": map[string]any{
			"content": map[string]any{
				"gdos_id": "5",
				"address": "1 Main St",
			},
		},
	}

	tests := []struct {
		name   string
		path   string
		want   any
		wantOK bool
	}{
		{"TopLevel", "name", "Downtown Store", true},
		{"Nested", "Column1.content.gdos_id", "5", true},
		{"MissingTopLevel", "missing", nil, false},
		{"MissingNested", "Column1.content.missing", nil, false},
		{"NonObjectIntermediate", "name.sub", nil, false},
		{"EmptyPathReturnsDoc", "", doc, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Lookup(doc, tt.path)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookup_NilDoc(t *testing.T) {
	got, ok := Lookup(nil, "a.b")
	assert.False(t, ok)
	assert.Nil(t, got)

	got, ok = Lookup(nil, "")
	assert.False(t, ok)
	assert.Nil(t, got)
}
