package tensorify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCamelCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"add", "Add"},
		{"replicate_value", "ReplicateValue"},
		{"replicateValue", "ReplicateValue"},
		{"Already", "Already"},
		{"a__b", "AB"},
		{"_leading", "Leading"},
		{"trailing_", "Trailing"},
		{"___", ""},
		{"to_2d", "To2d"},
		{"ünïcode_name", "ÜnïcodeName"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CamelCase(tt.in))
		})
	}
}

// TestCamelCase_Words checks that any snake_case identifier maps to the
// concatenation of its capitalized words.
func TestCamelCase_Words(t *testing.T) {
	words := [][]string{
		{"x"},
		{"mean", "squared", "error"},
		{"conv", "2d", "backward"},
	}
	for _, ws := range words {
		in, want := "", ""
		for i, w := range ws {
			if i > 0 {
				in += "_"
			}
			in += w
			want += strings.ToUpper(w[:1]) + w[1:]
		}
		assert.Equal(t, want, CamelCase(in), "input %q", in)
	}
}
