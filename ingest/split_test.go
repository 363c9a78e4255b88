package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitter(t *testing.T) {
	tests := []struct {
		name string
		sep  string
		in   string
		want []string
	}{
		{"newline escape", `\n`, "a\nb\nc", []string{"a", "b", "c"}},
		{"tab escape", `\t`, "a\tb", []string{"a", "b"}},
		{"regex", `\d+`, "a12b345c", []string{"a", "b", "c"}},
		{"regex multiblank", `\n\n+`, "a\n\nb\n\n\nc", []string{"a", "b", "c"}},
		{"literal fallback on bad regex", `[[`, "x[[y", []string{"x", "y"}},
		{"plain string treated as regex", "--", "a--b", []string{"a", "b"}},
		{"no separator present", `\n`, "single", []string{"single"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewSplitter(tt.sep).Split(tt.in))
		})
	}
}
