package tokenize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"simple", "foo bar baz", []string{"foo", "bar", "baz"}},
		{"mixed case", "Hello WORLD", []string{"hello", "world"}},
		{"punctuation runs", `{"name":"Great Restaurant","stars":4.5}`, []string{"name", "great", "restaurant", "stars", "4", "5"}},
		{"digits", "abc123 456", []string{"abc123", "456"}},
		{"non-ascii is a separator", "café menu", []string{"caf", "menu"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokens(tt.in))
		})
	}
}

func TestTokensEmpty(t *testing.T) {
	assert.Empty(t, Tokens(""))
	assert.Empty(t, Tokens(" \t\n-!@#"))
}
