// Package textutil converts decoded record bytes into display text.
package textutil

import "unicode/utf8"

// ToString interprets b as UTF-8 when it is valid, and as Latin-1 otherwise.
// The Latin-1 path maps every byte to its corresponding rune, so no input
// can fail to convert.
func ToString(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	rs := make([]rune, len(b))
	for i, c := range b {
		rs[i] = rune(c)
	}
	return string(rs)
}
