// Package tokenize extracts normalized search tokens from record text.
package tokenize

import "strings"

func isAlnum(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}

// Tokens splits text on any run of non-alphanumeric characters and returns
// the surviving pieces lower-cased. Only ASCII letters and digits count as
// token characters; everything else, including non-ASCII runes, is a
// separator.
func Tokens(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !isAlnum(r)
	})
	for i, f := range fields {
		fields[i] = strings.ToLower(f)
	}
	return fields
}
