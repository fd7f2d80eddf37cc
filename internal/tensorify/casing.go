package tensorify

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// CamelCase converts a snake_case or lowerCamelCase identifier to CamelCase.
//
// Each underscore-separated segment has its first rune upper-cased and is
// otherwise kept as written; underscores are dropped, and so are the empty
// segments produced by leading, trailing or repeated underscores.
//
//	CamelCase("add")             // "Add"
//	CamelCase("replicate_value") // "ReplicateValue"
//	CamelCase("replicateValue")  // "ReplicateValue"
//	CamelCase("")                // ""
func CamelCase(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	for _, word := range strings.Split(name, "_") {
		if word == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(word)
		sb.WriteRune(unicode.ToUpper(r))
		sb.WriteString(word[size:])
	}
	return sb.String()
}
