package utils

import (
	"strings"
	"unicode/utf8"
)

// Truncate returns the first n characters (runes) of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Excerpt is Truncate with a trailing "..." when anything was cut.
func Excerpt(s string, n int) string {
	cut := Truncate(s, n)
	if len(cut) < len(s) {
		return cut + "..."
	}
	return cut
}

// LenientUTF8 decodes b as UTF-8, dropping invalid byte sequences.
func LenientUTF8(b []byte) string {
	return strings.ToValidUTF8(string(b), "")
}
