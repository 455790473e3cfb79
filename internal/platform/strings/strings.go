// Package strings provides small string helpers shared by loaders and routes
package strings

import (
	std "strings"
	"unicode/utf8"
)

// MustPrefix normalizes and asserts a root path like /api/v1 or /meta
// ensures a single leading slash and no trailing slash except for the root itself
// panics if the input is empty after trimming
func MustPrefix(s string) string {
	s = std.TrimSpace(s)
	s = "/" + std.Trim(s, " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}

// DropLast removes the last n runes of s; shorter strings become empty
func DropLast(s string, n int) string {
	if n <= 0 {
		return s
	}
	if utf8.RuneCountInString(s) <= n {
		return ""
	}
	r := []rune(s)
	return string(r[:len(r)-n])
}

// LastDigit returns the numeric value of the final rune of s when it is an ASCII digit
func LastDigit(s string) (int, bool) {
	s = std.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	c := s[len(s)-1]
	if c < '0' || c > '9' {
		return 0, false
	}
	return int(c - '0'), true
}

// Truncate shortens s to at most n runes, appending an ellipsis when cut
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}
