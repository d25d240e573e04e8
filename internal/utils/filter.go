package utils

import (
	"strings"
	"unicode"
)

// IsBlank reports whether r ends a token at the cursor.
func IsBlank(r rune) bool {
	return unicode.IsSpace(r)
}

// EndsWithBlank reports whether the last rune of s is whitespace.
// An empty string does not end with a blank.
func EndsWithBlank(s string) bool {
	if s == "" {
		return false
	}
	runes := []rune(s)
	return IsBlank(runes[len(runes)-1])
}

// SplitTokens splits text on newlines and then on single spaces,
// dropping empty fragments. Tabs and other whitespace stay inside tokens.
func SplitTokens(text string) []string {
	var tokens []string
	for _, line := range strings.Split(text, "\n") {
		tokens = appendLineTokens(tokens, line)
	}
	return tokens
}

// SplitLine splits a single line on spaces, dropping empty fragments.
func SplitLine(line string) []string {
	return appendLineTokens(nil, line)
}

func appendLineTokens(dst []string, line string) []string {
	for _, w := range strings.Split(line, " ") {
		if w != "" {
			dst = append(dst, w)
		}
	}
	return dst
}
