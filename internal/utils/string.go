package utils

import (
	"strconv"
	"strings"
)

// snippetEscaper escapes the host's placeholder marker.
var snippetEscaper = strings.NewReplacer("$", `\$`)

// EscapeSnippet prefixes every literal '$' with a backslash so the text can be
// used as insertable snippet content.
func EscapeSnippet(s string) string {
	if !strings.Contains(s, "$") {
		return s
	}
	return snippetEscaper.Replace(s)
}

// FormatWithCommas formats an integer with comma separators
func FormatWithCommas(n int) string {
	str := strconv.Itoa(n)
	neg := strings.HasPrefix(str, "-")
	if neg {
		str = str[1:]
	}
	if len(str) <= 3 {
		if neg {
			return "-" + str
		}
		return str
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, char := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(char)
	}
	return b.String()
}
