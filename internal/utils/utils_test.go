package utils

import (
	"reflect"
	"testing"
)

func TestSplitTokens(t *testing.T) {
	testCases := []struct {
		input    string
		expected []string
	}{
		{"", nil},
		{"   ", nil},
		{"the cat", []string{"the", "cat"}},
		{"the  cat\nsat ", []string{"the", "cat", "sat"}},
		{"\n\nfoo\n", []string{"foo"}},
		{"a\tb c", []string{"a\tb", "c"}},
	}

	for _, tc := range testCases {
		got := SplitTokens(tc.input)
		if !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("SplitTokens(%q) = %#v, expected %#v", tc.input, got, tc.expected)
		}
	}
}

func TestEndsWithBlank(t *testing.T) {
	testCases := []struct {
		input    string
		expected bool
	}{
		{"", false},
		{"ca", false},
		{"cat ", true},
		{"cat\n", true},
		{"cat\t", true},
		{"é", false},
	}
	for _, tc := range testCases {
		if got := EndsWithBlank(tc.input); got != tc.expected {
			t.Errorf("EndsWithBlank(%q) = %v, expected %v", tc.input, got, tc.expected)
		}
	}
}

func TestEscapeSnippet(t *testing.T) {
	testCases := map[string]string{
		"plain":  "plain",
		"$x":     `\$x`,
		"a$b$":   `a\$b\$`,
		"":       "",
		`\$done`: `\\$done`,
	}
	for input, expected := range testCases {
		if got := EscapeSnippet(input); got != expected {
			t.Errorf("EscapeSnippet(%q) = %q, expected %q", input, got, expected)
		}
	}
}

func TestPairFilterKeepsFirst(t *testing.T) {
	filter := NewPairFilter(4)
	pairs := []Pair{
		{"cat", "cat"},
		{"$x", `\$x`},
		{"cat", "cat"},
		{"$x", "$x"},
	}
	expected := []bool{true, true, false, true}
	for i, p := range pairs {
		if got := filter.ShouldInclude(p); got != expected[i] {
			t.Errorf("ShouldInclude(%v) = %v, expected %v", p, got, expected[i])
		}
	}
}

func TestClampLimit(t *testing.T) {
	testCases := []struct {
		requested, max, expected int
	}{
		{0, 64, 64},
		{10, 64, 10},
		{100, 64, 64},
		{-1, 64, 64},
		{5, 0, 5},
		{0, 0, 0},
	}
	for _, tc := range testCases {
		if got := ClampLimit(tc.requested, tc.max); got != tc.expected {
			t.Errorf("ClampLimit(%d, %d) = %d, expected %d", tc.requested, tc.max, got, tc.expected)
		}
	}
}

func TestFormatWithCommas(t *testing.T) {
	testCases := map[int]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		1234567:  "1,234,567",
		-12345:   "-12,345",
	}
	for input, expected := range testCases {
		if got := FormatWithCommas(input); got != expected {
			t.Errorf("FormatWithCommas(%d) = %q, expected %q", input, got, expected)
		}
	}
}
