package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeCorpus(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.txt")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write corpus: %v", err)
	}
	return path
}

func TestSplitLines(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty", "", []string{}},
		{"single line", "the cat", []string{"the cat"}},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"lone cr", "a\rb\r\nc\r", []string{"a", "b", "c"}},
		{"cr before blank line", "a\r\rb", []string{"a", "", "b"}},
		{"blank lines kept", "a\n\nb", []string{"a", "", "b"}},
		{"bom stripped", "\ufeffhello\n", []string{"hello"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SplitLines([]byte(tc.input))
			if err != nil {
				t.Fatalf("SplitLines returned unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("SplitLines(%q) = %#v, expected %#v", tc.input, got, tc.expected)
			}
		})
	}
}

func TestSplitLinesRejectsInvalidUTF8(t *testing.T) {
	_, err := SplitLines([]byte{'o', 'k', 0xff, 0xfe})
	if !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("expected ErrInvalidEncoding, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeCorpus(t, []byte("the cat sat\nthe cat ran\n"))

	lines, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	expected := []string{"the cat sat", "the cat ran"}
	if !reflect.DeepEqual(lines, expected) {
		t.Errorf("Load = %#v, expected %#v", lines, expected)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := writeCorpus(t, nil)

	lines, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed on empty file: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("expected no lines, got %d", len(lines))
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); !errors.Is(err, ErrEmptyPath) {
		t.Errorf("expected ErrEmptyPath, got %v", err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}

	if _, err := Load(t.TempDir()); !errors.Is(err, ErrNotRegular) {
		t.Errorf("expected ErrNotRegular for a directory, got %v", err)
	}

	bad := writeCorpus(t, []byte{0xc3, 0x28})
	if _, err := Load(bad); !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("expected ErrInvalidEncoding, got %v", err)
	}
}

func TestTokenizeAndFlatten(t *testing.T) {
	lines := []string{"the cat  sat", "", " the cat ran "}

	tokenized := Tokenize(lines)
	expectedLines := [][]string{{"the", "cat", "sat"}, nil, {"the", "cat", "ran"}}
	if !reflect.DeepEqual(tokenized, expectedLines) {
		t.Errorf("Tokenize = %#v, expected %#v", tokenized, expectedLines)
	}

	flat := Flatten(tokenized)
	expected := []string{"the", "cat", "sat", "the", "cat", "ran"}
	if !reflect.DeepEqual(flat, expected) {
		t.Errorf("Flatten = %#v, expected %#v", flat, expected)
	}
}

func TestRead(t *testing.T) {
	path := writeCorpus(t, []byte("a b\nc\n\nd e f\n"))

	tokens, stats, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	expected := []string{"a", "b", "c", "d", "e", "f"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("Read tokens = %#v, expected %#v", tokens, expected)
	}
	if stats.Lines != 4 || stats.Tokens != 6 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
