/*
Package corpus reads the training text for the n-gram models.

A corpus is a UTF-8 text file. Load maps the file read-only, validates the
encoding and splits it into lines; Tokenize splits every line on spaces and
Flatten joins the per-line tokens into the single token stream the models are
built from. Line boundaries are not kept once the stream is flattened.
*/
package corpus

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/edsrzf/mmap-go"
)

var (
	// ErrEmptyPath is returned when no corpus path is configured.
	ErrEmptyPath = errors.New("corpus path is empty")
	// ErrNotRegular is returned when the corpus path is a directory or device.
	ErrNotRegular = errors.New("corpus path is not a regular file")
	// ErrInvalidEncoding is returned when the corpus is not valid UTF-8.
	ErrInvalidEncoding = errors.New("corpus is not valid UTF-8")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads the corpus at path and returns its lines in order.
func Load(path string) ([]string, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat corpus %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotRegular)
	}
	// mmap refuses zero-length mappings
	if info.Size() == 0 {
		log.Warnf("Corpus file %s is empty", path)
		return []string{}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus %s: %w", path, err)
	}
	defer file.Close()

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to map corpus %s: %w", path, err)
	}
	defer func() {
		if err := data.Unmap(); err != nil {
			log.Errorf("Unmapping corpus %s: %v", path, err)
		}
	}()

	lines, err := SplitLines(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debugf("Loaded %d lines (%d bytes) from corpus: %s", len(lines), info.Size(), path)
	return lines, nil
}

// SplitLines validates data as UTF-8 and splits it on "\n", "\r\n" and a
// lone "\r". A trailing line terminator does not produce an empty final line.
// The returned strings are copies and stay valid after data is released.
func SplitLines(data []byte) ([]string, error) {
	if !utf8.Valid(data) {
		return nil, ErrInvalidEncoding
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(data) == 0 {
		return []string{}, nil
	}

	text := string(data)
	lines := make([]string, 0, bytes.Count(data, []byte{'\n'})+1)
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, text[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, text[start:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines, nil
}
