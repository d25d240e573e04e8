// Package suggest is the core, extracting the tokens before a cursor, querying every n-gram model with them and ranking the merged candidates.
package suggest

// Buffer gives read access to the document being completed.
type Buffer interface {
	// Substr returns the text in the half-open character interval [a, b).
	// Out of range offsets are clamped to the document.
	Substr(a, b int) string
}

// Provider answers a completion request for a set of cursor offsets.
// Implementations never fail: anything unexpected yields no completions.
type Provider interface {
	ProvideCompletions(cursors []int, buf Buffer) []Completion
}

// StringBuffer is a Buffer over an in-memory string, indexed by rune.
type StringBuffer struct {
	runes []rune
}

// NewStringBuffer wraps text.
func NewStringBuffer(text string) *StringBuffer {
	return &StringBuffer{runes: []rune(text)}
}

// Len returns the number of characters in the buffer.
func (b *StringBuffer) Len() int {
	return len(b.runes)
}

func (b *StringBuffer) Substr(start, end int) string {
	start = max(0, min(start, len(b.runes)))
	end = max(0, min(end, len(b.runes)))
	if start >= end {
		return ""
	}
	return string(b.runes[start:end])
}
