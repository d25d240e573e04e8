package ngram

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

// DefaultFalsePositiveRate is the context filter error rate used when none is given.
const DefaultFalsePositiveRate = 0.01

// ErrInvalidOrder is returned when a model order below 1 is requested.
var ErrInvalidOrder = errors.New("n-gram order must be at least 1")

// Context is an ordered token window used as a lookup key.
type Context []string

// Last returns the trailing n tokens, or nil when the window holds fewer than n.
func (c Context) Last(n int) Context {
	if n <= 0 || len(c) < n {
		return nil
	}
	return c[len(c)-n:]
}

// Equal reports element-wise, order-sensitive equality.
func (c Context) Equal(other Context) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// String returns the context as a space-separated string
func (c Context) String() string {
	return strings.Join(c, " ")
}

type node struct {
	children  map[uint32]*node
	followers []uint32
}

func newNode() *node {
	return &node{children: make(map[uint32]*node)}
}

// Model is an immutable n-gram index of a single order.
type Model struct {
	order    int
	vocab    *Vocabulary
	root     *node
	filter   *bloom.BloomFilter
	contexts int
	entries  int
}

// ModelStats contains statistics about an n-gram model
type ModelStats struct {
	Order    int `json:"order" msgpack:"n"`
	Contexts int `json:"contexts" msgpack:"x"`
	Entries  int `json:"entries" msgpack:"e"`
}

// Build interns corpus into vocab and indexes it with order n.
func Build(vocab *Vocabulary, corpus []string, n int, fpRate float64) (*Model, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidOrder, n)
	}
	return BuildIDs(vocab, vocab.Encode(corpus), n, fpRate)
}

// BuildIDs indexes an already interned corpus with order n.
//
// A follower is recorded for every position i > n, keyed by the n ids right
// before it. Position n itself is never a target, so the first n+1 tokens of
// the stream only ever act as context.
func BuildIDs(vocab *Vocabulary, ids []uint32, n int, fpRate float64) (*Model, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidOrder, n)
	}
	if fpRate <= 0 || fpRate >= 1 {
		fpRate = DefaultFalsePositiveRate
	}

	expected := len(ids) - n - 1
	if expected < 1 {
		expected = 1
	}
	m := &Model{
		order:  n,
		vocab:  vocab,
		root:   newNode(),
		filter: bloom.NewWithEstimates(uint(expected), fpRate),
	}

	key := make([]byte, 0, 4*n)
	for i := n + 1; i < len(ids); i++ {
		ctx := ids[i-n : i]
		leaf := m.insert(ctx)
		if len(leaf.followers) == 0 {
			m.contexts++
			key = contextKey(key[:0], ctx)
			m.filter.Add(key)
		}
		leaf.followers = append(leaf.followers, ids[i])
		m.entries++
	}
	return m, nil
}

func (m *Model) insert(ctx []uint32) *node {
	current := m.root
	for _, id := range ctx {
		child, ok := current.children[id]
		if !ok {
			child = newNode()
			current.children[id] = child
		}
		current = child
	}
	return current
}

// leaf returns the follower node for context, or nil on any miss.
func (m *Model) leaf(context []string) *node {
	if len(context) != m.order {
		return nil
	}
	ids, ok := m.vocab.Lookup(context)
	if !ok {
		return nil
	}
	if !m.filter.Test(contextKey(make([]byte, 0, 4*len(ids)), ids)) {
		return nil
	}
	current := m.root
	for _, id := range ids {
		current = current.children[id]
		if current == nil {
			return nil
		}
	}
	if len(current.followers) == 0 {
		return nil
	}
	return current
}

// Get returns how often each token followed context in the corpus.
// The map is empty when context has the wrong length or was never seen.
func (m *Model) Get(context []string) map[string]int {
	counts := make(map[string]int)
	leaf := m.leaf(context)
	if leaf == nil {
		return counts
	}
	for _, id := range leaf.followers {
		counts[m.vocab.Token(id)]++
	}
	return counts
}

// Occurrences returns how many followers were recorded for context.
func (m *Model) Occurrences(context []string) int {
	leaf := m.leaf(context)
	if leaf == nil {
		return 0
	}
	return len(leaf.followers)
}

// Contexts visits every indexed context in no particular order.
func (m *Model) Contexts(fn func(ctx Context, occurrences int)) {
	path := make([]uint32, 0, m.order)
	m.walk(m.root, path, fn)
}

func (m *Model) walk(n *node, path []uint32, fn func(Context, int)) {
	if len(path) == m.order {
		ctx := make(Context, len(path))
		for i, id := range path {
			ctx[i] = m.vocab.Token(id)
		}
		fn(ctx, len(n.followers))
		return
	}
	for id, child := range n.children {
		m.walk(child, append(path, id), fn)
	}
}

// Order returns the context length of the model.
func (m *Model) Order() int {
	return m.order
}

// Stats returns statistics about the model
func (m *Model) Stats() ModelStats {
	return ModelStats{
		Order:    m.order,
		Contexts: m.contexts,
		Entries:  m.entries,
	}
}

// contextKey appends the little-endian encoding of ids to dst.
func contextKey(dst []byte, ids []uint32) []byte {
	for _, id := range ids {
		dst = binary.LittleEndian.AppendUint32(dst, id)
	}
	return dst
}
