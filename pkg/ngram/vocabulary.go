// Package ngram builds the n-gram indexes the completion engine queries.
//
// Tokens are interned into a Vocabulary so every model stores compact uint32
// ids. A Model of order n maps each n-token context, as an ordered id path in a
// trie, to the list of tokens observed right after it.
package ngram

import (
	"sort"

	"github.com/tchap/go-patricia/v2/patricia"
)

// Vocabulary interns tokens to dense ids. Ids start at 0 and follow first
// appearance. It is written while models are built and read-only afterwards.
type Vocabulary struct {
	ids    *patricia.Trie
	tokens []string
}

// NewVocabulary creates an empty vocabulary.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{
		ids: patricia.NewTrie(),
	}
}

// Intern returns the id of token, assigning the next free id on first sight.
func (v *Vocabulary) Intern(token string) uint32 {
	if id, ok := v.ID(token); ok {
		return id
	}
	id := uint32(len(v.tokens))
	v.ids.Insert(patricia.Prefix(token), id)
	v.tokens = append(v.tokens, token)
	return id
}

// Encode interns every token of seq and returns the id sequence.
func (v *Vocabulary) Encode(seq []string) []uint32 {
	ids := make([]uint32, len(seq))
	for i, token := range seq {
		ids[i] = v.Intern(token)
	}
	return ids
}

// Lookup maps seq to ids without interning. ok is false if any token is unknown.
func (v *Vocabulary) Lookup(seq []string) ([]uint32, bool) {
	ids := make([]uint32, len(seq))
	for i, token := range seq {
		id, ok := v.ID(token)
		if !ok {
			return nil, false
		}
		ids[i] = id
	}
	return ids, true
}

// ID returns the id of a known token.
func (v *Vocabulary) ID(token string) (uint32, bool) {
	if token == "" {
		return 0, false
	}
	item := v.ids.Get(patricia.Prefix(token))
	if item == nil {
		return 0, false
	}
	return item.(uint32), true
}

// Token returns the token for id, or "" for an unknown id.
func (v *Vocabulary) Token(id uint32) string {
	if int(id) < len(v.tokens) {
		return v.tokens[id]
	}
	return ""
}

// Len returns the number of distinct tokens.
func (v *Vocabulary) Len() int {
	return len(v.tokens)
}

// WithPrefix lists known tokens starting with prefix in lexical order.
// limit <= 0 returns every match.
func (v *Vocabulary) WithPrefix(prefix string, limit int) []string {
	var matches []string
	visit := func(p patricia.Prefix, item patricia.Item) error {
		matches = append(matches, string(p))
		return nil
	}
	var err error
	if prefix == "" {
		err = v.ids.Visit(visit)
	} else {
		err = v.ids.VisitSubtree(patricia.Prefix(prefix), visit)
	}
	if err != nil {
		return nil
	}
	sort.Strings(matches)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
