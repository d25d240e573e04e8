package utils

// Pair is a (display, insert) completion pair as seen by the host.
type Pair struct {
	Display string
	Insert  string
}

// PairFilter drops repeated completion pairs, keeping the first occurrence.
type PairFilter struct {
	seen map[Pair]struct{}
}

// NewPairFilter creates an empty filter sized for n pairs.
func NewPairFilter(n int) *PairFilter {
	return &PairFilter{seen: make(map[Pair]struct{}, n)}
}

// ShouldInclude returns true the first time a pair is offered and false after.
func (f *PairFilter) ShouldInclude(p Pair) bool {
	if _, ok := f.seen[p]; ok {
		return false
	}
	f.seen[p] = struct{}{}
	return true
}
