// Package fuzzy scores how close a candidate token is to a partially typed one.
package fuzzy

import "sort"

// Distance returns the Levenshtein edit distance between a and b, counted in
// runes. Insertions, deletions and substitutions each cost 1.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// single row over the shorter string
	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(rb); j++ {
			above := row[j]
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			row[j] = min(above+1, row[j-1]+1, diag+cost)
			diag = above
		}
	}
	return row[len(rb)]
}

type scored[T any] struct {
	item     T
	distance int
}

// SortByDistance reorders items by the edit distance between key(item) and
// target, smallest first. Items at equal distance keep their relative order.
func SortByDistance[T any](items []T, target string, key func(T) string) {
	if len(items) < 2 {
		return
	}
	ranked := make([]scored[T], len(items))
	for i, item := range items {
		ranked[i] = scored[T]{item: item, distance: Distance(key(item), target)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].distance < ranked[j].distance
	})
	for i := range ranked {
		items[i] = ranked[i].item
	}
}
