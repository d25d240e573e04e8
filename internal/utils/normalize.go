package utils

// CreateRankList creates a slice of ranks based on position.
// The rank starts at 1 for the first item and increments for subsequent items.
func CreateRankList(count int) []uint16 {
	if count <= 0 {
		return []uint16{}
	}
	ranks := make([]uint16, count)
	for i := 0; i < count; i++ {
		ranks[i] = uint16(i + 1)
	}
	return ranks
}

// ClampLimit resolves a requested result limit against the configured maximum.
// Non-positive requests fall back to max; a non-positive max means unlimited.
func ClampLimit(requested, max int) int {
	if max <= 0 {
		if requested < 0 {
			return 0
		}
		return requested
	}
	if requested <= 0 || requested > max {
		return max
	}
	return requested
}
