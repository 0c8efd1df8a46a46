package utils

// CycleEnumPtr advances *current by direction (+1/-1) within [0, max],
// wrapping around at either end, the way a tab bar or a selector cycles.
func CycleEnumPtr[T ~int](current *T, direction int, max T) {
	*current = (*current + T(direction) + max + 1) % (max + 1)
}
