package qimage

import "golang.org/x/exp/constraints"

// Default returns def when value is nil, otherwise the value it points to.
// Zero values behind a non-nil pointer are returned as they are.
func Default[T any](value *T, def T) T {
	if value == nil {
		return def
	}
	return *value
}

// Min returns the smallest of the given values.
func Min[T constraints.Ordered](values ...T) T {
	acc := values[0]
	for _, v := range values {
		if v < acc {
			acc = v
		}
	}
	return acc
}

// Max returns the biggest of the given values.
func Max[T constraints.Ordered](values ...T) T {
	acc := values[0]
	for _, v := range values {
		if v > acc {
			acc = v
		}
	}
	return acc
}

// Clamp limits v to the [lo, hi] range.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	return Max(lo, Min(v, hi))
}
