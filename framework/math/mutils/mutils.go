package mutils

import "golang.org/x/exp/constraints"

func Clamp[T constraints.Integer | constraints.Float](x, min, max T) T {
	if x < min {
		return min
	}

	if x > max {
		return max
	}

	return x
}

func Lerp[T constraints.Float](min, max, t T) T {
	return min + (max-min)*t
}
