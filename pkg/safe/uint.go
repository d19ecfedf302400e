// Package safe provides numeric conversions that fail instead of wrapping.
package safe

import (
	"fmt"
	"math"
)

// Uint32 converts a signed integer to uint32, rejecting negatives and values above MaxUint32.
func Uint32[T ~int | ~int32 | ~int64](v T) (uint32, error) {
	if v < 0 || int64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("value %d out of uint32 range", v)
	}
	return uint32(v), nil
}

// Uint64 converts a signed integer to uint64, rejecting negatives.
func Uint64[T ~int | ~int32 | ~int64](v T) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("value %d out of uint64 range", v)
	}
	return uint64(v), nil
}
