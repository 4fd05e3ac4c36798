package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// Sign returns -1, 0 or 1.
func Sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Rescale maps value from the range [start, end] onto [newStart, newEnd].
// The endpoints map exactly and a degenerate source range yields newStart.
// Values outside the source range are extrapolated.
func Rescale(value, start, end, newStart, newEnd float64) float64 {
	if start == end || value == start {
		return newStart
	}
	if value == end {
		return newEnd
	}
	return (value-start)/(end-start)*(newEnd-newStart) + newStart
}

// RescaleClamped is Rescale limited to the target range.
func RescaleClamped(value, start, end, newStart, newEnd float64) float64 {
	return Clamp(Rescale(value, start, end, newStart, newEnd), newStart, newEnd)
}

// RepeatScalar wraps value into [start, end). The bounds may be given in
// either order.
func RepeatScalar(value, start, end float64) float64 {
	if start == end {
		return start
	}
	if start > end {
		start, end = end, start
	}
	length := end - start
	t := value - start
	return t - math.Floor(t/length)*length + start
}

// RepeatInteger wraps value into the inclusive range [start, end].
func RepeatInteger(value, start, end int) int {
	if start == end {
		return start
	}
	if start > end {
		start, end = end, start
	}
	n := end - start + 1
	m := (value - start) % n
	if m < 0 {
		m += n
	}
	return m + start
}
