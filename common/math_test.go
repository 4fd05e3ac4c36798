package common

import (
	"math"
	"testing"
)

func TestRescale(t *testing.T) {
	cases := []struct {
		name                    string
		v, s, e, ns, ne, expect float64
	}{
		{"at_start", 2, 2, 6, 10, 20, 10},
		{"at_end", 6, 2, 6, 10, 20, 20},
		{"midpoint", 4, 2, 6, 10, 20, 15},
		{"degenerate_range", 5, 3, 3, 7, 9, 7},
		{"reversed_target", 1, 0, 4, 8, 0, 6},
		{"extrapolates", 8, 2, 6, 10, 20, 25},
		{"walk_rate", 8, 0, 16, 0, 4, 2},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Rescale(c.v, c.s, c.e, c.ns, c.ne)
			if math.Abs(got-c.expect) > 1e-9 {
				t.Fatalf("expected %v, got %v", c.expect, got)
			}
		})
	}
}

func TestRescaleClamped(t *testing.T) {
	if got := RescaleClamped(8, 2, 6, 10, 20); got != 20 {
		t.Fatalf("expected clamp to 20, got %v", got)
	}
	if got := RescaleClamped(-10, 0, 4, 8, 0); got != 8 {
		t.Fatalf("expected clamp to 8 on reversed target, got %v", got)
	}
}

func TestRepeatScalar(t *testing.T) {
	cases := []struct {
		name           string
		v, s, e, want float64
	}{
		{"inside", 0.25, 0, 1, 0.25},
		{"wraps_up", 1.25, 0, 1, 0.25},
		{"wraps_negative", -0.25, 0, 1, 0.75},
		{"swapped_bounds", 7, 5, 2, 4},
		{"empty_range", 3, 2, 2, 2},
		{"end_maps_to_start", 1, 0, 1, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := RepeatScalar(c.v, c.s, c.e)
			if math.Abs(got-c.want) > 1e-9 {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
		})
	}
}

func TestRepeatInteger(t *testing.T) {
	cases := []struct {
		name          string
		v, s, e, want int
	}{
		{"inside", 2, 0, 3, 2},
		{"end_inclusive", 3, 0, 3, 3},
		{"wraps_past_end", 4, 0, 3, 0},
		{"wraps_negative", -1, 0, 3, 3},
		{"offset_range", 12, 5, 8, 8},
		{"swapped_bounds", 9, 8, 5, 5},
		{"single", 42, 1, 1, 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := RepeatInteger(c.v, c.s, c.e); got != c.want {
				t.Fatalf("expected %d, got %d", c.want, got)
			}
		})
	}
}

func TestSignAndClamp(t *testing.T) {
	if Sign(-3) != -1 || Sign(0) != 0 || Sign(0.1) != 1 {
		t.Fatalf("unexpected sign results")
	}
	if Clamp(20, -16, 16) != 16 || Clamp(-20, 16, -16) != -16 {
		t.Fatalf("unexpected clamp results")
	}
	if Lerp(0, 10, 0.5) != 5 {
		t.Fatalf("unexpected lerp result")
	}
}
