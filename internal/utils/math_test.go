package utils

import (
	"math"
	"testing"
)

func TestEasingEndpoints(t *testing.T) {
	if EaseInQuart(0) != 0 || EaseInQuart(1) != 1 {
		t.Fatalf("ease-in endpoints wrong")
	}
	if EaseOutQuart(0) != 0 || EaseOutQuart(1) != 1 {
		t.Fatalf("ease-out endpoints wrong")
	}
	if got := EaseInQuart(0.5); math.Abs(got-0.0625) > 1e-12 {
		t.Fatalf("EaseInQuart(0.5)=%v want 0.0625", got)
	}
	if got := EaseOutQuart(0.5); math.Abs(got-0.9375) > 1e-12 {
		t.Fatalf("EaseOutQuart(0.5)=%v want 0.9375", got)
	}
}

func TestClamp01(t *testing.T) {
	for _, c := range []struct{ in, want float64 }{
		{-1, 0}, {0.25, 0.25}, {3, 1}, {math.NaN(), 0},
	} {
		if got := Clamp01(c.in); got != c.want {
			t.Errorf("Clamp01(%v)=%v want %v", c.in, got, c.want)
		}
	}
}

func TestFloorDivTruncatesTowardNegativeInfinity(t *testing.T) {
	if FloorDiv(999.9, 500) != 1 {
		t.Fatalf("expected 1")
	}
	if FloorDiv(1000, 500) != 2 {
		t.Fatalf("expected 2")
	}
	if FloorDiv(-1, 500) != -1 {
		t.Fatalf("expected -1")
	}
}
