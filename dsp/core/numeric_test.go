package core

import (
	"math"
	"testing"
)

func TestNearlyEqual(t *testing.T) {
	tests := []struct {
		a, b, eps float64
		want      bool
	}{
		{1, 1, 0, true},
		{1, 1 + 1e-13, 0, true},
		{1000, 1000.5, 1e-3, true},
		{1, 1.1, 1e-3, false},
		{0, 1e-9, 1e-12, false},
	}
	for _, tt := range tests {
		if got := NearlyEqual(tt.a, tt.b, tt.eps); got != tt.want {
			t.Fatalf("NearlyEqual(%v, %v, %v) = %v, want %v", tt.a, tt.b, tt.eps, got, tt.want)
		}
	}
}

func TestNormalizeMinMax(t *testing.T) {
	src := []float64{-2, 0, 2, 6}
	dst := make([]float64, len(src))
	NormalizeMinMax(dst, src)

	want := []float64{0, 0.25, 0.5, 1}
	for i := range want {
		if math.Abs(dst[i]-want[i]) > 1e-15 {
			t.Fatalf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestNormalizeMinMaxInPlaceConstant(t *testing.T) {
	x := []float64{3, 3, 3}
	NormalizeMinMax(x, x)
	for i, v := range x {
		if v != 0 {
			t.Fatalf("x[%d] = %v, want 0 for constant input", i, v)
		}
	}
}

func TestEnsureLenReusesCapacity(t *testing.T) {
	buf := make([]float64, 4, 16)
	out := EnsureLen(buf, 10)
	if len(out) != 10 || &out[0] != &buf[0] {
		t.Fatal("EnsureLen did not reuse capacity")
	}
	if got := EnsureLen(buf, 32); len(got) != 32 {
		t.Fatalf("len = %d, want 32", len(got))
	}
	if got := EnsureLen(buf, 0); len(got) != 0 {
		t.Fatalf("len = %d, want 0", len(got))
	}
}

func TestZeroRangeClamps(t *testing.T) {
	x := []float64{1, 1, 1, 1, 1}
	ZeroRange(x, -3, 2)
	ZeroRange(x, 4, 99)
	want := []float64{0, 0, 1, 1, 0}
	for i := range want {
		if x[i] != want[i] {
			t.Fatalf("x = %v, want %v", x, want)
		}
	}
}
