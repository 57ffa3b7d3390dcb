package resample

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-pulse/dsp/timeseries"
)

func fill(t *testing.T, capacity int, times []int64, value func(int64) timeseries.Vec3) *timeseries.Buffer {
	t.Helper()
	b, err := timeseries.NewBuffer(capacity)
	if err != nil {
		t.Fatalf("NewBuffer: %v", err)
	}
	for _, ts := range times {
		if err := b.Add(ts, value(ts)); err != nil {
			t.Fatalf("Add(%d): %v", ts, err)
		}
	}
	return b
}

func TestTimePointsStrictlyIncreasing(t *testing.T) {
	for _, n := range []int{1, 2, 7, 64, 301} {
		pts := TimePoints(1000, 1333, n)
		if len(pts) != n {
			t.Fatalf("len = %d, want %d", len(pts), n)
		}
		if pts[n-1] != 1333 {
			t.Fatalf("last point = %v, want 1333", pts[n-1])
		}
		for i := 1; i < n; i++ {
			if !(pts[i] > pts[i-1]) {
				t.Fatalf("n=%d: pts[%d]=%v not > pts[%d]=%v", n, i, pts[i], i-1, pts[i-1])
			}
		}
	}
}

func TestUniformTimedPointsShapeAndDt(t *testing.T) {
	times := []int64{0, 33, 70, 99, 134, 166, 201, 233, 266, 300}
	b := fill(t, 16, times, func(ts int64) timeseries.Vec3 {
		return timeseries.Vec3{float64(ts), 2 * float64(ts), 5}
	})

	var u UniformSignal
	for _, n := range []int{4, 10, 25} {
		if err := UniformTimedPoints(b, n, 1000, &u); err != nil {
			t.Fatalf("UniformTimedPoints(%d): %v", n, err)
		}
		r, c := u.Data.Dims()
		if r != Channels || c != n || u.Len() != n {
			t.Fatalf("dims = %dx%d, want %dx%d", r, c, Channels, n)
		}
		wantDt := 300.0 / float64(n) / 1000
		if math.Abs(u.Dt-wantDt) > 1e-15 {
			t.Fatalf("Dt = %v, want %v", u.Dt, wantDt)
		}

		// A linear ramp resamples exactly onto the grid.
		pts := TimePoints(0, 300, n)
		for i, tp := range pts {
			if math.Abs(u.Data.At(0, i)-tp) > 1e-9 || math.Abs(u.Data.At(1, i)-2*tp) > 1e-9 {
				t.Fatalf("column %d = (%v, %v), want (%v, %v)", i, u.Data.At(0, i), u.Data.At(1, i), tp, 2*tp)
			}
			if u.Data.At(2, i) != 5 {
				t.Fatalf("column %d constant channel = %v, want 5", i, u.Data.At(2, i))
			}
		}
	}
}

func TestUniformTimedPointsReusesMatrix(t *testing.T) {
	b := fill(t, 8, []int64{0, 1, 2, 3}, func(ts int64) timeseries.Vec3 { return timeseries.Vec3{} })

	var u UniformSignal
	if err := UniformTimedPoints(b, 4, 1, &u); err != nil {
		t.Fatalf("UniformTimedPoints: %v", err)
	}
	before := u.Data
	if err := UniformTimedPoints(b, 4, 1, &u); err != nil {
		t.Fatalf("UniformTimedPoints: %v", err)
	}
	if u.Data != before {
		t.Fatal("matrix with matching shape was reallocated")
	}
}

func TestUniformTimedPointsInsufficientData(t *testing.T) {
	var u UniformSignal

	one := fill(t, 4, []int64{5}, func(int64) timeseries.Vec3 { return timeseries.Vec3{} })
	if err := UniformTimedPoints(one, 4, 1, &u); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("single sample err = %v, want ErrInsufficientData", err)
	}

	flat := fill(t, 4, []int64{5, 5, 5}, func(int64) timeseries.Vec3 { return timeseries.Vec3{} })
	if err := UniformTimedPoints(flat, 4, 1, &u); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("zero span err = %v, want ErrInsufficientData", err)
	}
}

func TestUniformTimedPointsValidatesArguments(t *testing.T) {
	b := fill(t, 4, []int64{0, 10}, func(int64) timeseries.Vec3 { return timeseries.Vec3{} })
	var u UniformSignal
	if err := UniformTimedPoints(b, 0, 1, &u); err == nil {
		t.Fatal("sampleCount 0: err = nil")
	}
	if err := UniformTimedPoints(b, 4, 0, &u); err == nil {
		t.Fatal("basis 0: err = nil")
	}
}
