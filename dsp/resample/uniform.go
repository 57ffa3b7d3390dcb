package resample

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-pulse/dsp/timeseries"
)

// Channels is the number of rows produced from a three-component source.
const Channels = 3

// ErrInsufficientData is returned when the source cannot span a time grid.
var ErrInsufficientData = errors.New("resample needs at least 2 samples spanning a non-zero time")

// Source is the read side of a time-ordered sample window.
type Source interface {
	Len() int
	First() (timeseries.Sample, bool)
	Last() (timeseries.Sample, bool)
	FindValueForTime(t float64) (timeseries.Vec3, error)
}

// UniformSignal is a multi-channel signal on a uniform time grid.
// Data holds one row per channel and one column per time point.
type UniformSignal struct {
	Data *mat.Dense
	// Dt is the grid spacing in the rate's time unit (seconds for a
	// per-minute rate).
	Dt float64
}

// Len returns the number of time points.
func (u *UniformSignal) Len() int {
	if u.Data == nil {
		return 0
	}
	_, c := u.Data.Dims()
	return c
}

// TimePoints returns the sampleCount grid times spanning (first, last].
// The grid starts one step after first and its final point is pinned to
// last.
func TimePoints(first, last int64, sampleCount int) []float64 {
	if sampleCount <= 0 {
		return nil
	}
	out := make([]float64, sampleCount)
	fillTimePoints(out, first, last)
	return out
}

func fillTimePoints(dst []float64, first, last int64) {
	n := len(dst)
	step := float64(last-first) / float64(n)
	for i := range dst {
		dst[i] = float64(first) + float64(i+1)*step
	}
	dst[n-1] = float64(last)
}

// UniformTimedPoints samples src on a uniform grid of sampleCount points
// and writes the result to dst, reusing dst.Data when its shape matches.
//
// The raw step is (last-first)/sampleCount in timestamp ticks; dst.Dt is that
// step divided by basisFrequency, the number of ticks per rate time unit.
func UniformTimedPoints(src Source, sampleCount int, basisFrequency float64, dst *UniformSignal) error {
	if sampleCount <= 0 {
		return fmt.Errorf("resample sample count must be > 0: %d", sampleCount)
	}
	if !(basisFrequency > 0) {
		return fmt.Errorf("resample basis frequency must be > 0: %f", basisFrequency)
	}
	if src.Len() < 2 {
		return fmt.Errorf("%w: have %d", ErrInsufficientData, src.Len())
	}

	first, _ := src.First()
	last, _ := src.Last()
	if last.Time <= first.Time {
		return fmt.Errorf("%w: span %d..%d", ErrInsufficientData, first.Time, last.Time)
	}

	if dst.Data == nil {
		dst.Data = mat.NewDense(Channels, sampleCount, nil)
	} else if r, c := dst.Data.Dims(); r != Channels || c != sampleCount {
		dst.Data = mat.NewDense(Channels, sampleCount, nil)
	}

	times := make([]float64, sampleCount)
	fillTimePoints(times, first.Time, last.Time)
	for i, t := range times {
		v, err := src.FindValueForTime(t)
		if err != nil {
			return fmt.Errorf("resample column %d: %w", i, err)
		}
		for ch := 0; ch < Channels; ch++ {
			dst.Data.Set(ch, i, v[ch])
		}
	}

	dst.Dt = float64(last.Time-first.Time) / float64(sampleCount) / basisFrequency
	return nil
}
