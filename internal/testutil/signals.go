// Package testutil holds deterministic signal generators and tolerance
// helpers shared by the package tests.
package testutil

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Sine returns length samples of amplitude*sin(2*pi*cycles*i/length), i.e.
// exactly cycles periods over the slice.
func Sine(cycles, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * cycles / float64(length)
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// Noise returns white noise in [-amplitude, amplitude) from a fixed seed.
func Noise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// RGBSignal builds a 3 x n channel matrix from a per-column generator.
func RGBSignal(n int, at func(i int) [3]float64) *mat.Dense {
	m := mat.NewDense(3, n, nil)
	for i := 0; i < n; i++ {
		v := at(i)
		for ch := range v {
			m.Set(ch, i, v[ch])
		}
	}
	return m
}

// Pulse describes a skin-color signal with a periodic component.
type Pulse struct {
	BPM       float64    // rate of the periodic component in beats per minute
	Amplitude [3]float64 // per-channel amplitude of the periodic component
	Base      [3]float64 // per-channel constant offset
}

// At returns the pulse value at time sec seconds.
func (p Pulse) At(sec float64) [3]float64 {
	s := math.Sin(2 * math.Pi * p.BPM / 60 * sec)
	var v [3]float64
	for ch := range v {
		v[ch] = p.Base[ch] + p.Amplitude[ch]*s
	}
	return v
}
