package spectrum

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// powerCalc computes |DFT(x)|^2 of real signals. The FFT plan and scratch
// slices are kept for the last signal length.
type powerCalc struct {
	size int
	plan *algofft.Plan[complex128]
	in   []complex128
	out  []complex128
	re   []float64
	im   []float64
}

// PowerSpectrum writes |X[k]|^2 of the DFT of the real signal into dst,
// which must have the signal's length. All len(signal) bins are produced,
// so the upper half mirrors the lower half.
func PowerSpectrum(dst, signal []float64) error {
	var p powerCalc
	return p.compute(dst, signal)
}

func (p *powerCalc) compute(dst, signal []float64) error {
	n := len(signal)
	if n == 0 {
		return fmt.Errorf("power spectrum requires a non-empty signal")
	}
	if len(dst) != n {
		return fmt.Errorf("power spectrum dst length mismatch: %d != %d", len(dst), n)
	}

	if n != p.size {
		p.resize(n)
	}

	for i, v := range signal {
		p.in[i] = complex(v, 0)
	}

	if p.plan != nil {
		if err := p.plan.Forward(p.out, p.in); err != nil {
			return fmt.Errorf("power spectrum fft: %w", err)
		}
	} else {
		directDFT(p.out, p.in)
	}

	for i, c := range p.out {
		p.re[i] = real(c)
		p.im[i] = imag(c)
	}
	vecmath.Power(dst, p.re, p.im)
	return nil
}

func (p *powerCalc) resize(n int) {
	p.size = n
	p.in = make([]complex128, n)
	p.out = make([]complex128, n)
	p.re = make([]float64, n)
	p.im = make([]float64, n)

	p.plan = nil
	if fftAccurate(n) {
		if plan, err := algofft.NewPlan64(n); err == nil {
			p.plan = plan
		}
	}
}

// fftAccurate reports whether the FFT backend's plan for length n matches
// the DFT. algo-fft v0.6.6 returns wrong bins for n = 2^b * 5^a with b >= 3
// and a >= 1 (40, 80, 160, 200, 320, 400, ...); those take the direct path.
func fftAccurate(n int) bool {
	twos, fives := 0, 0
	for n%2 == 0 {
		n /= 2
		twos++
	}
	for n%5 == 0 {
		n /= 5
		fives++
	}
	return !(n == 1 && twos >= 3 && fives >= 1)
}

// directDFT computes the forward DFT X[k] = sum x[t] e^{-2 pi i k t / n}.
func directDFT(dst, src []complex128) {
	n := len(src)
	w := -2 * math.Pi / float64(n)
	for k := range dst {
		var sum complex128
		for t, x := range src {
			// k*t mod n keeps the angle small for large n.
			s, c := math.Sincos(w * float64((k*t)%n))
			sum += x * complex(c, s)
		}
		dst[k] = sum
	}
}
