package spectrum

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-pulse/dsp/core"
	"github.com/cwbudde/algo-pulse/dsp/window"
)

const (
	// DefaultLowBin is the last bin removed at the low end (DC and drift).
	DefaultLowBin = 15
	// DefaultHighBin is the first bin removed at the high end.
	DefaultHighBin = 100
	// DefaultRateScale converts a period in seconds to a per-minute rate.
	DefaultRateScale = 60.0
)

// Observer receives every rate derived from a valid peak.
type Observer interface {
	AddObservation(freq float64)
}

// Config holds estimator settings.
type Config struct {
	// LowBin: bins 0..LowBin are masked.
	LowBin int
	// HighBin: bins HighBin..len-1 are masked.
	HighBin int
	// RateScale converts 1/period into the reported unit (60 for per-minute).
	RateScale float64
	// Window tapers the signal before the transform. The zero value is
	// rectangular, which leaves the signal untouched.
	Window window.Type
	// WindowOptions are passed to window.Generate, e.g. window.WithAlpha
	// for a Tukey taper.
	WindowOptions []window.Option
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the heart-rate band settings.
func DefaultConfig() Config {
	return Config{
		LowBin:    DefaultLowBin,
		HighBin:   DefaultHighBin,
		RateScale: DefaultRateScale,
	}
}

// WithBand sets the masked bin limits: 0..low and high..end are removed.
func WithBand(low, high int) Option {
	return func(cfg *Config) {
		cfg.LowBin = low
		cfg.HighBin = high
	}
}

// WithRateScale sets the factor applied to 1/period.
func WithRateScale(scale float64) Option {
	return func(cfg *Config) {
		cfg.RateScale = scale
	}
}

// WithWindow applies a periodic taper of type t before the transform.
func WithWindow(t window.Type, opts ...window.Option) Option {
	opts = append([]window.Option(nil), opts...)
	return func(cfg *Config) {
		cfg.Window = t
		cfg.WindowOptions = opts
	}
}

// FrequencyEstimate is the primary rate and the range representable by
// the analyzed signal.
type FrequencyEstimate struct {
	Current float64
	Min     float64
	Max     float64
}

// Result is the outcome of one spectral estimate.
type Result struct {
	FrequencyEstimate
	Peaks [PeakCount]Peak
	// Spectrum is the masked, normalized power spectrum that was searched.
	Spectrum []float64
}

// Estimator converts 1-D signals to rate estimates. It is not safe for
// concurrent use.
type Estimator struct {
	cfg   Config
	power powerCalc
	spec  []float64
	taper []float64
	frame []float64
}

// NewEstimator returns an Estimator with DefaultConfig modified by opts.
func NewEstimator(opts ...Option) (*Estimator, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.LowBin < 0 {
		return nil, fmt.Errorf("low bin must be >= 0: %d", cfg.LowBin)
	}
	if cfg.HighBin <= cfg.LowBin+1 {
		return nil, fmt.Errorf("high bin must leave a non-empty band above low bin %d: %d", cfg.LowBin, cfg.HighBin)
	}
	if !(cfg.RateScale > 0) {
		return nil, fmt.Errorf("rate scale must be > 0: %f", cfg.RateScale)
	}
	if !cfg.Window.Valid() {
		return nil, fmt.Errorf("unknown window: %v", cfg.Window)
	}
	return &Estimator{cfg: cfg}, nil
}

// Config returns the estimator settings.
func (e *Estimator) Config() Config {
	return e.cfg
}

// Estimate computes the power spectrum of signal, sampled every dt seconds,
// and derives the rate from its two strongest in-band peaks. Every valid
// peak's rate is passed to obs, which may be nil.
func (e *Estimator) Estimate(signal []float64, dt float64, obs Observer) (Result, error) {
	if err := validate(len(signal), dt); err != nil {
		return Result{}, err
	}

	if e.cfg.Window != window.TypeRectangular {
		signal = e.windowed(signal)
	}

	e.spec = core.EnsureLen(e.spec, len(signal))
	if err := e.power.compute(e.spec, signal); err != nil {
		return Result{}, err
	}
	return e.fromPower(e.spec, dt, obs), nil
}

// EstimateFromPower runs the band mask, normalization and peak search on a
// precomputed power spectrum. power is not modified.
func (e *Estimator) EstimateFromPower(power []float64, dt float64, obs Observer) (Result, error) {
	if err := validate(len(power), dt); err != nil {
		return Result{}, err
	}
	e.spec = core.EnsureLen(e.spec, len(power))
	copy(e.spec, power)
	return e.fromPower(e.spec, dt, obs), nil
}

// windowed returns signal multiplied by the cached taper. signal is not
// modified.
func (e *Estimator) windowed(signal []float64) []float64 {
	if len(e.taper) != len(signal) {
		opts := append([]window.Option{window.WithPeriodic()}, e.cfg.WindowOptions...)
		e.taper = window.Generate(e.cfg.Window, len(signal), opts...)
	}
	e.frame = core.EnsureLen(e.frame, len(signal))
	vecmath.MulBlock(e.frame, signal, e.taper)
	return e.frame
}

// fromPower works in place on spec.
func (e *Estimator) fromPower(spec []float64, dt float64, obs Observer) Result {
	MaskBand(spec, e.cfg.LowBin, e.cfg.HighBin)
	core.NormalizeMinMax(spec, spec)

	res := Result{
		Peaks:    TopTwo(spec),
		Spectrum: append([]float64(nil), spec...),
	}

	scale := e.cfg.RateScale
	res.Max = scale / dt
	res.Min = scale / (float64(len(spec)-1) * dt)

	found := false
	for _, p := range res.Peaks {
		if !p.Valid() {
			continue
		}
		freq := scale / (float64(p.Bin) * dt)
		if obs != nil {
			obs.AddObservation(freq)
		}
		if !found {
			res.Current = freq
			found = true
		}
	}
	return res
}

func validate(n int, dt float64) error {
	if n < 2 {
		return fmt.Errorf("estimate requires at least 2 samples: %d", n)
	}
	if !(dt > 0) {
		return fmt.Errorf("estimate dt must be > 0: %f", dt)
	}
	return nil
}
