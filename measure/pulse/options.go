package pulse

import (
	"log/slog"

	"github.com/cwbudde/algo-pulse/dsp/separate"
	"github.com/cwbudde/algo-pulse/dsp/spectrum"
)

// Tracker smooths the stream of rate observations produced by every cycle.
type Tracker interface {
	AddObservation(freq float64)
	CurrentValue() float64
	RobustValues() []float64
	Reset()
}

// Config holds construction-time settings of a Processor.
type Config struct {
	Mode             separate.Mode
	Separator        separate.Separator
	Tracker          Tracker
	EstimatorOptions []spectrum.Option
	Logger           *slog.Logger
}

// Option mutates a Config.
type Option func(*Config)

// WithMode selects the default separator for mode. It is ignored when
// WithSeparator is also given.
func WithMode(mode separate.Mode) Option {
	return func(cfg *Config) {
		cfg.Mode = mode
	}
}

// WithSeparator sets a custom separation strategy.
func WithSeparator(s separate.Separator) Option {
	return func(cfg *Config) {
		cfg.Separator = s
	}
}

// WithTracker sets the observation tracker.
func WithTracker(t Tracker) Option {
	return func(cfg *Config) {
		cfg.Tracker = t
	}
}

// WithEstimatorOptions passes options to the spectral estimator.
func WithEstimatorOptions(opts ...spectrum.Option) Option {
	return func(cfg *Config) {
		cfg.EstimatorOptions = append(cfg.EstimatorOptions, opts...)
	}
}

// WithLogger sets the logger for per-cycle debug records.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *Config) {
		cfg.Logger = l
	}
}
