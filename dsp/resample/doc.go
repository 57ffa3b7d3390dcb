// Package resample converts irregularly timestamped samples to a uniform
// grid.
//
// UniformTimedPoints spreads sampleCount columns evenly over the span of a
// Source, evaluating it by linear interpolation. The result is a
// channels x samples matrix plus the grid period in seconds, ready for
// channel separation and spectral analysis.
package resample
