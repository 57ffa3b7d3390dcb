// Package robust aggregates a stream of noisy rate observations into a
// stable value using a sliding window and median/MAD outlier rejection.
package robust

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

const (
	defaultWindow = 20
	defaultK      = 3.0

	// madScale makes the MAD a consistent estimator of a normal sigma.
	madScale = 1.4826
)

// Option configures a Tracker.
type Option func(*Tracker)

// WithWindow sets how many recent observations are kept.
func WithWindow(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.values = make([]float64, n)
		}
	}
}

// WithThreshold sets the outlier threshold in scaled MADs.
func WithThreshold(k float64) Option {
	return func(t *Tracker) {
		if k > 0 {
			t.k = k
		}
	}
}

// Tracker keeps the last N observations. Its current value is the median of
// the observations lying within K scaled MADs of the window median.
// It is not safe for concurrent use.
type Tracker struct {
	values []float64
	head   int
	size   int
	k      float64

	current float64
	sorted  []float64
	devs    []float64
}

// NewTracker returns an empty tracker (window 20, threshold 3).
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{values: make([]float64, defaultWindow), k: defaultK}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// AddObservation records f. Non-finite and non-positive values are ignored.
func (t *Tracker) AddObservation(f float64) {
	if !(f > 0) || math.IsInf(f, 1) {
		return
	}
	if t.size < len(t.values) {
		t.values[(t.head+t.size)%len(t.values)] = f
		t.size++
	} else {
		t.values[t.head] = f
		t.head = (t.head + 1) % len(t.values)
	}
	t.current = median(t.RobustValues(), &t.sorted)
}

// CurrentValue returns the tracked rate, 0 before the first observation.
func (t *Tracker) CurrentValue() float64 {
	return t.current
}

// Len returns the number of observations in the window.
func (t *Tracker) Len() int {
	return t.size
}

// RobustValues returns the windowed observations that are not outliers,
// oldest first.
func (t *Tracker) RobustValues() []float64 {
	if t.size == 0 {
		return nil
	}

	window := t.window()
	med := median(window, &t.sorted)

	t.devs = t.devs[:0]
	for _, v := range window {
		t.devs = append(t.devs, math.Abs(v-med))
	}
	limit := t.k * madScale * median(t.devs, &t.sorted)

	out := make([]float64, 0, len(window))
	for _, v := range window {
		if math.Abs(v-med) <= limit {
			out = append(out, v)
		}
	}
	return out
}

// Reset drops all observations.
func (t *Tracker) Reset() {
	for i := range t.values {
		t.values[i] = 0
	}
	t.head = 0
	t.size = 0
	t.current = 0
}

func (t *Tracker) window() []float64 {
	out := make([]float64, t.size)
	for i := range out {
		out[i] = t.values[(t.head+i)%len(t.values)]
	}
	return out
}

// median returns the empirical median of x using scratch for sorting.
func median(x []float64, scratch *[]float64) float64 {
	if len(x) == 0 {
		return 0
	}
	s := append((*scratch)[:0], x...)
	sort.Float64s(s)
	*scratch = s
	return stat.Quantile(0.5, stat.Empirical, s, nil)
}
