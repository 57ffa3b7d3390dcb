package pulse

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/cwbudde/algo-pulse/dsp/resample"
	"github.com/cwbudde/algo-pulse/dsp/separate"
	"github.com/cwbudde/algo-pulse/dsp/spectrum"
	"github.com/cwbudde/algo-pulse/dsp/timeseries"
	"github.com/cwbudde/algo-pulse/stats/robust"
)

// Estimate is the rate reported by the last completed cycle.
type Estimate = spectrum.FrequencyEstimate

// State is the processor lifecycle state.
type State int

const (
	// Idle means the buffer is below half capacity.
	Idle State = iota
	// Estimating means the buffer reached half capacity since the last
	// reset; every MeasureFrequency call runs the full pipeline.
	Estimating
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Estimating:
		return "estimating"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Processor buffers samples and estimates their dominant rate.
// All methods are safe for concurrent use; each call holds a single lock.
type Processor struct {
	mu sync.Mutex

	buf       *timeseries.Buffer
	separator separate.Separator
	estimator *spectrum.Estimator
	tracker   Tracker
	logger    *slog.Logger

	state    State
	estimate Estimate
	results  []spectrum.Result

	// Per-cycle workspace, reused between cycles.
	uniform resample.UniformSignal
	pending observations
}

// New returns a Processor whose buffer holds capacity samples.
func New(capacity int, opts ...Option) (*Processor, error) {
	cfg := Config{Mode: separate.SingleChannel}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	buf, err := timeseries.NewBuffer(capacity)
	if err != nil {
		return nil, err
	}

	sep := cfg.Separator
	if sep == nil {
		if sep, err = separate.New(cfg.Mode); err != nil {
			return nil, err
		}
	}

	est, err := spectrum.NewEstimator(cfg.EstimatorOptions...)
	if err != nil {
		return nil, fmt.Errorf("spectral estimator: %w", err)
	}

	tracker := cfg.Tracker
	if tracker == nil {
		tracker = robust.NewTracker()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Processor{
		buf:       buf,
		separator: sep,
		estimator: est,
		tracker:   tracker,
		logger:    logger,
	}, nil
}

// AddMeasure appends a sample, evicting the oldest when the buffer is full.
// Timestamps older than the newest buffered one are rejected with
// timeseries.ErrOutOfOrder.
func (p *Processor) AddMeasure(t int64, v timeseries.Vec3) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.buf.Add(t, v)
}

// MeasureFrequency runs one estimation cycle. basisFrequency is the number
// of timestamp ticks per second (1000 for millisecond timestamps).
//
// Below half capacity, or while the buffer holds fewer than two samples or
// spans no time, it returns false and does nothing. On error the cycle is
// abandoned: the buffer, the estimate and the tracker are left as they were.
func (p *Processor) MeasureFrequency(basisFrequency float64) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.buf.Len() < p.buf.Cap()/2 || !p.spansTime() {
		return false, nil
	}
	p.state = Estimating

	if err := resample.UniformTimedPoints(p.buf, p.buf.Len(), basisFrequency, &p.uniform); err != nil {
		return false, fmt.Errorf("resample: %w", err)
	}

	signals, err := p.separator.Separate(p.uniform.Data)
	if err != nil {
		return false, fmt.Errorf("separate (%v): %w", p.separator.Mode(), err)
	}
	if len(signals) == 0 {
		return false, fmt.Errorf("separate (%v): no signals", p.separator.Mode())
	}

	p.pending.reset()
	results := make([]spectrum.Result, 0, len(signals))
	for ch, sig := range signals {
		res, err := p.estimator.Estimate(sig, p.uniform.Dt, &p.pending)
		if err != nil {
			return false, fmt.Errorf("estimate channel %d: %w", ch, err)
		}
		results = append(results, res)
	}

	for _, f := range p.pending.freqs {
		p.tracker.AddObservation(f)
	}
	p.results = results
	p.estimate = results[0].FrequencyEstimate

	lead := results[0]
	p.logger.Debug("rate estimated",
		slog.Int("samples", len(signals[0])),
		slog.Int("peak_bin", lead.Peaks[0].Bin),
		slog.Float64("dt", p.uniform.Dt),
		slog.Float64("min", lead.Min),
		slog.Float64("max", lead.Max),
		slog.Float64("current", lead.Current),
		slog.Float64("tracked", p.tracker.CurrentValue()),
	)
	return true, nil
}

// spansTime reports whether the buffer holds at least two samples with
// distinct timestamps, the minimum the resampler needs.
func (p *Processor) spansTime() bool {
	if p.buf.Len() < 2 {
		return false
	}
	first, _ := p.buf.First()
	last, _ := p.buf.Last()
	return last.Time > first.Time
}

// Estimate returns the rate of the last completed cycle.
func (p *Processor) Estimate() Estimate {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.estimate
}

// Freq returns the tracker's smoothed rate.
func (p *Processor) Freq() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.tracker.CurrentValue()
}

// RobustFreqs returns the tracker's recent non-outlier rates.
func (p *Processor) RobustFreqs() []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.tracker.RobustValues()
}

// LastResults returns the per-signal spectral results of the last completed
// cycle, authoritative signal first. The slice must not be modified.
func (p *Processor) LastResults() []spectrum.Result {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.results
}

// State returns the lifecycle state.
func (p *Processor) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

// Len returns the number of buffered samples.
func (p *Processor) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.buf.Len()
}

// Mode returns the separation mode chosen at construction.
func (p *Processor) Mode() separate.Mode {
	return p.separator.Mode()
}

// Reset clears the buffer, the estimate and the tracker and returns the
// processor to Idle.
func (p *Processor) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.buf.Reset()
	p.tracker.Reset()
	p.estimate = Estimate{}
	p.results = nil
	p.state = Idle
	p.pending.reset()
}

// observations stages the rates of one cycle until it completes.
type observations struct {
	freqs []float64
}

func (o *observations) AddObservation(f float64) {
	o.freqs = append(o.freqs, f)
}

func (o *observations) reset() {
	o.freqs = o.freqs[:0]
}
