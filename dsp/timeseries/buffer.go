package timeseries

import "fmt"

// Vec3 is a three-component sample value, typically mean R, G and B.
type Vec3 [3]float64

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Sample is one timestamped measurement.
type Sample struct {
	Time  int64
	Value Vec3
}

// Buffer is a fixed-capacity FIFO window of samples ordered by time.
// It is not safe for concurrent use.
type Buffer struct {
	samples []Sample
	head    int // index of the oldest sample
	size    int
}

// NewBuffer returns an empty buffer holding at most capacity samples.
func NewBuffer(capacity int) (*Buffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("buffer capacity must be > 0: %d", capacity)
	}
	return &Buffer{samples: make([]Sample, capacity)}, nil
}

// Len returns the number of buffered samples.
func (b *Buffer) Len() int {
	return b.size
}

// Cap returns the buffer capacity.
func (b *Buffer) Cap() int {
	return len(b.samples)
}

// At returns the i-th buffered sample, 0 being the oldest.
// It panics if i is out of [0, Len()).
func (b *Buffer) At(i int) Sample {
	if i < 0 || i >= b.size {
		panic(fmt.Sprintf("timeseries: index %d out of range [0,%d)", i, b.size))
	}
	return b.samples[b.index(i)]
}

// First returns the oldest sample. ok is false when the buffer is empty.
func (b *Buffer) First() (s Sample, ok bool) {
	if b.size == 0 {
		return Sample{}, false
	}
	return b.samples[b.head], true
}

// Last returns the newest sample. ok is false when the buffer is empty.
func (b *Buffer) Last() (s Sample, ok bool) {
	if b.size == 0 {
		return Sample{}, false
	}
	return b.samples[b.index(b.size-1)], true
}

// Add appends a sample, evicting the oldest one when the buffer is full.
// Timestamps must be non-decreasing; an older timestamp is rejected with
// ErrOutOfOrder.
func (b *Buffer) Add(t int64, v Vec3) error {
	if last, ok := b.Last(); ok && t < last.Time {
		return fmt.Errorf("%w: %d < %d", ErrOutOfOrder, t, last.Time)
	}

	capacity := len(b.samples)
	if b.size < capacity {
		b.samples[b.index(b.size)] = Sample{Time: t, Value: v}
		b.size++
		return nil
	}

	b.samples[b.head] = Sample{Time: t, Value: v}
	b.head++
	if b.head == capacity {
		b.head = 0
	}
	return nil
}

// Reset removes all samples. The backing storage is kept.
func (b *Buffer) Reset() {
	for i := range b.samples {
		b.samples[i] = Sample{}
	}
	b.head = 0
	b.size = 0
}

// Samples appends the buffered samples, oldest first, to dst and returns it.
func (b *Buffer) Samples(dst []Sample) []Sample {
	for i := 0; i < b.size; i++ {
		dst = append(dst, b.samples[b.index(i)])
	}
	return dst
}

// FindValueForTime returns the value at time t, linearly interpolated
// between the two samples bracketing t.
//
// The bracket is the first sample with Time >= t and its predecessor; a t at
// or before the oldest sample yields the oldest value. An empty buffer yields
// the zero vector and a nil error, which callers must not mistake for a
// measurement. A t past the newest sample yields ErrOutOfRange.
func (b *Buffer) FindValueForTime(t float64) (Vec3, error) {
	if b.size == 0 {
		return Vec3{}, nil
	}

	prev := b.samples[b.head]
	for i := 0; i < b.size; i++ {
		next := b.samples[b.index(i)]
		if float64(next.Time) >= t {
			if prev.Time == next.Time {
				return next.Value, nil
			}
			span := float64(next.Time - prev.Time)
			frac := (t - float64(prev.Time)) / span
			return prev.Value.Add(next.Value.Sub(prev.Value).Scale(frac)), nil
		}
		prev = next
	}

	return Vec3{}, fmt.Errorf("%w: t=%g newest=%d", ErrOutOfRange, t, prev.Time)
}

func (b *Buffer) index(i int) int {
	j := b.head + i
	if j >= len(b.samples) {
		j -= len(b.samples)
	}
	return j
}
