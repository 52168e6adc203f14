// Package rolling provides bounded FIFO sample histories and derived
// statistics for the GamePulse decision pipeline.
package rolling

import (
	"errors"
	"math"
)

// ErrEmptyBuffer is returned when an order statistic is requested on an
// empty buffer. Callers substitute the current sample value.
var ErrEmptyBuffer = errors.New("rolling: empty buffer")

// Default capacities used across the pipeline.
const (
	DefaultLatencyCapacity = 100
	DefaultFrameCapacity   = 1000
)

// Buffer is a fixed-capacity FIFO history of float64 samples with O(1)
// insert. Once full, recording evicts the oldest sample. A Buffer is owned
// and mutated by exactly one component; it performs no locking itself.
type Buffer struct {
	samples []float64
	head    int // index of the oldest sample once full
	full    bool
	cap     int
}

// New creates a buffer holding at most capacity samples.
// A capacity below 1 is coerced to 1.
func New(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{
		samples: make([]float64, 0, capacity),
		cap:     capacity,
	}
}

// Record appends a sample, evicting the oldest when the buffer is full.
func (b *Buffer) Record(v float64) {
	if !b.full {
		b.samples = append(b.samples, v)
		if len(b.samples) == b.cap {
			b.full = true
		}
		return
	}
	b.samples[b.head] = v
	b.head = (b.head + 1) % b.cap
}

// Len returns the number of recorded samples (at most Cap).
func (b *Buffer) Len() int {
	return len(b.samples)
}

// Cap returns the buffer's fixed capacity.
func (b *Buffer) Cap() int {
	return b.cap
}

// Values returns the samples oldest-first as a fresh slice.
func (b *Buffer) Values() []float64 {
	out := make([]float64, 0, len(b.samples))
	for i := 0; i < len(b.samples); i++ {
		out = append(out, b.samples[(b.head+i)%len(b.samples)])
	}
	return out
}

// Last returns the most recent sample, or 0 if the buffer is empty.
func (b *Buffer) Last() float64 {
	n := len(b.samples)
	if n == 0 {
		return 0
	}
	return b.samples[(b.head+n-1)%n]
}

// Mean returns the arithmetic mean of the window, or 0 when empty.
func (b *Buffer) Mean() float64 {
	n := len(b.samples)
	if n == 0 {
		return 0
	}
	var sum float64
	for _, v := range b.samples {
		sum += v
	}
	return sum / float64(n)
}

// StdDev returns the population standard deviation (divide by N, not N-1)
// of the window, or 0 when empty.
func (b *Buffer) StdDev() float64 {
	n := len(b.samples)
	if n == 0 {
		return 0
	}
	mean := b.Mean()
	var sum float64
	for _, v := range b.samples {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(n))
}

// Min returns the smallest sample in the window.
// Returns ErrEmptyBuffer when the buffer is empty.
func (b *Buffer) Min() (float64, error) {
	if len(b.samples) == 0 {
		return 0, ErrEmptyBuffer
	}
	min := b.samples[0]
	for _, v := range b.samples[1:] {
		if v < min {
			min = v
		}
	}
	return min, nil
}

// Max returns the largest sample in the window.
// Returns ErrEmptyBuffer when the buffer is empty.
func (b *Buffer) Max() (float64, error) {
	if len(b.samples) == 0 {
		return 0, ErrEmptyBuffer
	}
	max := b.samples[0]
	for _, v := range b.samples[1:] {
		if v > max {
			max = v
		}
	}
	return max, nil
}
