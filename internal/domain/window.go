package domain

// DefaultWindowSize is the forecasting model's input length
const DefaultWindowSize = 20

// Window is a bounded FIFO of samples, oldest first.
// Pushing onto a full window evicts exactly the oldest sample.
// A Window is not safe for concurrent use; each loop owns the one it loaded.
type Window struct {
	capacity int
	samples  []TelemetrySample
}

// NewWindow creates an empty window.
// A non-positive capacity falls back to DefaultWindowSize.
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = DefaultWindowSize
	}
	return &Window{
		capacity: capacity,
		samples:  make([]TelemetrySample, 0, capacity),
	}
}

// WindowFromSequence builds a window from an oldest-first sequence.
// When the sequence is longer than capacity only the newest samples are kept.
func WindowFromSequence(capacity int, samples []TelemetrySample) *Window {
	w := NewWindow(capacity)
	if len(samples) > w.capacity {
		samples = samples[len(samples)-w.capacity:]
	}
	w.samples = append(w.samples, samples...)
	return w
}

// Push appends s, dropping the oldest sample first when the window is full
func (w *Window) Push(s TelemetrySample) {
	if len(w.samples) == w.capacity {
		copy(w.samples, w.samples[1:])
		w.samples = w.samples[:len(w.samples)-1]
	}
	w.samples = append(w.samples, s)
}

// Samples returns a copy of the contents, oldest first
func (w *Window) Samples() []TelemetrySample {
	out := make([]TelemetrySample, len(w.samples))
	copy(out, w.samples)
	return out
}

// Len returns the number of samples held
func (w *Window) Len() int {
	return len(w.samples)
}

// Cap returns the fixed capacity N
func (w *Window) Cap() int {
	return w.capacity
}

// IsReady reports whether the window is full and eligible for forecasting
func (w *Window) IsReady() bool {
	return len(w.samples) == w.capacity
}

// Latest returns the newest sample, if any
func (w *Window) Latest() (TelemetrySample, bool) {
	if len(w.samples) == 0 {
		return TelemetrySample{}, false
	}
	return w.samples[len(w.samples)-1], true
}
