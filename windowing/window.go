package windowing

import (
	"fmt"
)

// Window holds precomputed tapering coefficients for a named window
// function. Coefficients are generated once at construction and never
// change afterwards.
type Window struct {
	name         string
	size         int
	periodic     bool
	coefficients []float64
}

// generator produces coefficients for one window type
type generator func(size int, periodic bool) []float64

// generators is the closed set of supported window names. "none", "ones"
// and the empty string all resolve to the rectangular (all-ones) window.
var generators = map[string]generator{
	"hann":     generateHann,
	"hamming":  generateHamming,
	"blackman": generateBlackman,
	"bartlett": generateBartlett,
	"none":     generateRectangular,
	"ones":     generateRectangular,
	"":         generateRectangular,
}

// New creates a window of the given size. Unknown names are a
// configuration error; callers should resolve the name once, at setup
// time, not per frame.
func New(name string, size int, periodic bool) (*Window, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window size must be positive, got %d", size)
	}

	gen, ok := generators[name]
	if !ok {
		return nil, fmt.Errorf("unknown window function %q", name)
	}

	return &Window{
		name:         name,
		size:         size,
		periodic:     periodic,
		coefficients: gen(size, periodic),
	}, nil
}

// denominator returns the phase divisor for cosine-sum windows.
// Periodic windows divide by N (for spectral analysis), symmetric
// windows by N-1 (for filter design).
func denominator(size int, periodic bool) float64 {
	if periodic || size == 1 {
		return float64(size)
	}
	return float64(size - 1)
}

// Coefficients returns the backing coefficient slice. Callers must
// treat it as read-only.
func (w *Window) Coefficients() []float64 {
	return w.coefficients
}

// Apply multiplies the signal by the window into a new slice
func (w *Window) Apply(signal []float64) ([]float64, error) {
	if len(signal) != w.size {
		return nil, fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), w.size)
	}

	windowed := make([]float64, w.size)
	for i := range signal {
		windowed[i] = signal[i] * w.coefficients[i]
	}

	return windowed, nil
}

// ApplyInPlace multiplies the signal by the window in-place
func (w *Window) ApplyInPlace(signal []float64) error {
	if len(signal) != w.size {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), w.size)
	}

	for i := range signal {
		signal[i] *= w.coefficients[i]
	}

	return nil
}

// Name returns the window's name
func (w *Window) Name() string {
	return w.name
}

// Size returns the window size
func (w *Window) Size() int {
	return w.size
}
