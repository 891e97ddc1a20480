package filters

import (
	"fmt"
)

// PreEmphasis implements a first-order high-pass pre-emphasis filter:
//
//	y[n] = x[n] - a*x[n-1]
//
// It compensates for the natural spectral roll-off of speech and audio
// before spectral analysis. Typical coefficients are 0.95-0.97.
type PreEmphasis struct {
	coefficient float64
}

// NewPreEmphasis creates a pre-emphasis filter with the given
// coefficient a, 0 < a < 1.
func NewPreEmphasis(coefficient float64) (*PreEmphasis, error) {
	if coefficient <= 0.0 || coefficient >= 1.0 {
		return nil, fmt.Errorf("pre-emphasis coefficient must be between 0 and 1, got %f", coefficient)
	}

	return &PreEmphasis{coefficient: coefficient}, nil
}

// ProcessBuffer applies pre-emphasis to a whole utterance. The first
// sample has no predecessor and passes through unchanged.
func (pe *PreEmphasis) ProcessBuffer(input []float64) []float64 {
	output := make([]float64, len(input))
	if len(input) == 0 {
		return output
	}

	output[0] = input[0]
	for i := 1; i < len(input); i++ {
		output[i] = input[i] - pe.coefficient*input[i-1]
	}

	return output
}

// Coefficient returns the filter coefficient
func (pe *PreEmphasis) Coefficient() float64 {
	return pe.coefficient
}
