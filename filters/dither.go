package filters

import (
	"math/rand"
)

// Dither adds low-amplitude Gaussian noise to a signal, reducing
// quantization artifacts before spectral analysis. A scale of 0
// disables it.
type Dither struct {
	scale float64
	rng   *rand.Rand
}

// NewDither creates a dithering stage. The RNG is owned by the caller
// so runs can be made deterministic; it must not be shared across
// goroutines.
func NewDither(scale float64, rng *rand.Rand) *Dither {
	return &Dither{
		scale: scale,
		rng:   rng,
	}
}

// ProcessBuffer returns the signal with scaled Gaussian noise added to
// every sample. When the scale is zero the input is copied unchanged.
func (d *Dither) ProcessBuffer(input []float64) []float64 {
	output := make([]float64, len(input))
	if d.scale == 0 {
		copy(output, input)
		return output
	}

	for i, sample := range input {
		output[i] = sample + d.scale*d.rng.NormFloat64()
	}

	return output
}
