package windowing

import "math"

// generateHann creates Hann window coefficients:
// w[i] = 0.5 * (1 - cos(2*pi*i / D))
func generateHann(size int, periodic bool) []float64 {
	coefficients := make([]float64, size)
	d := denominator(size, periodic)

	for i := 0; i < size; i++ {
		coefficients[i] = 0.5 * (1.0 - math.Cos(2*math.Pi*float64(i)/d))
	}

	return coefficients
}
