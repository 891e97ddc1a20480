package windowing

import "math"

// generateHamming creates Hamming window coefficients:
// w[i] = 0.54 - 0.46 * cos(2*pi*i / D)
func generateHamming(size int, periodic bool) []float64 {
	coefficients := make([]float64, size)
	d := denominator(size, periodic)

	for i := 0; i < size; i++ {
		coefficients[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/d)
	}

	return coefficients
}
