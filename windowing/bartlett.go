package windowing

import "math"

// generateBartlett creates Bartlett (triangular) window coefficients:
// w[i] = 1 - |2*i/D - 1|
func generateBartlett(size int, periodic bool) []float64 {
	coefficients := make([]float64, size)
	d := denominator(size, periodic)

	for i := 0; i < size; i++ {
		coefficients[i] = 1.0 - math.Abs(2.0*float64(i)/d-1.0)
	}

	return coefficients
}
