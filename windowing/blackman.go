package windowing

import "math"

// generateBlackman creates Blackman window coefficients with the
// classic a0=0.42, a1=0.5, a2=0.08 terms:
// w[i] = a0 - a1*cos(2*pi*i/D) + a2*cos(4*pi*i/D)
func generateBlackman(size int, periodic bool) []float64 {
	coefficients := make([]float64, size)
	d := denominator(size, periodic)

	a0, a1, a2 := 0.42, 0.5, 0.08
	for i := 0; i < size; i++ {
		phase := 2 * math.Pi * float64(i) / d
		coefficients[i] = a0 - a1*math.Cos(phase) + a2*math.Cos(2*phase)
	}

	return coefficients
}
