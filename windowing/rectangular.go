package windowing

// generateRectangular creates an all-ones (no tapering) window. Used
// for the "none"/"ones" window names.
func generateRectangular(size int, _ bool) []float64 {
	coefficients := make([]float64, size)
	for i := range coefficients {
		coefficients[i] = 1.0
	}
	return coefficients
}
