package featurize

import (
	"gonum.org/v1/gonum/stat"
)

// stdGuard keeps near-constant channels from blowing up the division.
// It is added to every standard deviation rather than used as a floor
// so the guarded and unguarded paths stay continuous.
const stdGuard = 1e-5

// normalizePerFeature normalizes each channel of one item to zero
// mean and unit deviation. Statistics come from the item's valid
// frames only; padded frames never contaminate them.
func normalizePerFeature(feat [][]float64, validFrames int) {
	validFrames = min(validFrames, frameCount(feat))
	if validFrames < 2 {
		return
	}

	for _, channel := range feat {
		valid := channel[:validFrames]
		mean, std := stat.MeanStdDev(valid, nil)
		std += stdGuard
		for t := range channel {
			channel[t] = (channel[t] - mean) / std
		}
	}
}

// normalizeAllFeatures normalizes one item by the scalar mean and
// deviation of its entire valid region, all channels together.
func normalizeAllFeatures(feat [][]float64, validFrames int) {
	validFrames = min(validFrames, frameCount(feat))
	if len(feat)*validFrames < 2 {
		return
	}

	valid := make([]float64, 0, len(feat)*validFrames)
	for _, channel := range feat {
		valid = append(valid, channel[:validFrames]...)
	}

	mean, std := stat.MeanStdDev(valid, nil)
	std += stdGuard

	for _, channel := range feat {
		for t := range channel {
			channel[t] = (channel[t] - mean) / std
		}
	}
}

func frameCount(feat [][]float64) int {
	if len(feat) == 0 {
		return 0
	}
	return len(feat[0])
}
