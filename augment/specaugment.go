package augment

import (
	"math/rand"
)

// SpecAugment zeroes randomized bands of a feature tensor: vertical
// bands across the channel axis and horizontal bands across the time
// axis, per item, as described in the SpecAugment paper
// (https://arxiv.org/abs/1904.08779).
type SpecAugment struct {
	freqMasks int
	timeMasks int
	freqWidth int
	timeWidth int
	rng       *rand.Rand
}

// NewSpecAugment creates a band masker. The RNG is owned by the
// caller so mask draws can be made reproducible.
func NewSpecAugment(freqMasks, timeMasks, freqWidth, timeWidth int, rng *rand.Rand) *SpecAugment {
	return &SpecAugment{
		freqMasks: freqMasks,
		timeMasks: timeMasks,
		freqWidth: freqWidth,
		timeWidth: timeWidth,
		rng:       rng,
	}
}

// Apply zeroes bands in-place. For every item it draws freqMasks
// channel bands of width uniform in [0, freqWidth] and timeMasks
// frame bands of width uniform in [0, timeWidth]; band positions are
// drawn so the band always fits. Bands may overlap, and re-zeroing an
// already-zero region is a no-op.
func (sa *SpecAugment) Apply(spec [][][]float64) {
	for _, item := range spec {
		channels := len(item)
		if channels == 0 {
			continue
		}
		frames := len(item[0])

		for m := 0; m < sa.freqMasks; m++ {
			width, start := sa.drawBand(sa.freqWidth, channels)
			for c := start; c < start+width; c++ {
				for t := range item[c] {
					item[c][t] = 0
				}
			}
		}

		for m := 0; m < sa.timeMasks; m++ {
			width, start := sa.drawBand(sa.timeWidth, frames)
			for c := range item {
				for t := start; t < start+width; t++ {
					item[c][t] = 0
				}
			}
		}
	}
}

// drawBand picks a band width in [0, maxWidth] and a start position
// such that the band lies inside [0, extent). Widths beyond the
// extent are clamped so indexing never escapes the tensor.
func (sa *SpecAugment) drawBand(maxWidth, extent int) (width, start int) {
	width = sa.rng.Intn(maxWidth + 1)
	if width > extent {
		width = extent
	}
	start = sa.rng.Intn(extent - width + 1)
	return width, start
}
