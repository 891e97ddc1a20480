package augment

import (
	"math/rand"
)

// SpecCutout zeroes randomized rectangles spanning both axes of a
// feature tensor, per item, as described in the Cutout paper
// (https://arxiv.org/abs/1708.04552).
type SpecCutout struct {
	rectMasks int
	rectFreq  int
	rectTime  int
	rng       *rand.Rand
}

// NewSpecCutout creates a rectangle masker. The RNG is owned by the
// caller so mask draws can be made reproducible.
func NewSpecCutout(rectMasks, rectFreq, rectTime int, rng *rand.Rand) *SpecCutout {
	return &SpecCutout{
		rectMasks: rectMasks,
		rectFreq:  rectFreq,
		rectTime:  rectTime,
		rng:       rng,
	}
}

// Apply zeroes rectangles in-place. For every item it draws rectMasks
// rectangles with height uniform in [0, rectFreq] and width uniform
// in [0, rectTime], positioned so each rectangle lies fully inside
// the tensor. Extents larger than the tensor are clamped to fit.
func (sc *SpecCutout) Apply(spec [][][]float64) {
	for _, item := range spec {
		channels := len(item)
		if channels == 0 {
			continue
		}
		frames := len(item[0])

		for m := 0; m < sc.rectMasks; m++ {
			height := min(sc.rng.Intn(sc.rectFreq+1), channels)
			width := min(sc.rng.Intn(sc.rectTime+1), frames)
			top := sc.rng.Intn(channels - height + 1)
			left := sc.rng.Intn(frames - width + 1)

			for c := top; c < top+height; c++ {
				for t := left; t < left+width; t++ {
					item[c][t] = 0
				}
			}
		}
	}
}
