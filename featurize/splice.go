package featurize

// spliceFrames widens each frame's channel vector with its splicing-1
// predecessors, clamping out-of-range indices at the start to frame 0.
// The frame count is unchanged, so output lengths stay valid; the
// channel count grows to channels*splicing, grouped by shift.
func spliceFrames(feat [][]float64, splicing int) [][]float64 {
	channels := len(feat)
	frames := frameCount(feat)

	out := make([][]float64, channels*splicing)
	for shift := 0; shift < splicing; shift++ {
		for c := 0; c < channels; c++ {
			row := make([]float64, frames)
			for t := 0; t < frames; t++ {
				row[t] = feat[c][max(t-shift, 0)]
			}
			out[shift*channels+c] = row
		}
	}

	return out
}
