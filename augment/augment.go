// Package augment implements randomized masking of spectral feature
// tensors for training-time regularization: SpecAugment-style band
// masking and Cutout-style rectangle masking.
package augment

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/kenjewu/melfront/logging"
)

// Config holds the augmentation parameters. All counts and widths are
// fixed at construction; a zero count disables the corresponding
// masker.
type Config struct {
	// Band masking (SpecAugment)
	FreqMasks int `json:"freq_masks"`
	TimeMasks int `json:"time_masks"`
	FreqWidth int `json:"freq_width"` // max channels per band
	TimeWidth int `json:"time_width"` // max frames per band

	// Rectangular cutout (SpecCutout)
	RectMasks int `json:"rect_masks"`
	RectFreq  int `json:"rect_freq"` // max rectangle height
	RectTime  int `json:"rect_time"` // max rectangle width

	// Seed makes the mask stream reproducible; 0 seeds from the clock
	Seed int64 `json:"seed"`
}

// DefaultConfig returns the conventional mask extents with all
// counts zero, so augmentation is off until counts are raised.
func DefaultConfig() Config {
	return Config{
		FreqWidth: 10,
		TimeWidth: 10,
		RectFreq:  20,
		RectTime:  5,
	}
}

// Augmenter composes the two maskers over a feature tensor. The fixed
// composition order is cutout first, then band masking; since zeroing
// is idempotent the result does not depend on the order when masks
// overlap.
//
// The RNG stream is the only mutable state, so an Augmenter must not
// be shared across goroutines.
type Augmenter struct {
	specCutout  *SpecCutout  // nil when RectMasks == 0
	specAugment *SpecAugment // nil when FreqMasks+TimeMasks == 0
	logger      logging.Logger
}

// NewAugmenter validates the configuration and builds the enabled
// maskers around a shared RNG.
func NewAugmenter(cfg Config) (*Augmenter, error) {
	if cfg.FreqMasks < 0 || cfg.TimeMasks < 0 || cfg.RectMasks < 0 {
		return nil, fmt.Errorf("mask counts must not be negative")
	}
	if cfg.FreqWidth < 0 || cfg.TimeWidth < 0 || cfg.RectFreq < 0 || cfg.RectTime < 0 {
		return nil, fmt.Errorf("mask widths must not be negative")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	a := &Augmenter{
		logger: logging.WithFields(logging.Fields{
			"component": "augmenter",
		}),
	}

	if cfg.RectMasks > 0 {
		a.specCutout = NewSpecCutout(cfg.RectMasks, cfg.RectFreq, cfg.RectTime, rng)
	}
	if cfg.FreqMasks+cfg.TimeMasks > 0 {
		a.specAugment = NewSpecAugment(cfg.FreqMasks, cfg.TimeMasks, cfg.FreqWidth, cfg.TimeWidth, rng)
	}

	a.logger.Debug("augmenter ready", logging.Fields{
		"freq_masks": cfg.FreqMasks,
		"time_masks": cfg.TimeMasks,
		"rect_masks": cfg.RectMasks,
	})

	return a, nil
}

// Apply returns a masked copy of the batch x channels x frames tensor.
// With both maskers disabled the copy is bit-identical to the input.
func (a *Augmenter) Apply(spec [][][]float64) [][][]float64 {
	out := copyTensor(spec)
	if a.specCutout != nil {
		a.specCutout.Apply(out)
	}
	if a.specAugment != nil {
		a.specAugment.Apply(out)
	}
	return out
}

func copyTensor(spec [][][]float64) [][][]float64 {
	out := make([][][]float64, len(spec))
	for b, item := range spec {
		out[b] = make([][]float64, len(item))
		for c, channel := range item {
			out[b][c] = make([]float64, len(channel))
			copy(out[b][c], channel)
		}
	}
	return out
}
