package featurize

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/kenjewu/melfront/filters"
	"github.com/kenjewu/melfront/logging"
	"github.com/kenjewu/melfront/spectral"
	"github.com/kenjewu/melfront/windowing"
)

// Featurizer converts batches of raw waveforms into normalized
// log-mel feature tensors. The window coefficients and the mel filter
// matrix are derived once at construction and immutable afterwards;
// per-call tensors carry no state between calls.
//
// The dither stage draws from the featurizer's RNG, so concurrent
// Extract calls on one instance are not reentrant unless dither is 0.
type Featurizer struct {
	cfg Config

	winLength int
	hopLength int
	nFFT      int

	window   []float64 // zero-padded to nFFT
	melBank  *spectral.MelBank
	stft     *spectral.STFT
	preemph  *filters.PreEmphasis // nil when disabled
	dither   *filters.Dither      // nil when disabled
	logGuard float64

	logger logging.Logger
}

// NewFeaturizer validates the configuration and precomputes the
// window and filterbank. All configuration errors surface here, not
// during extraction.
func NewFeaturizer(cfg Config) (*Featurizer, error) {
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", cfg.SampleRate)
	}
	if cfg.Features <= 0 {
		return nil, fmt.Errorf("number of mel features must be positive, got %d", cfg.Features)
	}

	winLength, hopLength, err := cfg.winParams()
	if err != nil {
		return nil, err
	}

	nFFT := cfg.NFFT
	if nFFT <= 0 {
		nFFT = spectral.NextPowerOfTwo(winLength)
	}

	win, err := windowing.New(cfg.Window, winLength, true)
	if err != nil {
		return nil, err
	}

	melBank, err := spectral.NewMelBank(cfg.Features, nFFT, cfg.SampleRate, cfg.LowFreq, cfg.HighFreq)
	if err != nil {
		return nil, err
	}

	// validated even when log is off so bad guard config never hides
	logGuard, err := cfg.logGuard()
	if err != nil {
		return nil, err
	}

	if cfg.FrameSplicing <= 0 {
		cfg.FrameSplicing = 1
	}
	if cfg.MagPower == 0 {
		cfg.MagPower = 2.0
	}
	if cfg.PadTo < 0 {
		return nil, fmt.Errorf("pad_to must not be negative, got %d", cfg.PadTo)
	}

	f := &Featurizer{
		cfg:       cfg,
		winLength: winLength,
		hopLength: hopLength,
		nFFT:      nFFT,
		window:    spectral.PadWindow(win.Coefficients(), nFFT),
		melBank:   melBank,
		stft:      spectral.NewSTFT(),
		logGuard:  logGuard,
		logger: logging.WithFields(logging.Fields{
			"component": "featurizer",
		}),
	}

	if cfg.Preemph != 0 {
		if f.preemph, err = filters.NewPreEmphasis(cfg.Preemph); err != nil {
			return nil, err
		}
	}

	if cfg.Dither > 0 {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		f.dither = filters.NewDither(cfg.Dither, rand.New(rand.NewSource(seed)))
	}

	f.logger.Debug("featurizer ready", logging.Fields{
		"win_length": winLength,
		"hop_length": hopLength,
		"n_fft":      nFFT,
		"features":   cfg.Features,
	})

	return f, nil
}

// Extract turns a waveform batch into a feature tensor of shape
// batch x channels x frames plus per-item valid frame counts, where
// channels = features * frame_splicing. Every item's frame axis is
// padded to a common length that is a multiple of pad_to; frames at or
// beyond an item's output length hold pad_value.
func (f *Featurizer) Extract(batch [][]float64, lengths []int) ([][][]float64, []int, error) {
	if err := f.validateBatch(batch, lengths); err != nil {
		return nil, nil, err
	}

	outLengths := make([]int, len(batch))
	maxLen := 0
	for i, length := range lengths {
		outLengths[i] = f.SeqLen(float64(length))
		maxLen = max(maxLen, outLengths[i])
	}

	paddedLen := maxLen
	if f.cfg.PadTo > 0 {
		paddedLen = (maxLen + f.cfg.PadTo - 1) / f.cfg.PadTo * f.cfg.PadTo
	}

	features := make([][][]float64, len(batch))
	for i, signal := range batch {
		feat, err := f.extractOne(signal, outLengths[i])
		if err != nil {
			return nil, nil, fmt.Errorf("item %d: %w", i, err)
		}
		features[i] = f.padFrames(feat, outLengths[i], paddedLen)
	}

	return features, outLengths, nil
}

// extractOne runs the per-item pipeline and returns channels x frames
func (f *Featurizer) extractOne(signal []float64, validFrames int) ([][]float64, error) {
	if f.dither != nil {
		signal = f.dither.ProcessBuffer(signal)
	}
	if f.preemph != nil {
		signal = f.preemph.ProcessBuffer(signal)
	}

	spectrogram, err := f.stft.Spectrogram(signal, f.hopLength, f.nFFT, f.window, f.cfg.MagPower)
	if err != nil {
		return nil, err
	}

	mel := f.melBank.Project(spectrogram)

	// Transpose frames x mels into channels x frames
	feat := make([][]float64, f.cfg.Features)
	for c := range feat {
		feat[c] = make([]float64, len(mel))
		for t := range mel {
			feat[c][t] = mel[t][c]
		}
	}

	if f.cfg.Log {
		f.applyLog(feat)
	}

	switch f.cfg.Normalize {
	case NormalizePerFeature:
		normalizePerFeature(feat, validFrames)
	case NormalizeAllFeatures:
		normalizeAllFeatures(feat, validFrames)
	default:
		// any other value skips normalization
	}

	if f.cfg.FrameSplicing > 1 {
		feat = spliceFrames(feat, f.cfg.FrameSplicing)
	}

	return feat, nil
}

// applyLog compresses energies with the configured zero guard
func (f *Featurizer) applyLog(feat [][]float64) {
	clamp := f.cfg.LogZeroGuardType == LogGuardClamp
	for _, channel := range feat {
		for t, v := range channel {
			if clamp {
				channel[t] = math.Log(math.Max(v, f.logGuard))
			} else {
				channel[t] = math.Log(v + f.logGuard)
			}
		}
	}
}

// padFrames fixes every channel to paddedLen frames, filling frames at
// or beyond validFrames with the configured pad value
func (f *Featurizer) padFrames(feat [][]float64, validFrames, paddedLen int) [][]float64 {
	out := make([][]float64, len(feat))
	for c, channel := range feat {
		row := make([]float64, paddedLen)
		copy(row, channel[:min(len(channel), paddedLen)])
		for t := validFrames; t < paddedLen; t++ {
			row[t] = f.cfg.PadValue
		}
		out[c] = row
	}
	return out
}

// SeqLen returns the number of valid output frames for a waveform of
// the given sample count: ceil(length / hop). The argument is a float
// so callers converting from durations don't truncate first.
func (f *Featurizer) SeqLen(length float64) int {
	return int(math.Ceil(length / float64(f.hopLength)))
}

// FilterBanks exposes the fixed mel filter matrix, read-only
func (f *Featurizer) FilterBanks() [][]float64 {
	return f.melBank.Filters()
}

// NumChannels returns the output channel count,
// features * frame_splicing
func (f *Featurizer) NumChannels() int {
	return f.cfg.Features * f.cfg.FrameSplicing
}

func (f *Featurizer) validateBatch(batch [][]float64, lengths []int) error {
	if len(batch) == 0 {
		return fmt.Errorf("empty batch")
	}
	if len(lengths) != len(batch) {
		return fmt.Errorf("lengths size (%d) doesn't match batch size (%d)", len(lengths), len(batch))
	}

	bufLen := len(batch[0])
	for i, signal := range batch {
		if len(signal) != bufLen {
			return fmt.Errorf("item %d has buffer length %d, expected %d", i, len(signal), bufLen)
		}
		if lengths[i] < 0 || lengths[i] > bufLen {
			return fmt.Errorf("item %d has invalid length %d for buffer of %d samples", i, lengths[i], bufLen)
		}
	}
	if bufLen == 0 {
		return fmt.Errorf("empty waveforms")
	}

	return nil
}
