package spectral

import (
	"fmt"
	"math"
)

// MelBank is a fixed triangular mel-scale filter matrix. It is built
// once from the configuration and reused for every projection; the
// matrix is never mutated after construction.
type MelBank struct {
	numFilters int
	fftSize    int
	sampleRate int
	lowFreq    float64
	highFreq   float64
	filters    [][]float64 // numFilters x (fftSize/2 + 1)
}

// HzToMel converts frequency in Hz to mel scale
func HzToMel(hz float64) float64 {
	return 2595.0 * math.Log10(1.0+hz/700.0)
}

// MelToHz converts mel scale to frequency in Hz
func MelToHz(mel float64) float64 {
	return 700.0 * (math.Pow(10.0, mel/2595.0) - 1.0)
}

// NewMelBank builds the triangular filter matrix spanning
// [lowFreq, highFreq]. A highFreq <= 0 means the Nyquist frequency.
func NewMelBank(numFilters, fftSize, sampleRate int, lowFreq, highFreq float64) (*MelBank, error) {
	if numFilters <= 0 {
		return nil, fmt.Errorf("number of mel filters must be positive, got %d", numFilters)
	}
	if fftSize <= 0 {
		return nil, fmt.Errorf("FFT size must be positive, got %d", fftSize)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}

	if highFreq <= 0 {
		highFreq = float64(sampleRate) / 2.0
	}
	if lowFreq < 0 || lowFreq >= highFreq {
		return nil, fmt.Errorf("invalid mel frequency range [%v, %v]", lowFreq, highFreq)
	}

	mb := &MelBank{
		numFilters: numFilters,
		fftSize:    fftSize,
		sampleRate: sampleRate,
		lowFreq:    lowFreq,
		highFreq:   highFreq,
	}
	mb.build()

	return mb, nil
}

// build creates the triangular filters. Center frequencies are equally
// spaced on the mel scale and snapped to FFT bin indices.
func (mb *MelBank) build() {
	lowMel := HzToMel(mb.lowFreq)
	highMel := HzToMel(mb.highFreq)

	melPoints := make([]float64, mb.numFilters+2)
	melStep := (highMel - lowMel) / float64(mb.numFilters+1)
	for i := range melPoints {
		melPoints[i] = lowMel + float64(i)*melStep
	}

	binPoints := make([]int, len(melPoints))
	for i, mel := range melPoints {
		hz := MelToHz(mel)
		binPoints[i] = int(math.Floor((float64(mb.fftSize)+1.0)*hz/float64(mb.sampleRate) + 0.5))
		binPoints[i] = min(binPoints[i], mb.fftSize/2)
	}

	freqBins := mb.fftSize/2 + 1
	mb.filters = make([][]float64, mb.numFilters)
	for i := range mb.filters {
		mb.filters[i] = make([]float64, freqBins)
	}

	for m := 1; m <= mb.numFilters; m++ {
		leftBin := binPoints[m-1]
		centerBin := binPoints[m]
		rightBin := binPoints[m+1]

		// Rising edge
		for k := leftBin; k < centerBin && k < freqBins; k++ {
			if centerBin != leftBin {
				mb.filters[m-1][k] = float64(k-leftBin) / float64(centerBin-leftBin)
			}
		}

		// Falling edge
		for k := centerBin; k < rightBin && k < freqBins; k++ {
			if rightBin != centerBin {
				mb.filters[m-1][k] = float64(rightBin-k) / float64(rightBin-centerBin)
			}
		}
	}
}

// Apply projects one spectrum frame onto the mel basis
func (mb *MelBank) Apply(spectrum []float64) []float64 {
	melSpectrum := make([]float64, mb.numFilters)

	for i, filter := range mb.filters {
		sum := 0.0
		for j := 0; j < len(filter) && j < len(spectrum); j++ {
			if filter[j] != 0 {
				sum += spectrum[j] * filter[j]
			}
		}
		melSpectrum[i] = sum
	}

	return melSpectrum
}

// Project applies the filterbank to every frame of a spectrogram,
// turning frames x freqBins into frames x numFilters
func (mb *MelBank) Project(spectrogram [][]float64) [][]float64 {
	melSpectrogram := make([][]float64, len(spectrogram))
	for t, frame := range spectrogram {
		melSpectrogram[t] = mb.Apply(frame)
	}
	return melSpectrogram
}

// Filters returns the filter matrix. Callers must treat it as
// read-only.
func (mb *MelBank) Filters() [][]float64 {
	return mb.filters
}
