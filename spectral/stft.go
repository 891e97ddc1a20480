package spectral

import (
	"fmt"
	"math"
	"math/cmplx"
	"runtime"
	"sync"
)

// STFT computes framed short-time magnitude spectra with centered
// framing. Frames are taken every hop samples from the reflect-padded
// signal so the first frame is centered on sample 0; a buffer of
// length T yields 1 + T/hop frames.
type STFT struct {
	fft *FFT
}

// NewSTFT creates a new STFT calculator
func NewSTFT() *STFT {
	return &STFT{
		fft: NewFFT(),
	}
}

// Spectrogram computes |X|^magPower for every frame and keeps the
// nFFT/2+1 non-redundant bins. The window must already be padded to
// nFFT samples (see PadWindow). Output shape is frames x bins.
func (s *STFT) Spectrogram(signal []float64, hopSize, nFFT int, window []float64, magPower float64) ([][]float64, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("empty signal")
	}

	if hopSize <= 0 {
		return nil, fmt.Errorf("hop size must be positive")
	}

	if nFFT <= 0 {
		return nil, fmt.Errorf("nFFT must be positive")
	}

	if len(window) != nFFT {
		return nil, fmt.Errorf("window length (%d) doesn't match nFFT (%d)", len(window), nFFT)
	}

	padded := reflectPad(signal, nFFT/2)

	numFrames := len(signal)/hopSize + 1
	freqBins := nFFT/2 + 1

	spectrogram := make([][]float64, numFrames)
	for i := range spectrogram {
		spectrogram[i] = make([]float64, freqBins)
	}

	numWorkers := s.getOptimalWorkerCount(numFrames)

	jobs := make(chan int, numFrames)

	var wg sync.WaitGroup

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Reuse frame buffer for this worker
			frameBuffer := make([]float64, nFFT)

			for frameIdx := range jobs {
				start := frameIdx * hopSize
				if start+nFFT > len(padded) {
					continue
				}

				copy(frameBuffer, padded[start:start+nFFT])
				for i := range frameBuffer {
					frameBuffer[i] *= window[i]
				}

				fftResult := s.fft.Compute(frameBuffer)

				for i := 0; i < freqBins; i++ {
					mag := cmplx.Abs(fftResult[i])
					if magPower == 2.0 {
						spectrogram[frameIdx][i] = mag * mag
					} else if magPower == 1.0 {
						spectrogram[frameIdx][i] = mag
					} else {
						spectrogram[frameIdx][i] = math.Pow(mag, magPower)
					}
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for frameIdx := 0; frameIdx < numFrames; frameIdx++ {
			jobs <- frameIdx
		}
	}()

	wg.Wait()

	return spectrogram, nil
}

// reflectPad mirrors pad samples around each edge of the signal,
// excluding the edge sample itself: [c b | a b c d | c b] for pad=2.
// Mirror indices are folded back in range for short signals.
func reflectPad(signal []float64, pad int) []float64 {
	n := len(signal)
	out := make([]float64, n+2*pad)
	copy(out[pad:], signal)

	for i := 1; i <= pad; i++ {
		out[pad-i] = signal[reflectIndex(i, n)]
		out[pad+n-1+i] = signal[reflectIndex(n-1-i, n)]
	}

	return out
}

// reflectIndex folds an out-of-range index back into [0, n) by
// repeated reflection around the edges
func reflectIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * (n - 1)
	i = ((i % period) + period) % period
	if i >= n {
		i = period - i
	}
	return i
}

// PadWindow centers winLength coefficients inside an nFFT-sample
// buffer, zero-filling both sides. Coefficients beyond nFFT are
// truncated.
func PadWindow(coefficients []float64, nFFT int) []float64 {
	if len(coefficients) >= nFFT {
		out := make([]float64, nFFT)
		copy(out, coefficients[:nFFT])
		return out
	}

	out := make([]float64, nFFT)
	offset := (nFFT - len(coefficients)) / 2
	copy(out[offset:], coefficients)
	return out
}

// getOptimalWorkerCount determines the optimal number of workers based on workload
func (s *STFT) getOptimalWorkerCount(numFrames int) int {
	numCPU := runtime.NumCPU()

	// For small workloads, don't over-parallelize
	if numFrames < 100 {
		return max(1, min(numCPU/2, numFrames))
	}

	// For medium workloads, use most CPUs
	if numFrames < 1000 {
		return min(numCPU, 8)
	}

	return numCPU
}
