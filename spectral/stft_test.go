package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenjewu/melfront/windowing"
)

func TestNextPowerOfTwo(t *testing.T) {
	assert.Equal(t, 1, NextPowerOfTwo(1))
	assert.Equal(t, 2, NextPowerOfTwo(2))
	assert.Equal(t, 4, NextPowerOfTwo(3))
	assert.Equal(t, 512, NextPowerOfTwo(320))
	assert.Equal(t, 512, NextPowerOfTwo(512))
	assert.Equal(t, 1024, NextPowerOfTwo(513))
}

func TestReflectPad(t *testing.T) {
	padded := reflectPad([]float64{1, 2, 3, 4}, 2)
	assert.Equal(t, []float64{3, 2, 1, 2, 3, 4, 3, 2}, padded)
}

func TestReflectPad_ShortSignal(t *testing.T) {
	// pad wider than the signal must still stay in range
	padded := reflectPad([]float64{1, 2}, 3)
	assert.Len(t, padded, 8)
	for _, v := range padded {
		assert.Contains(t, []float64{1, 2}, v)
	}
}

func TestPadWindow_Centered(t *testing.T) {
	padded := PadWindow([]float64{1, 1}, 6)
	assert.Equal(t, []float64{0, 0, 1, 1, 0, 0}, padded)
}

func TestPadWindow_Truncates(t *testing.T) {
	padded := PadWindow([]float64{1, 2, 3, 4}, 2)
	assert.Equal(t, []float64{1, 2}, padded)
}

func TestSpectrogram_Shape(t *testing.T) {
	const (
		signalLen = 1600
		hop       = 160
		nFFT      = 512
	)

	win, err := windowing.New("hann", 320, true)
	require.NoError(t, err)

	signal := make([]float64, signalLen)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * float64(i) / 32.0)
	}

	spec, err := NewSTFT().Spectrogram(signal, hop, nFFT, PadWindow(win.Coefficients(), nFFT), 2.0)
	require.NoError(t, err)

	assert.Len(t, spec, signalLen/hop+1)
	for _, frame := range spec {
		assert.Len(t, frame, nFFT/2+1)
	}
}

func TestSpectrogram_PowerNonNegative(t *testing.T) {
	win, err := windowing.New("hamming", 256, true)
	require.NoError(t, err)

	signal := make([]float64, 2048)
	for i := range signal {
		signal[i] = math.Sin(0.7*float64(i)) - 0.3*math.Cos(0.11*float64(i))
	}

	spec, err := NewSTFT().Spectrogram(signal, 128, 256, PadWindow(win.Coefficients(), 256), 2.0)
	require.NoError(t, err)

	for _, frame := range spec {
		for _, v := range frame {
			assert.GreaterOrEqual(t, v, 0.0)
		}
	}
}

func TestSpectrogram_SinePeakBin(t *testing.T) {
	const (
		sampleRate = 16000
		freq       = 1000.0
		nFFT       = 512
	)

	win, err := windowing.New("hann", nFFT, true)
	require.NoError(t, err)

	signal := make([]float64, 4*nFFT)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}

	spec, err := NewSTFT().Spectrogram(signal, nFFT, nFFT, win.Coefficients(), 2.0)
	require.NoError(t, err)

	// an interior frame sees a full sine period; its energy peaks at
	// the bin closest to 1 kHz
	frame := spec[len(spec)/2]
	peak := 0
	for i, v := range frame {
		if v > frame[peak] {
			peak = i
		}
	}

	expected := int(math.Round(freq * nFFT / sampleRate))
	assert.InDelta(t, expected, peak, 1)
}

func TestSpectrogram_InputValidation(t *testing.T) {
	stft := NewSTFT()
	window := make([]float64, 64)

	_, err := stft.Spectrogram(nil, 16, 64, window, 2.0)
	assert.Error(t, err)

	_, err = stft.Spectrogram(make([]float64, 128), 0, 64, window, 2.0)
	assert.Error(t, err)

	_, err = stft.Spectrogram(make([]float64, 128), 16, 128, window, 2.0)
	assert.Error(t, err, "window length must match nFFT")
}

func TestSpectrogram_MagPowerOne(t *testing.T) {
	win, err := windowing.New("hann", 64, true)
	require.NoError(t, err)
	window := win.Coefficients()

	signal := make([]float64, 256)
	for i := range signal {
		signal[i] = math.Sin(0.3 * float64(i))
	}

	power, err := NewSTFT().Spectrogram(signal, 32, 64, window, 2.0)
	require.NoError(t, err)
	magnitude, err := NewSTFT().Spectrogram(signal, 32, 64, window, 1.0)
	require.NoError(t, err)

	for ti := range power {
		for fi := range power[ti] {
			assert.InDelta(t, power[ti][fi], magnitude[ti][fi]*magnitude[ti][fi], 1e-9)
		}
	}
}
