package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMelScale_Invertible(t *testing.T) {
	for _, freq := range []float64{0, 1, 50, 100, 300, 1000, 4000, 8000} {
		mel := HzToMel(freq)
		back := MelToHz(mel)
		assert.InDelta(t, freq, back, 1e-9*math.Max(1, freq))
	}

	// the HTK mel definition puts 1 kHz near 1000 mel
	assert.InDelta(t, 1000.0, HzToMel(1000.0), 1.0)
}

func TestNewMelBank_Validation(t *testing.T) {
	_, err := NewMelBank(0, 512, 16000, 0, 0)
	assert.Error(t, err)

	_, err = NewMelBank(26, 0, 16000, 0, 0)
	assert.Error(t, err)

	_, err = NewMelBank(26, 512, 16000, 8000, 4000)
	assert.Error(t, err, "lowfreq above highfreq")
}

func TestMelBank_Shape(t *testing.T) {
	mb, err := NewMelBank(26, 512, 16000, 0, 0)
	require.NoError(t, err)

	filters := mb.Filters()
	require.Len(t, filters, 26)
	for _, filter := range filters {
		assert.Len(t, filter, 257)
	}
}

func TestMelBank_TriangularFilters(t *testing.T) {
	mb, err := NewMelBank(26, 512, 16000, 0, 0)
	require.NoError(t, err)

	for i, filter := range mb.Filters() {
		sum := 0.0
		for _, w := range filter {
			assert.GreaterOrEqual(t, w, 0.0)
			assert.LessOrEqual(t, w, 1.0)
			sum += w
		}
		require.Greater(t, sum, 0.0, "filter %d is empty", i)
	}
}

func TestMelBank_HighFreqDefaultsToNyquist(t *testing.T) {
	explicit, err := NewMelBank(26, 512, 16000, 0, 8000)
	require.NoError(t, err)
	defaulted, err := NewMelBank(26, 512, 16000, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, explicit.Filters(), defaulted.Filters())
}

func TestMelBank_Apply(t *testing.T) {
	mb, err := NewMelBank(8, 64, 16000, 0, 0)
	require.NoError(t, err)

	// flat spectrum: each band's energy equals its filter weight sum
	spectrum := make([]float64, 33)
	for i := range spectrum {
		spectrum[i] = 1.0
	}

	mel := mb.Apply(spectrum)
	require.Len(t, mel, 8)

	for i, filter := range mb.Filters() {
		sum := 0.0
		for _, w := range filter {
			sum += w
		}
		assert.InDelta(t, sum, mel[i], 1e-12)
	}
}

func TestMelBank_ProjectShape(t *testing.T) {
	mb, err := NewMelBank(12, 128, 8000, 0, 0)
	require.NoError(t, err)

	spectrogram := make([][]float64, 5)
	for i := range spectrogram {
		spectrogram[i] = make([]float64, 65)
	}

	mel := mb.Project(spectrogram)
	require.Len(t, mel, 5)
	for _, frame := range mel {
		assert.Len(t, frame, 12)
	}
}

func TestMelBank_MatrixIsStable(t *testing.T) {
	mb, err := NewMelBank(26, 512, 16000, 0, 0)
	require.NoError(t, err)

	first := make([][]float64, len(mb.Filters()))
	for i, filter := range mb.Filters() {
		first[i] = append([]float64(nil), filter...)
	}

	spectrum := make([]float64, 257)
	for i := range spectrum {
		spectrum[i] = float64(i)
	}
	mb.Apply(spectrum)

	assert.Equal(t, first, mb.Filters(), "Apply must not mutate the matrix")
}
