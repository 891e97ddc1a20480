package filters

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPreEmphasis_Validation(t *testing.T) {
	_, err := NewPreEmphasis(0)
	assert.Error(t, err)
	_, err = NewPreEmphasis(1)
	assert.Error(t, err)
	_, err = NewPreEmphasis(-0.5)
	assert.Error(t, err)

	pe, err := NewPreEmphasis(0.97)
	require.NoError(t, err)
	assert.Equal(t, 0.97, pe.Coefficient())
}

func TestPreEmphasis_ProcessBuffer(t *testing.T) {
	pe, err := NewPreEmphasis(0.5)
	require.NoError(t, err)

	out := pe.ProcessBuffer([]float64{2, 4, 8, 16})

	// first sample passes through, then y[n] = x[n] - 0.5*x[n-1]
	assert.InDelta(t, 2.0, out[0], 1e-12)
	assert.InDelta(t, 3.0, out[1], 1e-12)
	assert.InDelta(t, 6.0, out[2], 1e-12)
	assert.InDelta(t, 12.0, out[3], 1e-12)
}

func TestPreEmphasis_EmptyBuffer(t *testing.T) {
	pe, err := NewPreEmphasis(0.97)
	require.NoError(t, err)

	assert.Empty(t, pe.ProcessBuffer(nil))
}

func TestDither_ZeroScaleCopies(t *testing.T) {
	d := NewDither(0, rand.New(rand.NewSource(1)))

	in := []float64{1, 2, 3}
	out := d.ProcessBuffer(in)

	assert.Equal(t, in, out)
	out[0] = 99
	assert.Equal(t, 1.0, in[0], "must not alias the input")
}

func TestDither_AddsBoundedNoise(t *testing.T) {
	const scale = 1e-5
	d := NewDither(scale, rand.New(rand.NewSource(42)))

	in := make([]float64, 10000)
	out := d.ProcessBuffer(in)

	changed := 0
	for i := range out {
		if out[i] != in[i] {
			changed++
		}
		assert.InDelta(t, in[i], out[i], 10*scale)
	}
	assert.Greater(t, changed, 9000)
}

func TestDither_Deterministic(t *testing.T) {
	in := []float64{0.1, -0.2, 0.3, 0}

	a := NewDither(1e-3, rand.New(rand.NewSource(7))).ProcessBuffer(in)
	b := NewDither(1e-3, rand.New(rand.NewSource(7))).ProcessBuffer(in)

	assert.Equal(t, a, b)
}
