package featurize

import (
	"fmt"
	"math"
)

// Normalization modes. Any other value disables normalization; that is
// a deliberate fallback, not an error.
const (
	NormalizePerFeature  = "per_feature"
	NormalizeAllFeatures = "all_features"
)

// Log zero guard modes
const (
	LogGuardAdd   = "add"
	LogGuardClamp = "clamp"
)

// Symbolic log guard values. "tiny" is the smallest positive normal
// float64, "eps" the machine epsilon.
const (
	LogGuardValueTiny = "tiny"
	LogGuardValueEps  = "eps"
)

// Config holds the featurizer configuration. Window size and stride
// can each be given either in seconds (WindowSize / WindowStride) or
// in samples (NWindowSize / NWindowStride); giving both forms for the
// same quantity is a configuration error.
type Config struct {
	SampleRate    int     `json:"sample_rate"`
	WindowSize    float64 `json:"window_size"`     // seconds
	WindowStride  float64 `json:"window_stride"`   // seconds
	NWindowSize   int     `json:"n_window_size"`   // samples
	NWindowStride int     `json:"n_window_stride"` // samples

	// Window is one of hann, hamming, blackman, bartlett, none
	Window string `json:"window"`

	// Normalize is per_feature, all_features, or anything else to skip
	Normalize string `json:"normalize"`

	// NFFT defaults to the smallest power of two >= the window size
	NFFT int `json:"n_fft"`

	// Preemph is the pre-emphasis coefficient; 0 disables the stage
	Preemph float64 `json:"preemph"`

	// Features is the number of mel bins
	Features int     `json:"features"`
	LowFreq  float64 `json:"lowfreq"`
	HighFreq float64 `json:"highfreq"` // <= 0 means Nyquist

	Log              bool    `json:"log"`
	LogZeroGuardType string  `json:"log_zero_guard_type"` // add or clamp
	LogZeroGuardVal  float64 `json:"log_zero_guard_value"`
	// LogZeroGuardToken, when set, overrides LogZeroGuardVal with a
	// symbolic constant ("tiny" or "eps")
	LogZeroGuardToken string `json:"log_zero_guard_token"`

	// Dither is the Gaussian noise scale; 0 disables the stage
	Dither float64 `json:"dither"`

	// PadTo rounds the padded frame count up to a multiple; 0 keeps
	// the natural batch maximum
	PadTo         int     `json:"pad_to"`
	FrameSplicing int     `json:"frame_splicing"`
	PadValue      float64 `json:"pad_value"`

	// MagPower is the exponent applied to spectral magnitudes; 2
	// yields a power spectrum
	MagPower float64 `json:"mag_power"`

	// Seed makes the dither noise stream reproducible; 0 seeds from
	// the clock
	Seed int64 `json:"seed"`
}

// DefaultConfig returns the standard 16 kHz speech configuration:
// 20 ms hann windows with a 10 ms hop, 64 log-mel bins normalized per
// feature.
func DefaultConfig() Config {
	return Config{
		SampleRate:       16000,
		WindowSize:       0.02,
		WindowStride:     0.01,
		Window:           "hann",
		Normalize:        NormalizePerFeature,
		Preemph:          0.97,
		Features:         64,
		Log:              true,
		LogZeroGuardType: LogGuardAdd,
		LogZeroGuardVal:  math.Exp2(-24),
		Dither:           1e-5,
		PadTo:            16,
		FrameSplicing:    1,
		MagPower:         2.0,
	}
}

// winParams resolves the seconds/samples forms into sample counts
func (c *Config) winParams() (winLength, hopLength int, err error) {
	if c.WindowSize > 0 && c.NWindowSize > 0 {
		return 0, 0, fmt.Errorf("both window_size and n_window_size given; only one may be set")
	}
	if c.WindowStride > 0 && c.NWindowStride > 0 {
		return 0, 0, fmt.Errorf("both window_stride and n_window_stride given; only one may be set")
	}

	winLength = c.NWindowSize
	if c.WindowSize > 0 {
		winLength = int(c.WindowSize * float64(c.SampleRate))
	}
	hopLength = c.NWindowStride
	if c.WindowStride > 0 {
		hopLength = int(c.WindowStride * float64(c.SampleRate))
	}

	if winLength <= 0 {
		return 0, 0, fmt.Errorf("window size not set")
	}
	if hopLength <= 0 {
		return 0, 0, fmt.Errorf("window stride not set")
	}

	return winLength, hopLength, nil
}

// logGuard resolves the configured guard into a concrete value
func (c *Config) logGuard() (float64, error) {
	switch c.LogZeroGuardType {
	case "", LogGuardAdd, LogGuardClamp:
	default:
		return 0, fmt.Errorf("log_zero_guard_type must be %q or %q, got %q", LogGuardAdd, LogGuardClamp, c.LogZeroGuardType)
	}

	switch c.LogZeroGuardToken {
	case "":
		return c.LogZeroGuardVal, nil
	case LogGuardValueTiny:
		// Smallest positive normal float64
		return math.Float64frombits(0x0010000000000000), nil
	case LogGuardValueEps:
		// Machine epsilon, 2^-52
		return math.Exp2(-52), nil
	default:
		return 0, fmt.Errorf("log_zero_guard_token must be %q or %q, got %q", LogGuardValueTiny, LogGuardValueEps, c.LogZeroGuardToken)
	}
}
