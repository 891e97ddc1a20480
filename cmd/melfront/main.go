// Command melfront decodes an audio file, extracts log-mel features
// and writes them as a grayscale spectrogram PNG.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"strings"

	"github.com/faiface/beep/wav"
	"github.com/mewkiz/flac"

	"github.com/kenjewu/melfront/augment"
	"github.com/kenjewu/melfront/featurize"
	"github.com/kenjewu/melfront/logging"
)

func main() {
	var (
		output     = flag.String("o", "", "output PNG path (default: input + .png)")
		features   = flag.Int("features", 64, "number of mel bins")
		windowSize = flag.Float64("window-size", 0.02, "analysis window in seconds")
		windowHop  = flag.Float64("window-stride", 0.01, "hop between windows in seconds")
		windowName = flag.String("window", "hann", "window function (hann, hamming, blackman, bartlett, none)")
		normalize  = flag.String("normalize", featurize.NormalizePerFeature, "normalization mode")
		freqMasks  = flag.Int("freq-masks", 0, "SpecAugment frequency masks to apply")
		timeMasks  = flag.Int("time-masks", 0, "SpecAugment time masks to apply")
		seed       = flag.Int64("seed", 0, "RNG seed for dither and masking (0 = clock)")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <audio.wav|audio.flac>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	if *verbose {
		logging.SetLevel(logging.DebugLevel)
	}
	logger := logging.WithFields(logging.Fields{"component": "melfront"})

	input := flag.Arg(0)
	samples, sampleRate, err := loadAudio(input)
	if err != nil {
		logger.Fatal(err, "failed to decode audio", logging.Fields{"file": input})
	}

	cfg := featurize.DefaultConfig()
	cfg.SampleRate = sampleRate
	cfg.WindowSize = *windowSize
	cfg.WindowStride = *windowHop
	cfg.Window = *windowName
	cfg.Normalize = *normalize
	cfg.Features = *features
	cfg.Seed = *seed

	featurizer, err := featurize.NewFeaturizer(cfg)
	if err != nil {
		logger.Fatal(err, "invalid configuration")
	}

	feats, outLengths, err := featurizer.Extract([][]float64{samples}, []int{len(samples)})
	if err != nil {
		logger.Fatal(err, "feature extraction failed")
	}

	if *freqMasks+*timeMasks > 0 {
		augCfg := augment.DefaultConfig()
		augCfg.FreqMasks = *freqMasks
		augCfg.TimeMasks = *timeMasks
		augCfg.Seed = *seed

		augmenter, err := augment.NewAugmenter(augCfg)
		if err != nil {
			logger.Fatal(err, "invalid augmentation configuration")
		}
		feats = augmenter.Apply(feats)
	}

	outPath := *output
	if outPath == "" {
		outPath = input + ".png"
	}

	if err := writePNG(outPath, feats[0]); err != nil {
		logger.Fatal(err, "failed to write spectrogram image", logging.Fields{"file": outPath})
	}

	logger.Info("wrote features", logging.Fields{
		"file":       outPath,
		"channels":   len(feats[0]),
		"frames":     len(feats[0][0]),
		"out_length": outLengths[0],
	})
}

// loadAudio decodes a wav or flac file into mono float64 samples
func loadAudio(path string) ([]float64, int, error) {
	switch {
	case strings.HasSuffix(path, ".flac"):
		return loadFlac(path)
	case strings.HasSuffix(path, ".wav"):
		return loadWav(path)
	default:
		return nil, 0, fmt.Errorf("unsupported audio format: %s", path)
	}
}

func loadWav(path string) ([]float64, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()

	stream, format, err := wav.Decode(file)
	if err != nil {
		return nil, 0, err
	}
	defer stream.Close()

	var out []float64
	buf := make([][2]float64, 512)
	for {
		n, ok := stream.Stream(buf)
		for i := 0; i < n; i++ {
			out = append(out, 0.5*(buf[i][0]+buf[i][1]))
		}
		if !ok {
			break
		}
	}

	return out, int(format.SampleRate), nil
}

func loadFlac(path string) ([]float64, int, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return nil, 0, err
	}
	defer stream.Close()

	scale := float64(int64(1) << (stream.Info.BitsPerSample - 1))

	var out []float64
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}

		channels := len(frame.Subframes)
		for i := range frame.Subframes[0].Samples {
			sum := 0.0
			for _, subframe := range frame.Subframes {
				sum += float64(subframe.Samples[i])
			}
			out = append(out, sum/float64(channels)/scale)
		}
	}

	return out, int(stream.Info.SampleRate), nil
}

// writePNG dumps one item's channels x frames features as a min-max
// scaled grayscale image, low channels at the bottom
func writePNG(path string, feat [][]float64) error {
	channels := len(feat)
	if channels == 0 {
		return fmt.Errorf("no feature channels")
	}
	frames := len(feat[0])

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, channel := range feat {
		for _, v := range channel {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	img := image.NewGray(image.Rect(0, 0, frames, channels))
	for c, channel := range feat {
		for t, v := range channel {
			img.SetGray(t, channels-c-1, color.Gray{Y: uint8(255 * (v - lo) / span)})
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := png.Encode(file, img); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}
