package imaging

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"
)

const (
	// maxAttempts bounds the encode loop; the final attempt is returned
	// even if it is still over the target size.
	maxAttempts = 5
	// qualityStep is subtracted from the encode quality after every
	// attempt that misses the target size.
	qualityStep = 0.15
	// minQuality is the floor below which quality is never reduced.
	minQuality = 0.3

	DefaultMaxWidth     = 1200
	DefaultMaxHeight    = 1600
	DefaultQuality      = 0.8
	DefaultTargetSizeKB = 500
)

// Options constrain a single optimization request. Zero values fall back to
// the package defaults.
type Options struct {
	MaxWidth     int
	MaxHeight    int
	Quality      float64
	TargetSizeKB int
	Format       string // "jpeg" (default) or "png"
}

func (o Options) withDefaults() Options {
	if o.MaxWidth <= 0 {
		o.MaxWidth = DefaultMaxWidth
	}
	if o.MaxHeight <= 0 {
		o.MaxHeight = DefaultMaxHeight
	}
	if o.Quality <= 0 || o.Quality > 1 {
		o.Quality = DefaultQuality
	}
	if o.TargetSizeKB <= 0 {
		o.TargetSizeKB = DefaultTargetSizeKB
	}
	if o.Format == "" {
		o.Format = "jpeg"
	}
	return o
}

// Result describes the outcome of an optimization. When FellBack is set the
// input could not be processed and Data holds the original bytes unchanged.
type Result struct {
	Data             []byte
	Width            int
	Height           int
	OriginalSize     int
	OptimizedSize    int
	CompressionRatio float64
	Attempts         int
	FellBack         bool
}

// Optimize resizes an image to fit the configured bounds and re-encodes it,
// lowering quality stepwise until the result fits the target size or the
// attempt budget is spent. It never fails: any decode or encode problem
// degrades to returning the original bytes with a compression ratio of 1.
func Optimize(data []byte, opts Options) *Result {
	opts = opts.withDefaults()

	result, err := optimize(data, opts)
	if err != nil {
		slog.Warn("image optimization failed; returning original image", "error", err,
			"size_bytes", len(data))
		return &Result{
			Data:             data,
			OriginalSize:     len(data),
			OptimizedSize:    len(data),
			CompressionRatio: 1,
			FellBack:         true,
		}
	}
	return result
}

func optimize(data []byte, opts Options) (*Result, error) {
	img, format, err := decode(data, opts.MaxWidth, opts.MaxHeight)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := targetDimensions(bounds.Dx(), bounds.Dy(), opts.MaxWidth, opts.MaxHeight)
	slog.Debug("optimizing image",
		"format", format,
		"original_width", bounds.Dx(),
		"original_height", bounds.Dy(),
		"target_width", width,
		"target_height", height)

	scaled := img
	if width != bounds.Dx() || height != bounds.Dy() {
		scaled = resizeNearest(img, width, height)
	}

	targetBytes := opts.TargetSizeKB * 1024
	quality := opts.Quality
	attempts := 0
	var encoded []byte

	for attempts < maxAttempts {
		attempts++
		encoded, err = encodeImage(scaled, opts.Format, quality)
		if err != nil {
			return nil, err
		}

		slog.Debug("encode attempt",
			"attempt", attempts,
			"quality", quality,
			"size_bytes", len(encoded),
			"target_bytes", targetBytes)

		if len(encoded) <= targetBytes {
			break
		}
		// PNG encoding ignores quality, so further attempts cannot shrink
		// the output.
		if opts.Format == "png" {
			break
		}
		if quality <= minQuality {
			break
		}
		quality -= qualityStep
		if quality < minQuality {
			quality = minQuality
		}
	}

	ratio := 1.0
	if len(data) > 0 {
		ratio = float64(len(encoded)) / float64(len(data))
	}

	return &Result{
		Data:             encoded,
		Width:            width,
		Height:           height,
		OriginalSize:     len(data),
		OptimizedSize:    len(encoded),
		CompressionRatio: ratio,
		Attempts:         attempts,
	}, nil
}

func encodeImage(img image.Image, format string, quality float64) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: int(quality * 100)}); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
