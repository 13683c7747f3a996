package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// decode turns raw upload bytes into a raster image. Raster formats are
// handled by the registered stdlib and x/image decoders; SVG documents are
// rasterized. fallbackW/fallbackH bound the render size for SVGs that carry
// no usable intrinsic size.
func decode(data []byte, fallbackW, fallbackH int) (image.Image, string, error) {
	if isSVG(data) {
		img, err := rasterizeSVG(data, fallbackW, fallbackH)
		if err != nil {
			return nil, "", err
		}
		return img, "svg", nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// isSVG detects SVG content by looking for the opening tag in the initial
// portion of the data. Raster formats never start with XML text.
func isSVG(data []byte) bool {
	n := len(data)
	if n > 4096 {
		n = 4096
	}
	header := bytes.ToLower(bytes.TrimSpace(data[:n]))
	return bytes.HasPrefix(header, []byte("<?xml")) && bytes.Contains(header, []byte("<svg")) ||
		bytes.HasPrefix(header, []byte("<svg"))
}

// rasterizeSVG renders SVG markup onto a white canvas. The intrinsic
// viewBox size is used when present, the fallback dimensions otherwise.
func rasterizeSVG(data []byte, fallbackW, fallbackH int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}

	width := int(icon.ViewBox.W)
	height := int(icon.ViewBox.H)
	if width <= 0 || height <= 0 {
		width = fallbackW
		height = fallbackH
		slog.Debug("SVG has no intrinsic size; rendering at fallback size",
			"width", width, "height", height)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("cannot determine SVG render size")
	}

	icon.SetTarget(0, 0, float64(width), float64(height))

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(width, height, dst, dst.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1.0)

	return dst, nil
}
