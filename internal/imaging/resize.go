package imaging

import (
	"image"
	"runtime"
	"sync"
)

// targetDimensions computes the output size for an image, preserving the
// aspect ratio. Landscape images are constrained by maxWidth, portrait and
// square images by maxHeight. Images already within bounds keep their size.
func targetDimensions(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= 0 || height <= 0 {
		return width, height
	}

	aspect := float64(width) / float64(height)
	if width > height {
		if width <= maxWidth {
			return width, height
		}
		return maxWidth, roundPositive(float64(maxWidth) / aspect)
	}

	if height <= maxHeight {
		return width, height
	}
	return roundPositive(float64(maxHeight) * aspect), maxHeight
}

func roundPositive(v float64) int {
	n := int(v + 0.5)
	if n < 1 {
		return 1
	}
	return n
}

// resizeNearest produces a nearest-neighbor scaled copy of src. Source
// coordinates are precomputed per axis so the pixel loop stays cheap, and
// rows are distributed across GOMAXPROCS workers.
func resizeNearest(src image.Image, width, height int) *image.RGBA {
	bounds := src.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy()

	xMap := make([]int, width)
	for x := range xMap {
		sx := x * srcW / width
		if sx >= srcW {
			sx = srcW - 1
		}
		xMap[x] = bounds.Min.X + sx
	}
	yMap := make([]int, height)
	for y := range yMap {
		sy := y * srcH / height
		if sy >= srcH {
			sy = srcH - 1
		}
		yMap[y] = bounds.Min.Y + sy
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	parallelRows(height, func(y int) {
		for x := 0; x < width; x++ {
			dst.Set(x, y, src.At(xMap[x], yMap[y]))
		}
	})
	return dst
}

// parallelRows runs fn(y) over y in [0, n) using up to GOMAXPROCS workers.
// Work is distributed by striding to balance uneven workloads.
func parallelRows(n int, fn func(y int)) {
	if n <= 0 {
		return
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(start int) {
			defer wg.Done()
			for y := start; y < n; y += workers {
				fn(y)
			}
		}(w)
	}
	wg.Wait()
}
