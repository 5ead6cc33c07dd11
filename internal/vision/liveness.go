// Package vision holds the image-level pieces of the attendance pipeline:
// the sharpness-based liveness check and frame overlay drawing.
package vision

import "image"

// DefaultLivenessThreshold is the reference minimum Laplacian variance for a
// live face. Empirical, not principled; override via configuration.
const DefaultLivenessThreshold = 25.0

// AssessLiveness scores a face crop for liveness and applies the threshold.
// A printed photo or a screen replay is optically flat, so its second
// derivative (Laplacian) response has much lower variance than a live,
// textured face under normal lighting.
//
// A nil or degenerate region fails closed with a zero score.
func AssessLiveness(region image.Image, threshold float64) (score float64, isLive bool) {
	score = LaplacianVariance(region)
	return score, score >= threshold
}

// LaplacianVariance computes the variance of the 4-neighbor discrete
// Laplacian over the grayscale rendition of img. Regions smaller than the
// 3x3 operator support score zero.
func LaplacianVariance(img image.Image) float64 {
	if img == nil {
		return 0
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w < 3 || h < 3 {
		return 0
	}

	gray := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			gray[y*w+x] = (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 257.0
		}
	}

	n := (w - 2) * (h - 2)
	var sum, sumSq float64
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			lap := gray[(y-1)*w+x] + gray[(y+1)*w+x] + gray[y*w+x-1] + gray[y*w+x+1] - 4*gray[y*w+x]
			sum += lap
			sumSq += lap * lap
		}
	}

	mean := sum / float64(n)
	return sumSq/float64(n) - mean*mean
}
