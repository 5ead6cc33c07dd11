package vision

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Overlay colors. Green marks accepted detections and the active banner,
// red marks rejections and inactive states, white carries status text.
var (
	Green = color.NRGBA{R: 0, G: 200, B: 0, A: 255}
	Red   = color.NRGBA{R: 220, G: 30, B: 30, A: 255}
	White = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// Canvas clones a frame into a drawable NRGBA image.
func Canvas(frame image.Image) *image.NRGBA {
	return imaging.Clone(frame)
}

// Crop extracts a face region from a frame, clipped to the frame bounds.
func Crop(frame image.Image, rect image.Rectangle) *image.NRGBA {
	return imaging.Crop(frame, rect)
}

// DrawRect draws a 2px rectangle outline.
func DrawRect(dst *image.NRGBA, rect image.Rectangle, c color.NRGBA) {
	rect = rect.Intersect(dst.Bounds())
	if rect.Empty() {
		return
	}
	for t := 0; t < 2; t++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			setIfInside(dst, x, rect.Min.Y+t, c)
			setIfInside(dst, x, rect.Max.Y-1-t, c)
		}
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			setIfInside(dst, rect.Min.X+t, y, c)
			setIfInside(dst, rect.Max.X-1-t, y, c)
		}
	}
}

// DrawLabel renders text with its baseline at (x, y) over a dark backing
// strip so it stays readable on busy frames.
func DrawLabel(dst *image.NRGBA, x, y int, text string, c color.NRGBA) {
	if text == "" {
		return
	}
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()

	backing := image.Rect(x-2, y-face.Ascent-2, x+width+2, y+face.Descent+2).Intersect(dst.Bounds())
	draw.Draw(dst, backing, &image.Uniform{color.NRGBA{A: 160}}, image.Point{}, draw.Over)

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func setIfInside(dst *image.NRGBA, x, y int, c color.NRGBA) {
	if image.Pt(x, y).In(dst.Bounds()) {
		dst.SetNRGBA(x, y, c)
	}
}
