package deck

import (
	"image"
	"image/color"
	"image/draw"
)

// Icon identifies one of the drawn control glyphs.
type Icon int

const (
	IconNone Icon = iota
	IconPlay
	IconPause
	IconStop
	IconNext      // carousel right
	IconPrevious  // carousel left
	IconNextTrack // skip forward
	IconPrevTrack // skip backward
	IconNote      // empty now-playing placeholder
)

var iconColor = color.RGBA{R: 240, G: 240, B: 240, A: 255}

// drawIcon renders a glyph into a transparent square of the given size.
// The glyphs are deliberately plain filled shapes; the deck keys are small
// enough that anything finer would not read.
func drawIcon(icon Icon, size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	u := size / 8 // grid unit

	switch icon {
	case IconPlay:
		fillTriangleRight(img, 2*u, u, size-2*u)
	case IconPause:
		fillRect(img, 2*u, u, 3*u, size-u)
		fillRect(img, 5*u, u, 6*u, size-u)
	case IconStop:
		fillRect(img, 2*u, 2*u, size-2*u, size-2*u)
	case IconNext:
		fillTriangleRight(img, 2*u, 2*u, size-2*u)
		fillRect(img, size-2*u, 2*u, size-u, size-2*u)
	case IconPrevious:
		fillTriangleLeft(img, size-2*u, 2*u, size-2*u)
		fillRect(img, u, 2*u, 2*u, size-2*u)
	case IconNextTrack:
		fillTriangleRight(img, u, 2*u, size-2*u)
		fillTriangleRight(img, 4*u, 2*u, size-2*u)
	case IconPrevTrack:
		fillTriangleLeft(img, size-u, 2*u, size-2*u)
		fillTriangleLeft(img, size-4*u, 2*u, size-2*u)
	case IconNote:
		// Quarter note: stem plus head
		fillRect(img, 5*u, u, 6*u, 6*u)
		fillRect(img, 3*u, 5*u, 6*u, 7*u)
	case IconNone:
		// Blank
	}
	return img
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int) {
	draw.Draw(img, image.Rect(x0, y0, x1, y1), image.NewUniform(iconColor), image.Point{}, draw.Over)
}

// fillTriangleRight draws a right-pointing triangle with its vertical edge
// at x, spanning top to bottom, extending half its height to the right.
func fillTriangleRight(img *image.RGBA, x, top, bottom int) {
	h := bottom - top
	for row := 0; row < h; row++ {
		// Width shrinks linearly towards the middle point
		var w int
		if row < h/2 {
			w = row * h / (h + 1)
		} else {
			w = (h - row) * h / (h + 1)
		}
		fillRect(img, x, top+row, x+w, top+row+1)
	}
}

func fillTriangleLeft(img *image.RGBA, x, top, bottom int) {
	h := bottom - top
	for row := 0; row < h; row++ {
		var w int
		if row < h/2 {
			w = row * h / (h + 1)
		} else {
			w = (h - row) * h / (h + 1)
		}
		fillRect(img, x-w, top+row, x, top+row+1)
	}
}
