package deck

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/nfnt/resize"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Teal, matching the control button background of the physical unit's
// original faceplate design.
var (
	controlBackground = color.RGBA{R: 0, G: 128, B: 128, A: 255}
	emptyBackground   = color.RGBA{R: 96, G: 96, B: 96, A: 255}
	labelColor        = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// composeOpts controls key bitmap composition.
type composeOpts struct {
	margin     int
	background color.Color
	icon       image.Image // overlaid bottom-right at a third of the key size
	label      string      // short text drawn top-left, e.g. a track number
}

// composeKey builds a square key bitmap: the artwork scaled into the margin
// box over a solid background, with an optional icon overlay and label.
// A nil artwork yields just background, icon and label.
func composeKey(size int, art image.Image, opts composeOpts) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, size, size))
	bg := opts.background
	if bg == nil {
		bg = color.Black
	}
	draw.Draw(out, out.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	if art != nil {
		box := size - 2*opts.margin
		if box < 1 {
			box = size
		}
		scaled := resize.Thumbnail(uint(box), uint(box), art, resize.Bilinear)
		// Center inside the margin box
		offset := image.Pt(
			opts.margin+(box-scaled.Bounds().Dx())/2,
			opts.margin+(box-scaled.Bounds().Dy())/2,
		)
		draw.Draw(out, scaled.Bounds().Add(offset), scaled, scaled.Bounds().Min, draw.Over)
	}

	if opts.icon != nil {
		third := size / 3
		icon := resize.Thumbnail(uint(third), uint(third), opts.icon, resize.Bilinear)
		offset := image.Pt(
			size-opts.margin-icon.Bounds().Dx()-2,
			size-opts.margin-icon.Bounds().Dy()-2,
		)
		draw.Draw(out, icon.Bounds().Add(offset), icon, icon.Bounds().Min, draw.Over)
	}

	if opts.label != "" {
		drawLabel(out, opts.label, opts.margin+2, opts.margin+2)
	}

	return out
}

// drawLabel draws small text at the given top-left position.
func drawLabel(dst *image.RGBA, text string, x, y int) {
	face := basicfont.Face7x13
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(labelColor),
		Face: face,
		Dot:  fixed.P(x, y+face.Ascent),
	}
	d.DrawString(text)
}
