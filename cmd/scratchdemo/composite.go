package main

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/scratch"
)

// scratchColor is the opaque layer covering unrevealed texels.
var scratchColor = color.RGBA{R: 0xb0, G: 0xb0, B: 0xb8, A: 0xff}

// composite draws the scratch layer and reveals cover through mask.
// The cover is scaled to the mask size.
func composite(cover image.Image, mask *image.Alpha) *image.RGBA {
	r := mask.Bounds()
	dst := image.NewRGBA(r)
	draw.Draw(dst, r, image.NewUniform(scratchColor), image.Point{}, draw.Src)

	src, sp := cover, cover.Bounds().Min
	if cover.Bounds().Size() != r.Size() {
		scaled := image.NewRGBA(r)
		draw.CatmullRom.Scale(scaled, r, cover, cover.Bounds(), draw.Src, nil)
		src, sp = scaled, r.Min
	}
	draw.DrawMask(dst, r, src, sp, mask, r.Min, draw.Over)
	return dst
}

// checkerboard returns a two-tone pattern with cell-sized squares.
func checkerboard(w, h, cell int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	light := color.RGBA{R: 0xf4, G: 0xc2, B: 0x4c, A: 0xff}
	dark := color.RGBA{R: 0xd0, G: 0x4f, B: 0x3a, A: 0xff}
	for y := range h {
		for x := range w {
			c := light
			if (x/cell+y/cell)%2 == 1 {
				c = dark
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// statsLabel formats the statistics for the language tag.
func statsLabel(tag language.Tag, d scratch.StatData, frames int) string {
	p := message.NewPrinter(tag)
	return p.Sprintf("revealed %.1f%%  avg %.1f  frames %d", d.FillPercent*100, d.AvgVal, frames)
}

// drawLabel writes text on a dark band along the top edge of dst.
func drawLabel(dst *image.RGBA, text string) {
	face := basicfont.Face7x13
	band := image.Rect(0, 0, dst.Bounds().Dx(), face.Height+6)
	draw.Draw(dst, band, image.NewUniform(color.RGBA{A: 0xc0}), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(4, 3+face.Ascent),
	}
	d.DrawString(text)
}
