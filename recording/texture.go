package recording

import "image"

// WhiteTexture returns a small opaque alpha texture. Backends draw it when
// no texture is bound; stretched over a quad it stamps a solid square.
func WhiteTexture() *image.Alpha {
	img := image.NewAlpha(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}
