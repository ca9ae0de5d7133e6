package scratch

import (
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"math"
	"os"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/gogpu/scratch/internal/cache"
	"github.com/gogpu/scratch/recording"
)

// brushTextures holds decoded brush files keyed by path, size and
// modification time, so a rewritten file is decoded again.
var brushTextures = cache.New[textureKey, image.Image](16)

type textureKey struct {
	path    string
	size    int64
	modTime int64
}

// DefaultBrushTexture returns the solid white texture used when no brush
// texture is configured and the brush shape is square.
func DefaultBrushTexture() *image.Alpha {
	return recording.WhiteTexture()
}

// RoundBrushTexture returns a size x size disc whose alpha falls off
// linearly over the outer (1-hardness) part of its radius. Hardness 1
// gives a hard-edged disc.
func RoundBrushTexture(size int, hardness float64) *image.Alpha {
	img := image.NewAlpha(image.Rect(0, 0, size, size))
	hardness = math.Max(0, math.Min(1, hardness))
	r := float64(size) / 2
	for y := range size {
		for x := range size {
			d := math.Hypot(float64(x)+0.5-r, float64(y)+0.5-r) / r
			var a float64
			switch {
			case d <= hardness:
				a = 1
			case d < 1:
				a = (1 - d) / (1 - hardness)
			}
			img.Pix[y*img.Stride+x] = uint8(math.Round(a * 0xff))
		}
	}
	return img
}

// brushTexture returns the texture selected by the brush settings: the
// configured file, or a generated square or round brush.
func (c Config) brushTexture() (image.Image, error) {
	switch {
	case c.BrushTexture != "":
		return LoadBrushTexture(c.BrushTexture)
	case c.BrushShape == BrushRound:
		return RoundBrushTexture(max(2, int(math.Ceil(c.BrushSize))), c.BrushHardness), nil
	}
	return DefaultBrushTexture(), nil
}

// LoadBrushTexture decodes a brush image from path. PNG, JPEG, GIF, BMP
// and WebP are supported; only the alpha channel is sampled. Decoded
// images are shared between callers and must not be modified.
func LoadBrushTexture(path string) (image.Image, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, &ResourceError{Op: "load brush texture", Err: err}
	}
	key := textureKey{path: path, size: fi.Size(), modTime: fi.ModTime().UnixNano()}
	return brushTextures.GetOrLoad(key, func() (image.Image, error) {
		return decodeBrushTexture(path)
	})
}

func decodeBrushTexture(path string) (image.Image, error) {
	f, err := os.Open(path) //nolint:gosec // path is operator-provided
	if err != nil {
		return nil, &ResourceError{Op: "load brush texture", Err: err}
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, &ResourceError{Op: "decode brush texture", Err: fmt.Errorf("%s: %w", path, err)}
	}
	if img.Bounds().Empty() {
		return nil, &ResourceError{Op: "decode brush texture", Err: fmt.Errorf("%s: empty %s image", path, format)}
	}
	Logger().Debug("scratch: brush texture loaded", "path", path, "format", format, "bounds", img.Bounds())
	return img, nil
}
