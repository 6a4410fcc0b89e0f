package envmap

import (
	"image"

	"golang.org/x/image/draw"
)

// resizeImage scales img down to maxWidth keeping the aspect ratio.
// Images already narrow enough, or maxWidth <= 0, are returned unchanged.
func resizeImage(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}
	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
