// Package envmap loads equirectangular environment maps into linear float RGB buffers.
//
// Supported formats: Radiance HDR (.hdr, RGBE), PNG, JPEG, TGA, WebP and BMP.
// Low dynamic range images are decoded as sRGB and converted to linear light.
package envmap

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"github.com/go-gl/mathgl/mgl64"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat is returned for file extensions no decoder is registered for.
var ErrUnsupportedFormat = errors.New("unsupported environment map format")

// EnvMap is an equirectangular environment map in linear RGB.
type EnvMap struct {
	Width  int
	Height int
	// Pix holds 3 float32 per pixel, row-major, row 0 at the top (+Y).
	Pix []float32
}

// New allocates a black environment map.
func New(width, height int) *EnvMap {
	return &EnvMap{
		Width:  width,
		Height: height,
		Pix:    make([]float32, width*height*3),
	}
}

// At returns the linear RGB value of pixel (x, y).
// Coordinates are wrapped horizontally and clamped vertically.
func (e *EnvMap) At(x, y int) mgl64.Vec3 {
	x %= e.Width
	if x < 0 {
		x += e.Width
	}
	if y < 0 {
		y = 0
	} else if y >= e.Height {
		y = e.Height - 1
	}
	i := (y*e.Width + x) * 3
	return mgl64.Vec3{float64(e.Pix[i]), float64(e.Pix[i+1]), float64(e.Pix[i+2])}
}

// Set writes the linear RGB value of pixel (x, y).
func (e *EnvMap) Set(x, y int, c mgl64.Vec3) {
	i := (y*e.Width + x) * 3
	e.Pix[i] = float32(c[0])
	e.Pix[i+1] = float32(c[1])
	e.Pix[i+2] = float32(c[2])
}

// DirectionToUV maps a unit direction to equirectangular texture coordinates.
// u wraps around +X → +Z, v runs from 0 at the bottom (-Y) to 1 at the top (+Y).
func DirectionToUV(dir mgl64.Vec3) (u, v float64) {
	u = math.Atan2(dir[2], dir[0])/(2*math.Pi) + 0.5
	v = math.Asin(mgl64.Clamp(dir[1], -1, 1))/math.Pi + 0.5
	return u, v
}

// Sample returns the bilinearly filtered radiance seen along dir.
func (e *EnvMap) Sample(dir mgl64.Vec3) mgl64.Vec3 {
	if e == nil || e.Width == 0 || e.Height == 0 {
		return mgl64.Vec3{}
	}
	u, v := DirectionToUV(dir)

	fx := u*float64(e.Width) - 0.5
	fy := (1-v)*float64(e.Height) - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	c00 := e.At(x0, y0)
	c10 := e.At(x0+1, y0)
	c01 := e.At(x0, y0+1)
	c11 := e.At(x0+1, y0+1)

	top := c00.Mul(1 - tx).Add(c10.Mul(tx))
	bottom := c01.Mul(1 - tx).Add(c11.Mul(tx))
	return top.Mul(1 - ty).Add(bottom.Mul(ty))
}

// Load reads an environment map from disk, picking the decoder from the file extension.
// If maxWidth is positive, larger maps are downsampled to that width.
func Load(path string, maxWidth int) (*EnvMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open environment map %s: %w", path, err)
	}
	defer f.Close()

	env, err := Decode(f, filepath.Ext(path), maxWidth)
	if err != nil {
		return nil, fmt.Errorf("failed to decode environment map %s: %w", path, err)
	}
	return env, nil
}

// Decode decodes an environment map of the given format (file extension, with or without dot).
func Decode(r io.Reader, ext string, maxWidth int) (*EnvMap, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	switch ext {
	case "hdr", "pic", "rgbe":
		env, err := DecodeHDR(r)
		if err != nil {
			return nil, err
		}
		return env.Downsample(maxWidth), nil
	case "png", "jpg", "jpeg", "tga", "webp", "bmp":
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read image: %w", err)
		}
		img, err := decodeImage(data, ext)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s image: %w", ext, err)
		}
		return FromImage(resizeImage(img, maxWidth)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// decodeImage decodes LDR image data. TGA has no magic number, so it is never
// left to image.Decode format sniffing.
func decodeImage(data []byte, ext string) (image.Image, error) {
	if ext == "tga" {
		return tga.Decode(bytes.NewReader(data))
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

// FromImage converts an sRGB image into a linear environment map.
func FromImage(img image.Image) *EnvMap {
	b := img.Bounds()
	env := New(b.Dx(), b.Dy())
	for y := 0; y < env.Height; y++ {
		for x := 0; x < env.Width; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			env.Set(x, y, mgl64.Vec3{
				srgbToLinear(float64(r) / 0xffff),
				srgbToLinear(float64(g) / 0xffff),
				srgbToLinear(float64(bl) / 0xffff),
			})
		}
	}
	return env
}

// Downsample reduces the map to at most maxWidth pixels wide by box filtering
// with an integer factor. Maps already narrow enough are returned unchanged.
func (e *EnvMap) Downsample(maxWidth int) *EnvMap {
	if maxWidth <= 0 || e.Width <= maxWidth {
		return e
	}
	factor := (e.Width + maxWidth - 1) / maxWidth
	w := e.Width / factor
	h := e.Height / factor
	if w == 0 || h == 0 {
		return e
	}

	out := New(w, h)
	inv := 1 / float64(factor*factor)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum mgl64.Vec3
			for dy := 0; dy < factor; dy++ {
				for dx := 0; dx < factor; dx++ {
					sum = sum.Add(e.At(x*factor+dx, y*factor+dy))
				}
			}
			out.Set(x, y, sum.Mul(inv))
		}
	}
	return out
}

// srgbToLinear decodes one sRGB channel value in [0, 1].
func srgbToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}
