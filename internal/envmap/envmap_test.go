package envmap

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/bmp"
)

func TestDirectionToUV(t *testing.T) {
	tests := []struct {
		name  string
		dir   mgl64.Vec3
		wantU float64
		wantV float64
	}{
		{"+X horizon", mgl64.Vec3{1, 0, 0}, 0.5, 0.5},
		{"+Z horizon", mgl64.Vec3{0, 0, 1}, 0.75, 0.5},
		{"-Z horizon", mgl64.Vec3{0, 0, -1}, 0.25, 0.5},
		{"zenith", mgl64.Vec3{0, 1, 0}, 0.5, 1.0},
		{"nadir", mgl64.Vec3{0, -1, 0}, 0.5, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, v := DirectionToUV(tt.dir)
			if math.Abs(u-tt.wantU) > 1e-9 || math.Abs(v-tt.wantV) > 1e-9 {
				t.Errorf("DirectionToUV(%v) = (%v, %v), want (%v, %v)", tt.dir, u, v, tt.wantU, tt.wantV)
			}
		})
	}
}

func TestSample_Uniform(t *testing.T) {
	env := New(8, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			env.Set(x, y, mgl64.Vec3{0.5, 0.25, 1})
		}
	}
	got := env.Sample(mgl64.Vec3{0.3, 0.4, -0.2}.Normalize())
	if !got.ApproxEqualThreshold(mgl64.Vec3{0.5, 0.25, 1}, 1e-6) {
		t.Errorf("Sample() = %v, want uniform color", got)
	}
}

func TestSample_TopIsUp(t *testing.T) {
	env := New(4, 2)
	// 上半行白色，下半行黑色
	for x := 0; x < 4; x++ {
		env.Set(x, 0, mgl64.Vec3{1, 1, 1})
	}
	up := env.Sample(mgl64.Vec3{0, 1, 0})
	down := env.Sample(mgl64.Vec3{0, -1, 0})
	if up[0] < 0.99 || down[0] > 0.01 {
		t.Errorf("up = %v, down = %v; row 0 should map to +Y", up, down)
	}
}

func TestSample_NilMap(t *testing.T) {
	var env *EnvMap
	if got := env.Sample(mgl64.Vec3{0, 1, 0}); got != (mgl64.Vec3{}) {
		t.Errorf("nil map Sample() = %v, want zero", got)
	}
}

func TestDownsample(t *testing.T) {
	env := New(8, 4)
	for i := range env.Pix {
		env.Pix[i] = 1
	}
	small := env.Downsample(4)
	if small.Width != 4 || small.Height != 2 {
		t.Fatalf("Downsample size = %dx%d, want 4x2", small.Width, small.Height)
	}
	if c := small.At(1, 1); !c.ApproxEqualThreshold(mgl64.Vec3{1, 1, 1}, 1e-6) {
		t.Errorf("averaged pixel = %v, want 1", c)
	}

	if same := env.Downsample(0); same != env {
		t.Error("Downsample(0) should return the same map")
	}
}

func redImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 255, G: 0, B: 0, A: 255})
		}
	}
	return img
}

func TestDecode_LDR(t *testing.T) {
	tests := []struct {
		ext    string
		encode func(w io.Writer, m image.Image) error
	}{
		{".png", png.Encode},
		{".jpg", func(w io.Writer, m image.Image) error { return jpeg.Encode(w, m, &jpeg.Options{Quality: 95}) }},
		{".bmp", bmp.Encode},
		{".tga", tga.Encode},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.encode(&buf, redImage(16, 8)); err != nil {
				t.Fatalf("encode: %v", err)
			}

			env, err := Decode(&buf, tt.ext, 8)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if env.Width != 8 || env.Height != 4 {
				t.Errorf("size = %dx%d, want 8x4 after resize", env.Width, env.Height)
			}
			c := env.At(3, 2)
			if math.Abs(c[0]-1) > 0.05 || c[1] > 0.05 || c[2] > 0.05 {
				t.Errorf("pixel = %v, want linear red", c)
			}
		})
	}
}

func TestDecode_Unsupported(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("x")), "exr", 0)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "sky.hdr"), 0); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_HDRFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sky.hdr")
	if err := os.WriteFile(path, flatHDR(2, 1, [4]byte{128, 64, 32, 129}), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	env, err := Load(path, 0)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if env.Width != 2 || env.Height != 1 {
		t.Errorf("size = %dx%d, want 2x1", env.Width, env.Height)
	}
}

func TestProcedural(t *testing.T) {
	env := Procedural(64, 32)
	if env.Width != 64 || env.Height != 32 {
		t.Fatalf("size = %dx%d", env.Width, env.Height)
	}
	sky := env.Sample(mgl64.Vec3{0, 1, 0})
	ground := env.Sample(mgl64.Vec3{0, -1, 0})
	if sky[2] <= ground[2] {
		t.Errorf("sky %v should be bluer than ground %v", sky, ground)
	}
}
