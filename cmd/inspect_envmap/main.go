package main

import (
	"flag"
	"fmt"
	"image"
	"log"
	"os"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/decker502/skysplat/internal/envmap"
	"github.com/decker502/skysplat/pkg/render"
	"github.com/decker502/skysplat/pkg/utils"
)

func main() {
	maxWidth := flag.Int("max", 1024, "Downsample the map to at most this width")
	out := flag.String("o", "", "Write a tone-mapped ground-projected preview (.webp)")
	width := flag.Int("w", 480, "Preview width")
	height := flag.Float64("height", 12.5, "Ground projection height")
	radius := flag.Float64("radius", 360, "Ground projection radius")
	exposure := flag.Float64("exposure", 1, "Exposure before tone mapping")
	flag.Usage = func() {
		fmt.Println("用法: go run ./cmd/inspect_envmap [-o preview.webp] <envmap>")
		fmt.Println("      不指定文件时使用程序化天空")
		flag.PrintDefaults()
	}
	flag.Parse()

	var (
		env  *envmap.EnvMap
		name string
		err  error
	)
	if flag.NArg() > 0 {
		name = flag.Arg(0)
		env, err = envmap.Load(name, *maxWidth)
		if err != nil {
			log.Fatalf("读取失败: %v", err)
		}
	} else {
		name = "procedural"
		env = envmap.Procedural(512, 256)
	}

	fmt.Printf("环境贴图: %s\n", name)
	fmt.Printf("尺寸: %dx%d\n", env.Width, env.Height)
	for _, d := range []struct {
		label string
		dir   mgl64.Vec3
	}{
		{"天顶", mgl64.Vec3{0, 1, 0}},
		{"地平线 -Z", mgl64.Vec3{0, 0, -1}},
		{"地面", mgl64.Vec3{0, -1, 0}},
	} {
		c := env.Sample(d.dir)
		fmt.Printf("  %-10s (%.3f, %.3f, %.3f)\n", d.label, c[0], c[1], c[2])
	}

	if *out == "" {
		return
	}
	img := preview(env, *width, *height, *radius, *exposure)
	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("创建文件失败: %v", err)
	}
	defer f.Close()
	if err := utils.EncodeWebP(f, img); err != nil {
		log.Fatalf("写入预览失败: %v", err)
	}
	fmt.Printf("预览: %s\n", *out)
}

// preview 从默认视角渲染地面投影后的天空盒
func preview(env *envmap.EnvMap, w int, height, radius, exposure float64) *image.RGBA {
	h := w * 9 / 16
	cam := render.NewCamera(75, 0.1, 1000, float64(w)/float64(h), mgl64.Vec3{0, 4, 6})
	cam.Target = mgl64.Vec3{0, 2, 0}

	vp := render.Viewport{Width: float64(w), Height: float64(h)}
	proj := render.GroundProjection{Height: height, Radius: radius, Scale: 100}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			nx, ny := vp.PixelToNDC(x, y)
			dir := proj.Direction(cam.Position, cam.Ray(nx, ny))
			img.SetRGBA(x, y, render.ToneMapRGBA(env.Sample(dir), exposure))
		}
	}
	return img
}
