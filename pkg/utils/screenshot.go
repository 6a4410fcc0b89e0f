package utils

import (
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/hajimehoshi/ebiten/v2"
)

// ScreenshotWriter 把屏幕内容保存为无损 WebP
//
// 按键处理在 Update 中调用 Request，真正的截图在下一次 Draw 结束时通过 Capture 完成，
// 因为只有 Draw 阶段的屏幕图像包含完整的一帧。
type ScreenshotWriter struct {
	dir     string
	now     func() time.Time
	pending bool
}

// NewScreenshotWriter 创建截图器，dir 为空时使用当前目录
func NewScreenshotWriter(dir string) *ScreenshotWriter {
	if dir == "" {
		dir = "."
	}
	return &ScreenshotWriter{dir: dir, now: time.Now}
}

// Request 请求在下一帧截图
func (w *ScreenshotWriter) Request() {
	w.pending = true
}

// Pending 是否有待处理的截图请求
func (w *ScreenshotWriter) Pending() bool {
	return w.pending
}

// Capture 如果有待处理的请求，读取屏幕像素并保存
// 没有请求时返回空路径
func (w *ScreenshotWriter) Capture(screen *ebiten.Image) (string, error) {
	if !w.pending {
		return "", nil
	}
	w.pending = false

	img := image.NewRGBA(screen.Bounds())
	screen.ReadPixels(img.Pix)
	return w.Save(img)
}

// Save 把图像写入截图目录，返回文件路径
func (w *ScreenshotWriter) Save(img image.Image) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create screenshot dir %s: %w", w.dir, err)
	}

	name := fmt.Sprintf("skysplat-%s.webp", w.now().Format("20060102-150405.000"))
	path := filepath.Join(w.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := EncodeWebP(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}

	log.Printf("[Screenshot] Saved %s (%dx%d)", path, img.Bounds().Dx(), img.Bounds().Dy())
	return path, nil
}

// EncodeWebP 以无损 WebP 编码图像
func EncodeWebP(out io.Writer, img image.Image) error {
	if err := nativewebp.Encode(out, img, nil); err != nil {
		return fmt.Errorf("failed to encode webp: %w", err)
	}
	return nil
}
