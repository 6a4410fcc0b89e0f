package utils

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	labelSourceOnce sync.Once
	labelSource     *text.GoTextFaceSource
	labelSourceErr  error

	faceMu    sync.Mutex
	faceCache = map[float64]*text.GoTextFace{}
)

// LabelFace 返回指定字号的界面字体（Go Regular，随程序内置）
// 同一字号只创建一次
func LabelFace(size float64) (*text.GoTextFace, error) {
	labelSourceOnce.Do(func() {
		labelSource, labelSourceErr = text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	})
	if labelSourceErr != nil {
		return nil, fmt.Errorf("failed to create font source: %w", labelSourceErr)
	}

	faceMu.Lock()
	defer faceMu.Unlock()
	if face, ok := faceCache[size]; ok {
		return face, nil
	}
	face := &text.GoTextFace{
		Source:    labelSource,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
	faceCache[size] = face
	return face, nil
}

// MeasureText 返回文本的宽高（像素）
func MeasureText(s string, face *text.GoTextFace) (width, height float64) {
	if face == nil {
		return 0, 0
	}
	return text.Measure(s, face, 0)
}

// DrawText 在 (x, y) 处绘制带阴影的文本，(x, y) 为左上角
func DrawText(screen *ebiten.Image, s string, face *text.GoTextFace, x, y float64, clr color.Color) {
	shadowOp := &text.DrawOptions{}
	shadowOp.GeoM.Translate(x+1, y+1)
	shadowOp.ColorScale.ScaleWithColor(color.RGBA{A: 0xc0})
	text.Draw(screen, s, face, shadowOp)

	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, face, op)
}
