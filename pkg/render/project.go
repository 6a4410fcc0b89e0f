package render

import "github.com/go-gl/mathgl/mgl64"

// minClipW 小于该值的齐次 w 视为在相机后方
const minClipW = 1e-6

// Viewport 屏幕尺寸（像素）
type Viewport struct {
	Width  float64
	Height float64
}

// ScreenPoint 投影后的屏幕点
type ScreenPoint struct {
	X, Y  float64
	Depth float64 // 观察空间深度（clip w），越大越远
}

// Project 将物体空间的点经 mvp 投影到屏幕
// 点在相机后方时返回 false
func (v Viewport) Project(mvp mgl64.Mat4, p mgl64.Vec3) (ScreenPoint, bool) {
	clip := mvp.Mul4x1(p.Vec4(1))
	ndc, ok := clipToNDC(clip)
	if !ok {
		return ScreenPoint{}, false
	}
	x, y := v.ndcToScreen(ndc)
	return ScreenPoint{X: x, Y: y, Depth: clip.W()}, true
}

func clipToNDC(p mgl64.Vec4) (mgl64.Vec3, bool) {
	w := p.W()
	if w < minClipW {
		return mgl64.Vec3{}, false
	}
	return p.Vec3().Mul(1 / w), true
}

func (v Viewport) ndcToScreen(p mgl64.Vec3) (x, y float64) {
	x = (p[0]*0.5 + 0.5) * v.Width
	y = (1 - (p[1]*0.5 + 0.5)) * v.Height
	return x, y
}

// PixelToNDC 返回像素中心对应的 NDC 坐标
func (v Viewport) PixelToNDC(px, py int) (x, y float64) {
	x = (float64(px)+0.5)/v.Width*2 - 1
	y = 1 - (float64(py)+0.5)/v.Height*2
	return x, y
}
