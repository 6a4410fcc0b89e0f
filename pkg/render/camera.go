// Package render 软件渲染用到的相机、投影和几何计算
//
// 所有矩阵使用 mgl64（列主序，右手坐标系，相机看向 -Z）。
package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera 透视相机
type Camera struct {
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Up       mgl64.Vec3

	FOVDeg float64 // 垂直视场角（度）
	Near   float64
	Far    float64
	Aspect float64 // 宽 / 高
}

// NewCamera 创建看向 -Z 的透视相机
func NewCamera(fovDeg, near, far, aspect float64, position mgl64.Vec3) *Camera {
	return &Camera{
		Position: position,
		Target:   position.Sub(mgl64.Vec3{0, 0, 1}),
		Up:       mgl64.Vec3{0, 1, 0},
		FOVDeg:   fovDeg,
		Near:     near,
		Far:      far,
		Aspect:   aspect,
	}
}

// SetAspect 更新宽高比（窗口尺寸变化时调用）
func (c *Camera) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float64(width) / float64(height)
}

// View 返回世界到相机空间的矩阵
func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Target, c.up())
}

// Projection 返回透视投影矩阵
func (c *Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FOVDeg), c.Aspect, c.Near, c.Far)
}

// ViewProjection 返回 P·V
func (c *Camera) ViewProjection() mgl64.Mat4 {
	return c.Projection().Mul4(c.View())
}

// Basis 返回相机的前、右、上三个单位向量（世界空间）
func (c *Camera) Basis() (forward, right, up mgl64.Vec3) {
	forward = c.Target.Sub(c.Position).Normalize()
	right = forward.Cross(c.up()).Normalize()
	up = right.Cross(forward)
	return forward, right, up
}

// Ray 返回穿过 NDC 坐标 (x, y) 的世界空间单位方向
// x、y 范围为 [-1, 1]，y 向上
func (c *Camera) Ray(x, y float64) mgl64.Vec3 {
	forward, right, up := c.Basis()
	tanHalf := math.Tan(mgl64.DegToRad(c.FOVDeg) / 2)
	dir := forward.
		Add(right.Mul(x * tanHalf * c.Aspect)).
		Add(up.Mul(y * tanHalf))
	return dir.Normalize()
}

func (c *Camera) up() mgl64.Vec3 {
	if c.Up == (mgl64.Vec3{}) {
		return mgl64.Vec3{0, 1, 0}
	}
	return c.Up
}
