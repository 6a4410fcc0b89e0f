package components

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// MeshComponent 线框网格
// 顶点位于物体局部空间，Edges 为顶点索引对
type MeshComponent struct {
	Vertices []mgl64.Vec3
	Edges    [][2]int
	Color    color.RGBA
	// LineWidth 屏幕空间线宽（像素）
	LineWidth float32
}
