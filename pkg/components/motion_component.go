package components

import "github.com/go-gl/mathgl/mgl64"

// SpinComponent 每帧固定的旋转增量（弧度）
type SpinComponent struct {
	Step mgl64.Vec3
}

// BobComponent 沿 Y 轴在 [MinY, MaxY] 之间往复移动
//
// 每帧先检查边界再移动：到达边界的这一帧仍沿原方向走一步，下一帧才反向。
type BobComponent struct {
	MinY   float64
	MaxY   float64
	Step   float64 // 每帧移动距离
	Rising bool    // 当前方向，true 为向上
}
