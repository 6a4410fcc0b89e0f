package components

import "github.com/decker502/skysplat/internal/splat"

// SplatComponent 高斯点云
// 点云加载完成后挂载；Cloud 中的坐标位于物体局部空间
type SplatComponent struct {
	Cloud *splat.Cloud
	// PointSize 屏幕空间大小系数
	PointSize float64
}
