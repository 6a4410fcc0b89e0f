package render

import (
	"image/color"
	"sort"
)

// ProjectedSplat 投影到屏幕的一个点云元素
type ProjectedSplat struct {
	X, Y   float64
	Depth  float64
	Radius float64 // 屏幕空间半径（像素）
	Color  color.RGBA
}

// SortBackToFront 按深度从远到近排序，用于 alpha 混合
// 深度相同的元素保持原有顺序
func SortBackToFront(splats []ProjectedSplat) {
	sort.SliceStable(splats, func(i, j int) bool {
		return splats[i].Depth > splats[j].Depth
	})
}

// ScreenRadius 根据世界空间半径和深度计算屏幕半径
//
// focal 为以像素计的焦距（viewportHeight / (2·tan(fov/2))），
// 结果至少为 minRadius，避免远处的点完全消失。
func ScreenRadius(worldRadius, depth, focal, minRadius float64) float64 {
	if depth <= 0 {
		return minRadius
	}
	r := worldRadius * focal / depth
	if r < minRadius {
		return minRadius
	}
	return r
}
