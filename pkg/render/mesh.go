package render

import "github.com/go-gl/mathgl/mgl64"

// Mesh 线框几何：顶点与边
type Mesh struct {
	Vertices []mgl64.Vec3
	Edges    [][2]int
}

// BoxMesh 返回以原点为中心、边长为 size 的立方体线框
//
// 每个面按两个三角形绘制，因此除 12 条棱外还有 6 条面对角线，
// 与三角形网格的线框外观一致。
func BoxMesh(size float64) Mesh {
	h := size / 2
	vertices := []mgl64.Vec3{
		{-h, -h, -h}, // 0
		{h, -h, -h},  // 1
		{h, h, -h},   // 2
		{-h, h, -h},  // 3
		{-h, -h, h},  // 4
		{h, -h, h},   // 5
		{h, h, h},    // 6
		{-h, h, h},   // 7
	}
	edges := [][2]int{
		// 棱
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
		// 面对角线
		{0, 2}, {4, 6}, {0, 5}, {3, 6}, {0, 7}, {1, 6},
	}
	return Mesh{Vertices: vertices, Edges: edges}
}
