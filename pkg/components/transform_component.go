package components

import "github.com/go-gl/mathgl/mgl64"

// TransformComponent 物体的位置、旋转和缩放
//
// Rotation 为弧度制的欧拉角，按 X、Y、Z 顺序组合。
// 模型矩阵 = T · Rx · Ry · Rz · S
type TransformComponent struct {
	Position mgl64.Vec3
	Rotation mgl64.Vec3
	Scale    mgl64.Vec3
}

// NewTransformComponent 创建单位缩放、无旋转的变换
func NewTransformComponent(position mgl64.Vec3) *TransformComponent {
	return &TransformComponent{
		Position: position,
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}
