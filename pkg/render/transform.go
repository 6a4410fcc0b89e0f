package render

import "github.com/go-gl/mathgl/mgl64"

// ModelMatrix 组合 T · Rx · Ry · Rz · S
// rotation 为弧度制 XYZ 欧拉角
func ModelMatrix(position, rotation, scale mgl64.Vec3) mgl64.Mat4 {
	t := mgl64.Translate3D(position[0], position[1], position[2])
	r := mgl64.HomogRotate3DX(rotation[0]).
		Mul4(mgl64.HomogRotate3DY(rotation[1])).
		Mul4(mgl64.HomogRotate3DZ(rotation[2]))
	s := mgl64.Scale3D(scale[0], scale[1], scale[2])
	return t.Mul4(r).Mul4(s)
}
