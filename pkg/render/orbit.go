package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// OrbitLimits 轨道控制的约束
type OrbitLimits struct {
	MinPolar    float64 // 最小极角（弧度，0 为正上方）
	MaxPolar    float64 // 最大极角（弧度）
	MinDistance float64
	MaxDistance float64
	EnablePan   bool
}

// OrbitControls 围绕目标点旋转和缩放的相机控制
//
// 相机位置用球坐标表示：theta 为绕 Y 轴的方位角，phi 为与 +Y 的夹角。
// 每次修改后都会重新施加约束，返回值表示相机是否真的移动了，
// 调用方据此决定是否立即重绘。
type OrbitControls struct {
	Target mgl64.Vec3
	Limits OrbitLimits

	radius float64
	theta  float64
	phi    float64
}

// minPhi 避免相机与 Y 轴重合导致 LookAt 退化
const minPhi = 1e-6

// NewOrbitControls 根据相机初始位置创建控制器，并立即施加约束
func NewOrbitControls(target, position mgl64.Vec3, limits OrbitLimits) *OrbitControls {
	o := &OrbitControls{Target: target, Limits: limits}
	offset := position.Sub(target)
	o.radius = offset.Len()
	if o.radius > 0 {
		o.theta = math.Atan2(offset[0], offset[2])
		o.phi = math.Acos(mgl64.Clamp(offset[1]/o.radius, -1, 1))
	}
	o.constrain()
	return o
}

// Spherical 返回当前的球坐标 (radius, theta, phi)
func (o *OrbitControls) Spherical() (radius, theta, phi float64) {
	return o.radius, o.theta, o.phi
}

// Rotate 改变方位角和极角（弧度）
func (o *OrbitControls) Rotate(dTheta, dPhi float64) bool {
	before := o.state()
	o.theta += dTheta
	o.phi += dPhi
	o.constrain()
	return o.state() != before
}

// Zoom 按比例缩放相机距离，scale < 1 拉近
func (o *OrbitControls) Zoom(scale float64) bool {
	if scale <= 0 {
		return false
	}
	before := o.state()
	o.radius *= scale
	o.constrain()
	return o.state() != before
}

// Pan 在相机平面内平移目标点，禁用平移时不做任何事
func (o *OrbitControls) Pan(right, up mgl64.Vec3, dx, dy float64) bool {
	if !o.Limits.EnablePan || (dx == 0 && dy == 0) {
		return false
	}
	o.Target = o.Target.Add(right.Mul(dx)).Add(up.Mul(dy))
	return true
}

// Position 返回相机在世界空间中的位置
func (o *OrbitControls) Position() mgl64.Vec3 {
	sinPhi := math.Sin(o.phi)
	offset := mgl64.Vec3{
		o.radius * sinPhi * math.Sin(o.theta),
		o.radius * math.Cos(o.phi),
		o.radius * sinPhi * math.Cos(o.theta),
	}
	return o.Target.Add(offset)
}

// Apply 把控制器状态写入相机
func (o *OrbitControls) Apply(cam *Camera) {
	if cam == nil {
		return
	}
	cam.Position = o.Position()
	cam.Target = o.Target
	if cam.Up == (mgl64.Vec3{}) {
		cam.Up = mgl64.Vec3{0, 1, 0}
	}
}

func (o *OrbitControls) constrain() {
	l := o.Limits
	lo := math.Max(l.MinPolar, minPhi)
	hi := math.Pi - minPhi
	if l.MaxPolar > 0 && l.MaxPolar < hi {
		hi = l.MaxPolar
	}
	o.phi = mgl64.Clamp(o.phi, lo, hi)

	if l.MinDistance > 0 && o.radius < l.MinDistance {
		o.radius = l.MinDistance
	}
	if l.MaxDistance > 0 && o.radius > l.MaxDistance {
		o.radius = l.MaxDistance
	}
}

type orbitState struct {
	radius, theta, phi float64
	target             mgl64.Vec3
}

func (o *OrbitControls) state() orbitState {
	return orbitState{o.radius, o.theta, o.phi, o.Target}
}
