// Package shader 定义逐顶点位移函数及其共享的时间 uniform
//
// 位移函数是纯函数：相同的 (p, t) 总是得到相同的矩阵。
// 渲染系统在每个顶点（或每个点云中心）上调用它，
// 本包只负责计算，不负责执行。
package shader

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// 波形系数
const (
	waveFreqX  = 6.0
	waveFreqY  = 4.0
	waveFreqZ  = 6.0
	waveSpeedX = 0.5
	waveSpeedY = 2.0
	waveSpeedZ = 3.0
	waveAmpXZ  = 0.2

	// twistSpeed 扭转相位随时间的角速度
	twistSpeed = 0.5
)

// DisplacementFunc 逐顶点位移函数签名
// p 为物体局部坐标，t 为本帧采样的时间（秒）
type DisplacementFunc func(p mgl64.Vec3, t float64) mgl64.Mat4

// Wave 计算三个方向的振荡分量
func Wave(p mgl64.Vec3, t float64) mgl64.Vec3 {
	return mgl64.Vec3{
		math.Sin(p[0]*waveFreqX+t*waveSpeedX) * waveAmpXZ,
		math.Sin(p[1]*waveFreqY + t*waveSpeedY),
		math.Cos(p[2]*waveFreqZ+t*waveSpeedZ) * waveAmpXZ,
	}
}

// Twist 根据波形分量和时间计算二次扭转
func Twist(wave mgl64.Vec3, t float64) mgl64.Vec3 {
	s := math.Sin(t * twistSpeed)
	c := math.Cos(t * twistSpeed)
	return mgl64.Vec3{
		wave[1] * s,
		wave[0] * c,
		wave[0]*s + wave[1],
	}
}

// Displacement 返回仅含平移的仿射矩阵，平移量为 Twist(Wave(p, t), t)
func Displacement(p mgl64.Vec3, t float64) mgl64.Mat4 {
	twist := Twist(Wave(p, t), t)
	return mgl64.Translate3D(twist[0], twist[1], twist[2])
}

// 编译期检查 Displacement 满足 DisplacementFunc
var _ DisplacementFunc = Displacement
