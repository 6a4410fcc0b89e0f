package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// noHit 表示射线与几何体不相交
const noHit = 1e6

// GroundProjection 地面投影天空盒的参数
//
// 天空盒是一个缩放为 Scale 的球面；着色时把相机抬高 Height，
// 与半径为 Radius 的球及 y = -Height 处的地面圆盘求交，
// 交点方向即环境贴图的采样方向。这样贴图下半部分看起来像一块平坦的地面，
// 上半球保持不变。
type GroundProjection struct {
	Height float64
	Radius float64
	Scale  float64
}

// Direction 返回从 camPos 沿 dir 看到的环境贴图采样方向（单位向量）
func (g GroundProjection) Direction(camPos, dir mgl64.Vec3) mgl64.Vec3 {
	// 天空盒表面上被看到的点
	p := dir
	if g.Scale > 0 {
		if t := sphereExit(camPos, dir, mgl64.Vec3{}, g.Scale); t > 0 {
			p = camPos.Add(dir.Mul(t))
		}
	}
	p = p.Normalize()

	// 只有地平线以下的射线投影到地面，天空部分原样采样
	if g.Radius <= 0 || p[1] >= 0 {
		return p
	}

	ro := camPos
	ro[1] -= g.Height
	t1 := sphereExit(ro, p, mgl64.Vec3{}, g.Radius)
	if t1 <= 0 {
		return mgl64.Vec3{0, 1, 0}
	}
	t2 := diskIntersect(ro, p, mgl64.Vec3{0, -g.Height, 0}, mgl64.Vec3{0, 1, 0}, g.Radius)
	hit := ro.Add(p.Mul(math.Min(t1, t2))).Mul(1 / g.Radius)
	if hit.Len() == 0 {
		return mgl64.Vec3{0, 1, 0}
	}
	return hit.Normalize()
}

// sphereExit 返回射线离开球面时的参数 t，不相交时返回 -1
func sphereExit(ro, rd, center mgl64.Vec3, radius float64) float64 {
	oc := ro.Sub(center)
	b := oc.Dot(rd)
	c := oc.Dot(oc) - radius*radius
	h := b*b - c
	if h < 0 {
		return -1
	}
	return -b + math.Sqrt(h)
}

// diskIntersect 射线与圆盘求交，背面剔除
// 不相交时返回 noHit
func diskIntersect(ro, rd, center, normal mgl64.Vec3, radius float64) float64 {
	d := rd.Dot(normal)
	if d >= 0 {
		return noHit
	}
	o := ro.Sub(center)
	t := -normal.Dot(o) / d
	q := o.Add(rd.Mul(t))
	if q.Dot(q) < radius*radius {
		return t
	}
	return noHit
}
