package shader

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// TestDisplacement_OriginAtZero 原点、t=0 时位移为零
func TestDisplacement_OriginAtZero(t *testing.T) {
	p := mgl64.Vec3{0, 0, 0}

	// cos(0)*0.2 = 0.2，因此 wave.z 不为零；但 wave.x 和 wave.y 为零，
	// 扭转只依赖 wave.x 和 wave.y，所以结果仍为零平移
	wave := Wave(p, 0)
	if wave[0] != 0 || wave[1] != 0 {
		t.Errorf("Wave(0,0) x/y = (%v, %v), want (0, 0)", wave[0], wave[1])
	}

	twist := Twist(wave, 0)
	if twist != (mgl64.Vec3{0, 0, 0}) {
		t.Errorf("Twist at origin = %v, want zero", twist)
	}

	m := Displacement(p, 0)
	if m != mgl64.Ident4() {
		t.Errorf("Displacement at origin = %v, want identity", m)
	}
}

// TestDisplacement_Deterministic 相同输入得到逐位相同的输出
func TestDisplacement_Deterministic(t *testing.T) {
	inputs := []struct {
		p mgl64.Vec3
		t float64
	}{
		{mgl64.Vec3{0.5, -0.25, 1.0}, 0.0},
		{mgl64.Vec3{1, 2, 3}, 12.345},
		{mgl64.Vec3{-3.2, 0.01, 7.7}, 1000.5},
	}

	for _, in := range inputs {
		a := Displacement(in.p, in.t)
		b := Displacement(in.p, in.t)
		for i := range a {
			if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
				t.Fatalf("Displacement(%v, %v) not bit-identical at %d: %v vs %v", in.p, in.t, i, a[i], b[i])
			}
		}
	}
}

// TestDisplacement_TranslationOnly 线性部分必须为单位矩阵
func TestDisplacement_TranslationOnly(t *testing.T) {
	m := Displacement(mgl64.Vec3{0.3, 0.7, -0.4}, 2.5)
	linear := m.Mat3()
	if linear != mgl64.Ident3() {
		t.Errorf("linear part = %v, want identity", linear)
	}
	if m.Row(3) != (mgl64.Vec4{0, 0, 0, 1}) {
		t.Errorf("bottom row = %v, want (0,0,0,1)", m.Row(3))
	}
}

// TestDisplacement_MatchesFormula 与公式逐项对比
func TestDisplacement_MatchesFormula(t *testing.T) {
	x, y, z, tm := 0.3, -1.2, 0.8, 4.2

	wx := math.Sin(x*6+tm*0.5) * 0.2
	wy := math.Sin(y*4 + tm*2.0)
	want := mgl64.Vec3{
		wy * math.Sin(tm*0.5),
		wx * math.Cos(tm*0.5),
		wx*math.Sin(tm*0.5) + wy,
	}

	m := Displacement(mgl64.Vec3{x, y, z}, tm)
	got := m.Col(3).Vec3()
	if !got.ApproxEqualThreshold(want, 1e-12) {
		t.Errorf("translation = %v, want %v", got, want)
	}

	wz := Wave(mgl64.Vec3{x, y, z}, tm)[2]
	if math.Abs(wz-math.Cos(z*6+tm*3.0)*0.2) > 1e-12 {
		t.Errorf("wave.z = %v, want %v", wz, math.Cos(z*6+tm*3.0)*0.2)
	}
}

// TestDisplacement_AppliedToPoint 位移矩阵作用于顶点等价于加上平移
func TestDisplacement_AppliedToPoint(t *testing.T) {
	p := mgl64.Vec3{0.5, 0.5, 0.5}
	tm := 1.75
	m := Displacement(p, tm)

	moved := m.Mul4x1(p.Vec4(1)).Vec3()
	want := p.Add(Twist(Wave(p, tm), tm))
	if !moved.ApproxEqualThreshold(want, 1e-12) {
		t.Errorf("displaced point = %v, want %v", moved, want)
	}
}

func TestTimeUniform(t *testing.T) {
	var nilUniform *TimeUniform
	if nilUniform.Value() != 0 {
		t.Error("nil uniform should read as 0")
	}

	u := NewTimeUniform()
	u.Set(3.5)
	if u.Value() != 3.5 {
		t.Errorf("Value() = %v, want 3.5", u.Value())
	}
}
