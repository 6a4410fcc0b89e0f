package render

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func viewerLimits() OrbitLimits {
	return OrbitLimits{
		MinPolar:    mgl64.DegToRad(30),
		MaxPolar:    mgl64.DegToRad(80),
		MinDistance: 4,
		MaxDistance: 12,
	}
}

// TestOrbitInitialConstraint 初始位置 (0,0,2) 被约束到最小距离和最大极角
func TestOrbitInitialConstraint(t *testing.T) {
	o := NewOrbitControls(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0, 0, 2}, viewerLimits())
	r, theta, phi := o.Spherical()
	if math.Abs(r-4) > eps {
		t.Errorf("radius = %v, want 4", r)
	}
	if math.Abs(theta) > eps {
		t.Errorf("theta = %v, want 0", theta)
	}
	if math.Abs(phi-mgl64.DegToRad(80)) > eps {
		t.Errorf("phi = %v, want 80°", mgl64.RadToDeg(phi))
	}

	pos := o.Position()
	want := mgl64.Vec3{0, 2 + 4*math.Cos(mgl64.DegToRad(80)), 4 * math.Sin(mgl64.DegToRad(80))}
	if !pos.ApproxEqualThreshold(want, 1e-9) {
		t.Errorf("Position() = %v, want %v", pos, want)
	}
}

func TestOrbitRotateClampsPolar(t *testing.T) {
	o := NewOrbitControls(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0, 2, 6}, viewerLimits())

	if !o.Rotate(0, -math.Pi) {
		t.Fatal("Rotate should report a change")
	}
	if _, _, phi := o.Spherical(); math.Abs(phi-mgl64.DegToRad(30)) > eps {
		t.Errorf("phi = %v°, want 30°", mgl64.RadToDeg(phi))
	}
	// 已在边界上，继续向上旋转不产生变化
	if o.Rotate(0, -0.1) {
		t.Error("Rotate past the limit should report no change")
	}

	o.Rotate(0.5, 0)
	if _, theta, _ := o.Spherical(); math.Abs(theta-0.5) > eps {
		t.Errorf("theta = %v, want 0.5", theta)
	}
}

func TestOrbitZoomClampsDistance(t *testing.T) {
	o := NewOrbitControls(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0, 2, 6}, viewerLimits())

	o.Zoom(0.1)
	if r, _, _ := o.Spherical(); r != 4 {
		t.Errorf("radius = %v, want 4", r)
	}
	o.Zoom(100)
	if r, _, _ := o.Spherical(); r != 12 {
		t.Errorf("radius = %v, want 12", r)
	}
	if o.Zoom(1) {
		t.Error("Zoom(1) should not report a change")
	}
	if o.Zoom(-1) {
		t.Error("Zoom with non-positive scale should be ignored")
	}
}

func TestOrbitPanDisabled(t *testing.T) {
	o := NewOrbitControls(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0, 2, 6}, viewerLimits())
	if o.Pan(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}, 3, 3) {
		t.Error("Pan should be a no-op when disabled")
	}
	if o.Target != (mgl64.Vec3{0, 2, 0}) {
		t.Errorf("Target moved to %v", o.Target)
	}

	limits := viewerLimits()
	limits.EnablePan = true
	o = NewOrbitControls(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0, 2, 6}, limits)
	if !o.Pan(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}, 1, -1) {
		t.Fatal("Pan should move the target when enabled")
	}
	if o.Target != (mgl64.Vec3{1, 1, 0}) {
		t.Errorf("Target = %v, want (1, 1, 0)", o.Target)
	}
}

func TestOrbitApply(t *testing.T) {
	o := NewOrbitControls(mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0, 2, 6}, viewerLimits())
	cam := &Camera{FOVDeg: 75, Near: 0.1, Far: 1000, Aspect: 1}
	o.Apply(cam)

	if cam.Target != o.Target {
		t.Errorf("camera target = %v", cam.Target)
	}
	if d := cam.Position.Sub(cam.Target).Len(); math.Abs(d-6) > 1e-9 {
		t.Errorf("camera distance = %v, want 6", d)
	}
	if cam.Up != (mgl64.Vec3{0, 1, 0}) {
		t.Errorf("camera up = %v", cam.Up)
	}
	o.Apply(nil)
}
