package systems

import (
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/skysplat/pkg/game"
	"github.com/decker502/skysplat/pkg/render"
	"github.com/decker502/skysplat/pkg/utils"
)

// OrbitInput 轨道控制的输入接口
// 用于依赖注入，支持测试时 mock
type OrbitInput interface {
	CursorPosition() (int, int)
	IsMouseButtonPressed(button ebiten.MouseButton) bool
	// Wheel 返回本帧的滚轮增量，向上为正
	Wheel() (float64, float64)
	// Pinch 返回本帧双指缩放比例，没有手势时为 1
	Pinch() float64
}

// ebitenOrbitInput Ebitengine 默认实现
type ebitenOrbitInput struct {
	pinch utils.PinchTracker
}

func (e *ebitenOrbitInput) CursorPosition() (int, int) {
	return utils.GetPointerPosition()
}

func (e *ebitenOrbitInput) IsMouseButtonPressed(button ebiten.MouseButton) bool {
	return utils.IsPointerPressed()
}

func (e *ebitenOrbitInput) Wheel() (float64, float64) {
	return ebiten.Wheel()
}

func (e *ebitenOrbitInput) Pinch() float64 {
	return e.pinch.Update()
}

// OrbitControlSystem 把鼠标拖拽和滚轮转换为相机轨道运动
//
// 拖拽旋转，滚轮或双指缩放。相机真正移动时立即请求一次重绘，
// 不等待下一帧。
type OrbitControlSystem struct {
	controls *render.OrbitControls
	camera   *render.Camera
	redrawer game.Redrawer
	input    OrbitInput

	rotateSpeed float64 // 每像素的旋转弧度
	zoomSpeed   float64 // 每格滚轮的距离比例

	// uiHit 返回 true 时指针属于界面元素，不开始旋转
	uiHit func(x, y int) bool

	dragging     bool
	lastX, lastY int
}

// NewOrbitControlSystem 创建轨道控制系统
func NewOrbitControlSystem(controls *render.OrbitControls, camera *render.Camera, redrawer game.Redrawer, rotateSpeed, zoomSpeed float64) *OrbitControlSystem {
	return NewOrbitControlSystemWithInput(controls, camera, redrawer, rotateSpeed, zoomSpeed, &ebitenOrbitInput{})
}

// NewOrbitControlSystemWithInput 创建带自定义输入的轨道控制系统（用于测试）
func NewOrbitControlSystemWithInput(controls *render.OrbitControls, camera *render.Camera, redrawer game.Redrawer, rotateSpeed, zoomSpeed float64, input OrbitInput) *OrbitControlSystem {
	controls.Apply(camera)
	return &OrbitControlSystem{
		controls:    controls,
		camera:      camera,
		redrawer:    redrawer,
		input:       input,
		rotateSpeed: rotateSpeed,
		zoomSpeed:   zoomSpeed,
	}
}

// SetUIHitTest 设置界面命中检测，命中时拖拽交给界面处理
func (s *OrbitControlSystem) SetUIHitTest(hit func(x, y int) bool) {
	s.uiHit = hit
}

// Update 处理本帧输入
// 返回相机是否移动
func (s *OrbitControlSystem) Update() bool {
	x, y := s.input.CursorPosition()
	changed := false

	if s.input.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if !s.dragging {
			if s.uiHit == nil || !s.uiHit(x, y) {
				s.dragging = true
				s.lastX, s.lastY = x, y
			}
		} else if dx, dy := x-s.lastX, y-s.lastY; dx != 0 || dy != 0 {
			// 向右拖动让场景向右转，即相机方位角减小
			changed = s.controls.Rotate(-float64(dx)*s.rotateSpeed, -float64(dy)*s.rotateSpeed) || changed
			s.lastX, s.lastY = x, y
		}
	} else {
		s.dragging = false
	}

	if _, wy := s.input.Wheel(); wy != 0 {
		changed = s.controls.Zoom(math.Pow(s.zoomSpeed, wy)) || changed
	}
	if pinch := s.input.Pinch(); pinch != 1 {
		changed = s.controls.Zoom(pinch) || changed
	}

	if changed {
		s.controls.Apply(s.camera)
		if s.redrawer != nil {
			s.redrawer.Redraw()
		}
	}
	return changed
}

// IsDragging 是否正在拖拽旋转
func (s *OrbitControlSystem) IsDragging() bool {
	return s.dragging
}

// Reset 把相机恢复到给定的位置
func (s *OrbitControlSystem) Reset(position, target mgl64.Vec3, limits render.OrbitLimits) {
	s.controls = render.NewOrbitControls(target, position, limits)
	s.controls.Apply(s.camera)
	log.Printf("[OrbitControlSystem] Camera reset")
	if s.redrawer != nil {
		s.redrawer.Redraw()
	}
}
