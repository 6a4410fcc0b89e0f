package systems

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/skysplat/pkg/components"
	"github.com/decker502/skysplat/pkg/ecs"
	"github.com/decker502/skysplat/pkg/utils"
)

// SliderMouseInput 滑块系统鼠标输入接口
// 用于依赖注入，支持测试时 mock
type SliderMouseInput interface {
	CursorPosition() (int, int)
	IsMouseButtonPressed(button ebiten.MouseButton) bool
}

// ebitenSliderMouseInput Ebitengine 默认实现
type ebitenSliderMouseInput struct{}

func (e *ebitenSliderMouseInput) CursorPosition() (int, int) {
	return utils.GetPointerPosition()
}

func (e *ebitenSliderMouseInput) IsMouseButtonPressed(button ebiten.MouseButton) bool {
	// 使用支持触摸的按下检测
	return utils.IsPointerPressed()
}

// defaultSliderMouseInput 默认鼠标输入实例
var defaultSliderMouseInput SliderMouseInput = &ebitenSliderMouseInput{}

// SliderSystem 滑块交互系统
// 负责处理滑块的鼠标拖拽交互
//
// 职责：
//   - 检测鼠标是否在滑槽区域内
//   - 检测鼠标左键按下/拖拽状态（拖拽只从按下的那一帧开始）
//   - 把点击位置换算为 [Min, Max] 内的值并按 Step 吸附
//   - 更新 SliderComponent.Value 并调用 OnValueChange 回调
type SliderSystem struct {
	entityManager *ecs.EntityManager
	mouseInput    SliderMouseInput
	hidden        bool
	// wasPressed 上一帧的按下状态，用于识别按下沿
	wasPressed bool
}

// NewSliderSystem 创建滑块交互系统
func NewSliderSystem(em *ecs.EntityManager) *SliderSystem {
	return &SliderSystem{
		entityManager: em,
		mouseInput:    defaultSliderMouseInput,
	}
}

// NewSliderSystemWithInput 创建带自定义鼠标输入的滑块交互系统（用于测试）
func NewSliderSystemWithInput(em *ecs.EntityManager, input SliderMouseInput) *SliderSystem {
	return &SliderSystem{
		entityManager: em,
		mouseInput:    input,
	}
}

// SetHidden 面板隐藏时滑块不响应输入
func (s *SliderSystem) SetHidden(hidden bool) {
	s.hidden = hidden
}

// Update 更新滑块交互状态
// 检测鼠标位置和按下状态，更新滑块值
func (s *SliderSystem) Update() {
	mouseX, mouseY := s.mouseInput.CursorPosition()
	mousePressed := s.mouseInput.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	justPressed := mousePressed && !s.wasPressed
	s.wasPressed = mousePressed

	for _, entityID := range ecs.GetEntitiesWith1[*components.SliderComponent](s.entityManager) {
		slider, _ := ecs.GetComponent[*components.SliderComponent](s.entityManager, entityID)
		if slider == nil {
			continue
		}
		if s.hidden {
			slider.IsHovered = false
			slider.IsDragging = false
			continue
		}

		isInSlot := s.isMouseInSlot(float64(mouseX), float64(mouseY), slider.X, slider.Y, slider.Width, slider.Height)
		slider.IsHovered = isInSlot

		if !mousePressed {
			slider.IsDragging = false
			continue
		}
		// 拖拽只在按下沿开始；按住后划入别的滑槽不会接管
		if !slider.IsDragging && (!isInSlot || !justPressed) {
			continue
		}
		slider.IsDragging = true

		ratio := s.calculateValue(float64(mouseX), slider.X, slider.Width)
		newValue := snapToStep(slider.Min+ratio*(slider.Max-slider.Min), slider.Min, slider.Max, slider.Step)
		if newValue != slider.Value {
			slider.Value = newValue
			if slider.OnValueChange != nil {
				slider.OnValueChange(newValue)
			}
		}
	}
}

// AnyActive 指针是否正悬停或拖拽某个滑块
func (s *SliderSystem) AnyActive() bool {
	for _, entityID := range ecs.GetEntitiesWith1[*components.SliderComponent](s.entityManager) {
		slider, _ := ecs.GetComponent[*components.SliderComponent](s.entityManager, entityID)
		if slider != nil && (slider.IsDragging || slider.IsHovered) {
			return true
		}
	}
	return false
}

// isMouseInSlot 检测鼠标是否在滑槽区域内
func (s *SliderSystem) isMouseInSlot(mouseX, mouseY, slotX, slotY, slotWidth, slotHeight float64) bool {
	return mouseX >= slotX &&
		mouseX <= slotX+slotWidth &&
		mouseY >= slotY &&
		mouseY <= slotY+slotHeight
}

// calculateValue 根据鼠标X坐标计算滑块比例（0.0 ~ 1.0）
func (s *SliderSystem) calculateValue(mouseX, slotX, slotWidth float64) float64 {
	if slotWidth <= 0 {
		return 0.0
	}
	ratio := (mouseX - slotX) / slotWidth
	if ratio < 0.0 {
		return 0.0
	}
	if ratio > 1.0 {
		return 1.0
	}
	return ratio
}

// snapToStep 以 min 为起点按 step 吸附，并限制在 [min, max]
func snapToStep(v, min, max, step float64) float64 {
	if step > 0 {
		n := math.Round((v - min) / step)
		v = min + n*step
		// 消除 0.1 这类步长的浮点误差
		v = math.Round(v*1e9) / 1e9
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
