// Package utils 提供通用工具函数
package utils

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// GetPointerPosition 获取当前指针位置（触摸或鼠标）
// 优先返回触摸位置，如果没有触摸则返回鼠标位置
func GetPointerPosition() (int, int) {
	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) > 0 {
		return ebiten.TouchPosition(touchIDs[0])
	}
	return ebiten.CursorPosition()
}

// IsPointerPressed 检查是否有指针按下（鼠标左键或单指触摸）
// 双指触摸用于缩放，不视为按下
func IsPointerPressed() bool {
	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) > 0 {
		return len(touchIDs) == 1
	}
	return ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}

// PinchTracker 跟踪双指缩放手势
type PinchTracker struct {
	lastDistance float64
}

// Update 每帧调用一次，返回与上一帧相比的缩放比例
// 没有双指手势时返回 1
func (p *PinchTracker) Update() float64 {
	touchIDs := ebiten.AppendTouchIDs(nil)
	if len(touchIDs) < 2 {
		p.lastDistance = 0
		return 1
	}
	x0, y0 := ebiten.TouchPosition(touchIDs[0])
	x1, y1 := ebiten.TouchPosition(touchIDs[1])
	return p.advance(math.Hypot(float64(x1-x0), float64(y1-y0)))
}

// advance 记录新的手指距离并返回缩放比例
// 手指分开（距离变大）时比例小于 1，即拉近相机
func (p *PinchTracker) advance(distance float64) float64 {
	prev := p.lastDistance
	p.lastDistance = distance
	if prev <= 0 || distance <= 0 {
		return 1
	}
	return prev / distance
}
