package systems

import (
	"github.com/decker502/skysplat/pkg/components"
	"github.com/decker502/skysplat/pkg/ecs"
	"github.com/decker502/skysplat/pkg/game"
)

// MotionSystem 立方体的自转和上下浮动
// 按帧步进（不按时间缩放），每帧一步
type MotionSystem struct {
	entityManager *ecs.EntityManager
}

// NewMotionSystem 创建动画系统
func NewMotionSystem(em *ecs.EntityManager) *MotionSystem {
	return &MotionSystem{entityManager: em}
}

// UpdateFrame 实现 game.FrameUpdater
func (s *MotionSystem) UpdateFrame(game.Frame) {
	s.Update()
}

// Update 推进一帧
func (s *MotionSystem) Update() {
	for _, id := range ecs.GetEntitiesWith2[*components.TransformComponent, *components.SpinComponent](s.entityManager) {
		tr, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		spin, _ := ecs.GetComponent[*components.SpinComponent](s.entityManager, id)
		tr.Rotation = tr.Rotation.Add(spin.Step)
	}

	for _, id := range ecs.GetEntitiesWith2[*components.TransformComponent, *components.BobComponent](s.entityManager) {
		tr, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		bob, _ := ecs.GetComponent[*components.BobComponent](s.entityManager, id)
		tr.Position[1] = stepBob(bob, tr.Position[1])
	}
}

// stepBob 先检查边界切换方向，再按切换前的方向移动一步
func stepBob(bob *components.BobComponent, y float64) float64 {
	if bob.Rising {
		if y >= bob.MaxY {
			bob.Rising = false
		}
		return y + bob.Step
	}
	if y <= bob.MinY {
		bob.Rising = true
	}
	return y - bob.Step
}
