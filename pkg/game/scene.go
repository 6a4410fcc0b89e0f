package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a viewer scene.
// Each scene owns its entities, systems and frame driver.
type Scene interface {
	// Update advances the scene by one host refresh.
	// A non-nil error (typically ErrStopped) ends the game loop.
	Update() error

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}

// Resizable 是一个可选接口，场景实现后会在窗口尺寸变化时收到通知
type Resizable interface {
	// Resize 在逻辑屏幕尺寸变化时调用
	Resize(width, height int)
}

// Saveable 是一个可选接口，用于支持场景在退出时保存状态
//
// 实现此接口的场景会在以下时机被调用 SaveOnExit()：
//   - 游戏窗口关闭
//   - 用户通过 OS 命令关闭程序
type Saveable interface {
	// SaveOnExit 在场景退出时保存状态
	// 返回 true 表示保存成功或无需保存
	// 返回 false 表示保存失败（但程序仍会正常退出）
	SaveOnExit() bool
}
