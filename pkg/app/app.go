// Package app 提供查看器应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/skysplat/pkg/config"
	"github.com/decker502/skysplat/pkg/game"
	"github.com/decker502/skysplat/pkg/scenes"
	"github.com/decker502/skysplat/pkg/utils"
)

// DefaultScenePath 内置场景配置路径
const DefaultScenePath = "data/scene.yaml"

// gdataAppName 持久化存储的应用名
const gdataAppName = "skysplat"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ScenePath 场景配置路径，为空时使用内置配置
	ScenePath string
	// EnvMap / Splat 覆盖场景配置中的资源路径
	EnvMap string
	Splat  string
	// NoGUI 隐藏参数面板
	NoGUI bool
	// ScreenshotDir F12 截图的保存目录
	ScreenshotDir string
	// NoPersist 不读写持久化设置（用于测试）
	NoPersist bool
}

// App 是查看器应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	sceneConfig     *config.SceneConfig
	sceneManager    *game.SceneManager
	settingsManager *game.SettingsManager
	screenshots     *utils.ScreenshotWriter
	verbose         bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化查看器应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	scenePath := cfg.ScenePath
	if scenePath == "" {
		scenePath = DefaultScenePath
	}
	sceneConfig, err := config.LoadSceneConfig(scenePath)
	if err != nil {
		return nil, fmt.Errorf("场景配置加载失败: %w", err)
	}
	log.Printf("[Config] Loaded scene config: %s", scenePath)

	settingsManager := game.NewSettingsManager(openStorage(cfg.NoPersist))

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		ctx:             ctx,
		cancel:          cancel,
		sceneConfig:     sceneConfig,
		sceneManager:    game.NewSceneManager(),
		settingsManager: settingsManager,
		screenshots:     utils.NewScreenshotWriter(cfg.ScreenshotDir),
		verbose:         cfg.Verbose,
	}

	viewer := scenes.NewViewerScene(ctx, sceneConfig, scenes.ViewerOptions{
		EnvMapPath: cfg.EnvMap,
		SplatPath:  cfg.Splat,
		HideGUI:    cfg.NoGUI,
		Settings:   settingsManager,
	})
	a.sceneManager.SwitchTo(viewer)

	log.Printf("[App] Viewer initialized")
	return a, nil
}

// openStorage 打开 gdata 存储，失败时返回 nil（设置仅保存在内存中）
func openStorage(disabled bool) *gdata.Manager {
	if disabled {
		return nil
	}
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Warning: storage dir unavailable: %v", err)
	}
	m, err := gdata.Open(gdata.Config{AppName: gdataAppName})
	if err != nil {
		log.Printf("[App] Warning: gdata unavailable: %v (settings will not persist)", err)
		return nil
	}
	return m
}

// ApplyWindowSettings 设置窗口标题、尺寸和保存的全屏状态
// 必须在 ebiten.RunGame 之前调用
func (a *App) ApplyWindowSettings() {
	if utils.IsMobile() {
		return
	}
	w := a.sceneConfig.Window
	ebiten.SetWindowSize(w.Width, w.Height)
	ebiten.SetWindowTitle(w.Title)
	if w.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetWindowClosingHandled(true)
	if a.settingsManager.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}
}

// Update 更新查看器逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if ebiten.IsWindowBeingClosed() {
		a.cancel()
	}

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.sceneConfig.Window.Width, a.sceneConfig.Window.Height)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", a.sceneConfig.Window.Width, a.sceneConfig.Window.Height)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	// F12 截图（在下一次 Draw 中完成）
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		a.screenshots.Request()
	}

	if err := a.sceneManager.Update(); err != nil {
		return a.shutdown(err)
	}
	return nil
}

func (a *App) toggleFullscreen() {
	if ebiten.IsFullscreen() {
		// 退出全屏
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		a.settingsManager.SetFullscreen(false)
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
	} else {
		ebiten.SetFullscreen(true)
		a.settingsManager.SetFullscreen(true)
	}
}

// shutdown 场景停止后保存状态并结束游戏循环
func (a *App) shutdown(err error) error {
	a.SaveOnExit()
	if errors.Is(err, game.ErrStopped) {
		log.Printf("[App] Viewer stopped")
		return ebiten.Termination
	}
	return err
}

// SaveOnExit 让当前场景保存状态
func (a *App) SaveOnExit() {
	if s, ok := a.sceneManager.GetCurrentScene().(game.Saveable); ok {
		if !s.SaveOnExit() {
			log.Printf("[App] Scene failed to save on exit")
		}
	}
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)

	if _, err := a.screenshots.Capture(screen); err != nil {
		log.Printf("[App] Screenshot failed: %v", err)
	}
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
// 逻辑尺寸跟随窗口，场景在尺寸变化时更新相机宽高比并重绘
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.sceneManager.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Stop 取消宿主上下文，下一次 Update 结束游戏循环
func (a *App) Stop() {
	a.cancel()
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
