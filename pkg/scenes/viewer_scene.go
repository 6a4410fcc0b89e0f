package scenes

import (
	"context"
	"fmt"
	"image/color"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/skysplat/pkg/components"
	"github.com/decker502/skysplat/pkg/config"
	"github.com/decker502/skysplat/pkg/ecs"
	"github.com/decker502/skysplat/pkg/game"
	"github.com/decker502/skysplat/pkg/modules"
	"github.com/decker502/skysplat/pkg/render"
	"github.com/decker502/skysplat/pkg/shader"
	"github.com/decker502/skysplat/pkg/systems"
)

// KeyInput 场景快捷键输入接口
// 用于依赖注入，支持测试时 mock
type KeyInput interface {
	IsKeyJustPressed(key ebiten.Key) bool
}

type ebitenKeyInput struct{}

func (ebitenKeyInput) IsKeyJustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}

// 快捷键
const (
	keyToggleGUI = ebiten.KeyG
	keyReset     = ebiten.KeyR
)

// ViewerOptions 查看器场景的启动选项
type ViewerOptions struct {
	// EnvMapPath / SplatPath 覆盖场景配置中的资源路径（命令行参数）
	EnvMapPath string
	SplatPath  string
	// HideGUI 强制隐藏参数面板
	HideGUI bool
	// Settings 设置管理器，可为 nil（不持久化）
	Settings *game.SettingsManager

	// 输入源，为 nil 时使用 ebiten
	Keys        KeyInput
	OrbitInput  systems.OrbitInput
	SliderInput systems.SliderMouseInput
}

// ViewerScene 天空盒 / 立方体 / 点云查看器
//
// 每次 Update 的顺序：
//  1. 取走后台加载完成的资源，挂载到对应实体
//  2. 处理快捷键、参数面板和轨道控制（变化时立即重绘）
//  3. 帧循环驱动器推进时钟、运行更新器并重绘
type ViewerScene struct {
	cfg      *config.SceneConfig
	settings *game.SettingsManager
	keys     KeyInput

	entityManager *ecs.EntityManager
	params        *game.ParameterStore
	uniform       *shader.TimeUniform
	driver        *game.FrameDriver
	loader        *game.AssetLoader

	camera      *render.Camera
	orbit       *render.OrbitControls
	orbitLimits render.OrbitLimits

	renderSystem    *systems.RenderSystem
	transformSystem *systems.TransformSystem
	motionSystem    *systems.MotionSystem
	orbitSystem     *systems.OrbitControlSystem
	panel           *modules.ParamPanelModule

	skyboxEntity ecs.EntityID
	cubeEntity   ecs.EntityID
	splatEntity  ecs.EntityID

	width, height int
}

// NewViewerScene 创建查看器场景并开始后台加载资源
//
// ctx 是宿主的生命周期：取消后帧循环驱动器停止，未完成的加载结果被丢弃。
func NewViewerScene(ctx context.Context, cfg *config.SceneConfig, opts ViewerOptions) *ViewerScene {
	if cfg == nil {
		cfg = config.DefaultSceneConfig()
	}

	s := &ViewerScene{
		cfg:           cfg,
		settings:      opts.Settings,
		keys:          opts.Keys,
		entityManager: ecs.NewEntityManager(),
		params:        game.NewParameterStore(cfg.Parameters),
		uniform:       shader.NewTimeUniform(),
		width:         cfg.Window.Width,
		height:        cfg.Window.Height,
	}
	if s.keys == nil {
		s.keys = ebitenKeyInput{}
	}
	if s.settings != nil {
		s.settings.ApplyParameters(s.params)
	}

	s.initCamera()
	s.initEntities()
	s.initSystems(opts)

	s.driver = game.NewFrameDriver(ctx, game.NewClock(), s.uniform, s.renderSystem,
		s.transformSystem, s.motionSystem)

	s.loader = game.NewAssetLoader(ctx)
	envPath := cfg.Skybox.EnvMap
	if opts.EnvMapPath != "" {
		envPath = opts.EnvMapPath
	}
	splatPath := cfg.Splat.Path
	if opts.SplatPath != "" {
		splatPath = opts.SplatPath
	}
	s.loader.LoadEnvMap(envPath, cfg.Skybox.MaxTexWidth)
	s.loader.LoadSplat(splatPath, cfg.Splat.MaxPoints)

	log.Printf("[ViewerScene] Created (env=%q, splat=%q)", envPath, splatPath)
	return s
}

func (s *ViewerScene) initCamera() {
	c := s.cfg.Camera
	aspect := float64(s.width) / float64(s.height)
	s.camera = render.NewCamera(c.FOVDeg, c.Near, c.Far, aspect, mgl64.Vec3(c.Position))

	o := s.cfg.Orbit
	s.orbitLimits = render.OrbitLimits{
		MinPolar:    mgl64.DegToRad(o.MinPolarDeg),
		MaxPolar:    mgl64.DegToRad(o.MaxPolarDeg),
		MinDistance: o.MinDistance,
		MaxDistance: o.MaxDistance,
		EnablePan:   o.EnablePan,
	}
	s.orbit = render.NewOrbitControls(mgl64.Vec3(o.Target), s.camera.Position, s.orbitLimits)
}

func (s *ViewerScene) initEntities() {
	em := s.entityManager

	// 天空盒：环境贴图加载完成后挂载 SkyboxComponent
	s.skyboxEntity = em.CreateEntity()

	// 线框立方体
	cube := s.cfg.Cube
	cubeColor, err := config.ParseHexColor(cube.Color)
	if err != nil {
		log.Printf("[ViewerScene] Invalid cube color %q: %v, using green", cube.Color, err)
		cubeColor = color.RGBA{G: 0xff, A: 0xff}
	}
	box := render.BoxMesh(cube.Size)
	s.cubeEntity = em.CreateEntity()
	cubeTransform := components.NewTransformComponent(mgl64.Vec3{0, cube.StartY, 0})
	cubeTransform.Scale = mgl64.Vec3{cube.Scale, cube.Scale, cube.Scale}
	ecs.AddComponent(em, s.cubeEntity, cubeTransform)
	ecs.AddComponent(em, s.cubeEntity, &components.MeshComponent{
		Vertices:  box.Vertices,
		Edges:     box.Edges,
		Color:     cubeColor,
		LineWidth: 1,
	})
	ecs.AddComponent(em, s.cubeEntity, &components.SpinComponent{
		Step: mgl64.Vec3{cube.SpinStep, cube.SpinStep, 0},
	})
	ecs.AddComponent(em, s.cubeEntity, &components.BobComponent{
		MinY:   cube.MinY,
		MaxY:   cube.MaxY,
		Step:   cube.BobStep,
		Rising: true,
	})
	if s.cfg.Displaces(config.TargetCube) {
		ecs.AddComponent(em, s.cubeEntity, &components.DisplacedComponent{})
	}

	// 点云：加载完成后挂载 SplatComponent
	sp := s.cfg.Splat
	s.splatEntity = em.CreateEntity()
	splatTransform := components.NewTransformComponent(mgl64.Vec3(sp.Position))
	splatTransform.Scale = mgl64.Vec3{sp.Scale, sp.Scale, sp.Scale}
	ecs.AddComponent(em, s.splatEntity, splatTransform)
	if s.cfg.Displaces(config.TargetSplat) {
		ecs.AddComponent(em, s.splatEntity, &components.DisplacedComponent{})
	}
}

func (s *ViewerScene) initSystems(opts ViewerOptions) {
	em := s.entityManager

	s.renderSystem = systems.NewRenderSystem(em, s.camera, s.cfg.Skybox.BufferWidth)
	s.renderSystem.RegisterVertexHook(shader.Displacement, s.uniform)
	s.renderSystem.Resize(s.width, s.height)

	s.transformSystem = systems.NewTransformSystem(em, s.params, s.skyboxEntity, s.splatEntity)
	s.motionSystem = systems.NewMotionSystem(em)

	o := s.cfg.Orbit
	if opts.OrbitInput != nil {
		s.orbitSystem = systems.NewOrbitControlSystemWithInput(s.orbit, s.camera, s.renderSystem, o.RotateSpeed, o.ZoomSpeed, opts.OrbitInput)
	} else {
		s.orbitSystem = systems.NewOrbitControlSystem(s.orbit, s.camera, s.renderSystem, o.RotateSpeed, o.ZoomSpeed)
	}

	var sliderSystem *systems.SliderSystem
	if opts.SliderInput != nil {
		sliderSystem = systems.NewSliderSystemWithInput(em, opts.SliderInput)
	} else {
		sliderSystem = systems.NewSliderSystem(em)
	}

	showGUI := s.cfg.GUI.Show && !opts.HideGUI
	if s.settings != nil {
		showGUI = showGUI && s.settings.GetSettings().ShowGUI
	}
	gui := s.cfg.GUI
	gui.Show = showGUI
	s.panel = modules.NewParamPanelModule(em, s.params, sliderSystem, s.renderSystem, gui, s.onParameterChange)
	s.orbitSystem.SetUIHitTest(s.panel.HitTest)
}

// onParameterChange 记录面板修改的参数，退出时保存
func (s *ViewerScene) onParameterChange(string, float64) {
	if s.settings != nil {
		s.settings.CaptureParameters(s.params)
	}
}

// Update 推进一次宿主刷新
// 宿主上下文被取消后返回 game.ErrStopped
func (s *ViewerScene) Update() error {
	s.pollAssets()
	s.handleKeys()

	s.panel.Update()
	s.orbitSystem.Update()

	return s.driver.Tick()
}

// pollAssets 挂载后台加载完成的资源
func (s *ViewerScene) pollAssets() {
	results := s.loader.Poll()
	if len(results) == 0 {
		return
	}

	for _, r := range results {
		if r.Err != nil {
			// 加载失败时句柄保持缺失，场景其余部分继续运行
			continue
		}
		switch r.Kind {
		case game.AssetEnvMap:
			ecs.AddComponent(s.entityManager, s.skyboxEntity, &components.SkyboxComponent{
				Height:   s.params.Get(config.ParamHeight),
				Radius:   s.params.Get(config.ParamRadius),
				Scale:    s.cfg.Skybox.Scale,
				Exposure: s.cfg.Skybox.Exposure,
				Env:      r.EnvMap,
			})
			log.Printf("[ViewerScene] Skybox attached (%dx%d)", r.EnvMap.Width, r.EnvMap.Height)
		case game.AssetSplat:
			ecs.AddComponent(s.entityManager, s.splatEntity, &components.SplatComponent{
				Cloud:     r.Cloud,
				PointSize: s.cfg.Splat.PointSize,
			})
			log.Printf("[ViewerScene] Splat attached (%d points)", r.Cloud.Len())
		}
	}
	s.renderSystem.Redraw()
}

func (s *ViewerScene) handleKeys() {
	if s.keys.IsKeyJustPressed(keyToggleGUI) {
		visible := s.panel.Toggle()
		if s.settings != nil {
			s.settings.SetShowGUI(visible)
		}
		log.Printf("[ViewerScene] GUI visible: %v", visible)
	}
	if s.keys.IsKeyJustPressed(keyReset) {
		s.Reset()
	}
}

// Reset 恢复参数默认值和初始视角
func (s *ViewerScene) Reset() {
	s.params.Reset()
	s.panel.Sync()
	if s.settings != nil {
		s.settings.CaptureParameters(s.params)
	}
	s.orbitSystem.Reset(mgl64.Vec3(s.cfg.Camera.Position), mgl64.Vec3(s.cfg.Orbit.Target), s.orbitLimits)
	s.transformSystem.Update()
	s.renderSystem.Redraw()
	log.Printf("[ViewerScene] Reset parameters and view")
}

// Draw 呈现最近一帧、参数面板和状态信息
func (s *ViewerScene) Draw(screen *ebiten.Image) {
	s.renderSystem.Draw(screen)
	s.panel.Draw(screen)
	s.drawOverlay(screen)
}

func (s *ViewerScene) drawOverlay(screen *ebiten.Image) {
	f := s.driver.LastFrame()
	msg := fmt.Sprintf("FPS %.1f  frame %d  t=%.1fs", ebiten.ActualFPS(), f.Index, f.Elapsed)
	if n := s.loader.Pending(); n > 0 {
		msg += fmt.Sprintf("  loading %d asset(s)", n)
	}
	ebitenutil.DebugPrintAt(screen, msg, 8, screen.Bounds().Dy()-20)
}

// Resize 窗口尺寸变化时更新相机宽高比并重绘
func (s *ViewerScene) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.width, s.height = width, height
	s.renderSystem.Resize(width, height)
	s.renderSystem.Redraw()
}

// SaveOnExit 保存参数和面板状态
func (s *ViewerScene) SaveOnExit() bool {
	s.loader.Close()
	if s.settings == nil {
		return true
	}
	s.settings.CaptureParameters(s.params)
	if err := s.settings.Save(); err != nil {
		log.Printf("[ViewerScene] Failed to save settings: %v", err)
		return false
	}
	return true
}

// Params 返回参数表
func (s *ViewerScene) Params() *game.ParameterStore {
	return s.params
}

// Driver 返回帧循环驱动器
func (s *ViewerScene) Driver() *game.FrameDriver {
	return s.driver
}
