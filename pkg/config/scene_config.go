package config

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/decker502/skysplat/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig 场景配置不合法
var ErrInvalidConfig = errors.New("invalid scene config")

// 参数名称（与调试面板、持久化文件中的键一致）
const (
	ParamHeight  = "height"
	ParamRadius  = "radius"
	ParamXRotDeg = "xRotDeg"
	ParamYRotDeg = "yRotDeg"
	ParamZRotDeg = "zRotDeg"
)

// KnownParameters 所有参数名称，按面板显示顺序排列
var KnownParameters = []string{ParamHeight, ParamRadius, ParamXRotDeg, ParamYRotDeg, ParamZRotDeg}

// 位移函数可作用的对象
const (
	TargetCube  = "cube"
	TargetSplat = "splat"
)

// SceneConfig 场景配置的顶层结构
type SceneConfig struct {
	Window       WindowConfig       `yaml:"window"`
	Camera       CameraConfig       `yaml:"camera"`
	Orbit        OrbitConfig        `yaml:"orbit"`
	Skybox       SkyboxConfig       `yaml:"skybox"`
	Cube         CubeConfig         `yaml:"cube"`
	Splat        SplatConfig        `yaml:"splat"`
	Parameters   []ParameterConfig  `yaml:"parameters"`
	Displacement DisplacementConfig `yaml:"displacement"`
	GUI          GUIConfig          `yaml:"gui"`
}

// WindowConfig 窗口配置
type WindowConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	Resizable bool   `yaml:"resizable"`
}

// CameraConfig 透视相机配置
type CameraConfig struct {
	FOVDeg   float64    `yaml:"fovDeg"`   // 垂直视场角（度）
	Near     float64    `yaml:"near"`     // 近裁剪面
	Far      float64    `yaml:"far"`      // 远裁剪面
	Position [3]float64 `yaml:"position"` // 初始位置
}

// OrbitConfig 轨道控制器配置
type OrbitConfig struct {
	Target      [3]float64 `yaml:"target"`
	MinPolarDeg float64    `yaml:"minPolarDeg"` // 天空方向的极角下限
	MaxPolarDeg float64    `yaml:"maxPolarDeg"` // 地面方向的极角上限
	MinDistance float64    `yaml:"minDistance"`
	MaxDistance float64    `yaml:"maxDistance"`
	EnablePan   bool       `yaml:"enablePan"`
	RotateSpeed float64    `yaml:"rotateSpeed"` // 每像素旋转的弧度
	ZoomSpeed   float64    `yaml:"zoomSpeed"`   // 每格滚轮的缩放比例
}

// SkyboxConfig 地面投影天空盒配置
type SkyboxConfig struct {
	Scale       float64 `yaml:"scale"`       // 天空盒整体缩放
	EnvMap      string  `yaml:"envMap"`      // 环境贴图路径，为空时使用程序化天空
	BufferWidth int     `yaml:"bufferWidth"` // 背景缓冲宽度（像素），高度按窗口比例计算
	MaxTexWidth int     `yaml:"maxTexWidth"` // 环境贴图加载后的最大宽度
	Exposure    float64 `yaml:"exposure"`    // 色调映射前的曝光倍数
}

// CubeConfig 线框立方体配置
type CubeConfig struct {
	Size     float64 `yaml:"size"`
	Scale    float64 `yaml:"scale"`
	StartY   float64 `yaml:"startY"`
	MinY     float64 `yaml:"minY"`     // 下行到此高度后转为上行
	MaxY     float64 `yaml:"maxY"`     // 上行到此高度后转为下行
	BobStep  float64 `yaml:"bobStep"`  // 每帧升降距离
	SpinStep float64 `yaml:"spinStep"` // 每帧绕 X/Y 轴旋转的弧度
	Color    string  `yaml:"color"`
}

// SplatConfig 点云配置
type SplatConfig struct {
	Path      string     `yaml:"path"`
	Position  [3]float64 `yaml:"position"`
	Scale     float64    `yaml:"scale"`
	PointSize float64    `yaml:"pointSize"` // 屏幕空间点大小系数
	MaxPoints int        `yaml:"maxPoints"` // 0 表示不限制
}

// ParameterConfig 单个可编辑参数
type ParameterConfig struct {
	Name    string  `yaml:"name"`
	Label   string  `yaml:"label"`
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Step    float64 `yaml:"step"`
	Default float64 `yaml:"default"`
}

// DisplacementConfig 逐顶点位移作用对象
type DisplacementConfig struct {
	Targets []string `yaml:"targets"`
}

// GUIConfig 调试面板配置
type GUIConfig struct {
	Show  bool    `yaml:"show"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Width float64 `yaml:"width"`
}

// DefaultSceneConfig 返回默认场景配置
func DefaultSceneConfig() *SceneConfig {
	return &SceneConfig{
		Window: WindowConfig{
			Width:     1280,
			Height:    720,
			Title:     "skysplat",
			Resizable: true,
		},
		Camera: CameraConfig{
			FOVDeg:   75,
			Near:     0.1,
			Far:      1000,
			Position: [3]float64{0, 0, 2},
		},
		Orbit: OrbitConfig{
			Target:      [3]float64{0, 2, 0},
			MinPolarDeg: 30,
			MaxPolarDeg: 80,
			MinDistance: 4,
			MaxDistance: 12,
			EnablePan:   false,
			RotateSpeed: 0.005,
			ZoomSpeed:   0.95,
		},
		Skybox: SkyboxConfig{
			Scale:       100,
			BufferWidth: 320,
			MaxTexWidth: 1024,
			Exposure:    1.0,
		},
		Cube: CubeConfig{
			Size:     1,
			Scale:    2,
			StartY:   2.5,
			MinY:     2,
			MaxY:     3,
			BobStep:  0.0025,
			SpinStep: 0.01,
			Color:    "#00ff00",
		},
		Splat: SplatConfig{
			Position:  [3]float64{0, 2, 0},
			Scale:     1,
			PointSize: 1.0,
		},
		Parameters: DefaultParameters(),
		Displacement: DisplacementConfig{
			Targets: []string{TargetSplat},
		},
		GUI: GUIConfig{
			Show:  true,
			X:     16,
			Y:     16,
			Width: 220,
		},
	}
}

// DefaultParameters 返回默认参数列表
func DefaultParameters() []ParameterConfig {
	return []ParameterConfig{
		{Name: ParamHeight, Label: "Skybox height", Min: 0, Max: 50, Step: 0.1, Default: 12.5},
		{Name: ParamRadius, Label: "Skybox radius", Min: 200, Max: 1000, Step: 0.1, Default: 360},
		{Name: ParamXRotDeg, Label: "Splat rotation X", Min: 0, Max: 360, Step: 1, Default: 0},
		{Name: ParamYRotDeg, Label: "Splat rotation Y", Min: 0, Max: 360, Step: 1, Default: 0},
		{Name: ParamZRotDeg, Label: "Splat rotation Z", Min: 0, Max: 360, Step: 1, Default: 0},
	}
}

// LoadSceneConfig 加载场景配置
// 优先从嵌入资源读取，找不到时回退到文件系统（用于 -config 参数指定外部文件）
func LoadSceneConfig(path string) (*SceneConfig, error) {
	var (
		data []byte
		err  error
	)
	if embedded.Exists(path) {
		data, err = embedded.ReadFile(path)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read scene config %s: %w", path, err)
	}

	cfg, err := ParseSceneConfig(data)
	if err != nil {
		return nil, fmt.Errorf("scene config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseSceneConfig 解析 YAML 数据
// 未出现的字段保留默认值
func ParseSceneConfig(data []byte) (*SceneConfig, error) {
	cfg := DefaultSceneConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scene config YAML: %w", err)
	}

	mergeParameterDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeParameterDefaults 补齐配置文件中缺失的参数
// 配置文件只写部分参数时，其余参数使用默认定义
func mergeParameterDefaults(cfg *SceneConfig) {
	present := make(map[string]bool, len(cfg.Parameters))
	for _, p := range cfg.Parameters {
		present[p.Name] = true
	}
	for _, def := range DefaultParameters() {
		if !present[def.Name] {
			cfg.Parameters = append(cfg.Parameters, def)
		}
	}
}

// Validate 检查配置的合法性
func (c *SceneConfig) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size must be positive, got %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}
	if c.Camera.FOVDeg <= 0 || c.Camera.FOVDeg >= 180 {
		return fmt.Errorf("%w: camera fovDeg must be in (0, 180), got %v", ErrInvalidConfig, c.Camera.FOVDeg)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("%w: camera near/far must satisfy 0 < near < far, got %v/%v", ErrInvalidConfig, c.Camera.Near, c.Camera.Far)
	}
	if c.Orbit.MinPolarDeg > c.Orbit.MaxPolarDeg {
		return fmt.Errorf("%w: orbit minPolarDeg %v > maxPolarDeg %v", ErrInvalidConfig, c.Orbit.MinPolarDeg, c.Orbit.MaxPolarDeg)
	}
	if c.Orbit.MinDistance <= 0 || c.Orbit.MinDistance > c.Orbit.MaxDistance {
		return fmt.Errorf("%w: orbit distance range [%v, %v] is invalid", ErrInvalidConfig, c.Orbit.MinDistance, c.Orbit.MaxDistance)
	}
	if c.Skybox.Scale <= 0 {
		return fmt.Errorf("%w: skybox scale must be positive", ErrInvalidConfig)
	}
	if c.Skybox.BufferWidth <= 0 {
		return fmt.Errorf("%w: skybox bufferWidth must be positive", ErrInvalidConfig)
	}
	if c.Cube.MinY > c.Cube.MaxY {
		return fmt.Errorf("%w: cube minY %v > maxY %v", ErrInvalidConfig, c.Cube.MinY, c.Cube.MaxY)
	}
	if _, err := ParseHexColor(c.Cube.Color); err != nil {
		return fmt.Errorf("%w: cube color: %v", ErrInvalidConfig, err)
	}

	seen := make(map[string]bool, len(c.Parameters))
	for _, p := range c.Parameters {
		if !isKnownParameter(p.Name) {
			return fmt.Errorf("%w: unknown parameter %q", ErrInvalidConfig, p.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: duplicate parameter %q", ErrInvalidConfig, p.Name)
		}
		seen[p.Name] = true

		if math.IsNaN(p.Min) || math.IsNaN(p.Max) || p.Min > p.Max {
			return fmt.Errorf("%w: parameter %q has invalid range [%v, %v]", ErrInvalidConfig, p.Name, p.Min, p.Max)
		}
		if p.Step <= 0 {
			return fmt.Errorf("%w: parameter %q step must be positive", ErrInvalidConfig, p.Name)
		}
		if p.Default < p.Min || p.Default > p.Max {
			return fmt.Errorf("%w: parameter %q default %v outside [%v, %v]", ErrInvalidConfig, p.Name, p.Default, p.Min, p.Max)
		}
	}

	for _, target := range c.Displacement.Targets {
		if target != TargetCube && target != TargetSplat {
			return fmt.Errorf("%w: unknown displacement target %q", ErrInvalidConfig, target)
		}
	}
	return nil
}

// Parameter 按名称查找参数定义
func (c *SceneConfig) Parameter(name string) (ParameterConfig, bool) {
	for _, p := range c.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return ParameterConfig{}, false
}

// Displaces 判断位移函数是否作用于指定对象
func (c *SceneConfig) Displaces(target string) bool {
	for _, t := range c.Displacement.Targets {
		if t == target {
			return true
		}
	}
	return false
}

func isKnownParameter(name string) bool {
	for _, known := range KnownParameters {
		if known == name {
			return true
		}
	}
	return false
}

// ParseHexColor 解析 "#rrggbb" 或 "0xrrggbb" 格式的颜色
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "#"), "0x")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("color %q must have 6 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}
