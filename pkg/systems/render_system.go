package systems

import (
	"image/color"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/skysplat/internal/envmap"
	"github.com/decker502/skysplat/pkg/components"
	"github.com/decker502/skysplat/pkg/ecs"
	"github.com/decker502/skysplat/pkg/render"
	"github.com/decker502/skysplat/pkg/shader"
)

// 点云绘制参数
const (
	minSplatRadius = 0.75 // 屏幕空间最小半径（像素）
	fastSplatLimit = 1.5  // 小于该半径时画矩形代替圆
)

// LineSegment 投影后的屏幕线段
type LineSegment struct {
	X0, Y0, X1, Y1 float32
	Width          float32
	Color          color.RGBA
}

// skyCacheKey 天空盒背景的缓存键，任一字段变化都需要重新计算
type skyCacheKey struct {
	camPos, camTarget     mgl64.Vec3
	fov, aspect           float64
	height, radius, scale float64
	exposure              float64
	env                   *envmap.EnvMap
	bufWidth, bufHeight   int
}

// RenderSystem 软件渲染引擎
//
// Redraw 在 CPU 上构建一帧：
//  1. 天空盒背景：低分辨率缓冲的每个像素做地面投影、采样环境贴图并色调映射，
//     相机和天空盒参数不变时复用缓存
//  2. 线框网格：每个顶点按 P·V·M·D(local, t)·p 投影，任一端点在相机后方的边被丢弃
//  3. 点云：投影中心点，按深度从远到近排序
//
// Draw 把构建好的帧呈现到 ebiten 屏幕上。两者都只在主线程调用。
type RenderSystem struct {
	entityManager *ecs.EntityManager
	camera        *render.Camera
	viewport      render.Viewport

	hook    shader.DisplacementFunc
	uniform *shader.TimeUniform

	skyBufferWidth int
	skyPix         []byte
	skyW, skyH     int
	skyKey         skyCacheKey
	skyValid       bool
	skyVersion     uint64

	skyImage        *ebiten.Image
	uploadedVersion uint64

	lines  []LineSegment
	splats []render.ProjectedSplat

	noSkyboxLogged bool
	redraws        uint64
}

// NewRenderSystem 创建渲染系统
//
// 参数：
//   - em: 实体管理器
//   - camera: 场景相机（与轨道控制共享）
//   - skyBufferWidth: 天空盒背景缓冲的宽度（像素），高度按屏幕比例计算
func NewRenderSystem(em *ecs.EntityManager, camera *render.Camera, skyBufferWidth int) *RenderSystem {
	if skyBufferWidth <= 0 {
		skyBufferWidth = 320
	}
	return &RenderSystem{
		entityManager:  em,
		camera:         camera,
		skyBufferWidth: skyBufferWidth,
	}
}

// RegisterVertexHook 注册逐顶点位移函数及其时间 uniform
// 带 DisplacedComponent 的实体在模型变换前经过该函数
func (s *RenderSystem) RegisterVertexHook(fn shader.DisplacementFunc, uniform *shader.TimeUniform) {
	s.hook = fn
	s.uniform = uniform
}

// Resize 更新视口尺寸和相机宽高比
func (s *RenderSystem) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.viewport = render.Viewport{Width: float64(width), Height: float64(height)}
	s.camera.SetAspect(width, height)
}

// Redraw 构建一帧
func (s *RenderSystem) Redraw() {
	if s.viewport.Width <= 0 || s.viewport.Height <= 0 {
		return
	}
	s.redraws++

	s.buildSkybox()

	viewProj := s.camera.ViewProjection()
	t := s.uniform.Value()
	s.buildMeshes(viewProj, t)
	s.buildSplats(viewProj, t)
}

// buildSkybox 计算天空盒背景，缓存有效时直接返回
func (s *RenderSystem) buildSkybox() {
	ids := ecs.GetEntitiesWith1[*components.SkyboxComponent](s.entityManager)
	if len(ids) == 0 {
		if !s.noSkyboxLogged {
			log.Printf("[RenderSystem] no skybox")
			s.noSkyboxLogged = true
		}
		s.skyValid = false
		return
	}
	sky, _ := ecs.GetComponent[*components.SkyboxComponent](s.entityManager, ids[0])

	w := s.skyBufferWidth
	h := int(math.Round(float64(w) * s.viewport.Height / s.viewport.Width))
	if h < 1 {
		h = 1
	}

	key := skyCacheKey{
		camPos:    s.camera.Position,
		camTarget: s.camera.Target,
		fov:       s.camera.FOVDeg,
		aspect:    s.camera.Aspect,
		height:    sky.Height,
		radius:    sky.Radius,
		scale:     sky.Scale,
		exposure:  sky.Exposure,
		env:       sky.Env,
		bufWidth:  w,
		bufHeight: h,
	}
	if s.skyValid && key == s.skyKey {
		return
	}

	if len(s.skyPix) != w*h*4 {
		s.skyPix = make([]byte, w*h*4)
	}
	buf := render.Viewport{Width: float64(w), Height: float64(h)}
	proj := render.GroundProjection{Height: sky.Height, Radius: sky.Radius, Scale: sky.Scale}
	exposure := sky.Exposure
	if exposure <= 0 {
		exposure = 1
	}

	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			nx, ny := buf.PixelToNDC(px, py)
			dir := proj.Direction(s.camera.Position, s.camera.Ray(nx, ny))
			c := render.ToneMapRGBA(sky.Env.Sample(dir), exposure)
			i := (py*w + px) * 4
			s.skyPix[i] = c.R
			s.skyPix[i+1] = c.G
			s.skyPix[i+2] = c.B
			s.skyPix[i+3] = c.A
		}
	}

	s.skyW, s.skyH = w, h
	s.skyKey = key
	s.skyValid = true
	s.skyVersion++
}

// displace 对局部坐标施加位移函数
func (s *RenderSystem) displace(p mgl64.Vec3, t float64) mgl64.Vec3 {
	return s.hook(p, t).Mul4x1(p.Vec4(1)).Vec3()
}

func (s *RenderSystem) buildMeshes(viewProj mgl64.Mat4, t float64) {
	s.lines = s.lines[:0]
	var projected []render.ScreenPoint
	var visible []bool

	for _, id := range ecs.GetEntitiesWith2[*components.TransformComponent, *components.MeshComponent](s.entityManager) {
		tr, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		mesh, _ := ecs.GetComponent[*components.MeshComponent](s.entityManager, id)
		displaced := s.hook != nil && ecs.HasComponent[*components.DisplacedComponent](s.entityManager, id)

		mvp := viewProj.Mul4(render.ModelMatrix(tr.Position, tr.Rotation, tr.Scale))
		projected = projected[:0]
		visible = visible[:0]
		for _, v := range mesh.Vertices {
			if displaced {
				v = s.displace(v, t)
			}
			sp, ok := s.viewport.Project(mvp, v)
			projected = append(projected, sp)
			visible = append(visible, ok)
		}

		width := mesh.LineWidth
		if width <= 0 {
			width = 1
		}
		for _, e := range mesh.Edges {
			a, b := e[0], e[1]
			if a < 0 || b < 0 || a >= len(projected) || b >= len(projected) || !visible[a] || !visible[b] {
				continue
			}
			s.lines = append(s.lines, LineSegment{
				X0:    float32(projected[a].X),
				Y0:    float32(projected[a].Y),
				X1:    float32(projected[b].X),
				Y1:    float32(projected[b].Y),
				Width: width,
				Color: mesh.Color,
			})
		}
	}
}

func (s *RenderSystem) buildSplats(viewProj mgl64.Mat4, t float64) {
	s.splats = s.splats[:0]
	focal := s.viewport.Height / (2 * math.Tan(mgl64.DegToRad(s.camera.FOVDeg)/2))

	for _, id := range ecs.GetEntitiesWith2[*components.TransformComponent, *components.SplatComponent](s.entityManager) {
		tr, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		sp, _ := ecs.GetComponent[*components.SplatComponent](s.entityManager, id)
		if sp.Cloud.Len() == 0 {
			continue
		}
		displaced := s.hook != nil && ecs.HasComponent[*components.DisplacedComponent](s.entityManager, id)

		mvp := viewProj.Mul4(render.ModelMatrix(tr.Position, tr.Rotation, tr.Scale))
		scale := math.Max(tr.Scale[0], math.Max(tr.Scale[1], tr.Scale[2]))
		pointSize := sp.PointSize
		if pointSize <= 0 {
			pointSize = 1
		}

		for _, p := range sp.Cloud.Points {
			if p.Color.A == 0 {
				continue
			}
			pos := p.Position
			if displaced {
				pos = s.displace(pos, t)
			}
			screen, ok := s.viewport.Project(mvp, pos)
			if !ok || screen.Depth < s.camera.Near || screen.Depth > s.camera.Far {
				continue
			}
			s.splats = append(s.splats, render.ProjectedSplat{
				X:      screen.X,
				Y:      screen.Y,
				Depth:  screen.Depth,
				Radius: render.ScreenRadius(p.Radius()*scale*pointSize, screen.Depth, focal, minSplatRadius),
				Color:  premultiply(p.Color),
			})
		}
	}
	render.SortBackToFront(s.splats)
}

// premultiply 转换为 ebiten 使用的预乘 alpha 颜色
func premultiply(c color.NRGBA) color.RGBA {
	a := uint16(c.A)
	return color.RGBA{
		R: uint8(uint16(c.R) * a / 255),
		G: uint8(uint16(c.G) * a / 255),
		B: uint8(uint16(c.B) * a / 255),
		A: c.A,
	}
}

// Draw 呈现最近一次 Redraw 构建的帧
func (s *RenderSystem) Draw(screen *ebiten.Image) {
	s.drawSkybox(screen)

	for _, l := range s.lines {
		vector.StrokeLine(screen, l.X0, l.Y0, l.X1, l.Y1, l.Width, l.Color, true)
	}

	for _, sp := range s.splats {
		r := float32(sp.Radius)
		if sp.Radius < fastSplatLimit {
			vector.FillRect(screen, float32(sp.X)-r, float32(sp.Y)-r, 2*r, 2*r, sp.Color, false)
		} else {
			vector.FillCircle(screen, float32(sp.X), float32(sp.Y), r, sp.Color, true)
		}
	}
}

func (s *RenderSystem) drawSkybox(screen *ebiten.Image) {
	if !s.skyValid {
		screen.Fill(color.Black)
		return
	}

	if s.skyImage == nil || s.skyImage.Bounds().Dx() != s.skyW || s.skyImage.Bounds().Dy() != s.skyH {
		if s.skyImage != nil {
			s.skyImage.Deallocate()
		}
		s.skyImage = ebiten.NewImage(s.skyW, s.skyH)
		s.uploadedVersion = 0
	}
	if s.uploadedVersion != s.skyVersion {
		s.skyImage.WritePixels(s.skyPix)
		s.uploadedVersion = s.skyVersion
	}

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(sw)/float64(s.skyW), float64(sh)/float64(s.skyH))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(s.skyImage, op)
}

// Redraws 返回 Redraw 的调用次数
func (s *RenderSystem) Redraws() uint64 {
	return s.redraws
}

// Lines 返回最近一帧的线段
func (s *RenderSystem) Lines() []LineSegment {
	return s.lines
}

// Splats 返回最近一帧的点云元素（从远到近）
func (s *RenderSystem) Splats() []render.ProjectedSplat {
	return s.splats
}

// SkyboxBuffer 返回天空盒背景的 RGBA 像素及尺寸；天空盒缺失时 ok 为 false
func (s *RenderSystem) SkyboxBuffer() (pix []byte, width, height int, ok bool) {
	if !s.skyValid {
		return nil, 0, 0, false
	}
	return s.skyPix, s.skyW, s.skyH, true
}

// SkyboxVersion 每次天空盒背景重新计算时递增
func (s *RenderSystem) SkyboxVersion() uint64 {
	return s.skyVersion
}
