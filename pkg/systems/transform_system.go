package systems

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/decker502/skysplat/pkg/components"
	"github.com/decker502/skysplat/pkg/config"
	"github.com/decker502/skysplat/pkg/ecs"
	"github.com/decker502/skysplat/pkg/game"
)

// TransformSystem 每帧把参数写入场景对象的变换
//
// 只持有实体 ID（弱引用），不管理实体的生命周期：
//   - 天空盒的 Height / Radius ← 参数 height / radius（不做单位转换）
//   - 旋转对象的 Rotation ← (xRotDeg, yRotDeg, zRotDeg) 转为弧度
//
// 句柄缺失（实体不存在或组件尚未挂载）时只跳过该对象，其余对象照常更新。
type TransformSystem struct {
	entityManager *ecs.EntityManager
	params        *game.ParameterStore

	skybox  ecs.EntityID
	rotated ecs.EntityID
}

// NewTransformSystem 创建变换更新系统
//
// 参数：
//   - em: 实体管理器
//   - params: 参数存储（与编辑面板共享同一个实例）
//   - skybox: 天空盒实体，0 表示暂无
//   - rotated: 受旋转参数控制的实体，0 表示暂无
func NewTransformSystem(em *ecs.EntityManager, params *game.ParameterStore, skybox, rotated ecs.EntityID) *TransformSystem {
	return &TransformSystem{
		entityManager: em,
		params:        params,
		skybox:        skybox,
		rotated:       rotated,
	}
}

// SetSkybox 替换天空盒句柄
func (s *TransformSystem) SetSkybox(id ecs.EntityID) {
	s.skybox = id
}

// SetRotated 替换受旋转参数控制的实体句柄
func (s *TransformSystem) SetRotated(id ecs.EntityID) {
	s.rotated = id
}

// UpdateFrame 实现 game.FrameUpdater
func (s *TransformSystem) UpdateFrame(game.Frame) {
	s.Update()
}

// Update 读取当前参数并写入各句柄
func (s *TransformSystem) Update() {
	if sky, ok := ecs.GetComponent[*components.SkyboxComponent](s.entityManager, s.skybox); ok && sky != nil {
		sky.Height = s.params.Get(config.ParamHeight)
		sky.Radius = s.params.Get(config.ParamRadius)
	}

	if tr, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, s.rotated); ok && tr != nil {
		tr.Rotation = mgl64.Vec3{
			mgl64.DegToRad(s.params.Get(config.ParamXRotDeg)),
			mgl64.DegToRad(s.params.Get(config.ParamYRotDeg)),
			mgl64.DegToRad(s.params.Get(config.ParamZRotDeg)),
		}
	}
}
