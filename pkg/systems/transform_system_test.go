package systems

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/decker502/skysplat/pkg/components"
	"github.com/decker502/skysplat/pkg/config"
	"github.com/decker502/skysplat/pkg/ecs"
	"github.com/decker502/skysplat/pkg/game"
)

func newTransformFixture(t *testing.T) (*ecs.EntityManager, *game.ParameterStore, ecs.EntityID, ecs.EntityID) {
	t.Helper()
	em := ecs.NewEntityManager()
	params := game.NewParameterStore(config.DefaultParameters())

	sky := em.CreateEntity()
	ecs.AddComponent(em, sky, &components.SkyboxComponent{Height: 1, Radius: 1})

	splat := em.CreateEntity()
	ecs.AddComponent(em, splat, components.NewTransformComponent(mgl64.Vec3{0, 2, 0}))
	return em, params, sky, splat
}

// TestTransformSystemWritesParameters 参数写入天空盒和旋转对象
func TestTransformSystemWritesParameters(t *testing.T) {
	em, params, sky, splat := newTransformFixture(t)
	params.Set(config.ParamHeight, 20)
	params.Set(config.ParamRadius, 500)
	params.Set(config.ParamXRotDeg, 90)
	params.Set(config.ParamYRotDeg, 180)
	params.Set(config.ParamZRotDeg, 45)

	NewTransformSystem(em, params, sky, splat).Update()

	skyComp, _ := ecs.GetComponent[*components.SkyboxComponent](em, sky)
	if skyComp.Height != 20 || skyComp.Radius != 500 {
		t.Errorf("skybox = (%v, %v), want (20, 500) unconverted", skyComp.Height, skyComp.Radius)
	}

	tr, _ := ecs.GetComponent[*components.TransformComponent](em, splat)
	want := mgl64.Vec3{math.Pi / 2, math.Pi, math.Pi / 4}
	for i := 0; i < 3; i++ {
		if math.Abs(tr.Rotation[i]-want[i]) > 1e-9 {
			t.Errorf("Rotation[%d] = %v, want %v", i, tr.Rotation[i], want[i])
		}
	}
	if tr.Position != (mgl64.Vec3{0, 2, 0}) {
		t.Errorf("Position changed to %v", tr.Position)
	}
}

// TestTransformSystemSkyboxAbsent 天空盒尚未加载时其余对象照常更新
func TestTransformSystemSkyboxAbsent(t *testing.T) {
	em := ecs.NewEntityManager()
	params := game.NewParameterStore(config.DefaultParameters())
	params.Set(config.ParamYRotDeg, 90)

	sky := em.CreateEntity() // 没有 SkyboxComponent
	splat := em.CreateEntity()
	ecs.AddComponent(em, splat, components.NewTransformComponent(mgl64.Vec3{}))

	sys := NewTransformSystem(em, params, sky, splat)
	sys.Update()

	tr, _ := ecs.GetComponent[*components.TransformComponent](em, splat)
	if math.Abs(tr.Rotation[1]-math.Pi/2) > 1e-9 {
		t.Errorf("Rotation.Y = %v, want π/2", tr.Rotation[1])
	}

	// 天空盒随后就绪，下一帧即被更新
	ecs.AddComponent(em, sky, &components.SkyboxComponent{})
	sys.UpdateFrame(game.Frame{Index: 2})
	skyComp, _ := ecs.GetComponent[*components.SkyboxComponent](em, sky)
	if skyComp.Height != 12.5 || skyComp.Radius != 360 {
		t.Errorf("skybox = (%v, %v), want defaults", skyComp.Height, skyComp.Radius)
	}
}

// TestTransformSystemMissingHandles 句柄为 0 或实体已删除时不出错
func TestTransformSystemMissingHandles(t *testing.T) {
	em, params, sky, splat := newTransformFixture(t)

	sys := NewTransformSystem(em, params, 0, 0)
	sys.Update()

	em.DestroyEntity(splat)
	em.RemoveMarkedEntities()
	sys.SetSkybox(sky)
	sys.SetRotated(splat)
	params.Set(config.ParamHeight, 3)
	sys.Update()

	skyComp, _ := ecs.GetComponent[*components.SkyboxComponent](em, sky)
	if skyComp.Height != 3 {
		t.Errorf("skybox height = %v, want 3", skyComp.Height)
	}
}

// TestTransformSystemDegreesToRadians 角度参数换算
func TestTransformSystemDegreesToRadians(t *testing.T) {
	tests := []struct {
		deg  float64
		want float64
	}{
		{0, 0},
		{90, math.Pi / 2},
		{360, 2 * math.Pi},
		{400, 2 * math.Pi}, // 先截断到 360
	}
	for _, tt := range tests {
		em, params, sky, splat := newTransformFixture(t)
		params.Set(config.ParamXRotDeg, tt.deg)
		NewTransformSystem(em, params, sky, splat).Update()

		tr, _ := ecs.GetComponent[*components.TransformComponent](em, splat)
		if math.Abs(tr.Rotation[0]-tt.want) > 1e-9 {
			t.Errorf("%v° → %v rad, want %v", tt.deg, tr.Rotation[0], tt.want)
		}
	}
}
