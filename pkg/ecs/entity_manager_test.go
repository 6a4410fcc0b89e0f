package ecs

import (
	"reflect"
	"testing"
)

// 测试组件类型定义
type testTransformComponent struct {
	X, Y, Z float64
}

type testSkyboxComponent struct {
	Height, Radius float64
}

func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()
	id1 := em.CreateEntity()
	id2 := em.CreateEntity()

	// 测试实体ID唯一性
	if id1 == id2 {
		t.Error("Entity IDs should be unique")
	}

	// 测试ID从1开始
	if id1 != 1 {
		t.Errorf("First entity ID should be 1, got %d", id1)
	}

	if id2 != 2 {
		t.Errorf("Second entity ID should be 2, got %d", id2)
	}
}

func TestAddAndGetComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	em.AddComponent(id, &testTransformComponent{X: 1, Y: 2.5, Z: 0})

	comp, found := em.GetComponent(id, reflect.TypeOf(&testTransformComponent{}))
	if !found {
		t.Fatal("Component should be found")
	}

	retrieved := comp.(*testTransformComponent)
	if retrieved.X != 1 || retrieved.Y != 2.5 {
		t.Errorf("Component data mismatch, expected (1, 2.5), got (%f, %f)", retrieved.X, retrieved.Y)
	}
}

func TestHasComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	// 未添加组件前应该返回false
	if em.HasComponent(id, reflect.TypeOf(&testSkyboxComponent{})) {
		t.Error("Should not have component before adding")
	}

	em.AddComponent(id, &testSkyboxComponent{})

	if !em.HasComponent(id, reflect.TypeOf(&testSkyboxComponent{})) {
		t.Error("Should have component after adding")
	}
}

func TestDestroyEntity(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, &testTransformComponent{})

	// 标记删除
	em.DestroyEntity(id)

	// 清理前实体仍存在
	if !em.Exists(id) {
		t.Error("Entity should still exist before cleanup")
	}

	// 清理后实体消失
	em.RemoveMarkedEntities()
	if em.Exists(id) {
		t.Error("Entity should be removed after cleanup")
	}
	if em.HasComponent(id, reflect.TypeOf(&testTransformComponent{})) {
		t.Error("Components should be removed with the entity")
	}
}

func TestGetEntitiesWith(t *testing.T) {
	em := NewEntityManager()

	id1 := em.CreateEntity()
	em.AddComponent(id1, &testTransformComponent{})
	em.AddComponent(id1, &testSkyboxComponent{})

	id2 := em.CreateEntity()
	em.AddComponent(id2, &testTransformComponent{})

	id3 := em.CreateEntity()
	em.AddComponent(id3, &testSkyboxComponent{})

	entities := em.GetEntitiesWith(
		reflect.TypeOf(&testTransformComponent{}),
		reflect.TypeOf(&testSkyboxComponent{}),
	)
	if len(entities) != 1 || entities[0] != id1 {
		t.Errorf("Expected only id1, got %v", entities)
	}

	// 结果按 ID 升序
	transformEntities := em.GetEntitiesWith(reflect.TypeOf(&testTransformComponent{}))
	if len(transformEntities) != 2 {
		t.Fatalf("Expected 2 entities with Transform component, got %d", len(transformEntities))
	}
	if transformEntities[0] != id1 || transformEntities[1] != id2 {
		t.Errorf("Expected ordered [%d %d], got %v", id1, id2, transformEntities)
	}
}

func TestGenericHelpers(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	AddComponent(em, id, &testSkyboxComponent{Height: 12.5, Radius: 360})

	sky, ok := GetComponent[*testSkyboxComponent](em, id)
	if !ok {
		t.Fatal("GetComponent should find the skybox component")
	}
	if sky.Height != 12.5 || sky.Radius != 360 {
		t.Errorf("Unexpected skybox data: %+v", sky)
	}

	// 泛型与反射版本共用同一个存储键
	if !em.HasComponent(id, reflect.TypeOf(&testSkyboxComponent{})) {
		t.Error("Reflection lookup should see generically added component")
	}

	if _, ok := GetComponent[*testTransformComponent](em, id); ok {
		t.Error("Missing component should report false")
	}

	RemoveComponent[*testSkyboxComponent](em, id)
	if HasComponent[*testSkyboxComponent](em, id) {
		t.Error("Component should be removed")
	}
}

func TestGetComponentMissingEntity(t *testing.T) {
	em := NewEntityManager()

	// 句柄尚未创建：查询必须安全返回 false
	if comp, ok := GetComponent[*testTransformComponent](em, EntityID(42)); ok || comp != nil {
		t.Error("Lookup on missing entity should return nil, false")
	}

	// 对不存在的实体添加组件应静默忽略
	AddComponent(em, EntityID(42), &testTransformComponent{})
	if em.Exists(EntityID(42)) {
		t.Error("AddComponent must not create entities implicitly")
	}
}

func TestGetEntitiesWith2(t *testing.T) {
	em := NewEntityManager()
	a := em.CreateEntity()
	AddComponent(em, a, &testTransformComponent{})
	AddComponent(em, a, &testSkyboxComponent{})
	b := em.CreateEntity()
	AddComponent(em, b, &testTransformComponent{})

	got := GetEntitiesWith2[*testTransformComponent, *testSkyboxComponent](em)
	if len(got) != 1 || got[0] != a {
		t.Errorf("GetEntitiesWith2 = %v, want [%d]", got, a)
	}

	if n := len(GetEntitiesWith1[*testTransformComponent](em)); n != 2 {
		t.Errorf("GetEntitiesWith1 = %d entities, want 2", n)
	}
}
