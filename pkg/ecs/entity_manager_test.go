package ecs

import "testing"

// 测试组件类型定义
type testPositionComponent struct {
	X, Y float64
}

func TestCreateEntity(t *testing.T) {
	em := NewEntityManager[*testPositionComponent]()
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

func TestSetAndGetComponent(t *testing.T) {
	em := NewEntityManager[*testPositionComponent]()
	id := em.CreateEntity()

	if !em.SetComponent(id, &testPositionComponent{X: 100, Y: 200}) {
		t.Fatal("SetComponent should succeed for live entity")
	}

	comp, found := em.GetComponent(id)
	if !found {
		t.Fatal("Component should be found")
	}
	if comp.X != 100 || comp.Y != 200 {
		t.Errorf("Component data mismatch, expected (100, 200), got (%f, %f)", comp.X, comp.Y)
	}

	if em.SetComponent(999, &testPositionComponent{}) {
		t.Error("SetComponent should fail for unknown entity")
	}
}

func TestDestroyEntity(t *testing.T) {
	em := NewEntityManager[int]()
	id := em.CreateEntity()
	em.SetComponent(id, 7)

	if !em.DestroyEntity(id) {
		t.Fatal("DestroyEntity should succeed the first time")
	}
	if em.HasEntity(id) {
		t.Error("Entity should be gone after DestroyEntity")
	}
	if _, found := em.GetComponent(id); found {
		t.Error("Stale lookup should report not found")
	}
	// 重复销毁为空操作
	if em.DestroyEntity(id) {
		t.Error("Second DestroyEntity should be a no-op")
	}
	if em.Count() != 0 {
		t.Errorf("Count: expected 0, got %d", em.Count())
	}
}

func TestIDsNeverReused(t *testing.T) {
	em := NewEntityManager[int]()
	seen := make(map[EntityID]bool)

	for round := 0; round < 5; round++ {
		ids := make([]EntityID, 0, 10)
		for i := 0; i < 10; i++ {
			id := em.CreateEntity()
			if seen[id] {
				t.Fatalf("EntityID %d reused", id)
			}
			seen[id] = true
			ids = append(ids, id)
		}
		for _, id := range ids {
			em.DestroyEntity(id)
		}
	}

	em.Clear()
	if id := em.CreateEntity(); seen[id] {
		t.Errorf("EntityID %d reused after Clear", id)
	}
}

func TestSlotReuse(t *testing.T) {
	em := NewEntityManager[int]()
	a := em.CreateEntity()
	em.CreateEntity()
	em.DestroyEntity(a)
	em.CreateEntity()

	if len(em.slots) != 2 {
		t.Errorf("freed slot should be reused, got %d slots", len(em.slots))
	}
}

func TestEachSafeDuringMutation(t *testing.T) {
	em := NewEntityManager[int]()
	ids := make([]EntityID, 0, 5)
	for i := 0; i < 5; i++ {
		id := em.CreateEntity()
		em.SetComponent(id, i)
		ids = append(ids, id)
	}

	visited := 0
	em.Each(func(id EntityID, v int) bool {
		visited++
		// 遍历中销毁后一个实体并创建新实体
		if id == ids[0] {
			em.DestroyEntity(ids[1])
			newID := em.CreateEntity()
			em.SetComponent(newID, 100)
		}
		if v == 100 {
			t.Error("entity created during Each should not be visited")
		}
		return true
	})

	// ids[1] 被跳过，新实体不被访问
	if visited != 4 {
		t.Errorf("Each visited %d entities, expected 4", visited)
	}
	if em.Count() != 5 {
		t.Errorf("Count: expected 5, got %d", em.Count())
	}
}

func TestEachEarlyStop(t *testing.T) {
	em := NewEntityManager[int]()
	for i := 0; i < 3; i++ {
		em.CreateEntity()
	}

	visited := 0
	em.Each(func(id EntityID, v int) bool {
		visited++
		return false
	})
	if visited != 1 {
		t.Errorf("Each should stop after first callback, visited %d", visited)
	}
}

func TestEntitiesOrder(t *testing.T) {
	em := NewEntityManager[string]()
	a := em.CreateEntity()
	b := em.CreateEntity()
	c := em.CreateEntity()
	em.DestroyEntity(b)

	got := em.Entities()
	if len(got) != 2 || got[0] != a || got[1] != c {
		t.Errorf("Entities() = %v, expected [%d %d]", got, a, c)
	}
}
