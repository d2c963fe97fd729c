package ecs

// EntityID 是实体的唯一标识符
// 单调递增分配，销毁后不会复用
type EntityID uint64

// InvalidEntity 无效实体ID，0 保留不分配
const InvalidEntity EntityID = 0

// slot 竞技场中的一个槽位
type slot[T any] struct {
	id    EntityID
	value T
	alive bool
}

// EntityManager 以槽位数组为后备的实体竞技场
// 每个实体持有一个 T 类型的组件值（通常为接口或指针）
// 槽位在实体销毁后回收，但 EntityID 始终递增
type EntityManager[T any] struct {
	nextID uint64
	slots  []slot[T]
	// EntityID -> 槽位下标
	index map[EntityID]int
	// 空闲槽位下标
	free []int
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager[T any]() *EntityManager[T] {
	return &EntityManager[T]{
		nextID: 1, // ID从1开始,0保留为无效ID
		slots:  make([]slot[T], 0),
		index:  make(map[EntityID]int),
		free:   make([]int, 0),
	}
}

// CreateEntity 分配槽位并返回唯一ID
// 组件值为零值，需随后调用 SetComponent
func (em *EntityManager[T]) CreateEntity() EntityID {
	id := EntityID(em.nextID)
	em.nextID++

	var idx int
	if n := len(em.free); n > 0 {
		idx = em.free[n-1]
		em.free = em.free[:n-1]
		em.slots[idx] = slot[T]{id: id, alive: true}
	} else {
		idx = len(em.slots)
		em.slots = append(em.slots, slot[T]{id: id, alive: true})
	}
	em.index[id] = idx
	return id
}

// SetComponent 设置实体的组件值
// 实体不存在时返回 false
func (em *EntityManager[T]) SetComponent(id EntityID, value T) bool {
	idx, ok := em.index[id]
	if !ok {
		return false
	}
	em.slots[idx].value = value
	return true
}

// GetComponent 获取实体的组件值
// 实体已销毁或从未存在时返回零值和 false
func (em *EntityManager[T]) GetComponent(id EntityID) (T, bool) {
	idx, ok := em.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return em.slots[idx].value, true
}

// HasEntity 检查实体是否存活
func (em *EntityManager[T]) HasEntity(id EntityID) bool {
	_, ok := em.index[id]
	return ok
}

// DestroyEntity 立即销毁实体并回收槽位
// 在 Each 遍历中调用是安全的；重复销毁返回 false
func (em *EntityManager[T]) DestroyEntity(id EntityID) bool {
	idx, ok := em.index[id]
	if !ok {
		return false
	}
	delete(em.index, id)
	em.slots[idx] = slot[T]{}
	em.free = append(em.free, idx)
	return true
}

// Each 按槽位顺序遍历存活实体
// fn 返回 false 时提前结束
// 遍历期间新创建的实体不会被访问，被销毁的实体会被跳过
func (em *EntityManager[T]) Each(fn func(id EntityID, value T) bool) {
	limit := EntityID(em.nextID)
	n := len(em.slots)
	for i := 0; i < n; i++ {
		s := em.slots[i]
		if !s.alive || s.id >= limit {
			continue
		}
		if !fn(s.id, s.value) {
			return
		}
	}
}

// Entities 返回所有存活实体ID（槽位顺序）
func (em *EntityManager[T]) Entities() []EntityID {
	result := make([]EntityID, 0, len(em.index))
	for _, s := range em.slots {
		if s.alive {
			result = append(result, s.id)
		}
	}
	return result
}

// Count 返回存活实体数量
func (em *EntityManager[T]) Count() int {
	return len(em.index)
}

// Clear 销毁所有实体
// ID 计数器不会重置，已分配过的 ID 永不复用
func (em *EntityManager[T]) Clear() {
	em.slots = em.slots[:0]
	em.free = em.free[:0]
	em.index = make(map[EntityID]int)
}
