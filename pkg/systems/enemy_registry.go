package systems

import (
	"fmt"
	"log"

	"github.com/decker502/waveshooter/pkg/components"
	"github.com/decker502/waveshooter/pkg/ecs"
	"github.com/decker502/waveshooter/pkg/systems/behavior"
	"github.com/decker502/waveshooter/pkg/utils"
)

// RegistrySnapshot 场上敌人计数
// Active 不含无人机，无人机单独计数并受自己的上限约束
type RegistrySnapshot struct {
	Active int
	Bosses int
	Drones int
	Cones  int
}

// EnemyRegistry 存活敌人的注册表
// 只持有状态机的引用，不负责行为更新
type EnemyRegistry struct {
	em *ecs.EntityManager[behavior.Enemy]
}

// NewEnemyRegistry 创建注册表
func NewEnemyRegistry() *EnemyRegistry {
	return &EnemyRegistry{em: ecs.NewEntityManager[behavior.Enemy]()}
}

// Spawn 分配ID并用 build 构造敌人后注册
// build 失败时回收ID，不会留下空槽位
func (r *EnemyRegistry) Spawn(build func(id ecs.EntityID) (behavior.Enemy, error)) (behavior.Enemy, error) {
	id := r.em.CreateEntity()
	e, err := build(id)
	if err != nil {
		r.em.DestroyEntity(id)
		return nil, fmt.Errorf("failed to build enemy %d: %w", id, err)
	}
	r.em.SetComponent(id, e)
	return e, nil
}

// Remove 注销敌人，已注销时返回 false
func (r *EnemyRegistry) Remove(id ecs.EntityID) bool {
	return r.em.DestroyEntity(id)
}

// Get 按ID查找
func (r *EnemyRegistry) Get(id ecs.EntityID) (behavior.Enemy, bool) {
	return r.em.GetComponent(id)
}

// Each 遍历存活敌人，遍历中注销是安全的
func (r *EnemyRegistry) Each(fn func(e behavior.Enemy) bool) {
	r.em.Each(func(_ ecs.EntityID, e behavior.Enemy) bool {
		if e == nil {
			return true
		}
		return fn(e)
	})
}

// Count 存活敌人总数（含无人机）
func (r *EnemyRegistry) Count() int {
	return r.em.Count()
}

// Snapshot 当前计数
func (r *EnemyRegistry) Snapshot() RegistrySnapshot {
	var s RegistrySnapshot
	r.Each(func(e behavior.Enemy) bool {
		switch a := e.Archetype(); {
		case a == components.ArchetypeDrone:
			s.Drones++
			return true
		case a == components.ArchetypeCone:
			s.Cones++
		}
		s.Active++
		if e.IsBoss() {
			s.Bosses++
		}
		return true
	})
	return s
}

// Nearest 查找 radius 内 XZ 距离最近的敌人
func (r *EnemyRegistry) Nearest(pos utils.Vec3, radius float64) (behavior.Enemy, float64, bool) {
	var best behavior.Enemy
	bestDist := radius
	r.Each(func(e behavior.Enemy) bool {
		if d := e.Position().DistXZ(pos); d <= bestDist {
			best, bestDist = e, d
		}
		return true
	})
	return best, bestDist, best != nil
}

// Separation 计算把 self 推离 radius 内邻居的向量
// 越近推力越大，重合的邻居被忽略
func (r *EnemyRegistry) Separation(self ecs.EntityID, pos utils.Vec3, radius float64) utils.Vec3 {
	var push utils.Vec3
	if radius <= 0 {
		return push
	}
	r.Each(func(e behavior.Enemy) bool {
		if e.ID() == self || e.Archetype() == components.ArchetypeDrone {
			return true
		}
		away := pos.Sub(e.Position()).Horizontal()
		d := away.Len()
		if d < utils.Epsilon || d >= radius {
			return true
		}
		push = push.Add(away.Scale((1 - d/radius) / d))
		return true
	})
	return push
}

// Clear 注销全部敌人
func (r *EnemyRegistry) Clear() {
	if n := r.em.Count(); n > 0 {
		log.Printf("[EnemyRegistry] clear: %d enemies", n)
	}
	r.em.Clear()
}
