package entities

import (
	"log"

	"github.com/decker502/waveshooter/pkg/components"
	"github.com/decker502/waveshooter/pkg/utils"
)

// ProjectilePool 固定容量的子弹对象池
//
// 槽位在创建时一次性分配，之后只在空闲列表和活跃表之间流转，
// 稳定射击时不产生新的分配。池满时 Acquire 直接失败，调用方放弃本次射击。
// 单线程使用。
type ProjectilePool struct {
	slots  []components.Projectile
	free   []int          // 空闲槽位栈
	active map[uint64]int // 逻辑子弹ID -> 槽位
	nextID uint64
}

// NewProjectilePool 创建子弹池
//
// 参数:
//   - capacity: 池容量，小于 1 时按 1 处理
func NewProjectilePool(capacity int) *ProjectilePool {
	if capacity < 1 {
		capacity = 1
	}
	p := &ProjectilePool{
		slots:  make([]components.Projectile, capacity),
		free:   make([]int, 0, capacity),
		active: make(map[uint64]int, capacity),
		nextID: 1,
	}
	// 倒序入栈，使首次获取从 0 号槽位开始
	for i := capacity - 1; i >= 0; i-- {
		p.slots[i].Slot = i
		p.free = append(p.free, i)
	}
	return p
}

// Acquire 获取一颗子弹并初始化
//
// 参数:
//   - origin: 发射位置
//   - dir: 飞行方向，会被归一化
//   - style: 子弹样式
//
// 返回:
//   - *components.Projectile: 子弹，池满时为 nil
//   - bool: 是否成功
func (p *ProjectilePool) Acquire(origin, dir utils.Vec3, style components.ProjectileStyle) (*components.Projectile, bool) {
	if len(p.free) == 0 {
		return nil, false
	}
	n, ok := dir.Normalize()
	if !ok {
		n = utils.Vec3{Z: -1}
	}

	slot := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]

	id := p.nextID
	p.nextID++

	proj := &p.slots[slot]
	*proj = components.Projectile{
		ID:        id,
		Slot:      slot,
		Position:  origin,
		Direction: n,
		Style:     style,
	}
	p.active[id] = slot
	return proj, true
}

// Release 归还子弹
// 重复归还或未知ID返回 false，不会破坏空闲列表
func (p *ProjectilePool) Release(id uint64) bool {
	slot, ok := p.active[id]
	if !ok {
		return false
	}
	delete(p.active, id)
	p.slots[slot].ID = 0
	p.free = append(p.free, slot)
	return true
}

// Get 按逻辑ID查找活跃子弹
func (p *ProjectilePool) Get(id uint64) (*components.Projectile, bool) {
	slot, ok := p.active[id]
	if !ok {
		return nil, false
	}
	return &p.slots[slot], true
}

// Each 按槽位顺序遍历活跃子弹
// fn 返回 false 时停止；遍历期间可以安全地 Release 当前子弹
func (p *ProjectilePool) Each(fn func(proj *components.Projectile) bool) {
	for i := range p.slots {
		if p.slots[i].ID == 0 {
			continue
		}
		if !fn(&p.slots[i]) {
			return
		}
	}
}

// ActiveCount 活跃子弹数
func (p *ProjectilePool) ActiveCount() int { return len(p.active) }

// FreeCount 空闲槽位数
func (p *ProjectilePool) FreeCount() int { return len(p.free) }

// Capacity 池容量
func (p *ProjectilePool) Capacity() int { return len(p.slots) }

// Clear 归还全部子弹
func (p *ProjectilePool) Clear() {
	if n := len(p.active); n > 0 {
		log.Printf("[ProjectilePool] clear: releasing %d projectiles", n)
	}
	for i := range p.slots {
		if p.slots[i].ID != 0 {
			p.Release(p.slots[i].ID)
		}
	}
}
