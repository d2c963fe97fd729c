package systems

import (
	"github.com/decker502/waveshooter/pkg/components"
	"github.com/decker502/waveshooter/pkg/config"
	"github.com/decker502/waveshooter/pkg/entities"
	"github.com/decker502/waveshooter/pkg/utils"
)

// ProjectileSystem 子弹移动系统
// 按方向和速度推进每颗活跃子弹，超时或飞出竞技场时归还到对象池
type ProjectileSystem struct {
	pool      *entities.ProjectilePool
	speed     float64
	lifetimeS float64
	boundary  float64
}

// NewProjectileSystem 创建子弹移动系统
func NewProjectileSystem(pool *entities.ProjectilePool, cfg *config.ArenaConfig) *ProjectileSystem {
	return &ProjectileSystem{
		pool:      pool,
		speed:     cfg.Combat.ProjectileSpeed,
		lifetimeS: cfg.Combat.ProjectileLifetimeMs / 1000,
		boundary:  cfg.Arena.Boundary,
	}
}

// Fire 发射一颗子弹，池满时返回 false（本次射击被吸收）
func (s *ProjectileSystem) Fire(origin, dir utils.Vec3, style components.ProjectileStyle) (*components.Projectile, bool) {
	return s.pool.Acquire(origin, dir, style)
}

// Update 推进所有子弹
// 返回本帧归还的子弹数
func (s *ProjectileSystem) Update(dt float64) int {
	released := 0
	s.pool.Each(func(p *components.Projectile) bool {
		p.Age += dt
		p.Position = p.Position.Add(p.Direction.Scale(s.speed * dt))
		if p.Age >= s.lifetimeS || s.outOfBounds(p.Position) {
			s.pool.Release(p.ID)
			released++
		}
		return true
	})
	return released
}

func (s *ProjectileSystem) outOfBounds(p utils.Vec3) bool {
	if s.boundary <= 0 {
		return false
	}
	return p.X < -s.boundary || p.X > s.boundary || p.Z < -s.boundary || p.Z > s.boundary
}
