package systems

import (
	"github.com/decker502/waveshooter/pkg/components"
	"github.com/decker502/waveshooter/pkg/config"
	"github.com/decker502/waveshooter/pkg/game"
	"github.com/decker502/waveshooter/pkg/systems/behavior"
)

// muzzleHeight 子弹发射高度
const muzzleHeight = 1.0

// AutoFireSystem 自动射击
// 按射速向最近的敌人开火，供无人操作的工具和测试驱动玩家
type AutoFireSystem struct {
	projectiles *ProjectileSystem
	registry    *EnemyRegistry
	player      *game.PlayerState

	Enabled   bool
	HighPower bool // 高能模式
	StunShots bool // 发射非致命眩晕弹

	rateMs   float64
	rangeMax float64
	cooldown float64
	fired    int
	absorbed int // 池满被吸收的射击
}

// NewAutoFireSystem 创建自动射击系统
func NewAutoFireSystem(cfg *config.ArenaConfig, projectiles *ProjectileSystem, registry *EnemyRegistry, player *game.PlayerState) *AutoFireSystem {
	return &AutoFireSystem{
		projectiles: projectiles,
		registry:    registry,
		player:      player,
		rateMs:      cfg.Combat.FireRateMs,
		rangeMax:    cfg.Combat.ProjectileSpeed * cfg.Combat.ProjectileLifetimeMs / 1000,
	}
}

// Fired 累计发射数
func (s *AutoFireSystem) Fired() int { return s.fired }

// Absorbed 池满被吸收的射击数
func (s *AutoFireSystem) Absorbed() int { return s.absorbed }

// Style 当前模式下的子弹样式
func (s *AutoFireSystem) Style() components.ProjectileStyle {
	switch {
	case s.StunShots:
		return components.StyleStun
	case s.HighPower:
		return components.StyleHighPower
	default:
		return components.StyleStandard
	}
}

// Update 冷却结束时向最近敌人开火
func (s *AutoFireSystem) Update(dtMs float64) {
	if s.cooldown > 0 {
		s.cooldown -= dtMs
	}
	if !s.Enabled || s.cooldown > 0 {
		return
	}
	target, _, ok := s.registry.Nearest(s.player.Position, s.rangeMax)
	if !ok {
		return
	}
	s.FireAt(target)
}

// FireAt 向指定敌人开火
func (s *AutoFireSystem) FireAt(target behavior.Enemy) bool {
	origin := s.player.Position
	origin.Y = muzzleHeight
	dir := target.Position().Sub(s.player.Position).Horizontal()
	s.cooldown = s.rateMs
	if _, ok := s.projectiles.Fire(origin, dir, s.Style()); !ok {
		s.absorbed++
		return false
	}
	if d, ok := dir.Normalize(); ok {
		s.player.Facing = d
	}
	s.fired++
	return true
}
