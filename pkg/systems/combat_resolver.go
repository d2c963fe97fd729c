package systems

import (
	"log"

	"github.com/decker502/waveshooter/pkg/components"
	"github.com/decker502/waveshooter/pkg/config"
	"github.com/decker502/waveshooter/pkg/entities"
	"github.com/decker502/waveshooter/pkg/game"
	"github.com/decker502/waveshooter/pkg/systems/behavior"
	"github.com/decker502/waveshooter/pkg/utils"
)

// HitOutcome 单次命中的结算结果
type HitOutcome int

const (
	// HitDamaged 造成伤害（可能为 0 点整数生命，余数进入累积器）
	HitDamaged HitOutcome = iota
	// HitStunned 非致命子弹，仅眩晕
	HitStunned
	// HitShielded 护盾窗口抵消
	HitShielded
	// HitResilient 韧性窗口抵消
	HitResilient
	// HitImmune 需要高能子弹
	HitImmune
	// HitCharging 冲锋中免疫
	HitCharging
)

// CombatStats 战斗统计
type CombatStats struct {
	Hits      int
	Kills     int
	Stuns     int
	Nullified int
}

// CombatResolver 子弹与敌人的碰撞结算
//
// 每颗子弹每帧最多命中一个敌人（命中半径内最近者），命中后立即归还子弹。
// 击退总是施加；非致命子弹只眩晕；其余子弹依次检查护盾、韧性、
// 高能免疫、冲锋免疫，全部通过后才通过小数累积器扣血。
// 高能免疫按命中时的全局高能模式判断，与子弹发射时的样式无关。
type CombatResolver struct {
	HighPower bool // 高能模式

	cfg      *config.ArenaConfig
	pool     *entities.ProjectilePool
	registry *EnemyRegistry
	events   *game.Dispatcher
	stats    CombatStats
}

// NewCombatResolver 创建战斗结算器
func NewCombatResolver(cfg *config.ArenaConfig, pool *entities.ProjectilePool, registry *EnemyRegistry, events *game.Dispatcher) *CombatResolver {
	return &CombatResolver{cfg: cfg, pool: pool, registry: registry, events: events}
}

// Stats 战斗统计
func (r *CombatResolver) Stats() CombatStats { return r.stats }

// Update 结算本帧所有子弹
// 参数:
//
//	now - 模拟时间（毫秒），用于护盾与韧性窗口
func (r *CombatResolver) Update(now float64) {
	r.pool.Each(func(p *components.Projectile) bool {
		target, dist := r.nearestHit(p.Position)
		if target == nil {
			return true
		}
		id := p.ID
		style := p.Style
		origin := p.Position
		r.pool.Release(id)
		r.stats.Hits++
		r.resolveHit(target, origin, dist, style, now)
		return true
	})
}

// nearestHit 命中半径覆盖子弹位置的最近敌人
func (r *CombatResolver) nearestHit(pos utils.Vec3) (behavior.Enemy, float64) {
	var best behavior.Enemy
	bestDist := 0.0
	r.registry.Each(func(e behavior.Enemy) bool {
		d := e.Position().DistXZ(pos)
		if d > e.HitRadius() {
			return true
		}
		if best == nil || d < bestDist {
			best, bestDist = e, d
		}
		return true
	})
	return best, bestDist
}

// resolveHit 结算一次命中
func (r *CombatResolver) resolveHit(e behavior.Enemy, from utils.Vec3, dist float64, style components.ProjectileStyle, now float64) HitOutcome {
	r.applyKnockback(e, from, dist)

	if style.NonLethal {
		e.Stun(r.cfg.Combat.StunMs)
		r.stats.Stuns++
		return HitStunned
	}

	if outcome, nullified := r.checkExceptions(e, now); nullified {
		r.stats.Nullified++
		return outcome
	}

	amount := r.cfg.Combat.BaseDamage * e.DamageScale()
	lost, dead := e.Damage(amount, now)
	if lost > 0 {
		hp, _ := e.HealthPoints()
		r.dispatch(game.EventEnemyDamaged, game.EnemyDamaged{EnemyID: e.ID(), Lost: lost, Remaining: hp})
	}
	if dead {
		r.kill(e)
	}
	return HitDamaged
}

// checkExceptions 按顺序检查伤害例外规则
func (r *CombatResolver) checkExceptions(e behavior.Enemy, now float64) (HitOutcome, bool) {
	def := e.Defense()
	switch {
	case def.ShieldActive(now):
		return HitShielded, true
	case def.ResilienceActive(now):
		return HitResilient, true
	case def.ImmuneStandardFire && !r.HighPower:
		return HitImmune, true
	case e.IsCharging():
		return HitCharging, true
	}
	return HitDamaged, false
}

// applyKnockback 沿子弹指向敌人的方向施加击退，强度随距离线性衰减
// strength = base * (1 - min(dist/falloff, 1)) / max(eps, speedNormalization)
func (r *CombatResolver) applyKnockback(e behavior.Enemy, from utils.Vec3, dist float64) {
	dir, ok := e.Position().Sub(from).Horizontal().Normalize()
	if !ok {
		return
	}
	falloff := 1.0
	if f := r.cfg.Combat.KnockbackFalloff; f > utils.Epsilon {
		falloff = 1 - utils.Clamp(dist/f, 0, 1)
	}
	norm := r.cfg.Combat.SpeedNormalization
	if norm < utils.Epsilon {
		norm = utils.Epsilon
	}
	strength := e.KnockbackBase() * falloff / norm
	if strength <= 0 {
		return
	}
	e.Impulse(dir.X, dir.Z, strength)
}

// kill 注销敌人并派发死亡、得分和掉落事件
func (r *CombatResolver) kill(e behavior.Enemy) {
	if !r.registry.Remove(e.ID()) {
		return
	}
	r.stats.Kills++
	archetype := e.Archetype()
	log.Printf("[CombatResolver] %s %d killed", archetype, e.ID())

	r.dispatch(game.EventEnemyDeath, game.EnemyDeath{
		EnemyID:        e.ID(),
		Archetype:      archetype,
		Species:        e.Species(),
		KilledByPlayer: true,
		Cause:          game.CauseFire,
		Position:       e.Position(),
	})
	if score := r.cfg.Scores[string(archetype)]; score > 0 {
		r.dispatch(game.EventScoreDelta, game.ScoreDelta{Amount: score, Reason: string(archetype)})
	}
	if r.cfg.LootChance > 0 {
		r.dispatch(game.EventLootRoll, game.LootRoll{Position: e.Position(), Chance: r.cfg.LootChance, Source: archetype})
	}
}

func (r *CombatResolver) dispatch(t game.EventType, data any) {
	if r.events != nil {
		r.events.Dispatch(game.Event{Type: t, Data: data})
	}
}
