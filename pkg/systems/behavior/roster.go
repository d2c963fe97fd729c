package behavior

import (
	"github.com/decker502/waveshooter/pkg/config"
)

// rosterSpeedFactor 物种表速度到世界速度的换算
const rosterSpeedFactor = 4

// 酶护盾：每个周期中有一段时间处于激活
const (
	EnzymeShieldPeriodMs = 10000
	EnzymeShieldActiveMs = 3000
)

// Roster 物种表敌人
// 移动方式与追击型敌人相同，按物种特性附加护盾、韧性、眩晕免疫或区域危害
type Roster struct {
	*Grunt
	species *config.RosterSpecies

	hazardCooldown float64 // 距下次释放危害（毫秒）
}

// NewRoster 创建物种表敌人
// 参数:
//
//	spec - 通用参数
//	tuning - 基础追击参数，速度会被物种速度覆盖
//	species - 物种定义
//	resilienceMs - 韧性窗口长度
//	shieldPhaseMs - 护盾周期的初始相位
func NewRoster(spec Spec, tuning config.GruntTuning, species *config.RosterSpecies, resilienceMs, shieldPhaseMs float64) *Roster {
	tuning.Speed = species.Speed * rosterSpeedFactor
	tuning.MaxSpeed = tuning.Speed
	spec.Species = species.Name
	spec.Tier = species.Tier
	if species.DamageScale > 0 {
		spec.DamageScale = species.DamageScale
	}

	r := &Roster{Grunt: NewGrunt(spec, tuning), species: species}
	if species.HasTrait(config.TraitEnzymeShield) {
		r.defense.ShieldPeriodMs = EnzymeShieldPeriodMs
		r.defense.ShieldActiveMs = EnzymeShieldActiveMs
		r.defense.ShieldPhaseMs = shieldPhaseMs
	}
	if species.HasTrait(config.TraitResilience) {
		r.defense.ResilienceMs = resilienceMs
	}
	if species.HasTrait(config.TraitStunImmune) {
		r.stun.Immune = true
	}
	if species.Hazard != nil {
		r.hazardCooldown = species.Hazard.CooldownMs
	}
	return r
}

// Update 追击并按冷却释放危害
func (r *Roster) Update(ctx *Context, dt float64) Outcome {
	out := r.Grunt.Update(ctx, dt)
	if out.Status != StatusAlive || r.dropping {
		return out
	}
	if r.species.Hazard != nil && r.species.HasTrait(config.TraitHazard) && ctx.EmitHazard != nil {
		r.hazardCooldown -= dt * 1000
		if r.hazardCooldown <= 0 {
			r.hazardCooldown = r.species.Hazard.CooldownMs
			ctx.EmitHazard(r.id, r.pos, r.species.Hazard)
		}
	}
	return out
}
