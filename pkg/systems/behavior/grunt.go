package behavior

import (
	"github.com/decker502/waveshooter/pkg/config"
	"github.com/decker502/waveshooter/pkg/utils"
)

// minApproachFactor 接近玩家时的最低速度比例
const minApproachFactor = 0.25

// Grunt 追击型近战敌人（小兵、精英、重型聚团）
// 落地后速度按缓动恢复，接近玩家时减速，与邻居保持间距
// 接触玩家即撞击消失
type Grunt struct {
	base
	tuning config.GruntTuning
}

// NewGrunt 创建追击型敌人
func NewGrunt(spec Spec, tuning config.GruntTuning) *Grunt {
	return &Grunt{base: newBase(spec), tuning: tuning}
}

// StateName 状态名
func (g *Grunt) StateName() string {
	switch {
	case g.dropping:
		return "spawning"
	case g.stun.Active():
		return "stunned"
	default:
		return "chasing"
	}
}

// Update 单帧更新
func (g *Grunt) Update(ctx *Context, dt float64) Outcome {
	if g.updateDrop(dt) {
		return alive
	}
	if g.tickCommon(ctx, dt) {
		return alive
	}
	g.sinceLanding += dt

	toPlayer := ctx.Player.Sub(g.pos).Horizontal()
	dist := toPlayer.Len()
	if dist < g.tuning.ContactRadius {
		return g.contact(StatusHitPlayer)
	}

	g.pos = g.pos.Add(g.chaseStep(ctx, toPlayer, dist, g.tuning.Speed, dt))
	g.clampToArena(ctx.Boundary)
	return alive
}

// chaseStep 计算本帧追击位移
func (g *Grunt) chaseStep(ctx *Context, toPlayer utils.Vec3, dist, baseSpeed, dt float64) utils.Vec3 {
	dir, ok := toPlayer.Normalize()
	if !ok {
		return utils.Vec3{}
	}

	speed := baseSpeed * g.speedMul * ctx.SpeedScale
	if r := g.tuning.ApproachSlowRadius; r > 0 && dist < r {
		speed *= utils.Clamp(dist/r, minApproachFactor, 1)
	}
	if s := g.tuning.SettleSeconds; s > 0 && g.sinceLanding < s {
		speed *= utils.EaseOutQuad(g.sinceLanding / s)
	}
	if limit := g.tuning.MaxSpeed * ctx.SpeedScale; limit > 0 && speed > limit {
		speed = limit
	}

	vel := dir.Scale(speed)
	if sep := g.separation(ctx, g.tuning.SeparationRadius); sep.LenSq() > 0 {
		if n, ok := sep.Normalize(); ok {
			vel = vel.Add(n.Scale(speed * 0.5))
		}
	}
	return vel.Scale(dt)
}
