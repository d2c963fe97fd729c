package behavior

import (
	"log"

	"github.com/decker502/waveshooter/pkg/config"
	"github.com/decker502/waveshooter/pkg/utils"
)

// ConeBoss 跳跃砸地 Boss
// 冷却结束后计算一条落在玩家当前位置的抛物线，落地时对半径内的玩家造成伤害
// 只有在地面时才会被眩晕打断
type ConeBoss struct {
	base
	tuning config.ConeTuning

	airborne bool
	vy       float64
	hv       utils.Vec3 // 水平速度
	cooldown float64
}

// NewConeBoss 创建砸地 Boss
func NewConeBoss(spec Spec, tuning config.ConeTuning) *ConeBoss {
	return &ConeBoss{base: newBase(spec), tuning: tuning, cooldown: tuning.CooldownS}
}

// Airborne 是否在空中
func (c *ConeBoss) Airborne() bool { return c.airborne }

// StateName 状态名
func (c *ConeBoss) StateName() string {
	switch {
	case c.dropping:
		return "spawning"
	case c.airborne:
		return "jumping"
	case c.stun.Active():
		return "stunned"
	default:
		return "grounded"
	}
}

// Stun 空中不受眩晕
func (c *ConeBoss) Stun(durationMs float64) {
	if c.airborne {
		return
	}
	c.base.Stun(durationMs)
}

// Impulse 空中不受击退
func (c *ConeBoss) Impulse(dirX, dirZ, strength float64) {
	if c.airborne {
		return
	}
	c.base.Impulse(dirX, dirZ, strength)
}

// Update 单帧更新
func (c *ConeBoss) Update(ctx *Context, dt float64) Outcome {
	if c.updateDrop(dt) {
		return alive
	}
	if c.airborne {
		return c.fly(ctx, dt)
	}
	if c.tickCommon(ctx, dt) {
		return alive
	}
	c.cooldown -= dt * ctx.SpeedScale
	if c.cooldown <= 0 {
		c.jump(ctx)
	}
	return alive
}

// jump 起跳，水平速度使落点为玩家当前位置，超过上限时截断
func (c *ConeBoss) jump(ctx *Context) {
	g := c.tuning.Gravity
	if g <= 0 || c.tuning.JumpVelocity <= 0 {
		return
	}
	flight := 2 * c.tuning.JumpVelocity / g
	toPlayer := ctx.Player.Sub(c.pos).Horizontal()
	speed := utils.SafeDiv(toPlayer.Len(), flight)
	if speed > c.tuning.MaxJumpSpeed {
		speed = c.tuning.MaxJumpSpeed
	}
	dir, ok := toPlayer.Normalize()
	if !ok {
		speed = 0
	}
	c.airborne = true
	c.vy = c.tuning.JumpVelocity
	c.hv = dir.Scale(speed)
	c.knockback.VX, c.knockback.VZ = 0, 0
	log.Printf("[ConeBoss] %d jump: flight=%.2fs speed=%.1f", c.id, flight, speed)
}

// fly 空中积分，落地时结算砸地
func (c *ConeBoss) fly(ctx *Context, dt float64) Outcome {
	c.pos = c.pos.Add(c.hv.Scale(dt))
	c.pos.Y += c.vy * dt
	c.vy -= c.tuning.Gravity * dt
	c.clampToArena(ctx.Boundary)
	if c.pos.Y > 0 {
		return alive
	}
	c.pos.Y = 0
	c.airborne = false
	c.cooldown = c.tuning.CooldownS
	if c.pos.DistXZ(ctx.Player) <= c.tuning.LandRadius {
		return Outcome{Status: StatusAlive, PlayerDamage: c.contactDamage, Source: string(c.archetype)}
	}
	return alive
}
