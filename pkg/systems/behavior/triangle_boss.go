package behavior

import (
	"log"

	"github.com/decker502/waveshooter/pkg/config"
	"github.com/decker502/waveshooter/pkg/utils"
)

// TriangleState 三角 Boss 状态
type TriangleState int

const (
	// TriangleSpawning 掉落出生
	TriangleSpawning TriangleState = iota
	// TriangleCircling 环绕玩家并积累冲锋计时
	TriangleCircling
	// TriangleCharging 沿锁定方向冲锋
	TriangleCharging
)

// String 状态名
func (s TriangleState) String() string {
	switch s {
	case TriangleSpawning:
		return "spawning"
	case TriangleCircling:
		return "circling"
	case TriangleCharging:
		return "charging"
	default:
		return "unknown"
	}
}

// radialGain 环绕时修正半径偏差的增益
const radialGain = 1.5

// TriangleBoss 环绕/冲锋 Boss
//
// 环绕阶段冲锋计时只在未眩晕时累积；达到阈值后锁定当前指向玩家的方向冲锋，
// 持续 ChargeDurationS 或接近玩家后回到环绕并清零计时。
// 冲锋中被眩晕会立即中断回到环绕。冲锋期间免疫击退。
type TriangleBoss struct {
	base
	tuning config.TriangleTuning

	state          TriangleState
	chargeTimer    float64 // 环绕阶段累积（秒）
	chargeElapsed  float64 // 本次冲锋已持续（秒）
	chargeDir      utils.Vec3
	contactCooling float64
	orbitSign      float64
}

// NewTriangleBoss 创建三角 Boss
func NewTriangleBoss(spec Spec, tuning config.TriangleTuning) *TriangleBoss {
	b := &TriangleBoss{
		base:      newBase(spec),
		tuning:    tuning,
		state:     TriangleSpawning,
		orbitSign: 1,
	}
	if !b.dropping {
		b.state = TriangleCircling
	}
	return b
}

// State 当前状态
func (b *TriangleBoss) State() TriangleState { return b.state }

// ChargeTimer 当前冲锋计时（秒）
func (b *TriangleBoss) ChargeTimer() float64 { return b.chargeTimer }

// StateName 状态名，眩晕时报告 stunned
func (b *TriangleBoss) StateName() string {
	if b.stun.Active() {
		return "stunned"
	}
	return b.state.String()
}

// IsCharging 仅在冲锋状态为 true
func (b *TriangleBoss) IsCharging() bool {
	return b.state == TriangleCharging
}

// Stun 施加眩晕，冲锋中被眩晕立即中断
func (b *TriangleBoss) Stun(durationMs float64) {
	b.base.Stun(durationMs)
	if b.stun.Active() && b.state == TriangleCharging {
		b.endCharge("stunned")
	}
}

// Impulse 冲锋期间不受击退
func (b *TriangleBoss) Impulse(dirX, dirZ, strength float64) {
	if b.state == TriangleCharging {
		return
	}
	b.base.Impulse(dirX, dirZ, strength)
}

// Update 单帧更新
func (b *TriangleBoss) Update(ctx *Context, dt float64) Outcome {
	if b.state == TriangleSpawning {
		if b.updateDrop(dt) {
			return alive
		}
		b.state = TriangleCircling
		b.chargeTimer = 0
	}

	if b.contactCooling > 0 {
		b.contactCooling -= dt
	}
	if b.tickCommon(ctx, dt) {
		return alive
	}

	toPlayer := ctx.Player.Sub(b.pos).Horizontal()
	dist := toPlayer.Len()

	switch b.state {
	case TriangleCircling:
		b.circle(ctx, toPlayer, dist, dt)
		b.chargeTimer += dt
		if b.chargeTimer >= b.tuning.ChargeThresholdS {
			b.beginCharge(toPlayer)
		}
	case TriangleCharging:
		b.chargeElapsed += dt
		speed := b.tuning.ChargeSpeed * ctx.SpeedScale
		b.pos = b.pos.Add(b.chargeDir.Scale(speed * dt))
		b.clampToArena(ctx.Boundary)
		if b.chargeElapsed >= b.tuning.ChargeDurationS {
			b.endCharge("duration")
		} else if b.pos.DistXZ(ctx.Player) < b.tuning.ChargeEndDistance {
			b.endCharge("reached")
		}
	}

	if b.pos.DistXZ(ctx.Player) < b.tuning.ContactRadius && b.contactCooling <= 0 {
		b.contactCooling = b.tuning.ContactCooldownS
		return Outcome{Status: StatusAlive, PlayerDamage: b.contactDamage, Source: string(b.archetype)}
	}
	return alive
}

// circle 切向绕行并修正到环绕半径
func (b *TriangleBoss) circle(ctx *Context, toPlayer utils.Vec3, dist, dt float64) {
	radial, ok := toPlayer.Normalize()
	if !ok {
		return
	}
	tangent := utils.Vec3{X: -radial.Z * b.orbitSign, Z: radial.X * b.orbitSign}
	speed := b.tuning.CircleSpeed * ctx.SpeedScale

	vel := tangent.Scale(speed).Add(radial.Scale((dist - b.tuning.OrbitRadius) * radialGain))
	if vel.Len() > speed {
		if n, ok := vel.Normalize(); ok {
			vel = n.Scale(speed)
		}
	}
	b.pos = b.pos.Add(vel.Scale(dt))
	b.clampToArena(ctx.Boundary)
}

// beginCharge 锁定方向开始冲锋
func (b *TriangleBoss) beginCharge(toPlayer utils.Vec3) {
	dir, ok := toPlayer.Normalize()
	if !ok {
		// 与玩家重合，延后到下一帧
		return
	}
	b.state = TriangleCharging
	b.chargeDir = dir
	b.chargeElapsed = 0
	b.chargeTimer = 0
	b.knockback.VX, b.knockback.VZ = 0, 0
	log.Printf("[TriangleBoss] %d charging dir=(%.2f, %.2f)", b.id, dir.X, dir.Z)
}

// endCharge 结束冲锋回到环绕
func (b *TriangleBoss) endCharge(reason string) {
	b.state = TriangleCircling
	b.chargeTimer = 0
	b.chargeElapsed = 0
	b.orbitSign = -b.orbitSign
	log.Printf("[TriangleBoss] %d charge ended (%s)", b.id, reason)
}
