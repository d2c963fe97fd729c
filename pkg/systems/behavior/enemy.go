// Package behavior 实现各敌人原型的状态机
//
// 每种原型只携带自身行为需要的状态，通过 Enemy 接口向战斗结算、
// 波次规划等协作方暴露统一的能力：眩晕、冲量、冲锋判定、伤害。
// 协作方只读取位置并调用这些方法，从不直接写入状态字段。
package behavior

import (
	"github.com/decker502/waveshooter/pkg/components"
	"github.com/decker502/waveshooter/pkg/config"
	"github.com/decker502/waveshooter/pkg/ecs"
	"github.com/decker502/waveshooter/pkg/utils"
)

// Status 单帧更新结果
type Status int

const (
	// StatusAlive 继续存活
	StatusAlive Status = iota
	// StatusHitPlayer 撞击玩家后消失
	StatusHitPlayer
	// StatusDespawn 强制消失（如落地）
	StatusDespawn
)

// Outcome 单帧更新结果
// PlayerDamage > 0 时由模拟层通过伤害函数结算（存活的 Boss 也可以造成接触/砸地伤害）
type Outcome struct {
	Status       Status
	PlayerDamage float64
	Source       string
}

var alive = Outcome{Status: StatusAlive}

// Context 每帧提供给状态机的只读环境
type Context struct {
	Now        float64    // 当前时间（毫秒）
	Player     utils.Vec3 // 玩家位置
	SpeedScale float64    // 全局敌人速度倍率
	Boundary   float64    // 竞技场边界
	Rng        *utils.PRNG

	// Separation 返回把 self 推离邻居的方向（未归一化，可为零）
	Separation func(self ecs.EntityID, pos utils.Vec3, radius float64) utils.Vec3
	// LaunchDrones 请求从 origin 发射 count 架无人机，返回实际发射数量
	LaunchDrones func(origin utils.Vec3, count int) int
	// EmitHazard 在 pos 处释放危害区域
	EmitHazard func(source ecs.EntityID, pos utils.Vec3, spec *config.HazardSpec)
}

// Enemy 所有敌人原型的统一能力接口
type Enemy interface {
	ID() ecs.EntityID
	Archetype() components.Archetype
	Tier() int
	Species() string
	Position() utils.Vec3
	HitRadius() float64
	KnockbackBase() float64
	IsBoss() bool
	StateName() string

	// HealthPoints 返回 (当前生命, 最大生命)
	HealthPoints() (int, int)
	// DamageScale 受子弹伤害倍率
	DamageScale() float64
	// Defense 返回伤害例外规则的只读副本
	Defense() components.DefenseComponent

	IsCharging() bool
	IsStunned() bool
	// Stun 施加眩晕（毫秒）
	Stun(durationMs float64)
	// Impulse 沿 (dirX, dirZ) 方向施加击退冲量
	Impulse(dirX, dirZ, strength float64)
	// Damage 通过小数累积器施加伤害，扣血时（重新）开始韧性窗口
	// 返回实际扣除的整数生命和是否死亡
	Damage(amount, now float64) (lost int, dead bool)

	Update(ctx *Context, dt float64) Outcome
}

// Spec 创建敌人所需的通用参数
type Spec struct {
	ID             ecs.EntityID
	Archetype      components.Archetype
	Tier           int
	Species        string
	Position       utils.Vec3
	Health         int
	MaxHealth      int
	DamageScale    float64
	HitRadius      float64
	KnockbackBase  float64
	KnockbackDecay float64
	ContactDamage  float64
	SpeedMul       float64
	SpawnHeight    float64
	DropSpeed      float64
}

// base 各原型共享的状态
type base struct {
	id        ecs.EntityID
	archetype components.Archetype
	tier      int
	species   string
	pos       utils.Vec3

	health    components.HealthComponent
	defense   components.DefenseComponent
	stun      components.StunComponent
	knockback components.KnockbackComponent

	hitRadius     float64
	knockbackBase float64
	contactDamage float64
	speedMul      float64

	// 掉落式出生
	dropping  bool
	dropSpeed float64
	// 落地后经过的时间（秒）
	sinceLanding float64
}

func newBase(spec Spec) base {
	maxHealth := spec.MaxHealth
	if maxHealth < 1 {
		maxHealth = spec.Health
	}
	health := components.NewHealthComponent(maxHealth, spec.DamageScale)
	if spec.Health > 0 {
		health.SetHealth(spec.Health)
	}

	speedMul := spec.SpeedMul
	if speedMul <= 0 {
		speedMul = 1
	}

	b := base{
		id:            spec.ID,
		archetype:     spec.Archetype,
		tier:          spec.Tier,
		species:       spec.Species,
		pos:           spec.Position,
		health:        health,
		knockback:     components.KnockbackComponent{Decay: spec.KnockbackDecay},
		hitRadius:     spec.HitRadius,
		knockbackBase: spec.KnockbackBase,
		contactDamage: spec.ContactDamage,
		speedMul:      speedMul,
		dropSpeed:     spec.DropSpeed,
	}
	if spec.SpawnHeight > 0 && spec.DropSpeed > 0 {
		b.dropping = true
		b.pos.Y = spec.SpawnHeight
	}
	return b
}

func (b *base) ID() ecs.EntityID { return b.id }
func (b *base) Archetype() components.Archetype { return b.archetype }
func (b *base) Tier() int { return b.tier }
func (b *base) Species() string { return b.species }
func (b *base) Position() utils.Vec3 { return b.pos }
func (b *base) HitRadius() float64 { return b.hitRadius }
func (b *base) KnockbackBase() float64 { return b.knockbackBase }
func (b *base) IsBoss() bool { return b.archetype.IsBossClass() }
func (b *base) HealthPoints() (int, int) { return b.health.CurrentHealth, b.health.MaxHealth }
func (b *base) DamageScale() float64 { return b.health.DamageScale }
func (b *base) Defense() components.DefenseComponent { return b.defense }
func (b *base) IsCharging() bool { return false }
func (b *base) IsStunned() bool { return b.stun.Active() }

// Stun 施加眩晕
func (b *base) Stun(durationMs float64) {
	b.stun.Apply(durationMs)
}

// Impulse 施加击退冲量，零向量直接忽略
func (b *base) Impulse(dirX, dirZ, strength float64) {
	dir, ok := utils.Vec3{X: dirX, Z: dirZ}.Normalize()
	if !ok || strength <= 0 {
		return
	}
	b.knockback.AddImpulse(dir.X*strength, dir.Z*strength)
}

// Damage 小数累积伤害
func (b *base) Damage(amount, now float64) (int, bool) {
	lost := b.health.ApplyFractionalDamage(amount)
	if lost > 0 {
		b.defense.StartResilience(now)
	}
	return lost, b.health.IsDead()
}

// updateDrop 处理掉落式出生，仍在下落时返回 true
func (b *base) updateDrop(dt float64) bool {
	if !b.dropping {
		return false
	}
	b.pos.Y -= b.dropSpeed * dt
	if b.pos.Y <= 0 {
		b.pos.Y = 0
		b.dropping = false
		b.sinceLanding = 0
	}
	return b.dropping
}

// tickCommon 推进眩晕与击退，返回本帧是否处于眩晕
// 眩晕期间击退冻结（既不位移也不衰减）
func (b *base) tickCommon(ctx *Context, dt float64) bool {
	stunned := b.stun.Tick(dt)
	if !stunned {
		dx, dz := b.knockback.Step(dt, ctx.SpeedScale)
		b.pos.X += dx
		b.pos.Z += dz
	}
	b.clampToArena(ctx.Boundary)
	return stunned
}

// clampToArena 限制在竞技场内
func (b *base) clampToArena(boundary float64) {
	if boundary <= 0 {
		return
	}
	b.pos.X = utils.Clamp(b.pos.X, -boundary, boundary)
	b.pos.Z = utils.Clamp(b.pos.Z, -boundary, boundary)
}

// separation 查询邻居推离向量
func (b *base) separation(ctx *Context, radius float64) utils.Vec3 {
	if ctx.Separation == nil || radius <= 0 {
		return utils.Vec3{}
	}
	return ctx.Separation(b.id, b.pos, radius)
}

// contact 接触玩家的结果
func (b *base) contact(status Status) Outcome {
	return Outcome{Status: status, PlayerDamage: b.contactDamage, Source: string(b.archetype)}
}
