package game

import (
	"github.com/decker502/waveshooter/pkg/utils"
)

// Condition 玩家身上的持续状态
type Condition string

const (
	// ConditionObscured 视野受阻（孢子雾）
	ConditionObscured Condition = "obscured"
	// ConditionHealingReduced 治疗削弱（致癌区域）
	ConditionHealingReduced Condition = "healingReduced"
)

// PlayerState 玩家状态
//
// 模拟核心只读取位置和无敌判定，通过 DamageFunc 修改生命与护甲。
// 位置由外部输入（或自动驾驶）在每个 tick 开始时写入一次。
type PlayerState struct {
	Position  utils.Vec3
	Facing    utils.Vec3
	Health    float64
	Armor     float64
	MaxHealth float64
	Lives     int

	invulnUntil float64
	slowFactor  float64
	slowUntil   float64
	conditions  map[Condition]float64 // 状态 -> 结束时间（毫秒）

	damage DamageFunc
}

// NewPlayerState 创建玩家状态
// damage 为 nil 时使用 ApplyArmorFirst
func NewPlayerState(health, armor float64, lives int, damage DamageFunc) *PlayerState {
	if damage == nil {
		damage = ApplyArmorFirst
	}
	return &PlayerState{
		Facing:     utils.Vec3{Z: -1},
		Health:     health,
		Armor:      armor,
		MaxHealth:  health,
		Lives:      lives,
		conditions: make(map[Condition]float64),
		damage:     damage,
	}
}

// IsInvulnerable 玩家在 now（毫秒）时是否无敌
func (p *PlayerState) IsInvulnerable(now float64) bool {
	return now < p.invulnUntil
}

// GrantInvulnerability 授予无敌直到 now+durationMs（取较晚者）
func (p *PlayerState) GrantInvulnerability(now, durationMs float64) {
	if until := now + durationMs; until > p.invulnUntil {
		p.invulnUntil = until
	}
}

// ClearInvulnerability 立即结束无敌
func (p *PlayerState) ClearInvulnerability() {
	p.invulnUntil = 0
}

// TakeDamage 通过伤害函数结算伤害
// 无敌时不结算，返回 false
func (p *PlayerState) TakeDamage(now float64, req DamageRequest) (DamageResult, bool) {
	if p.IsInvulnerable(now) || req.Amount <= 0 {
		return DamageResult{Health: p.Health, Armor: p.Armor}, false
	}
	r := p.damage(p.Health, p.Armor, req)
	p.Health = r.Health
	p.Armor = r.Armor
	return r, true
}

// DrainArmor 直接消耗护甲（腐蚀区域），不影响生命
func (p *PlayerState) DrainArmor(amount float64) float64 {
	if amount <= 0 || p.Armor <= 0 {
		return 0
	}
	if amount > p.Armor {
		amount = p.Armor
	}
	p.Armor -= amount
	return amount
}

// Heal 恢复生命，治疗削弱时减半
func (p *PlayerState) Heal(now, amount float64) {
	if amount <= 0 {
		return
	}
	if p.HasCondition(ConditionHealingReduced, now) {
		amount /= 2
	}
	p.Health = utils.Clamp(p.Health+amount, 0, p.MaxHealth)
}

// ApplySlow 施加减速直到 now+durationMs，同时存在多个减速时取最强
func (p *PlayerState) ApplySlow(now, factor, durationMs float64) {
	if factor <= 0 {
		return
	}
	if now >= p.slowUntil || factor > p.slowFactor {
		p.slowFactor = factor
	}
	if until := now + durationMs; until > p.slowUntil {
		p.slowUntil = until
	}
}

// SpeedMultiplier 当前移动速度倍率
func (p *PlayerState) SpeedMultiplier(now float64) float64 {
	if now >= p.slowUntil {
		return 1
	}
	return 1 - utils.Clamp(p.slowFactor, 0, 0.95)
}

// AddCondition 添加持续状态直到 now+durationMs
func (p *PlayerState) AddCondition(c Condition, now, durationMs float64) {
	if until := now + durationMs; until > p.conditions[c] {
		p.conditions[c] = until
	}
}

// HasCondition 状态在 now 时是否生效
func (p *PlayerState) HasCondition(c Condition, now float64) bool {
	return now < p.conditions[c]
}

// IsDead 生命耗尽
func (p *PlayerState) IsDead() bool {
	return p.Health <= 0
}

// Respawn 消耗一条命并恢复满血
// 没有剩余生命时返回 false
func (p *PlayerState) Respawn(armor float64) bool {
	if p.Lives <= 0 {
		return false
	}
	p.Lives--
	p.Health = p.MaxHealth
	p.Armor = armor
	p.slowUntil = 0
	p.conditions = make(map[Condition]float64)
	return true
}
