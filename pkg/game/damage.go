package game

import "math"

// DamageEventKind 伤害变化事件类型
type DamageEventKind string

const (
	DamageEventArmor DamageEventKind = "armor"
	DamageEventHP    DamageEventKind = "hp"
)

// DamageEvent 生命/护甲变化（Delta 为负数）
type DamageEvent struct {
	Kind   DamageEventKind
	Delta  float64
	Source string
}

// DamageRequest 伤害请求
type DamageRequest struct {
	Amount      float64
	Source      string
	BypassArmor bool
}

// DamageResult 伤害结算结果
type DamageResult struct {
	Health float64
	Armor  float64
	Events []DamageEvent
	Killed bool
}

// DamageFunc 护甲优先的伤害函数
// 由外部协作方提供，模拟核心只把它当作黑盒调用
type DamageFunc func(health, armor float64, req DamageRequest) DamageResult

// ApplyArmorFirst 默认伤害函数：护甲先吸收，溢出部分扣生命
// 事件顺序：armor 变化在 hp 变化之前；伤害 <= 0 时不做任何修改
func ApplyArmorFirst(health, armor float64, req DamageRequest) DamageResult {
	result := DamageResult{Health: health, Armor: armor}
	if req.Amount <= 0 || math.IsNaN(req.Amount) {
		result.Killed = result.Health <= 0
		return result
	}

	remaining := req.Amount
	if !req.BypassArmor {
		before := result.Armor
		absorbed := math.Min(result.Armor, remaining)
		result.Armor = math.Max(0, result.Armor-remaining)
		remaining = math.Max(0, remaining-absorbed)
		if d := result.Armor - before; d != 0 {
			result.Events = append(result.Events, DamageEvent{Kind: DamageEventArmor, Delta: d, Source: req.Source})
		}
	}

	if remaining > 0 {
		before := result.Health
		result.Health = math.Max(0, result.Health-remaining)
		result.Events = append(result.Events, DamageEvent{Kind: DamageEventHP, Delta: result.Health - before, Source: req.Source})
	}

	result.Killed = result.Health <= 0
	return result
}
