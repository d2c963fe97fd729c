package components

// damageEpsilon 累积器比较容差，只吸收 0.1*10 之类的浮点舍入误差，
// 不足 1 的真实伤害（如 3 × 0.3333333333）不会被补齐
const damageEpsilon = 1e-12

// HealthComponent 存储敌人的生命值信息
// 整数生命值配合小数伤害累积器，使伤害倍率小于 1 的抗性敌人需要多次命中才掉一点血
type HealthComponent struct {
	CurrentHealth int     // 当前生命值，范围 [0, MaxHealth]
	MaxHealth     int     // 最大生命值
	DamageStore   float64 // 小数伤害累积（跨命中保留）
	DamageScale   float64 // 受到子弹伤害的倍率
}

// NewHealthComponent 创建满血的生命值组件
// damageScale <= 0 时按 1 处理
func NewHealthComponent(maxHealth int, damageScale float64) HealthComponent {
	if maxHealth < 1 {
		maxHealth = 1
	}
	if damageScale <= 0 {
		damageScale = 1
	}
	return HealthComponent{
		CurrentHealth: maxHealth,
		MaxHealth:     maxHealth,
		DamageScale:   damageScale,
	}
}

// ApplyFractionalDamage 通过累积器施加伤害
// 累积器加上 amount，然后每当累积 >= 1 且剩余生命 > 0 时扣除 1 点整数生命
// 返回:
//
//	实际扣除的整数生命值
func (h *HealthComponent) ApplyFractionalDamage(amount float64) int {
	if amount <= 0 || amount != amount {
		return 0
	}
	h.DamageStore += amount
	taken := 0
	for h.DamageStore >= 1-damageEpsilon && h.CurrentHealth-taken > 0 {
		h.DamageStore -= 1
		taken++
	}
	if h.DamageStore < 0 {
		h.DamageStore = 0
	}
	h.SetHealth(h.CurrentHealth - taken)
	return taken
}

// SetHealth 设置生命值并限制在 [0, MaxHealth]
func (h *HealthComponent) SetHealth(v int) {
	if v < 0 {
		v = 0
	}
	if v > h.MaxHealth {
		v = h.MaxHealth
	}
	h.CurrentHealth = v
}

// IsDead 生命值是否耗尽
func (h *HealthComponent) IsDead() bool {
	return h.CurrentHealth <= 0
}
