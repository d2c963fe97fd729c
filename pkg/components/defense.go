package components

import "math"

// DefenseComponent 伤害例外规则
// 护盾窗口、受击后的韧性窗口、对普通子弹的免疫
type DefenseComponent struct {
	// 周期护盾：每 ShieldPeriodMs 中有 ShieldActiveMs 处于激活
	ShieldPeriodMs float64
	ShieldActiveMs float64
	ShieldPhaseMs  float64

	// 韧性：受到伤害后 ResilienceMs 内无敌
	ResilienceMs    float64
	ResilienceUntil float64

	// ImmuneStandardFire 只有高能模式下的子弹才能造成伤害
	ImmuneStandardFire bool
}

// ShieldActive 护盾在 now（毫秒）时是否激活
func (d DefenseComponent) ShieldActive(now float64) bool {
	if d.ShieldPeriodMs <= 0 || d.ShieldActiveMs <= 0 {
		return false
	}
	phase := math.Mod(now+d.ShieldPhaseMs, d.ShieldPeriodMs)
	if phase < 0 {
		phase += d.ShieldPeriodMs
	}
	return phase < d.ShieldActiveMs
}

// ResilienceActive 韧性窗口在 now 时是否激活
func (d DefenseComponent) ResilienceActive(now float64) bool {
	return d.ResilienceMs > 0 && now < d.ResilienceUntil
}

// StartResilience （重新）开始韧性窗口
func (d *DefenseComponent) StartResilience(now float64) {
	if d.ResilienceMs > 0 {
		d.ResilienceUntil = now + d.ResilienceMs
	}
}
