package components

// WaveBudget 单波预算
// 每波规划时重新计算，不持久化
type WaveBudget struct {
	Level              int
	TotalBudget        int
	ActiveCap          int
	BossCap            int
	RemainingBudget    int
	RemainingBossSlots int
}

// TrySpend 尝试消耗预算（以及可选的 Boss 名额）
// 余额不足时不做任何修改并返回 false，保证计数器永不为负
func (b *WaveBudget) TrySpend(cost int, boss bool) bool {
	if cost < 0 || cost > b.RemainingBudget {
		return false
	}
	if boss && b.RemainingBossSlots <= 0 {
		return false
	}
	b.RemainingBudget -= cost
	if boss {
		b.RemainingBossSlots--
	}
	return true
}

// ReserveBoss 为计划中的 Boss 占用一个名额
// Boss 不受预算余额限制，只扣除到 0 为止；没有名额时返回 false
func (b *WaveBudget) ReserveBoss(cost int) bool {
	if b.RemainingBossSlots <= 0 {
		return false
	}
	b.RemainingBossSlots--
	if cost > 0 {
		b.RemainingBudget -= cost
		if b.RemainingBudget < 0 {
			b.RemainingBudget = 0
		}
	}
	return true
}
