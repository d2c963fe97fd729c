package components

// StunComponent 眩晕状态
// 眩晕期间敌人的正常行为和移动都被挂起
type StunComponent struct {
	Remaining float64 // 剩余眩晕时间（秒）
	Immune    bool    // 免疫眩晕
}

// Apply 施加眩晕，取当前剩余与新时长的较大值
// 参数:
//
//	durationMs - 眩晕时长（毫秒）
func (s *StunComponent) Apply(durationMs float64) {
	if s.Immune || durationMs <= 0 {
		return
	}
	d := durationMs / 1000
	if d > s.Remaining {
		s.Remaining = d
	}
}

// Tick 推进眩晕计时
// 返回本帧开始时是否处于眩晕
func (s *StunComponent) Tick(dt float64) bool {
	if s.Remaining <= 0 {
		return false
	}
	s.Remaining -= dt
	if s.Remaining < 0 {
		s.Remaining = 0
	}
	return true
}

// Active 是否处于眩晕
func (s *StunComponent) Active() bool {
	return s.Remaining > 0
}
