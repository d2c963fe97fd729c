package utils

import "math"

// Easing Functions (缓动函数)
//
// 所有函数接受进度值 t ∈ [0, 1]，返回缓动后的值 ∈ [0, 1]。
// 用于落地后的速度恢复和传送门的展开动画。

// EaseOutCubic 三次方缓出
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseOutQuad 二次方缓出
func EaseOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// SmoothStep 平滑阶梯
// 公式：f(t) = t²(3 - 2t)，t 被限制在 [0, 1]
func SmoothStep(t float64) float64 {
	t = Clamp(t, 0, 1)
	return t * t * (3 - 2*t)
}
