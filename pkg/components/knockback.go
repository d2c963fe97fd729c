package components

import "math"

// knockbackStopSq 击退速度平方低于该值时归零
const knockbackStopSq = 1e-6

// KnockbackComponent 敌人受到的击退速度（XZ 平面）
// 由冲量叠加，随时间按指数衰减
type KnockbackComponent struct {
	VX, VZ float64 // 当前击退速度
	Decay  float64 // 衰减率（每秒）
}

// AddImpulse 叠加冲量
func (k *KnockbackComponent) AddImpulse(dx, dz float64) {
	k.VX += dx
	k.VZ += dz
}

// Step 按 exp(-Decay*speedScale*dt) 衰减
// 衰减因子在 (0, 1] 内，所以速度分量只会缩小不会反向
// 返回:
//
//	本帧位移 (dx, dz)
func (k *KnockbackComponent) Step(dt, speedScale float64) (float64, float64) {
	if k.VX == 0 && k.VZ == 0 {
		return 0, 0
	}
	dx, dz := k.VX*dt, k.VZ*dt
	factor := math.Exp(-k.Decay * speedScale * dt)
	k.VX *= factor
	k.VZ *= factor
	if k.VX*k.VX+k.VZ*k.VZ < knockbackStopSq {
		k.VX, k.VZ = 0, 0
	}
	return dx, dz
}

// Speed 当前击退速度大小
func (k *KnockbackComponent) Speed() float64 {
	return math.Hypot(k.VX, k.VZ)
}
