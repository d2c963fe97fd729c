package utils

import "math"

// Epsilon 浮点比较与除法保护的下限
const Epsilon = 1e-9

// Vec3 三维向量
// 竞技场地面为 XZ 平面，Y 轴为高度
type Vec3 struct {
	X, Y, Z float64
}

// Add 向量加法
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub 向量减法
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale 向量数乘
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// LenSq 向量长度的平方
func (v Vec3) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Len 向量长度
func (v Vec3) Len() float64 {
	return math.Sqrt(v.LenSq())
}

// Normalize 返回单位向量
// 零长度向量返回零向量和 false，调用方应跳过后续计算
func (v Vec3) Normalize() (Vec3, bool) {
	l := v.Len()
	if l < Epsilon {
		return Vec3{}, false
	}
	return v.Scale(1 / l), true
}

// Horizontal 投影到 XZ 平面（Y 置零）
func (v Vec3) Horizontal() Vec3 {
	return Vec3{X: v.X, Z: v.Z}
}

// DistXZ 两点在 XZ 平面上的距离
func (v Vec3) DistXZ(o Vec3) float64 {
	dx := v.X - o.X
	dz := v.Z - o.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// Dot 点积
func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Lerp 线性插值
// t 会被限制在 [0, 1]
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	t = Clamp(t, 0, 1)
	return v.Add(o.Sub(v).Scale(t))
}

// Clamp 将 x 限制在 [lo, hi]
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// SafeDiv 带 epsilon 下限的除法
func SafeDiv(a, b float64) float64 {
	if math.Abs(b) < Epsilon {
		if b < 0 {
			return a / -Epsilon
		}
		return a / Epsilon
	}
	return a / b
}
