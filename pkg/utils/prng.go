package utils

import (
	"math"
	"math/rand"
	"time"
)

// PRNG 可设置种子的随机数服务
// 整个模拟共享同一个实例，相同种子得到相同的波次组成
type PRNG struct {
	rng  *rand.Rand
	seed int64
}

// NewPRNG 创建随机数服务
// seed 为 0 时使用当前时间
func NewPRNG(seed int64) *PRNG {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &PRNG{rng: rand.New(rand.NewSource(seed)), seed: seed}
}

// Seed 返回实际使用的种子
func (p *PRNG) Seed() int64 {
	return p.seed
}

// Intn 返回 [0, n) 内的整数，n <= 0 时返回 0
func (p *PRNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return p.rng.Intn(n)
}

// IntRange 返回 [lo, hi] 内的整数
func (p *PRNG) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + p.rng.Intn(hi-lo+1)
}

// Float64 返回 [0, 1) 内的浮点数
func (p *PRNG) Float64() float64 {
	return p.rng.Float64()
}

// Range 返回 [lo, hi) 内的浮点数
func (p *PRNG) Range(lo, hi float64) float64 {
	return lo + (hi-lo)*p.rng.Float64()
}

// Angle 返回 [0, 2π) 内的随机角度
func (p *PRNG) Angle() float64 {
	return p.rng.Float64() * 2 * math.Pi
}

// Chance 以概率 prob 返回 true
func (p *PRNG) Chance(prob float64) bool {
	if prob <= 0 {
		return false
	}
	return p.rng.Float64() < prob
}

// ChooseWeighted 按权重选择下标
// 权重总和不为正时返回 0
func (p *PRNG) ChooseWeighted(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return 0
	}
	r := p.rng.Float64() * total
	upto := 0.0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		upto += w
		if r < upto {
			return i
		}
	}
	return len(weights) - 1
}
