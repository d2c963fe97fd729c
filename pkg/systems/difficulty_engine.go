package systems

import (
	"math"

	"github.com/decker502/waveshooter/pkg/config"
	"github.com/decker502/waveshooter/pkg/utils"
)

// DifficultyEngine 难度引擎
// 负责按等级计算波次预算、并发上限和伤害/速度倍率，为波次规划提供难度数据
type DifficultyEngine struct {
	cfg *config.ArenaConfig
}

// NewDifficultyEngine 创建新的难度引擎实例
func NewDifficultyEngine(cfg *config.ArenaConfig) *DifficultyEngine {
	return &DifficultyEngine{cfg: cfg}
}

// Budget 计算波次预算
// 公式:
//
//	L <= 10: base + perLevel*L
//	L > 10:  base + perLevel*10 + over10*(L-10)
func (d *DifficultyEngine) Budget(level int) int {
	b := d.cfg.Budget
	if level <= 10 {
		return b.Base + b.PerLevel*level
	}
	return b.Base + b.PerLevel*10 + b.Over10*(level-10)
}

// ActiveCap 同时存活的敌人上限
// 公式: min(activeBase + floor(L/2)*activePer2Levels, activeMax)，性能模式下再截断
func (d *DifficultyEngine) ActiveCap(level int) int {
	c := d.cfg.Caps
	limit := c.ActiveBase + (level/2)*c.ActivePer2Levels
	if c.ActiveMax > 0 && limit > c.ActiveMax {
		limit = c.ActiveMax
	}
	if p := d.cfg.Performance; p.Enabled && p.ActiveMax > 0 && limit > p.ActiveMax {
		limit = p.ActiveMax
	}
	return limit
}

// BossCap 同时存活的 Boss 上限
// 第一个包含 L 的区间生效，没有区间命中时为 0
func (d *DifficultyEngine) BossCap(level int) int {
	limit := 0
	for _, band := range d.cfg.Caps.BossBands {
		if len(band) == 3 && level >= band[0] && level <= band[1] {
			limit = band[2]
			break
		}
	}
	if p := d.cfg.Performance; p.Enabled && limit > p.BossMax {
		limit = p.BossMax
	}
	return limit
}

// DamageScale 敌人伤害倍率，单调递增并在上限处饱和
func (d *DifficultyEngine) DamageScale(level int) float64 {
	s := d.cfg.Scaling
	return math.Min(1+s.DamagePerWave*float64(level-1), s.DamageMax)
}

// SpeedScale 敌人速度倍率，单调递增并在上限处饱和
func (d *DifficultyEngine) SpeedScale(level int) float64 {
	s := d.cfg.Scaling
	return math.Min(1+s.SpeedPerWave*float64(level-1), s.SpeedMax)
}

// TierWeights 返回 L 所在区间的权重，没有区间命中时只有 T1
func (d *DifficultyEngine) TierWeights(level int) config.TierWeights {
	for _, band := range d.cfg.TierWeights {
		if len(band.Range) == 2 && level >= band.Range[0] && level <= band.Range[1] {
			return band.Weights
		}
	}
	return config.TierWeights{T1: 1}
}

// SampleTier 按等级权重抽取阶级
// 一次累积抽样，第一个 r < 累积权重的阶级胜出，全部落空时回退为 T1
// 返回:
//
//	阶级（1-4）
func (d *DifficultyEngine) SampleTier(level int, rng *utils.PRNG) int {
	r := rng.Float64()
	acc := 0.0
	for i, w := range d.TierWeights(level).Slice() {
		acc += w
		if r < acc {
			return i + 1
		}
	}
	return 1
}

// Scaling 一次性计算某等级的全部难度数据
func (d *DifficultyEngine) Scaling(level int) LevelScaling {
	return LevelScaling{
		Level:       level,
		Budget:      d.Budget(level),
		ActiveCap:   d.ActiveCap(level),
		BossCap:     d.BossCap(level),
		DamageScale: d.DamageScale(level),
		SpeedScale:  d.SpeedScale(level),
	}
}

// LevelScaling 某等级的难度数据
type LevelScaling struct {
	Level       int
	Budget      int
	ActiveCap   int
	BossCap     int
	DamageScale float64
	SpeedScale  float64
}
