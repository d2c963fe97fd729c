package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/decker502/waveshooter/pkg/embedded"
)

// ArenaConfig 竞技场模拟配置
//
// 描述波次预算、并发上限、敌人成本、解锁等级、阶级权重、
// 概率表，以及战斗、敌人行为、区域危害等调参。
//
// 配置文件位置: data/arena.yaml
type ArenaConfig struct {
	Budget      BudgetConfig       `yaml:"budget"`
	Caps        CapsConfig         `yaml:"caps"`
	Costs       map[string]int     `yaml:"costs"`       // 原型 -> 预算成本
	Unlocks     map[string]int     `yaml:"unlocks"`     // 原型 -> 最低解锁等级
	TierWeights []TierWeightBand   `yaml:"tierWeights"` // 按等级区间划分的阶级权重
	Chances     map[string]float64 `yaml:"chances"`     // 原型 -> 出现概率

	Scaling     ScalingConfig      `yaml:"scaling"`
	Portals     PortalConfig       `yaml:"portals"`
	Bosses      BossScheduleConfig `yaml:"bosses"`
	Milestone   MilestoneConfig    `yaml:"milestone"`
	Performance PerformanceConfig  `yaml:"performance"`
	Arena       ArenaBounds        `yaml:"arena"`
	Player      PlayerConfig       `yaml:"player"`
	Combat      CombatConfig       `yaml:"combat"`
	Enemies     EnemyTuning        `yaml:"enemies"`
	Hazards     HazardConfig       `yaml:"hazards"`

	Scores     map[string]int `yaml:"scores"`     // 原型 -> 击杀得分
	LootChance float64        `yaml:"lootChance"` // 击杀掉落概率

	Roster []RosterSpecies `yaml:"roster"`
}

// BudgetConfig 预算公式参数
// L <= 10: base + perLevel*L
// L > 10:  base + perLevel*10 + over10*(L-10)
type BudgetConfig struct {
	Base     int `yaml:"base"`
	PerLevel int `yaml:"perLevel"`
	Over10   int `yaml:"over10"`
}

// CapsConfig 并发上限
type CapsConfig struct {
	ActiveBase       int     `yaml:"activeBase"`
	ActivePer2Levels int     `yaml:"activePer2Levels"`
	ActiveMax        int     `yaml:"activeMax"`
	BossBands        [][]int `yaml:"bossBands"` // [[levelLow, levelHigh, cap], ...]，首个命中生效
	Drones           int     `yaml:"drones"`    // 场上无人机上限
	ConesMax         int     `yaml:"conesMax"`  // 场上跳跃 Boss 上限
}

// TierWeightBand 阶级权重区间
type TierWeightBand struct {
	Range   []int       `yaml:"range"` // [lo, hi]
	Weights TierWeights `yaml:"weights"`
}

// TierWeights T1..T4 的权重，总和应 <= 1
type TierWeights struct {
	T1 float64 `yaml:"T1"`
	T2 float64 `yaml:"T2"`
	T3 float64 `yaml:"T3"`
	T4 float64 `yaml:"T4"`
}

// Slice 以 [T1, T2, T3, T4] 顺序返回
func (w TierWeights) Slice() []float64 {
	return []float64{w.T1, w.T2, w.T3, w.T4}
}

// ScalingConfig 随等级增长的伤害/速度倍率
type ScalingConfig struct {
	DamagePerWave float64 `yaml:"damagePerWave"`
	DamageMax     float64 `yaml:"damageMax"`
	SpeedPerWave  float64 `yaml:"speedPerWave"`
	SpeedMax      float64 `yaml:"speedMax"`
}

// PortalConfig 传送门布置参数
type PortalConfig struct {
	LifetimeMs     float64 `yaml:"lifetimeMs"`
	PerWaveMin     int     `yaml:"perWaveMin"`
	PerWaveMax     int     `yaml:"perWaveMax"`
	RadiusMin      float64 `yaml:"radiusMin"` // 距玩家的最小距离
	RadiusMax      float64 `yaml:"radiusMax"` // 距玩家的最大距离
	StaggerMs      float64 `yaml:"staggerMs"`
	BaseDelayMs    float64 `yaml:"baseDelayMs"`
	Jitter         float64 `yaml:"jitter"`
	BehindMinWave  int     `yaml:"behindMinWave"`
	BehindFraction float64 `yaml:"behindFraction"`
	BehindDistance float64 `yaml:"behindDistance"`
}

// BossScheduleConfig 周期 Boss
type BossScheduleConfig struct {
	Periodic string `yaml:"periodic"` // 周期 Boss 原型
	Every    int    `yaml:"every"`    // 每隔多少级出现一次
}

// MilestoneConfig 里程碑生命拾取物
type MilestoneConfig struct {
	Every int     `yaml:"every"`
	Inset float64 `yaml:"inset"` // 距竞技场边界的内缩距离
}

// PerformanceConfig 性能模式下更低的上限
type PerformanceConfig struct {
	Enabled   bool `yaml:"enabled"`
	ActiveMax int  `yaml:"activeMax"`
	BossMax   int  `yaml:"bossMax"`
}

// ArenaBounds 竞技场尺寸与落地参数
type ArenaBounds struct {
	Boundary    float64 `yaml:"boundary"`    // 坐标绝对值上限
	SpawnHeight float64 `yaml:"spawnHeight"` // 掉落式出生的起始高度
	DropSpeed   float64 `yaml:"dropSpeed"`
}

// PlayerConfig 玩家初始状态
type PlayerConfig struct {
	Health   int     `yaml:"health"`
	Armor    int     `yaml:"armor"`
	Lives    int     `yaml:"lives"`
	Speed    float64 `yaml:"speed"`
	InvulnMs float64 `yaml:"invulnMs"` // 受击后无敌时间
}

// CombatConfig 战斗参数
type CombatConfig struct {
	BaseDamage           float64            `yaml:"baseDamage"`
	ProjectileSpeed      float64            `yaml:"projectileSpeed"`
	ProjectileLifetimeMs float64            `yaml:"projectileLifetimeMs"`
	PoolSize             int                `yaml:"poolSize"`
	FireRateMs           float64            `yaml:"fireRateMs"`
	StunMs               float64            `yaml:"stunMs"`
	Knockback            map[string]float64 `yaml:"knockback"`      // 原型 -> 基础击退强度
	KnockbackDecay       map[string]float64 `yaml:"knockbackDecay"` // 原型 -> 衰减率
	KnockbackFalloff     float64            `yaml:"knockbackFalloff"`
	SpeedNormalization   float64            `yaml:"speedNormalization"`
	HitRadius            map[string]float64 `yaml:"hitRadius"`     // 原型 -> 命中半径
	ContactDamage        map[string]float64 `yaml:"contactDamage"` // 原型 -> 接触伤害
	ResilienceMs         float64            `yaml:"resilienceMs"`
	HighPowerMs          float64            `yaml:"highPowerMs"`
}

// EnemyTuning 各原型行为调参
type EnemyTuning struct {
	Minion     GruntTuning    `yaml:"minion"`
	BossMinion GruntTuning    `yaml:"bossMinion"`
	Cluster    GruntTuning    `yaml:"cluster"`
	Triangle   TriangleTuning `yaml:"triangle"`
	Cone       ConeTuning     `yaml:"cone"`
	Pipe       PipeTuning     `yaml:"pipe"`
	Drone      DroneTuning    `yaml:"drone"`
}

// GruntTuning 追击型敌人
type GruntTuning struct {
	Health             int     `yaml:"health"`
	Speed              float64 `yaml:"speed"`
	MaxSpeed           float64 `yaml:"maxSpeed"`
	SeparationRadius   float64 `yaml:"separationRadius"`
	ApproachSlowRadius float64 `yaml:"approachSlowRadius"`
	SettleSeconds      float64 `yaml:"settleSeconds"`
	ContactRadius      float64 `yaml:"contactRadius"`
}

// TriangleTuning 环绕/冲锋 Boss
type TriangleTuning struct {
	Health            int     `yaml:"health"`
	ChargeThresholdS  float64 `yaml:"chargeThresholdS"`
	ChargeDurationS   float64 `yaml:"chargeDurationS"`
	ChargeSpeed       float64 `yaml:"chargeSpeed"`
	CircleSpeed       float64 `yaml:"circleSpeed"`
	OrbitRadius       float64 `yaml:"orbitRadius"`
	ChargeEndDistance float64 `yaml:"chargeEndDistance"`
	ContactRadius     float64 `yaml:"contactRadius"`
	ContactCooldownS  float64 `yaml:"contactCooldownS"`
}

// ConeTuning 跳跃砸地 Boss
type ConeTuning struct {
	Health       int     `yaml:"health"`
	JumpVelocity float64 `yaml:"jumpVelocity"`
	Gravity      float64 `yaml:"gravity"`
	MaxJumpSpeed float64 `yaml:"maxJumpSpeed"`
	CooldownS    float64 `yaml:"cooldownS"`
	LandRadius   float64 `yaml:"landRadius"`
}

// PipeTuning 地管 Boss
type PipeTuning struct {
	Health       int     `yaml:"health"`
	RiseS        float64 `yaml:"riseS"`
	LaunchMin    int     `yaml:"launchMin"`
	LaunchMax    int     `yaml:"launchMax"`
	IntervalMinS float64 `yaml:"intervalMinS"`
	IntervalMaxS float64 `yaml:"intervalMaxS"`
}

// DroneTuning 环绕/俯冲无人机
type DroneTuning struct {
	Health         int     `yaml:"health"`
	Altitude       float64 `yaml:"altitude"`
	OrbitRadius    float64 `yaml:"orbitRadius"`
	OrbitSpeed     float64 `yaml:"orbitSpeed"` // 角速度（弧度/秒）
	FollowLerp     float64 `yaml:"followLerp"`
	TriggerRadius  float64 `yaml:"triggerRadius"`
	OrbitTimeoutS  float64 `yaml:"orbitTimeoutS"`
	DiveSpeed      float64 `yaml:"diveSpeed"`
	ImpactRadius   float64 `yaml:"impactRadius"`
	GroundY        float64 `yaml:"groundY"`
	TrailLength    int     `yaml:"trailLength"`
	TrailIntervalS float64 `yaml:"trailIntervalS"`
}

// HazardConfig 区域危害参数
type HazardConfig struct {
	CheckIntervalMs float64 `yaml:"checkIntervalMs"` // 包含判定节奏
	SlowDurationMs  float64 `yaml:"slowDurationMs"`  // 离开区域后减速残留
}

// RosterSpecies 名录物种
type RosterSpecies struct {
	Name        string      `yaml:"name"`
	Tier        int         `yaml:"tier"`
	Unlock      int         `yaml:"unlock"`
	Health      int         `yaml:"health"`
	Speed       float64     `yaml:"speed"`
	DamageScale float64     `yaml:"damageScale"` // 受子弹伤害倍率
	Traits      []string    `yaml:"traits"`      // enzymeShield / resilience / stunImmune / hazard
	Hazard      *HazardSpec `yaml:"hazard,omitempty"`
}

// HazardSpec 物种释放的危害区域
type HazardSpec struct {
	Kind       string  `yaml:"kind"`  // slow / toxin / corrosive / fog / carcinogen
	Shape      string  `yaml:"shape"` // circle / rect / hexagon
	Radius     float64 `yaml:"radius"`
	HalfW      float64 `yaml:"halfW"`
	HalfD      float64 `yaml:"halfD"`
	SlowFactor float64 `yaml:"slowFactor"`
	DPS        float64 `yaml:"dps"`
	TickMs     float64 `yaml:"tickMs"`
	DurationMs float64 `yaml:"durationMs"`
	CooldownMs float64 `yaml:"cooldownMs"` // 两次释放之间的间隔
}

// HasTrait 物种是否带有指定特性
func (s *RosterSpecies) HasTrait(trait string) bool {
	for _, t := range s.Traits {
		if t == trait {
			return true
		}
	}
	return false
}

// 已知特性
const (
	TraitEnzymeShield = "enzymeShield"
	TraitResilience   = "resilience"
	TraitStunImmune   = "stunImmune"
	TraitHazard       = "hazard"
)

var knownTraits = map[string]bool{
	TraitEnzymeShield: true,
	TraitResilience:   true,
	TraitStunImmune:   true,
	TraitHazard:       true,
}

var knownHazardKinds = map[string]bool{
	"slow": true, "toxin": true, "corrosive": true, "fog": true, "carcinogen": true,
}

var knownHazardShapes = map[string]bool{
	"": true, "circle": true, "rect": true, "hexagon": true,
}

// LoadArenaConfig 从 YAML 文件加载竞技场配置
//
// 优先从嵌入资源读取，未初始化或文件不存在时回退到磁盘。
// 文件中未给出的字段保持 DefaultArenaConfig 的值。
//
// 参数:
//   - path: 配置文件路径（如 "data/arena.yaml"）
//
// 返回:
//   - *ArenaConfig: 加载并验证后的配置
//   - error: 读取、解析或验证失败
func LoadArenaConfig(path string) (*ArenaConfig, error) {
	data, err := readConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read arena config: %w", err)
	}
	return ParseArenaConfig(data)
}

// ParseArenaConfig 解析 YAML 内容并验证
func ParseArenaConfig(data []byte) (*ArenaConfig, error) {
	config := DefaultArenaConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse arena config YAML: %w", err)
	}

	if err := validateArenaConfig(config); err != nil {
		return nil, fmt.Errorf("invalid arena config: %w", err)
	}

	return config, nil
}

// readConfigFile 读取配置文件内容
func readConfigFile(path string) ([]byte, error) {
	if embedded.Exists(path) {
		return embedded.ReadFile(path)
	}
	return os.ReadFile(path)
}

// validateArenaConfig 验证配置的有效性
func validateArenaConfig(config *ArenaConfig) error {
	// 验证预算
	if config.Budget.Base < 0 || config.Budget.PerLevel < 0 || config.Budget.Over10 < 0 {
		return fmt.Errorf("budget values must be >= 0, got %+v", config.Budget)
	}

	// 验证并发上限
	if config.Caps.ActiveBase < 1 {
		return fmt.Errorf("caps.activeBase must be >= 1, got %d", config.Caps.ActiveBase)
	}
	if config.Caps.ActiveMax < config.Caps.ActiveBase {
		return fmt.Errorf("caps.activeMax (%d) must be >= caps.activeBase (%d)", config.Caps.ActiveMax, config.Caps.ActiveBase)
	}
	for i, band := range config.Caps.BossBands {
		if len(band) != 3 {
			return fmt.Errorf("caps.bossBands[%d] must have 3 elements [low, high, cap], got %d", i, len(band))
		}
		if band[0] > band[1] {
			return fmt.Errorf("caps.bossBands[%d] range invalid: low(%d) > high(%d)", i, band[0], band[1])
		}
		if band[2] < 0 {
			return fmt.Errorf("caps.bossBands[%d] cap must be >= 0, got %d", i, band[2])
		}
	}

	// 验证成本
	for archetype, cost := range config.Costs {
		if cost < 1 {
			return fmt.Errorf("costs.%s must be >= 1, got %d", archetype, cost)
		}
	}

	// 验证阶级权重
	if len(config.TierWeights) == 0 {
		return fmt.Errorf("tierWeights cannot be empty")
	}
	for i, band := range config.TierWeights {
		if len(band.Range) != 2 || band.Range[0] > band.Range[1] {
			return fmt.Errorf("tierWeights[%d].range must be [lo, hi] with lo <= hi, got %v", i, band.Range)
		}
		sum := 0.0
		for _, w := range band.Weights.Slice() {
			if w < 0 {
				return fmt.Errorf("tierWeights[%d] has negative weight", i)
			}
			sum += w
		}
		if sum > 1+1e-9 {
			return fmt.Errorf("tierWeights[%d] weights sum to %.3f, must be <= 1", i, sum)
		}
	}

	// 验证概率
	for archetype, p := range config.Chances {
		if p < 0 || p > 1 {
			return fmt.Errorf("chances.%s must be in [0, 1], got %.3f", archetype, p)
		}
	}
	if config.LootChance < 0 || config.LootChance > 1 {
		return fmt.Errorf("lootChance must be in [0, 1], got %.3f", config.LootChance)
	}

	// 验证倍率
	if config.Scaling.DamageMax < 1 || config.Scaling.SpeedMax < 1 {
		return fmt.Errorf("scaling maxima must be >= 1, got damageMax=%.2f speedMax=%.2f", config.Scaling.DamageMax, config.Scaling.SpeedMax)
	}

	// 验证传送门
	p := config.Portals
	if p.PerWaveMin < 1 || p.PerWaveMax < p.PerWaveMin {
		return fmt.Errorf("portals.perWave range invalid: min(%d) max(%d)", p.PerWaveMin, p.PerWaveMax)
	}
	if p.RadiusMin < 0 || p.RadiusMax < p.RadiusMin {
		return fmt.Errorf("portals.radius range invalid: min(%.1f) > max(%.1f)", p.RadiusMin, p.RadiusMax)
	}
	if p.StaggerMs < 0 || p.BaseDelayMs < 0 {
		return fmt.Errorf("portals delays must be >= 0")
	}
	if p.BehindFraction < 0 || p.BehindFraction > 1 {
		return fmt.Errorf("portals.behindFraction must be in [0, 1], got %.2f", p.BehindFraction)
	}

	// 验证竞技场
	if config.Arena.Boundary <= 0 {
		return fmt.Errorf("arena.boundary must be > 0, got %.1f", config.Arena.Boundary)
	}

	// 验证战斗参数
	c := config.Combat
	if c.PoolSize < 1 {
		return fmt.Errorf("combat.poolSize must be >= 1, got %d", c.PoolSize)
	}
	if c.ProjectileSpeed <= 0 || c.ProjectileLifetimeMs <= 0 {
		return fmt.Errorf("combat projectile speed and lifetime must be > 0")
	}
	if c.KnockbackFalloff <= 0 {
		return fmt.Errorf("combat.knockbackFalloff must be > 0, got %.2f", c.KnockbackFalloff)
	}

	// 验证名录
	names := make(map[string]bool, len(config.Roster))
	for i, s := range config.Roster {
		if s.Name == "" {
			return fmt.Errorf("roster[%d].name cannot be empty", i)
		}
		if names[s.Name] {
			return fmt.Errorf("roster species %q defined twice", s.Name)
		}
		names[s.Name] = true
		if s.Tier < 1 || s.Tier > 4 {
			return fmt.Errorf("roster species %q tier must be between 1 and 4, got %d", s.Name, s.Tier)
		}
		if s.Health < 1 {
			return fmt.Errorf("roster species %q health must be >= 1, got %d", s.Name, s.Health)
		}
		for _, trait := range s.Traits {
			if !knownTraits[trait] {
				return fmt.Errorf("roster species %q has unknown trait %q", s.Name, trait)
			}
		}
		if s.HasTrait(TraitHazard) {
			if s.Hazard == nil {
				return fmt.Errorf("roster species %q has hazard trait but no hazard spec", s.Name)
			}
			if !knownHazardKinds[s.Hazard.Kind] {
				return fmt.Errorf("roster species %q has unknown hazard kind %q", s.Name, s.Hazard.Kind)
			}
			if !knownHazardShapes[s.Hazard.Shape] {
				return fmt.Errorf("roster species %q has unknown hazard shape %q", s.Name, s.Hazard.Shape)
			}
			if s.Hazard.DurationMs <= 0 || s.Hazard.TickMs <= 0 {
				return fmt.Errorf("roster species %q hazard duration and tick must be > 0", s.Name)
			}
		}
	}

	return nil
}

// Cost 获取原型成本，未配置时返回 1
func (c *ArenaConfig) Cost(archetype string) int {
	if v, ok := c.Costs[archetype]; ok {
		return v
	}
	return 1
}

// Unlocked 原型在 level 时是否已解锁
// 未配置解锁等级的原型视为始终解锁
func (c *ArenaConfig) Unlocked(archetype string, level int) bool {
	v, ok := c.Unlocks[archetype]
	return !ok || level >= v
}

// Chance 获取原型出现概率，未配置时返回 0
func (c *ArenaConfig) Chance(archetype string) float64 {
	return c.Chances[archetype]
}

// Species 按名称查找名录物种
func (c *ArenaConfig) Species(name string) (*RosterSpecies, bool) {
	for i := range c.Roster {
		if c.Roster[i].Name == name {
			return &c.Roster[i], true
		}
	}
	return nil, false
}
