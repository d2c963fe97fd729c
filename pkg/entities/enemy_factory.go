package entities

import (
	"fmt"
	"log"

	"github.com/decker502/waveshooter/pkg/components"
	"github.com/decker502/waveshooter/pkg/config"
	"github.com/decker502/waveshooter/pkg/ecs"
	"github.com/decker502/waveshooter/pkg/systems/behavior"
	"github.com/decker502/waveshooter/pkg/utils"
)

// SpawnCommand 一条刷怪指令
// 由波次规划生成，在 DelayMs 后由调度器触发
type SpawnCommand struct {
	Archetype components.Archetype
	Tier      int
	Species   string // 仅物种表敌人使用
	Position  utils.Vec3
	Health    int // 为 0 时使用原型默认值
	MaxHealth int
	DelayMs   float64
	Boss      bool // 触发时检查 Boss 上限
	PortalID  int
}

// EnemyFactory 根据刷怪指令和配置构造敌人状态机
type EnemyFactory struct {
	cfg *config.ArenaConfig
	rng *utils.PRNG
}

// NewEnemyFactory 创建敌人工厂
//
// 参数:
//   - cfg: 竞技场配置
//   - rng: 共享随机数服务（环绕角、护盾相位、发射间隔）
func NewEnemyFactory(cfg *config.ArenaConfig, rng *utils.PRNG) *EnemyFactory {
	return &EnemyFactory{cfg: cfg, rng: rng}
}

// Create 构造敌人
//
// 参数:
//   - id: 注册表分配的实体ID
//   - cmd: 刷怪指令
//   - contactScale: 难度带来的接触伤害倍率
//
// 返回:
//   - behavior.Enemy: 敌人状态机
//   - error: 原型未知或物种不存在时返回错误
func (f *EnemyFactory) Create(id ecs.EntityID, cmd SpawnCommand, contactScale float64) (behavior.Enemy, error) {
	if contactScale <= 0 {
		contactScale = 1
	}
	tuning := f.cfg.Enemies
	spec := f.baseSpec(id, cmd, contactScale)

	switch cmd.Archetype {
	case components.ArchetypeMinion:
		applyHealth(&spec, cmd, tuning.Minion.Health)
		return behavior.NewGrunt(spec, tuning.Minion), nil

	case components.ArchetypeBossMinion:
		applyHealth(&spec, cmd, tuning.BossMinion.Health)
		return behavior.NewGrunt(spec, tuning.BossMinion), nil

	case components.ArchetypeCluster:
		applyHealth(&spec, cmd, tuning.Cluster.Health)
		return behavior.NewGrunt(spec, tuning.Cluster), nil

	case components.ArchetypeTriangle:
		applyHealth(&spec, cmd, tuning.Triangle.Health)
		return behavior.NewTriangleBoss(spec, tuning.Triangle), nil

	case components.ArchetypeCone:
		applyHealth(&spec, cmd, tuning.Cone.Health)
		return behavior.NewConeBoss(spec, tuning.Cone), nil

	case components.ArchetypePipe:
		applyHealth(&spec, cmd, tuning.Pipe.Health)
		return behavior.NewPipeBoss(spec, tuning.Pipe, f.rng), nil

	case components.ArchetypeDrone:
		applyHealth(&spec, cmd, tuning.Drone.Health)
		return behavior.NewDrone(spec, tuning.Drone, f.rng.Angle()), nil

	case components.ArchetypeRoster:
		species, ok := f.cfg.Species(cmd.Species)
		if !ok {
			return nil, fmt.Errorf("unknown roster species %q", cmd.Species)
		}
		applyHealth(&spec, cmd, species.Health)
		phase := f.rng.Range(0, behavior.EnzymeShieldPeriodMs)
		return behavior.NewRoster(spec, tuning.Minion, species, f.cfg.Combat.ResilienceMs, phase), nil
	}

	return nil, fmt.Errorf("unknown archetype %q", cmd.Archetype)
}

// baseSpec 填充与原型无关的通用参数
func (f *EnemyFactory) baseSpec(id ecs.EntityID, cmd SpawnCommand, contactScale float64) behavior.Spec {
	combat := f.cfg.Combat
	name := string(cmd.Archetype)

	spec := behavior.Spec{
		ID:             id,
		Archetype:      cmd.Archetype,
		Tier:           cmd.Tier,
		Species:        cmd.Species,
		Position:       cmd.Position,
		DamageScale:    1,
		HitRadius:      lookup(combat.HitRadius, name, f.classKey(cmd.Archetype), "default"),
		KnockbackBase:  lookup(combat.Knockback, name, f.classKey(cmd.Archetype), "minion"),
		KnockbackDecay: lookup(combat.KnockbackDecay, name, f.classKey(cmd.Archetype), "minion"),
		ContactDamage:  lookup(combat.ContactDamage, name, f.classKey(cmd.Archetype), "minion") * contactScale,
		SpawnHeight:    f.cfg.Arena.SpawnHeight,
		DropSpeed:      f.cfg.Arena.DropSpeed,
	}
	spec.Position.Y = 0
	return spec
}

// classKey 原型在数值表中的回退分类
func (f *EnemyFactory) classKey(a components.Archetype) string {
	if a.IsBossClass() || a == components.ArchetypeBossMinion {
		return "boss"
	}
	return "minion"
}

// applyHealth 指令未指定生命时使用原型默认值
func applyHealth(spec *behavior.Spec, cmd SpawnCommand, fallback int) {
	health := cmd.Health
	if health <= 0 {
		health = fallback
	}
	if health <= 0 {
		log.Printf("[EnemyFactory] %s has no health configured, using 1", cmd.Archetype)
		health = 1
	}
	maxHealth := cmd.MaxHealth
	if maxHealth < health {
		maxHealth = health
	}
	spec.Health = health
	spec.MaxHealth = maxHealth
}

// lookup 依次查找键，全部缺失时返回 0
func lookup(m map[string]float64, keys ...string) float64 {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
	}
	return 0
}
