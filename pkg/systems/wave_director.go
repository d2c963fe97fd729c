package systems

import (
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/decker502/waveshooter/pkg/components"
	"github.com/decker502/waveshooter/pkg/config"
	"github.com/decker502/waveshooter/pkg/ecs"
	"github.com/decker502/waveshooter/pkg/entities"
	"github.com/decker502/waveshooter/pkg/game"
	"github.com/decker502/waveshooter/pkg/systems/behavior"
	"github.com/decker502/waveshooter/pkg/utils"
)

const (
	// maxBossesPerWave 每波最多规划的 Boss 种类
	maxBossesPerWave = 3
	// portalVisualRadius 传送门视觉半径
	portalVisualRadius = 1.6
	// behindPortalRadius 侧翼传送门视觉半径
	behindPortalRadius = 0.9
	// arenaMargin 生成位置距边界的最小距离
	arenaMargin = 1.0
	// droneSpread 无人机发射时的水平散布
	droneSpread = 0.8
	// degradedTierHealth 没有可用物种时 T3 降级兵的生命
	degradedTierHealth = 2
)

// WavePlan 一波的规划结果
type WavePlan struct {
	WaveID   uint64
	Level    int
	Scaling  LevelScaling
	Budget   components.WaveBudget // 规划结束时的剩余预算
	Portals  []components.Portal
	Commands []entities.SpawnCommand
	Bosses   []components.Archetype

	// Milestone 里程碑生命拾取物位置
	Milestone *utils.Vec3
}

// WaveStats 刷怪统计
type WaveStats struct {
	Planned int
	Fired   int
	Dropped int // 触发时因上限被丢弃
	Failed  int // 构造失败
}

// WaveDirector 波次规划与刷怪调度
//
// 规划阶段根据预算、并发上限和解锁等级生成一组带延迟的刷怪指令；
// 触发阶段由调度器在到期时回调，再次检查上限，超限的指令直接丢弃，不重试。
type WaveDirector struct {
	cfg      *config.ArenaConfig
	engine   *DifficultyEngine
	rng      *utils.PRNG
	sched    *game.Scheduler
	events   *game.Dispatcher
	registry *EnemyRegistry
	factory  *entities.EnemyFactory

	level     int
	waveID    uint64
	scaling   LevelScaling
	lastPlan  *WavePlan
	stats     WaveStats
	onSpawned func(e behavior.Enemy)
	bossOrder []string
}

// NewWaveDirector 创建波次调度器
//
// 参数:
//   - cfg: 竞技场配置
//   - rng: 共享随机数服务
//   - sched: 定时任务调度器
//   - events: 事件分发器，可为 nil
//   - registry: 敌人注册表
//   - factory: 敌人工厂
func NewWaveDirector(cfg *config.ArenaConfig, rng *utils.PRNG, sched *game.Scheduler, events *game.Dispatcher,
	registry *EnemyRegistry, factory *entities.EnemyFactory) *WaveDirector {
	d := &WaveDirector{
		cfg:      cfg,
		engine:   NewDifficultyEngine(cfg),
		rng:      rng,
		sched:    sched,
		events:   events,
		registry: registry,
		factory:  factory,
	}
	d.scaling = d.engine.Scaling(1)

	// 概率 Boss 按名称排序，保证同一种子下规划一致
	for name := range cfg.Chances {
		if components.Archetype(name).IsBossClass() {
			d.bossOrder = append(d.bossOrder, name)
		}
	}
	sort.Strings(d.bossOrder)
	return d
}

// Engine 难度引擎
func (d *WaveDirector) Engine() *DifficultyEngine { return d.engine }

// Level 当前等级，尚未开始时为 0
func (d *WaveDirector) Level() int { return d.level }

// SetLevel 设置下一次 NextWave 之前的等级（用于恢复存档）
func (d *WaveDirector) SetLevel(level int) {
	if level < 0 {
		level = 0
	}
	d.level = level
}

// Scaling 当前波次的难度数据
func (d *WaveDirector) Scaling() LevelScaling { return d.scaling }

// LastPlan 最近一次规划
func (d *WaveDirector) LastPlan() *WavePlan { return d.lastPlan }

// Stats 刷怪统计
func (d *WaveDirector) Stats() WaveStats { return d.stats }

// OnSpawned 设置敌人实际生成后的回调
func (d *WaveDirector) OnSpawned(fn func(e behavior.Enemy)) { d.onSpawned = fn }

// WaveInProgress 当前波次是否仍有未触发的刷怪指令或存活敌人
func (d *WaveDirector) WaveInProgress() bool {
	if d.waveID != 0 && d.sched.PendingOwner(game.OwnerWave(d.waveID)) > 0 {
		return true
	}
	return d.registry.Snapshot().Active > 0
}

// Update 波次评估：当前波次结束时进入下一级并规划、调度新的一波
// 返回新规划的波次，没有新波次时为 nil
func (d *WaveDirector) Update(player, facing utils.Vec3) *WavePlan {
	if d.level > 0 && d.WaveInProgress() {
		return nil
	}
	return d.NextWave(player, facing)
}

// NextWave 进入下一级并立即规划、调度
func (d *WaveDirector) NextWave(player, facing utils.Vec3) *WavePlan {
	d.level++
	plan := d.PlanWave(d.level, player, facing, d.registry.Snapshot())
	d.Schedule(plan)
	return plan
}

// PlanWave 规划一波
//
// 参数:
//   - level: 等级（从1开始）
//   - player: 玩家位置
//   - facing: 玩家朝向，用于布置侧翼传送门
//   - snapshot: 场上现有敌人计数
//
// 返回:
//   - *WavePlan: 规划结果，预算与 Boss 名额在任何步骤都不会为负
func (d *WaveDirector) PlanWave(level int, player, facing utils.Vec3, snapshot RegistrySnapshot) *WavePlan {
	if level < 1 {
		level = 1
	}
	d.waveID++
	scaling := d.engine.Scaling(level)
	d.scaling = scaling

	plan := &WavePlan{
		WaveID:  d.waveID,
		Level:   level,
		Scaling: scaling,
		Budget: components.WaveBudget{
			Level:              level,
			TotalBudget:        scaling.Budget,
			ActiveCap:          scaling.ActiveCap,
			BossCap:            scaling.BossCap,
			RemainingBudget:    scaling.Budget,
			RemainingBossSlots: nonNegative(scaling.BossCap - snapshot.Bosses),
		},
	}
	activeSlots := nonNegative(scaling.ActiveCap - snapshot.Active)

	d.dispatch(game.EventScalingChanged, game.ScalingChanged{
		Level:       level,
		DamageScale: scaling.DamageScale,
		SpeedScale:  scaling.SpeedScale,
	})
	d.dispatch(game.EventNarrative, game.Narrative{
		Text:  fmt.Sprintf("Level %d", level),
		Color: game.NarrativeLevelColor,
	})

	d.planMilestone(plan)
	d.planBosses(plan, player, snapshot, &activeSlots)
	mainPortals, behind := d.planPortals(plan, player, facing)
	d.fillSlots(plan, mainPortals, behind, &activeSlots)

	d.lastPlan = plan
	d.stats.Planned += len(plan.Commands)
	log.Printf("[WaveDirector] wave %d (level %d): budget %d/%d, %d commands, %d bosses, %d portals",
		plan.WaveID, level, scaling.Budget-plan.Budget.RemainingBudget, scaling.Budget,
		len(plan.Commands), len(plan.Bosses), len(plan.Portals))
	d.dispatch(game.EventWavePlanned, plan)
	return plan
}

// planMilestone 每 milestone.every 级在对角交替放置生命拾取物
func (d *WaveDirector) planMilestone(plan *WavePlan) {
	m := d.cfg.Milestone
	if m.Every <= 0 || plan.Level%m.Every != 0 {
		return
	}
	corner := d.cfg.Arena.Boundary - m.Inset
	if (plan.Level/m.Every)%2 == 0 {
		corner = -corner
	}
	pos := utils.Vec3{X: corner, Z: corner}
	plan.Milestone = &pos
	d.dispatch(game.EventNarrative, game.Narrative{
		Text:  "Extra life available",
		Color: game.NarrativeMilestoneColor,
	})
}

// planBosses 周期 Boss 与概率 Boss，最多三种且不重复
func (d *WaveDirector) planBosses(plan *WavePlan, player utils.Vec3, snapshot RegistrySnapshot, activeSlots *int) {
	candidates := make([]string, 0, maxBossesPerWave)
	if p := d.cfg.Bosses; p.Periodic != "" && p.Every > 0 && plan.Level%p.Every == 0 && d.cfg.Unlocked(p.Periodic, plan.Level) {
		candidates = append(candidates, p.Periodic)
	}
	for _, name := range d.bossOrder {
		if len(candidates) >= maxBossesPerWave {
			break
		}
		if containsString(candidates, name) || !d.cfg.Unlocked(name, plan.Level) {
			continue
		}
		if d.rng.Chance(d.cfg.Chance(name)) {
			candidates = append(candidates, name)
		}
	}

	cones := snapshot.Cones
	for _, name := range candidates {
		archetype := components.Archetype(name)
		if *activeSlots <= 0 || plan.Budget.RemainingBossSlots <= 0 {
			break
		}
		if archetype == components.ArchetypeCone && d.cfg.Caps.ConesMax > 0 && cones >= d.cfg.Caps.ConesMax {
			continue
		}
		if !plan.Budget.ReserveBoss(d.cfg.Cost(name)) {
			break
		}
		*activeSlots--
		if archetype == components.ArchetypeCone {
			cones++
		}

		pos := d.ringPosition(player, d.cfg.Portals.RadiusMax)
		plan.Commands = append(plan.Commands, entities.SpawnCommand{
			Archetype: archetype,
			Tier:      5,
			Position:  pos,
			DelayMs:   d.cfg.Portals.BaseDelayMs,
			Boss:      true,
			PortalID:  -1,
		})
		plan.Bosses = append(plan.Bosses, archetype)
		d.dispatch(game.EventNarrative, game.Narrative{
			Text:  fmt.Sprintf("Boss incoming: %s", name),
			Color: game.NarrativeBossColor,
		})
	}
}

// planPortals 在玩家周围布置传送门，达到等级后额外布置背后的侧翼传送门
func (d *WaveDirector) planPortals(plan *WavePlan, player, facing utils.Vec3) ([]components.Portal, *components.Portal) {
	pc := d.cfg.Portals
	now := d.sched.Now()
	count := d.rng.IntRange(pc.PerWaveMin, pc.PerWaveMax)
	if count < 1 {
		count = 1
	}

	portals := make([]components.Portal, 0, count)
	for i := 0; i < count; i++ {
		portals = append(portals, components.Portal{
			ID:         i,
			WaveID:     plan.WaveID,
			Position:   d.ringPosition(player, d.rng.Range(pc.RadiusMin, pc.RadiusMax)),
			Radius:     portalVisualRadius,
			CreatedAt:  now,
			LifetimeMs: pc.LifetimeMs,
		})
	}
	plan.Portals = append(plan.Portals, portals...)

	if pc.BehindMinWave <= 0 || plan.Level < pc.BehindMinWave || pc.BehindFraction <= 0 {
		return portals, nil
	}
	dir, ok := facing.Horizontal().Normalize()
	if !ok {
		dir = utils.Vec3{Z: -1}
	}
	behind := components.Portal{
		ID:         count,
		WaveID:     plan.WaveID,
		Position:   d.clampPosition(player.Sub(dir.Scale(pc.BehindDistance))),
		Radius:     behindPortalRadius,
		CreatedAt:  now,
		LifetimeMs: pc.LifetimeMs,
		Behind:     true,
	}
	plan.Portals = append(plan.Portals, behind)
	return portals, &plan.Portals[len(plan.Portals)-1]
}

// fillSlots 在传送门间轮转填充敌人，直到预算或并发名额耗尽
func (d *WaveDirector) fillSlots(plan *WavePlan, portals []components.Portal, behind *components.Portal, activeSlots *int) {
	pc := d.cfg.Portals
	perPortal := make(map[int]int, len(portals)+1)
	fraction := pc.BehindFraction

	for slot := 0; *activeSlots > 0 && plan.Budget.RemainingBudget > 0; slot++ {
		archetype, tier, species, health, boss := d.pickEnemy(plan)

		if !plan.Budget.TrySpend(d.cfg.Cost(string(archetype)), boss) {
			// 降级为最便宜的小兵
			archetype, tier, species, health, boss = components.ArchetypeMinion, 1, "", 0, false
			if !plan.Budget.TrySpend(d.cfg.Cost(string(archetype)), false) {
				break
			}
		}
		*activeSlots--

		portal := &portals[slot%len(portals)]
		if behind != nil && math.Floor(float64(slot+1)*fraction) > math.Floor(float64(slot)*fraction) {
			portal = behind
		}
		index := perPortal[portal.ID]
		perPortal[portal.ID]++

		plan.Commands = append(plan.Commands, entities.SpawnCommand{
			Archetype: archetype,
			Tier:      tier,
			Species:   species,
			Position:  d.jitter(portal.Position),
			Health:    health,
			MaxHealth: health,
			DelayMs:   pc.BaseDelayMs + float64(index)*pc.StaggerMs,
			Boss:      boss,
			PortalID:  portal.ID,
		})
	}
}

// pickEnemy 抽取阶级并映射到原型，不满足条件时逐级降级
func (d *WaveDirector) pickEnemy(plan *WavePlan) (components.Archetype, int, string, int, bool) {
	level := plan.Level
	tier := d.engine.SampleTier(level, d.rng)

	if tier == 4 {
		if d.cfg.Unlocked(string(components.ArchetypeCluster), level) && plan.Budget.RemainingBossSlots > 0 {
			return components.ArchetypeCluster, 4, "", 0, true
		}
		tier = 3
	}
	if tier == 3 {
		if species := d.unlockedSpecies(level); len(species) > 0 {
			s := species[d.rng.Intn(len(species))]
			return components.ArchetypeRoster, 3, s.Name, 0, false
		}
		return components.ArchetypeMinion, 3, "", degradedTierHealth, false
	}
	if tier == 2 {
		if d.cfg.Unlocked(string(components.ArchetypeBossMinion), level) && d.rng.Chance(d.cfg.Chance("elite")) {
			return components.ArchetypeBossMinion, 2, "", 0, false
		}
		return components.ArchetypeMinion, 2, "", 0, false
	}
	return components.ArchetypeMinion, 1, "", 0, false
}

// unlockedSpecies 本级已解锁的物种
func (d *WaveDirector) unlockedSpecies(level int) []*config.RosterSpecies {
	out := make([]*config.RosterSpecies, 0, len(d.cfg.Roster))
	for i := range d.cfg.Roster {
		if s := &d.cfg.Roster[i]; s.Unlock <= level {
			out = append(out, s)
		}
	}
	return out
}

// Schedule 把规划中的每条指令注册到调度器，归属为本波
func (d *WaveDirector) Schedule(plan *WavePlan) {
	owner := game.OwnerWave(plan.WaveID)
	level := plan.Level
	contactScale := plan.Scaling.DamageScale
	for _, cmd := range plan.Commands {
		d.sched.Schedule(owner, cmd.DelayMs, func() {
			d.fire(cmd, level, contactScale)
		})
	}
}

// fire 触发时检查上限，超限直接丢弃
func (d *WaveDirector) fire(cmd entities.SpawnCommand, level int, contactScale float64) {
	snap := d.registry.Snapshot()
	switch {
	case snap.Active >= d.engine.ActiveCap(level):
		d.stats.Dropped++
		return
	case cmd.Boss && snap.Bosses >= d.engine.BossCap(level):
		d.stats.Dropped++
		return
	case cmd.Archetype == components.ArchetypeCone && d.cfg.Caps.ConesMax > 0 && snap.Cones >= d.cfg.Caps.ConesMax:
		d.stats.Dropped++
		return
	}
	if _, err := d.spawn(cmd, contactScale); err != nil {
		d.stats.Failed++
		log.Printf("[WaveDirector] spawn %s failed: %v", cmd.Archetype, err)
		return
	}
	d.stats.Fired++
}

// LaunchDrones 从 origin 发射无人机，受场上无人机上限约束
// 返回实际发射数量
func (d *WaveDirector) LaunchDrones(origin utils.Vec3, count int) int {
	available := count
	if limit := d.cfg.Caps.Drones; limit > 0 {
		available = limit - d.registry.Snapshot().Drones
	}
	if available > count {
		available = count
	}
	launched := 0
	for i := 0; i < available; i++ {
		pos := origin
		pos.X += d.rng.Range(-droneSpread, droneSpread)
		pos.Z += d.rng.Range(-droneSpread, droneSpread)
		cmd := entities.SpawnCommand{Archetype: components.ArchetypeDrone, Tier: 1, Position: pos, PortalID: -1}
		if _, err := d.spawn(cmd, d.scaling.DamageScale); err != nil {
			log.Printf("[WaveDirector] drone launch failed: %v", err)
			break
		}
		launched++
	}
	return launched
}

// spawn 构造并注册敌人
func (d *WaveDirector) spawn(cmd entities.SpawnCommand, contactScale float64) (behavior.Enemy, error) {
	e, err := d.registry.Spawn(func(id ecs.EntityID) (behavior.Enemy, error) {
		return d.factory.Create(id, cmd, contactScale)
	})
	if err != nil {
		return nil, err
	}
	d.dispatch(game.EventEnemySpawned, game.EnemySpawned{
		EnemyID:   e.ID(),
		Archetype: e.Archetype(),
		Tier:      e.Tier(),
		Position:  e.Position(),
	})
	if d.onSpawned != nil {
		d.onSpawned(e)
	}
	return e, nil
}

// Reset 取消本波未触发的刷怪并回到初始等级
func (d *WaveDirector) Reset() {
	if d.waveID != 0 {
		d.sched.CancelOwner(game.OwnerWave(d.waveID))
	}
	d.level = 0
	d.lastPlan = nil
	d.stats = WaveStats{}
	d.scaling = d.engine.Scaling(1)
}

// ringPosition 玩家周围随机角度、给定半径处的位置
func (d *WaveDirector) ringPosition(center utils.Vec3, radius float64) utils.Vec3 {
	angle := d.rng.Angle()
	return d.clampPosition(utils.Vec3{
		X: center.X + math.Cos(angle)*radius,
		Z: center.Z + math.Sin(angle)*radius,
	})
}

// jitter 在 ±portals.jitter 内随机偏移
func (d *WaveDirector) jitter(p utils.Vec3) utils.Vec3 {
	j := d.cfg.Portals.Jitter
	if j <= 0 {
		return p
	}
	p.X += d.rng.Range(-j, j)
	p.Z += d.rng.Range(-j, j)
	return d.clampPosition(p)
}

func (d *WaveDirector) clampPosition(p utils.Vec3) utils.Vec3 {
	b := d.cfg.Arena.Boundary - arenaMargin
	if b <= 0 {
		return p
	}
	p.X = utils.Clamp(p.X, -b, b)
	p.Z = utils.Clamp(p.Z, -b, b)
	p.Y = 0
	return p
}

func (d *WaveDirector) dispatch(t game.EventType, data any) {
	if d.events != nil {
		d.events.Dispatch(game.Event{Type: t, Data: data})
	}
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
