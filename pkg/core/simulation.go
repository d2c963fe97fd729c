// Package core 提供无界面的竞技场模拟核心
//
// Simulation 持有全部系统并按帧推进，不依赖任何图形库，
// 命令行工具、观战推送和测试直接使用它，桌面调试画面在 pkg/app 中包装它。
package core

import (
	"fmt"
	"image/color"
	"log"

	"github.com/decker502/waveshooter/pkg/config"
	"github.com/decker502/waveshooter/pkg/ecs"
	"github.com/decker502/waveshooter/pkg/entities"
	"github.com/decker502/waveshooter/pkg/game"
	"github.com/decker502/waveshooter/pkg/systems"
	"github.com/decker502/waveshooter/pkg/systems/behavior"
	"github.com/decker502/waveshooter/pkg/utils"
)

const (
	// effectHighPower 高能模式持续时间任务
	effectHighPower uint64 = iota + 1
	// effectStunRounds 眩晕弹持续时间任务
	effectStunRounds
)

// pickupRadius 里程碑拾取物的拾取距离
const pickupRadius = 1.5

// LoadArena 加载竞技场配置，path 为空时返回内置默认值
func LoadArena(path string) (*config.ArenaConfig, error) {
	if path == "" {
		return config.DefaultArenaConfig(), nil
	}
	arena, err := config.LoadArenaConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load arena config: %w", err)
	}
	log.Printf("[Config] Loaded arena config: %s", path)
	return arena, nil
}

// SimConfig 模拟启动参数
type SimConfig struct {
	// Arena 竞技场配置，为 nil 时使用 DefaultArenaConfig
	Arena *config.ArenaConfig
	// Seed 随机种子，相同种子与相同输入得到相同的模拟过程
	Seed int64
	// Damage 玩家伤害函数，为 nil 时使用护甲优先的默认实现
	Damage game.DamageFunc
	// Checkpoints 检查点存储，为 nil 时不保存
	Checkpoints *game.CheckpointStore
	// AutoFire 启用自动射击
	AutoFire bool
}

// Simulation 竞技场模拟核心
//
// 单线程驱动，每次 Tick 按固定顺序推进：
// 敌人状态机（未暂停时）→ 子弹移动 → 碰撞结算 → 区域危害 → 自动射击
// → 调度器 → 波次评估。碰撞结算（含全部死亡事件）总是在波次评估读取
// 注册表之前完成。
type Simulation struct {
	cfg  *config.ArenaConfig
	seed int64
	rng  *utils.PRNG

	events      *game.Dispatcher
	sched       *game.Scheduler
	registry    *systems.EnemyRegistry
	factory     *entities.EnemyFactory
	director    *systems.WaveDirector
	pool        *entities.ProjectilePool
	projectiles *systems.ProjectileSystem
	combat      *systems.CombatResolver
	hazards     *systems.HazardSystem
	autofire    *systems.AutoFireSystem
	player      *game.PlayerState
	checkpoints *game.CheckpointStore
	damage      game.DamageFunc

	ctx behavior.Context

	tick      uint64
	now       float64 // 未暂停的模拟时间（毫秒）
	paused    bool
	over      bool
	score     int
	kills     int
	milestone *utils.Vec3
}

// NewSimulation 创建模拟
func NewSimulation(sc SimConfig) (*Simulation, error) {
	cfg := sc.Arena
	if cfg == nil {
		cfg = config.DefaultArenaConfig()
	}
	if cfg.Combat.PoolSize < 1 {
		return nil, fmt.Errorf("invalid combat.poolSize %d", cfg.Combat.PoolSize)
	}

	s := &Simulation{
		cfg:         cfg,
		seed:        sc.Seed,
		rng:         utils.NewPRNG(sc.Seed),
		events:      game.NewDispatcher(),
		registry:    systems.NewEnemyRegistry(),
		pool:        entities.NewProjectilePool(cfg.Combat.PoolSize),
		checkpoints: sc.Checkpoints,
		damage:      sc.Damage,
	}
	s.sched = game.NewScheduler(s.Paused)
	s.factory = entities.NewEnemyFactory(cfg, s.rng)
	s.director = systems.NewWaveDirector(cfg, s.rng, s.sched, s.events, s.registry, s.factory)
	s.projectiles = systems.NewProjectileSystem(s.pool, cfg)
	s.combat = systems.NewCombatResolver(cfg, s.pool, s.registry, s.events)
	s.player = s.newPlayer()
	s.hazards = systems.NewHazardSystem(cfg, s.player, s.events)
	s.autofire = systems.NewAutoFireSystem(cfg, s.projectiles, s.registry, s.player)
	s.autofire.Enabled = sc.AutoFire

	s.ctx = behavior.Context{
		Boundary:     cfg.Arena.Boundary,
		Rng:          s.rng,
		Separation:   s.registry.Separation,
		LaunchDrones: s.director.LaunchDrones,
		EmitHazard:   s.emitHazard,
	}

	s.events.SubscribeFunc(game.EventScoreDelta, func(e game.Event) {
		if d, ok := e.Data.(game.ScoreDelta); ok {
			s.score += d.Amount
		}
	})
	s.events.SubscribeFunc(game.EventEnemyDeath, func(e game.Event) {
		if d, ok := e.Data.(game.EnemyDeath); ok && d.KilledByPlayer {
			s.kills++
		}
	})

	log.Printf("[Simulation] created: seed=%d pool=%d boundary=%.0f", sc.Seed, cfg.Combat.PoolSize, cfg.Arena.Boundary)
	return s, nil
}

func (s *Simulation) newPlayer() *game.PlayerState {
	p := s.cfg.Player
	return game.NewPlayerState(float64(p.Health), float64(p.Armor), p.Lives, s.damage)
}

// Config 竞技场配置
func (s *Simulation) Config() *config.ArenaConfig { return s.cfg }

// Events 事件分发器
func (s *Simulation) Events() *game.Dispatcher { return s.events }

// Scheduler 定时任务调度器
func (s *Simulation) Scheduler() *game.Scheduler { return s.sched }

// Registry 敌人注册表
func (s *Simulation) Registry() *systems.EnemyRegistry { return s.registry }

// Pool 子弹池
func (s *Simulation) Pool() *entities.ProjectilePool { return s.pool }

// Director 波次调度
func (s *Simulation) Director() *systems.WaveDirector { return s.director }

// Hazards 区域危害系统
func (s *Simulation) Hazards() *systems.HazardSystem { return s.hazards }

// AutoFire 自动射击系统
func (s *Simulation) AutoFire() *systems.AutoFireSystem { return s.autofire }

// Combat 战斗结算器
func (s *Simulation) Combat() *systems.CombatResolver { return s.combat }

// Player 玩家状态
func (s *Simulation) Player() *game.PlayerState { return s.player }

// Now 未暂停的模拟时间（毫秒）
func (s *Simulation) Now() float64 { return s.now }

// Score 累计得分
func (s *Simulation) Score() int { return s.score }

// Kills 玩家击杀数
func (s *Simulation) Kills() int { return s.kills }

// Milestone 当前未拾取的里程碑位置
func (s *Simulation) Milestone() *utils.Vec3 { return s.milestone }

// Paused 共享暂停标志
func (s *Simulation) Paused() bool { return s.paused }

// Over 游戏是否已结束
func (s *Simulation) Over() bool { return s.over }

// Pause 暂停
func (s *Simulation) Pause() { s.paused = true }

// Resume 恢复
func (s *Simulation) Resume() { s.paused = false }

// TogglePause 切换暂停
func (s *Simulation) TogglePause() { s.paused = !s.paused }

// MovePlayer 沿 dir 移动玩家，速度受区域减速影响
// 参数:
//
//	dir - 输入方向（不要求归一化，零向量时不移动）
//	dt - 帧时长（秒）
func (s *Simulation) MovePlayer(dir utils.Vec3, dt float64) {
	if s.paused || s.over {
		return
	}
	d, ok := dir.Horizontal().Normalize()
	if !ok {
		return
	}
	speed := s.cfg.Player.Speed * s.player.SpeedMultiplier(s.now)
	s.SetPlayerPosition(s.player.Position.Add(d.Scale(speed * dt)))
}

// SetPlayerPosition 直接设置玩家位置（外部输入或自动驾驶）
func (s *Simulation) SetPlayerPosition(pos utils.Vec3) {
	if b := s.cfg.Arena.Boundary; b > 0 {
		pos.X = utils.Clamp(pos.X, -b, b)
		pos.Z = utils.Clamp(pos.Z, -b, b)
	}
	pos.Y = 0
	s.player.Position = pos
}

// Tick 推进一帧
// 参数:
//
//	dt - 帧时长（秒）
func (s *Simulation) Tick(dt float64) {
	if s.over || dt <= 0 {
		return
	}
	s.tick++
	dtMs := dt * 1000

	if !s.paused {
		s.now += dtMs
		s.updateEnemies(dt)
		if s.over {
			return
		}
		s.projectiles.Update(dt)
		s.combat.Update(s.now)
		s.hazards.Update(dtMs, s.now)
		s.checkPlayer()
		if s.over {
			return
		}
		s.autofire.Update(dtMs)
		s.collectMilestone()
	}

	s.sched.Advance(dtMs)

	if !s.paused {
		s.evaluateWave()
	}
}

// updateEnemies 推进全部敌人状态机并处理结果
func (s *Simulation) updateEnemies(dt float64) {
	s.ctx.Now = s.now
	s.ctx.Player = s.player.Position
	s.ctx.SpeedScale = s.director.Scaling().SpeedScale

	s.registry.Each(func(e behavior.Enemy) bool {
		out := e.Update(&s.ctx, dt)
		if out.PlayerDamage > 0 {
			s.damagePlayer(out.Source, out.PlayerDamage)
		}
		switch out.Status {
		case behavior.StatusHitPlayer:
			s.removeEnemy(e, game.CauseContact)
		case behavior.StatusDespawn:
			s.removeEnemy(e, game.CauseDespawn)
		}
		s.checkPlayer()
		return !s.over
	})
}

// removeEnemy 非玩家击杀的注销
func (s *Simulation) removeEnemy(e behavior.Enemy, cause game.DeathCause) {
	if !s.registry.Remove(e.ID()) {
		return
	}
	s.events.Dispatch(game.Event{Type: game.EventEnemyDeath, Data: game.EnemyDeath{
		EnemyID:   e.ID(),
		Archetype: e.Archetype(),
		Species:   e.Species(),
		Cause:     cause,
		Position:  e.Position(),
	}})
}

// damagePlayer 通过伤害函数结算，结算成功后授予短暂无敌
func (s *Simulation) damagePlayer(source string, amount float64) {
	result, applied := s.player.TakeDamage(s.now, game.DamageRequest{Amount: amount, Source: source})
	if !applied {
		return
	}
	s.player.GrantInvulnerability(s.now, s.cfg.Player.InvulnMs)
	s.events.Dispatch(game.Event{Type: game.EventPlayerDamaged, Data: game.PlayerDamaged{Source: source, Result: result}})
}

// checkPlayer 生命耗尽时消耗一条命，没有剩余生命则结束游戏
func (s *Simulation) checkPlayer() {
	if s.over || !s.player.IsDead() {
		return
	}
	if s.player.Respawn(float64(s.cfg.Player.Armor)) {
		s.player.GrantInvulnerability(s.now, s.cfg.Player.InvulnMs*2)
		log.Printf("[Simulation] life lost, %d remaining", s.player.Lives)
		s.narrate(fmt.Sprintf("Life lost (%d left)", s.player.Lives), game.NarrativeWarningColor)
		return
	}
	s.GameOver()
}

// emitHazard 敌人释放区域危害
func (s *Simulation) emitHazard(source ecs.EntityID, pos utils.Vec3, spec *config.HazardSpec) {
	if _, err := s.hazards.AddFromSpec(source, pos, spec, s.now); err != nil {
		log.Printf("[Simulation] hazard from %d rejected: %v", source, err)
	}
}

// AddHazard 添加拾取物或工具产生的区域
func (s *Simulation) AddHazard(pos utils.Vec3, spec *config.HazardSpec) (uint64, error) {
	id, err := s.hazards.AddFromSpec(0, pos, spec, s.now)
	if err != nil {
		return 0, fmt.Errorf("failed to add hazard: %w", err)
	}
	return id, nil
}

// evaluateWave 当前波次结束后规划下一波并保存检查点
func (s *Simulation) evaluateWave() {
	plan := s.director.Update(s.player.Position, s.player.Facing)
	if plan == nil {
		return
	}
	if plan.Milestone != nil {
		m := *plan.Milestone
		s.milestone = &m
	}
	s.saveCheckpoint(plan.Level)
}

// collectMilestone 玩家走到里程碑位置时获得一条命
func (s *Simulation) collectMilestone() {
	if s.milestone == nil || s.player.Position.DistXZ(*s.milestone) > pickupRadius {
		return
	}
	s.milestone = nil
	s.player.Lives++
	s.narrate("Extra life!", game.NarrativeMilestoneColor)
}

// ActivateHighPower 开启高能模式，持续 combat.highPowerMs
// 重复开启时重新计时
func (s *Simulation) ActivateHighPower() {
	s.activateEffect(effectHighPower, s.cfg.Combat.HighPowerMs, func(on bool) {
		s.autofire.HighPower = on
		s.combat.HighPower = on
	})
}

// ActivateStunRounds 在 durationMs 内发射非致命眩晕弹
func (s *Simulation) ActivateStunRounds(durationMs float64) {
	s.activateEffect(effectStunRounds, durationMs, func(on bool) { s.autofire.StunShots = on })
}

// ActivateShield 玩家在 durationMs 内无敌
func (s *Simulation) ActivateShield(durationMs float64) {
	s.player.GrantInvulnerability(s.now, durationMs)
}

func (s *Simulation) activateEffect(id uint64, durationMs float64, set func(on bool)) {
	owner := game.OwnerEffect(id)
	s.sched.CancelOwner(owner)
	set(true)
	s.sched.Schedule(owner, durationMs, func() { set(false) })
}

// FireAt 手动向方向 dir 射击
func (s *Simulation) FireAt(dir utils.Vec3) bool {
	if s.paused || s.over {
		return false
	}
	origin := s.player.Position
	origin.Y = 1
	_, ok := s.projectiles.Fire(origin, dir.Horizontal(), s.autofire.Style())
	return ok
}

// GameOver 结束游戏：取消全部定时任务并清除检查点
func (s *Simulation) GameOver() {
	if s.over {
		return
	}
	s.over = true
	cancelled := s.sched.CancelAll()
	log.Printf("[Simulation] game over at level %d, score %d (%d timers cancelled)", s.director.Level(), s.score, cancelled)
	s.events.Dispatch(game.Event{Type: game.EventGameOver, Data: s.score})
	if s.checkpoints != nil {
		if err := s.checkpoints.Clear(); err != nil {
			log.Printf("[Simulation] %v", err)
		}
	}
}

// Reset 回到初始状态
// 先取消全部定时任务，再清空注册表、子弹池和区域，任何迟到的刷怪都不会修改新世界
func (s *Simulation) Reset() {
	cancelled := s.sched.CancelAll()
	s.director.Reset()
	s.registry.Clear()
	s.pool.Clear()
	s.hazards.Clear()

	fresh := s.newPlayer()
	*s.player = *fresh
	s.autofire.HighPower = false
	s.combat.HighPower = false
	s.autofire.StunShots = false

	s.now = 0
	s.paused = false
	s.over = false
	s.score = 0
	s.kills = 0
	s.milestone = nil
	log.Printf("[Simulation] reset (%d timers cancelled)", cancelled)
}

// saveCheckpoint 每波开始时保存检查点
func (s *Simulation) saveCheckpoint(level int) {
	if s.checkpoints == nil {
		return
	}
	cp := game.Checkpoint{Level: level, Score: s.score, Lives: s.player.Lives, Seed: s.seed, Armor: s.player.Armor}
	if err := s.checkpoints.Save(cp); err != nil {
		log.Printf("[Simulation] %v", err)
	}
}

// Restore 从检查点恢复等级、得分与生命
// 下一次波次评估从检查点所在的等级开始；没有检查点时返回 false
func (s *Simulation) Restore() (bool, error) {
	if s.checkpoints == nil {
		return false, nil
	}
	cp, err := s.checkpoints.Load()
	if err != nil {
		return false, fmt.Errorf("failed to restore checkpoint: %w", err)
	}
	if cp == nil {
		return false, nil
	}
	s.Reset()
	s.director.SetLevel(cp.Level - 1)
	s.score = cp.Score
	s.player.Lives = cp.Lives
	s.player.Armor = cp.Armor
	log.Printf("[Simulation] restored checkpoint: level=%d score=%d lives=%d", cp.Level, cp.Score, cp.Lives)
	return true, nil
}

func (s *Simulation) narrate(text string, c color.RGBA) {
	s.events.Dispatch(game.Event{Type: game.EventNarrative, Data: game.Narrative{Text: text, Color: c}})
}
