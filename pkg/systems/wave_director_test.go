package systems

import (
	"reflect"
	"testing"

	"github.com/decker502/waveshooter/pkg/components"
	"github.com/decker502/waveshooter/pkg/config"
	"github.com/decker502/waveshooter/pkg/game"
	"github.com/decker502/waveshooter/pkg/systems/behavior"
	"github.com/decker502/waveshooter/pkg/utils"
)

var facingNorth = utils.Vec3{Z: -1}

func TestWaveDirectorBudgetNeverNegative(t *testing.T) {
	for _, seed := range []int64{1, 7, 42} {
		w := newTestWorld(nil, seed)
		for level := 1; level <= 60; level++ {
			plan := w.director.PlanWave(level, utils.Vec3{}, facingNorth, RegistrySnapshot{})

			if plan.Budget.RemainingBudget < 0 || plan.Budget.RemainingBossSlots < 0 {
				t.Fatalf("seed %d level %d: 预算为负 %+v", seed, level, plan.Budget)
			}
			if len(plan.Commands) > plan.Scaling.ActiveCap {
				t.Errorf("seed %d level %d: 指令数 %d 超过并发上限 %d", seed, level, len(plan.Commands), plan.Scaling.ActiveCap)
			}
			spent, bosses := 0, 0
			for _, cmd := range plan.Commands {
				if cmd.PortalID >= 0 {
					spent += w.cfg.Cost(string(cmd.Archetype))
				}
				if cmd.Boss {
					bosses++
				}
			}
			if spent > plan.Scaling.Budget {
				t.Errorf("seed %d level %d: 消耗 %d 超过预算 %d", seed, level, spent, plan.Scaling.Budget)
			}
			if bosses > plan.Scaling.BossCap {
				t.Errorf("seed %d level %d: Boss %d 超过上限 %d", seed, level, bosses, plan.Scaling.BossCap)
			}
		}
	}
}

func TestWaveDirectorFirstLevelMinions(t *testing.T) {
	cfg := config.DefaultArenaConfig()
	cfg.Budget = config.BudgetConfig{Base: 10, PerLevel: 0, Over10: 0}
	w := newTestWorld(cfg, 3)

	plan := w.director.PlanWave(1, utils.Vec3{}, facingNorth, RegistrySnapshot{})

	if len(plan.Commands) != 10 {
		t.Fatalf("指令数 = %d, want 10", len(plan.Commands))
	}
	for i, cmd := range plan.Commands {
		if cmd.Archetype != components.ArchetypeMinion || cmd.Tier != 1 {
			t.Errorf("command %d = %s T%d, want minion T1", i, cmd.Archetype, cmd.Tier)
		}
	}
	if plan.Budget.RemainingBudget != 0 {
		t.Errorf("剩余预算 = %d, want 0", plan.Budget.RemainingBudget)
	}
	if len(plan.Bosses) != 0 {
		t.Errorf("第1级不应有 Boss, got %v", plan.Bosses)
	}
}

func TestWaveDirectorStaggeredDelays(t *testing.T) {
	w := newTestWorld(nil, 5)
	plan := w.director.PlanWave(4, utils.Vec3{}, facingNorth, RegistrySnapshot{})
	pc := w.cfg.Portals

	perPortal := map[int]int{}
	for _, cmd := range plan.Commands {
		if cmd.PortalID < 0 {
			continue
		}
		want := pc.BaseDelayMs + float64(perPortal[cmd.PortalID])*pc.StaggerMs
		perPortal[cmd.PortalID]++
		if cmd.DelayMs != want {
			t.Errorf("portal %d: delay = %.0f, want %.0f", cmd.PortalID, cmd.DelayMs, want)
		}
	}
	if len(perPortal) < 2 {
		t.Errorf("至少应有2个传送门被使用, got %d", len(perPortal))
	}
}

func TestWaveDirectorPositionsInsideArena(t *testing.T) {
	w := newTestWorld(nil, 9)
	player := utils.Vec3{X: 98, Z: -98}
	plan := w.director.PlanWave(12, player, facingNorth, RegistrySnapshot{})
	limit := w.cfg.Arena.Boundary - arenaMargin

	for _, cmd := range plan.Commands {
		if cmd.Position.X < -limit || cmd.Position.X > limit || cmd.Position.Z < -limit || cmd.Position.Z > limit {
			t.Errorf("%s 生成位置越界: %+v", cmd.Archetype, cmd.Position)
		}
	}
}

func TestWaveDirectorMilestone(t *testing.T) {
	tests := []struct {
		name  string
		level int
		want  *utils.Vec3
	}{
		{name: "非里程碑等级", level: 7, want: nil},
		{name: "第10级正对角", level: 10, want: &utils.Vec3{X: 94, Z: 94}},
		{name: "第20级反对角", level: 20, want: &utils.Vec3{X: -94, Z: -94}},
		{name: "第30级正对角", level: 30, want: &utils.Vec3{X: 94, Z: 94}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWorld(nil, 1)
			plan := w.director.PlanWave(tt.level, utils.Vec3{}, facingNorth, RegistrySnapshot{})
			if !reflect.DeepEqual(plan.Milestone, tt.want) {
				t.Errorf("milestone = %v, want %v", plan.Milestone, tt.want)
			}
		})
	}
}

func TestWaveDirectorBehindPortal(t *testing.T) {
	tests := []struct {
		name       string
		level      int
		wantBehind bool
	}{
		{name: "未到侧翼等级", level: 7, wantBehind: false},
		{name: "侧翼等级", level: 8, wantBehind: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultArenaConfig()
			cfg.Budget.Base = 40
			w := newTestWorld(cfg, 11)
			plan := w.director.PlanWave(tt.level, utils.Vec3{}, utils.Vec3{Z: 1}, RegistrySnapshot{})

			var behind *components.Portal
			for i := range plan.Portals {
				if plan.Portals[i].Behind {
					behind = &plan.Portals[i]
				}
			}
			if (behind != nil) != tt.wantBehind {
				t.Fatalf("behind portal = %v, want %v", behind != nil, tt.wantBehind)
			}
			if behind == nil {
				return
			}
			if behind.Position.DistXZ(utils.Vec3{Z: -10}) > 1e-9 {
				t.Errorf("侧翼传送门位置 = %+v, want 玩家背后10", behind.Position)
			}
			used := 0
			for _, cmd := range plan.Commands {
				if cmd.PortalID == behind.ID {
					used++
				}
			}
			if used == 0 {
				t.Error("侧翼传送门应分到部分敌人")
			}
		})
	}
}

func TestWaveDirectorPeriodicBoss(t *testing.T) {
	w := newTestWorld(nil, 2)
	rec := record(w.events, game.EventNarrative)

	plan := w.director.PlanWave(3, utils.Vec3{}, facingNorth, RegistrySnapshot{})

	if len(plan.Bosses) != 1 || plan.Bosses[0] != components.ArchetypeTriangle {
		t.Fatalf("bosses = %v, want [triangle]", plan.Bosses)
	}
	var boss bool
	for _, cmd := range plan.Commands {
		if cmd.Archetype == components.ArchetypeTriangle {
			boss = cmd.Boss && cmd.Tier == 5 && cmd.PortalID == -1
		}
	}
	if !boss {
		t.Error("三角 Boss 指令应为 Boss、T5、不属于任何传送门")
	}
	if plan.Budget.RemainingBudget != 0 || plan.Budget.RemainingBossSlots != 0 {
		t.Errorf("Boss 超出预算时应扣到0, budget = %+v", plan.Budget)
	}
	if rec.count(game.EventNarrative) != 2 {
		t.Errorf("应派发等级和 Boss 提示, got %d", rec.count(game.EventNarrative))
	}
}

func TestWaveDirectorBossLimits(t *testing.T) {
	tests := []struct {
		name     string
		level    int
		snapshot RegistrySnapshot
		want     []components.Archetype
	}{
		{name: "场上已有Boss占满名额", level: 3, snapshot: RegistrySnapshot{Bosses: 1}, want: nil},
		{name: "周期与概率Boss同时出现", level: 9, want: []components.Archetype{components.ArchetypeTriangle, components.ArchetypeCone}},
		{name: "锥形Boss可出现", level: 10, want: []components.Archetype{components.ArchetypeCone}},
		{name: "锥形Boss达到上限", level: 10, snapshot: RegistrySnapshot{Cones: 6}, want: nil},
		{name: "并发名额已满", level: 10, snapshot: RegistrySnapshot{Active: 30}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultArenaConfig()
			cfg.Chances["cone"] = 1
			cfg.Chances["pipe"] = 0
			w := newTestWorld(cfg, 4)

			plan := w.director.PlanWave(tt.level, utils.Vec3{}, facingNorth, tt.snapshot)
			if !reflect.DeepEqual(plan.Bosses, tt.want) {
				t.Errorf("bosses = %v, want %v", plan.Bosses, tt.want)
			}
		})
	}
}

func TestWaveDirectorDeterministic(t *testing.T) {
	a := newTestWorld(nil, 1234)
	b := newTestWorld(nil, 1234)

	for level := 1; level <= 15; level++ {
		pa := a.director.PlanWave(level, utils.Vec3{}, facingNorth, RegistrySnapshot{})
		pb := b.director.PlanWave(level, utils.Vec3{}, facingNorth, RegistrySnapshot{})
		if !reflect.DeepEqual(pa.Commands, pb.Commands) {
			t.Fatalf("level %d: 相同种子的规划不一致", level)
		}
	}
}

func TestWaveDirectorFireRespectsCaps(t *testing.T) {
	cfg := config.DefaultArenaConfig()
	cfg.Budget.Base = 200
	w := newTestWorld(cfg, 8)
	w.director.SetLevel(19)
	plan := w.director.NextWave(utils.Vec3{}, facingNorth)
	// 同一等级再叠加一波，触发时必然有指令被丢弃
	w.director.Schedule(w.director.PlanWave(20, utils.Vec3{}, facingNorth, RegistrySnapshot{}))

	w.drain()

	snap := w.registry.Snapshot()
	engine := w.director.Engine()
	if snap.Active > engine.ActiveCap(plan.Level) {
		t.Errorf("active = %d, 超过上限 %d", snap.Active, engine.ActiveCap(plan.Level))
	}
	if snap.Bosses > engine.BossCap(plan.Level) {
		t.Errorf("bosses = %d, 超过上限 %d", snap.Bosses, engine.BossCap(plan.Level))
	}
	stats := w.director.Stats()
	if stats.Dropped == 0 {
		t.Error("超限的指令应被丢弃")
	}
	if stats.Fired+stats.Dropped+stats.Failed != stats.Planned {
		t.Errorf("统计不平衡: %+v", stats)
	}
	if stats.Fired != w.registry.Count() {
		t.Errorf("fired = %d, registry = %d", stats.Fired, w.registry.Count())
	}
}

func TestWaveDirectorSpawnEvents(t *testing.T) {
	w := newTestWorld(nil, 6)
	rec := record(w.events, game.EventEnemySpawned, game.EventWavePlanned, game.EventScalingChanged)
	spawned := 0
	w.director.OnSpawned(func(_ behavior.Enemy) { spawned++ })

	plan := w.director.NextWave(utils.Vec3{}, facingNorth)
	w.drain()

	if rec.count(game.EventWavePlanned) != 1 || rec.count(game.EventScalingChanged) != 1 {
		t.Errorf("规划事件数不正确: %d planned, %d scaling", rec.count(game.EventWavePlanned), rec.count(game.EventScalingChanged))
	}
	if rec.count(game.EventEnemySpawned) != len(plan.Commands) || spawned != len(plan.Commands) {
		t.Errorf("spawned events = %d, callbacks = %d, want %d", rec.count(game.EventEnemySpawned), spawned, len(plan.Commands))
	}
}

func TestWaveDirectorUpdateWaitsForWave(t *testing.T) {
	w := newTestWorld(nil, 10)

	first := w.director.Update(utils.Vec3{}, facingNorth)
	if first == nil || first.Level != 1 {
		t.Fatalf("第一次评估应规划第1级, got %+v", first)
	}
	if next := w.director.Update(utils.Vec3{}, facingNorth); next != nil {
		t.Fatal("本波未结束时不应规划新波次")
	}

	w.drain()
	if next := w.director.Update(utils.Vec3{}, facingNorth); next != nil {
		t.Fatal("仍有存活敌人时不应规划新波次")
	}

	w.registry.Clear()
	next := w.director.Update(utils.Vec3{}, facingNorth)
	if next == nil || next.Level != 2 {
		t.Fatalf("清场后应进入第2级, got %+v", next)
	}
}

func TestWaveDirectorReset(t *testing.T) {
	w := newTestWorld(nil, 12)
	plan := w.director.NextWave(utils.Vec3{}, facingNorth)
	if w.sched.PendingOwner(game.OwnerWave(plan.WaveID)) == 0 {
		t.Fatal("规划后应有待触发的刷怪任务")
	}

	w.director.Reset()
	w.drain()

	if w.registry.Count() != 0 {
		t.Errorf("重置后不应再生成敌人, got %d", w.registry.Count())
	}
	if w.director.Level() != 0 {
		t.Errorf("level = %d, want 0", w.director.Level())
	}
}

func TestWaveDirectorLaunchDrones(t *testing.T) {
	cfg := config.DefaultArenaConfig()
	cfg.Caps.Drones = 3
	w := newTestWorld(cfg, 13)
	origin := utils.Vec3{X: 5, Z: 5}

	if got := w.director.LaunchDrones(origin, 5); got != 3 {
		t.Errorf("第一次发射 = %d, want 3", got)
	}
	if got := w.director.LaunchDrones(origin, 2); got != 0 {
		t.Errorf("达到上限后发射 = %d, want 0", got)
	}
	snap := w.registry.Snapshot()
	if snap.Drones != 3 || snap.Active != 0 {
		t.Errorf("snapshot = %+v, want 3 drones 0 active", snap)
	}
}
