package systems

import (
	"github.com/decker502/waveshooter/pkg/components"
	"github.com/decker502/waveshooter/pkg/config"
	"github.com/decker502/waveshooter/pkg/ecs"
	"github.com/decker502/waveshooter/pkg/entities"
	"github.com/decker502/waveshooter/pkg/game"
	"github.com/decker502/waveshooter/pkg/systems/behavior"
	"github.com/decker502/waveshooter/pkg/utils"
)

// fakeEnemy 可完全控制的敌人，用于战斗结算测试
type fakeEnemy struct {
	id        ecs.EntityID
	archetype components.Archetype
	pos       utils.Vec3
	radius    float64
	kbBase    float64
	health    components.HealthComponent
	defense   components.DefenseComponent
	charging  bool

	stunMs   float64
	impulses []utils.Vec3 // (dirX*strength, 0, dirZ*strength)
}

func newFakeEnemy(archetype components.Archetype, pos utils.Vec3, health int) *fakeEnemy {
	return &fakeEnemy{
		archetype: archetype,
		pos:       pos,
		radius:    0.8,
		kbBase:    12,
		health:    components.NewHealthComponent(health, 1),
	}
}

func (f *fakeEnemy) ID() ecs.EntityID                { return f.id }
func (f *fakeEnemy) Archetype() components.Archetype { return f.archetype }
func (f *fakeEnemy) Tier() int                       { return 1 }
func (f *fakeEnemy) Species() string                 { return "" }
func (f *fakeEnemy) Position() utils.Vec3            { return f.pos }
func (f *fakeEnemy) HitRadius() float64              { return f.radius }
func (f *fakeEnemy) KnockbackBase() float64          { return f.kbBase }
func (f *fakeEnemy) IsBoss() bool                    { return f.archetype.IsBossClass() }
func (f *fakeEnemy) StateName() string               { return "fake" }
func (f *fakeEnemy) DamageScale() float64            { return f.health.DamageScale }
func (f *fakeEnemy) Defense() components.DefenseComponent {
	return f.defense
}
func (f *fakeEnemy) IsCharging() bool { return f.charging }
func (f *fakeEnemy) IsStunned() bool  { return f.stunMs > 0 }
func (f *fakeEnemy) Stun(ms float64)  { f.stunMs += ms }
func (f *fakeEnemy) HealthPoints() (int, int) {
	return f.health.CurrentHealth, f.health.MaxHealth
}

func (f *fakeEnemy) Impulse(dirX, dirZ, strength float64) {
	f.impulses = append(f.impulses, utils.Vec3{X: dirX * strength, Z: dirZ * strength})
}

func (f *fakeEnemy) Damage(amount, now float64) (int, bool) {
	lost := f.health.ApplyFractionalDamage(amount)
	if lost > 0 {
		f.defense.StartResilience(now)
	}
	return lost, f.health.IsDead()
}

func (f *fakeEnemy) Update(ctx *behavior.Context, dt float64) behavior.Outcome {
	return behavior.Outcome{Status: behavior.StatusAlive}
}

// addFake 把 fakeEnemy 注册到注册表
func addFake(r *EnemyRegistry, f *fakeEnemy) *fakeEnemy {
	r.Spawn(func(id ecs.EntityID) (behavior.Enemy, error) {
		f.id = id
		return f, nil
	})
	return f
}

// testWorld 波次与战斗测试共用的依赖
type testWorld struct {
	cfg      *config.ArenaConfig
	rng      *utils.PRNG
	sched    *game.Scheduler
	events   *game.Dispatcher
	registry *EnemyRegistry
	factory  *entities.EnemyFactory
	director *WaveDirector
	pool     *entities.ProjectilePool
}

func newTestWorld(cfg *config.ArenaConfig, seed int64) *testWorld {
	if cfg == nil {
		cfg = config.DefaultArenaConfig()
	}
	w := &testWorld{
		cfg:      cfg,
		rng:      utils.NewPRNG(seed),
		sched:    game.NewScheduler(nil),
		events:   game.NewDispatcher(),
		registry: NewEnemyRegistry(),
		pool:     entities.NewProjectilePool(cfg.Combat.PoolSize),
	}
	w.factory = entities.NewEnemyFactory(cfg, w.rng)
	w.director = NewWaveDirector(cfg, w.rng, w.sched, w.events, w.registry, w.factory)
	return w
}

// drain 推进调度器直到没有待执行任务
func (w *testWorld) drain() {
	for i := 0; i < 1000 && w.sched.Pending() > 0; i++ {
		w.sched.Advance(100)
	}
}

// recorder 记录派发的事件
type recorder struct {
	events []game.Event
}

func (r *recorder) OnEvent(e game.Event) { r.events = append(r.events, e) }

func (r *recorder) count(t game.EventType) int {
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func record(d *game.Dispatcher, types ...game.EventType) *recorder {
	r := &recorder{}
	for _, t := range types {
		d.Subscribe(t, r)
	}
	return r
}
