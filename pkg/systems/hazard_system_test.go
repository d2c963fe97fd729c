package systems

import (
	"math"
	"testing"

	"github.com/decker502/waveshooter/pkg/components"
	"github.com/decker502/waveshooter/pkg/config"
	"github.com/decker502/waveshooter/pkg/game"
	"github.com/decker502/waveshooter/pkg/utils"
)

func newTestHazards(armor float64) (*HazardSystem, *game.PlayerState, *game.Dispatcher) {
	cfg := config.DefaultArenaConfig()
	player := game.NewPlayerState(100, armor, 3, nil)
	events := game.NewDispatcher()
	return NewHazardSystem(cfg, player, events), player, events
}

// run 以 100ms 为步长推进到 until
func run(s *HazardSystem, from, until float64) {
	for now := from + 100; now <= until; now += 100 {
		s.Update(100, now)
	}
}

func TestHazardSystemExpiry(t *testing.T) {
	s, player, _ := newTestHazards(0)
	player.Position = utils.Vec3{X: 50}
	s.Add(components.HazardZone{Kind: components.HazardToxin, Radius: 3, DPS: 5, TickIntervalMs: 500, DurationMs: 1000})

	run(s, 0, 1000)
	if s.Count() != 1 {
		t.Fatalf("未过期的区域应保留, count = %d", s.Count())
	}
	run(s, 1000, 1100)
	if s.Count() != 0 {
		t.Errorf("过期区域即使从未被进入也应移除, count = %d", s.Count())
	}
	if player.Health != 100 {
		t.Errorf("区域外不应受伤, health = %.1f", player.Health)
	}
}

func TestHazardSystemCheckCadence(t *testing.T) {
	s, player, _ := newTestHazards(0)
	s.Add(components.HazardZone{Kind: components.HazardSlow, Radius: 3, SlowFactor: 0.4, DurationMs: 5000})

	s.Update(50, 50)
	if got := player.SpeedMultiplier(50); got != 1 {
		t.Fatalf("未到检查间隔不应生效, multiplier = %.2f", got)
	}
	s.Update(50, 100)
	if got := player.SpeedMultiplier(100); math.Abs(got-0.6) > 1e-9 {
		t.Errorf("multiplier = %.2f, want 0.60", got)
	}
}

func TestHazardSystemSlowLapses(t *testing.T) {
	s, player, _ := newTestHazards(0)
	s.Add(components.HazardZone{Kind: components.HazardSlow, Radius: 3, SlowFactor: 0.4, DurationMs: 5000})

	run(s, 0, 500)
	player.Position = utils.Vec3{X: 10}
	run(s, 500, 1000)

	if got := player.SpeedMultiplier(1000); got != 1 {
		t.Errorf("离开区域后减速应很快失效, multiplier = %.2f", got)
	}
}

func TestHazardSystemToxinCadence(t *testing.T) {
	s, player, events := newTestHazards(0)
	rec := record(events, game.EventPlayerDamaged)
	s.Add(components.HazardZone{Kind: components.HazardToxin, Radius: 4.5, DPS: 2, TickIntervalMs: 500, DurationMs: 6000})

	run(s, 0, 1000)

	if rec.count(game.EventPlayerDamaged) != 2 {
		t.Fatalf("1秒内应触发2次, got %d", rec.count(game.EventPlayerDamaged))
	}
	if math.Abs(player.Health-98) > 1e-9 {
		t.Errorf("health = %.2f, want 98", player.Health)
	}
}

func TestHazardSystemToxinRespectsInvulnerability(t *testing.T) {
	s, player, _ := newTestHazards(0)
	player.GrantInvulnerability(0, 5000)
	s.Add(components.HazardZone{Kind: components.HazardToxin, Radius: 4.5, DPS: 2, TickIntervalMs: 500, DurationMs: 6000})

	run(s, 0, 1000)

	if player.Health != 100 {
		t.Errorf("无敌时不应受伤, health = %.2f", player.Health)
	}
}

func TestHazardSystemEffects(t *testing.T) {
	tests := []struct {
		name   string
		zone   components.HazardZone
		player utils.Vec3
		check  func(t *testing.T, p *game.PlayerState)
	}{
		{
			name:   "腐蚀消耗护甲",
			zone:   components.HazardZone{Kind: components.HazardCorrosive, Radius: 3.6, DPS: 3, TickIntervalMs: 500, DurationMs: 5000},
			player: utils.Vec3{X: 1},
			check: func(t *testing.T, p *game.PlayerState) {
				if math.Abs(p.Armor-47) > 1e-9 || p.Health != 100 {
					t.Errorf("armor = %.2f health = %.2f, want 47 / 100", p.Armor, p.Health)
				}
			},
		},
		{
			name:   "孢子雾遮挡视野",
			zone:   components.HazardZone{Kind: components.HazardFog, Radius: 4.6, TickIntervalMs: 1000, DurationMs: 6000},
			player: utils.Vec3{Z: -2},
			check: func(t *testing.T, p *game.PlayerState) {
				if !p.HasCondition(game.ConditionObscured, 1000) {
					t.Error("应处于视野受阻状态")
				}
			},
		},
		{
			name:   "致癌区域削弱治疗",
			zone:   components.HazardZone{Kind: components.HazardCarcinogen, Shape: components.ShapeRect, HalfW: 3, HalfD: 2, TickIntervalMs: 1000, DurationMs: 6000},
			player: utils.Vec3{X: 2.5, Z: 1.5},
			check: func(t *testing.T, p *game.PlayerState) {
				p.Health = 50
				p.Heal(1000, 10)
				if p.Health != 55 {
					t.Errorf("治疗应减半, health = %.1f", p.Health)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, player, _ := newTestHazards(50)
			player.Position = tt.player
			s.Add(tt.zone)
			run(s, 0, 1000)
			tt.check(t, player)
		})
	}
}

func TestHazardSystemHexagon(t *testing.T) {
	tests := []struct {
		name   string
		player utils.Vec3
		inside bool
	}{
		{name: "顶点方向内侧", player: utils.Vec3{X: 3.5}, inside: true},
		{name: "外接圆内但边外", player: utils.Vec3{Z: 3.3}, inside: false},
		{name: "中心", player: utils.Vec3{}, inside: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, player, _ := newTestHazards(0)
			player.Position = tt.player
			s.Add(components.HazardZone{Kind: components.HazardSlow, Shape: components.ShapeHexagon, Radius: 3.6, SlowFactor: 0.2, DurationMs: 5000})

			run(s, 0, 100)

			slowed := player.SpeedMultiplier(100) < 1
			if slowed != tt.inside {
				t.Errorf("slowed = %v, want %v", slowed, tt.inside)
			}
		})
	}
}

func TestHazardSystemFromSpec(t *testing.T) {
	cfg := config.DefaultArenaConfig()
	s, _, _ := newTestHazards(0)

	for _, species := range cfg.Roster {
		if species.Hazard == nil {
			continue
		}
		t.Run(species.Name, func(t *testing.T) {
			if _, err := s.AddFromSpec(7, utils.Vec3{X: 1}, species.Hazard, 0); err != nil {
				t.Fatalf("AddFromSpec() error = %v", err)
			}
		})
	}
	if s.Count() != 4 {
		t.Errorf("count = %d, want 4", s.Count())
	}
	for _, z := range s.Zones() {
		if z.SourceID != 7 {
			t.Errorf("zone %d source = %d, want 7", z.ID, z.SourceID)
		}
	}

	if _, err := s.AddFromSpec(7, utils.Vec3{}, &config.HazardSpec{Kind: "toxin", Shape: "star"}, 0); err == nil {
		t.Error("未知形状应返回错误")
	}
	if _, err := s.AddFromSpec(7, utils.Vec3{}, nil, 0); err == nil {
		t.Error("nil 配置应返回错误")
	}
}
