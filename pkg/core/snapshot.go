package core

import (
	"github.com/decker502/waveshooter/pkg/components"
	"github.com/decker502/waveshooter/pkg/systems"
	"github.com/decker502/waveshooter/pkg/systems/behavior"
	"github.com/decker502/waveshooter/pkg/utils"
)

// Snapshot 某一时刻的只读状态
// 供观战推送、终端监视器和调试画面使用
type Snapshot struct {
	Tick      uint64                   `json:"tick"`
	Now       float64                  `json:"now"`
	Level     int                      `json:"level"`
	Score     int                      `json:"score"`
	Kills     int                      `json:"kills"`
	Paused    bool                     `json:"paused"`
	Over      bool                     `json:"over"`
	HighPower bool                     `json:"highPower"`
	Counts    systems.RegistrySnapshot `json:"counts"`
	Waves     systems.WaveStats        `json:"waves"`
	Combat    systems.CombatStats      `json:"combat"`

	Player      PlayerSnapshot       `json:"player"`
	Enemies     []EnemySnapshot      `json:"enemies"`
	Projectiles []ProjectileSnapshot `json:"projectiles"`
	Hazards     []HazardSnapshot     `json:"hazards"`
	Portals     []PortalSnapshot     `json:"portals"`
	Milestone   *utils.Vec3          `json:"milestone,omitempty"`
}

// PlayerSnapshot 玩家状态
type PlayerSnapshot struct {
	Position     utils.Vec3 `json:"position"`
	Health       float64    `json:"health"`
	Armor        float64    `json:"armor"`
	Lives        int        `json:"lives"`
	Invulnerable bool       `json:"invulnerable"`
	Slowed       bool       `json:"slowed"`
}

// EnemySnapshot 敌人状态
type EnemySnapshot struct {
	ID        uint64               `json:"id"`
	Archetype components.Archetype `json:"archetype"`
	Tier      int                  `json:"tier"`
	Species   string               `json:"species,omitempty"`
	State     string               `json:"state"`
	Position  utils.Vec3           `json:"position"`
	Radius    float64              `json:"radius"`
	Health    int                  `json:"health"`
	MaxHealth int                  `json:"maxHealth"`
	Boss      bool                 `json:"boss"`
	Trail     []utils.Vec3         `json:"trail,omitempty"`
}

// ProjectileSnapshot 子弹状态
type ProjectileSnapshot struct {
	ID       uint64     `json:"id"`
	Position utils.Vec3 `json:"position"`
	Style    string     `json:"style"`
}

// HazardSnapshot 区域状态
type HazardSnapshot struct {
	ID       uint64                `json:"id"`
	Kind     components.HazardKind `json:"kind"`
	Shape    string                `json:"shape"`
	Position utils.Vec3            `json:"position"`
	Radius   float64               `json:"radius,omitempty"`
	HalfW    float64               `json:"halfW,omitempty"`
	HalfD    float64               `json:"halfD,omitempty"`
}

// PortalSnapshot 传送门状态
type PortalSnapshot struct {
	Position utils.Vec3 `json:"position"`
	Radius   float64    `json:"radius"`
	Behind   bool       `json:"behind"`
	Progress float64    `json:"progress"` // 存在时长进度 [0, 1]
}

// trailer 带尾迹的敌人（无人机）
type trailer interface {
	Trail() []utils.Vec3
}

var shapeNames = map[components.HazardShape]string{
	components.ShapeCircle:  "circle",
	components.ShapeRect:    "rect",
	components.ShapeHexagon: "hexagon",
}

// Snapshot 生成当前状态快照
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:      s.tick,
		Now:       s.now,
		Level:     s.director.Level(),
		Score:     s.score,
		Kills:     s.kills,
		Paused:    s.paused,
		Over:      s.over,
		HighPower: s.autofire.HighPower,
		Counts:    s.registry.Snapshot(),
		Waves:     s.director.Stats(),
		Combat:    s.combat.Stats(),
		Player: PlayerSnapshot{
			Position:     s.player.Position,
			Health:       s.player.Health,
			Armor:        s.player.Armor,
			Lives:        s.player.Lives,
			Invulnerable: s.player.IsInvulnerable(s.now),
			Slowed:       s.player.SpeedMultiplier(s.now) < 1,
		},
		Milestone: s.milestone,
	}

	s.registry.Each(func(e behavior.Enemy) bool {
		hp, maxHP := e.HealthPoints()
		es := EnemySnapshot{
			ID:        uint64(e.ID()),
			Archetype: e.Archetype(),
			Tier:      e.Tier(),
			Species:   e.Species(),
			State:     e.StateName(),
			Position:  e.Position(),
			Radius:    e.HitRadius(),
			Health:    hp,
			MaxHealth: maxHP,
			Boss:      e.IsBoss(),
		}
		if t, ok := e.(trailer); ok {
			es.Trail = t.Trail()
		}
		snap.Enemies = append(snap.Enemies, es)
		return true
	})

	s.pool.Each(func(p *components.Projectile) bool {
		snap.Projectiles = append(snap.Projectiles, ProjectileSnapshot{ID: p.ID, Position: p.Position, Style: p.Style.Name})
		return true
	})

	for _, z := range s.hazards.Zones() {
		snap.Hazards = append(snap.Hazards, HazardSnapshot{
			ID:       z.ID,
			Kind:     z.Kind,
			Shape:    shapeNames[z.Shape],
			Position: z.Position,
			Radius:   z.Radius,
			HalfW:    z.HalfW,
			HalfD:    z.HalfD,
		})
	}

	if plan := s.director.LastPlan(); plan != nil {
		nowSched := s.sched.Now()
		for _, p := range plan.Portals {
			if nowSched > p.ExpiresAt() {
				continue
			}
			progress := 1.0
			if p.LifetimeMs > 0 {
				progress = utils.Clamp((nowSched-p.CreatedAt)/p.LifetimeMs, 0, 1)
			}
			snap.Portals = append(snap.Portals, PortalSnapshot{
				Position: p.Position,
				Radius:   p.Radius,
				Behind:   p.Behind,
				Progress: progress,
			})
		}
	}
	return snap
}
