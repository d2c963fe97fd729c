package systems

import (
	"fmt"
	"log"

	"github.com/decker502/waveshooter/pkg/components"
	"github.com/decker502/waveshooter/pkg/config"
	"github.com/decker502/waveshooter/pkg/ecs"
	"github.com/decker502/waveshooter/pkg/game"
	"github.com/decker502/waveshooter/pkg/utils"
)

// conditionLingerMs 离开雾/致癌区域后状态的残留时间
const conditionLingerMs = 1500

// HazardSystem 区域危害系统
//
// 以固定节奏（hazards.checkIntervalMs）检查所有区域：
// 过期区域无论是否被进入过都会被移除；玩家所在的区域立即施加减速，
// 并按区域自身的触发间隔施加对应类型的效果。
type HazardSystem struct {
	cfg    *config.ArenaConfig
	player *game.PlayerState
	events *game.Dispatcher

	zones  []*components.HazardZone
	nextID uint64
	accMs  float64
}

// NewHazardSystem 创建区域危害系统
func NewHazardSystem(cfg *config.ArenaConfig, player *game.PlayerState, events *game.Dispatcher) *HazardSystem {
	return &HazardSystem{cfg: cfg, player: player, events: events, nextID: 1}
}

// Add 添加区域并分配ID
// 六边形顶点在此时预计算
func (s *HazardSystem) Add(zone components.HazardZone) uint64 {
	zone.ID = s.nextID
	s.nextID++
	if zone.Shape == components.ShapeHexagon {
		zone.Vertices = utils.HexagonVertices(zone.Position.X, zone.Position.Z, zone.Radius)
	}
	if zone.LastTick == 0 {
		zone.LastTick = zone.CreatedAt
	}
	z := zone
	s.zones = append(s.zones, &z)
	return z.ID
}

// AddFromSpec 根据物种配置在 pos 处创建区域
func (s *HazardSystem) AddFromSpec(source ecs.EntityID, pos utils.Vec3, spec *config.HazardSpec, now float64) (uint64, error) {
	zone, err := ZoneFromSpec(spec, pos, now)
	if err != nil {
		return 0, err
	}
	zone.SourceID = uint64(source)
	return s.Add(zone), nil
}

// ZoneFromSpec 把配置转换为区域
func ZoneFromSpec(spec *config.HazardSpec, pos utils.Vec3, now float64) (components.HazardZone, error) {
	if spec == nil {
		return components.HazardZone{}, fmt.Errorf("hazard spec is nil")
	}
	shape, err := ParseHazardShape(spec.Shape)
	if err != nil {
		return components.HazardZone{}, err
	}
	return components.HazardZone{
		Kind:           components.HazardKind(spec.Kind),
		Shape:          shape,
		Position:       pos,
		Radius:         spec.Radius,
		HalfW:          spec.HalfW,
		HalfD:          spec.HalfD,
		SlowFactor:     spec.SlowFactor,
		DPS:            spec.DPS,
		TickIntervalMs: spec.TickMs,
		CreatedAt:      now,
		DurationMs:     spec.DurationMs,
	}, nil
}

// ParseHazardShape 解析形状名
func ParseHazardShape(name string) (components.HazardShape, error) {
	switch name {
	case "", "circle":
		return components.ShapeCircle, nil
	case "rect":
		return components.ShapeRect, nil
	case "hexagon":
		return components.ShapeHexagon, nil
	}
	return 0, fmt.Errorf("unknown hazard shape %q", name)
}

// Zones 当前存活的区域
func (s *HazardSystem) Zones() []*components.HazardZone { return s.zones }

// Count 当前区域数
func (s *HazardSystem) Count() int { return len(s.zones) }

// Clear 移除全部区域
func (s *HazardSystem) Clear() {
	s.zones = s.zones[:0]
	s.accMs = 0
}

// Update 推进检查节奏
// 参数:
//
//	dtMs - 帧时长（毫秒）
//	now - 模拟时间（毫秒）
func (s *HazardSystem) Update(dtMs, now float64) {
	s.accMs += dtMs
	interval := s.cfg.Hazards.CheckIntervalMs
	if interval > 0 && s.accMs < interval {
		return
	}
	s.accMs = 0
	s.check(now)
}

// check 一次完整检查
func (s *HazardSystem) check(now float64) {
	kept := s.zones[:0]
	for _, z := range s.zones {
		if z.Expired(now) {
			continue
		}
		kept = append(kept, z)
		if s.player == nil || !z.Contains(s.player.Position) {
			continue
		}
		if z.SlowFactor > 0 {
			s.player.ApplySlow(now, z.SlowFactor, s.cfg.Hazards.SlowDurationMs)
		}
		if z.TickIntervalMs > 0 && now-z.LastTick >= z.TickIntervalMs {
			z.LastTick = now
			s.applyTick(z, now)
		}
	}
	// 释放被移除区域的引用
	for i := len(kept); i < len(s.zones); i++ {
		s.zones[i] = nil
	}
	s.zones = kept
}

// applyTick 按区域类型施加效果
func (s *HazardSystem) applyTick(z *components.HazardZone, now float64) {
	perTick := z.DPS * z.TickIntervalMs / 1000
	switch z.Kind {
	case components.HazardToxin:
		req := game.DamageRequest{Amount: perTick, Source: string(z.Kind)}
		if result, applied := s.player.TakeDamage(now, req); applied {
			s.dispatch(game.EventPlayerDamaged, game.PlayerDamaged{Source: string(z.Kind), Result: result})
		}
	case components.HazardCorrosive:
		if drained := s.player.DrainArmor(perTick); drained > 0 {
			log.Printf("[HazardSystem] zone %d drained %.1f armor", z.ID, drained)
		}
	case components.HazardFog:
		s.player.AddCondition(game.ConditionObscured, now, z.TickIntervalMs+conditionLingerMs)
	case components.HazardCarcinogen:
		s.player.AddCondition(game.ConditionHealingReduced, now, z.TickIntervalMs+conditionLingerMs)
	}
}

func (s *HazardSystem) dispatch(t game.EventType, data any) {
	if s.events != nil {
		s.events.Dispatch(game.Event{Type: t, Data: data})
	}
}
