package game

import (
	"image/color"

	"golang.org/x/image/colornames"

	"github.com/decker502/waveshooter/pkg/components"
	"github.com/decker502/waveshooter/pkg/ecs"
	"github.com/decker502/waveshooter/pkg/utils"
)

// EventType 事件类型
type EventType string

const (
	EventEnemySpawned   EventType = "EnemySpawned"
	EventEnemyDamaged   EventType = "EnemyDamaged"
	EventEnemyDeath     EventType = "EnemyDeath"
	EventScoreDelta     EventType = "ScoreDelta"
	EventLootRoll       EventType = "LootRoll"
	EventNarrative      EventType = "Narrative"
	EventScalingChanged EventType = "ScalingChanged"
	EventWavePlanned    EventType = "WavePlanned"
	EventPlayerDamaged  EventType = "PlayerDamaged"
	EventGameOver       EventType = "GameOver"
)

// Event 事件
type Event struct {
	Type EventType
	Data any
}

// Listener 事件订阅者
type Listener interface {
	OnEvent(event Event)
}

// ListenerFunc 函数形式的订阅者
type ListenerFunc func(event Event)

// OnEvent 实现 Listener
func (f ListenerFunc) OnEvent(event Event) { f(event) }

// Dispatcher 事件分发器
// 同步分发，订阅者在 Dispatch 调用栈内执行
type Dispatcher struct {
	listeners map[EventType][]Listener
}

// NewDispatcher 创建事件分发器
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		listeners: make(map[EventType][]Listener),
	}
}

// Subscribe 订阅事件
func (d *Dispatcher) Subscribe(eventType EventType, listener Listener) {
	d.listeners[eventType] = append(d.listeners[eventType], listener)
}

// SubscribeFunc 以函数订阅事件
func (d *Dispatcher) SubscribeFunc(eventType EventType, fn func(Event)) {
	d.Subscribe(eventType, ListenerFunc(fn))
}

// Unsubscribe 取消订阅
// 函数形式的订阅者无法比较，只能通过 Listener 实例取消
func (d *Dispatcher) Unsubscribe(eventType EventType, listener Listener) {
	listeners, exists := d.listeners[eventType]
	if !exists {
		return
	}
	for i, l := range listeners {
		if l == listener {
			d.listeners[eventType] = append(listeners[:i], listeners[i+1:]...)
			return
		}
	}
}

// Dispatch 分发事件
func (d *Dispatcher) Dispatch(event Event) {
	for _, listener := range d.listeners[event.Type] {
		listener.OnEvent(event)
	}
}

// DeathCause 死亡原因
type DeathCause string

const (
	// CauseFire 被玩家子弹击杀
	CauseFire DeathCause = "fire"
	// CauseContact 与玩家碰撞
	CauseContact DeathCause = "contact"
	// CauseDespawn 强制消失（如无人机落地）
	CauseDespawn DeathCause = "despawn"
)

// EnemyDeath 死亡事件
type EnemyDeath struct {
	EnemyID        ecs.EntityID
	Archetype      components.Archetype
	Species        string
	KilledByPlayer bool
	Cause          DeathCause
	Position       utils.Vec3
}

// EnemyDamaged 受伤事件
type EnemyDamaged struct {
	EnemyID   ecs.EntityID
	Lost      int
	Remaining int
}

// EnemySpawned 出生事件
type EnemySpawned struct {
	EnemyID   ecs.EntityID
	Archetype components.Archetype
	Tier      int
	Position  utils.Vec3
}

// ScoreDelta 得分变化
type ScoreDelta struct {
	Amount int
	Reason string
}

// LootRoll 掉落判定请求
type LootRoll struct {
	Position utils.Vec3
	Chance   float64
	Source   components.Archetype
}

// Narrative 提示文字（纯表现）
type Narrative struct {
	Text  string
	Color color.RGBA
}

// ScalingChanged 难度倍率变化
type ScalingChanged struct {
	Level       int
	DamageScale float64
	SpeedScale  float64
}

// PlayerDamaged 玩家受伤
type PlayerDamaged struct {
	Source string
	Result DamageResult
}

// 提示文字颜色
var (
	NarrativeLevelColor     = colornames.Lightskyblue
	NarrativeBossColor      = colornames.Orangered
	NarrativeMilestoneColor = colornames.Gold
	NarrativeWarningColor   = colornames.Yellow
)
