package components

import "github.com/decker502/waveshooter/pkg/utils"

// HazardShape 区域形状
type HazardShape int

const (
	// ShapeCircle 圆形
	ShapeCircle HazardShape = iota
	// ShapeRect 轴对齐矩形
	ShapeRect
	// ShapeHexagon 正六边形
	ShapeHexagon
)

// HazardKind 区域效果类型
type HazardKind string

const (
	HazardSlow       HazardKind = "slow"
	HazardToxin      HazardKind = "toxin"
	HazardCorrosive  HazardKind = "corrosive"
	HazardFog        HazardKind = "fog"
	HazardCarcinogen HazardKind = "carcinogen"
)

// HazardZone 区域危害
// 独立于敌人存在，有自己的形状、触发节奏和过期时间
type HazardZone struct {
	ID       uint64
	Kind     HazardKind
	Shape    HazardShape
	Position utils.Vec3

	Radius   float64        // 圆形半径 / 六边形外接圆半径
	HalfW    float64        // 矩形半宽（X）
	HalfD    float64        // 矩形半深（Z）
	Vertices []utils.Point2 // 六边形预计算顶点

	SlowFactor     float64 // 区域内移动速度减免比例 [0, 1)
	DPS            float64 // 每秒伤害（毒素）或护甲消耗（腐蚀）
	TickIntervalMs float64 // 效果触发间隔
	CreatedAt      float64 // 创建时间（毫秒）
	DurationMs     float64 // 持续时间
	LastTick       float64 // 上次触发效果的时间
	SourceID       uint64  // 释放者实体ID，0 表示拾取物或工具
}

// Expired 是否已过期（now > CreatedAt + DurationMs）
func (z *HazardZone) Expired(now float64) bool {
	return now > z.CreatedAt+z.DurationMs
}

// Contains 点是否在区域内（XZ 平面）
func (z *HazardZone) Contains(p utils.Vec3) bool {
	switch z.Shape {
	case ShapeRect:
		return utils.PointInRect(p.X, p.Z, z.Position.X, z.Position.Z, z.HalfW, z.HalfD)
	case ShapeHexagon:
		if len(z.Vertices) == 0 {
			z.Vertices = utils.HexagonVertices(z.Position.X, z.Position.Z, z.Radius)
		}
		return utils.PointInPolygon(p.X, p.Z, z.Vertices)
	default:
		return utils.PointInCircle(p.X, p.Z, z.Position.X, z.Position.Z, z.Radius)
	}
}
