package components

import "github.com/decker502/waveshooter/pkg/utils"

// Portal 刷怪传送门（预警标记）
// 渲染器负责显示，生命周期决定延迟刷怪的时间窗口
type Portal struct {
	ID         int        // 本波内序号
	WaveID     uint64     // 所属波次
	Position   utils.Vec3 // 位置
	Radius     float64    // 视觉半径
	CreatedAt  float64    // 创建时间（毫秒）
	LifetimeMs float64    // 存在时长（毫秒）
	Behind     bool       // 是否为玩家背后的侧翼传送门
}

// ExpiresAt 传送门过期时间
func (p Portal) ExpiresAt() float64 {
	return p.CreatedAt + p.LifetimeMs
}
