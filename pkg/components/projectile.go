package components

import "github.com/decker502/waveshooter/pkg/utils"

// ProjectileStyle 子弹外观样式
// 主要用于渲染，同时携带"非致命（仅眩晕）"标记
type ProjectileStyle struct {
	Name      string // 外观名称，如 "standard"、"highPower"、"stun"
	NonLethal bool   // 仅造成眩晕，不造成伤害
	HighPower bool   // 高能子弹
}

var (
	// StyleStandard 普通子弹
	StyleStandard = ProjectileStyle{Name: "standard"}
	// StyleHighPower 高能子弹（可伤害免疫普通子弹的敌人）
	StyleHighPower = ProjectileStyle{Name: "highPower", HighPower: true}
	// StyleStun 非致命眩晕弹
	StyleStun = ProjectileStyle{Name: "stun", NonLethal: true}
)

// Projectile 子弹
// 由 ProjectilePool 独占持有，槽位复用
type Projectile struct {
	ID        uint64     // 逻辑子弹ID，每次获取都会分配新值
	Slot      int        // 池内槽位下标
	Position  utils.Vec3 // 当前位置
	Direction utils.Vec3 // 飞行方向（单位向量）
	Age       float64    // 已存在时间（秒）
	Style     ProjectileStyle
}
