package components

// Archetype 敌人原型标签
type Archetype string

const (
	// ArchetypeMinion 普通近战小兵（T1/T2）
	ArchetypeMinion Archetype = "minion"
	// ArchetypeBossMinion 精英小兵（由 T2 转化而来）
	ArchetypeBossMinion Archetype = "bossMinion"
	// ArchetypeCluster 重型聚团（T4，占用 Boss 名额）
	ArchetypeCluster Archetype = "cluster"
	// ArchetypeTriangle 环绕/冲锋 Boss
	ArchetypeTriangle Archetype = "triangle"
	// ArchetypeCone 跳跃砸地 Boss
	ArchetypeCone Archetype = "cone"
	// ArchetypePipe 地管 Boss，周期性发射无人机
	ArchetypePipe Archetype = "pipe"
	// ArchetypeDrone 环绕/俯冲无人机
	ArchetypeDrone Archetype = "drone"
	// ArchetypeRoster 名录物种（带特性的 T3 敌人）
	ArchetypeRoster Archetype = "roster"
)

// IsBossClass 是否计入 Boss 并发上限
func (a Archetype) IsBossClass() bool {
	switch a {
	case ArchetypeTriangle, ArchetypeCone, ArchetypePipe, ArchetypeCluster:
		return true
	}
	return false
}
