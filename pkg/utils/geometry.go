package utils

import "math"

// Point2 XZ 平面上的点
type Point2 struct {
	X, Z float64
}

// PointInCircle 圆形包含测试（平方距离比较，边界视为在内）
func PointInCircle(px, pz, cx, cz, radius float64) bool {
	dx := px - cx
	dz := pz - cz
	return dx*dx+dz*dz <= radius*radius
}

// PointInRect 轴对齐矩形包含测试
// halfW/halfD 为矩形半宽与半深
func PointInRect(px, pz, cx, cz, halfW, halfD float64) bool {
	return px >= cx-halfW && px <= cx+halfW && pz >= cz-halfD && pz <= cz+halfD
}

// PointInPolygon 射线法（奇偶规则）多边形包含测试
// 顶点需按顺序给出，首尾自动闭合
func PointInPolygon(px, pz float64, vertices []Point2) bool {
	n := len(vertices)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi := vertices[i]
		vj := vertices[j]
		if (vi.Z > pz) != (vj.Z > pz) {
			xCross := (vj.X-vi.X)*(pz-vi.Z)/(vj.Z-vi.Z) + vi.X
			if px < xCross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// HexagonVertices 生成以 (cx, cz) 为中心、外接圆半径为 radius 的正六边形顶点
// 第一个顶点位于 +X 方向
func HexagonVertices(cx, cz, radius float64) []Point2 {
	verts := make([]Point2, 6)
	for i := 0; i < 6; i++ {
		a := float64(i) * math.Pi / 3
		verts[i] = Point2{X: cx + radius*math.Cos(a), Z: cz + radius*math.Sin(a)}
	}
	return verts
}
