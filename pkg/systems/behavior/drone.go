package behavior

import (
	"log"
	"math"

	"github.com/decker502/waveshooter/pkg/config"
	"github.com/decker502/waveshooter/pkg/utils"
)

// DroneState 无人机状态
type DroneState int

const (
	// DroneOrbit 跟随玩家环绕
	DroneOrbit DroneState = iota
	// DroneDive 朝锁定目标俯冲
	DroneDive
)

// String 状态名
func (s DroneState) String() string {
	if s == DroneDive {
		return "dive"
	}
	return "orbit"
}

const (
	// droneSwayAmplitude 环绕高度的上下摆动幅度
	droneSwayAmplitude = 0.4
	// droneAimHeight 俯冲瞄准点相对玩家脚下的高度
	droneAimHeight = 1.0
)

// Drone 环绕/俯冲无人机
//
// 发射后直接位于环绕高度，环绕阶段在玩家上方的圆环上跟随；
// 进入触发半径或超时后锁定玩家当前位置俯冲，俯冲途中不再重新瞄准。
// 击中玩家后消失；落到地面高度以下、飞出竞技场或越过锁定点后仍未下降时强制消失。
// 眩晕期间悬停，恢复后回到环绕。
type Drone struct {
	base
	tuning config.DroneTuning

	state      DroneState
	angle      float64
	orbitTime  float64
	diveTarget utils.Vec3
	diveDir    utils.Vec3
	wasStunned bool

	trail      []utils.Vec3
	trailHead  int
	trailTimer float64
}

// NewDrone 创建无人机，angle 为初始环绕角
func NewDrone(spec Spec, tuning config.DroneTuning, angle float64) *Drone {
	spec.SpawnHeight = 0
	d := &Drone{
		base:   newBase(spec),
		tuning: tuning,
		angle:  angle,
	}
	d.pos.Y = tuning.Altitude
	if tuning.TrailLength > 0 {
		d.trail = make([]utils.Vec3, 0, tuning.TrailLength)
	}
	return d
}

// State 当前状态
func (d *Drone) State() DroneState { return d.state }

// DiveTarget 俯冲锁定的目标点
func (d *Drone) DiveTarget() utils.Vec3 { return d.diveTarget }

// StateName 状态名
func (d *Drone) StateName() string {
	if d.stun.Active() {
		return "stunned"
	}
	return d.state.String()
}

// Impulse 无人机不受击退
func (d *Drone) Impulse(dirX, dirZ, strength float64) {}

// Trail 拖尾位置，从旧到新
func (d *Drone) Trail() []utils.Vec3 {
	n := len(d.trail)
	out := make([]utils.Vec3, 0, n)
	if n < cap(d.trail) {
		return append(out, d.trail...)
	}
	out = append(out, d.trail[d.trailHead:]...)
	return append(out, d.trail[:d.trailHead]...)
}

// Update 单帧更新
func (d *Drone) Update(ctx *Context, dt float64) Outcome {
	if d.stun.Tick(dt) {
		d.wasStunned = true
		return alive
	}
	if d.wasStunned {
		d.wasStunned = false
		d.resumeOrbit()
	}

	switch d.state {
	case DroneOrbit:
		d.orbit(ctx, dt)
		if d.pos.DistXZ(ctx.Player) < d.tuning.TriggerRadius || d.orbitTime >= d.tuning.OrbitTimeoutS {
			d.beginDive(aimPoint(ctx.Player))
		}
	case DroneDive:
		d.pos = d.pos.Add(d.diveDir.Scale(d.tuning.DiveSpeed * ctx.SpeedScale * dt))
		if d.pos.Sub(aimPoint(ctx.Player)).Len() < d.tuning.ImpactRadius {
			d.recordTrail(dt)
			return d.contact(StatusHitPlayer)
		}
		if d.diveEnded(ctx.Boundary) {
			return Outcome{Status: StatusDespawn}
		}
	}
	d.recordTrail(dt)
	return alive
}

// orbit 跟随玩家上方的圆环
func (d *Drone) orbit(ctx *Context, dt float64) {
	d.orbitTime += dt
	d.angle += d.tuning.OrbitSpeed * ctx.SpeedScale * dt
	target := utils.Vec3{
		X: ctx.Player.X + math.Cos(d.angle)*d.tuning.OrbitRadius,
		Z: ctx.Player.Z + math.Sin(d.angle)*d.tuning.OrbitRadius,
	}
	target.Y = d.pos.Y
	d.pos = d.pos.Lerp(target, d.tuning.FollowLerp*dt)
	// 高度不缓动，保证俯冲总是从瞄准点上方开始
	d.pos.Y = d.tuning.Altitude + math.Sin(d.angle*2)*droneSwayAmplitude
	d.clampToArena(ctx.Boundary)
}

// diveEnded 俯冲是否已结束而没有命中
func (d *Drone) diveEnded(boundary float64) bool {
	if d.pos.Y <= d.tuning.GroundY {
		return true
	}
	if boundary > 0 && (math.Abs(d.pos.X) > boundary || math.Abs(d.pos.Z) > boundary) {
		return true
	}
	passed := d.diveTarget.Sub(d.pos).Dot(d.diveDir) < 0
	return passed && d.diveDir.Y >= 0
}

func aimPoint(player utils.Vec3) utils.Vec3 {
	player.Y += droneAimHeight
	return player
}

// beginDive 锁定目标点，之后不再重新瞄准
func (d *Drone) beginDive(target utils.Vec3) {
	dir, ok := target.Sub(d.pos).Normalize()
	if !ok {
		dir = utils.Vec3{Y: -1}
	}
	d.state = DroneDive
	d.diveTarget = target
	d.diveDir = dir
	log.Printf("[Drone] %d dive -> (%.1f, %.1f, %.1f)", d.id, target.X, target.Y, target.Z)
}

// resumeOrbit 眩晕恢复后重新环绕
func (d *Drone) resumeOrbit() {
	d.state = DroneOrbit
	d.orbitTime = 0
	d.diveDir = utils.Vec3{}
}

// recordTrail 按固定间隔写入环形拖尾缓冲
func (d *Drone) recordTrail(dt float64) {
	if cap(d.trail) == 0 {
		return
	}
	d.trailTimer += dt
	if d.trailTimer < d.tuning.TrailIntervalS {
		return
	}
	d.trailTimer = 0
	if len(d.trail) < cap(d.trail) {
		d.trail = append(d.trail, d.pos)
		return
	}
	d.trail[d.trailHead] = d.pos
	d.trailHead = (d.trailHead + 1) % len(d.trail)
}
