package behavior

import (
	"log"

	"github.com/decker502/waveshooter/pkg/config"
	"github.com/decker502/waveshooter/pkg/utils"
)

// PipeBoss 地管 Boss
// 从地下升起后原地不动，每隔一段随机时间发射一批无人机
// 只有高能子弹能对其造成伤害
type PipeBoss struct {
	base
	tuning config.PipeTuning

	rising     float64 // 剩余升起时间（秒）
	nextLaunch float64
	launched   int
}

// NewPipeBoss 创建地管 Boss
func NewPipeBoss(spec Spec, tuning config.PipeTuning, rng *utils.PRNG) *PipeBoss {
	spec.SpawnHeight = 0
	p := &PipeBoss{base: newBase(spec), tuning: tuning, rising: tuning.RiseS}
	p.defense.ImmuneStandardFire = true
	p.nextLaunch = rng.Range(tuning.IntervalMinS, tuning.IntervalMaxS)
	return p
}

// Launched 累计发射的无人机数
func (p *PipeBoss) Launched() int { return p.launched }

// StateName 状态名
func (p *PipeBoss) StateName() string {
	switch {
	case p.rising > 0:
		return "rising"
	case p.stun.Active():
		return "stunned"
	default:
		return "launching"
	}
}

// Impulse 固定在地面，不受击退
func (p *PipeBoss) Impulse(dirX, dirZ, strength float64) {}

// Update 单帧更新
func (p *PipeBoss) Update(ctx *Context, dt float64) Outcome {
	if p.rising > 0 {
		p.rising -= dt
		return alive
	}
	if p.stun.Tick(dt) {
		return alive
	}
	p.nextLaunch -= dt
	if p.nextLaunch > 0 {
		return alive
	}
	p.nextLaunch = ctx.Rng.Range(p.tuning.IntervalMinS, p.tuning.IntervalMaxS)
	if ctx.LaunchDrones == nil {
		return alive
	}
	want := ctx.Rng.IntRange(p.tuning.LaunchMin, p.tuning.LaunchMax)
	got := ctx.LaunchDrones(p.pos, want)
	p.launched += got
	log.Printf("[PipeBoss] %d launched %d/%d drones", p.id, got, want)
	return alive
}
