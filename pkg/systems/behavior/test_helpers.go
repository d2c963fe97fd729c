package behavior

import (
	"github.com/decker502/waveshooter/pkg/components"
	"github.com/decker502/waveshooter/pkg/utils"
)

// frame 测试使用的固定帧长（秒）
const frame = 1.0 / 60

func newTestContext() *Context {
	return &Context{
		Player:     utils.Vec3{},
		SpeedScale: 1,
		Boundary:   100,
		Rng:        utils.NewPRNG(42),
	}
}

func newTestSpec(archetype components.Archetype, pos utils.Vec3) Spec {
	return Spec{
		ID:             7,
		Archetype:      archetype,
		Tier:           1,
		Position:       pos,
		Health:         5,
		MaxHealth:      5,
		DamageScale:    1,
		HitRadius:      0.8,
		KnockbackBase:  12,
		KnockbackDecay: 8,
		ContactDamage:  2,
	}
}

func step(e Enemy, ctx *Context, frames int) []Outcome {
	out := make([]Outcome, 0, frames)
	for i := 0; i < frames; i++ {
		ctx.Now += frame * 1000
		out = append(out, e.Update(ctx, frame))
	}
	return out
}
