package systems

import (
	"testing"

	"github.com/decker502/waveshooter/pkg/components"
	"github.com/decker502/waveshooter/pkg/config"
	"github.com/decker502/waveshooter/pkg/entities"
	"github.com/decker502/waveshooter/pkg/utils"
)

func TestProjectileSystemMovement(t *testing.T) {
	cfg := config.DefaultArenaConfig()
	pool := entities.NewProjectilePool(4)
	s := NewProjectileSystem(pool, cfg)

	p, ok := s.Fire(utils.Vec3{Y: 1}, utils.Vec3{X: 3, Z: 4}, components.StyleStandard)
	if !ok {
		t.Fatal("Fire() should succeed")
	}
	s.Update(0.5)

	want := utils.Vec3{X: 0.6 * cfg.Combat.ProjectileSpeed * 0.5, Y: 1, Z: 0.8 * cfg.Combat.ProjectileSpeed * 0.5}
	if p.Position.Sub(want).Len() > 1e-9 {
		t.Errorf("position = %+v, want %+v", p.Position, want)
	}
}

func TestProjectileSystemRelease(t *testing.T) {
	tests := []struct {
		name   string
		origin utils.Vec3
		dir    utils.Vec3
		dt     float64
		want   int
	}{
		{name: "飞行中保留", origin: utils.Vec3{}, dir: utils.Vec3{X: 1}, dt: 0.1, want: 0},
		{name: "超时归还", origin: utils.Vec3{}, dir: utils.Vec3{Y: 1}, dt: 3.01, want: 1},
		{name: "飞出边界归还", origin: utils.Vec3{X: 99}, dir: utils.Vec3{X: 1}, dt: 0.1, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultArenaConfig()
			pool := entities.NewProjectilePool(4)
			s := NewProjectileSystem(pool, cfg)
			s.Fire(tt.origin, tt.dir, components.StyleStandard)

			if got := s.Update(tt.dt); got != tt.want {
				t.Errorf("released = %d, want %d", got, tt.want)
			}
			if pool.ActiveCount() != 1-tt.want {
				t.Errorf("active = %d, want %d", pool.ActiveCount(), 1-tt.want)
			}
		})
	}
}

func TestProjectileSystemPoolAbsorbsShots(t *testing.T) {
	cfg := config.DefaultArenaConfig()
	pool := entities.NewProjectilePool(2)
	s := NewProjectileSystem(pool, cfg)

	for i := 0; i < 2; i++ {
		if _, ok := s.Fire(utils.Vec3{}, utils.Vec3{X: 1}, components.StyleStandard); !ok {
			t.Fatalf("shot %d should be accepted", i)
		}
	}
	if _, ok := s.Fire(utils.Vec3{}, utils.Vec3{X: 1}, components.StyleStandard); ok {
		t.Error("池满时射击应被吸收")
	}
	s.Update(10)
	if _, ok := s.Fire(utils.Vec3{}, utils.Vec3{X: 1}, components.StyleStandard); !ok {
		t.Error("归还后应可以再次射击")
	}
}
