package game

import "testing"

func TestPlayerInvulnerability(t *testing.T) {
	p := NewPlayerState(100, 50, 3, nil)
	p.GrantInvulnerability(1000, 500)

	if _, applied := p.TakeDamage(1200, DamageRequest{Amount: 30}); applied {
		t.Error("damage should be ignored while invulnerable")
	}
	if p.Armor != 50 || p.Health != 100 {
		t.Errorf("state changed while invulnerable: health %v armor %v", p.Health, p.Armor)
	}

	r, applied := p.TakeDamage(1600, DamageRequest{Amount: 60})
	if !applied {
		t.Fatal("damage should apply after invulnerability ends")
	}
	if p.Armor != 0 || p.Health != 90 {
		t.Errorf("expected health 90 armor 0, got health %v armor %v", p.Health, p.Armor)
	}
	if len(r.Events) != 2 || r.Events[0].Kind != DamageEventArmor {
		t.Errorf("expected armor event before hp event, got %+v", r.Events)
	}
}

func TestPlayerCustomDamageFunc(t *testing.T) {
	calls := 0
	p := NewPlayerState(100, 50, 1, func(h, a float64, req DamageRequest) DamageResult {
		calls++
		return DamageResult{Health: h - 1, Armor: a}
	})
	p.TakeDamage(0, DamageRequest{Amount: 99})
	if calls != 1 || p.Health != 99 {
		t.Errorf("custom damage function not used: calls %d health %v", calls, p.Health)
	}
}

func TestPlayerSlow(t *testing.T) {
	p := NewPlayerState(100, 0, 1, nil)
	if p.SpeedMultiplier(0) != 1 {
		t.Error("no slow should give multiplier 1")
	}
	p.ApplySlow(0, 0.4, 300)
	p.ApplySlow(0, 0.2, 300)
	if got := p.SpeedMultiplier(100); got != 0.6 {
		t.Errorf("strongest slow should win, got multiplier %v", got)
	}
	if got := p.SpeedMultiplier(400); got != 1 {
		t.Errorf("slow should expire, got multiplier %v", got)
	}
}

func TestPlayerConditionsAndHeal(t *testing.T) {
	p := NewPlayerState(100, 0, 1, nil)
	p.Health = 50

	p.AddCondition(ConditionHealingReduced, 0, 1000)
	p.Heal(500, 20)
	if p.Health != 60 {
		t.Errorf("healing should be halved, got health %v", p.Health)
	}
	p.Heal(1500, 20)
	if p.Health != 80 {
		t.Errorf("healing should be full after condition ends, got health %v", p.Health)
	}
	p.Heal(1500, 100)
	if p.Health != 100 {
		t.Errorf("heal should clamp to max, got %v", p.Health)
	}
}

func TestPlayerDrainArmorAndRespawn(t *testing.T) {
	p := NewPlayerState(100, 10, 1, nil)
	if got := p.DrainArmor(25); got != 10 || p.Armor != 0 {
		t.Errorf("DrainArmor should stop at zero, drained %v armor %v", got, p.Armor)
	}

	p.Health = 0
	if !p.IsDead() {
		t.Fatal("player should be dead at 0 health")
	}
	if !p.Respawn(50) {
		t.Fatal("Respawn should succeed with a life left")
	}
	if p.Health != 100 || p.Armor != 50 || p.Lives != 0 {
		t.Errorf("unexpected state after respawn: %+v", p)
	}
	if p.Respawn(50) {
		t.Error("Respawn should fail without lives")
	}
}
