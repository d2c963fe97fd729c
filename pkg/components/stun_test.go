package components

import "testing"

func TestStunApplyKeepsLonger(t *testing.T) {
	var s StunComponent
	s.Apply(5000)
	s.Apply(1000)
	if s.Remaining != 5 {
		t.Errorf("Remaining: expected 5, got %v", s.Remaining)
	}

	immune := StunComponent{Immune: true}
	immune.Apply(5000)
	if immune.Active() {
		t.Error("stun-immune component should ignore Apply")
	}
}

func TestStunTick(t *testing.T) {
	s := StunComponent{Remaining: 0.25}
	if !s.Tick(0.1) {
		t.Error("Tick should report stunned while remaining > 0")
	}
	s.Tick(1)
	if s.Active() || s.Remaining != 0 {
		t.Errorf("stun should expire and clamp to 0, got %v", s.Remaining)
	}
	if s.Tick(0.1) {
		t.Error("Tick should report not stunned after expiry")
	}
}
