package game

import "testing"

func TestApplyArmorFirst(t *testing.T) {
	tests := []struct {
		name          string
		health, armor float64
		req           DamageRequest
		wantHealth    float64
		wantArmor     float64
		wantKinds     []DamageEventKind
		wantDeltas    []float64
		wantKilled    bool
	}{
		{
			name: "护甲完全吸收", health: 100, armor: 50,
			req:        DamageRequest{Amount: 30, Source: "bullet"},
			wantHealth: 100, wantArmor: 20,
			wantKinds: []DamageEventKind{DamageEventArmor}, wantDeltas: []float64{-30},
		},
		{
			name: "护甲恰好耗尽", health: 100, armor: 40,
			req:        DamageRequest{Amount: 40},
			wantHealth: 100, wantArmor: 0,
			wantKinds: []DamageEventKind{DamageEventArmor}, wantDeltas: []float64{-40},
		},
		{
			name: "溢出伤害扣生命（先护甲后生命）", health: 100, armor: 20,
			req:        DamageRequest{Amount: 50},
			wantHealth: 70, wantArmor: 0,
			wantKinds:  []DamageEventKind{DamageEventArmor, DamageEventHP},
			wantDeltas: []float64{-20, -30},
		},
		{
			name: "无视护甲", health: 80, armor: 100,
			req:        DamageRequest{Amount: 30, BypassArmor: true},
			wantHealth: 50, wantArmor: 100,
			wantKinds: []DamageEventKind{DamageEventHP}, wantDeltas: []float64{-30},
		},
		{
			name: "零伤害为空操作", health: 90, armor: 40,
			req:        DamageRequest{Amount: 0},
			wantHealth: 90, wantArmor: 40,
		},
		{
			name: "负伤害为空操作", health: 90, armor: 40,
			req:        DamageRequest{Amount: -5},
			wantHealth: 90, wantArmor: 40,
		},
		{
			name: "致死", health: 20, armor: 5,
			req:        DamageRequest{Amount: 30},
			wantHealth: 0, wantArmor: 0,
			wantKinds:  []DamageEventKind{DamageEventArmor, DamageEventHP},
			wantDeltas: []float64{-5, -20},
			wantKilled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ApplyArmorFirst(tt.health, tt.armor, tt.req)
			if r.Health != tt.wantHealth || r.Armor != tt.wantArmor {
				t.Errorf("expected health %v armor %v, got health %v armor %v", tt.wantHealth, tt.wantArmor, r.Health, r.Armor)
			}
			if len(r.Events) != len(tt.wantKinds) {
				t.Fatalf("expected %d events, got %d (%+v)", len(tt.wantKinds), len(r.Events), r.Events)
			}
			for i, ev := range r.Events {
				if ev.Kind != tt.wantKinds[i] || ev.Delta != tt.wantDeltas[i] {
					t.Errorf("event %d: expected %s %v, got %s %v", i, tt.wantKinds[i], tt.wantDeltas[i], ev.Kind, ev.Delta)
				}
			}
			if r.Killed != tt.wantKilled {
				t.Errorf("Killed: expected %v, got %v", tt.wantKilled, r.Killed)
			}
		})
	}
}
