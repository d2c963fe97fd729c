package config

// DefaultArenaConfig 返回内置默认配置
// 数值与 data/arena.yaml 保持一致，可在没有数据文件时直接使用
func DefaultArenaConfig() *ArenaConfig {
	return &ArenaConfig{
		Budget: BudgetConfig{Base: 4, PerLevel: 1, Over10: 2},
		Caps: CapsConfig{
			ActiveBase:       16,
			ActivePer2Levels: 1,
			ActiveMax:        48,
			BossBands:        [][]int{{1, 4, 1}, {5, 8, 2}, {9, 999, 3}},
			Drones:           16,
			ConesMax:         6,
		},
		Costs: map[string]int{
			"minion":     1,
			"bossMinion": 3,
			"roster":     2,
			"cluster":    8,
			"triangle":   10,
			"pipe":       12,
			"cone":       12,
		},
		Unlocks: map[string]int{
			"minion":     1,
			"triangle":   3,
			"bossMinion": 4,
			"cone":       6,
			"pipe":       7,
			"drone":      7,
			"cluster":    8,
		},
		TierWeights: []TierWeightBand{
			{Range: []int{1, 4}, Weights: TierWeights{T1: 1}},
			{Range: []int{5, 7}, Weights: TierWeights{T1: 0.8, T2: 0.2}},
			{Range: []int{8, 10}, Weights: TierWeights{T1: 0.6, T2: 0.3, T3: 0.1}},
			{Range: []int{11, 12}, Weights: TierWeights{T1: 0.4, T2: 0.35, T3: 0.2, T4: 0.05}},
			{Range: []int{13, 99}, Weights: TierWeights{T1: 0.3, T2: 0.35, T3: 0.25, T4: 0.1}},
		},
		Chances: map[string]float64{
			"cone":  0.8,
			"pipe":  0.6,
			"elite": 0.25,
		},
		Scaling: ScalingConfig{
			DamagePerWave: 0.04,
			DamageMax:     4.0,
			SpeedPerWave:  0.03,
			SpeedMax:      1.5,
		},
		Portals: PortalConfig{
			LifetimeMs:     4500,
			PerWaveMin:     2,
			PerWaveMax:     4,
			RadiusMin:      12,
			RadiusMax:      20,
			StaggerMs:      260,
			BaseDelayMs:    400,
			Jitter:         1.5,
			BehindMinWave:  8,
			BehindFraction: 0.15,
			BehindDistance: 10,
		},
		Bosses:      BossScheduleConfig{Periodic: "triangle", Every: 3},
		Milestone:   MilestoneConfig{Every: 10, Inset: 6},
		Performance: PerformanceConfig{Enabled: false, ActiveMax: 24, BossMax: 1},
		Arena:       ArenaBounds{Boundary: 100, SpawnHeight: 8, DropSpeed: 10},
		Player:      PlayerConfig{Health: 100, Armor: 50, Lives: 3, Speed: 14, InvulnMs: 800},
		Combat: CombatConfig{
			BaseDamage:           2,
			ProjectileSpeed:      38,
			ProjectileLifetimeMs: 3000,
			PoolSize:             50,
			FireRateMs:           120,
			StunMs:               1200,
			Knockback: map[string]float64{
				"minion":   12,
				"boss":     8,
				"triangle": 7,
			},
			KnockbackDecay: map[string]float64{
				"minion":   8,
				"boss":     6,
				"triangle": 6,
			},
			KnockbackFalloff:   8,
			SpeedNormalization: 24.0 / 14.0,
			HitRadius: map[string]float64{
				"default":  0.8,
				"boss":     1.8,
				"triangle": 2.5,
			},
			ContactDamage: map[string]float64{
				"minion":   2,
				"boss":     20,
				"triangle": 31,
				"cone":     42,
				"drone":    6,
			},
			ResilienceMs: 1500,
			HighPowerMs:  8000,
		},
		Enemies: EnemyTuning{
			Minion: GruntTuning{
				Health: 1, Speed: 18, MaxSpeed: 12,
				SeparationRadius: 2.5, ApproachSlowRadius: 2.5, SettleSeconds: 0.3, ContactRadius: 1.2,
			},
			BossMinion: GruntTuning{
				Health: 3, Speed: 6, MaxSpeed: 8,
				SeparationRadius: 2.5, ApproachSlowRadius: 2.5, SettleSeconds: 0.3, ContactRadius: 1.8,
			},
			Cluster: GruntTuning{
				Health: 6, Speed: 8, MaxSpeed: 8,
				SeparationRadius: 3, ApproachSlowRadius: 2.5, SettleSeconds: 0.3, ContactRadius: 1.8,
			},
			Triangle: TriangleTuning{
				Health: 6, ChargeThresholdS: 3, ChargeDurationS: 1.2, ChargeSpeed: 18, CircleSpeed: 12,
				OrbitRadius: 8, ChargeEndDistance: 1.2, ContactRadius: 1.4, ContactCooldownS: 1,
			},
			Cone: ConeTuning{
				Health: 10, JumpVelocity: 14, Gravity: 24, MaxJumpSpeed: 22, CooldownS: 3, LandRadius: 4.4,
			},
			Pipe: PipeTuning{
				Health: 8, RiseS: 3, LaunchMin: 2, LaunchMax: 6, IntervalMinS: 4, IntervalMaxS: 6,
			},
			Drone: DroneTuning{
				Health: 1, Altitude: 4, OrbitRadius: 9, OrbitSpeed: 1.6, FollowLerp: 1.5,
				TriggerRadius: 7, OrbitTimeoutS: 5, DiveSpeed: 18, ImpactRadius: 1.1, GroundY: 0.6,
				TrailLength: 10, TrailIntervalS: 0.04,
			},
		},
		Hazards: HazardConfig{CheckIntervalMs: 100, SlowDurationMs: 300},
		Scores: map[string]int{
			"minion":     10,
			"bossMinion": 30,
			"roster":     25,
			"cluster":    80,
			"triangle":   150,
			"cone":       200,
			"pipe":       200,
			"drone":      5,
		},
		LootChance: 0.25,
		Roster: []RosterSpecies{
			{Name: "MRSA", Tier: 1, Unlock: 5, Health: 3, Speed: 2.5, DamageScale: 0.8},
			{Name: "VRE", Tier: 1, Unlock: 5, Health: 3, Speed: 2.0, DamageScale: 0.5},
			{Name: "K. pneumoniae ESBL", Tier: 2, Unlock: 6, Health: 4, Speed: 2.2, DamageScale: 1,
				Traits: []string{TraitEnzymeShield}},
			{Name: "K. pneumoniae CRE", Tier: 3, Unlock: 10, Health: 5, Speed: 2.0, DamageScale: 1,
				Traits: []string{TraitStunImmune}},
			{Name: "A. baumannii XDR", Tier: 3, Unlock: 12, Health: 6, Speed: 1.8, DamageScale: 1,
				Traits: []string{TraitResilience}},
			{Name: "P. aeruginosa MDR", Tier: 1, Unlock: 8, Health: 3, Speed: 2.5, DamageScale: 1,
				Traits: []string{TraitHazard},
				Hazard: &HazardSpec{Kind: "toxin", Shape: "circle", Radius: 4.5, DPS: 2, SlowFactor: 0.4,
					TickMs: 500, DurationMs: 6000, CooldownMs: 9000}},
			{Name: "P. aeruginosa XDR", Tier: 3, Unlock: 12, Health: 5, Speed: 2.0, DamageScale: 1,
				Traits: []string{TraitHazard},
				Hazard: &HazardSpec{Kind: "corrosive", Shape: "hexagon", Radius: 3.6, DPS: 3, SlowFactor: 0.2,
					TickMs: 500, DurationMs: 5000, CooldownMs: 9000}},
			{Name: "Candida auris", Tier: 2, Unlock: 8, Health: 3, Speed: 2.0, DamageScale: 1,
				Traits: []string{TraitHazard},
				Hazard: &HazardSpec{Kind: "fog", Shape: "circle", Radius: 4.6,
					TickMs: 1000, DurationMs: 6000, CooldownMs: 10000}},
			{Name: "Benzene", Tier: 3, Unlock: 11, Health: 2, Speed: 2.8, DamageScale: 1,
				Traits: []string{TraitHazard},
				Hazard: &HazardSpec{Kind: "carcinogen", Shape: "rect", HalfW: 3, HalfD: 2,
					TickMs: 1000, DurationMs: 6000, CooldownMs: 10000}},
		},
	}
}
