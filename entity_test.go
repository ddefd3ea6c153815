package conifer

import (
	"math"
	"testing"
)

// testPopulation builds a population with degenerate ranges so each
// test controls the parameter under study.
func testPopulation(t *testing.T, cfg ClassConfig, seed uint64) *Population {
	t.Helper()
	rng := newRand(seed)
	gen := NewTargetGenerator(Silhouette{}, rng)
	return NewPopulation(cfg, gen, rng)
}

func TestPopulationCreatesFixedPool(t *testing.T) {
	p := testPopulation(t, ClassConfig{Count: 250}, 1)
	if p.Len() != 250 {
		t.Errorf("Len = %d, want 250", p.Len())
	}
	for i := 0; i < p.Len(); i++ {
		if p.Position(i) != p.ChaosPosition(i) {
			t.Fatalf("entity %d should start at its chaos position", i)
		}
	}
}

func TestPopulationZeroCount(t *testing.T) {
	p := testPopulation(t, ClassConfig{Count: 0}, 1)
	if p.Len() != 0 {
		t.Errorf("Len = %d, want 0", p.Len())
	}
	p.Advance(0.1, StateFormed) // must not panic on empty pool
}

func TestConfigPointerForLiveTuning(t *testing.T) {
	p := testPopulation(t, ClassConfig{Count: 10}, 1)
	p.Config().WobbleAmplitude = 0.5
	if p.cfg.WobbleAmplitude != 0.5 {
		t.Error("Config() should return pointer to internal config")
	}
}

func TestMonotonicConvergence(t *testing.T) {
	p := testPopulation(t, ClassConfig{Count: 50}, 2)

	prev := make([]float64, p.Len())
	for i := range prev {
		prev[i] = p.Position(i).Dist(p.FormedPosition(i))
	}

	for tick := 0; tick < 600; tick++ {
		p.Advance(1.0/60.0, StateFormed)
		for i := range prev {
			d := p.Position(i).Dist(p.FormedPosition(i))
			if d > prev[i]+1e-12 {
				t.Fatalf("tick %d entity %d: distance grew %v -> %v", tick, i, prev[i], d)
			}
			prev[i] = d
		}
	}
}

// 250 baubles with the default 1.0/s formed-ward damping must be
// within 0.05 units of their formed targets after 5 simulated seconds.
func TestBaubleConvergenceScenario(t *testing.T) {
	p := testPopulation(t, ClassConfig{
		Count:  250,
		Weight: Range{1, 1}, // isolate the class damping constant
	}, 42)
	if p.cfg.FormedRate != 1.0 {
		t.Fatalf("default FormedRate = %v, want 1.0", p.cfg.FormedRate)
	}

	for tick := 0; tick < 300; tick++ { // 5 s at 60 fps
		p.Advance(1.0/60.0, StateFormed)
	}

	var worst float64
	for i := 0; i < p.Len(); i++ {
		worst = max(worst, p.Position(i).Dist(p.FormedPosition(i)))
	}
	if worst > 0.05 {
		t.Errorf("max residual distance = %v, want <= 0.05", worst)
	}
}

func TestDirectionalRates(t *testing.T) {
	cfg := ClassConfig{Count: 1, Weight: Range{1, 1}}
	p := testPopulation(t, cfg, 3)
	if p.cfg.FormedRate <= p.cfg.ChaosRate {
		t.Errorf("FormedRate %v should exceed ChaosRate %v by default",
			p.cfg.FormedRate, p.cfg.ChaosRate)
	}

	// A formed-ward second covers more of the gap than a chaos-ward one.
	formedGain := dampFactor(p.cfg.FormedRate, 1)
	chaosGain := dampFactor(p.cfg.ChaosRate, 1)
	if formedGain <= chaosGain {
		t.Errorf("formed factor %v should exceed chaos factor %v", formedGain, chaosGain)
	}
}

// Switching state mid-transition must redirect, not teleport: each
// subsequent tick moves the entity by at most the damped fraction of
// its remaining distance.
func TestStateSwitchContinuity(t *testing.T) {
	p := testPopulation(t, ClassConfig{Count: 25}, 4)

	for tick := 0; tick < 60; tick++ {
		p.Advance(1.0/60.0, StateFormed)
	}

	before := make([]Vec3, p.Len())
	for i := range before {
		before[i] = p.Position(i)
	}

	p.Advance(1.0/60.0, StateChaos)

	maxRate := p.cfg.ChaosRate * p.cfg.Weight.Max
	for i := range before {
		step := p.Position(i).Dist(before[i])
		bound := before[i].Dist(p.ChaosPosition(i))*dampFactor(maxRate, 1.0/60.0) + 1e-9
		if step > bound {
			t.Fatalf("entity %d jumped %v, continuity bound %v", i, step, bound)
		}
	}
}

func TestWobbleOnlyWhenFormed(t *testing.T) {
	p := testPopulation(t, ClassConfig{Count: 5, WobbleAmplitude: 0.1}, 5)
	p.Advance(0.3, StateFormed) // accumulate elapsed time

	for i := 0; i < p.Len(); i++ {
		chaosPos, _, _ := p.Transform(i, StateChaos)
		if chaosPos != p.Position(i) {
			t.Fatalf("entity %d: CHAOS transform should carry no wobble", i)
		}
		formedPos, _, _ := p.Transform(i, StateFormed)
		if formedPos == p.Position(i) {
			t.Fatalf("entity %d: FORMED transform should carry a wobble offset", i)
		}
		// The wobble is an offset at read time; Position stays on the
		// interpolation path.
		if formedPos.Dist(p.Position(i)) > 0.1*math.Sqrt2+1e-9 {
			t.Fatalf("entity %d: wobble offset exceeds amplitude", i)
		}
	}
}

func TestSpinSlowerWhenFormed(t *testing.T) {
	cfg := ClassConfig{Count: 1, Spin: Range{1, 1}, FormedSpinFactor: 0.2}
	a := testPopulation(t, cfg, 6)
	b := testPopulation(t, cfg, 6) // identical twin

	_, rotA0, _ := a.Transform(0, StateChaos)
	a.Advance(1.0, StateChaos)
	b.Advance(1.0, StateFormed)
	_, rotA, _ := a.Transform(0, StateChaos)
	_, rotB, _ := b.Transform(0, StateChaos)

	chaosDelta := rotA.Sub(rotA0).Length()
	formedDelta := rotB.Sub(rotA0).Length()
	if formedDelta >= chaosDelta {
		t.Errorf("formed spin delta %v should be below chaos delta %v", formedDelta, chaosDelta)
	}
	assertNearTol(t, "formed/chaos spin ratio", formedDelta/chaosDelta, 0.2, 1e-9)
}

func TestEntityColorFromPalette(t *testing.T) {
	palette := []Color{{1, 0, 0, 1}, {0, 1, 0, 1}}
	p := testPopulation(t, ClassConfig{Count: 100, Palette: palette}, 7)
	seen := map[Color]bool{}
	for i := 0; i < p.Len(); i++ {
		c := p.EntityColor(i)
		if c != palette[0] && c != palette[1] {
			t.Fatalf("entity %d color %v not from palette", i, c)
		}
		seen[c] = true
	}
	if len(seen) != 2 {
		t.Error("100 entities should hit both palette entries")
	}
}

func TestZeroAllocsDuringAdvance(t *testing.T) {
	p := testPopulation(t, ClassConfig{Count: 1000}, 8)
	allocs := testing.AllocsPerRun(100, func() {
		p.Advance(1.0/60.0, StateFormed)
	})
	if allocs > 0 {
		t.Errorf("Advance allocs = %f, want 0", allocs)
	}
}

// --- Benchmarks ---

func BenchmarkPopulationAdvance_250(b *testing.B) {
	rng := newRand(1)
	gen := NewTargetGenerator(Silhouette{}, rng)
	p := NewPopulation(ClassConfig{Count: 250}, gen, rng)

	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		p.Advance(1.0/60.0, StateFormed)
	}
}
