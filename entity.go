package conifer

import (
	"math"
	"math/rand/v2"
)

// ornament holds per-entity state for a discrete ornament. Unexported;
// managed by Population. The chaos/formed targets and all randomized
// parameters are fixed at creation; only pos and rot mutate, and only
// inside Advance.
type ornament struct {
	chaosPos  Vec3
	formedPos Vec3
	pos       Vec3 // always on the damped path between the two targets

	weight      float64 // per-entity blend-rate multiplier
	scale       float64
	spin        Vec3 // tumble rates in CHAOS, radians per second
	rot         Vec3 // current Euler rotation
	wobbleFreq  float64
	wobblePhase float64
	colorIndex  uint8
}

// ClassConfig controls a population of discrete ornament entities
// (baubles, seasonal elements). Zero fields take defaults from
// withDefaults; a zero Count yields an empty population.
type ClassConfig struct {
	// Count is the fixed pool size, chosen once at creation.
	Count int
	// RadiusScale shrinks formed positions toward the cone axis so the
	// class nests inside (or outside) the foliage boundary.
	RadiusScale float64
	// FormedRate is the damping constant (per second) used while the
	// scene assembles. Formed-ward rates are generally faster.
	FormedRate float64
	// ChaosRate is the damping constant used while the scene scatters.
	ChaosRate float64
	// Weight is the range of per-entity blend-rate multipliers.
	Weight Range
	// Scale is the range of per-entity render scales.
	Scale Range
	// Spin is the range of per-axis tumble rates (radians per second)
	// applied in CHAOS.
	Spin Range
	// FormedSpinFactor scales Spin down while FORMED (slow ornament
	// rotation when assembled, fast tumble when scattered).
	FormedSpinFactor float64
	// WobbleFrequency is the range of per-entity wobble frequencies
	// (radians per second) applied only while FORMED.
	WobbleFrequency Range
	// WobbleAmplitude is the wobble offset magnitude in world units.
	WobbleAmplitude float64
	// Palette is the set of tints entities draw their color index from.
	Palette []Color
}

// withDefaults fills zero fields with bauble-flavored defaults.
func (c ClassConfig) withDefaults() ClassConfig {
	if c.RadiusScale <= 0 {
		c.RadiusScale = 0.9
	}
	if c.FormedRate <= 0 {
		c.FormedRate = 1.0
	}
	if c.ChaosRate <= 0 {
		c.ChaosRate = 0.7
	}
	if c.Weight == (Range{}) {
		c.Weight = Range{1.0, 1.4}
	}
	if c.Scale == (Range{}) {
		c.Scale = Range{0.05, 0.09}
	}
	if c.Spin == (Range{}) {
		c.Spin = Range{0.4, 1.6}
	}
	if c.FormedSpinFactor <= 0 {
		c.FormedSpinFactor = 0.2
	}
	if c.WobbleFrequency == (Range{}) {
		c.WobbleFrequency = Range{0.8, 1.8}
	}
	if c.WobbleAmplitude <= 0 {
		c.WobbleAmplitude = 0.015
	}
	if len(c.Palette) == 0 {
		c.Palette = []Color{
			{0.85, 0.12, 0.16, 1},
			{0.93, 0.72, 0.18, 1},
			{0.16, 0.35, 0.78, 1},
			{0.88, 0.88, 0.92, 1},
		}
	}
	return c
}

// Population is a fixed-size pool of discrete ornament entities with
// CPU-based per-entity interpolation. Entities are created exactly once
// and never destroyed; the pool does not grow.
type Population struct {
	cfg       ClassConfig
	ornaments []ornament
	elapsed   float64
}

// NewPopulation creates a Population of cfg.Count entities, sampling
// chaos and formed targets from gen and randomized parameters from rng.
// Every entity starts at its chaos position.
func NewPopulation(cfg ClassConfig, gen *TargetGenerator, rng *rand.Rand) *Population {
	cfg = cfg.withDefaults()
	p := &Population{
		cfg:       cfg,
		ornaments: make([]ornament, cfg.Count),
	}
	for i := range p.ornaments {
		o := &p.ornaments[i]
		o.chaosPos = gen.Chaos()
		o.formedPos = gen.Formed(cfg.RadiusScale)
		o.pos = o.chaosPos
		o.weight = cfg.Weight.Random(rng)
		o.scale = cfg.Scale.Random(rng)
		o.spin = Vec3{
			X: randSigned(cfg.Spin, rng),
			Y: randSigned(cfg.Spin, rng),
			Z: randSigned(cfg.Spin, rng),
		}
		// Chaos-only initial rotation: start tumbled, not axis-aligned.
		o.rot = Vec3{
			X: rng.Float64() * 2 * math.Pi,
			Y: rng.Float64() * 2 * math.Pi,
			Z: rng.Float64() * 2 * math.Pi,
		}
		o.wobbleFreq = cfg.WobbleFrequency.Random(rng)
		o.wobblePhase = rng.Float64() * 2 * math.Pi
		o.colorIndex = uint8(rng.IntN(len(cfg.Palette)))
	}
	return p
}

// randSigned draws a magnitude from r and flips its sign half the time.
func randSigned(r Range, rng *rand.Rand) float64 {
	v := r.Random(rng)
	if rng.Float64() < 0.5 {
		return -v
	}
	return v
}

// Len returns the fixed entity count.
func (p *Population) Len() int {
	return len(p.ornaments)
}

// Config returns a pointer to the population's config for live tuning.
// Count changes after creation have no effect.
func (p *Population) Config() *ClassConfig {
	return &p.cfg
}

// Advance moves every entity one tick toward the state-appropriate
// target and integrates rotation. dt is elapsed seconds.
func (p *Population) Advance(dt float64, state SceneState) {
	p.elapsed += dt

	rate := p.cfg.ChaosRate
	if state == StateFormed {
		rate = p.cfg.FormedRate
	}
	spinScale := 1.0
	if state == StateFormed {
		spinScale = p.cfg.FormedSpinFactor
	}

	for i := range p.ornaments {
		o := &p.ornaments[i]
		target := o.chaosPos
		if state == StateFormed {
			target = o.formedPos
		}
		o.pos = o.pos.approach(target, dampFactor(rate*o.weight, dt))
		o.rot.X += o.spin.X * spinScale * dt
		o.rot.Y += o.spin.Y * spinScale * dt
		o.rot.Z += o.spin.Z * spinScale * dt
	}
}

// Position returns entity i's interpolated position, excluding wobble.
func (p *Population) Position(i int) Vec3 {
	return p.ornaments[i].pos
}

// FormedPosition returns entity i's fixed formed target.
func (p *Population) FormedPosition(i int) Vec3 {
	return p.ornaments[i].formedPos
}

// ChaosPosition returns entity i's fixed chaos target.
func (p *Population) ChaosPosition(i int) Vec3 {
	return p.ornaments[i].chaosPos
}

// Transform returns entity i's render transform for the given state:
// position (with the FORMED-only wobble offset applied), Euler
// rotation, and scale.
func (p *Population) Transform(i int, state SceneState) (pos Vec3, rot Vec3, scale float64) {
	o := &p.ornaments[i]
	pos = o.pos
	if state == StateFormed {
		t := p.elapsed*o.wobbleFreq + o.wobblePhase
		pos.X += math.Sin(t) * p.cfg.WobbleAmplitude
		pos.Z += math.Cos(t) * p.cfg.WobbleAmplitude
	}
	return pos, o.rot, o.scale
}

// EntityColor returns entity i's palette tint.
func (p *Population) EntityColor(i int) Color {
	return p.cfg.Palette[p.ornaments[i].colorIndex]
}
