package conifer

import (
	"math"
	"math/rand/v2"
)

// light holds per-light state. Unexported; managed by Lights.
type light struct {
	chaosPos  Vec3
	formedPos Vec3
	pos       Vec3

	weight       float64
	twinkleFreq  float64
	twinklePhase float64
}

// LightConfig controls the fairy light population. Lights are point
// entities whose render output includes an emissive intensity scalar
// in addition to a position.
type LightConfig struct {
	Count int
	// RadiusScale places lights slightly outside the foliage boundary
	// so they read as strung over the surface.
	RadiusScale float64
	FormedRate  float64
	ChaosRate   float64
	Weight      Range
	// TwinkleFrequency is the range of per-light intensity oscillation
	// frequencies (radians per second).
	TwinkleFrequency Range
	// BaseIntensity is the mean emissive intensity.
	BaseIntensity float64
	// TwinkleDepth in [0, 1] is the oscillation amplitude relative to
	// BaseIntensity. Intensity never goes negative.
	TwinkleDepth float64
}

func (c LightConfig) withDefaults() LightConfig {
	if c.RadiusScale <= 0 {
		c.RadiusScale = 1.05
	}
	if c.FormedRate <= 0 {
		c.FormedRate = 1.2
	}
	if c.ChaosRate <= 0 {
		c.ChaosRate = 0.8
	}
	if c.Weight == (Range{}) {
		c.Weight = Range{1.0, 1.3}
	}
	if c.TwinkleFrequency == (Range{}) {
		c.TwinkleFrequency = Range{1.5, 4.0}
	}
	if c.BaseIntensity <= 0 {
		c.BaseIntensity = 0.8
	}
	if c.TwinkleDepth <= 0 {
		c.TwinkleDepth = 0.5
	}
	return c
}

// Lights is the fixed-size fairy light population.
type Lights struct {
	cfg     LightConfig
	lights  []light
	elapsed float64
}

// NewLights creates cfg.Count lights with targets from gen and
// randomized parameters from rng, all starting at their chaos position.
func NewLights(cfg LightConfig, gen *TargetGenerator, rng *rand.Rand) *Lights {
	cfg = cfg.withDefaults()
	l := &Lights{
		cfg:    cfg,
		lights: make([]light, cfg.Count),
	}
	for i := range l.lights {
		lt := &l.lights[i]
		lt.chaosPos = gen.Chaos()
		lt.formedPos = gen.Formed(cfg.RadiusScale)
		lt.pos = lt.chaosPos
		lt.weight = cfg.Weight.Random(rng)
		lt.twinkleFreq = cfg.TwinkleFrequency.Random(rng)
		lt.twinklePhase = rng.Float64() * 2 * math.Pi
	}
	return l
}

// Len returns the fixed light count.
func (l *Lights) Len() int {
	return len(l.lights)
}

// Advance moves every light one tick toward the state-appropriate target.
func (l *Lights) Advance(dt float64, state SceneState) {
	l.elapsed += dt
	rate := l.cfg.ChaosRate
	if state == StateFormed {
		rate = l.cfg.FormedRate
	}
	for i := range l.lights {
		lt := &l.lights[i]
		target := lt.chaosPos
		if state == StateFormed {
			target = lt.formedPos
		}
		lt.pos = lt.pos.approach(target, dampFactor(rate*lt.weight, dt))
	}
}

// Position returns light i's interpolated position.
func (l *Lights) Position(i int) Vec3 {
	return l.lights[i].pos
}

// Intensity returns light i's current emissive intensity. The twinkle
// oscillation runs continuously; it is an intensity effect, not a
// positional one, so it applies in both states.
func (l *Lights) Intensity(i int) float64 {
	lt := &l.lights[i]
	v := l.cfg.BaseIntensity * (1 + l.cfg.TwinkleDepth*math.Sin(l.elapsed*lt.twinkleFreq+lt.twinklePhase))
	if v < 0 {
		return 0
	}
	return v
}
