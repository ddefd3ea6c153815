package conifer

import (
	"math"
	"math/rand/v2"

	"github.com/tanema/gween/ease"
)

// FoliageConfig controls the dense foliage point field. Foliage is the
// batched entity variant: instead of per-point interpolation state, the
// whole class shares one progress scalar and every rendered position is
// derived from it. That keeps the per-tick cost at 15k points to a
// single damped-approach step.
type FoliageConfig struct {
	// Count is the fixed point count.
	Count int
	// Rate is the damping constant (per second) for the shared progress
	// scalar's approach toward 0 (CHAOS) or 1 (FORMED).
	Rate float64
	// SizeJitter is the range of per-point size scalars.
	SizeJitter Range
	// NoiseAmplitude is the magnitude of the time-varying positional
	// noise added to the formed target, giving the assembled tree a
	// gentle shimmer.
	NoiseAmplitude float64
	// NoiseFrequency is the noise oscillation frequency (radians per
	// second).
	NoiseFrequency float64
}

func (c FoliageConfig) withDefaults() FoliageConfig {
	if c.Count <= 0 {
		c.Count = 15000
	}
	if c.Rate <= 0 {
		c.Rate = 1.5
	}
	if c.SizeJitter == (Range{}) {
		c.SizeJitter = Range{0.5, 1.5}
	}
	if c.NoiseAmplitude <= 0 {
		c.NoiseAmplitude = 0.02
	}
	if c.NoiseFrequency <= 0 {
		c.NoiseFrequency = 1.2
	}
	return c
}

// Foliage is the dense point field forming the tree body. Points carry
// only a seeded chaos/formed position pair plus one random scalar used
// for size jitter and noise phase; all interpolation state is the
// shared progress scalar.
type Foliage struct {
	cfg      FoliageConfig
	chaos    []Vec3
	formed   []Vec3
	jitter   []float64
	progress float64 // 0 = fully chaos, 1 = fully formed
	elapsed  float64
}

// NewFoliage creates the point field with targets from gen and jitter
// scalars from rng. Progress starts at 0 (CHAOS).
func NewFoliage(cfg FoliageConfig, gen *TargetGenerator, rng *rand.Rand) *Foliage {
	cfg = cfg.withDefaults()
	f := &Foliage{
		cfg:    cfg,
		chaos:  make([]Vec3, cfg.Count),
		formed: make([]Vec3, cfg.Count),
		jitter: make([]float64, cfg.Count),
	}
	for i := 0; i < cfg.Count; i++ {
		f.chaos[i] = gen.Chaos()
		f.formed[i] = gen.Formed(1.0)
		f.jitter[i] = cfg.SizeJitter.Random(rng)
	}
	return f
}

// Len returns the fixed point count.
func (f *Foliage) Len() int {
	return len(f.chaos)
}

// Progress returns the shared interpolation scalar in [0, 1].
func (f *Foliage) Progress() float64 {
	return f.progress
}

// Advance moves the shared progress scalar one damped step toward 1
// (FORMED) or 0 (CHAOS) and accumulates elapsed time for the noise.
func (f *Foliage) Advance(dt float64, state SceneState) {
	f.elapsed += dt
	target := 0.0
	if state == StateFormed {
		target = 1.0
	}
	f.progress += (target - f.progress) * dampFactor(f.cfg.Rate, dt)
}

// eased returns the cubic ease-in-out of the shared progress, the curve
// every rendered point position follows.
func (f *Foliage) eased() float64 {
	return float64(ease.InOutCubic(float32(f.progress), 0, 1, 1))
}

// Position returns point i's rendered position: the eased lerp from its
// scatter position to its tree target plus time-varying noise.
func (f *Foliage) Position(i int) Vec3 {
	t := f.eased()
	phase := f.jitter[i] * 2 * math.Pi
	w := f.cfg.NoiseFrequency*f.elapsed + phase
	target := f.formed[i]
	target.X += math.Sin(w) * f.cfg.NoiseAmplitude
	target.Y += math.Sin(w*0.7+1.3) * f.cfg.NoiseAmplitude
	target.Z += math.Cos(w) * f.cfg.NoiseAmplitude
	return f.chaos[i].Lerp(target, t)
}

// Positions appends every point's rendered position to buf and returns
// it. Reusing buf across frames keeps the 15k-point path allocation
// free.
func (f *Foliage) Positions(buf []Vec3) []Vec3 {
	t := f.eased()
	amp := f.cfg.NoiseAmplitude
	for i := range f.formed {
		phase := f.jitter[i] * 2 * math.Pi
		w := f.cfg.NoiseFrequency*f.elapsed + phase
		target := f.formed[i]
		target.X += math.Sin(w) * amp
		target.Y += math.Sin(w*0.7+1.3) * amp
		target.Z += math.Cos(w) * amp
		buf = append(buf, f.chaos[i].Lerp(target, t))
	}
	return buf
}

// PointSize returns point i's size jitter scalar.
func (f *Foliage) PointSize(i int) float64 {
	return f.jitter[i]
}
