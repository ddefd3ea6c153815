package conifer

import (
	"math"
	"math/rand/v2"
)

// Silhouette describes the FORMED tree shape: a cone of the given
// height centered vertically on the origin (y spans [-Height/2,
// +Height/2]) with BaseRadius at the bottom, tapering linearly to zero
// at the tip. ChaosRadius is the radius of the bounding sphere that
// scattered (CHAOS) positions are drawn from; it should be at least 5x
// BaseRadius so the two configurations read as visually disjoint.
type Silhouette struct {
	Height      float64
	BaseRadius  float64
	ChaosRadius float64
}

// Default silhouette dimensions. ChaosRadius is 5x the base radius.
const (
	defaultHeight      = 3.0
	defaultBaseRadius  = 1.0
	defaultChaosRadius = 5.0
)

// withDefaults fills zero fields with the default dimensions.
func (s Silhouette) withDefaults() Silhouette {
	if s.Height <= 0 {
		s.Height = defaultHeight
	}
	if s.BaseRadius <= 0 {
		s.BaseRadius = defaultBaseRadius
	}
	if s.ChaosRadius <= 0 {
		s.ChaosRadius = max(defaultChaosRadius, 5*s.BaseRadius)
	}
	return s
}

// RadiusAt returns the cone radius at height y. Outside [-Height/2,
// +Height/2] the result is clamped to zero.
func (s Silhouette) RadiusAt(y float64) float64 {
	r := s.BaseRadius * (1 - (y+s.Height/2)/s.Height)
	if r < 0 {
		return 0
	}
	return r
}

// TargetGenerator produces chaos and formed target positions at entity
// creation time. It is purely a sampling helper: positions are computed
// once per entity and never mutated afterward.
type TargetGenerator struct {
	sil Silhouette
	rng *rand.Rand
}

// NewTargetGenerator creates a generator over the given silhouette,
// drawing randomness from rng.
func NewTargetGenerator(sil Silhouette, rng *rand.Rand) *TargetGenerator {
	return &TargetGenerator{sil: sil.withDefaults(), rng: rng}
}

// Silhouette returns the (default-filled) silhouette the generator samples.
func (g *TargetGenerator) Silhouette() Silhouette {
	return g.sil
}

// Formed samples a point inside the cone silhouette. The height is
// uniform over the cone's vertical extent and the point is uniform
// within the disk at that height. radiusScale shrinks (or grows) the
// disk per entity class, e.g. 0.9 nests baubles just inside the
// foliage boundary.
func (g *TargetGenerator) Formed(radiusScale float64) Vec3 {
	if radiusScale <= 0 {
		radiusScale = 1
	}
	y := (g.rng.Float64() - 0.5) * g.sil.Height
	// sqrt for uniform density over the disk area.
	r := g.sil.RadiusAt(y) * radiusScale * math.Sqrt(g.rng.Float64())
	theta := g.rng.Float64() * 2 * math.Pi
	sin, cos := math.Sincos(theta)
	return Vec3{X: r * cos, Y: y, Z: r * sin}
}

// FormedLow samples a formed point constrained to the lower half of
// the cone. Used for entities classified as "big" so the larger scale
// doesn't overflow the narrow top of the silhouette.
func (g *TargetGenerator) FormedLow(radiusScale float64) Vec3 {
	if radiusScale <= 0 {
		radiusScale = 1
	}
	y := -g.rng.Float64() * g.sil.Height / 2
	r := g.sil.RadiusAt(y) * radiusScale * math.Sqrt(g.rng.Float64())
	theta := g.rng.Float64() * 2 * math.Pi
	sin, cos := math.Sincos(theta)
	return Vec3{X: r * cos, Y: y, Z: r * sin}
}

// Chaos samples a point uniformly within the chaos bounding sphere.
func (g *TargetGenerator) Chaos() Vec3 {
	// cbrt for uniform density over the sphere volume.
	r := g.sil.ChaosRadius * math.Cbrt(g.rng.Float64())
	// Uniform direction: uniform cos(phi) over [-1, 1].
	cosPhi := g.rng.Float64()*2 - 1
	sinPhi := math.Sqrt(1 - cosPhi*cosPhi)
	theta := g.rng.Float64() * 2 * math.Pi
	sin, cos := math.Sincos(theta)
	return Vec3{
		X: r * sinPhi * cos,
		Y: r * cosPhi,
		Z: r * sinPhi * sin,
	}
}
