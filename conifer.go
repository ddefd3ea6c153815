package conifer

import "math/rand/v2"

// SceneState is the macroscopic configuration of the scene.
type SceneState uint8

const (
	StateChaos  SceneState = iota // entities scattered through the chaos volume
	StateFormed                   // entities assembled into the tree silhouette
)

// String returns "CHAOS" or "FORMED".
func (s SceneState) String() string {
	if s == StateFormed {
		return "FORMED"
	}
	return "CHAOS"
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// Range is a general-purpose min/max range.
// Used by the population configs for per-entity randomized parameters.
type Range struct {
	Min, Max float64
}

// Random returns a random float64 in [Min, Max] drawn from rng.
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// newRand returns a seeded PCG source, or a wall-clock-random one when
// seed is zero. All construction-time randomness flows through a single
// *rand.Rand so a fixed seed reproduces the exact scene.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(seed, seed))
}
