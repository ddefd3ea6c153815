package conifer

import (
	"math"
	"math/rand/v2"
)

// panel holds per-panel state. Unexported; managed by PhotoPanels.
type panel struct {
	url       string
	chaosPos  Vec3
	formedPos Vec3
	pos       Vec3

	weight float64
	big    bool
	spin   Vec3 // chaos tumble rates
	rot    Vec3 // current Euler rotation, meaningful in CHAOS only
}

// PanelConfig controls the photo panel population. One panel is created
// per image URL; an empty URL list simply yields an empty population.
type PanelConfig struct {
	// URLs is the ordered list of opaque image locators supplied by the
	// listing collaborator at scene construction.
	URLs        []string
	RadiusScale float64
	FormedRate  float64
	ChaosRate   float64
	Weight      Range
	// BaseScale and BigScale are the render scales for regular and
	// "big" panels. BigFraction of panels (by expectation) are big;
	// big panels are placed in the lower half of the silhouette where
	// the cone is wide enough to hold them.
	BaseScale   float64
	BigScale    float64
	BigFraction float64
	// Spin is the range of per-axis tumble rates applied in CHAOS.
	// While FORMED, panels do not spin freely; they hold the outward
	// look-at orientation instead.
	Spin Range
}

func (c PanelConfig) withDefaults() PanelConfig {
	if c.RadiusScale <= 0 {
		c.RadiusScale = 1.1
	}
	if c.FormedRate <= 0 {
		c.FormedRate = 0.9
	}
	if c.ChaosRate <= 0 {
		c.ChaosRate = 0.6
	}
	if c.Weight == (Range{}) {
		c.Weight = Range{1.0, 1.3}
	}
	if c.BaseScale <= 0 {
		c.BaseScale = 0.18
	}
	if c.BigScale <= 0 {
		c.BigScale = 0.3
	}
	if c.BigFraction <= 0 {
		c.BigFraction = 0.15
	}
	if c.Spin == (Range{}) {
		c.Spin = Range{0.3, 1.0}
	}
	return c
}

// PhotoPanels is the fixed-size photo panel population. Unlike the
// other ornament classes, a FORMED panel's orientation is not a free
// spin but a look-at constraint: each panel faces a point extrapolated
// outward and upward from its own position, as if hung on the tree
// surface.
type PhotoPanels struct {
	cfg    PanelConfig
	panels []panel
}

// NewPhotoPanels creates one panel per URL in cfg.URLs, preserving
// order. With no URLs the population is empty; that is not an error.
func NewPhotoPanels(cfg PanelConfig, gen *TargetGenerator, rng *rand.Rand) *PhotoPanels {
	cfg = cfg.withDefaults()
	p := &PhotoPanels{
		cfg:    cfg,
		panels: make([]panel, len(cfg.URLs)),
	}
	for i := range p.panels {
		pn := &p.panels[i]
		pn.url = cfg.URLs[i]
		pn.chaosPos = gen.Chaos()
		pn.big = rng.Float64() < cfg.BigFraction
		if pn.big {
			pn.formedPos = gen.FormedLow(cfg.RadiusScale)
		} else {
			pn.formedPos = gen.Formed(cfg.RadiusScale)
		}
		pn.pos = pn.chaosPos
		pn.weight = cfg.Weight.Random(rng)
		pn.spin = Vec3{
			X: randSigned(cfg.Spin, rng),
			Y: randSigned(cfg.Spin, rng),
			Z: randSigned(cfg.Spin, rng),
		}
		pn.rot = Vec3{
			X: rng.Float64() * 2 * math.Pi,
			Y: rng.Float64() * 2 * math.Pi,
			Z: rng.Float64() * 2 * math.Pi,
		}
	}
	return p
}

// Len returns the panel count (one per image URL).
func (p *PhotoPanels) Len() int {
	return len(p.panels)
}

// URL returns panel i's image locator.
func (p *PhotoPanels) URL(i int) string {
	return p.panels[i].url
}

// Big reports whether panel i received the larger scale.
func (p *PhotoPanels) Big(i int) bool {
	return p.panels[i].big
}

// Scale returns panel i's render scale.
func (p *PhotoPanels) Scale(i int) float64 {
	if p.panels[i].big {
		return p.cfg.BigScale
	}
	return p.cfg.BaseScale
}

// Advance moves every panel one tick toward the state-appropriate
// target. Free tumble only integrates in CHAOS; FORMED orientation is
// the look-at constraint reported by LookTarget.
func (p *PhotoPanels) Advance(dt float64, state SceneState) {
	rate := p.cfg.ChaosRate
	if state == StateFormed {
		rate = p.cfg.FormedRate
	}
	for i := range p.panels {
		pn := &p.panels[i]
		target := pn.chaosPos
		if state == StateFormed {
			target = pn.formedPos
		}
		pn.pos = pn.pos.approach(target, dampFactor(rate*pn.weight, dt))
		if state == StateChaos {
			pn.rot.X += pn.spin.X * dt
			pn.rot.Y += pn.spin.Y * dt
			pn.rot.Z += pn.spin.Z * dt
		}
	}
}

// Position returns panel i's interpolated position.
func (p *PhotoPanels) Position(i int) Vec3 {
	return p.panels[i].pos
}

// Rotation returns panel i's free Euler rotation, used while CHAOS.
func (p *PhotoPanels) Rotation(i int) Vec3 {
	return p.panels[i].rot
}

// LookTarget returns the point panel i orients its forward axis toward
// while FORMED: twice its own horizontal and depth coordinates, half a
// unit above. Panels face outward and upward as if hung on a surface,
// not toward the viewer or the origin.
func (p *PhotoPanels) LookTarget(i int) Vec3 {
	pos := p.panels[i].pos
	return Vec3{X: pos.X * 2, Y: pos.Y + 0.5, Z: pos.Z * 2}
}
