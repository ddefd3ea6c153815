package conifer

import "time"

// Advanceable is the capability shared by every entity population:
// advance one tick toward the state-dependent target configuration.
// Discrete classes advance per-entity positions; foliage advances a
// single shared progress scalar.
type Advanceable interface {
	Advance(dt float64, state SceneState)
}

// Config assembles a full scene. Zero-value class configs take their
// per-class defaults; class counts are fixed once the engine is built.
type Config struct {
	// Seed makes scene construction deterministic when non-zero.
	Seed uint64

	Silhouette Silhouette
	Foliage    FoliageConfig
	Baubles    ClassConfig
	Seasonal   ClassConfig
	Lights     LightConfig
	// Panels.URLs is the ordered image list from the listing
	// collaborator; empty means no photo panel class.
	Panels PanelConfig
}

// Engine owns the entity populations and advances them once per
// rendering tick. It reads scene state and rotation speed from its
// Controller, which is the single source of truth.
type Engine struct {
	ctrl *Controller

	foliage  *Foliage
	baubles  *Population
	seasonal *Population
	lights   *Lights
	panels   *PhotoPanels
	all      []Advanceable

	debug   bool
	elapsed float64
}

// Default discrete-class counts.
const (
	defaultBaubleCount   = 250
	defaultSeasonalCount = 150
	defaultLightCount    = 500
)

// NewEngine constructs every entity population exactly once from cfg.
// Per-entity parameters are re-randomized on each construction, never
// per frame.
func NewEngine(cfg Config) *Engine {
	rng := newRand(cfg.Seed)
	gen := NewTargetGenerator(cfg.Silhouette, rng)

	if cfg.Baubles.Count == 0 {
		cfg.Baubles.Count = defaultBaubleCount
	}
	if cfg.Seasonal.Count == 0 {
		cfg.Seasonal.Count = defaultSeasonalCount
		if cfg.Seasonal.Scale == (Range{}) {
			cfg.Seasonal.Scale = Range{0.06, 0.12}
		}
		if len(cfg.Seasonal.Palette) == 0 {
			cfg.Seasonal.Palette = []Color{
				{0.95, 0.95, 0.95, 1},
				{0.8, 0.1, 0.1, 1},
				{0.1, 0.55, 0.2, 1},
			}
		}
	}
	if cfg.Lights.Count == 0 {
		cfg.Lights.Count = defaultLightCount
	}

	e := &Engine{
		ctrl:     NewController(),
		foliage:  NewFoliage(cfg.Foliage, gen, rng),
		baubles:  NewPopulation(cfg.Baubles, gen, rng),
		seasonal: NewPopulation(cfg.Seasonal, gen, rng),
		lights:   NewLights(cfg.Lights, gen, rng),
		panels:   NewPhotoPanels(cfg.Panels, gen, rng),
	}
	e.all = []Advanceable{e.foliage, e.baubles, e.seasonal, e.lights, e.panels}
	return e
}

// Controller returns the engine's controller.
func (e *Engine) Controller() *Controller {
	return e.ctrl
}

// Foliage returns the dense foliage point field.
func (e *Engine) Foliage() *Foliage { return e.foliage }

// Baubles returns the bauble population.
func (e *Engine) Baubles() *Population { return e.baubles }

// Seasonal returns the seasonal-element population.
func (e *Engine) Seasonal() *Population { return e.seasonal }

// Lights returns the fairy light population.
func (e *Engine) Lights() *Lights { return e.lights }

// Panels returns the photo panel population (possibly empty).
func (e *Engine) Panels() *PhotoPanels { return e.panels }

// State returns the controller's current scene state.
func (e *Engine) State() SceneState {
	return e.ctrl.State()
}

// SetDebugMode enables per-tick timing stats on stderr.
func (e *Engine) SetDebugMode(enabled bool) {
	e.debug = enabled
}

// Update drains the latest control signal into the controller and
// advances every population by dt seconds. Called once per rendering
// tick by a single logical thread; populations never race because the
// only shared state (scene state, rotation speed) is read-only during
// the tick.
func (e *Engine) Update(dt float64) {
	var t0 time.Time
	var stats tickStats
	if e.debug {
		t0 = time.Now()
	}

	e.ctrl.drain(dt)
	state := e.ctrl.State()

	if e.debug {
		stats.drainTime = time.Since(t0)
		t0 = time.Now()
	}

	for _, pop := range e.all {
		pop.Advance(dt, state)
	}
	e.elapsed += dt

	if e.debug {
		stats.advanceTime = time.Since(t0)
		stats.entityCount = e.foliage.Len() + e.baubles.Len() +
			e.seasonal.Len() + e.lights.Len() + e.panels.Len()
		debugLog(stats)
	}
}
