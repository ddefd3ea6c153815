package conifer

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// colorToRGBA converts a Color to a premultiplied color.RGBA.
func colorToRGBA(c Color) color.RGBA {
	return color.RGBA{
		R: uint8(c.R * c.A * 255),
		G: uint8(c.G * c.A * 255),
		B: uint8(c.B * c.A * 255),
		A: uint8(c.A * 255),
	}
}

// whitePixel is a 1x1 white image used to draw solid-color quads
// through DrawTriangles.
var whitePixel *ebiten.Image

func init() {
	whitePixel = ebiten.NewImage(1, 1)
	whitePixel.Fill(colorToRGBA(ColorWhite))
}

// ViewConfig controls the bundled renderer's orbit camera and point
// sizing. Zero fields take defaults.
type ViewConfig struct {
	// FOV is the vertical field of view in radians.
	FOV float64
	// Distance is the orbit radius; the camera circles the scene at the
	// controller's accumulated rotation angle.
	Distance float64
	// Height is the camera height above the scene center.
	Height float64
	// FoliageWorldSize is the world-space size of one foliage point
	// before per-point jitter.
	FoliageWorldSize float64
	Background       Color
}

func (c ViewConfig) withDefaults() ViewConfig {
	if c.FOV <= 0 {
		c.FOV = 55 * math.Pi / 180
	}
	if c.Distance <= 0 {
		c.Distance = 7
	}
	if c.Height == 0 {
		c.Height = 1.0
	}
	if c.FoliageWorldSize <= 0 {
		c.FoliageWorldSize = 0.02
	}
	if c.Background == (Color{}) {
		c.Background = Color{0.02, 0.03, 0.06, 1}
	}
	return c
}

// Renderer is the bundled ebiten consumer of the engine's per-entity
// transform stream: a perspective projection with an orbit camera,
// batching everything through DrawTriangles. It is glue — the engine
// never requires it, and any renderer can consume the same stream.
type Renderer struct {
	engine *Engine
	cfg    ViewConfig

	verts  []ebiten.Vertex
	inds   []uint16
	posBuf []Vec3

	foliageColor Color
	lightColor   Color
	panelColor   Color
}

// flush before the uint16 index space runs out.
const maxBatchVerts = 60000

// NewRenderer creates a renderer over the engine.
func NewRenderer(engine *Engine, cfg ViewConfig) *Renderer {
	return &Renderer{
		engine:       engine,
		cfg:          cfg.withDefaults(),
		foliageColor: Color{0.1, 0.5, 0.22, 1},
		lightColor:   Color{1.0, 0.9, 0.55, 1},
		panelColor:   Color{0.92, 0.9, 0.85, 1},
	}
}

// Config returns a pointer to the renderer's config for live tuning.
func (r *Renderer) Config() *ViewConfig {
	return &r.cfg
}

// camera carries the per-frame projection parameters.
type camera struct {
	sin, cos float64 // orbit rotation
	height   float64
	dist     float64
	focal    float64
	cx, cy   float64
}

func (r *Renderer) camera(screen *ebiten.Image) camera {
	b := screen.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	sin, cos := math.Sincos(r.engine.Controller().Angle())
	return camera{
		sin: sin, cos: cos,
		height: r.cfg.Height,
		dist:   r.cfg.Distance,
		focal:  h / 2 / math.Tan(r.cfg.FOV/2),
		cx:     w / 2,
		cy:     h / 2,
	}
}

// project maps a world position to screen coordinates plus view depth.
// ok is false for points at or behind the camera plane.
func (c camera) project(p Vec3) (sx, sy, depth float64, ok bool) {
	// Scene rotation: orbiting the camera is rotating the world.
	x := p.X*c.cos - p.Z*c.sin
	z := p.X*c.sin + p.Z*c.cos
	depth = c.dist - z
	if depth < 0.1 {
		return 0, 0, 0, false
	}
	sx = c.cx + c.focal*x/depth
	sy = c.cy - c.focal*(p.Y-c.height*0.3)/depth
	return sx, sy, depth, true
}

// Draw renders the current engine state to screen.
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Fill(colorToRGBA(r.cfg.Background))
	cam := r.camera(screen)

	// Foliage, ornaments, and panels in one alpha-blended batch.
	r.verts = r.verts[:0]
	r.inds = r.inds[:0]

	r.posBuf = r.engine.Foliage().Positions(r.posBuf[:0])
	foliage := r.engine.Foliage()
	for i, p := range r.posBuf {
		sx, sy, depth, ok := cam.project(p)
		if !ok {
			continue
		}
		half := cam.focal * r.cfg.FoliageWorldSize * foliage.PointSize(i) / depth / 2
		r.appendQuad(screen, sx, sy, half, 0, r.foliageColor)
	}

	state := r.engine.State()
	for _, pop := range []*Population{r.engine.Baubles(), r.engine.Seasonal()} {
		for i := 0; i < pop.Len(); i++ {
			pos, rot, scale := pop.Transform(i, state)
			sx, sy, depth, ok := cam.project(pos)
			if !ok {
				continue
			}
			half := cam.focal * scale / depth / 2
			r.appendQuad(screen, sx, sy, half, rot.Z, pop.EntityColor(i))
		}
	}

	panels := r.engine.Panels()
	for i := 0; i < panels.Len(); i++ {
		sx, sy, depth, ok := cam.project(panels.Position(i))
		if !ok {
			continue
		}
		half := cam.focal * panels.Scale(i) / depth / 2
		angle := 0.0
		if state == StateChaos {
			angle = panels.Rotation(i).Z
		}
		r.appendRect(screen, sx, sy, half*1.4, half, angle, r.panelColor)
	}
	r.flush(screen, ebiten.BlendSourceOver)

	// Lights in a separate additive batch scaled by emissive intensity.
	lights := r.engine.Lights()
	for i := 0; i < lights.Len(); i++ {
		sx, sy, depth, ok := cam.project(lights.Position(i))
		if !ok {
			continue
		}
		half := cam.focal * 0.018 / depth
		col := r.lightColor
		col.A = lights.Intensity(i)
		r.appendQuad(screen, sx, sy, half, 0, col)
	}
	r.flush(screen, ebiten.BlendLighter)
}

// appendQuad appends a rotated square centered at (cx, cy).
func (r *Renderer) appendQuad(screen *ebiten.Image, cx, cy, half, angle float64, col Color) {
	r.appendRect(screen, cx, cy, half, half, angle, col)
}

// appendRect appends a rotated rectangle with the given half extents.
// Flushes the running batch when the index space is nearly full.
func (r *Renderer) appendRect(screen *ebiten.Image, cx, cy, hw, hh, angle float64, col Color) {
	if len(r.verts)+4 > maxBatchVerts {
		r.flush(screen, ebiten.BlendSourceOver)
	}

	sin, cos := math.Sincos(angle)
	base := uint16(len(r.verts))

	// Premultiplied vertex colors, as DrawTriangles expects.
	cr := float32(col.R * col.A)
	cg := float32(col.G * col.A)
	cb := float32(col.B * col.A)
	ca := float32(col.A)

	corners := [4][2]float64{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}
	for _, c := range corners {
		x := cx + c[0]*cos - c[1]*sin
		y := cy + c[0]*sin + c[1]*cos
		r.verts = append(r.verts, ebiten.Vertex{
			DstX: float32(x), DstY: float32(y),
			SrcX: 0.5, SrcY: 0.5,
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
		})
	}
	r.inds = append(r.inds, base, base+1, base+2, base, base+2, base+3)
}

// flush submits and clears the running batch.
func (r *Renderer) flush(screen *ebiten.Image, blend ebiten.Blend) {
	if len(r.inds) == 0 {
		return
	}
	op := &ebiten.DrawTrianglesOptions{Blend: blend, AntiAlias: false}
	screen.DrawTriangles(r.verts, r.inds, whitePixel, op)
	r.verts = r.verts[:0]
	r.inds = r.inds[:0]
}
