package conifer

import (
	"math"
	"testing"
)

func testCamera(angle float64) camera {
	sin, cos := math.Sincos(angle)
	return camera{
		sin: sin, cos: cos,
		height: 0,
		dist:   7,
		focal:  240 / math.Tan(55*math.Pi/180/2),
		cx:     320, cy: 240,
	}
}

func TestProjectCentersOrigin(t *testing.T) {
	cam := testCamera(0)
	sx, sy, depth, ok := cam.project(Vec3{})
	if !ok {
		t.Fatal("origin should be visible")
	}
	assertNear(t, "sx", sx, 320)
	assertNear(t, "sy", sy, 240)
	assertNear(t, "depth", depth, 7)
}

func TestProjectRejectsBehindCamera(t *testing.T) {
	cam := testCamera(0)
	if _, _, _, ok := cam.project(Vec3{Z: 7}); ok {
		t.Error("point at the camera plane should be rejected")
	}
	if _, _, _, ok := cam.project(Vec3{Z: 20}); ok {
		t.Error("point behind the camera should be rejected")
	}
	if _, _, _, ok := cam.project(Vec3{Z: 6.5}); !ok {
		t.Error("point just in front of the camera should be visible")
	}
}

func TestProjectPerspectiveShrinksWithDepth(t *testing.T) {
	cam := testCamera(0)
	nearX, _, _, _ := cam.project(Vec3{X: 1, Z: 3})
	farX, _, _, _ := cam.project(Vec3{X: 1, Z: -3})
	if nearX-320 <= farX-320 {
		t.Errorf("near offset %v should exceed far offset %v", nearX-320, farX-320)
	}
}

func TestProjectScreenYGrowsDownward(t *testing.T) {
	cam := testCamera(0)
	_, topY, _, _ := cam.project(Vec3{Y: 1})
	_, bottomY, _, _ := cam.project(Vec3{Y: -1})
	if topY >= 240 || bottomY <= 240 {
		t.Errorf("world up should map above center: top %v, bottom %v", topY, bottomY)
	}
}

func TestProjectOrbitRotation(t *testing.T) {
	// A quarter turn swings a point on +X around to the depth axis.
	cam := testCamera(math.Pi / 2)
	sx, _, depth, ok := cam.project(Vec3{X: 1})
	if !ok {
		t.Fatal("rotated point should be visible")
	}
	assertNear(t, "sx after quarter turn", sx, 320)
	assertNear(t, "depth after quarter turn", depth, 6)
}

func TestColorToRGBAPremultiplies(t *testing.T) {
	c := colorToRGBA(Color{1, 0.5, 0, 0.5})
	if c.A != 127 {
		t.Errorf("A = %d, want 127", c.A)
	}
	if c.R != 127 {
		t.Errorf("R = %d, want premultiplied 127", c.R)
	}
	if c.G != 63 {
		t.Errorf("G = %d, want premultiplied 63", c.G)
	}
	if c.B != 0 {
		t.Errorf("B = %d, want 0", c.B)
	}
}

func TestViewConfigDefaults(t *testing.T) {
	cfg := ViewConfig{}.withDefaults()
	assertNear(t, "FOV", cfg.FOV, 55*math.Pi/180)
	assertNear(t, "Distance", cfg.Distance, 7)
	if cfg.FoliageWorldSize <= 0 || cfg.Background == (Color{}) {
		t.Errorf("defaults not filled: %+v", cfg)
	}

	// Explicit values survive.
	cfg = ViewConfig{Distance: 12}.withDefaults()
	assertNear(t, "custom distance", cfg.Distance, 12)
}
