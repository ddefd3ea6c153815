package conifer

import "testing"

func TestVec3Ops(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, -2, 1}

	sum := a.Add(b)
	if sum != (Vec3{5, 0, 4}) {
		t.Errorf("Add = %v", sum)
	}
	diff := a.Sub(b)
	if diff != (Vec3{-3, 4, 2}) {
		t.Errorf("Sub = %v", diff)
	}
	scaled := a.Scale(2)
	if scaled != (Vec3{2, 4, 6}) {
		t.Errorf("Scale = %v", scaled)
	}
	assertNear(t, "Length", Vec3{3, 4, 0}.Length(), 5)
	assertNear(t, "Dist", Vec3{1, 0, 0}.Dist(Vec3{4, 4, 0}), 5)
}

func TestVec3Lerp(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{10, -10, 4}
	if a.Lerp(b, 0) != a {
		t.Error("Lerp(0) should return start")
	}
	if a.Lerp(b, 1) != b {
		t.Error("Lerp(1) should return end")
	}
	mid := a.Lerp(b, 0.5)
	assertNear(t, "mid.X", mid.X, 5)
	assertNear(t, "mid.Y", mid.Y, -5)
	assertNear(t, "mid.Z", mid.Z, 2)
}

func TestDampFactorRange(t *testing.T) {
	for _, k := range []float64{0.1, 1, 5, 50} {
		for _, dt := range []float64{1.0 / 240, 1.0 / 60, 0.1, 1} {
			f := dampFactor(k, dt)
			if f <= 0 || f >= 1 {
				t.Errorf("dampFactor(%v, %v) = %v, outside (0, 1)", k, dt, f)
			}
		}
	}
}

// Two half-ticks must land on the same point as one full tick: that is
// what makes the damping framerate independent.
func TestDampFactorFramerateIndependent(t *testing.T) {
	const k = 1.3
	start, target := 10.0, 2.0

	full := start + (target-start)*dampFactor(k, 0.5)

	half := start
	half += (target - half) * dampFactor(k, 0.25)
	half += (target - half) * dampFactor(k, 0.25)

	assertNear(t, "two half steps vs one full step", half, full)
}

func TestApproachNeverOvershoots(t *testing.T) {
	pos := Vec3{0, 0, 0}
	target := Vec3{1, 1, 1}
	for i := 0; i < 1000; i++ {
		before := pos.Dist(target)
		pos = pos.approach(target, dampFactor(50, 0.1))
		after := pos.Dist(target)
		if after > before {
			t.Fatalf("tick %d: distance grew from %v to %v", i, before, after)
		}
	}
	if pos.Dist(target) > 1e-6 {
		t.Errorf("did not converge: dist = %v", pos.Dist(target))
	}
}

func TestLerpHelpers(t *testing.T) {
	assertNear(t, "lerp(0,10,0)", lerp(0, 10, 0), 0)
	assertNear(t, "lerp(0,10,0.5)", lerp(0, 10, 0.5), 5)
	assertNear(t, "lerp(0,10,1)", lerp(0, 10, 1), 10)
	if lerp32(0, 10, 0.5) != 5 {
		t.Error("lerp32 midpoint")
	}
}
