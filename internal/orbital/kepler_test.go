package orbital

import (
	"math"
	"testing"
	"time"
)

// TestKeplerRoundTrip pins P6: for e < 0.9, the solved eccentric
// anomaly satisfies |E - e*sin(E) - M| < 1e-8.
func TestKeplerRoundTrip(t *testing.T) {
	t.Parallel()
	cases := []struct {
		mean float64
		ecc  float64
	}{
		{0.1, 0.0},
		{1.0, 0.3},
		{2.5, 0.6},
		{5.9, 0.89},
		{0.001, 0.05},
	}
	for _, c := range cases {
		e := SolveEccentricAnomaly(c.mean, c.ecc)
		residual := math.Abs(e - c.ecc*math.Sin(e) - c.mean)
		if residual >= 1e-8 {
			t.Errorf("SolveEccentricAnomaly(%v, %v) residual = %v, want < 1e-8", c.mean, c.ecc, residual)
		}
	}
}

func TestSolveEccentricAnomalyCircularOrbit(t *testing.T) {
	t.Parallel()
	// e=0 means E=M exactly.
	e := SolveEccentricAnomaly(1.234, 0)
	if math.Abs(e-1.234) >= 1e-9 {
		t.Errorf("SolveEccentricAnomaly(1.234, 0) = %v, want 1.234", e)
	}
}

// TestRotation_SignConvention pins the rotate-the-vector 3-2-1 sign
// convention (spec §9 open question): a body in the orbital plane at
// (a, 0) with zero inclination/node/periapsis maps to (a, 0, 0), and
// with a 90° inclination the y-component moves entirely into z.
func TestRotation_SignConvention(t *testing.T) {
	t.Parallel()
	got := Rotate321(10, 0, Elements{})
	want := Vec3{X: 10, Y: 0, Z: 0}
	if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 || math.Abs(got.Z-want.Z) > 1e-9 {
		t.Fatalf("Rotate321(10, 0, zero elements) = %+v, want %+v", got, want)
	}

	rotated := Rotate321(0, 10, Elements{OrbitalInclination: math.Pi / 2})
	if math.Abs(rotated.Y) > 1e-9 {
		t.Errorf("Rotate321 with 90deg inclination: Y = %v, want ~0", rotated.Y)
	}
	if math.Abs(rotated.Z-10) > 1e-9 {
		t.Errorf("Rotate321 with 90deg inclination: Z = %v, want ~10", rotated.Z)
	}
}

func TestPositionZeroEccentricityIsCircle(t *testing.T) {
	t.Parallel()
	p := Position(Elements{SemiMajorAxis: 100, MeanAnomaly: 0})
	// At M=0, E=0, so orbital-plane x = a(1-e) = a, y = 0.
	if math.Abs(p.X-100) > 1e-6 {
		t.Errorf("Position() X = %v, want 100", p.X)
	}
}

func TestChainPositionSumsParentChain(t *testing.T) {
	t.Parallel()
	nodes := map[int32]Node{
		0: {ID: 0, Elements: Elements{}}, // primary star, at origin-ish via zero elements
		1: {ID: 1, Elements: Elements{SemiMajorAxis: 50}, ParentID: int32Ptr(0)},
	}
	pos := ChainPosition(1, nodes)
	// Star at (0,0,0)-equivalent plus planet at (50,0,0)-equivalent.
	want := Position(nodes[0].Elements).Add(Position(nodes[1].Elements))
	if pos != want {
		t.Errorf("ChainPosition(1) = %+v, want %+v", pos, want)
	}
}

func TestChainPositionBreaksCycles(t *testing.T) {
	t.Parallel()
	// Pathological input: a self-referencing parent must not infinite loop.
	nodes := map[int32]Node{
		5: {ID: 5, Elements: Elements{SemiMajorAxis: 1}, ParentID: int32Ptr(5)},
	}
	done := make(chan Vec3, 1)
	go func() { done <- ChainPosition(5, nodes) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ChainPosition did not terminate on a self-referencing parent")
	}
}

func int32Ptr(v int32) *int32 { return &v }
