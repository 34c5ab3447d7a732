// Package orbital estimates Cartesian positions of star-system bodies
// from their Kepler orbital elements, then plans a short visiting tour
// over the medium/high value bodies via Nearest-Neighbour seeding and
// 2-opt refinement.
package orbital

import "math"

// LightSecond is the conversion factor from metres to light-seconds.
const LightSecond = 299_792_458.0

// Elements are the six Kepler orbital elements plus epoch mean anomaly
// used to estimate a body's position at the moment of scan.
type Elements struct {
	SemiMajorAxis      float64 // a, metres
	Eccentricity       float64 // e
	OrbitalInclination float64 // i, radians
	Periapsis          float64 // ω (argument of periapsis), radians
	AscendingNode      float64 // Ω (longitude of ascending node), radians
	MeanAnomaly        float64 // M, radians
}

// SolveEccentricAnomaly solves Kepler's equation E - e*sin(E) = M via
// Newton's method: 10 iterations or until |ΔE| < 1e-9, per §4.4.
func SolveEccentricAnomaly(meanAnomaly, eccentricity float64) float64 {
	e := meanAnomaly
	for i := 0; i < 10; i++ {
		delta := (e - eccentricity*math.Sin(e) - meanAnomaly) / (1 - eccentricity*math.Cos(e))
		e -= delta
		if math.Abs(delta) < 1e-9 {
			break
		}
	}
	return e
}

// Vec3 is a Cartesian position in metres.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns the vector sum of v and other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Sub returns v minus other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Distance returns the Euclidean distance between v and other, in the
// same unit as their coordinates.
func (v Vec3) Distance(other Vec3) float64 {
	d := v.Sub(other)
	return math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
}

// PlanePosition solves the eccentric anomaly and returns the body's
// position in its own orbital plane, before the 3-2-1 rotation.
func PlanePosition(el Elements) (x, y float64) {
	ecc := SolveEccentricAnomaly(el.MeanAnomaly, el.Eccentricity)
	x = el.SemiMajorAxis * (math.Cos(ecc) - el.Eccentricity)
	y = el.SemiMajorAxis * math.Sqrt(1-el.Eccentricity*el.Eccentricity) * math.Sin(ecc)
	return x, y
}

// Rotate321 applies the standard 3-2-1 Euler rotation (ascending node,
// inclination, argument of periapsis) carrying an orbital-plane
// position into the system reference frame. Two sign conventions exist
// for this rotation in practice (rotating the frame vs. rotating the
// vector); this implementation rotates the vector, matching the
// convention pinned by kepler_test.go's TestRotation_SignConvention.
func Rotate321(x, y float64, el Elements) Vec3 {
	cosO, sinO := math.Cos(el.AscendingNode), math.Sin(el.AscendingNode)
	cosI, sinI := math.Cos(el.OrbitalInclination), math.Sin(el.OrbitalInclination)
	cosW, sinW := math.Cos(el.Periapsis), math.Sin(el.Periapsis)

	// Rotate by argument of periapsis (ω) in the orbital plane.
	xw := x*cosW - y*sinW
	yw := x*sinW + y*cosW

	// Tilt by inclination (i) about the x-axis.
	xi := xw
	yi := yw * cosI
	zi := yw * sinI

	// Rotate by longitude of ascending node (Ω).
	return Vec3{
		X: xi*cosO - yi*sinO,
		Y: xi*sinO + yi*cosO,
		Z: zi,
	}
}

// Position returns a body's position in its own orbital plane rotated
// into the system reference frame, combining PlanePosition and
// Rotate321.
func Position(el Elements) Vec3 {
	x, y := PlanePosition(el)
	return Rotate321(x, y, el)
}
