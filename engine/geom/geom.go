// Package geom holds the degree-based 2D helpers shared by the simulation.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// FromAngle returns a vector of the given length pointing at angle degrees.
func FromAngle(angle, length float32) mgl32.Vec2 {
	rad := float64(mgl32.DegToRad(angle))
	return mgl32.Vec2{float32(math.Cos(rad)) * length, float32(math.Sin(rad)) * length}
}

// AngleTo returns the angle in degrees of the vector from 'from' to 'to'.
func AngleTo(from, to mgl32.Vec2) float32 {
	d := to.Sub(from)
	return mgl32.RadToDeg(float32(math.Atan2(float64(d.Y()), float64(d.X()))))
}

// NormAngle maps a to [0, 360).
func NormAngle(a float32) float32 {
	a = float32(math.Mod(float64(a), 360))
	if a < 0 {
		a += 360
	}
	return a
}

// SignedAngle maps a to [-180, 180).
func SignedAngle(a float32) float32 {
	a = NormAngle(a)
	if a >= 180 {
		a -= 360
	}
	return a
}

// AngleDiff returns the absolute signed-180 distance between two angles.
func AngleDiff(a, b float32) float32 {
	return float32(math.Abs(float64(SignedAngle(a - b))))
}

// Dist returns the distance between two points.
func Dist(a, b mgl32.Vec2) float32 {
	return a.Sub(b).Len()
}

// PlanetPos returns a planet's position given its system position,
// orbital distance and angle.
func PlanetPos(system mgl32.Vec2, distance, angle float32) mgl32.Vec2 {
	return system.Add(FromAngle(angle, distance))
}

// Sign returns 1 for positive values and -1 otherwise.
func Sign(v float32) float32 {
	if v > 0 {
		return 1
	}
	return -1
}

// SegmentHitsCircle reports whether the segment a-b passes within r of c,
// and the fraction along the segment of the closest approach.
func SegmentHitsCircle(a, b, c mgl32.Vec2, r float32) (bool, float32) {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	var t float32
	if l2 > 0 {
		t = c.Sub(a).Dot(ab) / l2
		t = mgl32.Clamp(t, 0, 1)
	}
	closest := a.Add(ab.Mul(t))
	return Dist(closest, c) <= r, t
}
