package gamemath

import "math"

// Clamp clamps v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampSpeed clamps a value to [-max, max].
func ClampSpeed(speed, max float64) float64 {
	return Clamp(speed, -max, max)
}

// Forward returns the unit view direction for a yaw/pitch pair using the
// Y-then-X rotation order of the arena camera. Yaw 0 looks down -Z.
func Forward(yaw, pitch float64) Vec3 {
	cp := math.Cos(pitch)
	return Vec3{
		X: -math.Sin(yaw) * cp,
		Y: math.Sin(pitch),
		Z: -math.Cos(yaw) * cp,
	}
}

// Flat returns the horizontal forward and right unit vectors for a yaw.
func Flat(yaw float64) (forward, right Vec3) {
	sin, cos := math.Sincos(yaw)
	forward = Vec3{X: -sin, Z: -cos}
	right = Vec3{X: cos, Z: -sin}
	return forward, right
}
